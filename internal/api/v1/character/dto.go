package character

type SpendStatRequest struct {
	Stat string `json:"stat" binding:"required,oneof=strength perception endurance charisma intelligence agility luck"`
}

type AwardXPRequest struct {
	Amount int64  `json:"amount" binding:"required,gt=0"`
	Reason string `json:"reason" binding:"required"`
}

type ItemRequest struct {
	ItemID string `json:"item_id" binding:"required"`
}

type BuyRequest struct {
	ItemID   string `json:"item_id" binding:"required"`
	Quantity int    `json:"quantity" binding:"required,gt=0"`
}
