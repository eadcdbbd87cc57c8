package admin

// AdjustRequest credits or debits a user's balance. Negative amounts debit.
type AdjustRequest struct {
	UserID string `json:"user_id" binding:"required"`
	Amount int64  `json:"amount" binding:"required"`
	Reason string `json:"reason" binding:"required"`
}

type AwardXPRequest struct {
	UserID string `json:"user_id" binding:"required"`
	Amount int64  `json:"amount" binding:"required,gt=0"`
	Reason string `json:"reason" binding:"required"`
}

type GrantStatPointsRequest struct {
	UserID string `json:"user_id" binding:"required"`
	Amount int    `json:"amount" binding:"required,gt=0"`
}

type ReputationRequest struct {
	UserID    string `json:"user_id" binding:"required"`
	FactionID string `json:"faction_id" binding:"required"`
	Delta     int    `json:"delta" binding:"required"`
}

type DonorRequest struct {
	UserID string `json:"user_id" binding:"required"`
	Tier   string `json:"tier" binding:"required,oneof=bronze silver gold platinum"`
}

type GrantItemRequest struct {
	UserID string `json:"user_id" binding:"required"`
	ItemID string `json:"item_id" binding:"required"`
	Amount int    `json:"amount" binding:"required,gt=0"`
}
