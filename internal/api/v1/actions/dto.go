package actions

type RobRequest struct {
	Target string `json:"target" binding:"required"`
}

type WagerRequest struct {
	Bet int64 `json:"bet" binding:"required,gt=0"`
}
