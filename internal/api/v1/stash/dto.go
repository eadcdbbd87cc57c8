package stash

type AmountRequest struct {
	Amount int64 `json:"amount" binding:"required,gt=0"`
}
