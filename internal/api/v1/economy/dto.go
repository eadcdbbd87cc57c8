package economy

import "anomaly-economy/internal/models"

type TransferRequest struct {
	From   string `json:"from" binding:"required"`
	To     string `json:"to" binding:"required"`
	Amount int64  `json:"amount" binding:"required,gt=0"`
	Reason string `json:"reason"`
}

type RecordListResponse struct {
	Total int64              `json:"total"`
	Items []models.CapRecord `json:"items"`
}
