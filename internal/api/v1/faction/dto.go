package faction

type AllegianceRequest struct {
	FactionID string `json:"faction_id" binding:"required"`
}

type ReputationRequest struct {
	FactionID string `json:"faction_id" binding:"required"`
	Delta     int    `json:"delta" binding:"required"`
}

type ClaimRequest struct {
	TerritoryID string `json:"territory_id" binding:"required"`
}
