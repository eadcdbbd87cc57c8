package faction_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"anomaly-economy/internal/api/v1/faction"
	"anomaly-economy/internal/database"
	"anomaly-economy/internal/models"
	"anomaly-economy/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB() {
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	if err != nil {
		panic("failed to connect database")
	}

	tables := []interface{}{
		&models.User{}, &models.CapRecord{}, &models.Cooldown{},
		&models.Item{}, &models.Faction{}, &models.FactionStanding{},
		&models.Allegiance{}, &models.FactionHostility{},
		&models.Territory{}, &models.ReputationLog{},
	}
	db.Migrator().DropTable(tables...)
	db.AutoMigrate(tables...)

	database.DB = db
	database.RedisClient = nil
	database.Seed(db)
}

func setupRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	faction.RegisterRoutes(r.Group("/"))
	return r
}

func postReputation(r *gin.Engine, userID string, req faction.ReputationRequest) *httptest.ResponseRecorder {
	body, _ := json.Marshal(req)
	httpReq, _ := http.NewRequest(http.MethodPost, "/factions/"+userID+"/reputation", bytes.NewReader(body))
	httpReq.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httpReq)
	return w
}

func TestModifyReputationEndpoint(t *testing.T) {
	setupTestDB()
	r := setupRouter()

	w := postReputation(r, "wanderer", faction.ReputationRequest{
		FactionID: "railroad", Delta: 8,
	})
	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Status int                       `json:"status"`
		Data   services.ReputationChange `json:"data"`
	}
	json.Unmarshal(w.Body.Bytes(), &resp)
	assert.Equal(t, 8, resp.Data.Applied)
	assert.False(t, resp.Data.Throttled)

	// Gains through this surface count against the daily cap.
	w = postReputation(r, "wanderer", faction.ReputationRequest{
		FactionID: "railroad", Delta: 8,
	})
	assert.Equal(t, http.StatusOK, w.Code)
	json.Unmarshal(w.Body.Bytes(), &resp)
	assert.Equal(t, 2, resp.Data.Applied)
	assert.True(t, resp.Data.Throttled)
}

func TestModifyReputationEndpointUnknownFaction(t *testing.T) {
	setupTestDB()
	r := setupRouter()

	w := postReputation(r, "wanderer", faction.ReputationRequest{
		FactionID: "enclave_remnant", Delta: 5,
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
}
