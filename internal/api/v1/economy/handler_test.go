package economy_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"anomaly-economy/internal/api/v1/economy"
	"anomaly-economy/internal/database"
	"anomaly-economy/internal/models"

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
	}
	db.Migrator().DropTable(tables...)
	db.AutoMigrate(tables...)

	database.DB = db
	database.RedisClient = nil
}

func setupRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	economy.RegisterRoutes(r.Group("/"))
	return r
}

func TestGetAccountCreatesUser(t *testing.T) {
	setupTestDB()
	r := setupRouter()

	req, _ := http.NewRequest(http.MethodGet, "/economy/vault_dweller", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Status int         `json:"status"`
		Data   models.User `json:"data"`
	}
	json.Unmarshal(w.Body.Bytes(), &resp)
	assert.Equal(t, 200, resp.Status)
	assert.Equal(t, "vault_dweller", resp.Data.ID)

	var count int64
	database.DB.Model(&models.User{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestTransferEndpoint(t *testing.T) {
	setupTestDB()
	r := setupRouter()

	database.DB.Create(&models.User{ID: "rich", Balance: 500, Level: 1})
	database.DB.Create(&models.User{ID: "poor", Balance: 0, Level: 1})

	body, _ := json.Marshal(economy.TransferRequest{
		From: "rich", To: "poor", Amount: 200, Reason: "trade",
	})
	req, _ := http.NewRequest(http.MethodPost, "/economy/transfer", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var from, to models.User
	database.DB.First(&from, "id = ?", "rich")
	database.DB.First(&to, "id = ?", "poor")
	assert.Equal(t, int64(300), from.Balance)
	assert.Equal(t, int64(200), to.Balance)
}

func TestTransferInsufficientFunds(t *testing.T) {
	setupTestDB()
	r := setupRouter()

	database.DB.Create(&models.User{ID: "rich", Balance: 50, Level: 1})
	database.DB.Create(&models.User{ID: "poor", Balance: 0, Level: 1})

	body, _ := json.Marshal(economy.TransferRequest{
		From: "rich", To: "poor", Amount: 200,
	})
	req, _ := http.NewRequest(http.MethodPost, "/economy/transfer", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)

	var from models.User
	database.DB.First(&from, "id = ?", "rich")
	assert.Equal(t, int64(50), from.Balance)
}

func TestTransferValidation(t *testing.T) {
	setupTestDB()
	r := setupRouter()

	// Missing "to" and a non-positive amount both fail binding.
	body := []byte(`{"from": "rich", "amount": -5}`)
	req, _ := http.NewRequest(http.MethodPost, "/economy/transfer", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestClaimDailyEndpoint(t *testing.T) {
	setupTestDB()
	r := setupRouter()

	database.DB.Create(&models.User{ID: "dweller", Balance: 0, Level: 1})

	req, _ := http.NewRequest(http.MethodPost, "/economy/dweller/daily", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	var u models.User
	database.DB.First(&u, "id = ?", "dweller")
	assert.Equal(t, int64(100), u.Balance)

	// Second claim inside the window is rejected with the remaining wait.
	req, _ = http.NewRequest(http.MethodPost, "/economy/dweller/daily", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusConflict, w.Code)

	var resp struct {
		Status int `json:"status"`
		Data   struct {
			Kind             string  `json:"kind"`
			RemainingSeconds float64 `json:"remaining_seconds"`
		} `json:"data"`
	}
	json.Unmarshal(w.Body.Bytes(), &resp)
	assert.Equal(t, "daily", resp.Data.Kind)
	assert.Greater(t, resp.Data.RemainingSeconds, float64(0))
}

func TestListRecordsEndpoint(t *testing.T) {
	setupTestDB()
	r := setupRouter()

	database.DB.Create(&models.User{ID: "dweller", Balance: 0, Level: 1})

	// Seed an audit row through the daily claim.
	req, _ := http.NewRequest(http.MethodPost, "/economy/dweller/daily", nil)
	r.ServeHTTP(httptest.NewRecorder(), req)

	req, _ = http.NewRequest(http.MethodGet, "/economy/dweller/records?type=reward", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Status int `json:"status"`
		Data   economy.RecordListResponse `json:"data"`
	}
	json.Unmarshal(w.Body.Bytes(), &resp)
	assert.Equal(t, int64(1), resp.Data.Total)
	assert.Len(t, resp.Data.Items, 1)
	assert.Equal(t, models.CapRecordReward, resp.Data.Items[0].Type)
}
