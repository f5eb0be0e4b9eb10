package testutil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bitfantasy/bws/internal/erp/entity"
	"github.com/bitfantasy/bws/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	JWTSecret = "bws-test-jwt-secret"
)

// SetupTestDB opens a private in-memory sqlite database with every table
// migrated. The database lives as long as the test.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:bws_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("Failed to get sql.DB: %v", err)
	}
	// one connection keeps the in-memory database alive and serialises writers
	sqlDB.SetMaxOpenConns(1)

	if err := entity.AutoMigrate(db); err != nil {
		t.Fatalf("Failed to migrate test tables: %v", err)
	}

	t.Cleanup(func() {
		sqlDB.Close()
	})

	return db
}

// SetupRouter creates a gin test router
func SetupRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(gin.Recovery())
	return r
}

// AuthGroup creates an API group with JWT auth middleware for testing
func AuthGroup(r *gin.Engine, path string) *gin.RouterGroup {
	return r.Group(path, middleware.JWTAuth(JWTSecret))
}

// GenerateTestToken creates a valid JWT token for testing
func GenerateTestToken(userID, name string, roles []string) string {
	if roles == nil {
		roles = []string{}
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   userID,
		"uid":   userID,
		"name":  name,
		"email": userID + "@bws.test",
		"roles": roles,
		"iss":   "bws",
		"iat":   now.Unix(),
		"exp":   now.Add(24 * time.Hour).Unix(),
		"jti":   fmt.Sprintf("test-jti-%d", now.UnixNano()),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, _ := token.SignedString([]byte(JWTSecret))
	return tokenString
}

// AdminToken returns a token for an Admin test user
func AdminToken() string {
	return GenerateTestToken("U001", "Admin User", []string{"Admin"})
}

// AccountsToken returns a token for an Accounts test user
func AccountsToken() string {
	return GenerateTestToken("U002", "Accounts User", []string{"Accounts"})
}

// DoRequest executes an HTTP request against the test router
func DoRequest(r http.Handler, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer
	if body != nil {
		jsonBytes, _ := json.Marshal(body)
		reqBody = bytes.NewBuffer(jsonBytes)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req, _ := http.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// ParseResponse parses the JSON response body into a handler.Response-like map
func ParseResponse(w *httptest.ResponseRecorder) map[string]interface{} {
	var result map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &result)
	return result
}

// Data returns the "data" object of an enveloped response
func Data(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	resp := ParseResponse(w)
	data, ok := resp["data"].(map[string]interface{})
	if !ok {
		t.Fatalf("response has no data object: %s", w.Body.String())
	}
	return data
}

// SeedPurchaseTicket inserts a purchase ticket directly
func SeedPurchaseTicket(t *testing.T, db *gorm.DB, id, date, truck, status string, gross, tare int64) *entity.PurchaseTicket {
	t.Helper()
	pt := &entity.PurchaseTicket{
		TicketCore: entity.TicketCore{
			ID:           id,
			Date:         date,
			CustomerName: "Central Quarry",
			TruckNo:      truck,
			Transporter:  "RAD INTERNATIONAL",
			MaterialCode: `10-20 mm (3/4")`,
			Destination:  "DIC-100 ASPHALT PLANT",
			OperatorName: "Admin User",
			GrossWeight:  entity.KilogramsInt(gross),
			TareWeight:   entity.KilogramsInt(tare),
		},
		SerialNo: "SN-" + id,
		Origin:   "Main Quarry",
		PONo:     "PO-" + id,
		Status:   status,
	}
	if gross > tare {
		pt.NetWeight = entity.KilogramsInt(gross - tare)
	} else {
		pt.NetWeight = entity.KilogramsInt(0)
	}
	if err := db.Create(pt).Error; err != nil {
		t.Fatalf("Failed to seed purchase ticket: %v", err)
	}
	return pt
}
