package handler

import (
	"bytes"
	"context"
	"mime"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/bitfantasy/bws/internal/config"
	"github.com/bitfantasy/bws/internal/erp/entity"
	"github.com/bitfantasy/bws/internal/erp/repository"
	"github.com/bitfantasy/bws/internal/erp/service"
	"github.com/bitfantasy/bws/internal/sse"
	"github.com/bitfantasy/bws/internal/testutil"
	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

func setupTest(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	repos := repository.NewRepositories(db)
	if err := repository.SeedDefaults(context.Background(), repos); err != nil {
		t.Fatalf("seed: %v", err)
	}

	cfg := &config.Config{
		JWT:    config.JWTConfig{Secret: testutil.JWTSecret, AccessTokenExpire: time.Hour, Issuer: "bws"},
		Export: config.ExportConfig{CompanyName: "BWS"},
		Search: config.SearchConfig{Debounce: 300 * time.Millisecond},
	}
	hub := sse.NewHub(nil)
	svc, err := service.NewServices(repos, nil, hub, cfg, nil)
	if err != nil {
		t.Fatalf("NewServices: %v", err)
	}

	router := testutil.SetupRouter()
	RegisterRoutes(router.Group("/api/v1"), NewHandlers(svc, hub), testutil.JWTSecret)
	return router, db
}

func purchaseBody(id string) map[string]interface{} {
	return map[string]interface{}{
		"id":            id,
		"serial_no":     "SN-" + id,
		"truck_no":      "T-123",
		"origin":        "Main Quarry",
		"material_code": `10-20 mm (3/4")`,
		"gross_weight":  45000,
		"tare_weight":   15000,
	}
}

func TestLogin(t *testing.T) {
	router, _ := setupTest(t)

	w := testutil.DoRequest(router, "POST", "/api/v1/auth/login", map[string]string{"username": "admin", "password": "bws123"}, "")
	if w.Code != http.StatusOK {
		t.Fatalf("login status = %d: %s", w.Code, w.Body.String())
	}
	token, _ := testutil.Data(t, w)["access_token"].(string)
	if token == "" {
		t.Fatal("no access token")
	}

	w = testutil.DoRequest(router, "GET", "/api/v1/auth/me", nil, token)
	if me := testutil.Data(t, w); me["name"] != "Admin User" {
		t.Errorf("me = %v", me)
	}

	w = testutil.DoRequest(router, "POST", "/api/v1/auth/login", map[string]string{"username": "admin", "password": "nope"}, "")
	if w.Code != http.StatusUnauthorized {
		t.Errorf("bad password status = %d", w.Code)
	}
	if resp := testutil.ParseResponse(w); resp["code"] != float64(CodeInvalidCredentials) {
		t.Errorf("code = %v", resp["code"])
	}

	w = testutil.DoRequest(router, "GET", "/api/v1/purchase-tickets", nil, "")
	if w.Code != http.StatusUnauthorized {
		t.Errorf("anonymous list status = %d", w.Code)
	}
}

func TestSettings(t *testing.T) {
	router, _ := setupTest(t)

	w := testutil.DoRequest(router, "GET", "/api/v1/settings", nil, testutil.AccountsToken())
	if w.Code != http.StatusOK {
		t.Fatalf("settings status = %d: %s", w.Code, w.Body.String())
	}
	data := testutil.Data(t, w)
	if data["search_debounce_ms"] != float64(300) || data["company_name"] != "BWS" {
		t.Errorf("settings = %v", data)
	}
}

func TestRoleGating(t *testing.T) {
	router, _ := setupTest(t)
	accounts := testutil.AccountsToken()

	tests := []struct {
		path string
		want int
	}{
		{"/api/v1/purchase-tickets", http.StatusOK},
		{"/api/v1/sales-tickets", http.StatusOK},
		{"/api/v1/raw-materials", http.StatusForbidden},
		{"/api/v1/suppliers", http.StatusForbidden},
		{"/api/v1/activity-logs", http.StatusForbidden},
	}
	for _, tt := range tests {
		w := testutil.DoRequest(router, "GET", tt.path, nil, accounts)
		if w.Code != tt.want {
			t.Errorf("GET %s as Accounts = %d, want %d", tt.path, w.Code, tt.want)
		}
	}

	w := testutil.DoRequest(router, "GET", "/api/v1/navigation", nil, accounts)
	items, _ := testutil.ParseResponse(w)["data"].([]interface{})
	var paths []string
	for _, it := range items {
		paths = append(paths, it.(map[string]interface{})["path"].(string))
	}
	if strings.Join(paths, ",") != "/,/sales,/purchases" {
		t.Errorf("Accounts navigation = %v", paths)
	}
}

func TestPurchaseTicketCRUD(t *testing.T) {
	router, _ := setupTest(t)
	token := testutil.AdminToken()

	w := testutil.DoRequest(router, "POST", "/api/v1/purchase-tickets", purchaseBody("PT-001"), token)
	if w.Code != http.StatusCreated {
		t.Fatalf("create status = %d: %s", w.Code, w.Body.String())
	}
	data := testutil.Data(t, w)
	if data["net_weight"] != float64(30000) || data["operator_name"] != "Admin User" || data["status"] != "Pending" {
		t.Errorf("created = %v", data)
	}

	w = testutil.DoRequest(router, "POST", "/api/v1/purchase-tickets", purchaseBody("PT-001"), token)
	if w.Code != http.StatusConflict {
		t.Fatalf("duplicate status = %d", w.Code)
	}
	resp := testutil.ParseResponse(w)
	if resp["code"] != float64(CodeDuplicateTicketNo) || resp["message"] != "This Ticket No already exists." {
		t.Errorf("duplicate response = %v", resp)
	}

	w = testutil.DoRequest(router, "POST", "/api/v1/purchase-tickets", purchaseBody(""), token)
	resp = testutil.ParseResponse(w)
	if w.Code != http.StatusBadRequest || resp["message"] != "Ticket No is required." {
		t.Errorf("missing id response = %d %v", w.Code, resp)
	}

	body := purchaseBody("PT-002")
	delete(body, "origin")
	w = testutil.DoRequest(router, "POST", "/api/v1/purchase-tickets", body, token)
	resp = testutil.ParseResponse(w)
	if w.Code != http.StatusBadRequest || resp["code"] != float64(CodeInvalidField) {
		t.Errorf("missing origin response = %d %v", w.Code, resp)
	}

	w = testutil.DoRequest(router, "GET", "/api/v1/purchase-tickets/check-id?id=PT-001", nil, token)
	if d := testutil.Data(t, w); d["available"] != false || d["message"] != "This Ticket No already exists." {
		t.Errorf("check-id = %v", d)
	}
	w = testutil.DoRequest(router, "GET", "/api/v1/purchase-tickets/check-id?id=PT-002", nil, token)
	if d := testutil.Data(t, w); d["available"] != true {
		t.Errorf("check-id PT-002 = %v", d)
	}

	w = testutil.DoRequest(router, "POST", "/api/v1/purchase-tickets/preview", map[string]interface{}{
		"gross_weight": 1000, "tare_weight": "N/A",
	}, token)
	if d := testutil.Data(t, w); d["net_weight"] != "N/A" {
		t.Errorf("preview net = %v", d["net_weight"])
	}

	w = testutil.DoRequest(router, "PUT", "/api/v1/purchase-tickets/PT-001", map[string]interface{}{
		"id": "PT-777", "tare_weight": 16000, "status": "Received",
	}, token)
	if w.Code != http.StatusOK {
		t.Fatalf("update status = %d: %s", w.Code, w.Body.String())
	}
	if d := testutil.Data(t, w); d["id"] != "PT-001" || d["net_weight"] != float64(29000) || d["status"] != "Received" {
		t.Errorf("updated = %v", d)
	}

	w = testutil.DoRequest(router, "GET", "/api/v1/purchase-tickets?status=Received&search=t-123", nil, token)
	list := testutil.Data(t, w)
	if items := list["items"].([]interface{}); len(items) != 1 {
		t.Errorf("filtered list = %v", items)
	}
	w = testutil.DoRequest(router, "GET", "/api/v1/purchase-tickets?status=Pending", nil, token)
	if items := testutil.Data(t, w)["items"].([]interface{}); len(items) != 0 {
		t.Errorf("pending list = %v", items)
	}

	w = testutil.DoRequest(router, "DELETE", "/api/v1/purchase-tickets/PT-001", nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("delete status = %d", w.Code)
	}
	w = testutil.DoRequest(router, "GET", "/api/v1/purchase-tickets/PT-001", nil, token)
	if w.Code != http.StatusNotFound {
		t.Errorf("get after delete = %d", w.Code)
	}

	w = testutil.DoRequest(router, "GET", "/api/v1/activity-logs?entity_type=purchase_ticket", nil, token)
	pagination := testutil.Data(t, w)["pagination"].(map[string]interface{})
	if pagination["total"] != float64(3) {
		t.Errorf("expected create, update and delete logs, got %v", pagination["total"])
	}
}

func TestTicketExports(t *testing.T) {
	router, db := setupTest(t)
	token := testutil.AdminToken()
	testutil.SeedPurchaseTicket(t, db, "PT-001", "2023-10-28", "T-123", entity.PurchaseStatusReceived, 45000, 15000)
	testutil.SeedPurchaseTicket(t, db, "PT-002", "2023-10-29", "X-9", entity.PurchaseStatusPending, 20000, 5000)

	w := testutil.DoRequest(router, "GET", "/api/v1/purchase-tickets/PT-001/export/pdf", nil, token)
	if w.Code != http.StatusOK || w.Header().Get("Content-Type") != "application/pdf" {
		t.Fatalf("pdf status = %d, type = %s", w.Code, w.Header().Get("Content-Type"))
	}
	if !strings.Contains(w.Header().Get("Content-Disposition"), "Purchase_Ticket_PT-001.pdf") {
		t.Errorf("disposition = %s", w.Header().Get("Content-Disposition"))
	}
	if !bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF")) {
		t.Errorf("body is not a pdf")
	}

	w = testutil.DoRequest(router, "GET", "/api/v1/purchase-tickets/PT-001/export/csv", nil, token)
	lines := strings.Split(strings.TrimSpace(w.Body.String()), "\n")
	if len(lines) != 2 || !strings.HasPrefix(lines[0], "id,serial_no,date") || !strings.HasPrefix(lines[1], "PT-001,") {
		t.Errorf("csv = %q", w.Body.String())
	}

	w = testutil.DoRequest(router, "GET", "/api/v1/purchase-tickets/PT-001/export/mailto", nil, token)
	if url, _ := testutil.Data(t, w)["url"].(string); !strings.HasPrefix(url, "mailto:?subject=Purchase%20Ticket%20Details%3A%20PT-001") {
		t.Errorf("mailto = %s", url)
	}

	w = testutil.DoRequest(router, "GET", "/api/v1/purchase-tickets/PT-001/export/print", nil, token)
	page, err := goquery.NewDocumentFromReader(w.Body)
	if err != nil {
		t.Fatalf("parse print page: %v", err)
	}
	if got := page.Find(".company").Text(); got != "BWS" {
		t.Errorf("company = %q", got)
	}

	w = testutil.DoRequest(router, "GET", "/api/v1/purchase-tickets/export/xlsx?status=Received", nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("xlsx status = %d: %s", w.Code, w.Body.String())
	}
	f, err := excelize.OpenReader(w.Body)
	if err != nil {
		t.Fatalf("open xlsx: %v", err)
	}
	defer f.Close()
	rows, err := f.GetRows("Purchase_Tickets")
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	if len(rows) != 3 || rows[1][0] != "PT-001" {
		t.Errorf("expected one filtered ticket plus header and total, got %v", rows)
	}

	w = testutil.DoRequest(router, "GET", "/api/v1/purchase-tickets/PT-404/export/pdf", nil, token)
	if w.Code != http.StatusNotFound {
		t.Errorf("missing ticket pdf = %d", w.Code)
	}
}

func TestMixDesign(t *testing.T) {
	router, _ := setupTest(t)
	token := testutil.AdminToken()

	w := testutil.DoRequest(router, "GET", "/api/v1/raw-materials/mix-design", nil, token)
	if d := testutil.Data(t, w); d["balanced"] != true {
		t.Errorf("seeded mix design = %v", d)
	}

	body := map[string]interface{}{"proportions": map[string]string{"RM-005": "6"}}
	w = testutil.DoRequest(router, "PUT", "/api/v1/raw-materials/mix-design", body, token)
	if w.Code != http.StatusConflict {
		t.Fatalf("unbalanced save = %d: %s", w.Code, w.Body.String())
	}
	if d := testutil.Data(t, w); d["total"] != "102.00" {
		t.Errorf("warning total = %v", d)
	}

	body["force"] = true
	w = testutil.DoRequest(router, "PUT", "/api/v1/raw-materials/mix-design", body, token)
	if w.Code != http.StatusOK {
		t.Fatalf("forced save = %d: %s", w.Code, w.Body.String())
	}
	if d := testutil.Data(t, w); d["balanced"] != false {
		t.Errorf("forced design = %v", d)
	}

	w = testutil.DoRequest(router, "PUT", "/api/v1/raw-materials/RM-005", map[string]string{"stock": "4"}, token)
	if w.Code != http.StatusOK {
		t.Fatalf("update = %d: %s", w.Code, w.Body.String())
	}
	d := testutil.Data(t, w)
	mix, _ := d["mix_design"].(map[string]interface{})
	if d["id"] != "RM-005" || mix["total"] != "100.00" || mix["balanced"] != true {
		t.Errorf("update response = %v", d)
	}
}

func TestSuppliers(t *testing.T) {
	router, _ := setupTest(t)
	token := testutil.AdminToken()

	w := testutil.DoRequest(router, "POST", "/api/v1/suppliers", map[string]string{"contact_person": "No Name"}, token)
	if w.Code != http.StatusBadRequest {
		t.Errorf("nameless supplier = %d", w.Code)
	}

	w = testutil.DoRequest(router, "POST", "/api/v1/suppliers", map[string]string{"name": "Gulf Aggregates"}, token)
	if d := testutil.Data(t, w); d["id"] != "SUP-006" {
		t.Errorf("new supplier = %v", d)
	}

	w = testutil.DoRequest(router, "DELETE", "/api/v1/suppliers", map[string][]string{"ids": {"SUP-001", "SUP-002"}}, token)
	if d := testutil.Data(t, w); d["deleted"] != float64(2) {
		t.Errorf("bulk delete = %v", d)
	}

	w = testutil.DoRequest(router, "GET", "/api/v1/suppliers", nil, token)
	if items := testutil.Data(t, w)["items"].([]interface{}); len(items) != 4 {
		t.Errorf("expected 4 suppliers, got %d", len(items))
	}
}

func TestTicketExport_UnsafeTicketNoInFileName(t *testing.T) {
	router, db := setupTest(t)
	token := testutil.AdminToken()
	testutil.SeedPurchaseTicket(t, db, "PT\"1 x", "2023-10-28", "T-123", entity.PurchaseStatusReceived, 45000, 15000)

	w := testutil.DoRequest(router, "GET", "/api/v1/purchase-tickets/PT%221%20x/export/pdf", nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("pdf status = %d: %s", w.Code, w.Body.String())
	}
	disposition, params, err := mime.ParseMediaType(w.Header().Get("Content-Disposition"))
	if err != nil {
		t.Fatalf("malformed disposition %q: %v", w.Header().Get("Content-Disposition"), err)
	}
	if disposition != "attachment" || params["filename"] != "Purchase_Ticket_PT_1_x.pdf" {
		t.Errorf("disposition = %s %v", disposition, params)
	}
}
