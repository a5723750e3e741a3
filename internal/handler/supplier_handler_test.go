package handler

import (
	"net/http"
	"testing"
	"time"

	"github.com/Sachinsen7/grin/internal/middleware"
	"github.com/Sachinsen7/grin/internal/model"
	"github.com/Sachinsen7/grin/internal/repository"
	"github.com/Sachinsen7/grin/internal/service"
	"github.com/Sachinsen7/grin/internal/testutil"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func setupSupplierRouter(t *testing.T) (*gin.Engine, *gorm.DB, string) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	r := testutil.SetupRouter(t)

	accountRepo := repository.NewAccountRepository(db)
	supplierRepo := repository.NewSupplierRepository(db)
	gsnRepo := repository.NewGsnRepository(db)
	h := NewSupplierHandler(service.NewSupplierService(supplierRepo, gsnRepo, repository.NewTransactionManager(db)))

	group := r.Group("/api", middleware.Authenticate(accountRepo))
	h.RegisterRoutes(group)

	admin := testutil.SeedAccount(t, db, model.RoleAdmin, "admin", "password123")
	return r, db, testutil.TokenFor(t, admin)
}

func seedGsnForParty(t *testing.T, db *gorm.DB, party, address string, total int64) {
	t.Helper()
	entry := &model.GsnEntry{
		ID:          uuid.New(),
		GrinNo:      uuid.NewString()[:8],
		GsnNo:       "GSN-1",
		PartyName:   party,
		Address:     address,
		GstNo:       "27AAAAA0000A1Z5",
		MobileNo:    "9000000000",
		TotalAmount: decimal.NewFromInt(total),
	}
	if err := db.Create(entry).Error; err != nil {
		t.Fatalf("seed gsn entry: %v", err)
	}
}

func supplierByName(views []interface{}, party string) map[string]interface{} {
	for _, v := range views {
		row := v.(map[string]interface{})
		if row["partyName"] == party {
			return row
		}
	}
	return nil
}

func TestSupplierListMergesDerivedAndDedicated(t *testing.T) {
	r, db, token := setupSupplierRouter(t)

	seedGsnForParty(t, db, "acme metals", "Old Lane 1", 5000)
	seedGsnForParty(t, db, "Zeta Traders", "Dock 9", 700)
	if err := db.Create(&model.Supplier{
		ID:        uuid.New(),
		PartyName: "acme metals",
		Address:   "New Plaza 7",
		Email:     "acme@example.com",
		IsActive:  true,
	}).Error; err != nil {
		t.Fatalf("seed supplier: %v", err)
	}

	w := testutil.DoRequest(r, http.MethodGet, "/api/suppliers", nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("suppliers status = %d, body %s", w.Code, w.Body.String())
	}

	views, _ := testutil.Data(testutil.ParseResponse(t, w)).([]interface{})
	if len(views) != 2 {
		t.Fatalf("expected 2 merged rows, got %d", len(views))
	}

	// Case-insensitive name ordering.
	first := views[0].(map[string]interface{})
	if first["partyName"] != "acme metals" {
		t.Errorf("sort order wrong, first = %v", first["partyName"])
	}

	acme := supplierByName(views, "acme metals")
	if acme["source"] != "Dedicated" {
		t.Errorf("source = %v, want Dedicated", acme["source"])
	}
	// Master contact data wins, intake financials are retained.
	if acme["address"] != "New Plaza 7" {
		t.Errorf("address = %v, want master value", acme["address"])
	}
	if acme["email"] != "acme@example.com" {
		t.Errorf("email = %v", acme["email"])
	}
	rawTotal, _ := acme["totalAmount"].(string)
	if total, err := decimal.NewFromString(rawTotal); err != nil || !total.Equal(decimal.NewFromInt(5000)) {
		t.Errorf("totalAmount = %v, want 5000 from intake history", acme["totalAmount"])
	}

	zeta := supplierByName(views, "Zeta Traders")
	if zeta["source"] != "GSN" {
		t.Errorf("source = %v, want GSN", zeta["source"])
	}
}

func TestAddSupplierRejectsDuplicateName(t *testing.T) {
	r, _, token := setupSupplierRouter(t)

	payload := gin.H{"partyName": "  Beta Corp  ", "address": "Unit 4"}
	w := testutil.DoRequest(r, http.MethodPost, "/api/suppliers", payload, token)
	if w.Code != http.StatusCreated {
		t.Fatalf("add status = %d, body %s", w.Code, w.Body.String())
	}
	data, _ := testutil.Data(testutil.ParseResponse(t, w)).(map[string]interface{})
	if data["partyName"] != "Beta Corp" {
		t.Errorf("partyName not trimmed: %v", data["partyName"])
	}

	w = testutil.DoRequest(r, http.MethodPost, "/api/suppliers", gin.H{"partyName": "Beta Corp"}, token)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("duplicate add status = %d, want 400", w.Code)
	}
	if code := testutil.ErrorCode(testutil.ParseResponse(t, w)); code != "USER_EXISTS" {
		t.Errorf("error code = %q, want USER_EXISTS", code)
	}

	w = testutil.DoRequest(r, http.MethodPost, "/api/suppliers", gin.H{"partyName": "   "}, token)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("blank name status = %d, want 400", w.Code)
	}
}

func TestSupplierDetailsListsReceiptPairs(t *testing.T) {
	r, db, token := setupSupplierRouter(t)
	seedGsnForParty(t, db, "Acme Metals", "Lane 1", 100)
	seedGsnForParty(t, db, "Acme Metals", "Lane 1", 200)

	w := testutil.DoRequest(r, http.MethodGet, "/api/supplier-details?partyName=Acme+Metals", nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("details status = %d, body %s", w.Code, w.Body.String())
	}
	refs, _ := testutil.Data(testutil.ParseResponse(t, w)).([]interface{})
	if len(refs) != 2 {
		t.Fatalf("expected 2 receipt pairs, got %d", len(refs))
	}
	pair := refs[0].(map[string]interface{})
	if pair["gsnNo"] != "GSN-1" {
		t.Errorf("gsnNo = %v", pair["gsnNo"])
	}
	if pair["grinNo"] == "" {
		t.Error("grinNo missing")
	}
}

func TestUpdateSupplierPromotesHistoryOnlyParty(t *testing.T) {
	r, db, token := setupSupplierRouter(t)
	seedGsnForParty(t, db, "Zeta Traders", "Dock 9", 700)

	w := testutil.DoRequest(r, http.MethodPut, "/api/supplier/Zeta%20Traders", gin.H{
		"email": "zeta@example.com",
	}, token)
	if w.Code != http.StatusOK {
		t.Fatalf("update status = %d, body %s", w.Code, w.Body.String())
	}
	data, _ := testutil.Data(testutil.ParseResponse(t, w)).(map[string]interface{})
	if created, _ := data["created"].(bool); !created {
		t.Errorf("expected promotion, got %v", data)
	}

	var supplier model.Supplier
	if err := db.First(&supplier, "party_name = ?", "Zeta Traders").Error; err != nil {
		t.Fatalf("promoted record missing: %v", err)
	}
	if !supplier.IsActive {
		t.Error("promoted record must be active")
	}
	// Seeded from intake history, updated fields layered on top.
	if supplier.Address != "Dock 9" {
		t.Errorf("address = %q, want seeded history value", supplier.Address)
	}
	if supplier.Email != "zeta@example.com" {
		t.Errorf("email = %q", supplier.Email)
	}
}

func TestUpdateSupplierPromotionSeedsFromNewestEntry(t *testing.T) {
	r, db, token := setupSupplierRouter(t)

	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	for i, address := range []string{"Old Yard 1", "New Dock 2"} {
		entry := &model.GsnEntry{
			ID:        uuid.New(),
			GrinNo:    uuid.NewString()[:8],
			GsnNo:     "GSN-1",
			PartyName: "Gamma Steel",
			Address:   address,
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
		}
		if err := db.Create(entry).Error; err != nil {
			t.Fatalf("seed gsn entry: %v", err)
		}
	}

	w := testutil.DoRequest(r, http.MethodPut, "/api/supplier/Gamma%20Steel", gin.H{
		"email": "gamma@example.com",
	}, token)
	if w.Code != http.StatusOK {
		t.Fatalf("update status = %d, body %s", w.Code, w.Body.String())
	}

	var supplier model.Supplier
	if err := db.First(&supplier, "party_name = ?", "Gamma Steel").Error; err != nil {
		t.Fatalf("promoted record missing: %v", err)
	}
	if supplier.Address != "New Dock 2" {
		t.Errorf("address = %q, want the most recent receipt's value", supplier.Address)
	}
}

func TestUpdateSupplierExistingMaster(t *testing.T) {
	r, db, token := setupSupplierRouter(t)
	if err := db.Create(&model.Supplier{
		ID: uuid.New(), PartyName: "Beta Corp", Address: "Unit 4", IsActive: true,
	}).Error; err != nil {
		t.Fatalf("seed supplier: %v", err)
	}

	w := testutil.DoRequest(r, http.MethodPut, "/api/supplier/Beta%20Corp", gin.H{
		"address": "Unit 9",
	}, token)
	if w.Code != http.StatusOK {
		t.Fatalf("update status = %d, body %s", w.Code, w.Body.String())
	}
	data, _ := testutil.Data(testutil.ParseResponse(t, w)).(map[string]interface{})
	if modified := data["modifiedCount"].(float64); modified != 1 {
		t.Errorf("modifiedCount = %v, want 1", modified)
	}

	var supplier model.Supplier
	db.First(&supplier, "party_name = ?", "Beta Corp")
	if supplier.Address != "Unit 9" {
		t.Errorf("address = %q", supplier.Address)
	}
}

func TestUpdateSupplierUnknownPartyReturnsNotFound(t *testing.T) {
	r, _, token := setupSupplierRouter(t)

	w := testutil.DoRequest(r, http.MethodPut, "/api/supplier/Ghost%20Inc", gin.H{
		"address": "Nowhere",
	}, token)
	if w.Code != http.StatusNotFound {
		t.Fatalf("update status = %d, want 404, body %s", w.Code, w.Body.String())
	}
}

func TestDeleteSupplierTwiceReturnsNotFound(t *testing.T) {
	r, db, token := setupSupplierRouter(t)
	if err := db.Create(&model.Supplier{
		ID: uuid.New(), PartyName: "Beta Corp", IsActive: true,
	}).Error; err != nil {
		t.Fatalf("seed supplier: %v", err)
	}

	if w := testutil.DoRequest(r, http.MethodDelete, "/api/supplier/Beta%20Corp", nil, token); w.Code != http.StatusOK {
		t.Fatalf("first delete status = %d, body %s", w.Code, w.Body.String())
	}

	var supplier model.Supplier
	db.First(&supplier, "party_name = ?", "Beta Corp")
	if supplier.IsActive {
		t.Error("delete must flip the active flag, not remove the row")
	}

	w := testutil.DoRequest(r, http.MethodDelete, "/api/supplier/Beta%20Corp", nil, token)
	if w.Code != http.StatusNotFound {
		t.Fatalf("second delete status = %d, want 404", w.Code)
	}
}

func TestDeleteHistoryOnlyPartyMaterializesInactiveRecord(t *testing.T) {
	r, db, token := setupSupplierRouter(t)
	seedGsnForParty(t, db, "Zeta Traders", "Dock 9", 700)

	if w := testutil.DoRequest(r, http.MethodDelete, "/api/supplier/Zeta%20Traders", nil, token); w.Code != http.StatusOK {
		t.Fatalf("delete status = %d, body %s", w.Code, w.Body.String())
	}

	var supplier model.Supplier
	if err := db.First(&supplier, "party_name = ?", "Zeta Traders").Error; err != nil {
		t.Fatalf("materialized record missing: %v", err)
	}
	if supplier.IsActive {
		t.Error("materialized record must start deactivated")
	}

	w := testutil.DoRequest(r, http.MethodDelete, "/api/supplier/Zeta%20Traders", nil, token)
	if w.Code != http.StatusNotFound {
		t.Fatalf("second delete status = %d, want 404", w.Code)
	}
}
