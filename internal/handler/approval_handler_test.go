package handler

import (
	"net/http"
	"testing"

	"github.com/Sachinsen7/grin/internal/middleware"
	"github.com/Sachinsen7/grin/internal/model"
	"github.com/Sachinsen7/grin/internal/repository"
	"github.com/Sachinsen7/grin/internal/service"
	"github.com/Sachinsen7/grin/internal/testutil"
	"github.com/Sachinsen7/grin/internal/websocket"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

func setupApprovalRouter(t *testing.T) (*gin.Engine, *gorm.DB, string) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	r := testutil.SetupRouter(t)

	accountRepo := repository.NewAccountRepository(db)
	gsnRepo := repository.NewGsnRepository(db)
	grinRepo := repository.NewGrinRepository(db)
	h := NewApprovalHandler(service.NewApprovalService(gsnRepo, grinRepo, websocket.NewHub()))

	group := r.Group("/api/v1", middleware.Authenticate(accountRepo))
	h.RegisterRoutes(group)

	manager := testutil.SeedAccount(t, db, model.RoleStoreManager, "storemgr", "password123")
	return r, db, testutil.TokenFor(t, manager)
}

func seedPartyEntries(t *testing.T, db *gorm.DB, party string, gsnCount, grinCount int) {
	t.Helper()
	for i := 0; i < gsnCount; i++ {
		entry := &model.GsnEntry{
			ID:        uuid.New(),
			GrinNo:    uuid.NewString()[:8],
			GsnNo:     "GSN-1",
			PartyName: party,
		}
		if err := db.Create(entry).Error; err != nil {
			t.Fatalf("seed gsn entry: %v", err)
		}
	}
	for i := 0; i < grinCount; i++ {
		entry := &model.GrinEntry{
			ID:        uuid.New(),
			GrinNo:    "GRIN-1",
			PartyName: party,
		}
		if err := db.Create(entry).Error; err != nil {
			t.Fatalf("seed grin entry: %v", err)
		}
	}
}

func TestVerifyPartyPropagatesAcrossBothRegisters(t *testing.T) {
	r, db, token := setupApprovalRouter(t)
	seedPartyEntries(t, db, "Acme Metals", 3, 2)
	seedPartyEntries(t, db, "Other Traders", 1, 1)

	w := testutil.DoRequest(r, http.MethodPost, "/api/v1/verify", gin.H{
		"partyName":   "Acme Metals",
		"managerType": "Store Manager",
		"status":      "checked",
	}, token)
	if w.Code != http.StatusOK {
		t.Fatalf("verify status = %d, body %s", w.Code, w.Body.String())
	}

	data, _ := testutil.Data(testutil.ParseResponse(t, w)).(map[string]interface{})
	if got := data["gsnUpdated"].(float64); got != 3 {
		t.Errorf("gsnUpdated = %v, want 3", got)
	}
	if got := data["grinUpdated"].(float64); got != 2 {
		t.Errorf("grinUpdated = %v, want 2", got)
	}
	if got := data["totalUpdated"].(float64); got != 5 {
		t.Errorf("totalUpdated = %v, want 5", got)
	}

	var unsignedGsn, signedGrin int64
	db.Model(&model.GsnEntry{}).Where("party_name = ? AND store_manager_signed = false", "Acme Metals").Count(&unsignedGsn)
	if unsignedGsn != 0 {
		t.Errorf("%d GSN rows left unsigned", unsignedGsn)
	}
	db.Model(&model.GrinEntry{}).Where("store_manager_signed = true").Count(&signedGrin)
	if signedGrin != 2 {
		t.Errorf("signed GRIN rows = %d, want 2 (other parties untouched)", signedGrin)
	}
}

func TestVerifyPartyAcceptsDocumentFieldSpelling(t *testing.T) {
	r, db, token := setupApprovalRouter(t)
	seedPartyEntries(t, db, "Acme Metals", 2, 1)

	// The approval screens send fieldName in the document spelling instead of
	// a manager title.
	w := testutil.DoRequest(r, http.MethodPost, "/api/v1/verify", gin.H{
		"partyName": "Acme Metals",
		"fieldName": "AccountManagerSigned",
		"status":    "checked",
	}, token)
	if w.Code != http.StatusOK {
		t.Fatalf("verify status = %d, want 200, body %s", w.Code, w.Body.String())
	}

	data, _ := testutil.Data(testutil.ParseResponse(t, w)).(map[string]interface{})
	if got := data["totalUpdated"].(float64); got != 3 {
		t.Errorf("totalUpdated = %v, want 3", got)
	}

	var unsigned int64
	db.Model(&model.GsnEntry{}).Where("party_name = ? AND account_manager_signed = false", "Acme Metals").Count(&unsigned)
	if unsigned != 0 {
		t.Errorf("%d GSN rows left unsigned", unsigned)
	}
}

func TestVerifyPartyResubmitReportsZeroModified(t *testing.T) {
	r, db, token := setupApprovalRouter(t)
	seedPartyEntries(t, db, "Acme Metals", 2, 1)

	payload := gin.H{"partyName": "Acme Metals", "managerType": "Auditor", "status": "checked"}
	if w := testutil.DoRequest(r, http.MethodPost, "/api/v1/verify", payload, token); w.Code != http.StatusOK {
		t.Fatalf("first verify status = %d", w.Code)
	}

	w := testutil.DoRequest(r, http.MethodPost, "/api/v1/verify", payload, token)
	if w.Code != http.StatusOK {
		t.Fatalf("re-submit status = %d, want 200, body %s", w.Code, w.Body.String())
	}
	data, _ := testutil.Data(testutil.ParseResponse(t, w)).(map[string]interface{})
	if got := data["totalUpdated"].(float64); got != 0 {
		t.Errorf("re-submit totalUpdated = %v, want 0", got)
	}
}

func TestVerifyPartyUnknownPartyReturnsNotFound(t *testing.T) {
	r, db, token := setupApprovalRouter(t)
	seedPartyEntries(t, db, "Acme Metals", 1, 0)

	w := testutil.DoRequest(r, http.MethodPost, "/api/v1/verify", gin.H{
		"partyName":   "No Such Party",
		"managerType": "Store Manager",
		"status":      "checked",
	}, token)
	if w.Code != http.StatusNotFound {
		t.Fatalf("verify status = %d, want 404, body %s", w.Code, w.Body.String())
	}
	if code := testutil.ErrorCode(testutil.ParseResponse(t, w)); code != "NOT_FOUND" {
		t.Errorf("error code = %q, want NOT_FOUND", code)
	}
}

func TestVerifyPartyRejectsUnknownManagerType(t *testing.T) {
	r, db, token := setupApprovalRouter(t)
	seedPartyEntries(t, db, "Acme Metals", 1, 0)

	w := testutil.DoRequest(r, http.MethodPost, "/api/v1/verify", gin.H{
		"partyName":   "Acme Metals",
		"managerType": "Night Shift Manager",
		"status":      "checked",
	}, token)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("verify status = %d, want 400", w.Code)
	}
}

func TestVerifyPartyUncheckClearsSignature(t *testing.T) {
	r, db, token := setupApprovalRouter(t)
	seedPartyEntries(t, db, "Acme Metals", 2, 0)

	check := gin.H{"partyName": "Acme Metals", "managerType": "General Manager", "status": "checked"}
	if w := testutil.DoRequest(r, http.MethodPost, "/api/v1/verify", check, token); w.Code != http.StatusOK {
		t.Fatalf("check status = %d", w.Code)
	}

	uncheck := gin.H{"partyName": "Acme Metals", "managerType": "General Manager", "status": "unchecked"}
	w := testutil.DoRequest(r, http.MethodPost, "/api/v1/verify", uncheck, token)
	if w.Code != http.StatusOK {
		t.Fatalf("uncheck status = %d", w.Code)
	}
	data, _ := testutil.Data(testutil.ParseResponse(t, w)).(map[string]interface{})
	if got := data["gsnUpdated"].(float64); got != 2 {
		t.Errorf("uncheck gsnUpdated = %v, want 2", got)
	}

	var stillSigned int64
	db.Model(&model.GsnEntry{}).Where("general_manager_signed = true").Count(&stillSigned)
	if stillSigned != 0 {
		t.Errorf("%d rows still signed after uncheck", stillSigned)
	}
}
