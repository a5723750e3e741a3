package handler

import (
	"net/http"
	"strings"
	"testing"

	"github.com/Sachinsen7/grin/internal/middleware"
	"github.com/Sachinsen7/grin/internal/model"
	"github.com/Sachinsen7/grin/internal/repository"
	"github.com/Sachinsen7/grin/internal/service"
	"github.com/Sachinsen7/grin/internal/testutil"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func setupReportRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	r := testutil.SetupRouter(t)

	accountRepo := repository.NewAccountRepository(db)
	gsnRepo := repository.NewGsnRepository(db)
	grinRepo := repository.NewGrinRepository(db)
	h := NewReportHandler(service.NewReportService(gsnRepo, grinRepo))

	group := r.Group("/api/v1",
		middleware.Authenticate(accountRepo),
		middleware.RequireRole(model.RoleAdmin, model.RoleAuditor),
	)
	h.RegisterRoutes(group)
	return r, db
}

func TestGsnRegisterDownload(t *testing.T) {
	r, db := setupReportRouter(t)
	seedPartyEntries(t, db, "Acme Metals", 2, 0)
	auditor := testutil.SeedAccount(t, db, model.RoleAuditor, "auditor", "password123")

	w := testutil.DoRequest(r, http.MethodGet, "/api/v1/reports/gsn-register.xlsx", nil, testutil.TokenFor(t, auditor))
	if w.Code != http.StatusOK {
		t.Fatalf("download status = %d, body %s", w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); ct != xlsxContentType {
		t.Errorf("content type = %q", ct)
	}
	if cd := w.Header().Get("Content-Disposition"); !strings.Contains(cd, "gsn-register.xlsx") {
		t.Errorf("content disposition = %q", cd)
	}
	// XLSX files are zip archives.
	if body := w.Body.Bytes(); len(body) < 4 || body[0] != 'P' || body[1] != 'K' {
		t.Error("response is not a zip archive")
	}
}

func TestReportsRejectRolesOutsideApprovalChain(t *testing.T) {
	r, db := setupReportRouter(t)
	operator := testutil.SeedAccount(t, db, model.RoleGsn, "operator", "password123")

	w := testutil.DoRequest(r, http.MethodGet, "/api/v1/reports/gsn-register.xlsx", nil, testutil.TokenFor(t, operator))
	if w.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", w.Code)
	}
}
