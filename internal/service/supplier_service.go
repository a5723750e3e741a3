package service

import (
	"context"
	"errors"
	"net/http"
	"sort"
	"strings"

	"github.com/Sachinsen7/grin/internal/model"
	"github.com/Sachinsen7/grin/internal/repository"
	"github.com/Sachinsen7/grin/pkg/apperror"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// SupplierView is one row of the merged directory: intake-history data and
// master-list data folded together, tagged with where the row came from.
type SupplierView struct {
	PartyName     string          `json:"partyName"`
	Address       string          `json:"address"`
	GstNo         string          `json:"gstNo"`
	MobileNo      string          `json:"mobileNo"`
	CompanyName   string          `json:"companyName"`
	Email         string          `json:"email"`
	Cgst          decimal.Decimal `json:"cgst"`
	Sgst          decimal.Decimal `json:"sgst"`
	Igst          decimal.Decimal `json:"igst"`
	TotalAmount   decimal.Decimal `json:"totalAmount"`
	MaterialTotal decimal.Decimal `json:"materialTotal"`
	GstTax        decimal.Decimal `json:"gstTax"`
	Source        string          `json:"source"`
}

type AddSupplierRequest struct {
	PartyName   string `json:"partyName"`
	Address     string `json:"address"`
	GstNo       string `json:"gstNo"`
	MobileNo    string `json:"mobileNo"`
	CompanyName string `json:"companyName"`
	Email       string `json:"email"`
}

// UpdateSupplierRequest uses pointers so "field absent" and "clear this
// field" stay distinguishable.
type UpdateSupplierRequest struct {
	PartyName   *string `json:"partyName"`
	Address     *string `json:"address"`
	GstNo       *string `json:"gstNo"`
	MobileNo    *string `json:"mobileNo"`
	CompanyName *string `json:"companyName"`
	Email       *string `json:"email"`
}

type UpdateSupplierResult struct {
	Message       string `json:"message,omitempty"`
	ModifiedCount int64  `json:"modifiedCount"`
	Created       bool   `json:"created,omitempty"`
}

// PartyRef pairs the receipt numbers of one intake record.
type PartyRef struct {
	GsnNo  string `json:"gsnNo"`
	GrinNo string `json:"grinNo"`
}

// SupplierService merges the derived and dedicated supplier views and manages
// the master list.
type SupplierService interface {
	ListMerged(ctx context.Context) ([]SupplierView, error)
	Add(ctx context.Context, req AddSupplierRequest) (*model.Supplier, error)
	PartyDetails(ctx context.Context, partyName string) ([]PartyRef, error)
	Update(ctx context.Context, partyName string, req UpdateSupplierRequest) (*UpdateSupplierResult, error)
	Delete(ctx context.Context, partyName string) error
}

type supplierService struct {
	suppliers repository.SupplierRepository
	gsn       repository.GsnRepository
	tx        repository.TransactionManager
}

// NewSupplierService returns a new instance of SupplierService.
func NewSupplierService(suppliers repository.SupplierRepository, gsn repository.GsnRepository, tx repository.TransactionManager) SupplierService {
	return &supplierService{suppliers: suppliers, gsn: gsn, tx: tx}
}

func (s *supplierService) ListMerged(ctx context.Context) ([]SupplierView, error) {
	entries, err := s.gsn.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	dedicated, err := s.suppliers.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	merged := make(map[string]SupplierView)

	// Intake-history rows first; read-only in the directory.
	for _, e := range entries {
		if e.PartyName == "" {
			continue
		}
		merged[e.PartyName] = SupplierView{
			PartyName:     e.PartyName,
			Address:       e.Address,
			GstNo:         e.GstNo,
			MobileNo:      e.MobileNo,
			CompanyName:   e.CompanyName,
			Cgst:          e.Cgst,
			Sgst:          e.Sgst,
			Igst:          e.Igst,
			TotalAmount:   e.TotalAmount,
			MaterialTotal: e.MaterialTotal,
			GstTax:        e.GstTax,
			Source:        model.SupplierSourceDerived,
		}
	}

	// Master-list rows win on contact fields but keep the history financials.
	for _, d := range dedicated {
		if d.PartyName == "" {
			continue
		}
		view := SupplierView{
			PartyName:   d.PartyName,
			Address:     d.Address,
			GstNo:       d.GstNo,
			MobileNo:    d.MobileNo,
			CompanyName: d.CompanyName,
			Email:       d.Email,
			Source:      model.SupplierSourceDedicated,
		}
		if existing, ok := merged[d.PartyName]; ok {
			view.Cgst = existing.Cgst
			view.Sgst = existing.Sgst
			view.Igst = existing.Igst
			view.TotalAmount = existing.TotalAmount
			view.MaterialTotal = existing.MaterialTotal
			view.GstTax = existing.GstTax
		}
		merged[d.PartyName] = view
	}

	views := make([]SupplierView, 0, len(merged))
	for _, v := range merged {
		views = append(views, v)
	}
	sort.Slice(views, func(i, j int) bool {
		a := strings.ToLower(strings.TrimSpace(views[i].PartyName))
		b := strings.ToLower(strings.TrimSpace(views[j].PartyName))
		return a < b
	})
	return views, nil
}

func (s *supplierService) Add(ctx context.Context, req AddSupplierRequest) (*model.Supplier, error) {
	partyName := strings.TrimSpace(req.PartyName)
	if partyName == "" {
		return nil, apperror.BadRequest("Supplier name is required")
	}

	// Soft-deleted rows keep the name reserved too.
	if _, err := s.suppliers.FindByParty(ctx, partyName); err == nil {
		return nil, apperror.New("Supplier with this name already exists", http.StatusBadRequest, apperror.CodeUserExists)
	}

	supplier := &model.Supplier{
		PartyName:   partyName,
		Address:     req.Address,
		GstNo:       req.GstNo,
		MobileNo:    req.MobileNo,
		CompanyName: req.CompanyName,
		Email:       req.Email,
		IsActive:    true,
	}
	if err := s.suppliers.Create(ctx, supplier); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperror.New("Supplier with this name already exists", http.StatusBadRequest, apperror.CodeUserExists)
		}
		return nil, err
	}

	logrus.WithField("party", partyName).Info("supplier added")
	return supplier, nil
}

func (s *supplierService) PartyDetails(ctx context.Context, partyName string) ([]PartyRef, error) {
	if partyName == "" {
		return nil, apperror.BadRequest("partyName is required")
	}

	entries, err := s.gsn.ListByParty(ctx, partyName)
	if err != nil {
		return nil, err
	}

	refs := make([]PartyRef, 0, len(entries))
	for _, e := range entries {
		refs = append(refs, PartyRef{GsnNo: e.GsnNo, GrinNo: e.GrinNo})
	}
	return refs, nil
}

func (s *supplierService) Update(ctx context.Context, partyName string, req UpdateSupplierRequest) (*UpdateSupplierResult, error) {
	columns := make(map[string]interface{})
	if req.PartyName != nil && *req.PartyName != "" {
		columns["party_name"] = strings.TrimSpace(*req.PartyName)
	}
	if req.Address != nil {
		columns["address"] = *req.Address
	}
	if req.GstNo != nil {
		columns["gst_no"] = *req.GstNo
	}
	if req.MobileNo != nil {
		columns["mobile_no"] = *req.MobileNo
	}
	if req.CompanyName != nil {
		columns["company_name"] = *req.CompanyName
	}
	if req.Email != nil {
		columns["email"] = *req.Email
	}

	var result *UpdateSupplierResult
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if len(columns) > 0 {
			modified, err := s.suppliers.UpdateActiveByParty(txCtx, partyName, columns)
			if err != nil {
				return err
			}
			if modified > 0 {
				result = &UpdateSupplierResult{ModifiedCount: modified}
				return nil
			}
		}

		if _, err := s.suppliers.FindActiveByParty(txCtx, partyName); err == nil {
			result = &UpdateSupplierResult{Message: "Supplier found but no changes were made", ModifiedCount: 0}
			return nil
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		// Promotion on write: a party known only from intake history gets a
		// dedicated record seeded from its latest entry plus the edits.
		seed, err := s.promotionSeed(txCtx, partyName, columns)
		if err != nil {
			return err
		}
		if seed == nil {
			return apperror.NotFound("No supplier found to update")
		}
		if err := s.suppliers.Create(txCtx, seed); err != nil {
			return err
		}

		logrus.WithField("party", partyName).Info("derived supplier promoted to dedicated")
		result = &UpdateSupplierResult{Message: "Supplier converted to dedicated and updated", Created: true}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *supplierService) Delete(ctx context.Context, partyName string) error {
	return s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		modified, err := s.suppliers.DeactivateByParty(txCtx, partyName)
		if err != nil {
			return err
		}
		if modified > 0 {
			logrus.WithField("party", partyName).Info("supplier deactivated")
			return nil
		}

		// An inactive row means the supplier was already deleted.
		if _, err := s.suppliers.FindByParty(txCtx, partyName); err == nil {
			return apperror.NotFound("No supplier found to delete")
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		// Promotion on delete: hide a history-only party by materializing an
		// already-inactive dedicated record.
		seed, err := s.promotionSeed(txCtx, partyName, nil)
		if err != nil {
			return err
		}
		if seed == nil {
			return apperror.NotFound("No supplier found to delete")
		}
		seed.IsActive = false
		if err := s.suppliers.Create(txCtx, seed); err != nil {
			return err
		}

		logrus.WithField("party", partyName).Info("derived supplier promoted and deactivated")
		return nil
	})
}

// promotionSeed builds a master-list record from the party's intake history,
// with the pending edits layered on top. Returns nil when the party has no
// history at all.
func (s *supplierService) promotionSeed(ctx context.Context, partyName string, columns map[string]interface{}) (*model.Supplier, error) {
	entries, err := s.gsn.ListByParty(ctx, partyName)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, nil
	}

	latest := entries[len(entries)-1]
	seed := &model.Supplier{
		PartyName:   partyName,
		Address:     latest.Address,
		GstNo:       latest.GstNo,
		MobileNo:    latest.MobileNo,
		CompanyName: latest.CompanyName,
		IsActive:    true,
	}

	if v, ok := columns["party_name"].(string); ok && v != "" {
		seed.PartyName = v
	}
	if v, ok := columns["address"].(string); ok && v != "" {
		seed.Address = v
	}
	if v, ok := columns["gst_no"].(string); ok && v != "" {
		seed.GstNo = v
	}
	if v, ok := columns["mobile_no"].(string); ok && v != "" {
		seed.MobileNo = v
	}
	if v, ok := columns["company_name"].(string); ok && v != "" {
		seed.CompanyName = v
	}
	if v, ok := columns["email"].(string); ok && v != "" {
		seed.Email = v
	}
	return seed, nil
}
