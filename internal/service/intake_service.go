package service

import (
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"

	"github.com/Sachinsen7/grin/internal/model"
	"github.com/Sachinsen7/grin/internal/repository"
	"github.com/Sachinsen7/grin/internal/storage"
	"github.com/Sachinsen7/grin/internal/websocket"
	"github.com/Sachinsen7/grin/pkg/apperror"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// EntryForm is the multipart payload of an intake upload. Numeric fields
// arrive as form strings and are parsed leniently, matching what the entry
// screens submit.
type EntryForm struct {
	GrinNo       string `form:"grinNo"`
	GrinDate     string `form:"grinDate"`
	GsnNo        string `form:"gsnNo"`
	GsnDate      string `form:"gsnDate"`
	PoNo         string `form:"poNo"`
	PoDate       string `form:"poDate"`
	PartyName    string `form:"partyName"`
	InvoiceNo    string `form:"invoiceNo"`
	InvoiceDate  string `form:"invoiceDate"`
	ReceivedFrom string `form:"receivedFrom"`
	LrNo         string `form:"lrNo"`
	LrDate       string `form:"lrDate"`
	Transporter  string `form:"transporter"`
	VehicleNo    string `form:"vehicleNo"`

	MaterialInfo string `form:"materialInfo"`
	TableData    string `form:"tableData"`

	GstNo         string `form:"gstNo"`
	Cgst          string `form:"cgst"`
	Sgst          string `form:"sgst"`
	Igst          string `form:"igst"`
	GstTax        string `form:"gstTax"`
	MaterialTotal string `form:"materialTotal"`
	TotalAmount   string `form:"totalAmount"`
	Discount      string `form:"discount"`

	WeightDifferenceNotes string `form:"weightDifferenceNotes"`
	WeightDifferenceValue string `form:"weightDifferenceValue"`

	CompanyName string `form:"companyName"`
	Address     string `form:"address"`
	MobileNo    string `form:"mobileNo"`

	File  *multipart.FileHeader `form:"file"`
	Photo *multipart.FileHeader `form:"photo"`
}

// VerifyEntryRequest is the per-record signature/visibility update payload.
type VerifyEntryRequest struct {
	ID          string `json:"_Id" binding:"required"`
	ManagerType string `json:"managerType" binding:"required"`
	Status      string `json:"status"`
	IsHidden    *bool  `json:"isHidden"`
}

// IntakeService covers intake record creation and per-record maintenance for
// both the GSN and GRIN collections.
type IntakeService interface {
	CreateGsn(ctx context.Context, form EntryForm) (*model.GsnEntry, error)
	CreateGrin(ctx context.Context, form EntryForm) (*model.GrinEntry, error)
	ListGsn(ctx context.Context, offset, limit int) ([]model.GsnEntry, int64, error)
	ListGrin(ctx context.Context, offset, limit int) ([]model.GrinEntry, int64, error)
	VerifyGsn(ctx context.Context, req VerifyEntryRequest) (*model.GsnEntry, error)
	DeleteGsnByParty(ctx context.Context, partyName string) (int64, error)
	UpdateGsnByParty(ctx context.Context, partyName string, updates map[string]interface{}) (int64, error)
}

type intakeService struct {
	gsn   repository.GsnRepository
	grin  repository.GrinRepository
	files *storage.FileStore
	hub   *websocket.Hub
}

// NewIntakeService returns a new instance of IntakeService.
func NewIntakeService(gsn repository.GsnRepository, grin repository.GrinRepository, files *storage.FileStore, hub *websocket.Hub) IntakeService {
	return &intakeService{gsn: gsn, grin: grin, files: files, hub: hub}
}

// parseDecimal mirrors the entry screens' parseFloat-or-zero behavior.
func parseDecimal(s string) decimal.Decimal {
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

func parseLineItems(raw string) (model.LineItems, error) {
	if raw == "" {
		return model.LineItems{}, nil
	}
	var items model.LineItems
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, apperror.BadRequest("Invalid tableData format")
	}
	return items, nil
}

func mapStorageError(err error) error {
	switch {
	case errors.Is(err, storage.ErrNotImage):
		return apperror.BadRequest("Invalid file type. Only JPG, JPEG, PNG, and GIF images are allowed.")
	case errors.Is(err, storage.ErrTooLarge):
		return apperror.BadRequest("File exceeds the 5MB upload limit")
	default:
		return err
	}
}

// saveAttachments stores the bill and photo parts, returning relative paths.
// Called only after all validation passed so a rejected upload leaves no
// files behind.
func (s *intakeService) saveAttachments(form EntryForm, fileDir, photoDir string) (string, string, error) {
	var filePath, photoPath string
	var err error

	if form.File != nil {
		filePath, err = s.files.SaveDocument(form.File, fileDir)
		if err != nil {
			return "", "", mapStorageError(err)
		}
	}
	if form.Photo != nil {
		photoPath, err = s.files.SavePhoto(form.Photo, photoDir)
		if err != nil {
			if filePath != "" {
				_ = s.files.Remove(filePath)
			}
			return "", "", mapStorageError(err)
		}
	}
	return filePath, photoPath, nil
}

func (s *intakeService) CreateGsn(ctx context.Context, form EntryForm) (*model.GsnEntry, error) {
	// Every header field is mandatory on the GSN screen.
	required := []string{
		form.GrinNo, form.GrinDate, form.GsnNo, form.GsnDate, form.PoNo, form.PoDate,
		form.PartyName, form.InvoiceNo, form.InvoiceDate, form.LrNo, form.LrDate,
		form.Transporter, form.VehicleNo,
	}
	for _, v := range required {
		if v == "" {
			return nil, apperror.BadRequest("Missing required fields")
		}
	}

	items, err := parseLineItems(form.TableData)
	if err != nil {
		return nil, err
	}

	exists, err := s.gsn.ExistsByGrinNo(ctx, form.GrinNo)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperror.New("Duplicate entry found", http.StatusBadRequest, apperror.CodeDuplicateEntry)
	}

	filePath, photoPath, err := s.saveAttachments(form, storage.DirGsnFiles, storage.DirGsnPhotos)
	if err != nil {
		return nil, err
	}

	entry := &model.GsnEntry{
		GrinNo:        form.GrinNo,
		GrinDate:      form.GrinDate,
		GsnNo:         form.GsnNo,
		GsnDate:       form.GsnDate,
		PoNo:          form.PoNo,
		PoDate:        form.PoDate,
		PartyName:     form.PartyName,
		InvoiceNo:     form.InvoiceNo,
		InvoiceDate:   form.InvoiceDate,
		LrNo:          form.LrNo,
		LrDate:        form.LrDate,
		Transporter:   form.Transporter,
		VehicleNo:     form.VehicleNo,
		MaterialInfo:  form.MaterialInfo,
		LineItems:     items,
		GstNo:         form.GstNo,
		Cgst:          parseDecimal(form.Cgst),
		Sgst:          parseDecimal(form.Sgst),
		Igst:          parseDecimal(form.Igst),
		GstTax:        parseDecimal(form.GstTax),
		MaterialTotal: parseDecimal(form.MaterialTotal),
		TotalAmount:   parseDecimal(form.TotalAmount),
		CompanyName:   form.CompanyName,
		Address:       form.Address,
		MobileNo:      form.MobileNo,
		FilePath:      filePath,
		PhotoPath:     photoPath,
	}

	if err := s.gsn.Create(ctx, entry); err != nil {
		_ = s.files.Remove(filePath)
		_ = s.files.Remove(photoPath)
		// A concurrent upload can slip past the existence check and land on
		// the grin_no unique index instead.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperror.New("Duplicate entry found", http.StatusBadRequest, apperror.CodeDuplicateEntry)
		}
		return nil, err
	}

	logrus.WithFields(logrus.Fields{"grinNo": entry.GrinNo, "party": entry.PartyName}).Info("GSN entry saved")
	s.hub.BroadcastEvent(websocket.Event{Type: "entry_created", PartyName: entry.PartyName})
	return entry, nil
}

func (s *intakeService) CreateGrin(ctx context.Context, form EntryForm) (*model.GrinEntry, error) {
	if form.GrinNo == "" || form.PartyName == "" {
		return nil, apperror.BadRequest("Missing required fields")
	}

	items, err := parseLineItems(form.TableData)
	if err != nil {
		return nil, err
	}

	filePath, photoPath, err := s.saveAttachments(form, storage.DirGrinFiles, storage.DirGrinPhotos)
	if err != nil {
		return nil, err
	}

	entry := &model.GrinEntry{
		GrinNo:                form.GrinNo,
		GrinDate:              form.GrinDate,
		GsnNo:                 form.GsnNo,
		GsnDate:               form.GsnDate,
		PoNo:                  form.PoNo,
		PoDate:                form.PoDate,
		PartyName:             form.PartyName,
		InvoiceNo:             form.InvoiceNo,
		InvoiceDate:           form.InvoiceDate,
		ReceivedFrom:          form.ReceivedFrom,
		LrNo:                  form.LrNo,
		LrDate:                form.LrDate,
		Transporter:           form.Transporter,
		VehicleNo:             form.VehicleNo,
		MaterialInfo:          form.MaterialInfo,
		LineItems:             items,
		GstNo:                 form.GstNo,
		Cgst:                  parseDecimal(form.Cgst),
		Sgst:                  parseDecimal(form.Sgst),
		Igst:                  parseDecimal(form.Igst),
		GstTax:                parseDecimal(form.GstTax),
		MaterialTotal:         parseDecimal(form.MaterialTotal),
		TotalAmount:           parseDecimal(form.TotalAmount),
		Discount:              parseDecimal(form.Discount),
		WeightDifferenceNotes: form.WeightDifferenceNotes,
		WeightDifferenceValue: parseDecimal(form.WeightDifferenceValue),
		CompanyName:           form.CompanyName,
		Address:               form.Address,
		MobileNo:              form.MobileNo,
		FilePath:              filePath,
		PhotoPath:             photoPath,
	}

	if err := s.grin.Create(ctx, entry); err != nil {
		_ = s.files.Remove(filePath)
		_ = s.files.Remove(photoPath)
		return nil, err
	}

	logrus.WithFields(logrus.Fields{"grinNo": entry.GrinNo, "party": entry.PartyName}).Info("GRIN entry saved")
	s.hub.BroadcastEvent(websocket.Event{Type: "entry_created", PartyName: entry.PartyName})
	return entry, nil
}

func (s *intakeService) ListGsn(ctx context.Context, offset, limit int) ([]model.GsnEntry, int64, error) {
	return s.gsn.List(ctx, offset, limit)
}

func (s *intakeService) ListGrin(ctx context.Context, offset, limit int) ([]model.GrinEntry, int64, error) {
	return s.grin.List(ctx, offset, limit)
}

func (s *intakeService) VerifyGsn(ctx context.Context, req VerifyEntryRequest) (*model.GsnEntry, error) {
	column, ok := model.ManagerSignatureField(req.ManagerType)
	if !ok {
		return nil, apperror.BadRequest("Invalid manager type")
	}

	id, err := uuid.Parse(req.ID)
	if err != nil {
		return nil, apperror.NotFound("Item not found")
	}

	columns := map[string]interface{}{column: req.Status == "checked"}
	if req.IsHidden != nil {
		columns[model.FieldIsHidden] = *req.IsHidden
	}

	entry, err := s.gsn.UpdateColumnsByID(ctx, id, columns)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("Item not found")
		}
		return nil, err
	}

	logrus.WithFields(logrus.Fields{"id": req.ID, "field": column}).Info("GSN verification status updated")
	return entry, nil
}

func (s *intakeService) DeleteGsnByParty(ctx context.Context, partyName string) (int64, error) {
	if partyName == "" {
		return 0, apperror.BadRequest("Party name is required")
	}
	deleted, err := s.gsn.DeleteByParty(ctx, partyName)
	if err != nil {
		return 0, err
	}
	logrus.WithFields(logrus.Fields{"party": partyName, "count": deleted}).Info("GSN entries deleted by party")
	return deleted, nil
}

// updatableEntryColumns maps the JSON field names the edit screen submits to
// their columns. Anything else in the payload is dropped.
var updatableEntryColumns = map[string]string{
	"grinDate":              "grin_date",
	"gsnNo":                 "gsn_no",
	"gsnDate":               "gsn_date",
	"poNo":                  "po_no",
	"poDate":                "po_date",
	"invoiceNo":             "invoice_no",
	"invoiceDate":           "invoice_date",
	"lrNo":                  "lr_no",
	"lrDate":                "lr_date",
	"transporter":           "transporter",
	"vehicleNo":             "vehicle_no",
	"materialInfo":          "material_info",
	"gstNo":                 "gst_no",
	"cgst":                  "cgst",
	"sgst":                  "sgst",
	"igst":                  "igst",
	"gstTax":                "gst_tax",
	"materialTotal":         "material_total",
	"totalAmount":           "total_amount",
	"companyName":           "company_name",
	"address":               "address",
	"mobileNo":              "mobile_no",
}

func (s *intakeService) UpdateGsnByParty(ctx context.Context, partyName string, updates map[string]interface{}) (int64, error) {
	if partyName == "" {
		return 0, apperror.BadRequest("Party name is required")
	}
	if len(updates) == 0 {
		return 0, apperror.BadRequest("No update data provided")
	}

	columns := make(map[string]interface{})
	for key, value := range updates {
		if value == nil {
			continue
		}
		if key == "tableData" {
			columns["line_items"] = sanitizeLineItems(value)
			continue
		}
		if column, ok := updatableEntryColumns[key]; ok {
			columns[column] = value
		}
	}
	if len(columns) == 0 {
		return 0, apperror.BadRequest("No update data provided")
	}

	modified, err := s.gsn.UpdateColumnsByParty(ctx, partyName, columns)
	if err != nil {
		return 0, err
	}
	if modified == 0 {
		return 0, apperror.NotFound("No documents found for this party")
	}

	logrus.WithFields(logrus.Fields{"party": partyName, "count": modified}).Info("GSN entries updated by party")
	return modified, nil
}

// sanitizeLineItems accepts an array, a JSON string, or garbage, in that
// order of preference. Unparseable input becomes an empty list rather than
// failing the whole bulk edit.
func sanitizeLineItems(value interface{}) model.LineItems {
	switch v := value.(type) {
	case string:
		var items model.LineItems
		if err := json.Unmarshal([]byte(v), &items); err != nil {
			return model.LineItems{}
		}
		return items
	default:
		raw, err := json.Marshal(v)
		if err != nil {
			return model.LineItems{}
		}
		var items model.LineItems
		if err := json.Unmarshal(raw, &items); err != nil {
			return model.LineItems{}
		}
		return items
	}
}
