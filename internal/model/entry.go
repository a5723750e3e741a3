package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Signature column names, keyed by the manager titles the frontend sends.
const (
	FieldStoreManagerSigned    = "store_manager_signed"
	FieldPurchaseManagerSigned = "purchase_manager_signed"
	FieldGeneralManagerSigned  = "general_manager_signed"
	FieldAccountManagerSigned  = "account_manager_signed"
	FieldAuditorSigned         = "auditor_signed"
	FieldIsHidden              = "is_hidden"
)

// ManagerSignatureField resolves a manager title ("Store Manager", "Auditor", ...)
// to its signature column. ok is false for unrecognized titles.
func ManagerSignatureField(managerType string) (string, bool) {
	switch managerType {
	case "Store Manager":
		return FieldStoreManagerSigned, true
	case "Purchase Manager":
		return FieldPurchaseManagerSigned, true
	case "General Manager":
		return FieldGeneralManagerSigned, true
	case "Account Manager":
		return FieldAccountManagerSigned, true
	case "Auditor":
		return FieldAuditorSigned, true
	case "isHidden":
		return FieldIsHidden, true
	default:
		return "", false
	}
}

// SignatureFieldColumn resolves the document field spelling the approval
// screens send ("StoreManagerSigned", "AuditorSigned", ...) to its column.
// ok is false for anything outside the five signature flags.
func SignatureFieldColumn(fieldName string) (string, bool) {
	switch fieldName {
	case "StoreManagerSigned":
		return FieldStoreManagerSigned, true
	case "PurchaseManagerSigned":
		return FieldPurchaseManagerSigned, true
	case "GeneralManagerSigned":
		return FieldGeneralManagerSigned, true
	case "AccountManagerSigned":
		return FieldAccountManagerSigned, true
	case "AuditorSigned":
		return FieldAuditorSigned, true
	default:
		return "", false
	}
}

// SignatureColumns lists the five per-role approval columns.
func SignatureColumns() []string {
	return []string{
		FieldStoreManagerSigned,
		FieldPurchaseManagerSigned,
		FieldGeneralManagerSigned,
		FieldAccountManagerSigned,
		FieldAuditorSigned,
	}
}

// LineItem is one row of the tabular goods section on a receipt note.
type LineItem struct {
	Item                  string          `json:"item"`
	Description           string          `json:"description,omitempty"`
	Quantity              decimal.Decimal `json:"quantity"`
	Price                 decimal.Decimal `json:"price"`
	Amount                decimal.Decimal `json:"amount"`
	WeightDifference      decimal.Decimal `json:"weightDifference,omitempty"`
	WeightDifferenceNotes string          `json:"weightDifferenceNotes,omitempty"`
}

// LineItems is stored as a single JSONB column.
type LineItems []LineItem

func (l LineItems) Value() (driver.Value, error) {
	if l == nil {
		return json.Marshal(LineItems{})
	}
	return json.Marshal(l)
}

func (l *LineItems) Scan(value interface{}) error {
	if value == nil {
		*l = nil
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return fmt.Errorf("failed to scan LineItems: %v", value)
	}
	return json.Unmarshal(bytes, l)
}

// GsnEntry is a goods-served-note intake record. Receipt numbers are unique
// for this variant.
type GsnEntry struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	GrinNo      string    `gorm:"type:varchar(50);uniqueIndex;not null" json:"grinNo"`
	GrinDate    string    `gorm:"type:varchar(20)" json:"grinDate"`
	GsnNo       string    `gorm:"type:varchar(50);not null" json:"gsnNo"`
	GsnDate     string    `gorm:"type:varchar(20)" json:"gsnDate"`
	PoNo        string    `gorm:"type:varchar(50)" json:"poNo"`
	PoDate      string    `gorm:"type:varchar(20)" json:"poDate"`
	PartyName   string    `gorm:"type:varchar(255);index;not null" json:"partyName"`
	InvoiceNo   string    `gorm:"type:varchar(50)" json:"invoiceNo"`
	InvoiceDate string    `gorm:"type:varchar(20)" json:"invoiceDate"`
	LrNo        string    `gorm:"type:varchar(50)" json:"lrNo"`
	LrDate      string    `gorm:"type:varchar(20)" json:"lrDate"`
	Transporter string    `gorm:"type:varchar(255)" json:"transporter"`
	VehicleNo   string    `gorm:"type:varchar(50)" json:"vehicleNo"`

	MaterialInfo string    `gorm:"type:text" json:"materialInfo"`
	LineItems    LineItems `gorm:"type:jsonb" json:"tableData"`

	GstNo         string          `gorm:"type:varchar(30)" json:"gstNo"`
	Cgst          decimal.Decimal `gorm:"type:numeric(14,2)" json:"cgst"`
	Sgst          decimal.Decimal `gorm:"type:numeric(14,2)" json:"sgst"`
	Igst          decimal.Decimal `gorm:"type:numeric(14,2)" json:"igst"`
	GstTax        decimal.Decimal `gorm:"type:numeric(14,2)" json:"gstTax"`
	MaterialTotal decimal.Decimal `gorm:"type:numeric(14,2)" json:"materialTotal"`
	TotalAmount   decimal.Decimal `gorm:"type:numeric(14,2)" json:"totalAmount"`

	CompanyName string `gorm:"type:varchar(255)" json:"companyName"`
	Address     string `gorm:"type:text" json:"address"`
	MobileNo    string `gorm:"type:varchar(20)" json:"mobileNo"`

	FilePath  string `gorm:"type:varchar(512)" json:"file"`
	PhotoPath string `gorm:"type:varchar(512)" json:"photoPath"`

	StoreManagerSigned    bool `gorm:"default:false" json:"StoreManagerSigned"`
	PurchaseManagerSigned bool `gorm:"default:false" json:"PurchaseManagerSigned"`
	GeneralManagerSigned  bool `gorm:"default:false" json:"GeneralManagerSigned"`
	AccountManagerSigned  bool `gorm:"default:false" json:"AccountManagerSigned"`
	AuditorSigned         bool `gorm:"default:false" json:"AuditorSigned"`
	IsHidden              bool `gorm:"default:false" json:"isHidden"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// GrinEntry is the second intake record kind ("Entries"). Same shape as
// GsnEntry plus the goods-origin and weight-variance fields; receipt numbers
// are not unique here.
type GrinEntry struct {
	ID           uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	GrinNo       string    `gorm:"type:varchar(50);index;not null" json:"grinNo"`
	GrinDate     string    `gorm:"type:varchar(20)" json:"grinDate"`
	GsnNo        string    `gorm:"type:varchar(50)" json:"gsnNo"`
	GsnDate      string    `gorm:"type:varchar(20)" json:"gsnDate"`
	PoNo         string    `gorm:"type:varchar(50)" json:"poNo"`
	PoDate       string    `gorm:"type:varchar(20)" json:"poDate"`
	PartyName    string    `gorm:"type:varchar(255);index;not null" json:"partyName"`
	InvoiceNo    string    `gorm:"type:varchar(50)" json:"invoiceNo"`
	InvoiceDate  string    `gorm:"type:varchar(20)" json:"invoiceDate"`
	ReceivedFrom string    `gorm:"type:varchar(255)" json:"receivedFrom"`
	LrNo         string    `gorm:"type:varchar(50)" json:"lrNo"`
	LrDate       string    `gorm:"type:varchar(20)" json:"lrDate"`
	Transporter  string    `gorm:"type:varchar(255)" json:"transporter"`
	VehicleNo    string    `gorm:"type:varchar(50)" json:"vehicleNo"`

	MaterialInfo string    `gorm:"type:text" json:"materialInfo"`
	LineItems    LineItems `gorm:"type:jsonb" json:"tableData"`

	GstNo         string          `gorm:"type:varchar(30)" json:"gstNo"`
	Cgst          decimal.Decimal `gorm:"type:numeric(14,2)" json:"cgst"`
	Sgst          decimal.Decimal `gorm:"type:numeric(14,2)" json:"sgst"`
	Igst          decimal.Decimal `gorm:"type:numeric(14,2)" json:"igst"`
	GstTax        decimal.Decimal `gorm:"type:numeric(14,2)" json:"gstTax"`
	MaterialTotal decimal.Decimal `gorm:"type:numeric(14,2)" json:"materialTotal"`
	TotalAmount   decimal.Decimal `gorm:"type:numeric(14,2)" json:"totalAmount"`
	Discount      decimal.Decimal `gorm:"type:numeric(14,2)" json:"discount"`

	WeightDifferenceNotes string          `gorm:"type:text" json:"weightDifferenceNotes"`
	WeightDifferenceValue decimal.Decimal `gorm:"type:numeric(14,2)" json:"weightDifferenceValue"`

	CompanyName string `gorm:"type:varchar(255)" json:"companyName"`
	Address     string `gorm:"type:text" json:"address"`
	MobileNo    string `gorm:"type:varchar(20)" json:"mobileNo"`

	FilePath  string `gorm:"type:varchar(512)" json:"file"`
	PhotoPath string `gorm:"type:varchar(512)" json:"photoPath"`

	StoreManagerSigned    bool `gorm:"default:false" json:"StoreManagerSigned"`
	PurchaseManagerSigned bool `gorm:"default:false" json:"PurchaseManagerSigned"`
	GeneralManagerSigned  bool `gorm:"default:false" json:"GeneralManagerSigned"`
	AccountManagerSigned  bool `gorm:"default:false" json:"AccountManagerSigned"`
	AuditorSigned         bool `gorm:"default:false" json:"AuditorSigned"`
	IsHidden              bool `gorm:"default:false" json:"isHidden"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
