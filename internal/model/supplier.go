package model

import (
	"time"

	"github.com/google/uuid"
)

// Supplier source tags for the merged directory view.
const (
	SupplierSourceDerived   = "GSN"
	SupplierSourceDedicated = "Dedicated"
)

// Supplier is an explicitly managed master-list record. Rows derived from
// intake history never live here until they are promoted on write.
type Supplier struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	PartyName   string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"partyName"`
	Address     string    `gorm:"type:text" json:"address"`
	GstNo       string    `gorm:"type:varchar(30)" json:"gstNo"`
	MobileNo    string    `gorm:"type:varchar(20)" json:"mobileNo"`
	CompanyName string    `gorm:"type:varchar(255)" json:"companyName"`
	Email       string    `gorm:"type:varchar(255)" json:"email"`
	// Soft delete: deactivated rows stay for audit, the unique index keeps
	// the party name reserved.
	IsActive  bool      `gorm:"default:true" json:"isActive"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
