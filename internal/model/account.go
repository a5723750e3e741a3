package model

import (
	"time"

	"github.com/google/uuid"
)

// Role collection names. Each behaves as its own account namespace: the same
// username may exist under two different roles.
const (
	RoleAdmin           = "admin"
	RoleGsn             = "gsn"
	RoleAttendee        = "attendee"
	RoleStoreManager    = "storemanager"
	RolePurchaseManager = "purchasemanager"
	RoleGeneralManager  = "generalmanager"
	RoleAccountManager  = "accountmanager"
	RoleAuditor         = "auditor"
)

// Roles lists every account collection.
func Roles() []string {
	return []string{
		RoleAdmin,
		RoleGsn,
		RoleAttendee,
		RoleStoreManager,
		RolePurchaseManager,
		RoleGeneralManager,
		RoleAccountManager,
		RoleAuditor,
	}
}

// ValidRole reports whether name is a known role collection.
func ValidRole(name string) bool {
	for _, r := range Roles() {
		if r == name {
			return true
		}
	}
	return false
}

// Account is a login record for one role collection. Username uniqueness is
// per role, not global.
type Account struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(100)" json:"name"`
	Username  string    `gorm:"type:varchar(30);not null;uniqueIndex:idx_accounts_role_username" json:"username"`
	Role      string    `gorm:"type:varchar(30);not null;uniqueIndex:idx_accounts_role_username" json:"role"`
	Password  string    `gorm:"type:varchar(255);not null" json:"-"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"-"`
}
