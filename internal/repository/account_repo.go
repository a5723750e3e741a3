package repository

import (
	"context"

	"github.com/Sachinsen7/grin/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AccountRepository defines data access for role accounts. Every query is
// scoped to one role collection.
type AccountRepository interface {
	Create(ctx context.Context, account *model.Account) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Account, error)
	FindByUsername(ctx context.Context, role, username string) (*model.Account, error)
	ListByRole(ctx context.Context, role string) ([]model.Account, error)
	Delete(ctx context.Context, role string, id uuid.UUID) (int64, error)
}

type accountRepository struct {
	db *gorm.DB
}

// NewAccountRepository returns a new instance of AccountRepository.
func NewAccountRepository(db *gorm.DB) AccountRepository {
	return &accountRepository{db: db}
}

func (r *accountRepository) Create(ctx context.Context, account *model.Account) error {
	return GetDB(ctx, r.db).Create(account).Error
}

func (r *accountRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Account, error) {
	var account model.Account
	if err := GetDB(ctx, r.db).First(&account, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &account, nil
}

func (r *accountRepository) FindByUsername(ctx context.Context, role, username string) (*model.Account, error) {
	var account model.Account
	if err := GetDB(ctx, r.db).First(&account, "role = ? AND username = ?", role, username).Error; err != nil {
		return nil, err
	}
	return &account, nil
}

func (r *accountRepository) ListByRole(ctx context.Context, role string) ([]model.Account, error) {
	var accounts []model.Account
	err := GetDB(ctx, r.db).
		Select("id", "name", "username", "role", "created_at").
		Where("role = ?", role).
		Order("created_at ASC").
		Find(&accounts).Error
	if err != nil {
		return nil, err
	}
	return accounts, nil
}

func (r *accountRepository) Delete(ctx context.Context, role string, id uuid.UUID) (int64, error) {
	res := GetDB(ctx, r.db).Where("role = ? AND id = ?", role, id).Delete(&model.Account{})
	return res.RowsAffected, res.Error
}
