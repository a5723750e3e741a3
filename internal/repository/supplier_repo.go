package repository

import (
	"context"

	"github.com/Sachinsen7/grin/internal/model"

	"gorm.io/gorm"
)

// SupplierRepository defines data access for the supplier master list.
type SupplierRepository interface {
	Create(ctx context.Context, supplier *model.Supplier) error
	FindByParty(ctx context.Context, partyName string) (*model.Supplier, error)
	FindActiveByParty(ctx context.Context, partyName string) (*model.Supplier, error)
	ListActive(ctx context.Context) ([]model.Supplier, error)
	UpdateActiveByParty(ctx context.Context, partyName string, columns map[string]interface{}) (int64, error)
	DeactivateByParty(ctx context.Context, partyName string) (int64, error)
}

type supplierRepository struct {
	db *gorm.DB
}

// NewSupplierRepository returns a new instance of SupplierRepository.
func NewSupplierRepository(db *gorm.DB) SupplierRepository {
	return &supplierRepository{db: db}
}

func (r *supplierRepository) Create(ctx context.Context, supplier *model.Supplier) error {
	return GetDB(ctx, r.db).Create(supplier).Error
}

func (r *supplierRepository) FindByParty(ctx context.Context, partyName string) (*model.Supplier, error) {
	var supplier model.Supplier
	if err := GetDB(ctx, r.db).First(&supplier, "party_name = ?", partyName).Error; err != nil {
		return nil, err
	}
	return &supplier, nil
}

func (r *supplierRepository) FindActiveByParty(ctx context.Context, partyName string) (*model.Supplier, error) {
	var supplier model.Supplier
	if err := GetDB(ctx, r.db).First(&supplier, "party_name = ? AND is_active = ?", partyName, true).Error; err != nil {
		return nil, err
	}
	return &supplier, nil
}

func (r *supplierRepository) ListActive(ctx context.Context) ([]model.Supplier, error) {
	var suppliers []model.Supplier
	if err := GetDB(ctx, r.db).Where("is_active = ?", true).Find(&suppliers).Error; err != nil {
		return nil, err
	}
	return suppliers, nil
}

func (r *supplierRepository) UpdateActiveByParty(ctx context.Context, partyName string, columns map[string]interface{}) (int64, error) {
	res := GetDB(ctx, r.db).Model(&model.Supplier{}).
		Where("party_name = ? AND is_active = ?", partyName, true).
		Updates(columns)
	return res.RowsAffected, res.Error
}

func (r *supplierRepository) DeactivateByParty(ctx context.Context, partyName string) (int64, error) {
	res := GetDB(ctx, r.db).Model(&model.Supplier{}).
		Where("party_name = ? AND is_active = ?", partyName, true).
		Update("is_active", false)
	return res.RowsAffected, res.Error
}
