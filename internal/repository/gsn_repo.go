package repository

import (
	"context"

	"github.com/Sachinsen7/grin/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GsnRepository defines data access for GSN intake records.
type GsnRepository interface {
	Create(ctx context.Context, entry *model.GsnEntry) error
	ExistsByGrinNo(ctx context.Context, grinNo string) (bool, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.GsnEntry, error)
	List(ctx context.Context, offset, limit int) ([]model.GsnEntry, int64, error)
	ListAll(ctx context.Context) ([]model.GsnEntry, error)
	ListByParty(ctx context.Context, partyName string) ([]model.GsnEntry, error)
	UpdateColumnsByID(ctx context.Context, id uuid.UUID, columns map[string]interface{}) (*model.GsnEntry, error)
	UpdateColumnsByParty(ctx context.Context, partyName string, columns map[string]interface{}) (int64, error)
	DeleteByParty(ctx context.Context, partyName string) (int64, error)
	// SetSignatureByParty flips one signature column on every record of the
	// party. column must come from model.ManagerSignatureField.
	SetSignatureByParty(ctx context.Context, partyName, column string, value bool) (matched, modified int64, err error)
}

type gsnRepository struct {
	db *gorm.DB
}

// NewGsnRepository returns a new instance of GsnRepository.
func NewGsnRepository(db *gorm.DB) GsnRepository {
	return &gsnRepository{db: db}
}

func (r *gsnRepository) Create(ctx context.Context, entry *model.GsnEntry) error {
	return GetDB(ctx, r.db).Create(entry).Error
}

func (r *gsnRepository) ExistsByGrinNo(ctx context.Context, grinNo string) (bool, error) {
	var count int64
	err := GetDB(ctx, r.db).Model(&model.GsnEntry{}).Where("grin_no = ?", grinNo).Count(&count).Error
	return count > 0, err
}

func (r *gsnRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.GsnEntry, error) {
	var entry model.GsnEntry
	if err := GetDB(ctx, r.db).First(&entry, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *gsnRepository) List(ctx context.Context, offset, limit int) ([]model.GsnEntry, int64, error) {
	var entries []model.GsnEntry
	var total int64

	db := GetDB(ctx, r.db)
	if err := db.Model(&model.GsnEntry{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := db.Order("created_at DESC").Offset(offset).Limit(limit).Find(&entries).Error; err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}

func (r *gsnRepository) ListAll(ctx context.Context) ([]model.GsnEntry, error) {
	var entries []model.GsnEntry
	if err := GetDB(ctx, r.db).Order("created_at ASC").Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// ListByParty returns the party's entries oldest first, so callers can take
// the last element as the most recent receipt.
func (r *gsnRepository) ListByParty(ctx context.Context, partyName string) ([]model.GsnEntry, error) {
	var entries []model.GsnEntry
	if err := GetDB(ctx, r.db).Where("party_name = ?", partyName).Order("created_at ASC").Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *gsnRepository) UpdateColumnsByID(ctx context.Context, id uuid.UUID, columns map[string]interface{}) (*model.GsnEntry, error) {
	db := GetDB(ctx, r.db)
	res := db.Model(&model.GsnEntry{}).Where("id = ?", id).Updates(columns)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return r.FindByID(ctx, id)
}

func (r *gsnRepository) UpdateColumnsByParty(ctx context.Context, partyName string, columns map[string]interface{}) (int64, error) {
	res := GetDB(ctx, r.db).Model(&model.GsnEntry{}).Where("party_name = ?", partyName).Updates(columns)
	return res.RowsAffected, res.Error
}

func (r *gsnRepository) DeleteByParty(ctx context.Context, partyName string) (int64, error) {
	res := GetDB(ctx, r.db).Where("party_name = ?", partyName).Delete(&model.GsnEntry{})
	return res.RowsAffected, res.Error
}

func (r *gsnRepository) SetSignatureByParty(ctx context.Context, partyName, column string, value bool) (int64, int64, error) {
	db := GetDB(ctx, r.db)

	var matched int64
	if err := db.Model(&model.GsnEntry{}).Where("party_name = ?", partyName).Count(&matched).Error; err != nil {
		return 0, 0, err
	}

	// Restricting the update keeps the modified count honest: Postgres
	// otherwise reports every matched row as affected even when the value
	// is already equal.
	res := db.Model(&model.GsnEntry{}).
		Where("party_name = ?", partyName).
		Where(column+" IS DISTINCT FROM ?", value).
		Update(column, value)
	return matched, res.RowsAffected, res.Error
}
