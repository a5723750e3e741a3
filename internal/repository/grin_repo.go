package repository

import (
	"context"

	"github.com/Sachinsen7/grin/internal/model"

	"gorm.io/gorm"
)

// GrinRepository defines data access for GRIN ("Entries") intake records.
type GrinRepository interface {
	Create(ctx context.Context, entry *model.GrinEntry) error
	List(ctx context.Context, offset, limit int) ([]model.GrinEntry, int64, error)
	ListAll(ctx context.Context) ([]model.GrinEntry, error)
	ListByParty(ctx context.Context, partyName string) ([]model.GrinEntry, error)
	// SetSignatureByParty flips one signature column on every record of the
	// party. column must come from model.ManagerSignatureField.
	SetSignatureByParty(ctx context.Context, partyName, column string, value bool) (matched, modified int64, err error)
}

type grinRepository struct {
	db *gorm.DB
}

// NewGrinRepository returns a new instance of GrinRepository.
func NewGrinRepository(db *gorm.DB) GrinRepository {
	return &grinRepository{db: db}
}

func (r *grinRepository) Create(ctx context.Context, entry *model.GrinEntry) error {
	return GetDB(ctx, r.db).Create(entry).Error
}

func (r *grinRepository) List(ctx context.Context, offset, limit int) ([]model.GrinEntry, int64, error) {
	var entries []model.GrinEntry
	var total int64

	db := GetDB(ctx, r.db)
	if err := db.Model(&model.GrinEntry{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := db.Order("created_at DESC").Offset(offset).Limit(limit).Find(&entries).Error; err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}

func (r *grinRepository) ListAll(ctx context.Context) ([]model.GrinEntry, error) {
	var entries []model.GrinEntry
	if err := GetDB(ctx, r.db).Order("created_at ASC").Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *grinRepository) ListByParty(ctx context.Context, partyName string) ([]model.GrinEntry, error) {
	var entries []model.GrinEntry
	if err := GetDB(ctx, r.db).Where("party_name = ?", partyName).Order("created_at ASC").Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *grinRepository) SetSignatureByParty(ctx context.Context, partyName, column string, value bool) (int64, int64, error) {
	db := GetDB(ctx, r.db)

	var matched int64
	if err := db.Model(&model.GrinEntry{}).Where("party_name = ?", partyName).Count(&matched).Error; err != nil {
		return 0, 0, err
	}

	res := db.Model(&model.GrinEntry{}).
		Where("party_name = ?", partyName).
		Where(column+" IS DISTINCT FROM ?", value).
		Update(column, value)
	return matched, res.RowsAffected, res.Error
}
