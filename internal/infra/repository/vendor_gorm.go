package repository

import (
	"context"
	"errors"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type VendorGormRepository struct {
	db *gorm.DB
}

func NewVendorGormRepository(db *gorm.DB) *VendorGormRepository {
	return &VendorGormRepository{db: db}
}

func (r *VendorGormRepository) FindByUserID(ctx context.Context, userID int64) (model.Vendor, error) {
	var v model.Vendor
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&v).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Vendor{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Vendor{}, err
	}
	return v, nil
}

// カートのベンダー別表示用の一括取得
func (r *VendorGormRepository) ListByUserIDs(ctx context.Context, userIDs []int64) ([]model.Vendor, error) {
	if len(userIDs) == 0 {
		return []model.Vendor{}, nil
	}

	var vendors []model.Vendor
	err := r.db.WithContext(ctx).Where("user_id IN ?", userIDs).Find(&vendors).Error
	if err != nil {
		return []model.Vendor{}, err
	}
	return vendors, nil
}

func (r *VendorGormRepository) Upsert(ctx context.Context, v model.Vendor) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"store_name"}),
		}).
		Create(&v).Error
}
