package repository

import (
	"context"
	"errors"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"gorm.io/gorm"
)

type VariationGormRepository struct {
	db *gorm.DB
}

// DI
func NewVariationGormRepository(db *gorm.DB) *VariationGormRepository {
	return &VariationGormRepository{db: db}
}

func (r *VariationGormRepository) ListTypesByProductID(ctx context.Context, productID int64) ([]model.VariationType, error) {
	var types []model.VariationType
	err := r.db.WithContext(ctx).
		Preload("Options", func(db *gorm.DB) *gorm.DB { return db.Order("position asc, id asc") }).
		Where("product_id = ?", productID).
		Order("position asc, id asc").
		Find(&types).Error
	if err != nil {
		return []model.VariationType{}, err
	}
	return types, nil
}

// 軸とoptionを丸ごと入れ替える。既存の軸・optionは全削除してから作り直す。
func (r *VariationGormRepository) ReplaceTypes(ctx context.Context, productID int64, types []model.VariationType) ([]model.VariationType, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var oldTypes []model.VariationType
		if err := tx.Where("product_id = ?", productID).Find(&oldTypes).Error; err != nil {
			return err
		}

		if len(oldTypes) > 0 {
			oldIDs := make([]int64, 0, len(oldTypes))
			for _, t := range oldTypes {
				oldIDs = append(oldIDs, t.ID)
			}
			if err := tx.Where("variation_type_id IN ?", oldIDs).Delete(&model.VariationTypeOption{}).Error; err != nil {
				return err
			}
			if err := tx.Where("product_id = ?", productID).Delete(&model.VariationType{}).Error; err != nil {
				return err
			}
		}

		for i := range types {
			types[i].ID = 0
			types[i].ProductID = productID
			types[i].Position = int64(i)
			opts := types[i].Options
			types[i].Options = nil

			if err := tx.Create(&types[i]).Error; err != nil {
				return err
			}

			for j := range opts {
				opts[j].ID = 0
				opts[j].VariationTypeID = types[i].ID
				opts[j].Position = int64(j)
				if err := tx.Create(&opts[j]).Error; err != nil {
					return err
				}
			}
			types[i].Options = opts
		}
		return nil
	})
	if err != nil {
		return []model.VariationType{}, err
	}
	return types, nil
}

// カート表示用の一括ロード
func (r *VariationGormRepository) ListOptionsByIDs(ctx context.Context, ids []int64) ([]model.VariationTypeOption, error) {
	if len(ids) == 0 {
		return []model.VariationTypeOption{}, nil
	}

	var options []model.VariationTypeOption
	err := r.db.WithContext(ctx).
		Preload("VariationType").
		Where("id IN ?", ids).
		Find(&options).Error
	if err != nil {
		return []model.VariationTypeOption{}, err
	}
	return options, nil
}

func (r *VariationGormRepository) ListByProductID(ctx context.Context, productID int64) ([]model.Variation, error) {
	var variations []model.Variation
	err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("id asc").
		Find(&variations).Error
	if err != nil {
		return []model.Variation{}, err
	}
	return variations, nil
}

// option集合キーの一致で1件取得
func (r *VariationGormRepository) FindByOptionSet(ctx context.Context, productID int64, optionIDs []int64) (model.Variation, error) {
	var v model.Variation
	err := r.db.WithContext(ctx).
		Where("product_id = ? AND option_key = ?", productID, model.OptionSetKey(optionIDs)).
		First(&v).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Variation{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Variation{}, err
	}
	return v, nil
}

// (product_id, option集合) で upsert
func (r *VariationGormRepository) Upsert(ctx context.Context, v model.Variation) (model.Variation, error) {
	v.OptionIDs = model.SortedOptionIDs(v.OptionIDs)
	v.OptionKey = model.OptionSetKey(v.OptionIDs)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing model.Variation
		findErr := tx.
			Where("product_id = ? AND option_key = ?", v.ProductID, v.OptionKey).
			First(&existing).Error

		if findErr == nil {
			res := tx.Model(&model.Variation{}).
				Where("id = ?", existing.ID).
				Updates(map[string]interface{}{
					"price":    v.Price,
					"quantity": v.Quantity,
				})
			if res.Error != nil {
				return res.Error
			}
			v.ID = existing.ID
			return nil
		}
		if !errors.Is(findErr, gorm.ErrRecordNotFound) {
			return findErr
		}

		return tx.Create(&v).Error
	})
	if err != nil {
		return model.Variation{}, err
	}
	return v, nil
}

func (r *VariationGormRepository) DeleteByProductIDExcept(ctx context.Context, productID int64, keepIDs []int64) error {
	tx := r.db.WithContext(ctx).Where("product_id = ?", productID)
	if len(keepIDs) > 0 {
		tx = tx.Where("id NOT IN ?", keepIDs)
	}
	return tx.Delete(&model.Variation{}).Error
}
