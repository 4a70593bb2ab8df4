package repository

import (
	"context"

	"app/internal/domain/model"

	"gorm.io/gorm"
)

type InventoryGormRepository struct {
	db *gorm.DB
}

func NewInventoryGormRepository(db *gorm.DB) *InventoryGormRepository {
	return &InventoryGormRepository{db: db}
}

// 商品在庫を減らす。quantityがNULL（無制限）なら対象外。
// 条件付きUPDATE一発なので同時実行でも更新を失わない
func (r *InventoryGormRepository) DecrementProductQuantity(ctx context.Context, productID int64, qty int64) error {
	res := r.db.WithContext(ctx).
		Model(&model.Product{}).
		Where("id = ? AND quantity IS NOT NULL", productID).
		Update("quantity", gorm.Expr("quantity - ?", qty))
	return res.Error
}

// Variation在庫を減らす。quantityがNULLなら対象外
func (r *InventoryGormRepository) DecrementVariationQuantity(ctx context.Context, variationID int64, qty int64) error {
	res := r.db.WithContext(ctx).
		Model(&model.Variation{}).
		Where("id = ? AND quantity IS NOT NULL", variationID).
		Update("quantity", gorm.Expr("quantity - ?", qty))
	return res.Error
}
