package repository

import (
	"context"
	"errors"
	"time"

	"app/internal/domain/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CartItemGormRepository struct {
	db *gorm.DB
}

// DI
func NewCartItemGormRepository(db *gorm.DB) *CartItemGormRepository {
	return &CartItemGormRepository{db: db}
}

// ユーザーのカート行を一覧取得
func (r *CartItemGormRepository) ListByUserID(ctx context.Context, userID int64) ([]model.CartItem, error) {
	var items []model.CartItem
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id asc").
		Find(&items).Error; err != nil {
		return []model.CartItem{}, err
	}
	return items, nil
}

// (user_id, product_id, option_key) でupsert。
// 既存行があれば increment に応じて数量を加算か上書き。
// 行ロックで同時addを直列化し、最後の書き込みが必ず勝つ。
func (r *CartItemGormRepository) Save(ctx context.Context, item model.CartItem, increment bool) error {
	if item.Quantity <= 0 {
		return errors.New("invalid quantity")
	}
	item.OptionKey = item.OptionIDs.Key()

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing model.CartItem

		err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("user_id = ? AND product_id = ? AND option_key = ?",
				item.UserID, item.ProductID, item.OptionKey).
			First(&existing).Error

		if err == nil {
			newQty := item.Quantity
			if increment {
				newQty = existing.Quantity + item.Quantity
			}

			res := tx.Model(&model.CartItem{}).
				Where("id = ?", existing.ID).
				Updates(map[string]interface{}{
					"quantity": newQty,
					"price":    item.Price,
				})
			return res.Error
		}

		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		//無い場合は新規作成
		now := time.Now()
		item.ID = 0
		item.CreatedAt = now
		item.UpdatedAt = now
		return tx.Create(&item).Error
	})
}

// 数量を更新。行が無ければ黙って何もしない（仕様）
func (r *CartItemGormRepository) UpdateQuantity(ctx context.Context, userID int64, productID int64, optionKey string, quantity int64) error {
	res := r.db.WithContext(ctx).
		Model(&model.CartItem{}).
		Where("user_id = ? AND product_id = ? AND option_key = ?", userID, productID, optionKey).
		Update("quantity", quantity)
	return res.Error
}

// 行を削除。行が無ければ黙って何もしない（仕様）
func (r *CartItemGormRepository) Remove(ctx context.Context, userID int64, productID int64, optionKey string) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ? AND option_key = ?", userID, productID, optionKey).
		Delete(&model.CartItem{}).Error
}

func (r *CartItemGormRepository) Clear(ctx context.Context, userID int64) error {
	return r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&model.CartItem{}).Error
}

// 購入済み商品の行を消す。取り置き（saved_for_later）は残す
func (r *CartItemGormRepository) PurgePurchased(ctx context.Context, userID int64, productIDs []int64) error {
	if len(productIDs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Where("user_id = ? AND product_id IN ? AND saved_for_later = ?", userID, productIDs, false).
		Delete(&model.CartItem{}).Error
}
