package repository

import (
	"app/internal/domain/model"
	"context"
)

// DB側カート行の永続化。(user_id, product_id, option_key) が一意キー。
type CartItemRepository interface {
	ListByUserID(ctx context.Context, userID int64) ([]model.CartItem, error)

	//既存行があれば increment に応じて加算か上書き、無ければ新規作成
	Save(ctx context.Context, item model.CartItem, increment bool) error

	//行が無ければ黙って何もしない
	UpdateQuantity(ctx context.Context, userID int64, productID int64, optionKey string, quantity int64) error
	Remove(ctx context.Context, userID int64, productID int64, optionKey string) error

	Clear(ctx context.Context, userID int64) error

	//購入済み商品の行を消す。saved_for_later=true の行は残す
	PurgePurchased(ctx context.Context, userID int64, productIDs []int64) error
}
