package repository

import "context"

// 在庫減算。quantityがNULL（無制限）の行には何もしない。
// read-modify-writeではなく条件付きUPDATE一発で行い、同時実行でも更新を失わない。
// 0未満のクランプは行わない（業務ルール上は外側のガードに任せる）。
type InventoryRepository interface {
	DecrementProductQuantity(ctx context.Context, productID int64, qty int64) error
	DecrementVariationQuantity(ctx context.Context, variationID int64, qty int64) error
}
