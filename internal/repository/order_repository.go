package repository

import (
	"app/internal/domain/model"
	"context"
)

type OrderRepository interface {
	FindByID(ctx context.Context, orderID int64) (model.Order, error)
	ListByUserID(ctx context.Context, userID int64, page int, limit int) ([]model.Order, int64, error)
	Create(ctx context.Context, order model.Order) (int64, error)

	//チェックアウトやり直しのための下書き破棄用
	ListDraftIDsByUserID(ctx context.Context, userID int64) ([]int64, error)
	DeleteByIDs(ctx context.Context, orderIDs []int64) error

	//支払い対象の絞り込み（本人のDRAFTのみ）
	ListDraftsByUserIDAndIDs(ctx context.Context, userID int64, orderIDs []int64) ([]model.Order, error)

	//PAIDへの遷移と手数料内訳の確定
	MarkPaid(ctx context.Context, orderID int64, websiteCommission int64, vendorSubtotal int64) error
}
