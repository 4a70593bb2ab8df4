package repository

import (
	"app/internal/domain/model"
	"context"
	"errors"
)

var ErrNotFound = errors.New("not found")

// 一覧検索
type ProductListQuery struct {
	Page         int
	Limit        int
	Q            string
	DepartmentID *int64
	MinPrice     *int64
	MaxPrice     *int64
	Sort         string
}

// 商品の永続化（保存・取得）だけを約束。
// 表示系の取得は公開済み（PUBLISHED・未削除）だけを返す。
type ProductRepository interface {
	ListPublished(ctx context.Context, q ProductListQuery) ([]model.Product, int64, error)
	FindByID(ctx context.Context, id int64) (model.Product, error)

	//VariationTypes/Options/Variationsをまとめてロードする
	FindPublishedByID(ctx context.Context, id int64) (model.Product, error)
	ListPublishedByIDs(ctx context.Context, ids []int64) ([]model.Product, error)

	Create(ctx context.Context, p model.Product) (model.Product, error)
	Update(ctx context.Context, p model.Product) error
	SetStatus(ctx context.Context, id int64, status model.ProductStatus) error
	SoftDelete(ctx context.Context, id int64) error
}
