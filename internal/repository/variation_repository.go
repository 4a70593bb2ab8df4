package repository

import (
	"app/internal/domain/model"
	"context"
)

// Variation軸・option・組み合わせ行の永続化。
type VariationRepository interface {
	ListTypesByProductID(ctx context.Context, productID int64) ([]model.VariationType, error)

	//軸とoptionを丸ごと入れ替える（管理画面の保存単位）
	ReplaceTypes(ctx context.Context, productID int64, types []model.VariationType) ([]model.VariationType, error)

	//カート表示用の一括ロード（VariationType込み）
	ListOptionsByIDs(ctx context.Context, ids []int64) ([]model.VariationTypeOption, error)

	ListByProductID(ctx context.Context, productID int64) ([]model.Variation, error)

	//ソート済みoption集合の一致で検索。無ければErrNotFound
	FindByOptionSet(ctx context.Context, productID int64, optionIDs []int64) (model.Variation, error)

	//(product_id, option集合) で upsert
	Upsert(ctx context.Context, v model.Variation) (model.Variation, error)

	//keepIDs以外の組み合わせ行を消す（matrix保存の後始末）
	DeleteByProductIDExcept(ctx context.Context, productID int64, keepIDs []int64) error
}
