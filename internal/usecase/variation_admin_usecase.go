package usecase

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

// VariationAdminUsecase は出品側の選択軸・組み合わせ管理。
type VariationAdminUsecase struct {
	products   repo.ProductRepository
	variations repo.VariationRepository
}

func NewVariationAdminUsecase(products repo.ProductRepository, variations repo.VariationRepository) *VariationAdminUsecase {
	return &VariationAdminUsecase{products: products, variations: variations}
}

type VariationOptionInput struct {
	Name     string `json:"name"`
	ImageRef string `json:"image_ref"`
}

type VariationTypeInput struct {
	Name    string                  `json:"name"`
	Kind    model.VariationTypeKind `json:"kind"`
	Options []VariationOptionInput  `json:"options"`
}

// SaveTypes は選択軸とoptionを丸ごと入れ替える。
// IDは振り直されるため、既存の組み合わせ行は次のmatrix保存で作り直す前提。
func (u *VariationAdminUsecase) SaveTypes(ctx context.Context, actor Actor, productID int64, inputs []VariationTypeInput) ([]model.VariationType, error) {
	if _, err := u.loadOwned(ctx, actor, productID); err != nil {
		return nil, err
	}

	types := make([]model.VariationType, 0, len(inputs))
	for ti, in := range inputs {
		if strings.TrimSpace(in.Name) == "" {
			return nil, NewHTTPError(http.StatusBadRequest, "type name is required")
		}
		kind := in.Kind
		if kind == "" {
			kind = model.VariationTypeKindSelect
		}

		vt := model.VariationType{
			ProductID: productID,
			Name:      strings.TrimSpace(in.Name),
			Kind:      kind,
			Position:  int64(ti),
		}
		for oi, opt := range in.Options {
			if strings.TrimSpace(opt.Name) == "" {
				return nil, NewHTTPError(http.StatusBadRequest, "option name is required")
			}
			vt.Options = append(vt.Options, model.VariationTypeOption{
				Name:     strings.TrimSpace(opt.Name),
				ImageRef: opt.ImageRef,
				Position: int64(oi),
			})
		}
		types = append(types, vt)
	}

	saved, err := u.variations.ReplaceTypes(ctx, productID, types)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return saved, nil
}

// 組み合わせ編集画面の1行
type MatrixRow struct {
	//既存行があればそのID、無ければ0
	VariationID int64 `json:"variation_id"`

	OptionIDs []int64  `json:"variation_type_option_ids"`
	Labels    []string `json:"labels"`
	Price     *int64   `json:"price"`
	Quantity  *int64   `json:"quantity"`
}

// Matrix は全optionの直積を生成し、既存の組み合わせ行を
// option集合キーで突き合わせて重ねる。保存済みの価格・数量は残り、
// 新しい組み合わせは空欄で出てくる。
func (u *VariationAdminUsecase) Matrix(ctx context.Context, actor Actor, productID int64) ([]MatrixRow, error) {
	if _, err := u.loadOwned(ctx, actor, productID); err != nil {
		return nil, err
	}

	types, err := u.variations.ListTypesByProductID(ctx, productID)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	existing, err := u.variations.ListByProductID(ctx, productID)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	byKey := make(map[string]model.Variation, len(existing))
	for _, v := range existing {
		byKey[model.OptionSetKey(v.OptionIDs)] = v
	}

	combos := cartesian(types)

	rows := make([]MatrixRow, 0, len(combos))
	for _, combo := range combos {
		row := MatrixRow{
			OptionIDs: combo.optionIDs,
			Labels:    combo.labels,
		}
		if v, ok := byKey[model.OptionSetKey(combo.optionIDs)]; ok {
			row.VariationID = v.ID
			row.Price = v.Price
			row.Quantity = v.Quantity
		}
		rows = append(rows, row)
	}
	return rows, nil
}

type MatrixRowInput struct {
	OptionIDs []int64 `json:"variation_type_option_ids"`
	Price     *int64  `json:"price"`
	Quantity  *int64  `json:"quantity"`
}

// SaveMatrix は組み合わせ行を(product_id, option集合)でupsertし、
// 入力に無い既存行を消す。optionは現在の選択軸から各1つ。
func (u *VariationAdminUsecase) SaveMatrix(ctx context.Context, actor Actor, productID int64, inputs []MatrixRowInput) error {
	if _, err := u.loadOwned(ctx, actor, productID); err != nil {
		return err
	}

	types, err := u.variations.ListTypesByProductID(ctx, productID)
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	//option_id -> variation_type_id
	optionType := map[int64]int64{}
	for _, vt := range types {
		for _, opt := range vt.Options {
			optionType[opt.ID] = vt.ID
		}
	}

	var keepIDs []int64
	seen := map[string]bool{}

	for _, in := range inputs {
		if len(in.OptionIDs) != len(types) {
			return NewHTTPError(http.StatusBadRequest, "each row needs one option per variation type")
		}
		usedTypes := map[int64]bool{}
		for _, oid := range in.OptionIDs {
			tid, ok := optionType[oid]
			if !ok {
				return NewHTTPError(http.StatusBadRequest, "unknown option id")
			}
			if usedTypes[tid] {
				return NewHTTPError(http.StatusBadRequest, "duplicate variation type in row")
			}
			usedTypes[tid] = true
		}
		if in.Price != nil && *in.Price < 0 {
			return NewHTTPError(http.StatusBadRequest, "invalid price")
		}
		if in.Quantity != nil && *in.Quantity < 0 {
			return NewHTTPError(http.StatusBadRequest, "invalid quantity")
		}

		key := model.OptionSetKey(in.OptionIDs)
		if seen[key] {
			return NewHTTPError(http.StatusBadRequest, "duplicate option set")
		}
		seen[key] = true

		saved, err := u.variations.Upsert(ctx, model.Variation{
			ProductID: productID,
			OptionIDs: model.SortedOptionIDs(in.OptionIDs),
			OptionKey: key,
			Price:     in.Price,
			Quantity:  in.Quantity,
		})
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		keepIDs = append(keepIDs, saved.ID)
	}

	if err := u.variations.DeleteByProductIDExcept(ctx, productID, keepIDs); err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

type optionCombo struct {
	optionIDs []int64
	labels    []string
}

// 各選択軸のoptionを1つずつ選ぶ全組み合わせ。
// optionを持たない軸は飛ばす。軸が1つも無ければ空。
func cartesian(types []model.VariationType) []optionCombo {
	combos := []optionCombo{}

	for _, vt := range types {
		if len(vt.Options) == 0 {
			continue
		}

		if len(combos) == 0 {
			for _, opt := range vt.Options {
				combos = append(combos, optionCombo{
					optionIDs: []int64{opt.ID},
					labels:    []string{vt.Name + ": " + opt.Name},
				})
			}
			continue
		}

		next := make([]optionCombo, 0, len(combos)*len(vt.Options))
		for _, c := range combos {
			for _, opt := range vt.Options {
				ids := make([]int64, len(c.optionIDs), len(c.optionIDs)+1)
				copy(ids, c.optionIDs)
				labels := make([]string, len(c.labels), len(c.labels)+1)
				copy(labels, c.labels)

				next = append(next, optionCombo{
					optionIDs: append(ids, opt.ID),
					labels:    append(labels, vt.Name+": "+opt.Name),
				})
			}
		}
		combos = next
	}

	return combos
}

func (u *VariationAdminUsecase) loadOwned(ctx context.Context, actor Actor, productID int64) (*model.Product, error) {
	if err := requireVendor(actor); err != nil {
		return nil, err
	}

	p, err := u.products.FindByID(ctx, productID)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, NewHTTPError(http.StatusNotFound, "product not found")
	}
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if actor.Role != model.RoleAdmin && p.CreatedBy != actor.UserID {
		return nil, NewHTTPError(http.StatusForbidden, "forbidden")
	}
	return &p, nil
}
