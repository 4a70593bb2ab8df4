package usecase

import (
	"context"
	"errors"
	"net/http"
	"regexp"
	"strings"

	"app/internal/domain/model"
	"app/internal/logger"
	"app/internal/media"
	repo "app/internal/repository"

	"go.uber.org/zap"
)

// ProductIndexer は検索インデックスの約束。実体はElasticsearch。
type ProductIndexer interface {
	Index(ctx context.Context, p model.Product) error
	Delete(ctx context.Context, productID int64) error
	Search(ctx context.Context, query string, size int) ([]int64, error)
}

// ProductUsecase は商品の公開側参照と出品側の管理を担当する。
type ProductUsecase struct {
	products    repo.ProductRepository
	departments repo.DepartmentRepository
	media       media.Resolver
	//nilならDB検索のみ
	indexer ProductIndexer
}

func NewProductUsecase(
	products repo.ProductRepository,
	departments repo.DepartmentRepository,
	mediaResolver media.Resolver,
	indexer ProductIndexer,
) *ProductUsecase {
	return &ProductUsecase{
		products:    products,
		departments: departments,
		media:       mediaResolver,
		indexer:     indexer,
	}
}

type ProductSummary struct {
	ID           int64  `json:"id"`
	Title        string `json:"title"`
	Slug         string `json:"slug"`
	Price        int64  `json:"price"`
	DepartmentID int64  `json:"department_id"`
	Image        string `json:"image"`
}

type ProductDetail struct {
	Product model.Product `json:"product"`
	Image   string        `json:"image"`
}

// List は公開中の商品一覧。
// キーワード付きかつインデックスが生きていればElasticsearchで引き、
// ヒットIDの順序を保ってDBから本体をロードする。
// インデックスが落ちていればDBのLIKE検索へフォールバックする。
func (u *ProductUsecase) List(ctx context.Context, q repo.ProductListQuery) ([]ProductSummary, int64, error) {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 || q.Limit > 100 {
		q.Limit = 20
	}

	if q.Q != "" && u.indexer != nil {
		ids, err := u.indexer.Search(ctx, q.Q, q.Limit)
		if err == nil {
			products, err := u.products.ListPublishedByIDs(ctx, ids)
			if err != nil {
				return nil, 0, NewHTTPError(http.StatusInternalServerError, "db error")
			}
			ranked := rankByIDs(products, ids)
			return u.toSummaries(ranked), int64(len(ranked)), nil
		}
		logger.FromCtx(ctx).Warn("search index unavailable, falling back to db",
			zap.String("query", q.Q), zap.Error(err))
	}

	products, total, err := u.products.ListPublished(ctx, q)
	if err != nil {
		return nil, 0, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return u.toSummaries(products), total, nil
}

func (u *ProductUsecase) Detail(ctx context.Context, productID int64) (*ProductDetail, error) {
	p, err := u.products.FindPublishedByID(ctx, productID)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, NewHTTPError(http.StatusNotFound, "product not found")
	}
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	//option画像もURL化して返す
	for ti := range p.VariationTypes {
		for oi := range p.VariationTypes[ti].Options {
			opt := &p.VariationTypes[ti].Options[oi]
			opt.ImageRef = u.media.URL(opt.ImageRef, media.SizeThumb)
		}
	}

	return &ProductDetail{
		Product: p,
		Image:   u.media.URL(p.ImageRef, media.SizeLarge),
	}, nil
}

type ProductInput struct {
	Title        string `json:"title"`
	Slug         string `json:"slug"`
	Description  string `json:"description"`
	Price        int64  `json:"price"`
	Quantity     *int64 `json:"quantity"`
	DepartmentID int64  `json:"department_id"`
	ImageRef     string `json:"image_ref"`
}

func (in *ProductInput) validate() error {
	if strings.TrimSpace(in.Title) == "" {
		return NewHTTPError(http.StatusBadRequest, "title is required")
	}
	if in.Price < 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid price")
	}
	if in.Quantity != nil && *in.Quantity < 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid quantity")
	}
	return nil
}

// Create は出品。作成者はactorで固定し、公開は別操作（Publish）にする。
func (u *ProductUsecase) Create(ctx context.Context, actor Actor, in ProductInput) (*model.Product, error) {
	if err := requireVendor(actor); err != nil {
		return nil, err
	}
	if err := in.validate(); err != nil {
		return nil, err
	}
	if in.DepartmentID > 0 {
		if _, err := u.departments.FindByID(ctx, in.DepartmentID); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return nil, NewHTTPError(http.StatusBadRequest, "invalid department")
			}
			return nil, NewHTTPError(http.StatusInternalServerError, "db error")
		}
	}

	slug := in.Slug
	if slug == "" {
		slug = Slugify(in.Title)
	}

	p, err := u.products.Create(ctx, model.Product{
		Title:        strings.TrimSpace(in.Title),
		Slug:         slug,
		Description:  in.Description,
		Price:        in.Price,
		Quantity:     in.Quantity,
		Status:       model.ProductStatusDraft,
		DepartmentID: in.DepartmentID,
		CreatedBy:    actor.UserID,
		ImageRef:     in.ImageRef,
	})
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return &p, nil
}

func (u *ProductUsecase) Update(ctx context.Context, actor Actor, productID int64, in ProductInput) (*model.Product, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	p, err := u.loadOwned(ctx, actor, productID)
	if err != nil {
		return nil, err
	}

	p.Title = strings.TrimSpace(in.Title)
	if in.Slug != "" {
		p.Slug = in.Slug
	}
	p.Description = in.Description
	p.Price = in.Price
	p.Quantity = in.Quantity
	p.DepartmentID = in.DepartmentID
	if in.ImageRef != "" {
		p.ImageRef = in.ImageRef
	}

	if err := u.products.Update(ctx, *p); err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	//公開中ならインデックスも追従させる
	if p.Status == model.ProductStatusPublished {
		u.reindex(ctx, *p)
	}
	return p, nil
}

// Publish は公開/非公開の切り替えとインデックスの追従。
func (u *ProductUsecase) Publish(ctx context.Context, actor Actor, productID int64, publish bool) error {
	p, err := u.loadOwned(ctx, actor, productID)
	if err != nil {
		return err
	}

	status := model.ProductStatusDraft
	if publish {
		status = model.ProductStatusPublished
	}
	if err := u.products.SetStatus(ctx, productID, status); err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if publish {
		p.Status = model.ProductStatusPublished
		u.reindex(ctx, *p)
	} else {
		u.deindex(ctx, productID)
	}
	return nil
}

func (u *ProductUsecase) Delete(ctx context.Context, actor Actor, productID int64) error {
	if _, err := u.loadOwned(ctx, actor, productID); err != nil {
		return err
	}
	if err := u.products.SoftDelete(ctx, productID); err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	u.deindex(ctx, productID)
	return nil
}

// 本人（またはADMIN）の商品だけ触らせる
func (u *ProductUsecase) loadOwned(ctx context.Context, actor Actor, productID int64) (*model.Product, error) {
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

// インデックス更新の失敗で本処理は止めない
func (u *ProductUsecase) reindex(ctx context.Context, p model.Product) {
	if u.indexer == nil {
		return
	}
	if err := u.indexer.Index(ctx, p); err != nil {
		logger.FromCtx(ctx).Warn("product index failed",
			zap.Int64("product_id", p.ID), zap.Error(err))
	}
}

func (u *ProductUsecase) deindex(ctx context.Context, productID int64) {
	if u.indexer == nil {
		return
	}
	if err := u.indexer.Delete(ctx, productID); err != nil {
		logger.FromCtx(ctx).Warn("product deindex failed",
			zap.Int64("product_id", productID), zap.Error(err))
	}
}

func (u *ProductUsecase) toSummaries(products []model.Product) []ProductSummary {
	out := make([]ProductSummary, 0, len(products))
	for _, p := range products {
		out = append(out, ProductSummary{
			ID:           p.ID,
			Title:        p.Title,
			Slug:         p.Slug,
			Price:        p.Price,
			DepartmentID: p.DepartmentID,
			Image:        u.media.URL(p.ImageRef, media.SizeSmall),
		})
	}
	return out
}

// 検索ヒット順を保つ
func rankByIDs(products []model.Product, ids []int64) []model.Product {
	byID := make(map[int64]model.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	out := make([]model.Product, 0, len(products))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			out = append(out, p)
		}
	}
	return out
}

var slugRe = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify はタイトルからURL用スラッグを作る。
func Slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = slugRe.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}
