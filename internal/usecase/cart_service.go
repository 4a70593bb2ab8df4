package usecase

import (
	"context"
	"errors"
	"net/http"
	"sort"
	"strconv"

	"app/internal/domain/model"
	"app/internal/logger"
	"app/internal/media"
	repo "app/internal/repository"

	"go.uber.org/zap"
)

// 表示用のoption情報
type DisplayOption struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	TypeID   int64  `json:"type_id"`
	TypeName string `json:"type_name"`
}

// 表示用のカート行。商品・option・ベンダー情報をjoin済み。
type DisplayItem struct {
	ID           string                `json:"id"`
	ProductID    int64                 `json:"product_id"`
	Title        string                `json:"title"`
	Slug         string                `json:"slug"`
	Price        int64                 `json:"price"`
	Quantity     int64                 `json:"quantity"`
	OptionIDs    model.OptionSelection `json:"option_ids"`
	Options      []DisplayOption       `json:"options"`
	Image        string                `json:"image"`
	VendorUserID int64                 `json:"vendor_user_id"`
	VendorName   string                `json:"vendor_name"`
}

// ベンダー単位のまとまり。チェックアウト時はこの単位で注文が作られる。
type VendorGroup struct {
	VendorUserID  int64         `json:"vendor_user_id"`
	VendorName    string        `json:"vendor_name"`
	Items         []DisplayItem `json:"items"`
	TotalQuantity int64         `json:"total_quantity"`
	TotalPrice    int64         `json:"total_price"`
}

// CartService は1リクエスト分のカート操作。
// バックエンド（DB行かクッキー文書か）は構築時に確定済みで、
// 以降のロジックは認証状態を見ない。
// 表示リストはリクエスト内でキャッシュし、mutationで無効化する。
type CartService struct {
	backend    repo.CartBackend
	products   repo.ProductRepository
	variations repo.VariationRepository
	vendors    repo.VendorRepository
	media      media.Resolver

	cached []DisplayItem
}

func NewCartService(
	backend repo.CartBackend,
	products repo.ProductRepository,
	variations repo.VariationRepository,
	vendors repo.VendorRepository,
	mediaResolver media.Resolver,
) *CartService {
	return &CartService{
		backend:    backend,
		products:   products,
		variations: variations,
		vendors:    vendors,
		media:      mediaResolver,
	}
}

// Add はカートに追加する。
// optionIDs未指定なら各VariationTypeの先頭optionを選ぶ。
// 価格はこの時点の実効単価をスナップショットする。
func (s *CartService) Add(ctx context.Context, productID int64, optionIDs model.OptionSelection, quantity int64, increment bool) error {
	if productID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid product_id")
	}
	if quantity < 1 {
		return NewHTTPError(http.StatusBadRequest, "invalid quantity")
	}

	//商品チェック（公開のみ・Variation込み）
	p, err := s.products.FindPublishedByID(ctx, productID)
	if errors.Is(err, repo.ErrNotFound) {
		return NewHTTPError(http.StatusBadRequest, "invalid product")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if len(optionIDs) == 0 {
		optionIDs = p.DefaultSelection()
	}

	price := p.PriceForOptions(optionIDs.OptionIDs())

	item := model.CartItem{
		ProductID: productID,
		Quantity:  quantity,
		Price:     price,
		OptionIDs: optionIDs,
		OptionKey: optionIDs.Key(),
	}
	if err := s.backend.Save(ctx, item, increment); err != nil {
		return NewHTTPError(http.StatusInternalServerError, "cart error")
	}

	s.invalidate()
	return nil
}

// UpdateQuantity は数量を変更する。対象行が無ければ何もしない（仕様）。
func (s *CartService) UpdateQuantity(ctx context.Context, productID int64, optionIDs model.OptionSelection, quantity int64) error {
	if productID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid product_id")
	}
	if quantity < 1 {
		return NewHTTPError(http.StatusBadRequest, "invalid quantity")
	}

	if err := s.backend.UpdateQuantity(ctx, productID, optionIDs.Key(), quantity); err != nil {
		return NewHTTPError(http.StatusInternalServerError, "cart error")
	}

	s.invalidate()
	return nil
}

// Remove は行を消す。対象行が無ければ何もしない（仕様）。
func (s *CartService) Remove(ctx context.Context, productID int64, optionIDs model.OptionSelection) error {
	if productID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid product_id")
	}

	if err := s.backend.Remove(ctx, productID, optionIDs.Key()); err != nil {
		return NewHTTPError(http.StatusInternalServerError, "cart error")
	}

	s.invalidate()
	return nil
}

// Items は表示用リストを返す。読み取り失敗はログだけ残して空を返す。
// カート計算が落ちてもページ表示は生かす（仕様）。
func (s *CartService) Items(ctx context.Context) []DisplayItem {
	items, err := s.ItemsStrict(ctx)
	if err != nil {
		logger.FromCtx(ctx).Error("cart items build failed", zap.Error(err))
		return []DisplayItem{}
	}
	return items
}

// ItemsStrict はエラーを握りつぶさない版。チェックアウト経路用。
func (s *CartService) ItemsStrict(ctx context.Context) ([]DisplayItem, error) {
	if s.cached != nil {
		return s.cached, nil
	}

	items, err := s.buildItems(ctx)
	if err != nil {
		return nil, err
	}

	s.cached = items
	return items, nil
}

func (s *CartService) invalidate() {
	s.cached = nil
}

func (s *CartService) buildItems(ctx context.Context) ([]DisplayItem, error) {
	lines, err := s.backend.List(ctx)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return []DisplayItem{}, nil
	}

	//商品を一括取得（公開・未削除のみ。消えた商品の行は表示から落ちる）
	productIDs := make([]int64, 0, len(lines))
	seen := map[int64]bool{}
	for _, line := range lines {
		if !seen[line.ProductID] {
			seen[line.ProductID] = true
			productIDs = append(productIDs, line.ProductID)
		}
	}

	products, err := s.products.ListPublishedByIDs(ctx, productIDs)
	if err != nil {
		return nil, err
	}
	productByID := make(map[int64]model.Product, len(products))
	vendorIDs := make([]int64, 0, len(products))
	for _, p := range products {
		productByID[p.ID] = p
		vendorIDs = append(vendorIDs, p.CreatedBy)
	}

	vendors, err := s.vendors.ListByUserIDs(ctx, vendorIDs)
	if err != nil {
		return nil, err
	}
	vendorByID := make(map[int64]model.Vendor, len(vendors))
	for _, v := range vendors {
		vendorByID[v.UserID] = v
	}

	//optionは行ごとではなく一括でロードする
	optionIDSet := map[int64]bool{}
	optionIDs := []int64{}
	for _, line := range lines {
		for _, oid := range line.OptionIDs {
			if !optionIDSet[oid] {
				optionIDSet[oid] = true
				optionIDs = append(optionIDs, oid)
			}
		}
	}

	options, err := s.variations.ListOptionsByIDs(ctx, optionIDs)
	if err != nil {
		return nil, err
	}
	optionByID := make(map[int64]model.VariationTypeOption, len(options))
	for _, o := range options {
		optionByID[o.ID] = o
	}

	result := make([]DisplayItem, 0, len(lines))
	for _, line := range lines {
		p, ok := productByID[line.ProductID]
		if !ok {
			//非公開・削除済みは黙って落とす（仕様）
			continue
		}

		//type_id昇順で表示順を安定させる
		typeIDs := make([]int64, 0, len(line.OptionIDs))
		for tid := range line.OptionIDs {
			typeIDs = append(typeIDs, tid)
		}
		sort.Slice(typeIDs, func(i, j int) bool { return typeIDs[i] < typeIDs[j] })

		displayOptions := make([]DisplayOption, 0, len(typeIDs))
		imageRef := ""
		for _, tid := range typeIDs {
			opt, ok := optionByID[line.OptionIDs[tid]]
			if !ok {
				continue
			}
			if imageRef == "" && opt.ImageRef != "" {
				imageRef = opt.ImageRef
			}

			typeName := ""
			if opt.VariationType != nil {
				typeName = opt.VariationType.Name
			}
			displayOptions = append(displayOptions, DisplayOption{
				ID:       opt.ID,
				Name:     opt.Name,
				TypeID:   opt.VariationTypeID,
				TypeName: typeName,
			})
		}

		if imageRef == "" {
			imageRef = p.ImageRef
		}

		id := line.GuestID
		if line.ID > 0 {
			id = strconv.FormatInt(line.ID, 10)
		}

		result = append(result, DisplayItem{
			ID:           id,
			ProductID:    p.ID,
			Title:        p.Title,
			Slug:         p.Slug,
			Price:        line.Price,
			Quantity:     line.Quantity,
			OptionIDs:    line.OptionIDs,
			Options:      displayOptions,
			Image:        s.media.URL(imageRef, media.SizeSmall),
			VendorUserID: p.CreatedBy,
			VendorName:   vendorByID[p.CreatedBy].StoreName,
		})
	}

	return result, nil
}

// Grouped はベンダー別のまとまりを返す（表示用・エラーは空）。
func (s *CartService) Grouped(ctx context.Context) []VendorGroup {
	return groupByVendor(s.Items(ctx))
}

// GroupedStrict はチェックアウト用。
func (s *CartService) GroupedStrict(ctx context.Context) ([]VendorGroup, error) {
	items, err := s.ItemsStrict(ctx)
	if err != nil {
		return nil, err
	}
	return groupByVendor(items), nil
}

func groupByVendor(items []DisplayItem) []VendorGroup {
	byVendor := map[int64]*VendorGroup{}
	order := []int64{}

	for _, item := range items {
		g, ok := byVendor[item.VendorUserID]
		if !ok {
			g = &VendorGroup{
				VendorUserID: item.VendorUserID,
				VendorName:   item.VendorName,
			}
			byVendor[item.VendorUserID] = g
			order = append(order, item.VendorUserID)
		}
		g.Items = append(g.Items, item)
		g.TotalQuantity += item.Quantity
		g.TotalPrice += item.Price * item.Quantity
	}

	groups := make([]VendorGroup, 0, len(order))
	for _, vid := range order {
		groups = append(groups, *byVendor[vid])
	}
	return groups
}

// TotalQuantity は表示中の全行の数量合計。
func (s *CartService) TotalQuantity(ctx context.Context) int64 {
	var total int64
	for _, item := range s.Items(ctx) {
		total += item.Quantity
	}
	return total
}

// TotalPrice は表示中の全行の price*quantity 合計。
func (s *CartService) TotalPrice(ctx context.Context) int64 {
	var total int64
	for _, item := range s.Items(ctx) {
		total += item.Price * item.Quantity
	}
	return total
}

// CartFactory はリクエストごとにCartServiceを組み立てる。
// バックエンドの選択（DB行かクッキーか）はここで終わらせる。
type CartFactory struct {
	cartItems  repo.CartItemRepository
	products   repo.ProductRepository
	variations repo.VariationRepository
	vendors    repo.VendorRepository
	media      media.Resolver
}

func NewCartFactory(
	cartItems repo.CartItemRepository,
	products repo.ProductRepository,
	variations repo.VariationRepository,
	vendors repo.VendorRepository,
	mediaResolver media.Resolver,
) *CartFactory {
	return &CartFactory{
		cartItems:  cartItems,
		products:   products,
		variations: variations,
		vendors:    vendors,
		media:      mediaResolver,
	}
}

// ForUser は認証済みユーザー用（DB行バックエンド）。
func (f *CartFactory) ForUser(userID int64) *CartService {
	backend := &userCartBackend{items: f.cartItems, userID: userID}
	return NewCartService(backend, f.products, f.variations, f.vendors, f.media)
}

// ForGuest はゲスト用。バックエンド（クッキー実装）は呼び出し側が組む。
func (f *CartFactory) ForGuest(backend repo.CartBackend) *CartService {
	return NewCartService(backend, f.products, f.variations, f.vendors, f.media)
}

// MigrateGuestCart はログイン時にクッキー文書をDBへ移す。
// 上書き（add時のincrementなし）で反映するので、二重実行しても結果は同じ。
// 反映後にクッキー文書を消す。
func (f *CartFactory) MigrateGuestCart(ctx context.Context, guest repo.CartBackend, userID int64) error {
	lines, err := guest.List(ctx)
	if err != nil {
		return err
	}

	for _, line := range lines {
		line.UserID = userID
		line.GuestID = ""
		if err := f.cartItems.Save(ctx, line, false); err != nil {
			return err
		}
	}

	return guest.Clear(ctx)
}

// userCartBackend は CartItemRepository をユーザーに束縛した repo.CartBackend。
type userCartBackend struct {
	items  repo.CartItemRepository
	userID int64
}

func (b *userCartBackend) List(ctx context.Context) ([]model.CartItem, error) {
	return b.items.ListByUserID(ctx, b.userID)
}

func (b *userCartBackend) Save(ctx context.Context, item model.CartItem, increment bool) error {
	item.UserID = b.userID
	return b.items.Save(ctx, item, increment)
}

func (b *userCartBackend) UpdateQuantity(ctx context.Context, productID int64, optionKey string, quantity int64) error {
	return b.items.UpdateQuantity(ctx, b.userID, productID, optionKey, quantity)
}

func (b *userCartBackend) Remove(ctx context.Context, productID int64, optionKey string) error {
	return b.items.Remove(ctx, b.userID, productID, optionKey)
}

func (b *userCartBackend) Clear(ctx context.Context) error {
	return b.items.Clear(ctx, b.userID)
}
