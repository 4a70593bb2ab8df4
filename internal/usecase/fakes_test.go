package usecase

import (
	"context"
	"sort"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

// usecaseテスト用のインメモリ実装一式。
// 振る舞い（upsert・黙殺・条件付き更新）はGORM実装に合わせてある。

type memStore struct {
	products map[int64]model.Product
	//productID -> 選択軸（options込み）
	types   map[int64][]model.VariationType
	options map[int64]model.VariationTypeOption

	variations map[int64]model.Variation
	nextVarID  int64

	vendors map[int64]model.Vendor

	cartRows   map[int64]model.CartItem
	nextCartID int64

	orders      map[int64]model.Order
	nextOrderID int64
	orderItems  map[int64][]model.OrderItem

	//テストから差し込む失敗
	orderItemsErr error
}

func newMemStore() *memStore {
	return &memStore{
		products:    map[int64]model.Product{},
		types:       map[int64][]model.VariationType{},
		options:     map[int64]model.VariationTypeOption{},
		variations:  map[int64]model.Variation{},
		nextVarID:   1,
		vendors:     map[int64]model.Vendor{},
		cartRows:    map[int64]model.CartItem{},
		nextCartID:  1,
		orders:      map[int64]model.Order{},
		nextOrderID: 1,
		orderItems:  map[int64][]model.OrderItem{},
	}
}

func (s *memStore) clone() *memStore {
	c := newMemStore()
	c.nextVarID = s.nextVarID
	c.nextCartID = s.nextCartID
	c.nextOrderID = s.nextOrderID
	c.orderItemsErr = s.orderItemsErr

	for k, v := range s.products {
		c.products[k] = v
	}
	for k, v := range s.types {
		c.types[k] = append([]model.VariationType{}, v...)
	}
	for k, v := range s.options {
		c.options[k] = v
	}
	for k, v := range s.variations {
		c.variations[k] = v
	}
	for k, v := range s.vendors {
		c.vendors[k] = v
	}
	for k, v := range s.cartRows {
		c.cartRows[k] = v
	}
	for k, v := range s.orders {
		c.orders[k] = v
	}
	for k, v := range s.orderItems {
		c.orderItems[k] = append([]model.OrderItem{}, v...)
	}
	return c
}

// 登録ヘルパー。optionのVariationTypeポインタも張る。
func (s *memStore) addProduct(p model.Product) {
	for ti := range p.VariationTypes {
		vt := p.VariationTypes[ti]
		for oi := range vt.Options {
			opt := vt.Options[oi]
			opt.VariationType = &model.VariationType{ID: vt.ID, ProductID: p.ID, Name: vt.Name, Kind: vt.Kind}
			vt.Options[oi] = opt
			s.options[opt.ID] = opt
		}
		s.types[p.ID] = append(s.types[p.ID], vt)
	}
	for _, v := range p.Variations {
		v.ProductID = p.ID
		v.OptionKey = model.OptionSetKey(v.OptionIDs)
		if v.ID == 0 {
			v.ID = s.nextVarID
		}
		if v.ID >= s.nextVarID {
			s.nextVarID = v.ID + 1
		}
		s.variations[v.ID] = v
	}
	p.VariationTypes = nil
	p.Variations = nil
	s.products[p.ID] = p
}

func (s *memStore) addVendor(userID int64, storeName string) {
	s.vendors[userID] = model.Vendor{UserID: userID, StoreName: storeName}
}

func (s *memStore) productVariations(productID int64) []model.Variation {
	var out []model.Variation
	for _, v := range s.variations {
		if v.ProductID == productID {
			out = append(out, v)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// ---- ProductRepository ----

type memProducts struct{ s *memStore }

func (m *memProducts) ListPublished(ctx context.Context, q repo.ProductListQuery) ([]model.Product, int64, error) {
	var out []model.Product
	for _, p := range m.s.products {
		if p.Status == model.ProductStatusPublished {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, int64(len(out)), nil
}

func (m *memProducts) FindByID(ctx context.Context, id int64) (model.Product, error) {
	p, ok := m.s.products[id]
	if !ok {
		return model.Product{}, repo.ErrNotFound
	}
	return p, nil
}

func (m *memProducts) FindPublishedByID(ctx context.Context, id int64) (model.Product, error) {
	p, ok := m.s.products[id]
	if !ok || p.Status != model.ProductStatusPublished {
		return model.Product{}, repo.ErrNotFound
	}
	p.VariationTypes = append([]model.VariationType{}, m.s.types[id]...)
	p.Variations = m.s.productVariations(id)
	return p, nil
}

func (m *memProducts) ListPublishedByIDs(ctx context.Context, ids []int64) ([]model.Product, error) {
	var out []model.Product
	for _, id := range ids {
		if p, ok := m.s.products[id]; ok && p.Status == model.ProductStatusPublished {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *memProducts) Create(ctx context.Context, p model.Product) (model.Product, error) {
	if p.ID == 0 {
		maxID := int64(0)
		for id := range m.s.products {
			if id > maxID {
				maxID = id
			}
		}
		p.ID = maxID + 1
	}
	m.s.products[p.ID] = p
	return p, nil
}

func (m *memProducts) Update(ctx context.Context, p model.Product) error {
	if _, ok := m.s.products[p.ID]; !ok {
		return repo.ErrNotFound
	}
	m.s.products[p.ID] = p
	return nil
}

func (m *memProducts) SetStatus(ctx context.Context, id int64, status model.ProductStatus) error {
	p, ok := m.s.products[id]
	if !ok {
		return repo.ErrNotFound
	}
	p.Status = status
	m.s.products[id] = p
	return nil
}

func (m *memProducts) SoftDelete(ctx context.Context, id int64) error {
	if _, ok := m.s.products[id]; !ok {
		return repo.ErrNotFound
	}
	delete(m.s.products, id)
	return nil
}

// ---- VariationRepository ----

type memVariations struct{ s *memStore }

func (m *memVariations) ListTypesByProductID(ctx context.Context, productID int64) ([]model.VariationType, error) {
	return append([]model.VariationType{}, m.s.types[productID]...), nil
}

func (m *memVariations) ReplaceTypes(ctx context.Context, productID int64, types []model.VariationType) ([]model.VariationType, error) {
	for _, old := range m.s.types[productID] {
		for _, opt := range old.Options {
			delete(m.s.options, opt.ID)
		}
	}

	nextTypeID := int64(1)
	nextOptID := int64(1)
	for _, vt := range m.s.types[productID] {
		if vt.ID >= nextTypeID {
			nextTypeID = vt.ID + 1
		}
		for _, opt := range vt.Options {
			if opt.ID >= nextOptID {
				nextOptID = opt.ID + 1
			}
		}
	}

	saved := make([]model.VariationType, 0, len(types))
	for _, vt := range types {
		vt.ID = nextTypeID
		nextTypeID++
		vt.ProductID = productID
		for oi := range vt.Options {
			vt.Options[oi].ID = nextOptID
			nextOptID++
			vt.Options[oi].VariationTypeID = vt.ID
			m.s.options[vt.Options[oi].ID] = vt.Options[oi]
		}
		saved = append(saved, vt)
	}
	m.s.types[productID] = saved
	return saved, nil
}

func (m *memVariations) ListOptionsByIDs(ctx context.Context, ids []int64) ([]model.VariationTypeOption, error) {
	var out []model.VariationTypeOption
	for _, id := range ids {
		if o, ok := m.s.options[id]; ok {
			out = append(out, o)
		}
	}
	return out, nil
}

func (m *memVariations) ListByProductID(ctx context.Context, productID int64) ([]model.Variation, error) {
	return m.s.productVariations(productID), nil
}

func (m *memVariations) FindByOptionSet(ctx context.Context, productID int64, optionIDs []int64) (model.Variation, error) {
	key := model.OptionSetKey(optionIDs)
	for _, v := range m.s.variations {
		if v.ProductID == productID && v.OptionKey == key {
			return v, nil
		}
	}
	return model.Variation{}, repo.ErrNotFound
}

func (m *memVariations) Upsert(ctx context.Context, v model.Variation) (model.Variation, error) {
	v.OptionKey = model.OptionSetKey(v.OptionIDs)
	for id, existing := range m.s.variations {
		if existing.ProductID == v.ProductID && existing.OptionKey == v.OptionKey {
			existing.Price = v.Price
			existing.Quantity = v.Quantity
			existing.OptionIDs = v.OptionIDs
			m.s.variations[id] = existing
			return existing, nil
		}
	}
	v.ID = m.s.nextVarID
	m.s.nextVarID++
	m.s.variations[v.ID] = v
	return v, nil
}

func (m *memVariations) DeleteByProductIDExcept(ctx context.Context, productID int64, keepIDs []int64) error {
	keep := map[int64]bool{}
	for _, id := range keepIDs {
		keep[id] = true
	}
	for id, v := range m.s.variations {
		if v.ProductID == productID && !keep[id] {
			delete(m.s.variations, id)
		}
	}
	return nil
}

// ---- VendorRepository ----

type memVendors struct{ s *memStore }

func (m *memVendors) FindByUserID(ctx context.Context, userID int64) (model.Vendor, error) {
	v, ok := m.s.vendors[userID]
	if !ok {
		return model.Vendor{}, repo.ErrNotFound
	}
	return v, nil
}

func (m *memVendors) ListByUserIDs(ctx context.Context, userIDs []int64) ([]model.Vendor, error) {
	var out []model.Vendor
	seen := map[int64]bool{}
	for _, id := range userIDs {
		if seen[id] {
			continue
		}
		seen[id] = true
		if v, ok := m.s.vendors[id]; ok {
			out = append(out, v)
		}
	}
	return out, nil
}

func (m *memVendors) Upsert(ctx context.Context, v model.Vendor) error {
	m.s.vendors[v.UserID] = v
	return nil
}

// ---- CartItemRepository ----

type memCartItems struct{ s *memStore }

func (m *memCartItems) ListByUserID(ctx context.Context, userID int64) ([]model.CartItem, error) {
	var out []model.CartItem
	for _, row := range m.s.cartRows {
		if row.UserID == userID {
			out = append(out, row)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memCartItems) Save(ctx context.Context, item model.CartItem, increment bool) error {
	item.OptionKey = item.OptionIDs.Key()

	for id, row := range m.s.cartRows {
		if row.UserID == item.UserID && row.ProductID == item.ProductID && row.OptionKey == item.OptionKey {
			if increment {
				row.Quantity += item.Quantity
			} else {
				row.Quantity = item.Quantity
			}
			row.Price = item.Price
			m.s.cartRows[id] = row
			return nil
		}
	}

	item.ID = m.s.nextCartID
	m.s.nextCartID++
	m.s.cartRows[item.ID] = item
	return nil
}

func (m *memCartItems) UpdateQuantity(ctx context.Context, userID int64, productID int64, optionKey string, quantity int64) error {
	for id, row := range m.s.cartRows {
		if row.UserID == userID && row.ProductID == productID && row.OptionKey == optionKey {
			row.Quantity = quantity
			m.s.cartRows[id] = row
			return nil
		}
	}
	//行が無ければ黙って何もしない
	return nil
}

func (m *memCartItems) Remove(ctx context.Context, userID int64, productID int64, optionKey string) error {
	for id, row := range m.s.cartRows {
		if row.UserID == userID && row.ProductID == productID && row.OptionKey == optionKey {
			delete(m.s.cartRows, id)
			return nil
		}
	}
	return nil
}

func (m *memCartItems) Clear(ctx context.Context, userID int64) error {
	for id, row := range m.s.cartRows {
		if row.UserID == userID {
			delete(m.s.cartRows, id)
		}
	}
	return nil
}

func (m *memCartItems) PurgePurchased(ctx context.Context, userID int64, productIDs []int64) error {
	purchased := map[int64]bool{}
	for _, id := range productIDs {
		purchased[id] = true
	}
	for id, row := range m.s.cartRows {
		if row.UserID == userID && purchased[row.ProductID] && !row.SavedForLater {
			delete(m.s.cartRows, id)
		}
	}
	return nil
}

// ---- OrderRepository ----

type memOrders struct{ s *memStore }

func (m *memOrders) FindByID(ctx context.Context, orderID int64) (model.Order, error) {
	o, ok := m.s.orders[orderID]
	if !ok {
		return model.Order{}, repo.ErrNotFound
	}
	return o, nil
}

func (m *memOrders) ListByUserID(ctx context.Context, userID int64, page int, limit int) ([]model.Order, int64, error) {
	var all []model.Order
	for _, o := range m.s.orders {
		if o.UserID == userID {
			all = append(all, o)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID > all[j].ID })

	total := int64(len(all))
	start := (page - 1) * limit
	if start >= len(all) {
		return []model.Order{}, total, nil
	}
	end := start + limit
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], total, nil
}

func (m *memOrders) Create(ctx context.Context, order model.Order) (int64, error) {
	order.ID = m.s.nextOrderID
	m.s.nextOrderID++
	m.s.orders[order.ID] = order
	return order.ID, nil
}

func (m *memOrders) ListDraftIDsByUserID(ctx context.Context, userID int64) ([]int64, error) {
	var ids []int64
	for _, o := range m.s.orders {
		if o.UserID == userID && o.Status == model.OrderStatusDraft {
			ids = append(ids, o.ID)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func (m *memOrders) DeleteByIDs(ctx context.Context, orderIDs []int64) error {
	for _, id := range orderIDs {
		delete(m.s.orders, id)
	}
	return nil
}

func (m *memOrders) ListDraftsByUserIDAndIDs(ctx context.Context, userID int64, orderIDs []int64) ([]model.Order, error) {
	want := map[int64]bool{}
	for _, id := range orderIDs {
		want[id] = true
	}

	var out []model.Order
	for _, o := range m.s.orders {
		if want[o.ID] && o.UserID == userID && o.Status == model.OrderStatusDraft {
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memOrders) MarkPaid(ctx context.Context, orderID int64, websiteCommission int64, vendorSubtotal int64) error {
	o, ok := m.s.orders[orderID]
	if !ok || o.Status != model.OrderStatusDraft {
		return repo.ErrNotFound
	}
	o.Status = model.OrderStatusPaid
	o.WebsiteCommission = websiteCommission
	o.VendorSubtotal = vendorSubtotal
	m.s.orders[orderID] = o
	return nil
}

// ---- OrderItemRepository ----

type memOrderItems struct{ s *memStore }

func (m *memOrderItems) CreateBulk(ctx context.Context, orderID int64, items []model.OrderItem) error {
	if m.s.orderItemsErr != nil {
		return m.s.orderItemsErr
	}
	for i := range items {
		items[i].OrderID = orderID
	}
	m.s.orderItems[orderID] = append(m.s.orderItems[orderID], items...)
	return nil
}

func (m *memOrderItems) ListByOrderID(ctx context.Context, orderID int64) ([]model.OrderItem, error) {
	return append([]model.OrderItem{}, m.s.orderItems[orderID]...), nil
}

func (m *memOrderItems) DeleteByOrderIDs(ctx context.Context, orderIDs []int64) error {
	for _, id := range orderIDs {
		delete(m.s.orderItems, id)
	}
	return nil
}

// ---- InventoryRepository ----

type memInventory struct{ s *memStore }

func (m *memInventory) DecrementProductQuantity(ctx context.Context, productID int64, qty int64) error {
	p, ok := m.s.products[productID]
	if !ok || p.Quantity == nil {
		//NULL（無制限）は対象外
		return nil
	}
	newQty := *p.Quantity - qty
	p.Quantity = &newQty
	m.s.products[productID] = p
	return nil
}

func (m *memInventory) DecrementVariationQuantity(ctx context.Context, variationID int64, qty int64) error {
	v, ok := m.s.variations[variationID]
	if !ok || v.Quantity == nil {
		return nil
	}
	newQty := *v.Quantity - qty
	v.Quantity = &newQty
	m.s.variations[variationID] = v
	return nil
}

// ---- TxRepos / TransactionManager ----

type memTxRepos struct{ s *memStore }

func (r *memTxRepos) Orders() repo.OrderRepository         { return &memOrders{r.s} }
func (r *memTxRepos) OrderItems() repo.OrderItemRepository { return &memOrderItems{r.s} }
func (r *memTxRepos) CartItems() repo.CartItemRepository   { return &memCartItems{r.s} }
func (r *memTxRepos) Products() repo.ProductRepository     { return &memProducts{r.s} }
func (r *memTxRepos) Variations() repo.VariationRepository { return &memVariations{r.s} }
func (r *memTxRepos) Vendors() repo.VendorRepository       { return &memVendors{r.s} }
func (r *memTxRepos) Inventory() repo.InventoryRepository  { return &memInventory{r.s} }

// fnがエラーならスナップショットへ巻き戻す。
type memTxManager struct{ s *memStore }

func (tm *memTxManager) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	snapshot := tm.s.clone()
	if err := fn(&memTxRepos{tm.s}); err != nil {
		*tm.s = *snapshot
		return err
	}
	return nil
}

// ---- EventPublisher ----

type publishedEvent struct {
	eventType string
	key       string
	payload   interface{}
}

type recordPublisher struct {
	events []publishedEvent
}

func (p *recordPublisher) Publish(ctx context.Context, eventType string, key string, payload interface{}) error {
	p.events = append(p.events, publishedEvent{eventType: eventType, key: key, payload: payload})
	return nil
}
