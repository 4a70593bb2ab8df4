// Package cookiecart は未ログインユーザーのカートを
// クッキー内の単一JSON文書として保持するバックエンド。
package cookiecart

import (
	"context"
	"encoding/json"
	"strconv"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"github.com/google/uuid"
)

const (
	CookieName = "cart_items"
	//1年
	CookieLifetime = 60 * 60 * 24 * 365
)

// 文書内の1行。DB行と違いIDはUUID文字列。
type documentItem struct {
	ID        string                `json:"id"`
	ProductID int64                 `json:"product_id"`
	Quantity  int64                 `json:"quantity"`
	Price     int64                 `json:"price"`
	OptionIDs model.OptionSelection `json:"option_ids"`
}

// Backend は repo.CartBackend のクッキー実装。
// 文書全体をmutationごとに書き直す。キーは productID + "_" + optionKey。
type Backend struct {
	jar repo.CookieJar
}

func NewBackend(jar repo.CookieJar) *Backend {
	return &Backend{jar: jar}
}

func itemKey(productID int64, optionKey string) string {
	return strconv.FormatInt(productID, 10) + "_" + optionKey
}

func (b *Backend) load() map[string]documentItem {
	raw, ok := b.jar.Get(CookieName)
	if !ok || raw == "" {
		return map[string]documentItem{}
	}

	doc := map[string]documentItem{}
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		//壊れた文書は空として扱う
		return map[string]documentItem{}
	}
	return doc
}

func (b *Backend) store(doc map[string]documentItem) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	b.jar.Set(CookieName, string(raw), CookieLifetime)
	return nil
}

func (b *Backend) List(ctx context.Context) ([]model.CartItem, error) {
	doc := b.load()

	items := make([]model.CartItem, 0, len(doc))
	for _, it := range doc {
		items = append(items, model.CartItem{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			Price:     it.Price,
			OptionIDs: it.OptionIDs,
			OptionKey: it.OptionIDs.Key(),
			GuestID:   it.ID,
		})
	}
	return items, nil
}

func (b *Backend) Save(ctx context.Context, item model.CartItem, increment bool) error {
	doc := b.load()
	key := itemKey(item.ProductID, item.OptionIDs.Key())

	if existing, ok := doc[key]; ok {
		qty := item.Quantity
		if increment {
			qty = existing.Quantity + item.Quantity
		}
		existing.Quantity = qty
		existing.Price = item.Price
		doc[key] = existing
	} else {
		doc[key] = documentItem{
			ID:        uuid.NewString(),
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     item.Price,
			OptionIDs: item.OptionIDs,
		}
	}

	return b.store(doc)
}

// 行が無ければ黙って何もしない（仕様）
func (b *Backend) UpdateQuantity(ctx context.Context, productID int64, optionKey string, quantity int64) error {
	doc := b.load()
	key := itemKey(productID, optionKey)

	existing, ok := doc[key]
	if !ok {
		return nil
	}
	existing.Quantity = quantity
	doc[key] = existing

	return b.store(doc)
}

// 行が無ければ黙って何もしない（仕様）
func (b *Backend) Remove(ctx context.Context, productID int64, optionKey string) error {
	doc := b.load()
	key := itemKey(productID, optionKey)

	if _, ok := doc[key]; !ok {
		return nil
	}
	delete(doc, key)

	return b.store(doc)
}

func (b *Backend) Clear(ctx context.Context) error {
	b.jar.Set(CookieName, "", -1)
	return nil
}
