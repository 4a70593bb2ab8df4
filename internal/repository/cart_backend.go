package repository

import (
	"app/internal/domain/model"
	"context"
)

// CartBackend はカート保管先の差し替え点。
// 認証済みならDB行、ゲストならクッキー文書。所有者はバックエンド構築時に
// 確定させ、この先のロジックは認証状態で分岐しない。
// UpdateQuantity / Remove は対象行が無ければ黙って何もしない。
type CartBackend interface {
	List(ctx context.Context) ([]model.CartItem, error)
	Save(ctx context.Context, item model.CartItem, increment bool) error
	UpdateQuantity(ctx context.Context, productID int64, optionKey string, quantity int64) error
	Remove(ctx context.Context, productID int64, optionKey string) error
	Clear(ctx context.Context) error
}

// CookieJar はクッキーバックエンドが使う単一文書の出し入れ。
type CookieJar interface {
	Get(name string) (string, bool)
	Set(name string, value string, maxAge int)
}
