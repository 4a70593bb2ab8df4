package model

import "time"

// カート行。価格は追加時点のスナップショットで、商品から再計算しない。
// DB行は (user_id, product_id, option_key) で一意。
// クッキー側の行は Cookie ドキュメント内に同じ形で持ち、IDはUUID文字列。
type CartItem struct {
	ID            int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID        int64           `gorm:"not null;index:idx_cart_key,unique" json:"user_id"`
	ProductID     int64           `gorm:"not null;index:idx_cart_key,unique" json:"product_id"`
	Quantity      int64           `gorm:"not null" json:"quantity"`
	Price         int64           `gorm:"not null" json:"price"`
	OptionIDs     OptionSelection `gorm:"serializer:json;type:text" json:"option_ids"`
	OptionKey     string          `gorm:"type:varchar(255);not null;index:idx_cart_key,unique" json:"-"`
	SavedForLater bool            `gorm:"not null;default:false" json:"saved_for_later"`

	//クッキー側の行ID（UUID）。DBには保存しない
	GuestID string `gorm:"-" json:"-"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
