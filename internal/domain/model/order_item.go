package model

import "time"

// 注文明細。作成後は不変。
// 在庫の増減はVariation/Product側で行い、明細自体は持たない。
type OrderItem struct {
	ID        int64   `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID   int64   `gorm:"not null;index;constraint:OnDelete:CASCADE" json:"order_id"`
	ProductID int64   `gorm:"not null;index" json:"product_id"`
	Quantity  int64   `gorm:"not null" json:"quantity"`
	Price     int64   `gorm:"not null" json:"price"`
	OptionIDs []int64 `gorm:"serializer:json;type:text" json:"variation_type_option_ids"`

	//「色: 赤, サイズ: L」形式の表示用文字列
	Description string `gorm:"type:text" json:"description"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}
