package model

import "time"

// ベンダーのストア情報。user_idで商品・注文と結び付く。
type Vendor struct {
	UserID    int64     `gorm:"primaryKey" json:"user_id"`
	StoreName string    `gorm:"type:varchar(255);not null" json:"store_name"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
