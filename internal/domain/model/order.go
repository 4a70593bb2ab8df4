package model

import "time"

type OrderStatus string

const (
	//チェックアウト直後。次のチェックアウトで破棄される
	OrderStatusDraft OrderStatus = "DRAFT"
	//支払い確定済み
	OrderStatusPaid OrderStatus = "PAID"
)

// 注文。1回のチェックアウトでベンダーごとに1件作られる。
type Order struct {
	ID           int64       `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID       int64       `gorm:"not null;index" json:"user_id"`
	VendorUserID int64       `gorm:"not null;index" json:"vendor_user_id"`
	Status       OrderStatus `gorm:"type:varchar(20);not null;index" json:"status"`
	TotalPrice   int64       `gorm:"not null" json:"total_price"`

	//支払い確定時に計算される手数料内訳
	WebsiteCommission int64 `gorm:"not null;default:0" json:"website_commission"`
	VendorSubtotal    int64 `gorm:"not null;default:0" json:"vendor_subtotal"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
