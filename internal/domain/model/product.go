package model

import (
	"time"

	"gorm.io/gorm"
)

type ProductStatus string

const (
	ProductStatusDraft     ProductStatus = "DRAFT"
	ProductStatusPublished ProductStatus = "PUBLISHED"
)

// 商品。価格・数量はVariationで上書きされうる。
// Quantity が nil の場合は在庫無制限扱い。
type Product struct {
	ID           int64         `gorm:"primaryKey;autoIncrement" json:"id"`
	Title        string        `gorm:"type:varchar(255);not null" json:"title"`
	Slug         string        `gorm:"type:varchar(255);not null;index" json:"slug"`
	Description  string        `gorm:"type:text" json:"description"`
	Price        int64         `gorm:"not null" json:"price"`
	Quantity     *int64        `json:"quantity"`
	Status       ProductStatus `gorm:"type:varchar(20);not null;default:'DRAFT';index" json:"status"`
	DepartmentID int64         `gorm:"index" json:"department_id"`

	//出品ベンダーのユーザーID
	CreatedBy int64 `gorm:"not null;index" json:"created_by"`

	//代表画像の参照（メディアリゾルバでURL化する）
	ImageRef string `gorm:"type:varchar(255)" json:"image_ref"`

	VariationTypes []VariationType `gorm:"foreignKey:ProductID" json:"variation_types,omitempty"`
	Variations     []Variation     `gorm:"foreignKey:ProductID" json:"variations,omitempty"`

	CreatedAt time.Time      `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// VariationFor はoption集合が一致するVariationを返す。
// 比較はソート済み集合の完全一致。空集合はどのVariationにも一致しない。
func (p *Product) VariationFor(optionIDs []int64) *Variation {
	if len(optionIDs) == 0 {
		return nil
	}
	want := SortedOptionIDs(optionIDs)
	for i := range p.Variations {
		have := SortedOptionIDs(p.Variations[i].OptionIDs)
		if EqualOptionIDs(have, want) {
			return &p.Variations[i]
		}
	}
	return nil
}

// PriceForOptions は選択optionに対する実効単価を返す。
// 一致するVariationが無い、またはVariation側の価格がnilならベース価格。
func (p *Product) PriceForOptions(optionIDs []int64) int64 {
	if v := p.VariationFor(optionIDs); v != nil && v.Price != nil {
		return *v.Price
	}
	return p.Price
}

// QuantityForOptions は選択optionに対する販売可能数量を返す。
// nilは無制限。
func (p *Product) QuantityForOptions(optionIDs []int64) *int64 {
	if v := p.VariationFor(optionIDs); v != nil && v.Quantity != nil {
		return v.Quantity
	}
	return p.Quantity
}

// ImageRefForOptions は選択optionの画像参照を返す。
// option側に画像が無ければ商品本体の代表画像へフォールバック。
func (p *Product) ImageRefForOptions(options []VariationTypeOption) string {
	for _, opt := range options {
		if opt.ImageRef != "" {
			return opt.ImageRef
		}
	}
	return p.ImageRef
}

// DefaultSelection は各VariationTypeの先頭optionを選んだ状態を返す。
func (p *Product) DefaultSelection() OptionSelection {
	sel := OptionSelection{}
	for _, vt := range p.VariationTypes {
		if len(vt.Options) > 0 {
			sel[vt.ID] = vt.Options[0].ID
		}
	}
	return sel
}
