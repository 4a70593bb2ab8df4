package model

type VariationTypeKind string

const (
	VariationTypeKindSelect VariationTypeKind = "SELECT"
	VariationTypeKindImage  VariationTypeKind = "IMAGE"
	VariationTypeKindRadio  VariationTypeKind = "RADIO"
)

// 商品の選択軸（色・サイズなど）。
type VariationType struct {
	ID        int64             `gorm:"primaryKey;autoIncrement" json:"id"`
	ProductID int64             `gorm:"not null;index" json:"product_id"`
	Name      string            `gorm:"type:varchar(255);not null" json:"name"`
	Kind      VariationTypeKind `gorm:"type:varchar(20);not null;default:'SELECT'" json:"kind"`

	//表示順を保証する
	Position int64 `gorm:"not null;default:0" json:"position"`

	Options []VariationTypeOption `gorm:"foreignKey:VariationTypeID" json:"options,omitempty"`
}

// 選択軸の具体値（赤・Lなど）。
type VariationTypeOption struct {
	ID              int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	VariationTypeID int64  `gorm:"not null;index" json:"variation_type_id"`
	Name            string `gorm:"type:varchar(255);not null" json:"name"`
	ImageRef        string `gorm:"type:varchar(255)" json:"image_ref"`
	Position        int64  `gorm:"not null;default:0" json:"position"`

	VariationType *VariationType `gorm:"foreignKey:VariationTypeID" json:"variation_type,omitempty"`
}

// option組み合わせごとの価格・数量の上書き。
// OptionIDs は各VariationTypeから1つずつ。集合はソートして正規化する。
// 商品ごとにoption集合は一意（OptionKeyで担保）。
type Variation struct {
	ID        int64   `gorm:"primaryKey;autoIncrement" json:"id"`
	ProductID int64   `gorm:"not null;index:idx_variation_key,unique" json:"product_id"`
	OptionIDs []int64 `gorm:"serializer:json;type:text;not null" json:"variation_type_option_ids"`

	//昇順カンマ区切りのoption集合キー
	OptionKey string `gorm:"type:varchar(255);not null;index:idx_variation_key,unique" json:"-"`

	//nilなら商品本体の値を使う
	Price    *int64 `json:"price"`
	Quantity *int64 `json:"quantity"`
}
