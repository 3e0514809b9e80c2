package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DiscountFlags control which discount paths a product participates in
type DiscountFlags struct {
	DiscountableForMembers bool `json:"discountable_for_members"`
	DiscountableForAll     bool `json:"discountable_for_all"`
	DiscountableInBlends   bool `json:"discountable_in_blends"`
}

// PermissiveDiscountFlags returns flags that allow every discount path.
// Used for fixed blends, which have no backing product record.
func PermissiveDiscountFlags() DiscountFlags {
	return DiscountFlags{
		DiscountableForMembers: true,
		DiscountableForAll:     true,
		DiscountableInBlends:   true,
	}
}

// Product represents a sellable inventory product. Stock is tracked as a
// decimal amount of the smallest tracked unit (ml, mg, pcs) and may go
// negative after a confirmed out-of-stock override.
type Product struct {
	ID                uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	ClinicID          uuid.UUID      `gorm:"type:uuid;not null;index" json:"clinic_id"`
	UserID            uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	CategoryID        *uuid.UUID     `gorm:"type:uuid;index" json:"category_id,omitempty"`
	UnitID            *uuid.UUID     `gorm:"type:uuid;index" json:"unit_id,omitempty"`
	Name              string         `gorm:"size:255;not null" json:"name"`
	Slug              string         `gorm:"size:255;unique;not null" json:"slug"`
	Code              string         `gorm:"size:100;unique;not null" json:"code"`
	CurrentStock      float64        `gorm:"default:0" json:"current_stock"`
	StockAlert        float64        `gorm:"default:0" json:"stock_alert"`
	ContainerCapacity float64        `gorm:"default:1" json:"container_capacity"`
	BuyingPrice       int64          `gorm:"default:0" json:"-"` // Stored in cents, excluded from JSON
	SellingPrice      int64          `gorm:"default:0" json:"-"` // Stored in cents, excluded from JSON
	IsService         bool           `gorm:"default:false" json:"is_service"`
	Discounts         DiscountFlags  `gorm:"type:jsonb;serializer:json" json:"discounts"`
	Notes             *string        `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
	DeletedAt         gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Clinic   Clinic    `gorm:"foreignKey:ClinicID" json:"-"`
	User     User      `gorm:"foreignKey:UserID" json:"-"`
	Category *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Unit     *Unit     `gorm:"foreignKey:UnitID" json:"unit,omitempty"`
}

// BeforeCreate generates a UUID before creating a new product
func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Product model
func (Product) TableName() string {
	return "products"
}

// Capacity returns the container capacity, defaulting to 1 when unset so
// volume proportions never divide by zero
func (p *Product) Capacity() float64 {
	if p.ContainerCapacity <= 0 {
		return 1
	}
	return p.ContainerCapacity
}

// GetSellingPriceDecimal returns the selling price as a decimal (for display)
func (p *Product) GetSellingPriceDecimal() float64 {
	return float64(p.SellingPrice) / 100
}

// GetBuyingPriceDecimal returns the buying price as a decimal (for display)
func (p *Product) GetBuyingPriceDecimal() float64 {
	return float64(p.BuyingPrice) / 100
}

// SetSellingPriceFromDecimal sets the selling price from a decimal value
func (p *Product) SetSellingPriceFromDecimal(price float64) {
	p.SellingPrice = int64(price*100 + 0.5)
}

// SetBuyingPriceFromDecimal sets the buying price from a decimal value
func (p *Product) SetBuyingPriceFromDecimal(price float64) {
	p.BuyingPrice = int64(price*100 + 0.5)
}

// MarshalJSON converts Product to JSON with decimal prices
func (p Product) MarshalJSON() ([]byte, error) {
	type Alias Product
	return json.Marshal(&struct {
		Alias
		BuyingPrice  float64 `json:"buying_price"`
		SellingPrice float64 `json:"selling_price"`
	}{
		Alias:        Alias(p),
		BuyingPrice:  p.GetBuyingPriceDecimal(),
		SellingPrice: p.GetSellingPriceDecimal(),
	})
}

// Category represents a product category
type Category struct {
	ID        uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	ClinicID  uuid.UUID      `gorm:"type:uuid;not null;index" json:"clinic_id"`
	UserID    uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	Name      string         `gorm:"size:255;not null" json:"name"`
	Slug      string         `gorm:"size:255;unique;not null" json:"slug"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Clinic   Clinic    `gorm:"foreignKey:ClinicID" json:"-"`
	User     User      `gorm:"foreignKey:UserID" json:"-"`
	Products []Product `gorm:"foreignKey:CategoryID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new category
func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Category model
func (Category) TableName() string {
	return "categories"
}

// Unit represents a unit of measurement. BaseLabel is the smallest tracked
// unit the container is measured in (ml, mg, pcs); conversions between
// labels are display-only and never affect price or stock.
type Unit struct {
	ID        uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	ClinicID  uuid.UUID      `gorm:"type:uuid;not null;index" json:"clinic_id"`
	UserID    uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	Name      string         `gorm:"size:255;not null" json:"name"`
	Slug      string         `gorm:"size:255;unique;not null" json:"slug"`
	ShortCode string         `gorm:"size:50" json:"short_code"`
	BaseLabel string         `gorm:"size:50" json:"base_label"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Clinic   Clinic    `gorm:"foreignKey:ClinicID" json:"-"`
	User     User      `gorm:"foreignKey:UserID" json:"-"`
	Products []Product `gorm:"foreignKey:UnitID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new unit
func (u *Unit) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Unit model
func (Unit) TableName() string {
	return "units"
}
