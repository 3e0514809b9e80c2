package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Bundle is a promotional grouping of products sold at one price,
// typically below the sum of the constituents' individual prices
type Bundle struct {
	ID          uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	ClinicID    uuid.UUID      `gorm:"type:uuid;not null;index" json:"clinic_id"`
	UserID      uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	Name        string         `gorm:"size:255;not null" json:"name"`
	Slug        string         `gorm:"size:255;unique;not null" json:"slug"`
	BundlePrice int64          `gorm:"not null" json:"-"` // cents
	Description *string        `gorm:"type:text" json:"description,omitempty"`
	IsActive    bool           `gorm:"default:true" json:"is_active"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Clinic   Clinic          `gorm:"foreignKey:ClinicID" json:"-"`
	User     User            `gorm:"foreignKey:UserID" json:"-"`
	Products []BundleProduct `gorm:"foreignKey:BundleID" json:"products,omitempty"`
}

// BeforeCreate generates a UUID before creating a new bundle
func (b *Bundle) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Bundle model
func (Bundle) TableName() string {
	return "bundles"
}

// MarshalJSON converts the bundle price to a decimal for API responses
func (b Bundle) MarshalJSON() ([]byte, error) {
	type Alias Bundle
	return json.Marshal(&struct {
		Alias
		BundlePrice float64 `json:"bundle_price"`
	}{
		Alias:       Alias(b),
		BundlePrice: float64(b.BundlePrice) / 100,
	})
}

// BundleProduct links a bundle to one constituent product and the quantity
// of it consumed per bundle sold
type BundleProduct struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	BundleID  uuid.UUID `gorm:"type:uuid;not null;index" json:"bundle_id"`
	ProductID uuid.UUID `gorm:"type:uuid;not null;index" json:"product_id"`
	Quantity  float64   `gorm:"not null;default:1" json:"quantity"`
	CreatedAt time.Time `json:"created_at"`

	// Relationships
	Bundle  Bundle  `gorm:"foreignKey:BundleID" json:"-"`
	Product Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

// BeforeCreate generates a UUID before creating a new bundle product
func (bp *BundleProduct) BeforeCreate(tx *gorm.DB) error {
	if bp.ID == uuid.Nil {
		bp.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the BundleProduct model
func (BundleProduct) TableName() string {
	return "bundle_products"
}
