package entity

import (
	"encoding/json"
	"math"
	"time"

	"github.com/clinova/pos-api/internal/domain/enum"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BlendIngredient is one ingredient line in a custom blend. CostPerUnit is
// the ingredient product's selling price in cents, reused as the blend's
// cost basis. AvailableStock is a snapshot taken when the line was added.
type BlendIngredient struct {
	ProductID      uuid.UUID `json:"product_id"`
	Name           string    `json:"name"`
	Quantity       float64   `json:"quantity"`
	UnitLabel      string    `json:"unit_label"`
	CostPerUnit    int64     `json:"cost_per_unit"`
	AvailableStock float64   `json:"available_stock"`
}

// CustomBlendData is the payload carried by custom-blend items
type CustomBlendData struct {
	Name             string            `json:"name"`
	Ingredients      []BlendIngredient `json:"ingredients"`
	TotalCost        int64             `json:"total_cost"` // cents
	MarginPercent    float64           `json:"margin_percent"`
	ContainerType    string            `json:"container_type"`
	PreparationNotes string            `json:"preparation_notes,omitempty"`
	MixedBy          string            `json:"mixed_by,omitempty"`
	MixedAt          time.Time         `json:"mixed_at"`
}

// BundleConstituent is one product inside a bundle payload
type BundleConstituent struct {
	ProductID uuid.UUID `json:"product_id"`
	Name      string    `json:"name"`
	Quantity  float64   `json:"quantity"`
	UnitPrice int64     `json:"unit_price"` // cents
}

// BundleData is the payload carried by bundle items, including the
// individual-vs-bundle price comparison shown to the operator
type BundleData struct {
	BundleID        uuid.UUID           `json:"bundle_id"`
	Constituents    []BundleConstituent `json:"constituents"`
	IndividualPrice int64               `json:"individual_price"` // cents
	BundlePrice     int64               `json:"bundle_price"`     // cents
	Savings         int64               `json:"savings"`          // cents
}

// TransactionItem is one line in a transaction. It is a tagged union keyed
// by ItemType: exactly the payload matching the type is set, the others are
// nil. For simple item types the invariant
// TotalPrice = UnitPrice*Quantity - DiscountAmount holds; a custom blend's
// total is its independently chosen selling price.
type TransactionItem struct {
	ID            uuid.UUID     `gorm:"type:uuid;primary_key" json:"id"`
	TransactionID uuid.UUID     `gorm:"type:uuid;not null;index" json:"transaction_id"`
	ItemType      enum.ItemType `gorm:"size:50;not null" json:"item_type"`
	Name          string        `gorm:"size:255;not null" json:"name"`

	Quantity          float64       `gorm:"not null" json:"quantity"`
	SaleMode          enum.SaleMode `gorm:"size:20;default:'quantity'" json:"sale_mode"`
	UnitPrice         int64         `gorm:"not null" json:"-"` // cents
	TotalPrice        int64         `gorm:"not null" json:"-"` // cents
	DiscountAmount    int64         `gorm:"default:0" json:"-"` // cents
	DiscountPercent   float64       `gorm:"default:0" json:"discount_percent"`
	UnitID            *uuid.UUID    `gorm:"type:uuid" json:"unit_id,omitempty"`
	BaseUnitLabel     string        `gorm:"size:50" json:"base_unit_label"`
	ConvertedQuantity float64       `gorm:"default:0" json:"converted_quantity"`
	IsService         bool          `gorm:"default:false" json:"is_service"`

	// Type-specific payloads; only the one matching ItemType is non-nil
	ProductID       *uuid.UUID       `gorm:"type:uuid;index" json:"product_id,omitempty"`
	BlendTemplateID *uuid.UUID       `gorm:"type:uuid;index" json:"blend_template_id,omitempty"`
	CustomBlend     *CustomBlendData `gorm:"type:jsonb;serializer:json" json:"custom_blend,omitempty"`
	Bundle          *BundleData      `gorm:"type:jsonb;serializer:json" json:"bundle,omitempty"`
	MiscCategory    *enum.MiscCategory `gorm:"size:20" json:"misc_category,omitempty"`
	IsTaxable       bool             `gorm:"default:false" json:"is_taxable"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relationships
	Transaction Transaction `gorm:"foreignKey:TransactionID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new item
func (i *TransactionItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the TransactionItem model
func (TransactionItem) TableName() string {
	return "transaction_items"
}

// MarshalJSON converts cents fields to decimals for API responses
func (i TransactionItem) MarshalJSON() ([]byte, error) {
	type Alias TransactionItem
	return json.Marshal(&struct {
		Alias
		UnitPrice      float64 `json:"unit_price"`
		TotalPrice     float64 `json:"total_price"`
		DiscountAmount float64 `json:"discount_amount"`
	}{
		Alias:          Alias(i),
		UnitPrice:      float64(i.UnitPrice) / 100,
		TotalPrice:     float64(i.TotalPrice) / 100,
		DiscountAmount: float64(i.DiscountAmount) / 100,
	})
}

// UnmarshalJSON is the counterpart of MarshalJSON: the decimal money
// fields are decoded back to cents, so a draft snapshot restores with
// its prices intact.
func (i *TransactionItem) UnmarshalJSON(data []byte) error {
	type Alias TransactionItem
	aux := &struct {
		*Alias
		UnitPrice      float64 `json:"unit_price"`
		TotalPrice     float64 `json:"total_price"`
		DiscountAmount float64 `json:"discount_amount"`
	}{Alias: (*Alias)(i)}
	if err := json.Unmarshal(data, aux); err != nil {
		return err
	}
	i.UnitPrice = int64(math.Round(aux.UnitPrice * 100))
	i.TotalPrice = int64(math.Round(aux.TotalPrice * 100))
	i.DiscountAmount = int64(math.Round(aux.DiscountAmount * 100))
	return nil
}

// DiscountEligibleType reports whether the item type can ever receive a
// member discount. Bundles, custom blends, consultations and miscellaneous
// lines are categorically excluded.
func (i *TransactionItem) DiscountEligibleType() bool {
	return i.ItemType == enum.ItemTypeProduct || i.ItemType == enum.ItemTypeFixedBlend
}

// Transaction represents a finalized or pending point-of-sale transaction
type Transaction struct {
	ID         uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	ClinicID   uuid.UUID  `gorm:"type:uuid;not null;index" json:"clinic_id"`
	UserID     uuid.UUID  `gorm:"type:uuid;not null;index" json:"user_id"`
	CustomerID *uuid.UUID `gorm:"type:uuid;index" json:"customer_id,omitempty"`

	InvoiceNo            string                 `gorm:"size:100;unique;not null" json:"invoice_no"`
	Status               enum.TransactionStatus `gorm:"size:20;default:'pending'" json:"status"`
	Subtotal             int64                  `gorm:"default:0" json:"-"` // cents
	ItemDiscountTotal    int64                  `gorm:"default:0" json:"-"` // cents
	AdditionalDiscount   int64                  `gorm:"default:0" json:"-"` // cents
	DiscountMode         enum.DiscountMode      `gorm:"size:20;default:'amount'" json:"discount_mode"`
	TotalAmount          int64                  `gorm:"default:0" json:"-"` // cents
	PaidAmount           int64                  `gorm:"default:0" json:"-"` // cents
	ChangeAmount         int64                  `gorm:"default:0" json:"-"` // cents
	PaymentMethod        string                 `gorm:"size:50" json:"payment_method"`
	PaymentStatus        enum.PaymentStatus     `gorm:"size:20;default:'pending'" json:"payment_status"`
	TransactionDate      time.Time              `gorm:"not null" json:"transaction_date"`
	Notes                *string                `gorm:"type:text" json:"notes,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Clinic   Clinic            `gorm:"foreignKey:ClinicID" json:"-"`
	User     User              `gorm:"foreignKey:UserID" json:"-"`
	Customer *Customer         `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	Items    []TransactionItem `gorm:"foreignKey:TransactionID" json:"items,omitempty"`
}

// BeforeCreate generates a UUID before creating a new transaction
func (t *Transaction) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Transaction model
func (Transaction) TableName() string {
	return "transactions"
}

// MarshalJSON converts cents fields to decimals for API responses
func (t Transaction) MarshalJSON() ([]byte, error) {
	type Alias Transaction
	return json.Marshal(&struct {
		Alias
		Subtotal           float64 `json:"subtotal"`
		ItemDiscountTotal  float64 `json:"item_discount_total"`
		AdditionalDiscount float64 `json:"additional_discount"`
		TotalAmount        float64 `json:"total_amount"`
		PaidAmount         float64 `json:"paid_amount"`
		ChangeAmount       float64 `json:"change_amount"`
	}{
		Alias:              Alias(t),
		Subtotal:           float64(t.Subtotal) / 100,
		ItemDiscountTotal:  float64(t.ItemDiscountTotal) / 100,
		AdditionalDiscount: float64(t.AdditionalDiscount) / 100,
		TotalAmount:        float64(t.TotalAmount) / 100,
		PaidAmount:         float64(t.PaidAmount) / 100,
		ChangeAmount:       float64(t.ChangeAmount) / 100,
	})
}

// GetTotalDecimal returns the total as a decimal
func (t *Transaction) GetTotalDecimal() float64 {
	return float64(t.TotalAmount) / 100
}
