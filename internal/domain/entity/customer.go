package entity

import (
	"time"

	"github.com/clinova/pos-api/internal/domain/enum"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MemberBenefits holds a customer's membership tier and discount rate.
// Pricing reads the rate; the tier is informational.
type MemberBenefits struct {
	MembershipTier     enum.MembershipTier `json:"membership_tier"`
	DiscountPercentage float64             `json:"discount_percentage"`
}

// HasDiscount reports whether the customer carries a usable member discount
func (m MemberBenefits) HasDiscount() bool {
	return m.DiscountPercentage > 0
}

// Customer represents a patient/customer. The transaction engine treats this
// record as read-only input for discount eligibility.
type Customer struct {
	ID        uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	ClinicID  uuid.UUID      `gorm:"type:uuid;not null;index" json:"clinic_id"`
	UserID    uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	Name      string         `gorm:"size:255;not null" json:"name"`
	Email     *string        `gorm:"size:255" json:"email,omitempty"`
	Phone     *string        `gorm:"size:50" json:"phone,omitempty"`
	Address   *string        `gorm:"type:text" json:"address,omitempty"`
	Benefits  MemberBenefits `gorm:"type:jsonb;serializer:json" json:"member_benefits"`
	Notes     *string        `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Clinic       Clinic        `gorm:"foreignKey:ClinicID" json:"-"`
	User         User          `gorm:"foreignKey:UserID" json:"-"`
	Transactions []Transaction `gorm:"foreignKey:CustomerID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new customer
func (c *Customer) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Customer model
func (Customer) TableName() string {
	return "customers"
}
