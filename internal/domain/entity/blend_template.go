package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TemplateIngredient is one ingredient line in a fixed blend template
type TemplateIngredient struct {
	ProductID uuid.UUID `json:"product_id"`
	Name      string    `json:"name"`
	Quantity  float64   `json:"quantity"`
	UnitLabel string    `json:"unit_label"`
}

// BlendTemplate is a pre-defined, reusable formulation sold at a fixed
// batch price. Template items are treated as always discount-eligible.
type BlendTemplate struct {
	ID            uuid.UUID            `gorm:"type:uuid;primary_key" json:"id"`
	ClinicID      uuid.UUID            `gorm:"type:uuid;not null;index" json:"clinic_id"`
	UserID        uuid.UUID            `gorm:"type:uuid;not null;index" json:"user_id"`
	Name          string               `gorm:"size:255;not null" json:"name"`
	Slug          string               `gorm:"size:255;unique;not null" json:"slug"`
	BatchPrice    int64                `gorm:"not null" json:"-"` // cents
	ContainerType string               `gorm:"size:100" json:"container_type"`
	Ingredients   []TemplateIngredient `gorm:"type:jsonb;serializer:json" json:"ingredients"`
	Instructions  *string              `gorm:"type:text" json:"instructions,omitempty"`
	IsActive      bool                 `gorm:"default:true" json:"is_active"`
	CreatedAt     time.Time            `json:"created_at"`
	UpdatedAt     time.Time            `json:"updated_at"`
	DeletedAt     gorm.DeletedAt       `gorm:"index" json:"-"`

	// Relationships
	Clinic Clinic `gorm:"foreignKey:ClinicID" json:"-"`
	User   User   `gorm:"foreignKey:UserID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new blend template
func (b *BlendTemplate) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the BlendTemplate model
func (BlendTemplate) TableName() string {
	return "blend_templates"
}

// MarshalJSON converts the batch price to a decimal for API responses
func (b BlendTemplate) MarshalJSON() ([]byte, error) {
	type Alias BlendTemplate
	return json.Marshal(&struct {
		Alias
		BatchPrice float64 `json:"batch_price"`
	}{
		Alias:      Alias(b),
		BatchPrice: float64(b.BatchPrice) / 100,
	})
}
