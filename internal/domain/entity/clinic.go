package entity

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Clinic represents one clinic/store location. All catalog and transaction
// data is scoped to a clinic.
type Clinic struct {
	ID        uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	Name      string         `gorm:"size:255;not null" json:"name"`
	Slug      string         `gorm:"size:255;unique;not null" json:"slug"`
	OwnerID   uuid.UUID      `gorm:"type:uuid;not null;index" json:"owner_id"`
	Settings  ClinicSettings `gorm:"type:jsonb;serializer:json" json:"settings"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Owner   User               `gorm:"foreignKey:OwnerID" json:"-"`
	Members []ClinicMembership `gorm:"foreignKey:ClinicID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new clinic
func (c *Clinic) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Clinic model
func (Clinic) TableName() string {
	return "clinics"
}

// MemberUser represents a subset of user fields for membership responses
type MemberUser struct {
	ID        uuid.UUID `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email"`
}

// ClinicMembership represents a user's membership in a clinic
type ClinicMembership struct {
	ClinicID  uuid.UUID `gorm:"type:uuid;primaryKey" json:"clinic_id"`
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey" json:"user_id"`
	Role      string    `gorm:"size:50;default:'member'" json:"role"` // owner, admin, member
	CreatedAt time.Time `json:"created_at"`

	// Relationships
	Clinic Clinic `gorm:"foreignKey:ClinicID" json:"-"`
	User   User   `gorm:"foreignKey:UserID" json:"-"`

	// Computed field for JSON response
	MemberUser *MemberUser `gorm:"-" json:"user,omitempty"`
}

// PopulateUserDetails populates the MemberUser field from the User relationship
func (cm *ClinicMembership) PopulateUserDetails() {
	if cm.User.ID != uuid.Nil {
		cm.MemberUser = &MemberUser{
			ID:        cm.User.ID,
			FirstName: cm.User.FirstName,
			LastName:  cm.User.LastName,
			Email:     cm.User.Email,
		}
	}
}

// TableName returns the table name for the ClinicMembership model
func (ClinicMembership) TableName() string {
	return "clinic_memberships"
}

// ClinicSettings holds per-clinic configuration
type ClinicSettings struct {
	// Branding
	LogoURL string `json:"logo_url,omitempty"`

	// Localization
	Currency   string `json:"currency,omitempty"`
	Timezone   string `json:"timezone,omitempty"`
	Locale     string `json:"locale,omitempty"`
	DateFormat string `json:"date_format,omitempty"`

	// Business configuration
	InvoicePrefix string `json:"invoice_prefix,omitempty"`
	DraftPrefix   string `json:"draft_prefix,omitempty"`
	ReceiptFooter string `json:"receipt_footer,omitempty"`

	// Default member discount rates per tier, percent
	TierDiscounts map[string]float64 `json:"tier_discounts,omitempty"`

	// Feature flags
	Features ClinicFeatures `json:"features,omitempty"`
}

// Scan implements the sql.Scanner interface for ClinicSettings
func (cs *ClinicSettings) Scan(value interface{}) error {
	if value == nil {
		*cs = ClinicSettings{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("failed to scan ClinicSettings: unsupported type")
	}

	return json.Unmarshal(bytes, cs)
}

// Value implements the driver.Valuer interface for ClinicSettings
func (cs ClinicSettings) Value() (driver.Value, error) {
	return json.Marshal(cs)
}

// ClinicFeatures holds feature flags for a clinic
type ClinicFeatures struct {
	EnableCustomBlends  bool `json:"custom_blends"`
	EnableBundles       bool `json:"bundles"`
	EnableConsultations bool `json:"consultations"`
	EnableDrafts        bool `json:"drafts"`
	EnableMultiUser     bool `json:"multi_user"`
}

// DefaultClinicSettings returns default settings for new clinics
func DefaultClinicSettings() ClinicSettings {
	return ClinicSettings{
		Currency:      "USD",
		Timezone:      "UTC",
		Locale:        "en-US",
		DateFormat:    "DD/MM/YYYY",
		InvoicePrefix: "INV-",
		DraftPrefix:   "DRAFT-",
		TierDiscounts: map[string]float64{
			"standard": 5,
			"silver":   10,
			"gold":     20,
		},
		Features: ClinicFeatures{
			EnableCustomBlends:  true,
			EnableBundles:       true,
			EnableConsultations: true,
			EnableDrafts:        true,
			EnableMultiUser:     true,
		},
	}
}
