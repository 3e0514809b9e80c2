package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Draft is a transaction persisted in an incomplete state for later
// resumption. The form snapshot is stored verbatim as JSON; repeated
// autosaves of one editing session upsert the same draft row.
type Draft struct {
	ID        uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	ClinicID  uuid.UUID      `gorm:"type:uuid;not null;index" json:"clinic_id"`
	UserID    uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	Name      string         `gorm:"size:255;not null" json:"name"`
	FormData  []byte         `gorm:"type:jsonb;not null" json:"form_data"`
	ExpiresAt time.Time      `gorm:"not null;index" json:"expires_at"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Clinic Clinic `gorm:"foreignKey:ClinicID" json:"-"`
	User   User   `gorm:"foreignKey:UserID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new draft
func (d *Draft) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Draft model
func (Draft) TableName() string {
	return "drafts"
}

// IsExpired checks if the draft has passed its retention window
func (d *Draft) IsExpired() bool {
	return time.Now().After(d.ExpiresAt)
}
