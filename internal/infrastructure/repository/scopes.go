package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type contextKey string

const clinicIDKey contextKey = "clinic_id"

// WithClinic returns a context carrying the clinic every query should be
// scoped to.
func WithClinic(ctx context.Context, clinicID uuid.UUID) context.Context {
	return context.WithValue(ctx, clinicIDKey, clinicID)
}

// GetClinicID extracts the clinic ID from the context, if present.
func GetClinicID(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(clinicIDKey).(uuid.UUID)
	return id, ok
}

// ClinicScope filters a query down to rows belonging to the clinic in the
// context. Queries without a clinic in context are left untouched so that
// system-level jobs (seeding, cleanup) can see all rows.
func ClinicScope(ctx context.Context) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if clinicID, ok := GetClinicID(ctx); ok {
			return db.Where("clinic_id = ?", clinicID)
		}
		return db
	}
}
