package middleware

import (
	"errors"
	"strings"

	"github.com/clinova/pos-api/internal/domain/entity"
	"github.com/clinova/pos-api/internal/domain/repository"
	infraRepo "github.com/clinova/pos-api/internal/infrastructure/repository"
	"github.com/clinova/pos-api/internal/presentation/http/dto/response"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ExtractClinicFromHost extracts the clinic slug from a subdomain,
// e.g. "downtown.clinova.app" -> "downtown"
func ExtractClinicFromHost(host string) (string, error) {
	// Remove port if present
	if idx := strings.LastIndex(host, ":"); idx != -1 {
		host = host[:idx]
	}

	parts := strings.Split(host, ".")
	if len(parts) < 3 {
		return "", errors.New("invalid subdomain")
	}
	return parts[0], nil
}

// ClinicMiddleware resolves the clinic from the subdomain or the
// X-Clinic-ID header and adds it to the request context for the
// repository scope.
func ClinicMiddleware(clinicRepo repository.ClinicRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		clinic, err := resolveClinic(c, clinicRepo)
		if err != nil {
			response.NotFound(c, "Clinic not found")
			c.Abort()
			return
		}
		if clinic == nil {
			// No clinic addressed; downstream handlers that need one are
			// guarded by RequireClinic.
			c.Set("clinic_id", uuid.Nil)
			c.Next()
			return
		}

		// Authenticated users must be members of the clinic they address
		userIDVal, exists := c.Get("user_id")
		if exists {
			userID, ok := userIDVal.(uuid.UUID)
			if ok && userID != uuid.Nil && userID != clinic.OwnerID {
				isMember, _ := clinicRepo.IsMember(c.Request.Context(), clinic.ID, userID)
				if !isMember {
					response.Forbidden(c, "Access denied to this clinic")
					c.Abort()
					return
				}
			}
		}

		c.Set("clinic_id", clinic.ID)
		c.Set("clinic", clinic)

		// Also set the clinic in the request context for services/repositories
		ctx := infraRepo.WithClinic(c.Request.Context(), clinic.ID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// resolveClinic finds the addressed clinic: the subdomain slug wins,
// then the X-Clinic-ID header. Returns nil when neither is present.
func resolveClinic(c *gin.Context, clinicRepo repository.ClinicRepository) (*entity.Clinic, error) {
	if slug, err := ExtractClinicFromHost(c.Request.Host); err == nil {
		clinic, err := clinicRepo.GetBySlug(c.Request.Context(), slug)
		if err != nil || clinic == nil {
			return nil, errors.New("clinic not found")
		}
		return clinic, nil
	}

	if header := c.GetHeader("X-Clinic-ID"); header != "" {
		id, err := uuid.Parse(header)
		if err != nil {
			return nil, errors.New("invalid clinic id")
		}
		clinic, err := clinicRepo.GetByID(c.Request.Context(), id)
		if err != nil || clinic == nil {
			return nil, errors.New("clinic not found")
		}
		return clinic, nil
	}

	return nil, nil
}

// RequireClinic ensures a valid clinic context exists
func RequireClinic() gin.HandlerFunc {
	return func(c *gin.Context) {
		clinicID, exists := c.Get("clinic_id")
		if !exists {
			response.BadRequest(c, "Clinic context required")
			c.Abort()
			return
		}

		id, ok := clinicID.(uuid.UUID)
		if !ok || id == uuid.Nil {
			response.BadRequest(c, "Invalid clinic context")
			c.Abort()
			return
		}

		c.Next()
	}
}

// GetClinicID retrieves the clinic ID from gin context
func GetClinicID(c *gin.Context) uuid.UUID {
	clinicID, exists := c.Get("clinic_id")
	if !exists {
		return uuid.Nil
	}
	id, ok := clinicID.(uuid.UUID)
	if !ok {
		return uuid.Nil
	}
	return id
}
