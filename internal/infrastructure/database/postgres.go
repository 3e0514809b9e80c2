package database

import (
	"fmt"
	"log"

	"github.com/clinova/pos-api/internal/config"
	"github.com/clinova/pos-api/internal/domain/entity"
	"github.com/google/uuid"
	"github.com/spf13/viper"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewPostgresDB creates a new PostgreSQL database connection
func NewPostgresDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	logLevel := logger.Info

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  cfg.DSN(),
		PreferSimpleProtocol: true, // disables implicit prepared statement usage
	}), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Get underlying SQL DB to set connection pool settings
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	// Set connection pool settings
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)

	log.Println("Successfully connected to PostgreSQL database")
	return db, nil
}

// AutoMigrate runs GORM auto-migration for all entities
func AutoMigrate(db *gorm.DB) error {
	log.Println("Running database migrations...")

	err := db.AutoMigrate(
		// User-related entities
		&entity.User{},
		&entity.Role{},
		&entity.Permission{},

		// Clinic entities
		&entity.Clinic{},
		&entity.ClinicMembership{},

		// Catalog entities
		&entity.Category{},
		&entity.Unit{},
		&entity.Product{},
		&entity.BlendTemplate{},
		&entity.Bundle{},
		&entity.BundleProduct{},

		// Customer entities
		&entity.Customer{},

		// Transaction entities
		&entity.Transaction{},
		&entity.TransactionItem{},
		&entity.Draft{},

		// System entities
		&entity.IdempotencyKey{},
	)

	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Println("Database migrations completed successfully")
	return nil
}

// SeedDefaultData seeds the database with default data (roles, permissions, admin user)
func SeedDefaultData(db *gorm.DB) error {
	log.Println("Seeding default data...")

	// Create default permissions
	permissions := []entity.Permission{
		{Name: "view-dashboard", GuardName: "web"},
		{Name: "manage-products", GuardName: "web"},
		{Name: "manage-transactions", GuardName: "web"},
		{Name: "manage-blends", GuardName: "web"},
		{Name: "manage-bundles", GuardName: "web"},
		{Name: "manage-customers", GuardName: "web"},
		{Name: "manage-categories", GuardName: "web"},
		{Name: "manage-units", GuardName: "web"},
		{Name: "manage-users", GuardName: "web"},
		{Name: "manage-drafts", GuardName: "web"},
		{Name: "override-stock", GuardName: "web"},
		{Name: "view-reports", GuardName: "web"},
	}

	for i := range permissions {
		var existing entity.Permission
		if err := db.Where("name = ?", permissions[i].Name).First(&existing).Error; err != nil {
			if err := db.Create(&permissions[i]).Error; err != nil {
				log.Printf("Warning: failed to create permission %s: %v", permissions[i].Name, err)
			}
		}
	}

	// Reload permissions with IDs
	var allPermissions []entity.Permission
	db.Find(&allPermissions)

	// Create super-admin role with all permissions
	var superAdminRole entity.Role
	if err := db.Where("name = ?", "super-admin").First(&superAdminRole).Error; err != nil {
		superAdminRole = entity.Role{
			Name:        "super-admin",
			GuardName:   "web",
			Permissions: allPermissions,
		}
		if err := db.Create(&superAdminRole).Error; err != nil {
			log.Printf("Warning: failed to create super-admin role: %v", err)
		}
	}

	// Create admin role with all permissions
	var adminRole entity.Role
	if err := db.Where("name = ?", "admin").First(&adminRole).Error; err != nil {
		adminRole = entity.Role{
			Name:        "admin",
			GuardName:   "web",
			Permissions: allPermissions,
		}
		if err := db.Create(&adminRole).Error; err != nil {
			log.Printf("Warning: failed to create admin role: %v", err)
		}
	}

	// Cashiers can sell and manage drafts but cannot change the catalog or
	// confirm negative-stock sales on their own
	cashierPermissions := []string{
		"view-dashboard",
		"manage-transactions",
		"manage-customers",
		"manage-drafts",
	}
	var cashierPerms []entity.Permission
	for _, name := range cashierPermissions {
		for _, p := range allPermissions {
			if p.Name == name {
				cashierPerms = append(cashierPerms, p)
				break
			}
		}
	}

	var cashierRole entity.Role
	if err := db.Where("name = ?", "cashier").First(&cashierRole).Error; err != nil {
		cashierRole = entity.Role{
			Name:        "cashier",
			GuardName:   "web",
			Permissions: cashierPerms,
		}
		if err := db.Create(&cashierRole).Error; err != nil {
			log.Printf("Warning: failed to create cashier role: %v", err)
		}
	}

	// Practitioners mix blends and sell alongside cashier duties
	practitionerPermissions := []string{
		"view-dashboard",
		"manage-transactions",
		"manage-blends",
		"manage-customers",
		"manage-drafts",
		"override-stock",
	}
	var practitionerPerms []entity.Permission
	for _, name := range practitionerPermissions {
		for _, p := range allPermissions {
			if p.Name == name {
				practitionerPerms = append(practitionerPerms, p)
				break
			}
		}
	}

	var practitionerRole entity.Role
	if err := db.Where("name = ?", "practitioner").First(&practitionerRole).Error; err != nil {
		practitionerRole = entity.Role{
			Name:        "practitioner",
			GuardName:   "web",
			Permissions: practitionerPerms,
		}
		if err := db.Create(&practitionerRole).Error; err != nil {
			log.Printf("Warning: failed to create practitioner role: %v", err)
		}
	}

	// Create super admin user if configured via environment variables
	adminEmail := viper.GetString("ADMIN_EMAIL")
	adminPassword := viper.GetString("ADMIN_PASSWORD")
	adminName := viper.GetString("ADMIN_NAME")

	if adminEmail != "" && adminPassword != "" {
		var existingAdmin entity.User
		if err := db.Where("email = ?", adminEmail).First(&existingAdmin).Error; err != nil {
			// Hash the password
			hashedPassword, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
			if err != nil {
				log.Printf("Warning: failed to hash admin password: %v", err)
			} else {
				// Get super-admin role
				var saRole entity.Role
				if err := db.Where("name = ?", "super-admin").First(&saRole).Error; err == nil {
					if adminName == "" {
						adminName = "Super Admin"
					}
					// Split admin name into first and last name
					firstName := adminName
					lastName := ""
					for i, c := range adminName {
						if c == ' ' {
							firstName = adminName[:i]
							lastName = adminName[i+1:]
							break
						}
					}
					adminUser := entity.User{
						ID:        uuid.New(),
						FirstName: firstName,
						LastName:  lastName,
						Email:     adminEmail,
						Password:  string(hashedPassword),
						Roles:     []entity.Role{saRole},
					}
					if err := db.Create(&adminUser).Error; err != nil {
						log.Printf("Warning: failed to create super admin user: %v", err)
					} else {
						log.Printf("Super admin user created: %s", adminEmail)
					}
				}
			}
		} else {
			log.Printf("Super admin user already exists: %s", adminEmail)
		}
	}

	log.Println("Default data seeding completed")
	return nil
}
