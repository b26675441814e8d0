package main

import (
	"context"
	"log"
	"os"
	"time"

	"thrift/internal/config"
	"thrift/internal/models"
	"thrift/internal/repositories"

	"golang.org/x/crypto/bcrypt"
)

func main() {
	config.LoadEnv()

	adminEmail := os.Getenv("ADMIN_EMAIL")
	adminPassword := os.Getenv("ADMIN_PASSWORD")
	adminPhone := os.Getenv("ADMIN_PHONE")

	if adminEmail == "" || adminPassword == "" || adminPhone == "" {
		log.Fatal("ADMIN_EMAIL, ADMIN_PASSWORD, and ADMIN_PHONE must be set in environment")
	}

	if err := repositories.InitDB(); err != nil {
		log.Fatal("Failed to initialize database:", err)
	}
	defer func() {
		if repositories.DB != nil {
			sqlDB, err := repositories.DB.DB()
			if err != nil {
				log.Printf("⚠️ Failed to get SQL DB instance: %v", err)
			} else {
				if err := sqlDB.Close(); err != nil {
					log.Printf("⚠️ Failed to close PostgreSQL connection: %v", err)
				}
			}
		}

		if repositories.CacheService != nil {
			if err := repositories.CacheService.Close(); err != nil {
				log.Printf("⚠️ Failed to close Redis connection: %v", err)
			}
		}
	}()

	seedAdmin(adminEmail, adminPassword, adminPhone)
	seedDefaultPolicy()
}

func seedAdmin(email, password, phone string) {
	var existingAdmin models.User
	result := repositories.DB.Where("email = ?", email).First(&existingAdmin)
	if result.Error == nil {
		log.Println("Admin user already exists")
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal("Failed to hash password:", err)
	}

	adminUser := models.User{
		Email:        email,
		Password:     string(hashedPassword),
		FirstName:    "Platform",
		LastName:     "Admin",
		Phone:        phone,
		Role:         "admin",
		Status:       "active",
		JoinedAt:     time.Now(),
		TokenVersion: 1,
	}

	if err := repositories.DB.Create(&adminUser).Error; err != nil {
		log.Fatal("Failed to create admin user:", err)
	}

	if repositories.CacheService != nil {
		if err := repositories.CacheService.InvalidateUser(context.Background(), adminUser.ID); err != nil {
			log.Printf("⚠️ Failed to invalidate cached admin user: %v", err)
		}
	}

	log.Println("✅ Admin account created successfully!")
}

// seedDefaultPolicy makes sure fee calculation never fails closed on a
// fresh database: 1.5% with a 0.50 floor and a 100 cap unless the
// environment says otherwise.
func seedDefaultPolicy() {
	var count int64
	if err := repositories.DB.Model(&models.FeePolicy{}).Where("active = ?", true).Count(&count).Error; err != nil {
		log.Fatal("Failed to check fee policies:", err)
	}
	if count > 0 {
		log.Println("Active fee policy already exists")
		return
	}

	policy := models.FeePolicy{
		PercentageRate:    config.GetFloatEnv("FEE_DEFAULT_RATE", 1.5),
		FlatAmount:        0,
		MinimumFee:        config.GetFloatEnv("FEE_MINIMUM", 0.5),
		MaximumFee:        config.GetFloatEnv("FEE_MAXIMUM", 100),
		IsPercentageBased: true,
		Active:            true,
	}
	if err := repositories.DB.Create(&policy).Error; err != nil {
		log.Fatal("Failed to create default fee policy:", err)
	}

	log.Println("✅ Default fee policy created!")
}
