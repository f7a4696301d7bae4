// Command seed populates the configured database with a demo admin,
// sample users, and a handful of complaints.
package main

import (
	"log"

	"golang.org/x/crypto/bcrypt"

	"github.com/awaazhq/awaaz-api/internal/config"
	"github.com/awaazhq/awaaz-api/internal/database"
	"github.com/awaazhq/awaaz-api/internal/models"
)

func main() {
	cfg := config.Load()

	if err := database.Connect(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.Migrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	db := database.GetDB()

	// Start from a clean slate
	for _, model := range []interface{}{&models.Comment{}, &models.Vote{}, &models.Complaint{}, &models.User{}} {
		if err := db.Unscoped().Where("1 = 1").Delete(model).Error; err != nil {
			log.Fatalf("Failed to clear table: %v", err)
		}
	}

	users := []struct {
		username string
		email    string
		password string
		role     models.Role
		phone    string
		address  string
	}{
		{"admin", "admin@example.com", "admin123!", models.RoleAdmin, "9876543210", "Admin Office"},
		{"user1", "user1@example.com", "password123", models.RoleUser, "1234567890", "123 Main St"},
		{"user2", "user2@example.com", "password123", models.RoleUser, "2345678901", "456 Park Ave"},
	}

	created := make([]*models.User, 0, len(users))
	for _, u := range users {
		hash, err := bcrypt.GenerateFromPassword([]byte(u.password), cfg.BcryptCost)
		if err != nil {
			log.Fatalf("Failed to hash password: %v", err)
		}
		user := &models.User{
			Username:     u.username,
			Email:        u.email,
			PasswordHash: string(hash),
			Role:         u.role,
			PhoneNumber:  u.phone,
			Address:      u.address,
		}
		if err := db.Create(user).Error; err != nil {
			log.Fatalf("Failed to create user %s: %v", u.username, err)
		}
		created = append(created, user)
	}

	complaints := []models.Complaint{
		{
			Title:       "Streetlight broken on 5th Ave",
			Description: "The streetlight has been dark for a week now",
			Category:    "Electricity",
			Location:    "5th Ave",
			Priority:    models.PriorityHigh,
			Status:      models.StatusPending,
			UserID:      created[1].ID,
		},
		{
			Title:       "No water supply since Monday",
			Description: "The entire block has had no running water for three days",
			Category:    "Water Supply",
			Location:    "Sector 12",
			Priority:    models.PriorityHigh,
			Status:      models.StatusPending,
			UserID:      created[2].ID,
		},
		{
			Title:       "Potholes near the school crossing",
			Description: "Deep potholes are making the school crossing unsafe",
			Category:    "Road",
			Location:    "Greenfield School Rd",
			Priority:    models.PriorityMedium,
			Status:      models.StatusPending,
			UserID:      created[1].ID,
		},
	}

	for i := range complaints {
		if err := db.Create(&complaints[i]).Error; err != nil {
			log.Fatalf("Failed to create complaint: %v", err)
		}
	}

	log.Printf("Seeded %d users and %d complaints", len(created), len(complaints))
}
