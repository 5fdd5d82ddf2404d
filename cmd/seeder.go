package cmd

import (
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed the database with sample data for development and testing purposes.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		sqlDB, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}
		defer sqlDB.Close()

		db, err := initGorm(sqlDB)
		if err != nil {
			log.Fatalf("failed to init orm: %v", err)
		}

		if clearData {
			for _, table := range []string{"platform_grants", "announcements", "platforms", "profiles", "user_roles", "users"} {
				if err := db.Exec(fmt.Sprintf("DELETE FROM %s", table)).Error; err != nil {
					log.Fatalf("failed to clear %s: %v", table, err)
				}
			}
			fmt.Println("Cleared existing data")
		}

		password := "password"
		hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)

		seedUser := func(email, name, role string, hasAccess bool, expiresAt *time.Time) string {
			var userID string
			row := db.Raw("SELECT id FROM users WHERE email = ?", email).Row()
			if err := row.Scan(&userID); err == nil {
				fmt.Println("user already exists:", email)
				return userID
			}

			userID = uuid.NewString()
			if err := db.Exec(
				"INSERT INTO users (id, email, password_hash, is_active, created_at, updated_at) VALUES (?, ?, ?, true, now(), now())",
				userID, email, string(hash),
			).Error; err != nil {
				log.Fatalf("failed to insert user %s: %v", email, err)
			}
			if err := db.Exec(
				"INSERT INTO user_roles (user_id, role, created_at) VALUES (?, ?, now())",
				userID, role,
			).Error; err != nil {
				log.Fatalf("failed to insert role for %s: %v", email, err)
			}
			if err := db.Exec(
				"INSERT INTO profiles (id, user_id, email, name, has_access, access_expires_at, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, now(), now())",
				userID, userID, email, name, hasAccess, expiresAt,
			).Error; err != nil {
				log.Fatalf("failed to insert profile for %s: %v", email, err)
			}
			fmt.Println("Seeded user:", email)
			return userID
		}

		seedUser("admin@portal.dev", "Portal Admin", "admin", true, nil)
		monthFromNow := time.Now().AddDate(0, 1, 0)
		memberID := seedUser("member@portal.dev", "Sample Member", "member", true, &monthFromNow)

		platforms := []struct {
			Name       string
			Category   string
			AccessType string
			WebsiteURL string
		}{
			{"ChatGPT Plus", "ai_tools", "credentials", "https://chat.openai.com"},
			{"Midjourney", "ai_tools", "credentials", "https://midjourney.com"},
			{"Netflix", "streamings", "credentials", "https://netflix.com"},
			{"Canva Pro", "software", "link_only", "https://canva.com"},
			{"Marketing Course Vault", "bonus_courses", "link_only", "https://courses.portal.dev"},
		}

		var grantedPlatformIDs []string
		for _, p := range platforms {
			var platformID string
			row := db.Raw("SELECT id FROM platforms WHERE name = ?", p.Name).Row()
			if err := row.Scan(&platformID); err == nil {
				grantedPlatformIDs = append(grantedPlatformIDs, platformID)
				continue
			}

			platformID = uuid.NewString()
			if err := db.Exec(
				"INSERT INTO platforms (id, name, category, status, access_type, login, password, website_url, created_at, updated_at) VALUES (?, ?, ?, 'online', ?, ?, ?, ?, now(), now())",
				platformID, p.Name, p.Category, p.AccessType, "shared@portal.dev", "shared-password", p.WebsiteURL,
			).Error; err != nil {
				log.Fatalf("failed to insert platform %s: %v", p.Name, err)
			}
			fmt.Println("Seeded platform:", p.Name)
			grantedPlatformIDs = append(grantedPlatformIDs, platformID)
		}

		// Sample member gets the first two platforms.
		for _, platformID := range grantedPlatformIDs[:2] {
			var exists int
			if err := db.Raw("SELECT 1 FROM platform_grants WHERE profile_id = ? AND platform_id = ?", memberID, platformID).Row().Scan(&exists); err == nil {
				continue
			}
			if err := db.Exec(
				"INSERT INTO platform_grants (id, profile_id, platform_id, created_at) VALUES (?, ?, ?, now())",
				uuid.NewString(), memberID, platformID,
			).Error; err != nil {
				log.Fatalf("failed to grant platform to sample member: %v", err)
			}
		}
		fmt.Println("Granted sample platforms to member:", "member@portal.dev")

		var exists int
		if err := db.Raw("SELECT 1 FROM announcements WHERE title = ?", "Welcome to the portal").Row().Scan(&exists); err != nil {
			if err := db.Exec(
				"INSERT INTO announcements (id, title, content, is_active, created_at, updated_at) VALUES (?, ?, ?, true, now(), now())",
				uuid.NewString(), "Welcome to the portal", "Browse the catalog and open a platform to get its access details.",
			).Error; err != nil {
				log.Fatalf("failed to insert announcement: %v", err)
			}
			fmt.Println("Seeded welcome announcement")
		}

		fmt.Println("Database seeded successfully")
	},
}
