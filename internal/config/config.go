package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// User is a back-office operator account. Accounts are a fixed list loaded
// from the environment; there is no self-service signup.
type User struct {
	ID       string
	Name     string
	Email    string
	Password string
	Role     string // ADMIN, MANAGER or STAFF
}

type Config struct {
	ProjectID                    string
	Port                         string
	AllowedOrigins               []string
	DataDir                      string
	StorageBucket                string
	GeminiAPIKey                 string
	StripeSecretKey              string
	StripeWebhookSecret          string
	SignedURLServiceAccountEmail string
	Users                        []User
}

func Load() Config {
	// Local development reads a .env file; in Cloud Run the env is set directly.
	_ = godotenv.Load()

	projectID := getenv("FIREBASE_PROJECT_ID", "")
	if projectID == "" {
		projectID = getenv("GOOGLE_CLOUD_PROJECT", "")
	}

	port := getenv("PORT", "8080")
	origins := getenv("ALLOWED_ORIGINS", "http://localhost:3000")
	dataDir := getenv("DATA_DIR", "data")
	storageBucket := getenv("STORAGE_BUCKET", "")
	if storageBucket == "" && projectID != "" {
		storageBucket = projectID + ".appspot.com"
	}

	allowed := []string{}
	for _, o := range strings.Split(origins, ",") {
		o = strings.TrimSpace(o)
		if o != "" {
			allowed = append(allowed, o)
		}
	}

	return Config{
		ProjectID:                    projectID,
		Port:                         port,
		AllowedOrigins:               allowed,
		DataDir:                      dataDir,
		StorageBucket:                storageBucket,
		GeminiAPIKey:                 getenv("GEMINI_API_KEY", ""),
		StripeSecretKey:              getenv("STRIPE_SECRET_KEY", ""),
		StripeWebhookSecret:          getenv("STRIPE_WEBHOOK_SECRET", ""),
		SignedURLServiceAccountEmail: getenv("SIGNED_URL_SERVICE_ACCOUNT_EMAIL", ""),
		Users:                        loadUsers(),
	}
}

// loadUsers parses USERS as "name|email|password|role" entries separated by
// semicolons. Falls back to a single admin account so a fresh install is
// usable out of the box.
func loadUsers() []User {
	raw := getenv("USERS", "")
	if raw == "" {
		return []User{
			{ID: "u1", Name: "Admin", Email: "admin@academy.local", Password: getenv("ADMIN_PASSWORD", "admin"), Role: "ADMIN"},
		}
	}

	var users []User
	for i, entry := range strings.Split(raw, ";") {
		parts := strings.Split(strings.TrimSpace(entry), "|")
		if len(parts) != 4 {
			continue
		}
		role := strings.ToUpper(strings.TrimSpace(parts[3]))
		if role != "ADMIN" && role != "MANAGER" && role != "STAFF" {
			role = "STAFF"
		}
		users = append(users, User{
			ID:       fmt.Sprintf("u%d", i+1),
			Name:     strings.TrimSpace(parts[0]),
			Email:    strings.ToLower(strings.TrimSpace(parts[1])),
			Password: parts[2],
			Role:     role,
		})
	}
	return users
}

func getenv(key, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}
