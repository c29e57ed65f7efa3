package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

var (
	DBDriver        string
	DBHost          string
	DBPort          string
	DBUser          string
	DBPassword      string
	DBMaster        string
	DBDefaultTenant string

	ModuleRegistryPath string
	TenantConfigDir    string
	MaxMenuLevel       int

	WorkerPollSeconds int

	SMTPHost       string
	SMTPPort       int
	SenderEmail    string
	SenderPassword string

	adminEmails []string
)

// LoadConfig reads the .env file and initializes configuration variables
func LoadConfig() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using system environment variables")
	}

	// Database Configuration
	DBDriver = getEnv("DB_DRIVER", "mysql")
	DBHost = getEnv("DB_HOST", "localhost")
	DBPort = getEnv("DB_PORT", "3306")
	DBUser = getEnv("DB_USER", "golang")
	DBPassword = getEnv("DB_PASSWORD", "password")
	DBMaster = getEnv("DB_MASTER", "superadmin_master")
	DBDefaultTenant = getEnv("DB_DEFAULT_TENANT", "")

	// Module registry and per-tenant config output
	ModuleRegistryPath = getEnv("MODULE_REGISTRY_PATH", "modules.json")
	TenantConfigDir = getEnv("TENANT_CONFIG_DIR", "tenant-config")
	MaxMenuLevel = getEnvAsInt("MAX_MENU_LEVEL", 4)

	// Activation worker
	WorkerPollSeconds = getEnvAsInt("WORKER_POLL_SECONDS", 5)

	// Mail Configuration
	SMTPHost = getEnv("SMTP_HOST", "")
	SMTPPort = getEnvAsInt("SMTP_PORT", 465)
	SenderEmail = getEnv("SENDER_EMAIL", "")
	SenderPassword = getEnv("SENDER_PASSWORD", "")

	loadAdminEmails()
}

// getEnv reads an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt reads an environment variable as an integer
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// loadAdminEmails loads the notification recipient list from ADMIN_EMAILS
func loadAdminEmails() {
	adminEmails = nil
	emailsStr := getEnv("ADMIN_EMAILS", "")
	for _, email := range strings.Split(emailsStr, ",") {
		email = strings.TrimSpace(email)
		if email != "" {
			adminEmails = append(adminEmails, email)
		}
	}
}

func AdminEmails() []string {
	return adminEmails
}
