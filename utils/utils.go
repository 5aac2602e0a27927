package utils

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/eqrm/churchtools-inventory-extension-demo-sub002/models"

	"github.com/google/uuid"
	"github.com/spf13/viper"
	"golang.org/x/crypto/bcrypt"
)

// GetConfig read the configuration from environment variables or config files
func GetConfig() (*models.Config, error) {
	config, err := Load()
	if err != nil {
		return nil, fmt.Errorf("error loading config: %w", err)
	}
	return config, nil
}

// Load initializes and returns the application configuration using Viper
func Load() (*models.Config, error) {
	v := viper.New()

	// Set configuration file details
	v.SetConfigName("config")
	v.SetConfigType("json")
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")
	v.AddConfigPath("../")
	v.AddConfigPath("../../")

	// Set default values
	setDefaults(v)

	// Enable environment variable support
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Try to read config file
	if err := v.ReadInConfig(); err != nil {
		// Config file not found, continue with defaults and env vars
		fmt.Printf("Config file not found (%v), using defaults and environment variables\n", err)
	} else {
		fmt.Printf("Using config file: %s\n", v.ConfigFileUsed())
	}

	// Handle nested JSON structure from config.json
	if v.IsSet("app") {
		flattenNestedConfig(v)
	}

	var config models.Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Parse JWT expiration if it's a string
	if v.IsSet("jwt.expires_in") {
		expiresStr := v.GetString("jwt.expires_in")
		if expiresStr != "" {
			if expires, err := time.ParseDuration(expiresStr); err != nil {
				return nil, fmt.Errorf("invalid JWT expires_in format: %w", err)
			} else {
				config.JWTExpiresIn = expires
			}
		}
	}

	// Validate configuration
	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Application defaults
	v.SetDefault("app_name", "Inventory Extension")
	v.SetDefault("app_version", "1.0.0")
	v.SetDefault("app_env", "development")
	v.SetDefault("app_host", "0.0.0.0")
	v.SetDefault("app_port", "8081")

	// JWT defaults
	v.SetDefault("jwt_secret", "your-super-secret-jwt-key-change-this-in-production")
	v.SetDefault("jwt_expires_in", 30*time.Minute) // Shorter token expiration for better security

	// AWS defaults
	v.SetDefault("aws_region", "us-east-1")
	v.SetDefault("aws_access_key_id", "")
	v.SetDefault("aws_secret_access_key", "")
	v.SetDefault("dynamodb_endpoint", "")
	v.SetDefault("dynamodb_table_prefix", "dev")

	// Sweep worker defaults
	v.SetDefault("sweep_enabled", true)
	v.SetDefault("sweep_cron_schedule", "")
	v.SetDefault("sweep_dry_run", false)
	v.SetDefault("sweep_run_once", false)
	v.SetDefault("sweep_auto_work_orders", true)

	// Metrics defaults
	v.SetDefault("metrics_namespace", "inventory")

	// Logging defaults
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "json")

	// CORS defaults
	v.SetDefault("cors_origins", []string{"*"})

	// Rate limiting defaults
	v.SetDefault("rate_limit_requests_per_minute", 100)

	// Base Path default
	v.SetDefault("basePath", "/api/v1")

	// setup tables to create
	v.SetDefault("tables", []string{
		"assets",
		"asset_groups",
		"bookings",
		"maintenance_schedules",
		"work_orders",
		"maintenance_records",
		"stock_takes",
		"saved_views",
		"users",
	})
}

// validate checks if all required configuration is provided
func validate(c *models.Config) error {

	if c.JWTSecret == "your-super-secret-jwt-key-change-this-in-production" && c.AppEnv == "production" {
		return fmt.Errorf("JWT_SECRET must be set in production environment")
	}

	// In production, we should have AWS credentials set
	if c.AppEnv == "production" && c.AWSAccessKeyID == "" {
		fmt.Println("No AWS credentials provided, assuming IAM role is used")
	}

	return nil
}

// nestedToFlat maps the sectioned keys of config.json onto the flat keys the
// Config struct unmarshals from. jwt.expires_in is intentionally absent: it
// stays nested so Load can parse it as a duration string after unmarshaling.
var nestedToFlat = map[string]string{
	"app.name":    "app_name",
	"app.version": "app_version",
	"app.env":     "app_env",
	"app.host":    "app_host",
	"app.port":    "app_port",

	"jwt.secret": "jwt_secret",

	"aws.region":                "aws_region",
	"aws.access_key_id":         "aws_access_key_id",
	"aws.secret_access_key":     "aws_secret_access_key",
	"aws.dynamodb_endpoint":     "dynamodb_endpoint",
	"aws.dynamodb_table_prefix": "dynamodb_table_prefix",

	"sweep.enabled":          "sweep_enabled",
	"sweep.cron_schedule":    "sweep_cron_schedule",
	"sweep.dry_run":          "sweep_dry_run",
	"sweep.run_once":         "sweep_run_once",
	"sweep.auto_work_orders": "sweep_auto_work_orders",

	"metrics.namespace": "metrics_namespace",

	"logging.level":  "log_level",
	"logging.format": "log_format",

	"cors.origins": "cors_origins",

	"rate_limit.requests_per_minute": "rate_limit_requests_per_minute",
}

// flattenNestedConfig copies nested config.json values onto their flat keys.
// Values keep their JSON types; Viper's weakly typed unmarshal handles the
// rest.
func flattenNestedConfig(v *viper.Viper) {
	for nested, flat := range nestedToFlat {
		if v.IsSet(nested) {
			v.Set(flat, v.Get(nested))
		}
	}
}

// PrintPrettyJSON takes any struct or map and prints it as pretty JSON
func PrintPrettyJSON(data interface{}) string {
	prettyJSON, err := json.MarshalIndent(data, "", "    ") // 4 spaces indent
	if err != nil {
		fmt.Println("Failed to generate JSON:", err)
		return ""
	}
	return string(prettyJSON)
}

// GenerateUUID returns a new UUID string
func GenerateUUID() string {
	return uuid.New().String()
}

// HashPassword hashes a plain text password using bcrypt.
func HashPassword(password string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashedBytes), nil
}

// CheckPassword compares a hashed password with a plain text password.
func CheckPassword(hashedPassword, password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
	return err == nil
}
