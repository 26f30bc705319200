package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds all application configuration.
type Config struct {
	// Server configuration
	ServerAddress string
	Environment   string

	// AWS configuration
	AWSRegion     string
	DynamoDBTable string
	GSI1IndexName string // parent -> child traversal
	GSI2IndexName string // type-wide listings
	EventBusName  string

	// AppSync API key rotation
	GraphQLAPIID       string
	APIKeySSMPath      string
	KeyLifetimeDays    int
	DeletionWindowDays int

	// Observability
	MetricsNamespace string
	LogLevel         string
	EnableTracing    bool

	// Authentication (HTTP surface only; AppSync passes identity itself)
	JWTSecret   string
	JWTIssuer   string
	JWTAudience string
}

// LoadConfig loads configuration from environment variables.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		ServerAddress: getEnv("SERVER_ADDRESS", ":8080"),
		Environment:   getEnv("ENVIRONMENT", "development"),

		AWSRegion:     getEnv("AWS_REGION", "us-east-1"),
		DynamoDBTable: getEnv("TABLE_NAME", "mellon-user-content"),
		GSI1IndexName: getEnv("GSI1_INDEX_NAME", "GSI1"),
		GSI2IndexName: getEnv("GSI2_INDEX_NAME", "GSI2"),
		EventBusName:  getEnv("EVENT_BUS_NAME", "mellon-content-events"),

		GraphQLAPIID:       getEnv("GRAPHQL_API_ID", ""),
		APIKeySSMPath:      getEnv("API_KEY_SSM_PATH", "/all/mellon/graphql-api-key"),
		KeyLifetimeDays:    getEnvInt("KEY_LIFETIME_DAYS", 365),
		DeletionWindowDays: getEnvInt("KEY_DELETION_WINDOW_DAYS", 30),

		MetricsNamespace: getEnv("METRICS_NAMESPACE", "MellonUserContent"),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		EnableTracing:    getEnvBool("ENABLE_TRACING", false),

		JWTSecret:   getEnv("JWT_SECRET", ""),
		JWTIssuer:   getEnv("JWT_ISSUER", "mellon-user-content"),
		JWTAudience: getEnv("JWT_AUDIENCE", "mellon-api"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that required configuration is present.
func (c *Config) Validate() error {
	if c.DynamoDBTable == "" {
		return fmt.Errorf("TABLE_NAME is required")
	}
	if c.Environment == "production" {
		if c.JWTSecret == "" {
			return fmt.Errorf("JWT_SECRET is required in production")
		}
		if c.EventBusName == "" {
			return fmt.Errorf("EVENT_BUS_NAME is required")
		}
	}
	return nil
}

// IsProduction checks if running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// getEnv gets an environment variable with a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool gets a boolean environment variable with a default value.
func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value == "true" || value == "1" || value == "yes"
}

// getEnvInt gets an integer environment variable with a default value.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}
