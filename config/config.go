package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Auth     AuthConfig
	Storage  StorageConfig
	GenAI    GenAIConfig
	Limits   LimitsConfig
	App      AppConfig
}

type ServerConfig struct {
	Port            string
	AllowedOrigins  []string
	ShutdownTimeout time.Duration
}

type DatabaseConfig struct {
	Host        string
	Port        int
	User        string
	Password    string
	Name        string
	SSLMode     string
	AutoMigrate bool
	TxTimeout   time.Duration
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type AuthConfig struct {
	// Provider selects the bearer-token verifier: "jwt" or "firebase".
	Provider            string
	JWTSecret           string
	JWTTTL              time.Duration
	AdminEmail          string
	AdminPasswordHash   string
	FirebaseCredentials string
}

type StorageConfig struct {
	Endpoint      string
	AccessKey     string
	SecretKey     string
	Bucket        string
	Region        string
	UseSSL        bool
	PublicBaseURL string
	MaxUploadSize int64
}

type GenAIConfig struct {
	APIKey            string
	Model             string
	SystemInstruction string
	HistoryTurns      int
}

type LimitsConfig struct {
	ReorderMaxBatch int
	ContactPerMin   int
	ChatPerMin      int
	ChatMaxMessage  int
}

type AppConfig struct {
	Environment string
	LogLevel    string
	Version     string
}

func Load() (*Config, error) {
	// Load .env file if it exists (ignore error in production)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnv("PORT", "8080"),
			AllowedOrigins:  getEnvAsList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
			ShutdownTimeout: getEnvAsDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Database: DatabaseConfig{
			Host:        getEnv("DB_HOST", "localhost"),
			Port:        getEnvAsInt("DB_PORT", 5432),
			User:        getEnv("DB_USER", "postgres"),
			Password:    getEnv("DB_PASSWORD", ""),
			Name:        getEnv("DB_NAME", "portfolio"),
			SSLMode:     getEnv("DB_SSLMODE", "disable"),
			AutoMigrate: getEnvAsBool("DB_AUTO_MIGRATE", false),
			TxTimeout:   getEnvAsDuration("DB_TX_TIMEOUT", 15*time.Second),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Auth: AuthConfig{
			Provider:            getEnv("AUTH_PROVIDER", "jwt"),
			JWTSecret:           getEnv("JWT_SECRET", ""),
			JWTTTL:              getEnvAsDuration("JWT_TTL", 12*time.Hour),
			AdminEmail:          getEnv("ADMIN_EMAIL", ""),
			AdminPasswordHash:   getEnv("ADMIN_PASSWORD_HASH", ""),
			FirebaseCredentials: getEnv("FIREBASE_CREDENTIALS_PATH", ""),
		},
		Storage: StorageConfig{
			Endpoint:      getEnv("S3_ENDPOINT", "localhost:9000"),
			AccessKey:     getEnv("S3_ACCESS_KEY", ""),
			SecretKey:     getEnv("S3_SECRET_KEY", ""),
			Bucket:        getEnv("S3_BUCKET", "portfolio-media"),
			Region:        getEnv("S3_REGION", "us-east-1"),
			UseSSL:        getEnvAsBool("S3_USE_SSL", false),
			PublicBaseURL: getEnv("MEDIA_PUBLIC_BASE_URL", ""),
			MaxUploadSize: int64(getEnvAsInt("UPLOAD_MAX_BYTES", 5<<20)),
		},
		GenAI: GenAIConfig{
			APIKey:            getEnv("GEMINI_API_KEY", ""),
			Model:             getEnv("GEMINI_MODEL", "gemini-2.0-flash"),
			SystemInstruction: getEnv("CHAT_SYSTEM_INSTRUCTION", ""),
			HistoryTurns:      getEnvAsInt("CHAT_HISTORY_TURNS", 20),
		},
		Limits: LimitsConfig{
			ReorderMaxBatch: getEnvAsInt("REORDER_MAX_BATCH", 500),
			ContactPerMin:   getEnvAsInt("CONTACT_RATE_PER_MIN", 5),
			ChatPerMin:      getEnvAsInt("CHAT_RATE_PER_MIN", 20),
			ChatMaxMessage:  getEnvAsInt("CHAT_MAX_MESSAGE_CHARS", 2000),
		},
		App: AppConfig{
			Environment: getEnv("APP_ENV", "development"),
			LogLevel:    getEnv("LOG_LEVEL", "info"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	if c.Database.Host == "" {
		return fmt.Errorf("DB_HOST is required")
	}

	if c.Limits.ReorderMaxBatch < 1 {
		return fmt.Errorf("REORDER_MAX_BATCH must be >= 1")
	}

	switch c.Auth.Provider {
	case "jwt":
		if c.IsProduction() && c.Auth.JWTSecret == "" {
			return fmt.Errorf("JWT_SECRET is required in production")
		}
	case "firebase":
		if c.Auth.FirebaseCredentials == "" {
			return fmt.Errorf("FIREBASE_CREDENTIALS_PATH is required when AUTH_PROVIDER=firebase")
		}
	default:
		return fmt.Errorf("AUTH_PROVIDER must be jwt or firebase, got %q", c.Auth.Provider)
	}

	return nil
}

func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid integer for %s, using default: %d", key, defaultValue)
		return defaultValue
	}

	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid boolean for %s, using default: %t", key, defaultValue)
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := time.ParseDuration(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid duration for %s, using default: %s", key, defaultValue)
		return defaultValue
	}

	return value
}

func getEnvAsList(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	var out []string
	for _, part := range strings.Split(valueStr, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
