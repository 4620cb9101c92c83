package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	API      APIConfig
	CORS     CORSConfig
	Stripe   StripeConfig
	OpenAI   OpenAIConfig
	Postmark PostmarkConfig
	Notify   NotifyConfig
}

type ServerConfig struct {
	Port string
	Env  string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret      string
	ExpiryHours int
}

type APIConfig struct {
	RateLimitReviewsPerMin int
}

type CORSConfig struct {
	AllowedOrigins []string
}

type StripeConfig struct {
	SecretKey         string
	WebhookSecret     string
	BrandClaimPrice   int64 // in cents
	CheckoutReturnURL string
}

type OpenAIConfig struct {
	APIKey string
	Model  string
}

type PostmarkConfig struct {
	ServerToken string
	FromEmail   string
}

type NotifyConfig struct {
	WorkerConcurrency int
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error in production)
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		redisDB = 0
	}

	jwtExpiry, err := strconv.Atoi(getEnv("JWT_EXPIRY_HOURS", "168"))
	if err != nil {
		jwtExpiry = 168
	}

	rateLimit, err := strconv.Atoi(getEnv("RATE_LIMIT_REVIEWS_PER_MINUTE", "5"))
	if err != nil {
		rateLimit = 5
	}

	workerConcurrency, err := strconv.Atoi(getEnv("NOTIFY_WORKER_CONCURRENCY", "4"))
	if err != nil {
		workerConcurrency = 4
	}

	claimPrice, err := strconv.ParseInt(getEnv("STRIPE_BRAND_CLAIM_PRICE_CENTS", "9900"), 10, 64)
	if err != nil {
		claimPrice = 9900
	}

	origins := strings.Split(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000"), ",")

	cfg := &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "8080"),
			Env:  getEnv("ENV", "development"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "zeeverify"),
			Password: getEnv("DB_PASSWORD", "zeeverify_password"),
			DBName:   getEnv("DB_NAME", "zeeverify_db"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       redisDB,
		},
		JWT: JWTConfig{
			Secret:      getEnv("JWT_SECRET", "change-this-secret-key"),
			ExpiryHours: jwtExpiry,
		},
		API: APIConfig{
			RateLimitReviewsPerMin: rateLimit,
		},
		CORS: CORSConfig{
			AllowedOrigins: origins,
		},
		Stripe: StripeConfig{
			SecretKey:         getEnv("STRIPE_SECRET_KEY", ""),
			WebhookSecret:     getEnv("STRIPE_WEBHOOK_SECRET", ""),
			BrandClaimPrice:   claimPrice,
			CheckoutReturnURL: getEnv("STRIPE_CHECKOUT_RETURN_URL", "http://localhost:3000/claim"),
		},
		OpenAI: OpenAIConfig{
			APIKey: getEnv("OPENAI_API_KEY", ""),
			Model:  getEnv("OPENAI_MODEL", "gpt-4o"),
		},
		Postmark: PostmarkConfig{
			ServerToken: getEnv("POSTMARK_SERVER_TOKEN", ""),
			FromEmail:   getEnv("POSTMARK_FROM_EMAIL", "no-reply@zeeverify.com"),
		},
		Notify: NotifyConfig{
			WorkerConcurrency: workerConcurrency,
		},
	}

	// Validate required fields
	if cfg.JWT.Secret == "change-this-secret-key" && cfg.Server.Env == "production" {
		return nil, fmt.Errorf("JWT_SECRET must be set in production")
	}

	return cfg, nil
}

// GetDSN returns the database connection string
func (c *Config) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.DBName,
		c.Database.SSLMode,
	)
}

// GetRedisAddr returns the Redis address
func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", c.Redis.Host, c.Redis.Port)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
