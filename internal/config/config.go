package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config is built once in main from the environment and passed by reference.
// Missing store or completion settings degrade those features to 503 responses
// instead of failing startup.
type Config struct {
	Port string

	DatabaseURL string

	CompletionAPIKey  string
	CompletionBaseURL string
	CompletionModel   string

	WhatsAppVerifyToken   string
	WhatsAppAccessToken   string
	WhatsAppPhoneNumberID string

	OrderPageURL string

	JWTSecret     string
	AdminUsername string
	AdminPassword string

	TypingDelay time.Duration
	ButtonDelay time.Duration
}

// Load reads .env (if present) and the process environment.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Port:        envOr("PORT", "8080"),
		DatabaseURL: os.Getenv("DATABASE_URL"),

		CompletionAPIKey:  os.Getenv("COMPLETION_API_KEY"),
		CompletionBaseURL: envOr("COMPLETION_BASE_URL", "https://generativelanguage.googleapis.com/v1beta/openai/"),
		CompletionModel:   envOr("COMPLETION_MODEL", "gemini-2.0-flash"),

		WhatsAppVerifyToken:   os.Getenv("WHATSAPP_VERIFY_TOKEN"),
		WhatsAppAccessToken:   os.Getenv("WHATSAPP_ACCESS_TOKEN"),
		WhatsAppPhoneNumberID: os.Getenv("WHATSAPP_PHONE_NUMBER_ID"),

		OrderPageURL: envOr("ORDER_PAGE_URL", "https://order.example.com"),

		JWTSecret:     envOr("JWT_SECRET", "dev-secret-change-me"),
		AdminUsername: envOr("ADMIN_USERNAME", "admin"),
		AdminPassword: envOr("ADMIN_PASSWORD", "admin"),

		TypingDelay: envMillis("TYPING_DELAY_MS", 2000),
		ButtonDelay: envMillis("BUTTON_DELAY_MS", 1000),
	}
}

// HasStore reports whether the relational store is configured.
func (c *Config) HasStore() bool { return c.DatabaseURL != "" }

// HasCompletion reports whether the completion API is configured.
func (c *Config) HasCompletion() bool { return c.CompletionAPIKey != "" }

// HasWhatsApp reports whether the messaging platform is configured.
func (c *Config) HasWhatsApp() bool {
	return c.WhatsAppAccessToken != "" && c.WhatsAppPhoneNumberID != ""
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envMillis(key string, fallback int) time.Duration {
	if v := os.Getenv(key); v != "" {
		if ms, err := strconv.Atoi(v); err == nil && ms >= 0 {
			return time.Duration(ms) * time.Millisecond
		}
	}
	return time.Duration(fallback) * time.Millisecond
}
