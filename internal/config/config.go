// Package config loads storefront settings from the environment.
package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds every runtime setting of the storefront.
type Config struct {
	AppPort string

	APIBaseURL string
	APITimeout time.Duration

	JWTSecret     string
	TokenDuration time.Duration

	DatabaseDriver string
	DatabaseDSN    string

	RabbitMQURL string

	PaymentPublishableKey string
	PaymentAPIURL         string

	EmailServiceID  string
	EmailTemplateID string
	EmailPublicKey  string
	EmailAPIURL     string

	CatalogCacheTTL time.Duration
}

// SetDefaults registers the default value of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", ":8080")
	v.SetDefault("API_BASE_URL", "http://localhost:5000")
	v.SetDefault("API_TIMEOUT", "10s")
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("TOKEN_DURATION", "24h")
	v.SetDefault("DATABASE_DRIVER", "sqlite")
	v.SetDefault("DATABASE_DSN", "storefront.db")
	v.SetDefault("RABBITMQ_URL", "")
	v.SetDefault("PAYMENT_PUBLISHABLE_KEY", "")
	v.SetDefault("PAYMENT_API_URL", "https://api.stripe.com")
	v.SetDefault("EMAIL_SERVICE_ID", "")
	v.SetDefault("EMAIL_TEMPLATE_ID", "")
	v.SetDefault("EMAIL_PUBLIC_KEY", "")
	v.SetDefault("EMAIL_API_URL", "https://api.emailjs.com")
	v.SetDefault("CATALOG_CACHE_TTL", "5m")
}

// Load reads an optional .env file, then the environment.
func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Printf("[config] no .env file loaded: %v", err)
	}

	v := viper.New()
	SetDefaults(v)
	v.AutomaticEnv()
	return FromViper(v)
}

// FromViper builds a Config from an already populated viper instance.
func FromViper(v *viper.Viper) Config {
	return Config{
		AppPort:               v.GetString("APP_PORT"),
		APIBaseURL:            v.GetString("API_BASE_URL"),
		APITimeout:            v.GetDuration("API_TIMEOUT"),
		JWTSecret:             v.GetString("JWT_SECRET"),
		TokenDuration:         v.GetDuration("TOKEN_DURATION"),
		DatabaseDriver:        v.GetString("DATABASE_DRIVER"),
		DatabaseDSN:           v.GetString("DATABASE_DSN"),
		RabbitMQURL:           v.GetString("RABBITMQ_URL"),
		PaymentPublishableKey: v.GetString("PAYMENT_PUBLISHABLE_KEY"),
		PaymentAPIURL:         v.GetString("PAYMENT_API_URL"),
		EmailServiceID:        v.GetString("EMAIL_SERVICE_ID"),
		EmailTemplateID:       v.GetString("EMAIL_TEMPLATE_ID"),
		EmailPublicKey:        v.GetString("EMAIL_PUBLIC_KEY"),
		EmailAPIURL:           v.GetString("EMAIL_API_URL"),
		CatalogCacheTTL:       v.GetDuration("CATALOG_CACHE_TTL"),
	}
}
