package config

import (
	"errors"
	"fmt"
	"log"
	"net/url"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/joho/godotenv"
)

var loadEnv sync.Once

func Config(key string) string {
	loadEnv.Do(func() {
		if err := godotenv.Load(".env"); err != nil {
			log.Println("⚠️ .env file not found, reading from system environment variables")
		}
	})

	return os.Getenv(key)
}

func configOr(key, fallback string) string {
	if v := Config(key); v != "" {
		return v
	}
	return fallback
}

func configInt(key string, fallback int) int {
	raw := Config(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		log.Printf("⚠️ %s=%q is not a number, using %d", key, raw, fallback)
		return fallback
	}
	return n
}

type AppConfig struct {
	Port        string
	DatabaseURL string
	JWTSecret   string

	// FrontendURL is the origin candidate test links point at.
	FrontendURL             string
	InvitationTTLHours      int
	SessionRetentionMinutes int

	BrevoAPIKey     string
	EmailSender     string
	EmailSenderName string

	CloudinaryURL string

	OpenAIAPIKey  string
	OpenAIBaseURL string
	OpenAIModel   string

	AdminEmail    string
	AdminPassword string
	AdminFullName string
}

func Load() AppConfig {
	return AppConfig{
		Port:                    configOr("PORT", "8080"),
		DatabaseURL:             Config("DATABASE_URL"),
		JWTSecret:               Config("JWT_SECRET"),
		FrontendURL:             configOr("FRONTEND_URL", "http://localhost:3000"),
		InvitationTTLHours:      configInt("INVITATION_TTL_HOURS", 168),
		SessionRetentionMinutes: configInt("SESSION_RETENTION_MINUTES", 60),
		BrevoAPIKey:             Config("BREVO_API_KEY"),
		EmailSender:             Config("EMAIL_SENDER"),
		EmailSenderName:         Config("EMAIL_SENDER_NAME"),
		CloudinaryURL:           Config("CLOUDINARY_URL"),
		OpenAIAPIKey:            Config("OPENAI_API_KEY"),
		OpenAIBaseURL:           Config("OPENAI_BASE_URL"),
		OpenAIModel:             configOr("OPENAI_MODEL", "gpt-4o-mini"),
		AdminEmail:              Config("ADMIN_EMAIL"),
		AdminPassword:           Config("ADMIN_PASSWORD"),
		AdminFullName:           configOr("ADMIN_FULL_NAME", "Administrator"),
	}
}

func (c AppConfig) Validate() error {
	u, err := url.Parse(c.FrontendURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("FRONTEND_URL must be an absolute URL, got %q", c.FrontendURL)
	}
	if c.InvitationTTLHours <= 0 {
		return errors.New("INVITATION_TTL_HOURS must be positive")
	}
	if c.SessionRetentionMinutes <= 0 {
		return errors.New("SESSION_RETENTION_MINUTES must be positive")
	}
	return nil
}

func (c AppConfig) InvitationTTL() time.Duration {
	return time.Duration(c.InvitationTTLHours) * time.Hour
}

func (c AppConfig) SessionRetention() time.Duration {
	return time.Duration(c.SessionRetentionMinutes) * time.Minute
}
