package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds everything the server reads from the environment. It is
// loaded once in main and injected; no other package touches os.Getenv.
type Config struct {
	Port        string
	Production  bool // toggles Secure cookies
	DatabaseURL string
	BaseURL     string // externally reachable origin, used for gateway redirect URLs
	JWTSecret   string

	RupantorAPIKey  string
	RupantorAPIURL  string
	RupantorTimeout time.Duration

	SMTPHost  string
	SMTPPort  string
	SMTPUser  string
	SMTPPass  string
	EmailFrom string
}

// Load reads the environment and validates the values the server cannot
// run without. Optional values get defaults.
func Load() (*Config, error) {
	cfg := &Config{
		Port:            getEnv("PORT", "8080"),
		Production:      getEnv("APP_ENV", "development") == "production",
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		BaseURL:         os.Getenv("BASE_URL"),
		JWTSecret:       os.Getenv("JWT_SECRET"),
		RupantorAPIKey:  os.Getenv("RUPANTORPAY_API_KEY"),
		RupantorAPIURL:  getEnv("RUPANTORPAY_API_URL", "https://payment.rupantorpay.com/api/payment"),
		RupantorTimeout: 10 * time.Second,
		SMTPHost:        getEnv("SMTP_HOST", "smtp.gmail.com"),
		SMTPPort:        getEnv("SMTP_PORT", "587"),
		SMTPUser:        os.Getenv("EMAIL_USER"),
		SMTPPass:        os.Getenv("EMAIL_PASS"),
		EmailFrom:       os.Getenv("EMAIL_FROM"),
	}

	if cfg.DatabaseURL == "" {
		// Fall back to discrete variables.
		host := os.Getenv("DB_HOST")
		user := os.Getenv("DB_USER")
		password := os.Getenv("DB_PASSWORD")
		dbname := os.Getenv("DB_NAME")
		port := getEnv("DB_PORT", "5432")
		if host == "" || user == "" || dbname == "" {
			return nil, fmt.Errorf("database configuration missing: set DATABASE_URL or DB_HOST/DB_USER/DB_NAME")
		}
		cfg.DatabaseURL = fmt.Sprintf(
			"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
			host, user, password, dbname, port,
		)
	}

	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("BASE_URL is required for payment redirect URLs")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.RupantorAPIKey == "" {
		return nil, fmt.Errorf("RUPANTORPAY_API_KEY is required")
	}
	if cfg.EmailFrom == "" {
		cfg.EmailFrom = cfg.SMTPUser
	}

	if raw := os.Getenv("RUPANTORPAY_TIMEOUT_SECONDS"); raw != "" {
		secs, err := strconv.Atoi(raw)
		if err != nil || secs <= 0 {
			return nil, fmt.Errorf("invalid RUPANTORPAY_TIMEOUT_SECONDS: %q", raw)
		}
		cfg.RupantorTimeout = time.Duration(secs) * time.Second
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
