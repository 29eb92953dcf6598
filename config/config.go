package config

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for a watcher run. It is loaded once at
// process start and passed by reference to every component; nothing reads
// the environment after Load returns.
type Config struct {
	Environment string

	// Foresters member portal login. Both are required.
	LoginUsername string
	LoginPassword string
	LoginURL      string

	// How long to wait for the bearer token to appear in captured traffic.
	TokenTimeout time.Duration

	// Events search parameters sent to the API.
	SearchRadius   string
	SearchPostcode string
	SearchCountry  string

	// Path of the JSON snapshot of previously seen events.
	StorePath string

	// Mail settings. Recipient lists are comma-separated in the environment.
	MailProvider       string
	MailFromAddress    string
	MailFromName       string
	NotifyRecipients   []string
	ErrorRecipients    []string
	SESRegion          string
	SESAccessKeyID     string
	SESSecretAccessKey string
}

const defaultLoginURL = "https://www.forestersfriendlysociety.co.uk/my-foresters/login/"

// Load loads configuration from environment variables.
// It attempts to load from .env file if not in production.
func Load() (*Config, error) {
	env := os.Getenv("GO_ENV")
	if env == "" {
		env = "development"
	}

	// In production the .env file usually does not exist and we rely on
	// system environment variables, so a load failure is only a warning.
	if env != "production" {
		if err := godotenv.Load(); err != nil {
			log.Printf("Warning: .env file not found or couldn't be loaded: %v", err)
		}
	}

	cfg := &Config{
		Environment:        env,
		LoginUsername:      os.Getenv("FORESTERS_USERNAME"),
		LoginPassword:      os.Getenv("FORESTERS_PASSWORD"),
		LoginURL:           os.Getenv("LOGIN_URL"),
		SearchRadius:       os.Getenv("SEARCH_RADIUS"),
		SearchPostcode:     os.Getenv("SEARCH_POSTCODE"),
		SearchCountry:      os.Getenv("SEARCH_COUNTRY"),
		StorePath:          os.Getenv("STORE_PATH"),
		MailProvider:       os.Getenv("MAIL_PROVIDER"),
		MailFromAddress:    os.Getenv("MAIL_FROM"),
		MailFromName:       os.Getenv("MAIL_FROM_NAME"),
		NotifyRecipients:   splitRecipients(os.Getenv("NOTIFY_RECIPIENTS")),
		ErrorRecipients:    splitRecipients(os.Getenv("ERROR_RECIPIENTS")),
		SESRegion:          os.Getenv("SES_REGION"),
		SESAccessKeyID:     os.Getenv("SES_ACCESS_KEY_ID"),
		SESSecretAccessKey: os.Getenv("SES_SECRET_ACCESS_KEY"),
	}

	// Set defaults
	if cfg.LoginURL == "" {
		cfg.LoginURL = defaultLoginURL
	}
	if cfg.SearchRadius == "" {
		cfg.SearchRadius = "0"
	}
	if cfg.SearchPostcode == "" {
		cfg.SearchPostcode = "NP44 6EP"
	}
	if cfg.SearchCountry == "" {
		cfg.SearchCountry = "GB"
	}
	if cfg.StorePath == "" {
		cfg.StorePath = "events.json"
	}
	if cfg.SESRegion == "" {
		cfg.SESRegion = "eu-west-1"
	}

	cfg.TokenTimeout = 60 * time.Second
	if s := os.Getenv("TOKEN_TIMEOUT"); s != "" {
		d, err := time.ParseDuration(s)
		if err != nil {
			return nil, fmt.Errorf("invalid TOKEN_TIMEOUT %q: %w", s, err)
		}
		cfg.TokenTimeout = d
	}

	return cfg, nil
}

// HasMailCredentials reports whether outbound mail can actually be sent.
// Without credentials the watcher logs intended messages instead.
func (c *Config) HasMailCredentials() bool {
	return c.MailProvider == "ses" && c.SESAccessKeyID != "" && c.SESSecretAccessKey != ""
}

func splitRecipients(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
