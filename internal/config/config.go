package config

import (
	"os"
	"strconv"
)

// DatabaseConfig holds PostgreSQL database connection settings.
type DatabaseConfig struct {
	Host               string
	Port               string
	User               string
	Password           string
	Name               string
	SSLMode            string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeSec int
}

// LedgerConfig holds the ledger node gateway endpoint and signing identity.
type LedgerConfig struct {
	NodeURL       string
	SignerAddress string
}

// PaymentConfig holds Stripe credentials and the flat notarization fee.
type PaymentConfig struct {
	SecretKey      string
	PublishableKey string
	WebhookSecret  string
	PriceCents     int64
	Currency       string
	SuccessURL     string
	CancelURL      string
}

// ArchiveConfig holds object storage settings for the optional document archive.
type ArchiveConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// AppConfig is the centralized configuration struct for the application.
// It is populated from environment variables. Sensitive values are not hardcoded.
type AppConfig struct {
	AppHost     string
	Port        string
	Environment string
	Database    DatabaseConfig
	Ledger      LedgerConfig
	Payment     PaymentConfig
	Archive     ArchiveConfig
}

// Capability is the startup-resolved operating mode of one collaborator.
// An absent credential group degrades that subsystem instead of failing
// startup; the decision is made exactly once, never re-checked per request.
type Capability string

const (
	Configured Capability = "configured"
	Demo       Capability = "demo"
	Disabled   Capability = "disabled"
)

// Capabilities is the capability set consumed by the workflows.
type Capabilities struct {
	Ledger   Capability `json:"ledger"`
	Store    Capability `json:"store"`
	Payments Capability `json:"payments"`
	Archive  Capability `json:"archive"`
}

// DemoMode reports whether notarization and verification run against
// synthetic collaborators. Either missing group degrades both workflows,
// since a durable record without an attestation (or vice versa) is useless.
func (c Capabilities) DemoMode() bool {
	return c.Ledger != Configured || c.Store != Configured
}

// Load reads configuration from environment variables.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
// This function does not require a .env file; real environment variables take precedence.
func Load() *AppConfig {
	return &AppConfig{
		AppHost:     getEnv("APP_HOST", "localhost:8080"),
		Port:        getEnv("PORT", "8080"), // default only for non-sensitive value
		Environment: getEnv("APP_ENV", "development"),
		Database: DatabaseConfig{
			Host:               getEnv("DB_HOST", ""),
			Port:               getEnv("DB_PORT", "5432"),
			User:               getEnv("DB_USER", ""),
			Password:           getEnv("DB_PASSWORD", ""),
			Name:               getEnv("DB_NAME", ""),
			SSLMode:            getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:       getEnvInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:       getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetimeSec: getEnvInt("DB_CONN_MAX_LIFETIME_SEC", 300),
		},
		Ledger: LedgerConfig{
			NodeURL:       getEnv("LEDGER_NODE_URL", ""),
			SignerAddress: getEnv("LEDGER_SIGNER_ADDRESS", ""),
		},
		Payment: PaymentConfig{
			SecretKey:      getEnv("STRIPE_SECRET_KEY", ""),
			PublishableKey: getEnv("STRIPE_PUBLISHABLE_KEY", ""),
			WebhookSecret:  getEnv("STRIPE_WEBHOOK_SECRET", ""),
			PriceCents:     int64(getEnvInt("PAYMENT_PRICE_CENTS", 500)),
			Currency:       getEnv("PAYMENT_CURRENCY", "usd"),
			SuccessURL:     getEnv("PAYMENT_SUCCESS_URL", "http://localhost:8080/payment-success"),
			CancelURL:      getEnv("PAYMENT_CANCEL_URL", "http://localhost:8080/payment-cancelled"),
		},
		Archive: ArchiveConfig{
			Endpoint:  getEnv("MINIO_ENDPOINT", ""),
			AccessKey: getEnv("MINIO_ACCESS_KEY", ""),
			SecretKey: getEnv("MINIO_SECRET_KEY", ""),
			Bucket:    getEnv("MINIO_BUCKET", ""),
			UseSSL:    getEnvBool("MINIO_USE_SSL", false),
		},
	}
}

// Capabilities resolves the startup capability set from credential presence.
func (c *AppConfig) Capabilities() Capabilities {
	caps := Capabilities{
		Ledger:   Demo,
		Store:    Demo,
		Payments: Disabled,
		Archive:  Disabled,
	}
	if c.Ledger.NodeURL != "" && c.Ledger.SignerAddress != "" {
		caps.Ledger = Configured
	}
	if c.Database.Host != "" && c.Database.User != "" && c.Database.Name != "" {
		caps.Store = Configured
	}
	// Ledger and store degrade together. A demo attestation must never land
	// in the durable store, and a real attestation without a durable record
	// (or vice versa) is useless, so a half-configured pair runs fully
	// synthetic rather than half-real.
	if caps.Ledger != Configured || caps.Store != Configured {
		caps.Ledger = Demo
		caps.Store = Demo
	}
	if c.Payment.SecretKey != "" {
		caps.Payments = Configured
	} else if c.Payment.PublishableKey != "" || c.Payment.WebhookSecret != "" {
		// Partial Stripe config: keep the payment endpoints alive in demo
		// mode rather than half-working against the real API.
		caps.Payments = Demo
	}
	if c.Archive.Endpoint != "" && c.Archive.AccessKey != "" && c.Archive.SecretKey != "" && c.Archive.Bucket != "" {
		caps.Archive = Configured
	}
	return caps
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err == nil {
			return i
		}
	}
	return def
}
