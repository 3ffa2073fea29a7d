package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Storage backends accepted in STORAGE_BACKEND.
const (
	BackendMemory   = "memory"
	BackendFile     = "file"
	BackendPostgres = "postgres"
	BackendMongo    = "mongo"
	BackendS3       = "s3"
)

type Config struct {
	Port                string        `mapstructure:"PORT"`
	Env                 string        `mapstructure:"ENV"`
	StorageBackend      string        `mapstructure:"STORAGE_BACKEND"`
	StorageDir          string        `mapstructure:"STORAGE_DIR"`
	DatabaseURL         string        `mapstructure:"DATABASE_URL"`
	DBMaxConns          int32         `mapstructure:"DB_MAX_CONNS"`
	DBMinConns          int32         `mapstructure:"DB_MIN_CONNS"`
	MongoURI            string        `mapstructure:"MONGODB_URI"`
	MongoDatabase       string        `mapstructure:"MONGODB_DATABASE"`
	S3Bucket            string        `mapstructure:"S3_BUCKET"`
	S3Prefix            string        `mapstructure:"S3_PREFIX"`
	KafkaBrokers        []string      `mapstructure:"KAFKA_BROKERS"`
	KafkaTopic          string        `mapstructure:"KAFKA_TOPIC"`
	CORSOrigins         []string      `mapstructure:"CORS_ORIGINS"`
	RateLimitRPS        float64       `mapstructure:"RATE_LIMIT_RPS"`
	RateLimitBurst      int           `mapstructure:"RATE_LIMIT_BURST"`
	SimulatedLatency    time.Duration `mapstructure:"SIMULATED_LATENCY"`
	StatusSweepInterval time.Duration `mapstructure:"STATUS_SWEEP_INTERVAL"`
	SeedDemoData        bool          `mapstructure:"SEED_DEMO_DATA"`
	AffiliateUserID     string        `mapstructure:"AFFILIATE_USER_ID"`
	AffiliateBaseURL    string        `mapstructure:"AFFILIATE_BASE_URL"`
	RequestTimeout      time.Duration `mapstructure:"REQUEST_TIMEOUT"`
	SessionIdleTimeout  time.Duration `mapstructure:"SESSION_IDLE_TIMEOUT"`
	BodyLimit           string        `mapstructure:"BODY_LIMIT"`
	UploadLimit         string        `mapstructure:"UPLOAD_LIMIT"`
}

var keys = []string{
	"PORT", "ENV", "STORAGE_BACKEND", "STORAGE_DIR",
	"DATABASE_URL", "DB_MAX_CONNS", "DB_MIN_CONNS",
	"MONGODB_URI", "MONGODB_DATABASE",
	"S3_BUCKET", "S3_PREFIX",
	"KAFKA_BROKERS", "KAFKA_TOPIC",
	"CORS_ORIGINS", "RATE_LIMIT_RPS", "RATE_LIMIT_BURST",
	"SIMULATED_LATENCY", "STATUS_SWEEP_INTERVAL", "SEED_DEMO_DATA",
	"AFFILIATE_USER_ID", "AFFILIATE_BASE_URL",
	"REQUEST_TIMEOUT", "SESSION_IDLE_TIMEOUT", "BODY_LIMIT", "UPLOAD_LIMIT",
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("PORT", "8000")
	v.SetDefault("ENV", "development")
	v.SetDefault("STORAGE_BACKEND", BackendFile)
	v.SetDefault("STORAGE_DIR", "./data")
	v.SetDefault("DB_MAX_CONNS", 10)
	v.SetDefault("DB_MIN_CONNS", 2)
	v.SetDefault("MONGODB_URI", "mongodb://localhost:27017")
	v.SetDefault("MONGODB_DATABASE", "zuro_agenda")
	v.SetDefault("S3_PREFIX", "storage/")
	v.SetDefault("KAFKA_TOPIC", "zuro.events")
	v.SetDefault("CORS_ORIGINS", "http://localhost:5173")
	v.SetDefault("RATE_LIMIT_RPS", 50)
	v.SetDefault("RATE_LIMIT_BURST", 100)
	v.SetDefault("SIMULATED_LATENCY", "2s")
	v.SetDefault("STATUS_SWEEP_INTERVAL", "24h")
	v.SetDefault("SEED_DEMO_DATA", true)
	v.SetDefault("AFFILIATE_USER_ID", "USR123456")
	v.SetDefault("AFFILIATE_BASE_URL", "https://zuroagenda.com/ref/")
	v.SetDefault("REQUEST_TIMEOUT", "30s")
	v.SetDefault("SESSION_IDLE_TIMEOUT", "12h")
	v.SetDefault("BODY_LIMIT", "1M")
	v.SetDefault("UPLOAD_LIMIT", "10M")

	// Bind env vars explicitly so Unmarshal picks them up
	for _, k := range keys {
		_ = v.BindEnv(k)
	}

	// Try reading .env file, but don't fail if missing
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	cfg.CORSOrigins = splitList(cfg.CORSOrigins, v.GetString("CORS_ORIGINS"))
	cfg.KafkaBrokers = splitList(cfg.KafkaBrokers, v.GetString("KAFKA_BROKERS"))
	cfg.StorageBackend = strings.ToLower(strings.TrimSpace(cfg.StorageBackend))

	if cfg.IsDev() && cfg.StorageBackend == BackendMemory {
		log.Println("WARNING: STORAGE_BACKEND=memory, nothing survives a restart.")
	}

	return cfg, nil
}

// splitList turns a single comma separated env value into a slice. Viper
// leaves such values as one element when they come from the environment.
func splitList(current []string, raw string) []string {
	if len(current) > 1 {
		return current
	}
	if raw == "" {
		return nil
	}
	var out []string
	for _, s := range strings.Split(raw, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// IsProduction returns true when the server is configured for production mode.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// EventsEnabled reports whether domain events go to Kafka.
func (c *Config) EventsEnabled() bool {
	return len(c.KafkaBrokers) > 0
}

// AffiliateLink is the referral URL handed to the affiliate dashboard.
func (c *Config) AffiliateLink() string {
	return strings.TrimRight(c.AffiliateBaseURL, "/") + "/" + c.AffiliateUserID
}

// Validate checks that the selected storage backend has what it needs.
func (c *Config) Validate() error {
	switch c.StorageBackend {
	case BackendMemory:
	case BackendFile:
		if c.StorageDir == "" {
			return fmt.Errorf("STORAGE_DIR is required when STORAGE_BACKEND is %q", BackendFile)
		}
	case BackendPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required when STORAGE_BACKEND is %q", BackendPostgres)
		}
	case BackendMongo:
		if c.MongoURI == "" || c.MongoDatabase == "" {
			return fmt.Errorf("MONGODB_URI and MONGODB_DATABASE are required when STORAGE_BACKEND is %q", BackendMongo)
		}
	case BackendS3:
		if c.S3Bucket == "" {
			return fmt.Errorf("S3_BUCKET is required when STORAGE_BACKEND is %q", BackendS3)
		}
	default:
		return fmt.Errorf("STORAGE_BACKEND must be one of memory, file, postgres, mongo, s3, got %q", c.StorageBackend)
	}

	if c.EventsEnabled() && c.KafkaTopic == "" {
		return fmt.Errorf("KAFKA_TOPIC is required when KAFKA_BROKERS is set")
	}
	if c.SimulatedLatency < 0 {
		return fmt.Errorf("SIMULATED_LATENCY must not be negative")
	}
	if c.StatusSweepInterval < 0 {
		return fmt.Errorf("STATUS_SWEEP_INTERVAL must not be negative")
	}
	if c.RequestTimeout > 0 && c.RequestTimeout <= c.SimulatedLatency {
		return fmt.Errorf("REQUEST_TIMEOUT (%s) must exceed SIMULATED_LATENCY (%s)", c.RequestTimeout, c.SimulatedLatency)
	}
	if c.AffiliateUserID == "" {
		return fmt.Errorf("AFFILIATE_USER_ID is required")
	}
	return nil
}
