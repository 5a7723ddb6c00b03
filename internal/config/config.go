// Package config loads server settings from the environment, an optional
// .env file and an optional tabie.yaml, in increasing order of precedence:
// defaults, tabie.yaml, environment.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/mmynk/tabie/internal/notify"
	"github.com/mmynk/tabie/internal/receipt"
)

const (
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"

	// DevJWTSecret is used when JWT_SECRET is unset. Never deploy with it.
	DevJWTSecret = "tabie-dev-secret"
)

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type MindeeConfig struct {
	APIKey  string
	ModelID string
}

// Config holds every server setting.
type Config struct {
	Port       int
	DBPath     string
	StaticPath string
	LogLevel   string

	JWTSecret string
	TokenTTL  time.Duration

	// StoreBackend selects where tab documents live: sqlite or redis.
	StoreBackend string
	Redis        RedisConfig

	FrontendURL string

	Mindee MindeeConfig
	S3     receipt.S3Config
	Twilio notify.TwilioConfig

	MetricsEnabled bool
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", 8080)
	v.SetDefault("db_path", "./data/tabie.db")
	v.SetDefault("static_path", "../frontend/static")
	v.SetDefault("log_level", "info")
	v.SetDefault("jwt_secret", DevJWTSecret)
	v.SetDefault("token_ttl", "168h")
	v.SetDefault("store_backend", BackendSQLite)
	v.SetDefault("redis_addr", "localhost:6379")
	v.SetDefault("redis_password", "")
	v.SetDefault("redis_db", 0)
	v.SetDefault("frontend_url", notify.DefaultFrontendURL)
	v.SetDefault("mindee_api_key", "")
	v.SetDefault("mindee_model_id", receipt.DefaultMindeeModelID)
	v.SetDefault("s3_endpoint", "")
	v.SetDefault("s3_access_key", "")
	v.SetDefault("s3_secret_key", "")
	v.SetDefault("s3_bucket", "")
	v.SetDefault("s3_public_base_url", "")
	v.SetDefault("twilio_account_sid", "")
	v.SetDefault("twilio_auth_token", "")
	v.SetDefault("twilio_phone_number", "")
	v.SetDefault("metrics_enabled", true)
}

// Load reads the configuration. A missing .env or tabie.yaml is not an error.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("tabie")
	v.SetConfigType("yaml")
	v.AddConfigPath("/etc/tabie")
	v.AddConfigPath(".")
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("failed to read config: %w", err)
		}
	}

	cfg := Config{
		Port:         v.GetInt("port"),
		DBPath:       v.GetString("db_path"),
		StaticPath:   v.GetString("static_path"),
		LogLevel:     strings.ToLower(v.GetString("log_level")),
		JWTSecret:    v.GetString("jwt_secret"),
		TokenTTL:     v.GetDuration("token_ttl"),
		StoreBackend: strings.ToLower(v.GetString("store_backend")),
		Redis: RedisConfig{
			Addr:     v.GetString("redis_addr"),
			Password: v.GetString("redis_password"),
			DB:       v.GetInt("redis_db"),
		},
		FrontendURL: v.GetString("frontend_url"),
		Mindee: MindeeConfig{
			APIKey:  v.GetString("mindee_api_key"),
			ModelID: v.GetString("mindee_model_id"),
		},
		S3: receipt.S3Config{
			Endpoint:      v.GetString("s3_endpoint"),
			AccessKey:     v.GetString("s3_access_key"),
			SecretKey:     v.GetString("s3_secret_key"),
			Bucket:        v.GetString("s3_bucket"),
			PublicBaseURL: v.GetString("s3_public_base_url"),
		},
		Twilio: notify.TwilioConfig{
			AccountSID:  v.GetString("twilio_account_sid"),
			AuthToken:   v.GetString("twilio_auth_token"),
			PhoneNumber: v.GetString("twilio_phone_number"),
		},
		MetricsEnabled: v.GetBool("metrics_enabled"),
	}
	return cfg, cfg.Validate()
}

// Validate rejects settings the server cannot start with.
func (c Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	switch c.StoreBackend {
	case BackendSQLite, BackendRedis:
	default:
		return fmt.Errorf("unknown store backend %q", c.StoreBackend)
	}
	if c.JWTSecret == "" {
		return errors.New("jwt secret is empty")
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("invalid token ttl %s", c.TokenTTL)
	}
	return nil
}
