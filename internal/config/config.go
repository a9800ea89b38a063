package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Kafka    KafkaConfig
	JWT      JWTConfig
	Narrator NarratorConfig
	Payslip  PayslipConfig
}

type AppConfig struct {
	Port         string
	Env          string
	LogLevel     string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

type DatabaseConfig struct {
	Host       string
	Port       string
	User       string
	Password   string
	Name       string
	SSLMode    string
	MaxRetries int
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type KafkaConfig struct {
	Broker       string
	GroupID      string
	PollInterval time.Duration
}

// JWTConfig holds token signing settings for the identity provider.
type JWTConfig struct {
	Secret     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// NarratorConfig points at the optional text-generation endpoint. An empty
// URL disables it and payslips are always rendered deterministically.
type NarratorConfig struct {
	URL     string
	APIKey  string
	Model   string
	Timeout time.Duration
}

type PayslipConfig struct {
	PDFWrapWidth int
}

func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.App.Env, "production")
}

// DSN builds the postgres connection string used by gorm.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		d.Host, d.User, d.Password, d.Name, d.Port, d.SSLMode,
	)
}

func Load() (*Config, error) {
	// .env is optional; real deployments inject the environment directly.
	_ = godotenv.Load()

	cfg := &Config{}
	var err error

	cfg.App = AppConfig{
		Port:     getEnv("PORT", "3000"),
		Env:      getEnv("APP_ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}
	if cfg.App.ReadTimeout, err = getDuration("HTTP_READ_TIMEOUT", 5*time.Second); err != nil {
		return nil, err
	}
	if cfg.App.WriteTimeout, err = getDuration("HTTP_WRITE_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}
	if cfg.App.IdleTimeout, err = getDuration("HTTP_IDLE_TIMEOUT", 60*time.Second); err != nil {
		return nil, err
	}

	maxRetries, err := getInt("DB_MAX_RETRIES", 5)
	if err != nil {
		return nil, err
	}
	cfg.Database = DatabaseConfig{
		Host:       getEnv("DB_HOST", "localhost"),
		Port:       getEnv("DB_PORT", "5432"),
		User:       getEnv("DB_USER", "postgres"),
		Password:   getEnv("DB_PASSWORD", ""),
		Name:       getEnv("DB_NAME", "go_payroll"),
		SSLMode:    getEnv("DB_SSLMODE", "disable"),
		MaxRetries: maxRetries,
	}

	redisDB, err := getInt("REDIS_DB", 0)
	if err != nil {
		return nil, err
	}
	cfg.Redis = RedisConfig{
		Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       redisDB,
	}

	cfg.Kafka = KafkaConfig{
		Broker:  getEnv("KAFKA_BROKER", ""),
		GroupID: getEnv("KAFKA_GROUP_ID", "go-payroll-transaction-projection"),
	}
	if cfg.Kafka.PollInterval, err = getDuration("OUTBOX_POLL_INTERVAL", 3*time.Second); err != nil {
		return nil, err
	}

	cfg.JWT = JWTConfig{Secret: getEnv("JWT_SECRET", "")}
	if cfg.JWT.AccessTTL, err = getDuration("JWT_ACCESS_TTL", 15*time.Minute); err != nil {
		return nil, err
	}
	if cfg.JWT.RefreshTTL, err = getDuration("JWT_REFRESH_TTL", 7*24*time.Hour); err != nil {
		return nil, err
	}

	cfg.Narrator = NarratorConfig{
		URL:    getEnv("NARRATOR_URL", ""),
		APIKey: getEnv("NARRATOR_API_KEY", ""),
		Model:  getEnv("NARRATOR_MODEL", ""),
	}
	if cfg.Narrator.Timeout, err = getDuration("NARRATOR_TIMEOUT", 20*time.Second); err != nil {
		return nil, err
	}

	wrap, err := getInt("PAYSLIP_PDF_WRAP_WIDTH", 80)
	if err != nil {
		return nil, err
	}
	cfg.Payslip = PayslipConfig{PDFWrapWidth: wrap}

	if cfg.JWT.Secret == "" && cfg.IsProduction() {
		return nil, fmt.Errorf("JWT_SECRET is required in production")
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int) (int, error) {
	raw := getEnv(key, "")
	if raw == "" {
		return defaultValue, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return v, nil
}

func getDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	raw := getEnv(key, "")
	if raw == "" {
		return defaultValue, nil
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return v, nil
}
