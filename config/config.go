package config

import (
	"encoding/hex"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/juju/errors"
	"github.com/juju/loggo"
)

var logger = loggo.GetLogger("eventsvc.config")

type Config struct {
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	ServerPort string
	RabbitURL  string
	LogConfig  string

	TicketSigningKey  []byte
	TxMaxAttempts     int
	TxRetryDelay      time.Duration
	ReconcileInterval time.Duration
}

// Load reads configuration from the environment. When envFile is non-empty
// it is loaded first; variables already set in the environment win.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			if !os.IsNotExist(err) {
				return nil, errors.Annotatef(err, "load %s", envFile)
			}
			logger.Debugf("env file %s not found, using process environment", envFile)
		}
	}

	cfg := &Config{
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", "postgres"),
		DBName:     getEnv("DB_NAME", "checkin_db"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),
		ServerPort: getEnv("SERVER_PORT", "8083"),
		RabbitURL:  getEnv("RABBITMQ_URL", ""),
		LogConfig:  getEnv("LOG_CONFIG", "<root>=INFO"),
	}

	if raw := os.Getenv("TICKET_SIGNING_KEY"); raw != "" {
		key, err := hex.DecodeString(raw)
		if err != nil || len(key) != 32 {
			return nil, errors.NotValidf("TICKET_SIGNING_KEY (want 64 hex characters)")
		}
		cfg.TicketSigningKey = key
	}

	var err error
	if cfg.TxMaxAttempts, err = getInt("TX_MAX_ATTEMPTS", 5); err != nil {
		return nil, errors.Trace(err)
	}
	if cfg.TxMaxAttempts < 1 {
		return nil, errors.NotValidf("TX_MAX_ATTEMPTS %d", cfg.TxMaxAttempts)
	}
	if cfg.TxRetryDelay, err = getDuration("TX_RETRY_DELAY", 20*time.Millisecond); err != nil {
		return nil, errors.Trace(err)
	}
	if cfg.ReconcileInterval, err = getDuration("RECONCILE_INTERVAL", 15*time.Minute); err != nil {
		return nil, errors.Trace(err)
	}

	return cfg, nil
}

func (c *Config) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode,
	)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, errors.NotValidf("%s %q", key, v)
	}
	return n, nil
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil || d < 0 {
		return 0, errors.NotValidf("%s %q", key, v)
	}
	return d, nil
}
