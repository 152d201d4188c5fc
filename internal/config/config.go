package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr      string
	StaticDir string

	// DevUser is assumed when the auth proxy sets no user header. Empty
	// rejects such requests.
	DevUser string

	// memory, sqlite or postgres
	Storage string
	DSN     string

	Zoom      int
	FormDelay time.Duration
	IdleTTL   time.Duration
}

// Load reads the optional .env files and then the environment.
func Load(files ...string) (*Config, error) {
	if err := godotenv.Load(files...); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("load env file: %w", err)
		}
		log.Printf("no .env file found, using environment")
	}

	return FromEnv()
}

func FromEnv() (*Config, error) {
	cfg := &Config{
		Addr:      getEnv("MAPTY_ADDR", ":8080"),
		StaticDir: getEnv("MAPTY_STATIC_DIR", "./static"),
		DevUser:   os.Getenv("MAPTY_DEV_USER"),
		Storage:   getEnv("MAPTY_STORAGE", "memory"),
		DSN:       getEnv("MAPTY_DSN", "./mapty.db"),
	}

	var err error
	if cfg.Zoom, err = getInt("MAPTY_ZOOM", 13); err != nil {
		return nil, err
	}
	if cfg.FormDelay, err = getDuration("MAPTY_FORM_DELAY", time.Second); err != nil {
		return nil, err
	}
	if cfg.IdleTTL, err = getDuration("MAPTY_IDLE_TTL", time.Hour); err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Storage {
	case "memory", "sqlite", "postgres":
	default:
		return fmt.Errorf("MAPTY_STORAGE must be memory, sqlite or postgres, got %q", c.Storage)
	}
	if c.Zoom < 1 || c.Zoom > 19 {
		return fmt.Errorf("MAPTY_ZOOM must be between 1 and 19, got %d", c.Zoom)
	}
	if c.FormDelay <= 0 {
		return errors.New("MAPTY_FORM_DELAY must be positive")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func getDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}
