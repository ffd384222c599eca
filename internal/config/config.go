// internal/config/config.go
package config

import (
	"fmt"
	"os"
)

// Config holds the process configuration, read once at startup from the
// environment (a .env file is loaded by godotenv in main).
type Config struct {
	Port        string // PORT, default 8080
	JWTSecret   string // JWT_SECRET, required
	Mode        string // MODE (or NODE_ENV), "test" suppresses the network listener
	DatabaseURL string // DATABASE_URL
	RedisAddr   string // REDIS_ADDR, empty disables the match-event feed
}

// Load reads the configuration from the environment. It fails if JWT_SECRET
// is unset, since tokens could not be verified without it.
func Load() (*Config, error) {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return nil, fmt.Errorf("JWT_SECRET is not set")
	}

	mode := os.Getenv("MODE")
	if mode == "" {
		mode = os.Getenv("NODE_ENV")
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	return &Config{
		Port:        port,
		JWTSecret:   secret,
		Mode:        mode,
		DatabaseURL: os.Getenv("DATABASE_URL"),
		RedisAddr:   os.Getenv("REDIS_ADDR"),
	}, nil
}

// IsTest reports whether the process runs in test mode.
func (c *Config) IsTest() bool {
	return c.Mode == "test"
}
