package config

import (
	"fmt"
	"os"
)

// Config holds all cadence configuration.
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Database DatabaseConfig `toml:"database"`
	Auth     AuthConfig     `toml:"auth"`
}

type ServerConfig struct {
	Bind string `toml:"bind"`
	Port int    `toml:"port"`
}

type DatabaseConfig struct {
	Path string `toml:"path"`
}

type AuthConfig struct {
	// JWTSecret signs session tokens. Must be set (CADENCE_JWT_SECRET) for
	// tokens to survive a restart; an empty value gets a random per-process key.
	JWTSecret string `toml:"jwt_secret"`
	// TokenTTLHours is how long an issued session token stays valid.
	TokenTTLHours int `toml:"token_ttl_hours"`
}

// Default returns a Config with sensible defaults.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Bind: "127.0.0.1",
			Port: 38080,
		},
		Database: DatabaseConfig{
			Path: "", // resolved at runtime via store.DefaultDBPath()
		},
		Auth: AuthConfig{
			TokenTTLHours: 24 * 30,
		},
	}
}

// FromEnv returns Default() with environment overrides applied:
// CADENCE_DB, CADENCE_JWT_SECRET, CADENCE_BIND.
func FromEnv() Config {
	cfg := Default()
	if v := os.Getenv("CADENCE_DB"); v != "" {
		cfg.Database.Path = v
	}
	if v := os.Getenv("CADENCE_JWT_SECRET"); v != "" {
		cfg.Auth.JWTSecret = v
	}
	if v := os.Getenv("CADENCE_BIND"); v != "" {
		cfg.Server.Bind = v
	}
	return cfg
}

// ListenAddr returns the bind:port address string.
func (c *Config) ListenAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Bind, c.Server.Port)
}
