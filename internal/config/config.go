package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/tatianab/xjtu-sim/internal/store"
)

// Config holds the application configuration.
type Config struct {
	GeminiAPIKey  string        `env:"GEMINI_API_KEY"`
	GeminiModel   string        `env:"GEMINI_MODEL" envDefault:"gemini-2.5-flash"`
	FlavorChance  float64       `env:"XJTU_FLAVOR_CHANCE" envDefault:"0.4"`
	FlavorTimeout time.Duration `env:"XJTU_FLAVOR_TIMEOUT" envDefault:"8s"`

	Store      string `env:"XJTU_STORE" envDefault:"file"`
	SaveDir    string `env:"XJTU_SAVE_DIR" envDefault:".saves"`
	SQLitePath string `env:"XJTU_SQLITE_PATH" envDefault:".saves/xjtu.db"`
	BoltPath   string `env:"XJTU_BOLT_PATH" envDefault:".saves/xjtu.bolt"`
	RedisAddr  string `env:"XJTU_REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPass  string `env:"XJTU_REDIS_PASSWORD"`
	RedisDB    int    `env:"XJTU_REDIS_DB" envDefault:"0"`
	Compress   bool   `env:"XJTU_COMPRESS" envDefault:"false"`
	Slot       string `env:"XJTU_SLOT" envDefault:"current"`

	// ContentDir replaces the embedded content tables when set.
	ContentDir string `env:"XJTU_CONTENT_DIR"`
	Seed       int64  `env:"XJTU_SEED" envDefault:"0"`
	LogLevel   string `env:"XJTU_LOG_LEVEL" envDefault:"info"`
	LogFile    string `env:"XJTU_LOG_FILE" envDefault:"xjtu.log"`
}

// LoadConfig loads the configuration from environment variables. Variables
// in the given .env files are loaded first; missing files are skipped and
// variables already set in the environment win.
func LoadConfig(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", f, err)
		}
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings the game cannot start with.
func (c *Config) Validate() error {
	switch store.Kind(c.Store) {
	case store.KindFile, store.KindSQLite, store.KindBolt, store.KindRedis, store.KindMemory:
	default:
		return fmt.Errorf("XJTU_STORE: unknown store kind %q", c.Store)
	}
	if c.FlavorChance < 0 || c.FlavorChance > 1 {
		return fmt.Errorf("XJTU_FLAVOR_CHANCE: %v is outside [0,1]", c.FlavorChance)
	}
	if c.FlavorTimeout <= 0 {
		return fmt.Errorf("XJTU_FLAVOR_TIMEOUT: must be positive")
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// FlavorEnabled reports whether generated events are configured. A zero
// chance turns them off.
func (c *Config) FlavorEnabled() bool {
	return c.GeminiAPIKey != "" && c.FlavorChance > 0
}

// Level parses LogLevel.
func (c *Config) Level() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.ToUpper(c.LogLevel))); err != nil {
		return 0, fmt.Errorf("XJTU_LOG_LEVEL: %w", err)
	}
	return l, nil
}

// StoreOptions maps the configuration onto the store backend options.
func (c *Config) StoreOptions() store.Options {
	redis := store.DefaultRedisConfig()
	redis.Addr = c.RedisAddr
	redis.Password = c.RedisPass
	redis.DB = c.RedisDB
	return store.Options{
		Kind:       store.Kind(c.Store),
		Dir:        c.SaveDir,
		SQLitePath: c.SQLitePath,
		BoltPath:   c.BoltPath,
		Redis:      redis,
		Compress:   c.Compress,
	}
}
