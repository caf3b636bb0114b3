package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Storage backends for the persisted session.
const (
	StorageFile   = "file"
	StorageMemory = "memory"
	StorageRedis  = "redis"
	StorageMongo  = "mongo"
)

type Config struct {
	APIURL   string        `env:"STOREFRONT_API_URL, default=http://localhost:8080/api"`
	Timeout  time.Duration `env:"HTTP_TIMEOUT,       default=0s"`
	Env      string        `env:"ENV,                default=development"`
	LogLevel string        `env:"LOG_LEVEL,          default=warn"`

	Storage StorageConfig
	Redis   RedisConfig
	Mongo   MongoConfig
	Sandbox SandboxConfig
}

type StorageConfig struct {
	Backend string `env:"STORAGE_BACKEND, default=file"`
	// Path is the session file for the file backend. Empty resolves to the
	// user config directory.
	Path string `env:"STORAGE_PATH"`
}

type RedisConfig struct {
	Addr   string `env:"REDIS_ADDR,   default=localhost:6379"`
	DB     int    `env:"REDIS_DB,     default=0"`
	Prefix string `env:"REDIS_PREFIX, default=storefront:session:"`
}

type MongoConfig struct {
	URI        string `env:"MONGO_URI,        default=mongodb://localhost:27017"`
	Database   string `env:"MONGO_DB,         default=storefront_client"`
	Collection string `env:"MONGO_COLLECTION, default=session"`
	// Profile scopes stored keys when several local profiles share a
	// database.
	Profile string `env:"MONGO_PROFILE, default=default"`
}

type SandboxConfig struct {
	Port          string `env:"SANDBOX_PORT,           default=8080"`
	JWTSecret     string `env:"SANDBOX_JWT_SECRET,     default=sandbox-secret"`
	AdminEmail    string `env:"SANDBOX_ADMIN_EMAIL,    default=admin@example.com"`
	AdminPassword string `env:"SANDBOX_ADMIN_PASSWORD, default=admin123"`
	Seed          bool   `env:"SANDBOX_SEED,           default=true"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	return LoadFrom(ctx, envconfig.OsLookuper())
}

// LoadFrom reads configuration through the given lookuper. Tests pass an
// envconfig.MapLookuper.
func LoadFrom(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: l,
	}); err != nil {
		return nil, fmt.Errorf("config: failed to load configuration: %w", err)
	}

	switch cfg.Storage.Backend {
	case StorageFile, StorageMemory, StorageRedis, StorageMongo:
	default:
		return nil, fmt.Errorf("config: unknown STORAGE_BACKEND %q", cfg.Storage.Backend)
	}
	return &cfg, nil
}

// SessionPath resolves the file-backend location.
func (c *Config) SessionPath() (string, error) {
	if c.Storage.Path != "" {
		return c.Storage.Path, nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("config: resolve session path: %w", err)
	}
	return filepath.Join(dir, "storefront", "session.json"), nil
}
