// Package config loads service configuration from the environment and
// builds the repository and cache backends it describes.
package config

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/tendant/social-content/pkg/socialcontent"
	"github.com/tendant/social-content/pkg/socialcontent/repo/memory"
	repomongo "github.com/tendant/social-content/pkg/socialcontent/repo/mongo"
	repopg "github.com/tendant/social-content/pkg/socialcontent/repo/postgres"
)

// Config represents server configuration for the social content service
type Config struct {
	Port        string `env:"PORT" env-default:"8080"`
	Environment string `env:"ENVIRONMENT" env-default:"development"`

	DB    DBConfig
	JWT   JWTConfig
	Redis RedisConfig
}

// DBConfig selects and configures the repository backend.
type DBConfig struct {
	// Type is one of "memory", "postgres", "mongo".
	Type string `env:"DATABASE_TYPE" env-default:"memory"`

	Port     uint16 `env:"CONTENT_PG_PORT" env-default:"5432"`
	Host     string `env:"CONTENT_PG_HOST" env-default:"localhost"`
	Name     string `env:"CONTENT_PG_NAME" env-default:"social_content"`
	User     string `env:"CONTENT_PG_USER" env-default:"content"`
	Password string `env:"CONTENT_PG_PASSWORD" env-default:"pwd"`

	MongoURI  string `env:"MONGO_URI" env-default:"mongodb://localhost:27017"`
	MongoName string `env:"MONGO_DATABASE" env-default:"social_content"`
}

// JWTConfig configures token signing.
type JWTConfig struct {
	Secret        string        `env:"JWT_ACCESS_SECRET" env-default:"secret"`
	AccessExpiry  time.Duration `env:"JWT_ACCESS_EXPIRES_IN" env-default:"1h"`
	RefreshExpiry time.Duration `env:"JWT_REFRESH_EXPIRES_IN" env-default:"720h"`
}

// RedisConfig configures the optional hashtag cache.
type RedisConfig struct {
	Enabled bool          `env:"REDIS_ENABLED" env-default:"false"`
	Addr    string        `env:"REDIS_ADDR" env-default:"localhost:6379"`
	DB      int           `env:"REDIS_DB" env-default:"0"`
	TTL     time.Duration `env:"REDIS_CACHE_TTL" env-default:"1m"`
}

// Load reads configuration from the environment.
func Load() (*Config, error) {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("failed to read configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate validates the server configuration
func (c *Config) Validate() error {
	if c.Port == "" {
		return errors.New("port is required")
	}
	switch c.DB.Type {
	case "memory", "postgres", "mongo":
	default:
		return fmt.Errorf("database type must be 'memory', 'postgres' or 'mongo', got %q", c.DB.Type)
	}
	if c.Environment == "production" && c.JWT.Secret == "secret" {
		return errors.New("JWT_ACCESS_SECRET must be set in production")
	}
	return nil
}

func (c DBConfig) toDatabaseURL() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(c.User, c.Password),
		Host:   fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:   c.Name,
	}
	return u.String()
}

// NewDbPool creates a pgx pool and verifies connectivity.
func NewDbPool(ctx context.Context, dbConfig DBConfig) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, dbConfig.toDatabaseURL())
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return pool, nil
}

// BuildRepository creates a Repository based on the configuration.
func (c *Config) BuildRepository(ctx context.Context) (socialcontent.Repository, error) {
	switch c.DB.Type {
	case "memory":
		return memory.New(), nil
	case "postgres":
		pool, err := NewDbPool(ctx, c.DB)
		if err != nil {
			return nil, err
		}
		return repopg.NewWithPool(pool), nil
	case "mongo":
		return repomongo.Connect(ctx, c.DB.MongoURI, c.DB.MongoName)
	default:
		return nil, fmt.Errorf("unsupported database type: %s", c.DB.Type)
	}
}

// BuildRedisClient creates a redis client when the cache is enabled,
// verifying connectivity. Returns nil when disabled.
func (c *Config) BuildRedisClient(ctx context.Context) (redis.UniversalClient, error) {
	if !c.Redis.Enabled {
		return nil, nil
	}
	client := redis.NewClient(&redis.Options{
		Addr: c.Redis.Addr,
		DB:   c.Redis.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	return client, nil
}
