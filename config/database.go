package config

import (
	"strings"
	"time"
)

// DBConfig contains PostgreSQL database configuration.
type DBConfig struct {
	Host     string `env:"HOST"                    envDefault:"localhost"`
	Port     int    `env:"PORT"                    envDefault:"5432"`
	User     string `env:"USER"                    envDefault:"agristock"`
	Password string `env:"PASSWORD"                envDefault:"agristock"`
	Name     string `env:"NAME"                    envDefault:"agristock"`
	SSLMode  string `env:"SSL_MODE"                envDefault:"disable"` // Use 'disable' for local dev, 'require' for production
	// RunMigrationsOnStart controls whether the application automatically applies migrations during startup.
	RunMigrationsOnStart bool `env:"RUN_MIGRATIONS_ON_START" envDefault:"true"`
}

// RedisConfig contains Redis configuration for the session store.
type RedisConfig struct {
	URI                string   `env:"URI"                  envDefault:"localhost:6379"`
	Password           string   `env:"PASSWORD"             envDefault:""`
	SentinelNodes      []string `env:"SENTINEL_NODES"       envDefault:"localhost:26379"`
	SentinelMasterName string   `env:"SENTINEL_MASTER_NAME" envDefault:"mymaster"`
	SentinelPassword   string   `env:"SENTINEL_PASSWORD"    envDefault:""`
	UseSentinel        bool     `env:"USE_SENTINEL"         envDefault:"false"`
	ClusterNodes       []string `env:"CLUSTER_NODES"        envDefault:""`
	UseCluster         bool     `env:"USE_CLUSTER"          envDefault:"false"`
}

// CacheConfig contains configuration for the Redis-backed cache used by the
// dashboard overview and alert deduplication. When RedisAddr is empty the
// application reuses the session store connection.
type CacheConfig struct {
	RedisAddr     string `env:"CACHE_REDIS_ADDR"     envDefault:""`
	RedisPassword string `env:"CACHE_REDIS_PASSWORD" envDefault:""`
	RedisDB       int    `env:"CACHE_REDIS_DB"       envDefault:"0"`

	// OverviewTTL is the TTL for cached dashboard overviews.
	OverviewTTL time.Duration `env:"CACHE_OVERVIEW_TTL" envDefault:"30s"`
}

// Sanitize applies guardrails to cache configuration values.
func (c *CacheConfig) Sanitize() {
	c.RedisAddr = strings.TrimSpace(c.RedisAddr)
	if c.OverviewTTL <= 0 {
		c.OverviewTTL = 30 * time.Second
	}
	if c.RedisDB < 0 {
		c.RedisDB = 0
	}
}

// UsesDedicatedRedis reports whether the cache has its own Redis connection
// rather than sharing the session store client.
func (c *CacheConfig) UsesDedicatedRedis() bool {
	return c.RedisAddr != ""
}
