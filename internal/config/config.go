// Package config handles application configuration loading and validation using Viper.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config represents the application configuration.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Engine    EngineConfig    `mapstructure:"engine"`
	Sweeper   SweeperConfig   `mapstructure:"sweeper"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Badges    BadgesConfig    `mapstructure:"badges"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// ServerConfig contains HTTP server configuration.
type ServerConfig struct {
	Port        int    `mapstructure:"port"`
	Environment string `mapstructure:"environment"`
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	Postgres PostgresConfig `mapstructure:"postgres"`
}

// PostgresConfig contains PostgreSQL connection and pool settings.
type PostgresConfig struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	Database        string `mapstructure:"database"`
	User            string `mapstructure:"user"`
	Password        string `mapstructure:"password"`
	SSLMode         string `mapstructure:"ssl_mode"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`
}

// RedisConfig contains Redis connection settings for the stats cache.
type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	StatsTTL int    `mapstructure:"stats_ttl"` // seconds
}

// Addr returns the host:port address for the Redis client.
func (c *RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// EngineConfig contains the verification and reward parameters.
type EngineConfig struct {
	VerificationThreshold int `mapstructure:"verification_threshold"`
	CreatorBonusPoints    int `mapstructure:"creator_bonus_points"`
	CreatorBonusRep       int `mapstructure:"creator_bonus_reputation"`
	VoterRewardPoints     int `mapstructure:"voter_reward_points"`
}

// SweeperConfig contains expiration sweeper settings.
type SweeperConfig struct {
	Enabled     bool `mapstructure:"enabled"`
	Interval    int  `mapstructure:"interval"`     // seconds between ticks
	TickTimeout int  `mapstructure:"tick_timeout"` // seconds per tick
}

// IntervalDuration returns the tick interval, defaulting to 60s.
func (c *SweeperConfig) IntervalDuration() time.Duration {
	if c.Interval <= 0 {
		return 60 * time.Second
	}
	return time.Duration(c.Interval) * time.Second
}

// TickTimeoutDuration returns the per-tick timeout, defaulting to 30s.
func (c *SweeperConfig) TickTimeoutDuration() time.Duration {
	if c.TickTimeout <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.TickTimeout) * time.Second
}

// SchedulerConfig contains the periodic badge evaluation job settings.
type SchedulerConfig struct {
	Enabled             bool   `mapstructure:"enabled"`
	BadgeEvaluationCron string `mapstructure:"badge_evaluation_cron"`
	Timezone            string `mapstructure:"timezone"`
}

// BadgesConfig points at an optional YAML badge catalog overriding the
// built-in table.
type BadgesConfig struct {
	CatalogPath string `mapstructure:"catalog_path"`
}

// LoggingConfig contains application logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from file and environment variables.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/xhere-engine/")
	}

	setDefaults(v)

	// Explicit environment bindings for 12-factor deployments.
	_ = v.BindEnv("server.port", "SERVER_PORT")
	_ = v.BindEnv("server.environment", "SERVER_ENVIRONMENT")

	_ = v.BindEnv("database.postgres.host", "POSTGRES_HOST")
	_ = v.BindEnv("database.postgres.port", "POSTGRES_PORT")
	_ = v.BindEnv("database.postgres.database", "POSTGRES_DB")
	_ = v.BindEnv("database.postgres.user", "POSTGRES_USER")
	_ = v.BindEnv("database.postgres.password", "POSTGRES_PASSWORD")
	_ = v.BindEnv("database.postgres.ssl_mode", "POSTGRES_SSL_MODE")
	_ = v.BindEnv("database.postgres.max_open_conns", "POSTGRES_MAX_OPEN_CONNS")
	_ = v.BindEnv("database.postgres.max_idle_conns", "POSTGRES_MAX_IDLE_CONNS")
	_ = v.BindEnv("database.postgres.conn_max_lifetime", "POSTGRES_CONN_MAX_LIFETIME")

	_ = v.BindEnv("redis.host", "REDIS_HOST")
	_ = v.BindEnv("redis.port", "REDIS_PORT")
	_ = v.BindEnv("redis.password", "REDIS_PASSWORD")
	_ = v.BindEnv("redis.db", "REDIS_DB")
	_ = v.BindEnv("redis.stats_ttl", "REDIS_STATS_TTL")

	_ = v.BindEnv("engine.verification_threshold", "ENGINE_VERIFICATION_THRESHOLD")
	_ = v.BindEnv("engine.creator_bonus_points", "ENGINE_CREATOR_BONUS_POINTS")
	_ = v.BindEnv("engine.creator_bonus_reputation", "ENGINE_CREATOR_BONUS_REPUTATION")
	_ = v.BindEnv("engine.voter_reward_points", "ENGINE_VOTER_REWARD_POINTS")

	_ = v.BindEnv("sweeper.enabled", "SWEEPER_ENABLED")
	_ = v.BindEnv("sweeper.interval", "SWEEPER_INTERVAL")
	_ = v.BindEnv("sweeper.tick_timeout", "SWEEPER_TICK_TIMEOUT")

	_ = v.BindEnv("scheduler.enabled", "SCHEDULER_ENABLED")
	_ = v.BindEnv("scheduler.badge_evaluation_cron", "SCHEDULER_BADGE_EVALUATION_CRON")
	_ = v.BindEnv("scheduler.timezone", "SCHEDULER_TIMEZONE")

	_ = v.BindEnv("badges.catalog_path", "BADGES_CATALOG_PATH")

	_ = v.BindEnv("logging.level", "LOG_LEVEL")
	_ = v.BindEnv("logging.format", "LOG_FORMAT")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("engine.verification_threshold", 10)
	v.SetDefault("engine.creator_bonus_points", 50)
	v.SetDefault("engine.creator_bonus_reputation", 10)
	v.SetDefault("engine.voter_reward_points", 1)
	v.SetDefault("sweeper.enabled", true)
	v.SetDefault("sweeper.interval", 60)
	v.SetDefault("sweeper.tick_timeout", 30)
	v.SetDefault("scheduler.timezone", "UTC")
	v.SetDefault("redis.stats_ttl", 60)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Database.Postgres.Host == "" {
		return fmt.Errorf("database.postgres.host is required")
	}
	if c.Database.Postgres.Database == "" {
		return fmt.Errorf("database.postgres.database is required")
	}
	if c.Database.Postgres.User == "" {
		return fmt.Errorf("database.postgres.user is required")
	}
	if c.Engine.VerificationThreshold <= 0 {
		return fmt.Errorf("engine.verification_threshold must be positive")
	}
	if c.Scheduler.Enabled && c.Scheduler.BadgeEvaluationCron == "" {
		return fmt.Errorf("scheduler.badge_evaluation_cron is required when scheduler is enabled")
	}
	return nil
}

// GetLocation returns the scheduler timezone location.
func (c *SchedulerConfig) GetLocation() (*time.Location, error) {
	return time.LoadLocation(c.Timezone)
}
