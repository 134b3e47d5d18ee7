package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds runtime configuration values for the student service.
type Config struct {
	AppName            string
	AppEnv             string
	AppPort            string
	LogLevel           string
	CORSAllowOrigins   string
	DatabaseURL        string
	RedisURL           string
	NATSURL            string
	NATSSubjectPrefix  string
	JWTSecret          string
	CacheTTL           time.Duration
	PaginationDefault  int
	PaginationMaxLimit int
}

// HTTPAddress returns the address the HTTP server should listen on.
func (c Config) HTTPAddress() string {
	if strings.HasPrefix(c.AppPort, ":") {
		return c.AppPort
	}

	return fmt.Sprintf(":%s", c.AppPort)
}

// Load reads configuration values from environment variables and an optional .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("STUDENT")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	return fromViper(v)
}

func fromViper(v *viper.Viper) (Config, error) {
	v.SetDefault("app.name", "Student Service")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")
	v.SetDefault("log.level", "info")
	v.SetDefault("cors.allow_origins", "*")
	v.SetDefault("nats.subject_prefix", "students")
	v.SetDefault("cache.ttl", "5m")
	v.SetDefault("pagination.default_limit", 10)
	v.SetDefault("pagination.max_limit", 100)

	ttlString := v.GetString("cache.ttl")
	if ttlString == "" {
		ttlString = "5m"
	}

	ttl, err := time.ParseDuration(ttlString)
	if err != nil {
		return Config{}, fmt.Errorf("invalid cache ttl: %w", err)
	}

	cfg := Config{
		AppName:            v.GetString("app.name"),
		AppEnv:             v.GetString("app.env"),
		AppPort:            v.GetString("app.port"),
		LogLevel:           strings.ToLower(v.GetString("log.level")),
		CORSAllowOrigins:   v.GetString("cors.allow_origins"),
		DatabaseURL:        v.GetString("database.url"),
		RedisURL:           v.GetString("redis.url"),
		NATSURL:            v.GetString("nats.url"),
		NATSSubjectPrefix:  v.GetString("nats.subject_prefix"),
		JWTSecret:          v.GetString("jwt.secret"),
		CacheTTL:           ttl,
		PaginationDefault:  v.GetInt("pagination.default_limit"),
		PaginationMaxLimit: v.GetInt("pagination.max_limit"),
	}

	if cfg.DatabaseURL == "" {
		return Config{}, fmt.Errorf("database url must be provided")
	}
	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("jwt secret must be provided")
	}

	if cfg.PaginationMaxLimit <= 0 {
		cfg.PaginationMaxLimit = 100
	}
	if cfg.PaginationDefault <= 0 || cfg.PaginationDefault > cfg.PaginationMaxLimit {
		cfg.PaginationDefault = 10
	}

	return cfg, nil
}
