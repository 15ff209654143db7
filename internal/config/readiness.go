package config

import (
	"errors"
	"time"
)

// ReadinessConfig selects the dependency checks behind /health/readiness.
// With no DSN or address set, static checks report healthy.
type ReadinessConfig struct {
	Timeout       time.Duration `json:"timeout" yaml:"timeout" env:"READINESS_TIMEOUT"`
	DatabaseDSN   string        `json:"database_dsn" yaml:"database_dsn" env:"READINESS_DATABASE_DSN"`
	RedisAddr     string        `json:"redis_addr" yaml:"redis_addr" env:"READINESS_REDIS_ADDR"`
	RedisPassword string        `json:"redis_password" yaml:"redis_password" env:"READINESS_REDIS_PASSWORD"`
	RedisDB       int           `json:"redis_db" yaml:"redis_db" env:"READINESS_REDIS_DB"`
}

// Validate validates the readiness configuration
func (r ReadinessConfig) Validate() error {
	if r.Timeout <= 0 {
		return errors.New("timeout must be positive")
	}
	if r.RedisDB < 0 {
		return errors.New("redis_db must be non-negative")
	}
	return nil
}
