package checks

import (
	"errors"

	"github.com/redis/go-redis/v9"

	"github.com/leslieo2/lanc-compliance/internal/config"
	"github.com/leslieo2/lanc-compliance/internal/observability"
)

// Names of the default readiness checks.
const (
	NameDatabase     = "database"
	NameDependencies = "dependencies"
	NameCache        = "cache"
)

// FromConfig builds the readiness checkers for cfg. The returned closer
// releases any connection pools that were opened.
func FromConfig(cfg config.ReadinessConfig) ([]observability.Checker, func() error, error) {
	var closers []func() error
	closeAll := func() error {
		var errs []error
		for _, c := range closers {
			errs = append(errs, c())
		}
		return errors.Join(errs...)
	}

	var database observability.Checker = NewStatic(NameDatabase)
	if cfg.DatabaseDSN != "" {
		db, err := OpenPostgres(cfg.DatabaseDSN)
		if err != nil {
			return nil, closeAll, err
		}
		closers = append(closers, db.Close)
		database = NewSQL(NameDatabase, db)
	}

	checkers := []observability.Checker{database, NewStatic(NameDependencies)}

	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		closers = append(closers, client.Close)
		checkers = append(checkers, NewRedis(NameCache, client))
	}

	return checkers, closeAll, nil
}
