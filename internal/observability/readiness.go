package observability

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/leslieo2/lanc-compliance/internal/constants"
)

// Checker reports whether one dependency can serve traffic.
type Checker interface {
	Name() string
	Check(ctx context.Context) error
}

// Registry holds the dependency checks consulted by the readiness endpoint.
type Registry struct {
	mu       sync.RWMutex
	checkers []Checker
	timeout  time.Duration
	logger   *zap.Logger
}

// NewRegistry creates an empty registry. Each check is bounded by timeout.
func NewRegistry(timeout time.Duration, logger *zap.Logger) *Registry {
	if timeout <= 0 {
		timeout = constants.ReadinessTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry{timeout: timeout, logger: logger}
}

// Register adds c, replacing any checker with the same name.
func (r *Registry) Register(c Checker) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, existing := range r.checkers {
		if existing.Name() == c.Name() {
			r.checkers[i] = c
			return
		}
	}
	r.checkers = append(r.checkers, c)
}

// Names lists the registered checks in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.checkers))
	for _, c := range r.checkers {
		names = append(names, c.Name())
	}
	return names
}

// Run executes every check concurrently and returns name → healthy/unhealthy,
// plus whether all of them passed.
func (r *Registry) Run(ctx context.Context) (map[string]string, bool) {
	r.mu.RLock()
	checkers := make([]Checker, len(r.checkers))
	copy(checkers, r.checkers)
	r.mu.RUnlock()

	errs := make([]error, len(checkers))
	var wg sync.WaitGroup
	for i, c := range checkers {
		wg.Add(1)
		go func(i int, c Checker) {
			defer wg.Done()
			errs[i] = r.runOne(ctx, c)
		}(i, c)
	}
	wg.Wait()

	results := make(map[string]string, len(checkers))
	ready := true
	for i, c := range checkers {
		if errs[i] != nil {
			ready = false
			results[c.Name()] = constants.StatusUnhealthy
			r.logger.Warn("Readiness check failed",
				zap.String("check", c.Name()),
				zap.Error(errs[i]),
			)
			continue
		}
		results[c.Name()] = constants.StatusHealthy
	}
	return results, ready
}

func (r *Registry) runOne(ctx context.Context, c Checker) (err error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("check %s panicked: %v", c.Name(), rec)
		}
	}()

	return c.Check(ctx)
}
