package security

import (
	"math"
	"math/rand/v2"
	"net/http"
	"net/netip"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/leslieo2/lanc-compliance/internal/config"
	"github.com/leslieo2/lanc-compliance/internal/constants"
	"github.com/leslieo2/lanc-compliance/internal/httperr"
	"github.com/leslieo2/lanc-compliance/internal/server/middleware"
)

// maxTrackedClients bounds the limiter cache during floods of unique addresses.
const maxTrackedClients = 10000

// RateLimiter keeps one token bucket per client IP.
type RateLimiter struct {
	limiters *cache.Cache
	config   config.RateLimitConfig
	trusted  []netip.Prefix
	clock    Clock
	logger   *zap.Logger

	done      chan struct{}
	closeOnce sync.Once
}

type Clock interface {
	Now() time.Time
}

type RealClock struct{}

func (RealClock) Now() time.Time {
	return time.Now()
}

// NewRateLimiter starts the background eviction loop; call Close to stop it.
func NewRateLimiter(cfg config.RateLimitConfig, logger *zap.Logger) *RateLimiter {
	rl := newRateLimiter(cfg, logger, RealClock{})
	go rl.periodicCleanup(maxTrackedClients)
	return rl
}

func newRateLimiter(cfg config.RateLimitConfig, logger *zap.Logger, clock Clock) *RateLimiter {
	if cfg.CleanupInterval <= 0 {
		cfg.CleanupInterval = constants.RateLimitCleanupInterval
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	trusted, err := cfg.TrustedNetworks()
	if err != nil {
		// Validate rejects these at load time; trust nobody if one slips through
		logger.Warn("Ignoring trusted proxies", zap.Error(err))
		trusted = nil
	}
	return &RateLimiter{
		limiters: cache.New(cfg.CleanupInterval, cfg.CleanupInterval*2),
		config:   cfg,
		trusted:  trusted,
		clock:    clock,
		logger:   logger,
		done:     make(chan struct{}),
	}
}

// Close stops the eviction loop.
func (rl *RateLimiter) Close() {
	rl.closeOnce.Do(func() { close(rl.done) })
}

// periodicCleanup evicts random entries once the cache grows past maxSize.
// go-cache does not track access times, so random eviction is the best available.
func (rl *RateLimiter) periodicCleanup(maxSize int) {
	ticker := time.NewTicker(rl.config.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-rl.done:
			return
		case <-ticker.C:
			rl.evict(maxSize)
		}
	}
}

func (rl *RateLimiter) evict(maxSize int) int {
	currentSize := rl.limiters.ItemCount()
	if currentSize <= maxSize {
		return 0
	}

	// remove an extra 10% to avoid evicting on every tick
	toRemove := currentSize - maxSize + maxSize/10

	keys := make([]string, 0, currentSize)
	for key := range rl.limiters.Items() {
		keys = append(keys, key)
	}
	rand.Shuffle(len(keys), func(i, j int) { keys[i], keys[j] = keys[j], keys[i] })

	removed := 0
	for ; removed < toRemove && removed < len(keys); removed++ {
		rl.limiters.Delete(keys[removed])
	}
	rl.logger.Debug("Evicted rate limiter entries", zap.Int("removed", removed))
	return removed
}

func (rl *RateLimiter) limiterFor(identifier string) *rate.Limiter {
	if item, found := rl.limiters.Get(identifier); found {
		return item.(*rate.Limiter)
	}
	limiter := rate.NewLimiter(rate.Limit(rl.config.RequestsPerSecond), rl.config.BurstSize)
	// Add fails if another request created the entry first; use theirs.
	if err := rl.limiters.Add(identifier, limiter, cache.DefaultExpiration); err != nil {
		if item, found := rl.limiters.Get(identifier); found {
			return item.(*rate.Limiter)
		}
	}
	return limiter
}

// Allow consumes one token for identifier.
func (rl *RateLimiter) Allow(identifier string) bool {
	if !rl.config.Enabled {
		return true
	}
	return rl.limiterFor(identifier).AllowN(rl.clock.Now(), 1)
}

// Remaining reports the whole tokens left for identifier.
func (rl *RateLimiter) Remaining(identifier string) int {
	tokens := rl.limiterFor(identifier).TokensAt(rl.clock.Now())
	if tokens < 0 {
		return 0
	}
	return int(math.Floor(tokens))
}

// RetryAfter is the time until one token refills, rounded up to whole seconds.
func (rl *RateLimiter) RetryAfter() int {
	if rl.config.RequestsPerSecond <= 0 {
		return 1
	}
	return int(math.Ceil(1 / float64(rl.config.RequestsPerSecond)))
}

// Middleware rejects clients over their budget with a 429 handed to onError.
// Health and metrics endpoints are never limited.
func (rl *RateLimiter) Middleware(onError middleware.ErrorHandler) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !rl.config.Enabled || shouldSkipRateLimit(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			identifier := "ip:" + rl.clientAddress(r)
			w.Header().Set(constants.HeaderXRateLimitLimit, strconv.Itoa(rl.config.BurstSize))

			if !rl.Allow(identifier) {
				w.Header().Set(constants.HeaderXRateLimitRemaining, "0")
				w.Header().Set(constants.HeaderRetryAfter, strconv.Itoa(rl.RetryAfter()))
				rl.logger.Warn("Rate limit exceeded",
					zap.String("client", identifier),
					zap.String("path", r.URL.Path),
				)
				onError(w, r, httperr.New(http.StatusTooManyRequests, constants.MessageTooManyRequests))
				return
			}

			w.Header().Set(constants.HeaderXRateLimitRemaining, strconv.Itoa(rl.Remaining(identifier)))
			next.ServeHTTP(w, r)
		})
	}
}

// clientAddress keys the bucket on the socket peer. Forwarding headers are
// honoured only when the peer is a trusted proxy.
func (rl *RateLimiter) clientAddress(r *http.Request) string {
	peer := middleware.PeerIP(r)
	if len(rl.trusted) == 0 {
		return peer
	}
	addr, err := netip.ParseAddr(peer)
	if err != nil {
		return peer
	}
	addr = addr.Unmap()
	for _, prefix := range rl.trusted {
		if prefix.Contains(addr) {
			return middleware.ClientIP(r)
		}
	}
	return peer
}

func shouldSkipRateLimit(path string) bool {
	return path == constants.PathHealth ||
		strings.HasPrefix(path, constants.PathHealth+"/") ||
		path == constants.PathMetrics
}
