package constants

import "time"

// Service identity
const (
	DefaultServiceName = "test-lanc-compliance"
	DefaultEnvironment = "development"
	EnvironmentProd    = "production"
	DefaultVersion     = "1.0.0"
)

// Environment variable constants
const (
	EnvPort        = "PORT"
	EnvHost        = "HOST"
	EnvAppEnv      = "APP_ENV"
	EnvNodeEnv     = "NODE_ENV"
	EnvFile        = "ENV_FILE"
	EnvServiceName = "SERVICE_NAME"
)

// DefaultEnvFile is read when no env file is configured; a missing default file is not an error.
const DefaultEnvFile = ".env"

// HTTP header constants
const (
	HeaderContentType   = "Content-Type"
	HeaderOrigin        = "Origin"
	HeaderVary          = "Vary"
	HeaderXForwardedFor = "X-Forwarded-For"
	HeaderXRealIP       = "X-Real-IP"
	HeaderXRequestID    = "X-Request-ID"
	HeaderUserAgent     = "User-Agent"
)

// Content type constants
const (
	ContentTypeJSON           = "application/json"
	ContentTypeJSONUTF8       = "application/json; charset=utf-8"
	ContentTypeFormURLEncoded = "application/x-www-form-urlencoded"
)

// CORS headers
const (
	HeaderAccessControlAllowOrigin      = "Access-Control-Allow-Origin"
	HeaderAccessControlAllowMethods     = "Access-Control-Allow-Methods"
	HeaderAccessControlAllowHeaders     = "Access-Control-Allow-Headers"
	HeaderAccessControlAllowCredentials = "Access-Control-Allow-Credentials"
	HeaderAccessControlMaxAge           = "Access-Control-Max-Age"
	HeaderAccessControlRequestHeaders   = "Access-Control-Request-Headers"
)

// Rate limiting headers
const (
	HeaderXRateLimitLimit     = "X-RateLimit-Limit"
	HeaderXRateLimitRemaining = "X-RateLimit-Remaining"
	HeaderRetryAfter          = "Retry-After"
)

// Route paths
const (
	PathHealth    = "/health"
	PathReadiness = "/health/readiness"
	PathLiveness  = "/health/liveness"
	PathStatus    = "/api/status"
	PathHello     = "/api/hello"
	PathMetrics   = "/metrics"
)

// Response status values
const (
	StatusHealthy     = "healthy"
	StatusUnhealthy   = "unhealthy"
	StatusReady       = "ready"
	StatusNotReady    = "not ready"
	StatusAlive       = "alive"
	StatusOperational = "operational"
	FeatureEnabled    = "enabled"
)

// Response messages
const (
	HelloMessage           = "Hello from LANC-compliant test service!"
	ErrorKindNotFound      = "Not Found"
	ErrorKindServer        = "Server Error"
	MessageInternalError   = "Internal Server Error"
	MessageTooManyRequests = "Too many requests, please try again later"
)

// TimestampLayout matches the ISO-8601 form used in every response body.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// Server limits and defaults
const (
	// ServerMaxRequestSize is the maximum request body size (10MB)
	ServerMaxRequestSize = 10 * 1024 * 1024
	ServerReadTimeout    = 15 * time.Second
	ServerWriteTimeout   = 15 * time.Second
	ServerIdleTimeout    = 60 * time.Second
	ReadinessTimeout     = 2 * time.Second
)

// Rate limiter internal constants
const (
	RateLimitCleanupInterval = 5 * time.Minute
)

// Log file names
const (
	CombinedLogFile = "combined.log"
	ErrorLogFile    = "error.log"
)
