package observability

// HealthStatus is the /health payload.
type HealthStatus struct {
	Status      string       `json:"status"`
	Timestamp   string       `json:"timestamp"`
	Version     string       `json:"version"`
	Environment string       `json:"environment"`
	Uptime      int64        `json:"uptime"`
	Memory      MemoryStatus `json:"memory"`
	Service     string       `json:"service"`
}

// MemoryStatus reports heap usage in whole megabytes, e.g. "12MB".
type MemoryStatus struct {
	Used  string `json:"used"`
	Total string `json:"total"`
}

// ReadinessStatus is the /health/readiness payload.
type ReadinessStatus struct {
	Status    string            `json:"status"`
	Timestamp string            `json:"timestamp"`
	Checks    map[string]string `json:"checks"`
}

// LivenessStatus is the /health/liveness payload.
type LivenessStatus struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Uptime    int64  `json:"uptime"`
}
