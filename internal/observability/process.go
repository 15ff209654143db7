package observability

import (
	"fmt"
	"math"
	"runtime"
	"time"

	"github.com/leslieo2/lanc-compliance/internal/constants"
)

var processStart = time.Now()

// Process reports uptime and heap usage of the running process.
type Process struct {
	startedAt time.Time
	now       func() time.Time
}

// NewProcess returns a Process anchored at package initialisation.
func NewProcess() *Process {
	return &Process{startedAt: processStart, now: time.Now}
}

// StartedAt returns when the process started.
func (p *Process) StartedAt() time.Time {
	return p.startedAt
}

// Uptime returns how long the process has been running.
func (p *Process) Uptime() time.Duration {
	return p.now().Sub(p.startedAt)
}

// UptimeSeconds returns uptime truncated to whole seconds.
func (p *Process) UptimeSeconds() int64 {
	return int64(p.Uptime() / time.Second)
}

// Memory samples the Go heap. Used is live heap, Total is heap obtained from the OS.
func (p *Process) Memory() MemoryStatus {
	var stats runtime.MemStats
	runtime.ReadMemStats(&stats)
	return MemoryStatus{
		Used:  megabytes(stats.HeapAlloc),
		Total: megabytes(stats.HeapSys),
	}
}

// Now returns the current time in the response timestamp format.
func (p *Process) Now() string {
	return Timestamp(p.now())
}

// Timestamp formats t the way every response body does.
func Timestamp(t time.Time) string {
	return t.UTC().Format(constants.TimestampLayout)
}

func megabytes(b uint64) string {
	return fmt.Sprintf("%dMB", int64(math.Round(float64(b)/1024/1024)))
}
