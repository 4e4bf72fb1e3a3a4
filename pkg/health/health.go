package health

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Status represents the health status of a component.
type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusUnhealthy Status = "unhealthy"
	StatusDegraded  Status = "degraded"
	StatusUnknown   Status = "unknown"
)

// CheckResult is the outcome of a single component check.
type CheckResult struct {
	Name      string            `json:"name"`
	Status    Status            `json:"status"`
	Message   string            `json:"message,omitempty"`
	Error     string            `json:"error,omitempty"`
	Duration  time.Duration     `json:"duration"`
	Timestamp time.Time         `json:"timestamp"`
	Metadata  map[string]string `json:"metadata,omitempty"`
	Critical  bool              `json:"critical"`
}

// Checker probes one component.
type Checker interface {
	Check(ctx context.Context) CheckResult
	Name() string
	IsCritical() bool
}

// CheckerFunc adapts a plain function to the Checker interface.
type CheckerFunc struct {
	name     string
	critical bool
	checkFn  func(ctx context.Context) CheckResult
}

// NewChecker wraps checkFn as a named Checker.
func NewChecker(name string, critical bool, checkFn func(ctx context.Context) CheckResult) *CheckerFunc {
	return &CheckerFunc{
		name:     name,
		critical: critical,
		checkFn:  checkFn,
	}
}

func (c *CheckerFunc) Check(ctx context.Context) CheckResult { return c.checkFn(ctx) }

func (c *CheckerFunc) Name() string { return c.name }

func (c *CheckerFunc) IsCritical() bool { return c.critical }

// HealthChecker runs a set of registered checks and aggregates the results.
type HealthChecker struct {
	checkers map[string]Checker
	timeout  time.Duration
	mu       sync.RWMutex
}

// NewHealthChecker creates a checker registry. Each Check call is bounded
// by the given timeout.
func NewHealthChecker(timeout time.Duration) *HealthChecker {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HealthChecker{
		checkers: make(map[string]Checker),
		timeout:  timeout,
	}
}

// AddChecker registers a checker, replacing any existing one with the same name.
func (hc *HealthChecker) AddChecker(checker Checker) {
	hc.mu.Lock()
	defer hc.mu.Unlock()
	hc.checkers[checker.Name()] = checker
}

// RemoveChecker unregisters a checker by name.
func (hc *HealthChecker) RemoveChecker(name string) {
	hc.mu.Lock()
	defer hc.mu.Unlock()
	delete(hc.checkers, name)
}

// Report is the aggregate of all component checks.
type Report struct {
	Status    Status                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Duration  time.Duration          `json:"duration"`
	Version   string                 `json:"version"`
	Service   string                 `json:"service"`
	Checks    map[string]CheckResult `json:"checks"`
	Summary   map[string]int         `json:"summary"`
	Critical  bool                   `json:"critical"`
}

// Check runs every registered checker in parallel and aggregates the results.
func (hc *HealthChecker) Check(ctx context.Context, service, version string) Report {
	start := time.Now()

	checkCtx, cancel := context.WithTimeout(ctx, hc.timeout)
	defer cancel()

	hc.mu.RLock()
	checkers := make([]Checker, 0, len(hc.checkers))
	for _, checker := range hc.checkers {
		checkers = append(checkers, checker)
	}
	hc.mu.RUnlock()

	summary := map[string]int{
		string(StatusHealthy):   0,
		string(StatusUnhealthy): 0,
		string(StatusDegraded):  0,
		string(StatusUnknown):   0,
	}

	var wg sync.WaitGroup
	resultsChan := make(chan CheckResult, len(checkers))
	for _, checker := range checkers {
		wg.Add(1)
		go func(c Checker) {
			defer wg.Done()
			resultsChan <- hc.runSingleCheck(checkCtx, c)
		}(checker)
	}
	go func() {
		wg.Wait()
		close(resultsChan)
	}()

	results := make(map[string]CheckResult, len(checkers))
	criticalFailed := false
	for result := range resultsChan {
		results[result.Name] = result
		summary[string(result.Status)]++
		if result.Critical && result.Status != StatusHealthy {
			criticalFailed = true
		}
	}

	return Report{
		Status:    overallStatus(summary, criticalFailed),
		Timestamp: time.Now(),
		Duration:  time.Since(start),
		Version:   version,
		Service:   service,
		Checks:    results,
		Summary:   summary,
		Critical:  criticalFailed,
	}
}

func (hc *HealthChecker) runSingleCheck(ctx context.Context, checker Checker) (result CheckResult) {
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			result = CheckResult{
				Name:   checker.Name(),
				Status: StatusUnhealthy,
				Error:  fmt.Sprintf("check panicked: %v", r),
			}
		}
		result.Duration = time.Since(start)
		result.Timestamp = time.Now()
		result.Critical = checker.IsCritical()
		if result.Name == "" {
			result.Name = checker.Name()
		}
	}()

	result = checker.Check(ctx)
	return result
}

func overallStatus(summary map[string]int, criticalFailed bool) Status {
	switch {
	case criticalFailed:
		return StatusUnhealthy
	case summary[string(StatusUnhealthy)] > 0:
		return StatusUnhealthy
	case summary[string(StatusDegraded)] > 0:
		return StatusDegraded
	case summary[string(StatusUnknown)] > 0:
		return StatusDegraded
	default:
		return StatusHealthy
	}
}

// DatabaseChecker wraps a ping function as a critical database check.
func DatabaseChecker(name string, checkFn func(ctx context.Context) error) Checker {
	return NewChecker(name, true, func(ctx context.Context) CheckResult {
		if err := checkFn(ctx); err != nil {
			return CheckResult{
				Name:    name,
				Status:  StatusUnhealthy,
				Error:   err.Error(),
				Message: "database unreachable",
			}
		}
		return CheckResult{
			Name:    name,
			Status:  StatusHealthy,
			Message: "database reachable",
		}
	})
}

// HubChecker reports on the live alert hub. A hub is always healthy while
// it accepts connections; the client count is attached as metadata.
func HubChecker(name string, clientCount func() int) Checker {
	return NewChecker(name, false, func(ctx context.Context) CheckResult {
		return CheckResult{
			Name:    name,
			Status:  StatusHealthy,
			Message: "alert hub running",
			Metadata: map[string]string{
				"connected_clients": fmt.Sprintf("%d", clientCount()),
			},
		}
	})
}

// CustomChecker builds a Checker from a status-returning function.
func CustomChecker(name string, critical bool, checkFn func(ctx context.Context) (Status, string, error)) Checker {
	return NewChecker(name, critical, func(ctx context.Context) CheckResult {
		status, message, err := checkFn(ctx)
		result := CheckResult{
			Name:    name,
			Status:  status,
			Message: message,
		}
		if err != nil {
			result.Error = err.Error()
			if status == StatusHealthy {
				result.Status = StatusUnhealthy
			}
		}
		return result
	})
}
