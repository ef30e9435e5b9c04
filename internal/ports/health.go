package ports

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// ErrDuplicateChecker is returned when two checkers share a name.
var ErrDuplicateChecker = errors.New("duplicate health checker")

// HealthChecker is a dependency the readiness probe can ping, such as the
// quote database, the CRM or the event publisher.
type HealthChecker interface {
	Name() string
	Check(ctx context.Context) error
}

// HealthRegistry collects checkers at startup and runs them on demand.
//
// Register adds a dependency that quote writes cannot proceed without.
// RegisterOptional adds one whose failure only degrades the service, such as
// the event publisher, since publish failures never fail a committed write.
type HealthRegistry interface {
	Register(checker HealthChecker) error
	RegisterOptional(checker HealthChecker) error
	CheckAll(ctx context.Context) *HealthResult
}

type HealthStatus string

const (
	HealthStatusHealthy   HealthStatus = "healthy"
	HealthStatusDegraded  HealthStatus = "degraded"
	HealthStatusUnhealthy HealthStatus = "unhealthy"
)

// HealthResult is the outcome of one CheckAll run.
type HealthResult struct {
	Status    HealthStatus            `json:"status"`
	Checks    map[string]*CheckResult `json:"checks"`
	Timestamp time.Time               `json:"timestamp"`
}

// CheckResult is the outcome of a single checker.
type CheckResult struct {
	Status   HealthStatus  `json:"status"`
	Message  string        `json:"message,omitempty"`
	Optional bool          `json:"optional,omitempty"`
	Duration time.Duration `json:"duration"`
}

type registeredChecker struct {
	HealthChecker
	optional bool
}

// DefaultHealthRegistry is safe for concurrent use.
type DefaultHealthRegistry struct {
	mu           sync.RWMutex
	checkers     []registeredChecker
	checkTimeout time.Duration
}

// NewHealthRegistry bounds every check by checkTimeout; zero leaves checks
// bounded only by the caller's context.
func NewHealthRegistry(checkTimeout time.Duration) *DefaultHealthRegistry {
	return &DefaultHealthRegistry{checkTimeout: checkTimeout}
}

func (r *DefaultHealthRegistry) Register(checker HealthChecker) error {
	return r.add(registeredChecker{HealthChecker: checker})
}

func (r *DefaultHealthRegistry) RegisterOptional(checker HealthChecker) error {
	return r.add(registeredChecker{HealthChecker: checker, optional: true})
}

func (r *DefaultHealthRegistry) add(rc registeredChecker) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.checkers {
		if existing.Name() == rc.Name() {
			return fmt.Errorf("%w: %s", ErrDuplicateChecker, rc.Name())
		}
	}

	r.checkers = append(r.checkers, rc)

	return nil
}

// CheckAll runs every checker concurrently. A failing required checker makes
// the result unhealthy; a failing optional one makes it degraded.
func (r *DefaultHealthRegistry) CheckAll(ctx context.Context) *HealthResult {
	r.mu.RLock()
	checkers := append([]registeredChecker(nil), r.checkers...)
	r.mu.RUnlock()

	results := make([]*CheckResult, len(checkers))

	var g errgroup.Group

	for i, rc := range checkers {
		g.Go(func() error {
			results[i] = r.run(ctx, rc)
			return nil
		})
	}

	_ = g.Wait()

	out := &HealthResult{
		Status:    HealthStatusHealthy,
		Checks:    make(map[string]*CheckResult, len(checkers)),
		Timestamp: time.Now(),
	}

	for i, rc := range checkers {
		res := results[i]
		out.Checks[rc.Name()] = res

		switch {
		case res.Status == HealthStatusHealthy:
		case !rc.optional:
			out.Status = HealthStatusUnhealthy
		case out.Status == HealthStatusHealthy:
			out.Status = HealthStatusDegraded
		}
	}

	return out
}

func (r *DefaultHealthRegistry) run(ctx context.Context, rc registeredChecker) *CheckResult {
	if r.checkTimeout > 0 {
		var cancel context.CancelFunc

		ctx, cancel = context.WithTimeout(ctx, r.checkTimeout)
		defer cancel()
	}

	start := time.Now()
	err := rc.Check(ctx)

	res := &CheckResult{Status: HealthStatusHealthy, Optional: rc.optional, Duration: time.Since(start)}
	if err != nil {
		res.Status = HealthStatusUnhealthy
		res.Message = err.Error()
	}

	return res
}

// CheckerFunc adapts a function to HealthChecker.
type CheckerFunc struct {
	ComponentName string
	Fn            func(ctx context.Context) error
}

func (c CheckerFunc) Name() string { return c.ComponentName }

func (c CheckerFunc) Check(ctx context.Context) error { return c.Fn(ctx) }
