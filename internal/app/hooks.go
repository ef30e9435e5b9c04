package app

import (
	"time"

	"github.com/jsamuelsen/quoteguard/internal/domain"
)

// Outcome labels for finished operations.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// Hooks receives operational signals from the controller and tracker.
// Implementations must be safe for concurrent use.
type Hooks interface {
	// ObserveOperation records one finished tracked operation.
	ObserveOperation(kind domain.OperationKind, outcome string, code domain.ErrorCode, elapsed time.Duration)

	// IncConflict counts a rejected stale write.
	IncConflict(kind domain.OperationKind)

	// IncRollback counts a transaction that was rolled back after a storage fault.
	IncRollback(code domain.ErrorCode)
}

// NopHooks discards every signal.
type NopHooks struct{}

// ObserveOperation implements Hooks.
func (NopHooks) ObserveOperation(domain.OperationKind, string, domain.ErrorCode, time.Duration) {}

// IncConflict implements Hooks.
func (NopHooks) IncConflict(domain.OperationKind) {}

// IncRollback implements Hooks.
func (NopHooks) IncRollback(domain.ErrorCode) {}
