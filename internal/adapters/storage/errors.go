package storage

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
	"gorm.io/gorm"

	"github.com/jsamuelsen/quoteguard/internal/domain"
	"github.com/jsamuelsen/quoteguard/internal/ports"
)

// Postgres SQLSTATE codes that signal a timeout rather than a fault.
var pgTimeoutCodes = map[string]bool{
	"57014": true, // query_canceled (statement_timeout)
	"55P03": true, // lock_not_available (lock_timeout)
	"25P03": true, // idle_in_transaction_session_timeout
}

// mapError classifies a driver error as DATABASE_TIMEOUT or QUOTE_PERSISTENCE_FAILED.
// Domain errors and ErrQuoteNotFound pass through unchanged.
func mapError(op string, err error) error {
	if err == nil {
		return nil
	}

	if _, ok := domain.AsQuoteError(err); ok {
		return err
	}

	if errors.Is(err, ports.ErrQuoteNotFound) {
		return err
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ports.ErrQuoteNotFound
	}

	if isTimeout(err) {
		return domain.Wrap(domain.CodeDatabaseTimeout, "database timed out during "+op, err,
			map[string]any{"operation": op})
	}

	return domain.Wrap(domain.CodePersistenceFailed, "failed to persist quote during "+op, err,
		map[string]any{"operation": op})
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgTimeoutCodes[strings.TrimSpace(pgErr.Code)]
	}

	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code == sqlite3.ErrBusy ||
			sqliteErr.Code == sqlite3.ErrLocked ||
			sqliteErr.Code == sqlite3.ErrInterrupt
	}

	return pgconn.Timeout(err)
}
