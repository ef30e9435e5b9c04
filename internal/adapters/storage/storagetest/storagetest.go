// Package storagetest provides a migrated SQLite database and fault injection for tests.
package storagetest

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/jsamuelsen/quoteguard/internal/adapters/storage"
	"github.com/jsamuelsen/quoteguard/internal/platform/config"
	"github.com/jsamuelsen/quoteguard/internal/ports"
)

// ErrInjected is the fault returned by FaultyStore.
var ErrInjected = errors.New("injected storage fault")

// OpenSQLite opens a file-backed SQLite database in a temp dir with migrations applied.
// WAL mode and immediate transactions let concurrent writers queue instead of failing.
func OpenSQLite(t testing.TB) *gorm.DB {
	t.Helper()

	dsn := "file:" + filepath.Join(t.TempDir(), "quotes.db") +
		"?_journal_mode=WAL&_busy_timeout=5000&_txlock=immediate&_foreign_keys=on"

	db, err := storage.Open(context.Background(), &config.DatabaseConfig{
		Dialect:      storage.DialectSQLite,
		DSN:          dsn,
		MaxOpenConns: 8,
		AutoMigrate:  true,
	}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)

	t.Cleanup(func() { _ = storage.Close(db) })

	return db
}

// FaultyStore wraps a QuoteStore and fails transactions on demand.
type FaultyStore struct {
	ports.QuoteStore

	// FailBeforeCommit makes InTx run fn, then fail so the transaction rolls back.
	FailBeforeCommit atomic.Bool

	// Fault overrides ErrInjected as the returned error.
	Fault error

	Calls atomic.Int64
}

// InTx implements ports.QuoteStore.
func (f *FaultyStore) InTx(ctx context.Context, fn func(tx ports.QuoteTx) error) error {
	f.Calls.Add(1)

	return f.QuoteStore.InTx(ctx, func(tx ports.QuoteTx) error {
		if err := fn(tx); err != nil {
			return err
		}

		if f.FailBeforeCommit.Load() {
			if f.Fault != nil {
				return f.Fault
			}

			return ErrInjected
		}

		return nil
	})
}
