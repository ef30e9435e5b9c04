package storage

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/jsamuelsen/quoteguard/internal/domain"
	"github.com/jsamuelsen/quoteguard/internal/ports"
)

// QuoteStore implements ports.QuoteStore with gorm transactions.
type QuoteStore struct {
	db *gorm.DB
}

// NewQuoteStore creates a store over an open connection.
func NewQuoteStore(db *gorm.DB) *QuoteStore {
	return &QuoteStore{db: db}
}

// Name implements ports.HealthChecker.
func (s *QuoteStore) Name() string { return "database" }

// Check implements ports.HealthChecker.
func (s *QuoteStore) Check(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}

	return sqlDB.PingContext(ctx)
}

// InTx runs fn in a transaction. gorm rolls back when fn returns an error or panics.
func (s *QuoteStore) InTx(ctx context.Context, fn func(tx ports.QuoteTx) error) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&quoteTx{db: tx})
	})

	return mapError("transaction", err)
}

// GetQuote implements ports.QuoteStore.
func (s *QuoteStore) GetQuote(ctx context.Context, id string) (*domain.Quote, error) {
	return getQuote(s.db.WithContext(ctx), id)
}

type quoteTx struct {
	db *gorm.DB
}

func (t *quoteTx) GetQuote(ctx context.Context, id string) (*domain.Quote, error) {
	return getQuote(t.db.WithContext(ctx), id)
}

func (t *quoteTx) InsertQuote(ctx context.Context, q *domain.Quote) error {
	return mapError("insert", t.db.WithContext(ctx).Create(quoteToModel(q)).Error)
}

// UpdateIfVersion is the row-level compare-and-swap.
func (t *quoteTx) UpdateIfVersion(ctx context.Context, q *domain.Quote, expectedVersion int64) (bool, error) {
	res := t.db.WithContext(ctx).
		Model(&QuoteModel{}).
		Where("id = ? AND version = ?", q.ID, expectedVersion).
		Updates(quoteToModel(q).mutableColumns())
	if res.Error != nil {
		return false, mapError("update", res.Error)
	}

	return res.RowsAffected == 1, nil
}

func (t *quoteTx) DeleteIfVersion(ctx context.Context, id string, expectedVersion int64) (bool, error) {
	res := t.db.WithContext(ctx).
		Where("id = ? AND version = ?", id, expectedVersion).
		Delete(&QuoteModel{})
	if res.Error != nil {
		return false, mapError("delete", res.Error)
	}

	return res.RowsAffected == 1, nil
}

func getQuote(db *gorm.DB, id string) (*domain.Quote, error) {
	var m QuoteModel
	if err := db.Where("id = ?", id).Take(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrQuoteNotFound
		}

		return nil, mapError("read", err)
	}

	return m.toDomain(), nil
}
