package logging

import (
	"context"
	"errors"
	"log/slog"
)

// MultiHandler fans each record out to every child handler whose level admits it.
// The service uses it to keep console output and the rotated JSON file in step.
type MultiHandler struct {
	sinks []slog.Handler
}

// NewMultiHandler returns a MultiHandler over sinks.
func NewMultiHandler(sinks ...slog.Handler) *MultiHandler {
	return &MultiHandler{sinks: sinks}
}

func (m *MultiHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, s := range m.sinks {
		if s.Enabled(ctx, level) {
			return true
		}
	}

	return false
}

// Handle writes r to each enabled sink and joins their errors.
func (m *MultiHandler) Handle(ctx context.Context, r slog.Record) error { //nolint:gocritic // slog.Handler interface requires value
	var errs []error

	for _, s := range m.sinks {
		if !s.Enabled(ctx, r.Level) {
			continue
		}

		if err := s.Handle(ctx, r.Clone()); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

func (m *MultiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return m.derive(func(s slog.Handler) slog.Handler { return s.WithAttrs(attrs) })
}

func (m *MultiHandler) WithGroup(name string) slog.Handler {
	return m.derive(func(s slog.Handler) slog.Handler { return s.WithGroup(name) })
}

func (m *MultiHandler) derive(fn func(slog.Handler) slog.Handler) *MultiHandler {
	next := make([]slog.Handler, 0, len(m.sinks))
	for _, s := range m.sinks {
		next = append(next, fn(s))
	}

	return &MultiHandler{sinks: next}
}
