package storage

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/jsamuelsen/quoteguard/internal/domain"
)

// ClientDirectory answers ownership lookups from the local clients table.
type ClientDirectory struct {
	db *gorm.DB
}

// NewClientDirectory creates a directory over an open connection.
func NewClientDirectory(db *gorm.DB) *ClientDirectory {
	return &ClientDirectory{db: db}
}

// GetClient implements ports.ClientDirectory.
// A client owned by another agent is reported exactly like a missing one.
func (d *ClientDirectory) GetClient(ctx context.Context, agentID, clientID string) (*domain.Client, error) {
	var m ClientModel

	err := d.db.WithContext(ctx).
		Where("id = ? AND agent_id = ?", clientID, agentID).
		Take(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.NewClientNotFound(clientID)
	}

	if err != nil {
		return nil, mapError("client lookup", err)
	}

	return &domain.Client{ID: m.ID, AgentID: m.AgentID, Name: m.Name, Email: m.Email}, nil
}

// SaveClient inserts or replaces a client record.
func (d *ClientDirectory) SaveClient(ctx context.Context, c *domain.Client) error {
	m := &ClientModel{ID: c.ID, AgentID: c.AgentID, Name: c.Name, Email: c.Email}

	return mapError("client save", d.db.WithContext(ctx).Save(m).Error)
}
