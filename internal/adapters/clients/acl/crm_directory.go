package acl

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/jsamuelsen/quoteguard/internal/adapters/clients"
	"github.com/jsamuelsen/quoteguard/internal/domain"
)

// CRMDirectory resolves client ownership against the agency CRM.
// It implements ports.ClientDirectory and ports.HealthChecker.
type CRMDirectory struct {
	BaseAdapter
}

// NewCRMDirectory creates a directory backed by client.
func NewCRMDirectory(client *clients.Client, serviceName string) *CRMDirectory {
	return &CRMDirectory{BaseAdapter: NewBaseAdapter(client, serviceName)}
}

type crmClient struct {
	ID           string `json:"id"`
	OwnerAgentID string `json:"ownerAgentId"`
	DisplayName  string `json:"displayName"`
	Email        string `json:"email"`
	Archived     bool   `json:"archived"`
}

var (
	errIncompleteClient = errors.New("client record missing id or owner")
	errArchivedClient   = errors.New("client record archived")
)

func translateClient(ext *crmClient) (*domain.Client, error) {
	if ext.Archived {
		return nil, errArchivedClient
	}

	if strings.TrimSpace(ext.ID) == "" || strings.TrimSpace(ext.OwnerAgentID) == "" {
		return nil, errIncompleteClient
	}

	return &domain.Client{
		ID:      ext.ID,
		AgentID: ext.OwnerAgentID,
		Name:    ext.DisplayName,
		Email:   ext.Email,
	}, nil
}

// GetClient implements ports.ClientDirectory.
// 404 and 403 from the CRM, an archived record, or a record owned by someone
// else all read as CLIENT_NOT_FOUND. Any other failure is returned unclassified.
func (d *CRMDirectory) GetClient(ctx context.Context, agentID, clientID string) (*domain.Client, error) {
	path := fmt.Sprintf("/agents/%s/clients/%s", url.PathEscape(agentID), url.PathEscape(clientID))

	body, err := d.Get(ctx, path, "get client")
	if err != nil {
		switch StatusOf(err) {
		case http.StatusNotFound, http.StatusForbidden:
			return nil, domain.NewClientNotFound(clientID)
		}

		return nil, err
	}

	client, err := Translate(body, translateClient)
	if errors.Is(err, errArchivedClient) {
		return nil, domain.NewClientNotFound(clientID)
	}

	if err != nil {
		return nil, err
	}

	if client.ID != clientID || client.AgentID != agentID {
		return nil, domain.NewClientNotFound(clientID)
	}

	return client, nil
}

// Name implements ports.HealthChecker.
func (d *CRMDirectory) Name() string {
	return d.ServiceName()
}

// Check implements ports.HealthChecker by probing the CRM's /health endpoint.
func (d *CRMDirectory) Check(ctx context.Context) error {
	body, err := d.Get(ctx, "/health", "health check")
	if err != nil {
		return err
	}

	return body.Close()
}
