package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/quoteguard/internal/adapters/http/dto"
	"github.com/jsamuelsen/quoteguard/internal/platform/config"
	"github.com/jsamuelsen/quoteguard/internal/platform/logging"
)

const (
	// ContextKeyAgent is the gin context key holding the *Agent.
	ContextKeyAgent = "agent"

	defaultSubjectHeader = "X-Agent-ID"
	defaultRolesHeader   = "X-Agent-Roles"
)

// Agent is the travel agent acting on a request, as forwarded by the gateway
// after it validated the caller's token.
type Agent struct {
	ID    string
	Roles []string
}

func headerNames(cfg *config.AuthConfig) (subject, roles string) {
	subject, roles = defaultSubjectHeader, defaultRolesHeader

	if cfg == nil {
		return subject, roles
	}

	if cfg.SubjectHeader != "" {
		subject = cfg.SubjectHeader
	}

	if cfg.RolesHeader != "" {
		roles = cfg.RolesHeader
	}

	return subject, roles
}

// ExtractAgent reads the agent identity from the configured headers.
func ExtractAgent(c *gin.Context, cfg *config.AuthConfig) *Agent {
	subjectHeader, rolesHeader := headerNames(cfg)

	return &Agent{
		ID:    strings.TrimSpace(c.GetHeader(subjectHeader)),
		Roles: parseCommaSeparated(c.GetHeader(rolesHeader)),
	}
}

// CurrentAgent returns the agent stored by RequireAuth, or nil.
func CurrentAgent(c *gin.Context) *Agent {
	v, ok := c.Get(ContextKeyAgent)
	if !ok {
		return nil
	}

	agent, _ := v.(*Agent)

	return agent
}

// AgentID returns the authenticated agent, or "" outside RequireAuth.
func AgentID(c *gin.Context) string {
	if agent := CurrentAgent(c); agent != nil {
		return agent.ID
	}

	return ""
}

// RequireAuth rejects requests without an agent identity with 401. Accepted
// requests get agent_id and agent_roles on their context logger.
func RequireAuth(cfg *config.AuthConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		agent := ExtractAgent(c, cfg)
		if agent.ID == "" {
			dto.Abort(c, http.StatusUnauthorized, dto.CodeUnauthenticated, "agent identity required")
			return
		}

		c.Set(ContextKeyAgent, agent)

		attrs := []any{slog.String("agent_id", agent.ID)}
		if len(agent.Roles) > 0 {
			attrs = append(attrs, slog.Any("agent_roles", agent.Roles))
		}

		c.Request = c.Request.WithContext(logging.With(c.Request.Context(), attrs...))

		c.Next()
	}
}

func parseCommaSeparated(s string) []string {
	var out []string

	for part := range strings.SplitSeq(s, ",") {
		if v := strings.TrimSpace(part); v != "" {
			out = append(out, v)
		}
	}

	return out
}
