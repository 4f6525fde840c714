package middleware

import (
	"cmp"
	"log/slog"
	"net/http"
	"slices"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/agency-leads/internal/adapters/http/dto"
	"github.com/jsamuelsen/agency-leads/internal/platform/config"
	"github.com/jsamuelsen/agency-leads/internal/platform/logging"
)

const (
	RoleAgent = "agent"
	RoleAdmin = "admin"

	// ContextKeyAgent is the gin key AgentGate stores the *Agent under.
	ContextKeyAgent = "agent"

	defaultSubjectHeader = "X-User-ID"
	defaultRolesHeader   = "X-User-Roles"

	logKeyAgent = "agent"
)

// Agent is the agency staff member behind a back-office request. The gateway
// in front of the service authenticates staff and forwards who they are in
// two headers; the public lead routes never read them.
type Agent struct {
	Subject string
	Roles   []string
}

// Can reports whether the agent holds any of roles. Admin holds them all.
func (a *Agent) Can(roles ...string) bool {
	if a == nil {
		return false
	}

	if slices.Contains(a.Roles, RoleAdmin) {
		return true
	}

	return slices.ContainsFunc(roles, func(r string) bool { return slices.Contains(a.Roles, r) })
}

// AgentFromHeaders reads the forwarded identity using the header names in cfg,
// falling back to X-User-ID and X-User-Roles.
func AgentFromHeaders(h http.Header, cfg *config.AuthConfig) *Agent {
	subject, roles := defaultSubjectHeader, defaultRolesHeader
	if cfg != nil {
		subject = cmp.Or(cfg.SubjectHeader, subject)
		roles = cmp.Or(cfg.RolesHeader, roles)
	}

	return &Agent{
		Subject: strings.TrimSpace(h.Get(subject)),
		Roles:   splitRoles(h.Get(roles)),
	}
}

// AgentGate admits requests from an identified agent holding one of roles
// (RoleAgent when none are given). Anonymous callers get 401; identified
// callers without the role get 403. The subject is added to every log line
// of the request.
func AgentGate(cfg *config.AuthConfig, roles ...string) gin.HandlerFunc {
	if len(roles) == 0 {
		roles = []string{RoleAgent}
	}

	return func(c *gin.Context) {
		agent := AgentFromHeaders(c.Request.Header, cfg)

		switch {
		case agent.Subject == "":
			dto.AbortWithCode(c, dto.ErrorCodeUnauthorized, "agent sign-in required")
			return
		case !agent.Can(roles...):
			logging.FromContext(c.Request.Context()).Warn("agent route denied",
				slog.String(logKeyAgent, agent.Subject),
				slog.Any("roles", agent.Roles),
			)
			dto.AbortWithCode(c, dto.ErrorCodeForbidden, "requires role: "+strings.Join(roles, " or "))

			return
		}

		c.Set(ContextKeyAgent, agent)
		c.Request = c.Request.WithContext(
			logging.With(c.Request.Context(), slog.String(logKeyAgent, agent.Subject)),
		)

		c.Next()
	}
}

// CurrentAgent returns the agent admitted by AgentGate, or nil.
func CurrentAgent(c *gin.Context) *Agent {
	a, _ := c.Value(ContextKeyAgent).(*Agent)
	return a
}

func splitRoles(s string) []string {
	roles := strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ' ' })
	if len(roles) == 0 {
		return nil
	}

	return roles
}
