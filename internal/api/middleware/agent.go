package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type contextKey string

// AgentKey is the context key for the acting agent's id.
const AgentKey contextKey = "agent_id"

// AgentHeader carries the id of the avatar on whose behalf the session layer
// is calling.
const AgentHeader = "X-Agent-Id"

// AgentExtractor reads the acting agent from the X-Agent-Id header, then
// the agent query parameter. Requests without a valid id pass through with
// no agent in context; handlers that need one reject them.
func AgentExtractor(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := strings.TrimSpace(r.Header.Get(AgentHeader))
		if raw == "" {
			raw = strings.TrimSpace(r.URL.Query().Get("agent"))
		}
		if raw == "" {
			next.ServeHTTP(w, r)
			return
		}

		id, err := uuid.Parse(raw)
		if err != nil {
			log.Debug().Str("agent", raw).Msg("Ignoring malformed agent id")
			next.ServeHTTP(w, r)
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), AgentKey, id)))
	})
}

// GetAgent retrieves the acting agent from the request context.
func GetAgent(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(AgentKey).(uuid.UUID)
	return id, ok
}
