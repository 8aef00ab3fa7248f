package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/gridbridge/profilegw/internal/api/middleware"
)

func TestAgentExtractor(t *testing.T) {
	id := uuid.New()
	tests := []struct {
		name   string
		header string
		query  string
		want   uuid.UUID
		found  bool
	}{
		{"header", id.String(), "", id, true},
		{"query", "", "?agent=" + id.String(), id, true},
		{"header wins", id.String(), "?agent=" + uuid.NewString(), id, true},
		{"missing", "", "", uuid.Nil, false},
		{"malformed", "not-a-uuid", "", uuid.Nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got uuid.UUID
			var found bool
			handler := middleware.AgentExtractor(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				got, found = middleware.GetAgent(r.Context())
				w.WriteHeader(http.StatusOK)
			}))

			req := httptest.NewRequest(http.MethodGet, "/api/v1/profiles/me/preferences"+tt.query, nil)
			if tt.header != "" {
				req.Header.Set(middleware.AgentHeader, tt.header)
			}
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			if w.Code != http.StatusOK {
				t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
			}
			if found != tt.found || got != tt.want {
				t.Errorf("GetAgent() = %s, %v; want %s, %v", got, found, tt.want, tt.found)
			}
		})
	}
}
