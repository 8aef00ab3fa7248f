// Package handlers implements the HTTP handlers the session layer calls for
// profile features. Each handler resolves the acting agent, delegates to
// profiles.Service and turns a *profiles.FeatureError into a JSON error
// carrying the user-facing message.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/gridbridge/profilegw/internal/api/middleware"
	"github.com/gridbridge/profilegw/internal/jsonrpc"
	"github.com/gridbridge/profilegw/internal/profiles"
	"github.com/gridbridge/profilegw/pkg/contracts"
)

// Handlers holds all handler dependencies.
type Handlers struct {
	// Profiles is nil when no profile service is configured.
	Profiles *profiles.Service

	// Directory seeds the bundled user directory.
	Directory contracts.DirectoryAdmin

	// PrefetchAssets enables image prefetch on arrival.
	PrefetchAssets bool

	// background tracks arrival prefetches so Wait can drain them.
	background sync.WaitGroup
}

// New creates a new Handlers instance with all dependencies.
func New(svc *profiles.Service, dir contracts.DirectoryAdmin, prefetch bool) *Handlers {
	return &Handlers{
		Profiles:       svc,
		Directory:      dir,
		PrefetchAssets: prefetch,
	}
}

// Wait blocks until background prefetches started by Arrival finish.
func (h *Handlers) Wait() { h.background.Wait() }

// RequireProfiles answers 503 while profile features are disabled.
func (h *Handlers) RequireProfiles(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h.Profiles == nil {
			respondError(w, http.StatusServiceUnavailable, "profile service not configured")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ── Helpers ──────────────────────────────────────────────────

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// respondFeatureError maps a profile failure to an HTTP status. The body
// carries the user-facing message plus the cause for operators.
func respondFeatureError(w http.ResponseWriter, err error) {
	var fe *profiles.FeatureError
	if !errors.As(err, &fe) {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, featureStatus(err), map[string]string{
		"error":  fe.Message,
		"detail": fe.Err.Error(),
	})
}

func featureStatus(err error) int {
	switch {
	case errors.Is(err, profiles.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, profiles.ErrNotEntitled):
		return http.StatusNotFound
	case errors.Is(err, profiles.ErrNotReady):
		return http.StatusConflict
	case errors.Is(err, profiles.ErrNoEndpoint):
		return http.StatusBadGateway
	}
	switch jsonrpc.FailureOf(err) {
	case jsonrpc.FailureTransport:
		return http.StatusGatewayTimeout
	case jsonrpc.FailureMalformed, jsonrpc.FailureRemote:
		return http.StatusBadGateway
	}
	return http.StatusBadGateway
}

// agent returns the acting agent or writes a 400.
func agent(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, ok := middleware.GetAgent(r.Context())
	if !ok {
		respondError(w, http.StatusBadRequest, middleware.AgentHeader+" header required")
	}
	return id, ok
}

// pathID parses a UUID URL parameter or writes a 400.
func pathID(w http.ResponseWriter, r *http.Request, param string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, param))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid "+param)
		return uuid.Nil, false
	}
	return id, true
}

func decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return false
	}
	return true
}
