package api_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/gridbridge/profilegw/internal/api"
	"github.com/gridbridge/profilegw/internal/api/handlers"
	"github.com/gridbridge/profilegw/internal/assets"
	"github.com/gridbridge/profilegw/internal/classifieds"
	"github.com/gridbridge/profilegw/internal/config"
	"github.com/gridbridge/profilegw/internal/directory"
	"github.com/gridbridge/profilegw/internal/homegrid"
	"github.com/gridbridge/profilegw/internal/jsonrpc"
	"github.com/gridbridge/profilegw/internal/locator"
	"github.com/gridbridge/profilegw/internal/profiles"
	"github.com/gridbridge/profilegw/pkg/contracts"
	"github.com/gridbridge/profilegw/pkg/models"
)

// remote answers every JSON-RPC method from a fixed table.
func remote(t *testing.T, replies map[string]string) string {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var env struct {
			Method string `json:"method"`
		}
		json.NewDecoder(r.Body).Decode(&env)
		body, ok := replies[env.Method]
		if !ok {
			body = `{"error":{"code":-32601,"message":"method not found"}}`
		}
		io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv.URL
}

func newRouter(t *testing.T, serviceURL string) (http.Handler, *directory.Memory) {
	t.Helper()
	cfg := &config.Config{Version: "test", Profiles: config.ProfilesConfig{ServiceURL: serviceURL}}
	dir := directory.NewMemory()

	var svc *profiles.Service
	if cfg.Profiles.Enabled() {
		rpc := jsonrpc.NewClient()
		svc = profiles.NewService(
			rpc,
			locator.New(serviceURL, dir),
			dir,
			classifieds.NewCache(),
			assets.NewHTTPFetcher(),
			homegrid.New(rpc),
		)
	}
	return api.NewRouter(cfg, handlers.New(svc, dir, false)), dir
}

func do(t *testing.T, h http.Handler, method, path, agent, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if agent != "" {
		req.Header.Set("X-Agent-Id", agent)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	h, _ := newRouter(t, "")
	w := do(t, h, http.MethodGet, "/health", "", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var body map[string]any
	json.NewDecoder(w.Body).Decode(&body)
	if body["status"] != "degraded" || body["profiles_enabled"] != false {
		t.Errorf("body = %v", body)
	}
}

func TestProfilesDisabled(t *testing.T) {
	h, _ := newRouter(t, "")
	w := do(t, h, http.MethodGet, "/api/v1/profiles/me/preferences", uuid.NewString(), "")
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", w.Code)
	}
}

func TestAgentRequired(t *testing.T) {
	h, _ := newRouter(t, remote(t, nil))
	w := do(t, h, http.MethodGet, "/api/v1/profiles/me/preferences", "", "")
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestInvalidPathID(t *testing.T) {
	h, _ := newRouter(t, remote(t, nil))
	w := do(t, h, http.MethodGet, "/api/v1/profiles/avatars/nope/picks", uuid.NewString(), "")
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestPreferencesThroughRouter(t *testing.T) {
	h, _ := newRouter(t, remote(t, map[string]string{
		"user_preferences_request": `{"result":{"IMViaEmail":true,"Visible":true,"EMail":"x@y.z"}}`,
	}))
	agent := uuid.NewString()

	// Seed the agent as local through the directory API.
	w := do(t, h, http.MethodPost, "/api/v1/directory/local", "", `{"user_id":"`+agent+`","first_name":"Test"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("seed status = %d: %s", w.Code, w.Body)
	}

	w = do(t, h, http.MethodGet, "/api/v1/profiles/me/preferences", agent, "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body)
	}
	var prefs map[string]any
	json.NewDecoder(w.Body).Decode(&prefs)
	if prefs["email"] != "x@y.z" || prefs["im_via_email"] != true {
		t.Errorf("body = %v", prefs)
	}
}

func TestFeatureErrorMapping(t *testing.T) {
	h, dir := newRouter(t, remote(t, map[string]string{
		"picks_delete": `{"error":{"code":1,"message":"denied"}}`,
	}))
	agent := uuid.New()
	visitor := uuid.New()
	ctx := context.Background()
	dir.AddLocalUser(ctx, &models.UserAccount{UserID: agent})
	dir.AddForeignUser(ctx, visitor, map[string]string{contracts.ServerHome: "http://far"})

	tests := []struct {
		name    string
		method  string
		path    string
		agent   string
		want    int
		message string
	}{
		{"classified not advertised", http.MethodGet, "/api/v1/profiles/classifieds/" + uuid.NewString(), agent.String(), http.StatusNotFound, "Error getting classified info"},
		{"visitor without profile service", http.MethodGet, "/api/v1/profiles/avatars/" + visitor.String() + "/picks", agent.String(), http.StatusBadGateway, "Error requesting picks"},
		{"remote error", http.MethodDelete, "/api/v1/profiles/picks/" + uuid.NewString(), agent.String(), http.StatusBadGateway, "Error picks delete"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, h, tt.method, tt.path, tt.agent, "")
			if w.Code != tt.want {
				t.Fatalf("status = %d, want %d: %s", w.Code, tt.want, w.Body)
			}
			var body map[string]string
			json.NewDecoder(w.Body).Decode(&body)
			if body["error"] != tt.message {
				t.Errorf("error = %q, want %q", body["error"], tt.message)
			}
		})
	}
}
