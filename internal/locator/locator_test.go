package locator_test

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/gridbridge/profilegw/internal/locator"
	"github.com/gridbridge/profilegw/pkg/contracts"
)

// fakeFederation is a test Federation.
type fakeFederation struct {
	local   map[uuid.UUID]bool
	servers map[uuid.UUID]map[string]string
	lookups int
}

func (f *fakeFederation) IsLocalUser(_ context.Context, id uuid.UUID) bool { return f.local[id] }

func (f *fakeFederation) UserServerURL(_ context.Context, id uuid.UUID, key string) string {
	f.lookups++
	return f.servers[id][key]
}

const localURI = "http://profiles.local:8002/"

func TestResolve(t *testing.T) {
	local, advertised, silent := uuid.New(), uuid.New(), uuid.New()
	fed := &fakeFederation{
		local: map[uuid.UUID]bool{local: true},
		servers: map[uuid.UUID]map[string]string{
			advertised: {contracts.ServerProfile: "http://other.grid:8002/"},
		},
	}
	l := locator.New(localURI, fed)

	tests := []struct {
		name string
		user uuid.UUID
		want locator.Endpoint
	}{
		{"local", local, locator.Endpoint{URI: localURI, Foreign: false}},
		{"foreign advertised", advertised, locator.Endpoint{URI: "http://other.grid:8002/", Foreign: true}},
		{"foreign silent", silent, locator.Endpoint{URI: "", Foreign: true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := l.Resolve(context.Background(), tt.user); got != tt.want {
				t.Errorf("Resolve() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestResolve_NoCaching(t *testing.T) {
	user := uuid.New()
	fed := &fakeFederation{servers: map[uuid.UUID]map[string]string{}}
	l := locator.New(localURI, fed)

	if got := l.Resolve(context.Background(), user); got.Usable() {
		t.Fatalf("Resolve() = %+v, want unusable", got)
	}
	fed.servers[user] = map[string]string{contracts.ServerProfile: "http://late.grid/"}
	if got := l.Resolve(context.Background(), user); got.URI != "http://late.grid/" {
		t.Errorf("Resolve() after directory change = %+v", got)
	}
	if fed.lookups != 2 {
		t.Errorf("directory consulted %d times, want 2", fed.lookups)
	}
}
