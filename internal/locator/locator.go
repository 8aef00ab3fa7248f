// Package locator decides which profile service holds a user's data.
package locator

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/gridbridge/profilegw/pkg/contracts"
)

// Federation is the part of the identity directory the locator needs.
type Federation interface {
	IsLocalUser(ctx context.Context, userID uuid.UUID) bool
	UserServerURL(ctx context.Context, userID uuid.UUID, serverType string) string
}

// Endpoint is a resolved profile service.
type Endpoint struct {
	URI     string
	Foreign bool
}

// Usable reports whether the endpoint can be called. A foreign user whose
// home grid advertises no profile service resolves to an empty URI.
func (e Endpoint) Usable() bool { return e.URI != "" }

// Locator resolves endpoints. Every call asks the directory again; nothing
// is cached.
type Locator struct {
	localURI   string
	federation Federation
}

// New creates a locator for the local deployment's profile service URI.
func New(localURI string, federation Federation) *Locator {
	return &Locator{localURI: localURI, federation: federation}
}

// LocalURI returns the configured local profile service URI.
func (l *Locator) LocalURI() string { return l.localURI }

// Resolve returns the local service for local users, or the URI advertised
// by a foreign user's home grid.
func (l *Locator) Resolve(ctx context.Context, userID uuid.UUID) Endpoint {
	if l.federation.IsLocalUser(ctx, userID) {
		return Endpoint{URI: l.localURI}
	}
	uri := l.federation.UserServerURL(ctx, userID, contracts.ServerProfile)
	if uri == "" {
		log.Debug().Str("user", userID.String()).Msg("Foreign user advertises no profile service")
	}
	return Endpoint{URI: uri, Foreign: true}
}
