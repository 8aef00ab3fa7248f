// Package contracts defines the collaborator interfaces the profile gateway
// consumes from the hosting grid.
//
// These interfaces form the boundary between the gateway and the rest of
// the simulator: the identity/federation service that knows where each
// user lives, and the asset service that warms foreign assets. The repo
// ships in-memory and SQLite directories plus an HTTP asset fetcher; a host
// can supply its own implementations in the wiring code (pkg/server).
package contracts

import (
	"context"

	"github.com/google/uuid"

	"github.com/gridbridge/profilegw/pkg/models"
)

// Server URL keys advertised by a user's home grid.
const (
	ServerProfile = "ProfileServerURI"
	ServerAsset   = "AssetServerURI"
	ServerHome    = "HomeURI"
)

// ── Identity / Federation ───────────────────────────────────

// UserDirectory answers "is this user local?" and "which URL does this
// user's home grid advertise for service X?".
type UserDirectory interface {
	// IsLocalUser reports whether the user's identity is hosted here.
	IsLocalUser(ctx context.Context, userID uuid.UUID) bool

	// UserServerURL returns the URL a foreign user's home grid advertises
	// for serverType (one of the Server* keys), or "" when unknown.
	UserServerURL(ctx context.Context, userID uuid.UUID, serverType string) string

	// Account returns the account record of a local user.
	Account(ctx context.Context, userID uuid.UUID) (*models.UserAccount, error)
}

// DirectoryAdmin seeds a directory. Implemented by the bundled directories.
type DirectoryAdmin interface {
	AddLocalUser(ctx context.Context, account *models.UserAccount) error
	AddForeignUser(ctx context.Context, userID uuid.UUID, serverURLs map[string]string) error
}

// HomeGrid queries the home grid of a visiting user.
type HomeGrid interface {
	// UserInfo returns the account summary homeURI publishes for userID.
	UserInfo(ctx context.Context, homeURI string, userID uuid.UUID) (*models.ForeignUserInfo, error)
}

// ── Assets ──────────────────────────────────────────────────

// AssetFetcher retrieves an asset by absolute URI so it is cached locally.
type AssetFetcher interface {
	Fetch(ctx context.Context, uri string) error
}
