// Package homegrid talks to the user agent service of a visitor's home grid.
package homegrid

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/gridbridge/profilegw/internal/jsonrpc"
	"github.com/gridbridge/profilegw/internal/marshal"
	"github.com/gridbridge/profilegw/pkg/models"
	"github.com/gridbridge/profilegw/pkg/wire"
)

// MethodUserInfo asks a home grid for a user's account summary.
const MethodUserInfo = "get_user_info"

// ErrNotRecord means the home grid answered with something other than an
// object.
var ErrNotRecord = errors.New("home grid user info is not a record")

var userInfoSchema = marshal.NewSchema("user info",
	marshal.Int("user_flags", func(u *models.ForeignUserInfo) *int { return &u.Flags }),
	marshal.Int("user_created", func(u *models.ForeignUserInfo) *int64 { return &u.Created }),
)

// Client implements contracts.HomeGrid over JSON-RPC.
type Client struct {
	rpc jsonrpc.Caller
}

// New creates a Client that sends its calls through rpc.
func New(rpc jsonrpc.Caller) *Client {
	return &Client{rpc: rpc}
}

// UserInfo fetches userID's account summary from homeURI. Members the home
// grid leaves out stay zero.
func (c *Client) UserInfo(ctx context.Context, homeURI string, userID uuid.UUID) (*models.ForeignUserInfo, error) {
	result, err := c.rpc.Call(ctx, homeURI, MethodUserInfo, wire.Fields(
		wire.Field{Name: "userID", Value: wire.String(userID.String())},
	))
	if err != nil {
		return nil, fmt.Errorf("user info from %s: %w", homeURI, err)
	}

	info := &models.ForeignUserInfo{}
	if result.IsNull() {
		return info, nil
	}
	m, ok := result.AsMap()
	if !ok {
		return nil, fmt.Errorf("user info from %s: %w", homeURI, ErrNotRecord)
	}
	if skipped := userInfoSchema.Deserialize(m, info); len(skipped) > 0 {
		log.Debug().Str("home", homeURI).Strs("skipped", skipped).Msg("Partial user info from home grid")
	}
	return info, nil
}
