package profiles

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/gridbridge/profilegw/pkg/contracts"
	"github.com/gridbridge/profilegw/pkg/wire"
)

// PrefetchImageAssets asks a visiting avatar's profile service which images
// its profile uses and pulls each one from the avatar's asset server, so
// the profile window renders without waiting on the foreign grid. It
// returns the number of assets fetched.
//
// Local avatars and avatars whose grid advertises no profile or asset
// server are skipped without error.
func (s *Service) PrefetchImageAssets(ctx context.Context, avatarID uuid.UUID) (int, error) {
	const op, msg = "image assets", "Error requesting image assets"

	if s.assets == nil || s.directory.IsLocalUser(ctx, avatarID) {
		return 0, nil
	}
	ep, err := s.endpoint(ctx, avatarID)
	if err != nil {
		return 0, nil
	}
	assetServer := s.directory.UserServerURL(ctx, avatarID, contracts.ServerAsset)
	if assetServer == "" {
		log.Debug().Str("avatar", avatarID.String()).Msg("Visitor advertises no asset server")
		return 0, nil
	}

	result, err := s.call(ctx, ep.URI, MethodImageAssets,
		wire.Field{Name: "avatarId", Value: wire.UUID(avatarID)})
	if err != nil {
		return 0, fail(op, msg, err)
	}
	if result.IsNull() {
		return 0, nil
	}
	items, ok := result.AsList()
	if !ok {
		return 0, fail(op, msg, ErrUnexpectedResult)
	}

	base := strings.TrimRight(assetServer, "/")
	fetched := 0
	for _, item := range items {
		id, ok := item.AsUUID()
		if !ok {
			log.Debug().Str("avatar", avatarID.String()).Str("item", item.String()).Msg("Skipping image asset that is not an id")
			continue
		}
		uri := base + "/" + id.String()
		if err := s.assets.Fetch(ctx, uri); err != nil {
			log.Warn().Err(err).Str("uri", uri).Msg("Image asset fetch failed")
			continue
		}
		fetched++
	}
	log.Debug().
		Str("avatar", avatarID.String()).
		Int("requested", len(items)).
		Int("fetched", fetched).
		Msg("Image assets prefetched")
	return fetched, nil
}
