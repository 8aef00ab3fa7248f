// Package profiles implements the profile features a session layer exposes
// to its clients (classifieds, picks, notes, preferences, avatar properties)
// by delegating to the remote profile service of whichever grid owns the
// user.
//
// Every operation resolves its endpoint per call, issues exactly one
// JSON-RPC call, and reports failure as a *FeatureError whose Message is
// suitable for showing to the user. Nothing is retried.
package profiles

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/gridbridge/profilegw/internal/classifieds"
	"github.com/gridbridge/profilegw/internal/jsonrpc"
	"github.com/gridbridge/profilegw/internal/locator"
	"github.com/gridbridge/profilegw/internal/marshal"
	"github.com/gridbridge/profilegw/pkg/contracts"
	"github.com/gridbridge/profilegw/pkg/wire"
)

// Remote method names.
const (
	MethodClassifieds       = "avatarclassifiedsrequest"
	MethodClassifiedInfo    = "classifieds_info_query"
	MethodClassifiedUpdate  = "classified_update"
	MethodClassifiedDelete  = "classified_delete"
	MethodPicks             = "avatarpicksrequest"
	MethodPickInfo          = "pickinforequest"
	MethodPickUpdate        = "picks_update"
	MethodPickDelete        = "picks_delete"
	MethodNotes             = "avatarnotesrequest"
	MethodNotesUpdate       = "avatar_notes_update"
	MethodPreferences       = "user_preferences_request"
	MethodPreferencesUpdate = "user_preferences_update"
	MethodProperties        = "avatar_properties_request"
	MethodPropertiesUpdate  = "avatar_properties_update"
	MethodInterestsUpdate   = "avatar_interests_update"
	MethodImageAssets       = "image_assets_request"
)

var (
	// ErrNoEndpoint means the user's grid advertises no profile service.
	ErrNoEndpoint = errors.New("no profile service for user")

	// ErrNotEntitled means a classified detail was requested without a
	// listing having advertised it first.
	ErrNotEntitled = errors.New("classified not advertised to this client")

	// ErrForbidden means a user tried to edit someone else's profile.
	ErrForbidden = errors.New("not the profile owner")

	// ErrNotReady means the remote record exists but is still incomplete.
	ErrNotReady = errors.New("record not ready")

	// ErrUnexpectedResult means the remote result had the wrong shape.
	ErrUnexpectedResult = errors.New("unexpected result shape")
)

// FeatureError reports a failed profile operation.
type FeatureError struct {
	Op      string
	Message string // user-facing
	Err     error
}

func (e *FeatureError) Error() string { return e.Op + ": " + e.Err.Error() }
func (e *FeatureError) Unwrap() error { return e.Err }

func fail(op, message string, err error) error {
	return &FeatureError{Op: op, Message: message, Err: err}
}

// Service runs profile features for the session layer.
type Service struct {
	rpc         jsonrpc.Caller
	locator     *locator.Locator
	directory   contracts.UserDirectory
	classifieds *classifieds.Cache
	assets      contracts.AssetFetcher
	home        contracts.HomeGrid
}

// NewService wires a Service. assets may be nil, in which case image asset
// prefetch is skipped. home may be nil, in which case visitors' profiles
// carry only their title.
func NewService(rpc jsonrpc.Caller, loc *locator.Locator, dir contracts.UserDirectory, cache *classifieds.Cache, assets contracts.AssetFetcher, home contracts.HomeGrid) *Service {
	return &Service{
		rpc:         rpc,
		locator:     loc,
		directory:   dir,
		classifieds: cache,
		assets:      assets,
		home:        home,
	}
}

// Cache exposes the classified reference cache for diagnostics.
func (s *Service) Cache() *classifieds.Cache { return s.classifieds }

func (s *Service) endpoint(ctx context.Context, userID uuid.UUID) (locator.Endpoint, error) {
	ep := s.locator.Resolve(ctx, userID)
	if !ep.Usable() {
		return ep, ErrNoEndpoint
	}
	return ep, nil
}

// exchange sends req as a record and returns req overlaid with whatever
// fields the result carries. req itself is not modified.
func exchange[T any](ctx context.Context, rpc jsonrpc.Caller, uri, method string, schema *marshal.Schema[T], req T) (T, error) {
	result, err := rpc.Call(ctx, uri, method, schema.Serialize(&req))
	if err != nil {
		return req, err
	}
	out := req
	switch m, ok := result.AsMap(); {
	case ok:
		schema.Deserialize(m, &out)
	case result.IsNull():
	default:
		log.Debug().Str("method", method).Str("kind", result.Kind().String()).Msg("Profile RPC result is not a record")
	}
	return out, nil
}

// call sends hand-built params and returns the raw result.
func (s *Service) call(ctx context.Context, uri, method string, params ...wire.Field) (wire.Value, error) {
	return s.rpc.Call(ctx, uri, method, wire.Fields(params...))
}

// listing decodes a list result of {idKey, "name"} records.
func listing(result wire.Value, idKey string, each func(id uuid.UUID, name string)) error {
	if result.IsNull() {
		return nil
	}
	items, ok := result.AsList()
	if !ok {
		return ErrUnexpectedResult
	}
	for i, item := range items {
		m, ok := item.AsMap()
		if !ok {
			log.Debug().Int("index", i).Msg("Skipping listing entry that is not a record")
			continue
		}
		idv, _ := m.Get(idKey)
		id, ok := idv.AsUUID()
		if !ok {
			log.Debug().Int("index", i).Str("key", idKey).Msg("Skipping listing entry without id")
			continue
		}
		namev, _ := m.Get("name")
		name, _ := namev.AsString()
		each(id, name)
	}
	return nil
}
