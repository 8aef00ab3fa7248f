package profiles

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/gridbridge/profilegw/pkg/models"
	"github.com/gridbridge/profilegw/pkg/wire"
)

// Classifieds lists creatorID's classifieds and records each id so a later
// ClassifiedInfo can be routed to the creator's service.
func (s *Service) Classifieds(ctx context.Context, agentID, creatorID uuid.UUID) ([]models.ClassifiedSummary, error) {
	const op, msg = "classifieds", "Error requesting classifieds"

	ep, err := s.endpoint(ctx, creatorID)
	if err != nil {
		return nil, fail(op, msg, err)
	}
	result, err := s.call(ctx, ep.URI, MethodClassifieds,
		wire.Field{Name: "creatorId", Value: wire.UUID(creatorID)})
	if err != nil {
		return nil, fail(op, msg, err)
	}

	out := []models.ClassifiedSummary{}
	err = listing(result, "classifieduuid", func(id uuid.UUID, name string) {
		s.classifieds.Register(id, creatorID)
		out = append(out, models.ClassifiedSummary{ClassifiedID: id, Name: name})
	})
	if err != nil {
		return nil, fail(op, msg, err)
	}
	log.Debug().
		Str("agent", agentID.String()).
		Str("creator", creatorID.String()).
		Int("count", len(out)).
		Msg("Classifieds listed")
	return out, nil
}

// ClassifiedInfo returns the full record of a classified previously
// advertised by a listing. Each advertisement entitles exactly one detail
// lookup.
func (s *Service) ClassifiedInfo(ctx context.Context, agentID, classifiedID uuid.UUID) (*models.Classified, error) {
	const op, msg = "classified info", "Error getting classified info"

	creatorID, ok := s.classifieds.Resolve(classifiedID)
	if !ok {
		log.Debug().
			Str("agent", agentID.String()).
			Str("classified", classifiedID.String()).
			Msg("Classified detail requested without a listing")
		return nil, fail(op, msg, ErrNotEntitled)
	}
	ep, err := s.endpoint(ctx, creatorID)
	if err != nil {
		return nil, fail(op, msg, err)
	}

	req := models.Classified{ClassifiedID: classifiedID, CreatorID: creatorID}
	got, err := exchange(ctx, s.rpc, ep.URI, MethodClassifiedInfo, classifiedSchema, req)
	if err != nil {
		return nil, fail(op, msg, err)
	}
	if got.CreatorID == uuid.Nil {
		return nil, fail(op, msg, errors.New("classified has no creator"))
	}
	return &got, nil
}

// UpdateClassified creates or replaces one of agentID's classifieds.
func (s *Service) UpdateClassified(ctx context.Context, agentID uuid.UUID, c models.Classified) error {
	const op, msg = "classified update", "Error updating classified"

	ep, err := s.endpoint(ctx, agentID)
	if err != nil {
		return fail(op, msg, err)
	}
	c.CreatorID = agentID
	if _, err := exchange(ctx, s.rpc, ep.URI, MethodClassifiedUpdate, classifiedSchema, c); err != nil {
		return fail(op, msg, err)
	}
	return nil
}

// DeleteClassified removes one of agentID's classifieds.
func (s *Service) DeleteClassified(ctx context.Context, agentID, classifiedID uuid.UUID) error {
	const op, msg = "classified delete", "Error classified delete"

	ep, err := s.endpoint(ctx, agentID)
	if err != nil {
		return fail(op, msg, err)
	}
	if _, err := s.call(ctx, ep.URI, MethodClassifiedDelete,
		wire.Field{Name: "classifiedId", Value: wire.UUID(classifiedID)}); err != nil {
		return fail(op, msg, err)
	}
	return nil
}
