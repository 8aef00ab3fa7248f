package profiles

import (
	"context"

	"github.com/google/uuid"

	"github.com/gridbridge/profilegw/pkg/models"
	"github.com/gridbridge/profilegw/pkg/wire"
)

// Picks lists creatorID's picks.
func (s *Service) Picks(ctx context.Context, agentID, creatorID uuid.UUID) ([]models.PickSummary, error) {
	const op, msg = "picks", "Error requesting picks"

	ep, err := s.endpoint(ctx, creatorID)
	if err != nil {
		return nil, fail(op, msg, err)
	}
	result, err := s.call(ctx, ep.URI, MethodPicks,
		wire.Field{Name: "creatorId", Value: wire.UUID(creatorID)})
	if err != nil {
		return nil, fail(op, msg, err)
	}

	out := []models.PickSummary{}
	err = listing(result, "pickuuid", func(id uuid.UUID, name string) {
		out = append(out, models.PickSummary{PickID: id, Name: name})
	})
	if err != nil {
		return nil, fail(op, msg, err)
	}
	return out, nil
}

// PickInfo returns one of creatorID's picks. A pick without a snapshot has
// not been fully saved yet and is reported as ErrNotReady.
func (s *Service) PickInfo(ctx context.Context, agentID, creatorID, pickID uuid.UUID) (*models.Pick, error) {
	const op, msg = "pick info", "Error selecting pick"

	ep, err := s.endpoint(ctx, creatorID)
	if err != nil {
		return nil, fail(op, msg, err)
	}
	req := models.Pick{PickID: pickID, CreatorID: creatorID}
	got, err := exchange(ctx, s.rpc, ep.URI, MethodPickInfo, pickSchema, req)
	if err != nil {
		return nil, fail(op, msg, err)
	}
	if got.SnapshotID == uuid.Nil {
		return nil, fail(op, msg, ErrNotReady)
	}
	return &got, nil
}

// UpdatePick saves one of agentID's picks. The global position is computed
// from the region location and the local position.
func (s *Service) UpdatePick(ctx context.Context, agentID uuid.UUID, u models.PickUpdate) error {
	const op, msg = "pick update", "Error updating pick"

	ep, err := s.endpoint(ctx, agentID)
	if err != nil {
		return fail(op, msg, err)
	}
	pick := models.Pick{
		PickID:     u.PickID,
		CreatorID:  agentID,
		TopPick:    u.TopPick,
		Name:       u.Name,
		Desc:       u.Desc,
		ParcelID:   u.ParcelID,
		SnapshotID: u.SnapshotID,
		User:       u.LandOwnerName,
		SimName:    u.SimName,
		GlobalPos:  models.GlobalPosition(u.RegionLocX, u.RegionLocY, u.LocalPos),
		SortOrder:  u.SortOrder,
		Enabled:    u.Enabled,
	}
	if _, err := exchange(ctx, s.rpc, ep.URI, MethodPickUpdate, pickSchema, pick); err != nil {
		return fail(op, msg, err)
	}
	return nil
}

// DeletePick removes one of agentID's picks.
func (s *Service) DeletePick(ctx context.Context, agentID, pickID uuid.UUID) error {
	const op, msg = "pick delete", "Error picks delete"

	ep, err := s.endpoint(ctx, agentID)
	if err != nil {
		return fail(op, msg, err)
	}
	if _, err := s.call(ctx, ep.URI, MethodPickDelete,
		wire.Field{Name: "pickId", Value: wire.UUID(pickID)}); err != nil {
		return fail(op, msg, err)
	}
	return nil
}
