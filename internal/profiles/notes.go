package profiles

import (
	"context"

	"github.com/google/uuid"

	"github.com/gridbridge/profilegw/pkg/models"
)

// Notes returns agentID's private notes about targetID. Notes live with the
// author, so the author's service is asked.
func (s *Service) Notes(ctx context.Context, agentID, targetID uuid.UUID) (*models.Notes, error) {
	const op, msg = "notes", "Error requesting note"

	ep, err := s.endpoint(ctx, agentID)
	if err != nil {
		return nil, fail(op, msg, err)
	}
	req := models.Notes{UserID: agentID, TargetID: targetID}
	got, err := exchange(ctx, s.rpc, ep.URI, MethodNotes, notesSchema, req)
	if err != nil {
		return nil, fail(op, msg, err)
	}
	return &got, nil
}

// UpdateNotes replaces agentID's notes about targetID.
func (s *Service) UpdateNotes(ctx context.Context, agentID, targetID uuid.UUID, notes string) error {
	const op, msg = "notes update", "Error updating note"

	ep, err := s.endpoint(ctx, agentID)
	if err != nil {
		return fail(op, msg, err)
	}
	req := models.Notes{UserID: agentID, TargetID: targetID, Notes: notes}
	if _, err := exchange(ctx, s.rpc, ep.URI, MethodNotesUpdate, notesSchema, req); err != nil {
		return fail(op, msg, err)
	}
	return nil
}

// Preferences returns agentID's messaging and visibility preferences.
func (s *Service) Preferences(ctx context.Context, agentID uuid.UUID) (*models.Preferences, error) {
	const op, msg = "preferences", "Error requesting preferences"

	ep, err := s.endpoint(ctx, agentID)
	if err != nil {
		return nil, fail(op, msg, err)
	}
	got, err := exchange(ctx, s.rpc, ep.URI, MethodPreferences, preferencesSchema, models.Preferences{UserID: agentID})
	if err != nil {
		return nil, fail(op, msg, err)
	}
	return &got, nil
}

// UpdatePreferences stores agentID's preferences. The e-mail address is not
// editable from the session and is left for the service to keep.
func (s *Service) UpdatePreferences(ctx context.Context, agentID uuid.UUID, imViaEmail, visible bool) error {
	const op, msg = "preferences update", "Error updating preferences"

	ep, err := s.endpoint(ctx, agentID)
	if err != nil {
		return fail(op, msg, err)
	}
	req := models.Preferences{UserID: agentID, IMViaEmail: imViaEmail, Visible: visible}
	if _, err := exchange(ctx, s.rpc, ep.URI, MethodPreferencesUpdate, preferencesSchema, req); err != nil {
		return fail(op, msg, err)
	}
	return nil
}
