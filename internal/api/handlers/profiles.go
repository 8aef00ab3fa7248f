package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/gridbridge/profilegw/pkg/models"
)

const prefetchTimeout = 2 * time.Minute

// ══════════════════════════════════════════════════════════════
// ── Avatar Profile ───────────────────────────────────────────
// ══════════════════════════════════════════════════════════════

func (h *Handlers) GetAvatarProfile(w http.ResponseWriter, r *http.Request) {
	agentID, ok := agent(w, r)
	if !ok {
		return
	}
	avatarID, ok := pathID(w, r, "avatarID")
	if !ok {
		return
	}
	profile, err := h.Profiles.AvatarProfile(r.Context(), agentID, avatarID)
	if err != nil {
		respondFeatureError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, profile)
}

func (h *Handlers) UpdateProperties(w http.ResponseWriter, r *http.Request) {
	agentID, ok := agent(w, r)
	if !ok {
		return
	}
	var req models.PropertiesUpdate
	if !decode(w, r, &req) {
		return
	}
	if req.UserID == uuid.Nil {
		req.UserID = agentID
	}
	profile, err := h.Profiles.UpdateAvatarProperties(r.Context(), agentID, req)
	if err != nil {
		respondFeatureError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, profile)
}

func (h *Handlers) UpdateInterests(w http.ResponseWriter, r *http.Request) {
	agentID, ok := agent(w, r)
	if !ok {
		return
	}
	var req models.Interests
	if !decode(w, r, &req) {
		return
	}
	if err := h.Profiles.UpdateInterests(r.Context(), agentID, req); err != nil {
		respondFeatureError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Arrival is called when a visitor enters a region. Image assets are
// prefetched in the background; the response does not wait for them.
func (h *Handlers) Arrival(w http.ResponseWriter, r *http.Request) {
	avatarID, ok := pathID(w, r, "avatarID")
	if !ok {
		return
	}
	if !h.PrefetchAssets {
		respondJSON(w, http.StatusAccepted, map[string]string{"status": "disabled"})
		return
	}

	ctx := context.WithoutCancel(r.Context())
	h.background.Add(1)
	go func() {
		defer h.background.Done()
		ctx, cancel := context.WithTimeout(ctx, prefetchTimeout)
		defer cancel()
		if _, err := h.Profiles.PrefetchImageAssets(ctx, avatarID); err != nil {
			log.Warn().Err(err).Str("avatar", avatarID.String()).Msg("Image asset prefetch failed")
		}
	}()
	respondJSON(w, http.StatusAccepted, map[string]string{"status": "scheduled"})
}

// ══════════════════════════════════════════════════════════════
// ── Classifieds ──────────────────────────────────────────────
// ══════════════════════════════════════════════════════════════

func (h *Handlers) ListClassifieds(w http.ResponseWriter, r *http.Request) {
	agentID, ok := agent(w, r)
	if !ok {
		return
	}
	creatorID, ok := pathID(w, r, "avatarID")
	if !ok {
		return
	}
	list, err := h.Profiles.Classifieds(r.Context(), agentID, creatorID)
	if err != nil {
		respondFeatureError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, list)
}

func (h *Handlers) GetClassified(w http.ResponseWriter, r *http.Request) {
	agentID, ok := agent(w, r)
	if !ok {
		return
	}
	classifiedID, ok := pathID(w, r, "classifiedID")
	if !ok {
		return
	}
	c, err := h.Profiles.ClassifiedInfo(r.Context(), agentID, classifiedID)
	if err != nil {
		respondFeatureError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, c)
}

func (h *Handlers) SaveClassified(w http.ResponseWriter, r *http.Request) {
	agentID, ok := agent(w, r)
	if !ok {
		return
	}
	var req models.Classified
	if !decode(w, r, &req) {
		return
	}
	if req.ClassifiedID == uuid.Nil {
		req.ClassifiedID = uuid.New()
	}
	if err := h.Profiles.UpdateClassified(r.Context(), agentID, req); err != nil {
		respondFeatureError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"classified_id": req.ClassifiedID.String()})
}

func (h *Handlers) DeleteClassified(w http.ResponseWriter, r *http.Request) {
	agentID, ok := agent(w, r)
	if !ok {
		return
	}
	classifiedID, ok := pathID(w, r, "classifiedID")
	if !ok {
		return
	}
	if err := h.Profiles.DeleteClassified(r.Context(), agentID, classifiedID); err != nil {
		respondFeatureError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ══════════════════════════════════════════════════════════════
// ── Picks ────────────────────────────────────────────────────
// ══════════════════════════════════════════════════════════════

func (h *Handlers) ListPicks(w http.ResponseWriter, r *http.Request) {
	agentID, ok := agent(w, r)
	if !ok {
		return
	}
	creatorID, ok := pathID(w, r, "avatarID")
	if !ok {
		return
	}
	list, err := h.Profiles.Picks(r.Context(), agentID, creatorID)
	if err != nil {
		respondFeatureError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, list)
}

func (h *Handlers) GetPick(w http.ResponseWriter, r *http.Request) {
	agentID, ok := agent(w, r)
	if !ok {
		return
	}
	creatorID, ok := pathID(w, r, "avatarID")
	if !ok {
		return
	}
	pickID, ok := pathID(w, r, "pickID")
	if !ok {
		return
	}
	pick, err := h.Profiles.PickInfo(r.Context(), agentID, creatorID, pickID)
	if err != nil {
		respondFeatureError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, pick)
}

func (h *Handlers) SavePick(w http.ResponseWriter, r *http.Request) {
	agentID, ok := agent(w, r)
	if !ok {
		return
	}
	var req models.PickUpdate
	if !decode(w, r, &req) {
		return
	}
	if req.PickID == uuid.Nil {
		req.PickID = uuid.New()
	}
	if err := h.Profiles.UpdatePick(r.Context(), agentID, req); err != nil {
		respondFeatureError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"pick_id": req.PickID.String()})
}

func (h *Handlers) DeletePick(w http.ResponseWriter, r *http.Request) {
	agentID, ok := agent(w, r)
	if !ok {
		return
	}
	pickID, ok := pathID(w, r, "pickID")
	if !ok {
		return
	}
	if err := h.Profiles.DeletePick(r.Context(), agentID, pickID); err != nil {
		respondFeatureError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ══════════════════════════════════════════════════════════════
// ── Notes & Preferences ──────────────────────────────────────
// ══════════════════════════════════════════════════════════════

func (h *Handlers) GetNotes(w http.ResponseWriter, r *http.Request) {
	agentID, ok := agent(w, r)
	if !ok {
		return
	}
	targetID, ok := pathID(w, r, "avatarID")
	if !ok {
		return
	}
	notes, err := h.Profiles.Notes(r.Context(), agentID, targetID)
	if err != nil {
		respondFeatureError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, notes)
}

func (h *Handlers) UpdateNotes(w http.ResponseWriter, r *http.Request) {
	agentID, ok := agent(w, r)
	if !ok {
		return
	}
	targetID, ok := pathID(w, r, "avatarID")
	if !ok {
		return
	}
	var req struct {
		Notes string `json:"notes"`
	}
	if !decode(w, r, &req) {
		return
	}
	if err := h.Profiles.UpdateNotes(r.Context(), agentID, targetID, req.Notes); err != nil {
		respondFeatureError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) GetPreferences(w http.ResponseWriter, r *http.Request) {
	agentID, ok := agent(w, r)
	if !ok {
		return
	}
	prefs, err := h.Profiles.Preferences(r.Context(), agentID)
	if err != nil {
		respondFeatureError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, prefs)
}

func (h *Handlers) UpdatePreferences(w http.ResponseWriter, r *http.Request) {
	agentID, ok := agent(w, r)
	if !ok {
		return
	}
	var req struct {
		IMViaEmail bool `json:"im_via_email"`
		Visible    bool `json:"visible"`
	}
	if !decode(w, r, &req) {
		return
	}
	if err := h.Profiles.UpdatePreferences(r.Context(), agentID, req.IMViaEmail, req.Visible); err != nil {
		respondFeatureError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ClassifiedRefs reports how many classified references are outstanding.
func (h *Handlers) ClassifiedRefs(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]int{"classified_refs": h.Profiles.Cache().Len()})
}
