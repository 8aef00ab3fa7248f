package handlers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/gridbridge/profilegw/pkg/models"
)

// AddLocalUser registers an account hosted by this grid.
func (h *Handlers) AddLocalUser(w http.ResponseWriter, r *http.Request) {
	var req models.UserAccount
	if !decode(w, r, &req) {
		return
	}
	if req.UserID == uuid.Nil {
		respondError(w, http.StatusBadRequest, "user_id is required")
		return
	}
	if err := h.Directory.AddLocalUser(r.Context(), &req); err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusCreated, req)
}

// AddForeignUser records the service URLs a visitor's home grid advertises.
func (h *Handlers) AddForeignUser(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID  uuid.UUID         `json:"user_id"`
		Servers map[string]string `json:"servers"`
	}
	if !decode(w, r, &req) {
		return
	}
	if req.UserID == uuid.Nil {
		respondError(w, http.StatusBadRequest, "user_id is required")
		return
	}
	if err := h.Directory.AddForeignUser(r.Context(), req.UserID, req.Servers); err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusCreated, req)
}
