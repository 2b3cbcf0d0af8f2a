package http

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/aminovt/solvault/internal/logger"
	"github.com/aminovt/solvault/models"
)

func (h *Handler) createSession(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var request models.SessionRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}

	token, err := h.services.SessionService.CreateSession(ctx, request)
	if err != nil {
		log.Err(err).Stringer("identity", request.Identity).Msg("session handshake rejected")
		http.Error(w, err.Error(), statusFromError(err))
		return
	}

	log.Debug().Stringer("identity", request.Identity).Msg("session created")

	w.Header().Set("Authorization", fmt.Sprintf("Bearer %s", token.SignedString))
	w.WriteHeader(http.StatusOK)
}
