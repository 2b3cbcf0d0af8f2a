package http

import (
	"encoding/json"
	"net/http"

	"github.com/aminovt/solvault/internal/logger"
	"github.com/aminovt/solvault/internal/utils"
	"github.com/aminovt/solvault/models"
)

func (h *Handler) initialize(w http.ResponseWriter, r *http.Request) {
	h.executeOperation(w, r, models.OpInitialize)
}

func (h *Handler) deposit(w http.ResponseWriter, r *http.Request) {
	h.executeOperation(w, r, models.OpDeposit)
}

func (h *Handler) withdraw(w http.ResponseWriter, r *http.Request) {
	h.executeOperation(w, r, models.OpWithdraw)
}

func (h *Handler) closeVault(w http.ResponseWriter, r *http.Request) {
	h.executeOperation(w, r, models.OpClose)
}

// executeOperation is the shared body of the four operation endpoints.
// The operation kind is fixed by the route, not trusted from the payload,
// so a request signed for one operation cannot be replayed against another
// endpoint.
func (h *Handler) executeOperation(w http.ResponseWriter, r *http.Request, op models.OperationKind) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var request models.OperationRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}

	if request.Op != op {
		log.Error().Str("route_op", string(op)).Str("request_op", string(request.Op)).Msg("operation does not match endpoint")
		http.Error(w, "operation does not match endpoint", http.StatusBadRequest)
		return
	}

	identity, ok := utils.GetIdentityFromContext(ctx)
	if !ok {
		log.Error().Msg("no identity in request context")
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}
	if !request.Owner.Equal(identity) {
		log.Error().
			Stringer("owner", request.Owner).
			Stringer("identity", identity).
			Msg("request owner does not match session identity")
		http.Error(w, ErrOwnerMismatch.Error(), http.StatusForbidden)
		return
	}

	result, err := h.services.VaultService.Execute(ctx, request)
	if err != nil {
		log.Err(err).Str("op", string(op)).Stringer("owner", request.Owner).Msg("vault operation failed")
		http.Error(w, err.Error(), statusFromError(err))
		return
	}

	utils.WriteJSON(w, result, http.StatusOK)
}

func (h *Handler) status(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	identity, ok := utils.GetIdentityFromContext(ctx)
	if !ok {
		log.Error().Msg("no identity in request context")
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	view, err := h.services.VaultService.Status(ctx, identity)
	if err != nil {
		log.Err(err).Stringer("owner", identity).Msg("vault status lookup failed")
		http.Error(w, err.Error(), statusFromError(err))
		return
	}

	utils.WriteJSON(w, view, http.StatusOK)
}
