package http

import (
	"errors"
	"net/http"

	"github.com/aminovt/solvault/internal/ledger"
	"github.com/aminovt/solvault/internal/service"
	"github.com/aminovt/solvault/internal/store"
)

var errorStatusMap = map[error]int{
	service.ErrInvalidDataProvided:     http.StatusBadRequest,
	service.ErrUnknownOperation:        http.StatusBadRequest,
	service.ErrSignatureInvalid:        http.StatusUnauthorized,
	service.ErrRequestNotFresh:         http.StatusUnauthorized,
	service.ErrTokenIsExpiredOrInvalid: http.StatusUnauthorized,

	ledger.ErrAlreadyInitialized:   http.StatusConflict,
	ledger.ErrVaultNotFound:        http.StatusNotFound,
	ledger.ErrBumpMismatch:         http.StatusConflict,
	ledger.ErrInsufficientFunds:    http.StatusUnprocessableEntity,
	ledger.ErrArithmeticOverflow:   http.StatusUnprocessableEntity,
	ledger.ErrZeroAmount:           http.StatusBadRequest,
	ledger.ErrUnauthorizedTransfer: http.StatusForbidden,
	ledger.ErrDerivationExhausted:  http.StatusUnprocessableEntity,

	store.ErrBuildingSQLQuery:      http.StatusInternalServerError,
	store.ErrExecutingQuery:        http.StatusInternalServerError,
	store.ErrExecutingStatement:    http.StatusInternalServerError,
	store.ErrBeginningTransaction:  http.StatusInternalServerError,
	store.ErrCommittingTransaction: http.StatusInternalServerError,
	store.ErrScanningRow:           http.StatusInternalServerError,
}

func statusFromError(err error) int {
	for target, status := range errorStatusMap {
		if errors.Is(err, target) {
			return status
		}
	}
	return http.StatusInternalServerError
}
