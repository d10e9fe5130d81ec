// Package httperr maps ledger and storage errors onto huma status errors.
package httperr

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/carson-networks/movicar-ledger/internal/ledger"
	"github.com/carson-networks/movicar-ledger/internal/operator"
	"github.com/carson-networks/movicar-ledger/internal/storage/account"
	"github.com/carson-networks/movicar-ledger/internal/storage/pgerr"
)

// From classifies err. Client errors carry err's message; anything else is a
// 500 with msg as its title.
func From(err error, msg string) error {
	var validationErr *ledger.ValidationError
	switch {
	case errors.As(err, &validationErr):
		return huma.NewError(http.StatusBadRequest, validationErr.Error())
	case errors.Is(err, ledger.ErrAccountNotFound), errors.Is(err, ledger.ErrTransactionNotFound):
		return huma.NewError(http.StatusNotFound, err.Error())
	case errors.Is(err, ledger.ErrInvalidTransition), errors.Is(err, account.ErrDuplicateCode):
		return huma.NewError(http.StatusConflict, err.Error())
	case errors.Is(err, operator.ErrStopped):
		return huma.NewError(http.StatusServiceUnavailable, "ledger is shutting down", err)
	case errors.Is(err, pgerr.ErrConflict):
		return huma.NewError(http.StatusServiceUnavailable, "concurrent write conflict, retry the request", err)
	// The operator may still commit an action whose caller timed out, so a 504
	// does not mean the write was discarded.
	case errors.Is(err, context.DeadlineExceeded):
		return huma.NewError(http.StatusGatewayTimeout, msg, err)
	}
	return huma.NewError(http.StatusInternalServerError, msg, err)
}
