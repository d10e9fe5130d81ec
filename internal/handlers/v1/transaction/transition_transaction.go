package transaction

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/carson-networks/movicar-ledger/internal/handlers/httperr"
	"github.com/carson-networks/movicar-ledger/internal/ledger"
	"github.com/carson-networks/movicar-ledger/internal/logging"
)

type TransitionTransactionInput struct {
	ID int64 `path:"id" minimum:"1" doc:"Transaction ID"`
}

// TransitionTransactionResponse is returned by approve and cancel.
type TransitionTransactionResponse struct {
	ID       int64     `json:"id" doc:"Transaction ID"`
	Status   string    `json:"status" doc:"New transaction status"`
	Balances []Balance `json:"balances" doc:"Recomputed balances of every account on the transaction"`
}

type TransitionTransactionOutput struct {
	Body TransitionTransactionResponse
}

type transactionTransitioner interface {
	ApproveTransaction(ctx context.Context, id int64) ([]ledger.Result, error)
	CancelTransaction(ctx context.Context, id int64) ([]ledger.Result, error)
}

// TransitionTransactionHandler handles POST /v1/transaction/{id}/approve and
// POST /v1/transaction/{id}/cancel.
type TransitionTransactionHandler struct {
	TransactionService transactionTransitioner
}

func NewTransitionTransactionHandler(svc transactionTransitioner) *TransitionTransactionHandler {
	return &TransitionTransactionHandler{TransactionService: svc}
}

func (h *TransitionTransactionHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "approve-transaction",
		Method:      http.MethodPost,
		Path:        "/v1/transaction/{id}/approve",
		Summary:     "Approve a transaction",
		Description: "Moves a pending transaction to completed and recomputes the balances of its accounts.",
		Tags:        []string{"Transactions"},
	}, h.approve)

	huma.Register(api, huma.Operation{
		OperationID: "cancel-transaction",
		Method:      http.MethodPost,
		Path:        "/v1/transaction/{id}/cancel",
		Summary:     "Cancel a transaction",
		Description: "Cancels a pending or completed transaction and recomputes the balances of its accounts.",
		Tags:        []string{"Transactions"},
	}, h.cancel)
}

func (h *TransitionTransactionHandler) approve(ctx context.Context, input *TransitionTransactionInput) (*TransitionTransactionOutput, error) {
	return h.transition(ctx, input.ID, ledger.StatusCompleted, h.TransactionService.ApproveTransaction)
}

func (h *TransitionTransactionHandler) cancel(ctx context.Context, input *TransitionTransactionInput) (*TransitionTransactionOutput, error) {
	return h.transition(ctx, input.ID, ledger.StatusCancelled, h.TransactionService.CancelTransaction)
}

func (h *TransitionTransactionHandler) transition(
	ctx context.Context,
	id int64,
	to ledger.TransactionStatus,
	apply func(context.Context, int64) ([]ledger.Result, error),
) (*TransitionTransactionOutput, error) {
	logging.AddData(ctx, "transactionID", id)
	logging.AddData(ctx, "targetStatus", string(to))

	stopTimer := logging.Time(ctx, "transitionTransactionMs")
	results, err := apply(ctx, id)
	stopTimer()
	if err != nil {
		return nil, httperr.From(err, "failed to update transaction")
	}

	return &TransitionTransactionOutput{
		Body: TransitionTransactionResponse{
			ID:       id,
			Status:   string(to),
			Balances: FromResults(results),
		},
	}, nil
}
