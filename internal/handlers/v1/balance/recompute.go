package balance

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/carson-networks/movicar-ledger/internal/handlers/httperr"
	"github.com/carson-networks/movicar-ledger/internal/handlers/v1/transaction"
	"github.com/carson-networks/movicar-ledger/internal/ledger"
	"github.com/carson-networks/movicar-ledger/internal/logging"
)

type RecomputeInput struct {
	Body RecomputeBody
}

type RecomputeBody struct {
	AccountIDs []int64 `json:"accountIDs,omitempty" doc:"Accounts to recompute; duplicates are ignored and an empty list recomputes every account"`
}

type RecomputeResponse struct {
	Balances []transaction.Balance `json:"balances" doc:"Recomputed balances in ascending account order"`
}

type RecomputeOutput struct {
	Body RecomputeResponse
}

type balanceRecomputer interface {
	Recompute(ctx context.Context, accountIDs []int64) ([]ledger.Result, error)
}

// RecomputeHandler handles POST /v1/balance/recompute.
type RecomputeHandler struct {
	BalanceService balanceRecomputer
}

func NewRecomputeHandler(svc balanceRecomputer) *RecomputeHandler {
	return &RecomputeHandler{BalanceService: svc}
}

func (h *RecomputeHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "recompute-balances",
		Method:      http.MethodPost,
		Path:        "/v1/balance/recompute",
		Summary:     "Recompute balances",
		Description: "Rebuilds stored account balances from completed transaction lines.",
		Tags:        []string{"Balances"},
	}, h.handle)
}

func (h *RecomputeHandler) handle(ctx context.Context, input *RecomputeInput) (*RecomputeOutput, error) {
	logging.AddData(ctx, "requestedAccounts", len(input.Body.AccountIDs))

	stopTimer := logging.Time(ctx, "recomputeMs")
	results, err := h.BalanceService.Recompute(ctx, input.Body.AccountIDs)
	stopTimer()
	if err != nil {
		return nil, httperr.From(err, "failed to recompute balances")
	}

	return &RecomputeOutput{Body: RecomputeResponse{Balances: transaction.FromResults(results)}}, nil
}
