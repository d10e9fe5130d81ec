package balance

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/carson-networks/movicar-ledger/internal/handlers/httperr"
	"github.com/carson-networks/movicar-ledger/internal/logging"
	"github.com/carson-networks/movicar-ledger/internal/service"
)

type TrialBalanceInput struct{}

type TrialBalanceAccount struct {
	ID          int64  `json:"id" doc:"Account ID"`
	Code        string `json:"code" doc:"Chart of accounts code"`
	Name        string `json:"name" doc:"Account name"`
	AccountType string `json:"accountType" doc:"Account type"`
	Balance     string `json:"balance" doc:"Stored balance"`
}

type TrialBalanceResponse struct {
	Accounts          []TrialBalanceAccount `json:"accounts" doc:"Every account ordered by code"`
	DebitNormalTotal  string                `json:"debitNormalTotal" doc:"Sum of asset and expense balances"`
	CreditNormalTotal string                `json:"creditNormalTotal" doc:"Sum of liability, equity and income balances"`
	Balanced          bool                  `json:"balanced" doc:"True when both totals agree"`
}

type TrialBalanceOutput struct {
	Body TrialBalanceResponse
}

type trialBalancer interface {
	TrialBalance(ctx context.Context) (*service.TrialBalance, error)
}

// TrialBalanceHandler handles GET /v1/balance/trial.
type TrialBalanceHandler struct {
	BalanceService trialBalancer
}

func NewTrialBalanceHandler(svc trialBalancer) *TrialBalanceHandler {
	return &TrialBalanceHandler{BalanceService: svc}
}

func (h *TrialBalanceHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "trial-balance",
		Method:      http.MethodGet,
		Path:        "/v1/balance/trial",
		Summary:     "Trial balance",
		Description: "Lists every account with its stored balance and checks that debit-normal and credit-normal totals agree.",
		Tags:        []string{"Balances"},
	}, h.handle)
}

func (h *TrialBalanceHandler) handle(ctx context.Context, _ *TrialBalanceInput) (*TrialBalanceOutput, error) {
	stopTimer := logging.Time(ctx, "trialBalanceMs")
	report, err := h.BalanceService.TrialBalance(ctx)
	stopTimer()
	if err != nil {
		return nil, httperr.From(err, "failed to build trial balance")
	}

	logging.AddData(ctx, "accountCount", len(report.Accounts))
	logging.AddData(ctx, "balanced", report.Balanced())

	resp := TrialBalanceResponse{
		Accounts:          make([]TrialBalanceAccount, len(report.Accounts)),
		DebitNormalTotal:  report.DebitNormalTotal.StringFixed(2),
		CreditNormalTotal: report.CreditNormalTotal.StringFixed(2),
		Balanced:          report.Balanced(),
	}
	for i, acc := range report.Accounts {
		resp.Accounts[i] = TrialBalanceAccount{
			ID:          acc.ID,
			Code:        acc.Code,
			Name:        acc.Name,
			AccountType: string(acc.AccountType),
			Balance:     acc.Balance.StringFixed(2),
		}
	}

	return &TrialBalanceOutput{Body: resp}, nil
}
