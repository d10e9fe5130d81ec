package transaction

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/movicar-ledger/internal/handlers/httperr"
	"github.com/carson-networks/movicar-ledger/internal/ledger"
	"github.com/carson-networks/movicar-ledger/internal/logging"
	"github.com/carson-networks/movicar-ledger/internal/service"
)

// CreateTransactionInput is the Huma input for posting a transaction.
type CreateTransactionInput struct {
	Body CreateTransactionBody
}

// CreateTransactionBody is the request body fields for posting a transaction.
type CreateTransactionBody struct {
	Description     string     `json:"description" minLength:"1" doc:"Free-text description"`
	Reference       string     `json:"reference,omitempty" doc:"External reference, e.g. a rental or invoice number"`
	Status          string     `json:"status,omitempty" enum:"pending,completed" doc:"Initial status, defaults to pending"`
	TransactionDate string     `json:"transactionDate,omitempty" format:"date-time" doc:"RFC3339 transaction date, defaults to now"`
	Lines           []LineBody `json:"lines" doc:"At least two lines whose debits equal their credits"`
}

// LineBody is a single line of a posted transaction. Exactly one of debit and
// credit carries a positive amount.
type LineBody struct {
	AccountID int64  `json:"accountID" doc:"Account ID"`
	Debit     string `json:"debit,omitempty" doc:"Decimal debit amount"`
	Credit    string `json:"credit,omitempty" doc:"Decimal credit amount"`
	Memo      string `json:"memo,omitempty" doc:"Line memo"`
}

// CreateTransactionResponse is the response body for posting a transaction.
type CreateTransactionResponse struct {
	ID       int64     `json:"id" doc:"Created transaction ID"`
	Balances []Balance `json:"balances" doc:"Recomputed balances, empty unless posted as completed"`
}

// CreateTransactionOutput is the response for posting a transaction.
type CreateTransactionOutput struct {
	Status int
	Body   CreateTransactionResponse
}

// transactionPoster is the interface for posting transactions.
type transactionPoster interface {
	PostTransaction(ctx context.Context, tx service.NewTransaction) (*service.PostedTransaction, error)
}

// CreateTransactionHandler handles POST /v1/transaction.
type CreateTransactionHandler struct {
	TransactionService transactionPoster
}

// NewCreateTransactionHandler creates a new CreateTransactionHandler.
func NewCreateTransactionHandler(svc transactionPoster) *CreateTransactionHandler {
	return &CreateTransactionHandler{TransactionService: svc}
}

// Register registers the create transaction endpoint with the Huma API.
func (h *CreateTransactionHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "create-transaction",
		Method:      http.MethodPost,
		Path:        "/v1/transaction",
		Summary:     "Post a transaction",
		Description: "Posts a balanced transaction with its lines. A completed transaction updates the balances of its accounts immediately.",
		Tags:        []string{"Transactions"},
	}, h.handle)
}

func parseAmount(raw string) (decimal.Decimal, error) {
	if raw == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(raw)
}

// parseLine turns a two-column line into a tagged entry. A zero column counts as unset.
func parseLine(n int, line LineBody) (ledger.Entry, error) {
	debit, err := parseAmount(line.Debit)
	if err != nil {
		return ledger.Entry{}, huma.NewError(http.StatusBadRequest, fmt.Sprintf("line %d: invalid debit", n), err)
	}
	credit, err := parseAmount(line.Credit)
	if err != nil {
		return ledger.Entry{}, huma.NewError(http.StatusBadRequest, fmt.Sprintf("line %d: invalid credit", n), err)
	}

	if debit.IsZero() == credit.IsZero() {
		return ledger.Entry{}, huma.NewError(http.StatusBadRequest, fmt.Sprintf("line %d: exactly one of debit or credit must be set", n))
	}

	entry := ledger.Credit(line.AccountID, credit)
	if !debit.IsZero() {
		entry = ledger.Debit(line.AccountID, debit)
	}
	if err := ledger.CheckAmount(n, entry.Amount); err != nil {
		return ledger.Entry{}, huma.NewError(http.StatusBadRequest, err.Error())
	}
	entry.Memo = line.Memo
	return entry, nil
}

// parseCreateTransactionInput parses the API input. Balance and account checks
// happen when the transaction is posted.
func parseCreateTransactionInput(input *CreateTransactionInput) (service.NewTransaction, error) {
	tx := service.NewTransaction{
		Description: input.Body.Description,
		Reference:   input.Body.Reference,
		Status:      ledger.StatusPending,
		Entries:     make([]ledger.Entry, 0, len(input.Body.Lines)),
	}

	if input.Body.Status != "" {
		status, err := ledger.ParseTransactionStatus(input.Body.Status)
		if err != nil {
			return service.NewTransaction{}, huma.NewError(http.StatusBadRequest, "invalid status", err)
		}
		tx.Status = status
	}

	if input.Body.TransactionDate != "" {
		transactionDate, err := time.Parse(time.RFC3339, input.Body.TransactionDate)
		if err != nil {
			return service.NewTransaction{}, huma.NewError(http.StatusBadRequest, "invalid transactionDate", err)
		}
		tx.TransactionDate = transactionDate
	}

	for i, line := range input.Body.Lines {
		entry, err := parseLine(i+1, line)
		if err != nil {
			return service.NewTransaction{}, err
		}
		tx.Entries = append(tx.Entries, entry)
	}

	return tx, nil
}

func (h *CreateTransactionHandler) handle(ctx context.Context, input *CreateTransactionInput) (*CreateTransactionOutput, error) {
	logData := logging.GetLogData(ctx)

	tx, err := parseCreateTransactionInput(input)
	if err != nil {
		return nil, err
	}

	var stopTimer func()
	if logData != nil {
		stopTimer = logData.AddTiming("postTransactionMs")
		logData.AddData("lineCount", len(tx.Entries))
		logData.AddData("status", string(tx.Status))
	}
	posted, err := h.TransactionService.PostTransaction(ctx, tx)
	if stopTimer != nil {
		stopTimer()
	}
	if err != nil {
		return nil, httperr.From(err, "failed to post transaction")
	}

	if logData != nil {
		logData.AddData("transactionID", posted.ID)
	}

	return &CreateTransactionOutput{
		Status: http.StatusCreated,
		Body: CreateTransactionResponse{
			ID:       posted.ID,
			Balances: FromResults(posted.Balances),
		},
	}, nil
}
