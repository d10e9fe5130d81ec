package transaction

import (
	"context"
	"net/http"
	"time"

	"github.com/aarondl/opt/omit"
	"github.com/danielgtaylor/huma/v2"

	"github.com/carson-networks/movicar-ledger/internal/handlers/httperr"
	"github.com/carson-networks/movicar-ledger/internal/ledger"
	"github.com/carson-networks/movicar-ledger/internal/logging"
	"github.com/carson-networks/movicar-ledger/internal/service"
)

// ListTransactionsCursor represents a pagination cursor in responses.
// It bundles position, limit, and maxCreationTime so subsequent pages use consistent parameters.
type ListTransactionsCursor struct {
	Position        int    `json:"position" doc:"Numeric offset position for the next page"`
	Limit           int    `json:"limit" doc:"Page size used for this cursor"`
	MaxCreationTime string `json:"maxCreationTime" doc:"Upper bound on createdAt locked in from the first page"`
}

// ListTransactionsInput is the Huma input for listing transactions. The cursor
// fields are echoed back from a previous response's nextCursor.
type ListTransactionsInput struct {
	Status          string `query:"status" doc:"Only transactions in this status: pending, completed or cancelled"`
	AccountID       int64  `query:"accountID" doc:"Only transactions with a line on this account"`
	Position        int    `query:"position" minimum:"0" doc:"Numeric offset position"`
	Limit           int    `query:"limit" minimum:"0" maximum:"100" doc:"Page size, default 20"`
	MaxCreationTime string `query:"maxCreationTime" doc:"RFC3339 upper bound on createdAt from a previous cursor"`
}

// ListTransactionsResponseBody is the response body for listing transactions.
type ListTransactionsResponseBody struct {
	Transactions []Transaction           `json:"transactions" doc:"Page of transactions, newest first"`
	NextCursor   *ListTransactionsCursor `json:"nextCursor,omitempty" doc:"Cursor to fetch the next page, absent on the last page"`
}

// ListTransactionsOutput is the Huma output for listing transactions.
type ListTransactionsOutput struct {
	Body ListTransactionsResponseBody
}

// transactionLister is the interface for listing transactions.
type transactionLister interface {
	ListTransactions(ctx context.Context, query service.TransactionQuery) ([]service.Transaction, *service.TransactionCursor, error)
}

// ListTransactionsHandler handles GET /v1/transactions.
type ListTransactionsHandler struct {
	TransactionService transactionLister
}

// NewListTransactionsHandler creates a new ListTransactionsHandler.
func NewListTransactionsHandler(svc transactionLister) *ListTransactionsHandler {
	return &ListTransactionsHandler{TransactionService: svc}
}

// Register registers the list transactions endpoint with the Huma API.
func (h *ListTransactionsHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "list-transactions",
		Method:      http.MethodGet,
		Path:        "/v1/transactions",
		Summary:     "List transactions",
		Description: "Returns a paginated list of transactions using cursor-based pagination, optionally filtered by status and account.",
		Tags:        []string{"Transactions"},
	}, h.handle)
}

// parseListTransactionsInput parses and validates the API input. Without
// maxCreationTime the first page is requested and the service picks the bound.
func parseListTransactionsInput(input *ListTransactionsInput) (service.TransactionQuery, error) {
	var query service.TransactionQuery

	if input.Status != "" {
		status, err := ledger.ParseTransactionStatus(input.Status)
		if err != nil {
			return query, huma.NewError(http.StatusBadRequest, "invalid status", err)
		}
		query.Status = omit.From(status)
	}
	if input.AccountID < 0 {
		return query, huma.NewError(http.StatusBadRequest, "accountID must be positive")
	}
	if input.AccountID > 0 {
		query.AccountID = omit.From(input.AccountID)
	}

	if input.MaxCreationTime == "" {
		if input.Position > 0 || input.Limit > 0 {
			query.Cursor = &service.TransactionCursor{
				Position:        input.Position,
				Limit:           input.Limit,
				MaxCreationTime: time.Now().UTC(),
			}
		}
		return query, nil
	}

	maxCreationTime, err := time.Parse(time.RFC3339, input.MaxCreationTime)
	if err != nil {
		return query, huma.NewError(http.StatusBadRequest, "invalid maxCreationTime", err)
	}
	query.Cursor = &service.TransactionCursor{
		Position:        input.Position,
		Limit:           input.Limit,
		MaxCreationTime: maxCreationTime,
	}
	return query, nil
}

func (h *ListTransactionsHandler) handle(ctx context.Context, input *ListTransactionsInput) (*ListTransactionsOutput, error) {
	logData := logging.GetLogData(ctx)
	query, err := parseListTransactionsInput(input)
	if err != nil {
		return nil, err
	}

	var stopTimer func()
	if logData != nil {
		stopTimer = logData.AddTiming("listTransactionsMs")
	}
	transactions, nextCursor, err := h.TransactionService.ListTransactions(ctx, query)
	if stopTimer != nil {
		stopTimer()
	}
	if err != nil {
		return nil, httperr.From(err, "failed to list transactions")
	}

	if logData != nil {
		logData.AddData("transactionCount", len(transactions))
	}

	resp := ListTransactionsResponseBody{
		Transactions: make([]Transaction, len(transactions)),
	}
	for i, tx := range transactions {
		resp.Transactions[i] = fromService(tx)
	}

	if nextCursor != nil {
		resp.NextCursor = &ListTransactionsCursor{
			Position:        nextCursor.Position,
			Limit:           nextCursor.Limit,
			MaxCreationTime: nextCursor.MaxCreationTime.Format(time.RFC3339Nano),
		}
	}

	return &ListTransactionsOutput{Body: resp}, nil
}
