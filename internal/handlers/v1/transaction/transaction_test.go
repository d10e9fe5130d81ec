package transaction

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/carson-networks/movicar-ledger/internal/ledger"
	"github.com/carson-networks/movicar-ledger/internal/service"
)

type mockTransactionService struct {
	mock.Mock
}

func (m *mockTransactionService) PostTransaction(ctx context.Context, tx service.NewTransaction) (*service.PostedTransaction, error) {
	args := m.Called(ctx, tx)
	posted, _ := args.Get(0).(*service.PostedTransaction)
	return posted, args.Error(1)
}

func (m *mockTransactionService) GetTransaction(ctx context.Context, id int64) (*service.Transaction, error) {
	args := m.Called(ctx, id)
	tx, _ := args.Get(0).(*service.Transaction)
	return tx, args.Error(1)
}

func (m *mockTransactionService) ListTransactions(ctx context.Context, query service.TransactionQuery) ([]service.Transaction, *service.TransactionCursor, error) {
	args := m.Called(ctx, query)
	txs, _ := args.Get(0).([]service.Transaction)
	next, _ := args.Get(1).(*service.TransactionCursor)
	return txs, next, args.Error(2)
}

func (m *mockTransactionService) ApproveTransaction(ctx context.Context, id int64) ([]ledger.Result, error) {
	args := m.Called(ctx, id)
	results, _ := args.Get(0).([]ledger.Result)
	return results, args.Error(1)
}

func (m *mockTransactionService) CancelTransaction(ctx context.Context, id int64) ([]ledger.Result, error) {
	args := m.Called(ctx, id)
	results, _ := args.Get(0).([]ledger.Result)
	return results, args.Error(1)
}

// newTestAPI registers every transaction handler against a humatest API.
func newTestAPI(t *testing.T, svc *mockTransactionService) humatest.TestAPI {
	t.Helper()
	_, api := humatest.New(t)
	NewCreateTransactionHandler(svc).Register(api)
	NewGetTransactionHandler(svc).Register(api)
	NewListTransactionsHandler(svc).Register(api)
	NewTransitionTransactionHandler(svc).Register(api)
	return api
}

func rentalBody() CreateTransactionBody {
	return CreateTransactionBody{
		Description: "Rental RNT-204",
		Reference:   "RNT-204",
		Status:      "completed",
		Lines: []LineBody{
			{AccountID: 4, Debit: "1200.00"},
			{AccountID: 7, Credit: "1000.00", Memo: "rent"},
			{AccountID: 9, Credit: "200.00", Memo: "tax"},
		},
	}
}

// -- parse unit tests --

func TestParseCreateTransactionInput_ValidInput(t *testing.T) {
	body := rentalBody()
	body.TransactionDate = "2026-05-01T08:00:00Z"

	tx, err := parseCreateTransactionInput(&CreateTransactionInput{Body: body})

	require.NoError(t, err)
	assert.Equal(t, ledger.StatusCompleted, tx.Status)
	assert.True(t, tx.TransactionDate.Equal(time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC)))
	require.Len(t, tx.Entries, 3)
	assert.Equal(t, ledger.SideDebit, tx.Entries[0].Side)
	assert.Equal(t, ledger.SideCredit, tx.Entries[1].Side)
	assert.True(t, tx.Entries[1].Amount.Equal(decimal.RequireFromString("1000")))
	assert.Equal(t, "tax", tx.Entries[2].Memo)
}

func TestParseCreateTransactionInput_DefaultsToPending(t *testing.T) {
	body := rentalBody()
	body.Status = ""

	tx, err := parseCreateTransactionInput(&CreateTransactionInput{Body: body})

	require.NoError(t, err)
	assert.Equal(t, ledger.StatusPending, tx.Status)
	assert.True(t, tx.TransactionDate.IsZero())
}

func TestParseLine(t *testing.T) {
	tests := []struct {
		name    string
		line    LineBody
		side    ledger.Side
		wantErr bool
	}{
		{name: "debit", line: LineBody{AccountID: 1, Debit: "5"}, side: ledger.SideDebit},
		{name: "credit with zero debit", line: LineBody{AccountID: 1, Debit: "0", Credit: "5"}, side: ledger.SideCredit},
		{name: "both sides", line: LineBody{AccountID: 1, Debit: "5", Credit: "5"}, wantErr: true},
		{name: "neither side", line: LineBody{AccountID: 1}, wantErr: true},
		{name: "bad amount", line: LineBody{AccountID: 1, Debit: "five"}, wantErr: true},
		{name: "negative amount", line: LineBody{AccountID: 1, Credit: "-5"}, wantErr: true},
		{name: "sub-cent amount", line: LineBody{AccountID: 1, Debit: "0.004"}, wantErr: true},
		{name: "trailing zeros", line: LineBody{AccountID: 1, Debit: "5.000"}, side: ledger.SideDebit},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry, err := parseLine(1, tt.line)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.side, entry.Side)
		})
	}
}

// -- create --

func TestHTTP_CreateTransaction_Success(t *testing.T) {
	svc := new(mockTransactionService)
	svc.On("PostTransaction", mock.Anything, mock.MatchedBy(func(tx service.NewTransaction) bool {
		return tx.Reference == "RNT-204" && len(tx.Entries) == 3 && tx.Status == ledger.StatusCompleted
	})).Return(&service.PostedTransaction{
		ID: 31,
		Balances: []ledger.Result{
			{AccountID: 4, Balance: decimal.RequireFromString("1000"), Found: true},
		},
	}, nil)

	resp := newTestAPI(t, svc).Post("/v1/transaction", rentalBody())

	assert.Equal(t, http.StatusCreated, resp.Code)
	var body CreateTransactionResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, int64(31), body.ID)
	require.Len(t, body.Balances, 1)
	assert.Equal(t, "1000.00", body.Balances[0].Balance)
	svc.AssertExpectations(t)
}

func TestHTTP_CreateTransaction_Unbalanced(t *testing.T) {
	svc := new(mockTransactionService)
	svc.On("PostTransaction", mock.Anything, mock.Anything).
		Return(nil, &ledger.ValidationError{Reason: "debits (10.00) != credits (9.00)"})

	body := rentalBody()
	body.Lines = []LineBody{{AccountID: 1, Debit: "10"}, {AccountID: 2, Credit: "9"}}
	resp := newTestAPI(t, svc).Post("/v1/transaction", body)

	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestHTTP_CreateTransaction_BothSides(t *testing.T) {
	svc := new(mockTransactionService)

	body := rentalBody()
	body.Lines[0].Credit = "1200.00"
	resp := newTestAPI(t, svc).Post("/v1/transaction", body)

	assert.Equal(t, http.StatusBadRequest, resp.Code)
	svc.AssertNotCalled(t, "PostTransaction", mock.Anything, mock.Anything)
}

func TestHTTP_CreateTransaction_SubCentAmount(t *testing.T) {
	svc := new(mockTransactionService)

	body := rentalBody()
	body.Lines = []LineBody{
		{AccountID: 1, Debit: "0.005"},
		{AccountID: 2, Debit: "0.005"},
		{AccountID: 3, Credit: "0.01"},
	}
	resp := newTestAPI(t, svc).Post("/v1/transaction", body)

	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Contains(t, resp.Body.String(), "decimal places")
	svc.AssertNotCalled(t, "PostTransaction", mock.Anything, mock.Anything)
}

func TestHTTP_CreateTransaction_CancelledStatusRejected(t *testing.T) {
	svc := new(mockTransactionService)

	body := rentalBody()
	body.Status = "cancelled"
	resp := newTestAPI(t, svc).Post("/v1/transaction", body)

	// Huma's enum schema validation rejects this before the handler runs.
	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
	svc.AssertNotCalled(t, "PostTransaction", mock.Anything, mock.Anything)
}

// -- get --

func TestHTTP_GetTransaction_Success(t *testing.T) {
	svc := new(mockTransactionService)
	at := time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC)
	svc.On("GetTransaction", mock.Anything, int64(31)).Return(&service.Transaction{
		ID:              31,
		Description:     "Rental RNT-204",
		Status:          ledger.StatusPending,
		TransactionDate: at,
		CreatedAt:       at,
		UpdatedAt:       at,
		Lines: []service.Line{
			{ID: 1, AccountID: 4, Debit: decimal.RequireFromString("50"), Credit: decimal.Zero},
			{ID: 2, AccountID: 7, Debit: decimal.Zero, Credit: decimal.RequireFromString("50")},
		},
	}, nil)

	resp := newTestAPI(t, svc).Get("/v1/transaction/31")

	assert.Equal(t, http.StatusOK, resp.Code)
	var body Transaction
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "pending", body.Status)
	require.Len(t, body.Lines, 2)
	assert.Equal(t, "50.00", body.Lines[0].Debit)
	assert.Equal(t, "0.00", body.Lines[0].Credit)
}

func TestHTTP_GetTransaction_NotFound(t *testing.T) {
	svc := new(mockTransactionService)
	svc.On("GetTransaction", mock.Anything, int64(2)).Return(nil, ledger.ErrTransactionNotFound)

	resp := newTestAPI(t, svc).Get("/v1/transaction/2")

	assert.Equal(t, http.StatusNotFound, resp.Code)
}

// -- list --

func TestHTTP_ListTransactions_Filters(t *testing.T) {
	svc := new(mockTransactionService)
	svc.On("ListTransactions", mock.Anything, mock.MatchedBy(func(q service.TransactionQuery) bool {
		status, hasStatus := q.Status.Get()
		accountID, hasAccount := q.AccountID.Get()
		return hasStatus && status == ledger.StatusCompleted &&
			hasAccount && accountID == 4 &&
			q.Cursor == nil
	})).Return([]service.Transaction{{ID: 1, Status: ledger.StatusCompleted}}, nil, nil)

	resp := newTestAPI(t, svc).Get("/v1/transactions?status=completed&accountID=4")

	assert.Equal(t, http.StatusOK, resp.Code)
	var body ListTransactionsResponseBody
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Len(t, body.Transactions, 1)
	assert.Nil(t, body.NextCursor)
	svc.AssertExpectations(t)
}

func TestHTTP_ListTransactions_CursorRoundTrip(t *testing.T) {
	svc := new(mockTransactionService)
	maxCreation := time.Date(2026, 5, 1, 8, 0, 0, 123000000, time.UTC)
	svc.On("ListTransactions", mock.Anything, mock.MatchedBy(func(q service.TransactionQuery) bool {
		return q.Cursor != nil && q.Cursor.Position == 20 && q.Cursor.Limit == 20 && q.Cursor.MaxCreationTime.Equal(maxCreation)
	})).Return([]service.Transaction{{ID: 1}}, &service.TransactionCursor{Position: 40, Limit: 20, MaxCreationTime: maxCreation}, nil)

	resp := newTestAPI(t, svc).Get("/v1/transactions?position=20&limit=20&maxCreationTime=2026-05-01T08:00:00.123Z")

	assert.Equal(t, http.StatusOK, resp.Code)
	var body ListTransactionsResponseBody
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.NotNil(t, body.NextCursor)
	assert.Equal(t, 40, body.NextCursor.Position)
	assert.Equal(t, "2026-05-01T08:00:00.123Z", body.NextCursor.MaxCreationTime)
}

func TestHTTP_ListTransactions_InvalidStatus(t *testing.T) {
	svc := new(mockTransactionService)

	resp := newTestAPI(t, svc).Get("/v1/transactions?status=void")

	assert.Equal(t, http.StatusBadRequest, resp.Code)
	svc.AssertNotCalled(t, "ListTransactions", mock.Anything, mock.Anything)
}

func TestHTTP_ListTransactions_ServiceError(t *testing.T) {
	svc := new(mockTransactionService)
	svc.On("ListTransactions", mock.Anything, mock.Anything).Return(nil, nil, errors.New("timeout"))

	resp := newTestAPI(t, svc).Get("/v1/transactions")

	assert.Equal(t, http.StatusInternalServerError, resp.Code)
}

// -- approve / cancel --

func TestHTTP_ApproveTransaction(t *testing.T) {
	svc := new(mockTransactionService)
	svc.On("ApproveTransaction", mock.Anything, int64(31)).Return([]ledger.Result{
		{AccountID: 4, Balance: decimal.RequireFromString("50"), Found: true},
		{AccountID: 7, Balance: decimal.RequireFromString("50"), Found: true},
	}, nil)

	resp := newTestAPI(t, svc).Post("/v1/transaction/31/approve")

	assert.Equal(t, http.StatusOK, resp.Code)
	var body TransitionTransactionResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "completed", body.Status)
	assert.Len(t, body.Balances, 2)
}

func TestHTTP_CancelTransaction_InvalidTransition(t *testing.T) {
	svc := new(mockTransactionService)
	svc.On("CancelTransaction", mock.Anything, int64(31)).
		Return(nil, ledger.TransitionError(ledger.StatusCancelled, ledger.StatusCancelled))

	resp := newTestAPI(t, svc).Post("/v1/transaction/31/cancel")

	assert.Equal(t, http.StatusConflict, resp.Code)
}

func TestHTTP_CancelTransaction_NotFound(t *testing.T) {
	svc := new(mockTransactionService)
	svc.On("CancelTransaction", mock.Anything, int64(8)).Return(nil, ledger.ErrTransactionNotFound)

	resp := newTestAPI(t, svc).Post("/v1/transaction/8/cancel")

	assert.Equal(t, http.StatusNotFound, resp.Code)
}
