package account

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
	storageaccount "github.com/carson-networks/movicar-ledger/internal/storage/account"
)

type mockAccountService struct {
	mock.Mock
}

func (m *mockAccountService) CreateAccount(ctx context.Context, acc service.NewAccount) (int64, error) {
	args := m.Called(ctx, acc)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockAccountService) GetAccount(ctx context.Context, id int64) (*service.Account, error) {
	args := m.Called(ctx, id)
	acc, _ := args.Get(0).(*service.Account)
	return acc, args.Error(1)
}

func (m *mockAccountService) ListAccounts(ctx context.Context, cursor *service.AccountCursor) ([]service.Account, *service.AccountCursor, error) {
	args := m.Called(ctx, cursor)
	accounts, _ := args.Get(0).([]service.Account)
	next, _ := args.Get(1).(*service.AccountCursor)
	return accounts, next, args.Error(2)
}

func newTestAPI(t *testing.T, svc *mockAccountService) humatest.TestAPI {
	t.Helper()
	_, api := humatest.New(t)
	NewCreateAccountHandler(svc).Register(api)
	NewGetAccountHandler(svc).Register(api)
	NewListAccountsHandler(svc).Register(api)
	return api
}

func cashAccount() service.Account {
	return service.Account{
		ID:          1,
		Code:        "1000",
		Name:        "Cash",
		AccountType: ledger.AccountTypeAsset,
		Balance:     decimal.RequireFromString("1000"),
		CreatedAt:   time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
	}
}

// -- create --

func TestHTTP_CreateAccount_Success(t *testing.T) {
	svc := new(mockAccountService)
	svc.On("CreateAccount", mock.Anything, service.NewAccount{
		Code:        "4000",
		Name:        "Rental income",
		AccountType: ledger.AccountTypeIncome,
	}).Return(int64(8), nil)

	resp := newTestAPI(t, svc).Post("/v1/account", CreateAccountBody{
		Code:        "4000",
		Name:        "Rental income",
		AccountType: "income",
	})

	assert.Equal(t, http.StatusCreated, resp.Code)
	var body CreateAccountResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, int64(8), body.ID)
	svc.AssertExpectations(t)
}

func TestHTTP_CreateAccount_UnknownType(t *testing.T) {
	svc := new(mockAccountService)

	resp := newTestAPI(t, svc).Post("/v1/account", map[string]any{
		"code":        "4000",
		"name":        "Rental income",
		"accountType": "revenue",
	})

	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
	svc.AssertNotCalled(t, "CreateAccount", mock.Anything, mock.Anything)
}

func TestHTTP_CreateAccount_DuplicateCode(t *testing.T) {
	svc := new(mockAccountService)
	svc.On("CreateAccount", mock.Anything, mock.Anything).Return(int64(0), storageaccount.ErrDuplicateCode)

	resp := newTestAPI(t, svc).Post("/v1/account", CreateAccountBody{
		Code:        "1000",
		Name:        "Cash",
		AccountType: "asset",
	})

	assert.Equal(t, http.StatusConflict, resp.Code)
}

func TestParseCreateAccountInput(t *testing.T) {
	acc, err := parseCreateAccountInput(&CreateAccountInput{Body: CreateAccountBody{
		Code:        "2100",
		Name:        "Customer deposits",
		AccountType: "liability",
	}})
	require.NoError(t, err)
	assert.Equal(t, ledger.AccountTypeLiability, acc.AccountType)

	_, err = parseCreateAccountInput(&CreateAccountInput{Body: CreateAccountBody{AccountType: "bogus"}})
	assert.Error(t, err)
}

// -- get --

func TestHTTP_GetAccount_Success(t *testing.T) {
	svc := new(mockAccountService)
	acc := cashAccount()
	svc.On("GetAccount", mock.Anything, int64(1)).Return(&acc, nil)

	resp := newTestAPI(t, svc).Get("/v1/account/1")

	assert.Equal(t, http.StatusOK, resp.Code)
	var body Account
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "1000.00", body.Balance)
	assert.Equal(t, "asset", body.AccountType)
	assert.Equal(t, "2026-03-01T09:00:00Z", body.CreatedAt)
}

func TestHTTP_GetAccount_NotFound(t *testing.T) {
	svc := new(mockAccountService)
	svc.On("GetAccount", mock.Anything, int64(5)).Return(nil, ledger.ErrAccountNotFound)

	resp := newTestAPI(t, svc).Get("/v1/account/5")

	assert.Equal(t, http.StatusNotFound, resp.Code)
}

// -- list --

func TestHTTP_ListAccounts_DefaultLimit(t *testing.T) {
	svc := new(mockAccountService)
	svc.On("ListAccounts", mock.Anything, &service.AccountCursor{Position: 0, Limit: 20}).
		Return([]service.Account{cashAccount()}, nil, nil)

	resp := newTestAPI(t, svc).Get("/v1/accounts")

	assert.Equal(t, http.StatusOK, resp.Code)
	var body ListAccountsResponseBody
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Len(t, body.Accounts, 1)
	assert.Nil(t, body.NextCursor)
}

func TestHTTP_ListAccounts_NextCursor(t *testing.T) {
	svc := new(mockAccountService)
	svc.On("ListAccounts", mock.Anything, &service.AccountCursor{Position: 2, Limit: 1}).
		Return([]service.Account{cashAccount()}, &service.AccountCursor{Position: 3, Limit: 1}, nil)

	resp := newTestAPI(t, svc).Get("/v1/accounts?position=2&limit=1")

	assert.Equal(t, http.StatusOK, resp.Code)
	var body ListAccountsResponseBody
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.NotNil(t, body.NextCursor)
	assert.Equal(t, 3, body.NextCursor.Position)
}

func TestHTTP_ListAccounts_Empty(t *testing.T) {
	svc := new(mockAccountService)
	svc.On("ListAccounts", mock.Anything, mock.Anything).Return(nil, nil, nil)

	resp := newTestAPI(t, svc).Get("/v1/accounts")

	assert.Equal(t, http.StatusOK, resp.Code)
	var body ListAccountsResponseBody
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.NotNil(t, body.Accounts)
	assert.Empty(t, body.Accounts)
}

func TestHTTP_ListAccounts_StorageError(t *testing.T) {
	svc := new(mockAccountService)
	svc.On("ListAccounts", mock.Anything, mock.Anything).Return(nil, nil, errors.New("connection refused"))

	resp := newTestAPI(t, svc).Get("/v1/accounts")

	assert.Equal(t, http.StatusInternalServerError, resp.Code)
}
