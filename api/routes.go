package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humago"
	"github.com/sirupsen/logrus"

	"github.com/carson-networks/movicar-ledger/internal/handlers/v1/account"
	"github.com/carson-networks/movicar-ledger/internal/handlers/v1/balance"
	"github.com/carson-networks/movicar-ledger/internal/handlers/v1/status"
	"github.com/carson-networks/movicar-ledger/internal/handlers/v1/transaction"
	"github.com/carson-networks/movicar-ledger/internal/logging"
	"github.com/carson-networks/movicar-ledger/internal/service"
)

type Rest struct {
	Logger  *logrus.Logger
	Port    string
	Service *service.Service
}

// Register adds every v1 operation to api.
func Register(api huma.API, svc *service.Service) {
	account.NewCreateAccountHandler(svc.Account).Register(api)
	account.NewGetAccountHandler(svc.Account).Register(api)
	account.NewListAccountsHandler(svc.Account).Register(api)

	transaction.NewCreateTransactionHandler(svc.Transaction).Register(api)
	transaction.NewGetTransactionHandler(svc.Transaction).Register(api)
	transaction.NewListTransactionsHandler(svc.Transaction).Register(api)
	transaction.NewTransitionTransactionHandler(svc.Transaction).Register(api)

	balance.NewRecomputeHandler(svc.Balance).Register(api)
	balance.NewTrialBalanceHandler(svc.Balance).Register(api)
}

// Handler builds the HTTP handler: the plain status probe plus the huma API.
func (r *Rest) Handler() http.Handler {
	mux := http.NewServeMux()

	statusHandler := status.NewHandler()
	mux.HandleFunc("/status", logging.LoggingWrapper("Status", r.Logger, statusHandler.Handler))

	api := humago.New(mux, huma.DefaultConfig("Movicar Ledger", "1.0.0"))
	api.UseMiddleware(logging.Middleware(r.Logger))
	Register(api, r.Service)

	return mux
}

// Serve listens until ctx is cancelled, then shuts the server down gracefully.
func (r *Rest) Serve(ctx context.Context) error {
	server := http.Server{
		Addr:              ":" + r.Port,
		Handler:           r.Handler(),
		ReadTimeout:       time.Duration(30) * time.Second,
		WriteTimeout:      time.Duration(30) * time.Second,
		IdleTimeout:       time.Duration(10) * time.Second,
		ReadHeaderTimeout: time.Duration(10) * time.Second,
	}

	shutdownDone := make(chan struct{})
	go func() {
		defer close(shutdownDone)
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			r.Logger.WithError(err).Error("HttpServer.Serve.shutdown error")
		}
	}()

	r.Logger.WithField("port", r.Port).Info("HttpServer.Serve.listening")
	err := server.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		r.Logger.WithError(err).Error("HttpServer.Serve.listen error")
		return err
	}
	<-shutdownDone
	r.Logger.Info("HttpServer.Serve.shutting down")
	return nil
}
