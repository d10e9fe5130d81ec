package commands

import (
	"github.com/sirupsen/logrus"

	"github.com/carson-networks/movicar-ledger/internal/config"
	"github.com/carson-networks/movicar-ledger/internal/ledger"
	"github.com/carson-networks/movicar-ledger/internal/logging"
	"github.com/carson-networks/movicar-ledger/internal/operator"
	"github.com/carson-networks/movicar-ledger/internal/service"
	"github.com/carson-networks/movicar-ledger/internal/storage"
)

// app is the wired ledger shared by every command.
type app struct {
	config   *config.Config
	logger   *logrus.Logger
	storage  *storage.Storage
	operator *operator.OperatorDelegator
	service  *service.Service
}

func newApp(configFile string) (*app, error) {
	env, err := config.Load(configFile)
	if err != nil {
		return nil, err
	}
	logger := logging.SetupLogging(env.Log.Level)

	store, err := storage.New(env)
	if err != nil {
		return nil, err
	}
	store.WithCalculatorOptions(
		ledger.WithStrictAccounts(env.Ledger.StrictAccounts),
		ledger.WithLogger(logger),
	)

	op := operator.NewOperatorDelegator(store, env.Operator.Workers, env.Operator.QueueSize, logger)
	op.Start()

	logger.WithFields(logrus.Fields{
		"storageDriver":  env.Storage.Driver,
		"workers":        env.Operator.Workers,
		"strictAccounts": env.Ledger.StrictAccounts,
	}).Info("App.newApp.ready")

	return &app{
		config:   env,
		logger:   logger,
		storage:  store,
		operator: op,
		service:  service.NewService(store.Reader, op),
	}, nil
}

// close drains the operator before releasing the datastore.
func (a *app) close() {
	a.operator.Stop()
	if err := a.storage.Close(); err != nil {
		a.logger.WithError(err).Error("App.close.storage")
	}
}
