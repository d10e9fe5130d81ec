package main

import (
	"github.com/sirupsen/logrus"

	server_config "github.com/carson-networks/movicar-ledger/internal/config"
	"github.com/carson-networks/movicar-ledger/internal/logging"
	"github.com/carson-networks/movicar-ledger/internal/storage"
	"github.com/carson-networks/movicar-ledger/internal/storage/migrations"
)

func main() {
	env, err := server_config.ProcessEnvironmentVariables()
	if err != nil {
		logrus.WithError(err).Fatal("ProcessEnvironmentVariables")
		return
	}
	logger := logging.SetupLogging(env.Log.Level)

	db, err := storage.OpenPostgres(env)
	if err != nil {
		logger.WithError(err).Fatal("storage.OpenPostgres")
		return
	}
	defer db.Close()

	preMigrationVersion, postMigrationVersion, err := migrations.Up(db)
	if err != nil {
		logger.WithError(err).Fatal("migrations.Up")
		return
	}

	logger.WithFields(logrus.Fields{
		"preMigrationVersion":  preMigrationVersion,
		"postMigrationVersion": postMigrationVersion,
	}).Info("Migration status")
}
