// Package migrations embeds the ledger schema and applies it with golang-migrate.
package migrations

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed *.sql
var files embed.FS

// Up applies every pending migration and reports the schema version before and after.
func Up(db *sql.DB) (preVersion, postVersion uint, err error) {
	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return 0, 0, fmt.Errorf("postgres.WithInstance: %w", err)
	}

	source, err := iofs.New(files, ".")
	if err != nil {
		return 0, 0, fmt.Errorf("iofs.New: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, "postgres", driver)
	if err != nil {
		return 0, 0, fmt.Errorf("migrate.NewWithInstance: %w", err)
	}

	preVersion, _, err = m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		preVersion = 0
	} else if err != nil {
		return 0, 0, fmt.Errorf("m.Version.preMigrationVersion: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return preVersion, 0, fmt.Errorf("m.Up: %w", err)
	}

	postVersion, _, err = m.Version()
	if err != nil {
		return preVersion, 0, fmt.Errorf("m.Version.postMigrationVersion: %w", err)
	}
	return preVersion, postVersion, nil
}
