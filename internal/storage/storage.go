package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	"github.com/stephenafamo/bob"

	"github.com/carson-networks/movicar-ledger/internal/config"
	"github.com/carson-networks/movicar-ledger/internal/ledger"
	"github.com/carson-networks/movicar-ledger/internal/storage/account"
	"github.com/carson-networks/movicar-ledger/internal/storage/memory"
	"github.com/carson-networks/movicar-ledger/internal/storage/transaction"
)

const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Storage is the entry point to the datastore: Reader for queries outside a
// transaction and Write to open a unit of work.
type Storage struct {
	Reader *Reader

	begin    func(ctx context.Context) (*Writer, error)
	close    func() error
	calcOpts []ledger.Option
}

// New builds the Storage selected by env.Storage.Driver.
func New(env *config.Config) (*Storage, error) {
	switch env.Storage.Driver {
	case DriverMemory:
		return NewMemoryStorage(memory.New()), nil
	case DriverPostgres, "":
		db, err := OpenPostgres(env)
		if err != nil {
			return nil, err
		}
		return NewPostgresStorage(db), nil
	}
	return nil, fmt.Errorf("unknown storage driver %q", env.Storage.Driver)
}

// OpenPostgres opens and pings the configured database.
func OpenPostgres(env *config.Config) (*sql.DB, error) {
	db, err := sql.Open("postgres", env.PostgresURL())
	if err != nil {
		return nil, fmt.Errorf("open postgres connection: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	db.SetMaxIdleConns(env.Postgres.MaxIdleConns)
	db.SetMaxOpenConns(env.Postgres.MaxOpenConns)
	db.SetConnMaxLifetime(15 * time.Minute)

	return db, nil
}

func NewPostgresStorage(db *sql.DB) *Storage {
	exec := bob.NewDB(db)
	return &Storage{
		Reader: NewReader(exec),
		begin: func(ctx context.Context) (*Writer, error) {
			tx, err := exec.BeginTx(ctx, nil)
			if err != nil {
				return nil, err
			}
			return NewWriter(&tx, account.NewWriter(&tx), transaction.NewWriter(&tx)), nil
		},
		close: db.Close,
	}
}

func NewMemoryStorage(store *memory.Store) *Storage {
	return &Storage{
		Reader: &Reader{
			Accounts:     store.Accounts(),
			Transactions: store.Transactions(),
		},
		begin: func(ctx context.Context) (*Writer, error) {
			tx, err := store.Begin(ctx)
			if err != nil {
				return nil, err
			}
			return NewWriter(tx, tx.Accounts(), tx.Transactions()), nil
		},
		close: func() error { return nil },
	}
}

// WithCalculatorOptions sets the options of every calculator handed out by
// writers of this storage.
func (s *Storage) WithCalculatorOptions(opts ...ledger.Option) *Storage {
	s.calcOpts = opts
	return s
}

// Write opens a write transaction. The caller must Commit or Rollback it.
func (s *Storage) Write(ctx context.Context) (*Writer, error) {
	w, err := s.begin(ctx)
	if err != nil {
		return nil, err
	}
	w.calcOpts = s.calcOpts
	return w, nil
}

func (s *Storage) Close() error {
	return s.close()
}
