// Package memory is a process-local ledger store. It offers no transactional
// isolation of its own, so writers are serialized: a Tx holds the single writer
// lock from Begin until Commit or Rollback and works on a staged copy of the state.
package memory

import (
	"context"
	"errors"
	"maps"
	"sync"

	"github.com/carson-networks/movicar-ledger/internal/storage/account"
	"github.com/carson-networks/movicar-ledger/internal/storage/transaction"
)

var ErrTxDone = errors.New("memory: transaction already committed or rolled back")

type state struct {
	accounts     map[int64]account.Account
	codes        map[string]int64
	transactions map[int64]transaction.Transaction
	lines        []transaction.Line

	nextAccountID     int64
	nextTransactionID int64
	nextLineID        int64
}

func newState() *state {
	return &state{
		accounts:     make(map[int64]account.Account),
		codes:        make(map[string]int64),
		transactions: make(map[int64]transaction.Transaction),
	}
}

// clone copies everything mutable. Lines are append-only so the slice is copied
// but never rewritten in place.
func (s *state) clone() *state {
	return &state{
		accounts:          maps.Clone(s.accounts),
		codes:             maps.Clone(s.codes),
		transactions:      maps.Clone(s.transactions),
		lines:             append([]transaction.Line(nil), s.lines...),
		nextAccountID:     s.nextAccountID,
		nextTransactionID: s.nextTransactionID,
		nextLineID:        s.nextLineID,
	}
}

// source hands out the state a view operates on together with its release func.
type source interface {
	acquire() (*state, func())
}

type Store struct {
	// writer is a one-slot semaphore held by the active Tx.
	writer chan struct{}
	mu     sync.RWMutex
	state  *state
}

func New() *Store {
	return &Store{
		writer: make(chan struct{}, 1),
		state:  newState(),
	}
}

func (s *Store) acquire() (*state, func()) {
	s.mu.RLock()
	return s.state, s.mu.RUnlock
}

// Accounts returns a reader over committed accounts.
func (s *Store) Accounts() account.IAccountReader {
	return &accounts{src: s}
}

// Transactions returns a reader over committed transactions.
func (s *Store) Transactions() transaction.ITransactionReader {
	return &transactions{src: s}
}

// Begin blocks until no other writer is active or ctx ends, and opens a staged
// transaction.
func (s *Store) Begin(ctx context.Context) (*Tx, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	select {
	case s.writer <- struct{}{}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	s.mu.RLock()
	staged := s.state.clone()
	s.mu.RUnlock()

	return &Tx{store: s, staged: staged}, nil
}

type Tx struct {
	store  *Store
	staged *state
	done   bool
}

func (t *Tx) acquire() (*state, func()) {
	return t.staged, func() {}
}

func (t *Tx) Accounts() account.IAccountWriter {
	return &accounts{src: t}
}

func (t *Tx) Transactions() transaction.ITransactionWriter {
	return &transactions{src: t}
}

func (t *Tx) Commit(_ context.Context) error {
	if t.done {
		return ErrTxDone
	}
	t.done = true

	t.store.mu.Lock()
	t.store.state = t.staged
	t.store.mu.Unlock()

	<-t.store.writer
	return nil
}

func (t *Tx) Rollback(_ context.Context) error {
	if t.done {
		return ErrTxDone
	}
	t.done = true
	<-t.store.writer
	return nil
}
