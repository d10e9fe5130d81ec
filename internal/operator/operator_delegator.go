package operator

import (
	"context"
	"errors"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/carson-networks/movicar-ledger/internal/operator/actions"
)

const defaultQueueSize = 1000

// ErrStopped is returned by Process once Stop has been called.
var ErrStopped = errors.New("operator stopped")

// IOperator runs write actions. Handlers depend on this rather than the delegator.
type IOperator interface {
	Process(ctx context.Context, action actions.IAction) error
}

var _ IOperator = (*OperatorDelegator)(nil)

// OperatorDelegator manages the queue, starts/stops Operators (workers), and enqueues items.
type OperatorDelegator struct {
	storage    WriteOpener
	queue      chan ActionItem
	numWorkers int
	log        logrus.FieldLogger
	wg         sync.WaitGroup
	stopOnce   sync.Once

	// sendMu is held for reading around every send so Stop never closes the
	// queue under a sender.
	sendMu sync.RWMutex
	done   chan struct{}
}

func NewOperatorDelegator(s WriteOpener, numWorkers, queueSize int, log logrus.FieldLogger) *OperatorDelegator {
	if numWorkers < 1 {
		numWorkers = 1
	}
	if queueSize < 1 {
		queueSize = defaultQueueSize
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &OperatorDelegator{
		storage:    s,
		queue:      make(chan ActionItem, queueSize),
		numWorkers: numWorkers,
		log:        log,
		done:       make(chan struct{}),
	}
}

func (d *OperatorDelegator) Start() {
	for i := 0; i < d.numWorkers; i++ {
		d.wg.Add(1)
		op := NewOperator(d.storage, d.queue, d.log)
		go func() {
			defer d.wg.Done()
			op.Run()
		}()
	}
}

// Stop rejects new actions, closes the queue and waits for queued items to drain.
func (d *OperatorDelegator) Stop() {
	d.stopOnce.Do(func() {
		close(d.done)

		d.sendMu.Lock()
		close(d.queue)
		d.sendMu.Unlock()

		d.wg.Wait()
	})
}

// Process enqueues action and waits for it to be committed or rolled back.
// Result fields on the action are only valid when Process returns nil.
//
// If ctx ends while the action is still queued, the action is skipped. If it
// ends after a worker picked the action up, Process returns ctx.Err() without
// waiting but the worker still finishes the action, so the write may be
// committed even though the caller saw an error.
func (d *OperatorDelegator) Process(ctx context.Context, action actions.IAction) error {
	respCh := make(chan ActionItemResponse, 1)
	item := ActionItem{
		ctx:      ctx,
		action:   action,
		response: respCh,
	}

	if err := d.enqueue(ctx, item); err != nil {
		return err
	}

	select {
	case resp := <-respCh:
		return resp.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (d *OperatorDelegator) enqueue(ctx context.Context, item ActionItem) error {
	d.sendMu.RLock()
	defer d.sendMu.RUnlock()

	select {
	case <-d.done:
		return ErrStopped
	default:
	}

	select {
	case d.queue <- item:
		return nil
	case <-d.done:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}
