package operator

import (
	"context"

	"github.com/davecgh/go-spew/spew"
	"github.com/sirupsen/logrus"

	"github.com/carson-networks/movicar-ledger/internal/operator/actions"
	"github.com/carson-networks/movicar-ledger/internal/storage"
)

// WriteOpener opens the unit of work an action runs in.
type WriteOpener interface {
	Write(ctx context.Context) (*storage.Writer, error)
}

// Operator is the worker that processes items from the queue.
type Operator struct {
	storage WriteOpener
	queue   chan ActionItem
	log     logrus.FieldLogger
}

func NewOperator(s WriteOpener, queue chan ActionItem, log logrus.FieldLogger) *Operator {
	return &Operator{
		storage: s,
		queue:   queue,
		log:     log,
	}
}

// Run listens to the queue and processes items. Exits when the queue is closed.
func (o *Operator) Run() {
	for item := range o.queue {
		o.processItem(item)
	}
}

func (o *Operator) processItem(item ActionItem) {
	log := o.log.WithField("action", item.action.ActionName())

	// The caller gave up while the item was queued.
	if err := item.ctx.Err(); err != nil {
		item.response <- ActionItemResponse{err: err}
		return
	}

	// Once started the action runs to completion even if the caller stops waiting.
	ctx := context.WithoutCancel(item.ctx)

	if debugEnabled(o.log) {
		log.WithField("payload", spew.Sdump(item.action)).Debug("Operator.processItem.start")
	}

	writer, err := o.storage.Write(ctx)
	if err != nil {
		log.WithError(err).Error("Operator.processItem.beginFailed")
		item.response <- ActionItemResponse{err: err}
		return
	}

	err = item.action.Perform(ctx, writer)
	if err != nil {
		if rbErr := writer.Rollback(); rbErr != nil {
			log.WithError(rbErr).Error("Operator.processItem.rollbackFailed")
		}
		log.WithError(err).Info("Operator.processItem.rolledBack")
		item.response <- ActionItemResponse{err: err}
		return
	}

	if err = writer.Commit(); err != nil {
		log.WithError(err).Error("Operator.processItem.commitFailed")
		item.response <- ActionItemResponse{err: err}
		return
	}

	log.Debug("Operator.processItem.committed")
	item.response <- ActionItemResponse{}
}

func debugEnabled(log logrus.FieldLogger) bool {
	switch l := log.(type) {
	case *logrus.Logger:
		return l.IsLevelEnabled(logrus.DebugLevel)
	case *logrus.Entry:
		return l.Logger.IsLevelEnabled(logrus.DebugLevel)
	}
	return false
}

type ActionItem struct {
	ctx      context.Context
	action   actions.IAction
	response chan ActionItemResponse
}

type ActionItemResponse struct {
	err error
}
