// Package worker consumes membership events and keeps the user directory
// index in sync with the relational store.
package worker

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-membership-api/internal/application"
	"github.com/oksasatya/go-ddd-membership-api/pkg/api"
)

// Outcome tells the consumer loop how to settle a delivery.
type Outcome int

const (
	Ack Outcome = iota
	Reject
	Requeue
)

type UserLoader interface {
	GetUser(ctx context.Context, id int64) (api.User, error)
}

type UserIndexer interface {
	Index(ctx context.Context, u api.User) error
}

// Indexer reloads the user named by an event and writes it to the index. The
// store is the source of truth, so out of order events converge.
type Indexer struct {
	Users   UserLoader
	Index   UserIndexer
	Logger  *logrus.Logger
	Timeout time.Duration

	// OnSettled, when set, observes every settled delivery.
	OnSettled func(Outcome)
}

func NewIndexer(users UserLoader, index UserIndexer, logger *logrus.Logger) *Indexer {
	return &Indexer{Users: users, Index: index, Logger: logger, Timeout: 15 * time.Second}
}

func (w *Indexer) Handle(ctx context.Context, body []byte) Outcome {
	var e application.Event
	if err := json.Unmarshal(body, &e); err != nil || e.UserID == 0 {
		w.warn(err, logrus.Fields{"body": string(body)}, "bad message")
		return Reject
	}
	fields := logrus.Fields{"event_id": e.ID, "event_type": e.Type, "user_id": e.UserID}

	c, cancel := context.WithTimeout(ctx, w.Timeout)
	defer cancel()

	u, err := w.Users.GetUser(c, e.UserID)
	if errors.Is(err, application.ErrUserNotFound) {
		w.warn(nil, fields, "user gone, skipping")
		return Ack
	}
	if err != nil {
		w.warn(err, fields, "load user failed")
		return Requeue
	}
	if err := w.Index.Index(c, u); err != nil {
		w.warn(err, fields, "index user failed")
		return Requeue
	}
	if w.Logger != nil {
		w.Logger.WithFields(fields).Debug("user indexed")
	}
	return Ack
}

// Run settles every delivery until the channel closes or ctx is done.
func (w *Indexer) Run(ctx context.Context, msgs <-chan amqp.Delivery) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-msgs:
			if !ok {
				return
			}
			outcome := w.Handle(ctx, msg.Body)
			switch outcome {
			case Ack:
				_ = msg.Ack(false)
			case Reject:
				_ = msg.Nack(false, false)
			case Requeue:
				_ = msg.Nack(false, true)
			}
			if w.OnSettled != nil {
				w.OnSettled(outcome)
			}
		}
	}
}

func (o Outcome) String() string {
	switch o {
	case Ack:
		return "ack"
	case Reject:
		return "reject"
	case Requeue:
		return "requeue"
	}
	return "unknown"
}

func (w *Indexer) warn(err error, fields logrus.Fields, msg string) {
	if w.Logger == nil {
		return
	}
	entry := w.Logger.WithFields(fields)
	if err != nil {
		entry = entry.WithError(err)
	}
	entry.Warn(msg)
}
