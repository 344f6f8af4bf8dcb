package application

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	EventUserCreated        = "user.created"
	EventMembershipLinked   = "membership.linked"
	EventMembershipUnlinked = "membership.unlinked"
)

// Event announces a committed change that affects a user's view.
type Event struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	UserID     int64     `json:"user_id"`
	AccountID  int64     `json:"account_id,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

func newEvent(eventType string, userID, accountID int64) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		UserID:     userID,
		AccountID:  accountID,
		OccurredAt: time.Now().UTC(),
	}
}

// EventPublisher delivers events to downstream consumers.
type EventPublisher interface {
	Publish(ctx context.Context, e Event) error
}

// publish is best effort: the change is already committed, so a delivery
// failure is logged and swallowed.
func publish(ctx context.Context, pub EventPublisher, logger *logrus.Logger, e Event) {
	if pub == nil {
		return
	}
	if err := pub.Publish(ctx, e); err != nil && logger != nil {
		logger.WithError(err).WithFields(logrus.Fields{
			"event_type": e.Type,
			"user_id":    e.UserID,
			"account_id": e.AccountID,
		}).Warn("publish event failed")
	}
}
