// Package messaging publishes committed membership changes to RabbitMQ.
package messaging

import (
	"context"
	"time"

	"github.com/oksasatya/go-ddd-membership-api/internal/application"
)

// Broker is the subset of helpers.RabbitPublisher the publisher needs.
type Broker interface {
	PublishJSON(ctx context.Context, messageID string, body any) error
	Ping(ctx context.Context) error
}

// EventPublisher sends application events as persistent JSON messages.
type EventPublisher struct {
	broker  Broker
	timeout time.Duration
}

func NewEventPublisher(broker Broker) *EventPublisher {
	return &EventPublisher{broker: broker, timeout: 5 * time.Second}
}

func (p *EventPublisher) Publish(ctx context.Context, e application.Event) error {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), p.timeout)
	defer cancel()
	return p.broker.PublishJSON(ctx, e.ID, e)
}

func (p *EventPublisher) Name() string { return "rabbitmq" }

func (p *EventPublisher) Check(ctx context.Context) error { return p.broker.Ping(ctx) }

var (
	_ application.EventPublisher    = (*EventPublisher)(nil)
	_ application.HealthContributor = (*EventPublisher)(nil)
)
