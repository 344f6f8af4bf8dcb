package postgres

import "context"

type pinger interface {
	Ping(ctx context.Context) error
}

// HealthCheck reports database connectivity.
type HealthCheck struct {
	db pinger
}

func NewHealthCheck(db pinger) *HealthCheck { return &HealthCheck{db: db} }

func (h *HealthCheck) Name() string { return "postgres" }

func (h *HealthCheck) Check(ctx context.Context) error { return h.db.Ping(ctx) }
