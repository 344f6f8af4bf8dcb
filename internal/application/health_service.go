package application

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	StatusUp   = "UP"
	StatusDown = "DOWN"
)

// HealthContributor is one dependency taking part in the aggregate health.
type HealthContributor interface {
	Name() string
	Check(ctx context.Context) error
}

type HealthReport struct {
	Status     string            `json:"status"`
	Components map[string]string `json:"components"`
}

func (r HealthReport) Up() bool { return r.Status == StatusUp }

type HealthService struct {
	Contributors []HealthContributor
	Timeout      time.Duration
	Logger       *logrus.Logger
}

func NewHealthService(timeout time.Duration, logger *logrus.Logger, contributors ...HealthContributor) *HealthService {
	return &HealthService{Contributors: contributors, Timeout: timeout, Logger: logger}
}

// Check is UP only when every contributor answers without error.
func (s *HealthService) Check(ctx context.Context) HealthReport {
	if s.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.Timeout)
		defer cancel()
	}

	report := HealthReport{Status: StatusUp, Components: make(map[string]string, len(s.Contributors))}
	for _, c := range s.Contributors {
		if err := c.Check(ctx); err != nil {
			report.Status = StatusDown
			report.Components[c.Name()] = StatusDown
			if s.Logger != nil {
				s.Logger.WithError(err).WithField("component", c.Name()).Warn("health check failed")
			}
			continue
		}
		report.Components[c.Name()] = StatusUp
	}
	return report
}
