package domain

import (
	"context"
	"time"
)

type HealthStatus struct {
	Status    string
	Timestamp time.Time
	Service   string
	Version   string
}

type HealthUsecase interface {
	Check(ctx context.Context) HealthStatus
}
