package usecase

import (
	"context"
	"time"

	"portfolio-backend/internal/domain"
)

const (
	ServiceName    = "Portfolio Backend"
	ServiceVersion = "1.0.0"
)

type healthUsecase struct {
	now func() time.Time
}

func NewHealthUsecase() domain.HealthUsecase {
	return &healthUsecase{now: time.Now}
}

func (u *healthUsecase) Check(ctx context.Context) domain.HealthStatus {
	return domain.HealthStatus{
		Status:    "OK",
		Timestamp: u.now(),
		Service:   ServiceName,
		Version:   ServiceVersion,
	}
}
