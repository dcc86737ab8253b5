package find_alternative_dates

import (
	"context"

	findAlternativeDates "github.com/m04kA/SMC-ReservationService/internal/usecase/find_alternative_dates"
)

type FindAlternativeDatesUseCase interface {
	Execute(ctx context.Context, req *findAlternativeDates.Request) (*findAlternativeDates.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
