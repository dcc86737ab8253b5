package validate_reservation

import (
	"context"

	"github.com/m04kA/SMC-ReservationService/internal/validation"
)

type ValidateReservationUseCase interface {
	Execute(ctx context.Context, req *validation.Request) (*validation.Result, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
