package get_settings

import (
	"context"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

type SettingsService interface {
	GetSystemSettings(ctx context.Context) *domain.SystemSettings
	GetTimeSlotSettings(ctx context.Context) *domain.Schedule
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
