package update_settings

import (
	"context"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	settingsRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/settings"
)

type SettingsService interface {
	UpdateSystemSettings(ctx context.Context, doc *settingsRepo.SystemSettingsDocument) (*domain.SystemSettings, error)
	UpdateTimeSlotSettings(ctx context.Context, doc *settingsRepo.TimeSlotDocument) (*domain.Schedule, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
