package settings

import (
	"context"

	settingsRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/settings"
)

// SettingsRepository интерфейс хранилища документов настроек
type SettingsRepository interface {
	GetSystemSettings(ctx context.Context) (*settingsRepo.SystemSettingsDocument, error)
	SaveSystemSettings(ctx context.Context, doc *settingsRepo.SystemSettingsDocument) error
	GetTimeSlotSettings(ctx context.Context) (*settingsRepo.TimeSlotDocument, error)
	SaveTimeSlotSettings(ctx context.Context, doc *settingsRepo.TimeSlotDocument) error
}

// CacheInvalidator сбрасывает кэш альтернативных дат
type CacheInvalidator interface {
	Invalidate(ctx context.Context)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
