package get_available_slots

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

// ReservationRepository интерфейс репозитория бронирований
type ReservationRepository interface {
	// GetApprovedByDate получает подтвержденные бронирования на дату
	GetApprovedByDate(ctx context.Context, date time.Time) ([]*domain.Reservation, error)
}

// SettingsProvider интерфейс сервиса настроек
type SettingsProvider interface {
	GetSystemSettings(ctx context.Context) *domain.SystemSettings
	GetTimeSlotSettings(ctx context.Context) *domain.Schedule
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
