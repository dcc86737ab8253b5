package find_alternative_dates

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

// ReservationRepository интерфейс репозитория бронирований
type ReservationRepository interface {
	GetApprovedByDate(ctx context.Context, date time.Time) ([]*domain.Reservation, error)
}

// SettingsProvider интерфейс сервиса настроек. Методы не возвращают ошибок:
// при сбое хранилища отдаются значения по умолчанию.
type SettingsProvider interface {
	GetSystemSettings(ctx context.Context) *domain.SystemSettings
	GetTimeSlotSettings(ctx context.Context) *domain.Schedule
}

// Cache кэш найденных альтернатив
type Cache interface {
	Get(ctx context.Context, key string) ([]domain.AlternativeDate, bool)
	Set(ctx context.Context, key string, dates []domain.AlternativeDate)
}

// Metrics интерфейс метрик кэша
type Metrics interface {
	ObserveCache(hit bool)
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
