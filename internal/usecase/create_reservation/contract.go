package create_reservation

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/internal/notification"
)

// ReservationRepository интерфейс репозитория бронирований
type ReservationRepository interface {
	Create(ctx context.Context, reservation *domain.Reservation) (*domain.Reservation, error)
	GetApprovedByDate(ctx context.Context, date time.Time) ([]*domain.Reservation, error)
}

// SettingsProvider интерфейс сервиса настроек
type SettingsProvider interface {
	GetSystemSettings(ctx context.Context) *domain.SystemSettings
	GetTimeSlotSettings(ctx context.Context) *domain.Schedule
}

// AlternativesFinder интерфейс поиска альтернативных дат
type AlternativesFinder interface {
	Suggest(ctx context.Context, date time.Time, startTime, endTime string) ([]domain.AlternativeDate, error)
}

// Notifier интерфейс отправки уведомлений. Emit не блокирует и не возвращает ошибок.
type Notifier interface {
	Emit(events ...notification.Event)
}

// CacheInvalidator сбрасывает кэш альтернатив после изменения занятости
type CacheInvalidator interface {
	Invalidate(ctx context.Context)
}

// Metrics интерфейс доменных метрик
type Metrics interface {
	ObserveValidation(availability string, valid bool)
	ObserveTransition(to string)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
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
