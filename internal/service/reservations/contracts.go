package reservations

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	reservationRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/reservation"
	"github.com/m04kA/SMC-ReservationService/internal/notification"
)

// ReservationRepository интерфейс репозитория бронирований
type ReservationRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Reservation, error)
	GetByFilter(ctx context.Context, filter domain.ReservationFilter) ([]*domain.Reservation, error)
	GetApprovedByDate(ctx context.Context, date time.Time) ([]*domain.Reservation, error)
	UpdateStatus(ctx context.Context, id int64, update reservationRepo.StatusUpdate) error
}

// SettingsProvider интерфейс сервиса настроек
type SettingsProvider interface {
	GetSystemSettings(ctx context.Context) *domain.SystemSettings
}

// Notifier интерфейс отправки уведомлений
type Notifier interface {
	Emit(events ...notification.Event)
}

// CacheInvalidator сбрасывает кэш альтернатив после изменения занятости
type CacheInvalidator interface {
	Invalidate(ctx context.Context)
}

// Metrics интерфейс доменных метрик
type Metrics interface {
	ObserveTransition(to string)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
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
