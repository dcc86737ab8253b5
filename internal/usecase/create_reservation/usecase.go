package create_reservation

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/internal/notification"
	"github.com/m04kA/SMC-ReservationService/internal/validation"
	"github.com/m04kA/SMC-ReservationService/pkg/types"
)

// UseCase use case для создания бронирования
type UseCase struct {
	reservationRepo ReservationRepository
	settings        SettingsProvider
	validator       *validation.Validator
	alternatives    AlternativesFinder
	notifier        Notifier
	cache           CacheInvalidator
	metrics         Metrics
	txManager       TransactionManager
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case. alternatives, cache и metrics могут быть nil.
func NewUseCase(
	reservationRepo ReservationRepository,
	settings SettingsProvider,
	validator *validation.Validator,
	alternatives AlternativesFinder,
	notifier Notifier,
	cache CacheInvalidator,
	metrics Metrics,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		reservationRepo: reservationRepo,
		settings:        settings,
		validator:       validator,
		alternatives:    alternatives,
		notifier:        notifier,
		cache:           cache,
		metrics:         metrics,
		txManager:       txManager,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Execute выполняет use case создания бронирования.
// Проверка и запись выполняются в одной сериализуемой транзакции,
// поэтому две параллельные заявки не могут занять одно и то же место.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	if req == nil {
		return nil, fmt.Errorf("%w: request is required", ErrInvalidInput)
	}

	uc.logger.Info("CreateReservation: requester=%s, date=%s, time=%s-%s",
		req.RequesterEmail, req.Date.Format(domain.DateFormat), req.StartTime, req.EndTime)

	// 1. Получаем текущее время и настройки
	now := uc.timeProvider.Now()
	settings := uc.settings.GetSystemSettings(ctx)
	schedule := uc.settings.GetTimeSlotSettings(ctx)
	date := uc.validator.Calendar().Normalize(req.Date)

	var (
		result  *validation.Result
		created *domain.Reservation
	)

	// 2. Проверка и сохранение в сериализуемой транзакции
	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 2.1. Подтвержденные бронирования на дату с блокировкой (FOR UPDATE)
		reservations, err := uc.reservationRepo.GetApprovedByDate(txCtx, date)
		if err != nil {
			uc.logger.Error("CreateReservation: failed to get reservations: %v", err)
			return fmt.Errorf("%w: failed to get reservations: %v", ErrInternal, err)
		}

		// 2.2. Полная проверка заявки
		result = uc.validator.Validate(validation.Input{
			Request:      req.toValidation(),
			Schedule:     schedule,
			Settings:     settings,
			Reservations: reservations,
			Now:          now,
		})
		if !result.IsValid {
			return ErrValidationFailed
		}

		// 2.3. Без модерации бронирование сразу подтверждается
		status := domain.StatusPending
		if !settings.RequireApproval {
			status = domain.StatusApproved
		}

		reservation := &domain.Reservation{
			RequesterName:  strings.TrimSpace(req.RequesterName),
			RequesterEmail: strings.TrimSpace(req.RequesterEmail),
			Date:           date,
			StartTime:      types.TimeString(req.StartTime),
			EndTime:        types.TimeString(req.EndTime),
			Purpose:        strings.TrimSpace(req.Purpose),
			Attendees:      req.Attendees,
			Type:           strings.TrimSpace(req.Type),
			Notes:          req.Notes,
			Status:         status,
		}

		// 2.4. Сохраняем бронирование
		created, err = uc.reservationRepo.Create(txCtx, reservation)
		if err != nil {
			uc.logger.Error("CreateReservation: failed to create reservation: %v", err)
			return fmt.Errorf("%w: failed to create reservation: %v", ErrInternal, err)
		}
		return nil
	})

	if result != nil && uc.metrics != nil {
		uc.metrics.ObserveValidation(string(result.AvailabilityStatus), result.IsValid)
	}

	if err != nil {
		if errors.Is(err, ErrValidationFailed) {
			uc.logger.Warn("CreateReservation: validation failed: %s", strings.Join(result.ErrorMessages(), "; "))
			result.RecommendedAlternatives = uc.suggest(ctx, req)
			return &Response{Validation: result}, ErrValidationFailed
		}
		return nil, err
	}

	uc.logger.Info("CreateReservation: successfully created reservation id=%d, status=%s", created.ID, created.Status)

	// 3. После коммита: метрики, кэш, уведомления
	if uc.metrics != nil {
		uc.metrics.ObserveTransition(string(created.Status))
	}
	if created.CountsForOccupancy() && uc.cache != nil {
		uc.cache.Invalidate(ctx)
	}
	uc.notifier.Emit(notification.Events(created, settings.Email, true, "", now)...)

	return &Response{Reservation: created, Validation: result}, nil
}

// suggest ищет альтернативы. Ошибка поиска не влияет на ответ.
func (uc *UseCase) suggest(ctx context.Context, req *Request) []domain.AlternativeDate {
	if uc.alternatives == nil || req.Date.IsZero() {
		return []domain.AlternativeDate{}
	}
	alternatives, err := uc.alternatives.Suggest(ctx, req.Date, req.StartTime, req.EndTime)
	if err != nil {
		uc.logger.Warn("CreateReservation: failed to find alternatives: %v", err)
		return []domain.AlternativeDate{}
	}
	return alternatives
}
