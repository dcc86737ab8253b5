package validate_reservation

import (
	"context"
	"fmt"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/internal/validation"
)

// UseCase проверка заявки без сохранения (для формы бронирования)
type UseCase struct {
	reservationRepo ReservationRepository
	settings        SettingsProvider
	validator       *validation.Validator
	alternatives    AlternativesFinder
	metrics         Metrics
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	reservationRepo ReservationRepository,
	settings SettingsProvider,
	validator *validation.Validator,
	alternatives AlternativesFinder,
	metrics Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		reservationRepo: reservationRepo,
		settings:        settings,
		validator:       validator,
		alternatives:    alternatives,
		metrics:         metrics,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Execute проверяет заявку. Непрошедшая проверка не является ошибкой:
// результат возвращается с заполненными Errors и альтернативами.
func (uc *UseCase) Execute(ctx context.Context, req *validation.Request) (*validation.Result, error) {
	if req == nil {
		return nil, fmt.Errorf("%w: request is required", ErrInvalidInput)
	}

	now := uc.timeProvider.Now()
	settings := uc.settings.GetSystemSettings(ctx)
	schedule := uc.settings.GetTimeSlotSettings(ctx)

	var reservations []*domain.Reservation
	if !req.Date.IsZero() {
		var err error
		reservations, err = uc.reservationRepo.GetApprovedByDate(ctx, uc.validator.Calendar().Normalize(req.Date))
		if err != nil {
			uc.logger.Error("ValidateReservation: failed to get reservations: %v", err)
			return nil, fmt.Errorf("%w: failed to get reservations: %v", ErrInternal, err)
		}
	}

	result := uc.validator.Validate(validation.Input{
		Request:      *req,
		Schedule:     schedule,
		Settings:     settings,
		Reservations: reservations,
		Now:          now,
	})

	if uc.metrics != nil {
		uc.metrics.ObserveValidation(string(result.AvailabilityStatus), result.IsValid)
	}

	if !result.IsValid && !req.Date.IsZero() && uc.alternatives != nil {
		alternatives, err := uc.alternatives.Suggest(ctx, req.Date, req.StartTime, req.EndTime)
		if err != nil {
			uc.logger.Warn("ValidateReservation: failed to find alternatives: %v", err)
		} else {
			result.RecommendedAlternatives = alternatives
		}
	}

	uc.logger.Info("ValidateReservation: date=%s, time=%s-%s, valid=%t, status=%s",
		req.Date.Format(domain.DateFormat), req.StartTime, req.EndTime, result.IsValid, result.AvailabilityStatus)

	return result, nil
}
