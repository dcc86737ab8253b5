package get_available_slots

import (
	"context"
	"fmt"

	"github.com/m04kA/SMC-ReservationService/internal/availability"
	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/internal/validation"
)

// UseCase use case для получения занятости слотов на дату
type UseCase struct {
	reservationRepo ReservationRepository
	settings        SettingsProvider
	calendar        *availability.Calendar
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	reservationRepo ReservationRepository,
	settings SettingsProvider,
	cal *availability.Calendar,
	logger Logger,
) *UseCase {
	return &UseCase{
		reservationRepo: reservationRepo,
		settings:        settings,
		calendar:        cal,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Execute выполняет use case получения слотов
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	// 1. Валидация входных данных
	if req == nil || req.Date.IsZero() {
		return nil, fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	date := uc.calendar.Normalize(req.Date)
	uc.logger.Info("GetAvailableSlots: date=%s", date.Format(domain.DateFormat))

	// 2. Получаем текущее время и настройки
	now := uc.timeProvider.Now()
	settings := uc.settings.GetSystemSettings(ctx)
	schedule := uc.settings.GetTimeSlotSettings(ctx)

	response := &Response{
		Date:             date,
		TimeSlotInterval: schedule.TimeSlotInterval,
		MaxCapacity:      settings.EffectiveCapacity(),
		AllowOverlapping: settings.AllowOverlapping,
		DurationOptions:  validation.DurationOptions(schedule),
		DefaultDuration:  schedule.DefaultDuration,
		Slots:            []domain.SlotAvailability{},
	}

	// 3. Генерируем слоты
	slots := availability.GenerateSlots(date, schedule, uc.calendar)
	if len(slots) == 0 {
		response.Closed = true
		if blackout, ok := uc.calendar.IsBlackout(date, schedule); ok {
			response.ClosedReason = blackout.Reason
		}
		uc.logger.Info("GetAvailableSlots: no slots on %s", date.Format(domain.DateFormat))
		return response, nil
	}

	// 4. Получаем подтвержденные бронирования на дату
	reservations, err := uc.reservationRepo.GetApprovedByDate(ctx, date)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get reservations: %v", err)
		return nil, fmt.Errorf("%w: failed to get reservations: %v", ErrInternal, err)
	}

	// 5. Считаем занятость и отсекаем прошедшее время
	response.Slots = availability.ComputeOccupancy(slots, reservations, settings.MaxOverlappingReservations, settings.AllowOverlapping)
	markUnbookable(response.Slots, date, now, settings.MinAdvanceBookingDays, uc.calendar)

	uc.logger.Info("GetAvailableSlots: found %d slots on %s", len(response.Slots), date.Format(domain.DateFormat))

	return response, nil
}
