package get_available_slots

import (
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/availability"
	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/pkg/types"
)

// markUnbookable помечает недоступными слоты, которые уже нельзя забронировать:
// дата раньше today+minAdvanceDays или слот сегодня, который уже начался.
// Занятость слота при этом сохраняется.
func markUnbookable(
	slots []domain.SlotAvailability,
	date time.Time,
	now time.Time,
	minAdvanceDays int,
	cal *availability.Calendar,
) {
	today := cal.Today(now)
	earliest := cal.AddDays(today, minAdvanceDays)

	// Шаг 1: вся дата недоступна
	if cal.Normalize(date).Before(earliest) {
		for i := range slots {
			closeSlot(&slots[i])
		}
		return
	}

	// Шаг 2: если дата не сегодня, возвращаем как есть
	if !cal.SameDay(date, today) {
		return
	}

	// Шаг 3: сегодня отсекаем слоты, начало которых уже прошло
	current := types.NewTimeString(cal.Now(now))
	for i := range slots {
		if slots[i].StartTime.IsBefore(current) {
			closeSlot(&slots[i])
		}
	}
}

func closeSlot(slot *domain.SlotAvailability) {
	slot.Available = false
	if slot.Status != domain.AvailabilityFull {
		slot.Status = domain.AvailabilityUnavailable
	}
}
