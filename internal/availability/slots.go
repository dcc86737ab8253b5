package availability

import (
	"sort"
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/pkg/types"
)

// GenerateSlots генерирует кандидатов на время начала для указанного дня.
// Возвращает пустой список, если день выключен, не настроен или является blackout днем.
// Слоты идут с шагом TimeSlotInterval от начала интервала до (не включая) его конца.
func GenerateSlots(date time.Time, schedule *domain.Schedule, cal *Calendar) []types.TimeString {
	slots := make([]types.TimeString, 0)

	day, ok := schedule.Day(cal.Weekday(date))
	if !ok || !day.Enabled {
		return slots
	}

	if _, blocked := cal.IsBlackout(date, schedule); blocked {
		return slots
	}

	step := schedule.TimeSlotInterval
	if step <= 0 {
		step = domain.DefaultTimeSlotInterval
	}

	seen := make(map[int]struct{})
	for _, interval := range day.Intervals {
		if !interval.IsValid() {
			continue
		}
		for m := interval.Start.Minutes(); m < interval.End.Minutes(); m += step {
			if _, dup := seen[m]; dup {
				continue
			}
			slot, err := types.FromMinutes(m)
			if err != nil {
				break
			}
			seen[m] = struct{}{}
			slots = append(slots, slot)
		}
	}

	sort.Slice(slots, func(i, j int) bool {
		return slots[i].IsBefore(slots[j])
	})

	return slots
}

// AffectedSlot слот внутри предлагаемого интервала и занятость в нем
type AffectedSlot struct {
	StartTime      types.TimeString
	EndTime        types.TimeString
	Occupancy      int     // Существующие бронирования, пересекающиеся со слотом
	ReservationIDs []int64 // ID этих бронирований
}

// AffectedSlots разбивает интервал [start, end) на шаги interval минут
// и для каждого шага считает пересекающиеся с ним бронирования
func AffectedSlots(start, end types.TimeString, interval int, reservations []*domain.Reservation) []AffectedSlot {
	if interval <= 0 {
		interval = domain.DefaultTimeSlotInterval
	}

	result := make([]AffectedSlot, 0)
	if start.Validate() != nil || end.Validate() != nil || !start.IsBefore(end) {
		return result
	}

	endMinutes := end.Minutes()
	for m := start.Minutes(); m < endMinutes; m += interval {
		slotStart, err := types.FromMinutes(m)
		if err != nil {
			break
		}
		slotEnd := end
		if m+interval < endMinutes {
			slotEnd, _ = types.FromMinutes(m + interval)
		}

		slot := AffectedSlot{
			StartTime:      slotStart,
			EndTime:        slotEnd,
			ReservationIDs: make([]int64, 0),
		}
		for _, r := range reservations {
			if Overlaps(slotStart, slotEnd, r.StartTime, r.EndTime) {
				slot.Occupancy++
				slot.ReservationIDs = append(slot.ReservationIDs, r.ID)
			}
		}
		result = append(result, slot)
	}

	return result
}
