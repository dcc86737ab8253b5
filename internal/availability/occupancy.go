package availability

import (
	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/pkg/types"
)

// ComputeOccupancy вычисляет занятость каждого слота.
//
// Слот t покрыт бронированием r, если r.Start <= t < r.End.
// Учитываются только подтвержденные бронирования.
// Available отражает возможность бронирования, а не только нулевую занятость:
// слот limited доступен только при разрешенных пересечениях.
func ComputeOccupancy(
	slots []types.TimeString,
	reservations []*domain.Reservation,
	maxConcurrency int,
	allowOverlapping bool,
) []domain.SlotAvailability {
	if maxConcurrency < domain.MinOverlappingReservations {
		maxConcurrency = domain.MinOverlappingReservations
	}

	result := make([]domain.SlotAvailability, len(slots))

	for i, slot := range slots {
		occupancy := countCovering(slot, reservations)
		status, available := slotStatus(occupancy, maxConcurrency, allowOverlapping)

		result[i] = domain.SlotAvailability{
			StartTime:   slot,
			Occupancy:   occupancy,
			MaxCapacity: maxConcurrency,
			Status:      status,
			Available:   available,
		}
	}

	return result
}

// countCovering подсчитывает подтвержденные бронирования, покрывающие момент slot
func countCovering(slot types.TimeString, reservations []*domain.Reservation) int {
	count := 0
	for _, r := range reservations {
		if !r.CountsForOccupancy() {
			continue
		}
		if !slot.IsBefore(r.StartTime) && slot.IsBefore(r.EndTime) {
			count++
		}
	}
	return count
}

func slotStatus(occupancy, maxConcurrency int, allowOverlapping bool) (domain.AvailabilityStatus, bool) {
	switch {
	case occupancy == 0:
		return domain.AvailabilityAvailable, true
	case occupancy >= maxConcurrency:
		return domain.AvailabilityFull, false
	case allowOverlapping:
		return domain.AvailabilityLimited, true
	default:
		return domain.AvailabilityUnavailable, false
	}
}
