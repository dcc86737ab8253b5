package availability

import (
	"sort"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/pkg/types"
)

// ResolveRequest предлагаемый интервал и существующие бронирования того же дня
type ResolveRequest struct {
	StartTime            types.TimeString
	EndTime              types.TimeString
	Reservations         []*domain.Reservation // Подтвержденные бронирования на дату
	MaxConcurrency       int
	AllowOverlapping     bool
	ExcludeReservationID *int64 // Исключить бронирование (повторная проверка самого себя)
}

// Resolution результат проверки конфликтов
type Resolution struct {
	Overlapping    []*domain.Reservation
	WorstOccupancy int // Максимум одновременных бронирований с учетом предлагаемого
	MaxCapacity    int
	IsBookable     bool
	Status         domain.AvailabilityStatus
}

// Severity уровень конфликта, выводится только из WorstOccupancy
func (r Resolution) Severity() domain.Severity {
	return domain.SeverityFor(r.WorstOccupancy)
}

// CurrentOccupancy максимальное число уже существующих бронирований в интервале
func (r Resolution) CurrentOccupancy() int {
	if r.WorstOccupancy == 0 {
		return 0
	}
	return r.WorstOccupancy - 1
}

// Overlaps проверяет пересечение полуоткрытых интервалов [aStart, aEnd) и [bStart, bEnd).
// Касание концами пересечением не считается.
func Overlaps(aStart, aEnd, bStart, bEnd types.TimeString) bool {
	return aStart.IsBefore(bEnd) && aEnd.IsAfter(bStart)
}

// Resolve находит пересекающиеся бронирования и худшую занятость интервала
func Resolve(req ResolveRequest) Resolution {
	maxCapacity := req.MaxConcurrency
	if maxCapacity < domain.MinOverlappingReservations {
		maxCapacity = domain.MinOverlappingReservations
	}

	overlapping := make([]*domain.Reservation, 0)
	for _, r := range req.Reservations {
		if r == nil || !r.CountsForOccupancy() {
			continue
		}
		if req.ExcludeReservationID != nil && r.ID == *req.ExcludeReservationID {
			continue
		}
		if Overlaps(req.StartTime, req.EndTime, r.StartTime, r.EndTime) {
			overlapping = append(overlapping, r)
		}
	}

	worst := worstOccupancy(req.StartTime, req.EndTime, overlapping)

	var bookable bool
	if req.AllowOverlapping {
		bookable = worst <= maxCapacity
	} else {
		bookable = len(overlapping) == 0
	}

	var status domain.AvailabilityStatus
	switch {
	case len(overlapping) == 0:
		status = domain.AvailabilityAvailable
	case !req.AllowOverlapping:
		status = domain.AvailabilityUnavailable
	case !bookable:
		status = domain.AvailabilityFull
	default:
		status = domain.AvailabilityLimited
	}

	return Resolution{
		Overlapping:    overlapping,
		WorstOccupancy: worst,
		MaxCapacity:    maxCapacity,
		IsBookable:     bookable,
		Status:         status,
	}
}

// event точка на оси времени: +1 начало интервала, -1 конец
type event struct {
	at    int
	delta int
}

// worstOccupancy считает максимум одновременных интервалов (sweep line).
// Интервалы обрезаются по границам предлагаемого, при равном времени
// конец обрабатывается раньше начала, поэтому соседние интервалы не складываются.
func worstOccupancy(start, end types.TimeString, overlapping []*domain.Reservation) int {
	from, to := start.Minutes(), end.Minutes()
	if from < 0 || to <= from {
		return 0
	}

	events := make([]event, 0, 2*(len(overlapping)+1))
	events = append(events, event{at: from, delta: 1}, event{at: to, delta: -1})

	for _, r := range overlapping {
		rs, re := r.StartTime.Minutes(), r.EndTime.Minutes()
		if rs < from {
			rs = from
		}
		if re > to {
			re = to
		}
		if rs >= re {
			continue
		}
		events = append(events, event{at: rs, delta: 1}, event{at: re, delta: -1})
	}

	sort.Slice(events, func(i, j int) bool {
		if events[i].at != events[j].at {
			return events[i].at < events[j].at
		}
		return events[i].delta < events[j].delta
	})

	current, worst := 0, 0
	for _, e := range events {
		current += e.delta
		if current > worst {
			worst = current
		}
	}

	return worst
}
