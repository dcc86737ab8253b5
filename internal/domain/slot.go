package domain

import (
	"time"

	"github.com/m04kA/SMC-ReservationService/pkg/types"
)

// AvailabilityStatus уровень занятости слота или предлагаемого интервала
type AvailabilityStatus string

const (
	AvailabilityAvailable   AvailabilityStatus = "available"
	AvailabilityLimited     AvailabilityStatus = "limited"
	AvailabilityFull        AvailabilityStatus = "full"
	AvailabilityUnavailable AvailabilityStatus = "unavailable"
)

// Severity уровень конфликта для админки
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// SeverityFor derives conflict severity from the worst occupancy alone
func SeverityFor(worstOccupancy int) Severity {
	switch {
	case worstOccupancy <= 2:
		return SeverityLow
	case worstOccupancy <= 4:
		return SeverityMedium
	default:
		return SeverityHigh
	}
}

// SlotAvailability represents the occupancy of a single candidate start time
type SlotAvailability struct {
	StartTime   types.TimeString
	Occupancy   int // Количество подтвержденных бронирований, покрывающих слот
	MaxCapacity int
	Status      AvailabilityStatus
	Available   bool // Можно ли забронировать слот
}

// IsFull returns true if the slot reached capacity
func (s *SlotAvailability) IsFull() bool {
	return s.Status == AvailabilityFull
}

// OccupancyRate returns the occupancy rate as a percentage (0-100)
func (s *SlotAvailability) OccupancyRate() float64 {
	if s.MaxCapacity == 0 {
		return 0
	}
	rate := float64(s.Occupancy) / float64(s.MaxCapacity) * 100
	if rate > 100 {
		return 100
	}
	return rate
}

// AlternativeDate предлагаемая дата с тем же интервалом времени
type AlternativeDate struct {
	Date   time.Time
	Label  string // "Today", "Tomorrow" или день недели
	Status AvailabilityStatus
}
