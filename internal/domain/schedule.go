package domain

import (
	"time"

	"github.com/m04kA/SMC-ReservationService/pkg/types"
)

// TimeInterval открытый интервал работы [Start, End)
type TimeInterval struct {
	Start types.TimeString
	End   types.TimeString
}

// IsValid returns true if both ends are well-formed and Start < End
func (i TimeInterval) IsValid() bool {
	return i.Start.Validate() == nil && i.End.Validate() == nil && i.Start.IsBefore(i.End)
}

// Contains returns true if [start, end] lies fully inside the interval
func (i TimeInterval) Contains(start, end types.TimeString) bool {
	return !start.IsBefore(i.Start) && !end.IsAfter(i.End)
}

// DurationMinutes returns the interval length in minutes
func (i TimeInterval) DurationMinutes() int {
	return types.DurationMinutes(i.Start, i.End)
}

// DaySchedule рабочие часы одного дня недели
type DaySchedule struct {
	Enabled   bool
	Intervals []TimeInterval
}

// HasHours returns true if at least one interval is configured
func (d DaySchedule) HasHours() bool {
	return len(d.Intervals) > 0
}

// Span returns the longest single interval of the day in minutes
func (d DaySchedule) Span() int {
	longest := 0
	for _, interval := range d.Intervals {
		if span := interval.DurationMinutes(); span > longest {
			longest = span
		}
	}
	return longest
}

// BlackoutDate день, в который бронирование невозможно
type BlackoutDate struct {
	Date   time.Time
	Reason string
}

// Schedule represents the time slot settings of the system.
// Поддерживаются обе схемы хранения максимальной длительности:
// legacy MaxDuration и DefaultMaxDuration + MaxDurationOptions.
type Schedule struct {
	BusinessHours      map[time.Weekday]DaySchedule
	BlackoutDates      []BlackoutDate
	MinDuration        int   // Минуты
	MaxDuration        int   // Минуты, legacy поле
	DefaultMaxDuration int   // Минуты, 0 = не задано
	MaxDurationOptions []int // Минуты
	DefaultDuration    int   // Минуты, 0 = не задано
	TimeSlotInterval   int   // 15, 30 или 60 минут
}

// Day returns the schedule of the given weekday
func (s *Schedule) Day(weekday time.Weekday) (DaySchedule, bool) {
	if s == nil || s.BusinessHours == nil {
		return DaySchedule{}, false
	}
	day, ok := s.BusinessHours[weekday]
	return day, ok
}

// LongestEnabledSpan returns the longest open interval among enabled days
func (s *Schedule) LongestEnabledSpan() int {
	if s == nil {
		return 0
	}
	longest := 0
	for _, day := range s.BusinessHours {
		if !day.Enabled {
			continue
		}
		if span := day.Span(); span > longest {
			longest = span
		}
	}
	return longest
}

// IsAllowedSlotInterval проверяет поддерживаемый шаг слотов
func IsAllowedSlotInterval(minutes int) bool {
	for _, allowed := range AllowedTimeSlotIntervals {
		if allowed == minutes {
			return true
		}
	}
	return false
}
