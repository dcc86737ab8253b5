package validation

import (
	"sort"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

// EffectiveMaxDuration возвращает максимальную длительность бронирования в минутах.
//
// Порядок: DefaultMaxDuration, затем максимум из MaxDurationOptions,
// затем legacy MaxDuration, затем DefaultMaxDurationMinutes.
func EffectiveMaxDuration(schedule *domain.Schedule) int {
	if schedule == nil {
		return domain.DefaultMaxDurationMinutes
	}
	if schedule.DefaultMaxDuration > 0 {
		return schedule.DefaultMaxDuration
	}
	longest := 0
	for _, option := range schedule.MaxDurationOptions {
		if option > longest {
			longest = option
		}
	}
	if longest > 0 {
		return longest
	}
	if schedule.MaxDuration > 0 {
		return schedule.MaxDuration
	}
	return domain.DefaultMaxDurationMinutes
}

// EffectiveMinDuration возвращает минимальную длительность бронирования в минутах
func EffectiveMinDuration(schedule *domain.Schedule) int {
	if schedule == nil || schedule.MinDuration <= 0 {
		return domain.DefaultMinDurationMinutes
	}
	return schedule.MinDuration
}

// DurationOptions возвращает допустимые варианты длительности,
// ограниченные самым длинным рабочим интервалом среди включенных дней
func DurationOptions(schedule *domain.Schedule) []int {
	if schedule == nil {
		return []int{}
	}
	limit := schedule.LongestEnabledSpan()
	minDuration := EffectiveMinDuration(schedule)

	options := make([]int, 0, len(schedule.MaxDurationOptions))
	seen := make(map[int]struct{})
	for _, option := range schedule.MaxDurationOptions {
		if option < minDuration || (limit > 0 && option > limit) {
			continue
		}
		if _, dup := seen[option]; dup {
			continue
		}
		seen[option] = struct{}{}
		options = append(options, option)
	}
	sort.Ints(options)
	return options
}
