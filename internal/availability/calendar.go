package availability

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/pkg/types"
)

// Calendar сравнивает календарные дни в одном часовом поясе системы.
//
// Даты (день бронирования, blackout) хранятся как календарные значения:
// используются только год, месяц и день, локация исходного значения игнорируется.
// Моменты времени (now) сначала переводятся в часовой пояс системы.
type Calendar struct {
	loc *time.Location
}

// NewCalendar создает календарь для IANA часового пояса (например, "Asia/Manila")
func NewCalendar(timezone string) (*Calendar, error) {
	if timezone == "" {
		timezone = domain.DefaultTimezone
	}
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", timezone, err)
	}
	return &Calendar{loc: loc}, nil
}

// NewCalendarIn создает календарь для готовой локации
func NewCalendarIn(loc *time.Location) *Calendar {
	if loc == nil {
		loc = time.UTC
	}
	return &Calendar{loc: loc}
}

// Location возвращает часовой пояс календаря
func (c *Calendar) Location() *time.Location {
	return c.loc
}

// Normalize возвращает полночь того же календарного дня в часовом поясе системы
func (c *Calendar) Normalize(date time.Time) time.Time {
	y, m, d := date.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, c.loc)
}

// Today возвращает текущий календарный день для момента now
func (c *Calendar) Today(now time.Time) time.Time {
	return c.Normalize(now.In(c.loc))
}

// Now переводит момент в часовой пояс системы
func (c *Calendar) Now(now time.Time) time.Time {
	return now.In(c.loc)
}

// SameDay проверяет, что две даты относятся к одному календарному дню
func (c *Calendar) SameDay(a, b time.Time) bool {
	return c.Normalize(a).Equal(c.Normalize(b))
}

// AddDays сдвигает дату на n календарных дней
func (c *Calendar) AddDays(date time.Time, n int) time.Time {
	return c.Normalize(date).AddDate(0, 0, n)
}

// DaysBetween количество календарных дней от from до to
func (c *Calendar) DaysBetween(from, to time.Time) int {
	a := c.Normalize(from)
	b := c.Normalize(to)
	// В поясах с переходом на летнее время сутки не всегда 24 часа
	return int(b.Sub(a).Round(24*time.Hour) / (24 * time.Hour))
}

// Weekday возвращает день недели календарной даты
func (c *Calendar) Weekday(date time.Time) time.Weekday {
	return c.Normalize(date).Weekday()
}

// ParseDate разбирает дату формата YYYY-MM-DD в часовом поясе системы
func (c *Calendar) ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(domain.DateFormat, s, c.loc)
}

// At возвращает момент начала времени ts в указанный день
func (c *Calendar) At(date time.Time, ts types.TimeString) time.Time {
	return ts.On(c.Normalize(date))
}

// IsBlackout проверяет, попадает ли дата в список blackout дней расписания
func (c *Calendar) IsBlackout(date time.Time, schedule *domain.Schedule) (domain.BlackoutDate, bool) {
	if schedule == nil {
		return domain.BlackoutDate{}, false
	}
	for _, blackout := range schedule.BlackoutDates {
		if c.SameDay(blackout.Date, date) {
			return blackout, true
		}
	}
	return domain.BlackoutDate{}, false
}
