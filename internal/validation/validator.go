package validation

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/m04kA/SMC-ReservationService/internal/availability"
	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/pkg/types"
)

var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Сообщения об ошибках, которые видит пользователь
const (
	msgGenericFailure = "Unable to validate reservation. Please try again."
	msgPastDate       = "Cannot book dates in the past"
	msgEndBeforeStart = "End time must be after start time"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Validator проверяет заявки на бронирование
type Validator struct {
	calendar *availability.Calendar
	logger   Logger
}

// NewValidator создает валидатор, сравнивающий даты в календаре cal
func NewValidator(cal *availability.Calendar, logger Logger) *Validator {
	return &Validator{
		calendar: cal,
		logger:   logger,
	}
}

// Calendar возвращает календарь валидатора
func (v *Validator) Calendar() *availability.Calendar {
	return v.calendar
}

// Validate проверяет заявку. Все проверки выполняются, ошибки накапливаются.
// Любая внутренняя ошибка превращается в одну общую ошибку и статус unavailable.
func (v *Validator) Validate(in Input) *Result {
	return v.run(in, true)
}

// ValidateSlot проверяет только дату и время (шаги 2-6) без полей заявителя.
// Используется для поиска альтернативных дат.
func (v *Validator) ValidateSlot(in Input) *Result {
	return v.run(in, false)
}

func (v *Validator) run(in Input, withFields bool) (result *Result) {
	defer func() {
		if rec := recover(); rec != nil {
			v.logger.Error("Validate: internal error: %v", rec)
			result = failClosed()
		}
	}()

	if in.Schedule == nil || in.Settings == nil {
		v.logger.Error("Validate: schedule or settings are missing")
		return failClosed()
	}

	result = &Result{
		Errors:                  make([]Issue, 0),
		Warnings:                make([]Issue, 0),
		ConflictingReservations: make([]*domain.Reservation, 0),
		AvailabilityStatus:      domain.AvailabilityAvailable,
	}
	req := in.Request

	// 1. Поля заявки
	if withFields {
		v.validateFields(result, req)
	}

	// 2. Дата
	day, dayOK, dateOK := v.validateDate(result, in)

	// 3. Формат времени
	start, end, timesOK := v.validateTimes(result, req)

	scheduleBlocked := !dateOK

	// 4. Рабочие часы
	if timesOK && dayOK && day.HasHours() {
		if !withinOperatingHours(day, start, end) {
			result.addError("startTime", fmt.Sprintf("Selected time is outside operating hours (%s)", formatIntervals(day.Intervals)))
			scheduleBlocked = true
		}
	}

	// 5. Длительность
	if timesOK {
		if !v.validateDuration(result, in.Schedule, start, end) {
			scheduleBlocked = true
		}
	}

	// 6. Конфликты со слотами
	if timesOK {
		v.validateConflicts(result, in, start, end)
	} else {
		result.AvailabilityStatus = domain.AvailabilityUnavailable
	}

	if scheduleBlocked && result.AvailabilityStatus != domain.AvailabilityFull {
		result.AvailabilityStatus = domain.AvailabilityUnavailable
	}

	result.IsValid = len(result.Errors) == 0
	return result
}

func (v *Validator) validateFields(result *Result, req Request) {
	if strings.TrimSpace(req.RequesterName) == "" {
		result.addError("name", "Name is required")
	}

	email := strings.TrimSpace(req.RequesterEmail)
	switch {
	case email == "":
		result.addError("email", "Email is required")
	case !emailRegex.MatchString(email):
		result.addError("email", "Please enter a valid email address")
	}

	if strings.TrimSpace(req.Purpose) == "" {
		result.addError("purpose", "Purpose is required")
	}

	if strings.TrimSpace(req.Type) == "" {
		result.addError("type", "Reservation type is required")
	}

	switch {
	case req.Attendees < domain.MinAttendees:
		result.addError("attendees", fmt.Sprintf("Number of attendees must be at least %d", domain.MinAttendees))
	case req.Attendees > domain.MaxAttendees:
		result.addError("attendees", fmt.Sprintf("Number of attendees cannot exceed %d", domain.MaxAttendees))
	}

	if req.Notes != nil && len([]rune(*req.Notes)) > domain.MaxNotesLength {
		result.addError("notes", fmt.Sprintf("Notes cannot exceed %d characters", domain.MaxNotesLength))
	}
}

// validateDate проверяет дату и возвращает расписание дня.
// dayOK = false, если день выключен и проверки по рабочим часам бессмысленны.
// dateOK = false, если в дату нельзя бронировать.
func (v *Validator) validateDate(result *Result, in Input) (day domain.DaySchedule, dayOK bool, dateOK bool) {
	req := in.Request
	if req.Date.IsZero() {
		result.addError("date", "Date is required")
		return domain.DaySchedule{}, false, false
	}

	cal := v.calendar
	date := cal.Normalize(req.Date)
	today := cal.Today(in.Now)
	ok := true

	minAdvance := in.Settings.MinAdvanceBookingDays
	if minAdvance <= 0 {
		if date.Before(today) {
			result.addError("date", msgPastDate)
			ok = false
		}
	} else {
		instant := date
		if start, err := types.NewTimeStringFromString(req.StartTime); err == nil {
			instant = cal.At(date, start)
		}
		earliest := cal.AddDays(today, minAdvance)
		switch {
		case instant.Before(in.Now):
			result.addError("date", msgPastDate)
			ok = false
		case date.Before(earliest):
			result.addError("date", fmt.Sprintf("Reservations must be made at least %d day(s) in advance", minAdvance))
			ok = false
		}
	}

	if blackout, blocked := cal.IsBlackout(date, in.Schedule); blocked {
		msg := "This date is not available for reservations"
		if reason := strings.TrimSpace(blackout.Reason); reason != "" {
			msg = fmt.Sprintf("%s: %s", msg, reason)
		}
		result.addError("date", msg)
		ok = false
	}

	weekday := date.Weekday()
	day, configured := in.Schedule.Day(weekday)
	if !configured || !day.Enabled {
		result.addError("date", fmt.Sprintf("Reservations are not available on %s", weekday))
		return day, false, false
	}

	if !day.HasHours() {
		result.addWarning("date", fmt.Sprintf("No operating hours are configured for %s", weekday))
	}

	return day, true, ok
}

func (v *Validator) validateTimes(result *Result, req Request) (types.TimeString, types.TimeString, bool) {
	start, startErr := types.NewTimeStringFromString(req.StartTime)
	if startErr != nil {
		result.addError("startTime", "Start time must be in HH:MM format")
	}

	end, endErr := types.NewTimeStringFromString(req.EndTime)
	if endErr != nil {
		result.addError("endTime", "End time must be in HH:MM format")
	}

	if startErr != nil || endErr != nil {
		return start, end, false
	}

	if !start.IsBefore(end) {
		result.addError("endTime", msgEndBeforeStart)
		return start, end, false
	}

	return start, end, true
}

// validateDuration возвращает false, если длительность вне допустимых границ
func (v *Validator) validateDuration(result *Result, schedule *domain.Schedule, start, end types.TimeString) bool {
	duration := types.DurationMinutes(start, end)
	ok := true

	if minDuration := EffectiveMinDuration(schedule); duration < minDuration {
		result.addError("endTime", fmt.Sprintf("Minimum reservation duration is %d minutes", minDuration))
		ok = false
	}

	if maxDuration := EffectiveMaxDuration(schedule); duration > maxDuration {
		result.addError("endTime", fmt.Sprintf("Maximum reservation duration is %d minutes", maxDuration))
		ok = false
	}

	interval := schedule.TimeSlotInterval
	if interval <= 0 {
		interval = domain.DefaultTimeSlotInterval
	}
	if duration%interval != 0 {
		result.addWarning("endTime", fmt.Sprintf("Duration is not a multiple of the %d-minute time slot interval", interval))
	}

	return ok
}

func (v *Validator) validateConflicts(result *Result, in Input, start, end types.TimeString) {
	settings := in.Settings
	resolution := availability.Resolve(availability.ResolveRequest{
		StartTime:            start,
		EndTime:              end,
		Reservations:         in.Reservations,
		MaxConcurrency:       settings.EffectiveCapacity(),
		AllowOverlapping:     settings.AllowOverlapping,
		ExcludeReservationID: in.Request.ExcludeReservationID,
	})

	result.AvailabilityStatus = resolution.Status
	result.ConflictingReservations = resolution.Overlapping
	result.MaxConcurrentReservations = resolution.MaxCapacity
	result.CurrentOccupancy = resolution.CurrentOccupancy()

	if len(resolution.Overlapping) > 0 {
		result.DetailedConflictInfo = &ConflictInfo{
			Severity:       resolution.Severity(),
			WorstOccupancy: resolution.WorstOccupancy,
			AffectedSlots:  availability.AffectedSlots(start, end, in.Schedule.TimeSlotInterval, resolution.Overlapping),
		}
	}

	switch {
	case !resolution.IsBookable && !settings.AllowOverlapping:
		result.addError("startTime", "This time slot conflicts with an existing reservation")
	case !resolution.IsBookable:
		result.addError("startTime", fmt.Sprintf("This time slot is fully booked (maximum %d concurrent reservations)", resolution.MaxCapacity))
	case len(resolution.Overlapping) > 0:
		result.addWarning("startTime", fmt.Sprintf("%d other reservation(s) overlap this time slot", len(resolution.Overlapping)))
	}
}

// withinOperatingHours проверяет, что интервал целиком внутри одного рабочего интервала
func withinOperatingHours(day domain.DaySchedule, start, end types.TimeString) bool {
	for _, interval := range day.Intervals {
		if interval.Contains(start, end) {
			return true
		}
	}
	return false
}

func formatIntervals(intervals []domain.TimeInterval) string {
	parts := make([]string, len(intervals))
	for i, interval := range intervals {
		parts[i] = fmt.Sprintf("%s-%s", interval.Start, interval.End)
	}
	return strings.Join(parts, ", ")
}

func failClosed() *Result {
	return &Result{
		IsValid:                 false,
		Errors:                  []Issue{{Message: msgGenericFailure}},
		Warnings:                make([]Issue, 0),
		AvailabilityStatus:      domain.AvailabilityUnavailable,
		ConflictingReservations: make([]*domain.Reservation, 0),
	}
}

// IsValidEmail проверяет формат email адреса
func IsValidEmail(email string) bool {
	return emailRegex.MatchString(strings.TrimSpace(email))
}
