package settings

import (
	"sort"
	"strings"
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/availability"
	"github.com/m04kA/SMC-ReservationService/internal/domain"
	settingsRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/settings"
	"github.com/m04kA/SMC-ReservationService/internal/validation"
	"github.com/m04kA/SMC-ReservationService/pkg/ptr"
	"github.com/m04kA/SMC-ReservationService/pkg/types"
)

// ResolveSystemSettings собирает системные настройки из документа.
// Для каждого поля: сохраненное значение, иначе значение по умолчанию.
func ResolveSystemSettings(doc *settingsRepo.SystemSettingsDocument) *domain.SystemSettings {
	result := DefaultSystemSettings()
	if doc == nil {
		return result
	}

	if doc.RequireApproval != nil {
		result.RequireApproval = *doc.RequireApproval
	}
	if doc.AllowOverlapping != nil {
		result.AllowOverlapping = *doc.AllowOverlapping
	}
	if doc.MaxOverlappingReservations != nil && *doc.MaxOverlappingReservations >= domain.MinOverlappingReservations {
		result.MaxOverlappingReservations = *doc.MaxOverlappingReservations
	}
	if doc.MinAdvanceBookingDays != nil && *doc.MinAdvanceBookingDays >= 0 {
		result.MinAdvanceBookingDays = *doc.MinAdvanceBookingDays
	}

	if email := doc.EmailSettings; email != nil {
		if email.SendUserNotifications != nil {
			result.Email.SendUserNotifications = *email.SendUserNotifications
		}
		if email.SendAdminNotifications != nil {
			result.Email.SendAdminNotifications = *email.SendAdminNotifications
		}
		result.Email.AdminEmail = strings.TrimSpace(email.AdminEmail)
		for kind, tmpl := range email.Templates {
			if tmpl.Subject == "" && tmpl.Body == "" {
				continue
			}
			result.Email.Templates[domain.TemplateKind(kind)] = domain.EmailTemplate{
				Subject: tmpl.Subject,
				Body:    tmpl.Body,
			}
		}
	}

	return result
}

// ResolveSchedule собирает расписание из документа.
//
// Порядок для каждого поля: сохраненное значение, legacy поле, значение по умолчанию.
// День в legacy схеме {enabled, start, end} превращается в один интервал.
// legacy = true, если документ нужно пересохранить в текущей схеме.
func ResolveSchedule(doc *settingsRepo.TimeSlotDocument, cal *availability.Calendar) (schedule *domain.Schedule, legacy bool) {
	result := DefaultSchedule()
	if doc == nil {
		return result, false
	}

	if doc.BusinessHours != nil {
		hours := make(map[time.Weekday]domain.DaySchedule, 7)
		for d := time.Sunday; d <= time.Saturday; d++ {
			dayDoc, ok := doc.BusinessHours[weekdayKey(d)]
			if !ok {
				hours[d] = domain.DaySchedule{Enabled: false, Intervals: []domain.TimeInterval{}}
				continue
			}
			day, dayLegacy := resolveDay(dayDoc)
			legacy = legacy || dayLegacy
			hours[d] = day
		}
		result.BusinessHours = hours
	}

	if doc.BlackoutDates != nil {
		result.BlackoutDates = make([]domain.BlackoutDate, 0, len(doc.BlackoutDates))
		for _, b := range doc.BlackoutDates {
			date, err := cal.ParseDate(b.Date)
			if err != nil {
				continue
			}
			result.BlackoutDates = append(result.BlackoutDates, domain.BlackoutDate{Date: date, Reason: b.Reason})
		}
	}

	if doc.MinDuration != nil && *doc.MinDuration > 0 {
		result.MinDuration = *doc.MinDuration
	}

	if doc.TimeSlotInterval != nil && domain.IsAllowedSlotInterval(*doc.TimeSlotInterval) {
		result.TimeSlotInterval = *doc.TimeSlotInterval
	}

	if doc.DefaultDuration != nil && *doc.DefaultDuration > 0 {
		result.DefaultDuration = *doc.DefaultDuration
	}

	// Максимальная длительность: одно каноническое поле DefaultMaxDuration.
	// Старые документы хранили maxDuration или только список вариантов.
	stored := &domain.Schedule{MaxDurationOptions: positive(doc.MaxDurationOptions)}
	if doc.DefaultMaxDuration != nil {
		stored.DefaultMaxDuration = *doc.DefaultMaxDuration
	}
	if doc.MaxDuration != nil {
		stored.MaxDuration = *doc.MaxDuration
		legacy = true
	}
	if doc.MaxDurationOptions != nil {
		result.MaxDurationOptions = stored.MaxDurationOptions
	}
	if stored.DefaultMaxDuration > 0 || len(stored.MaxDurationOptions) > 0 || stored.MaxDuration > 0 {
		result.DefaultMaxDuration = validation.EffectiveMaxDuration(stored)
	}

	return result, legacy
}

// SystemSettingsToDocument сериализует системные настройки
func SystemSettingsToDocument(s *domain.SystemSettings) *settingsRepo.SystemSettingsDocument {
	templates := make(map[string]settingsRepo.TemplateDocument, len(s.Email.Templates))
	for kind, tmpl := range s.Email.Templates {
		templates[string(kind)] = settingsRepo.TemplateDocument{Subject: tmpl.Subject, Body: tmpl.Body}
	}

	return &settingsRepo.SystemSettingsDocument{
		RequireApproval:            ptr.Ptr(s.RequireApproval),
		AllowOverlapping:           ptr.Ptr(s.AllowOverlapping),
		MaxOverlappingReservations: ptr.Ptr(s.MaxOverlappingReservations),
		MinAdvanceBookingDays:      ptr.Ptr(s.MinAdvanceBookingDays),
		EmailSettings: &settingsRepo.EmailSettingsDocument{
			SendUserNotifications:  ptr.Ptr(s.Email.SendUserNotifications),
			SendAdminNotifications: ptr.Ptr(s.Email.SendAdminNotifications),
			AdminEmail:             s.Email.AdminEmail,
			Templates:              templates,
		},
	}
}

// ScheduleToDocument сериализует расписание в текущей схеме:
// всегда intervals и defaultMaxDuration, без legacy полей
func ScheduleToDocument(s *domain.Schedule) *settingsRepo.TimeSlotDocument {
	hours := make(map[string]settingsRepo.DayDocument, len(s.BusinessHours))
	for weekday, day := range s.BusinessHours {
		intervals := make([]settingsRepo.IntervalDocument, len(day.Intervals))
		for i, interval := range day.Intervals {
			intervals[i] = settingsRepo.IntervalDocument{Start: interval.Start.String(), End: interval.End.String()}
		}
		hours[weekdayKey(weekday)] = settingsRepo.DayDocument{Enabled: day.Enabled, Intervals: intervals}
	}

	blackouts := make([]settingsRepo.BlackoutDocument, len(s.BlackoutDates))
	for i, b := range s.BlackoutDates {
		blackouts[i] = settingsRepo.BlackoutDocument{Date: b.Date.Format(domain.DateFormat), Reason: b.Reason}
	}

	doc := &settingsRepo.TimeSlotDocument{
		BusinessHours:      hours,
		BlackoutDates:      blackouts,
		MinDuration:        ptr.Ptr(validation.EffectiveMinDuration(s)),
		DefaultMaxDuration: ptr.Ptr(validation.EffectiveMaxDuration(s)),
		MaxDurationOptions: s.MaxDurationOptions,
		TimeSlotInterval:   ptr.Ptr(s.TimeSlotInterval),
	}
	if s.DefaultDuration > 0 {
		doc.DefaultDuration = ptr.Ptr(s.DefaultDuration)
	}

	return doc
}

func resolveDay(doc settingsRepo.DayDocument) (domain.DaySchedule, bool) {
	day := domain.DaySchedule{Enabled: doc.Enabled, Intervals: make([]domain.TimeInterval, 0, len(doc.Intervals))}
	legacy := false

	source := doc.Intervals
	if len(source) == 0 && (doc.Start != "" || doc.End != "") {
		source = []settingsRepo.IntervalDocument{{Start: doc.Start, End: doc.End}}
		legacy = true
	}

	for _, raw := range source {
		interval := domain.TimeInterval{Start: types.TimeString(raw.Start), End: types.TimeString(raw.End)}
		if !interval.IsValid() {
			continue
		}
		day.Intervals = append(day.Intervals, interval)
	}

	sort.Slice(day.Intervals, func(i, j int) bool {
		return day.Intervals[i].Start.IsBefore(day.Intervals[j].Start)
	})

	return day, legacy
}

func weekdayKey(d time.Weekday) string {
	return strings.ToLower(d.String())
}

func positive(values []int) []int {
	out := make([]int, 0, len(values))
	for _, v := range values {
		if v > 0 {
			out = append(out, v)
		}
	}
	return out
}
