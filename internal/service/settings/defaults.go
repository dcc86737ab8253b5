package settings

import (
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/pkg/types"
)

// DefaultSystemSettings настройки, используемые при ошибке загрузки.
// Письма выключены: при неизвестной конфигурации лучше не отправлять ничего.
func DefaultSystemSettings() *domain.SystemSettings {
	return &domain.SystemSettings{
		RequireApproval:            domain.DefaultRequireApproval,
		AllowOverlapping:           domain.DefaultAllowOverlapping,
		MaxOverlappingReservations: domain.DefaultMaxOverlappingReservations,
		MinAdvanceBookingDays:      domain.DefaultMinAdvanceBookingDays,
		Email: domain.EmailSettings{
			SendUserNotifications:  domain.DefaultSendUserNotifications,
			SendAdminNotifications: domain.DefaultSendAdminNotifications,
			Templates:              DefaultTemplates(),
		},
	}
}

// DefaultSchedule расписание по умолчанию: будни 08:00-17:00
func DefaultSchedule() *domain.Schedule {
	workday := domain.DaySchedule{
		Enabled: true,
		Intervals: []domain.TimeInterval{{
			Start: types.TimeString(domain.DefaultBusinessHoursStart),
			End:   types.TimeString(domain.DefaultBusinessHoursEnd),
		}},
	}

	hours := make(map[time.Weekday]domain.DaySchedule, 7)
	for d := time.Sunday; d <= time.Saturday; d++ {
		if d == time.Saturday || d == time.Sunday {
			hours[d] = domain.DaySchedule{Enabled: false, Intervals: []domain.TimeInterval{}}
			continue
		}
		hours[d] = copyDay(workday)
	}

	return &domain.Schedule{
		BusinessHours:      hours,
		BlackoutDates:      []domain.BlackoutDate{},
		MinDuration:        domain.DefaultMinDurationMinutes,
		DefaultMaxDuration: domain.DefaultMaxDurationMinutes,
		MaxDurationOptions: []int{30, 60, 90, 120, 180, 240},
		DefaultDuration:    60,
		TimeSlotInterval:   domain.DefaultTimeSlotInterval,
	}
}

// DefaultTemplates шаблоны писем по умолчанию
func DefaultTemplates() map[domain.TemplateKind]domain.EmailTemplate {
	return map[domain.TemplateKind]domain.EmailTemplate{
		domain.TemplateSubmission: {
			Subject: "Reservation request received",
			Body:    "Hello {{name}},\n\nWe received your reservation request for {{date}} from {{startTime}} to {{endTime}} ({{purpose}}). Current status: {{status}}.",
		},
		domain.TemplateApproval: {
			Subject: "Reservation approved",
			Body:    "Hello {{name}},\n\nYour reservation for {{date}} from {{startTime}} to {{endTime}} has been approved.",
		},
		domain.TemplateRejection: {
			Subject: "Reservation rejected",
			Body:    "Hello {{name}},\n\nYour reservation for {{date}} from {{startTime}} to {{endTime}} has been rejected. Reason: {{reason}}",
		},
		domain.TemplateCancellation: {
			Subject: "Reservation cancelled",
			Body:    "Hello {{name}},\n\nThe reservation for {{date}} from {{startTime}} to {{endTime}} has been cancelled {{cancelledBy}}. Reason: {{reason}}",
		},
		domain.TemplateAdminNotification: {
			Subject: "New reservation request",
			Body:    "{{name}} ({{email}}) requested the room on {{date}} from {{startTime}} to {{endTime}} for {{attendees}} attendee(s). Purpose: {{purpose}}. Status: {{status}}.",
		},
	}
}

func copyDay(day domain.DaySchedule) domain.DaySchedule {
	intervals := make([]domain.TimeInterval, len(day.Intervals))
	copy(intervals, day.Intervals)
	return domain.DaySchedule{Enabled: day.Enabled, Intervals: intervals}
}
