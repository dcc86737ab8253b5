package domain

// SystemSettings глобальные настройки системы бронирования
type SystemSettings struct {
	RequireApproval            bool
	AllowOverlapping           bool
	MaxOverlappingReservations int // >= 1
	MinAdvanceBookingDays      int // 0 = можно бронировать на сегодня
	Email                      EmailSettings
}

// EffectiveCapacity returns the maximum number of concurrent reservations
func (s *SystemSettings) EffectiveCapacity() int {
	if !s.AllowOverlapping {
		return 1
	}
	if s.MaxOverlappingReservations < MinOverlappingReservations {
		return MinOverlappingReservations
	}
	return s.MaxOverlappingReservations
}

// TemplateKind вид email уведомления
type TemplateKind string

const (
	TemplateSubmission        TemplateKind = "submission"
	TemplateApproval          TemplateKind = "approval"
	TemplateRejection         TemplateKind = "rejection"
	TemplateCancellation      TemplateKind = "cancellation"
	TemplateAdminNotification TemplateKind = "admin_notification"
)

// EmailTemplate шаблон письма с плейсхолдерами вида {{name}}
type EmailTemplate struct {
	Subject string
	Body    string
}

// EmailSettings настройки уведомлений
type EmailSettings struct {
	SendUserNotifications  bool
	SendAdminNotifications bool
	AdminEmail             string
	Templates              map[TemplateKind]EmailTemplate
}
