package notification

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

// Event доменное событие после успешной смены статуса бронирования
type Event struct {
	ID          uuid.UUID
	Kind        domain.TemplateKind
	Recipient   string
	Template    domain.EmailTemplate
	Reservation domain.Reservation // Копия на момент события
	Reason      string
	OccurredAt  time.Time
}

// Message готовое к отправке письмо
type Message struct {
	EventID uuid.UUID
	To      string
	Subject string
	Body    string
}

// Decide определяет, отправляется ли уведомление kind и кому.
// Пользовательские письма зависят от SendUserNotifications,
// письмо администратору (только при создании) от SendAdminNotifications.
func Decide(kind domain.TemplateKind, reservation *domain.Reservation, email domain.EmailSettings) (string, bool) {
	switch kind {
	case domain.TemplateAdminNotification:
		recipient := strings.TrimSpace(email.AdminEmail)
		if !email.SendAdminNotifications || recipient == "" {
			return "", false
		}
		return recipient, true
	case domain.TemplateSubmission, domain.TemplateApproval, domain.TemplateRejection, domain.TemplateCancellation:
		recipient := strings.TrimSpace(reservation.RequesterEmail)
		if !email.SendUserNotifications || recipient == "" {
			return "", false
		}
		return recipient, true
	default:
		return "", false
	}
}

// NewEvent создает событие, если по настройкам уведомление должно быть отправлено
func NewEvent(
	kind domain.TemplateKind,
	reservation *domain.Reservation,
	email domain.EmailSettings,
	reason string,
	now time.Time,
) (Event, bool) {
	recipient, ok := Decide(kind, reservation, email)
	if !ok {
		return Event{}, false
	}

	tmpl, ok := email.Templates[kind]
	if !ok || (tmpl.Subject == "" && tmpl.Body == "") {
		return Event{}, false
	}

	return Event{
		ID:          uuid.New(),
		Kind:        kind,
		Recipient:   recipient,
		Template:    tmpl,
		Reservation: *reservation,
		Reason:      reason,
		OccurredAt:  now,
	}, true
}

// Events собирает события для перехода reservation в его текущий статус
func Events(
	reservation *domain.Reservation,
	email domain.EmailSettings,
	created bool,
	reason string,
	now time.Time,
) []Event {
	kinds := make([]domain.TemplateKind, 0, 2)

	switch {
	case created:
		kinds = append(kinds, domain.TemplateSubmission, domain.TemplateAdminNotification)
	case reservation.Status == domain.StatusApproved:
		kinds = append(kinds, domain.TemplateApproval)
	case reservation.Status == domain.StatusRejected:
		kinds = append(kinds, domain.TemplateRejection)
	case reservation.Status == domain.StatusCancelled:
		kinds = append(kinds, domain.TemplateCancellation)
	}

	events := make([]Event, 0, len(kinds))
	for _, kind := range kinds {
		if ev, ok := NewEvent(kind, reservation, email, reason, now); ok {
			events = append(events, ev)
		}
	}
	return events
}
