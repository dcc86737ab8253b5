package notification

import (
	"strconv"
	"strings"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

// Render подставляет данные бронирования в шаблон события
func Render(ev Event) Message {
	r := ev.Reservation

	notes := ""
	if r.Notes != nil {
		notes = *r.Notes
	}

	replacer := strings.NewReplacer(
		"{{id}}", strconv.FormatInt(r.ID, 10),
		"{{name}}", r.RequesterName,
		"{{email}}", r.RequesterEmail,
		"{{date}}", r.Date.Format(domain.DateFormat),
		"{{startTime}}", r.StartTime.String(),
		"{{endTime}}", r.EndTime.String(),
		"{{purpose}}", r.Purpose,
		"{{attendees}}", strconv.Itoa(r.Attendees),
		"{{type}}", r.Type,
		"{{notes}}", notes,
		"{{status}}", string(r.Status),
		"{{reason}}", ev.Reason,
		"{{cancelledBy}}", cancelledByPhrase(r.CancelledBy),
	)

	return Message{
		EventID: ev.ID,
		To:      ev.Recipient,
		Subject: replacer.Replace(ev.Template.Subject),
		Body:    replacer.Replace(ev.Template.Body),
	}
}

// cancelledByPhrase формулировка отмены зависит от того, кто отменил
func cancelledByPhrase(actor *domain.Actor) string {
	if actor == nil {
		return ""
	}
	switch *actor {
	case domain.ActorAdmin:
		return "by the administrator"
	case domain.ActorUser:
		return "at your request"
	default:
		return "by the system"
	}
}
