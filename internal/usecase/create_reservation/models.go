package create_reservation

import (
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/internal/validation"
)

// Request модель запроса на создание бронирования
type Request struct {
	RequesterName  string
	RequesterEmail string
	Date           time.Time // Дата бронирования (без времени)
	StartTime      string    // HH:MM
	EndTime        string    // HH:MM
	Purpose        string
	Attendees      int
	Type           string
	Notes          *string
}

// Response модель ответа.
// При ErrValidationFailed Reservation == nil, а Validation содержит ошибки и альтернативы.
type Response struct {
	Reservation *domain.Reservation
	Validation  *validation.Result
}

func (r *Request) toValidation() validation.Request {
	return validation.Request{
		RequesterName:  r.RequesterName,
		RequesterEmail: r.RequesterEmail,
		Date:           r.Date,
		StartTime:      r.StartTime,
		EndTime:        r.EndTime,
		Purpose:        r.Purpose,
		Attendees:      r.Attendees,
		Type:           r.Type,
		Notes:          r.Notes,
	}
}
