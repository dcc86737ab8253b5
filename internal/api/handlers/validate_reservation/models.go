package validate_reservation

import (
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/internal/validation"
)

// ValidateReservationRequest HTTP request model.
// Поля те же, что при создании; дата может отсутствовать, форма проверяется по мере заполнения.
type ValidateReservationRequest struct {
	RequesterName        string  `json:"requesterName"`
	RequesterEmail       string  `json:"requesterEmail"`
	Date                 string  `json:"date"`
	StartTime            string  `json:"startTime"`
	EndTime              string  `json:"endTime"`
	Purpose              string  `json:"purpose"`
	Attendees            int     `json:"attendees"`
	Type                 string  `json:"type"`
	Notes                *string `json:"notes,omitempty"`
	ExcludeReservationID *int64  `json:"excludeReservationId,omitempty"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель проверки
func (r *ValidateReservationRequest) ToUseCaseRequest() (*validation.Request, error) {
	var date time.Time
	if r.Date != "" {
		parsed, err := time.Parse(domain.DateFormat, r.Date)
		if err != nil {
			return nil, err
		}
		date = parsed
	}

	return &validation.Request{
		RequesterName:        r.RequesterName,
		RequesterEmail:       r.RequesterEmail,
		Date:                 date,
		StartTime:            r.StartTime,
		EndTime:              r.EndTime,
		Purpose:              r.Purpose,
		Attendees:            r.Attendees,
		Type:                 r.Type,
		Notes:                r.Notes,
		ExcludeReservationID: r.ExcludeReservationID,
	}, nil
}
