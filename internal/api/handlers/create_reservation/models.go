package create_reservation

import (
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/api/handlers"
	"github.com/m04kA/SMC-ReservationService/internal/domain"
	reservationModels "github.com/m04kA/SMC-ReservationService/internal/service/reservations/models"
	createReservation "github.com/m04kA/SMC-ReservationService/internal/usecase/create_reservation"
)

// CreateReservationRequest HTTP request model
type CreateReservationRequest struct {
	RequesterName  string  `json:"requesterName"`
	RequesterEmail string  `json:"requesterEmail"`
	Date           string  `json:"date"`      // "2026-10-19"
	StartTime      string  `json:"startTime"` // "10:00"
	EndTime        string  `json:"endTime"`   // "11:30"
	Purpose        string  `json:"purpose"`
	Attendees      int     `json:"attendees"`
	Type           string  `json:"type"`
	Notes          *string `json:"notes,omitempty"`
}

// CreateReservationResponse HTTP response model.
// Validation заполняется всегда: при успехе в нем могут быть предупреждения.
type CreateReservationResponse struct {
	Reservation *reservationModels.ReservationResponse `json:"reservation,omitempty"`
	Validation  *handlers.ValidationResponse           `json:"validation,omitempty"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case.
// Время не разбирается здесь: некорректный формат вернется ошибкой проверки.
func (r *CreateReservationRequest) ToUseCaseRequest() (*createReservation.Request, error) {
	date, err := time.Parse(domain.DateFormat, r.Date)
	if err != nil {
		return nil, err
	}

	return &createReservation.Request{
		RequesterName:  r.RequesterName,
		RequesterEmail: r.RequesterEmail,
		Date:           date,
		StartTime:      r.StartTime,
		EndTime:        r.EndTime,
		Purpose:        r.Purpose,
		Attendees:      r.Attendees,
		Type:           r.Type,
		Notes:          r.Notes,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createReservation.Response) *CreateReservationResponse {
	if resp == nil {
		return &CreateReservationResponse{}
	}
	return &CreateReservationResponse{
		Reservation: reservationModels.FromDomainReservation(resp.Reservation),
		Validation:  handlers.FromValidationResult(resp.Validation),
	}
}
