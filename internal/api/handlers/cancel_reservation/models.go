package cancel_reservation

import (
	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/internal/service/reservations/models"
)

// CancelReservationRequest HTTP request model
type CancelReservationRequest struct {
	RequesterEmail string  `json:"requesterEmail,omitempty"` // Обязателен для пользователя
	Reason         *string `json:"reason,omitempty"`
}

// ToServiceRequest конвертирует HTTP request в модель сервиса
func (r *CancelReservationRequest) ToServiceRequest(actor domain.Actor) *models.CancelReservationRequest {
	reason := ""
	if r.Reason != nil {
		reason = *r.Reason
	}

	return &models.CancelReservationRequest{
		Actor:          actor,
		RequesterEmail: r.RequesterEmail,
		Reason:         reason,
	}
}
