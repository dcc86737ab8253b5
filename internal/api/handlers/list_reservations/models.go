package list_reservations

import (
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/internal/service/reservations/models"
)

// ToServiceRequest формирует запрос к сервису из query параметров
func ToServiceRequest(dateStr, statusStr string) (*models.ListReservationsRequest, error) {
	req := &models.ListReservationsRequest{}

	if dateStr != "" {
		date, err := time.Parse(domain.DateFormat, dateStr)
		if err != nil {
			return nil, err
		}
		req.Date = &date
	}

	if statusStr != "" {
		if _, err := models.ToDomainStatus(statusStr); err != nil {
			return nil, err
		}
		req.Status = &statusStr
	}

	return req, nil
}
