package find_alternative_dates

import (
	"strconv"
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/api/handlers"
	"github.com/m04kA/SMC-ReservationService/internal/domain"
	findAlternativeDates "github.com/m04kA/SMC-ReservationService/internal/usecase/find_alternative_dates"
)

// AlternativesResponse HTTP response model
type AlternativesResponse struct {
	Date         string                             `json:"date"`
	StartTime    string                             `json:"startTime"`
	EndTime      string                             `json:"endTime"`
	Alternatives []handlers.AlternativeDateResponse `json:"alternatives"`
}

// ToUseCaseRequest создает запрос use case из query параметров. max может отсутствовать.
func ToUseCaseRequest(dateStr, startTime, endTime, maxStr string) (*findAlternativeDates.Request, error) {
	date, err := time.Parse(domain.DateFormat, dateStr)
	if err != nil {
		return nil, err
	}

	limit := 0
	if maxStr != "" {
		limit, err = strconv.Atoi(maxStr)
		if err != nil {
			return nil, err
		}
	}

	return &findAlternativeDates.Request{
		Date:           date,
		StartTime:      startTime,
		EndTime:        endTime,
		MaxSuggestions: limit,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *findAlternativeDates.Response) *AlternativesResponse {
	return &AlternativesResponse{
		Date:         resp.Date.Format(domain.DateFormat),
		StartTime:    resp.StartTime,
		EndTime:      resp.EndTime,
		Alternatives: handlers.FromAlternativeDates(resp.Alternatives),
	}
}
