package models

import (
	"errors"
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid reservation status")

	// ErrInvalidActor возвращается при некорректном инициаторе отмены
	ErrInvalidActor = errors.New("invalid actor")
)

// Request модели

// ListReservationsRequest запрос списка бронирований (админка)
type ListReservationsRequest struct {
	Date   *time.Time `json:"date,omitempty"`   // Конкретный день (опционально)
	Status *string    `json:"status,omitempty"` // Фильтр по статусу (опционально)
}

// RequesterReservationsRequest запрос бронирований заявителя
type RequesterReservationsRequest struct {
	RequesterEmail string  `json:"requesterEmail"`
	Status         *string `json:"status,omitempty"`
}

// RejectReservationRequest запрос на отклонение
type RejectReservationRequest struct {
	Reason string `json:"reason"`
}

// CancelReservationRequest запрос на отмену.
// Пользователь подтверждает владение бронированием своим email.
type CancelReservationRequest struct {
	Actor          domain.Actor `json:"-"`
	RequesterEmail string       `json:"requesterEmail,omitempty"`
	Reason         string       `json:"reason"`
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *ListReservationsRequest) ToDomainFilter() (domain.ReservationFilter, error) {
	filter := domain.ReservationFilter{Date: r.Date}

	if r.Status != nil {
		status, err := ToDomainStatus(*r.Status)
		if err != nil {
			return filter, err
		}
		filter.Status = &status
	}

	return filter, nil
}

// Response модели

// ReservationResponse ответ с данными бронирования
type ReservationResponse struct {
	ID              int64      `json:"id"`
	RequesterName   string     `json:"requesterName"`
	RequesterEmail  string     `json:"requesterEmail"`
	Date            string     `json:"date"`      // "2026-10-19"
	StartTime       string     `json:"startTime"` // "10:00"
	EndTime         string     `json:"endTime"`   // "11:30"
	DurationMinutes int        `json:"durationMinutes"`
	Purpose         string     `json:"purpose"`
	Attendees       int        `json:"attendees"`
	Type            string     `json:"type"`
	Notes           *string    `json:"notes,omitempty"`
	Status          string     `json:"status"`
	StatusReason    *string    `json:"statusReason,omitempty"`
	CancelledBy     *string    `json:"cancelledBy,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       *time.Time `json:"updatedAt,omitempty"`
}

// ReservationListResponse ответ со списком бронирований
type ReservationListResponse struct {
	Reservations []ReservationResponse `json:"reservations"`
}

// Методы конвертации

// FromDomainReservation конвертирует domain модель в DTO
func FromDomainReservation(r *domain.Reservation) *ReservationResponse {
	if r == nil {
		return nil
	}

	resp := &ReservationResponse{
		ID:              r.ID,
		RequesterName:   r.RequesterName,
		RequesterEmail:  r.RequesterEmail,
		Date:            r.Date.Format(domain.DateFormat),
		StartTime:       r.StartTime.String(),
		EndTime:         r.EndTime.String(),
		DurationMinutes: r.DurationMinutes(),
		Purpose:         r.Purpose,
		Attendees:       r.Attendees,
		Type:            r.Type,
		Notes:           r.Notes,
		Status:          string(r.Status),
		StatusReason:    r.StatusReason,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}

	if r.CancelledBy != nil {
		actor := string(*r.CancelledBy)
		resp.CancelledBy = &actor
	}

	return resp
}

// FromDomainReservationList конвертирует список domain моделей в DTO
func FromDomainReservationList(reservations []*domain.Reservation) *ReservationListResponse {
	resp := &ReservationListResponse{
		Reservations: make([]ReservationResponse, 0, len(reservations)),
	}

	for _, r := range reservations {
		if item := FromDomainReservation(r); item != nil {
			resp.Reservations = append(resp.Reservations, *item)
		}
	}

	return resp
}

// ToDomainStatus конвертирует строку в domain.ReservationStatus с валидацией
func ToDomainStatus(status string) (domain.ReservationStatus, error) {
	s := domain.ReservationStatus(status)
	if !s.IsValid() {
		return "", ErrInvalidStatus
	}
	return s, nil
}

// ToDomainActor конвертирует строку в domain.Actor
func ToDomainActor(actor string) (domain.Actor, error) {
	switch a := domain.Actor(actor); a {
	case domain.ActorUser, domain.ActorAdmin:
		return a, nil
	default:
		return "", ErrInvalidActor
	}
}
