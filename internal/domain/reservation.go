package domain

import (
	"time"

	"github.com/m04kA/SMC-ReservationService/pkg/types"
)

// ReservationStatus represents the status of a reservation
type ReservationStatus string

const (
	StatusPending   ReservationStatus = "pending"
	StatusApproved  ReservationStatus = "approved"
	StatusRejected  ReservationStatus = "rejected"
	StatusCancelled ReservationStatus = "cancelled"
)

// Actor кто выполнил переход статуса
type Actor string

const (
	ActorUser   Actor = "user"
	ActorAdmin  Actor = "admin"
	ActorSystem Actor = "system"
)

// allowedTransitions допустимые переходы статусов.
// rejected и cancelled терминальные.
var allowedTransitions = map[ReservationStatus][]ReservationStatus{
	StatusPending:  {StatusApproved, StatusRejected},
	StatusApproved: {StatusCancelled},
}

// CanTransition проверяет, допустим ли переход from -> to
func CanTransition(from, to ReservationStatus) bool {
	for _, allowed := range allowedTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// IsValid проверяет, что статус известен
func (s ReservationStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected, StatusCancelled:
		return true
	default:
		return false
	}
}

// Reservation represents a room reservation request
type Reservation struct {
	ID             int64
	RequesterName  string
	RequesterEmail string
	Date           time.Time // Календарный день в часовом поясе системы
	StartTime      types.TimeString
	EndTime        types.TimeString
	Purpose        string
	Attendees      int
	Type           string
	Notes          *string
	Status         ReservationStatus

	StatusReason *string // Причина отклонения или отмены
	CancelledBy  *Actor

	CreatedAt time.Time
	UpdatedAt *time.Time
}

// DurationMinutes returns the reservation length in minutes
func (r *Reservation) DurationMinutes() int {
	return types.DurationMinutes(r.StartTime, r.EndTime)
}

// IsTerminal returns true if no further transitions are possible
func (r *Reservation) IsTerminal() bool {
	return r.Status == StatusRejected || r.Status == StatusCancelled
}

// CountsForOccupancy returns true if the reservation occupies the room.
// Только подтвержденные бронирования участвуют в подсчёте занятости.
func (r *Reservation) CountsForOccupancy() bool {
	return r.Status == StatusApproved
}

// CanTransitionTo returns true if the reservation may move to the given status
func (r *Reservation) CanTransitionTo(to ReservationStatus) bool {
	return CanTransition(r.Status, to)
}

// ReservationFilter фильтр для выборки бронирований
type ReservationFilter struct {
	Date   *time.Time         // Конкретный день (опционально)
	Status *ReservationStatus // Фильтр по статусу (опционально)
	Before *time.Time         // Только дни строго раньше указанного (опционально)

	RequesterEmail *string // Без учета регистра (опционально)
}
