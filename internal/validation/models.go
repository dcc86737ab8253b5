package validation

import (
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/availability"
	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

// Request заявка на бронирование в том виде, в котором ее прислал пользователь
type Request struct {
	RequesterName        string
	RequesterEmail       string
	Date                 time.Time
	StartTime            string // HH:MM
	EndTime              string // HH:MM
	Purpose              string
	Attendees            int
	Type                 string
	Notes                *string
	ExcludeReservationID *int64 // При повторной проверке существующего бронирования
}

// Input всё, что нужно для проверки. Валидатор ничего не загружает сам.
type Input struct {
	Request      Request
	Schedule     *domain.Schedule
	Settings     *domain.SystemSettings
	Reservations []*domain.Reservation // Подтвержденные бронирования на дату
	Now          time.Time
}

// Issue ошибка или предупреждение проверки
type Issue struct {
	Field   string
	Message string
}

// ConflictInfo подробности конфликта для админки
type ConflictInfo struct {
	Severity       domain.Severity
	WorstOccupancy int
	AffectedSlots  []availability.AffectedSlot
}

// Result результат проверки заявки. Не сохраняется.
type Result struct {
	IsValid                   bool
	Errors                    []Issue // Блокирующие
	Warnings                  []Issue // Не блокируют отправку
	AvailabilityStatus        domain.AvailabilityStatus
	ConflictingReservations   []*domain.Reservation
	MaxConcurrentReservations int
	CurrentOccupancy          int
	DetailedConflictInfo      *ConflictInfo
	RecommendedAlternatives   []domain.AlternativeDate
}

// ErrorMessages возвращает тексты ошибок по порядку
func (r *Result) ErrorMessages() []string {
	return messages(r.Errors)
}

// WarningMessages возвращает тексты предупреждений по порядку
func (r *Result) WarningMessages() []string {
	return messages(r.Warnings)
}

func messages(issues []Issue) []string {
	out := make([]string, len(issues))
	for i, issue := range issues {
		out[i] = issue.Message
	}
	return out
}

func (r *Result) addError(field, message string) {
	r.Errors = append(r.Errors, Issue{Field: field, Message: message})
}

func (r *Result) addWarning(field, message string) {
	r.Warnings = append(r.Warnings, Issue{Field: field, Message: message})
}
