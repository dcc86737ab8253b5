package handlers

import (
	"github.com/m04kA/SMC-ReservationService/internal/domain"
	reservationModels "github.com/m04kA/SMC-ReservationService/internal/service/reservations/models"
	"github.com/m04kA/SMC-ReservationService/internal/validation"
)

// IssueResponse ошибка или предупреждение проверки
type IssueResponse struct {
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

// AffectedSlotResponse занятость шага внутри предлагаемого интервала
type AffectedSlotResponse struct {
	StartTime      string  `json:"startTime"`
	EndTime        string  `json:"endTime"`
	Occupancy      int     `json:"occupancy"`
	ReservationIDs []int64 `json:"reservationIds"`
}

// ConflictInfoResponse подробности конфликта
type ConflictInfoResponse struct {
	Severity       string                 `json:"severity"`
	WorstOccupancy int                    `json:"worstOccupancy"`
	AffectedSlots  []AffectedSlotResponse `json:"affectedSlots"`
}

// AlternativeDateResponse предлагаемая дата
type AlternativeDateResponse struct {
	Date   string `json:"date"`
	Label  string `json:"label"`
	Status string `json:"status"`
}

// ValidationResponse результат проверки заявки
type ValidationResponse struct {
	IsValid                   bool                                    `json:"isValid"`
	Errors                    []IssueResponse                         `json:"errors"`
	Warnings                  []IssueResponse                         `json:"warnings"`
	AvailabilityStatus        string                                  `json:"availabilityStatus"`
	ConflictingReservations   []reservationModels.ReservationResponse `json:"conflictingReservations"`
	MaxConcurrentReservations int                                     `json:"maxConcurrentReservations"`
	CurrentOccupancy          int                                     `json:"currentOccupancy"`
	DetailedConflictInfo      *ConflictInfoResponse                   `json:"detailedConflictInfo,omitempty"`
	RecommendedAlternatives   []AlternativeDateResponse               `json:"recommendedAlternatives"`
}

// FromValidationResult конвертирует результат проверки в HTTP модель
func FromValidationResult(result *validation.Result) *ValidationResponse {
	if result == nil {
		return nil
	}

	conflicts := make([]reservationModels.ReservationResponse, 0, len(result.ConflictingReservations))
	for _, r := range result.ConflictingReservations {
		if dto := reservationModels.FromDomainReservation(r); dto != nil {
			conflicts = append(conflicts, *dto)
		}
	}

	resp := &ValidationResponse{
		IsValid:                   result.IsValid,
		Errors:                    fromIssues(result.Errors),
		Warnings:                  fromIssues(result.Warnings),
		AvailabilityStatus:        string(result.AvailabilityStatus),
		ConflictingReservations:   conflicts,
		MaxConcurrentReservations: result.MaxConcurrentReservations,
		CurrentOccupancy:          result.CurrentOccupancy,
		RecommendedAlternatives:   FromAlternativeDates(result.RecommendedAlternatives),
	}

	if info := result.DetailedConflictInfo; info != nil {
		slots := make([]AffectedSlotResponse, len(info.AffectedSlots))
		for i, slot := range info.AffectedSlots {
			ids := slot.ReservationIDs
			if ids == nil {
				ids = []int64{}
			}
			slots[i] = AffectedSlotResponse{
				StartTime:      slot.StartTime.String(),
				EndTime:        slot.EndTime.String(),
				Occupancy:      slot.Occupancy,
				ReservationIDs: ids,
			}
		}
		resp.DetailedConflictInfo = &ConflictInfoResponse{
			Severity:       string(info.Severity),
			WorstOccupancy: info.WorstOccupancy,
			AffectedSlots:  slots,
		}
	}

	return resp
}

// FromAlternativeDates конвертирует предложенные даты в HTTP модель
func FromAlternativeDates(dates []domain.AlternativeDate) []AlternativeDateResponse {
	out := make([]AlternativeDateResponse, len(dates))
	for i, d := range dates {
		out[i] = AlternativeDateResponse{
			Date:   d.Date.Format(domain.DateFormat),
			Label:  d.Label,
			Status: string(d.Status),
		}
	}
	return out
}

func fromIssues(issues []validation.Issue) []IssueResponse {
	out := make([]IssueResponse, len(issues))
	for i, issue := range issues {
		out[i] = IssueResponse{Field: issue.Field, Message: issue.Message}
	}
	return out
}
