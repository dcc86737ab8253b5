package update_settings

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-ReservationService/internal/api/handlers"
	settingsRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/settings"
	settingsService "github.com/m04kA/SMC-ReservationService/internal/service/settings"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
)

type Handler struct {
	service SettingsService
	logger  Logger
}

func NewHandler(service SettingsService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// HandleSystem PUT /api/v1/admin/settings/system
// Документ заменяет настройки целиком.
func (h *Handler) HandleSystem(w http.ResponseWriter, r *http.Request) {
	var doc settingsRepo.SystemSettingsDocument
	if err := handlers.DecodeJSON(r, &doc); err != nil {
		h.logger.Warn("PUT /admin/settings/system - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	settings, err := h.service.UpdateSystemSettings(r.Context(), &doc)
	if err != nil {
		h.respondError(w, "PUT /admin/settings/system", err)
		return
	}

	h.logger.Info("PUT /admin/settings/system - Settings updated: requireApproval=%t, allowOverlapping=%t, maxOverlapping=%d",
		settings.RequireApproval, settings.AllowOverlapping, settings.MaxOverlappingReservations)
	handlers.RespondJSON(w, http.StatusOK, settingsService.SystemSettingsToDocument(settings))
}

// HandleTimeSlots PUT /api/v1/admin/settings/time-slots
func (h *Handler) HandleTimeSlots(w http.ResponseWriter, r *http.Request) {
	var doc settingsRepo.TimeSlotDocument
	if err := handlers.DecodeJSON(r, &doc); err != nil {
		h.logger.Warn("PUT /admin/settings/time-slots - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	schedule, err := h.service.UpdateTimeSlotSettings(r.Context(), &doc)
	if err != nil {
		h.respondError(w, "PUT /admin/settings/time-slots", err)
		return
	}

	h.logger.Info("PUT /admin/settings/time-slots - Settings updated: interval=%d, blackoutDates=%d",
		schedule.TimeSlotInterval, len(schedule.BlackoutDates))
	handlers.RespondJSON(w, http.StatusOK, settingsService.ScheduleToDocument(schedule))
}

// respondError пишет ответ об ошибке. Текст ErrInvalidInput уходит клиенту как есть.
func (h *Handler) respondError(w http.ResponseWriter, route string, err error) {
	switch {
	case errors.Is(err, settingsService.ErrInvalidInput):
		h.logger.Warn("%s - Invalid settings: %v", route, err)
		handlers.RespondBadRequest(w, err.Error())

	default:
		h.logger.Error("%s - Failed to update settings: %v", route, err)
		handlers.RespondInternalError(w)
	}
}
