package get_settings

import (
	"net/http"

	"github.com/m04kA/SMC-ReservationService/internal/api/handlers"
	settingsService "github.com/m04kA/SMC-ReservationService/internal/service/settings"
)

// Настройки читаются всегда: при сбое хранилища сервис отдает значения по умолчанию.
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

// HandleSystem GET /api/v1/admin/settings/system
func (h *Handler) HandleSystem(w http.ResponseWriter, r *http.Request) {
	settings := h.service.GetSystemSettings(r.Context())

	h.logger.Info("GET /admin/settings/system - Settings retrieved")
	handlers.RespondJSON(w, http.StatusOK, settingsService.SystemSettingsToDocument(settings))
}

// HandleTimeSlots GET /api/v1/settings/time-slots
// Расписание публичное: по нему строится форма бронирования.
func (h *Handler) HandleTimeSlots(w http.ResponseWriter, r *http.Request) {
	schedule := h.service.GetTimeSlotSettings(r.Context())

	h.logger.Info("GET /settings/time-slots - Settings retrieved: interval=%d", schedule.TimeSlotInterval)
	handlers.RespondJSON(w, http.StatusOK, settingsService.ScheduleToDocument(schedule))
}
