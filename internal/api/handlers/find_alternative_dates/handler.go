package find_alternative_dates

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-ReservationService/internal/api/handlers"
	findAlternativeDates "github.com/m04kA/SMC-ReservationService/internal/usecase/find_alternative_dates"
)

const (
	msgMissingParams = "параметры date, startTime и endTime обязательны"
	msgInvalidParams = "некорректные параметры запроса"
)

type Handler struct {
	useCase FindAlternativeDatesUseCase
	logger  Logger
}

func NewHandler(useCase FindAlternativeDatesUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/reservations/alternatives
// Query params: date, startTime, endTime (required), max (optional)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	dateStr := query.Get("date")
	startTime := query.Get("startTime")
	endTime := query.Get("endTime")

	if dateStr == "" || startTime == "" || endTime == "" {
		h.logger.Warn("GET /reservations/alternatives - Missing params: date=%q, start=%q, end=%q", dateStr, startTime, endTime)
		handlers.RespondBadRequest(w, msgMissingParams)
		return
	}

	useCaseReq, err := ToUseCaseRequest(dateStr, startTime, endTime, query.Get("max"))
	if err != nil {
		h.logger.Warn("GET /reservations/alternatives - Invalid params: %v", err)
		handlers.RespondBadRequest(w, msgInvalidParams)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, findAlternativeDates.ErrInvalidInput):
			h.logger.Warn("GET /reservations/alternatives - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidParams)

		default:
			h.logger.Error("GET /reservations/alternatives - Failed to find alternatives: date=%s, error=%v", dateStr, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /reservations/alternatives - Found %d alternative(s): date=%s, time=%s-%s",
		len(result.Alternatives), dateStr, startTime, endTime)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
