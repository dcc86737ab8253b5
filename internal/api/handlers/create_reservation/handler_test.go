package create_reservation

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	createReservation "github.com/m04kA/SMC-ReservationService/internal/usecase/create_reservation"
	"github.com/m04kA/SMC-ReservationService/internal/validation"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type stubUseCase struct {
	req  *createReservation.Request
	resp *createReservation.Response
	err  error
}

func (s *stubUseCase) Execute(_ context.Context, req *createReservation.Request) (*createReservation.Response, error) {
	s.req = req
	return s.resp, s.err
}

const validBody = `{
	"requesterName": "Ana Cruz",
	"requesterEmail": "ana@example.com",
	"date": "2026-10-19",
	"startTime": "09:00",
	"endTime": "10:00",
	"purpose": "Team sync",
	"attendees": 4,
	"type": "meeting"
}`

func post(h *Handler, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.Handle(rec, httptest.NewRequest(http.MethodPost, "/api/v1/reservations", strings.NewReader(body)))
	return rec
}

func TestHandle_Created(t *testing.T) {
	uc := &stubUseCase{resp: &createReservation.Response{
		Reservation: &domain.Reservation{
			ID:        10,
			Date:      time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC),
			StartTime: "09:00",
			EndTime:   "10:00",
			Status:    domain.StatusPending,
		},
		Validation: &validation.Result{IsValid: true, AvailabilityStatus: domain.AvailabilityAvailable},
	}}

	rec := post(NewHandler(uc, nopLogger{}), validBody)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "ana@example.com", uc.req.RequesterEmail)
	assert.Equal(t, "09:00", uc.req.StartTime)

	var body CreateReservationResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.NotNil(t, body.Reservation)
	assert.Equal(t, int64(10), body.Reservation.ID)
	assert.Equal(t, "pending", body.Reservation.Status)
	assert.Equal(t, 60, body.Reservation.DurationMinutes)
	require.NotNil(t, body.Validation)
	assert.True(t, body.Validation.IsValid)
}

func TestHandle_ValidationFailed(t *testing.T) {
	uc := &stubUseCase{
		resp: &createReservation.Response{Validation: &validation.Result{
			IsValid:            false,
			Errors:             []validation.Issue{{Field: "startTime", Message: "Time slot is fully booked"}},
			AvailabilityStatus: domain.AvailabilityFull,
			RecommendedAlternatives: []domain.AlternativeDate{
				{Date: time.Date(2026, 10, 20, 0, 0, 0, 0, time.UTC), Label: "Tuesday, Oct 20", Status: domain.AvailabilityAvailable},
			},
		}},
		err: createReservation.ErrValidationFailed,
	}

	rec := post(NewHandler(uc, nopLogger{}), validBody)

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var body CreateReservationResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Nil(t, body.Reservation)
	require.NotNil(t, body.Validation)
	assert.False(t, body.Validation.IsValid)
	assert.Equal(t, "full", body.Validation.AvailabilityStatus)
	require.Len(t, body.Validation.RecommendedAlternatives, 1)
	assert.Equal(t, "2026-10-20", body.Validation.RecommendedAlternatives[0].Date)
}

func TestHandle_BadRequests(t *testing.T) {
	h := NewHandler(&stubUseCase{}, nopLogger{})

	assert.Equal(t, http.StatusBadRequest, post(h, `{"requesterName":`).Code)
	assert.Equal(t, http.StatusBadRequest, post(h, `{"date":"tomorrow"}`).Code)
	assert.Equal(t, http.StatusBadRequest, post(h, `{"date":"2026-10-19","unknown":true}`).Code)
}

func TestHandle_InternalError(t *testing.T) {
	h := NewHandler(&stubUseCase{err: createReservation.ErrInternal}, nopLogger{})
	assert.Equal(t, http.StatusInternalServerError, post(h, validBody).Code)
}
