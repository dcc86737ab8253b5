package update_settings

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	settingsRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/settings"
	settingsService "github.com/m04kA/SMC-ReservationService/internal/service/settings"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type stubService struct {
	systemDoc *settingsRepo.SystemSettingsDocument
	err       error
}

func (s *stubService) UpdateSystemSettings(_ context.Context, doc *settingsRepo.SystemSettingsDocument) (*domain.SystemSettings, error) {
	s.systemDoc = doc
	if s.err != nil {
		return nil, s.err
	}
	return settingsService.ResolveSystemSettings(doc), nil
}

func (s *stubService) UpdateTimeSlotSettings(_ context.Context, _ *settingsRepo.TimeSlotDocument) (*domain.Schedule, error) {
	if s.err != nil {
		return nil, s.err
	}
	return settingsService.DefaultSchedule(), nil
}

func put(handle http.HandlerFunc, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	handle(rec, httptest.NewRequest(http.MethodPut, "/api/v1/admin/settings", strings.NewReader(body)))
	return rec
}

func TestHandleSystem(t *testing.T) {
	svc := &stubService{}
	h := NewHandler(svc, nopLogger{})

	rec := put(h.HandleSystem, `{"requireApproval":false,"maxOverlappingReservations":3}`)

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, svc.systemDoc.RequireApproval)
	assert.False(t, *svc.systemDoc.RequireApproval)

	var body settingsRepo.SystemSettingsDocument
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.NotNil(t, body.MaxOverlappingReservations)
	assert.Equal(t, 3, *body.MaxOverlappingReservations)
	require.NotNil(t, body.AllowOverlapping)
	assert.True(t, *body.AllowOverlapping)
}

func TestHandleSystem_InvalidInput(t *testing.T) {
	h := NewHandler(&stubService{err: fmt.Errorf("%w: maxOverlappingReservations must be at least 1", settingsService.ErrInvalidInput)}, nopLogger{})

	rec := put(h.HandleSystem, `{"maxOverlappingReservations":0}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "maxOverlappingReservations")
}

func TestHandleTimeSlots(t *testing.T) {
	h := NewHandler(&stubService{}, nopLogger{})

	rec := put(h.HandleTimeSlots, `{"timeSlotInterval":30}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var body settingsRepo.TimeSlotDocument
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body.BusinessHours, "monday")

	rec = put(h.HandleTimeSlots, `{"timeSlotInterval":"thirty"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleTimeSlots_InternalError(t *testing.T) {
	h := NewHandler(&stubService{err: settingsService.ErrInternal}, nopLogger{})

	rec := put(h.HandleTimeSlots, `{}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
