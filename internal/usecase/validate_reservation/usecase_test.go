package validate_reservation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ReservationService/internal/availability"
	"github.com/m04kA/SMC-ReservationService/internal/domain"
	settingsService "github.com/m04kA/SMC-ReservationService/internal/service/settings"
	"github.com/m04kA/SMC-ReservationService/internal/validation"
	"github.com/m04kA/SMC-ReservationService/pkg/ptr"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

type fakeRepo struct {
	approved []*domain.Reservation
	err      error
	calls    int
}

func (r *fakeRepo) GetApprovedByDate(context.Context, time.Time) ([]*domain.Reservation, error) {
	r.calls++
	return r.approved, r.err
}

type fakeSettings struct{}

func (fakeSettings) GetSystemSettings(context.Context) *domain.SystemSettings {
	return settingsService.DefaultSystemSettings()
}

func (fakeSettings) GetTimeSlotSettings(context.Context) *domain.Schedule {
	return settingsService.DefaultSchedule()
}

type fakeFinder struct {
	dates []domain.AlternativeDate
	calls int
}

func (f *fakeFinder) Suggest(context.Context, time.Time, string, string) ([]domain.AlternativeDate, error) {
	f.calls++
	return f.dates, nil
}

func setup(t *testing.T) (*UseCase, *fakeRepo, *fakeFinder, time.Time) {
	t.Helper()
	cal, err := availability.NewCalendar("Asia/Manila")
	require.NoError(t, err)

	repo := &fakeRepo{}
	finder := &fakeFinder{dates: []domain.AlternativeDate{{Label: "Tomorrow", Status: domain.AvailabilityAvailable}}}
	uc := NewUseCase(repo, fakeSettings{}, validation.NewValidator(cal, nopLogger{}), finder, nil, nopLogger{})
	uc.timeProvider = fixedTime{now: time.Date(2026, 10, 17, 10, 0, 0, 0, cal.Location())}

	return uc, repo, finder, time.Date(2026, 10, 19, 0, 0, 0, 0, cal.Location())
}

func request(date time.Time) *validation.Request {
	return &validation.Request{
		RequesterName:  "Maria Santos",
		RequesterEmail: "maria@example.com",
		Date:           date,
		StartTime:      "10:00",
		EndTime:        "11:00",
		Purpose:        "Team meeting",
		Attendees:      5,
		Type:           "meeting",
	}
}

func TestExecute_Valid(t *testing.T) {
	uc, repo, finder, monday := setup(t)

	result, err := uc.Execute(context.Background(), request(monday))
	require.NoError(t, err)

	assert.True(t, result.IsValid)
	assert.Equal(t, domain.AvailabilityAvailable, result.AvailabilityStatus)
	assert.Equal(t, 1, repo.calls)
	assert.Equal(t, 0, finder.calls)
}

func TestExecute_ExcludesItselfOnRecheck(t *testing.T) {
	uc, repo, _, monday := setup(t)
	repo.approved = []*domain.Reservation{
		{ID: 7, Status: domain.StatusApproved, StartTime: "10:00", EndTime: "11:00"},
		{ID: 8, Status: domain.StatusApproved, StartTime: "10:00", EndTime: "11:00"},
	}

	result, err := uc.Execute(context.Background(), request(monday))
	require.NoError(t, err)
	assert.False(t, result.IsValid)

	req := request(monday)
	req.ExcludeReservationID = ptr.Ptr(int64(7))
	result, err = uc.Execute(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, result.IsValid)
	assert.Equal(t, domain.AvailabilityLimited, result.AvailabilityStatus)
}

func TestExecute_InvalidAttachesAlternatives(t *testing.T) {
	uc, _, finder, monday := setup(t)

	// Воскресенье выключено в расписании по умолчанию
	result, err := uc.Execute(context.Background(), request(monday.AddDate(0, 0, 6)))
	require.NoError(t, err)

	assert.False(t, result.IsValid)
	assert.Equal(t, domain.AvailabilityUnavailable, result.AvailabilityStatus)
	assert.Equal(t, finder.dates, result.RecommendedAlternatives)
}

func TestExecute_MissingDateSkipsRepository(t *testing.T) {
	uc, repo, finder, _ := setup(t)

	result, err := uc.Execute(context.Background(), request(time.Time{}))
	require.NoError(t, err)

	assert.False(t, result.IsValid)
	assert.Contains(t, result.ErrorMessages(), "Date is required")
	assert.Equal(t, 0, repo.calls)
	assert.Equal(t, 0, finder.calls)
}

func TestExecute_RepositoryError(t *testing.T) {
	uc, repo, _, monday := setup(t)
	repo.err = errors.New("connection refused")

	_, err := uc.Execute(context.Background(), request(monday))
	assert.ErrorIs(t, err, ErrInternal)
}
