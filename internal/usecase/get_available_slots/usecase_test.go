package get_available_slots

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
	"github.com/m04kA/SMC-ReservationService/pkg/types"
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

type fakeSettings struct {
	settings *domain.SystemSettings
	schedule *domain.Schedule
}

func (f *fakeSettings) GetSystemSettings(context.Context) *domain.SystemSettings { return f.settings }
func (f *fakeSettings) GetTimeSlotSettings(context.Context) *domain.Schedule     { return f.schedule }

// Понедельник 19.10.2026, 10:15 по Маниле
func setup(t *testing.T) (*UseCase, *fakeRepo, *fakeSettings, *availability.Calendar) {
	t.Helper()
	cal, err := availability.NewCalendar("Asia/Manila")
	require.NoError(t, err)

	repo := &fakeRepo{}
	cfg := &fakeSettings{settings: settingsService.DefaultSystemSettings(), schedule: settingsService.DefaultSchedule()}
	uc := NewUseCase(repo, cfg, cal, nopLogger{})
	uc.timeProvider = fixedTime{now: time.Date(2026, 10, 19, 10, 15, 0, 0, cal.Location())}
	return uc, repo, cfg, cal
}

func slotByTime(t *testing.T, slots []domain.SlotAvailability, start types.TimeString) domain.SlotAvailability {
	t.Helper()
	for _, s := range slots {
		if s.StartTime == start {
			return s
		}
	}
	t.Fatalf("slot %s not found", start)
	return domain.SlotAvailability{}
}

func TestExecute_FutureDateOccupancy(t *testing.T) {
	uc, repo, _, cal := setup(t)
	repo.approved = []*domain.Reservation{
		{ID: 1, Status: domain.StatusApproved, StartTime: "09:00", EndTime: "10:00"},
		{ID: 2, Status: domain.StatusApproved, StartTime: "09:30", EndTime: "10:30"},
	}

	resp, err := uc.Execute(context.Background(), &Request{Date: time.Date(2026, 10, 20, 0, 0, 0, 0, cal.Location())})
	require.NoError(t, err)

	assert.False(t, resp.Closed)
	assert.Equal(t, 2, resp.MaxCapacity)
	// 08:00 … 16:30 с шагом 30 минут
	assert.Len(t, resp.Slots, 18)

	assert.Equal(t, domain.AvailabilityAvailable, slotByTime(t, resp.Slots, "08:00").Status)
	assert.Equal(t, domain.AvailabilityLimited, slotByTime(t, resp.Slots, "09:00").Status)
	nine30 := slotByTime(t, resp.Slots, "09:30")
	assert.Equal(t, domain.AvailabilityFull, nine30.Status)
	assert.False(t, nine30.Available)
	assert.Equal(t, domain.AvailabilityLimited, slotByTime(t, resp.Slots, "10:00").Status)
}

func TestExecute_TodayHidesStartedSlots(t *testing.T) {
	uc, _, _, cal := setup(t)

	resp, err := uc.Execute(context.Background(), &Request{Date: time.Date(2026, 10, 19, 0, 0, 0, 0, cal.Location())})
	require.NoError(t, err)

	assert.False(t, slotByTime(t, resp.Slots, "10:00").Available)
	assert.Equal(t, domain.AvailabilityUnavailable, slotByTime(t, resp.Slots, "10:00").Status)
	assert.True(t, slotByTime(t, resp.Slots, "10:30").Available)
}

func TestExecute_PastDateAndAdvanceWindow(t *testing.T) {
	uc, _, cfg, cal := setup(t)

	resp, err := uc.Execute(context.Background(), &Request{Date: time.Date(2026, 10, 16, 0, 0, 0, 0, cal.Location())})
	require.NoError(t, err)
	for _, s := range resp.Slots {
		assert.False(t, s.Available)
	}

	cfg.settings.MinAdvanceBookingDays = 2
	resp, err = uc.Execute(context.Background(), &Request{Date: time.Date(2026, 10, 20, 0, 0, 0, 0, cal.Location())})
	require.NoError(t, err)
	for _, s := range resp.Slots {
		assert.False(t, s.Available)
	}

	resp, err = uc.Execute(context.Background(), &Request{Date: time.Date(2026, 10, 21, 0, 0, 0, 0, cal.Location())})
	require.NoError(t, err)
	assert.True(t, resp.Slots[0].Available)
}

func TestExecute_ClosedDays(t *testing.T) {
	uc, repo, cfg, cal := setup(t)

	// Суббота выключена по умолчанию
	resp, err := uc.Execute(context.Background(), &Request{Date: time.Date(2026, 10, 24, 0, 0, 0, 0, cal.Location())})
	require.NoError(t, err)
	assert.True(t, resp.Closed)
	assert.Empty(t, resp.Slots)
	assert.Equal(t, 0, repo.calls)

	cfg.schedule.BlackoutDates = []domain.BlackoutDate{
		{Date: time.Date(2026, 10, 21, 0, 0, 0, 0, cal.Location()), Reason: "Maintenance"},
	}
	resp, err = uc.Execute(context.Background(), &Request{Date: time.Date(2026, 10, 21, 0, 0, 0, 0, cal.Location())})
	require.NoError(t, err)
	assert.True(t, resp.Closed)
	assert.Equal(t, "Maintenance", resp.ClosedReason)
}

func TestExecute_Errors(t *testing.T) {
	uc, repo, _, cal := setup(t)

	_, err := uc.Execute(context.Background(), &Request{})
	assert.ErrorIs(t, err, ErrInvalidInput)

	repo.err = errors.New("connection refused")
	_, err = uc.Execute(context.Background(), &Request{Date: time.Date(2026, 10, 20, 0, 0, 0, 0, cal.Location())})
	assert.ErrorIs(t, err, ErrInternal)
}
