package reservations

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ReservationService/internal/availability"
	"github.com/m04kA/SMC-ReservationService/internal/domain"
	reservationRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/reservation"
	"github.com/m04kA/SMC-ReservationService/internal/notification"
	"github.com/m04kA/SMC-ReservationService/internal/service/reservations/models"
	settingsService "github.com/m04kA/SMC-ReservationService/internal/service/settings"
	"github.com/m04kA/SMC-ReservationService/pkg/ptr"
	"github.com/m04kA/SMC-ReservationService/pkg/types"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

type fakeRepo struct {
	items      map[int64]*domain.Reservation
	updates    []reservationRepo.StatusUpdate
	updateErr  error
	filterErr  error
	lastFilter domain.ReservationFilter
}

func newFakeRepo(items ...*domain.Reservation) *fakeRepo {
	repo := &fakeRepo{items: make(map[int64]*domain.Reservation)}
	for _, r := range items {
		repo.items[r.ID] = r
	}
	return repo
}

func (r *fakeRepo) GetByID(_ context.Context, id int64) (*domain.Reservation, error) {
	item, ok := r.items[id]
	if !ok {
		return nil, reservationRepo.ErrReservationNotFound
	}
	cp := *item
	return &cp, nil
}

func (r *fakeRepo) GetByFilter(_ context.Context, filter domain.ReservationFilter) ([]*domain.Reservation, error) {
	r.lastFilter = filter
	if r.filterErr != nil {
		return nil, r.filterErr
	}
	out := make([]*domain.Reservation, 0)
	for _, item := range r.items {
		if filter.Status != nil && item.Status != *filter.Status {
			continue
		}
		if filter.Before != nil && !item.Date.Before(*filter.Before) {
			continue
		}
		if filter.RequesterEmail != nil && !strings.EqualFold(item.RequesterEmail, *filter.RequesterEmail) {
			continue
		}
		cp := *item
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakeRepo) GetApprovedByDate(_ context.Context, date time.Time) ([]*domain.Reservation, error) {
	out := make([]*domain.Reservation, 0)
	for _, item := range r.items {
		if item.Status == domain.StatusApproved && item.Date.Equal(date) {
			cp := *item
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeRepo) UpdateStatus(_ context.Context, id int64, update reservationRepo.StatusUpdate) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	item, ok := r.items[id]
	if !ok {
		return reservationRepo.ErrReservationNotFound
	}
	item.Status = update.Status
	item.StatusReason = update.Reason
	item.CancelledBy = update.CancelledBy
	r.updates = append(r.updates, update)
	return nil
}

type fakeTx struct{}

func (fakeTx) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (fakeTx) DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeSettings struct{ settings *domain.SystemSettings }

func (f *fakeSettings) GetSystemSettings(context.Context) *domain.SystemSettings { return f.settings }

type fakeNotifier struct{ events []notification.Event }

func (n *fakeNotifier) Emit(events ...notification.Event) {
	n.events = append(n.events, events...)
}

type fakeCache struct{ invalidated int }

func (c *fakeCache) Invalidate(context.Context) { c.invalidated++ }

type fakeMetrics struct{ transitions []string }

func (m *fakeMetrics) ObserveTransition(to string) { m.transitions = append(m.transitions, to) }

type fixture struct {
	svc      *Service
	repo     *fakeRepo
	cfg      *fakeSettings
	notifier *fakeNotifier
	cache    *fakeCache
	metrics  *fakeMetrics
	monday   time.Time
}

func newFixture(t *testing.T, items ...*domain.Reservation) *fixture {
	t.Helper()
	cal, err := availability.NewCalendar("Asia/Manila")
	require.NoError(t, err)

	settings := settingsService.DefaultSystemSettings()
	settings.Email.SendUserNotifications = true

	f := &fixture{
		repo:     newFakeRepo(items...),
		cfg:      &fakeSettings{settings: settings},
		notifier: &fakeNotifier{},
		cache:    &fakeCache{},
		metrics:  &fakeMetrics{},
		monday:   time.Date(2026, 10, 19, 0, 0, 0, 0, cal.Location()),
	}
	f.svc = NewService(f.repo, f.cfg, cal, f.notifier, f.cache, f.metrics, fakeTx{}, nopLogger{})
	f.svc.timeProvider = fixedTime{now: time.Date(2026, 10, 17, 10, 0, 0, 0, cal.Location())}
	return f
}

func reservation(id int64, date time.Time, status domain.ReservationStatus, start, end string) *domain.Reservation {
	return &domain.Reservation{
		ID:             id,
		RequesterName:  "Maria Santos",
		RequesterEmail: "maria@example.com",
		Date:           date,
		StartTime:      types.TimeString(start),
		EndTime:        types.TimeString(end),
		Status:         status,
	}
}

func TestApprove_Success(t *testing.T) {
	f := newFixture(t)
	f.repo.items[1] = reservation(1, f.monday, domain.StatusPending, "10:00", "11:00")

	resp, err := f.svc.Approve(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, "approved", resp.Status)
	assert.Equal(t, domain.StatusApproved, f.repo.items[1].Status)
	assert.Equal(t, []string{"approved"}, f.metrics.transitions)
	assert.Equal(t, 1, f.cache.invalidated)
	require.Len(t, f.notifier.events, 1)
	assert.Equal(t, domain.TemplateApproval, f.notifier.events[0].Kind)
}

func TestApprove_RechecksCapacity(t *testing.T) {
	f := newFixture(t)
	f.repo.items[1] = reservation(1, f.monday, domain.StatusApproved, "09:00", "12:00")
	f.repo.items[2] = reservation(2, f.monday, domain.StatusApproved, "10:00", "11:00")
	f.repo.items[3] = reservation(3, f.monday, domain.StatusPending, "10:30", "11:30")

	_, err := f.svc.Approve(context.Background(), 3)
	require.ErrorIs(t, err, ErrCapacityExceeded)

	assert.Equal(t, domain.StatusPending, f.repo.items[3].Status)
	assert.Empty(t, f.notifier.events)
	assert.Empty(t, f.metrics.transitions)
}

func TestApprove_NoOverlapAllowed(t *testing.T) {
	f := newFixture(t)
	f.cfg.settings.AllowOverlapping = false
	f.repo.items[1] = reservation(1, f.monday, domain.StatusApproved, "10:00", "11:00")
	f.repo.items[2] = reservation(2, f.monday, domain.StatusPending, "11:00", "12:00")
	f.repo.items[3] = reservation(3, f.monday, domain.StatusPending, "10:30", "11:30")

	_, err := f.svc.Approve(context.Background(), 2)
	require.NoError(t, err)

	_, err = f.svc.Approve(context.Background(), 3)
	assert.ErrorIs(t, err, ErrCapacityExceeded)
}

func TestTransitions_InvalidFromTerminal(t *testing.T) {
	f := newFixture(t)
	f.repo.items[1] = reservation(1, f.monday, domain.StatusRejected, "10:00", "11:00")
	f.repo.items[2] = reservation(2, f.monday, domain.StatusPending, "10:00", "11:00")

	_, err := f.svc.Approve(context.Background(), 1)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	_, err = f.svc.Cancel(context.Background(), 2, &models.CancelReservationRequest{Actor: domain.ActorAdmin})
	assert.ErrorIs(t, err, ErrInvalidTransition)

	_, err = f.svc.Reject(context.Background(), 99, &models.RejectReservationRequest{})
	assert.ErrorIs(t, err, ErrReservationNotFound)
}

func TestReject_WithReason(t *testing.T) {
	f := newFixture(t)
	f.repo.items[1] = reservation(1, f.monday, domain.StatusPending, "10:00", "11:00")

	resp, err := f.svc.Reject(context.Background(), 1, &models.RejectReservationRequest{Reason: "  Room under maintenance "})
	require.NoError(t, err)

	assert.Equal(t, "rejected", resp.Status)
	assert.Equal(t, "Room under maintenance", ptr.Value(resp.StatusReason))
	assert.Equal(t, 0, f.cache.invalidated)
	require.Len(t, f.notifier.events, 1)
	assert.Equal(t, domain.TemplateRejection, f.notifier.events[0].Kind)
	assert.Equal(t, "Room under maintenance", f.notifier.events[0].Reason)
}

func TestReject_ReasonTooLong(t *testing.T) {
	f := newFixture(t)
	f.repo.items[1] = reservation(1, f.monday, domain.StatusPending, "10:00", "11:00")

	_, err := f.svc.Reject(context.Background(), 1, &models.RejectReservationRequest{Reason: strings.Repeat("x", 501)})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestCancel_ByUserAndAdmin(t *testing.T) {
	f := newFixture(t)
	f.repo.items[1] = reservation(1, f.monday, domain.StatusApproved, "10:00", "11:00")
	f.repo.items[2] = reservation(2, f.monday, domain.StatusApproved, "12:00", "13:00")

	_, err := f.svc.Cancel(context.Background(), 1, &models.CancelReservationRequest{
		Actor:          domain.ActorUser,
		RequesterEmail: "someone@example.com",
	})
	require.ErrorIs(t, err, ErrAccessDenied)

	resp, err := f.svc.Cancel(context.Background(), 1, &models.CancelReservationRequest{
		Actor:          domain.ActorUser,
		RequesterEmail: "MARIA@example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, "user", ptr.Value(resp.CancelledBy))

	resp, err = f.svc.Cancel(context.Background(), 2, &models.CancelReservationRequest{Actor: domain.ActorAdmin, Reason: "Event moved"})
	require.NoError(t, err)
	assert.Equal(t, "admin", ptr.Value(resp.CancelledBy))

	assert.Equal(t, 2, f.cache.invalidated)
	require.Len(t, f.notifier.events, 2)
	assert.Equal(t, domain.TemplateCancellation, f.notifier.events[1].Kind)
	require.NotNil(t, f.notifier.events[1].Reservation.CancelledBy)
	assert.Equal(t, domain.ActorAdmin, *f.notifier.events[1].Reservation.CancelledBy)
}

func TestCancel_UnknownActor(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Cancel(context.Background(), 1, &models.CancelReservationRequest{Actor: domain.ActorSystem})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestNotificationsDisabledDoNotBlockTransition(t *testing.T) {
	f := newFixture(t)
	f.cfg.settings.Email.SendUserNotifications = false
	f.repo.items[1] = reservation(1, f.monday, domain.StatusPending, "10:00", "11:00")

	_, err := f.svc.Approve(context.Background(), 1)
	require.NoError(t, err)
	assert.Empty(t, f.notifier.events)
}

func TestUpdateFailure(t *testing.T) {
	f := newFixture(t)
	f.repo.items[1] = reservation(1, f.monday, domain.StatusPending, "10:00", "11:00")
	f.repo.updateErr = errors.New("deadlock")

	_, err := f.svc.Reject(context.Background(), 1, &models.RejectReservationRequest{})
	assert.ErrorIs(t, err, ErrInternal)
	assert.Empty(t, f.notifier.events)
}

func TestExpireStalePending(t *testing.T) {
	f := newFixture(t)
	yesterday := f.monday.AddDate(0, 0, -3)
	f.repo.items[1] = reservation(1, yesterday, domain.StatusPending, "10:00", "11:00")
	f.repo.items[2] = reservation(2, yesterday, domain.StatusApproved, "10:00", "11:00")
	f.repo.items[3] = reservation(3, f.monday, domain.StatusPending, "10:00", "11:00")

	expired, err := f.svc.ExpireStalePending(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, expired)
	assert.Equal(t, domain.StatusRejected, f.repo.items[1].Status)
	assert.Equal(t, ExpiredReason, ptr.Value(f.repo.items[1].StatusReason))
	assert.Equal(t, domain.StatusPending, f.repo.items[3].Status)
}

func TestList(t *testing.T) {
	f := newFixture(t)
	f.repo.items[1] = reservation(1, f.monday, domain.StatusPending, "10:00", "11:00")

	resp, err := f.svc.List(context.Background(), &models.ListReservationsRequest{Status: ptr.Ptr("pending")})
	require.NoError(t, err)
	require.Len(t, resp.Reservations, 1)
	assert.Equal(t, "2026-10-19", resp.Reservations[0].Date)
	assert.Equal(t, 60, resp.Reservations[0].DurationMinutes)

	_, err = f.svc.List(context.Background(), &models.ListReservationsRequest{Status: ptr.Ptr("archived")})
	assert.ErrorIs(t, err, ErrInvalidInput)

	f.repo.filterErr = errors.New("timeout")
	_, err = f.svc.List(context.Background(), &models.ListReservationsRequest{})
	assert.ErrorIs(t, err, ErrInternal)
}

func TestGetByID(t *testing.T) {
	f := newFixture(t)
	f.repo.items[1] = reservation(1, f.monday, domain.StatusPending, "10:00", "11:30")

	resp, err := f.svc.GetByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "11:30", resp.EndTime)

	_, err = f.svc.GetByID(context.Background(), 2)
	assert.ErrorIs(t, err, ErrReservationNotFound)
}

func TestListByRequester(t *testing.T) {
	f := newFixture(t)
	f.repo.items[1] = reservation(1, f.monday, domain.StatusPending, "10:00", "11:00")
	f.repo.items[2] = reservation(2, f.monday, domain.StatusApproved, "13:00", "14:00")
	other := reservation(3, f.monday, domain.StatusPending, "15:00", "16:00")
	other.RequesterEmail = "juan@example.com"
	f.repo.items[3] = other

	resp, err := f.svc.ListByRequester(context.Background(), &models.RequesterReservationsRequest{
		RequesterEmail: " Maria@Example.com ",
	})
	require.NoError(t, err)
	assert.Len(t, resp.Reservations, 2)
	require.NotNil(t, f.repo.lastFilter.RequesterEmail)
	assert.Equal(t, "Maria@Example.com", *f.repo.lastFilter.RequesterEmail)

	resp, err = f.svc.ListByRequester(context.Background(), &models.RequesterReservationsRequest{
		RequesterEmail: "maria@example.com",
		Status:         ptr.Ptr("approved"),
	})
	require.NoError(t, err)
	require.Len(t, resp.Reservations, 1)
	assert.Equal(t, int64(2), resp.Reservations[0].ID)

	_, err = f.svc.ListByRequester(context.Background(), &models.RequesterReservationsRequest{})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = f.svc.ListByRequester(context.Background(), &models.RequesterReservationsRequest{
		RequesterEmail: "maria@example.com",
		Status:         ptr.Ptr("archived"),
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
