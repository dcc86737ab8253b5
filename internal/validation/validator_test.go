package validation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ReservationService/internal/availability"
	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/pkg/ptr"
	"github.com/m04kA/SMC-ReservationService/pkg/types"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fixture struct {
	validator *Validator
	cal       *availability.Calendar
	monday    time.Time
	now       time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	cal, err := availability.NewCalendar("Asia/Manila")
	require.NoError(t, err)

	monday := time.Date(2026, 10, 19, 0, 0, 0, 0, cal.Location())
	require.Equal(t, time.Monday, monday.Weekday())

	return &fixture{
		validator: NewValidator(cal, nopLogger{}),
		cal:       cal,
		monday:    monday,
		// Суббота перед monday, 10:00 по Маниле
		now: time.Date(2026, 10, 17, 10, 0, 0, 0, cal.Location()),
	}
}

func schedule() *domain.Schedule {
	hours := map[time.Weekday]domain.DaySchedule{
		time.Sunday: {Enabled: false},
	}
	for d := time.Monday; d <= time.Saturday; d++ {
		hours[d] = domain.DaySchedule{Enabled: true, Intervals: []domain.TimeInterval{
			{Start: "08:00", End: "17:00"},
		}}
	}
	return &domain.Schedule{
		BusinessHours:    hours,
		MinDuration:      30,
		MaxDuration:      240,
		TimeSlotInterval: 30,
	}
}

func settings() *domain.SystemSettings {
	return &domain.SystemSettings{
		RequireApproval:            true,
		AllowOverlapping:           true,
		MaxOverlappingReservations: 2,
	}
}

func request(date time.Time, start, end string) Request {
	return Request{
		RequesterName:  "Maria Santos",
		RequesterEmail: "maria@example.com",
		Date:           date,
		StartTime:      start,
		EndTime:        end,
		Purpose:        "Team meeting",
		Attendees:      8,
		Type:           "meeting",
	}
}

func approved(id int64, start, end types.TimeString) *domain.Reservation {
	return &domain.Reservation{ID: id, StartTime: start, EndTime: end, Status: domain.StatusApproved}
}

func TestValidate_ValidRequest(t *testing.T) {
	f := newFixture(t)

	result := f.validator.Validate(Input{
		Request:  request(f.monday, "10:00", "11:00"),
		Schedule: schedule(),
		Settings: settings(),
		Now:      f.now,
	})

	assert.True(t, result.IsValid)
	assert.Empty(t, result.Errors)
	assert.Empty(t, result.Warnings)
	assert.Equal(t, domain.AvailabilityAvailable, result.AvailabilityStatus)
	assert.Equal(t, 2, result.MaxConcurrentReservations)
	assert.Nil(t, result.DetailedConflictInfo)
}

func TestValidate_Fields(t *testing.T) {
	f := newFixture(t)

	req := request(f.monday, "10:00", "11:00")
	req.RequesterName = "   "
	req.RequesterEmail = "not-an-email"
	req.Purpose = ""
	req.Type = ""
	req.Attendees = 1001

	result := f.validator.Validate(Input{Request: req, Schedule: schedule(), Settings: settings(), Now: f.now})

	assert.False(t, result.IsValid)
	assert.Equal(t, []string{
		"Name is required",
		"Please enter a valid email address",
		"Purpose is required",
		"Reservation type is required",
		"Number of attendees cannot exceed 1000",
	}, result.ErrorMessages())

	req = request(f.monday, "10:00", "11:00")
	req.Attendees = 0
	result = f.validator.Validate(Input{Request: req, Schedule: schedule(), Settings: settings(), Now: f.now})
	assert.Equal(t, []string{"Number of attendees must be at least 1"}, result.ErrorMessages())
}

func TestValidate_DisabledDay(t *testing.T) {
	f := newFixture(t)
	sunday := f.monday.AddDate(0, 0, -1)

	result := f.validator.Validate(Input{
		Request:  request(sunday, "10:00", "11:00"),
		Schedule: schedule(),
		Settings: settings(),
		Now:      f.now,
	})

	assert.False(t, result.IsValid)
	assert.Contains(t, result.ErrorMessages(), "Reservations are not available on Sunday")
	assert.Equal(t, domain.AvailabilityUnavailable, result.AvailabilityStatus)
}

func TestValidate_EnabledDayWithoutHours(t *testing.T) {
	f := newFixture(t)
	s := schedule()
	s.BusinessHours[time.Monday] = domain.DaySchedule{Enabled: true}

	result := f.validator.Validate(Input{
		Request:  request(f.monday, "10:00", "11:00"),
		Schedule: s,
		Settings: settings(),
		Now:      f.now,
	})

	assert.Contains(t, result.WarningMessages(), "No operating hours are configured for Monday")
	assert.True(t, result.IsValid)
}

func TestValidate_MinimumDuration(t *testing.T) {
	f := newFixture(t)

	result := f.validator.Validate(Input{
		Request:  request(f.monday, "10:00", "10:20"),
		Schedule: schedule(),
		Settings: settings(),
		Now:      f.now,
	})

	assert.False(t, result.IsValid)
	assert.Contains(t, result.ErrorMessages(), "Minimum reservation duration is 30 minutes")
}

func TestValidate_MaximumDuration(t *testing.T) {
	f := newFixture(t)

	result := f.validator.Validate(Input{
		Request:  request(f.monday, "08:00", "13:00"),
		Schedule: schedule(),
		Settings: settings(),
		Now:      f.now,
	})

	assert.Contains(t, result.ErrorMessages(), "Maximum reservation duration is 240 minutes")
}

func TestValidate_UnalignedDurationIsWarningOnly(t *testing.T) {
	f := newFixture(t)

	result := f.validator.Validate(Input{
		Request:  request(f.monday, "10:00", "10:45"),
		Schedule: schedule(),
		Settings: settings(),
		Now:      f.now,
	})

	assert.True(t, result.IsValid)
	assert.Empty(t, result.Errors)
	assert.Equal(t, []string{"Duration is not a multiple of the 30-minute time slot interval"}, result.WarningMessages())
}

func TestValidate_TimeFormat(t *testing.T) {
	f := newFixture(t)

	result := f.validator.Validate(Input{
		Request:  request(f.monday, "9:00", "25:00"),
		Schedule: schedule(),
		Settings: settings(),
		Now:      f.now,
	})
	assert.Equal(t, []string{"Start time must be in HH:MM format", "End time must be in HH:MM format"}, result.ErrorMessages())
	assert.Equal(t, domain.AvailabilityUnavailable, result.AvailabilityStatus)

	result = f.validator.Validate(Input{
		Request:  request(f.monday, "11:00", "10:00"),
		Schedule: schedule(),
		Settings: settings(),
		Now:      f.now,
	})
	assert.Equal(t, []string{"End time must be after start time"}, result.ErrorMessages())
}

func TestValidate_OperatingHours(t *testing.T) {
	f := newFixture(t)
	s := schedule()
	s.BusinessHours[time.Monday] = domain.DaySchedule{Enabled: true, Intervals: []domain.TimeInterval{
		{Start: "08:00", End: "12:00"},
		{Start: "12:00", End: "17:00"},
	}}

	result := f.validator.Validate(Input{
		Request:  request(f.monday, "11:00", "13:00"),
		Schedule: s,
		Settings: settings(),
		Now:      f.now,
	})
	assert.Equal(t, []string{"Selected time is outside operating hours (08:00-12:00, 12:00-17:00)"}, result.ErrorMessages())

	result = f.validator.Validate(Input{
		Request:  request(f.monday, "12:00", "13:00"),
		Schedule: s,
		Settings: settings(),
		Now:      f.now,
	})
	assert.True(t, result.IsValid)
}

func TestValidate_FullyBooked(t *testing.T) {
	f := newFixture(t)

	result := f.validator.Validate(Input{
		Request:  request(f.monday, "10:00", "10:30"),
		Schedule: schedule(),
		Settings: settings(),
		Reservations: []*domain.Reservation{
			approved(1, "10:00", "11:00"),
			approved(2, "10:00", "11:00"),
		},
		Now: f.now,
	})

	assert.False(t, result.IsValid)
	assert.Equal(t, domain.AvailabilityFull, result.AvailabilityStatus)
	assert.Equal(t, []string{"This time slot is fully booked (maximum 2 concurrent reservations)"}, result.ErrorMessages())
	assert.Len(t, result.ConflictingReservations, 2)
	assert.Equal(t, 2, result.CurrentOccupancy)
	require.NotNil(t, result.DetailedConflictInfo)
	assert.Equal(t, domain.SeverityMedium, result.DetailedConflictInfo.Severity)
	require.Len(t, result.DetailedConflictInfo.AffectedSlots, 1)
	assert.Equal(t, 2, result.DetailedConflictInfo.AffectedSlots[0].Occupancy)
}

func TestValidate_LimitedIsWarning(t *testing.T) {
	f := newFixture(t)

	result := f.validator.Validate(Input{
		Request:      request(f.monday, "10:00", "10:30"),
		Schedule:     schedule(),
		Settings:     settings(),
		Reservations: []*domain.Reservation{approved(1, "10:00", "11:00")},
		Now:          f.now,
	})

	assert.True(t, result.IsValid)
	assert.Equal(t, domain.AvailabilityLimited, result.AvailabilityStatus)
	assert.Equal(t, []string{"1 other reservation(s) overlap this time slot"}, result.WarningMessages())
}

func TestValidate_NoOverlapAllowed(t *testing.T) {
	f := newFixture(t)
	s := settings()
	s.AllowOverlapping = false

	result := f.validator.Validate(Input{
		Request:      request(f.monday, "09:30", "10:00"),
		Schedule:     schedule(),
		Settings:     s,
		Reservations: []*domain.Reservation{approved(1, "09:00", "10:00")},
		Now:          f.now,
	})

	assert.False(t, result.IsValid)
	assert.Equal(t, []string{"This time slot conflicts with an existing reservation"}, result.ErrorMessages())
	assert.Equal(t, 1, result.MaxConcurrentReservations)
}

func TestValidate_ExcludeSelf(t *testing.T) {
	f := newFixture(t)
	s := settings()
	s.AllowOverlapping = false

	req := request(f.monday, "09:00", "10:00")
	req.ExcludeReservationID = ptr.Ptr(int64(1))

	result := f.validator.Validate(Input{
		Request:      req,
		Schedule:     schedule(),
		Settings:     s,
		Reservations: []*domain.Reservation{approved(1, "09:00", "10:00")},
		Now:          f.now,
	})

	assert.True(t, result.IsValid)
}

func TestValidate_SameDayBooking(t *testing.T) {
	f := newFixture(t)
	now := time.Date(2026, 10, 19, 8, 15, 0, 0, f.cal.Location())

	result := f.validator.Validate(Input{
		Request:  request(f.monday, "10:00", "11:00"),
		Schedule: schedule(),
		Settings: settings(),
		Now:      now,
	})
	assert.True(t, result.IsValid)

	// День в прошлом отклоняется
	result = f.validator.Validate(Input{
		Request:  request(f.monday.AddDate(0, 0, -2), "10:00", "11:00"),
		Schedule: schedule(),
		Settings: settings(),
		Now:      now,
	})
	assert.Contains(t, result.ErrorMessages(), "Cannot book dates in the past")
}

func TestValidate_MinAdvanceBookingDays(t *testing.T) {
	f := newFixture(t)
	s := settings()
	s.MinAdvanceBookingDays = 3

	// now суббота, понедельник через 2 дня
	result := f.validator.Validate(Input{
		Request:  request(f.monday, "10:00", "11:00"),
		Schedule: schedule(),
		Settings: s,
		Now:      f.now,
	})
	assert.Equal(t, []string{"Reservations must be made at least 3 day(s) in advance"}, result.ErrorMessages())

	result = f.validator.Validate(Input{
		Request:  request(f.monday.AddDate(0, 0, 1), "10:00", "11:00"),
		Schedule: schedule(),
		Settings: s,
		Now:      f.now,
	})
	assert.True(t, result.IsValid)
}

func TestValidate_Blackout(t *testing.T) {
	f := newFixture(t)
	s := schedule()
	s.BlackoutDates = []domain.BlackoutDate{{Date: time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC), Reason: "Maintenance"}}

	for _, times := range [][2]string{{"08:00", "09:00"}, {"14:00", "16:00"}} {
		result := f.validator.Validate(Input{
			Request:  request(f.monday, times[0], times[1]),
			Schedule: s,
			Settings: settings(),
			Now:      f.now,
		})
		assert.False(t, result.IsValid)
		assert.Contains(t, result.ErrorMessages(), "This date is not available for reservations: Maintenance")
		assert.Equal(t, domain.AvailabilityUnavailable, result.AvailabilityStatus)
	}
}

func TestValidate_FailsClosed(t *testing.T) {
	f := newFixture(t)

	result := f.validator.Validate(Input{
		Request:  request(f.monday, "10:00", "11:00"),
		Schedule: schedule(),
		Now:      f.now,
	})

	assert.False(t, result.IsValid)
	assert.Equal(t, []string{msgGenericFailure}, result.ErrorMessages())
	assert.Equal(t, domain.AvailabilityUnavailable, result.AvailabilityStatus)
}

func TestValidate_Properties(t *testing.T) {
	f := newFixture(t)
	reservations := []*domain.Reservation{approved(1, "09:00", "10:00"), approved(2, "09:30", "11:00")}

	cases := []Request{
		request(f.monday, "09:00", "10:00"),
		request(f.monday, "09:15", "09:50"),
		request(f.monday, "07:00", "08:00"),
		request(f.monday.AddDate(0, 0, -1), "10:00", "11:00"),
	}

	for _, req := range cases {
		in := Input{Request: req, Schedule: schedule(), Settings: settings(), Reservations: reservations, Now: f.now}

		first := f.validator.Validate(in)
		second := f.validator.Validate(in)

		assert.Equal(t, len(first.Errors) == 0, first.IsValid)
		assert.Equal(t, first, second)
	}
}

func TestEffectiveMaxDuration(t *testing.T) {
	tests := []struct {
		name     string
		schedule *domain.Schedule
		want     int
	}{
		{"nil schedule", nil, domain.DefaultMaxDurationMinutes},
		{"explicit default wins", &domain.Schedule{DefaultMaxDuration: 90, MaxDurationOptions: []int{60, 180}, MaxDuration: 300}, 90},
		{"largest option", &domain.Schedule{MaxDurationOptions: []int{60, 180, 120}, MaxDuration: 300}, 180},
		{"legacy field", &domain.Schedule{MaxDuration: 300}, 300},
		{"constant", &domain.Schedule{}, domain.DefaultMaxDurationMinutes},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, EffectiveMaxDuration(tt.schedule))
		})
	}
}

func TestDurationOptions(t *testing.T) {
	s := &domain.Schedule{
		MinDuration:        30,
		MaxDurationOptions: []int{240, 30, 60, 600, 60, 15},
		BusinessHours: map[time.Weekday]domain.DaySchedule{
			time.Monday: {Enabled: true, Intervals: []domain.TimeInterval{{Start: "08:00", End: "17:00"}}},
		},
	}

	assert.Equal(t, []int{30, 60, 240}, DurationOptions(s))
}

func TestValidateSlot_IgnoresRequesterFields(t *testing.T) {
	f := newFixture(t)

	result := f.validator.ValidateSlot(Input{
		Request:  Request{Date: f.monday, StartTime: "10:00", EndTime: "11:00"},
		Schedule: schedule(),
		Settings: settings(),
		Now:      f.now,
	})
	assert.True(t, result.IsValid)

	result = f.validator.ValidateSlot(Input{
		Request:  Request{Date: f.monday.AddDate(0, 0, -1), StartTime: "10:00", EndTime: "11:00"},
		Schedule: schedule(),
		Settings: settings(),
		Now:      f.now,
	})
	assert.False(t, result.IsValid)
}
