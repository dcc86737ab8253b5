package domain

// Default system settings values.
// Используются, когда настройки не удалось загрузить: письма по умолчанию выключены.
const (
	DefaultRequireApproval            = true
	DefaultAllowOverlapping           = true
	DefaultMaxOverlappingReservations = 2
	DefaultMinAdvanceBookingDays      = 0
	DefaultSendUserNotifications      = false
	DefaultSendAdminNotifications     = false
)

// Default time slot settings values
const (
	DefaultMinDurationMinutes    = 30
	DefaultMaxDurationMinutes    = 240 // 4 hours
	DefaultTimeSlotInterval      = 30
	DefaultBusinessHoursStart    = "08:00"
	DefaultBusinessHoursEnd      = "17:00"
	DefaultAlternativeHorizon    = 14 // days
	DefaultMaxAlternativeResults = 3
	DefaultTimezone              = "Asia/Manila"
)

// Business validation constants
const (
	MinAttendees               = 1
	MaxAttendees               = 1000
	MinOverlappingReservations = 1
	MaxOverlappingReservations = 100
	MaxAdvanceBookingDays      = 365
	MaxNotesLength             = 500
	MaxReasonLength            = 500
	MaxAlternativeSuggestions  = 10
)

// AllowedTimeSlotIntervals допустимые шаги генерации слотов
var AllowedTimeSlotIntervals = []int{15, 30, 60}

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// ActiveStatuses статусы незавершенных бронирований
var ActiveStatuses = []ReservationStatus{
	StatusPending,
	StatusApproved,
}

// TerminalStatuses статусы, из которых переходы невозможны
var TerminalStatuses = []ReservationStatus{
	StatusRejected,
	StatusCancelled,
}
