package settings

// Документы настроек хранятся в JSON как есть.
// Необязательные поля указатели: nil означает "не задано", и сервис подставляет значение по умолчанию.

// SystemSettingsDocument документ системных настроек
type SystemSettingsDocument struct {
	RequireApproval            *bool                  `json:"requireApproval,omitempty"`
	AllowOverlapping           *bool                  `json:"allowOverlapping,omitempty"`
	MaxOverlappingReservations *int                   `json:"maxOverlappingReservations,omitempty"`
	MinAdvanceBookingDays      *int                   `json:"minAdvanceBookingDays,omitempty"`
	EmailSettings              *EmailSettingsDocument `json:"emailSettings,omitempty"`
}

// EmailSettingsDocument настройки уведомлений
type EmailSettingsDocument struct {
	SendUserNotifications  *bool                       `json:"sendUserNotifications,omitempty"`
	SendAdminNotifications *bool                       `json:"sendAdminNotifications,omitempty"`
	AdminEmail             string                      `json:"adminEmail,omitempty"`
	Templates              map[string]TemplateDocument `json:"templates,omitempty"`
}

// TemplateDocument шаблон письма
type TemplateDocument struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// TimeSlotDocument документ настроек расписания.
// Ключи BusinessHours: "monday" ... "sunday".
type TimeSlotDocument struct {
	BusinessHours      map[string]DayDocument `json:"businessHours,omitempty"`
	BlackoutDates      []BlackoutDocument     `json:"blackoutDates,omitempty"`
	MinDuration        *int                   `json:"minDuration,omitempty"`
	MaxDuration        *int                   `json:"maxDuration,omitempty"` // legacy
	DefaultMaxDuration *int                   `json:"defaultMaxDuration,omitempty"`
	MaxDurationOptions []int                  `json:"maxDurationOptions,omitempty"`
	DefaultDuration    *int                   `json:"defaultDuration,omitempty"`
	TimeSlotInterval   *int                   `json:"timeSlotInterval,omitempty"`
}

// DayDocument расписание дня. Поддерживаются две схемы:
// legacy {enabled, start, end} и {enabled, intervals: [...]}.
type DayDocument struct {
	Enabled   bool               `json:"enabled"`
	Start     string             `json:"start,omitempty"`
	End       string             `json:"end,omitempty"`
	Intervals []IntervalDocument `json:"intervals,omitempty"`
}

// IntervalDocument рабочий интервал
type IntervalDocument struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// BlackoutDocument нерабочий день
type BlackoutDocument struct {
	Date   string `json:"date"` // YYYY-MM-DD
	Reason string `json:"reason,omitempty"`
}
