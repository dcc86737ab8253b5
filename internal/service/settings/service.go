package settings

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/availability"
	"github.com/m04kA/SMC-ReservationService/internal/domain"
	settingsRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/settings"
	"github.com/m04kA/SMC-ReservationService/internal/validation"
	"github.com/m04kA/SMC-ReservationService/pkg/types"
)

// Service сервис настроек системы.
// Чтение никогда не падает: при ошибке хранилища используются значения по умолчанию.
type Service struct {
	repo     SettingsRepository
	calendar *availability.Calendar
	cache    CacheInvalidator
	logger   Logger
}

// NewService создает новый экземпляр сервиса настроек.
// cache может быть nil.
func NewService(repo SettingsRepository, cal *availability.Calendar, cache CacheInvalidator, logger Logger) *Service {
	return &Service{
		repo:     repo,
		calendar: cal,
		cache:    cache,
		logger:   logger,
	}
}

// GetSystemSettings возвращает системные настройки
func (s *Service) GetSystemSettings(ctx context.Context) *domain.SystemSettings {
	doc, err := s.repo.GetSystemSettings(ctx)
	if err != nil {
		if errors.Is(err, settingsRepo.ErrSettingsNotFound) {
			s.logger.Info("GetSystemSettings: settings not saved yet, using defaults")
		} else {
			s.logger.Warn("GetSystemSettings: failed to load settings, using defaults: %v", err)
		}
		return DefaultSystemSettings()
	}

	return ResolveSystemSettings(doc)
}

// GetTimeSlotSettings возвращает расписание.
// Документ в старой схеме пересохраняется в текущей.
func (s *Service) GetTimeSlotSettings(ctx context.Context) *domain.Schedule {
	doc, err := s.repo.GetTimeSlotSettings(ctx)
	if err != nil {
		if errors.Is(err, settingsRepo.ErrSettingsNotFound) {
			s.logger.Info("GetTimeSlotSettings: settings not saved yet, using defaults")
		} else {
			s.logger.Warn("GetTimeSlotSettings: failed to load settings, using defaults: %v", err)
		}
		return DefaultSchedule()
	}

	schedule, legacy := ResolveSchedule(doc, s.calendar)
	if legacy {
		if err := s.repo.SaveTimeSlotSettings(ctx, ScheduleToDocument(schedule)); err != nil {
			s.logger.Warn("GetTimeSlotSettings: failed to migrate legacy document: %v", err)
		} else {
			s.logger.Info("GetTimeSlotSettings: migrated legacy time slot settings")
		}
	}

	return schedule
}

// SaveSystemSettings заменяет системные настройки целиком
func (s *Service) SaveSystemSettings(ctx context.Context, settings *domain.SystemSettings) error {
	if err := validateSystemSettings(settings); err != nil {
		s.logger.Warn("SaveSystemSettings: validation failed: %v", err)
		return err
	}

	if err := s.repo.SaveSystemSettings(ctx, SystemSettingsToDocument(settings)); err != nil {
		s.logger.Error("SaveSystemSettings: repository error: %v", err)
		return fmt.Errorf("%w: SaveSystemSettings - repository error: %v", ErrInternal, err)
	}

	s.invalidate(ctx)

	s.logger.Info("SaveSystemSettings: saved (allowOverlapping=%t, maxOverlapping=%d, minAdvanceDays=%d)",
		settings.AllowOverlapping, settings.MaxOverlappingReservations, settings.MinAdvanceBookingDays)
	return nil
}

// SaveTimeSlotSettings заменяет расписание целиком.
// Интервалы каждого дня сортируются по времени начала.
func (s *Service) SaveTimeSlotSettings(ctx context.Context, schedule *domain.Schedule) error {
	if err := validateSchedule(schedule); err != nil {
		s.logger.Warn("SaveTimeSlotSettings: validation failed: %v", err)
		return err
	}

	if err := s.repo.SaveTimeSlotSettings(ctx, ScheduleToDocument(schedule)); err != nil {
		s.logger.Error("SaveTimeSlotSettings: repository error: %v", err)
		return fmt.Errorf("%w: SaveTimeSlotSettings - repository error: %v", ErrInternal, err)
	}

	s.invalidate(ctx)

	s.logger.Info("SaveTimeSlotSettings: saved (interval=%d, blackoutDates=%d)",
		schedule.TimeSlotInterval, len(schedule.BlackoutDates))
	return nil
}

// UpdateSystemSettings заменяет системные настройки документом администратора.
// Незаданные поля получают значения по умолчанию.
func (s *Service) UpdateSystemSettings(ctx context.Context, doc *settingsRepo.SystemSettingsDocument) (*domain.SystemSettings, error) {
	if doc == nil {
		return nil, fmt.Errorf("%w: settings are required", ErrInvalidInput)
	}
	if doc.MaxOverlappingReservations != nil && *doc.MaxOverlappingReservations < domain.MinOverlappingReservations {
		return nil, fmt.Errorf("%w: maxOverlappingReservations must be at least %d",
			ErrInvalidInput, domain.MinOverlappingReservations)
	}
	if doc.MinAdvanceBookingDays != nil && *doc.MinAdvanceBookingDays < 0 {
		return nil, fmt.Errorf("%w: minAdvanceBookingDays cannot be negative", ErrInvalidInput)
	}

	settings := ResolveSystemSettings(doc)
	if err := s.SaveSystemSettings(ctx, settings); err != nil {
		return nil, err
	}
	return settings, nil
}

// UpdateTimeSlotSettings заменяет расписание документом администратора.
// В отличие от чтения, некорректные интервалы и даты не отбрасываются, а дают ErrInvalidInput.
func (s *Service) UpdateTimeSlotSettings(ctx context.Context, doc *settingsRepo.TimeSlotDocument) (*domain.Schedule, error) {
	if err := s.checkTimeSlotDocument(doc); err != nil {
		s.logger.Warn("UpdateTimeSlotSettings: invalid document: %v", err)
		return nil, err
	}

	schedule, _ := ResolveSchedule(doc, s.calendar)
	if err := s.SaveTimeSlotSettings(ctx, schedule); err != nil {
		return nil, err
	}
	return schedule, nil
}

func (s *Service) checkTimeSlotDocument(doc *settingsRepo.TimeSlotDocument) error {
	if doc == nil {
		return fmt.Errorf("%w: time slot settings are required", ErrInvalidInput)
	}

	for key, day := range doc.BusinessHours {
		if !isWeekdayKey(key) {
			return fmt.Errorf("%w: unknown day %q", ErrInvalidInput, key)
		}
		intervals := day.Intervals
		if len(intervals) == 0 && (day.Start != "" || day.End != "") {
			intervals = []settingsRepo.IntervalDocument{{Start: day.Start, End: day.End}}
		}
		for _, raw := range intervals {
			start, err := types.NewTimeStringFromString(raw.Start)
			if err != nil {
				return fmt.Errorf("%w: %s: invalid start %q", ErrInvalidInput, key, raw.Start)
			}
			end, err := types.NewTimeStringFromString(raw.End)
			if err != nil {
				return fmt.Errorf("%w: %s: invalid end %q", ErrInvalidInput, key, raw.End)
			}
			if !start.IsBefore(end) {
				return fmt.Errorf("%w: %s: interval %s-%s ends before it starts", ErrInvalidInput, key, start, end)
			}
		}
	}

	for _, blackout := range doc.BlackoutDates {
		if _, err := s.calendar.ParseDate(blackout.Date); err != nil {
			return fmt.Errorf("%w: invalid blackout date %q", ErrInvalidInput, blackout.Date)
		}
	}

	if doc.TimeSlotInterval != nil && !domain.IsAllowedSlotInterval(*doc.TimeSlotInterval) {
		return fmt.Errorf("%w: timeSlotInterval must be one of %v", ErrInvalidInput, domain.AllowedTimeSlotIntervals)
	}
	if doc.MinDuration != nil && *doc.MinDuration <= 0 {
		return fmt.Errorf("%w: minDuration must be positive", ErrInvalidInput)
	}

	return nil
}

// invalidate сбрасывает найденные альтернативные даты: они зависят от настроек
func (s *Service) invalidate(ctx context.Context) {
	if s.cache != nil {
		s.cache.Invalidate(ctx)
	}
}

func validateSystemSettings(settings *domain.SystemSettings) error {
	if settings == nil {
		return fmt.Errorf("%w: settings are required", ErrInvalidInput)
	}

	if settings.MaxOverlappingReservations < domain.MinOverlappingReservations ||
		settings.MaxOverlappingReservations > domain.MaxOverlappingReservations {
		return fmt.Errorf("%w: maxOverlappingReservations must be between %d and %d",
			ErrInvalidInput, domain.MinOverlappingReservations, domain.MaxOverlappingReservations)
	}

	if settings.MinAdvanceBookingDays < 0 || settings.MinAdvanceBookingDays > domain.MaxAdvanceBookingDays {
		return fmt.Errorf("%w: minAdvanceBookingDays must be between 0 and %d",
			ErrInvalidInput, domain.MaxAdvanceBookingDays)
	}

	email := settings.Email
	if email.AdminEmail != "" && !validation.IsValidEmail(email.AdminEmail) {
		return fmt.Errorf("%w: adminEmail is not a valid email address", ErrInvalidInput)
	}
	if email.SendAdminNotifications && strings.TrimSpace(email.AdminEmail) == "" {
		return fmt.Errorf("%w: adminEmail is required when admin notifications are enabled", ErrInvalidInput)
	}

	for kind := range email.Templates {
		if !isKnownTemplate(kind) {
			return fmt.Errorf("%w: unknown email template %q", ErrInvalidInput, kind)
		}
	}

	return nil
}

func validateSchedule(schedule *domain.Schedule) error {
	if schedule == nil {
		return fmt.Errorf("%w: time slot settings are required", ErrInvalidInput)
	}

	if !domain.IsAllowedSlotInterval(schedule.TimeSlotInterval) {
		return fmt.Errorf("%w: timeSlotInterval must be one of %v", ErrInvalidInput, domain.AllowedTimeSlotIntervals)
	}

	if schedule.MinDuration <= 0 {
		return fmt.Errorf("%w: minDuration must be positive", ErrInvalidInput)
	}

	for _, option := range schedule.MaxDurationOptions {
		if option <= 0 {
			return fmt.Errorf("%w: maxDurationOptions must be positive", ErrInvalidInput)
		}
	}

	if maxDuration := validation.EffectiveMaxDuration(schedule); maxDuration < schedule.MinDuration {
		return fmt.Errorf("%w: maximum duration %d is less than minimum duration %d",
			ErrInvalidInput, maxDuration, schedule.MinDuration)
	}

	for weekday, day := range schedule.BusinessHours {
		sort.Slice(day.Intervals, func(i, j int) bool {
			return day.Intervals[i].Start.IsBefore(day.Intervals[j].Start)
		})
		for i, interval := range day.Intervals {
			if !interval.IsValid() {
				return fmt.Errorf("%w: %s: invalid interval %s-%s", ErrInvalidInput, weekday, interval.Start, interval.End)
			}
			if i > 0 && interval.Start.IsBefore(day.Intervals[i-1].End) {
				return fmt.Errorf("%w: %s: intervals overlap", ErrInvalidInput, weekday)
			}
		}
	}

	for _, blackout := range schedule.BlackoutDates {
		if blackout.Date.IsZero() {
			return fmt.Errorf("%w: blackout date is required", ErrInvalidInput)
		}
	}

	return nil
}

func isWeekdayKey(key string) bool {
	for d := time.Sunday; d <= time.Saturday; d++ {
		if weekdayKey(d) == key {
			return true
		}
	}
	return false
}

func isKnownTemplate(kind domain.TemplateKind) bool {
	switch kind {
	case domain.TemplateSubmission, domain.TemplateApproval, domain.TemplateRejection,
		domain.TemplateCancellation, domain.TemplateAdminNotification:
		return true
	default:
		return false
	}
}
