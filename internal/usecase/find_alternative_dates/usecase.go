package find_alternative_dates

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/internal/validation"
)

const defaultConcurrency = 4

// UseCase use case для поиска ближайших дат, на которые проходит тот же интервал времени
type UseCase struct {
	reservationRepo ReservationRepository
	settings        SettingsProvider
	validator       *validation.Validator
	cache           Cache
	metrics         Metrics
	options         Options
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case. cache и metrics могут быть nil.
func NewUseCase(
	reservationRepo ReservationRepository,
	settings SettingsProvider,
	validator *validation.Validator,
	cache Cache,
	metrics Metrics,
	options Options,
	logger Logger,
) *UseCase {
	if options.HorizonDays <= 0 {
		options.HorizonDays = domain.DefaultAlternativeHorizon
	}
	if options.Concurrency <= 0 {
		options.Concurrency = defaultConcurrency
	}
	return &UseCase{
		reservationRepo: reservationRepo,
		settings:        settings,
		validator:       validator,
		cache:           cache,
		metrics:         metrics,
		options:         options,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Execute просматривает даты date+1 … date+HorizonDays и возвращает первые
// MaxSuggestions дат, на которых интервал проходит проверку.
// Некорректное время не является ошибкой: ни одна дата не подойдет.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	// 1. Валидация входных данных
	if req.Date.IsZero() {
		return nil, fmt.Errorf("%w: date is required", ErrInvalidInput)
	}
	limit := normalizeLimit(req.MaxSuggestions)

	cal := uc.validator.Calendar()
	now := uc.timeProvider.Now()
	date := cal.Normalize(req.Date)

	uc.logger.Info("FindAlternativeDates: date=%s, time=%s-%s, max=%d",
		date.Format(domain.DateFormat), req.StartTime, req.EndTime, limit)

	response := &Response{Date: date, StartTime: req.StartTime, EndTime: req.EndTime}

	// 2. Кэш
	key := cacheKey(date, req.StartTime, req.EndTime, limit)
	if cached, ok := uc.lookup(ctx, key); ok {
		response.Alternatives = uc.label(cached, now)
		return response, nil
	}

	// 3. Настройки загружаются один раз на весь поиск
	settings := uc.settings.GetSystemSettings(ctx)
	schedule := uc.settings.GetTimeSlotSettings(ctx)

	// 4. Проверяем кандидатов параллельно, результат кладем по индексу дня
	candidates := make([]*domain.AlternativeDate, uc.options.HorizonDays)

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(uc.options.Concurrency)

	for offset := 1; offset <= uc.options.HorizonDays; offset++ {
		idx := offset - 1
		day := cal.AddDays(date, offset)

		g.Go(func() error {
			accepted, err := uc.evaluate(gCtx, day, req, settings, schedule, now)
			if err != nil {
				return err
			}
			candidates[idx] = accepted
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		uc.logger.Error("FindAlternativeDates: failed to evaluate candidates: %v", err)
		return nil, fmt.Errorf("%w: failed to evaluate candidates: %v", ErrInternal, err)
	}

	// 5. Хронологический порядок, не больше limit
	found := make([]domain.AlternativeDate, 0, limit)
	for _, candidate := range candidates {
		if candidate == nil {
			continue
		}
		found = append(found, *candidate)
		if len(found) == limit {
			break
		}
	}

	if uc.cache != nil {
		uc.cache.Set(ctx, key, found)
	}

	uc.logger.Info("FindAlternativeDates: found %d alternative(s) for %s", len(found), date.Format(domain.DateFormat))

	response.Alternatives = uc.label(found, now)
	return response, nil
}

// Suggest короткая форма Execute с количеством по умолчанию
func (uc *UseCase) Suggest(ctx context.Context, date time.Time, startTime, endTime string) ([]domain.AlternativeDate, error) {
	resp, err := uc.Execute(ctx, &Request{Date: date, StartTime: startTime, EndTime: endTime})
	if err != nil {
		return nil, err
	}
	return resp.Alternatives, nil
}

// evaluate проверяет одну дату. nil означает, что дата не подходит.
func (uc *UseCase) evaluate(
	ctx context.Context,
	day time.Time,
	req *Request,
	settings *domain.SystemSettings,
	schedule *domain.Schedule,
	now time.Time,
) (*domain.AlternativeDate, error) {
	reservations, err := uc.reservationRepo.GetApprovedByDate(ctx, day)
	if err != nil {
		return nil, fmt.Errorf("date %s: %v", day.Format(domain.DateFormat), err)
	}

	result := uc.validator.ValidateSlot(validation.Input{
		Request: validation.Request{
			Date:      day,
			StartTime: req.StartTime,
			EndTime:   req.EndTime,
		},
		Schedule:     schedule,
		Settings:     settings,
		Reservations: reservations,
		Now:          now,
	})
	if !result.IsValid {
		return nil, nil
	}

	return &domain.AlternativeDate{Date: day, Status: result.AvailabilityStatus}, nil
}

func (uc *UseCase) lookup(ctx context.Context, key string) ([]domain.AlternativeDate, bool) {
	if uc.cache == nil {
		return nil, false
	}
	cached, ok := uc.cache.Get(ctx, key)
	if uc.metrics != nil {
		uc.metrics.ObserveCache(ok)
	}
	return cached, ok
}

// label проставляет подписи относительно текущего дня. В кэш подписи не попадают.
func (uc *UseCase) label(dates []domain.AlternativeDate, now time.Time) []domain.AlternativeDate {
	cal := uc.validator.Calendar()
	today := cal.Today(now)

	out := make([]domain.AlternativeDate, len(dates))
	for i, d := range dates {
		d.Label = Label(cal.DaysBetween(today, d.Date), d.Date)
		out[i] = d
	}
	return out
}

// Label подпись даты: "Today", "Tomorrow" или день недели с датой
func Label(daysFromToday int, date time.Time) string {
	switch daysFromToday {
	case 0:
		return "Today"
	case 1:
		return "Tomorrow"
	default:
		return date.Format("Monday, Jan 2")
	}
}

func normalizeLimit(max int) int {
	if max <= 0 {
		return domain.DefaultMaxAlternativeResults
	}
	if max > domain.MaxAlternativeSuggestions {
		return domain.MaxAlternativeSuggestions
	}
	return max
}

func cacheKey(date time.Time, start, end string, max int) string {
	return fmt.Sprintf("%s|%s|%s|%d", date.Format(domain.DateFormat), start, end, max)
}
