package maintenance

import (
	"context"
	"time"
)

// DefaultRunTimeout ограничение на один проход обслуживания
const DefaultRunTimeout = time.Minute

// Service периодическое обслуживание: чистка кэша альтернатив
// и отклонение заявок, по которым так и не приняли решение
type Service struct {
	expirer StaleExpirer // nil - заявки не трогаем
	cache   CachePurger  // nil - кэша нет
	timeout time.Duration
	logger  Logger
}

// NewService создает сервис обслуживания. expirer и cache могут быть nil.
func NewService(expirer StaleExpirer, cache CachePurger, logger Logger) *Service {
	return &Service{
		expirer: expirer,
		cache:   cache,
		timeout: DefaultRunTimeout,
		logger:  logger,
	}
}

// Run выполняет один проход. Вызывается по расписанию cron.
func (s *Service) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	s.RunContext(ctx)
}

// RunContext выполняет один проход с заданным контекстом
func (s *Service) RunContext(ctx context.Context) {
	s.logger.Info("Maintenance: run started")

	if s.cache != nil {
		if purged := s.cache.Purge(ctx); purged > 0 {
			s.logger.Info("Maintenance: purged %d expired cache entries", purged)
		}
	}

	if s.expirer != nil {
		expired, err := s.expirer.ExpireStalePending(ctx)
		if err != nil {
			s.logger.Error("Maintenance: failed to expire stale reservations (expired %d before failure): %v", expired, err)
			return
		}
		if expired > 0 {
			s.logger.Info("Maintenance: expired %d stale pending reservation(s)", expired)
		}
	}

	s.logger.Info("Maintenance: run finished")
}
