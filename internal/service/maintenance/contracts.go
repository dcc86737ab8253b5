package maintenance

import "context"

// StaleExpirer отклоняет просроченные заявки
type StaleExpirer interface {
	ExpireStalePending(ctx context.Context) (int, error)
}

// CachePurger удаляет устаревшие записи кэша
type CachePurger interface {
	Purge(ctx context.Context) int
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
