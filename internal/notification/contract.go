package notification

import "context"

// Sender доставляет готовое письмо
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// Metrics метрики отправки уведомлений
type Metrics interface {
	ObserveNotification(kind string, err error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
