package notification

import "errors"

var (
	// ErrSendFailed возвращается, когда почтовый сервис отклонил письмо
	ErrSendFailed = errors.New("notification: send failed")

	// ErrNotConfigured возвращается, когда отправитель не настроен
	ErrNotConfigured = errors.New("notification: sender is not configured")

	errQueueFull = errors.New("notification: queue is full")
)
