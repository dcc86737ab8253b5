package notification

import "context"

// LogSender пишет письма в лог вместо отправки (локальный запуск без SendGrid)
type LogSender struct {
	logger Logger
}

// NewLogSender создает отправителя, пишущего в лог
func NewLogSender(logger Logger) *LogSender {
	return &LogSender{logger: logger}
}

// Send пишет письмо в лог
func (s *LogSender) Send(_ context.Context, msg Message) error {
	s.logger.Info("Notification: [log sender] to=%s subject=%q event=%s", msg.To, msg.Subject, msg.EventID)
	return nil
}
