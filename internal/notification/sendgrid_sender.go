package notification

import (
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// SendGridSender отправляет письма через SendGrid API
type SendGridSender struct {
	client   *sendgrid.Client
	fromName string
	fromAddr string
}

// NewSendGridSender создает отправителя SendGrid
func NewSendGridSender(apiKey, fromAddr, fromName string) (*SendGridSender, error) {
	if apiKey == "" || fromAddr == "" {
		return nil, ErrNotConfigured
	}
	return &SendGridSender{
		client:   sendgrid.NewSendClient(apiKey),
		fromName: fromName,
		fromAddr: fromAddr,
	}, nil
}

// Send отправляет письмо
func (s *SendGridSender) Send(ctx context.Context, msg Message) error {
	from := mail.NewEmail(s.fromName, s.fromAddr)
	to := mail.NewEmail("", msg.To)
	htmlBody := strings.ReplaceAll(html.EscapeString(msg.Body), "\n", "<br>")
	message := mail.NewSingleEmail(from, msg.Subject, to, msg.Body, htmlBody)

	response, err := s.client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSendFailed, err)
	}

	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return fmt.Errorf("%w: status %d: %s", ErrSendFailed, response.StatusCode, response.Body)
	}

	return nil
}
