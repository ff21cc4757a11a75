package transport

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/google/uuid"

	"github.com/ronittamrakar/Xordon-sub011/internal/models"
	"github.com/ronittamrakar/Xordon-sub011/pkg/logger"
	"github.com/ronittamrakar/Xordon-sub011/pkg/metrics"
)

// SMTPMailer sends email through the sending account's own SMTP mailbox.
// Credentials travel with the account, not the process config, so every
// owner sends from their own identity.
type SMTPMailer struct {
	metrics *metrics.Metrics
	logger  *logger.Logger
}

// NewSMTPMailer creates an SMTP mailer
func NewSMTPMailer(m *metrics.Metrics, log *logger.Logger) *SMTPMailer {
	return &SMTPMailer{metrics: m, logger: log}
}

// SendEmail dispatches one message and returns a synthetic message id
func (s *SMTPMailer) SendEmail(ctx context.Context, account *models.SendingAccount, to, subject, body string) (string, error) {
	if account.SMTPHost == "" {
		return "", fmt.Errorf("sending account %s has no smtp host", account.ID)
	}

	from := account.FromAddress
	if account.FromName != "" {
		from = fmt.Sprintf("%s <%s>", account.FromName, account.FromAddress)
	}

	messageID := uuid.New().String()
	var msg strings.Builder
	msg.WriteString(fmt.Sprintf("From: %s\r\n", from))
	msg.WriteString(fmt.Sprintf("To: %s\r\n", to))
	msg.WriteString(fmt.Sprintf("Subject: %s\r\n", subject))
	msg.WriteString(fmt.Sprintf("Message-ID: <%s@%s>\r\n", messageID, account.SMTPHost))
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/plain; charset=utf-8\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(body)

	auth := smtp.PlainAuth("", account.SMTPUser, account.SMTPPassword, account.SMTPHost)
	addr := fmt.Sprintf("%s:%d", account.SMTPHost, account.SMTPPort)

	if err := smtp.SendMail(addr, auth, account.FromAddress, []string{to}, []byte(msg.String())); err != nil {
		if s.metrics != nil {
			s.metrics.MessagesSent.WithLabelValues(string(models.ChannelEmail), "failed").Inc()
		}
		return "", fmt.Errorf("failed to send email: %w", err)
	}

	if s.metrics != nil {
		s.metrics.MessagesSent.WithLabelValues(string(models.ChannelEmail), "sent").Inc()
	}
	s.logger.Info("email dispatched",
		logger.String("to", to),
		logger.String("message_id", messageID),
	)
	return messageID, nil
}
