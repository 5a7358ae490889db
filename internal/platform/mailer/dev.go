package mailer

import (
	"github.com/diagnosis/visitor-portal/pkg/logger"
	"github.com/google/uuid"
)

// DevMailer logs messages instead of sending them.
type DevMailer struct{}

func NewDevMailer() *DevMailer {
	return &DevMailer{}
}

func (d *DevMailer) Send(toEmail, toName, subject, text, html string) (string, error) {
	id := uuid.NewString()
	logger.Info("Email (dev mode, not sent)",
		"message_id", id,
		"to", toEmail,
		"subject", subject,
		"text", text,
	)
	return id, nil
}

func (d *DevMailer) SendPasswordResetRequest(helpdesk, email string) error {
	return sendPasswordResetRequest(d, helpdesk, email)
}
