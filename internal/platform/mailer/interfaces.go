package mailer

type Service interface {
	Send(toEmail, toName, subject, text, html string) (string, error)
	SendPasswordResetRequest(helpdesk, email string) error
}
