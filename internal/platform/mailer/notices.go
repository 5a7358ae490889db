package mailer

import (
	"fmt"
	"html"
)

// passwordResetNotice is the help-desk message for a password reset
// request. The visitor service has no reset endpoint, so a person handles it.
func passwordResetNotice(email string) (subject, text, htmlBody string) {
	subject = "Visitor portal password reset request"
	text = fmt.Sprintf("A password reset was requested for %s.\nPlease verify the requester and reset the account.", email)
	htmlBody = fmt.Sprintf(`<p>A password reset was requested for <b>%s</b>.</p>
<p>Please verify the requester and reset the account.</p>`, html.EscapeString(email))
	return subject, text, htmlBody
}

func sendPasswordResetRequest(s Service, helpdesk, email string) error {
	if helpdesk == "" {
		return fmt.Errorf("no help-desk address configured")
	}
	subject, text, htmlBody := passwordResetNotice(email)
	_, err := s.Send(helpdesk, "Help desk", subject, text, htmlBody)
	return err
}
