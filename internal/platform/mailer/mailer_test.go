package mailer

import (
	"strings"
	"testing"

	"github.com/diagnosis/visitor-portal/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sent struct {
	to, subject, text, html string
}

type recorder struct{ got []sent }

func (r *recorder) Send(toEmail, toName, subject, text, html string) (string, error) {
	r.got = append(r.got, sent{toEmail, subject, text, html})
	return "id", nil
}

func (r *recorder) SendPasswordResetRequest(helpdesk, email string) error {
	return sendPasswordResetRequest(r, helpdesk, email)
}

func TestSendPasswordResetRequest(t *testing.T) {
	r := &recorder{}
	require.NoError(t, r.SendPasswordResetRequest("help@corp.test", "ada<x>@corp.test"))
	require.Len(t, r.got, 1)

	msg := r.got[0]
	assert.Equal(t, "help@corp.test", msg.to)
	assert.Contains(t, msg.text, "ada<x>@corp.test")
	assert.Contains(t, msg.html, "ada&lt;x&gt;@corp.test")
	assert.NotContains(t, msg.html, "<x>")
}

func TestSendPasswordResetRequest_NoHelpdesk(t *testing.T) {
	r := &recorder{}
	assert.Error(t, r.SendPasswordResetRequest("", "ada@corp.test"))
	assert.Empty(t, r.got)
}

func TestBuildMessage(t *testing.T) {
	msg := string(buildMessage("from@corp.test", "to@corp.test", "Hello", "plain body", "<p>html body</p>"))

	assert.Contains(t, msg, "From: from@corp.test\r\n")
	assert.Contains(t, msg, "To: to@corp.test\r\n")
	assert.Contains(t, msg, "Subject: Hello\r\n")
	assert.Contains(t, msg, "Content-Type: text/plain; charset=utf-8\r\n\r\nplain body")
	assert.Contains(t, msg, "Content-Type: text/html; charset=utf-8\r\n\r\n<p>html body</p>")
	assert.True(t, strings.HasSuffix(msg, "--portal-boundary--\r\n"))
}

func TestSMTPMailer_EmptyRecipient(t *testing.T) {
	_, err := NewSMTPMailer("localhost", 1025, "from@corp.test", "", "", false).Send("  ", "", "s", "t", "h")
	assert.Error(t, err)
}

func TestMailer_DisabledWithoutKey(t *testing.T) {
	m := NewMailer("", "Portal", "from@corp.test")
	assert.False(t, m.Enabled)
	_, err := m.Send("to@corp.test", "", "s", "t", "h")
	assert.Error(t, err)
}

func TestNew_SelectsImplementation(t *testing.T) {
	assert.IsType(t, &DevMailer{}, New(config.EmailConfig{DevMode: true, MailerSendKey: "k"}))
	assert.IsType(t, &Mailer{}, New(config.EmailConfig{MailerSendKey: "k", SMTPFrom: "f@corp.test"}))
	assert.IsType(t, &SMTPMailer{}, New(config.EmailConfig{SMTPHost: "localhost", SMTPPort: 1025}))
}

func TestDevMailer(t *testing.T) {
	id, err := NewDevMailer().Send("to@corp.test", "", "s", "t", "h")
	require.NoError(t, err)
	assert.NotEmpty(t, id)
	assert.NoError(t, NewDevMailer().SendPasswordResetRequest("help@corp.test", "ada@corp.test"))
}
