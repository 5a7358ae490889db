package handlers

import (
	"bytes"
	"errors"
	"net/http"
	"time"

	mw "github.com/diagnosis/visitor-portal/internal/http/middleware"
	"github.com/diagnosis/visitor-portal/internal/platform/mailer"
	"github.com/diagnosis/visitor-portal/internal/session"
	"github.com/diagnosis/visitor-portal/pkg/events"
	"github.com/diagnosis/visitor-portal/pkg/logger"
	"github.com/diagnosis/visitor-portal/services/portal/internal/remote"
	"github.com/diagnosis/visitor-portal/services/portal/internal/views"
)

// User-facing messages. Fallbacks apply when the visitor service sends none.
const (
	msgTransport        = "An error occurred. Please try again."
	msgLoginFailed      = "Login failed"
	msgSignUpFailed     = "Sign up failed"
	msgVerifyFailed     = "Verification failed"
	msgResendFailed     = "Failed to resend code. Please try again."
	msgLoadFailed       = "Failed to load visitors data"
	msgAddFailed        = "Failed to add visitor"
	msgViewFailed       = "Failed to load visitor details"
	msgSignOutFailed    = "Failed to sign out visitor"
	msgTooManyAttempts  = "Too many attempts. Please try again later."
	msgLoginRequired    = "Please login to access the dashboard"
	msgFillAllFields    = "Please fill in all fields"
	msgEnterFullCode    = "Please enter the complete 4-digit code"
	msgPasswordRules    = "Please fill in all fields and meet every password requirement"
	msgLoginSuccess     = "Login successful!"
	msgOTPSent          = "OTP sent to your email!"
	msgOTPResent        = "OTP resent successfully!"
	msgAccountCreated   = "Account created successfully! Please login."
	msgVisitorAdded     = "Visitor added successfully!"
	msgVisitorSignedOut = "Visitor signed out successfully!"
	msgLoggedOut        = "Logged out successfully"
)

type Deps struct {
	API      *remote.Client
	Sessions *session.Manager
	Views    *views.Renderer
	Events   events.Publisher
	Mailer   mailer.Service
	// Helpdesk receives password reset requests.
	Helpdesk string
}

type Handlers struct {
	api      *remote.Client
	sessions *session.Manager
	views    *views.Renderer
	events   events.Publisher
	mailer   mailer.Service
	helpdesk string
	now      func() time.Time
}

func New(d Deps) *Handlers {
	if d.Events == nil {
		d.Events = events.Nop{}
	}
	if d.Mailer == nil {
		d.Mailer = mailer.NewDevMailer()
	}
	return &Handlers{
		api:      d.API,
		sessions: d.Sessions,
		views:    d.Views,
		events:   d.Events,
		mailer:   d.Mailer,
		helpdesk: d.Helpdesk,
		now:      time.Now,
	}
}

// current returns the request's session. Routes run behind LoadSession, so a
// nil session only happens in misconfigured tests.
func (h *Handlers) current(r *http.Request) *session.Session {
	if s := mw.Session(r); s != nil {
		return s
	}
	s, _ := h.sessions.Load(r)
	return s
}

// client is the API client authenticated as the session's user.
func (h *Handlers) client(s *session.Session) *remote.Client {
	return h.api.WithToken(s.Token)
}

func (h *Handlers) save(w http.ResponseWriter, r *http.Request, s *session.Session) {
	if err := h.sessions.Save(r.Context(), w, s); err != nil {
		logger.ErrorContext(r.Context(), "Failed to save session", "error", err)
	}
}

// redirect saves the session and sends a 303 so a reload never resubmits.
func (h *Handlers) redirect(w http.ResponseWriter, r *http.Request, s *session.Session, to string) {
	h.save(w, r, s)
	http.Redirect(w, r, to, http.StatusSeeOther)
}

// render writes a page. Pending flashes are shown and consumed; extra
// flashes are shown once without being stored, which is how a failure shows
// both inline and as a notification on the same response.
func (h *Handlers) render(w http.ResponseWriter, r *http.Request, status int, name, title string, data any, extra ...session.Flash) {
	s := h.current(r)

	page := views.Page{
		Title:         title,
		Flashes:       append(s.PopFlashes(), extra...),
		Authenticated: s.Authenticated(),
		Data:          data,
	}

	var buf bytes.Buffer
	if err := h.views.Render(&buf, name, page); err != nil {
		logger.ErrorContext(r.Context(), "Failed to render page", "page", name, "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	h.save(w, r, s)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

type errorData struct {
	Message   string
	RetryHref string
}

func (h *Handlers) renderError(w http.ResponseWriter, r *http.Request, status int, message, retry string) {
	h.render(w, r, status, views.Error, "Error", errorData{Message: message, RetryHref: retry})
}

func errorFlash(msg string) session.Flash {
	return session.Flash{Kind: session.FlashError, Message: msg}
}

// failure classifies a remote call outcome into the message to show. err is
// the transport channel, biz the business one; exactly one is set.
func failure(r *http.Request, op string, err error, biz *remote.BusinessError, fallback string) string {
	if err != nil {
		logger.ErrorContext(r.Context(), "Visitor service call failed", "op", op,
			"error", err, "transport", errors.Is(err, remote.ErrTransport))
		return msgTransport
	}
	logger.WarnContext(r.Context(), "Visitor service rejected request", "op", op, "code", biz.Code)
	return biz.MessageOr(fallback)
}

// RequireSession sends visitors without a token to the login page.
func (h *Handlers) RequireSession(w http.ResponseWriter, r *http.Request) {
	s := h.current(r)
	s.AddFlash(session.FlashError, msgLoginRequired)
	h.redirect(w, r, s, "/login")
}

// Home routes to the dashboard or the login page.
func (h *Handlers) Home(w http.ResponseWriter, r *http.Request) {
	if h.current(r).Authenticated() {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// publish sends an event. Failures are logged; they never fail the request.
func (h *Handlers) publish(r *http.Request, subject string, data any) {
	if err := h.events.Publish(r.Context(), subject, data); err != nil {
		logger.WarnContext(r.Context(), "Failed to publish event", "subject", subject, "error", err)
	}
}
