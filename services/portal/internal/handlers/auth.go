package handlers

import (
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/diagnosis/visitor-portal/internal/authflow"
	"github.com/diagnosis/visitor-portal/internal/domain"
	"github.com/diagnosis/visitor-portal/internal/session"
	"github.com/diagnosis/visitor-portal/pkg/events"
	"github.com/diagnosis/visitor-portal/pkg/logger"
	"github.com/diagnosis/visitor-portal/services/portal/internal/views"
)

type loginData struct {
	OfficialMail string
	Remember     bool
	Error        string
}

type signUpData struct {
	Form    authflow.SignUpForm
	Checks  authflow.PasswordChecks
	Special string
	Error   string
}

type verifyData struct {
	Email    string
	Cells    authflow.Code
	Focus    int
	Complete bool
	Error    string
}

type forgotData struct {
	OfficialMail string
	Sent         bool
	Error        string
}

func checkbox(r *http.Request, name string) bool {
	switch r.PostFormValue(name) {
	case "1", "on", "true", "yes":
		return true
	default:
		return false
	}
}

func (h *Handlers) LoginPage(w http.ResponseWriter, r *http.Request) {
	if h.current(r).Authenticated() {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}
	email := h.sessions.RememberedEmail(r)
	h.render(w, r, http.StatusOK, views.Login, "Login", loginData{OfficialMail: email, Remember: email != ""})
}

func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	form := authflow.LoginForm{
		OfficialMail: r.PostFormValue("officialMail"),
		Password:     r.PostFormValue("password"),
		Remember:     checkbox(r, "remember"),
	}
	data := loginData{OfficialMail: form.OfficialMail, Remember: form.Remember}

	fail := func(msg string) {
		data.Error = msg
		h.render(w, r, http.StatusOK, views.Login, "Login", data, errorFlash(msg))
	}

	if !form.Complete() {
		fail(msgFillAllFields)
		return
	}

	env, err := h.api.Login(r.Context(), form.Request())
	if err != nil {
		fail(failure(r, "login", err, nil, msgLoginFailed))
		return
	}
	resp, biz := env.Result()
	if biz != nil {
		fail(failure(r, "login", nil, biz, msgLoginFailed))
		return
	}
	if resp == nil || resp.JWTToken == "" {
		logger.WarnContext(r.Context(), "Login succeeded without a token")
		fail(env.MessageOr(msgLoginFailed))
		return
	}

	s := h.current(r)
	if err := h.sessions.Renew(r.Context(), s); err != nil {
		logger.WarnContext(r.Context(), "Failed to renew session", "error", err)
	}
	s.Token = resp.JWTToken
	if form.Remember {
		h.sessions.RememberEmail(w, form.Request().OfficialMail)
	}

	logger.InfoContext(r.Context(), "User logged in")
	s.AddFlash(session.FlashSuccess, msgLoginSuccess)
	h.redirect(w, r, s, "/dashboard")
}

func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request) {
	s := h.current(r)
	s.Token = ""
	if err := h.sessions.Renew(r.Context(), s); err != nil {
		logger.WarnContext(r.Context(), "Failed to renew session", "error", err)
	}
	s.AddFlash(session.FlashSuccess, msgLoggedOut)
	h.redirect(w, r, s, "/login")
}

func newSignUpData(form authflow.SignUpForm) signUpData {
	checks := form.PasswordChecks()
	form.Password = ""
	return signUpData{Form: form, Checks: checks, Special: authflow.SpecialCharacters}
}

func (h *Handlers) SignUpPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, views.SignUp, "Sign up", newSignUpData(authflow.SignUpForm{}))
}

func (h *Handlers) SignUp(w http.ResponseWriter, r *http.Request) {
	form := authflow.SignUpForm{
		FullName:     r.PostFormValue("fullName"),
		OfficialMail: r.PostFormValue("officialMail"),
		PhoneNumber:  r.PostFormValue("phoneNumber"),
		Password:     r.PostFormValue("password"),
	}
	data := newSignUpData(form)

	fail := func(msg string) {
		data.Error = msg
		h.render(w, r, http.StatusOK, views.SignUp, "Sign up", data, errorFlash(msg))
	}

	if !form.Complete() {
		fail(msgPasswordRules)
		return
	}

	pending := form.Pending()
	env, err := h.api.SignUp(r.Context(), pending.SignUpRequest())
	if err != nil {
		fail(failure(r, "signup", err, nil, msgSignUpFailed))
		return
	}
	if _, biz := env.Result(); biz != nil {
		fail(failure(r, "signup", nil, biz, msgSignUpFailed))
		return
	}

	if err := h.sessions.StashSignUp(r.Context(), w, pending); err != nil {
		logger.ErrorContext(r.Context(), "Failed to stash pending sign-up", "error", err)
		fail(msgTransport)
		return
	}

	logger.InfoContext(r.Context(), "Sign-up awaiting OTP", "pending", pending)
	s := h.current(r)
	s.AddFlash(session.FlashSuccess, msgOTPSent)
	h.redirect(w, r, s, "/verify")
}

// pendingOrRedirect returns the stashed sign-up, or sends the browser to the
// sign-up page and returns nil.
func (h *Handlers) pendingOrRedirect(w http.ResponseWriter, r *http.Request) *domain.PendingSignUp {
	p, err := h.sessions.PendingSignUp(r)
	if err != nil {
		logger.ErrorContext(r.Context(), "Failed to load pending sign-up", "error", err)
	}
	if p == nil {
		http.Redirect(w, r, "/signup", http.StatusSeeOther)
		return nil
	}
	return p
}

// codeFromForm reads the OTP cells. A cell holding more than one character
// is treated as a paste and distributed over all cells.
func codeFromForm(cells []string) (authflow.Code, int) {
	for _, cell := range cells {
		cell = strings.TrimSpace(cell)
		if utf8.RuneCountInString(cell) > 1 {
			var code authflow.Code
			if focus, ok := code.Paste(cell); ok {
				return code, focus
			}
		}
	}

	code := authflow.ParseCode(cells)
	for i, d := range code {
		if d == "" {
			return code, i
		}
	}
	return code, authflow.CodeLength - 1
}

func (h *Handlers) renderVerify(w http.ResponseWriter, r *http.Request, status int, p *domain.PendingSignUp, code authflow.Code, focus int, msg string) {
	data := verifyData{
		Email:    p.OfficialMail,
		Cells:    code,
		Focus:    focus,
		Complete: code.Complete(),
		Error:    msg,
	}
	var extra []session.Flash
	if msg != "" {
		extra = append(extra, errorFlash(msg))
	}
	h.render(w, r, status, views.Verify, "Verify email", data, extra...)
}

func (h *Handlers) VerifyPage(w http.ResponseWriter, r *http.Request) {
	p := h.pendingOrRedirect(w, r)
	if p == nil {
		return
	}
	h.renderVerify(w, r, http.StatusOK, p, authflow.Code{}, 0, "")
}

func (h *Handlers) Verify(w http.ResponseWriter, r *http.Request) {
	p := h.pendingOrRedirect(w, r)
	if p == nil {
		return
	}
	_ = r.ParseForm()
	code, focus := codeFromForm(r.PostForm["otp"])

	if !code.Complete() {
		h.renderVerify(w, r, http.StatusOK, p, code, focus, msgEnterFullCode)
		return
	}

	env, err := h.api.ConfirmOTP(r.Context(), p.ConfirmOTPRequest(code.String()))
	if err != nil {
		h.renderVerify(w, r, http.StatusOK, p, code, focus, failure(r, "confirm_otp", err, nil, msgVerifyFailed))
		return
	}
	if _, biz := env.Result(); biz != nil {
		h.renderVerify(w, r, http.StatusOK, p, code, focus, failure(r, "confirm_otp", nil, biz, msgVerifyFailed))
		return
	}

	if err := h.sessions.ClearSignUp(w, r); err != nil {
		logger.WarnContext(r.Context(), "Failed to clear pending sign-up", "error", err)
	}
	h.publish(r, events.AccountCreated, events.AccountCreatedEvent{
		Email:     p.OfficialMail,
		FullName:  p.FullName,
		CreatedAt: h.now().UTC(),
	})

	s := h.current(r)
	s.AddFlash(session.FlashSuccess, msgAccountCreated)
	h.redirect(w, r, s, "/login")
}

// ResendCode replays the stashed sign-up so the service emails a new code.
// The entered code is discarded either way.
func (h *Handlers) ResendCode(w http.ResponseWriter, r *http.Request) {
	p := h.pendingOrRedirect(w, r)
	if p == nil {
		return
	}

	env, err := h.api.SignUp(r.Context(), p.SignUpRequest())
	if err != nil {
		logger.ErrorContext(r.Context(), "Resend failed", "error", err)
		h.renderVerify(w, r, http.StatusOK, p, authflow.Code{}, 0, msgResendFailed)
		return
	}
	if _, biz := env.Result(); biz != nil {
		h.renderVerify(w, r, http.StatusOK, p, authflow.Code{}, 0, failure(r, "resend", nil, biz, msgResendFailed))
		return
	}

	s := h.current(r)
	s.AddFlash(session.FlashSuccess, msgOTPResent)
	h.redirect(w, r, s, "/verify")
}

func (h *Handlers) CancelSignUp(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.ClearSignUp(w, r); err != nil {
		logger.WarnContext(r.Context(), "Failed to clear pending sign-up", "error", err)
	}
	http.Redirect(w, r, "/signup", http.StatusSeeOther)
}

func (h *Handlers) ForgotPasswordPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, views.ForgotPassword, "Forgot password", forgotData{})
}

// ForgotPassword records a reset request. The visitor service has no reset
// endpoint; the request goes to the help desk by email and as an event.
func (h *Handlers) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	form := authflow.ResetForm{OfficialMail: r.PostFormValue("officialMail")}
	data := forgotData{OfficialMail: strings.TrimSpace(form.OfficialMail)}

	if !form.Complete() {
		data.Error = msgFillAllFields
		h.render(w, r, http.StatusOK, views.ForgotPassword, "Forgot password", data, errorFlash(msgFillAllFields))
		return
	}

	logger.InfoContext(r.Context(), "Password reset requested", "email", data.OfficialMail)
	h.publish(r, events.PasswordResetRequested, events.PasswordResetRequestedEvent{
		Email:       data.OfficialMail,
		RequestedAt: h.now().UTC(),
	})
	if err := h.mailer.SendPasswordResetRequest(h.helpdesk, data.OfficialMail); err != nil {
		logger.WarnContext(r.Context(), "Failed to notify help desk", "error", err)
	}

	data.Sent = true
	h.render(w, r, http.StatusOK, views.ForgotPassword, "Check your email", data)
}
