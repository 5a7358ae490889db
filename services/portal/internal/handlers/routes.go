package handlers

import (
	"net/http"

	"github.com/diagnosis/visitor-portal/internal/authflow"
	mw "github.com/diagnosis/visitor-portal/internal/http/middleware"
	"github.com/diagnosis/visitor-portal/internal/http/response"
	"github.com/diagnosis/visitor-portal/services/portal/internal/views"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

// Routes mounts every page and the JSON surface. limiter guards the form
// posts that reach the visitor service's auth endpoints; nil disables it.
func (h *Handlers) Routes(limiter *mw.RateLimiter, corsOrigins []string) chi.Router {
	r := chi.NewRouter()
	r.Use(mw.LoadSession(h.sessions))

	limited := func(next http.Handler) http.Handler { return next }
	if limiter != nil {
		limited = limiter.Middleware()
	}

	r.Get("/", h.Home)

	r.Get("/login", h.LoginPage)
	r.Get("/signup", h.SignUpPage)
	r.Get("/verify", h.VerifyPage)
	r.Get("/forgot-password", h.ForgotPasswordPage)
	r.Post("/verify/cancel", h.CancelSignUp)
	r.Post("/logout", h.Logout)

	r.Group(func(r chi.Router) {
		r.Use(limited)
		r.Post("/login", h.Login)
		r.Post("/signup", h.SignUp)
		r.Post("/verify", h.Verify)
		r.Post("/verify/resend", h.ResendCode)
		r.Post("/forgot-password", h.ForgotPassword)
	})

	r.Group(func(r chi.Router) {
		r.Use(mw.RequireToken(h.RequireSession))
		r.Get("/dashboard", h.Dashboard)
		r.Post("/dashboard/visitors", h.AddVisitor)
		r.Get("/dashboard/visitors/{id}", h.ViewVisitor)
		r.Get("/dashboard/visitors/{id}/sign-out", h.SignOutConfirm)
		r.Post("/dashboard/visitors/{id}/sign-out", h.SignOutVisitor)
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   corsOrigins,
			AllowedMethods:   []string{"GET", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
			ExposedHeaders:   []string{"X-Request-ID"},
			AllowCredentials: false,
			MaxAge:           300,
		}))
		r.Get("/visitors", h.ListVisitorsJSON)
		r.Get("/visitors/{id}", h.GetVisitorJSON)
	})

	return r
}

// TooManyAttempts answers a rate-limited form post by showing the same form
// again with a notice.
func (h *Handlers) TooManyAttempts(w http.ResponseWriter, r *http.Request) {
	flash := errorFlash(msgTooManyAttempts)
	status := http.StatusTooManyRequests

	switch r.URL.Path {
	case "/login":
		data := loginData{OfficialMail: r.PostFormValue("officialMail"), Error: msgTooManyAttempts}
		h.render(w, r, status, views.Login, "Login", data, flash)
	case "/signup":
		data := newSignUpData(authflow.SignUpForm{
			FullName:     r.PostFormValue("fullName"),
			OfficialMail: r.PostFormValue("officialMail"),
			PhoneNumber:  r.PostFormValue("phoneNumber"),
		})
		data.Error = msgTooManyAttempts
		h.render(w, r, status, views.SignUp, "Sign up", data, flash)
	case "/verify", "/verify/resend":
		p := h.pendingOrRedirect(w, r)
		if p == nil {
			return
		}
		h.renderVerify(w, r, status, p, authflow.Code{}, 0, msgTooManyAttempts)
	case "/forgot-password":
		data := forgotData{OfficialMail: r.PostFormValue("officialMail"), Error: msgTooManyAttempts}
		h.render(w, r, status, views.ForgotPassword, "Forgot password", data, flash)
	default:
		response.RateLimit(w, msgTooManyAttempts)
	}
}
