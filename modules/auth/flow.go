package auth

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync/atomic"

	"github.com/qrconnect/appkit/pkg/apiclient"
	"github.com/qrconnect/appkit/pkg/guard"
	"github.com/qrconnect/appkit/pkg/i18n"
	"github.com/qrconnect/appkit/pkg/session"
)

// DefaultProtectedRoute is where a fresh session lands.
const DefaultProtectedRoute = "/qr"

// Client is the slice of the remote API the flow needs. Each call returns
// either an issued bearer token (register, login) or a server message
// (forgot-password).
type Client interface {
	Register(ctx context.Context, email, password string) (string, error)
	Login(ctx context.Context, email, password string) (string, error)
	ForgotPassword(ctx context.Context, email string) (string, error)
}

// LoginRequest carries the login screen's field values.
type LoginRequest struct {
	Email    string
	Password string
}

// RegisterRequest carries the registration screen's field values.
type RegisterRequest struct {
	Email    string
	Password string
}

// ForgotPasswordRequest carries the recovery screen's field values.
type ForgotPasswordRequest struct {
	Email string
}

// Result is what a screen shows after an operation. OK reports success; for
// login and registration navigation has already happened by the time the
// Result returns. Notice is a localized message for the user, empty when
// there is nothing to show.
type Result struct {
	OK     bool
	Notice string
}

// Flow drives the public auth screens against the remote API and the local
// session.
type Flow struct {
	client     Client
	sessions   *session.Manager
	nav        guard.Navigator
	translator *i18n.Translator
	lang       string
	route      string
	log        *slog.Logger

	submitting atomic.Bool
}

// Option configures a Flow.
type Option func(*Flow)

// WithLanguage sets the language notices are resolved in.
func WithLanguage(lang string) Option {
	return func(f *Flow) {
		if lang != "" {
			f.lang = lang
		}
	}
}

// WithProtectedRoute overrides DefaultProtectedRoute as the post-login
// destination.
func WithProtectedRoute(route string) Option {
	return func(f *Flow) {
		if route != "" {
			f.route = route
		}
	}
}

// WithLogger attaches a logger.
func WithLogger(log *slog.Logger) Option {
	return func(f *Flow) {
		if log != nil {
			f.log = log
		}
	}
}

// NewFlow creates the controller. All four collaborators are required; the
// constructor panics without them.
func NewFlow(client Client, sessions *session.Manager, nav guard.Navigator, translator *i18n.Translator, opts ...Option) *Flow {
	if client == nil {
		panic("auth: client is required")
	}
	if sessions == nil {
		panic("auth: session manager is required")
	}
	if nav == nil {
		panic("auth: navigator is required")
	}
	if translator == nil {
		panic("auth: translator is required")
	}

	f := &Flow{
		client:     client,
		sessions:   sessions,
		nav:        nav,
		translator: translator,
		lang:       i18n.DefaultLanguage,
		route:      DefaultProtectedRoute,
		log:        slog.Default(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Submitting reports whether an operation is in flight, for disabling
// submit controls.
func (f *Flow) Submitting() bool {
	return f.submitting.Load()
}

// Login validates the fields, exchanges credentials for a token, loads it
// into the session, and navigates to the protected route.
func (f *Flow) Login(ctx context.Context, req LoginRequest) Result {
	if !f.submitting.CompareAndSwap(false, true) {
		return Result{}
	}
	defer f.submitting.Store(false)

	if notice, ok := f.requireCredentials(req.Email, req.Password); !ok {
		return Result{Notice: notice}
	}

	tok, err := f.client.Login(ctx, strings.TrimSpace(req.Email), req.Password)
	if err != nil {
		f.log.Warn("auth: login request failed", slog.Any("error", err))
		return Result{Notice: f.remoteNotice(err, "auth.login.failed", "Login failed")}
	}

	return f.startSession(ctx, tok, "auth.login.failed", "Login failed")
}

// Register validates the fields, creates the account, loads the issued token
// into the session, and navigates to the protected route.
func (f *Flow) Register(ctx context.Context, req RegisterRequest) Result {
	if !f.submitting.CompareAndSwap(false, true) {
		return Result{}
	}
	defer f.submitting.Store(false)

	if notice, ok := f.requireCredentials(req.Email, req.Password); !ok {
		return Result{Notice: notice}
	}

	tok, err := f.client.Register(ctx, strings.TrimSpace(req.Email), req.Password)
	if err != nil {
		f.log.Warn("auth: registration request failed", slog.Any("error", err))
		return Result{Notice: f.remoteNotice(err, "auth.register.failed", "Signup failed")}
	}

	return f.startSession(ctx, tok, "auth.register.failed", "Signup failed")
}

// ForgotPassword asks the server to send a reset email. It never navigates;
// the notice tells the user what happened either way.
func (f *Flow) ForgotPassword(ctx context.Context, req ForgotPasswordRequest) Result {
	if !f.submitting.CompareAndSwap(false, true) {
		return Result{}
	}
	defer f.submitting.Store(false)

	email := strings.TrimSpace(req.Email)
	if email == "" {
		return Result{Notice: f.translator.Td(f.lang, "auth.validation.email_required", "Please enter your email.")}
	}

	msg, err := f.client.ForgotPassword(ctx, email)
	if err != nil {
		f.log.Warn("auth: password reset request failed", slog.Any("error", err))
		return Result{Notice: f.remoteNotice(err, "auth.forgot.failed", "Email not found")}
	}
	if msg == "" {
		msg = f.translator.Td(f.lang, "auth.forgot.sent", "Password reset email sent")
	}
	return Result{OK: true, Notice: msg}
}

func (f *Flow) requireCredentials(email, password string) (string, bool) {
	if strings.TrimSpace(email) == "" || password == "" {
		return f.translator.Td(f.lang, "auth.validation.empty_credentials", "Please enter email and password."), false
	}
	return "", true
}

// startSession loads the token and navigates. A persist failure is logged
// but does not block entry; the session is live in memory for this run.
func (f *Flow) startSession(ctx context.Context, tok, key, fallback string) Result {
	if err := f.sessions.Login(ctx, tok); err != nil {
		if !errors.Is(err, session.ErrPersistFailed) {
			f.log.Error("auth: loading session token", slog.Any("error", err))
			return Result{Notice: f.translator.Td(f.lang, key, fallback)}
		}
		f.log.Warn("auth: token not persisted, session is memory only", slog.Any("error", err))
	}
	f.nav.Replace(f.route)
	return Result{OK: true}
}

// remoteNotice prefers the server-provided message and falls back to the
// screen's localized default.
func (f *Flow) remoteNotice(err error, key, fallback string) string {
	var remote *apiclient.RemoteError
	if errors.As(err, &remote) && remote.Message != "" {
		return remote.Message
	}
	return f.translator.Td(f.lang, key, fallback)
}
