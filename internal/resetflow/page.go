// Package resetflow drives the password reset page: token verification on
// mount, form validation, the reset request, and the redirect to login.
//
// A Page is front-end agnostic. The web handler and the terminal program both
// feed it input and render whatever View it reports.
package resetflow

import (
	"context"
	"errors"
	"net/url"
	"sync"
	"time"

	"github.com/neboloop/cryptoportal/internal/cryptoapi"
	"github.com/neboloop/cryptoportal/internal/logging"
)

// QueryParam carries the reset token in the page URL.
const QueryParam = "token"

// Messages shown to the user.
const (
	MsgMissingFields = "Please fill out both fields."
	MsgMismatch      = "Passwords do not match."
	MsgResetDone     = "Password reset successful! Redirecting to login..."
	MsgResetFailed   = "Failed to reset password."
	MsgLinkInvalid   = "This reset link is invalid or has expired."
)

var (
	ErrMissingFields    = errors.New("password and confirmation are required")
	ErrPasswordMismatch = errors.New("passwords do not match")
	ErrBusy             = errors.New("password reset already in progress")
	ErrNotEditable      = errors.New("password form is not available")
	ErrClosed           = errors.New("page closed")
)

// Backend is the part of the API the page talks to.
type Backend interface {
	VerifyResetToken(ctx context.Context, token string) (bool, error)
	ResetPassword(ctx context.Context, token, password string) (*cryptoapi.ResetPasswordResponse, error)
}

// Option configures a Page.
type Option func(*Page)

// WithNavigator makes the page navigate on its own after a successful reset.
// Without one, front ends follow Success.Redirect themselves.
func WithNavigator(n Navigator) Option {
	return func(p *Page) { p.nav = n }
}

// WithLoginPath sets the redirect target (default "/login").
func WithLoginPath(path string) Option {
	return func(p *Page) {
		if path != "" {
			p.loginPath = path
		}
	}
}

// WithRedirectDelay sets how long the success message stays up (default 3s).
func WithRedirectDelay(d time.Duration) Option {
	return func(p *Page) {
		if d > 0 {
			p.delay = d
		}
	}
}

// WithScheduler replaces the wall-clock timer used for the redirect.
func WithScheduler(s Scheduler) Option {
	return func(p *Page) {
		if s != nil {
			p.sched = s
		}
	}
}

// TokenFromQuery extracts the reset token from page query parameters.
func TokenFromQuery(q url.Values) string {
	return q.Get(QueryParam)
}

// Page is one instance of the reset page. It is safe for concurrent use;
// backend calls run without holding the lock.
type Page struct {
	backend   Backend
	token     string
	nav       Navigator
	sched     Scheduler
	loginPath string
	delay     time.Duration
	log       logging.Logger

	mu        sync.Mutex
	phase     Phase
	mounted   bool
	closed    bool
	navigated bool
	password  string
	confirm   string
	errMsg    string
	message   string
	redirect  Timer
}

// New creates a page for token. An empty token is treated as absent.
func New(backend Backend, token string, opts ...Option) *Page {
	p := &Page{
		backend:   backend,
		token:     token,
		sched:     clockScheduler{},
		loginPath: "/login",
		delay:     3 * time.Second,
		log:       logging.WithContext(context.Background()).WithField("component", "resetflow"),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Mount verifies the token once. Any failure to verify leaves the page
// Invalid; it never stays pending.
func (p *Page) Mount(ctx context.Context) {
	p.mu.Lock()
	if p.mounted || p.closed {
		p.mu.Unlock()
		return
	}
	p.mounted = true
	if p.token == "" {
		p.phase = PhaseInvalid
		p.mu.Unlock()
		return
	}
	token := p.token
	p.mu.Unlock()

	valid, err := p.backend.VerifyResetToken(ctx, token)
	if err != nil {
		p.log.Debugf("verify reset token: %v", err)
		valid = false
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	if valid {
		p.phase = PhaseEditing
	} else {
		p.phase = PhaseInvalid
	}
}

// SetPassword updates the new-password field.
func (p *Page) SetPassword(v string) {
	p.mu.Lock()
	p.password = v
	p.mu.Unlock()
}

// SetConfirm updates the confirmation field.
func (p *Page) SetConfirm(v string) {
	p.mu.Lock()
	p.confirm = v
	p.mu.Unlock()
}

// Submit validates the form and, if it passes, asks the backend to reset the
// password. Validation failures return ErrMissingFields or
// ErrPasswordMismatch without a network call. A backend failure is returned
// after the page went back to editing with the error shown.
func (p *Page) Submit(ctx context.Context) error {
	p.mu.Lock()
	switch {
	case p.closed:
		p.mu.Unlock()
		return ErrClosed
	case p.phase == PhaseSubmitting:
		p.mu.Unlock()
		return ErrBusy
	case p.phase != PhaseEditing:
		p.mu.Unlock()
		return ErrNotEditable
	}
	if p.password == "" || p.confirm == "" {
		p.errMsg = MsgMissingFields
		p.mu.Unlock()
		return ErrMissingFields
	}
	if p.password != p.confirm {
		p.errMsg = MsgMismatch
		p.mu.Unlock()
		return ErrPasswordMismatch
	}
	p.phase = PhaseSubmitting
	p.errMsg = ""
	token, password := p.token, p.password
	p.mu.Unlock()

	resp, err := p.backend.ResetPassword(ctx, token, password)

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return ErrClosed
	}
	if err != nil {
		p.log.Errorf("reset password failed: %v", err)
		p.phase = PhaseEditing
		p.errMsg = MsgResetFailed
		if msg := cryptoapi.ServerMessage(err); msg != "" {
			p.errMsg = msg
		}
		return err
	}

	p.message = MsgResetDone
	if resp != nil && resp.Message != "" {
		p.message = resp.Message
	}
	p.phase = PhaseSucceeded
	p.scheduleRedirect()
	return nil
}

// Close tears the page down: a pending redirect is cancelled and responses
// that arrive afterwards are dropped.
func (p *Page) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.closed = true
	if p.redirect != nil {
		p.redirect.Stop()
	}
}

// Phase reports the current phase.
func (p *Page) Phase() Phase {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.phase
}

// View reports what should be on screen.
func (p *Page) View() View {
	p.mu.Lock()
	defer p.mu.Unlock()

	switch p.phase {
	case PhaseInvalid:
		return Invalid{Message: MsgLinkInvalid}
	case PhaseEditing, PhaseSubmitting:
		return Form{Error: p.errMsg, Busy: p.phase == PhaseSubmitting}
	case PhaseSucceeded:
		return Success{
			Message:  p.message,
			Redirect: Redirect{Path: p.loginPath, After: p.delay},
		}
	default:
		return Loading{}
	}
}
