package resetflow

import "time"

// Phase is where a page is in the reset flow.
type Phase int

const (
	// PhaseUnknown: the token has not been verified yet.
	PhaseUnknown Phase = iota
	// PhaseInvalid: no token, a rejected token, or verification failed.
	PhaseInvalid
	// PhaseEditing: token valid, form accepting input.
	PhaseEditing
	// PhaseSubmitting: reset request in flight, submit disabled.
	PhaseSubmitting
	// PhaseSucceeded: password changed, redirect pending.
	PhaseSucceeded
)

func (p Phase) String() string {
	switch p {
	case PhaseUnknown:
		return "unknown"
	case PhaseInvalid:
		return "invalid"
	case PhaseEditing:
		return "editing"
	case PhaseSubmitting:
		return "submitting"
	case PhaseSucceeded:
		return "succeeded"
	}
	return "phase(?)"
}

// Valid reports whether the token was accepted by the backend.
func (p Phase) Valid() bool {
	return p == PhaseEditing || p == PhaseSubmitting || p == PhaseSucceeded
}

const (
	titleReset   = "Reset Password"
	titleExpired = "Link Expired"
)

// View is what a front end renders. Exactly one variant applies at a time:
// Loading, Invalid, Form or Success.
type View interface {
	Title() string
	view()
}

// Loading is shown until verification resolves.
type Loading struct{}

// Invalid is shown for a missing, rejected or unverifiable token.
type Invalid struct {
	Message string
}

// Form is the password form. Busy disables the submit control.
type Form struct {
	Error string
	Busy  bool
}

// Success replaces the form once the password was changed.
type Success struct {
	Message  string
	Redirect Redirect
}

// Redirect tells a front end where to send the user and when.
type Redirect struct {
	Path  string
	After time.Duration
}

func (Loading) Title() string { return titleReset }
func (Invalid) Title() string { return titleExpired }
func (Form) Title() string    { return titleReset }
func (Success) Title() string { return titleReset }

func (Loading) view() {}
func (Invalid) view() {}
func (Form) view()    {}
func (Success) view() {}
