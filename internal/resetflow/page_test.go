package resetflow

import (
	"context"
	"errors"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neboloop/cryptoportal/internal/cryptoapi"
)

type fakeBackend struct {
	mu sync.Mutex

	valid     bool
	verifyErr error
	resp      *cryptoapi.ResetPasswordResponse
	resetErr  error
	// block, when set, holds ResetPassword until closed.
	block chan struct{}

	verifyCalls []string
	resetCalls  []cryptoapi.ResetPasswordRequest
}

func (b *fakeBackend) VerifyResetToken(ctx context.Context, token string) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.verifyCalls = append(b.verifyCalls, token)
	return b.valid, b.verifyErr
}

func (b *fakeBackend) ResetPassword(ctx context.Context, token, password string) (*cryptoapi.ResetPasswordResponse, error) {
	b.mu.Lock()
	b.resetCalls = append(b.resetCalls, cryptoapi.ResetPasswordRequest{Token: token, Password: password})
	block := b.block
	b.mu.Unlock()
	if block != nil {
		<-block
	}
	return b.resp, b.resetErr
}

func (b *fakeBackend) calls() (verify, reset int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.verifyCalls), len(b.resetCalls)
}

// fakeScheduler records scheduled work and runs it on demand.
type fakeScheduler struct {
	mu    sync.Mutex
	tasks []*fakeTimer
}

type fakeTimer struct {
	d       time.Duration
	f       func()
	stopped bool
}

func (t *fakeTimer) Stop() bool {
	was := !t.stopped
	t.stopped = true
	return was
}

func (s *fakeScheduler) AfterFunc(d time.Duration, f func()) Timer {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := &fakeTimer{d: d, f: f}
	s.tasks = append(s.tasks, t)
	return t
}

// fire runs every task that was not stopped, as if its delay elapsed.
func (s *fakeScheduler) fire() {
	s.mu.Lock()
	tasks := append([]*fakeTimer(nil), s.tasks...)
	s.mu.Unlock()
	for _, t := range tasks {
		if !t.stopped {
			t.f()
		}
	}
}

type recordingNav struct {
	mu    sync.Mutex
	paths []string
}

func (n *recordingNav) Navigate(path string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.paths = append(n.paths, path)
}

func (n *recordingNav) visited() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.paths...)
}

func mountedPage(t *testing.T, b *fakeBackend, opts ...Option) *Page {
	t.Helper()
	p := New(b, "abc123", opts...)
	p.Mount(context.Background())
	require.Equal(t, PhaseEditing, p.Phase())
	return p
}

func TestTokenFromQuery(t *testing.T) {
	q, _ := url.ParseQuery("token=abc123&x=1")
	assert.Equal(t, "abc123", TokenFromQuery(q))
	assert.Empty(t, TokenFromQuery(url.Values{}))
}

func TestInitialViewIsLoading(t *testing.T) {
	p := New(&fakeBackend{}, "abc123")
	assert.Equal(t, PhaseUnknown, p.Phase())
	assert.Equal(t, Loading{}, p.View())
}

func TestMountWithoutTokenSkipsNetwork(t *testing.T) {
	b := &fakeBackend{valid: true}
	p := New(b, "")
	p.Mount(context.Background())

	verify, reset := b.calls()
	assert.Zero(t, verify)
	assert.Zero(t, reset)
	assert.Equal(t, PhaseInvalid, p.Phase())
	assert.Equal(t, Invalid{Message: MsgLinkInvalid}, p.View())
	assert.Equal(t, "Link Expired", p.View().Title())
}

func TestMountFollowsVerification(t *testing.T) {
	cases := []struct {
		name  string
		valid bool
		err   error
		want  Phase
	}{
		{"valid", true, nil, PhaseEditing},
		{"invalid", false, nil, PhaseInvalid},
		{"transport failure", true, errors.New("dial tcp: connection refused"), PhaseInvalid},
		{"server failure", true, &cryptoapi.APIError{StatusCode: 500}, PhaseInvalid},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b := &fakeBackend{valid: tc.valid, verifyErr: tc.err}
			p := New(b, "abc123")
			p.Mount(context.Background())

			assert.Equal(t, tc.want, p.Phase())
			assert.Equal(t, []string{"abc123"}, b.verifyCalls)
		})
	}
}

func TestMountRunsOnce(t *testing.T) {
	b := &fakeBackend{valid: true}
	p := New(b, "abc123")
	p.Mount(context.Background())
	p.Mount(context.Background())

	verify, _ := b.calls()
	assert.Equal(t, 1, verify)
}

func TestSubmitValidation(t *testing.T) {
	cases := []struct {
		name, password, confirm string
		wantErr                 error
		wantMsg                 string
	}{
		{"both empty", "", "", ErrMissingFields, MsgMissingFields},
		{"confirm empty", "Secret1!", "", ErrMissingFields, MsgMissingFields},
		{"password empty", "", "Secret1!", ErrMissingFields, MsgMissingFields},
		{"mismatch", "Secret1!", "Secret1?", ErrPasswordMismatch, MsgMismatch},
		{"case differs", "secret", "Secret", ErrPasswordMismatch, MsgMismatch},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b := &fakeBackend{valid: true}
			p := mountedPage(t, b)
			p.SetPassword(tc.password)
			p.SetConfirm(tc.confirm)

			err := p.Submit(context.Background())
			assert.ErrorIs(t, err, tc.wantErr)
			_, reset := b.calls()
			assert.Zero(t, reset, "validation must not reach the backend")
			assert.Equal(t, Form{Error: tc.wantMsg}, p.View())
			assert.Equal(t, PhaseEditing, p.Phase())
		})
	}
}

func TestSubmitSuccessRedirectsAfterDelay(t *testing.T) {
	b := &fakeBackend{valid: true, resp: &cryptoapi.ResetPasswordResponse{Message: "Password updated"}}
	sched := &fakeScheduler{}
	nav := &recordingNav{}
	p := mountedPage(t, b, WithScheduler(sched), WithNavigator(nav))

	p.SetPassword("Secret1!")
	p.SetConfirm("Secret1!")
	require.NoError(t, p.Submit(context.Background()))

	assert.Equal(t, []cryptoapi.ResetPasswordRequest{{Token: "abc123", Password: "Secret1!"}}, b.resetCalls)
	assert.Equal(t, PhaseSucceeded, p.Phase())
	assert.Equal(t, Success{
		Message:  "Password updated",
		Redirect: Redirect{Path: "/login", After: 3000 * time.Millisecond},
	}, p.View())

	require.Len(t, sched.tasks, 1)
	assert.Equal(t, 3000*time.Millisecond, sched.tasks[0].d)
	assert.Empty(t, nav.visited(), "no navigation before the delay elapses")

	sched.fire()
	assert.Equal(t, []string{"/login"}, nav.visited())

	sched.fire()
	assert.Equal(t, []string{"/login"}, nav.visited(), "navigates once")
}

func TestSubmitSuccessDefaultMessage(t *testing.T) {
	b := &fakeBackend{valid: true, resp: &cryptoapi.ResetPasswordResponse{}}
	p := mountedPage(t, b, WithLoginPath("/signin"), WithRedirectDelay(time.Second))
	p.SetPassword("pw")
	p.SetConfirm("pw")

	require.NoError(t, p.Submit(context.Background()))
	assert.Equal(t, Success{
		Message:  MsgResetDone,
		Redirect: Redirect{Path: "/signin", After: time.Second},
	}, p.View())
}

func TestSubmitFailureShowsServerMessage(t *testing.T) {
	b := &fakeBackend{valid: true, resetErr: &cryptoapi.APIError{StatusCode: 400, Message: "Token expired"}}
	p := mountedPage(t, b)
	p.SetPassword("Secret1!")
	p.SetConfirm("Secret1!")

	err := p.Submit(context.Background())
	require.Error(t, err)
	assert.Equal(t, PhaseEditing, p.Phase(), "form stays editable")
	assert.Equal(t, Form{Error: "Token expired", Busy: false}, p.View())

	// Retry after the failure reaches the backend again with the error cleared first.
	b.resetErr = nil
	b.resp = &cryptoapi.ResetPasswordResponse{Message: "ok"}
	require.NoError(t, p.Submit(context.Background()))
	assert.Equal(t, PhaseSucceeded, p.Phase())
}

func TestSubmitFailureFallbackMessage(t *testing.T) {
	cases := []error{
		errors.New("connection reset by peer"),
		&cryptoapi.APIError{StatusCode: 502, Body: []byte("bad gateway")},
	}
	for _, resetErr := range cases {
		b := &fakeBackend{valid: true, resetErr: resetErr}
		p := mountedPage(t, b)
		p.SetPassword("a")
		p.SetConfirm("a")

		assert.Error(t, p.Submit(context.Background()))
		assert.Equal(t, Form{Error: MsgResetFailed}, p.View())
	}
}

func TestSubmitRejectedWhileInFlight(t *testing.T) {
	b := &fakeBackend{valid: true, block: make(chan struct{}), resp: &cryptoapi.ResetPasswordResponse{}}
	p := mountedPage(t, b)
	p.SetPassword("a")
	p.SetConfirm("a")

	done := make(chan error, 1)
	go func() { done <- p.Submit(context.Background()) }()

	require.Eventually(t, func() bool { return p.Phase() == PhaseSubmitting }, time.Second, time.Millisecond)
	assert.Equal(t, Form{Busy: true}, p.View())
	assert.ErrorIs(t, p.Submit(context.Background()), ErrBusy)

	close(b.block)
	require.NoError(t, <-done)
	_, reset := b.calls()
	assert.Equal(t, 1, reset)
}

func TestSubmitRequiresValidToken(t *testing.T) {
	b := &fakeBackend{valid: false}
	p := New(b, "abc123")
	assert.ErrorIs(t, p.Submit(context.Background()), ErrNotEditable, "before mount")

	p.Mount(context.Background())
	p.SetPassword("a")
	p.SetConfirm("a")
	assert.ErrorIs(t, p.Submit(context.Background()), ErrNotEditable)
	_, reset := b.calls()
	assert.Zero(t, reset)
}

func TestCloseCancelsRedirect(t *testing.T) {
	b := &fakeBackend{valid: true, resp: &cryptoapi.ResetPasswordResponse{}}
	sched := &fakeScheduler{}
	nav := &recordingNav{}
	p := mountedPage(t, b, WithScheduler(sched), WithNavigator(nav))
	p.SetPassword("a")
	p.SetConfirm("a")
	require.NoError(t, p.Submit(context.Background()))

	p.Close()
	require.Len(t, sched.tasks, 1)
	assert.True(t, sched.tasks[0].stopped)

	// Even if the timer raced past Stop, a closed page does not navigate.
	sched.tasks[0].f()
	assert.Empty(t, nav.visited())
}

func TestCloseDiscardsLateResponses(t *testing.T) {
	b := &fakeBackend{valid: true, block: make(chan struct{}), resp: &cryptoapi.ResetPasswordResponse{}}
	p := mountedPage(t, b)
	p.SetPassword("a")
	p.SetConfirm("a")

	done := make(chan error, 1)
	go func() { done <- p.Submit(context.Background()) }()
	require.Eventually(t, func() bool { return p.Phase() == PhaseSubmitting }, time.Second, time.Millisecond)

	p.Close()
	close(b.block)
	assert.ErrorIs(t, <-done, ErrClosed)
	assert.Equal(t, PhaseSubmitting, p.Phase(), "late success is not applied")
}

func TestRealSchedulerNavigates(t *testing.T) {
	b := &fakeBackend{valid: true, resp: &cryptoapi.ResetPasswordResponse{}}
	navigated := make(chan string, 1)
	p := mountedPage(t, b,
		WithRedirectDelay(10*time.Millisecond),
		WithNavigator(NavigatorFunc(func(path string) { navigated <- path })),
	)
	p.SetPassword("a")
	p.SetConfirm("a")
	require.NoError(t, p.Submit(context.Background()))

	select {
	case path := <-navigated:
		assert.Equal(t, "/login", path)
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for redirect")
	}
}

func TestPhaseString(t *testing.T) {
	assert.Equal(t, "submitting", PhaseSubmitting.String())
	assert.True(t, PhaseSucceeded.Valid())
	assert.False(t, PhaseInvalid.Valid())
	assert.False(t, PhaseUnknown.Valid())
}
