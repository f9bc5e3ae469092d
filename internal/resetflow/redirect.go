package resetflow

import "time"

// Navigator moves the user to another view of the application.
type Navigator interface {
	Navigate(path string)
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(path string)

func (f NavigatorFunc) Navigate(path string) { f(path) }

// Timer is a scheduled task that can be cancelled.
type Timer interface {
	Stop() bool
}

// Scheduler runs f once after d.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type clockScheduler struct{}

func (clockScheduler) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// scheduleRedirect arms the post-success navigation. Caller holds p.mu.
func (p *Page) scheduleRedirect() {
	if p.nav == nil {
		return
	}
	p.redirect = p.sched.AfterFunc(p.delay, p.navigate)
}

func (p *Page) navigate() {
	p.mu.Lock()
	if p.closed || p.navigated {
		p.mu.Unlock()
		return
	}
	p.navigated = true
	path := p.loginPath
	p.mu.Unlock()

	p.log.Debugf("redirecting to %s", path)
	p.nav.Navigate(path)
}
