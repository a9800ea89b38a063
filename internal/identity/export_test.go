package identity

import "time"

// SetClock overrides the token clock of a Provider built by NewService.
func SetClock(p Provider, now func() time.Time) {
	p.(*service).now = now
}
