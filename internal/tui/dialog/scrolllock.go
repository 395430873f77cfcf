package dialog

import "sync"

// ScrollLock is a reference-counted flag that suppresses background
// scrolling/input while at least one dialog holds it. A counter rather than
// a boolean: a dialog opened on top of another must not unlock the
// background when the inner one closes.
type ScrollLock struct {
	mu    sync.Mutex
	count int
}

// Acquire takes one reference on the lock.
func (l *ScrollLock) Acquire() {
	l.mu.Lock()
	l.count++
	l.mu.Unlock()
}

// Release drops one reference. Releasing an unheld lock is a no-op, so
// close paths stay idempotent.
func (l *ScrollLock) Release() {
	l.mu.Lock()
	if l.count > 0 {
		l.count--
	}
	l.mu.Unlock()
}

// Locked reports whether any dialog currently holds the lock. Host views
// consult this to ignore scroll input while a dialog is open.
func (l *ScrollLock) Locked() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.count > 0
}

// BackgroundLock is the process-wide lock shared by all surfaces that do not
// supply their own.
var BackgroundLock = &ScrollLock{}
