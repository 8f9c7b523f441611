package safego

import (
	"runtime/debug"
	"sync"

	"github.com/andyrewlee/assistive/internal/logging"
)

// PanicHandler receives details of a panic recovered by Run.
type PanicHandler func(name string, recovered any, stack []byte)

var (
	panicHandlerMu sync.RWMutex
	panicHandler   PanicHandler
)

// SetPanicHandler registers a process-wide handler for recovered panics.
// The UI uses it to surface a toast instead of dying silently.
func SetPanicHandler(handler PanicHandler) {
	panicHandlerMu.Lock()
	panicHandler = handler
	panicHandlerMu.Unlock()
}

// Run executes fn, logging and reporting any panic instead of letting it
// escape. It reports whether fn returned normally.
// Runtime-fatal errors (e.g. concurrent map writes) are not recoverable.
func Run(name string, fn func()) (ok bool) {
	if name == "" {
		name = "goroutine"
	}
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		ok = false
		stack := debug.Stack()
		logging.Error("panic in %s: %v\n%s", name, r, stack)

		panicHandlerMu.RLock()
		handler := panicHandler
		panicHandlerMu.RUnlock()
		if handler == nil {
			return
		}
		func() {
			defer func() { _ = recover() }()
			handler(name, r, stack)
		}()
	}()
	fn()
	return true
}

// Go runs fn on a new goroutine under Run. The returned channel is closed
// once fn has finished, panicked or not.
func Go(name string, fn func()) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		Run(name, fn)
	}()
	return done
}
