package app

import "github.com/andyrewlee/assistive/internal/logging"

// Shutdown stops background workers and flushes the last resting position.
func (a *App) Shutdown() {
	a.shutdownOnce.Do(func() {
		if a.supervisor != nil {
			a.supervisor.Stop()
		}
		if a.watcher != nil {
			_ = a.watcher.Close()
		}
		if a.store != nil && a.controller != nil && !a.controller.Active() {
			pos := a.restingPosition()
			if err := a.store.Save(pos); err != nil {
				logging.Warn("Failed to save position on shutdown: %v", err)
			}
		}
		a.perf.Flush("shutdown")
	})
}
