package messages

import (
	"image"
	"time"

	"github.com/andyrewlee/assistive/internal/config"
)

// AnimationTick drives the snap animation. One is in flight at a time.
type AnimationTick struct {
	Time time.Time
}

// PositionSaved reports the result of persisting the resting position.
type PositionSaved struct {
	Position image.Point
	Err      error
}

// PositionReset is sent after the saved position was forgotten.
type PositionReset struct {
	Err error
}

// ConfigChanged is sent by the config watcher when config.json changes.
type ConfigChanged struct {
	Reason string
}

// ConfigReloaded carries a freshly loaded configuration.
type ConfigReloaded struct {
	Config *config.Config
	Err    error
}

// MenuAction is sent when a quick menu item is chosen.
type MenuAction struct {
	ID string
}

// ToastLevel identifies the toast variant.
type ToastLevel string

const (
	ToastInfo    ToastLevel = "info"
	ToastSuccess ToastLevel = "success"
	ToastError   ToastLevel = "error"
	ToastWarning ToastLevel = "warning"
)

// Toast requests a toast notification.
type Toast struct {
	Message string
	Level   ToastLevel
}

// Error is reported when an operation fails.
type Error struct {
	Err     error
	Context string
}

func (e Error) Error() string {
	if e.Context != "" {
		return e.Context + ": " + e.Err.Error()
	}
	return e.Err.Error()
}

func (e Error) Unwrap() error { return e.Err }
