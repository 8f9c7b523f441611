package validation

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/x/ansi"

	"github.com/andyrewlee/assistive/internal/overlay"
)

// ValidationError represents a validation failure
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

const (
	// MaxLabelWidth is the widest label, in cells, a button may carry.
	MaxLabelWidth = 16
	// MaxButtonCells bounds either side of the button.
	MaxButtonCells = 40
	// MaxDuration bounds the tap and snap timings.
	MaxDuration = 5 * time.Second
)

// ValidateLabel validates a button label
func ValidateLabel(label string) error {
	if strings.TrimSpace(label) == "" {
		return &ValidationError{Field: "label", Message: "label cannot be empty"}
	}
	if strings.ContainsAny(label, "\n\r") {
		return &ValidationError{Field: "label", Message: "label must be a single line"}
	}
	if SanitizeInput(label) != strings.TrimSpace(label) {
		return &ValidationError{Field: "label", Message: "label cannot contain control characters"}
	}
	if w := ansi.StringWidth(label); w > MaxLabelWidth {
		return &ValidationError{Field: "label", Message: fmt.Sprintf("label too wide (%d cells, max %d)", w, MaxLabelWidth)}
	}
	return nil
}

// ValidateDimension validates one side of the button, in cells
func ValidateDimension(field string, cells int) error {
	if cells <= 0 {
		return &ValidationError{Field: field, Message: "must be positive"}
	}
	if cells > MaxButtonCells {
		return &ValidationError{Field: field, Message: fmt.Sprintf("too large (max %d)", MaxButtonCells)}
	}
	return nil
}

// ValidateStart validates the configured start corner
func ValidateStart(x, y int) error {
	if x < 0 || y < 0 {
		return &ValidationError{Field: "start", Message: fmt.Sprintf("start %d,%d cannot be negative", x, y)}
	}
	return nil
}

// ValidateTapThreshold validates the tap displacement threshold
func ValidateTapThreshold(threshold float64) error {
	if threshold < 0 {
		return &ValidationError{Field: "tap_threshold", Message: "cannot be negative"}
	}
	return nil
}

// ValidateDuration validates a tap or snap timing
func ValidateDuration(field string, d time.Duration) error {
	if d < 0 {
		return &ValidationError{Field: field, Message: "cannot be negative"}
	}
	if d > MaxDuration {
		return &ValidationError{Field: field, Message: fmt.Sprintf("too long (max %s)", MaxDuration)}
	}
	return nil
}

// ValidateSnapPolicy validates a snap policy name
func ValidateSnapPolicy(name string) error {
	if _, err := overlay.ParseSnapPolicy(name); err != nil {
		return &ValidationError{Field: "snap_policy", Message: fmt.Sprintf("unknown policy '%s' (want two-edge or four-edge)", name)}
	}
	return nil
}

// ValidateKeys validates the keys bound to an action
func ValidateKeys(action string, keys []string) error {
	field := "keymap." + action
	if len(keys) == 0 {
		return &ValidationError{Field: field, Message: "at least one key is required"}
	}
	for _, k := range keys {
		if strings.TrimSpace(k) == "" {
			return &ValidationError{Field: field, Message: "key cannot be empty"}
		}
		if strings.ContainsAny(k, " \t\n\r") {
			return &ValidationError{Field: field, Message: fmt.Sprintf("key '%s' cannot contain whitespace (use \"space\")", k)}
		}
	}
	return nil
}

// SanitizeInput removes potentially dangerous characters from input
func SanitizeInput(input string) string {
	input = strings.Map(func(r rune) rune {
		if r < 32 && r != '\n' && r != '\t' {
			return -1
		}
		return r
	}, input)

	return strings.TrimSpace(input)
}
