package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"time"
)

// Envelope wraps all --json responses.
type Envelope struct {
	OK            bool       `json:"ok"`
	Data          any        `json:"data"`
	Error         *ErrorInfo `json:"error"`
	Meta          Meta       `json:"meta"`
	SchemaVersion string     `json:"schema_version"`
	Command       string     `json:"command,omitempty"`
}

// ErrorInfo describes an error in the JSON envelope.
type ErrorInfo struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// Meta contains response metadata.
type Meta struct {
	GeneratedAt      string `json:"generated_at"`
	AssistiveVersion string `json:"assistive_version"`
}

const EnvelopeSchemaVersion = "assistive.cli.v1"

// Exit codes.
const (
	ExitOK            = 0
	ExitInternalError = 1
	ExitUsage         = 2
	ExitNotFound      = 3
	ExitCheckFailed   = 5
)

// exitError lets commands return a specific exit code without printing an error.
type exitError struct {
	code int
}

func (e exitError) Error() string {
	return fmt.Sprintf("exit with code %d", e.code)
}

func newMeta(version string) Meta {
	return Meta{
		GeneratedAt:      time.Now().UTC().Format(time.RFC3339),
		AssistiveVersion: version,
	}
}

func writeEnvelope(w io.Writer, env Envelope) {
	data, err := json.MarshalIndent(env, "", "  ")
	if err != nil {
		fallback := []byte(`{"ok":false,"error":{"code":"encode_failed","message":"failed to encode response"},"data":null}` + "\n")
		_, _ = w.Write(fallback)
		return
	}
	_, _ = w.Write(append(data, '\n'))
}

// PrintJSON writes a success envelope to w.
func PrintJSON(w io.Writer, command string, data any, version string) {
	writeEnvelope(w, Envelope{
		OK:            true,
		Data:          data,
		Meta:          newMeta(version),
		SchemaVersion: EnvelopeSchemaVersion,
		Command:       command,
	})
}

// ReturnError writes an error envelope to w.
func ReturnError(w io.Writer, command, code, message string, details any, version string) {
	writeEnvelope(w, Envelope{
		Error:         &ErrorInfo{Code: code, Message: message, Details: details},
		Meta:          newMeta(version),
		SchemaVersion: EnvelopeSchemaVersion,
		Command:       command,
	})
}

// Errorf prints a human-readable error to w.
func Errorf(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "Error: "+format+"\n", args...)
}
