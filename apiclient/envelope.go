package apiclient

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/pkg/errors"
)

// Envelope is the normalized result of any backend call.
// Success=false implies Data is absent; Success=true implies no Error.
type Envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Message string          `json:"message,omitempty"`
	Error   string          `json:"error,omitempty"`

	// Raw holds the undecoded payload for binary and text response modes.
	Raw []byte `json:"-"`

	// StatusCode is the HTTP status a failure envelope was built from; zero
	// for success envelopes and for malformed success bodies.
	StatusCode int `json:"-"`
}

// BackendError represents a request the backend received and rejected, as
// opposed to a transport failure that never produced a response. Callers can
// recover the backend's status and message from it.
type BackendError struct {
	StatusCode int
	Message    string
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("backend rejected request: %s (status %d)", e.Message, e.StatusCode)
}

// Err converts a failure envelope into a BackendError. Returns nil for a
// success envelope.
func (e *Envelope) Err() error {
	if e.Success {
		return nil
	}
	return &BackendError{StatusCode: e.StatusCode, Message: e.Message}
}

// DecodeData unmarshals the envelope payload into v. It is a no-op on an
// empty payload.
func (e *Envelope) DecodeData(v any) error {
	if len(e.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(e.Data, v); err != nil {
		return errors.Wrap(err, "[Envelope.DecodeData] unmarshal payload")
	}
	return nil
}

// envelopeFromBody coerces a success-status JSON body into an Envelope. A
// body that already carries the envelope shape passes through unchanged;
// anything else valid becomes the payload of a success envelope, leaving
// shape normalization to the consuming collaborator. An unparseable body is
// a failure envelope with a generic message, never an error.
func envelopeFromBody(body []byte) *Envelope {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return &Envelope{Success: true}
	}
	if !json.Valid(trimmed) {
		return &Envelope{Success: false, Message: "malformed response body"}
	}

	if trimmed[0] == '{' {
		var probe struct {
			Success *bool `json:"success"`
		}
		if json.Unmarshal(trimmed, &probe) == nil && probe.Success != nil {
			var envelope Envelope
			if json.Unmarshal(trimmed, &envelope) == nil {
				return &envelope
			}
		}
	}

	return &Envelope{Success: true, Data: json.RawMessage(trimmed)}
}

// failureEnvelope converts a non-success HTTP status into an Envelope by
// best-effort parsing of a JSON error body, falling back to the HTTP status
// text when the body is not parseable JSON.
func failureEnvelope(status int, body []byte) *Envelope {
	message := ""
	var parsed struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if json.Unmarshal(body, &parsed) == nil {
		message = parsed.Message
		if message == "" {
			message = parsed.Error
		}
	}
	if message == "" {
		message = http.StatusText(status)
	}

	return &Envelope{
		Success:    false,
		Message:    message,
		Error:      fmt.Sprintf("Status: %d", status),
		StatusCode: status,
	}
}
