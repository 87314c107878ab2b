package apiclient

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Response is the backend's uniform envelope. Data is kept raw so each
// caller decodes into its own payload type.
type Response struct {
	Success bool            `json:"success"`
	Code    int             `json:"code,omitempty"`
	Message string          `json:"message,omitempty"`
	Error   string          `json:"error,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// Decode unmarshals the envelope's data payload into v.
func (r *Response) Decode(v interface{}) error {
	if len(r.Data) == 0 {
		return errors.New("response has no data")
	}
	return json.Unmarshal(r.Data, v)
}

// Err converts an unsuccessful envelope into an error carrying the best
// available message. Returns nil for successful responses.
func (r *Response) Err() error {
	if r.Success {
		return nil
	}
	if r.Message != "" {
		return errors.New(r.Message)
	}
	if r.Error != "" {
		return errors.New(r.Error)
	}
	return errors.New("request failed")
}

// StatusError marks a non-2xx HTTP response. The envelope, when the body
// parsed as one, travels alongside so callers still see the server message.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("request failed with status %d", e.StatusCode)
}
