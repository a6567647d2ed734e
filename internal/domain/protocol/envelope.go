package protocol

import (
	"github.com/bytedance/sonic"
)

// ContentType is the media type of every envelope.
const ContentType = "application/json; charset=utf-8"

// Envelope is the response wrapper shared by success and failure.
type Envelope struct {
	SessionID *string `json:"sessionId"`
	Status    Status  `json:"status"`
	Value     any     `json:"value"`
}

// ErrorValue is the value of a failed command.
type ErrorValue struct {
	Message string `json:"message"`
}

// Success builds a status 0 envelope. An empty sessionID renders as null.
func Success(sessionID string, value any) Envelope {
	return Envelope{SessionID: optional(sessionID), Status: StatusSuccess, Value: value}
}

// Failure builds the envelope for a protocol error.
func Failure(sessionID string, err *Error) Envelope {
	return Envelope{
		SessionID: optional(sessionID),
		Status:    err.Status,
		Value:     ErrorValue{Message: err.Message},
	}
}

// Encode serializes an envelope.
func Encode(env Envelope) ([]byte, error) {
	return sonic.Marshal(env)
}

// Decode parses a request body into v.
func Decode(data []byte, v any) error {
	return sonic.Unmarshal(data, v)
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
