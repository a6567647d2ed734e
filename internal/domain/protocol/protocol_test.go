package protocol

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusString(t *testing.T) {
	tests := []struct {
		status Status
		want   string
		code   int
	}{
		{StatusSuccess, "Success", 0},
		{StatusSessionNotFound, "NoSuchDriver", 6},
		{StatusUnknownCommand, "UnknownCommand", 9},
		{StatusUnknownError, "UnknownError", 13},
		{StatusTimeout, "Timeout", 21},
		{StatusNoSuchWindow, "NoSuchWindow", 23},
		{StatusSessionNotCreated, "SessionNotCreated", 33},
		{Status(99), "Unknown", 99},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.status.String())
			assert.Equal(t, tt.code, int(tt.status))
		})
	}
}

func TestErrorConstructors(t *testing.T) {
	tests := []struct {
		name       string
		err        *Error
		status     Status
		httpStatus int
	}{
		{"session not found", SessionNotFound("abc"), StatusSessionNotFound, http.StatusOK},
		{"session not created", SessionNotCreated(errors.New("unreachable")), StatusSessionNotCreated, http.StatusOK},
		{"unknown command", UnknownCommand("GET", "/session/x/cookie"), StatusUnknownCommand, http.StatusNotImplemented},
		{"bad request", BadRequest("invalid %s", "body"), StatusUnknownError, http.StatusBadRequest},
		{"no such window", NoSuchWindow("Downloads"), StatusNoSuchWindow, http.StatusOK},
		{"no active window", NoSuchWindow(""), StatusNoSuchWindow, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.status, tt.err.Status)
			assert.Equal(t, tt.httpStatus, tt.err.HTTPStatus)
			assert.NotEmpty(t, tt.err.Message)
		})
	}
}

func TestErrorUnwrapAndAs(t *testing.T) {
	cause := errors.New("osascript exited 1")
	pe := Wrap(StatusUnknownError, cause)
	wrapped := fmt.Errorf("handler: %w", pe)

	assert.ErrorIs(t, wrapped, cause)

	got, ok := As(wrapped)
	require.True(t, ok)
	assert.Equal(t, "osascript exited 1", got.Message)

	_, ok = As(cause)
	assert.False(t, ok)
}

func TestEncodeSuccess(t *testing.T) {
	data, err := Encode(Success("s-1", "file:///Users/"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"sessionId":"s-1","status":0,"value":"file:///Users/"}`, string(data))
}

func TestEncodeNullSessionAndValue(t *testing.T) {
	data, err := Encode(Success("", nil))
	require.NoError(t, err)
	assert.JSONEq(t, `{"sessionId":null,"status":0,"value":null}`, string(data))
}

func TestEncodeFailure(t *testing.T) {
	data, err := Encode(Failure("s-1", SessionNotFound("s-1")))
	require.NoError(t, err)
	assert.JSONEq(t, `{"sessionId":"s-1","status":6,"value":{"message":"session s-1 not found"}}`, string(data))
}

func TestDecode(t *testing.T) {
	var body struct {
		URL string `json:"url"`
	}
	require.NoError(t, Decode([]byte(`{"url":"https://example.com"}`), &body))
	assert.Equal(t, "https://example.com", body.URL)

	assert.Error(t, Decode([]byte(`{"url":`), &body))
}
