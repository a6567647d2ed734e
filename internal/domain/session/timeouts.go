package session

import (
	"fmt"
	"strings"
	"time"
)

// TimeoutKind names one of the per-session timeouts.
type TimeoutKind string

const (
	TimeoutScript      TimeoutKind = "script"
	TimeoutAsyncScript TimeoutKind = "async_script"
	TimeoutImplicit    TimeoutKind = "implicit"
	TimeoutPageLoad    TimeoutKind = "page_load"
)

// ParseTimeoutKind accepts the JSON wire and W3C spellings of a timeout type.
func ParseTimeoutKind(s string) (TimeoutKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "script":
		return TimeoutScript, nil
	case "async_script", "async script", "asyncscript":
		return TimeoutAsyncScript, nil
	case "implicit", "implicit_wait", "implicitwait":
		return TimeoutImplicit, nil
	case "page load", "page_load", "pageload":
		return TimeoutPageLoad, nil
	default:
		return "", fmt.Errorf("unknown timeout type %q", s)
	}
}

// Timeouts holds a session's timeout values.
type Timeouts struct {
	Script      time.Duration
	AsyncScript time.Duration
	Implicit    time.Duration
	PageLoad    time.Duration
}

// Get returns the value for kind. Unknown kinds yield zero.
func (t Timeouts) Get(kind TimeoutKind) time.Duration {
	switch kind {
	case TimeoutScript:
		return t.Script
	case TimeoutAsyncScript:
		return t.AsyncScript
	case TimeoutImplicit:
		return t.Implicit
	case TimeoutPageLoad:
		return t.PageLoad
	default:
		return 0
	}
}

// Set updates the value for kind.
func (t *Timeouts) Set(kind TimeoutKind, d time.Duration) {
	switch kind {
	case TimeoutScript:
		t.Script = d
	case TimeoutAsyncScript:
		t.AsyncScript = d
	case TimeoutImplicit:
		t.Implicit = d
	case TimeoutPageLoad:
		t.PageLoad = d
	}
}

// Millis renders the values in milliseconds using W3C key names.
func (t Timeouts) Millis() map[string]int64 {
	return map[string]int64{
		"script":      t.Script.Milliseconds(),
		"asyncScript": t.AsyncScript.Milliseconds(),
		"implicit":    t.Implicit.Milliseconds(),
		"pageLoad":    t.PageLoad.Milliseconds(),
	}
}
