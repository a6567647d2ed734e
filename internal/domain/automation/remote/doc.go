// Package remote forwards automation commands to an automation host over
// HTTP, for setups where the driver runs off the Mac it controls.
//
// Host API:
//
//	POST /execute            {"command": "...", "args": {...}}
//	                         -> {"value": ...} or {"error": {"kind", "message"}}
//	GET  /screenshot         -> image bytes
//	GET  /hierarchy?app=NAME -> accessibility tree as text
//
// Error kinds are "unreachable", "timeout", "no_such_window" and "script".
// Transport failures and 5xx answers count as unreachable. Dial failures
// are retried for every request; gateway errors only for GETs.
package remote
