// Package main is the entry point for AppleDriver, a JSON wire protocol
// server that drives macOS applications through AppleScript.
//
// Configuration:
//   - Defaults, then an optional YAML file (-config or CONFIG_FILE)
//   - Environment variables
//   - CLI flags (override both)
//
// Usage:
//
//	# Drive local apps through osascript
//	./server -port 4622
//
//	# Forward automation to a remote host agent
//	./server -backend remote -remote http://mac-mini.local:9000
//
//	# Development mode (console logs, debug level)
//	./server -dev
//
// Signals:
//   - SIGINT, SIGTERM: Graceful shutdown
package main
