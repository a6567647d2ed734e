// Package config provides 12-factor configuration management for the driver.
//
// Configuration is layered: built-in defaults, then an optional YAML file
// (-config or CONFIG_FILE), then environment variables. CLI flags in
// cmd/server override everything, and the merged result is validated once.
//
// Configuration Sections:
//   - Server: listen address, WebDriver base path, shutdown grace period
//   - Backend: automation backend kind (osascript, remote) and queue tuning
//   - Session: default target app, session cap, default timeouts
//   - Logging: log level and output format
//   - RateLimit: per-IP rate limiting
//   - Metrics: Prometheus exposition
//
// Example Usage:
//
//	cfg, err := config.Load(os.Getenv("CONFIG_FILE"))
//	if err != nil {
//		return err
//	}
//	cfg.Server.Port = "9515"
//	if err := cfg.Validate(); err != nil {
//		return err
//	}
//
// Environment Variables:
//   - PORT, HOST, BASE_PATH, SHUTDOWN_TIMEOUT, COMPRESS_MIN_SIZE
//   - BACKEND, OSASCRIPT_PATH, SCREENCAPTURE_PATH, REMOTE_URL, REMOTE_RETRIES
//   - QUEUE_SIZE, COMMAND_TIMEOUT, PROBE_TIMEOUT, BREAKER_FAILURES, BREAKER_COOLDOWN
//   - DEFAULT_APP, MAX_SESSIONS, SCRIPT_TIMEOUT, ASYNC_SCRIPT_TIMEOUT,
//     IMPLICIT_WAIT, PAGE_LOAD_TIMEOUT
//   - LOG_LEVEL, LOG_DEV
//   - RATE_LIMIT_RPS, RATE_LIMIT_BURST, RATE_LIMIT_ENABLED
//   - METRICS_ENABLED, METRICS_PATH
package config
