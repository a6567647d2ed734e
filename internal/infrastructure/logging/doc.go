// Package logging provides structured logging using uber/zap.
//
// Two modes are supported:
//   - Production: JSON output for log shippers
//   - Development: colored console output, debug level, stack traces
//
// Command handlers log through child loggers carrying the session and
// command name, so one grep over "session_id" reconstructs a session.
//
// Example Usage:
//
//	logger, err := logging.New(logging.Config{Level: "info"})
//	if err != nil {
//		return err
//	}
//	logger.Info("Server starting", zap.String("addr", ":4622"))
//	logger.ForCommand("getUrl", sessionID).Warn("backend failed", zap.Error(err))
package logging
