// Package logging provides subsystem-tagged structured logging for catcher.
//
// It wraps Go's slog package with a small printf-style API so call sites read
// the same across the code base:
//
//	logging.InitForCLI(logging.LevelInfo, os.Stderr)
//
//	logging.Info("Auth", "Obtained authorisation code from GitHub")
//	logging.Debug("Config", "Loaded configuration from %s", configPath)
//	logging.Warn("Auth", "Received incorrect state, continue waiting")
//	logging.Error("Session", err, "Failed to persist session")
//
// Every entry carries a "subsystem" attribute; errors are attached as an
// "error" attribute rather than formatted into the message.
//
// # Audit Logging
//
// Credential operations are logged with Audit:
//
//	logging.Audit(logging.AuditEvent{
//	    Action:  "credential_stored",
//	    Outcome: "success",
//	    Target:  "cs3203/catcher-data",
//	})
//
// Audit events are logged at INFO level with an [AUDIT] prefix. Token values
// are never logged.
package logging
