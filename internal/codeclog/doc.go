// Package codeclog provides structured logging for ldapwire, backed by
// github.com/op/go-logging.
//
// # Overview
//
// The package provides a structured logging interface with support for:
//
//   - Multiple log levels (debug, info, warn, error)
//   - Text and JSON output formats
//   - Request ID tracking (UUIDv4, via github.com/satori/go.uuid)
//   - Field-based contextual logging
//
// # Creating a Logger
//
// Create a logger with configuration:
//
//	logger := codeclog.New(codeclog.Config{
//	    Level:  "info",
//	    Format: "json",
//	    Output: "stderr",
//	})
//
// Or use defaults:
//
//	logger := codeclog.NewDefault() // Info level, text format, stdout
//
// For testing, use a no-op logger:
//
//	logger := codeclog.NewNop()
//
// # Log Levels
//
//	logger.Debug("detailed debugging info", "key", "value")
//	logger.Info("informational message", "key", "value")
//	logger.Warn("warning message", "key", "value")
//	logger.Error("error message", "key", "value")
//
// Parse level from string:
//
//	level := codeclog.ParseLevel("debug") // Returns LevelDebug
//
// # Structured Logging
//
// Add key-value pairs to log entries:
//
//	logger.Info("controls decoded",
//	    "oid", "1.2.840.113556.1.4.319",
//	    "critical", true,
//	)
//
// # Request ID Tracking
//
//	requestID := codeclog.GenerateRequestID()
//	connLogger := logger.WithRequestID(requestID)
//
//	connLogger.Info("decoding PDU") // message carries request_id=...
//
// # Contextual Fields
//
//	connLogger := logger.WithFields(
//	    "client", conn.RemoteAddr().String(),
//	)
//
//	connLogger.Info("search request decoded")
//
// # Output Destinations
//
//	codeclog.Config{Output: "stdout"}
//	codeclog.Config{Output: "stderr"}
//	codeclog.Config{Output: "/var/log/ldapwire.log"}
package codeclog
