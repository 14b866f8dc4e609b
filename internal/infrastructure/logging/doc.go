// Package logging provides structured logging using uber/zap.
//
// Two modes are supported:
//   - Production: JSON output for machine parsing (the default for serve)
//   - Development: Colored console output for interactive CLI use
//
// Every component receives a *Logger through its constructor and derives a
// named child with Component, so log lines carry "capture", "restore",
// "session" or "http" in their "component" field.
//
// Example Usage:
//
//	logger, err := logging.New(logging.Config{Level: "debug", Development: true})
//	if err != nil {
//	    return err
//	}
//	defer logger.Sync()
//	logger.Component("capture").Info("Window captured", zap.String("process", "cmd"))
package logging
