// Package config provides 12-factor configuration for WCAR.
//
// Process settings are loaded from WCAR_* environment variables with
// defaults; the CLI overrides a few of them with flags. The tracked-app
// policy lives in its own file (see LoadApps) because users edit it.
//
// Configuration Sections:
//   - Data: data directory, policy file, history retention
//   - Autosave: periodic capture in serve mode
//   - Log: level and console output
//   - HTTP: control API listen address
//   - RateLimit: per-client request limits for the control API
//   - Restore: stabilization and main-window timeouts, monitor remapping
//
// Environment Variables:
//   - WCAR_DATA_DIR, WCAR_DATA_APPS_FILE, WCAR_DATA_HISTORY_KEEP
//   - WCAR_AUTOSAVE_ENABLED, WCAR_AUTOSAVE_INTERVAL
//   - WCAR_LOG_LEVEL, WCAR_LOG_DEV
//   - WCAR_HTTP_HOST, WCAR_HTTP_PORT
//   - WCAR_RATE_LIMIT_RPS, WCAR_RATE_LIMIT_BURST, WCAR_RATE_LIMIT_ENABLED
//   - WCAR_RESTORE_STABILIZE_TIMEOUT, WCAR_RESTORE_MAIN_WINDOW_TIMEOUT, WCAR_RESTORE_REMAP
//
// Example Usage:
//
//	cfg := config.LoadOrDefault()
//	apps, err := config.LoadApps(cfg.AppsPath())
package config
