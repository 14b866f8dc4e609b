/*
Package monitoring provides Prometheus metrics for the capture and restore
engine.

# Overview

Every Metrics value owns a private registry carrying the session operation
metrics, the HTTP metrics of the control API and the Go runtime and process
collectors. All recording methods accept a nil receiver, so components can
run without metrics.

# Usage

	metrics := monitoring.NewMetrics()

	// Add middleware to Gin router
	router.Use(monitoring.Middleware(metrics))
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	// Time operations
	timer := monitoring.NewTimer(metrics, "capture")
	snap := capturer.Capture(ctx, apps)
	timer.Stop("success")
	metrics.RecordCapture(len(snap.Windows), len(snap.Monitors))
*/
package monitoring
