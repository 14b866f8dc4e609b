// Package middleware provides the HTTP middleware for the WCAR control API.
//
// Middleware stack includes:
//   - RequestID: tags each request with a UUID, echoed in X-Request-ID
//   - Logger: one zap line per request
//   - CORS: admits loopback origins only
//   - RateLimit: per-IP token bucket; excess requests get 429
//
// Example Usage:
//
//	router.Use(middleware.RequestID(), middleware.Logger(logger))
//	router.Use(middleware.CORS(middleware.DefaultCORSConfig()))
//	router.Use(middleware.RateLimit(middleware.DefaultRateLimitConfig()))
package middleware
