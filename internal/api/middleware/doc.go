// Package middleware provides the HTTP middleware of the driver.
//
//   - CORS: cross-origin access for browser-hosted test runners
//   - RateLimit, GlobalRateLimit: token buckets per client IP or process
//     wide; rejected requests get a protocol envelope with HTTP 429
//   - Compress: gzip for large responses such as screenshots
//
// Example Usage:
//
//	router.Use(middleware.CORS(middleware.DefaultCORSConfig()))
//	router.Use(middleware.RateLimit(middleware.DefaultRateLimitConfig()))
//	handler, err := middleware.Compress(middleware.DefaultCompressConfig(), router)
package middleware
