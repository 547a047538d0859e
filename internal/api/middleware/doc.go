// Package middleware provides the HTTP middleware for the NyxOS API.
//
// CORS wraps gin-contrib/cors; origins come from CORS_ORIGINS. RateLimit
// keeps a token bucket per client IP and evicts idle clients;
// GlobalRateLimit shares one bucket across everyone.
//
//	router.Use(middleware.CORS(middleware.CORSForOrigins(cfg.CORS.Origins)))
//	router.Use(middleware.RateLimit(middleware.DefaultRateLimitConfig()))
package middleware
