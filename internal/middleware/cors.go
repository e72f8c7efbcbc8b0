package middleware

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/conlit/backend/internal/domain"
)

var (
	corsMethods = []string{"GET", "POST", "OPTIONS"}
	corsHeaders = []string{
		"Origin",
		"Content-Type",
		"Accept",
		"Authorization",
		"X-Requested-With",
		"X-Request-ID",
		domain.SessionHeaderName,
		domain.CSRFHeaderName,
	}
	corsExposeHeaders = []string{"Content-Length", "X-Request-ID"}
)

// DefaultCORSConfig returns a CORS configuration for development
func DefaultCORSConfig() cors.Config {
	return ProductionCORSConfig([]string{
		"http://localhost:3000",
		"http://localhost:5173",
		"http://127.0.0.1:3000",
		"http://127.0.0.1:5173",
	})
}

// ProductionCORSConfig returns a CORS configuration for the given origins
func ProductionCORSConfig(allowedOrigins []string) cors.Config {
	return cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     corsMethods,
		AllowHeaders:     corsHeaders,
		ExposeHeaders:    corsExposeHeaders,
		AllowCredentials: true,
		MaxAge:           24 * time.Hour,
	}
}

// CORSMiddleware creates a CORS middleware with the given configuration
func CORSMiddleware(config cors.Config) gin.HandlerFunc {
	return cors.New(config)
}
