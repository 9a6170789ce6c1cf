package http

import (
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

const corsWildcard = "*"

// createCORSMiddleware builds the CORS policy for browser builds of the student and
// teacher panels. Native app builds send no Origin header and are unaffected.
// Returns nil when CORS is disabled or the origin list is empty.
//
// Sessions travel in the Authorization header, never in cookies, so credentials are
// not allowed. "*" in the list admits any origin, which suits local Expo web builds.
func createCORSMiddleware(enabled bool, allowOriginsStr string, logger *slog.Logger) gin.HandlerFunc {
	if !enabled {
		return nil
	}

	origins := parseOrigins(allowOriginsStr)
	if len(origins) == 0 {
		logger.Warn("CORS enabled without allowed origins, skipping")
		return nil
	}

	config := cors.Config{
		AllowMethods:  []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Authorization", "Content-Type"},
		ExposeHeaders: []string{"X-Request-Id", "Retry-After"},
		MaxAge:        12 * time.Hour,
	}
	if slices.Contains(origins, corsWildcard) {
		config.AllowAllOrigins = true
		logger.Warn("CORS allows any origin")
	} else {
		config.AllowOrigins = origins
		logger.Info("CORS enabled", slog.Any("origins", origins))
	}

	return cors.New(config)
}

// parseOrigins splits a comma-separated origin list, dropping blanks and
// trailing slashes.
func parseOrigins(originsStr string) []string {
	var origins []string
	for _, part := range strings.Split(originsStr, ",") {
		origin := strings.TrimRight(strings.TrimSpace(part), "/")
		if origin != "" && !slices.Contains(origins, origin) {
			origins = append(origins, origin)
		}
	}
	return origins
}
