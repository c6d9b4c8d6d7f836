package middleware

import (
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// CORS allows the browser UI served from origins to call the API. With no
// origins every site may call it, but without credentials.
func CORS(origins ...string) gin.HandlerFunc {
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowMethods = []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{
		"Origin",
		"Content-Length",
		"Content-Type",
		"Authorization",
	}
	corsConfig.MaxAge = 12 * time.Hour

	if len(origins) == 0 {
		corsConfig.AllowAllOrigins = true
		return cors.New(corsConfig)
	}
	for _, o := range origins {
		corsConfig.AllowOrigins = append(corsConfig.AllowOrigins, strings.TrimRight(o, "/"))
	}
	corsConfig.AllowCredentials = true
	return cors.New(corsConfig)
}
