package rest

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Guyuepp/artshare/internal/rest/middleware"
	"github.com/Guyuepp/artshare/internal/session"
)

// userID is the authenticated caller, or "" for anonymous requests.
func userID(c *gin.Context) string {
	return c.GetString(middleware.UserIDKey)
}

// sessionOf is the caller as a SessionSource for components built per request.
func sessionOf(c *gin.Context) session.Static {
	return session.Static(userID(c))
}

// queryInt reads an integer query parameter; invalid or out of range values
// fall back to def.
func queryInt(c *gin.Context, name string, def, min, max int) int {
	v, err := strconv.Atoi(c.Query(name))
	if err != nil || v < min || v > max {
		return def
	}
	return v
}
