package httpapi

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/oakbb/oakboard/internal/common"
	"github.com/oakbb/oakboard/internal/server/models"
)

const (
	currentUserKey    = "currentUser"
	currentSessionKey = "currentSession"
)

// currentUser returns the authenticated user, or nil for anonymous.
func currentUser(c *gin.Context) *models.User {
	v, ok := c.Get(currentUserKey)
	if !ok {
		return nil
	}
	return v.(*models.User)
}

// currentSession returns the resolved session, or nil for anonymous.
func currentSession(c *gin.Context) *models.Session {
	v, ok := c.Get(currentSessionKey)
	if !ok {
		return nil
	}
	return v.(*models.Session)
}

// requestLogger tags every request with an id and logs method, path,
// status, and latency.
func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		requestID := uuid.NewString()
		c.Set("requestID", requestID)
		c.Header("X-Request-Id", requestID)

		c.Next()

		s.logger.Info(c.Request.Context(), "request",
			"request_id", requestID,
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start).String(),
		)
	}
}

// resolveSession maps the session cookie to a user. Anonymous requests
// pass through with no user set; only storage failures abort.
func (s *Server) resolveSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(sessionCookieName)
		if err != nil {
			// No cookie: anonymous.
			c.Next()
			return
		}

		user, session, err := s.sessions.Resolve(c.Request.Context(), token)
		if err != nil {
			writeError(c, s.logger, err)
			c.Abort()
			return
		}
		if user == nil {
			// Stale cookie; tell the browser to drop it.
			clearSessionCookie(c, s.config.UseTLS)
			c.Next()
			return
		}

		c.Set(currentUserKey, user)
		c.Set(currentSessionKey, session)
		c.Next()
	}
}

// requireUser rejects anonymous requests.
func (s *Server) requireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if currentUser(c) == nil {
			writeError(c, s.logger, common.ErrorUnauthorized)
			c.Abort()
			return
		}
		c.Next()
	}
}

// requireRole rejects requests below the given tier. Anonymous requests
// get 401 so the client knows logging in could help.
func (s *Server) requireRole(min models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)
		if user == nil {
			writeError(c, s.logger, common.ErrorUnauthorized)
			c.Abort()
			return
		}
		if user.Role < min {
			writeError(c, s.logger, common.ErrorForbidden)
			c.Abort()
			return
		}
		c.Next()
	}
}
