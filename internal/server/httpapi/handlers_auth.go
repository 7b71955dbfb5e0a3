package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type registerRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email"`
	Password string `json:"password" binding:"required"`
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required"`
}

func (s *Server) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, token, err := s.accounts.Register(c.Request.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		writeError(c, s.logger, err)
		return
	}

	setSessionCookie(c, token, s.sessions.TTL(), s.config.UseTLS)
	c.JSON(http.StatusCreated, toUserResponse(user))
}

func (s *Server) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, token, err := s.accounts.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		writeError(c, s.logger, err)
		return
	}

	setSessionCookie(c, token, s.sessions.TTL(), s.config.UseTLS)
	c.JSON(http.StatusOK, toUserResponse(user))
}

func (s *Server) logout(c *gin.Context) {
	if token, err := c.Cookie(sessionCookieName); err == nil && token != "" {
		if err := s.sessions.Revoke(c.Request.Context(), token); err != nil {
			writeError(c, s.logger, err)
			return
		}
	}
	clearSessionCookie(c, s.config.UseTLS)
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

func (s *Server) me(c *gin.Context) {
	c.JSON(http.StatusOK, toUserResponse(currentUser(c)))
}

// changePassword verifies the current password, stores the new one, and
// revokes every session of the user. A fresh session keeps this browser
// signed in; all others are logged out.
func (s *Server) changePassword(c *gin.Context) {
	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user := currentUser(c)
	if err := s.accounts.VerifyPassword(c.Request.Context(), user.ID, req.CurrentPassword); err != nil {
		writeError(c, s.logger, err)
		return
	}

	if err := s.accounts.ChangePassword(c.Request.Context(), user.ID, req.NewPassword); err != nil {
		writeError(c, s.logger, err)
		return
	}

	token, err := s.sessions.Create(c.Request.Context(), user.ID)
	if err != nil {
		writeError(c, s.logger, err)
		return
	}
	setSessionCookie(c, token, s.sessions.TTL(), s.config.UseTLS)
	c.JSON(http.StatusOK, gin.H{"message": "password changed"})
}

func (s *Server) unreadCount(c *gin.Context) {
	count, err := s.unread.UnreadCount(c.Request.Context(), currentSession(c))
	if err != nil {
		writeError(c, s.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"unread": count})
}
