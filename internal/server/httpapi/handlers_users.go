package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oakbb/oakboard/internal/server/models"
)

type updateProfileRequest struct {
	DisplayName string `json:"display_name" binding:"required"`
	Bio         string `json:"bio"`
	Email       string `json:"email"`
	Color       int    `json:"color"`
}

type changeRoleRequest struct {
	Role int `json:"role"`
}

func (s *Server) getUser(c *gin.Context) {
	user, err := s.accounts.GetByUsername(c.Request.Context(), c.Param("username"))
	if err != nil {
		writeError(c, s.logger, err)
		return
	}

	resp := toUserResponse(user)
	// Email is private to the account holder.
	if viewer := currentUser(c); viewer == nil || viewer.ID != user.ID {
		resp.Email = ""
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) updateProfile(c *gin.Context) {
	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user := currentUser(c)
	if err := s.accounts.UpdateProfile(c.Request.Context(), user.ID, req.DisplayName, req.Bio, req.Email, req.Color); err != nil {
		writeError(c, s.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "profile updated"})
}

func (s *Server) changeRole(c *gin.Context) {
	var req changeRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := s.accounts.ChangeRole(c.Request.Context(), currentUser(c), c.Param("username"), models.Role(req.Role))
	if err != nil {
		writeError(c, s.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "role changed"})
}

func (s *Server) resetPassword(c *gin.Context) {
	plaintext, err := s.accounts.ResetPassword(c.Request.Context(), currentUser(c), c.Param("username"))
	if err != nil {
		writeError(c, s.logger, err)
		return
	}
	// Shown once; the caller relays it to the user out of band.
	c.JSON(http.StatusOK, gin.H{"password": plaintext})
}

func (s *Server) deleteUser(c *gin.Context) {
	if err := s.accounts.DeleteAccount(c.Request.Context(), currentUser(c), c.Param("username")); err != nil {
		writeError(c, s.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "account deleted"})
}
