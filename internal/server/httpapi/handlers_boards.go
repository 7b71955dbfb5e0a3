package httpapi

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/oakbb/oakboard/internal/server/models"
)

type boardRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Role        int    `json:"role"`
}

type reorderRequest struct {
	Order map[int64]int `json:"order" binding:"required"`
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}

func (s *Server) listBoards(c *gin.Context) {
	boards, err := s.forum.ListBoards(c.Request.Context(), currentUser(c))
	if err != nil {
		writeError(c, s.logger, err)
		return
	}

	resp := make([]boardResponse, 0, len(boards))
	for _, b := range boards {
		resp = append(resp, toBoardResponse(b))
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) createBoard(c *gin.Context) {
	var req boardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	board, err := s.forum.CreateBoard(c.Request.Context(), currentUser(c), req.Name, req.Description, models.Role(req.Role))
	if err != nil {
		writeError(c, s.logger, err)
		return
	}
	c.JSON(http.StatusCreated, toBoardResponse(board))
}

func (s *Server) updateBoard(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req boardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := s.forum.UpdateBoard(c.Request.Context(), currentUser(c), id, req.Name, req.Description, models.Role(req.Role))
	if err != nil {
		writeError(c, s.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "board updated"})
}

func (s *Server) reorderBoards(c *gin.Context) {
	var req reorderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := s.forum.ReorderBoards(c.Request.Context(), currentUser(c), req.Order); err != nil {
		writeError(c, s.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "boards reordered"})
}

func (s *Server) deleteBoard(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := s.forum.DeleteBoard(c.Request.Context(), currentUser(c), id); err != nil {
		writeError(c, s.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "board deleted"})
}
