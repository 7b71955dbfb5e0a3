package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type createThreadRequest struct {
	Title   string `json:"title" binding:"required"`
	Content string `json:"content" binding:"required"`
}

type createReplyRequest struct {
	Content string `json:"content" binding:"required"`
}

func (s *Server) listThreads(c *gin.Context) {
	boardID, ok := pathID(c)
	if !ok {
		return
	}

	board, threads, err := s.forum.ListThreads(c.Request.Context(), currentUser(c), boardID)
	if err != nil {
		writeError(c, s.logger, err)
		return
	}

	resp := make([]threadResponse, 0, len(threads))
	for _, t := range threads {
		resp = append(resp, toThreadResponse(t))
	}
	c.JSON(http.StatusOK, gin.H{"board": toBoardResponse(board), "threads": resp})
}

func (s *Server) createThread(c *gin.Context) {
	boardID, ok := pathID(c)
	if !ok {
		return
	}

	var req createThreadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	thread, err := s.forum.CreateThread(c.Request.Context(), currentUser(c), boardID, req.Title, req.Content)
	if err != nil {
		writeError(c, s.logger, err)
		return
	}
	c.JSON(http.StatusCreated, toThreadResponse(thread))
}

// viewThread returns the thread with its replies and, for a follower,
// advances the read watermark to the newest reply.
func (s *Server) viewThread(c *gin.Context) {
	threadID, ok := pathID(c)
	if !ok {
		return
	}

	user := currentUser(c)
	thread, replies, err := s.forum.ViewThread(c.Request.Context(), user, threadID)
	if err != nil {
		writeError(c, s.logger, err)
		return
	}

	if err := s.unread.MarkRead(c.Request.Context(), user, threadID); err != nil {
		writeError(c, s.logger, err)
		return
	}

	resp := make([]replyResponse, 0, len(replies))
	for _, r := range replies {
		resp = append(resp, toReplyResponse(r))
	}
	c.JSON(http.StatusOK, gin.H{"thread": toThreadResponse(thread), "replies": resp})
}

func (s *Server) deleteThread(c *gin.Context) {
	threadID, ok := pathID(c)
	if !ok {
		return
	}

	if err := s.forum.DeleteThread(c.Request.Context(), currentUser(c), threadID); err != nil {
		writeError(c, s.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "thread deleted"})
}

func (s *Server) createReply(c *gin.Context) {
	threadID, ok := pathID(c)
	if !ok {
		return
	}

	var req createReplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	reply, err := s.forum.CreateReply(c.Request.Context(), currentUser(c), threadID, req.Content)
	if err != nil {
		writeError(c, s.logger, err)
		return
	}
	c.JSON(http.StatusCreated, toReplyResponse(reply))
}

func (s *Server) deleteReply(c *gin.Context) {
	replyID, ok := pathID(c)
	if !ok {
		return
	}

	if err := s.forum.DeleteReply(c.Request.Context(), currentUser(c), replyID); err != nil {
		writeError(c, s.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "reply deleted"})
}

func (s *Server) follow(c *gin.Context) {
	threadID, ok := pathID(c)
	if !ok {
		return
	}

	if err := s.unread.Follow(c.Request.Context(), currentUser(c), threadID); err != nil {
		writeError(c, s.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "following"})
}

func (s *Server) unfollow(c *gin.Context) {
	threadID, ok := pathID(c)
	if !ok {
		return
	}

	if err := s.unread.Unfollow(c.Request.Context(), currentUser(c), threadID); err != nil {
		writeError(c, s.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "unfollowed"})
}
