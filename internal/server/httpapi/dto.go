package httpapi

import (
	"time"

	"github.com/oakbb/oakboard/internal/server/models"
)

// Response shapes. The password hash never leaves the server.

type userResponse struct {
	ID          int64     `json:"id"`
	Username    string    `json:"username"`
	DisplayName string    `json:"display_name"`
	Bio         string    `json:"bio"`
	Email       string    `json:"email,omitempty"`
	Color       int       `json:"color"`
	Role        string    `json:"role"`
	CreatedAt   time.Time `json:"created_at"`
}

func toUserResponse(u *models.User) userResponse {
	return userResponse{
		ID:          u.ID,
		Username:    u.Username,
		DisplayName: u.DisplayName,
		Bio:         u.Bio,
		Email:       u.Email,
		Color:       u.Color,
		Role:        u.Role.String(),
		CreatedAt:   u.CreatedAt,
	}
}

type boardResponse struct {
	ID           int64  `json:"id"`
	DisplayOrder int    `json:"display_order"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	Role         string `json:"role"`
}

func toBoardResponse(b *models.Board) boardResponse {
	return boardResponse{
		ID:           b.ID,
		DisplayOrder: b.DisplayOrder,
		Name:         b.Name,
		Description:  b.Description,
		Role:         b.Role.String(),
	}
}

type threadResponse struct {
	ID            int64     `json:"id"`
	BoardID       int64     `json:"board_id"`
	UserID        int64     `json:"user_id"`
	Title         string    `json:"title"`
	CreatedAt     time.Time `json:"created_at"`
	LatestReplyID *int64    `json:"latest_reply_id,omitempty"`
}

func toThreadResponse(t *models.Thread) threadResponse {
	return threadResponse{
		ID:            t.ID,
		BoardID:       t.BoardID,
		UserID:        t.UserID,
		Title:         t.Title,
		CreatedAt:     t.CreatedAt,
		LatestReplyID: t.LatestReplyID,
	}
}

type replyResponse struct {
	ID        int64     `json:"id"`
	ThreadID  int64     `json:"thread_id"`
	UserID    int64     `json:"user_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

func toReplyResponse(r *models.Reply) replyResponse {
	return replyResponse{
		ID:        r.ID,
		ThreadID:  r.ThreadID,
		UserID:    r.UserID,
		Content:   r.Content,
		CreatedAt: r.CreatedAt,
	}
}
