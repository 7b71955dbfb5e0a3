package models

import "time"

// Thread is a topic inside a board. LatestReplyID is a denormalized pointer
// maintained transactionally on reply insert/delete; nil means the thread
// currently has no replies.
type Thread struct {
	ID            int64
	BoardID       int64
	UserID        int64
	Title         string
	CreatedAt     time.Time
	LatestReplyID *int64
}

// Reply is a single post inside a thread.
type Reply struct {
	ID        int64
	ThreadID  int64
	UserID    int64
	Content   string
	CreatedAt time.Time
}
