package models

// FollowedThread records that a user follows a thread. ReplyID is the
// watermark: the latest reply the user has seen. Nil means the user has
// seen none of the thread's replies yet.
type FollowedThread struct {
	UserID   int64
	ThreadID int64
	ReplyID  *int64
}
