package models

import "time"

// Session is one authenticated browser session. Expiry slides forward on
// every authenticated use. UnreadCount/UnreadCountedAt cache the expensive
// unread-thread count; the cached value may lag by the configured window.
type Session struct {
	ID              int64
	Token           string
	UserID          int64
	ExpiresAt       time.Time
	UnreadCount     int
	UnreadCountedAt time.Time
}
