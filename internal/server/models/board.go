package models

// Board groups threads. Role is the minimum role required to view the
// board or post in it; threads and replies inherit it.
type Board struct {
	ID           int64
	DisplayOrder int
	Name         string
	Description  string
	Role         Role
}
