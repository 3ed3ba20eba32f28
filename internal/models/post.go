package models

import (
	"time"
)

// Post represents a blog post together with its embedded comments and
// derived like state. LikesCount is always computed from the like rows,
// never stored; Liked is relative to the requesting viewer.
type Post struct {
	ID         string     `json:"id" db:"id"`
	Heading    string     `json:"heading" db:"heading"`
	Content    string     `json:"content" db:"content"`
	AuthorID   string     `json:"-" db:"author_id"`
	Author     *UserRef   `json:"author"`
	Comments   []*Comment `json:"comments"`
	LikesCount int        `json:"likesCount"`
	Liked      bool       `json:"liked"`
	CreatedAt  time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt  time.Time  `json:"updatedAt" db:"updated_at"`
}
