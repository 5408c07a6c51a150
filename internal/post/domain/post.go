package domain

import (
	"errors"
	"io"
)

var (
	ErrInvalidPost  = errors.New("invalid post")
	ErrUploadFailed = errors.New("image upload failed")
	ErrNotFound     = errors.New("post not found")
	ErrNotOwner     = errors.New("post belongs to another user")
)

// Post is a marketplace listing stored in the posts collection.
type Post struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Price       string `json:"price"`
	Description string `json:"description"`
	UserID      string `json:"user_id"`
	ImageURL    string `json:"image_url,omitempty"`
}

// Fields are the user-editable values of a post.
type Fields struct {
	Title       string `json:"title" form:"title" binding:"required"`
	Price       string `json:"price" form:"price" binding:"required"`
	Description string `json:"description" form:"description"`
}

// Image is a replacement picture for a post.
type Image struct {
	Body        io.Reader
	ContentType string
}
