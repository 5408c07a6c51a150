package repository

import (
	"context"
	"errors"
	"fmt"
	"io"

	"agristock-backend/internal/post/domain"
	"agristock-backend/pkg/docstore"
	"agristock-backend/pkg/objectstore"
)

const (
	postsCollection = "posts"

	FieldTitle       = "title"
	FieldPrice       = "price"
	FieldDescription = "description"
	FieldUserID      = "userId"
	FieldImageURL    = "imageUrl"
)

// PostRepository defines the interface for post document writes
type PostRepository interface {
	// Merge updates only the given fields of the post document
	Merge(ctx context.Context, postID string, fields map[string]interface{}) error
	// Owner returns the userId stored on the post, or domain.ErrNotFound
	Owner(ctx context.Context, postID string) (string, error)
}

// ImageRepository stores post pictures
type ImageRepository interface {
	// Upload stores the image for a post and returns its download URL
	Upload(ctx context.Context, userID, postID, contentType string, body io.Reader) (string, error)
}

type postRepository struct {
	store docstore.Store
}

func NewPostRepository(store docstore.Store) PostRepository {
	return &postRepository{store: store}
}

func (r *postRepository) Merge(ctx context.Context, postID string, fields map[string]interface{}) error {
	return r.store.Merge(ctx, postsCollection, postID, fields)
}

func (r *postRepository) Owner(ctx context.Context, postID string) (string, error) {
	data, err := r.store.Get(ctx, postsCollection, postID)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return "", domain.ErrNotFound
		}
		return "", fmt.Errorf("load post %s: %w", postID, err)
	}
	return docstore.String(data, FieldUserID), nil
}

type imageRepository struct {
	store objectstore.Store
}

func NewImageRepository(store objectstore.Store) ImageRepository {
	return &imageRepository{store: store}
}

func (r *imageRepository) Upload(ctx context.Context, userID, postID, contentType string, body io.Reader) (string, error) {
	if contentType == "" {
		contentType = "image/jpeg"
	}
	return r.store.Upload(ctx, ImagePath(userID, postID), contentType, body)
}

// ImagePath is the object path of a post's picture.
func ImagePath(userID, postID string) string {
	return fmt.Sprintf("post_images/%s/%s.jpg", userID, postID)
}
