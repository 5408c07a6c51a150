package usecase

import (
	"context"

	"agristock-backend/internal/post/domain"
)

// PostUsecase defines the interface for post editing
type PostUsecase interface {
	// EditPost merges new field values into a post. When image is non-nil it is
	// uploaded first and the merge carries its download URL. Only the post's
	// owner may edit it; a missing post is domain.ErrNotFound.
	EditPost(ctx context.Context, userID, postID string, fields domain.Fields, image *domain.Image) (*domain.Post, error)
}
