package usecase

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"agristock-backend/internal/post/domain"
	"agristock-backend/internal/post/repository"
	"agristock-backend/internal/session"
	"agristock-backend/pkg/metrics"

	"go.uber.org/zap"
)

// postUsecase implements PostUsecase interface
type postUsecase struct {
	posts   repository.PostRepository
	images  repository.ImageRepository
	metrics *metrics.Metrics
	log     *zap.Logger
}

// NewPostUsecase creates a new instance of postUsecase
func NewPostUsecase(posts repository.PostRepository, images repository.ImageRepository, m *metrics.Metrics, log *zap.Logger) PostUsecase {
	if log == nil {
		log = zap.NewNop()
	}
	return &postUsecase{
		posts:   posts,
		images:  images,
		metrics: m,
		log:     log,
	}
}

func (u *postUsecase) EditPost(ctx context.Context, userID, postID string, fields domain.Fields, image *domain.Image) (*domain.Post, error) {
	if userID == "" {
		return nil, session.ErrNoSession
	}
	fields, err := normalize(postID, fields)
	if err != nil {
		return nil, err
	}

	post, err := u.edit(ctx, userID, postID, fields, image)
	u.metrics.PostEdit(image != nil, err)
	if err != nil {
		u.log.Warn("post edit failed",
			zap.String("post_id", postID),
			zap.String("user_id", userID),
			zap.Bool("with_image", image != nil),
			zap.Error(err))
		return nil, err
	}

	u.log.Info("post edited", zap.String("post_id", postID), zap.Bool("with_image", image != nil))
	return post, nil
}

func (u *postUsecase) edit(ctx context.Context, userID, postID string, fields domain.Fields, image *domain.Image) (*domain.Post, error) {
	// The admin SDK bypasses security rules, so ownership is checked here.
	owner, err := u.posts.Owner(ctx, postID)
	if err != nil {
		return nil, err
	}
	if owner != userID {
		return nil, fmt.Errorf("%w: %s", domain.ErrNotOwner, postID)
	}

	post := &domain.Post{
		ID:          postID,
		Title:       fields.Title,
		Price:       fields.Price,
		Description: fields.Description,
		UserID:      userID,
	}

	update := map[string]interface{}{
		repository.FieldTitle:       post.Title,
		repository.FieldPrice:       post.Price,
		repository.FieldDescription: post.Description,
		repository.FieldUserID:      post.UserID,
	}

	if image != nil {
		url, err := u.images.Upload(ctx, userID, postID, image.ContentType, image.Body)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrUploadFailed, err)
		}
		post.ImageURL = url
		update[repository.FieldImageURL] = url
	}

	if err := u.posts.Merge(ctx, postID, update); err != nil {
		return nil, fmt.Errorf("save post %s: %w", postID, err)
	}
	return post, nil
}

func normalize(postID string, f domain.Fields) (domain.Fields, error) {
	if postID == "" || strings.Contains(postID, "/") {
		return f, fmt.Errorf("%w: bad post id %q", domain.ErrInvalidPost, postID)
	}

	f.Title = strings.TrimSpace(f.Title)
	f.Price = strings.TrimSpace(f.Price)
	f.Description = strings.TrimSpace(f.Description)

	if f.Title == "" {
		return f, fmt.Errorf("%w: title is required", domain.ErrInvalidPost)
	}
	price, err := strconv.ParseFloat(f.Price, 64)
	if err != nil || price < 0 || math.IsNaN(price) || math.IsInf(price, 0) {
		return f, fmt.Errorf("%w: price must be a non-negative number", domain.ErrInvalidPost)
	}
	return f, nil
}
