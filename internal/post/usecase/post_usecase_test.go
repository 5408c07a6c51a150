package usecase

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"agristock-backend/internal/post/domain"
	"agristock-backend/internal/post/repository"
	"agristock-backend/internal/session"
	"agristock-backend/pkg/docstore"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockPostRepository struct {
	mock.Mock
	calls *[]string
}

func (m *mockPostRepository) Merge(ctx context.Context, postID string, fields map[string]interface{}) error {
	*m.calls = append(*m.calls, "merge")
	args := m.Called(ctx, postID, fields)
	return args.Error(0)
}

func (m *mockPostRepository) Owner(ctx context.Context, postID string) (string, error) {
	*m.calls = append(*m.calls, "owner")
	args := m.Called(ctx, postID)
	return args.String(0), args.Error(1)
}

type mockImageRepository struct {
	mock.Mock
	calls *[]string
}

func (m *mockImageRepository) Upload(ctx context.Context, userID, postID, contentType string, body io.Reader) (string, error) {
	*m.calls = append(*m.calls, "upload")
	args := m.Called(ctx, userID, postID, contentType, body)
	return args.String(0), args.Error(1)
}

func newEditor() (PostUsecase, *mockPostRepository, *mockImageRepository, *[]string) {
	calls := &[]string{}
	posts := &mockPostRepository{calls: calls}
	images := &mockImageRepository{calls: calls}
	posts.On("Owner", mock.Anything, "post-1").Return("farmer-1", nil).Maybe()
	return NewPostUsecase(posts, images, nil, nil), posts, images, calls
}

var editFields = domain.Fields{
	Title:       "Bonsmara heifers",
	Price:       "18500",
	Description: "Six in-calf heifers",
}

func TestEditPost_WithoutImage_SingleMergeOfFourFields(t *testing.T) {
	editor, posts, images, calls := newEditor()
	ctx := context.Background()

	posts.On("Merge", ctx, "post-1", map[string]interface{}{
		"title":       "Bonsmara heifers",
		"price":       "18500",
		"description": "Six in-calf heifers",
		"userId":      "farmer-1",
	}).Return(nil).Once()

	post, err := editor.EditPost(ctx, "farmer-1", "post-1", editFields, nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"owner", "merge"}, *calls)
	assert.Empty(t, post.ImageURL)
	posts.AssertExpectations(t)
	images.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)

	merged := posts.Calls[1].Arguments.Get(2).(map[string]interface{})
	assert.NotContains(t, merged, "imageUrl")
}

func TestEditPost_WithImage_UploadThenMergeWithLocator(t *testing.T) {
	editor, posts, images, calls := newEditor()
	ctx := context.Background()
	body := bytes.NewBufferString("jpeg-bytes")
	url := "https://firebasestorage.googleapis.com/v0/b/agri/o/post_images%2Ffarmer-1%2Fpost-1.jpg?alt=media&token=t"

	images.On("Upload", ctx, "farmer-1", "post-1", "image/jpeg", body).Return(url, nil).Once()
	posts.On("Merge", ctx, "post-1", mock.MatchedBy(func(f map[string]interface{}) bool {
		return f["imageUrl"] == url && f["title"] == "Bonsmara heifers" && f["userId"] == "farmer-1" && len(f) == 5
	})).Return(nil).Once()

	post, err := editor.EditPost(ctx, "farmer-1", "post-1", editFields, &domain.Image{Body: body, ContentType: "image/jpeg"})
	require.NoError(t, err)

	assert.Equal(t, []string{"owner", "upload", "merge"}, *calls)
	assert.Equal(t, url, post.ImageURL)
	posts.AssertExpectations(t)
	images.AssertExpectations(t)
}

func TestEditPost_UploadFailureAbortsMerge(t *testing.T) {
	editor, posts, images, calls := newEditor()
	ctx := context.Background()

	images.On("Upload", ctx, "farmer-1", "post-1", "", mock.Anything).Return("", errors.New("quota exceeded"))

	_, err := editor.EditPost(ctx, "farmer-1", "post-1", editFields, &domain.Image{Body: bytes.NewReader(nil)})

	assert.ErrorIs(t, err, domain.ErrUploadFailed)
	assert.Equal(t, []string{"owner", "upload"}, *calls)
	posts.AssertNotCalled(t, "Merge", mock.Anything, mock.Anything, mock.Anything)
}

func TestEditPost_MergeFailureIsReported(t *testing.T) {
	editor, posts, _, _ := newEditor()
	ctx := context.Background()
	boom := errors.New("permission denied")

	posts.On("Merge", ctx, "post-1", mock.Anything).Return(boom)

	_, err := editor.EditPost(ctx, "farmer-1", "post-1", editFields, nil)
	assert.ErrorIs(t, err, boom)
}

func TestEditPost_Validation(t *testing.T) {
	editor, _, _, calls := newEditor()
	ctx := context.Background()

	tests := []struct {
		name   string
		postID string
		fields domain.Fields
	}{
		{"empty post id", "", editFields},
		{"post id with slash", "a/b", editFields},
		{"blank title", "post-1", domain.Fields{Title: "  ", Price: "10"}},
		{"non-numeric price", "post-1", domain.Fields{Title: "Goats", Price: "ten"}},
		{"negative price", "post-1", domain.Fields{Title: "Goats", Price: "-1"}},
		{"NaN price", "post-1", domain.Fields{Title: "Goats", Price: "NaN"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := editor.EditPost(ctx, "farmer-1", tt.postID, tt.fields, nil)
			assert.ErrorIs(t, err, domain.ErrInvalidPost)
		})
	}
	assert.Empty(t, *calls)
}

func TestEditPost_OtherUsersPostIsRejected(t *testing.T) {
	editor, posts, images, calls := newEditor()
	ctx := context.Background()
	posts.On("Owner", mock.Anything, "post-2").Return("alice", nil)

	_, err := editor.EditPost(ctx, "mallory", "post-2", editFields, &domain.Image{Body: bytes.NewReader(nil)})

	assert.ErrorIs(t, err, domain.ErrNotOwner)
	assert.Equal(t, []string{"owner"}, *calls)
	images.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	posts.AssertNotCalled(t, "Merge", mock.Anything, mock.Anything, mock.Anything)
}

func TestEditPost_MissingPostIsNotCreated(t *testing.T) {
	editor, posts, _, calls := newEditor()
	ctx := context.Background()
	posts.On("Owner", mock.Anything, "never-existed").Return("", domain.ErrNotFound)

	_, err := editor.EditPost(ctx, "farmer-1", "never-existed", editFields, nil)

	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, []string{"owner"}, *calls)
	posts.AssertNotCalled(t, "Merge", mock.Anything, mock.Anything, mock.Anything)
}

func TestPostRepository_Owner(t *testing.T) {
	store := docstore.NewMemoryStore()
	require.NoError(t, store.Merge(context.Background(), "posts", "post-1", map[string]interface{}{"userId": "alice"}))
	repo := repository.NewPostRepository(store)

	owner, err := repo.Owner(context.Background(), "post-1")
	require.NoError(t, err)
	assert.Equal(t, "alice", owner)

	_, err = repo.Owner(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestEditPost_RequiresSession(t *testing.T) {
	editor, _, _, _ := newEditor()
	_, err := editor.EditPost(context.Background(), "", "post-1", editFields, nil)
	assert.ErrorIs(t, err, session.ErrNoSession)
}

func TestImagePath(t *testing.T) {
	assert.Equal(t, "post_images/farmer-1/post-1.jpg", repository.ImagePath("farmer-1", "post-1"))
}
