package objectstore

import (
	"context"
	"fmt"
	"io"
	"net/url"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"
)

// Store saves blobs by path and returns a URL the client can download them from.
type Store interface {
	Upload(ctx context.Context, path, contentType string, body io.Reader) (string, error)
}

// downloadTokenKey is the object metadata key Firebase Storage reads download tokens from.
const downloadTokenKey = "firebaseStorageDownloadTokens"

// BucketStore implements Store on a Cloud Storage bucket owned by a Firebase project.
type BucketStore struct {
	bucket     *storage.BucketHandle
	bucketName string
	newToken   func() string
}

func NewBucketStore(bucket *storage.BucketHandle, bucketName string) *BucketStore {
	return &BucketStore{
		bucket:     bucket,
		bucketName: bucketName,
		newToken:   func() string { return uuid.New().String() },
	}
}

func (s *BucketStore) Upload(ctx context.Context, path, contentType string, body io.Reader) (string, error) {
	token := s.newToken()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	w := s.bucket.Object(path).NewWriter(ctx)
	w.ContentType = contentType
	w.Metadata = map[string]string{downloadTokenKey: token}

	if _, err := io.Copy(w, body); err != nil {
		// Cancelling before Close discards the partial object.
		cancel()
		_ = w.Close()
		return "", fmt.Errorf("upload %s: %w", path, err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("upload %s: %w", path, err)
	}

	return DownloadURL(s.bucketName, path, token), nil
}

// DownloadURL builds the tokenised Firebase Storage download URL for an object.
func DownloadURL(bucket, path, token string) string {
	return fmt.Sprintf("https://firebasestorage.googleapis.com/v0/b/%s/o/%s?alt=media&token=%s",
		bucket, url.PathEscape(path), url.QueryEscape(token))
}
