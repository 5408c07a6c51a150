package firebase

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	gcs "cloud.google.com/go/storage"
	fb "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"
)

// Clients bundles the Firebase SDK clients the service talks to.
type Clients struct {
	Auth      *auth.Client
	Firestore *firestore.Client
	Bucket    *gcs.BucketHandle
	Messaging *messaging.Client
}

type Options struct {
	ProjectID       string
	StorageBucket   string
	CredentialsFile string
}

// NewClients initializes the Firebase app and every client derived from it.
func NewClients(ctx context.Context, o Options) (*Clients, error) {
	var opts []option.ClientOption
	if o.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(o.CredentialsFile))
	}

	app, err := fb.NewApp(ctx, &fb.Config{
		ProjectID:     o.ProjectID,
		StorageBucket: o.StorageBucket,
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("initialize firebase app: %w", err)
	}

	authClient, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("get auth client: %w", err)
	}

	fsClient, err := app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("get firestore client: %w", err)
	}

	storageClient, err := app.Storage(ctx)
	if err != nil {
		fsClient.Close()
		return nil, fmt.Errorf("get storage client: %w", err)
	}
	bucket, err := storageClient.DefaultBucket()
	if err != nil {
		fsClient.Close()
		return nil, fmt.Errorf("get default bucket: %w", err)
	}

	msgClient, err := app.Messaging(ctx)
	if err != nil {
		fsClient.Close()
		return nil, fmt.Errorf("get messaging client: %w", err)
	}

	return &Clients{
		Auth:      authClient,
		Firestore: fsClient,
		Bucket:    bucket,
		Messaging: msgClient,
	}, nil
}

func (c *Clients) Close() error {
	return c.Firestore.Close()
}
