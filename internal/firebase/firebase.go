package firebase

import (
	"context"
	"os"

	"academy-manager/internal/config"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"google.golang.org/api/option"
)

func NewApp(ctx context.Context, cfg config.Config) (*firebase.App, error) {
	// Prefer GOOGLE_APPLICATION_CREDENTIALS (service account json file path)
	// Or FIREBASE_SERVICE_ACCOUNT_JSON (raw json content)
	opts := []option.ClientOption{}

	if json := os.Getenv("FIREBASE_SERVICE_ACCOUNT_JSON"); json != "" {
		opts = append(opts, option.WithCredentialsJSON([]byte(json)))
	}

	appCfg := &firebase.Config{}
	if cfg.ProjectID != "" {
		appCfg.ProjectID = cfg.ProjectID
	}
	if cfg.StorageBucket != "" {
		appCfg.StorageBucket = cfg.StorageBucket
	}

	if len(opts) > 0 {
		return firebase.NewApp(ctx, appCfg, opts...)
	}
	return firebase.NewApp(ctx, appCfg)
}

type Firestore struct {
	Client *firestore.Client
}

func NewFirestore(ctx context.Context, app *firebase.App) (*Firestore, error) {
	c, err := app.Firestore(ctx)
	if err != nil {
		return nil, err
	}
	return &Firestore{Client: c}, nil
}

func (f *Firestore) Close() {
	if f == nil || f.Client == nil {
		return
	}
	_ = f.Client.Close()
}
