package remote

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"

	"scs-go/internal/awsutil"
	"scs-go/internal/config"
)

// NewSyncerFromConfig creates the Syncer named by cfg.Type. token is only
// used by the github type.
func NewSyncerFromConfig(ctx context.Context, cfg config.RemoteConfig, token string) (Syncer, error) {
	switch cfg.Type {
	case "", "github":
		client, err := NewGitHubClient(ctx, GitHubConfig{
			BaseURL: cfg.BaseURL,
			Owner:   cfg.Owner,
			Repo:    cfg.Repo,
			Branch:  cfg.Branch,
			Token:   token,
		})
		if err != nil {
			return nil, err
		}
		return client, nil
	case "s3":
		client, err := awsutil.NewS3Client(ctx, cfg.S3)
		if err != nil {
			return nil, fmt.Errorf("creating s3 remote: %w", err)
		}
		return NewS3Syncer(manager.NewUploader(client), cfg.S3.Bucket, cfg.S3.Prefix), nil
	default:
		return nil, fmt.Errorf("unknown remote type: %s", cfg.Type)
	}
}

// NeedsToken reports whether the remote named by cfg needs a GitHub token.
func NeedsToken(cfg config.RemoteConfig) bool {
	return cfg.Type == "" || cfg.Type == "github"
}
