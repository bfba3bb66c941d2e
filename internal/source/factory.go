package source

import (
	"context"
	"fmt"

	"scs-go/internal/awsutil"
	"scs-go/internal/config"
	"scs-go/internal/scs"
)

// NewSourceFromConfig creates a Source implementation based on the source config type.
func NewSourceFromConfig(ctx context.Context, cfg config.SourceConfig) (scs.Source, error) {
	switch cfg.Type {
	case "", "none":
		return NoneSource{}, nil
	case "http":
		if cfg.BaseURL == "" {
			return nil, fmt.Errorf("http source requires base_url to be set")
		}
		src, err := NewHTTPSource(cfg.BaseURL, cfg.Timeout.Duration)
		if err != nil {
			return nil, err
		}
		return src, nil
	case "s3":
		client, err := awsutil.NewS3Client(ctx, cfg.S3)
		if err != nil {
			return nil, fmt.Errorf("creating s3 client: %w", err)
		}
		return NewS3Source(client, cfg.S3.Bucket, cfg.S3.Prefix), nil
	case "filesystem":
		if cfg.FSRoot == "" {
			return nil, fmt.Errorf("filesystem source requires fs_root to be set")
		}
		return NewFileSystemSource(cfg.FSRoot), nil
	default:
		return nil, fmt.Errorf("unknown source type: %s", cfg.Type)
	}
}
