package remote

import (
	"bytes"
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"scs-go/internal/awsutil"
)

// Uploader is the part of *manager.Uploader that S3Syncer uses.
type Uploader interface {
	Upload(ctx context.Context, input *s3.PutObjectInput, opts ...func(*manager.Uploader)) (*manager.UploadOutput, error)
}

// S3Syncer stores files as objects under a prefix. The commit message is
// kept as object metadata.
type S3Syncer struct {
	uploader Uploader
	bucket   string
	prefix   string
}

func NewS3Syncer(uploader Uploader, bucket, prefix string) *S3Syncer {
	return &S3Syncer{uploader: uploader, bucket: bucket, prefix: prefix}
}

func (s *S3Syncer) PutFile(ctx context.Context, path string, content []byte, message string) (FileMeta, error) {
	key := awsutil.ObjectKey(s.prefix, path)
	out, err := s.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(content),
		ContentType: aws.String("application/json"),
		Metadata:    map[string]string{"commit-message": message},
	})
	if err != nil {
		return FileMeta{}, fmt.Errorf("uploading s3://%s/%s: %w", s.bucket, key, err)
	}
	return FileMeta{Path: key, SHA: aws.ToString(out.ETag), Revision: aws.ToString(out.VersionID)}, nil
}

// Compile-time check that S3Syncer implements Syncer interface
var _ Syncer = (*S3Syncer)(nil)
