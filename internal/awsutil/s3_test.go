package awsutil

import (
	"context"
	"testing"

	"scs-go/internal/config"
)

func TestObjectKey(t *testing.T) {
	tests := []struct {
		prefix, rel, want string
	}{
		{"", "data/tickets.json", "data/tickets.json"},
		{"console", "data/tickets.json", "console/data/tickets.json"},
		{"console/", "DATA/messages.json", "console/DATA/messages.json"},
	}
	for _, tt := range tests {
		if got := ObjectKey(tt.prefix, tt.rel); got != tt.want {
			t.Errorf("ObjectKey(%q, %q) = %q, want %q", tt.prefix, tt.rel, got, tt.want)
		}
	}
}

func TestNewS3Client_RequiresBucket(t *testing.T) {
	if _, err := NewS3Client(context.Background(), config.S3Config{}); err == nil {
		t.Error("NewS3Client() expected error without bucket")
	}
}

func TestNewS3Client_StaticCredentials(t *testing.T) {
	client, err := NewS3Client(context.Background(), config.S3Config{
		Bucket:          "b",
		Region:          "us-east-1",
		Endpoint:        "http://127.0.0.1:9000",
		AccessKeyID:     "AKIDEXAMPLE",
		SecretAccessKey: "secret",
	})
	if err != nil {
		t.Fatalf("NewS3Client() error = %v", err)
	}
	if client == nil {
		t.Fatal("NewS3Client() returned nil client")
	}
}
