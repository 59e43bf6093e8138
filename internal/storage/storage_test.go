package storage

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"

	"nissanscraper/internal/config"
)

func TestSnapshotKey(t *testing.T) {
	est := time.FixedZone("UTC-5", -5*3600)

	assert.Equal(t, "snapshots/2026/03/abc.html", SnapshotKey("abc", time.Date(2026, time.March, 9, 23, 30, 0, 0, est)))
	// partitioned by the UTC month
	assert.Equal(t, "snapshots/2026/04/abc.html", SnapshotKey("abc", time.Date(2026, time.March, 31, 21, 0, 0, 0, est)))
}

func TestNewMinIOValidation(t *testing.T) {
	_, err := NewMinIO(context.Background(), minioConfig("", "k", "s", "b"))
	assert.ErrorContains(t, err, "endpoint is required")

	_, err = NewMinIO(context.Background(), minioConfig("localhost:9000", "", "s", "b"))
	assert.ErrorContains(t, err, "credentials are required")

	_, err = NewMinIO(context.Background(), minioConfig("localhost:9000", "k", "s", ""))
	assert.ErrorContains(t, err, "bucket is required")
}

func minioConfig(endpoint, access, secret, bucket string) config.MinIOConfig {
	return config.MinIOConfig{Endpoint: endpoint, AccessKey: access, SecretKey: secret, Bucket: bucket}
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, isNotFound(minio.ErrorResponse{Code: "NoSuchKey", StatusCode: http.StatusNotFound}))
	assert.True(t, isNotFound(minio.ErrorResponse{StatusCode: http.StatusNotFound}))
	assert.False(t, isNotFound(minio.ErrorResponse{Code: "AccessDenied", StatusCode: http.StatusForbidden}))
	assert.False(t, isNotFound(errors.New("connection refused")))
}
