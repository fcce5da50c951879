// internal/storage/uploader.go
package storage

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"fiche-manager/internal/common/config"
	"fiche-manager/internal/common/errors"
	"fiche-manager/internal/common/logger"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3API is the slice of the S3 client the uploader needs.
type S3API interface {
	PutObject(ctx context.Context, input *s3.PutObjectInput) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, input *s3.DeleteObjectInput) (*s3.DeleteObjectOutput, error)
}

// Uploader stores generated documents under keys namespaced by the
// authenticated user and a timestamp.
type Uploader struct {
	s3     S3API
	cfg    config.StorageConfig
	logger logger.Logger
	now    func() time.Time
}

func NewUploader(client S3API, cfg config.StorageConfig, log logger.Logger) *Uploader {
	return &Uploader{s3: client, cfg: cfg, logger: log, now: time.Now}
}

// Upload writes the document and returns its storage key and public URL.
func (u *Uploader) Upload(ctx context.Context, userID, name string, data []byte) (key, publicURL string, err error) {
	key = u.objectKey(userID, name)

	_, err = u.s3.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.cfg.S3.Bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/pdf"),
	})
	if err != nil {
		u.logger.WithError(err).Error("document upload failed", map[string]interface{}{
			"key":  key,
			"size": len(data),
		})
		return "", "", errors.NewUploadFailedError(err)
	}

	return key, u.publicURL(key), nil
}

func (u *Uploader) Delete(ctx context.Context, key string) error {
	_, err := u.s3.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(u.cfg.S3.Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return errors.NewUploadFailedError(err)
	}
	return nil
}

// objectKey builds "{prefix}/fiches/{userID}/{timestamp}_{sanitizedName}.pdf".
func (u *Uploader) objectKey(userID, name string) string {
	ts := u.now().UTC().Format("20060102T150405")
	key := fmt.Sprintf("fiches/%s/%s_%s.pdf", userID, ts, SanitizeFilename(name))
	if prefix := strings.Trim(u.cfg.S3.KeyPrefix, "/"); prefix != "" {
		key = prefix + "/" + key
	}
	return key
}

func (u *Uploader) publicURL(key string) string {
	base := strings.TrimRight(u.cfg.S3.PublicBaseURL, "/")
	if base == "" {
		base = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", u.cfg.S3.Bucket, u.cfg.S3.Region)
	}
	return base + "/" + key
}
