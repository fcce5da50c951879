// internal/storage/storage_test.go
package storage

import (
	"context"
	"fmt"
	"testing"
	"time"

	"fiche-manager/internal/common/config"
	"fiche-manager/internal/common/logger"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

type fakeS3 struct {
	putInput *s3.PutObjectInput
	putErr   error
	deleted  []string
}

func (f *fakeS3) PutObject(ctx context.Context, input *s3.PutObjectInput) (*s3.PutObjectOutput, error) {
	f.putInput = input
	if f.putErr != nil {
		return nil, f.putErr
	}
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) DeleteObject(ctx context.Context, input *s3.DeleteObjectInput) (*s3.DeleteObjectOutput, error) {
	f.deleted = append(f.deleted, *input.Key)
	return &s3.DeleteObjectOutput{}, nil
}

func testUploader(t *testing.T, fake *fakeS3) *Uploader {
	var cfg config.StorageConfig
	cfg.S3.Region = "eu-west-3"
	cfg.S3.Bucket = "fiche-documents"
	cfg.S3.PublicBaseURL = "https://docs.example.com"

	u := NewUploader(fake, cfg, logger.NewTestLogger(t))
	u.now = func() time.Time {
		return time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC)
	}
	return u
}

// ==========================
// Uploader Tests
// ==========================

func TestUploader_Upload(t *testing.T) {
	fake := &fakeS3{}
	u := testUploader(t, fake)

	key, url, err := u.Upload(context.Background(), "user-1", "Fiche d'évaluation", []byte("%PDF-1.4"))
	require.NoError(t, err)

	assert.Equal(t, "fiches/user-1/20260302T093000_Fiche_d_evaluation.pdf", key)
	assert.Equal(t, "https://docs.example.com/"+key, url)

	require.NotNil(t, fake.putInput)
	assert.Equal(t, "fiche-documents", *fake.putInput.Bucket)
	assert.Equal(t, "application/pdf", *fake.putInput.ContentType)
}

func TestUploader_KeyPrefix(t *testing.T) {
	fake := &fakeS3{}
	u := testUploader(t, fake)
	u.cfg.S3.KeyPrefix = "/prod/"

	key, _, err := u.Upload(context.Background(), "user-1", "plan", []byte("x"))
	require.NoError(t, err)
	assert.Equal(t, "prod/fiches/user-1/20260302T093000_plan.pdf", key)
}

func TestUploader_UploadError(t *testing.T) {
	fake := &fakeS3{putErr: fmt.Errorf("access denied")}
	u := testUploader(t, fake)

	_, _, err := u.Upload(context.Background(), "user-1", "plan", []byte("x"))
	require.Error(t, err)
}

func TestUploader_Delete(t *testing.T) {
	fake := &fakeS3{}
	u := testUploader(t, fake)

	require.NoError(t, u.Delete(context.Background(), "fiches/user-1/doc.pdf"))
	assert.Equal(t, []string{"fiches/user-1/doc.pdf"}, fake.deleted)
}

// ==========================
// Sanitizer Tests
// ==========================

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Fiche d'évaluation", "Fiche_d_evaluation"},
		{"Habilitation électrique B1V", "Habilitation_electrique_B1V"},
		{"plan", "plan"},
		{"Çà & là!!", "Ca_la"},
		{"___", "document"},
		{"", "document"},
		{"a--b__c", "a_b_c"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, SanitizeFilename(tt.input))
		})
	}
}
