package storage

import (
	"bytes"
	"context"
	"fmt"
	"path"

	"github.com/phambaophuc/outfit-ml/pkg/utils"
	storage_go "github.com/supabase-community/storage-go"
)

// Upload uploads file to Supabase Storage and returns its public URL.
func (s *StorageService) Upload(ctx context.Context, buffer *bytes.Buffer, filename, contentType string) (string, error) {
	if s.sbClient == nil {
		return "", ErrStorageNotConfigured
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	key := path.Join(s.uploadPath, utils.GenerateStorageKey(filename))

	upsert := false
	_, err := s.sbClient.UploadFile(s.bucket, key, bytes.NewReader(buffer.Bytes()), storage_go.FileOptions{
		ContentType: &contentType,
		Upsert:      &upsert,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to supabase: %w", err)
	}

	publicURL := s.sbClient.GetPublicUrl(s.bucket, key)
	return publicURL.SignedURL, nil
}

