package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/phambaophuc/outfit-ml/pkg/utils"
)

// FetchImage resolves an image locator. HTTP(S) URLs are downloaded
// directly; anything else is treated as a path inside the service bucket.
// Only the configured content types are accepted.
func (s *StorageService) FetchImage(ctx context.Context, locator string, maxSize int64) ([]byte, string, error) {
	data, contentType, err := s.fetch(ctx, locator, maxSize)
	if err != nil {
		return nil, "", err
	}
	if !s.isAllowedType(contentType) {
		return nil, "", fmt.Errorf("%w: %s", ErrUnsupportedImageType, contentType)
	}
	return data, contentType, nil
}

func (s *StorageService) fetch(ctx context.Context, locator string, maxSize int64) ([]byte, string, error) {
	if strings.HasPrefix(locator, "http://") || strings.HasPrefix(locator, "https://") {
		return utils.DownloadImage(ctx, locator, maxSize)
	}

	data, err := s.Download(ctx, strings.TrimPrefix(locator, "/"))
	if err != nil {
		return nil, "", fmt.Errorf("failed to download %s from bucket: %w", locator, err)
	}
	if int64(len(data)) > maxSize {
		return nil, "", fmt.Errorf("image exceeds maximum size of %d bytes", maxSize)
	}

	contentType, err := utils.DetectImageType(data)
	if err != nil {
		return nil, "", err
	}
	return data, contentType, nil
}

func (s *StorageService) isAllowedType(contentType string) bool {
	if len(s.allowedTypes) == 0 {
		return true
	}
	ct := strings.ToLower(contentType)
	for _, allowed := range s.allowedTypes {
		if strings.HasPrefix(ct, allowed) {
			return true
		}
	}
	return false
}

// Download fetches an object stored in the service bucket.
func (s *StorageService) Download(ctx context.Context, path string) ([]byte, error) {
	if s.sbClient == nil {
		return nil, ErrStorageNotConfigured
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.sbClient.DownloadFile(s.bucket, path)
}
