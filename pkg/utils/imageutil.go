package utils

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
)

var ErrEmptyImage = errors.New("empty image data")

var httpClient = resty.New().
	SetTimeout(30*time.Second).
	SetHeader("Accept", "image/*")

func DownloadImage(ctx context.Context, imageURL string, maxSize int64) ([]byte, string, error) {
	resp, err := httpClient.R().
		SetContext(ctx).
		SetDoNotParseResponse(true).
		Get(imageURL)
	if err != nil {
		return nil, "", fmt.Errorf("failed to download image: %w", err)
	}
	body := resp.RawBody()
	defer body.Close()

	if resp.StatusCode() != http.StatusOK {
		return nil, "", fmt.Errorf("failed to download image: status %d", resp.StatusCode())
	}

	// Read one byte past the limit so oversized bodies are rejected, not truncated.
	imageData, err := io.ReadAll(io.LimitReader(body, maxSize+1))
	if err != nil {
		return nil, "", fmt.Errorf("failed to read image data: %w", err)
	}
	if int64(len(imageData)) > maxSize {
		return nil, "", fmt.Errorf("image exceeds maximum size of %d bytes", maxSize)
	}

	contentType, err := DetectImageType(imageData)
	if err != nil {
		return nil, "", err
	}

	return imageData, contentType, nil
}

// DetectImageType sniffs the content type and rejects anything that is not an image.
func DetectImageType(data []byte) (string, error) {
	if len(data) == 0 {
		return "", ErrEmptyImage
	}
	contentType := http.DetectContentType(data)
	if !IsValidImageType(contentType) {
		return "", fmt.Errorf("invalid content type: %s", contentType)
	}
	return contentType, nil
}

// IsValidImageType checks if content type is a valid image type
func IsValidImageType(contentType string) bool {
	validTypes := []string{
		"image/jpeg",
		"image/jpg",
		"image/png",
		"image/gif",
		"image/webp",
		"image/bmp",
		"image/tiff",
	}

	ct := strings.ToLower(contentType)
	for _, validType := range validTypes {
		if strings.Contains(ct, validType) {
			return true
		}
	}
	return false
}

// NoBackgroundLocator derives the locator of a background-free image by
// textual substitution: every ".jpg", then every ".jpeg", becomes "_nobg.png".
// Locators with any other extension come back unchanged.
func NoBackgroundLocator(imageURL string) string {
	out := strings.ReplaceAll(imageURL, ".jpg", "_nobg.png")
	return strings.ReplaceAll(out, ".jpeg", "_nobg.png")
}

// NoBackgroundFilename names the PNG produced for an image locator.
func NoBackgroundFilename(locator string) string {
	name := locator
	if u, err := url.Parse(locator); err == nil && u.Path != "" {
		name = u.Path
	}
	name = path.Base(name)
	name = strings.TrimSuffix(name, filepath.Ext(name))
	if name == "" || name == "." || name == "/" {
		name = "image"
	}
	return name + "_nobg.png"
}

func GenerateStorageKey(filename string) string {
	ext := filepath.Ext(filename)
	name := strings.TrimSuffix(filename, ext)
	timestamp := time.Now().Unix()
	uuid := uuid.New().String()[:8]

	return fmt.Sprintf("%s_%d_%s%s", name, timestamp, uuid, ext)
}
