package models

import "errors"

var (
	ErrMissingOriginalURL  = errors.New("original_url is required")
	ErrMissingProcessedURL = errors.New("processed_url is required on success")
	ErrUnexpectedError     = errors.New("error must be empty on success")
	ErrMissingError        = errors.New("error is required on failure")
	ErrUnexpectedProcessed = errors.New("processed_url must be empty on failure")
)

// BackgroundRemovalResult links an original image to its cut-out version.
// ProcessedURL is set iff Success, Error is set iff not Success.
type BackgroundRemovalResult struct {
	Success      bool    `json:"success"`
	OriginalURL  string  `json:"original_url"`
	ProcessedURL *string `json:"processed_url"`
	Error        *string `json:"error"`
}

func NewBackgroundRemovalSuccess(originalURL, processedURL string) (*BackgroundRemovalResult, error) {
	r := &BackgroundRemovalResult{
		Success:      true,
		OriginalURL:  originalURL,
		ProcessedURL: &processedURL,
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return r, nil
}

func NewBackgroundRemovalFailure(originalURL, message string) (*BackgroundRemovalResult, error) {
	r := &BackgroundRemovalResult{
		Success:     false,
		OriginalURL: originalURL,
		Error:       &message,
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *BackgroundRemovalResult) Validate() error {
	if r.OriginalURL == "" {
		return ErrMissingOriginalURL
	}
	if r.Success {
		if r.ProcessedURL == nil || *r.ProcessedURL == "" {
			return ErrMissingProcessedURL
		}
		if r.Error != nil {
			return ErrUnexpectedError
		}
		return nil
	}
	if r.Error == nil || *r.Error == "" {
		return ErrMissingError
	}
	if r.ProcessedURL != nil {
		return ErrUnexpectedProcessed
	}
	return nil
}
