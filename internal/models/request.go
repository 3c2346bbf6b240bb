package models

// ImageRequest carries the locator of the image to run inference on.
type ImageRequest struct {
	ImageURL string `json:"image_url" binding:"required"`
}

type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}
