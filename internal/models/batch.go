package models

type BatchRemoveRequest struct {
	ImageURLs []string `json:"image_urls" binding:"required,min=1,max=50"`
}

type BatchRemoveResponse struct {
	Results   []*BackgroundRemovalResult `json:"results"`
	Succeeded int                        `json:"succeeded"`
	Failed    int                        `json:"failed"`
}
