package media

// BatchURLsRequest for POST /api/v1/storage/batch-urls
type BatchURLsRequest struct {
	Keys []string `json:"keys"`
}

// BatchURLsResponse maps storage keys to presigned URLs
type BatchURLsResponse struct {
	URLs map[string]string `json:"urls"`
}

// UploadResult describes stored upload objects
type UploadResult struct {
	Kind        Kind   `json:"kind"`
	Key         string `json:"key"`
	ThumbKey    string `json:"thumb_key,omitempty"`
	URL         string `json:"url"`
	ThumbURL    string `json:"thumb_url,omitempty"`
	ContentType string `json:"content_type"`
	Width       int    `json:"width,omitempty"`
	Height      int    `json:"height,omitempty"`
}
