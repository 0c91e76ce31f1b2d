package dto

type ProcessFileResponse struct {
	Message  string `json:"message"`
	FileType string `json:"file_type"`
	FileID   string `json:"file_id"`
}

type UploadProgressResponse struct {
	Status   string `json:"status"`
	Progress int    `json:"progress"`
	Message  string `json:"message,omitempty"`
}
