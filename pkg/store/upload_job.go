package store

// UploadJob represents the in-memory processing state of one uploaded file.
type UploadJob struct {
	ID       string `json:"id"`
	FileName string `json:"file_name"`
	FileType string `json:"file_type"`
	Status   string `json:"status"`
	Progress int    `json:"progress"` // 0-100
	Message  string `json:"message,omitempty"`
}

const (
	StatusUploading  = "uploading"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusError      = "error"
)

// Terminal reports whether the job reached a final state.
func (j *UploadJob) Terminal() bool {
	return j.Status == StatusCompleted || j.Status == StatusError
}
