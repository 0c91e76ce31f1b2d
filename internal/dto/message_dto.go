package dto

// ProcessFileMessage is the event-bus payload queued when an upload lands.
type ProcessFileMessage struct {
	FileID   string `json:"file_id"`
	FileName string `json:"file_name"`
	FileType string `json:"file_type"`
	Path     string `json:"path"`
}
