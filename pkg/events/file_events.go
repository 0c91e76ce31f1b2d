package events

import "time"

const (
	TypeFileUploaded     = "FILE_UPLOADED"
	TypeFileProcessed    = "FILE_PROCESSED"
	TypeFileFailed       = "FILE_PROCESSING_FAILED"
	TypeChartGenerated   = "CHART_GENERATED"
	TypeDatasetPublished = "DATASET_PUBLISHED"
)

// NewFileUploaded signals that a file landed in the upload folder and is
// queued for processing.
func NewFileUploaded(fileID, fileName, fileType, path string) Event {
	return BaseEvent{
		Type: TypeFileUploaded,
		Data: map[string]interface{}{
			"file_id":   fileID,
			"file_name": fileName,
			"file_type": fileType,
			"path":      path,
		},
		OccurredAt: time.Now(),
	}
}

// NewFileProcessed signals that chunking and indexing finished.
func NewFileProcessed(fileID string, chunks int) Event {
	return BaseEvent{
		Type: TypeFileProcessed,
		Data: map[string]interface{}{
			"file_id": fileID,
			"chunks":  chunks,
		},
		OccurredAt: time.Now(),
	}
}

// NewFileFailed signals that processing ended with an error.
func NewFileFailed(fileID, reason string) Event {
	return BaseEvent{
		Type: TypeFileFailed,
		Data: map[string]interface{}{
			"file_id": fileID,
			"reason":  reason,
		},
		OccurredAt: time.Now(),
	}
}

// NewChartGenerated signals that a question produced a stored chart.
func NewChartGenerated(question string) Event {
	return BaseEvent{
		Type: TypeChartGenerated,
		Data: map[string]interface{}{
			"question": question,
		},
		OccurredAt: time.Now(),
	}
}

// NewDatasetPublished signals that a dataset was uploaded and is reachable
// at a public URL.
func NewDatasetPublished(fileName, url string) Event {
	return BaseEvent{
		Type: TypeDatasetPublished,
		Data: map[string]interface{}{
			"file_name":   fileName,
			"dataset_url": url,
		},
		OccurredAt: time.Now(),
	}
}
