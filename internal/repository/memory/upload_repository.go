package memory

import (
	"time"

	"nexus-rag-be/pkg/store"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

// UploadRepository tracks upload jobs in process memory. Each server instance
// has independent job state; nothing is shared across processes.
type UploadRepository struct {
	cache *cache.Cache
}

func NewUploadRepository() *UploadRepository {
	// Jobs expire 24 hours after their last update; expired entries are
	// purged every hour
	c := cache.New(24*time.Hour, 1*time.Hour)
	return &UploadRepository{
		cache: c,
	}
}

// Create registers a new job in the uploading state and returns its id.
func (r *UploadRepository) Create(fileName, fileType string) *store.UploadJob {
	job := &store.UploadJob{
		ID:       uuid.New().String(),
		FileName: fileName,
		FileType: fileType,
		Status:   store.StatusUploading,
		Progress: 0,
	}
	r.cache.Set(job.ID, job, cache.DefaultExpiration)
	return job
}

// Update advances the job's status and progress. Progress never moves
// backwards for a live job, so pollers observe a non-decreasing sequence.
func (r *UploadRepository) Update(jobID, status string, progress int, message string) {
	job, found := r.get(jobID)
	if !found {
		return
	}

	if progress < job.Progress && status != store.StatusError {
		progress = job.Progress
	}

	updated := *job
	updated.Status = status
	updated.Progress = progress
	updated.Message = message
	r.cache.Set(jobID, &updated, cache.DefaultExpiration)
}

// Get returns the job's current state.
func (r *UploadRepository) Get(jobID string) (*store.UploadJob, bool) {
	return r.get(jobID)
}

func (r *UploadRepository) get(jobID string) (*store.UploadJob, bool) {
	if x, found := r.cache.Get(jobID); found {
		return x.(*store.UploadJob), true
	}
	return nil, false
}
