package memory

import (
	"testing"

	"nexus-rag-be/pkg/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateStartsUploading(t *testing.T) {
	repo := NewUploadRepository()

	job := repo.Create("data.csv", "csv")

	require.NotEmpty(t, job.ID)
	assert.Equal(t, store.StatusUploading, job.Status)
	assert.Equal(t, 0, job.Progress)

	fetched, found := repo.Get(job.ID)
	require.True(t, found)
	assert.Equal(t, job.ID, fetched.ID)
}

func TestGetUnknownJob(t *testing.T) {
	repo := NewUploadRepository()

	_, found := repo.Get("no-such-job")
	assert.False(t, found)
}

func TestUpdateProgressIsMonotonic(t *testing.T) {
	repo := NewUploadRepository()
	job := repo.Create("report.pdf", "pdf")

	repo.Update(job.ID, store.StatusProcessing, 40, "")
	repo.Update(job.ID, store.StatusProcessing, 20, "")

	fetched, found := repo.Get(job.ID)
	require.True(t, found)
	assert.Equal(t, 40, fetched.Progress, "progress must never move backwards")
}

func TestSuccessfulRunTerminatesAtHundredCompleted(t *testing.T) {
	repo := NewUploadRepository()
	job := repo.Create("report.pdf", "pdf")

	last := -1
	steps := []struct {
		status   string
		progress int
	}{
		{store.StatusProcessing, 10},
		{store.StatusProcessing, 55},
		{store.StatusProcessing, 90},
		{store.StatusCompleted, 100},
	}
	for _, step := range steps {
		repo.Update(job.ID, step.status, step.progress, "")
		fetched, found := repo.Get(job.ID)
		require.True(t, found)
		assert.GreaterOrEqual(t, fetched.Progress, last)
		last = fetched.Progress
	}

	fetched, _ := repo.Get(job.ID)
	assert.Equal(t, store.StatusCompleted, fetched.Status)
	assert.Equal(t, 100, fetched.Progress)
	assert.True(t, fetched.Terminal())
}

func TestErrorStateKeepsMessage(t *testing.T) {
	repo := NewUploadRepository()
	job := repo.Create("broken.pdf", "pdf")

	repo.Update(job.ID, store.StatusError, 30, "failed to parse pdf")

	fetched, found := repo.Get(job.ID)
	require.True(t, found)
	assert.Equal(t, store.StatusError, fetched.Status)
	assert.Equal(t, "failed to parse pdf", fetched.Message)
	assert.True(t, fetched.Terminal())
}
