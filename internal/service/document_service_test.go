package service

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"os"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nexus-rag-be/internal/dto"
	"nexus-rag-be/internal/pkg/serverutils"
	"nexus-rag-be/internal/repository/memory"
	"nexus-rag-be/pkg/events"
	"nexus-rag-be/pkg/store"
)

type fakeQueuePublisher struct {
	payloads [][]byte
}

func (f *fakeQueuePublisher) Publish(ctx context.Context, payload []byte) error {
	f.payloads = append(f.payloads, payload)
	return nil
}

func multipartHeader(t *testing.T, fileName, content string) *multipart.FileHeader {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", fileName)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	form, err := multipart.NewReader(&buf, writer.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)
	return form.File["file"][0]
}

func TestProcessFileQueuesAndNotifies(t *testing.T) {
	uploadRepo := memory.NewUploadRepository()
	queue := &fakeQueuePublisher{}
	eventPub := &fakeEventPublisher{}
	svc := NewDocumentService(t.TempDir(), uploadRepo, queue, eventPub, noopLogger{})

	res, err := svc.ProcessFile(context.Background(), multipartHeader(t, "sales.csv", "Region,Total\nEMEA,12\n"))
	require.NoError(t, err)

	assert.Equal(t, "File uploaded and queued for processing", res.Message)
	assert.Equal(t, "csv", res.FileType)
	assert.NotEmpty(t, res.FileID)

	job, found := uploadRepo.Get(res.FileID)
	require.True(t, found)
	assert.Equal(t, store.StatusUploading, job.Status)

	require.Len(t, queue.payloads, 1)
	var msg dto.ProcessFileMessage
	require.NoError(t, json.Unmarshal(queue.payloads[0], &msg))
	assert.Equal(t, res.FileID, msg.FileID)
	assert.Equal(t, "sales.csv", msg.FileName)
	assert.Equal(t, "csv", msg.FileType)
	_, statErr := os.Stat(msg.Path)
	assert.NoError(t, statErr)

	uploaded := eventPub.waitFor(t, events.TypeFileUploaded)
	assert.Equal(t, res.FileID, uploaded.Payload()["file_id"])
	assert.Equal(t, "sales.csv", uploaded.Payload()["file_name"])
}

func TestProcessFileRejectsUnsupportedType(t *testing.T) {
	queue := &fakeQueuePublisher{}
	eventPub := &fakeEventPublisher{}
	svc := NewDocumentService(t.TempDir(), memory.NewUploadRepository(), queue, eventPub, noopLogger{})

	_, err := svc.ProcessFile(context.Background(), multipartHeader(t, "report.exe", "MZ"))

	var httpErr *serverutils.HttpError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, fiber.StatusBadRequest, httpErr.Code)
	assert.Empty(t, queue.payloads)
	assert.Empty(t, eventPub.types())
}

func TestProgressUnknownFileID(t *testing.T) {
	svc := NewDocumentService(t.TempDir(), memory.NewUploadRepository(), &fakeQueuePublisher{}, nil, noopLogger{})

	_, err := svc.Progress("no-such-job")

	var httpErr *serverutils.HttpError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, fiber.StatusNotFound, httpErr.Code)
}
