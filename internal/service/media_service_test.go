package service

import (
	"context"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/sunsetmemories/backend/internal/common"
	"github.com/sunsetmemories/backend/internal/repository"
	"github.com/sunsetmemories/backend/pkg/storage"
)

func setupMediaService(t *testing.T) (*MediaService, *TranscriptionService, *gorm.DB) {
	t.Helper()
	db := setupTestDB(t)

	store, err := storage.NewLocalStore(t.TempDir(), "http://localhost:8080/uploads")
	require.NoError(t, err)

	recordingRepo := repository.NewRecordingRepository(db)
	media := NewMediaService(recordingRepo, store, 1<<20)
	transcription := NewTranscriptionService(recordingRepo)
	return media, transcription, db
}

func TestUploadRecording(t *testing.T) {
	svc, _, db := setupMediaService(t)
	user := createTestUser(t, db, "13800000001", "narrator")

	body := strings.NewReader("fake audio bytes")
	rec, err := svc.UploadRecording(context.Background(), user.ID, "memo.mp3", "audio/mpeg", body, int64(body.Len()))
	require.NoError(t, err)
	assert.NotZero(t, rec.ID)
	assert.Equal(t, "audio/mpeg", rec.MimeType)
	assert.Contains(t, rec.URL, "http://localhost:8080/uploads/")
	assert.True(t, strings.HasSuffix(rec.StorageKey, ".mp3"))
}

func TestUploadRejectsNonAudio(t *testing.T) {
	svc, _, db := setupMediaService(t)
	user := createTestUser(t, db, "13800000001", "narrator")

	body := strings.NewReader("<html>")
	_, err := svc.UploadRecording(context.Background(), user.ID, "page.html", "text/html", body, int64(body.Len()))
	assert.ErrorIs(t, err, ErrUnsupportedMediaType)
}

func TestUploadRejectsOversizedFile(t *testing.T) {
	svc, _, db := setupMediaService(t)
	user := createTestUser(t, db, "13800000001", "narrator")

	body := strings.NewReader("x")
	_, err := svc.UploadRecording(context.Background(), user.ID, "big.wav", "audio/wav", body, 2<<20)
	assert.ErrorIs(t, err, ErrFileTooLarge)
}

func TestUploadNormalizesMimeParams(t *testing.T) {
	svc, _, db := setupMediaService(t)
	user := createTestUser(t, db, "13800000001", "narrator")

	body := strings.NewReader("fake audio")
	rec, err := svc.UploadRecording(context.Background(), user.ID, "memo.webm", "audio/webm; codecs=opus", body, int64(body.Len()))
	require.NoError(t, err)
	assert.Equal(t, "audio/webm", rec.MimeType)
}

func TestTranscribeOwnRecordingOnly(t *testing.T) {
	svc, transcription, db := setupMediaService(t)
	owner := createTestUser(t, db, "13800000001", "narrator")
	other := createTestUser(t, db, "13800000002", "other")

	body := strings.NewReader("fake audio")
	rec, err := svc.UploadRecording(context.Background(), owner.ID, "memo.mp3", "audio/mpeg", body, int64(body.Len()))
	require.NoError(t, err)

	result, err := transcription.Transcribe(owner.ID, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, rec.ID, result.RecordingID)
	assert.NotEmpty(t, result.Text)

	_, err = transcription.Transcribe(other.ID, rec.ID)
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestDeleteRecording(t *testing.T) {
	svc, _, db := setupMediaService(t)
	user := createTestUser(t, db, "13800000001", "narrator")

	body := strings.NewReader("fake audio")
	rec, err := svc.UploadRecording(context.Background(), user.ID, "memo.mp3", "audio/mpeg", body, int64(body.Len()))
	require.NoError(t, err)

	require.NoError(t, svc.DeleteRecording(context.Background(), user.ID, rec.ID))

	_, err = svc.GetRecording(user.ID, rec.ID)
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestGenerateOutline(t *testing.T) {
	_, transcription, _ := setupMediaService(t)

	outline, err := transcription.GenerateOutline("I was born by the river. School was far away. Then came the city years. Work was hard. We raised three children. Now I tend the garden.")
	require.NoError(t, err)
	require.NotEmpty(t, outline)
	assert.Equal(t, 0, outline[0].OrderNum)
	for _, ch := range outline {
		assert.NotEmpty(t, ch.Title)
		assert.NotEmpty(t, ch.Summary)
	}

	_, err = transcription.GenerateOutline("   ")
	assert.ErrorIs(t, err, common.ErrInvalidInput)
}

func TestGenerateOutlineTruncatesOnRuneBoundary(t *testing.T) {
	_, transcription, _ := setupMediaService(t)

	// One long multi-byte sentence with no ". " breaks lands whole in the
	// first chapter and must be cut without splitting a rune
	long := strings.Repeat("我出生在河边的小镇。", 50)
	outline, err := transcription.GenerateOutline(long)
	require.NoError(t, err)
	require.NotEmpty(t, outline)

	summary := outline[0].Summary
	assert.True(t, utf8.ValidString(summary))
	assert.Equal(t, 200, len([]rune(strings.TrimSuffix(summary, "..."))))
	assert.NotContains(t, summary, "�")
}
