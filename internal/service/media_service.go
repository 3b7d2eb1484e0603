package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sunsetmemories/backend/internal/common"
	"github.com/sunsetmemories/backend/internal/domain"
	"github.com/sunsetmemories/backend/internal/repository"
	pkglogger "github.com/sunsetmemories/backend/pkg/logger"
	"github.com/sunsetmemories/backend/pkg/storage"
)

// Accepted audio MIME types for recordings
var allowedAudioTypes = map[string]bool{
	"audio/mpeg":  true,
	"audio/wav":   true,
	"audio/x-wav": true,
	"audio/webm":  true,
	"audio/mp4":   true,
	"audio/aac":   true,
}

// ErrUnsupportedMediaType rejects files outside the audio whitelist
var ErrUnsupportedMediaType = errors.New("unsupported media type")

// ErrFileTooLarge rejects uploads over the configured size cap
var ErrFileTooLarge = errors.New("file too large")

// MediaService stores uploaded voice recordings
type MediaService struct {
	recordingRepo repository.RecordingRepository
	store         storage.ObjectStore
	maxSizeBytes  int64
}

// NewMediaService creates a new MediaService
func NewMediaService(recordingRepo repository.RecordingRepository, store storage.ObjectStore, maxSizeBytes int64) *MediaService {
	return &MediaService{
		recordingRepo: recordingRepo,
		store:         store,
		maxSizeBytes:  maxSizeBytes,
	}
}

// UploadRecording validates and stores an audio file, then records its metadata
func (s *MediaService) UploadRecording(ctx context.Context, userID uint64, originalName, mimeType string, body io.Reader, size int64) (*domain.Recording, error) {
	mime := strings.ToLower(strings.TrimSpace(mimeType))
	if i := strings.Index(mime, ";"); i >= 0 {
		mime = strings.TrimSpace(mime[:i])
	}
	if !allowedAudioTypes[mime] {
		return nil, ErrUnsupportedMediaType
	}
	if s.maxSizeBytes > 0 && size > s.maxSizeBytes {
		return nil, ErrFileTooLarge
	}

	ext := path.Ext(originalName)
	key := fmt.Sprintf("recordings/%d/%s/%s%s",
		userID, time.Now().Format("2006/01"), uuid.NewString(), ext)

	result, err := s.store.Upload(ctx, key, body, mime, size)
	if err != nil {
		return nil, fmt.Errorf("store recording: %w", err)
	}

	rec := &domain.Recording{
		UserID:       userID,
		StorageKey:   result.Key,
		URL:          result.URL,
		OriginalName: originalName,
		MimeType:     mime,
		SizeBytes:    result.Size,
	}
	if err := s.recordingRepo.Create(rec); err != nil {
		// Orphaned object; best effort cleanup
		if delErr := s.store.Delete(ctx, result.Key); delErr != nil {
			pkglogger.GetLogger().Warn().Err(delErr).Str("key", result.Key).Msg("orphan cleanup failed")
		}
		return nil, err
	}
	return rec, nil
}

// GetRecording returns the caller's own recording
func (s *MediaService) GetRecording(userID, recordingID uint64) (*domain.Recording, error) {
	rec, err := s.recordingRepo.FindOwnedByID(recordingID, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, common.ErrNotFound
	}
	return rec, err
}

// ListRecordings lists the caller's recordings, newest first
func (s *MediaService) ListRecordings(userID uint64, page, limit int) ([]*domain.Recording, int64, error) {
	return s.recordingRepo.FindByOwner(userID, page, limit)
}

// DeleteRecording removes a recording and its stored object
func (s *MediaService) DeleteRecording(ctx context.Context, userID, recordingID uint64) error {
	rec, err := s.recordingRepo.FindOwnedByID(recordingID, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return common.ErrNotFound
	}
	if err != nil {
		return err
	}

	if err := s.recordingRepo.Delete(rec.ID); err != nil {
		return err
	}
	if err := s.store.Delete(ctx, rec.StorageKey); err != nil {
		pkglogger.GetLogger().Warn().Err(err).Str("key", rec.StorageKey).Msg("object delete failed")
	}
	return nil
}
