package service

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/sunsetmemories/backend/internal/common"
	"github.com/sunsetmemories/backend/internal/repository"
)

// TranscriptionService turns recordings into text and text into chapter
// outlines. Both operations are placeholders until a speech/LLM provider
// is wired in; they return deterministic canned output.
type TranscriptionService struct {
	recordingRepo repository.RecordingRepository
}

// NewTranscriptionService creates a new TranscriptionService
func NewTranscriptionService(recordingRepo repository.RecordingRepository) *TranscriptionService {
	return &TranscriptionService{recordingRepo: recordingRepo}
}

// TranscriptResult is the outcome of a transcription run
type TranscriptResult struct {
	RecordingID uint64 `json:"recording_id"`
	Text        string `json:"text"`
	Provider    string `json:"provider"`
}

// OutlineChapter is one suggested chapter in a generated outline
type OutlineChapter struct {
	Title    string `json:"title"`
	Summary  string `json:"summary"`
	OrderNum int    `json:"order_num"`
}

const cannedTranscript = "I was born in a small town by the river. " +
	"My earliest memory is the smell of my grandmother's kitchen on winter mornings, " +
	"and the sound of the radio my father kept on the windowsill. " +
	"We didn't have much, but the house was always full of voices."

// Transcribe produces a transcript for the caller's recording
func (s *TranscriptionService) Transcribe(userID, recordingID uint64) (*TranscriptResult, error) {
	rec, err := s.recordingRepo.FindOwnedByID(recordingID, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return &TranscriptResult{
		RecordingID: rec.ID,
		Text:        cannedTranscript,
		Provider:    "stub",
	}, nil
}

// GenerateOutline suggests a chapter outline for the given transcript.
// The transcript is split into rough thirds; each becomes one chapter.
func (s *TranscriptionService) GenerateOutline(transcript string) ([]*OutlineChapter, error) {
	transcript = strings.TrimSpace(transcript)
	if transcript == "" {
		return nil, common.ErrInvalidInput
	}

	titles := []string{"Early Years", "Turning Points", "Looking Back"}
	sentences := strings.SplitAfter(transcript, ". ")
	per := (len(sentences) + len(titles) - 1) / len(titles)

	outline := make([]*OutlineChapter, 0, len(titles))
	for i, title := range titles {
		start := i * per
		if start >= len(sentences) {
			break
		}
		end := start + per
		if end > len(sentences) {
			end = len(sentences)
		}
		summary := strings.TrimSpace(strings.Join(sentences[start:end], ""))
		// Truncate on a rune boundary; transcripts are often Chinese
		if runes := []rune(summary); len(runes) > 200 {
			summary = string(runes[:200]) + "..."
		}
		outline = append(outline, &OutlineChapter{
			Title:    fmt.Sprintf("Chapter %d: %s", i+1, title),
			Summary:  summary,
			OrderNum: i,
		})
	}
	return outline, nil
}
