package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/sunsetmemories/backend/internal/common"
	"github.com/sunsetmemories/backend/internal/domain"
	"github.com/sunsetmemories/backend/internal/repository"
	"github.com/sunsetmemories/backend/internal/search"
	pkgcache "github.com/sunsetmemories/backend/pkg/cache"
	pkglogger "github.com/sunsetmemories/backend/pkg/logger"
)

// MemoirService implements memoir and chapter operations. All lookups go
// through access predicates that fold the existence and permission checks
// into one query, so callers always see not-found for records they cannot
// touch.
type MemoirService struct {
	memoirRepo  repository.MemoirRepository
	chapterRepo repository.ChapterRepository
	index       *search.MemoirIndex // nil when Elasticsearch is disabled
	cache       pkgcache.Service    // nil when Redis is unavailable
}

// NewMemoirService creates a new MemoirService
func NewMemoirService(memoirRepo repository.MemoirRepository, chapterRepo repository.ChapterRepository, index *search.MemoirIndex, cache pkgcache.Service) *MemoirService {
	return &MemoirService{
		memoirRepo:  memoirRepo,
		chapterRepo: chapterRepo,
		index:       index,
		cache:       cache,
	}
}

// CreateMemoirInput holds fields for creating a memoir
type CreateMemoirInput struct {
	Title    string
	Content  string
	IsPublic bool
}

// UpdateMemoirInput holds fields for updating a memoir. Nil pointers
// leave the field unchanged.
type UpdateMemoirInput struct {
	Title    *string
	Content  *string
	IsPublic *bool
}

// Create creates a memoir owned by userID
func (s *MemoirService) Create(ctx context.Context, userID uint64, input CreateMemoirInput) (*domain.Memoir, error) {
	memoir := &domain.Memoir{
		UserID:   userID,
		Title:    input.Title,
		Content:  input.Content,
		IsPublic: input.IsPublic,
	}
	if err := s.memoirRepo.Create(memoir); err != nil {
		return nil, err
	}
	s.syncAfterWrite(ctx, memoir)
	return memoir, nil
}

// Get returns a memoir with its chapters. The caller must be the owner
// or an accepted collaborator.
func (s *MemoirService) Get(userID, memoirID uint64) (*domain.Memoir, error) {
	memoir, err := s.memoirRepo.FindReadableByID(memoirID, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, common.ErrMemoirNotFound
	}
	if err != nil {
		return nil, err
	}

	chapters, err := s.chapterRepo.FindByMemoir(memoir.ID)
	if err != nil {
		return nil, err
	}
	memoir.Chapters = make([]domain.Chapter, len(chapters))
	for i, ch := range chapters {
		memoir.Chapters[i] = *ch
	}
	return memoir, nil
}

// Update modifies a memoir. Content edits are allowed for accepted
// editors; visibility changes are owner-only.
func (s *MemoirService) Update(ctx context.Context, userID, memoirID uint64, input UpdateMemoirInput) (*domain.Memoir, error) {
	memoir, err := s.memoirRepo.FindWritableByID(memoirID, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, common.ErrMemoirNotFound
	}
	if err != nil {
		return nil, err
	}

	if input.IsPublic != nil && memoir.UserID != userID {
		// Collaborators may edit content but not publish or unpublish
		return nil, common.ErrMemoirNotFound
	}

	if input.Title != nil {
		memoir.Title = *input.Title
	}
	if input.Content != nil {
		memoir.Content = *input.Content
	}
	if input.IsPublic != nil {
		memoir.IsPublic = *input.IsPublic
	}
	if err := s.memoirRepo.Update(memoir); err != nil {
		return nil, err
	}
	s.syncAfterWrite(ctx, memoir)
	return memoir, nil
}

// Delete removes a memoir and its chapters, comments, likes and
// collaborations. Owner only.
func (s *MemoirService) Delete(ctx context.Context, userID, memoirID uint64) error {
	memoir, err := s.memoirRepo.FindOwnedByID(memoirID, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return common.ErrMemoirNotFound
	}
	if err != nil {
		return err
	}

	if err := s.memoirRepo.Delete(memoir.ID); err != nil {
		return err
	}
	s.deindex(ctx, memoir.ID)
	s.invalidateFeed(ctx)
	return nil
}

// ListMine lists memoirs owned by userID
func (s *MemoirService) ListMine(userID uint64, page, limit int) ([]*domain.MemoirSummary, int64, error) {
	return s.memoirRepo.FindByOwner(userID, page, limit)
}

// ListShared lists memoirs shared with userID via accepted collaborations
func (s *MemoirService) ListShared(userID uint64, page, limit int) ([]*domain.MemoirSummary, int64, error) {
	return s.memoirRepo.FindSharedWith(userID, page, limit)
}

// === Chapters ===

// CreateChapterInput holds fields for creating a chapter
type CreateChapterInput struct {
	Title    string
	Content  string
	OrderNum *int // appended at the end when nil
}

// AddChapter appends or inserts a chapter. Requires write access.
func (s *MemoirService) AddChapter(userID, memoirID uint64, input CreateChapterInput) (*domain.Chapter, error) {
	memoir, err := s.memoirRepo.FindWritableByID(memoirID, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, common.ErrMemoirNotFound
	}
	if err != nil {
		return nil, err
	}

	orderNum := 0
	if input.OrderNum != nil {
		orderNum = *input.OrderNum
	} else {
		orderNum, err = s.chapterRepo.NextOrderNum(memoir.ID)
		if err != nil {
			return nil, err
		}
	}

	chapter := &domain.Chapter{
		MemoirID: memoir.ID,
		Title:    input.Title,
		Content:  input.Content,
		OrderNum: orderNum,
	}
	if err := s.chapterRepo.Create(chapter); err != nil {
		return nil, err
	}
	return chapter, nil
}

// UpdateChapterInput holds fields for updating a chapter
type UpdateChapterInput struct {
	Title    *string
	Content  *string
	OrderNum *int
}

// UpdateChapter modifies a chapter. Requires write access to the memoir.
func (s *MemoirService) UpdateChapter(userID, memoirID, chapterID uint64, input UpdateChapterInput) (*domain.Chapter, error) {
	if _, err := s.memoirRepo.FindWritableByID(memoirID, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrMemoirNotFound
		}
		return nil, err
	}

	chapter, err := s.chapterRepo.FindByID(memoirID, chapterID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, common.ErrChapterNotFound
	}
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		chapter.Title = *input.Title
	}
	if input.Content != nil {
		chapter.Content = *input.Content
	}
	if input.OrderNum != nil {
		chapter.OrderNum = *input.OrderNum
	}
	if err := s.chapterRepo.Update(chapter); err != nil {
		return nil, err
	}
	return chapter, nil
}

// DeleteChapter removes a chapter. Requires write access to the memoir.
func (s *MemoirService) DeleteChapter(userID, memoirID, chapterID uint64) error {
	if _, err := s.memoirRepo.FindWritableByID(memoirID, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return common.ErrMemoirNotFound
		}
		return err
	}

	err := s.chapterRepo.Delete(memoirID, chapterID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return common.ErrChapterNotFound
	}
	return err
}

// ReorderChapters rewrites chapter ordering to match orderedIDs.
// Requires write access; all ids must belong to the memoir.
func (s *MemoirService) ReorderChapters(userID, memoirID uint64, orderedIDs []uint64) ([]*domain.Chapter, error) {
	if _, err := s.memoirRepo.FindWritableByID(memoirID, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrMemoirNotFound
		}
		return nil, err
	}

	if err := s.chapterRepo.Reorder(memoirID, orderedIDs); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrChapterNotFound
		}
		return nil, err
	}
	return s.chapterRepo.FindByMemoir(memoirID)
}

// syncAfterWrite keeps the search index and feed cache in step with a
// memoir write. Best-effort; failures are logged, not surfaced.
func (s *MemoirService) syncAfterWrite(ctx context.Context, memoir *domain.Memoir) {
	if memoir.IsPublic {
		if s.index != nil {
			if err := s.index.Index(ctx, memoir); err != nil {
				pkglogger.GetLogger().Warn().Err(err).Uint64("memoir_id", memoir.ID).Msg("memoir index failed")
			}
		}
	} else {
		s.deindex(ctx, memoir.ID)
	}
	s.invalidateFeed(ctx)
}

func (s *MemoirService) deindex(ctx context.Context, memoirID uint64) {
	if s.index == nil {
		return
	}
	if err := s.index.Delete(ctx, memoirID); err != nil {
		pkglogger.GetLogger().Warn().Err(err).Uint64("memoir_id", memoirID).Msg("memoir deindex failed")
	}
}

func (s *MemoirService) invalidateFeed(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateFeed(ctx); err != nil {
		pkglogger.GetLogger().Warn().Err(err).Msg("feed cache invalidation failed")
	}
}
