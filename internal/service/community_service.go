package service

import (
	"context"
	"encoding/json"
	"errors"

	"gorm.io/gorm"

	"github.com/sunsetmemories/backend/internal/common"
	"github.com/sunsetmemories/backend/internal/domain"
	"github.com/sunsetmemories/backend/internal/repository"
	"github.com/sunsetmemories/backend/internal/search"
	pkgcache "github.com/sunsetmemories/backend/pkg/cache"
	pkglogger "github.com/sunsetmemories/backend/pkg/logger"
)

// CommunityService serves the public feed, comments and likes
type CommunityService struct {
	memoirRepo  repository.MemoirRepository
	commentRepo repository.CommentRepository
	likeRepo    repository.LikeRepository
	index       *search.MemoirIndex // nil when Elasticsearch is disabled
	cache       pkgcache.Service    // nil when Redis is unavailable
}

// NewCommunityService creates a new CommunityService
func NewCommunityService(memoirRepo repository.MemoirRepository, commentRepo repository.CommentRepository, likeRepo repository.LikeRepository, index *search.MemoirIndex, cache pkgcache.Service) *CommunityService {
	return &CommunityService{
		memoirRepo:  memoirRepo,
		commentRepo: commentRepo,
		likeRepo:    likeRepo,
		index:       index,
		cache:       cache,
	}
}

// FeedPage is the cached feed payload
type FeedPage struct {
	Memoirs []*domain.MemoirSummary `json:"memoirs"`
	Total   int64                   `json:"total"`
}

// Feed returns a page of the public memoir feed, newest first
func (s *CommunityService) Feed(ctx context.Context, page, limit int) (*FeedPage, error) {
	if s.cache != nil {
		if raw, err := s.cache.GetFeedPage(ctx, page, limit); err == nil {
			var cached FeedPage
			if json.Unmarshal(raw, &cached) == nil {
				return &cached, nil
			}
		}
	}

	memoirs, total, err := s.memoirRepo.FindPublic(page, limit)
	if err != nil {
		return nil, err
	}
	feed := &FeedPage{Memoirs: memoirs, Total: total}

	if s.cache != nil {
		if err := s.cache.SetFeedPage(ctx, page, limit, feed); err != nil {
			pkglogger.GetLogger().Warn().Err(err).Msg("feed cache write failed")
		}
	}
	return feed, nil
}

// MemoirDetail is the public detail payload with like state inlined
type MemoirDetail struct {
	*domain.Memoir
	LikeCount int64 `json:"like_count"`
	UserLiked bool  `json:"user_liked"`
}

// PublicDetail returns a public memoir with ordered chapters and bumps
// its view count. userID 0 means an anonymous caller; user_liked is then
// always false.
func (s *CommunityService) PublicDetail(id, userID uint64) (*MemoirDetail, error) {
	memoir, err := s.memoirRepo.FindPublicByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, common.ErrMemoirNotFound
	}
	if err != nil {
		return nil, err
	}

	if err := s.memoirRepo.IncrementViewCount(memoir.ID); err != nil {
		pkglogger.GetLogger().Warn().Err(err).Uint64("memoir_id", memoir.ID).Msg("view count bump failed")
	}

	count, err := s.likeRepo.CountByMemoir(memoir.ID)
	if err != nil {
		return nil, err
	}
	liked := false
	if userID != 0 {
		liked, err = s.likeRepo.Exists(userID, memoir.ID)
		if err != nil {
			return nil, err
		}
	}
	return &MemoirDetail{Memoir: memoir, LikeCount: count, UserLiked: liked}, nil
}

// Search finds public memoirs matching q. Uses Elasticsearch when
// available, a LIKE scan otherwise.
func (s *CommunityService) Search(ctx context.Context, q string, page, limit int) ([]*domain.MemoirSummary, int64, error) {
	if s.index != nil {
		ids, total, err := s.index.Search(ctx, q, page, limit)
		if err == nil {
			summaries, loadErr := s.memoirRepo.FindPublicSummariesByIDs(ids)
			if loadErr != nil {
				return nil, 0, loadErr
			}
			return summaries, total, nil
		}
		pkglogger.GetLogger().Warn().Err(err).Msg("elasticsearch query failed, falling back to LIKE")
	}
	return s.memoirRepo.SearchPublic(q, page, limit)
}

// AddComment creates a comment on a public memoir
func (s *CommunityService) AddComment(userID, memoirID uint64, content string) (*domain.Comment, error) {
	if _, err := s.memoirRepo.FindPublicByID(memoirID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrMemoirNotFound
		}
		return nil, err
	}

	comment := &domain.Comment{
		MemoirID: memoirID,
		UserID:   userID,
		Content:  content,
	}
	if err := s.commentRepo.Create(comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// ListComments lists comments of a public memoir, newest first
func (s *CommunityService) ListComments(memoirID uint64, page, limit int) ([]*domain.CommentResponse, int64, error) {
	if _, err := s.memoirRepo.FindPublicByID(memoirID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, common.ErrMemoirNotFound
		}
		return nil, 0, err
	}
	return s.commentRepo.FindByMemoir(memoirID, page, limit)
}

// DeleteComment removes the caller's own comment
func (s *CommunityService) DeleteComment(userID, commentID uint64) error {
	comment, err := s.commentRepo.FindOwnedByID(commentID, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return common.ErrCommentNotFound
	}
	if err != nil {
		return err
	}
	return s.commentRepo.Delete(comment.ID)
}

// Like records a like. Duplicate likes are rejected by the unique index.
func (s *CommunityService) Like(userID, memoirID uint64) (*domain.LikeResponse, error) {
	if _, err := s.memoirRepo.FindPublicByID(memoirID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrMemoirNotFound
		}
		return nil, err
	}

	err := s.likeRepo.Create(&domain.Like{UserID: userID, MemoirID: memoirID})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, common.ErrAlreadyLiked
	}
	if err != nil {
		return nil, err
	}
	return s.likeState(userID, memoirID)
}

// Unlike removes a like
func (s *CommunityService) Unlike(userID, memoirID uint64) (*domain.LikeResponse, error) {
	err := s.likeRepo.Delete(userID, memoirID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, common.ErrNotLiked
	}
	if err != nil {
		return nil, err
	}
	return s.likeState(userID, memoirID)
}

func (s *CommunityService) likeState(userID, memoirID uint64) (*domain.LikeResponse, error) {
	count, err := s.likeRepo.CountByMemoir(memoirID)
	if err != nil {
		return nil, err
	}
	liked, err := s.likeRepo.Exists(userID, memoirID)
	if err != nil {
		return nil, err
	}
	return &domain.LikeResponse{
		MemoirID:  memoirID,
		LikeCount: count,
		UserLiked: liked,
	}, nil
}
