package repository

import (
	"github.com/sunsetmemories/backend/internal/domain"
	"gorm.io/gorm"
)

// MemoirRepository is the memoir data access layer.
//
// Access-scoped lookups combine the existence check and the access check
// into a single query predicate, so a memoir that exists but belongs to
// someone else is indistinguishable from one that does not exist.
type MemoirRepository interface {
	FindOwnedByID(id, userID uint64) (*domain.Memoir, error)
	FindReadableByID(id, userID uint64) (*domain.Memoir, error)
	FindWritableByID(id, userID uint64) (*domain.Memoir, error)
	FindByOwner(userID uint64, page, limit int) ([]*domain.MemoirSummary, int64, error)
	FindSharedWith(userID uint64, page, limit int) ([]*domain.MemoirSummary, int64, error)
	Create(memoir *domain.Memoir) error
	Update(memoir *domain.Memoir) error
	Delete(id uint64) error

	FindPublic(page, limit int) ([]*domain.MemoirSummary, int64, error)
	FindPublicByID(id uint64) (*domain.Memoir, error)
	FindPublicSummariesByIDs(ids []uint64) ([]*domain.MemoirSummary, error)
	FindTitlesByIDs(ids []uint64) (map[uint64]string, error)
	SearchPublic(query string, page, limit int) ([]*domain.MemoirSummary, int64, error)
	IncrementViewCount(id uint64) error
}

type memoirRepository struct {
	db *gorm.DB
}

// NewMemoirRepository creates a new MemoirRepository
func NewMemoirRepository(db *gorm.DB) MemoirRepository {
	return &memoirRepository{db: db}
}

func (r *memoirRepository) FindOwnedByID(id, userID uint64) (*domain.Memoir, error) {
	var memoir domain.Memoir
	err := r.db.Where("id = ? AND user_id = ?", id, userID).First(&memoir).Error
	return &memoir, err
}

// FindReadableByID matches the owner or any accepted collaborator
func (r *memoirRepository) FindReadableByID(id, userID uint64) (*domain.Memoir, error) {
	var memoir domain.Memoir
	err := r.db.
		Where("id = ?", id).
		Where(
			r.db.Where("user_id = ?", userID).
				Or("id IN (?)", r.collabSubquery(userID, domain.RoleViewer, domain.RoleEditor)),
		).
		First(&memoir).Error
	return &memoir, err
}

// FindWritableByID matches the owner or an accepted editor
func (r *memoirRepository) FindWritableByID(id, userID uint64) (*domain.Memoir, error) {
	var memoir domain.Memoir
	err := r.db.
		Where("id = ?", id).
		Where(
			r.db.Where("user_id = ?", userID).
				Or("id IN (?)", r.collabSubquery(userID, domain.RoleEditor)),
		).
		First(&memoir).Error
	return &memoir, err
}

func (r *memoirRepository) collabSubquery(userID uint64, roles ...string) *gorm.DB {
	return r.db.Model(&domain.Collaboration{}).
		Select("memoir_id").
		Where("collaborator_id = ? AND status = ? AND role IN ?", userID, domain.CollabAccepted, roles)
}

const summaryColumns = `memoirs.id, memoirs.title, memoirs.is_public, memoirs.view_count,
	memoirs.created_at, memoirs.updated_at,
	memoirs.user_id AS author_id, users.nickname AS author_nickname,
	(SELECT COUNT(*) FROM chapters WHERE chapters.memoir_id = memoirs.id) AS chapter_count,
	(SELECT COUNT(*) FROM likes WHERE likes.memoir_id = memoirs.id) AS like_count,
	(SELECT COUNT(*) FROM comments WHERE comments.memoir_id = memoirs.id) AS comment_count`

func (r *memoirRepository) summaryQuery() *gorm.DB {
	return r.db.Model(&domain.Memoir{}).
		Select(summaryColumns).
		Joins("LEFT JOIN users ON users.id = memoirs.user_id")
}

func (r *memoirRepository) pageSummaries(query *gorm.DB, page, limit int) ([]*domain.MemoirSummary, int64, error) {
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var summaries []*domain.MemoirSummary
	offset := (page - 1) * limit
	err := query.
		Select(summaryColumns).
		Joins("LEFT JOIN users ON users.id = memoirs.user_id").
		Order("memoirs.id DESC").
		Offset(offset).Limit(limit).
		Scan(&summaries).Error
	return summaries, total, err
}

func (r *memoirRepository) FindByOwner(userID uint64, page, limit int) ([]*domain.MemoirSummary, int64, error) {
	query := r.db.Model(&domain.Memoir{}).Where("memoirs.user_id = ?", userID)
	return r.pageSummaries(query, page, limit)
}

// FindSharedWith lists memoirs the user can access through an accepted collaboration
func (r *memoirRepository) FindSharedWith(userID uint64, page, limit int) ([]*domain.MemoirSummary, int64, error) {
	query := r.db.Model(&domain.Memoir{}).
		Where("memoirs.id IN (?)", r.collabSubquery(userID, domain.RoleViewer, domain.RoleEditor))
	return r.pageSummaries(query, page, limit)
}

func (r *memoirRepository) Create(memoir *domain.Memoir) error {
	return r.db.Create(memoir).Error
}

func (r *memoirRepository) Update(memoir *domain.Memoir) error {
	return r.db.Save(memoir).Error
}

// Delete removes the memoir and everything hanging off it
func (r *memoirRepository) Delete(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("memoir_id = ?", id).Delete(&domain.Chapter{}).Error; err != nil {
			return err
		}
		if err := tx.Where("memoir_id = ?", id).Delete(&domain.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("memoir_id = ?", id).Delete(&domain.Like{}).Error; err != nil {
			return err
		}
		if err := tx.Where("memoir_id = ?", id).Delete(&domain.Collaboration{}).Error; err != nil {
			return err
		}
		return tx.Delete(&domain.Memoir{}, id).Error
	})
}

func (r *memoirRepository) FindPublic(page, limit int) ([]*domain.MemoirSummary, int64, error) {
	query := r.db.Model(&domain.Memoir{}).Where("memoirs.is_public = ?", true)
	return r.pageSummaries(query, page, limit)
}

func (r *memoirRepository) FindPublicByID(id uint64) (*domain.Memoir, error) {
	var memoir domain.Memoir
	err := r.db.
		Preload("Chapters", func(db *gorm.DB) *gorm.DB {
			return db.Order("order_num ASC")
		}).
		Where("id = ? AND is_public = ?", id, true).
		First(&memoir).Error
	return &memoir, err
}

// FindPublicSummariesByIDs loads summaries for the given memoir ids,
// preserving the input order (used for search results)
func (r *memoirRepository) FindPublicSummariesByIDs(ids []uint64) ([]*domain.MemoirSummary, error) {
	if len(ids) == 0 {
		return []*domain.MemoirSummary{}, nil
	}

	var summaries []*domain.MemoirSummary
	err := r.summaryQuery().
		Where("memoirs.is_public = ? AND memoirs.id IN ?", true, ids).
		Scan(&summaries).Error
	if err != nil {
		return nil, err
	}

	byID := make(map[uint64]*domain.MemoirSummary, len(summaries))
	for _, s := range summaries {
		byID[s.ID] = s
	}
	ordered := make([]*domain.MemoirSummary, 0, len(summaries))
	for _, id := range ids {
		if s, ok := byID[id]; ok {
			ordered = append(ordered, s)
		}
	}
	return ordered, nil
}

// FindTitlesByIDs batch-loads memoir titles regardless of visibility.
// Used to label invitations, which already expose the title to the invitee.
func (r *memoirRepository) FindTitlesByIDs(ids []uint64) (map[uint64]string, error) {
	if len(ids) == 0 {
		return map[uint64]string{}, nil
	}

	type row struct {
		ID    uint64 `gorm:"column:id"`
		Title string `gorm:"column:title"`
	}
	var rows []row
	err := r.db.Table("memoirs").Select("id, title").Where("id IN ?", ids).Find(&rows).Error
	if err != nil {
		return nil, err
	}

	m := make(map[uint64]string, len(rows))
	for _, t := range rows {
		m[t.ID] = t.Title
	}
	return m, nil
}

// SearchPublic is the LIKE fallback used when Elasticsearch is not configured
func (r *memoirRepository) SearchPublic(q string, page, limit int) ([]*domain.MemoirSummary, int64, error) {
	like := "%" + q + "%"
	query := r.db.Model(&domain.Memoir{}).
		Where("memoirs.is_public = ?", true).
		Where("memoirs.title LIKE ? OR memoirs.content LIKE ?", like, like)
	return r.pageSummaries(query, page, limit)
}

func (r *memoirRepository) IncrementViewCount(id uint64) error {
	return r.db.Model(&domain.Memoir{}).Where("id = ?", id).
		UpdateColumn("view_count", gorm.Expr("view_count + 1")).Error
}
