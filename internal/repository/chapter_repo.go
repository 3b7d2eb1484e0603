package repository

import (
	"github.com/sunsetmemories/backend/internal/domain"
	"gorm.io/gorm"
)

// ChapterRepository is the chapter data access layer. Chapter lookups are
// always scoped to a memoir id the caller has already resolved through the
// memoir access predicate.
type ChapterRepository interface {
	FindByMemoir(memoirID uint64) ([]*domain.Chapter, error)
	FindByID(memoirID, id uint64) (*domain.Chapter, error)
	Create(chapter *domain.Chapter) error
	Update(chapter *domain.Chapter) error
	Delete(memoirID, id uint64) error
	NextOrderNum(memoirID uint64) (int, error)
	Reorder(memoirID uint64, orderedIDs []uint64) error
}

type chapterRepository struct {
	db *gorm.DB
}

// NewChapterRepository creates a new ChapterRepository
func NewChapterRepository(db *gorm.DB) ChapterRepository {
	return &chapterRepository{db: db}
}

func (r *chapterRepository) FindByMemoir(memoirID uint64) ([]*domain.Chapter, error) {
	var chapters []*domain.Chapter
	err := r.db.Where("memoir_id = ?", memoirID).Order("order_num ASC").Find(&chapters).Error
	return chapters, err
}

func (r *chapterRepository) FindByID(memoirID, id uint64) (*domain.Chapter, error) {
	var chapter domain.Chapter
	err := r.db.Where("id = ? AND memoir_id = ?", id, memoirID).First(&chapter).Error
	return &chapter, err
}

func (r *chapterRepository) Create(chapter *domain.Chapter) error {
	return r.db.Create(chapter).Error
}

func (r *chapterRepository) Update(chapter *domain.Chapter) error {
	return r.db.Save(chapter).Error
}

func (r *chapterRepository) Delete(memoirID, id uint64) error {
	res := r.db.Where("id = ? AND memoir_id = ?", id, memoirID).Delete(&domain.Chapter{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// NextOrderNum returns max(order_num)+1 for the memoir, 0 when empty
func (r *chapterRepository) NextOrderNum(memoirID uint64) (int, error) {
	var max *int
	err := r.db.Model(&domain.Chapter{}).
		Where("memoir_id = ?", memoirID).
		Select("MAX(order_num)").
		Scan(&max).Error
	if err != nil {
		return 0, err
	}
	if max == nil {
		return 0, nil
	}
	return *max + 1, nil
}

// Reorder rewrites order_num to match the given id order. All ids must
// belong to the memoir; the whole update is transactional.
func (r *chapterRepository) Reorder(memoirID uint64, orderedIDs []uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&domain.Chapter{}).
			Where("memoir_id = ? AND id IN ?", memoirID, orderedIDs).
			Count(&count).Error; err != nil {
			return err
		}
		if count != int64(len(orderedIDs)) {
			return gorm.ErrRecordNotFound
		}
		for i, id := range orderedIDs {
			if err := tx.Model(&domain.Chapter{}).
				Where("id = ? AND memoir_id = ?", id, memoirID).
				UpdateColumn("order_num", i).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
