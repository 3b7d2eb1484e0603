package repository

import (
	"github.com/sunsetmemories/backend/internal/domain"
	"gorm.io/gorm"
)

// LikeRepository is the like data access layer. Duplicate likes are
// rejected by the unique index on (user_id, memoir_id); callers see
// gorm.ErrDuplicatedKey.
type LikeRepository interface {
	Create(like *domain.Like) error
	Delete(userID, memoirID uint64) error
	Exists(userID, memoirID uint64) (bool, error)
	CountByMemoir(memoirID uint64) (int64, error)
}

type likeRepository struct {
	db *gorm.DB
}

// NewLikeRepository creates a new LikeRepository
func NewLikeRepository(db *gorm.DB) LikeRepository {
	return &likeRepository{db: db}
}

func (r *likeRepository) Create(like *domain.Like) error {
	return r.db.Create(like).Error
}

func (r *likeRepository) Delete(userID, memoirID uint64) error {
	res := r.db.Where("user_id = ? AND memoir_id = ?", userID, memoirID).Delete(&domain.Like{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *likeRepository) Exists(userID, memoirID uint64) (bool, error) {
	var count int64
	err := r.db.Model(&domain.Like{}).
		Where("user_id = ? AND memoir_id = ?", userID, memoirID).
		Count(&count).Error
	return count > 0, err
}

func (r *likeRepository) CountByMemoir(memoirID uint64) (int64, error) {
	var count int64
	err := r.db.Model(&domain.Like{}).Where("memoir_id = ?", memoirID).Count(&count).Error
	return count, err
}
