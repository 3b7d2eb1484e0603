package repository

import (
	"github.com/sunsetmemories/backend/internal/domain"
	"gorm.io/gorm"
)

// CommentRepository is the comment data access layer
type CommentRepository interface {
	Create(comment *domain.Comment) error
	FindByMemoir(memoirID uint64, page, limit int) ([]*domain.CommentResponse, int64, error)
	FindOwnedByID(id, userID uint64) (*domain.Comment, error)
	Delete(id uint64) error
}

type commentRepository struct {
	db *gorm.DB
}

// NewCommentRepository creates a new CommentRepository
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) Create(comment *domain.Comment) error {
	return r.db.Create(comment).Error
}

func (r *commentRepository) FindByMemoir(memoirID uint64, page, limit int) ([]*domain.CommentResponse, int64, error) {
	var total int64
	if err := r.db.Model(&domain.Comment{}).
		Where("memoir_id = ?", memoirID).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var comments []*domain.CommentResponse
	offset := (page - 1) * limit
	err := r.db.Model(&domain.Comment{}).
		Select(`comments.id, comments.memoir_id, comments.user_id, comments.content,
			comments.created_at, users.nickname AS author_nickname`).
		Joins("LEFT JOIN users ON users.id = comments.user_id").
		Where("comments.memoir_id = ?", memoirID).
		Order("comments.id DESC").
		Offset(offset).Limit(limit).
		Scan(&comments).Error
	return comments, total, err
}

func (r *commentRepository) FindOwnedByID(id, userID uint64) (*domain.Comment, error) {
	var comment domain.Comment
	err := r.db.Where("id = ? AND user_id = ?", id, userID).First(&comment).Error
	return &comment, err
}

func (r *commentRepository) Delete(id uint64) error {
	return r.db.Delete(&domain.Comment{}, id).Error
}
