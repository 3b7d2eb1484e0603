package repository

import (
	"github.com/sunsetmemories/backend/internal/domain"
	"gorm.io/gorm"
)

// RecordingRepository is the uploaded recording data access layer
type RecordingRepository interface {
	Create(rec *domain.Recording) error
	FindOwnedByID(id, userID uint64) (*domain.Recording, error)
	FindByOwner(userID uint64, page, limit int) ([]*domain.Recording, int64, error)
	Delete(id uint64) error
}

type recordingRepository struct {
	db *gorm.DB
}

// NewRecordingRepository creates a new RecordingRepository
func NewRecordingRepository(db *gorm.DB) RecordingRepository {
	return &recordingRepository{db: db}
}

func (r *recordingRepository) Create(rec *domain.Recording) error {
	return r.db.Create(rec).Error
}

func (r *recordingRepository) FindOwnedByID(id, userID uint64) (*domain.Recording, error) {
	var rec domain.Recording
	err := r.db.Where("id = ? AND user_id = ?", id, userID).First(&rec).Error
	return &rec, err
}

func (r *recordingRepository) FindByOwner(userID uint64, page, limit int) ([]*domain.Recording, int64, error) {
	var total int64
	query := r.db.Model(&domain.Recording{}).Where("user_id = ?", userID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var recs []*domain.Recording
	offset := (page - 1) * limit
	err := query.Order("id DESC").Offset(offset).Limit(limit).Find(&recs).Error
	return recs, total, err
}

func (r *recordingRepository) Delete(id uint64) error {
	return r.db.Delete(&domain.Recording{}, id).Error
}
