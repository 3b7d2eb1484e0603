package repository

import (
	"github.com/sunsetmemories/backend/internal/domain"
	"gorm.io/gorm"
)

// CollaborationRepository is the collaboration data access layer.
// Transaction runs a check-then-write sequence atomically; the unique
// index on (memoir_id, collaborator_id) backstops concurrent inviters,
// and UpdateStatusIfPending guards the single pending transition.
type CollaborationRepository interface {
	FindByID(id uint64) (*domain.Collaboration, error)
	FindByMemoirAndCollaborator(memoirID, collaboratorID uint64) (*domain.Collaboration, error)
	FindByMemoir(memoirID uint64) ([]*domain.Collaboration, error)
	FindByCollaborator(collaboratorID uint64, page, limit int) ([]*domain.Collaboration, int64, error)
	Create(collab *domain.Collaboration) error
	Update(collab *domain.Collaboration) error
	UpdateStatusIfPending(id uint64, status string) error
	Delete(id uint64) error
	Transaction(fn func(CollaborationRepository) error) error
}

type collaborationRepository struct {
	db *gorm.DB
}

// NewCollaborationRepository creates a new CollaborationRepository
func NewCollaborationRepository(db *gorm.DB) CollaborationRepository {
	return &collaborationRepository{db: db}
}

func (r *collaborationRepository) FindByID(id uint64) (*domain.Collaboration, error) {
	var collab domain.Collaboration
	err := r.db.Where("id = ?", id).First(&collab).Error
	return &collab, err
}

func (r *collaborationRepository) FindByMemoirAndCollaborator(memoirID, collaboratorID uint64) (*domain.Collaboration, error) {
	var collab domain.Collaboration
	err := r.db.Where("memoir_id = ? AND collaborator_id = ?", memoirID, collaboratorID).First(&collab).Error
	return &collab, err
}

func (r *collaborationRepository) FindByMemoir(memoirID uint64) ([]*domain.Collaboration, error) {
	var collabs []*domain.Collaboration
	err := r.db.Where("memoir_id = ?", memoirID).Order("id ASC").Find(&collabs).Error
	return collabs, err
}

func (r *collaborationRepository) FindByCollaborator(collaboratorID uint64, page, limit int) ([]*domain.Collaboration, int64, error) {
	var total int64
	query := r.db.Model(&domain.Collaboration{}).Where("collaborator_id = ?", collaboratorID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var collabs []*domain.Collaboration
	offset := (page - 1) * limit
	err := query.Order("id DESC").Offset(offset).Limit(limit).Find(&collabs).Error
	return collabs, total, err
}

func (r *collaborationRepository) Create(collab *domain.Collaboration) error {
	return r.db.Create(collab).Error
}

func (r *collaborationRepository) Update(collab *domain.Collaboration) error {
	return r.db.Save(collab).Error
}

// UpdateStatusIfPending transitions the row only while it is still
// pending. The WHERE guard makes concurrent responders first-writer-wins;
// a lost race surfaces as gorm.ErrRecordNotFound.
func (r *collaborationRepository) UpdateStatusIfPending(id uint64, status string) error {
	res := r.db.Model(&domain.Collaboration{}).
		Where("id = ? AND status = ?", id, domain.CollabPending).
		Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *collaborationRepository) Delete(id uint64) error {
	return r.db.Delete(&domain.Collaboration{}, id).Error
}

func (r *collaborationRepository) Transaction(fn func(CollaborationRepository) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return fn(&collaborationRepository{db: tx})
	})
}
