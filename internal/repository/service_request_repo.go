package repository

import (
	"github.com/sunsetmemories/backend/internal/domain"
	"gorm.io/gorm"
)

// ServiceRequestRepository is the service request data access layer
type ServiceRequestRepository interface {
	Create(req *domain.ServiceRequest) error
	FindOwnedByID(id, userID uint64) (*domain.ServiceRequest, error)
	FindByOwner(userID uint64, page, limit int) ([]*domain.ServiceRequest, int64, error)
	Update(req *domain.ServiceRequest) error
}

type serviceRequestRepository struct {
	db *gorm.DB
}

// NewServiceRequestRepository creates a new ServiceRequestRepository
func NewServiceRequestRepository(db *gorm.DB) ServiceRequestRepository {
	return &serviceRequestRepository{db: db}
}

func (r *serviceRequestRepository) Create(req *domain.ServiceRequest) error {
	return r.db.Create(req).Error
}

func (r *serviceRequestRepository) FindOwnedByID(id, userID uint64) (*domain.ServiceRequest, error) {
	var req domain.ServiceRequest
	err := r.db.Where("id = ? AND user_id = ?", id, userID).First(&req).Error
	return &req, err
}

func (r *serviceRequestRepository) FindByOwner(userID uint64, page, limit int) ([]*domain.ServiceRequest, int64, error) {
	var total int64
	query := r.db.Model(&domain.ServiceRequest{}).Where("user_id = ?", userID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var reqs []*domain.ServiceRequest
	offset := (page - 1) * limit
	err := query.Order("id DESC").Offset(offset).Limit(limit).Find(&reqs).Error
	return reqs, total, err
}

func (r *serviceRequestRepository) Update(req *domain.ServiceRequest) error {
	return r.db.Save(req).Error
}
