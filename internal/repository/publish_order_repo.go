package repository

import (
	"github.com/sunsetmemories/backend/internal/domain"
	"gorm.io/gorm"
)

// PublishOrderRepository is the publish order data access layer
type PublishOrderRepository interface {
	Create(order *domain.PublishOrder) error
	FindOwnedByID(id, userID uint64) (*domain.PublishOrder, error)
	FindByOwner(userID uint64, page, limit int) ([]*domain.PublishOrder, int64, error)
	Update(order *domain.PublishOrder) error
}

type publishOrderRepository struct {
	db *gorm.DB
}

// NewPublishOrderRepository creates a new PublishOrderRepository
func NewPublishOrderRepository(db *gorm.DB) PublishOrderRepository {
	return &publishOrderRepository{db: db}
}

func (r *publishOrderRepository) Create(order *domain.PublishOrder) error {
	return r.db.Create(order).Error
}

func (r *publishOrderRepository) FindOwnedByID(id, userID uint64) (*domain.PublishOrder, error) {
	var order domain.PublishOrder
	err := r.db.Where("id = ? AND user_id = ?", id, userID).First(&order).Error
	return &order, err
}

func (r *publishOrderRepository) FindByOwner(userID uint64, page, limit int) ([]*domain.PublishOrder, int64, error) {
	var total int64
	query := r.db.Model(&domain.PublishOrder{}).Where("user_id = ?", userID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var orders []*domain.PublishOrder
	offset := (page - 1) * limit
	err := query.Order("id DESC").Offset(offset).Limit(limit).Find(&orders).Error
	return orders, total, err
}

func (r *publishOrderRepository) Update(order *domain.PublishOrder) error {
	return r.db.Save(order).Error
}
