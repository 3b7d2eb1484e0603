package service

import (
	"errors"

	"gorm.io/gorm"

	"github.com/sunsetmemories/backend/internal/common"
	"github.com/sunsetmemories/backend/internal/domain"
	"github.com/sunsetmemories/backend/internal/repository"
)

// PublishOrderService handles print and e-book orders
type PublishOrderService struct {
	orderRepo  repository.PublishOrderRepository
	memoirRepo repository.MemoirRepository
}

// NewPublishOrderService creates a new PublishOrderService
func NewPublishOrderService(orderRepo repository.PublishOrderRepository, memoirRepo repository.MemoirRepository) *PublishOrderService {
	return &PublishOrderService{
		orderRepo:  orderRepo,
		memoirRepo: memoirRepo,
	}
}

// CreatePublishOrderInput holds fields for placing an order
type CreatePublishOrderInput struct {
	MemoirID      uint64
	Format        string
	Copies        int
	RecipientName string
	Phone         string
	Address       string
}

// Create places an order for one of the caller's memoirs. Physical
// formats require full shipping details.
func (s *PublishOrderService) Create(userID uint64, input CreatePublishOrderInput) (*domain.PublishOrder, error) {
	if !domain.ValidFormat(input.Format) {
		return nil, common.ErrInvalidInput
	}
	if input.Copies < 1 {
		input.Copies = 1
	}
	if domain.PhysicalFormat(input.Format) {
		if input.RecipientName == "" || input.Phone == "" || input.Address == "" {
			return nil, common.ErrInvalidInput
		}
	}

	if _, err := s.memoirRepo.FindOwnedByID(input.MemoirID, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrMemoirNotFound
		}
		return nil, err
	}

	order := &domain.PublishOrder{
		UserID:        userID,
		MemoirID:      input.MemoirID,
		Format:        input.Format,
		Copies:        input.Copies,
		RecipientName: input.RecipientName,
		Phone:         input.Phone,
		Address:       input.Address,
		Status:        domain.OrderPending,
	}
	if err := s.orderRepo.Create(order); err != nil {
		return nil, err
	}
	return order, nil
}

// Get returns the caller's own order
func (s *PublishOrderService) Get(userID, orderID uint64) (*domain.PublishOrder, error) {
	order, err := s.orderRepo.FindOwnedByID(orderID, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, common.ErrOrderNotFound
	}
	return order, err
}

// ListMine lists the caller's orders, newest first
func (s *PublishOrderService) ListMine(userID uint64, page, limit int) ([]*domain.PublishOrder, int64, error) {
	return s.orderRepo.FindByOwner(userID, page, limit)
}

// Cancel cancels an order that has not entered production
func (s *PublishOrderService) Cancel(userID, orderID uint64) (*domain.PublishOrder, error) {
	order, err := s.orderRepo.FindOwnedByID(orderID, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, common.ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	if !order.Cancellable() {
		return nil, common.ErrInvalidTransition
	}

	order.Status = domain.OrderCancelled
	if err := s.orderRepo.Update(order); err != nil {
		return nil, err
	}
	return order, nil
}
