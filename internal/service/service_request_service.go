package service

import (
	"errors"

	"gorm.io/gorm"

	"github.com/sunsetmemories/backend/internal/common"
	"github.com/sunsetmemories/backend/internal/domain"
	"github.com/sunsetmemories/backend/internal/repository"
)

// ServiceRequestService handles human-assistance requests
type ServiceRequestService struct {
	requestRepo repository.ServiceRequestRepository
	memoirRepo  repository.MemoirRepository
}

// NewServiceRequestService creates a new ServiceRequestService
func NewServiceRequestService(requestRepo repository.ServiceRequestRepository, memoirRepo repository.MemoirRepository) *ServiceRequestService {
	return &ServiceRequestService{
		requestRepo: requestRepo,
		memoirRepo:  memoirRepo,
	}
}

// CreateServiceRequestInput holds fields for submitting a request
type CreateServiceRequestInput struct {
	ServiceType string
	Details     string
	MemoirID    *uint64
}

// Create submits a service request. A linked memoir must belong to the caller.
func (s *ServiceRequestService) Create(userID uint64, input CreateServiceRequestInput) (*domain.ServiceRequest, error) {
	if !domain.ValidServiceType(input.ServiceType) {
		return nil, common.ErrInvalidInput
	}

	if input.MemoirID != nil {
		if _, err := s.memoirRepo.FindOwnedByID(*input.MemoirID, userID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, common.ErrMemoirNotFound
			}
			return nil, err
		}
	}

	req := &domain.ServiceRequest{
		UserID:      userID,
		MemoirID:    input.MemoirID,
		ServiceType: input.ServiceType,
		Details:     input.Details,
		Status:      domain.RequestPendingReview,
	}
	if err := s.requestRepo.Create(req); err != nil {
		return nil, err
	}
	return req, nil
}

// Get returns the caller's own request
func (s *ServiceRequestService) Get(userID, requestID uint64) (*domain.ServiceRequest, error) {
	req, err := s.requestRepo.FindOwnedByID(requestID, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, common.ErrRequestNotFound
	}
	return req, err
}

// ListMine lists the caller's requests, newest first
func (s *ServiceRequestService) ListMine(userID uint64, page, limit int) ([]*domain.ServiceRequest, int64, error) {
	return s.requestRepo.FindByOwner(userID, page, limit)
}

// Cancel cancels a request that has not been completed or rejected
func (s *ServiceRequestService) Cancel(userID, requestID uint64) (*domain.ServiceRequest, error) {
	req, err := s.requestRepo.FindOwnedByID(requestID, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, common.ErrRequestNotFound
	}
	if err != nil {
		return nil, err
	}
	if !req.Cancellable() {
		return nil, common.ErrInvalidTransition
	}

	req.Status = domain.RequestCancelled
	if err := s.requestRepo.Update(req); err != nil {
		return nil, err
	}
	return req, nil
}
