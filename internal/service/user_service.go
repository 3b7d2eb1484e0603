package service

import (
	"errors"

	"gorm.io/gorm"

	"github.com/sunsetmemories/backend/internal/common"
	"github.com/sunsetmemories/backend/internal/domain"
	"github.com/sunsetmemories/backend/internal/repository"
)

// UserService handles profile reads and updates
type UserService struct {
	userRepo repository.UserRepository
}

// NewUserService creates a new UserService
func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// GetProfile returns the public profile of any user
func (s *UserService) GetProfile(userID uint64) (*domain.UserProfileResponse, error) {
	user, err := s.userRepo.FindByID(userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, common.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return user.ToProfileResponse(), nil
}

// UpdateProfileInput holds updatable profile fields. Nil pointers leave
// the field unchanged.
type UpdateProfileInput struct {
	Name      *string
	Nickname  *string
	AvatarURL *string
}

// UpdateProfile updates the caller's own profile
func (s *UserService) UpdateProfile(userID uint64, input UpdateProfileInput) (*domain.UserResponse, error) {
	user, err := s.userRepo.FindByID(userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, common.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		user.Name = *input.Name
	}
	if input.Nickname != nil {
		user.Nickname = *input.Nickname
	}
	if input.AvatarURL != nil {
		user.AvatarURL = input.AvatarURL
	}
	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}
	return user.ToResponse(), nil
}
