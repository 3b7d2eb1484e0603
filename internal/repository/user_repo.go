package repository

import (
	"github.com/sunsetmemories/backend/internal/domain"
	"gorm.io/gorm"
)

// UserRepository is the user data access layer
type UserRepository interface {
	FindByID(id uint64) (*domain.User, error)
	FindByPhone(phone string) (*domain.User, error)
	Create(user *domain.User) error
	Update(user *domain.User) error
	FindNicksByIDs(ids []uint64) (map[uint64]string, error)
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) FindByID(id uint64) (*domain.User, error) {
	var user domain.User
	err := r.db.Where("id = ?", id).First(&user).Error
	return &user, err
}

func (r *userRepository) FindByPhone(phone string) (*domain.User, error) {
	var user domain.User
	err := r.db.Where("phone = ?", phone).First(&user).Error
	return &user, err
}

func (r *userRepository) Create(user *domain.User) error {
	return r.db.Create(user).Error
}

func (r *userRepository) Update(user *domain.User) error {
	return r.db.Save(user).Error
}

// FindNicksByIDs batch-loads nicknames for the given user ids
func (r *userRepository) FindNicksByIDs(ids []uint64) (map[uint64]string, error) {
	if len(ids) == 0 {
		return map[uint64]string{}, nil
	}

	type row struct {
		ID       uint64 `gorm:"column:id"`
		Nickname string `gorm:"column:nickname"`
	}
	var rows []row
	err := r.db.Table("users").
		Select("id, nickname").
		Where("id IN ?", ids).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	m := make(map[uint64]string, len(rows))
	for _, u := range rows {
		m[u.ID] = u.Nickname
	}
	return m, nil
}
