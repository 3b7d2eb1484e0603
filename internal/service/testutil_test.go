package service

import (
	"testing"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/sunsetmemories/backend/internal/domain"
	"github.com/sunsetmemories/backend/internal/migration"
	"github.com/sunsetmemories/backend/pkg/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	logger.InitStructured("test")

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	if err := migration.Run(db); err != nil {
		t.Fatalf("failed to migrate test db: %v", err)
	}
	return db
}

func createTestUser(t *testing.T, db *gorm.DB, phone, nickname string) *domain.User {
	t.Helper()
	hashed, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	user := &domain.User{
		Phone:    phone,
		Password: string(hashed),
		Name:     nickname,
		Nickname: nickname,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

func createTestMemoir(t *testing.T, db *gorm.DB, userID uint64, title string, public bool) *domain.Memoir {
	t.Helper()
	memoir := &domain.Memoir{
		UserID:   userID,
		Title:    title,
		Content:  "once upon a time",
		IsPublic: public,
	}
	if err := db.Create(memoir).Error; err != nil {
		t.Fatalf("failed to create test memoir: %v", err)
	}
	return memoir
}
