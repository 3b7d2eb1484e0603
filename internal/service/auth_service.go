package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/sunsetmemories/backend/internal/common"
	"github.com/sunsetmemories/backend/internal/domain"
	"github.com/sunsetmemories/backend/internal/repository"
	"github.com/sunsetmemories/backend/internal/sms"
	"github.com/sunsetmemories/backend/pkg/jwt"
	pkglogger "github.com/sunsetmemories/backend/pkg/logger"
)

// AuthService handles registration, password login and SMS-code login
type AuthService struct {
	userRepo   repository.UserRepository
	jwtManager *jwt.Manager
	codeStore  *sms.CodeStore
	sender     sms.Sender
	redis      *redis.Client // refresh-token denylist; nil disables revocation
	devCode    string        // accepted for any phone when non-empty; dev only
}

// NewAuthService creates a new AuthService. codeStore and redisClient may be
// nil when Redis is unavailable; SMS-code login and logout revocation are
// then disabled.
func NewAuthService(userRepo repository.UserRepository, jwtManager *jwt.Manager, codeStore *sms.CodeStore, sender sms.Sender, redisClient *redis.Client, devCode string) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		jwtManager: jwtManager,
		codeStore:  codeStore,
		sender:     sender,
		redis:      redisClient,
		devCode:    devCode,
	}
}

// LoginResponse carries the token pair and the authenticated user
type LoginResponse struct {
	User         *domain.UserResponse `json:"user"`
	AccessToken  string               `json:"access_token"`
	RefreshToken string               `json:"refresh_token"`
}

// Register creates a new account. Duplicate phone numbers are rejected.
func (s *AuthService) Register(phone, password, name, nickname string) (*domain.UserResponse, error) {
	if _, err := s.userRepo.FindByPhone(phone); err == nil {
		return nil, common.ErrUserAlreadyExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	if nickname == "" {
		nickname = name
	}
	user := &domain.User{
		Phone:    phone,
		Password: string(hashed),
		Name:     name,
		Nickname: nickname,
	}
	if err := s.userRepo.Create(user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, common.ErrUserAlreadyExists
		}
		return nil, err
	}
	return user.ToResponse(), nil
}

// LoginPassword authenticates with phone and password
func (s *AuthService) LoginPassword(phone, password string) (*LoginResponse, error) {
	user, err := s.userRepo.FindByPhone(phone)
	if err != nil {
		return nil, common.ErrInvalidCredentials
	}
	if user.Password == "" {
		return nil, common.ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return nil, common.ErrInvalidCredentials
	}
	return s.issueTokens(user)
}

// RequestCode issues an SMS verification code for the phone.
// Returns the code TTL in seconds.
func (s *AuthService) RequestCode(ctx context.Context, phone string) (int, error) {
	if s.codeStore == nil {
		return 0, fmt.Errorf("sms login unavailable: %w", common.ErrInvalidInput)
	}
	code, ttl, err := s.codeStore.Issue(ctx, phone)
	if err != nil {
		return 0, err
	}
	if err := s.sender.Send(ctx, phone, code); err != nil {
		return 0, err
	}
	return ttl, nil
}

// LoginWithCode verifies an SMS code and logs the user in, creating a
// minimal account when the phone is unknown.
func (s *AuthService) LoginWithCode(ctx context.Context, phone, code string) (*LoginResponse, error) {
	if !s.verifyCode(ctx, phone, code) {
		return nil, common.ErrInvalidCredentials
	}

	user, err := s.userRepo.FindByPhone(phone)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		user = &domain.User{
			Phone:    phone,
			Nickname: "user_" + phone[len(phone)-4:],
		}
		if createErr := s.userRepo.Create(user); createErr != nil {
			return nil, createErr
		}
		pkglogger.GetLogger().Info().
			Str("phone", sms.MaskPhone(phone)).
			Uint64("user_id", user.ID).
			Msg("auto-registered user via sms login")
	} else if err != nil {
		return nil, err
	}
	return s.issueTokens(user)
}

func (s *AuthService) verifyCode(ctx context.Context, phone, code string) bool {
	if s.devCode != "" && code == s.devCode {
		return true
	}
	if s.codeStore == nil {
		return false
	}
	return s.codeStore.Verify(ctx, phone, code) == nil
}

// Refresh validates a refresh token and issues a new token pair
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*LoginResponse, error) {
	claims, err := s.jwtManager.VerifyToken(refreshToken)
	if err != nil || claims.Type != "refresh" {
		return nil, common.ErrUnauthorized
	}
	if s.isRevoked(ctx, refreshToken) {
		return nil, common.ErrUnauthorized
	}

	userID, err := strconv.ParseUint(claims.UserID, 10, 64)
	if err != nil {
		return nil, common.ErrUnauthorized
	}
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return nil, common.ErrUnauthorized
	}
	return s.issueTokens(user)
}

// Logout revokes the refresh token so it cannot mint new token pairs.
// Access tokens stay valid until they expire. Invalid tokens are ignored.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	claims, err := s.jwtManager.VerifyToken(refreshToken)
	if err != nil || claims.Type != "refresh" {
		return nil
	}
	if s.redis == nil || claims.ExpiresAt == nil {
		return nil
	}
	ttl := time.Until(claims.ExpiresAt.Time)
	if ttl <= 0 {
		return nil
	}
	return s.redis.Set(ctx, revokedKey(refreshToken), "1", ttl).Err()
}

func (s *AuthService) isRevoked(ctx context.Context, refreshToken string) bool {
	if s.redis == nil {
		return false
	}
	n, err := s.redis.Exists(ctx, revokedKey(refreshToken)).Result()
	if err != nil {
		pkglogger.GetLogger().Warn().Err(err).Msg("revocation check failed, allowing refresh")
		return false
	}
	return n > 0
}

func revokedKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return "auth:revoked:" + hex.EncodeToString(sum[:])
}

// GetCurrentUser returns the user for the given id
func (s *AuthService) GetCurrentUser(userID uint64) (*domain.User, error) {
	user, err := s.userRepo.FindByID(userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, common.ErrUserNotFound
	}
	return user, err
}

func (s *AuthService) issueTokens(user *domain.User) (*LoginResponse, error) {
	userIDStr := strconv.FormatUint(user.ID, 10)
	accessToken, err := s.jwtManager.GenerateAccessToken(userIDStr, user.Phone, user.Nickname)
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}
	refreshToken, err := s.jwtManager.GenerateRefreshToken(userIDStr)
	if err != nil {
		return nil, fmt.Errorf("generate refresh token: %w", err)
	}
	return &LoginResponse{
		User:         user.ToResponse(),
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}
