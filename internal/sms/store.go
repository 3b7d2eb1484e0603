package sms

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrSendRateLimited is returned when a code was requested too recently
	ErrSendRateLimited = errors.New("too many verification code requests")
	// ErrCodeInvalid is returned for a wrong code
	ErrCodeInvalid = errors.New("incorrect verification code")
	// ErrCodeExpired is returned when no live code exists for the phone
	ErrCodeExpired = errors.New("verification code expired")
)

// CodeStore issues and verifies SMS login codes. Codes are stored
// bcrypt-hashed in Redis with a TTL; each phone gets one live code at a
// time, a resend cooldown and a bounded number of verify attempts.
type CodeStore struct {
	client      *redis.Client
	keyPrefix   string
	codeTTL     time.Duration
	resendAfter time.Duration
	maxAttempts int
}

type codeEntry struct {
	CodeHash  string    `json:"code_hash"`
	ExpiresAt time.Time `json:"expires_at"`
	Attempts  int       `json:"attempts"`
}

// NewCodeStore creates a CodeStore on the given Redis client
func NewCodeStore(client *redis.Client) *CodeStore {
	return &CodeStore{
		client:      client,
		keyPrefix:   "sunset:auth:code",
		codeTTL:     5 * time.Minute,
		resendAfter: time.Minute,
		maxAttempts: 5,
	}
}

// Issue generates a 6-digit code for the phone and stores its hash.
// Returns the plain code for delivery and the TTL in seconds.
func (s *CodeStore) Issue(ctx context.Context, phone string) (string, int, error) {
	resendKey := s.resendKey(phone)
	allowed, err := s.client.SetNX(ctx, resendKey, "1", s.resendAfter).Result()
	if err != nil {
		return "", 0, err
	}
	if !allowed {
		return "", 0, ErrSendRateLimited
	}

	code, err := generateNumericCode(6)
	if err != nil {
		_ = s.client.Del(ctx, resendKey).Err()
		return "", 0, fmt.Errorf("generate code: %w", err)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		_ = s.client.Del(ctx, resendKey).Err()
		return "", 0, fmt.Errorf("hash code: %w", err)
	}

	entry := codeEntry{
		CodeHash:  string(hash),
		ExpiresAt: time.Now().UTC().Add(s.codeTTL),
	}
	raw, err := json.Marshal(entry)
	if err != nil {
		_ = s.client.Del(ctx, resendKey).Err()
		return "", 0, fmt.Errorf("marshal code entry: %w", err)
	}
	if err := s.client.Set(ctx, s.codeKey(phone), raw, s.codeTTL+time.Minute).Err(); err != nil {
		_ = s.client.Del(ctx, resendKey).Err()
		return "", 0, err
	}
	return code, int(s.codeTTL.Seconds()), nil
}

// Verify checks the code for the phone. The entry is consumed on success
// and after too many failed attempts.
func (s *CodeStore) Verify(ctx context.Context, phone, code string) error {
	code = strings.TrimSpace(code)
	if code == "" {
		return ErrCodeInvalid
	}

	key := s.codeKey(phone)
	raw, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return ErrCodeExpired
	}
	if err != nil {
		return err
	}

	var entry codeEntry
	if err := json.Unmarshal(raw, &entry); err != nil {
		return fmt.Errorf("unmarshal code entry: %w", err)
	}
	if time.Now().UTC().After(entry.ExpiresAt) {
		_ = s.client.Del(ctx, key).Err()
		return ErrCodeExpired
	}
	if entry.Attempts >= s.maxAttempts {
		_ = s.client.Del(ctx, key).Err()
		return ErrCodeExpired
	}

	if bcrypt.CompareHashAndPassword([]byte(entry.CodeHash), []byte(code)) != nil {
		entry.Attempts++
		if entry.Attempts >= s.maxAttempts {
			_ = s.client.Del(ctx, key).Err()
		} else if updated, marshalErr := json.Marshal(entry); marshalErr == nil {
			ttl, ttlErr := s.client.TTL(ctx, key).Result()
			if ttlErr == nil && ttl > 0 {
				_ = s.client.Set(ctx, key, updated, ttl).Err()
			}
		}
		return ErrCodeInvalid
	}

	return s.client.Del(ctx, key).Err()
}

func (s *CodeStore) codeKey(phone string) string {
	return fmt.Sprintf("%s:phone:%s", s.keyPrefix, phone)
}

func (s *CodeStore) resendKey(phone string) string {
	return fmt.Sprintf("%s:resend:%s", s.keyPrefix, phone)
}

func generateNumericCode(length int) (string, error) {
	var b strings.Builder
	b.Grow(length)
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", err
		}
		b.WriteByte(byte('0' + n.Int64()))
	}
	return b.String(), nil
}
