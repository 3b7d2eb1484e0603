package sms

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*CodeStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewCodeStore(client), mr
}

func TestIssueAndVerify(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	code, ttl, err := store.Issue(ctx, "13800138000")
	require.NoError(t, err)
	assert.Len(t, code, 6)
	assert.Equal(t, 300, ttl)

	require.NoError(t, store.Verify(ctx, "13800138000", code))

	// Code is consumed on success
	err = store.Verify(ctx, "13800138000", code)
	assert.ErrorIs(t, err, ErrCodeExpired)
}

func TestIssue_ResendCooldown(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	_, _, err := store.Issue(ctx, "13800138000")
	require.NoError(t, err)

	_, _, err = store.Issue(ctx, "13800138000")
	assert.ErrorIs(t, err, ErrSendRateLimited)

	// A different phone is unaffected
	_, _, err = store.Issue(ctx, "13900139000")
	require.NoError(t, err)

	// After the cooldown a new code can be issued
	mr.FastForward(store.resendAfter)
	_, _, err = store.Issue(ctx, "13800138000")
	require.NoError(t, err)
}

func TestVerify_WrongCode(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	code, _, err := store.Issue(ctx, "13800138000")
	require.NoError(t, err)

	err = store.Verify(ctx, "13800138000", "000000")
	assert.ErrorIs(t, err, ErrCodeInvalid)

	// The right code still works after a failed attempt
	require.NoError(t, store.Verify(ctx, "13800138000", code))
}

func TestVerify_AttemptsExhausted(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	code, _, err := store.Issue(ctx, "13800138000")
	require.NoError(t, err)

	for i := 0; i < store.maxAttempts; i++ {
		err = store.Verify(ctx, "13800138000", "999999")
		assert.ErrorIs(t, err, ErrCodeInvalid)
	}

	// Entry dropped after max attempts, even with the right code
	err = store.Verify(ctx, "13800138000", code)
	assert.ErrorIs(t, err, ErrCodeExpired)
}

func TestVerify_Expired(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	code, _, err := store.Issue(ctx, "13800138000")
	require.NoError(t, err)

	mr.FastForward(store.codeTTL + 2*time.Minute)

	err = store.Verify(ctx, "13800138000", code)
	assert.ErrorIs(t, err, ErrCodeExpired)
}

func TestMaskPhone(t *testing.T) {
	assert.Equal(t, "138****8000", MaskPhone("13800138000"))
	assert.Equal(t, "***", MaskPhone("123"))
}
