package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/sunsetmemories/backend/internal/common"
	"github.com/sunsetmemories/backend/internal/domain"
	"github.com/sunsetmemories/backend/internal/repository"
)

func setupCommunityService(t *testing.T) (*CommunityService, *gorm.DB) {
	t.Helper()
	db := setupTestDB(t)
	memoirRepo := repository.NewMemoirRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	likeRepo := repository.NewLikeRepository(db)
	return NewCommunityService(memoirRepo, commentRepo, likeRepo, nil, nil), db
}

func TestFeedListsOnlyPublicMemoirs(t *testing.T) {
	svc, db := setupCommunityService(t)
	author := createTestUser(t, db, "13800000001", "author")
	public := createTestMemoir(t, db, author.ID, "Public story", true)
	createTestMemoir(t, db, author.ID, "Private draft", false)

	feed, err := svc.Feed(context.Background(), 1, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 1, feed.Total)
	require.Len(t, feed.Memoirs, 1)
	assert.Equal(t, public.ID, feed.Memoirs[0].ID)
	assert.Equal(t, "author", feed.Memoirs[0].AuthorNickname)
}

func TestPublicDetailBumpsViewCount(t *testing.T) {
	svc, db := setupCommunityService(t)
	author := createTestUser(t, db, "13800000001", "author")
	memoir := createTestMemoir(t, db, author.ID, "Public story", true)

	_, err := svc.PublicDetail(memoir.ID, 0)
	require.NoError(t, err)
	_, err = svc.PublicDetail(memoir.ID, 0)
	require.NoError(t, err)

	var reloaded domain.Memoir
	require.NoError(t, db.First(&reloaded, memoir.ID).Error)
	assert.EqualValues(t, 2, reloaded.ViewCount)
}

func TestPublicDetailHidesPrivateMemoirs(t *testing.T) {
	svc, db := setupCommunityService(t)
	author := createTestUser(t, db, "13800000001", "author")
	private := createTestMemoir(t, db, author.ID, "Private", false)

	_, err := svc.PublicDetail(private.ID, 0)
	assert.ErrorIs(t, err, common.ErrMemoirNotFound)
}

func TestPublicDetailInlinesLikeState(t *testing.T) {
	svc, db := setupCommunityService(t)
	author := createTestUser(t, db, "13800000001", "author")
	reader := createTestUser(t, db, "13800000002", "reader")
	memoir := createTestMemoir(t, db, author.ID, "Public story", true)

	_, err := svc.Like(reader.ID, memoir.ID)
	require.NoError(t, err)

	detail, err := svc.PublicDetail(memoir.ID, reader.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, detail.LikeCount)
	assert.True(t, detail.UserLiked)

	// Anonymous callers see the count but never a personal liked flag
	detail, err = svc.PublicDetail(memoir.ID, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 1, detail.LikeCount)
	assert.False(t, detail.UserLiked)
}

func TestCommentsOnPublicMemoir(t *testing.T) {
	svc, db := setupCommunityService(t)
	author := createTestUser(t, db, "13800000001", "author")
	reader := createTestUser(t, db, "13800000002", "reader")
	memoir := createTestMemoir(t, db, author.ID, "Public story", true)

	comment, err := svc.AddComment(reader.ID, memoir.ID, "Lovely story")
	require.NoError(t, err)
	assert.NotZero(t, comment.ID)

	comments, total, err := svc.ListComments(memoir.ID, 1, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, comments, 1)
	assert.Equal(t, "reader", comments[0].AuthorNickname)

	// Only the comment author can delete it
	err = svc.DeleteComment(author.ID, comment.ID)
	assert.ErrorIs(t, err, common.ErrCommentNotFound)
	require.NoError(t, svc.DeleteComment(reader.ID, comment.ID))
}

func TestCommentOnPrivateMemoirLooksMissing(t *testing.T) {
	svc, db := setupCommunityService(t)
	author := createTestUser(t, db, "13800000001", "author")
	reader := createTestUser(t, db, "13800000002", "reader")
	private := createTestMemoir(t, db, author.ID, "Private", false)

	_, err := svc.AddComment(reader.ID, private.ID, "sneaky")
	assert.ErrorIs(t, err, common.ErrMemoirNotFound)
}

func TestLikeUnlike(t *testing.T) {
	svc, db := setupCommunityService(t)
	author := createTestUser(t, db, "13800000001", "author")
	reader := createTestUser(t, db, "13800000002", "reader")
	memoir := createTestMemoir(t, db, author.ID, "Public story", true)

	state, err := svc.Like(reader.ID, memoir.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, state.LikeCount)
	assert.True(t, state.UserLiked)

	// Second like conflicts
	_, err = svc.Like(reader.ID, memoir.ID)
	assert.ErrorIs(t, err, common.ErrAlreadyLiked)

	state, err = svc.Unlike(reader.ID, memoir.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 0, state.LikeCount)
	assert.False(t, state.UserLiked)

	_, err = svc.Unlike(reader.ID, memoir.ID)
	assert.ErrorIs(t, err, common.ErrNotLiked)
}

func TestSearchFallsBackToLike(t *testing.T) {
	svc, db := setupCommunityService(t)
	author := createTestUser(t, db, "13800000001", "author")
	createTestMemoir(t, db, author.ID, "Fishing with grandfather", true)
	createTestMemoir(t, db, author.ID, "City years", true)
	createTestMemoir(t, db, author.ID, "Fishing secrets", false)

	results, total, err := svc.Search(context.Background(), "Fishing", 1, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, results, 1)
	assert.Equal(t, "Fishing with grandfather", results[0].Title)
}
