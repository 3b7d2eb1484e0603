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

func setupMemoirService(t *testing.T) (*MemoirService, *gorm.DB) {
	t.Helper()
	db := setupTestDB(t)
	memoirRepo := repository.NewMemoirRepository(db)
	chapterRepo := repository.NewChapterRepository(db)
	return NewMemoirService(memoirRepo, chapterRepo, nil, nil), db
}

func TestCreateAndGetMemoir(t *testing.T) {
	svc, db := setupMemoirService(t)
	user := createTestUser(t, db, "13800000001", "author")

	memoir, err := svc.Create(context.Background(), user.ID, CreateMemoirInput{
		Title:   "Childhood",
		Content: "it begins",
	})
	require.NoError(t, err)
	assert.NotZero(t, memoir.ID)
	assert.False(t, memoir.IsPublic)

	got, err := svc.Get(user.ID, memoir.ID)
	require.NoError(t, err)
	assert.Equal(t, "Childhood", got.Title)
}

func TestMemoirOwnershipHidesExistence(t *testing.T) {
	svc, db := setupMemoirService(t)
	owner := createTestUser(t, db, "13800000001", "owner")
	stranger := createTestUser(t, db, "13800000002", "stranger")
	memoir := createTestMemoir(t, db, owner.ID, "Private", false)

	_, err := svc.Get(stranger.ID, memoir.ID)
	assert.ErrorIs(t, err, common.ErrMemoirNotFound)

	title := "renamed"
	_, err = svc.Update(context.Background(), stranger.ID, memoir.ID, UpdateMemoirInput{Title: &title})
	assert.ErrorIs(t, err, common.ErrMemoirNotFound)

	err = svc.Delete(context.Background(), stranger.ID, memoir.ID)
	assert.ErrorIs(t, err, common.ErrMemoirNotFound)

	// Missing IDs answer the same way
	_, err = svc.Get(owner.ID, 99999)
	assert.ErrorIs(t, err, common.ErrMemoirNotFound)
}

func TestChapterOrdering(t *testing.T) {
	svc, db := setupMemoirService(t)
	user := createTestUser(t, db, "13800000001", "author")
	memoir := createTestMemoir(t, db, user.ID, "My Life", false)

	// Appended chapters get increasing order numbers
	ch1, err := svc.AddChapter(user.ID, memoir.ID, CreateChapterInput{Title: "One"})
	require.NoError(t, err)
	ch2, err := svc.AddChapter(user.ID, memoir.ID, CreateChapterInput{Title: "Two"})
	require.NoError(t, err)
	ch3, err := svc.AddChapter(user.ID, memoir.ID, CreateChapterInput{Title: "Three"})
	require.NoError(t, err)
	assert.Less(t, ch1.OrderNum, ch2.OrderNum)
	assert.Less(t, ch2.OrderNum, ch3.OrderNum)

	// Reorder rewrites order to match the given id list
	chapters, err := svc.ReorderChapters(user.ID, memoir.ID, []uint64{ch3.ID, ch1.ID, ch2.ID})
	require.NoError(t, err)
	require.Len(t, chapters, 3)
	assert.Equal(t, "Three", chapters[0].Title)
	assert.Equal(t, "One", chapters[1].Title)
	assert.Equal(t, "Two", chapters[2].Title)
}

func TestReorderRejectsForeignChapters(t *testing.T) {
	svc, db := setupMemoirService(t)
	user := createTestUser(t, db, "13800000001", "author")
	memoir := createTestMemoir(t, db, user.ID, "A", false)
	other := createTestMemoir(t, db, user.ID, "B", false)

	ch, err := svc.AddChapter(user.ID, memoir.ID, CreateChapterInput{Title: "One"})
	require.NoError(t, err)
	foreign, err := svc.AddChapter(user.ID, other.ID, CreateChapterInput{Title: "Elsewhere"})
	require.NoError(t, err)

	_, err = svc.ReorderChapters(user.ID, memoir.ID, []uint64{ch.ID, foreign.ID})
	assert.ErrorIs(t, err, common.ErrChapterNotFound)
}

func TestUpdateChapter(t *testing.T) {
	svc, db := setupMemoirService(t)
	user := createTestUser(t, db, "13800000001", "author")
	memoir := createTestMemoir(t, db, user.ID, "My Life", false)

	ch, err := svc.AddChapter(user.ID, memoir.ID, CreateChapterInput{Title: "Draft"})
	require.NoError(t, err)

	title := "Final"
	content := "polished text"
	updated, err := svc.UpdateChapter(user.ID, memoir.ID, ch.ID, UpdateChapterInput{
		Title:   &title,
		Content: &content,
	})
	require.NoError(t, err)
	assert.Equal(t, "Final", updated.Title)
	assert.Equal(t, "polished text", updated.Content)

	_, err = svc.UpdateChapter(user.ID, memoir.ID, 99999, UpdateChapterInput{Title: &title})
	assert.ErrorIs(t, err, common.ErrChapterNotFound)
}

func TestDeleteMemoirCascades(t *testing.T) {
	svc, db := setupMemoirService(t)
	user := createTestUser(t, db, "13800000001", "author")
	memoir := createTestMemoir(t, db, user.ID, "My Life", false)

	_, err := svc.AddChapter(user.ID, memoir.ID, CreateChapterInput{Title: "One"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), user.ID, memoir.ID))

	var count int64
	db.Model(&domain.Chapter{}).Where("memoir_id = ?", memoir.ID).Count(&count)
	assert.Zero(t, count)
}

func TestListMineAndShared(t *testing.T) {
	svc, db := setupMemoirService(t)
	owner := createTestUser(t, db, "13800000001", "owner")
	friend := createTestUser(t, db, "13800000002", "friend")
	memoir := createTestMemoir(t, db, owner.ID, "Shared story", false)

	db.Create(&domain.Collaboration{
		MemoirID:       memoir.ID,
		CollaboratorID: friend.ID,
		InviterID:      owner.ID,
		Role:           domain.RoleViewer,
		Status:         domain.CollabAccepted,
	})

	mine, total, err := svc.ListMine(owner.ID, 1, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, mine, 1)
	assert.Equal(t, owner.Nickname, mine[0].AuthorNickname)

	shared, total, err := svc.ListShared(friend.ID, 1, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, shared, 1)
	assert.Equal(t, memoir.ID, shared[0].ID)
}
