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

func setupCollaborationService(t *testing.T) (*CollaborationService, *MemoirService, *testFixtures) {
	t.Helper()
	db := setupTestDB(t)

	memoirRepo := repository.NewMemoirRepository(db)
	chapterRepo := repository.NewChapterRepository(db)
	collabRepo := repository.NewCollaborationRepository(db)
	userRepo := repository.NewUserRepository(db)

	collabSvc := NewCollaborationService(collabRepo, memoirRepo, userRepo)
	memoirSvc := NewMemoirService(memoirRepo, chapterRepo, nil, nil)

	owner := createTestUser(t, db, "13800000001", "owner")
	invitee := createTestUser(t, db, "13800000002", "invitee")
	memoir := createTestMemoir(t, db, owner.ID, "My Life", false)

	return collabSvc, memoirSvc, &testFixtures{owner: owner, invitee: invitee, memoir: memoir}
}

type testFixtures struct {
	owner   *domain.User
	invitee *domain.User
	memoir  *domain.Memoir
}

func TestInvite(t *testing.T) {
	svc, _, fx := setupCollaborationService(t)

	collab, err := svc.Invite(fx.owner.ID, fx.memoir.ID, fx.invitee.Phone, domain.RoleEditor)
	require.NoError(t, err)
	assert.Equal(t, domain.CollabPending, collab.Status)
	assert.Equal(t, fx.invitee.ID, collab.CollaboratorID)
	assert.Equal(t, fx.owner.ID, collab.InviterID)
}

func TestInviteDuplicateConflicts(t *testing.T) {
	svc, _, fx := setupCollaborationService(t)

	_, err := svc.Invite(fx.owner.ID, fx.memoir.ID, fx.invitee.Phone, domain.RoleEditor)
	require.NoError(t, err)

	_, err = svc.Invite(fx.owner.ID, fx.memoir.ID, fx.invitee.Phone, domain.RoleViewer)
	assert.ErrorIs(t, err, common.ErrAlreadyInvited)
}

func TestInviteSelf(t *testing.T) {
	svc, _, fx := setupCollaborationService(t)

	_, err := svc.Invite(fx.owner.ID, fx.memoir.ID, fx.owner.Phone, domain.RoleEditor)
	assert.ErrorIs(t, err, common.ErrSelfInvite)
}

func TestInviteUnknownPhone(t *testing.T) {
	svc, _, fx := setupCollaborationService(t)

	_, err := svc.Invite(fx.owner.ID, fx.memoir.ID, "13899999999", domain.RoleEditor)
	assert.ErrorIs(t, err, common.ErrUserNotFound)
}

func TestInviteNotOwner(t *testing.T) {
	svc, _, fx := setupCollaborationService(t)

	// Invitee does not own the memoir; must look like not-found
	_, err := svc.Invite(fx.invitee.ID, fx.memoir.ID, fx.owner.Phone, domain.RoleEditor)
	assert.ErrorIs(t, err, common.ErrMemoirNotFound)
}

func TestRespondAccept(t *testing.T) {
	svc, memoirSvc, fx := setupCollaborationService(t)

	collab, err := svc.Invite(fx.owner.ID, fx.memoir.ID, fx.invitee.Phone, domain.RoleEditor)
	require.NoError(t, err)

	// Before accepting, the memoir is invisible to the invitee
	_, err = memoirSvc.Get(fx.invitee.ID, fx.memoir.ID)
	assert.ErrorIs(t, err, common.ErrMemoirNotFound)

	updated, err := svc.Respond(fx.invitee.ID, collab.ID, true)
	require.NoError(t, err)
	assert.Equal(t, domain.CollabAccepted, updated.Status)

	// Accepted editor can now read
	got, err := memoirSvc.Get(fx.invitee.ID, fx.memoir.ID)
	require.NoError(t, err)
	assert.Equal(t, fx.memoir.ID, got.ID)
}

func TestRespondOnlyOnce(t *testing.T) {
	svc, _, fx := setupCollaborationService(t)

	collab, err := svc.Invite(fx.owner.ID, fx.memoir.ID, fx.invitee.Phone, domain.RoleViewer)
	require.NoError(t, err)

	_, err = svc.Respond(fx.invitee.ID, collab.ID, false)
	require.NoError(t, err)

	_, err = svc.Respond(fx.invitee.ID, collab.ID, true)
	assert.ErrorIs(t, err, common.ErrInvitationResolved)
}

func TestRespondLateWriterCannotOverwriteTransition(t *testing.T) {
	db := setupTestDB(t)
	collabRepo := repository.NewCollaborationRepository(db)
	svc := NewCollaborationService(collabRepo, repository.NewMemoirRepository(db), repository.NewUserRepository(db))

	owner := createTestUser(t, db, "13800000001", "owner")
	invitee := createTestUser(t, db, "13800000002", "invitee")
	memoir := createTestMemoir(t, db, owner.ID, "My Life", false)

	collab, err := svc.Invite(owner.ID, memoir.ID, invitee.Phone, domain.RoleViewer)
	require.NoError(t, err)

	_, err = svc.Respond(invitee.ID, collab.ID, true)
	require.NoError(t, err)

	// A second writer that read the row while it was still pending loses
	// at the guarded update instead of flipping the committed transition
	err = collabRepo.UpdateStatusIfPending(collab.ID, domain.CollabDeclined)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	stored, err := collabRepo.FindByID(collab.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.CollabAccepted, stored.Status)
}

func TestRespondWrongUserLooksMissing(t *testing.T) {
	svc, _, fx := setupCollaborationService(t)

	collab, err := svc.Invite(fx.owner.ID, fx.memoir.ID, fx.invitee.Phone, domain.RoleViewer)
	require.NoError(t, err)

	_, err = svc.Respond(fx.owner.ID, collab.ID, true)
	assert.ErrorIs(t, err, common.ErrCollaborationNotFound)
}

func TestRenewDeclinedInvitation(t *testing.T) {
	svc, _, fx := setupCollaborationService(t)

	collab, err := svc.Invite(fx.owner.ID, fx.memoir.ID, fx.invitee.Phone, domain.RoleViewer)
	require.NoError(t, err)
	_, err = svc.Respond(fx.invitee.ID, collab.ID, false)
	require.NoError(t, err)

	renewed, err := svc.Invite(fx.owner.ID, fx.memoir.ID, fx.invitee.Phone, domain.RoleEditor)
	require.NoError(t, err)
	assert.Equal(t, collab.ID, renewed.ID)
	assert.Equal(t, domain.CollabPending, renewed.Status)
	assert.Equal(t, domain.RoleEditor, renewed.Role)
}

func TestUpdateRoleAndRemove(t *testing.T) {
	svc, memoirSvc, fx := setupCollaborationService(t)

	collab, err := svc.Invite(fx.owner.ID, fx.memoir.ID, fx.invitee.Phone, domain.RoleViewer)
	require.NoError(t, err)
	_, err = svc.Respond(fx.invitee.ID, collab.ID, true)
	require.NoError(t, err)

	// Viewer cannot write
	title := "hacked"
	_, err = memoirSvc.Update(context.Background(), fx.invitee.ID, fx.memoir.ID, UpdateMemoirInput{Title: &title})
	assert.ErrorIs(t, err, common.ErrMemoirNotFound)

	// Promote to editor; write now succeeds
	_, err = svc.UpdateRole(fx.owner.ID, collab.ID, domain.RoleEditor)
	require.NoError(t, err)
	_, err = memoirSvc.Update(context.Background(), fx.invitee.ID, fx.memoir.ID, UpdateMemoirInput{Title: &title})
	require.NoError(t, err)

	// Removing the collaboration revokes access
	require.NoError(t, svc.Remove(fx.owner.ID, collab.ID))
	_, err = memoirSvc.Get(fx.invitee.ID, fx.memoir.ID)
	assert.ErrorIs(t, err, common.ErrMemoirNotFound)
}

func TestListMineIncludesPending(t *testing.T) {
	svc, _, fx := setupCollaborationService(t)

	_, err := svc.Invite(fx.owner.ID, fx.memoir.ID, fx.invitee.Phone, domain.RoleViewer)
	require.NoError(t, err)

	list, total, err := svc.ListMine(fx.invitee.ID, 1, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, list, 1)
	assert.Equal(t, fx.memoir.Title, list[0].MemoirTitle)
	assert.Equal(t, fx.owner.Nickname, list[0].InviterNickname)
	assert.Equal(t, domain.CollabPending, list[0].Status)
}
