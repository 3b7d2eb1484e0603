package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/sunsetmemories/backend/internal/common"
	"github.com/sunsetmemories/backend/internal/domain"
	"github.com/sunsetmemories/backend/internal/repository"
)

func setupServiceRequestService(t *testing.T) (*ServiceRequestService, *gorm.DB) {
	t.Helper()
	db := setupTestDB(t)
	requestRepo := repository.NewServiceRequestRepository(db)
	memoirRepo := repository.NewMemoirRepository(db)
	return NewServiceRequestService(requestRepo, memoirRepo), db
}

func TestCreateServiceRequest(t *testing.T) {
	svc, db := setupServiceRequestService(t)
	user := createTestUser(t, db, "13800000001", "author")

	req, err := svc.Create(user.ID, CreateServiceRequestInput{
		ServiceType: domain.ServiceInterview,
		Details:     "Please interview my grandmother",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.RequestPendingReview, req.Status)
	assert.Nil(t, req.MemoirID)
}

func TestServiceRequestLinkedMemoirMustBeOwned(t *testing.T) {
	svc, db := setupServiceRequestService(t)
	owner := createTestUser(t, db, "13800000001", "owner")
	stranger := createTestUser(t, db, "13800000002", "stranger")
	memoir := createTestMemoir(t, db, owner.ID, "My Life", false)

	_, err := svc.Create(stranger.ID, CreateServiceRequestInput{
		ServiceType: domain.ServiceEditing,
		Details:     "polish this",
		MemoirID:    &memoir.ID,
	})
	assert.ErrorIs(t, err, common.ErrMemoirNotFound)

	req, err := svc.Create(owner.ID, CreateServiceRequestInput{
		ServiceType: domain.ServiceEditing,
		Details:     "polish this",
		MemoirID:    &memoir.ID,
	})
	require.NoError(t, err)
	require.NotNil(t, req.MemoirID)
	assert.Equal(t, memoir.ID, *req.MemoirID)
}

func TestCancelServiceRequest(t *testing.T) {
	svc, db := setupServiceRequestService(t)
	user := createTestUser(t, db, "13800000001", "author")

	req, err := svc.Create(user.ID, CreateServiceRequestInput{
		ServiceType: domain.ServiceOther,
		Details:     "help",
	})
	require.NoError(t, err)

	cancelled, err := svc.Cancel(user.ID, req.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RequestCancelled, cancelled.Status)

	_, err = svc.Cancel(user.ID, req.ID)
	assert.ErrorIs(t, err, common.ErrInvalidTransition)
}

func TestServiceRequestOwnership(t *testing.T) {
	svc, db := setupServiceRequestService(t)
	user := createTestUser(t, db, "13800000001", "author")
	other := createTestUser(t, db, "13800000002", "other")

	req, err := svc.Create(user.ID, CreateServiceRequestInput{
		ServiceType: domain.ServiceTechSupport,
		Details:     "cannot upload",
	})
	require.NoError(t, err)

	_, err = svc.Get(other.ID, req.ID)
	assert.ErrorIs(t, err, common.ErrRequestNotFound)

	_, err = svc.Cancel(other.ID, req.ID)
	assert.ErrorIs(t, err, common.ErrRequestNotFound)
}
