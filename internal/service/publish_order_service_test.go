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

func setupPublishOrderService(t *testing.T) (*PublishOrderService, *gorm.DB) {
	t.Helper()
	db := setupTestDB(t)
	orderRepo := repository.NewPublishOrderRepository(db)
	memoirRepo := repository.NewMemoirRepository(db)
	return NewPublishOrderService(orderRepo, memoirRepo), db
}

func TestCreatePublishOrder(t *testing.T) {
	svc, db := setupPublishOrderService(t)
	user := createTestUser(t, db, "13800000001", "author")
	memoir := createTestMemoir(t, db, user.ID, "My Life", false)

	order, err := svc.Create(user.ID, CreatePublishOrderInput{
		MemoirID:      memoir.ID,
		Format:        domain.FormatHardcover,
		Copies:        3,
		RecipientName: "Li Hua",
		Phone:         "13800000001",
		Address:       "1 Riverside Road",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.OrderPending, order.Status)
	assert.Equal(t, 3, order.Copies)
}

func TestPrintOrderRequiresShippingDetails(t *testing.T) {
	svc, db := setupPublishOrderService(t)
	user := createTestUser(t, db, "13800000001", "author")
	memoir := createTestMemoir(t, db, user.ID, "My Life", false)

	_, err := svc.Create(user.ID, CreatePublishOrderInput{
		MemoirID: memoir.ID,
		Format:   domain.FormatPaperback,
	})
	assert.ErrorIs(t, err, common.ErrInvalidInput)

	// E-books ship nothing
	_, err = svc.Create(user.ID, CreatePublishOrderInput{
		MemoirID: memoir.ID,
		Format:   domain.FormatEbook,
	})
	require.NoError(t, err)
}

func TestOrderRequiresOwnedMemoir(t *testing.T) {
	svc, db := setupPublishOrderService(t)
	owner := createTestUser(t, db, "13800000001", "owner")
	stranger := createTestUser(t, db, "13800000002", "stranger")
	memoir := createTestMemoir(t, db, owner.ID, "My Life", true)

	_, err := svc.Create(stranger.ID, CreatePublishOrderInput{
		MemoirID: memoir.ID,
		Format:   domain.FormatEbook,
	})
	assert.ErrorIs(t, err, common.ErrMemoirNotFound)
}

func TestCancelOrder(t *testing.T) {
	svc, db := setupPublishOrderService(t)
	user := createTestUser(t, db, "13800000001", "author")
	memoir := createTestMemoir(t, db, user.ID, "My Life", false)

	order, err := svc.Create(user.ID, CreatePublishOrderInput{
		MemoirID: memoir.ID,
		Format:   domain.FormatEbook,
	})
	require.NoError(t, err)

	cancelled, err := svc.Cancel(user.ID, order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderCancelled, cancelled.Status)

	// Cancelled orders cannot be cancelled again
	_, err = svc.Cancel(user.ID, order.ID)
	assert.ErrorIs(t, err, common.ErrInvalidTransition)
}

func TestCancelShippedOrderRejected(t *testing.T) {
	svc, db := setupPublishOrderService(t)
	user := createTestUser(t, db, "13800000001", "author")
	memoir := createTestMemoir(t, db, user.ID, "My Life", false)

	order, err := svc.Create(user.ID, CreatePublishOrderInput{
		MemoirID: memoir.ID,
		Format:   domain.FormatEbook,
	})
	require.NoError(t, err)

	db.Model(&domain.PublishOrder{}).Where("id = ?", order.ID).
		Update("status", domain.OrderShipped)

	_, err = svc.Cancel(user.ID, order.ID)
	assert.ErrorIs(t, err, common.ErrInvalidTransition)
}
