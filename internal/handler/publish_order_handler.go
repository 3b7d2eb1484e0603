package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/sunsetmemories/backend/internal/common"
	"github.com/sunsetmemories/backend/internal/middleware"
	"github.com/sunsetmemories/backend/internal/service"
	"github.com/sunsetmemories/backend/pkg/ginutil"
)

// PublishOrderHandler handles print and e-book order requests
type PublishOrderHandler struct {
	service *service.PublishOrderService
}

// NewPublishOrderHandler creates a new PublishOrderHandler
func NewPublishOrderHandler(service *service.PublishOrderService) *PublishOrderHandler {
	return &PublishOrderHandler{service: service}
}

// CreatePublishOrderRequest publish order submission
type CreatePublishOrderRequest struct {
	MemoirID      uint64 `json:"memoir_id" binding:"required"`
	Format        string `json:"format" binding:"required,oneof=paperback hardcover ebook"`
	Copies        int    `json:"copies" binding:"omitempty,gte=1,lte=100"`
	RecipientName string `json:"recipient_name" binding:"max=100"`
	Phone         string `json:"phone" binding:"omitempty,cnphone"`
	Address       string `json:"address" binding:"max=500"`
}

// Create godoc
// @Summary      Place a publish order
// @Description  Orders a print or e-book edition of an owned memoir; shipping fields are required for physical formats
// @Tags         publish-orders
// @Accept       json
// @Produce      json
// @Param        request  body  CreatePublishOrderRequest  true  "Order payload"
// @Success      201  {object}  common.Response{data=domain.PublishOrder}
// @Failure      400  {object}  common.Response
// @Failure      401  {object}  common.Response
// @Failure      404  {object}  common.Response
// @Security     BearerAuth
// @Router       /publish-orders [post]
func (h *PublishOrderHandler) Create(c *gin.Context) {
	var req CreatePublishOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, 400, "Invalid request body", err)
		return
	}

	userID := middleware.GetUserIDUint64(c)
	order, err := h.service.Create(userID, service.CreatePublishOrderInput{
		MemoirID:      req.MemoirID,
		Format:        req.Format,
		Copies:        req.Copies,
		RecipientName: req.RecipientName,
		Phone:         req.Phone,
		Address:       req.Address,
	})
	if errors.Is(err, common.ErrMemoirNotFound) {
		common.ErrorResponse(c, 404, "Memoir not found", err)
		return
	}
	if errors.Is(err, common.ErrInvalidInput) {
		common.ErrorResponse(c, 400, "Shipping details required for print formats", err)
		return
	}
	if err != nil {
		common.ErrorResponse(c, 500, "Failed to place order", err)
		return
	}

	common.Created(c, order)
}

// Get godoc
// @Summary      Publish order detail
// @Tags         publish-orders
// @Produce      json
// @Param        id  path  int  true  "Order ID"
// @Success      200  {object}  common.Response{data=domain.PublishOrder}
// @Failure      400  {object}  common.Response
// @Failure      401  {object}  common.Response
// @Failure      404  {object}  common.Response
// @Security     BearerAuth
// @Router       /publish-orders/{id} [get]
func (h *PublishOrderHandler) Get(c *gin.Context) {
	id, err := ginutil.ParamUint64(c, "id")
	if err != nil {
		common.ErrorResponse(c, 400, "Invalid order ID", err)
		return
	}

	userID := middleware.GetUserIDUint64(c)
	order, err := h.service.Get(userID, id)
	if errors.Is(err, common.ErrOrderNotFound) {
		common.ErrorResponse(c, 404, "Order not found", err)
		return
	}
	if err != nil {
		common.ErrorResponse(c, 500, "Failed to fetch order", err)
		return
	}

	common.Success(c, order)
}

// ListMine godoc
// @Summary      List own publish orders
// @Tags         publish-orders
// @Produce      json
// @Param        page   query  int  false  "Page number"
// @Param        limit  query  int  false  "Page size (max 100)"
// @Success      200  {object}  common.Response{data=[]domain.PublishOrder}
// @Failure      401  {object}  common.Response
// @Security     BearerAuth
// @Router       /publish-orders [get]
func (h *PublishOrderHandler) ListMine(c *gin.Context) {
	page, limit := ginutil.Pagination(c)
	userID := middleware.GetUserIDUint64(c)

	orders, total, err := h.service.ListMine(userID, page, limit)
	if err != nil {
		common.ErrorResponse(c, 500, "Failed to fetch orders", err)
		return
	}

	common.SuccessWithMeta(c, orders, common.NewMeta(page, limit, total))
}

// Cancel godoc
// @Summary      Cancel a publish order
// @Description  Allowed while the order is pending or confirmed
// @Tags         publish-orders
// @Produce      json
// @Param        id  path  int  true  "Order ID"
// @Success      200  {object}  common.Response{data=domain.PublishOrder}
// @Failure      400  {object}  common.Response
// @Failure      401  {object}  common.Response
// @Failure      404  {object}  common.Response
// @Security     BearerAuth
// @Router       /publish-orders/{id}/cancel [post]
func (h *PublishOrderHandler) Cancel(c *gin.Context) {
	id, err := ginutil.ParamUint64(c, "id")
	if err != nil {
		common.ErrorResponse(c, 400, "Invalid order ID", err)
		return
	}

	userID := middleware.GetUserIDUint64(c)
	order, err := h.service.Cancel(userID, id)
	if errors.Is(err, common.ErrOrderNotFound) {
		common.ErrorResponse(c, 404, "Order not found", err)
		return
	}
	if errors.Is(err, common.ErrInvalidTransition) {
		common.ErrorResponse(c, 400, "Order can no longer be cancelled", err)
		return
	}
	if err != nil {
		common.ErrorResponse(c, 500, "Failed to cancel order", err)
		return
	}

	common.Success(c, order)
}
