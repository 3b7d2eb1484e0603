package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/sunsetmemories/backend/internal/common"
	"github.com/sunsetmemories/backend/internal/middleware"
	"github.com/sunsetmemories/backend/internal/service"
	"github.com/sunsetmemories/backend/pkg/ginutil"
)

// ServiceRequestHandler handles human-assistance requests
type ServiceRequestHandler struct {
	service *service.ServiceRequestService
}

// NewServiceRequestHandler creates a new ServiceRequestHandler
func NewServiceRequestHandler(service *service.ServiceRequestService) *ServiceRequestHandler {
	return &ServiceRequestHandler{service: service}
}

// CreateServiceRequestRequest service request submission
type CreateServiceRequestRequest struct {
	ServiceType string  `json:"service_type" binding:"required,oneof=editing tech_support interview other"`
	Details     string  `json:"details" binding:"required,max=2000"`
	MemoirID    *uint64 `json:"memoir_id"`
}

// Create godoc
// @Summary      Submit a service request
// @Description  Requests human assistance (editing, interview, tech support)
// @Tags         service-requests
// @Accept       json
// @Produce      json
// @Param        request  body  CreateServiceRequestRequest  true  "Request payload"
// @Success      201  {object}  common.Response{data=domain.ServiceRequest}
// @Failure      400  {object}  common.Response
// @Failure      401  {object}  common.Response
// @Failure      404  {object}  common.Response
// @Security     BearerAuth
// @Router       /service-requests [post]
func (h *ServiceRequestHandler) Create(c *gin.Context) {
	var req CreateServiceRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, 400, "Invalid request body", err)
		return
	}

	userID := middleware.GetUserIDUint64(c)
	result, err := h.service.Create(userID, service.CreateServiceRequestInput{
		ServiceType: req.ServiceType,
		Details:     req.Details,
		MemoirID:    req.MemoirID,
	})
	if errors.Is(err, common.ErrMemoirNotFound) {
		common.ErrorResponse(c, 404, "Memoir not found", err)
		return
	}
	if errors.Is(err, common.ErrInvalidInput) {
		common.ErrorResponse(c, 400, "Invalid service type", err)
		return
	}
	if err != nil {
		common.ErrorResponse(c, 500, "Failed to submit request", err)
		return
	}

	common.Created(c, result)
}

// Get godoc
// @Summary      Service request detail
// @Tags         service-requests
// @Produce      json
// @Param        id  path  int  true  "Request ID"
// @Success      200  {object}  common.Response{data=domain.ServiceRequest}
// @Failure      400  {object}  common.Response
// @Failure      401  {object}  common.Response
// @Failure      404  {object}  common.Response
// @Security     BearerAuth
// @Router       /service-requests/{id} [get]
func (h *ServiceRequestHandler) Get(c *gin.Context) {
	id, err := ginutil.ParamUint64(c, "id")
	if err != nil {
		common.ErrorResponse(c, 400, "Invalid request ID", err)
		return
	}

	userID := middleware.GetUserIDUint64(c)
	result, err := h.service.Get(userID, id)
	if errors.Is(err, common.ErrRequestNotFound) {
		common.ErrorResponse(c, 404, "Request not found", err)
		return
	}
	if err != nil {
		common.ErrorResponse(c, 500, "Failed to fetch request", err)
		return
	}

	common.Success(c, result)
}

// ListMine godoc
// @Summary      List own service requests
// @Tags         service-requests
// @Produce      json
// @Param        page   query  int  false  "Page number"
// @Param        limit  query  int  false  "Page size (max 100)"
// @Success      200  {object}  common.Response{data=[]domain.ServiceRequest}
// @Failure      401  {object}  common.Response
// @Security     BearerAuth
// @Router       /service-requests [get]
func (h *ServiceRequestHandler) ListMine(c *gin.Context) {
	page, limit := ginutil.Pagination(c)
	userID := middleware.GetUserIDUint64(c)

	results, total, err := h.service.ListMine(userID, page, limit)
	if err != nil {
		common.ErrorResponse(c, 500, "Failed to fetch requests", err)
		return
	}

	common.SuccessWithMeta(c, results, common.NewMeta(page, limit, total))
}

// Cancel godoc
// @Summary      Cancel a service request
// @Description  Allowed while the request is pending review or in progress
// @Tags         service-requests
// @Produce      json
// @Param        id  path  int  true  "Request ID"
// @Success      200  {object}  common.Response{data=domain.ServiceRequest}
// @Failure      400  {object}  common.Response
// @Failure      401  {object}  common.Response
// @Failure      404  {object}  common.Response
// @Security     BearerAuth
// @Router       /service-requests/{id}/cancel [post]
func (h *ServiceRequestHandler) Cancel(c *gin.Context) {
	id, err := ginutil.ParamUint64(c, "id")
	if err != nil {
		common.ErrorResponse(c, 400, "Invalid request ID", err)
		return
	}

	userID := middleware.GetUserIDUint64(c)
	result, err := h.service.Cancel(userID, id)
	if errors.Is(err, common.ErrRequestNotFound) {
		common.ErrorResponse(c, 404, "Request not found", err)
		return
	}
	if errors.Is(err, common.ErrInvalidTransition) {
		common.ErrorResponse(c, 400, "Request can no longer be cancelled", err)
		return
	}
	if err != nil {
		common.ErrorResponse(c, 500, "Failed to cancel request", err)
		return
	}

	common.Success(c, result)
}
