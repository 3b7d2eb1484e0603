package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/sunsetmemories/backend/internal/common"
	"github.com/sunsetmemories/backend/internal/middleware"
	"github.com/sunsetmemories/backend/internal/service"
	"github.com/sunsetmemories/backend/pkg/ginutil"
)

// CollaborationHandler handles collaboration invitation requests
type CollaborationHandler struct {
	service *service.CollaborationService
}

// NewCollaborationHandler creates a new CollaborationHandler
func NewCollaborationHandler(service *service.CollaborationService) *CollaborationHandler {
	return &CollaborationHandler{service: service}
}

// InviteRequest collaboration invitation request
type InviteRequest struct {
	Phone string `json:"phone" binding:"required,cnphone"`
	Role  string `json:"role" binding:"required,oneof=viewer editor"`
}

// RespondRequest invitation response request
type RespondRequest struct {
	Accept *bool `json:"accept" binding:"required"`
}

// UpdateRoleRequest role change request
type UpdateRoleRequest struct {
	Role string `json:"role" binding:"required,oneof=viewer editor"`
}

// Invite godoc
// @Summary      Invite a collaborator
// @Description  Invites a user by phone number to collaborate on an owned memoir
// @Tags         collaborations
// @Accept       json
// @Produce      json
// @Param        id       path  int            true  "Memoir ID"
// @Param        request  body  InviteRequest  true  "Invitee phone and role"
// @Success      201  {object}  common.Response{data=domain.Collaboration}
// @Failure      400  {object}  common.Response
// @Failure      401  {object}  common.Response
// @Failure      404  {object}  common.Response
// @Failure      409  {object}  common.Response
// @Security     BearerAuth
// @Router       /memoirs/{id}/collaborations [post]
func (h *CollaborationHandler) Invite(c *gin.Context) {
	memoirID, err := ginutil.ParamUint64(c, "id")
	if err != nil {
		common.ErrorResponse(c, 400, "Invalid memoir ID", err)
		return
	}

	var req InviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, 400, "Invalid request body", err)
		return
	}

	ownerID := middleware.GetUserIDUint64(c)
	collab, err := h.service.Invite(ownerID, memoirID, req.Phone, req.Role)
	switch {
	case errors.Is(err, common.ErrMemoirNotFound):
		common.ErrorResponse(c, 404, "Memoir not found", err)
	case errors.Is(err, common.ErrUserNotFound):
		common.ErrorResponse(c, 404, "No account with that phone number", err)
	case errors.Is(err, common.ErrSelfInvite):
		common.ErrorResponse(c, 400, "Cannot invite yourself", err)
	case errors.Is(err, common.ErrAlreadyInvited):
		common.ErrorResponse(c, 409, "User already invited", err)
	case errors.Is(err, common.ErrInvalidInput):
		common.ErrorResponse(c, 400, "Invalid role", err)
	case err != nil:
		common.ErrorResponse(c, 500, "Failed to create invitation", err)
	default:
		common.Created(c, collab)
	}
}

// ListForMemoir godoc
// @Summary      List collaborators of an owned memoir
// @Tags         collaborations
// @Produce      json
// @Param        id  path  int  true  "Memoir ID"
// @Success      200  {object}  common.Response{data=[]domain.CollaborationResponse}
// @Failure      400  {object}  common.Response
// @Failure      401  {object}  common.Response
// @Failure      404  {object}  common.Response
// @Security     BearerAuth
// @Router       /memoirs/{id}/collaborations [get]
func (h *CollaborationHandler) ListForMemoir(c *gin.Context) {
	memoirID, err := ginutil.ParamUint64(c, "id")
	if err != nil {
		common.ErrorResponse(c, 400, "Invalid memoir ID", err)
		return
	}

	ownerID := middleware.GetUserIDUint64(c)
	collabs, err := h.service.ListForMemoir(ownerID, memoirID)
	if errors.Is(err, common.ErrMemoirNotFound) {
		common.ErrorResponse(c, 404, "Memoir not found", err)
		return
	}
	if err != nil {
		common.ErrorResponse(c, 500, "Failed to fetch collaborators", err)
		return
	}

	common.Success(c, collabs)
}

// ListMine godoc
// @Summary      List invitations received
// @Tags         collaborations
// @Produce      json
// @Param        page   query  int  false  "Page number"
// @Param        limit  query  int  false  "Page size (max 100)"
// @Success      200  {object}  common.Response{data=[]domain.CollaborationResponse}
// @Failure      401  {object}  common.Response
// @Security     BearerAuth
// @Router       /collaborations [get]
func (h *CollaborationHandler) ListMine(c *gin.Context) {
	page, limit := ginutil.Pagination(c)
	userID := middleware.GetUserIDUint64(c)

	collabs, total, err := h.service.ListMine(userID, page, limit)
	if err != nil {
		common.ErrorResponse(c, 500, "Failed to fetch invitations", err)
		return
	}

	common.SuccessWithMeta(c, collabs, common.NewMeta(page, limit, total))
}

// Respond godoc
// @Summary      Accept or decline an invitation
// @Description  Only the invited collaborator may respond, exactly once
// @Tags         collaborations
// @Accept       json
// @Produce      json
// @Param        id       path  int             true  "Collaboration ID"
// @Param        request  body  RespondRequest  true  "Accept or decline"
// @Success      200  {object}  common.Response{data=domain.Collaboration}
// @Failure      400  {object}  common.Response
// @Failure      401  {object}  common.Response
// @Failure      404  {object}  common.Response
// @Security     BearerAuth
// @Router       /collaborations/{id} [put]
func (h *CollaborationHandler) Respond(c *gin.Context) {
	collabID, err := ginutil.ParamUint64(c, "id")
	if err != nil {
		common.ErrorResponse(c, 400, "Invalid collaboration ID", err)
		return
	}

	var req RespondRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, 400, "Invalid request body", err)
		return
	}

	userID := middleware.GetUserIDUint64(c)
	collab, err := h.service.Respond(userID, collabID, *req.Accept)
	if errors.Is(err, common.ErrCollaborationNotFound) {
		common.ErrorResponse(c, 404, "Invitation not found", err)
		return
	}
	if errors.Is(err, common.ErrInvitationResolved) {
		common.ErrorResponse(c, 400, "Invitation already resolved", err)
		return
	}
	if err != nil {
		common.ErrorResponse(c, 500, "Failed to respond to invitation", err)
		return
	}

	common.Success(c, collab)
}

// UpdateRole godoc
// @Summary      Change a collaborator's role
// @Description  Memoir owner only
// @Tags         collaborations
// @Accept       json
// @Produce      json
// @Param        id       path  int                true  "Collaboration ID"
// @Param        request  body  UpdateRoleRequest  true  "New role"
// @Success      200  {object}  common.Response{data=domain.Collaboration}
// @Failure      400  {object}  common.Response
// @Failure      401  {object}  common.Response
// @Failure      404  {object}  common.Response
// @Security     BearerAuth
// @Router       /collaborations/{id}/role [put]
func (h *CollaborationHandler) UpdateRole(c *gin.Context) {
	collabID, err := ginutil.ParamUint64(c, "id")
	if err != nil {
		common.ErrorResponse(c, 400, "Invalid collaboration ID", err)
		return
	}

	var req UpdateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, 400, "Invalid request body", err)
		return
	}

	ownerID := middleware.GetUserIDUint64(c)
	collab, err := h.service.UpdateRole(ownerID, collabID, req.Role)
	if errors.Is(err, common.ErrCollaborationNotFound) {
		common.ErrorResponse(c, 404, "Collaboration not found", err)
		return
	}
	if errors.Is(err, common.ErrInvalidInput) {
		common.ErrorResponse(c, 400, "Invalid role", err)
		return
	}
	if err != nil {
		common.ErrorResponse(c, 500, "Failed to update role", err)
		return
	}

	common.Success(c, collab)
}

// Remove godoc
// @Summary      Remove a collaborator
// @Description  Memoir owner only
// @Tags         collaborations
// @Produce      json
// @Param        id  path  int  true  "Collaboration ID"
// @Success      204  "No Content"
// @Failure      400  {object}  common.Response
// @Failure      401  {object}  common.Response
// @Failure      404  {object}  common.Response
// @Security     BearerAuth
// @Router       /collaborations/{id} [delete]
func (h *CollaborationHandler) Remove(c *gin.Context) {
	collabID, err := ginutil.ParamUint64(c, "id")
	if err != nil {
		common.ErrorResponse(c, 400, "Invalid collaboration ID", err)
		return
	}

	ownerID := middleware.GetUserIDUint64(c)
	err = h.service.Remove(ownerID, collabID)
	if errors.Is(err, common.ErrCollaborationNotFound) {
		common.ErrorResponse(c, 404, "Collaboration not found", err)
		return
	}
	if err != nil {
		common.ErrorResponse(c, 500, "Failed to remove collaborator", err)
		return
	}

	common.NoContent(c)
}
