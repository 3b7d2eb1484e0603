package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/sunsetmemories/backend/internal/common"
	"github.com/sunsetmemories/backend/internal/middleware"
	"github.com/sunsetmemories/backend/internal/service"
	"github.com/sunsetmemories/backend/pkg/ginutil"
)

// UserHandler handles user profile requests
type UserHandler struct {
	service *service.UserService
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(service *service.UserService) *UserHandler {
	return &UserHandler{service: service}
}

// UpdateProfileRequest profile update request
type UpdateProfileRequest struct {
	Name      *string `json:"name" binding:"omitempty,max=100"`
	Nickname  *string `json:"nickname" binding:"omitempty,min=1,max=100"`
	AvatarURL *string `json:"avatar_url" binding:"omitempty,url,max=500"`
}

// GetProfile godoc
// @Summary      Public user profile
// @Tags         users
// @Produce      json
// @Param        id  path  int  true  "User ID"
// @Success      200  {object}  common.Response{data=domain.UserProfileResponse}
// @Failure      400  {object}  common.Response
// @Failure      404  {object}  common.Response
// @Router       /users/{id} [get]
func (h *UserHandler) GetProfile(c *gin.Context) {
	id, err := ginutil.ParamUint64(c, "id")
	if err != nil {
		common.ErrorResponse(c, 400, "Invalid user ID", err)
		return
	}

	profile, err := h.service.GetProfile(id)
	if errors.Is(err, common.ErrUserNotFound) {
		common.ErrorResponse(c, 404, "User not found", err)
		return
	}
	if err != nil {
		common.ErrorResponse(c, 500, "Failed to fetch profile", err)
		return
	}

	common.Success(c, profile)
}

// UpdateMe godoc
// @Summary      Update own profile
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        request  body  UpdateProfileRequest  true  "Fields to update"
// @Success      200  {object}  common.Response{data=domain.UserResponse}
// @Failure      400  {object}  common.Response
// @Failure      401  {object}  common.Response
// @Security     BearerAuth
// @Router       /users/me [put]
func (h *UserHandler) UpdateMe(c *gin.Context) {
	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, 400, "Invalid request body", err)
		return
	}

	userID := middleware.GetUserIDUint64(c)
	user, err := h.service.UpdateProfile(userID, service.UpdateProfileInput{
		Name:      req.Name,
		Nickname:  req.Nickname,
		AvatarURL: req.AvatarURL,
	})
	if errors.Is(err, common.ErrUserNotFound) {
		common.ErrorResponse(c, 404, "User not found", err)
		return
	}
	if err != nil {
		common.ErrorResponse(c, 500, "Failed to update profile", err)
		return
	}

	common.Success(c, user)
}
