package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sunsetmemories/backend/internal/common"
	"github.com/sunsetmemories/backend/internal/middleware"
	"github.com/sunsetmemories/backend/internal/service"
	"github.com/sunsetmemories/backend/internal/sms"
)

// AuthHandler handles authentication requests
type AuthHandler struct {
	service *service.AuthService
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(service *service.AuthService) *AuthHandler {
	return &AuthHandler{service: service}
}

// RegisterRequest registration request
type RegisterRequest struct {
	Phone    string `json:"phone" binding:"required,cnphone"`
	Password string `json:"password" binding:"required,min=6,max=72"`
	Name     string `json:"name" binding:"required,max=100"`
	Nickname string `json:"nickname" binding:"max=100"`
}

// LoginRequest password login request
type LoginRequest struct {
	Phone    string `json:"phone" binding:"required,cnphone"`
	Password string `json:"password" binding:"required"`
}

// SendCodeRequest SMS code request
type SendCodeRequest struct {
	Phone string `json:"phone" binding:"required,cnphone"`
}

// CodeLoginRequest SMS code login request
type CodeLoginRequest struct {
	Phone string `json:"phone" binding:"required,cnphone"`
	Code  string `json:"code" binding:"required,len=6"`
}

// RefreshRequest refresh token request
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// Register godoc
// @Summary      Register a new account
// @Description  Creates an account with phone and password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request  body      RegisterRequest  true  "Registration payload"
// @Success      201  {object}  common.Response{data=domain.UserResponse}
// @Failure      400  {object}  common.Response
// @Failure      409  {object}  common.Response
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, 400, "Invalid request body", err)
		return
	}

	user, err := h.service.Register(req.Phone, req.Password, req.Name, req.Nickname)
	if errors.Is(err, common.ErrUserAlreadyExists) {
		common.ErrorResponse(c, 409, "Phone number already registered", err)
		return
	}
	if err != nil {
		common.ErrorResponse(c, 500, "Registration failed", err)
		return
	}

	common.Created(c, user)
}

// Login godoc
// @Summary      Password login
// @Description  Authenticates with phone and password, returns a token pair
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request  body      LoginRequest  true  "Login payload"
// @Success      200  {object}  common.Response{data=service.LoginResponse}
// @Failure      400  {object}  common.Response
// @Failure      401  {object}  common.Response
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, 400, "Invalid request body", err)
		return
	}

	resp, err := h.service.LoginPassword(req.Phone, req.Password)
	if errors.Is(err, common.ErrInvalidCredentials) {
		common.ErrorResponse(c, 401, "Invalid phone or password", err)
		return
	}
	if err != nil {
		common.ErrorResponse(c, 500, "Login failed", err)
		return
	}

	common.Success(c, resp)
}

// SendCode godoc
// @Summary      Request an SMS verification code
// @Description  Issues a 6-digit login code to the given phone number
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request  body      SendCodeRequest  true  "Phone number"
// @Success      200  {object}  common.Response
// @Failure      400  {object}  common.Response
// @Failure      429  {object}  common.Response
// @Router       /auth/code [post]
func (h *AuthHandler) SendCode(c *gin.Context) {
	var req SendCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, 400, "Invalid request body", err)
		return
	}

	ttl, err := h.service.RequestCode(c.Request.Context(), req.Phone)
	if errors.Is(err, sms.ErrSendRateLimited) {
		common.ErrorResponse(c, http.StatusTooManyRequests, "Code already sent, try again later", err)
		return
	}
	if err != nil {
		common.ErrorResponse(c, 500, "Failed to send verification code", err)
		return
	}

	common.Success(c, gin.H{"expires_in": ttl})
}

// LoginWithCode godoc
// @Summary      SMS-code login
// @Description  Verifies the SMS code and logs in, auto-registering unknown phones
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request  body      CodeLoginRequest  true  "Phone and code"
// @Success      200  {object}  common.Response{data=service.LoginResponse}
// @Failure      400  {object}  common.Response
// @Failure      401  {object}  common.Response
// @Router       /auth/login/code [post]
func (h *AuthHandler) LoginWithCode(c *gin.Context) {
	var req CodeLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, 400, "Invalid request body", err)
		return
	}

	resp, err := h.service.LoginWithCode(c.Request.Context(), req.Phone, req.Code)
	if errors.Is(err, common.ErrInvalidCredentials) {
		common.ErrorResponse(c, 401, "Invalid or expired verification code", err)
		return
	}
	if err != nil {
		common.ErrorResponse(c, 500, "Login failed", err)
		return
	}

	common.Success(c, resp)
}

// Refresh godoc
// @Summary      Refresh the token pair
// @Description  Exchanges a valid refresh token for a new token pair
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request  body      RefreshRequest  true  "Refresh token"
// @Success      200  {object}  common.Response{data=service.LoginResponse}
// @Failure      400  {object}  common.Response
// @Failure      401  {object}  common.Response
// @Router       /auth/refresh [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, 400, "Invalid request body", err)
		return
	}

	resp, err := h.service.Refresh(c.Request.Context(), req.RefreshToken)
	if errors.Is(err, common.ErrUnauthorized) {
		common.ErrorResponse(c, 401, "Invalid refresh token", err)
		return
	}
	if err != nil {
		common.ErrorResponse(c, 500, "Token refresh failed", err)
		return
	}

	common.Success(c, resp)
}

// LogoutRequest logout request
type LogoutRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// Logout godoc
// @Summary      Log out
// @Description  Revokes the refresh token so it cannot mint new token pairs
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request  body      LogoutRequest  true  "Refresh token"
// @Success      204  "No Content"
// @Failure      400  {object}  common.Response
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	var req LogoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, 400, "Invalid request body", err)
		return
	}

	if err := h.service.Logout(c.Request.Context(), req.RefreshToken); err != nil {
		common.ErrorResponse(c, 500, "Logout failed", err)
		return
	}

	common.NoContent(c)
}

// Me godoc
// @Summary      Current user
// @Description  Returns the authenticated user's profile
// @Tags         auth
// @Produce      json
// @Success      200  {object}  common.Response{data=domain.UserResponse}
// @Failure      401  {object}  common.Response
// @Failure      404  {object}  common.Response
// @Security     BearerAuth
// @Router       /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	userID := middleware.GetUserIDUint64(c)

	user, err := h.service.GetCurrentUser(userID)
	if errors.Is(err, common.ErrUserNotFound) {
		common.ErrorResponse(c, 404, "User not found", err)
		return
	}
	if err != nil {
		common.ErrorResponse(c, 500, "Failed to fetch user", err)
		return
	}

	common.Success(c, user.ToResponse())
}
