package handler

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/sunsetmemories/backend/internal/common"
	"github.com/sunsetmemories/backend/internal/middleware"
	"github.com/sunsetmemories/backend/internal/service"
	"github.com/sunsetmemories/backend/pkg/ginutil"
)

// CommunityHandler handles public feed, comment and like requests
type CommunityHandler struct {
	service *service.CommunityService
}

// NewCommunityHandler creates a new CommunityHandler
func NewCommunityHandler(service *service.CommunityService) *CommunityHandler {
	return &CommunityHandler{service: service}
}

// CreateCommentRequest comment creation request
type CreateCommentRequest struct {
	Content string `json:"content" binding:"required,max=1000"`
}

// Feed godoc
// @Summary      Public memoir feed
// @Description  Lists public memoirs, newest first
// @Tags         community
// @Produce      json
// @Param        page   query  int  false  "Page number"
// @Param        limit  query  int  false  "Page size (max 100)"
// @Success      200  {object}  common.Response{data=[]domain.MemoirSummary}
// @Failure      500  {object}  common.Response
// @Router       /community/memoirs [get]
func (h *CommunityHandler) Feed(c *gin.Context) {
	page, limit := ginutil.Pagination(c)

	feed, err := h.service.Feed(c.Request.Context(), page, limit)
	if err != nil {
		common.ErrorResponse(c, 500, "Failed to fetch feed", err)
		return
	}

	common.SuccessWithMeta(c, feed.Memoirs, common.NewMeta(page, limit, feed.Total))
}

// Detail godoc
// @Summary      Public memoir detail
// @Description  Returns a public memoir with chapters and like state; user_liked reflects the caller when a token is sent
// @Tags         community
// @Produce      json
// @Param        id  path  int  true  "Memoir ID"
// @Success      200  {object}  common.Response{data=service.MemoirDetail}
// @Failure      400  {object}  common.Response
// @Failure      404  {object}  common.Response
// @Router       /community/memoirs/{id} [get]
func (h *CommunityHandler) Detail(c *gin.Context) {
	id, err := ginutil.ParamUint64(c, "id")
	if err != nil {
		common.ErrorResponse(c, 400, "Invalid memoir ID", err)
		return
	}

	memoir, err := h.service.PublicDetail(id, middleware.GetUserIDUint64(c))
	if errors.Is(err, common.ErrMemoirNotFound) {
		common.ErrorResponse(c, 404, "Memoir not found", err)
		return
	}
	if err != nil {
		common.ErrorResponse(c, 500, "Failed to fetch memoir", err)
		return
	}

	common.Success(c, memoir)
}

// Search godoc
// @Summary      Search public memoirs
// @Description  Full-text search over public memoir titles and content
// @Tags         community
// @Produce      json
// @Param        q      query  string  true   "Search query"
// @Param        page   query  int     false  "Page number"
// @Param        limit  query  int     false  "Page size (max 100)"
// @Success      200  {object}  common.Response{data=[]domain.MemoirSummary}
// @Failure      400  {object}  common.Response
// @Router       /community/search [get]
func (h *CommunityHandler) Search(c *gin.Context) {
	q := strings.TrimSpace(c.Query("q"))
	if q == "" {
		common.ErrorResponse(c, 400, "Search query is required", nil)
		return
	}
	page, limit := ginutil.Pagination(c)

	memoirs, total, err := h.service.Search(c.Request.Context(), q, page, limit)
	if err != nil {
		common.ErrorResponse(c, 500, "Search failed", err)
		return
	}

	common.SuccessWithMeta(c, memoirs, common.NewMeta(page, limit, total))
}

// AddComment godoc
// @Summary      Comment on a public memoir
// @Tags         community
// @Accept       json
// @Produce      json
// @Param        id       path  int                   true  "Memoir ID"
// @Param        request  body  CreateCommentRequest  true  "Comment payload"
// @Success      201  {object}  common.Response{data=domain.Comment}
// @Failure      400  {object}  common.Response
// @Failure      401  {object}  common.Response
// @Failure      404  {object}  common.Response
// @Security     BearerAuth
// @Router       /community/memoirs/{id}/comments [post]
func (h *CommunityHandler) AddComment(c *gin.Context) {
	memoirID, err := ginutil.ParamUint64(c, "id")
	if err != nil {
		common.ErrorResponse(c, 400, "Invalid memoir ID", err)
		return
	}

	var req CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, 400, "Invalid request body", err)
		return
	}

	userID := middleware.GetUserIDUint64(c)
	comment, err := h.service.AddComment(userID, memoirID, req.Content)
	if errors.Is(err, common.ErrMemoirNotFound) {
		common.ErrorResponse(c, 404, "Memoir not found", err)
		return
	}
	if err != nil {
		common.ErrorResponse(c, 500, "Failed to create comment", err)
		return
	}

	common.Created(c, comment)
}

// ListComments godoc
// @Summary      List comments of a public memoir
// @Tags         community
// @Produce      json
// @Param        id     path   int  true   "Memoir ID"
// @Param        page   query  int  false  "Page number"
// @Param        limit  query  int  false  "Page size (max 100)"
// @Success      200  {object}  common.Response{data=[]domain.CommentResponse}
// @Failure      400  {object}  common.Response
// @Failure      404  {object}  common.Response
// @Router       /community/memoirs/{id}/comments [get]
func (h *CommunityHandler) ListComments(c *gin.Context) {
	memoirID, err := ginutil.ParamUint64(c, "id")
	if err != nil {
		common.ErrorResponse(c, 400, "Invalid memoir ID", err)
		return
	}
	page, limit := ginutil.Pagination(c)

	comments, total, err := h.service.ListComments(memoirID, page, limit)
	if errors.Is(err, common.ErrMemoirNotFound) {
		common.ErrorResponse(c, 404, "Memoir not found", err)
		return
	}
	if err != nil {
		common.ErrorResponse(c, 500, "Failed to fetch comments", err)
		return
	}

	common.SuccessWithMeta(c, comments, common.NewMeta(page, limit, total))
}

// DeleteComment godoc
// @Summary      Delete own comment
// @Tags         community
// @Produce      json
// @Param        id  path  int  true  "Comment ID"
// @Success      204  "No Content"
// @Failure      400  {object}  common.Response
// @Failure      401  {object}  common.Response
// @Failure      404  {object}  common.Response
// @Security     BearerAuth
// @Router       /community/comments/{id} [delete]
func (h *CommunityHandler) DeleteComment(c *gin.Context) {
	commentID, err := ginutil.ParamUint64(c, "id")
	if err != nil {
		common.ErrorResponse(c, 400, "Invalid comment ID", err)
		return
	}

	userID := middleware.GetUserIDUint64(c)
	err = h.service.DeleteComment(userID, commentID)
	if errors.Is(err, common.ErrCommentNotFound) {
		common.ErrorResponse(c, 404, "Comment not found", err)
		return
	}
	if err != nil {
		common.ErrorResponse(c, 500, "Failed to delete comment", err)
		return
	}

	common.NoContent(c)
}

// Like godoc
// @Summary      Like a public memoir
// @Tags         community
// @Produce      json
// @Param        id  path  int  true  "Memoir ID"
// @Success      200  {object}  common.Response{data=domain.LikeResponse}
// @Failure      400  {object}  common.Response
// @Failure      401  {object}  common.Response
// @Failure      404  {object}  common.Response
// @Failure      409  {object}  common.Response
// @Security     BearerAuth
// @Router       /community/memoirs/{id}/like [post]
func (h *CommunityHandler) Like(c *gin.Context) {
	memoirID, err := ginutil.ParamUint64(c, "id")
	if err != nil {
		common.ErrorResponse(c, 400, "Invalid memoir ID", err)
		return
	}

	userID := middleware.GetUserIDUint64(c)
	state, err := h.service.Like(userID, memoirID)
	if errors.Is(err, common.ErrMemoirNotFound) {
		common.ErrorResponse(c, 404, "Memoir not found", err)
		return
	}
	if errors.Is(err, common.ErrAlreadyLiked) {
		common.ErrorResponse(c, 409, "Already liked", err)
		return
	}
	if err != nil {
		common.ErrorResponse(c, 500, "Failed to like memoir", err)
		return
	}

	common.Success(c, state)
}

// Unlike godoc
// @Summary      Remove a like
// @Tags         community
// @Produce      json
// @Param        id  path  int  true  "Memoir ID"
// @Success      200  {object}  common.Response{data=domain.LikeResponse}
// @Failure      400  {object}  common.Response
// @Failure      401  {object}  common.Response
// @Failure      404  {object}  common.Response
// @Security     BearerAuth
// @Router       /community/memoirs/{id}/like [delete]
func (h *CommunityHandler) Unlike(c *gin.Context) {
	memoirID, err := ginutil.ParamUint64(c, "id")
	if err != nil {
		common.ErrorResponse(c, 400, "Invalid memoir ID", err)
		return
	}

	userID := middleware.GetUserIDUint64(c)
	state, err := h.service.Unlike(userID, memoirID)
	if errors.Is(err, common.ErrNotLiked) {
		common.ErrorResponse(c, 404, "Not liked", err)
		return
	}
	if err != nil {
		common.ErrorResponse(c, 500, "Failed to unlike memoir", err)
		return
	}

	common.Success(c, state)
}
