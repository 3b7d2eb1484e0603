package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/sunsetmemories/backend/internal/common"
	"github.com/sunsetmemories/backend/internal/middleware"
	"github.com/sunsetmemories/backend/internal/service"
	"github.com/sunsetmemories/backend/pkg/ginutil"
)

// MemoirHandler handles memoir and chapter requests
type MemoirHandler struct {
	service       *service.MemoirService
	transcription *service.TranscriptionService
}

// NewMemoirHandler creates a new MemoirHandler
func NewMemoirHandler(service *service.MemoirService, transcription *service.TranscriptionService) *MemoirHandler {
	return &MemoirHandler{service: service, transcription: transcription}
}

// CreateMemoirRequest memoir creation request
type CreateMemoirRequest struct {
	Title    string `json:"title" binding:"required,max=200"`
	Content  string `json:"content"`
	IsPublic bool   `json:"is_public"`
}

// UpdateMemoirRequest memoir update request
type UpdateMemoirRequest struct {
	Title    *string `json:"title" binding:"omitempty,min=1,max=200"`
	Content  *string `json:"content"`
	IsPublic *bool   `json:"is_public"`
}

// CreateChapterRequest chapter creation request
type CreateChapterRequest struct {
	Title    string `json:"title" binding:"required,max=200"`
	Content  string `json:"content"`
	OrderNum *int   `json:"order_num" binding:"omitempty,gte=0"`
}

// UpdateChapterRequest chapter update request
type UpdateChapterRequest struct {
	Title    *string `json:"title" binding:"omitempty,min=1,max=200"`
	Content  *string `json:"content"`
	OrderNum *int    `json:"order_num" binding:"omitempty,gte=0"`
}

// ReorderChaptersRequest chapter reorder request
type ReorderChaptersRequest struct {
	ChapterIDs []uint64 `json:"chapter_ids" binding:"required,min=1"`
}

// OutlineRequest chapter outline generation request
type OutlineRequest struct {
	Transcript string `json:"transcript" binding:"required"`
}

// Create godoc
// @Summary      Create a memoir
// @Tags         memoirs
// @Accept       json
// @Produce      json
// @Param        request  body      CreateMemoirRequest  true  "Memoir payload"
// @Success      201  {object}  common.Response{data=domain.Memoir}
// @Failure      400  {object}  common.Response
// @Failure      401  {object}  common.Response
// @Security     BearerAuth
// @Router       /memoirs [post]
func (h *MemoirHandler) Create(c *gin.Context) {
	var req CreateMemoirRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, 400, "Invalid request body", err)
		return
	}

	userID := middleware.GetUserIDUint64(c)
	memoir, err := h.service.Create(c.Request.Context(), userID, service.CreateMemoirInput{
		Title:    req.Title,
		Content:  req.Content,
		IsPublic: req.IsPublic,
	})
	if err != nil {
		common.ErrorResponse(c, 500, "Failed to create memoir", err)
		return
	}

	common.Created(c, memoir)
}

// Get godoc
// @Summary      Memoir detail
// @Description  Returns an owned or shared memoir with ordered chapters
// @Tags         memoirs
// @Produce      json
// @Param        id  path  int  true  "Memoir ID"
// @Success      200  {object}  common.Response{data=domain.Memoir}
// @Failure      400  {object}  common.Response
// @Failure      401  {object}  common.Response
// @Failure      404  {object}  common.Response
// @Security     BearerAuth
// @Router       /memoirs/{id} [get]
func (h *MemoirHandler) Get(c *gin.Context) {
	id, err := ginutil.ParamUint64(c, "id")
	if err != nil {
		common.ErrorResponse(c, 400, "Invalid memoir ID", err)
		return
	}

	userID := middleware.GetUserIDUint64(c)
	memoir, err := h.service.Get(userID, id)
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

// Update godoc
// @Summary      Update a memoir
// @Description  Partial update; only the owner may change visibility
// @Tags         memoirs
// @Accept       json
// @Produce      json
// @Param        id       path  int                  true  "Memoir ID"
// @Param        request  body  UpdateMemoirRequest  true  "Fields to update"
// @Success      200  {object}  common.Response{data=domain.Memoir}
// @Failure      400  {object}  common.Response
// @Failure      401  {object}  common.Response
// @Failure      404  {object}  common.Response
// @Security     BearerAuth
// @Router       /memoirs/{id} [put]
func (h *MemoirHandler) Update(c *gin.Context) {
	id, err := ginutil.ParamUint64(c, "id")
	if err != nil {
		common.ErrorResponse(c, 400, "Invalid memoir ID", err)
		return
	}

	var req UpdateMemoirRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, 400, "Invalid request body", err)
		return
	}

	userID := middleware.GetUserIDUint64(c)
	memoir, err := h.service.Update(c.Request.Context(), userID, id, service.UpdateMemoirInput{
		Title:    req.Title,
		Content:  req.Content,
		IsPublic: req.IsPublic,
	})
	if errors.Is(err, common.ErrMemoirNotFound) {
		common.ErrorResponse(c, 404, "Memoir not found", err)
		return
	}
	if err != nil {
		common.ErrorResponse(c, 500, "Failed to update memoir", err)
		return
	}

	common.Success(c, memoir)
}

// Delete godoc
// @Summary      Delete a memoir
// @Description  Owner only; chapters, collaborations, comments and likes cascade
// @Tags         memoirs
// @Produce      json
// @Param        id  path  int  true  "Memoir ID"
// @Success      204  "No Content"
// @Failure      400  {object}  common.Response
// @Failure      401  {object}  common.Response
// @Failure      404  {object}  common.Response
// @Security     BearerAuth
// @Router       /memoirs/{id} [delete]
func (h *MemoirHandler) Delete(c *gin.Context) {
	id, err := ginutil.ParamUint64(c, "id")
	if err != nil {
		common.ErrorResponse(c, 400, "Invalid memoir ID", err)
		return
	}

	userID := middleware.GetUserIDUint64(c)
	err = h.service.Delete(c.Request.Context(), userID, id)
	if errors.Is(err, common.ErrMemoirNotFound) {
		common.ErrorResponse(c, 404, "Memoir not found", err)
		return
	}
	if err != nil {
		common.ErrorResponse(c, 500, "Failed to delete memoir", err)
		return
	}

	common.NoContent(c)
}

// ListMine godoc
// @Summary      List own memoirs
// @Tags         memoirs
// @Produce      json
// @Param        page   query  int  false  "Page number"
// @Param        limit  query  int  false  "Page size (max 100)"
// @Success      200  {object}  common.Response{data=[]domain.Memoir}
// @Failure      401  {object}  common.Response
// @Security     BearerAuth
// @Router       /memoirs [get]
func (h *MemoirHandler) ListMine(c *gin.Context) {
	page, limit := ginutil.Pagination(c)
	userID := middleware.GetUserIDUint64(c)

	memoirs, total, err := h.service.ListMine(userID, page, limit)
	if err != nil {
		common.ErrorResponse(c, 500, "Failed to fetch memoirs", err)
		return
	}

	common.SuccessWithMeta(c, memoirs, common.NewMeta(page, limit, total))
}

// ListShared godoc
// @Summary      List memoirs shared with the caller
// @Description  Memoirs where the caller is an accepted collaborator
// @Tags         memoirs
// @Produce      json
// @Param        page   query  int  false  "Page number"
// @Param        limit  query  int  false  "Page size (max 100)"
// @Success      200  {object}  common.Response{data=[]domain.Memoir}
// @Failure      401  {object}  common.Response
// @Security     BearerAuth
// @Router       /memoirs/shared [get]
func (h *MemoirHandler) ListShared(c *gin.Context) {
	page, limit := ginutil.Pagination(c)
	userID := middleware.GetUserIDUint64(c)

	memoirs, total, err := h.service.ListShared(userID, page, limit)
	if err != nil {
		common.ErrorResponse(c, 500, "Failed to fetch shared memoirs", err)
		return
	}

	common.SuccessWithMeta(c, memoirs, common.NewMeta(page, limit, total))
}

// AddChapter godoc
// @Summary      Add a chapter
// @Tags         memoirs
// @Accept       json
// @Produce      json
// @Param        id       path  int                   true  "Memoir ID"
// @Param        request  body  CreateChapterRequest  true  "Chapter payload"
// @Success      201  {object}  common.Response{data=domain.Chapter}
// @Failure      400  {object}  common.Response
// @Failure      401  {object}  common.Response
// @Failure      404  {object}  common.Response
// @Security     BearerAuth
// @Router       /memoirs/{id}/chapters [post]
func (h *MemoirHandler) AddChapter(c *gin.Context) {
	memoirID, err := ginutil.ParamUint64(c, "id")
	if err != nil {
		common.ErrorResponse(c, 400, "Invalid memoir ID", err)
		return
	}

	var req CreateChapterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, 400, "Invalid request body", err)
		return
	}

	userID := middleware.GetUserIDUint64(c)
	chapter, err := h.service.AddChapter(userID, memoirID, service.CreateChapterInput{
		Title:    req.Title,
		Content:  req.Content,
		OrderNum: req.OrderNum,
	})
	if errors.Is(err, common.ErrMemoirNotFound) {
		common.ErrorResponse(c, 404, "Memoir not found", err)
		return
	}
	if err != nil {
		common.ErrorResponse(c, 500, "Failed to create chapter", err)
		return
	}

	common.Created(c, chapter)
}

// UpdateChapter godoc
// @Summary      Update a chapter
// @Tags         memoirs
// @Accept       json
// @Produce      json
// @Param        id          path  int                   true  "Memoir ID"
// @Param        chapter_id  path  int                   true  "Chapter ID"
// @Param        request     body  UpdateChapterRequest  true  "Fields to update"
// @Success      200  {object}  common.Response{data=domain.Chapter}
// @Failure      400  {object}  common.Response
// @Failure      401  {object}  common.Response
// @Failure      404  {object}  common.Response
// @Security     BearerAuth
// @Router       /memoirs/{id}/chapters/{chapter_id} [put]
func (h *MemoirHandler) UpdateChapter(c *gin.Context) {
	memoirID, err := ginutil.ParamUint64(c, "id")
	if err != nil {
		common.ErrorResponse(c, 400, "Invalid memoir ID", err)
		return
	}
	chapterID, err := ginutil.ParamUint64(c, "chapter_id")
	if err != nil {
		common.ErrorResponse(c, 400, "Invalid chapter ID", err)
		return
	}

	var req UpdateChapterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, 400, "Invalid request body", err)
		return
	}

	userID := middleware.GetUserIDUint64(c)
	chapter, err := h.service.UpdateChapter(userID, memoirID, chapterID, service.UpdateChapterInput{
		Title:    req.Title,
		Content:  req.Content,
		OrderNum: req.OrderNum,
	})
	if errors.Is(err, common.ErrMemoirNotFound) {
		common.ErrorResponse(c, 404, "Memoir not found", err)
		return
	}
	if errors.Is(err, common.ErrChapterNotFound) {
		common.ErrorResponse(c, 404, "Chapter not found", err)
		return
	}
	if err != nil {
		common.ErrorResponse(c, 500, "Failed to update chapter", err)
		return
	}

	common.Success(c, chapter)
}

// DeleteChapter godoc
// @Summary      Delete a chapter
// @Tags         memoirs
// @Produce      json
// @Param        id          path  int  true  "Memoir ID"
// @Param        chapter_id  path  int  true  "Chapter ID"
// @Success      204  "No Content"
// @Failure      400  {object}  common.Response
// @Failure      401  {object}  common.Response
// @Failure      404  {object}  common.Response
// @Security     BearerAuth
// @Router       /memoirs/{id}/chapters/{chapter_id} [delete]
func (h *MemoirHandler) DeleteChapter(c *gin.Context) {
	memoirID, err := ginutil.ParamUint64(c, "id")
	if err != nil {
		common.ErrorResponse(c, 400, "Invalid memoir ID", err)
		return
	}
	chapterID, err := ginutil.ParamUint64(c, "chapter_id")
	if err != nil {
		common.ErrorResponse(c, 400, "Invalid chapter ID", err)
		return
	}

	userID := middleware.GetUserIDUint64(c)
	err = h.service.DeleteChapter(userID, memoirID, chapterID)
	if errors.Is(err, common.ErrMemoirNotFound) {
		common.ErrorResponse(c, 404, "Memoir not found", err)
		return
	}
	if errors.Is(err, common.ErrChapterNotFound) {
		common.ErrorResponse(c, 404, "Chapter not found", err)
		return
	}
	if err != nil {
		common.ErrorResponse(c, 500, "Failed to delete chapter", err)
		return
	}

	common.NoContent(c)
}

// ReorderChapters godoc
// @Summary      Reorder chapters
// @Description  Accepts the full ordered chapter id list for the memoir
// @Tags         memoirs
// @Accept       json
// @Produce      json
// @Param        id       path  int                     true  "Memoir ID"
// @Param        request  body  ReorderChaptersRequest  true  "Ordered chapter ids"
// @Success      200  {object}  common.Response{data=[]domain.Chapter}
// @Failure      400  {object}  common.Response
// @Failure      401  {object}  common.Response
// @Failure      404  {object}  common.Response
// @Security     BearerAuth
// @Router       /memoirs/{id}/chapters/reorder [put]
func (h *MemoirHandler) ReorderChapters(c *gin.Context) {
	memoirID, err := ginutil.ParamUint64(c, "id")
	if err != nil {
		common.ErrorResponse(c, 400, "Invalid memoir ID", err)
		return
	}

	var req ReorderChaptersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, 400, "Invalid request body", err)
		return
	}

	userID := middleware.GetUserIDUint64(c)
	chapters, err := h.service.ReorderChapters(userID, memoirID, req.ChapterIDs)
	if errors.Is(err, common.ErrMemoirNotFound) {
		common.ErrorResponse(c, 404, "Memoir not found", err)
		return
	}
	if errors.Is(err, common.ErrChapterNotFound) {
		common.ErrorResponse(c, 400, "Chapter list does not match memoir", err)
		return
	}
	if err != nil {
		common.ErrorResponse(c, 500, "Failed to reorder chapters", err)
		return
	}

	common.Success(c, chapters)
}

// GenerateOutline godoc
// @Summary      Generate a chapter outline from a transcript
// @Tags         memoirs
// @Accept       json
// @Produce      json
// @Param        request  body  OutlineRequest  true  "Transcript text"
// @Success      200  {object}  common.Response
// @Failure      400  {object}  common.Response
// @Failure      401  {object}  common.Response
// @Security     BearerAuth
// @Router       /memoirs/outline [post]
func (h *MemoirHandler) GenerateOutline(c *gin.Context) {
	var req OutlineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, 400, "Invalid request body", err)
		return
	}

	outline, err := h.transcription.GenerateOutline(req.Transcript)
	if errors.Is(err, common.ErrInvalidInput) {
		common.ErrorResponse(c, 400, "Transcript is empty", err)
		return
	}
	if err != nil {
		common.ErrorResponse(c, 500, "Failed to generate outline", err)
		return
	}

	common.Success(c, gin.H{"chapters": outline})
}
