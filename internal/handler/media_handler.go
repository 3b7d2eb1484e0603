package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sunsetmemories/backend/internal/common"
	"github.com/sunsetmemories/backend/internal/middleware"
	"github.com/sunsetmemories/backend/internal/service"
	"github.com/sunsetmemories/backend/pkg/ginutil"
)

// MediaHandler handles recording upload and transcription requests
type MediaHandler struct {
	media         *service.MediaService
	transcription *service.TranscriptionService
}

// NewMediaHandler creates a new MediaHandler
func NewMediaHandler(media *service.MediaService, transcription *service.TranscriptionService) *MediaHandler {
	return &MediaHandler{media: media, transcription: transcription}
}

// UploadRecording godoc
// @Summary      Upload an audio recording
// @Description  Multipart upload; audio MIME types only, size-capped
// @Tags         media
// @Accept       multipart/form-data
// @Produce      json
// @Param        file  formData  file  true  "Audio file"
// @Success      201  {object}  common.Response{data=domain.Recording}
// @Failure      400  {object}  common.Response
// @Failure      401  {object}  common.Response
// @Failure      413  {object}  common.Response
// @Failure      415  {object}  common.Response
// @Security     BearerAuth
// @Router       /media/recordings [post]
func (h *MediaHandler) UploadRecording(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		common.ErrorResponse(c, 400, "Missing file field", err)
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		common.ErrorResponse(c, 400, "Cannot read uploaded file", err)
		return
	}
	defer f.Close()

	userID := middleware.GetUserIDUint64(c)
	rec, err := h.media.UploadRecording(
		c.Request.Context(),
		userID,
		fileHeader.Filename,
		fileHeader.Header.Get("Content-Type"),
		f,
		fileHeader.Size,
	)
	if errors.Is(err, service.ErrUnsupportedMediaType) {
		common.ErrorResponse(c, http.StatusUnsupportedMediaType, "Only audio uploads are accepted", err)
		return
	}
	if errors.Is(err, service.ErrFileTooLarge) {
		common.ErrorResponse(c, http.StatusRequestEntityTooLarge, "File exceeds the upload size limit", err)
		return
	}
	if err != nil {
		common.ErrorResponse(c, 500, "Failed to store recording", err)
		return
	}

	common.Created(c, rec)
}

// ListRecordings godoc
// @Summary      List own recordings
// @Tags         media
// @Produce      json
// @Param        page   query  int  false  "Page number"
// @Param        limit  query  int  false  "Page size (max 100)"
// @Success      200  {object}  common.Response{data=[]domain.Recording}
// @Failure      401  {object}  common.Response
// @Security     BearerAuth
// @Router       /media/recordings [get]
func (h *MediaHandler) ListRecordings(c *gin.Context) {
	page, limit := ginutil.Pagination(c)
	userID := middleware.GetUserIDUint64(c)

	recs, total, err := h.media.ListRecordings(userID, page, limit)
	if err != nil {
		common.ErrorResponse(c, 500, "Failed to fetch recordings", err)
		return
	}

	common.SuccessWithMeta(c, recs, common.NewMeta(page, limit, total))
}

// GetRecording godoc
// @Summary      Recording detail
// @Tags         media
// @Produce      json
// @Param        id  path  int  true  "Recording ID"
// @Success      200  {object}  common.Response{data=domain.Recording}
// @Failure      400  {object}  common.Response
// @Failure      401  {object}  common.Response
// @Failure      404  {object}  common.Response
// @Security     BearerAuth
// @Router       /media/recordings/{id} [get]
func (h *MediaHandler) GetRecording(c *gin.Context) {
	id, err := ginutil.ParamUint64(c, "id")
	if err != nil {
		common.ErrorResponse(c, 400, "Invalid recording ID", err)
		return
	}

	userID := middleware.GetUserIDUint64(c)
	rec, err := h.media.GetRecording(userID, id)
	if errors.Is(err, common.ErrNotFound) {
		common.ErrorResponse(c, 404, "Recording not found", err)
		return
	}
	if err != nil {
		common.ErrorResponse(c, 500, "Failed to fetch recording", err)
		return
	}

	common.Success(c, rec)
}

// DeleteRecording godoc
// @Summary      Delete a recording
// @Description  Removes the stored object and the database row
// @Tags         media
// @Produce      json
// @Param        id  path  int  true  "Recording ID"
// @Success      204  "No Content"
// @Failure      400  {object}  common.Response
// @Failure      401  {object}  common.Response
// @Failure      404  {object}  common.Response
// @Security     BearerAuth
// @Router       /media/recordings/{id} [delete]
func (h *MediaHandler) DeleteRecording(c *gin.Context) {
	id, err := ginutil.ParamUint64(c, "id")
	if err != nil {
		common.ErrorResponse(c, 400, "Invalid recording ID", err)
		return
	}

	userID := middleware.GetUserIDUint64(c)
	err = h.media.DeleteRecording(c.Request.Context(), userID, id)
	if errors.Is(err, common.ErrNotFound) {
		common.ErrorResponse(c, 404, "Recording not found", err)
		return
	}
	if err != nil {
		common.ErrorResponse(c, 500, "Failed to delete recording", err)
		return
	}

	common.NoContent(c)
}

// Transcribe godoc
// @Summary      Transcribe a recording
// @Description  Returns the transcript text for an owned recording
// @Tags         media
// @Produce      json
// @Param        id  path  int  true  "Recording ID"
// @Success      200  {object}  common.Response{data=service.TranscriptResult}
// @Failure      400  {object}  common.Response
// @Failure      401  {object}  common.Response
// @Failure      404  {object}  common.Response
// @Security     BearerAuth
// @Router       /media/recordings/{id}/transcribe [post]
func (h *MediaHandler) Transcribe(c *gin.Context) {
	id, err := ginutil.ParamUint64(c, "id")
	if err != nil {
		common.ErrorResponse(c, 400, "Invalid recording ID", err)
		return
	}

	userID := middleware.GetUserIDUint64(c)
	result, err := h.transcription.Transcribe(userID, id)
	if errors.Is(err, common.ErrNotFound) {
		common.ErrorResponse(c, 404, "Recording not found", err)
		return
	}
	if err != nil {
		common.ErrorResponse(c, 500, "Transcription failed", err)
		return
	}

	common.Success(c, result)
}
