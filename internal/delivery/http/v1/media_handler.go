package v1

import (
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"go-course-backend/internal/delivery/http/response"
	"go-course-backend/internal/domain"
	"go-course-backend/pkg/apperror"
	"go-course-backend/pkg/security"
	"go-course-backend/pkg/storage"
)

// maxUploadBytes caps course thumbnails and lesson PDFs at 10 MB.
const maxUploadBytes = 10 << 20

type MediaHandler struct {
	uploader storage.Uploader
}

// NewMediaHandler registers the admin media upload route. A nil uploader
// means object storage is unconfigured; the route then reports 503.
func NewMediaHandler(admin *gin.RouterGroup, uploader storage.Uploader, uploadLimit gin.HandlerFunc) {
	handler := &MediaHandler{uploader: uploader}

	admin.POST("/media", uploadLimit, handler.Upload)
}

// Upload godoc
// @Summary      Upload course media
// @Description  Accepts a thumbnail image or lesson PDF, validates the content against its declared type and stores it in object storage.
// @Tags         admin
// @Accept       multipart/form-data
// @Produce      json
// @Param        file  formData  file  true  "Media file (jpg, png, gif, webp, pdf; max 10 MB)"
// @Success      201   {object}  response.Response
// @Failure      400   {object}  response.Response
// @Failure      503   {object}  response.Response
// @Router       /admin/media [post]
// @Security     BearerAuth
func (h *MediaHandler) Upload(c *gin.Context) {
	if h.uploader == nil {
		c.Error(apperror.New(http.StatusServiceUnavailable, "Media storage is not configured", nil))
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.Error(apperror.BadRequest("file field is required"))
		return
	}
	if fileHeader.Size > maxUploadBytes {
		c.Error(apperror.BadRequest("file exceeds the 10 MB limit"))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.Error(err)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes+1))
	if err != nil {
		c.Error(err)
		return
	}
	if len(data) > maxUploadBytes {
		c.Error(apperror.BadRequest("file exceeds the 10 MB limit"))
		return
	}

	detectedMIME := http.DetectContentType(data)
	result := security.ValidateUpload(fileHeader.Filename, data, detectedMIME)
	if !result.Valid {
		c.Error(apperror.BadRequest(result.Error))
		return
	}

	key := fmt.Sprintf("media/%s/%s%s",
		time.Now().Format("2006/01"),
		uuid.NewString(),
		strings.ToLower(filepath.Ext(fileHeader.Filename)),
	)

	url, err := h.uploader.Upload(c.Request.Context(), key, detectedMIME, data)
	if err != nil {
		c.Error(fmt.Errorf("media upload failed: %w", err))
		return
	}

	h.logUpload(c, key)
	response.Success(c, http.StatusCreated, "File uploaded", gin.H{"url": url, "key": key})
}

func (h *MediaHandler) logUpload(c *gin.Context, key string) {
	logger := security.DefaultLogger()
	if logger != nil {
		requestID, _ := c.Get("RequestID")
		reqIDStr, _ := requestID.(string)
		logger.LogAdminAction(c.Request.Context(), c.GetString(string(domain.KeyUserID)), reqIDStr, "media_upload", key)
	}
}
