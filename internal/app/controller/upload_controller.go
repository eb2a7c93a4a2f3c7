package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	apperrors "github.com/vitalbites/vitalbites-backend/internal/errors"
	"github.com/vitalbites/vitalbites-backend/internal/middleware"
	"github.com/vitalbites/vitalbites-backend/internal/storage"
)

const maxImageSize = 5 * 1024 * 1024 // 5MB

var allowedImageTypes = []string{"image/jpeg", "image/png", "image/webp"}

// UploadController signs direct-to-S3 uploads for dish images.
type UploadController struct {
	storage *storage.S3Storage
}

func NewUploadController(s3Storage *storage.S3Storage) *UploadController {
	return &UploadController{
		storage: s3Storage,
	}
}

type PresignRequest struct {
	Filename    string `json:"filename" binding:"required"`
	ContentType string `json:"content_type" binding:"required"`
	Size        int64  `json:"size" binding:"required"`
}

// PresignMenuImage returns a pre-signed upload URL for a menu image (admin)
// POST /api/menu/upload
func (ctrl *UploadController) PresignMenuImage(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req PresignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Filename, content type and size are required")
		return
	}

	if err := ctrl.storage.ValidateContentType(req.ContentType, allowedImageTypes); err != nil {
		log.Warn("Upload rejected: content type not allowed", map[string]interface{}{
			"content_type": req.ContentType,
		})
		apperrors.BadRequest(c, apperrors.UploadInvalidFileType, "Only JPEG, PNG and WebP images are allowed")
		return
	}
	if err := ctrl.storage.ValidateFileSize(req.Size, maxImageSize); err != nil {
		log.Warn("Upload rejected: file too large", map[string]interface{}{
			"size": req.Size,
		})
		apperrors.BadRequest(c, apperrors.UploadFileTooLarge, "Images can be at most 5MB")
		return
	}

	result, err := ctrl.storage.GeneratePresignedURL(req.Filename, req.ContentType, "menu")
	if err != nil {
		log.Error("Failed to generate upload URL", err, map[string]interface{}{
			"filename": req.Filename,
		})
		apperrors.RespondWithError(c, http.StatusInternalServerError, apperrors.UploadFailed, "Failed to prepare upload")
		return
	}

	log.Info("Upload URL generated", map[string]interface{}{
		"key": result.Key,
	})
	c.JSON(http.StatusOK, result)
}
