package controllers

import (
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/fixnow-api/utils"
)

// UploadController serves images stored on the local disk
type UploadController struct {
	dir string
}

// NewUploadController creates an upload controller reading from dir
func NewUploadController(dir string) *UploadController {
	return &UploadController{dir: dir}
}

// GetUploadedImage handles GET /api/v1/uploads/:filename - serves uploaded profile images
func (ctl *UploadController) GetUploadedImage(c *gin.Context) {
	filename := c.Param("filename")

	// Prevent directory traversal
	if !utils.SafeFilename(filename) {
		respondFailure(c, http.StatusBadRequest, "INVALID_FILENAME", "Invalid filename")
		return
	}

	contentType, ok := utils.ImageContentType(filename)
	if !ok {
		respondFailure(c, http.StatusBadRequest, "INVALID_FILE_TYPE", "Only PNG and JPEG files are supported")
		return
	}

	filePath := filepath.Join(ctl.dir, filename)
	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		respondFailure(c, http.StatusNotFound, "FILE_NOT_FOUND", "Image not found")
		return
	}

	c.Header("Content-Type", contentType)
	c.Header("Cache-Control", "public, max-age=86400") // Cache for 24 hours
	c.File(filePath)
}
