package controllers

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/vee4group/order-tracker-api/utils"
)

// GetUploadedDocument handles GET /api/v1/uploads/:filename - serves PDFs from the local document store
func GetUploadedDocument(c *gin.Context) {
	filename := c.Param("filename")

	if filename == "" {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", "Filename is required")
		return
	}

	// Prevent directory traversal
	if !utils.IsSafeFilename(filename) {
		respondError(c, http.StatusBadRequest, "INVALID_FILENAME", "Invalid filename")
		return
	}

	if strings.ToLower(filepath.Ext(filename)) != utils.AllowedDocumentFormat {
		respondError(c, http.StatusBadRequest, "INVALID_FILE_TYPE", "Only PDF files are supported")
		return
	}

	filePath := filepath.Join(utils.UploadDir, filename)
	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		respondError(c, http.StatusNotFound, "FILE_NOT_FOUND", "Document not found")
		return
	}

	c.Header("Content-Type", "application/pdf")
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Header("Cache-Control", "private, max-age=3600")
	c.File(filePath)
}
