// internal/handlers/content.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/Doquocdung1609/Mini-Marketplace/internal/services"
	"github.com/Doquocdung1609/Mini-Marketplace/internal/utils"
)

type ContentHandler struct {
	storageService *services.StorageService
}

func NewContentHandler(storageService *services.StorageService) *ContentHandler {
	return &ContentHandler{storageService: storageService}
}

// POST /content
func (h *ContentHandler) UploadContent(c *gin.Context) {
	if _, ok := callerID(c); !ok {
		return
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		utils.BadRequestResponse(c, "File is required", err.Error())
		return
	}
	defer file.Close()

	result, err := h.storageService.UploadContent(file, header, h.storageService.DefaultUploadOptions())
	if err != nil {
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.CreatedResponse(c, result)
}
