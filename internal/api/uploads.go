package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type base64UploadRequest struct {
	Image string `json:"image"`
}

type urlUploadRequest struct {
	URL string `json:"url"`
}

// uploadImage handles multipart image upload
func (h *Handler) uploadImage(c *gin.Context) {
	fh, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No image file provided"})
		return
	}

	url, fileName, err := h.uploads.StoreMultipart(c.Request.Context(), fh, "img")
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"imageUrl": url,
		"fileName": fileName,
	})
}

// uploadBase64 handles base64 data-URI upload
func (h *Handler) uploadBase64(c *gin.Context) {
	var req base64UploadRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Image == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or missing base64 image data"})
		return
	}

	url, fileName, err := h.uploads.StoreBase64(c.Request.Context(), req.Image, "base64")
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"imageUrl": url,
		"fileName": fileName,
	})
}

// uploadFromURL handles ingestion of a remote image by URL
func (h *Handler) uploadFromURL(c *gin.Context) {
	var req urlUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.URL == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or missing image URL"})
		return
	}

	url, fileName, err := h.uploads.StoreFromURL(c.Request.Context(), req.URL)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"imageUrl": url,
		"fileName": fileName,
	})
}
