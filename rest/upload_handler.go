package rest

import (
	"net/http"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"

	"chat-relay/domain"
)

const maxUploadBytes = 10 << 20 // 10 MB

// uploadFile stores a message attachment and returns the reference the
// client embeds in a subsequent message:send.
func (s *Server) uploadFile(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "No file uploaded"})
		return
	}
	if header.Size > maxUploadBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"success": false, "message": "File too large"})
		return
	}

	file, err := header.Open()
	if err != nil {
		s.fail(c, err, "Error reading uploaded file")
		return
	}
	defer file.Close()

	url, detected, err := s.uploads.Save(header.Filename, file)
	if err != nil {
		s.fail(c, err, "Error storing uploaded file")
		return
	}

	kind := domain.FileDocument
	if detected != nil && mimetype.EqualsAny(detected.String(),
		"image/png", "image/jpeg", "image/gif", "image/webp") {
		kind = domain.FileImage
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"file": domain.FileRef{
			URL:      url,
			Kind:     kind,
			Filename: header.Filename,
		},
	})
}
