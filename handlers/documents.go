package handlers

import (
	"mime"
	"net/http"

	"contract-claims-api/middleware"

	"github.com/gin-gonic/gin"
)

// DownloadDocument streams a stored document to its claim's owner or a reviewer
func (h *Handler) DownloadDocument(c *gin.Context) {
	claimID, ok := paramID(c, "id")
	if !ok {
		return
	}
	docID, ok := paramID(c, "docId")
	if !ok {
		return
	}

	doc, rc, err := h.claims.OpenDocument(c.Request.Context(), middleware.GetCaller(c), claimID, docID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	defer rc.Close()

	disposition := mime.FormatMediaType("attachment", map[string]string{"filename": doc.OriginalName})
	c.DataFromReader(http.StatusOK, -1, doc.ContentType, rc, map[string]string{
		"Content-Disposition": disposition,
	})
}
