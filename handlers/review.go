package handlers

import (
	"net/http"

	"contract-claims-api/middleware"
	"contract-claims-api/models"
	"contract-claims-api/reports"
	"contract-claims-api/services"

	"github.com/gin-gonic/gin"
)

// ClaimQuery holds the list filters accepted on claim listings.
type ClaimQuery struct {
	Status string `form:"status"`
	UserID uint   `form:"user_id"`
	reports.Filter
}

func (q ClaimQuery) filter(c *gin.Context) (services.ListFilter, bool) {
	f := services.ListFilter{UserID: q.UserID, Period: q.Filter}
	if q.Status != "" {
		st, ok := models.ParseClaimStatus(q.Status)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":          "Invalid status",
				"valid_statuses": models.AllStatuses,
			})
			return f, false
		}
		f.Status = st
	}
	return f, true
}

// ListClaims returns every claim for reviewers with a status summary
func (h *Handler) ListClaims(c *gin.Context) {
	var q ClaimQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	f, ok := q.filter(c)
	if !ok {
		return
	}
	claims, err := h.claims.List(c.Request.Context(), middleware.GetCaller(c), f)
	if err != nil {
		h.respondError(c, err)
		return
	}

	summary := map[string]int{}
	for _, cl := range claims {
		summary[string(cl.Status)]++
	}

	c.JSON(http.StatusOK, gin.H{
		"claim_summary": summary,
		"count":         len(claims),
		"claims":        claims,
	})
}

// GetClaim returns any claim with its documents and history
func (h *Handler) GetClaim(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	claim, err := h.claims.Get(c.Request.Context(), middleware.GetCaller(c), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"claim":             claim,
		"valid_next_states": validNext(claim.Status),
	})
}

type UpdateClaimStatusRequest struct {
	Status string `json:"status" binding:"required"`
	Note   string `json:"note" binding:"max=500"`
}

// UpdateClaimStatus drives a claim through review
func (h *Handler) UpdateClaimStatus(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req UpdateClaimStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	to, ok := models.ParseClaimStatus(req.Status)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status", "valid_statuses": models.AllStatuses})
		return
	}

	claim, err := h.claims.Transition(c.Request.Context(), middleware.GetCaller(c), id, to, req.Note)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":           "Claim status updated to " + string(claim.Status),
		"claim":             claim,
		"valid_next_states": validNext(claim.Status),
	})
}

// DeleteClaim removes a claim with its documents
func (h *Handler) DeleteClaim(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.claims.Delete(c.Request.Context(), middleware.GetCaller(c), id); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Claim deleted", "claim_id": id})
}
