package handlers

import (
	"net/http"

	"contract-claims-api/middleware"
	"contract-claims-api/services"

	"github.com/gin-gonic/gin"
)

// SubmitClaimRequest is bound from a multipart form or a JSON body.
type SubmitClaimRequest struct {
	HoursWorked float64 `form:"hours_worked" json:"hours_worked"`
	ModuleCode  string  `form:"module_code" json:"module_code" binding:"max=20"`
	Notes       string  `form:"notes" json:"notes" binding:"max=500"`
}

// LecturerDashboard returns the caller's claims with status counts
func (h *Handler) LecturerDashboard(c *gin.Context) {
	claims, err := h.claims.List(c.Request.Context(), middleware.GetCaller(c), services.ListFilter{})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"summary": services.CountStatuses(claims),
		"claims":  claims,
	})
}

// GetMyClaims lists the caller's claims, optionally by status
func (h *Handler) GetMyClaims(c *gin.Context) {
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
	c.JSON(http.StatusOK, gin.H{"count": len(claims), "claims": claims})
}

// DraftClaim returns a new claim pre-filled from the caller's profile
func (h *Handler) DraftClaim(c *gin.Context) {
	draft, err := h.claims.Draft(c.Request.Context(), middleware.GetCaller(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"claim": draft})
}

// SubmitClaim creates a claim and attaches any uploaded files. File failures
// are reported alongside the created claim.
func (h *Handler) SubmitClaim(c *gin.Context) {
	var req SubmitClaimRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	in := services.SubmitInput{
		HoursWorked: req.HoursWorked,
		ModuleCode:  req.ModuleCode,
		Notes:       req.Notes,
	}
	claim, result, err := h.claims.Submit(c.Request.Context(), middleware.GetCaller(c), in, uploadsFrom(c))
	if err != nil {
		h.respondError(c, err)
		return
	}

	body := uploadResponse(result)
	body["message"] = "Claim submitted successfully"
	body["claim"] = claim
	c.JSON(http.StatusCreated, body)
}

// GetMyClaim returns one of the caller's claims
func (h *Handler) GetMyClaim(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	claim, err := h.claims.Get(c.Request.Context(), middleware.GetCaller(c), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"claim": claim})
}

// AddDocuments attaches more files to one of the caller's claims
func (h *Handler) AddDocuments(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	uploads := uploadsFrom(c)
	if len(uploads) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No files uploaded"})
		return
	}
	result, err := h.claims.AddDocuments(c.Request.Context(), middleware.GetCaller(c), id, uploads)
	if err != nil {
		h.respondError(c, err)
		return
	}
	status := http.StatusCreated
	if len(result.Documents) == 0 {
		status = http.StatusUnprocessableEntity
	}
	c.JSON(status, uploadResponse(result))
}
