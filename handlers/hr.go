package handlers

import (
	"bytes"
	"errors"
	"net/http"

	"contract-claims-api/middleware"
	"contract-claims-api/models"
	"contract-claims-api/reports"
	"contract-claims-api/services"
	"contract-claims-api/store"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

// HRDashboard returns headcounts and claim counts
func (h *Handler) HRDashboard(c *gin.Context) {
	ctx := c.Request.Context()
	counts, err := h.users.CountUsers(ctx)
	if err != nil {
		h.respondError(c, err)
		return
	}
	claims, err := h.claims.List(ctx, middleware.GetCaller(c), services.ListFilter{})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"users":  counts,
		"claims": services.CountStatuses(claims),
	})
}

// ListRoles returns the role reference table
func (h *Handler) ListRoles(c *gin.Context) {
	roles, err := h.users.ListRoles(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"roles": roles})
}

// ListUsers returns every user, optionally narrowed by ?role=
func (h *Handler) ListUsers(c *gin.Context) {
	users, err := h.users.ListUsers(c.Request.Context(), models.RoleName(c.Query("role")))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(users), "users": users})
}

// GetUser returns one user for editing
func (h *Handler) GetUser(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	user, err := h.users.FindUser(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

type UserRequest struct {
	FullName      string  `json:"full_name" binding:"required,max=100"`
	ContactNumber string  `json:"contact_number" binding:"max=20"`
	Email         string  `json:"email" binding:"required,email"`
	Password      string  `json:"password" binding:"omitempty,min=6"`
	RoleID        uint    `json:"role_id" binding:"required"`
	HourlyRate    float64 `json:"hourly_rate" binding:"gte=0"`
}

// checkUser validates the role reference and that email is free for the given user.
func (h *Handler) checkUser(c *gin.Context, req *UserRequest, self uint) bool {
	ctx := c.Request.Context()
	if _, err := h.users.FindRole(ctx, req.RoleID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid role"})
		} else {
			h.respondError(c, err)
		}
		return false
	}
	existing, err := h.users.FindUserByEmail(ctx, req.Email)
	switch {
	case err == nil && existing.ID != self:
		c.JSON(http.StatusConflict, gin.H{"error": "Email already registered"})
		return false
	case err != nil && !errors.Is(err, store.ErrNotFound):
		h.respondError(c, err)
		return false
	}
	return true
}

// CreateUser adds a lecturer or staff account
func (h *Handler) CreateUser(c *gin.Context) {
	var req UserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Password is required"})
		return
	}
	if !h.checkUser(c, &req, 0) {
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}
	user := models.User{
		FullName:      req.FullName,
		ContactNumber: req.ContactNumber,
		Email:         req.Email,
		PasswordHash:  string(hash),
		RoleID:        req.RoleID,
		HourlyRate:    req.HourlyRate,
	}
	if err := h.users.CreateUser(c.Request.Context(), &user); err != nil {
		h.respondError(c, err)
		return
	}
	created, err := h.users.FindUser(c.Request.Context(), user.ID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "User created successfully", "user": created})
}

// UpdateUser edits a user's profile, role and rate. A blank password keeps
// the current one. Existing claims keep the rate they were submitted with.
func (h *Handler) UpdateUser(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req UserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	user, err := h.users.FindUser(ctx, id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if !h.checkUser(c, &req, id) {
		return
	}

	user.FullName = req.FullName
	user.ContactNumber = req.ContactNumber
	user.Email = req.Email
	user.RoleID = req.RoleID
	user.HourlyRate = req.HourlyRate
	if req.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
			return
		}
		user.PasswordHash = string(hash)
	}
	if err := h.users.UpdateUser(ctx, user); err != nil {
		h.respondError(c, err)
		return
	}
	updated, err := h.users.FindUser(ctx, id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User updated successfully", "user": updated})
}

type monthOption struct {
	Value int    `json:"value"`
	Name  string `json:"name"`
}

// Report aggregates claims per lecturer for ?month= and ?year=
func (h *Handler) Report(c *gin.Context) {
	var f reports.Filter
	if err := c.ShouldBindQuery(&f); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	groups, years, err := h.claims.Report(c.Request.Context(), middleware.GetCaller(c), f)
	if err != nil {
		h.respondError(c, err)
		return
	}

	months := make([]monthOption, 0, 12)
	for _, m := range reports.Months() {
		months = append(months, monthOption{Value: int(m), Name: m.String()})
	}
	hours, amount := reports.Totals(groups)

	c.JSON(http.StatusOK, gin.H{
		"filter":       f,
		"reports":      groups,
		"total_hours":  hours,
		"total_amount": amount,
		"years":        years,
		"months":       months,
	})
}

// ExportReport renders the filtered report as a PDF download
func (h *Handler) ExportReport(c *gin.Context) {
	var f reports.Filter
	if err := c.ShouldBindQuery(&f); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	groups, _, err := h.claims.Report(c.Request.Context(), middleware.GetCaller(c), f)
	if err != nil {
		h.respondError(c, err)
		return
	}

	now := h.now()
	var buf bytes.Buffer
	if err := h.exporter.WritePDF(&buf, groups, f, now); err != nil {
		h.respondError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+reports.ReportFilename(now)+`"`)
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}
