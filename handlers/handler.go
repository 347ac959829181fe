// Package handlers exposes the claim workflow over HTTP with gin.
package handlers

import (
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"

	"contract-claims-api/models"
	"contract-claims-api/reports"
	"contract-claims-api/services"
	"contract-claims-api/store"

	"github.com/gin-gonic/gin"
)

// Deps are the collaborators shared by every handler.
type Deps struct {
	Claims    *services.ClaimService
	Users     *store.UserStore
	Exporter  *reports.Exporter
	JWTSecret []byte
	TokenTTL  time.Duration
	Logger    *slog.Logger
}

type Handler struct {
	claims   *services.ClaimService
	users    *store.UserStore
	exporter *reports.Exporter
	secret   []byte
	ttl      time.Duration
	log      *slog.Logger
	now      func() time.Time
}

func New(d Deps) *Handler {
	return &Handler{
		claims:   d.Claims,
		users:    d.Users,
		exporter: d.Exporter,
		secret:   d.JWTSecret,
		ttl:      d.TokenTTL,
		log:      d.Logger,
		now:      time.Now,
	}
}

// respondError maps service errors onto status codes.
func (h *Handler) respondError(c *gin.Context, err error) {
	var verr *services.ValidationError
	var terr *services.TransitionError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"error": verr.Message, "field": verr.Field})
	case errors.As(err, &terr):
		next := terr.ValidNext
		if next == nil {
			next = []models.ClaimStatus{}
		}
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":             terr.Reason.Error(),
			"current_status":    terr.From,
			"valid_next_states": next,
		})
	case errors.Is(err, services.ErrStatusConflict):
		c.JSON(http.StatusConflict, gin.H{"error": "Claim status was changed by another reviewer. Reload and try again"})
	case errors.Is(err, services.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "You do not have access to this claim"})
	case errors.Is(err, services.ErrClaimNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Claim not found"})
	case errors.Is(err, services.ErrDocumentNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Document not found"})
	case errors.Is(err, services.ErrOwnerNotFound), errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
	default:
		_ = c.Error(err)
		h.log.Error("request failed",
			slog.String("path", c.FullPath()),
			slog.Any("error", err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

func paramID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name})
		return 0, false
	}
	return uint(id), true
}

// uploadsFrom collects the files of a multipart request under "files" or "files[]".
func uploadsFrom(c *gin.Context) []services.Upload {
	form, err := c.MultipartForm()
	if err != nil {
		return nil
	}
	var headers []*multipart.FileHeader
	headers = append(headers, form.File["files"]...)
	headers = append(headers, form.File["files[]"]...)

	uploads := make([]services.Upload, 0, len(headers))
	for _, fh := range headers {
		uploads = append(uploads, services.Upload{
			Filename: fh.Filename,
			Size:     fh.Size,
			Open: func() (io.ReadCloser, error) {
				return fh.Open()
			},
		})
	}
	return uploads
}

func uploadResponse(res services.AttachResult) gin.H {
	body := gin.H{
		"documents":     res.Documents,
		"upload_errors": res.Failures,
	}
	if msg := res.Message(); msg != "" {
		body["warning"] = msg
	}
	return body
}
