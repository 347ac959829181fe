package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"contract-claims-api/models"
	"contract-claims-api/store"
)

// MaxFileSize is the largest accepted document (20 MiB)
const MaxFileSize int64 = 20 * 1024 * 1024

// Failure reasons reported per file
const (
	ReasonInvalidType  = "Invalid type"
	ReasonTooLarge     = "Exceeds 20MB"
	ReasonUploadFailed = "Failed to upload"
)

// allowedTypes maps accepted extensions to the stored content type
var allowedTypes = map[string]string{
	".pdf":  "application/pdf",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	".xlsx": "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
}

// ContentTypeFor returns the content type class for an accepted filename.
func ContentTypeFor(filename string) (string, bool) {
	ct, ok := allowedTypes[strings.ToLower(filepath.Ext(filename))]
	return ct, ok
}

var errContentTooLarge = errors.New("content exceeds size limit")

// Upload is one incoming file. Open is called at most once.
type Upload struct {
	Filename string
	Size     int64
	Open     func() (io.ReadCloser, error)
}

// AttachmentFailure is a per-file rejection; it never aborts the batch.
type AttachmentFailure struct {
	Filename string `json:"filename"`
	Reason   string `json:"reason"`
}

func (f AttachmentFailure) Error() string {
	return f.Filename + " (" + f.Reason + ")"
}

// AttachResult is the outcome of one batch.
type AttachResult struct {
	Documents []models.Document   `json:"documents"`
	Failures  []AttachmentFailure `json:"failures"`
}

// Message joins failures the way the upload form reports them, or "" if none.
func (r AttachResult) Message() string {
	if len(r.Failures) == 0 {
		return ""
	}
	parts := make([]string, len(r.Failures))
	for i, f := range r.Failures {
		parts[i] = f.Error()
	}
	return "Some files failed: " + strings.Join(parts, ", ")
}

// AttachmentHandler validates uploads and links stored files to a claim.
type AttachmentHandler struct {
	repo  DocumentRepository
	files FileStore
	log   *slog.Logger
	now   func() time.Time
}

func NewAttachmentHandler(repo DocumentRepository, files FileStore, log *slog.Logger) *AttachmentHandler {
	return &AttachmentHandler{repo: repo, files: files, log: log, now: time.Now}
}

// Attach processes every file independently against an existing claim.
// Only an unknown claim is a fatal error.
func (h *AttachmentHandler) Attach(ctx context.Context, claimID uint, uploads []Upload) (AttachResult, error) {
	result := AttachResult{Documents: []models.Document{}, Failures: []AttachmentFailure{}}

	if _, err := h.repo.FindClaim(ctx, claimID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return result, ErrClaimNotFound
		}
		return result, err
	}

	for _, u := range uploads {
		doc, reason := h.attachOne(ctx, claimID, u)
		if reason != "" {
			result.Failures = append(result.Failures, AttachmentFailure{Filename: u.Filename, Reason: reason})
			attachmentsProcessed.WithLabelValues(reason).Inc()
			h.log.Warn("attachment rejected",
				slog.Uint64("claim_id", uint64(claimID)),
				slog.String("filename", u.Filename),
				slog.String("reason", reason))
			continue
		}
		result.Documents = append(result.Documents, *doc)
		attachmentsProcessed.WithLabelValues("stored").Inc()
	}
	return result, nil
}

func (h *AttachmentHandler) attachOne(ctx context.Context, claimID uint, u Upload) (*models.Document, string) {
	ext := strings.ToLower(filepath.Ext(u.Filename))
	contentType, ok := allowedTypes[ext]
	if !ok {
		return nil, ReasonInvalidType
	}
	if u.Size > MaxFileSize {
		return nil, ReasonTooLarge
	}

	name, err := h.store(ctx, u, ext)
	if errors.Is(err, errContentTooLarge) {
		return nil, ReasonTooLarge
	}
	if err != nil {
		h.log.Error("document storage failed",
			slog.Uint64("claim_id", uint64(claimID)),
			slog.String("filename", u.Filename),
			slog.Any("error", err))
		return nil, ReasonUploadFailed
	}

	doc := &models.Document{
		ClaimID:      claimID,
		FileName:     name,
		OriginalName: filepath.Base(u.Filename),
		ContentType:  contentType,
		SizeBytes:    u.Size,
		UploadDate:   h.now(),
	}
	if err := h.repo.CreateDocument(ctx, doc); err != nil {
		h.log.Error("document record failed",
			slog.Uint64("claim_id", uint64(claimID)),
			slog.String("stored_name", name),
			slog.Any("error", err))
		if derr := h.files.Delete(ctx, name); derr != nil {
			h.log.Warn("orphaned stored file", slog.String("stored_name", name), slog.Any("error", derr))
		}
		return nil, ReasonUploadFailed
	}
	return doc, ""
}

func (h *AttachmentHandler) store(ctx context.Context, u Upload, ext string) (string, error) {
	if u.Open == nil {
		return "", errors.New("upload has no content")
	}
	rc, err := u.Open()
	if err != nil {
		return "", err
	}
	defer rc.Close()
	// Declared sizes come from the client; cap the read one byte past the limit.
	r := &limitedReader{r: io.LimitReader(rc, MaxFileSize+1)}
	name, err := h.files.Save(ctx, r, ext)
	if err != nil {
		return "", err
	}
	if r.n > MaxFileSize {
		if derr := h.files.Delete(ctx, name); derr != nil {
			h.log.Warn("orphaned stored file", slog.String("stored_name", name), slog.Any("error", derr))
		}
		return "", errContentTooLarge
	}
	return name, nil
}

type limitedReader struct {
	r io.Reader
	n int64
}

func (l *limitedReader) Read(p []byte) (int, error) {
	n, err := l.r.Read(p)
	l.n += int64(n)
	return n, err
}
