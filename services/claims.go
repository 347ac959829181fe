// Package services holds the claim lifecycle engine and the document
// attachment handler. Every operation takes the caller explicitly.
package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"time"

	"contract-claims-api/models"
	"contract-claims-api/reports"
	"contract-claims-api/statemachine"
	"contract-claims-api/store"
)

// SubmitInput carries the lecturer-editable claim fields. Everything else is
// derived from the owner record at submission time.
type SubmitInput struct {
	HoursWorked float64
	ModuleCode  string
	Notes       string
}

// Snapshot is the owner's name and rate frozen into a claim when it is created.
type Snapshot struct {
	FullName   string
	HourlyRate float64
}

func snapshotOf(u *models.User) Snapshot {
	return Snapshot{FullName: u.FullName, HourlyRate: u.HourlyRate}
}

// ListFilter narrows claim listings. Lecturers are always limited to their own claims.
type ListFilter struct {
	Status models.ClaimStatus
	UserID uint
	Period reports.Filter
}

// StatusCounts summarises claims for dashboards
type StatusCounts struct {
	Total    int `json:"total_claims"`
	Pending  int `json:"pending_claims"`
	Approved int `json:"approved_claims"`
	Rejected int `json:"rejected_claims"`
}

// CountStatuses treats Submitted and Pending alike as awaiting a decision.
func CountStatuses(claims []models.Claim) StatusCounts {
	sc := StatusCounts{Total: len(claims)}
	for _, c := range claims {
		switch c.Status {
		case models.StatusSubmitted, models.StatusPending:
			sc.Pending++
		case models.StatusApproved:
			sc.Approved++
		case models.StatusRejected:
			sc.Rejected++
		}
	}
	return sc
}

// ClaimService validates submissions, computes totals and governs status changes.
type ClaimService struct {
	users  UserStore
	claims ClaimRepository
	files  FileStore
	attach *AttachmentHandler
	log    *slog.Logger
	now    func() time.Time
}

func NewClaimService(users UserStore, claims ClaimRepository, files FileStore, log *slog.Logger) *ClaimService {
	return &ClaimService{
		users:  users,
		claims: claims,
		files:  files,
		attach: NewAttachmentHandler(claims, files, log),
		log:    log,
		now:    time.Now,
	}
}

// Attachments exposes the handler used for uploads.
func (s *ClaimService) Attachments() *AttachmentHandler { return s.attach }

// ValidateHours enforces 0 < hours <= MaxHoursPerMonth.
func ValidateHours(hours float64) error {
	if math.IsNaN(hours) || math.IsInf(hours, 0) || hours <= 0 {
		return &ValidationError{Field: "HoursWorked", Message: "hours worked must be greater than zero"}
	}
	if hours > models.MaxHoursPerMonth {
		return &ValidationError{Field: "HoursWorked", Message: "cannot claim more than 180 hours in a month"}
	}
	return nil
}

// ComputeTotal returns hours × rate at currency precision.
func ComputeTotal(hours, rate float64) float64 {
	return math.Round(hours*rate*100) / 100
}

func (s *ClaimService) owner(ctx context.Context, id uint) (*models.User, error) {
	u, err := s.users.FindUser(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrOwnerNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find owner %d: %w", id, err)
	}
	return u, nil
}

// Draft returns an unsaved claim pre-filled from the caller's user record.
func (s *ClaimService) Draft(ctx context.Context, caller Caller) (*models.Claim, error) {
	u, err := s.owner(ctx, caller.UserID)
	if err != nil {
		return nil, err
	}
	snap := snapshotOf(u)
	return &models.Claim{
		UserID:         u.ID,
		FullName:       snap.FullName,
		HourlyRate:     snap.HourlyRate,
		Status:         models.StatusSubmitted,
		SubmissionDate: s.now(),
	}, nil
}

// Submit creates a claim owned by the caller and then attaches files. The
// claim is durable before any file is handled, so upload failures never
// undo it.
func (s *ClaimService) Submit(ctx context.Context, caller Caller, in SubmitInput, uploads []Upload) (*models.Claim, AttachResult, error) {
	u, err := s.owner(ctx, caller.UserID)
	if err != nil {
		return nil, AttachResult{}, err
	}
	if err := ValidateHours(in.HoursWorked); err != nil {
		return nil, AttachResult{}, err
	}

	snap := snapshotOf(u)
	claim := &models.Claim{
		UserID:         u.ID,
		FullName:       snap.FullName,
		HourlyRate:     snap.HourlyRate,
		HoursWorked:    in.HoursWorked,
		Total:          ComputeTotal(in.HoursWorked, snap.HourlyRate),
		ModuleCode:     in.ModuleCode,
		Notes:          in.Notes,
		Status:         models.StatusSubmitted,
		SubmissionDate: s.now(),
	}
	if err := s.claims.CreateClaim(ctx, claim); err != nil {
		return nil, AttachResult{}, fmt.Errorf("create claim: %w", err)
	}
	claimsSubmitted.Inc()
	s.log.Info("claim submitted",
		slog.Uint64("claim_id", uint64(claim.ID)),
		slog.Uint64("user_id", uint64(u.ID)),
		slog.Float64("hours", claim.HoursWorked),
		slog.Float64("total", claim.Total))

	result := AttachResult{Documents: []models.Document{}, Failures: []AttachmentFailure{}}
	if len(uploads) > 0 {
		result, err = s.attach.Attach(ctx, claim.ID, uploads)
		if err != nil {
			return claim, result, fmt.Errorf("attach documents: %w", err)
		}
	}
	claim.Documents = result.Documents
	return claim, result, nil
}

// AddDocuments attaches more files to a claim the caller owns.
func (s *ClaimService) AddDocuments(ctx context.Context, caller Caller, claimID uint, uploads []Upload) (AttachResult, error) {
	claim, err := s.find(ctx, claimID)
	if err != nil {
		return AttachResult{}, err
	}
	if claim.UserID != caller.UserID {
		return AttachResult{}, ErrForbidden
	}
	return s.attach.Attach(ctx, claimID, uploads)
}

func (s *ClaimService) find(ctx context.Context, id uint) (*models.Claim, error) {
	c, err := s.claims.FindClaim(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrClaimNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find claim %d: %w", id, err)
	}
	return c, nil
}

func canRead(caller Caller, c *models.Claim) bool {
	return caller.IsReviewer() || c.UserID == caller.UserID
}

// Get returns a claim the caller may read.
func (s *ClaimService) Get(ctx context.Context, caller Caller, id uint) (*models.Claim, error) {
	c, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canRead(caller, c) {
		return nil, ErrForbidden
	}
	return c, nil
}

// List returns claims visible to the caller, newest first.
func (s *ClaimService) List(ctx context.Context, caller Caller, f ListFilter) ([]models.Claim, error) {
	sf := store.ClaimFilter{Status: f.Status, UserID: f.UserID}
	if !caller.IsReviewer() {
		sf.UserID = caller.UserID
	}
	claims, err := s.claims.ListClaims(ctx, sf)
	if err != nil {
		return nil, fmt.Errorf("list claims: %w", err)
	}
	return reports.FilterClaims(claims, f.Period), nil
}

// Transition moves a claim to a new status on behalf of a reviewer.
func (s *ClaimService) Transition(ctx context.Context, caller Caller, id uint, to models.ClaimStatus, note string) (*models.Claim, error) {
	if !caller.IsReviewer() {
		return nil, ErrForbidden
	}
	c, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	// nobody reviews their own claim, even after a role change
	if c.UserID == caller.UserID {
		return nil, ErrForbidden
	}

	from := c.Status
	if err := statemachine.CanTransition(from, to, statemachine.ActorReviewer); err != nil {
		return nil, &TransitionError{From: from, To: to, ValidNext: statemachine.ValidTransitionsFrom(from), Reason: err}
	}

	err = s.claims.UpdateStatus(ctx, id, from, to, caller.UserID, note)
	switch {
	case errors.Is(err, store.ErrStaleStatus):
		return nil, ErrStatusConflict
	case errors.Is(err, store.ErrNotFound):
		return nil, ErrClaimNotFound
	case err != nil:
		return nil, fmt.Errorf("update claim %d status: %w", id, err)
	}

	claimTransitions.WithLabelValues(string(to)).Inc()
	s.log.Info("claim status changed",
		slog.Uint64("claim_id", uint64(id)),
		slog.String("from", string(from)),
		slog.String("to", string(to)),
		slog.Uint64("changed_by", uint64(caller.UserID)))

	return s.find(ctx, id)
}

// Delete removes a claim and its documents. Stored files are removed best-effort.
func (s *ClaimService) Delete(ctx context.Context, caller Caller, id uint) error {
	if !caller.IsReviewer() {
		return ErrForbidden
	}
	docs, err := s.claims.DeleteClaim(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return ErrClaimNotFound
	}
	if err != nil {
		return fmt.Errorf("delete claim %d: %w", id, err)
	}
	for _, d := range docs {
		if err := s.files.Delete(ctx, d.FileName); err != nil {
			s.log.Warn("stored document not removed",
				slog.Uint64("claim_id", uint64(id)),
				slog.String("stored_name", d.FileName),
				slog.Any("error", err))
		}
	}
	s.log.Info("claim deleted", slog.Uint64("claim_id", uint64(id)), slog.Int("documents", len(docs)))
	return nil
}

// OpenDocument streams a stored document of a claim the caller may read.
func (s *ClaimService) OpenDocument(ctx context.Context, caller Caller, claimID, docID uint) (*models.Document, io.ReadCloser, error) {
	if _, err := s.Get(ctx, caller, claimID); err != nil {
		return nil, nil, err
	}
	d, err := s.claims.FindDocument(ctx, claimID, docID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil, ErrDocumentNotFound
	}
	if err != nil {
		return nil, nil, err
	}
	rc, err := s.files.Open(ctx, d.FileName)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrDocumentNotFound, err)
	}
	return d, rc, nil
}

// Report aggregates every claim matching the period for HR.
func (s *ClaimService) Report(ctx context.Context, caller Caller, period reports.Filter) ([]reports.LecturerReport, []int, error) {
	if !caller.IsReviewer() {
		return nil, nil, ErrForbidden
	}
	all, err := s.claims.ListClaims(ctx, store.ClaimFilter{})
	if err != nil {
		return nil, nil, fmt.Errorf("list claims: %w", err)
	}
	return reports.Aggregate(all, period), reports.Years(all), nil
}
