package blockout

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/churchflow/churchflow-backend/internal/auditlog"
	"github.com/churchflow/churchflow-backend/internal/availability"
	"github.com/churchflow/churchflow-backend/middleware"
)

var (
	ErrNotFound   = errors.New("blockout not found")
	ErrForbidden  = errors.New("not allowed")
	ErrValidation = errors.New("validation failed")
)

const dateLayout = "2006-01-02"

// SnapshotInvalidator drops cached availability answers for a date range
// after a blockout mutation
type SnapshotInvalidator interface {
	Invalidate(ctx context.Context, start, end time.Time) error
}

type Service interface {
	Create(ctx context.Context, req *CreateBlockoutRequest, ac middleware.AccessContext, ip string) (*Blockout, error)
	Update(ctx context.Context, id string, req *UpdateBlockoutRequest, ac middleware.AccessContext, ip string) (*Blockout, error)
	Delete(ctx context.Context, id string, ac middleware.AccessContext, ip string) error
	ListMine(ac middleware.AccessContext, start, end *time.Time) ([]Blockout, error)
	ListTeam(ac middleware.AccessContext, start, end *time.Time) ([]Blockout, error)
}

type service struct {
	repo      Repository
	auditSvc  auditlog.Service
	snapshots SnapshotInvalidator
	now       func() time.Time
}

func NewService(r Repository, auditSvc auditlog.Service, snapshots SnapshotInvalidator) Service {
	return &service{
		repo:      r,
		auditSvc:  auditSvc,
		snapshots: snapshots,
		now:       time.Now,
	}
}

// ===========================
// Create
// ===========================

func (s *service) Create(ctx context.Context, req *CreateBlockoutRequest, ac middleware.AccessContext, ip string) (*Blockout, error) {
	start, end, err := parseInterval(req.StartDate, req.EndDate)
	if err != nil {
		s.audit(ctx, ac, "BLOCKOUT_CREATED", map[string]interface{}{
			"start_date": req.StartDate,
			"end_date":   req.EndDate,
			"error":      err.Error(),
		}, ip, "failure")
		return nil, err
	}

	b := &Blockout{
		UserID:    ac.UserID, // always the session identity
		StartDate: start,
		EndDate:   end,
		Reason:    req.Reason,
	}

	if err := s.repo.Create(b); err != nil {
		s.audit(ctx, ac, "BLOCKOUT_CREATED", map[string]interface{}{
			"start_date": req.StartDate,
			"end_date":   req.EndDate,
			"error":      err.Error(),
		}, ip, "failure")
		return nil, err
	}

	s.audit(ctx, ac, "BLOCKOUT_CREATED", map[string]interface{}{
		"blockout_id": b.ID,
		"start_date":  b.StartDate.Format(dateLayout),
		"end_date":    b.EndDate.Format(dateLayout),
		"reason":      b.Reason,
	}, ip, "success")

	s.invalidate(ctx, b.StartDate, b.EndDate)

	b.Status = availability.Classify(b.Window(), s.now())
	return b, nil
}

// ===========================
// Update (owner only, partial)
// ===========================

func (s *service) Update(ctx context.Context, id string, req *UpdateBlockoutRequest, ac middleware.AccessContext, ip string) (*Blockout, error) {
	b, err := s.repo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if b.UserID != ac.UserID {
		s.audit(ctx, ac, "BLOCKOUT_UPDATED", map[string]interface{}{
			"blockout_id": id,
			"error":       "not the owner",
		}, ip, "failure")
		return nil, ErrForbidden
	}

	oldStart, oldEnd := b.StartDate, b.EndDate

	if req.StartDate != nil {
		start, err := time.Parse(dateLayout, *req.StartDate)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid startDate, use YYYY-MM-DD", ErrValidation)
		}
		b.StartDate = start
	}
	if req.EndDate != nil {
		end, err := time.Parse(dateLayout, *req.EndDate)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid endDate, use YYYY-MM-DD", ErrValidation)
		}
		b.EndDate = end
	}
	if req.Reason != nil {
		b.Reason = *req.Reason
	}

	// the merged interval must still be well-formed
	if availability.Day(b.StartDate).After(availability.Day(b.EndDate)) {
		return nil, fmt.Errorf("%w: startDate must not be after endDate", ErrValidation)
	}

	if err := s.repo.Update(b); err != nil {
		s.audit(ctx, ac, "BLOCKOUT_UPDATED", map[string]interface{}{
			"blockout_id": id,
			"error":       err.Error(),
		}, ip, "failure")
		return nil, err
	}

	s.audit(ctx, ac, "BLOCKOUT_UPDATED", map[string]interface{}{
		"blockout_id": b.ID,
		"start_date":  b.StartDate.Format(dateLayout),
		"end_date":    b.EndDate.Format(dateLayout),
	}, ip, "success")

	// old and new ranges both change availability answers
	s.invalidate(ctx, oldStart, oldEnd)
	s.invalidate(ctx, b.StartDate, b.EndDate)

	b.Status = availability.Classify(b.Window(), s.now())
	return b, nil
}

// ===========================
// Delete (owner or admin)
// ===========================

func (s *service) Delete(ctx context.Context, id string, ac middleware.AccessContext, ip string) error {
	b, err := s.repo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	if b.UserID != ac.UserID && !ac.IsAdmin() {
		s.audit(ctx, ac, "BLOCKOUT_DELETED", map[string]interface{}{
			"blockout_id": id,
			"error":       "not the owner",
		}, ip, "failure")
		return ErrForbidden
	}

	if err := s.repo.Delete(id); err != nil {
		s.audit(ctx, ac, "BLOCKOUT_DELETED", map[string]interface{}{
			"blockout_id": id,
			"error":       err.Error(),
		}, ip, "failure")
		return err
	}

	s.audit(ctx, ac, "BLOCKOUT_DELETED", map[string]interface{}{
		"blockout_id": id,
		"start_date":  b.StartDate.Format(dateLayout),
		"end_date":    b.EndDate.Format(dateLayout),
	}, ip, "success")

	s.invalidate(ctx, b.StartDate, b.EndDate)
	return nil
}

// ===========================
// Listing
// ===========================

// ListMine returns the caller's blockouts annotated with their current
// classification
func (s *service) ListMine(ac middleware.AccessContext, start, end *time.Time) ([]Blockout, error) {
	blockouts, err := s.repo.ListByUser(ac.UserID, start, end)
	if err != nil {
		return nil, err
	}
	s.annotate(blockouts)
	return blockouts, nil
}

// ListTeam returns every user's blockouts; admin only
func (s *service) ListTeam(ac middleware.AccessContext, start, end *time.Time) ([]Blockout, error) {
	if !ac.IsAdmin() {
		return nil, ErrForbidden
	}
	blockouts, err := s.repo.ListAll(start, end)
	if err != nil {
		return nil, err
	}
	s.annotate(blockouts)
	return blockouts, nil
}

func (s *service) annotate(blockouts []Blockout) {
	now := s.now()
	for i := range blockouts {
		blockouts[i].Status = availability.Classify(blockouts[i].Window(), now)
	}
}

// ===========================
// Helpers
// ===========================

func parseInterval(startStr, endStr string) (time.Time, time.Time, error) {
	start, err := time.Parse(dateLayout, startStr)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: invalid startDate, use YYYY-MM-DD", ErrValidation)
	}
	end, err := time.Parse(dateLayout, endStr)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: invalid endDate, use YYYY-MM-DD", ErrValidation)
	}
	if start.After(end) {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: startDate must not be after endDate", ErrValidation)
	}
	return start, end, nil
}

func (s *service) audit(ctx context.Context, ac middleware.AccessContext, action string, details map[string]interface{}, ip, status string) {
	if s.auditSvc == nil {
		return
	}
	userID := ac.UserID
	_ = s.auditSvc.LogAction(ctx, &userID, action, details, ip, status)
}

func (s *service) invalidate(ctx context.Context, start, end time.Time) {
	if s.snapshots == nil {
		return
	}
	_ = s.snapshots.Invalidate(ctx, start, end)
}
