package reports

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/churchflow/churchflow-backend/internal/auditlog"
	"github.com/churchflow/churchflow-backend/internal/availability"
	"github.com/churchflow/churchflow-backend/middleware"
)

var (
	ErrForbidden  = errors.New("forbidden")
	ErrValidation = errors.New("validation failed")
)

// ReportRequest carries the export parameters parsed from the query string.
type ReportRequest struct {
	Type      string
	Format    string
	DateRange string
	StartDate string
	EndDate   string
}

// Service coordinates repo rows and the exporter, admin only.
type Service interface {
	Export(ctx context.Context, req ReportRequest, ac middleware.AccessContext, ip string) ([]byte, string, string, error)
}

type service struct {
	repo     Repository
	exporter ReportExporter
	auditSvc auditlog.Service
	now      func() time.Time
}

func NewService(repo Repository, exporter ReportExporter, auditSvc auditlog.Service) Service {
	return &service{
		repo:     repo,
		exporter: exporter,
		auditSvc: auditSvc,
		now:      time.Now,
	}
}

// ===========================
// 📤 Export a report
func (s *service) Export(ctx context.Context, req ReportRequest, ac middleware.AccessContext, ip string) ([]byte, string, string, error) {
	if !ac.IsAdmin() {
		return nil, "", "", ErrForbidden
	}

	if req.Format == "" {
		req.Format = FormatCSV
	}
	switch req.Format {
	case FormatCSV, FormatExcel, FormatPDF:
	default:
		return nil, "", "", fmt.Errorf("%w: unsupported format %q", ErrValidation, req.Format)
	}

	start, end, err := GetDateRange(req.DateRange, req.StartDate, req.EndDate)
	if err != nil {
		return nil, "", "", fmt.Errorf("%w: %v", ErrValidation, err)
	}

	var data ReportData
	switch req.Type {
	case ReportTypeBlockouts:
		rows, err := s.repo.BlockoutRows(start, end)
		if err != nil {
			return nil, "", "", err
		}
		now := s.now()
		for i := range rows {
			rows[i].Status = string(availability.Classify(availability.Window{
				Start: rows[i].StartDate,
				End:   rows[i].EndDate,
			}, now))
		}
		data.Blockouts = rows

	case ReportTypeEvents:
		rows, err := s.repo.EventRows(start, end)
		if err != nil {
			return nil, "", "", err
		}
		data.Events = rows

	case ReportTypeSongs:
		rows, err := s.repo.SongRows()
		if err != nil {
			return nil, "", "", err
		}
		data.Songs = rows

	default:
		return nil, "", "", fmt.Errorf("%w: unsupported report type %q", ErrValidation, req.Type)
	}

	doc, filename, mime, err := s.exporter.Export(req.Type, req.Format, data)
	if err != nil {
		return nil, "", "", err
	}

	s.audit(ctx, ac, map[string]interface{}{
		"report_type": req.Type,
		"format":      req.Format,
		"filename":    filename,
	}, ip)

	return doc, filename, mime, nil
}

func (s *service) audit(ctx context.Context, ac middleware.AccessContext, details map[string]interface{}, ip string) {
	if s.auditSvc == nil {
		return
	}
	userID := ac.UserID
	_ = s.auditSvc.LogAction(ctx, &userID, "REPORT_EXPORTED", details, ip, "success")
}
