package reports

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/churchflow/churchflow-backend/middleware"
)

type fakeRepo struct {
	blockouts []BlockoutReportRow
	events    []EventReportRow
	songs     []SongReportRow
}

func (f *fakeRepo) BlockoutRows(start, end time.Time) ([]BlockoutReportRow, error) {
	return f.blockouts, nil
}

func (f *fakeRepo) EventRows(start, end time.Time) ([]EventReportRow, error) {
	return f.events, nil
}

func (f *fakeRepo) SongRows() ([]SongReportRow, error) {
	return f.songs, nil
}

func newTestService(repo *fakeRepo) *service {
	return &service{
		repo:     repo,
		exporter: NewReportExporter(),
		now:      func() time.Time { return time.Date(2024, 6, 11, 12, 0, 0, 0, time.UTC) },
	}
}

func asAdmin() middleware.AccessContext {
	return middleware.AccessContext{UserID: "admin-1", Role: middleware.RoleAdmin}
}

func TestExportRequiresAdmin(t *testing.T) {
	svc := newTestService(&fakeRepo{})

	_, _, _, err := svc.Export(context.Background(), ReportRequest{Type: ReportTypeEvents}, middleware.AccessContext{UserID: "u1", Role: middleware.RoleUser}, "10.0.0.1")
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestExportRejectsUnknownTypeAndFormat(t *testing.T) {
	svc := newTestService(&fakeRepo{})

	_, _, _, err := svc.Export(context.Background(), ReportRequest{Type: "members"}, asAdmin(), "10.0.0.1")
	assert.ErrorIs(t, err, ErrValidation)

	_, _, _, err = svc.Export(context.Background(), ReportRequest{Type: ReportTypeEvents, Format: "xml"}, asAdmin(), "10.0.0.1")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestExportBlockoutsCSVClassifiesStatus(t *testing.T) {
	repo := &fakeRepo{blockouts: []BlockoutReportRow{
		{ID: "b1", UserName: "Ada Okafor", StartDate: day(2024, 6, 10), EndDate: day(2024, 6, 12), Reason: "vacation"},
		{ID: "b2", UserName: "Ben Huang", StartDate: day(2024, 5, 1), EndDate: day(2024, 5, 3)},
		{ID: "b3", UserName: "Cleo Mbeki", StartDate: day(2024, 7, 1), EndDate: day(2024, 7, 2)},
	}}
	svc := newTestService(repo)

	data, filename, mime, err := svc.Export(context.Background(), ReportRequest{
		Type:      ReportTypeBlockouts,
		Format:    FormatCSV,
		DateRange: DateRangeCustom,
		StartDate: "2024-05-01",
		EndDate:   "2024-07-31",
	}, asAdmin(), "10.0.0.1")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(filename, "blockouts_report_"))
	assert.True(t, strings.HasSuffix(filename, ".csv"))
	assert.Equal(t, "text/csv", mime)

	csv := string(data)
	lines := strings.Split(strings.TrimSpace(csv), "\n")
	require.Len(t, lines, 4)
	assert.Contains(t, lines[1], "active")
	assert.Contains(t, lines[2], "past")
	assert.Contains(t, lines[3], "upcoming")
	assert.Contains(t, csv, "Ada Okafor")
	assert.Contains(t, csv, "vacation")
}

func TestExportEventsDefaultsToCSV(t *testing.T) {
	repo := &fakeRepo{events: []EventReportRow{
		{ID: "e1", Title: "Sunday Service", Date: time.Date(2024, 6, 9, 9, 0, 0, 0, time.UTC), SongCount: 3, CreatedBy: "Ada Okafor"},
	}}
	svc := newTestService(repo)

	data, _, mime, err := svc.Export(context.Background(), ReportRequest{Type: ReportTypeEvents}, asAdmin(), "10.0.0.1")
	require.NoError(t, err)

	assert.Equal(t, "text/csv", mime)
	assert.Contains(t, string(data), "Sunday Service")
	assert.Contains(t, string(data), "3")
}

func TestExportSongsExcelAndPDFProduceDocuments(t *testing.T) {
	repo := &fakeRepo{songs: []SongReportRow{
		{ID: "s1", Title: "Amazing Grace", Artist: "Traditional", Key: "G", TimesUsed: 12},
	}}
	svc := newTestService(repo)

	data, filename, mime, err := svc.Export(context.Background(), ReportRequest{Type: ReportTypeSongs, Format: FormatExcel}, asAdmin(), "10.0.0.1")
	require.NoError(t, err)
	assert.NotEmpty(t, data)
	assert.True(t, strings.HasSuffix(filename, ".xlsx"))
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", mime)

	data, filename, mime, err = svc.Export(context.Background(), ReportRequest{Type: ReportTypeSongs, Format: FormatPDF}, asAdmin(), "10.0.0.1")
	require.NoError(t, err)
	assert.NotEmpty(t, data)
	assert.True(t, strings.HasSuffix(filename, ".pdf"))
	assert.Equal(t, "application/pdf", mime)
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
