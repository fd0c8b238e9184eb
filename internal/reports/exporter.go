package reports

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"
)

const (
	mimeCSV   = "text/csv"
	mimeExcel = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	mimePDF   = "application/pdf"
)

// ReportExporter renders report rows into a downloadable document
type ReportExporter interface {
	Export(reportType, format string, data ReportData) ([]byte, string, string, error)
}

type reportExporter struct{}

func NewReportExporter() ReportExporter {
	return &reportExporter{}
}

// Export returns the document bytes, the suggested filename and the MIME type
func (e *reportExporter) Export(reportType, format string, data ReportData) ([]byte, string, string, error) {
	timestamp := time.Now().Format("20060102_150405")

	switch reportType {
	case ReportTypeBlockouts:
		return e.exportBlockoutsByFormat(format, timestamp, data.Blockouts)
	case ReportTypeEvents:
		return e.exportEventsByFormat(format, timestamp, data.Events)
	case ReportTypeSongs:
		return e.exportSongsByFormat(format, timestamp, data.Songs)
	default:
		return nil, "", "", fmt.Errorf("unsupported report type: %s", reportType)
	}
}

//// ============================
/// BLOCKOUT EXPORTS
//// ============================

func (e *reportExporter) exportBlockoutsByFormat(format, timestamp string, rows []BlockoutReportRow) ([]byte, string, string, error) {
	switch format {
	case FormatCSV:
		data, err := e.exportBlockoutsCSV(rows)
		if err != nil {
			return nil, "", "", err
		}
		return data, fmt.Sprintf("blockouts_report_%s.csv", timestamp), mimeCSV, nil

	case FormatExcel:
		data, err := e.exportBlockoutsExcel(rows)
		if err != nil {
			return nil, "", "", err
		}
		return data, fmt.Sprintf("blockouts_report_%s.xlsx", timestamp), mimeExcel, nil

	case FormatPDF:
		data, err := e.exportBlockoutsPDF(rows)
		if err != nil {
			return nil, "", "", err
		}
		return data, fmt.Sprintf("blockouts_report_%s.pdf", timestamp), mimePDF, nil

	default:
		return nil, "", "", fmt.Errorf("unsupported format for blockouts: %s", format)
	}
}

func (e *reportExporter) exportBlockoutsCSV(rows []BlockoutReportRow) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "User", "Email", "Start Date", "End Date", "Reason", "Status", "Created At"}
	if err := writer.Write(headers); err != nil {
		return nil, err
	}

	for _, r := range rows {
		record := []string{
			r.ID,
			r.UserName,
			r.UserEmail,
			r.StartDate.Format("2006-01-02"),
			r.EndDate.Format("2006-01-02"),
			r.Reason,
			r.Status,
			r.CreatedAt.Format("2006-01-02 15:04:05"),
		}
		if err := writer.Write(record); err != nil {
			return nil, err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func (e *reportExporter) exportBlockoutsExcel(rows []BlockoutReportRow) ([]byte, error) {
	f := excelize.NewFile()
	sheet := "Blockouts"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, err
	}
	f.DeleteSheet("Sheet1")
	f.SetActiveSheet(index)

	headers := []string{"ID", "User", "Email", "Start Date", "End Date", "Reason", "Status", "Created At"}
	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		f.SetCellValue(sheet, cell, h)
	}

	for rIdx, r := range rows {
		row := rIdx + 2
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), r.ID)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), r.UserName)
		f.SetCellValue(sheet, fmt.Sprintf("C%d", row), r.UserEmail)
		f.SetCellValue(sheet, fmt.Sprintf("D%d", row), r.StartDate.Format("2006-01-02"))
		f.SetCellValue(sheet, fmt.Sprintf("E%d", row), r.EndDate.Format("2006-01-02"))
		f.SetCellValue(sheet, fmt.Sprintf("F%d", row), r.Reason)
		f.SetCellValue(sheet, fmt.Sprintf("G%d", row), r.Status)
		f.SetCellValue(sheet, fmt.Sprintf("H%d", row), r.CreatedAt.Format("2006-01-02 15:04:05"))
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func (e *reportExporter) exportBlockoutsPDF(rows []BlockoutReportRow) ([]byte, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(40, 10, "Blockouts Report")
	pdf.Ln(10)

	pdf.SetFont("Arial", "B", 10)
	headers := []string{"User", "Email", "Start", "End", "Reason", "Status"}
	widths := []float64{45, 60, 25, 25, 80, 25}

	for i, h := range headers {
		pdf.CellFormat(widths[i], 7, h, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 9)
	for _, r := range rows {
		pdf.CellFormat(widths[0], 6, r.UserName, "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[1], 6, r.UserEmail, "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[2], 6, r.StartDate.Format("2006-01-02"), "1", 0, "C", false, 0, "")
		pdf.CellFormat(widths[3], 6, r.EndDate.Format("2006-01-02"), "1", 0, "C", false, 0, "")
		pdf.CellFormat(widths[4], 6, r.Reason, "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[5], 6, r.Status, "1", 0, "C", false, 0, "")
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

//// ============================
/// EVENT EXPORTS
//// ============================

func (e *reportExporter) exportEventsByFormat(format, timestamp string, rows []EventReportRow) ([]byte, string, string, error) {
	switch format {
	case FormatCSV:
		data, err := e.exportEventsCSV(rows)
		if err != nil {
			return nil, "", "", err
		}
		return data, fmt.Sprintf("events_report_%s.csv", timestamp), mimeCSV, nil

	case FormatExcel:
		data, err := e.exportEventsExcel(rows)
		if err != nil {
			return nil, "", "", err
		}
		return data, fmt.Sprintf("events_report_%s.xlsx", timestamp), mimeExcel, nil

	case FormatPDF:
		data, err := e.exportEventsPDF(rows)
		if err != nil {
			return nil, "", "", err
		}
		return data, fmt.Sprintf("events_report_%s.pdf", timestamp), mimePDF, nil

	default:
		return nil, "", "", fmt.Errorf("unsupported format for events: %s", format)
	}
}

func (e *reportExporter) exportEventsCSV(rows []EventReportRow) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Title", "Date", "Location", "Songs", "Created By", "Created At"}
	if err := writer.Write(headers); err != nil {
		return nil, err
	}

	for _, r := range rows {
		record := []string{
			r.ID,
			r.Title,
			r.Date.Format("2006-01-02 15:04"),
			r.Location,
			strconv.FormatInt(r.SongCount, 10),
			r.CreatedBy,
			r.CreatedAt.Format("2006-01-02 15:04:05"),
		}
		if err := writer.Write(record); err != nil {
			return nil, err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func (e *reportExporter) exportEventsExcel(rows []EventReportRow) ([]byte, error) {
	f := excelize.NewFile()
	sheet := "Events"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, err
	}
	f.DeleteSheet("Sheet1")
	f.SetActiveSheet(index)

	headers := []string{"ID", "Title", "Date", "Location", "Songs", "Created By", "Created At"}
	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		f.SetCellValue(sheet, cell, h)
	}

	for rIdx, r := range rows {
		row := rIdx + 2
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), r.ID)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), r.Title)
		f.SetCellValue(sheet, fmt.Sprintf("C%d", row), r.Date.Format("2006-01-02 15:04"))
		f.SetCellValue(sheet, fmt.Sprintf("D%d", row), r.Location)
		f.SetCellValue(sheet, fmt.Sprintf("E%d", row), r.SongCount)
		f.SetCellValue(sheet, fmt.Sprintf("F%d", row), r.CreatedBy)
		f.SetCellValue(sheet, fmt.Sprintf("G%d", row), r.CreatedAt.Format("2006-01-02 15:04:05"))
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func (e *reportExporter) exportEventsPDF(rows []EventReportRow) ([]byte, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(40, 10, "Events Report")
	pdf.Ln(10)

	pdf.SetFont("Arial", "B", 10)
	headers := []string{"Title", "Date", "Location", "Songs", "Created By"}
	widths := []float64{80, 35, 70, 20, 55}

	for i, h := range headers {
		pdf.CellFormat(widths[i], 7, h, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 9)
	for _, r := range rows {
		pdf.CellFormat(widths[0], 6, r.Title, "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[1], 6, r.Date.Format("2006-01-02 15:04"), "1", 0, "C", false, 0, "")
		pdf.CellFormat(widths[2], 6, r.Location, "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[3], 6, strconv.FormatInt(r.SongCount, 10), "1", 0, "C", false, 0, "")
		pdf.CellFormat(widths[4], 6, r.CreatedBy, "1", 0, "L", false, 0, "")
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

//// ============================
/// SONG EXPORTS
//// ============================

func (e *reportExporter) exportSongsByFormat(format, timestamp string, rows []SongReportRow) ([]byte, string, string, error) {
	switch format {
	case FormatCSV:
		data, err := e.exportSongsCSV(rows)
		if err != nil {
			return nil, "", "", err
		}
		return data, fmt.Sprintf("songs_report_%s.csv", timestamp), mimeCSV, nil

	case FormatExcel:
		data, err := e.exportSongsExcel(rows)
		if err != nil {
			return nil, "", "", err
		}
		return data, fmt.Sprintf("songs_report_%s.xlsx", timestamp), mimeExcel, nil

	case FormatPDF:
		data, err := e.exportSongsPDF(rows)
		if err != nil {
			return nil, "", "", err
		}
		return data, fmt.Sprintf("songs_report_%s.pdf", timestamp), mimePDF, nil

	default:
		return nil, "", "", fmt.Errorf("unsupported format for songs: %s", format)
	}
}

func (e *reportExporter) exportSongsCSV(rows []SongReportRow) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Title", "Artist", "Key", "YouTube URL", "Times Used", "Created At"}
	if err := writer.Write(headers); err != nil {
		return nil, err
	}

	for _, r := range rows {
		record := []string{
			r.ID,
			r.Title,
			r.Artist,
			r.Key,
			r.YoutubeURL,
			strconv.FormatInt(r.TimesUsed, 10),
			r.CreatedAt.Format("2006-01-02 15:04:05"),
		}
		if err := writer.Write(record); err != nil {
			return nil, err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func (e *reportExporter) exportSongsExcel(rows []SongReportRow) ([]byte, error) {
	f := excelize.NewFile()
	sheet := "Songs"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, err
	}
	f.DeleteSheet("Sheet1")
	f.SetActiveSheet(index)

	headers := []string{"ID", "Title", "Artist", "Key", "YouTube URL", "Times Used", "Created At"}
	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		f.SetCellValue(sheet, cell, h)
	}

	for rIdx, r := range rows {
		row := rIdx + 2
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), r.ID)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), r.Title)
		f.SetCellValue(sheet, fmt.Sprintf("C%d", row), r.Artist)
		f.SetCellValue(sheet, fmt.Sprintf("D%d", row), r.Key)
		f.SetCellValue(sheet, fmt.Sprintf("E%d", row), r.YoutubeURL)
		f.SetCellValue(sheet, fmt.Sprintf("F%d", row), r.TimesUsed)
		f.SetCellValue(sheet, fmt.Sprintf("G%d", row), r.CreatedAt.Format("2006-01-02 15:04:05"))
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func (e *reportExporter) exportSongsPDF(rows []SongReportRow) ([]byte, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(40, 10, "Song Library Report")
	pdf.Ln(10)

	pdf.SetFont("Arial", "B", 10)
	headers := []string{"Title", "Artist", "Key", "Times Used"}
	widths := []float64{90, 80, 25, 30}

	for i, h := range headers {
		pdf.CellFormat(widths[i], 7, h, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 9)
	for _, r := range rows {
		pdf.CellFormat(widths[0], 6, r.Title, "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[1], 6, r.Artist, "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[2], 6, r.Key, "1", 0, "C", false, 0, "")
		pdf.CellFormat(widths[3], 6, strconv.FormatInt(r.TimesUsed, 10), "1", 0, "C", false, 0, "")
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}
