package service

import (
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/noah-isme/sma-rating-sync/internal/models"
	appErrors "github.com/noah-isme/sma-rating-sync/pkg/errors"
	"github.com/noah-isme/sma-rating-sync/pkg/export"
)

// Export formats.
const (
	ExportFormatCSV = "csv"
	ExportFormatPDF = "pdf"
)

var exportHeaders = []string{"ID", "Last name", "First name", "Class", "Subject", "Rating"}

// rosterColumnWidths narrows the numeric columns of the PDF sheet.
var rosterColumnWidths = map[string]float64{"ID": 0.6, "Rating": 0.6}

type rosterReader interface {
	SortedView() []models.Student
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

// ExportResult is a rendered roster file.
type ExportResult struct {
	Filename    string
	ContentType string
	Body        []byte
}

// ExportService renders the sorted roster for download.
type ExportService struct {
	roster rosterReader
	csv    csvRenderer
	pdf    pdfRenderer
	logger *zap.Logger
}

// NewExportService constructs an ExportService. Nil renderers get the defaults.
func NewExportService(roster rosterReader, csv csvRenderer, pdf pdfRenderer, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = &export.PDFExporter{Widths: rosterColumnWidths}
	}
	return &ExportService{roster: roster, csv: csv, pdf: pdf, logger: logger}
}

// Export renders the current sorted view in format.
func (s *ExportService) Export(format string) (*ExportResult, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	dataset := buildRosterDataset(s.roster.SortedView())

	var (
		body []byte
		err  error
		ct   string
	)
	switch format {
	case ExportFormatCSV:
		body, err = s.csv.Render(dataset)
		ct = "text/csv"
	case ExportFormatPDF:
		body, err = s.pdf.Render(dataset, "Student roster")
		ct = "application/pdf"
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", format))
	}
	if err != nil {
		s.logger.Error("render roster export failed", zap.String("format", format), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render roster")
	}
	return &ExportResult{Filename: "roster." + format, ContentType: ct, Body: body}, nil
}

func buildRosterDataset(students []models.Student) export.Dataset {
	rows := make([]map[string]string, 0, len(students))
	for _, st := range students {
		rows = append(rows, map[string]string{
			"ID":         strconv.FormatInt(st.ID, 10),
			"Last name":  st.Lastname,
			"First name": st.Firstname,
			"Class":      st.Schoolclass,
			"Subject":    st.Subject,
			"Rating":     strconv.Itoa(st.Rating),
		})
	}
	return export.Dataset{Headers: exportHeaders, Rows: rows}
}
