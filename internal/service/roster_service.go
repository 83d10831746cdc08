package service

import (
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/noah-isme/college-roster/internal/models"
	appErrors "github.com/noah-isme/college-roster/pkg/errors"
	"github.com/noah-isme/college-roster/pkg/export"
)

// RosterFormat selects the rendered roster document type.
type RosterFormat string

const (
	RosterFormatCSV RosterFormat = "csv"
	RosterFormatPDF RosterFormat = "pdf"
)

var rosterHeaders = []string{"ID", "Name", "Age", "Course"}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

// RosterExport is a rendered roster ready to be served.
type RosterExport struct {
	Filename    string
	ContentType string
	Format      RosterFormat
	Data        []byte
}

// RosterService renders the live student list of a classroom.
type RosterService struct {
	classrooms classroomRepository
	lookup     models.Lookup
	csv        csvRenderer
	pdf        pdfRenderer
	logger     *zap.Logger
}

// NewRosterService constructs a RosterService. Nil renderers fall back to the
// package exporters.
func NewRosterService(classrooms classroomRepository, lookup models.Lookup, logger *zap.Logger, csv csvRenderer, pdf pdfRenderer) *RosterService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &RosterService{classrooms: classrooms, lookup: lookup, csv: csv, pdf: pdf, logger: logger}
}

// ParseRosterFormat normalises a query value; empty means CSV.
func ParseRosterFormat(raw string) (RosterFormat, error) {
	switch RosterFormat(strings.ToLower(strings.TrimSpace(raw))) {
	case "", RosterFormatCSV:
		return RosterFormatCSV, nil
	case RosterFormatPDF:
		return RosterFormatPDF, nil
	default:
		return "", appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported roster format %q", raw))
	}
}

// Export renders the roster of classID. Dangling student links are left out.
func (s *RosterService) Export(classID int, format RosterFormat) (*RosterExport, error) {
	classroom, ok := s.classrooms.FindByID(classID)
	if !ok {
		return nil, classroomNotFound(classID)
	}
	dataset := buildRosterDataset(classroom.ResolvedStudents(s.lookup))

	var (
		payload     []byte
		err         error
		contentType string
	)
	switch format {
	case RosterFormatCSV:
		payload, err = s.csv.Render(dataset)
		contentType = "text/csv"
	case RosterFormatPDF:
		payload, err = s.pdf.Render(dataset, classroom.Name+" roster")
		contentType = "application/pdf"
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported roster format %q", format))
	}
	if err != nil {
		s.logger.Error("roster render failed", zap.Int("classroom_id", classID), zap.String("format", string(format)), zap.Error(err))
		return nil, appErrors.WrapKind(err, appErrors.ErrInternal, "failed to render roster")
	}

	return &RosterExport{
		Filename:    fmt.Sprintf("classroom-%d-roster.%s", classroom.ID, format),
		ContentType: contentType,
		Format:      format,
		Data:        payload,
	}, nil
}

func buildRosterDataset(students []*models.Student) export.Dataset {
	rows := make([]map[string]string, 0, len(students))
	for _, st := range students {
		rows = append(rows, map[string]string{
			"ID":     strconv.Itoa(st.ID),
			"Name":   st.Name,
			"Age":    strconv.Itoa(st.Age),
			"Course": st.Course,
		})
	}
	return export.Dataset{Headers: rosterHeaders, Rows: rows}
}
