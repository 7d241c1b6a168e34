package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/flightdeskhq/flightdesk-api/internal/models"
	"github.com/flightdeskhq/flightdesk-api/internal/timeutil"
	appErrors "github.com/flightdeskhq/flightdesk-api/pkg/errors"
	"github.com/flightdeskhq/flightdesk-api/pkg/export"
)

// ExportFormat selects the download format for a roster sheet.
type ExportFormat string

const (
	ExportCSV ExportFormat = "csv"
	ExportPDF ExportFormat = "pdf"
)

// ExportResult carries the rendered document and its HTTP metadata.
// ArchiveToken is set when an archive copy was scheduled; it can be
// redeemed later for a re-download.
type ExportResult struct {
	Content      []byte
	ContentType  string
	Filename     string
	ArchiveToken string
}

// RosterExportService renders an instructor's weekly roster as a
// downloadable sheet.
type RosterExportService struct {
	rules       rosterRuleRepo
	instructors instructorRepo
	csv         *export.CSVExporter
	pdf         *export.PDFExporter
	archive     *ExportArchiveService
	logger      *zap.Logger
}

// NewRosterExportService builds the service. The archive collaborator
// may be nil when archiving is disabled.
func NewRosterExportService(rules rosterRuleRepo, instructors instructorRepo, archive *ExportArchiveService, logger *zap.Logger) *RosterExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RosterExportService{
		rules:       rules,
		instructors: instructors,
		csv:         export.NewCSVExporter(),
		pdf:         export.NewPDFExporter(),
		archive:     archive,
		logger:      logger,
	}
}

var rosterSheetHeaders = []string{"Day", "Start", "End", "Effective", "Notes"}

// WeeklySheet renders all live rules for one instructor, ordered by day
// and start time.
func (s *RosterExportService) WeeklySheet(ctx context.Context, claims *models.JWTClaims, instructorID string, format ExportFormat) (*ExportResult, error) {
	if claims == nil {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "")
	}
	if format != ExportCSV && format != ExportPDF {
		return nil, appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf")
	}

	instructor, err := s.instructors.FindByID(ctx, claims.TenantID, instructorID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load instructor")
	}
	if instructor == nil {
		return nil, appErrors.Clone(appErrors.ErrInstructorNotFound, "")
	}

	rules, err := s.rules.List(ctx, claims.TenantID, models.RosterRuleFilter{InstructorID: instructorID})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load roster rules")
	}

	sheet := export.Sheet{Headers: rosterSheetHeaders}
	for _, rule := range rules {
		notes := ""
		if rule.Notes != nil {
			notes = *rule.Notes
		}
		sheet.Rows = append(sheet.Rows, map[string]string{
			"Day":       timeutil.WeekdayName(rule.DayOfWeek),
			"Start":     rule.StartTime,
			"End":       rule.EndTime,
			"Effective": rule.EffectiveRange(),
			"Notes":     notes,
		})
	}

	slug := strings.ToLower(strings.ReplaceAll(instructor.FullName, " ", "-"))
	title := fmt.Sprintf("Weekly roster - %s", instructor.FullName)

	var result *ExportResult
	switch format {
	case ExportPDF:
		content, err := s.pdf.Render(sheet, title)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render roster pdf")
		}
		result = &ExportResult{
			Content:     content,
			ContentType: "application/pdf",
			Filename:    fmt.Sprintf("roster-%s.pdf", slug),
		}
	default:
		content, err := s.csv.Render(sheet)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render roster csv")
		}
		result = &ExportResult{
			Content:     content,
			ContentType: "text/csv",
			Filename:    fmt.Sprintf("roster-%s.csv", slug),
		}
	}

	if s.archive != nil {
		token, err := s.archive.Archive(claims.TenantID, result)
		if err != nil {
			s.logger.Sugar().Warnw("failed to archive roster export", "instructor_id", instructorID, "error", err)
		} else {
			result.ArchiveToken = token
		}
	}
	return result, nil
}
