package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flightdeskhq/flightdesk-api/internal/models"
	appErrors "github.com/flightdeskhq/flightdesk-api/pkg/errors"
)

type instructorRepoMock struct {
	instructor *models.Instructor
	err        error
}

func (m *instructorRepoMock) FindByID(ctx context.Context, tenantID, id string) (*models.Instructor, error) {
	return m.instructor, m.err
}

func (m *instructorRepoMock) List(ctx context.Context, tenantID string, filter models.InstructorFilter) ([]models.Instructor, error) {
	return nil, nil
}

func (m *instructorRepoMock) Create(ctx context.Context, instructor *models.Instructor) error {
	return nil
}

func (m *instructorRepoMock) Update(ctx context.Context, tenantID, id string, instructor *models.Instructor) (*models.Instructor, error) {
	return nil, nil
}

func (m *instructorRepoMock) Deactivate(ctx context.Context, tenantID, id string) error {
	return nil
}

func TestRosterExportServiceWeeklySheetCSV(t *testing.T) {
	notes := "morning block"
	until := "2026-06-30"
	rules := &rosterRepoMock{
		listResp: []models.RosterRule{
			{DayOfWeek: 1, StartTime: "09:00:00", EndTime: "11:00:00", EffectiveFrom: "2026-03-01", Notes: &notes},
			{DayOfWeek: 5, StartTime: "13:00:00", EndTime: "17:00:00", EffectiveFrom: "2026-03-01", EffectiveUntil: &until},
		},
	}
	instructors := &instructorRepoMock{
		instructor: &models.Instructor{ID: "inst-1", FullName: "Jane Doe"},
	}
	svc := NewRosterExportService(rules, instructors, nil, nil)

	result, err := svc.WeeklySheet(context.Background(), adminClaims(), "inst-1", ExportCSV)
	require.NoError(t, err)
	assert.Equal(t, "text/csv", result.ContentType)
	assert.Equal(t, "roster-jane-doe.csv", result.Filename)
	assert.Empty(t, result.ArchiveToken)

	content := string(result.Content)
	lines := strings.Split(strings.TrimSpace(content), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Day,Start,End,Effective,Notes", lines[0])
	assert.Contains(t, lines[1], "Monday")
	assert.Contains(t, lines[1], "2026-03-01 onwards")
	assert.Contains(t, lines[1], "morning block")
	assert.Contains(t, lines[2], "Friday")
	assert.Contains(t, lines[2], "2026-03-01 to 2026-06-30")
}

func TestRosterExportServiceWeeklySheetPDF(t *testing.T) {
	rules := &rosterRepoMock{
		listResp: []models.RosterRule{
			{DayOfWeek: 1, StartTime: "09:00:00", EndTime: "11:00:00", EffectiveFrom: "2026-03-01"},
		},
	}
	instructors := &instructorRepoMock{
		instructor: &models.Instructor{ID: "inst-1", FullName: "Jane Doe"},
	}
	svc := NewRosterExportService(rules, instructors, nil, nil)

	result, err := svc.WeeklySheet(context.Background(), adminClaims(), "inst-1", ExportPDF)
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", result.ContentType)
	assert.Equal(t, "roster-jane-doe.pdf", result.Filename)
	assert.NotEmpty(t, result.Content)
}

func TestRosterExportServiceUnknownInstructor(t *testing.T) {
	svc := NewRosterExportService(&rosterRepoMock{}, &instructorRepoMock{}, nil, nil)

	_, err := svc.WeeklySheet(context.Background(), adminClaims(), "missing", ExportCSV)
	assertErrCode(t, err, appErrors.ErrInstructorNotFound.Code)
}

func TestRosterExportServiceBadFormat(t *testing.T) {
	svc := NewRosterExportService(&rosterRepoMock{}, &instructorRepoMock{}, nil, nil)

	_, err := svc.WeeklySheet(context.Background(), adminClaims(), "inst-1", ExportFormat("xlsx"))
	assertErrCode(t, err, appErrors.ErrValidation.Code)
}
