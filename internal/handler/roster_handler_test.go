package handler

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flightdeskhq/flightdesk-api/internal/dto"
	"github.com/flightdeskhq/flightdesk-api/internal/middleware"
	"github.com/flightdeskhq/flightdesk-api/internal/models"
	"github.com/flightdeskhq/flightdesk-api/internal/service"
	appErrors "github.com/flightdeskhq/flightdesk-api/pkg/errors"
)

type rosterServiceMock struct {
	listResp      []models.RosterRule
	listErr       error
	lastFilter    models.RosterRuleFilter
	createResp    *models.RosterRule
	createErr     error
	updateResp    *models.RosterRule
	updateErr     error
	voidErr       error
	previewResp   *dto.PreviewRosterRuleResponse
	previewErr    error
	listCalled    bool
	createCalled  bool
	previewCalled bool
}

func (m *rosterServiceMock) List(ctx context.Context, claims *models.JWTClaims, filter models.RosterRuleFilter) ([]models.RosterRule, error) {
	m.listCalled = true
	m.lastFilter = filter
	return m.listResp, m.listErr
}

func (m *rosterServiceMock) Create(ctx context.Context, claims *models.JWTClaims, req dto.CreateRosterRuleRequest) (*models.RosterRule, error) {
	m.createCalled = true
	return m.createResp, m.createErr
}

func (m *rosterServiceMock) Update(ctx context.Context, claims *models.JWTClaims, ruleID string, req dto.UpdateRosterRuleRequest) (*models.RosterRule, error) {
	return m.updateResp, m.updateErr
}

func (m *rosterServiceMock) Void(ctx context.Context, claims *models.JWTClaims, ruleID string) error {
	return m.voidErr
}

func (m *rosterServiceMock) FindConflictingDays(ctx context.Context, claims *models.JWTClaims, req dto.PreviewRosterRuleRequest) (*dto.PreviewRosterRuleResponse, error) {
	m.previewCalled = true
	return m.previewResp, m.previewErr
}

type exportServiceMock struct {
	resp *service.ExportResult
	err  error
}

func (m *exportServiceMock) WeeklySheet(ctx context.Context, claims *models.JWTClaims, instructorID string, format service.ExportFormat) (*service.ExportResult, error) {
	return m.resp, m.err
}

func testContext(t *testing.T, method, target string, body []byte) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	var req *http.Request
	if body != nil {
		req, _ = http.NewRequest(method, target, bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req, _ = http.NewRequest(method, target, nil)
	}
	c.Request = req
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "user-1", TenantID: "tenant-1", Role: models.RoleAdmin})
	return c, w
}

func TestRosterHandlerList(t *testing.T) {
	mockSvc := &rosterServiceMock{
		listResp: []models.RosterRule{{ID: "rule-1", DayOfWeek: 2}},
	}
	handler := NewRosterHandler(mockSvc, nil, nil)

	c, w := testContext(t, http.MethodGet, "/roster/rules?instructorId=inst-1&dayOfWeek=2", nil)
	handler.List(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, mockSvc.listCalled)
	assert.Equal(t, "inst-1", mockSvc.lastFilter.InstructorID)
	require.NotNil(t, mockSvc.lastFilter.DayOfWeek)
	assert.Equal(t, 2, *mockSvc.lastFilter.DayOfWeek)
}

func TestRosterHandlerListRejectsBadDay(t *testing.T) {
	mockSvc := &rosterServiceMock{}
	handler := NewRosterHandler(mockSvc, nil, nil)

	c, w := testContext(t, http.MethodGet, "/roster/rules?dayOfWeek=7", nil)
	handler.List(c)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, mockSvc.listCalled)
}

func TestRosterHandlerCreate(t *testing.T) {
	mockSvc := &rosterServiceMock{
		createResp: &models.RosterRule{ID: "rule-1"},
	}
	handler := NewRosterHandler(mockSvc, nil, nil)

	body := []byte(`{"instructor_id":"inst-1","day_of_week":2,"start_time":"09:00","end_time":"11:00","effective_from":"2026-03-01"}`)
	c, w := testContext(t, http.MethodPost, "/roster/rules", body)
	handler.Create(c)

	require.Equal(t, http.StatusCreated, w.Code)
	assert.True(t, mockSvc.createCalled)
}

func TestRosterHandlerCreateInvalidBody(t *testing.T) {
	mockSvc := &rosterServiceMock{}
	handler := NewRosterHandler(mockSvc, nil, nil)

	c, w := testContext(t, http.MethodPost, "/roster/rules", []byte(`{"instructor_id":`))
	handler.Create(c)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, mockSvc.createCalled)
}

func TestRosterHandlerCreateConflict(t *testing.T) {
	mockSvc := &rosterServiceMock{createErr: appErrors.ErrRosterConflict}
	handler := NewRosterHandler(mockSvc, nil, nil)

	body := []byte(`{"instructor_id":"inst-1","day_of_week":2,"start_time":"09:00","end_time":"11:00","effective_from":"2026-03-01"}`)
	c, w := testContext(t, http.MethodPost, "/roster/rules", body)
	handler.Create(c)

	require.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), appErrors.ErrRosterConflict.Code)
}

func TestRosterHandlerVoid(t *testing.T) {
	handler := NewRosterHandler(&rosterServiceMock{}, nil, nil)

	c, w := testContext(t, http.MethodDelete, "/roster/rules/rule-1", nil)
	c.Params = gin.Params{{Key: "id", Value: "rule-1"}}
	handler.Void(c)
	c.Writer.WriteHeaderNow()

	require.Equal(t, http.StatusNoContent, w.Code)
}

func TestRosterHandlerPreview(t *testing.T) {
	mockSvc := &rosterServiceMock{
		previewResp: &dto.PreviewRosterRuleResponse{
			ConflictingDays: []int{1},
			DayNames:        []string{"Monday"},
			Message:         "this time range overlaps an existing roster rule on Monday",
		},
	}
	handler := NewRosterHandler(mockSvc, nil, nil)

	body := []byte(`{"instructor_id":"inst-1","days":[1,3],"start_time":"09:00","end_time":"11:00","effective_from":"2026-03-01"}`)
	c, w := testContext(t, http.MethodPost, "/roster/rules/preview", body)
	handler.Preview(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, mockSvc.previewCalled)
	assert.Contains(t, w.Body.String(), "Monday")
}

func TestRosterHandlerExport(t *testing.T) {
	exports := &exportServiceMock{
		resp: &service.ExportResult{
			Content:      []byte("Day,Start,End\n"),
			ContentType:  "text/csv",
			Filename:     "roster-jane-doe.csv",
			ArchiveToken: "token-1",
		},
	}
	handler := NewRosterHandler(&rosterServiceMock{}, exports, nil)

	c, w := testContext(t, http.MethodGet, "/roster/export?instructorId=inst-1&format=csv", nil)
	handler.Export(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "roster-jane-doe.csv")
	assert.Equal(t, "token-1", w.Header().Get("X-Archive-Token"))
}

func TestRosterHandlerExportDisabled(t *testing.T) {
	handler := NewRosterHandler(&rosterServiceMock{}, nil, nil)

	c, w := testContext(t, http.MethodGet, "/roster/export?instructorId=inst-1", nil)
	handler.Export(c)

	require.Equal(t, http.StatusNotFound, w.Code)
}
