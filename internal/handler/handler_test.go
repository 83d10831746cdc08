package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/college-roster/internal/persistence"
	"github.com/noah-isme/college-roster/internal/repository"
	"github.com/noah-isme/college-roster/internal/service"
	"github.com/noah-isme/college-roster/pkg/config"
	appErrors "github.com/noah-isme/college-roster/pkg/errors"
	"github.com/noah-isme/college-roster/pkg/storage"
)

type envelope struct {
	Data  json.RawMessage        `json:"data"`
	Error *appErrors.Error       `json:"error"`
	Meta  map[string]interface{} `json:"meta"`
}

type testServer struct {
	router  *gin.Engine
	catalog *repository.Catalog
	dataDir string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dir := t.TempDir()
	local, err := storage.NewLocalStorage(dir)
	require.NoError(t, err)

	cat := repository.NewCatalog()
	metrics := service.NewMetricsService()
	store := persistence.NewStore(local, config.DefaultStorage(), nil, metrics)

	router := NewRouter(RouterDeps{
		APIPrefix:      "/api/v1",
		MetricsEnabled: true,
		Students:       service.NewStudentService(cat.Students, nil, nil),
		Teachers:       service.NewTeacherService(cat.Teachers, nil, nil),
		Classrooms:     service.NewClassroomService(cat.Classrooms, cat, nil, nil),
		Rosters:        service.NewRosterService(cat.Classrooms, cat, nil, nil, nil),
		Persistence:    service.NewPersistenceService(store, cat, nil),
		Metrics:        metrics,
	})
	return &testServer{router: router, catalog: cat, dataDir: dir}
}

func (s *testServer) do(t *testing.T, method, path string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, "/api/v1"+path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	var env envelope
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") && rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	}
	return rec, env
}

func (s *testServer) seed(t *testing.T) {
	t.Helper()
	rec, _ := s.do(t, http.MethodPost, "/students", map[string]interface{}{"id": 1, "name": "Ann", "age": 20, "course": "CS"})
	require.Equal(t, http.StatusCreated, rec.Code)
	rec, _ = s.do(t, http.MethodPost, "/teachers", map[string]interface{}{"id": 1, "name": "Mr. X", "subject": "Math"})
	require.Equal(t, http.StatusCreated, rec.Code)
	rec, _ = s.do(t, http.MethodPost, "/classrooms", map[string]interface{}{"id": 1, "name": "CS101"})
	require.Equal(t, http.StatusCreated, rec.Code)
}

func infoOf(t *testing.T, s *testServer, classID string) string {
	t.Helper()
	rec, env := s.do(t, http.MethodGet, "/classrooms/"+classID+"/info", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Info string `json:"info"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &body))
	return body.Info
}

func TestRosterScenarioSaveAndReload(t *testing.T) {
	s := newTestServer(t)
	s.seed(t)

	rec, _ := s.do(t, http.MethodPut, "/classrooms/1/teacher", map[string]int{"teacher_id": 1})
	require.Equal(t, http.StatusOK, rec.Code)
	rec, _ = s.do(t, http.MethodPost, "/classrooms/1/students", map[string]int{"student_id": 1})
	require.Equal(t, http.StatusOK, rec.Code)

	rec, _ = s.do(t, http.MethodPost, "/admin/save", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	// Mutate in memory, then reload from disk to get the saved state back.
	rec, _ = s.do(t, http.MethodDelete, "/classrooms/1/teacher", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, infoOf(t, s, "1"), "Teacher=None")

	rec, env := s.do(t, http.MethodPost, "/admin/reload", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var report persistence.LoadReport
	require.NoError(t, json.Unmarshal(env.Data, &report))
	assert.Equal(t, 1, report.Classrooms.Loaded)

	assert.Equal(t, "Classroom [ID=1, Name=CS101, Teacher=Mr. X, Students Count=1]", infoOf(t, s, "1"))
}

func TestDuplicateEnrollmentReturnsConflict(t *testing.T) {
	s := newTestServer(t)
	s.seed(t)

	rec, _ := s.do(t, http.MethodPost, "/classrooms/1/students", map[string]int{"student_id": 1})
	require.Equal(t, http.StatusOK, rec.Code)
	rec, env := s.do(t, http.MethodPost, "/classrooms/1/students", map[string]int{"student_id": 1})
	require.Equal(t, http.StatusConflict, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "CONFLICT", env.Error.Code)

	assert.Contains(t, infoOf(t, s, "1"), "Students Count=1")
}

func TestDuplicateIDReturnsConflict(t *testing.T) {
	s := newTestServer(t)
	s.seed(t)

	rec, env := s.do(t, http.MethodPost, "/students", map[string]interface{}{"id": 1, "name": "Bob", "age": 22, "course": "EE"})
	assert.Equal(t, http.StatusConflict, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "DUPLICATE_ID", env.Error.Code)
}

func TestNonIntegerPathIDIsBadRequest(t *testing.T) {
	s := newTestServer(t)

	for _, path := range []string{"/students/abc", "/teachers/1.5", "/classrooms/x/info", "/classrooms/1/students/y"} {
		method := http.MethodGet
		if strings.Contains(path, "/students/y") {
			method = http.MethodDelete
		}
		rec, env := s.do(t, method, path, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code, path)
		require.NotNil(t, env.Error, path)
		assert.Equal(t, appErrors.ErrValidation.Code, env.Error.Code)
	}
}

func TestNotFoundAndValidation(t *testing.T) {
	s := newTestServer(t)
	s.seed(t)

	rec, _ := s.do(t, http.MethodGet, "/students/42", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = s.do(t, http.MethodPost, "/classrooms/1/students", map[string]int{"student_id": 42})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = s.do(t, http.MethodPost, "/students", map[string]interface{}{"id": 2, "name": "Kid", "age": 10, "course": "CS"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = s.do(t, http.MethodPut, "/classrooms/1/teacher", map[string]int{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = s.do(t, http.MethodPost, "/teachers", map[string]interface{}{"id": 7, "name": "Ms.\nQ", "subject": "Art"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec, _ = s.do(t, http.MethodGet, "/teachers/7", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteLeavesDanglingLinkOutOfCount(t *testing.T) {
	s := newTestServer(t)
	s.seed(t)
	s.do(t, http.MethodPost, "/students", map[string]interface{}{"id": 2, "name": "Bob", "age": 22, "course": "EE"})
	s.do(t, http.MethodPost, "/classrooms/1/students", map[string]int{"student_id": 1})
	s.do(t, http.MethodPost, "/classrooms/1/students", map[string]int{"student_id": 2})

	rec, _ := s.do(t, http.MethodDelete, "/students/2", nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	assert.Equal(t, "Classroom [ID=1, Name=CS101, Teacher=None, Students Count=1]", infoOf(t, s, "1"))

	rec, env := s.do(t, http.MethodGet, "/classrooms/1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var detail service.ClassroomDetail
	require.NoError(t, json.Unmarshal(env.Data, &detail))
	assert.Equal(t, []int{2}, detail.DanglingStudentIDs)
	assert.Len(t, detail.Students, 1)
}

func TestStudentAndTeacherCrud(t *testing.T) {
	s := newTestServer(t)
	s.seed(t)

	rec, env := s.do(t, http.MethodPut, "/students/1", map[string]interface{}{"course": "Math"})
	require.Equal(t, http.StatusOK, rec.Code)
	var student map[string]interface{}
	require.NoError(t, json.Unmarshal(env.Data, &student))
	assert.Equal(t, "Student [ID=1, Name=Ann, Age=20, Course=Math]", student["details"])

	rec, env = s.do(t, http.MethodGet, "/teachers", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(1), env.Meta["count"])

	rec, _ = s.do(t, http.MethodPut, "/teachers/1", map[string]interface{}{"name": "Dr. X"})
	require.Equal(t, http.StatusOK, rec.Code)
	rec, _ = s.do(t, http.MethodDelete, "/teachers/1", nil)
	require.Equal(t, http.StatusNoContent, rec.Code)
	rec, _ = s.do(t, http.MethodDelete, "/teachers/1", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRosterDownload(t *testing.T) {
	s := newTestServer(t)
	s.seed(t)
	s.do(t, http.MethodPost, "/classrooms/1/students", map[string]int{"student_id": 1})

	rec, _ := s.do(t, http.MethodGet, "/classrooms/1/roster?format=csv", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ID,Name,Age,Course\n1,Ann,20,CS\n", rec.Body.String())
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "classroom-1-roster.csv")

	rec, _ = s.do(t, http.MethodGet, "/classrooms/1/roster?format=pdf", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))

	rec, _ = s.do(t, http.MethodGet, "/classrooms/1/roster?format=docx", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHealthAndMetrics(t *testing.T) {
	s := newTestServer(t)
	s.seed(t)

	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	s.do(t, http.MethodPost, "/admin/save", nil)
	rec = httptest.NewRecorder()
	s.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `roster_entities{kind="student"} 1`)

	recSummary, env := s.do(t, http.MethodGet, "/admin/metrics", nil)
	require.Equal(t, http.StatusOK, recSummary.Code)
	var snap service.MetricsSnapshot
	require.NoError(t, json.Unmarshal(env.Data, &snap))
	assert.Equal(t, 1, snap.Entities["classroom"])
}

type failingPersistence struct{}

func (failingPersistence) Save() error {
	return appErrors.WrapKind(errors.New("disk full"), appErrors.ErrIOFailure, "save failed")
}

func (failingPersistence) Reload() (persistence.LoadReport, error) {
	report := persistence.LoadReport{Teachers: persistence.FileReport{File: "teachers.txt", Error: "read error"}}
	return report, appErrors.Clone(appErrors.ErrIOFailure, "reload failed, current state kept")
}

func TestAdminHandlerFailures(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewAdminHandler(failingPersistence{})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/admin/save", nil)
	h.Save(c)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "IO_FAILURE")

	rec = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/admin/reload", nil)
	h.Reload(c)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "teachers.txt")
}
