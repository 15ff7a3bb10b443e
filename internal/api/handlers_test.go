package api

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ajitesh123/tough-tongue-starter/internal/app"
	"github.com/ajitesh123/tough-tongue-starter/internal/domain"
	"github.com/ajitesh123/tough-tongue-starter/internal/infra/repos/courses"
	"github.com/ajitesh123/tough-tongue-starter/internal/infra/repos/runs"
	"github.com/ajitesh123/tough-tongue-starter/internal/infra/repos/status"
	"github.com/ajitesh123/tough-tongue-starter/internal/lessons"
	"github.com/ajitesh123/tough-tongue-starter/internal/llm"
	"github.com/ajitesh123/tough-tongue-starter/internal/logging"
	"github.com/ajitesh123/tough-tongue-starter/internal/suggest"
	"github.com/ajitesh123/tough-tongue-starter/internal/toughtongue"
)

type stubProvisioner struct{}

func (stubProvisioner) Provision(c *domain.Course) (*domain.ProvisionResult, error) {
	id := "sc-" + c.ID
	return &domain.ProvisionResult{ScenarioID: id, EmbedURL: toughtongue.EmbedURL(id)}, nil
}

type testEnv struct {
	handler    *Handler
	courseRepo courses.Repository
	pipeline   *app.PipelineService
}

func newTestEnv(t *testing.T, llmURL string) *testEnv {
	t.Helper()

	courseRepo := courses.NewFileRepository(filepath.Join(t.TempDir(), "courses.json"))
	statusStore := status.NewMemoryStore()
	runRepo := runs.NewSQLiteRepository(filepath.Join(t.TempDir(), "runs.db"))
	if err := runRepo.Init(); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { runRepo.Close() })

	logger := logging.NewLoggerWithWriter("error", io.Discard)
	pipeline := app.NewPipelineService(courseRepo, statusStore, runRepo, stubProvisioner{}, 0, logger)
	suggestions := suggest.NewService(llm.NewClient(llmURL, "test-key", "o1-mini"), logger)

	return &testEnv{
		handler:    NewHandler(courseRepo, suggestions, pipeline),
		courseRepo: courseRepo,
		pipeline:   pipeline,
	}
}

func TestCreateSuggestions_RejectsBlankProfession(t *testing.T) {
	env := newTestEnv(t, "http://127.0.0.1:0")

	req := httptest.NewRequest(http.MethodPost, "/api/v1/suggestions", strings.NewReader(`{"profession":"   "}`))
	rec := httptest.NewRecorder()
	env.handler.CreateSuggestions(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d body=%s", rec.Code, rec.Body.String())
	}
}

func TestCreateSuggestions_FallsBackWhenModelUnavailable(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"overloaded"}`, http.StatusServiceUnavailable)
	}))
	defer upstream.Close()

	env := newTestEnv(t, upstream.URL)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/suggestions", strings.NewReader(`{"profession":"Nurse"}`))
	rec := httptest.NewRecorder()
	env.handler.CreateSuggestions(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
	var resp coursesResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Courses) != 5 {
		t.Fatalf("expected 5 fallback courses, got %d", len(resp.Courses))
	}
	if resp.Courses[0].Title != "Effective Communication for Nurse" {
		t.Fatalf("unexpected first course: %#v", resp.Courses[0])
	}
}

func TestCoursesLifecycle(t *testing.T) {
	env := newTestEnv(t, "http://127.0.0.1:0")

	body := `{"courses":[{"id":"course-1","title":"Effective Communication","description":"d1"},{"id":"course-2","title":"Conflict Resolution","description":"d2"}]}`
	req := httptest.NewRequest(http.MethodPut, "/api/v1/courses", strings.NewReader(body))
	rec := httptest.NewRecorder()
	env.handler.ReplaceCourses(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("put: expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/courses", nil)
	rec = httptest.NewRecorder()
	env.handler.ListCourses(rec, req)
	var listed coursesResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &listed); err != nil {
		t.Fatal(err)
	}
	if len(listed.Courses) != 2 || listed.Courses[0].ID != "course-1" {
		t.Fatalf("unexpected list: %#v", listed.Courses)
	}

	req = httptest.NewRequest(http.MethodPatch, "/api/v1/courses/course-2", strings.NewReader(`{"title":"Renamed"}`))
	req.SetPathValue("id", "course-2")
	rec = httptest.NewRecorder()
	env.handler.PatchCourse(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("patch: expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
	var patched domain.Course
	if err := json.Unmarshal(rec.Body.Bytes(), &patched); err != nil {
		t.Fatal(err)
	}
	if patched.Title != "Renamed" || patched.Description != "d2" {
		t.Fatalf("patch should only touch given fields: %#v", patched)
	}

	req = httptest.NewRequest(http.MethodPatch, "/api/v1/courses/no-such", strings.NewReader(`{"title":"x"}`))
	req.SetPathValue("id", "no-such")
	rec = httptest.NewRecorder()
	env.handler.PatchCourse(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("patch unknown id: expected 404, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodDelete, "/api/v1/courses", nil)
	rec = httptest.NewRecorder()
	env.handler.ClearCourses(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete: expected 204, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/courses", nil)
	rec = httptest.NewRecorder()
	env.handler.ListCourses(rec, req)
	if err := json.Unmarshal(rec.Body.Bytes(), &listed); err != nil {
		t.Fatal(err)
	}
	if len(listed.Courses) != 0 {
		t.Fatalf("expected empty list after clear, got %#v", listed.Courses)
	}
}

func TestReplaceCourses_RejectsInvalidList(t *testing.T) {
	env := newTestEnv(t, "http://127.0.0.1:0")

	body := `{"courses":[{"id":"course-1","title":"A"},{"id":"course-1","title":"B"}]}`
	req := httptest.NewRequest(http.MethodPut, "/api/v1/courses", strings.NewReader(body))
	rec := httptest.NewRecorder()
	env.handler.ReplaceCourses(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d body=%s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "duplicate course id") {
		t.Fatalf("unexpected error body: %s", rec.Body.String())
	}
}

func TestStartPipeline_ProvisionsSavedCourses(t *testing.T) {
	env := newTestEnv(t, "http://127.0.0.1:0")

	saved := []*domain.Course{
		{ID: "course-1", Title: "Effective Communication", Description: "d1"},
		{ID: "course-2", Title: "Conflict Resolution", Description: "d2"},
	}
	if err := env.courseRepo.Save(saved); err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/pipeline", strings.NewReader(""))
	rec := httptest.NewRecorder()
	env.handler.StartPipeline(rec, req)
	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d body=%s", rec.Code, rec.Body.String())
	}
	var run domain.PipelineRun
	if err := json.Unmarshal(rec.Body.Bytes(), &run); err != nil {
		t.Fatal(err)
	}
	if run.ID == "" || run.Total != 2 {
		t.Fatalf("unexpected run: %#v", run)
	}

	env.pipeline.Wait()

	list, err := env.courseRepo.Load()
	if err != nil {
		t.Fatal(err)
	}
	for _, c := range list {
		if !c.Provisioned() {
			t.Fatalf("course not provisioned after pipeline: %#v", c)
		}
	}
}

func TestStartPipeline_NoCoursesIsBadRequest(t *testing.T) {
	env := newTestEnv(t, "http://127.0.0.1:0")

	req := httptest.NewRequest(http.MethodPost, "/api/v1/pipeline", strings.NewReader(""))
	rec := httptest.NewRecorder()
	env.handler.StartPipeline(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d body=%s", rec.Code, rec.Body.String())
	}
}

func TestPipelineStatus_ZeroValueWhenIdle(t *testing.T) {
	env := newTestEnv(t, "http://127.0.0.1:0")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/pipeline/status", nil)
	rec := httptest.NewRecorder()
	env.handler.PipelineStatus(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var st domain.ProcessingStatus
	if err := json.Unmarshal(rec.Body.Bytes(), &st); err != nil {
		t.Fatal(err)
	}
	if st.InProgress || st.Progress != 0 {
		t.Fatalf("expected idle status, got %#v", st)
	}
}

func TestGetLessons_DefaultPlanWithoutCourses(t *testing.T) {
	env := newTestEnv(t, "http://127.0.0.1:0")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/lessons", nil)
	rec := httptest.NewRecorder()
	env.handler.GetLessons(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var plan domain.LessonPlan
	if err := json.Unmarshal(rec.Body.Bytes(), &plan); err != nil {
		t.Fatal(err)
	}
	want := lessons.DefaultPlan()
	if plan.Title != want.Title || len(plan.Lessons) != len(want.Lessons) {
		t.Fatalf("expected default plan, got %#v", plan)
	}
}

func TestGetLessons_PersonalizedPlanAfterPipeline(t *testing.T) {
	env := newTestEnv(t, "http://127.0.0.1:0")

	if err := env.courseRepo.Save([]*domain.Course{
		{ID: "course-1", Title: "Effective Communication", Description: "d1", ScenarioID: "abc", EmbedURL: toughtongue.EmbedURL("abc")},
		{ID: "course-2", Title: "Conflict Resolution", Description: "d2"},
	}); err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/lessons", nil)
	rec := httptest.NewRecorder()
	env.handler.GetLessons(rec, req)

	var plan domain.LessonPlan
	if err := json.Unmarshal(rec.Body.Bytes(), &plan); err != nil {
		t.Fatal(err)
	}
	if plan.Title != "Your Personalized Courses" || len(plan.Lessons) != 2 {
		t.Fatalf("unexpected plan: %#v", plan)
	}
	if plan.Lessons[0].MediaType != domain.MediaTypeToughTongue {
		t.Fatalf("expected playable lesson first: %#v", plan.Lessons[0])
	}
	if plan.Lessons[1].MediaType != domain.MediaTypePlaceholder {
		t.Fatalf("expected placeholder for pending course: %#v", plan.Lessons[1])
	}
}
