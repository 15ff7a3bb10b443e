package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/ajitesh123/tough-tongue-starter/internal/app"
	"github.com/ajitesh123/tough-tongue-starter/internal/domain"
	"github.com/ajitesh123/tough-tongue-starter/internal/infra/repos/courses"
	"github.com/ajitesh123/tough-tongue-starter/internal/lessons"
	"github.com/ajitesh123/tough-tongue-starter/internal/suggest"
	"github.com/ajitesh123/tough-tongue-starter/internal/validation"
)

type Handler struct {
	courseRepo  courses.Repository
	suggestions *suggest.Service
	pipeline    *app.PipelineService
}

func NewHandler(courseRepo courses.Repository, suggestions *suggest.Service, pipeline *app.PipelineService) *Handler {
	return &Handler{
		courseRepo:  courseRepo,
		suggestions: suggestions,
		pipeline:    pipeline,
	}
}

// Suggestions

type suggestionsRequest struct {
	Profession string `json:"profession"`
	Level      string `json:"level"`
}

type coursesResponse struct {
	Courses []*domain.Course `json:"courses"`
}

func (h *Handler) CreateSuggestions(w http.ResponseWriter, r *http.Request) {
	var req suggestionsRequest
	if err := decodeJSONStrict(r, &req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	if err := validation.ValidateProfession(req.Profession); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	list := h.suggestions.FetchSuggestions(req.Profession, req.Level)
	writeJSON(w, coursesResponse{Courses: list})
}

// Courses

func (h *Handler) ListCourses(w http.ResponseWriter, r *http.Request) {
	list, err := h.courseRepo.Load()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if list == nil {
		list = []*domain.Course{}
	}
	writeJSON(w, coursesResponse{Courses: list})
}

func (h *Handler) ReplaceCourses(w http.ResponseWriter, r *http.Request) {
	var req coursesResponse
	if err := decodeJSONStrict(r, &req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	if err := validation.ValidateCourses(req.Courses); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.courseRepo.Save(req.Courses); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, coursesResponse{Courses: req.Courses})
}

func (h *Handler) PatchCourse(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	var patch domain.CoursePatch
	if err := decodeJSONStrict(r, &patch); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	found, err := h.courseRepo.Update(id, &patch)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if !found {
		http.Error(w, fmt.Sprintf("course not found: %s", id), http.StatusNotFound)
		return
	}

	list, err := h.courseRepo.Load()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	for _, c := range list {
		if c.ID == id {
			writeJSON(w, c)
			return
		}
	}
	http.Error(w, fmt.Sprintf("course not found: %s", id), http.StatusNotFound)
}

func (h *Handler) ClearCourses(w http.ResponseWriter, r *http.Request) {
	if err := h.courseRepo.Clear(); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Pipeline

func (h *Handler) StartPipeline(w http.ResponseWriter, r *http.Request) {
	var req coursesResponse
	if err := decodeJSONStrict(r, &req); err != nil && err != io.EOF {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}

	list := req.Courses
	if len(list) == 0 {
		var err error
		list, err = h.courseRepo.Load()
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
	}

	run, err := h.pipeline.Start(list)
	if err != nil {
		var vErr *validation.Error
		switch {
		case errors.Is(err, app.ErrPipelineRunning):
			http.Error(w, err.Error(), http.StatusConflict)
		case errors.As(err, &vErr):
			http.Error(w, err.Error(), http.StatusBadRequest)
		default:
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}
	w.WriteHeader(http.StatusAccepted)
	writeJSON(w, run)
}

func (h *Handler) PipelineStatus(w http.ResponseWriter, r *http.Request) {
	st, err := h.pipeline.Status()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if st == nil {
		st = &domain.ProcessingStatus{}
	}
	writeJSON(w, st)
}

// PipelineEvents streams status updates as server-sent events. The stream closes
// after the terminal update of the current run, or when the client goes away.
func (h *Handler) PipelineEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch := h.pipeline.Subscribe()
	defer h.pipeline.Unsubscribe(ch)

	// A subscriber joining mid-run gets the current state up front.
	if st, err := h.pipeline.Status(); err == nil && st != nil {
		writeEvent(w, st)
		flusher.Flush()
	}

	for {
		select {
		case <-r.Context().Done():
			return
		case ev, open := <-ch:
			if !open {
				return
			}
			writeEvent(w, &ev)
			flusher.Flush()
			if !ev.InProgress {
				return
			}
		}
	}
}

func writeEvent(w io.Writer, st *domain.ProcessingStatus) {
	payload, _ := json.Marshal(st)
	fmt.Fprintf(w, "event: status\ndata: %s\n\n", payload)
}

// Runs

func (h *Handler) ListRuns(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if q := r.URL.Query().Get("limit"); q != "" {
		if n, err := strconv.Atoi(q); err == nil && n > 0 && n <= 500 {
			limit = n
		}
	}
	list, err := h.pipeline.ListRuns(limit)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, list)
}

func (h *Handler) GetRun(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	run, err := h.pipeline.GetRun(id)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	writeJSON(w, run)
}

// Lessons

func (h *Handler) GetLessons(w http.ResponseWriter, r *http.Request) {
	list, err := h.courseRepo.Load()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, lessons.PlanFor(list))
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func decodeJSONStrict(r *http.Request, out any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(out)
}
