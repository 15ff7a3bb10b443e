// Package app orchestrates the provisioning pipeline: it walks the course list
// sequentially, provisions each unprovisioned course, publishes progress while it
// works and commits the merged list when it is done.
package app

import (
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/ajitesh123/tough-tongue-starter/internal/domain"
	"github.com/ajitesh123/tough-tongue-starter/internal/infra/repos/courses"
	"github.com/ajitesh123/tough-tongue-starter/internal/infra/repos/runs"
	"github.com/ajitesh123/tough-tongue-starter/internal/infra/repos/status"
	"github.com/ajitesh123/tough-tongue-starter/internal/logging"
	"github.com/ajitesh123/tough-tongue-starter/internal/validation"
)

// ErrPipelineRunning is returned by Start while a previous run is still in flight.
// Handlers map it to 409.
var ErrPipelineRunning = errors.New("a pipeline run is already in progress")

// CourseProvisioner turns one course into a hosted scenario.
type CourseProvisioner interface {
	Provision(course *domain.Course) (*domain.ProvisionResult, error)
}

type PipelineService struct {
	courseRepo  courses.Repository
	statusStore status.Store
	runRepo     runs.Repository
	provisioner CourseProvisioner
	logger      *logging.Logger

	// gracePeriod keeps the final 100% status visible to pollers before it is
	// cleared. Zero clears immediately.
	gracePeriod time.Duration

	mu          sync.Mutex
	running     bool
	subscribers map[chan domain.ProcessingStatus]struct{}
	wg          sync.WaitGroup
}

func NewPipelineService(
	courseRepo courses.Repository,
	statusStore status.Store,
	runRepo runs.Repository,
	provisioner CourseProvisioner,
	gracePeriod time.Duration,
	logger *logging.Logger,
) *PipelineService {
	return &PipelineService{
		courseRepo:  courseRepo,
		statusStore: statusStore,
		runRepo:     runRepo,
		provisioner: provisioner,
		gracePeriod: gracePeriod,
		logger:      logger.WithComponent("pipeline"),
		subscribers: make(map[chan domain.ProcessingStatus]struct{}),
	}
}

// Start validates the course list, records a run and launches the pipeline in the
// background. Only one run may be in flight at a time.
func (s *PipelineService) Start(courseList []*domain.Course) (*domain.PipelineRun, error) {
	if err := validation.ValidateCourses(courseList); err != nil {
		return nil, err
	}

	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return nil, ErrPipelineRunning
	}
	s.running = true
	s.mu.Unlock()

	// Work on copies so later edits by the caller cannot race the pipeline.
	work := make([]*domain.Course, len(courseList))
	for i, c := range courseList {
		work[i] = c.Clone()
	}

	run := &domain.PipelineRun{
		Status:    domain.RunStatusRunning,
		Total:     len(work),
		StartedAt: time.Now(),
	}
	if err := s.runRepo.Create(run); err != nil {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
		return nil, fmt.Errorf("failed to record run: %w", err)
	}

	s.publish(&domain.ProcessingStatus{InProgress: true, Total: len(work)})

	s.logger.Infow("pipeline.started", map[string]any{
		"run_id": run.ID,
		"total":  run.Total,
	})

	s.wg.Add(1)
	go s.execute(run, work)

	return run, nil
}

func (s *PipelineService) execute(run *domain.PipelineRun, work []*domain.Course) {
	defer s.wg.Done()
	defer func() {
		if r := recover(); r != nil {
			s.logger.Errorw("pipeline.panic", map[string]any{"run_id": run.ID, "panic": fmt.Sprint(r)})
			s.finish(run, work, fmt.Sprintf("pipeline panic: %v", r))
			return
		}
		s.finish(run, work, "")
	}()

	total := len(work)
	completed := 0
	for _, course := range work {
		if course.Provisioned() {
			run.Skipped++
		} else {
			result, err := s.provisioner.Provision(course)
			if err != nil {
				// One bad course must not sink the rest of the list.
				run.Failed++
				s.logger.Errorw("pipeline.course_failed", map[string]any{
					"run_id":    run.ID,
					"course_id": course.ID,
					"error":     err.Error(),
				})
			} else {
				course.ScenarioID = result.ScenarioID
				course.EmbedURL = result.EmbedURL
				run.Provisioned++
			}
		}

		completed++
		s.publish(&domain.ProcessingStatus{
			InProgress: completed < total,
			Progress:   progressPercent(completed, total),
			Total:      total,
			Completed:  completed,
		})
	}
}

// finish persists the merged list, records the run outcome and leaves the final
// status visible for the grace period before clearing it.
func (s *PipelineService) finish(run *domain.PipelineRun, work []*domain.Course, panicMsg string) {
	if err := s.courseRepo.Save(work); err != nil {
		s.logger.Errorw("pipeline.save_failed", map[string]any{"run_id": run.ID, "error": err.Error()})
		if run.Error == "" {
			run.Error = fmt.Sprintf("failed to persist courses: %v", err)
		}
	}

	now := time.Now()
	run.CompletedAt = &now
	switch {
	case panicMsg != "":
		run.Status = domain.RunStatusFailed
		run.Error = panicMsg
	case run.Failed > 0:
		run.Status = domain.RunStatusFailed
		run.Error = fmt.Sprintf("%d of %d courses failed to provision", run.Failed, run.Total)
	default:
		run.Status = domain.RunStatusSuccess
	}
	if err := s.runRepo.Update(run); err != nil {
		s.logger.Errorw("pipeline.run_update_failed", map[string]any{"run_id": run.ID, "error": err.Error()})
	}

	s.publish(&domain.ProcessingStatus{
		InProgress: false,
		Progress:   100,
		Total:      run.Total,
		Completed:  run.Total,
	})

	s.logger.Infow("pipeline.finished", map[string]any{
		"run_id":      run.ID,
		"status":      string(run.Status),
		"provisioned": run.Provisioned,
		"skipped":     run.Skipped,
		"failed":      run.Failed,
		"duration_s":  now.Sub(run.StartedAt).Seconds(),
	})

	if s.gracePeriod > 0 {
		time.Sleep(s.gracePeriod)
	}
	if err := s.statusStore.Clear(); err != nil {
		s.logger.Errorw("pipeline.status_clear_failed", map[string]any{"error": err.Error()})
	}

	s.mu.Lock()
	s.running = false
	s.mu.Unlock()
}

// publish writes the status record and fans it out to subscribers. Slow
// subscribers miss intermediate updates instead of blocking the pipeline.
func (s *PipelineService) publish(st *domain.ProcessingStatus) {
	if err := s.statusStore.Set(st); err != nil {
		s.logger.Errorw("pipeline.status_set_failed", map[string]any{"error": err.Error()})
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for ch := range s.subscribers {
		select {
		case ch <- *st:
		default:
		}
	}
}

// Status returns the current processing status, or nil when no run is visible.
func (s *PipelineService) Status() (*domain.ProcessingStatus, error) {
	return s.statusStore.Get()
}

// Subscribe registers a channel that receives every status update the subscriber
// keeps up with. The caller must Unsubscribe when done.
func (s *PipelineService) Subscribe() chan domain.ProcessingStatus {
	ch := make(chan domain.ProcessingStatus, 16)
	s.mu.Lock()
	s.subscribers[ch] = struct{}{}
	s.mu.Unlock()
	return ch
}

func (s *PipelineService) Unsubscribe(ch chan domain.ProcessingStatus) {
	s.mu.Lock()
	if _, ok := s.subscribers[ch]; ok {
		delete(s.subscribers, ch)
		close(ch)
	}
	s.mu.Unlock()
}

func (s *PipelineService) GetRun(id string) (*domain.PipelineRun, error) {
	return s.runRepo.Get(id)
}

func (s *PipelineService) ListRuns(limit int) ([]*domain.PipelineRun, error) {
	return s.runRepo.List(limit)
}

// Wait blocks until the in-flight run, if any, has fully finished, including the
// display-grace period. Used by the CLI and by tests.
func (s *PipelineService) Wait() {
	s.wg.Wait()
}

func progressPercent(completed, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(100 * float64(completed) / float64(total)))
}
