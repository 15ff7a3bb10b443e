package domain

import (
	"time"
)

// Course is a suggested training topic. ScenarioID and EmbedURL are set once the
// course has been provisioned as a hosted Tough Tongue scenario; EmbedURL is always
// derived from ScenarioID, never stored independently of it.
type Course struct {
	ID          string `json:"id" yaml:"id"`
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`
	ScenarioID  string `json:"scenarioId,omitempty" yaml:"scenarioId,omitempty"`
	EmbedURL    string `json:"embedUrl,omitempty" yaml:"embedUrl,omitempty"`
}

// Provisioned reports whether the course already has a hosted scenario.
func (c *Course) Provisioned() bool {
	return c.ScenarioID != ""
}

// Clone returns a copy so pipeline merges never mutate the caller's slice.
func (c *Course) Clone() *Course {
	cp := *c
	return &cp
}

// CoursePatch carries a partial course update. Nil fields are left untouched.
type CoursePatch struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	ScenarioID  *string `json:"scenarioId,omitempty"`
	EmbedURL    *string `json:"embedUrl,omitempty"`
}

// Apply merges the patch into the course.
func (p *CoursePatch) Apply(c *Course) {
	if p.Title != nil {
		c.Title = *p.Title
	}
	if p.Description != nil {
		c.Description = *p.Description
	}
	if p.ScenarioID != nil {
		c.ScenarioID = *p.ScenarioID
	}
	if p.EmbedURL != nil {
		c.EmbedURL = *p.EmbedURL
	}
}

// ProcessingStatus is the ephemeral record polled by the lesson player while a
// pipeline run is in flight. Progress is a 0-100 percentage of completed courses.
type ProcessingStatus struct {
	InProgress bool `json:"inProgress"`
	Progress   int  `json:"progress"`
	Total      int  `json:"total"`
	Completed  int  `json:"completed"`
}

// ScenarioContent is the generated copy for one hosted scenario.
type ScenarioContent struct {
	Name           string `json:"name"`
	Description    string `json:"description"`
	AIInstructions string `json:"ai_instructions"`
}

// ProvisionResult is what a successful provisioning of one course yields.
type ProvisionResult struct {
	ScenarioID string `json:"scenario_id"`
	EmbedURL   string `json:"embed_url"`
}

// PipelineRun records one orchestrator run over a course list.
type PipelineRun struct {
	ID          string     `json:"id"`
	Status      RunStatus  `json:"status"`
	Total       int        `json:"total"`
	Provisioned int        `json:"provisioned"`
	Skipped     int        `json:"skipped"`
	Failed      int        `json:"failed"`
	StartedAt   time.Time  `json:"started_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	Error       string     `json:"error,omitempty"`
}

type RunStatus string

const (
	RunStatusRunning RunStatus = "running"
	RunStatusSuccess RunStatus = "success"
	RunStatusFailed  RunStatus = "failed"
)

// MediaType classifies how a lesson is rendered by the player.
type MediaType string

const (
	MediaTypeYouTube     MediaType = "youtube"
	MediaTypeToughTongue MediaType = "toughtongue"
	MediaTypePlaceholder MediaType = "placeholder"
)

// Lesson is the player's view of one playable (or placeholder) course.
type Lesson struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Duration  string    `json:"duration"`
	VideoURL  string    `json:"videoUrl"`
	MediaType MediaType `json:"mediaType"`
}

// LessonPlan is an ordered lesson list under a display title.
type LessonPlan struct {
	Title   string    `json:"title"`
	Lessons []*Lesson `json:"lessons"`
}
