// Package provision converts one course into a hosted Tough Tongue scenario:
// generate scenario copy with the model, then create the scenario from it.
package provision

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/ajitesh123/tough-tongue-starter/internal/domain"
	"github.com/ajitesh123/tough-tongue-starter/internal/llm"
	"github.com/ajitesh123/tough-tongue-starter/internal/logging"
	"github.com/ajitesh123/tough-tongue-starter/internal/toughtongue"
)

const scenarioPromptTemplate = `You are designing an interactive voice roleplay scenario for a professional training platform.

Course title: %s
Course description: %s

Produce a scenario definition as a single JSON object with exactly these string fields:
- "name": a short scenario name based on the course title
- "description": 2-3 sentences describing the situation the learner will practice
- "ai_instructions": detailed instructions for the AI roleplay partner - who it plays, how it should behave, how it should push back, and what a good learner response looks like

Respond with only the JSON object, no markdown and no commentary.`

type Provisioner struct {
	llm    *llm.Client
	tt     *toughtongue.Client
	logger *logging.Logger
}

func NewProvisioner(llmClient *llm.Client, ttClient *toughtongue.Client, logger *logging.Logger) *Provisioner {
	return &Provisioner{
		llm:    llmClient,
		tt:     ttClient,
		logger: logger.WithComponent("provision"),
	}
}

// GenerateContent asks the model for scenario copy for one course. The response
// must be a JSON object with name, description and ai_instructions.
func (p *Provisioner) GenerateContent(title, description string) (*domain.ScenarioContent, error) {
	prompt := fmt.Sprintf(scenarioPromptTemplate, title, description)
	raw, err := p.llm.Complete([]llm.Message{{Role: "user", Content: prompt}})
	if err != nil {
		var apiErr *llm.APIError
		if errors.As(err, &apiErr) {
			return nil, &domain.GenerationError{Status: apiErr.Status, Message: apiErr.Message}
		}
		return nil, &domain.GenerationError{Message: err.Error()}
	}

	var content domain.ScenarioContent
	if err := json.Unmarshal([]byte(stripCodeFence(raw)), &content); err != nil {
		return nil, &domain.GenerationError{Message: fmt.Sprintf("model output is not valid JSON: %v", err)}
	}
	if content.Name == "" || content.AIInstructions == "" {
		return nil, &domain.GenerationError{Message: "model output is missing name or ai_instructions"}
	}
	return &content, nil
}

// Provision runs both steps for one course. Any failure aborts provisioning for
// this course only; the caller keeps the original course and moves on.
func (p *Provisioner) Provision(course *domain.Course) (*domain.ProvisionResult, error) {
	content, err := p.GenerateContent(course.Title, course.Description)
	if err != nil {
		return nil, err
	}

	scenario, err := p.tt.CreateScenario(&toughtongue.CreateScenarioRequest{
		Name:                    content.Name,
		Description:             content.Description,
		AIInstructions:          content.AIInstructions,
		UserFriendlyDescription: course.Description,
	})
	if err != nil {
		var apiErr *toughtongue.APIError
		if errors.As(err, &apiErr) {
			return nil, &domain.ProvisionError{Status: apiErr.Status, Message: apiErr.Message}
		}
		return nil, &domain.ProvisionError{Message: err.Error()}
	}

	p.logger.Infow("scenario.created", map[string]any{
		"course_id":   course.ID,
		"scenario_id": scenario.ID,
	})
	return &domain.ProvisionResult{
		ScenarioID: scenario.ID,
		EmbedURL:   toughtongue.EmbedURL(scenario.ID),
	}, nil
}

// stripCodeFence unwraps ```json fences some models insist on adding.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if i := strings.Index(s, "\n"); i >= 0 {
		s = s[i+1:]
	}
	if i := strings.LastIndex(s, "```"); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}
