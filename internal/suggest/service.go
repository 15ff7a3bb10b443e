// Package suggest turns a profession into an editable list of course suggestions.
package suggest

import (
	"fmt"

	"github.com/ajitesh123/tough-tongue-starter/internal/domain"
	"github.com/ajitesh123/tough-tongue-starter/internal/llm"
	"github.com/ajitesh123/tough-tongue-starter/internal/logging"
)

const DefaultLevel = "mid-level"

const coursePromptTemplate = `As an expert career coach who designs interactive training scenarios for professionals, please generate 5 course suggestions for a %s %s who wants to improve their professional skills through interactive scenarios.

Each course should focus on a specific interaction scenario relevant to this profession. For example, for a product manager, it might be "Handling Engineering Pushback" which simulates a conversation with engineers who disagree with product priorities.

Use the following format with tags in your response:

<course>
  <title>Course Title Here</title>
  <description>A brief 1-2 sentence description of what skills this interaction scenario will help develop</description>
</course>
<course>
  <title>Second Course Title</title>
  <description>Description for the second course</description>
</course>

Create 5 courses following this pattern.

Make the courses specific to the profession and highly relevant to real workplace challenges they face.`

type Service struct {
	client *llm.Client
	logger *logging.Logger
}

func NewService(client *llm.Client, logger *logging.Logger) *Service {
	return &Service{
		client: client,
		logger: logger.WithComponent("suggest"),
	}
}

// FetchSuggestions asks the model for course suggestions and parses the tagged
// response. Transport errors, non-2xx responses and unparseable output are all
// absorbed: the caller always gets a usable list and never an error.
func (s *Service) FetchSuggestions(profession, level string) []*domain.Course {
	if level == "" {
		level = DefaultLevel
	}

	prompt := fmt.Sprintf(coursePromptTemplate, level, profession)
	content, err := s.client.Complete([]llm.Message{{Role: "user", Content: prompt}})
	if err != nil {
		s.logger.Warnw("suggestions.fallback", map[string]any{
			"profession": profession,
			"reason":     err.Error(),
		})
		return FallbackCourses(profession)
	}

	courses := ParseCourses(content)
	if len(courses) == 0 {
		s.logger.Warnw("suggestions.fallback", map[string]any{
			"profession": profession,
			"reason":     "no course blocks in model output",
		})
		return FallbackCourses(profession)
	}

	s.logger.Infow("suggestions.parsed", map[string]any{
		"profession": profession,
		"level":      level,
		"count":      len(courses),
	})
	return courses
}
