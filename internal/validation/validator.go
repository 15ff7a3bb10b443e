package validation

import (
	"fmt"
	"strings"

	"github.com/ajitesh123/tough-tongue-starter/internal/domain"
)

// Error marks invalid user input so handlers can map it to a 400 instead of a 500.
type Error struct {
	Field   string
	Message string
}

func (e *Error) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return e.Message
}

const maxProfessionLength = 200

// ValidateProfession rejects blank or absurdly long profession strings. Anything
// else is accepted as-is; the suggestion prompt quotes it verbatim.
func ValidateProfession(profession string) error {
	trimmed := strings.TrimSpace(profession)
	if trimmed == "" {
		return &Error{Field: "profession", Message: "profession is required"}
	}
	if len(trimmed) > maxProfessionLength {
		return &Error{Field: "profession", Message: fmt.Sprintf("profession must be at most %d characters", maxProfessionLength)}
	}
	return nil
}

// ValidateCourses checks a course list before it is committed or piped into the
// orchestrator: at least one course, unique non-empty ids, non-empty titles.
func ValidateCourses(courses []*domain.Course) error {
	if len(courses) == 0 {
		return &Error{Field: "courses", Message: "at least one course is required"}
	}

	seen := make(map[string]bool, len(courses))
	for i, c := range courses {
		if c == nil {
			return &Error{Field: "courses", Message: fmt.Sprintf("course %d is empty", i)}
		}
		if strings.TrimSpace(c.ID) == "" {
			return &Error{Field: "courses", Message: fmt.Sprintf("course %d is missing an id", i)}
		}
		if seen[c.ID] {
			return &Error{Field: "courses", Message: fmt.Sprintf("duplicate course id: %s", c.ID)}
		}
		seen[c.ID] = true
		if strings.TrimSpace(c.Title) == "" {
			return &Error{Field: "courses", Message: fmt.Sprintf("course %s is missing a title", c.ID)}
		}
		if c.ScenarioID == "" && c.EmbedURL != "" {
			return &Error{Field: "courses", Message: fmt.Sprintf("course %s has an embed URL without a scenario id", c.ID)}
		}
	}
	return nil
}
