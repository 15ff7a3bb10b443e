package suggest

import (
	"github.com/ajitesh123/tough-tongue-starter/internal/domain"
)

// FallbackCourses is the deterministic suggestion list used whenever the
// generation endpoint is unreachable or its response yields no parseable courses.
// Only the first title is specialized to the profession.
func FallbackCourses(profession string) []*domain.Course {
	return []*domain.Course{
		{
			ID:          "course-1",
			Title:       "Effective Communication for " + profession,
			Description: "Learn how to clearly articulate complex ideas to various stakeholders.",
		},
		{
			ID:          "course-2",
			Title:       "Conflict Resolution Strategies",
			Description: "Practice navigating difficult conversations with colleagues and clients.",
		},
		{
			ID:          "course-3",
			Title:       "Stakeholder Management",
			Description: "Develop skills for managing expectations and building professional relationships.",
		},
		{
			ID:          "course-4",
			Title:       "Leadership Development",
			Description: "Practice leading teams through challenging situations and decisions.",
		},
		{
			ID:          "course-5",
			Title:       "Negotiation Tactics",
			Description: "Learn effective negotiation techniques for better outcomes in your role.",
		},
	}
}
