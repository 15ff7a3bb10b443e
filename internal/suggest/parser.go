package suggest

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/ajitesh123/tough-tongue-starter/internal/domain"
)

// courseBlockRe matches one tag-delimited course block. Non-greedy so repeated
// blocks in the same response stay separate matches.
var courseBlockRe = regexp.MustCompile(`(?s)<course>.*?<title>(.*?)</title>.*?<description>(.*?)</description>.*?</course>`)

// ParseCourses extracts course suggestions from free-form model output. All
// non-overlapping course blocks are accepted in order of appearance and ids are
// assigned course-1, course-2, ... from scan order. Malformed or unterminated
// blocks simply don't match; zero matches yields an empty slice, never an error.
func ParseCourses(text string) []*domain.Course {
	matches := courseBlockRe.FindAllStringSubmatch(text, -1)
	courses := make([]*domain.Course, 0, len(matches))
	for i, m := range matches {
		courses = append(courses, &domain.Course{
			ID:          fmt.Sprintf("course-%d", i+1),
			Title:       strings.TrimSpace(m[1]),
			Description: strings.TrimSpace(m[2]),
		})
	}
	return courses
}
