// Package lessons builds the lesson plan the player renders and tracks which
// lesson is selected as the plan changes underneath it.
package lessons

import "github.com/ajitesh123/tough-tongue-starter/internal/domain"

const (
	defaultPlanTitle      = "Product Management Interview Preparation"
	personalizedPlanTitle = "Your Personalized Courses"

	// Hosted practice scenarios have no fixed length; the player shows a nominal one.
	practiceDuration = "10:00"
)

// DefaultPlan is the built-in lesson set shown before any courses are saved.
func DefaultPlan() *domain.LessonPlan {
	return &domain.LessonPlan{
		Title: defaultPlanTitle,
		Lessons: []*domain.Lesson{
			{
				ID:        "favorite-product-question",
				Title:     "Introduction to Favorite Product Question",
				Duration:  "5:00",
				VideoURL:  "https://www.youtube.com/watch?v=DLv10vzJucY",
				MediaType: domain.MediaTypeYouTube,
			},
			{
				ID:        "answer-favorite-product-question",
				Title:     "Get your questions answered by AI",
				Duration:  "1:31",
				VideoURL:  "https://app.toughtongueai.com/embed/677e5dbd261d3f3e3803b968?bg=black&skipPrecheck=true",
				MediaType: domain.MediaTypeToughTongue,
			},
			{
				ID:        "practice-favorite-product-question",
				Title:     "Practice Favorite Product Question",
				Duration:  practiceDuration,
				VideoURL:  "https://app.toughtongueai.com/embed/677e7676de365dba3af0055a?bg=black&skipPrecheck=true",
				MediaType: domain.MediaTypeToughTongue,
			},
			{
				ID:        "practice-favorite-product-question-2",
				Title:     "Practice Favorite Product Question 2",
				Duration:  practiceDuration,
				VideoURL:  "https://app.toughtongueai.com/embed/67b0248abc39997a6c6a4cc7?bg=black&skipPrecheck=true",
				MediaType: domain.MediaTypeToughTongue,
			},
		},
	}
}

// PlanFor maps the saved course list to a lesson plan. An empty list yields the
// default plan. A provisioned course becomes a playable practice lesson; an
// unprovisioned one becomes a placeholder so the list keeps its shape while a
// pipeline run is still filling in scenarios.
func PlanFor(courses []*domain.Course) *domain.LessonPlan {
	if len(courses) == 0 {
		return DefaultPlan()
	}

	plan := &domain.LessonPlan{
		Title:   personalizedPlanTitle,
		Lessons: make([]*domain.Lesson, 0, len(courses)),
	}
	for _, c := range courses {
		lesson := &domain.Lesson{
			ID:       "practice-" + c.ID,
			Title:    c.Title,
			Duration: practiceDuration,
		}
		if c.Provisioned() {
			lesson.VideoURL = c.EmbedURL
			lesson.MediaType = domain.MediaTypeToughTongue
		} else {
			lesson.MediaType = domain.MediaTypePlaceholder
		}
		plan.Lessons = append(plan.Lessons, lesson)
	}
	return plan
}
