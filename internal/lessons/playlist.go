package lessons

import "github.com/ajitesh123/tough-tongue-starter/internal/domain"

// Playlist wraps a lesson plan with a current selection. Navigation clamps at
// both ends rather than wrapping.
type Playlist struct {
	plan     *domain.LessonPlan
	selected int
}

func NewPlaylist(plan *domain.LessonPlan) *Playlist {
	return &Playlist{plan: plan}
}

func (p *Playlist) Plan() *domain.LessonPlan { return p.plan }

// Current returns the selected lesson, or nil for an empty plan.
func (p *Playlist) Current() *domain.Lesson {
	if len(p.plan.Lessons) == 0 {
		return nil
	}
	return p.plan.Lessons[p.selected]
}

// Select moves the selection to the lesson with the given id and reports whether
// it was found. An unknown id leaves the selection alone.
func (p *Playlist) Select(id string) bool {
	for i, l := range p.plan.Lessons {
		if l.ID == id {
			p.selected = i
			return true
		}
	}
	return false
}

func (p *Playlist) Next() *domain.Lesson {
	if p.selected < len(p.plan.Lessons)-1 {
		p.selected++
	}
	return p.Current()
}

func (p *Playlist) Previous() *domain.Lesson {
	if p.selected > 0 {
		p.selected--
	}
	return p.Current()
}

// Reconcile swaps in a new plan, keeping the selection on the same lesson id when
// it still exists. This is how the player absorbs a pipeline run finishing: the
// placeholder lesson the user is on turns playable without losing their place.
func (p *Playlist) Reconcile(plan *domain.LessonPlan) {
	var keep string
	if cur := p.Current(); cur != nil {
		keep = cur.ID
	}

	p.plan = plan
	p.selected = 0
	if keep != "" {
		p.Select(keep)
	}
}
