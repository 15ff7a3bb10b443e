package courses

import "github.com/ajitesh123/tough-tongue-starter/internal/domain"

// Repository is the canonical store for the ordered course list.
//
// Save is a full replace: the stored list becomes exactly the given one, in the
// given order, last writer wins. Update merges a partial patch into one course and
// reports false (not an error) when the id is unknown.
type Repository interface {
	Load() ([]*domain.Course, error)
	Save(courses []*domain.Course) error
	Update(id string, patch *domain.CoursePatch) (bool, error)
	Clear() error
}
