package runs

import "github.com/ajitesh123/tough-tongue-starter/internal/domain"

// Repository stores pipeline run history.
type Repository interface {
	Create(run *domain.PipelineRun) error
	Update(run *domain.PipelineRun) error
	Get(id string) (*domain.PipelineRun, error)
	List(limit int) ([]*domain.PipelineRun, error)
}
