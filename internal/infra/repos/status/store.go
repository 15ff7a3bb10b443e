// Package status stores the ephemeral processing-status record that the lesson
// player polls while a pipeline run is in flight.
package status

import "github.com/ajitesh123/tough-tongue-starter/internal/domain"

// Store holds at most one ProcessingStatus. Get returns (nil, nil) when no record
// exists; a malformed stored payload is treated the same way and cleared.
type Store interface {
	Set(s *domain.ProcessingStatus) error
	Get() (*domain.ProcessingStatus, error)
	Clear() error
}
