package domain

import "fmt"

// GenerationError means the scenario-content generation endpoint failed: the call
// returned a non-2xx status or the body could not be parsed into ScenarioContent.
type GenerationError struct {
	Status  int
	Message string
}

func (e *GenerationError) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("scenario generation failed: status=%d %s", e.Status, e.Message)
	}
	return fmt.Sprintf("scenario generation failed: %s", e.Message)
}

// ProvisionError means the scenario-hosting create call failed.
type ProvisionError struct {
	Status  int
	Message string
}

func (e *ProvisionError) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("scenario create failed: status=%d %s", e.Status, e.Message)
	}
	return fmt.Sprintf("scenario create failed: %s", e.Message)
}
