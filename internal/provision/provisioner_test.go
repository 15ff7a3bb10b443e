package provision

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ajitesh123/tough-tongue-starter/internal/domain"
	"github.com/ajitesh123/tough-tongue-starter/internal/llm"
	"github.com/ajitesh123/tough-tongue-starter/internal/logging"
	"github.com/ajitesh123/tough-tongue-starter/internal/toughtongue"
)

func newProvisioner(t *testing.T, llmHandler, ttHandler http.HandlerFunc) *Provisioner {
	t.Helper()
	llmSrv := httptest.NewServer(llmHandler)
	t.Cleanup(llmSrv.Close)
	ttSrv := httptest.NewServer(ttHandler)
	t.Cleanup(ttSrv.Close)
	return NewProvisioner(
		llm.NewClient(llmSrv.URL, "", "o1-mini"),
		toughtongue.NewClient(ttSrv.URL, ""),
		logging.NewLogger("error"),
	)
}

func llmReturning(content string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"content": content}},
			},
		})
	}
}

const validScenarioJSON = `{"name":"Handling Pushback","description":"A tense sprint planning meeting.","ai_instructions":"Play a skeptical engineer."}`

func TestProvision_HappyPath(t *testing.T) {
	var gotCreate toughtongue.CreateScenarioRequest
	p := newProvisioner(t,
		llmReturning(validScenarioJSON),
		func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewDecoder(r.Body).Decode(&gotCreate)
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte(`{"id":"scn-42"}`))
		},
	)

	course := &domain.Course{ID: "course-1", Title: "Handling Engineering Pushback", Description: "original description"}
	res, err := p.Provision(course)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.ScenarioID != "scn-42" {
		t.Fatalf("unexpected scenario id: %q", res.ScenarioID)
	}
	if res.EmbedURL != "https://app.toughtongueai.com/embed/scn-42?bg=black&skipPrecheck=true" {
		t.Fatalf("unexpected embed url: %q", res.EmbedURL)
	}
	if gotCreate.Name != "Handling Pushback" {
		t.Fatalf("generated name not forwarded: %#v", gotCreate)
	}
	if gotCreate.UserFriendlyDescription != "original description" {
		t.Fatalf("course description not passed through: %#v", gotCreate)
	}
}

func TestProvision_FencedModelOutput(t *testing.T) {
	p := newProvisioner(t,
		llmReturning("```json\n"+validScenarioJSON+"\n```"),
		func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"id":"scn-1"}`))
		},
	)
	if _, err := p.Provision(&domain.Course{ID: "course-1", Title: "t", Description: "d"}); err != nil {
		t.Fatalf("fenced JSON should be accepted: %v", err)
	}
}

func TestProvision_GenerationErrorPropagatesServerMessage(t *testing.T) {
	p := newProvisioner(t,
		func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"error":{"message":"model overloaded"}}`))
		},
		func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("scenario create must not be called when generation fails")
		},
	)

	_, err := p.Provision(&domain.Course{ID: "course-1", Title: "t", Description: "d"})
	var genErr *domain.GenerationError
	if !errors.As(err, &genErr) {
		t.Fatalf("expected *domain.GenerationError, got %T: %v", err, err)
	}
	if genErr.Status != http.StatusServiceUnavailable || genErr.Message != "model overloaded" {
		t.Fatalf("unexpected error: %#v", genErr)
	}
}

func TestProvision_GenerationErrorOnNonJSONOutput(t *testing.T) {
	p := newProvisioner(t,
		llmReturning("I'd be happy to help! Here is the scenario: ..."),
		func(w http.ResponseWriter, r *http.Request) {},
	)
	_, err := p.Provision(&domain.Course{ID: "course-1", Title: "t", Description: "d"})
	var genErr *domain.GenerationError
	if !errors.As(err, &genErr) {
		t.Fatalf("expected *domain.GenerationError, got %T: %v", err, err)
	}
}

func TestProvision_CreateFailureIsProvisionError(t *testing.T) {
	p := newProvisioner(t,
		llmReturning(validScenarioJSON),
		func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
			_, _ = w.Write([]byte(`{"error":"invalid api key"}`))
		},
	)

	_, err := p.Provision(&domain.Course{ID: "course-1", Title: "t", Description: "d"})
	var provErr *domain.ProvisionError
	if !errors.As(err, &provErr) {
		t.Fatalf("expected *domain.ProvisionError, got %T: %v", err, err)
	}
	if provErr.Status != http.StatusForbidden || provErr.Message != "invalid api key" {
		t.Fatalf("unexpected error: %#v", provErr)
	}
}
