// Package toughtongue talks to the Tough Tongue AI scenario-hosting API.
package toughtongue

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const embedBaseURL = "https://app.toughtongueai.com/embed/"

// EmbedURL derives the iframe playback URL for a hosted scenario. Pure string
// substitution; the id is inserted as-is.
func EmbedURL(scenarioID string) string {
	return embedBaseURL + scenarioID + "?bg=black&skipPrecheck=true"
}

// CreateScenarioRequest is the create payload. UserFriendlyDescription carries the
// original course description alongside the generated copy.
type CreateScenarioRequest struct {
	Name                    string `json:"name"`
	Description             string `json:"description"`
	AIInstructions          string `json:"ai_instructions"`
	UserFriendlyDescription string `json:"user_friendly_description,omitempty"`
}

// Scenario is the subset of the create response the pipeline consumes.
type Scenario struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// APIError carries the upstream status and error message of a failed create.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("tough tongue request failed: status=%d %s", e.Status, e.Message)
}

type Client struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// CreateScenario creates a hosted interactive scenario and returns its record.
func (c *Client) CreateScenario(req *CreateScenarioRequest) (*Scenario, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequest(http.MethodPost, c.baseURL+"/scenarios", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &APIError{Status: resp.StatusCode, Message: extractErrorMessage(body)}
	}

	var scenario Scenario
	if err := json.Unmarshal(body, &scenario); err != nil {
		return nil, fmt.Errorf("scenario create response is not valid JSON: %w", err)
	}
	if scenario.ID == "" {
		return nil, fmt.Errorf("scenario create response has no id")
	}
	return &scenario, nil
}

func extractErrorMessage(body []byte) string {
	var er struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &er); err == nil && er.Error != "" {
		return er.Error
	}
	return strings.TrimSpace(string(body))
}
