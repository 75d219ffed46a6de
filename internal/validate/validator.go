// Package validate defines the chess-legality collaborator consumed after
// transcript assembly. The core never implements chess rules itself; it
// forwards the assembled move list to an external engine and records the
// per-move verdicts.
package validate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Move statuses reported by the validator.
const (
	StatusOK      = "ok"
	StatusWarning = "warning"
	StatusError   = "error"
)

// MoveStatus is one move's legality verdict.
type MoveStatus struct {
	// MoveIndex is the position in the flattened move list (0-based,
	// white and black interleaved).
	MoveIndex int `json:"move_index"`

	// Status is "ok", "warning", or "error".
	Status string `json:"status"`

	// Message explains warnings and errors; empty for "ok".
	Message string `json:"message,omitempty"`
}

// MoveValidator checks an assembled move list for chess legality.
type MoveValidator interface {
	ValidateMoves(ctx context.Context, moves []string) ([]MoveStatus, error)
}

// NoopValidator accepts every move. Used when no engine is configured;
// the transcript then carries "ok" verdicts with a blanket message.
type NoopValidator struct{}

// ValidateMoves marks every move ok without inspection.
func (NoopValidator) ValidateMoves(_ context.Context, moves []string) ([]MoveStatus, error) {
	statuses := make([]MoveStatus, len(moves))
	for i := range moves {
		statuses[i] = MoveStatus{MoveIndex: i, Status: StatusOK}
	}
	return statuses, nil
}

// EngineClient validates moves against an external engine over HTTP.
// The engine receives {"moves": [...]} and answers with a status array in
// move order.
type EngineClient struct {
	baseURL string
	client  *http.Client
}

// NewEngineClient creates a client for the engine at baseURL.
func NewEngineClient(baseURL string) *EngineClient {
	return &EngineClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

type validateRequest struct {
	Moves []string `json:"moves"`
}

type validateResponse struct {
	Statuses []MoveStatus `json:"statuses"`
}

// ValidateMoves posts the move list to the engine's /validate endpoint.
func (e *EngineClient) ValidateMoves(ctx context.Context, moves []string) ([]MoveStatus, error) {
	body, err := json.Marshal(validateRequest{Moves: moves})
	if err != nil {
		return nil, fmt.Errorf("failed to encode validation request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.baseURL+"/validate", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build validation request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("validation request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("validator returned status %d", resp.StatusCode)
	}

	var decoded validateResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("failed to decode validation response: %w", err)
	}
	return decoded.Statuses, nil
}
