package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"

	http "github.com/bogdanfinn/fhttp"
	"github.com/tidwall/gjson"

	apierrors "github.com/hyizhou/ask/internal/errors"
	"github.com/hyizhou/ask/internal/models"
)

// openAIRequest is the OpenAI-compatible chat completions payload
type openAIRequest struct {
	Model    string        `json:"model"`
	Messages []models.Turn `json:"messages"`
	Stream   bool          `json:"stream"`
}

// qwenRequest is the DashScope text-generation payload
type qwenRequest struct {
	Model      string         `json:"model"`
	Input      qwenInput      `json:"input"`
	Parameters qwenParameters `json:"parameters"`
}

type qwenInput struct {
	Messages []models.Turn `json:"messages"`
}

type qwenParameters struct {
	Stream bool `json:"stream"`
}

// Send posts the message sequence to the profile's endpoint and returns
// the reply as a Stream. With stream=false the Stream yields a single
// chunk holding the whole reply. A failed exchange is reported as one
// of the typed errors from internal/errors; there are no retries.
func (c *Client) Send(ctx context.Context, profile models.ModelProfile, messages []models.Turn, stream bool) (*Stream, error) {
	payload, err := buildPayload(profile, messages, stream)
	if err != nil {
		return nil, fmt.Errorf("failed to build payload: %w", err)
	}

	endpoint := profile.Endpoint()
	req, err := http.NewRequest(http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req = req.WithContext(ctx)

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+profile.APIKey)
	if stream {
		req.Header.Set("Accept", "text/event-stream")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apierrors.NewNetworkError(endpoint, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		message := readErrorMessage(resp.Body)
		_ = resp.Body.Close()
		return nil, apierrors.FromStatus(resp.StatusCode, endpoint, message)
	}

	return newStream(resp.Body, profile.Kind, stream, endpoint), nil
}

// buildPayload marshals the request body for the profile's wire shape
func buildPayload(profile models.ModelProfile, messages []models.Turn, stream bool) ([]byte, error) {
	switch profile.Kind {
	case models.KindQwen:
		return json.Marshal(qwenRequest{
			Model:      profile.Model,
			Input:      qwenInput{Messages: messages},
			Parameters: qwenParameters{Stream: stream},
		})
	default:
		return json.Marshal(openAIRequest{
			Model:    profile.Model,
			Messages: messages,
			Stream:   stream,
		})
	}
}

// readErrorMessage extracts a human-readable message from an error
// response body, capped at 4KB
func readErrorMessage(body io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(body, 4096))
	if err != nil || len(raw) == 0 {
		return ""
	}

	parsed := gjson.ParseBytes(raw)
	for _, path := range []string{"error.message", "message", "error"} {
		if msg := parsed.Get(path); msg.Exists() && msg.Type == gjson.String {
			return msg.String()
		}
	}
	return string(raw)
}
