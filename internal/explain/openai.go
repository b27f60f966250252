// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package explain

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"text/template"
	"time"
)

// bulletPromptTmpl is the prompt sent to the generative assistant for one
// (profile, document) pair. It asks for strict JSON so the response can be
// decoded without post-processing. Per prd003-explanation R3.2.
var bulletPromptTmpl = template.Must(template.New("bullets").Parse(`You are an assistant for a researcher. Compare the researcher's profile with the paper below.
Return a JSON object with:
- "similarities": 2-3 short bullets describing concrete overlaps between the profile and the paper
- "ideas": 1-2 short bullets proposing specific extensions or applications for the researcher

Do not include any text outside the JSON object.

PROFILE:
{{.Profile}}
TOPICS:
{{.Topics}}
TITLE:
{{.Title}}
ABSTRACT:
{{.Abstract}}
`))

// chatCompletionsURL is the assistant endpoint. Package-level var for test
// substitution.
var chatCompletionsURL = "https://api.openai.com/v1/chat/completions"

// defaultRequestTimeout bounds a single assistant call.
const defaultRequestTimeout = 30 * time.Second

// BulletResponse is the structured assistant output for one pair.
type BulletResponse struct {
	Similarities []string `json:"similarities"`
	Ideas        []string `json:"ideas"`
}

// Backend performs one generative call per invocation; the retry loop
// lives in the Provider so tests can supply a mock. Per Strategy pattern
// (prd003-explanation R3.1).
type Backend interface {
	Ideas(ctx context.Context, profileSummary string, topics []string, title, abstract string) (BulletResponse, error)
}

// statusError carries a non-2xx HTTP status so the retry loop can decide
// whether the failure is transient.
type statusError struct {
	code int
	body string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("assistant returned HTTP %d: %s", e.code, e.body)
}

// retryable reports whether err is a transient assistant failure:
// HTTP 429 or any 5xx. Everything else fails immediately.
func retryable(err error) bool {
	var se *statusError
	if errors.As(err, &se) {
		return se.code == http.StatusTooManyRequests || (se.code >= 500 && se.code < 600)
	}
	return false
}

// OpenAIBackend calls an OpenAI-compatible chat-completions endpoint with
// a JSON response format.
type OpenAIBackend struct {
	APIKey string
	Model  string
	Client *http.Client
}

// chatRequest is the request body for the chat-completions API.
type chatRequest struct {
	Model          string        `json:"model"`
	Messages       []chatMessage `json:"messages"`
	Temperature    float64       `json:"temperature"`
	ResponseFormat responseFmt   `json:"response_format"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFmt struct {
	Type string `json:"type"`
}

// chatResponse is the response body from the chat-completions API.
type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Ideas performs a single assistant call and decodes the JSON bullets.
func (b *OpenAIBackend) Ideas(ctx context.Context, profileSummary string, topics []string, title, abstract string) (BulletResponse, error) {
	var buf bytes.Buffer
	err := bulletPromptTmpl.Execute(&buf, struct {
		Profile, Topics, Title, Abstract string
	}{profileSummary, strings.Join(topics, ", "), title, abstract})
	if err != nil {
		return BulletResponse{}, fmt.Errorf("rendering prompt: %w", err)
	}

	reqBody := chatRequest{
		Model:          b.Model,
		Messages:       []chatMessage{{Role: "user", Content: buf.String()}},
		Temperature:    0.1,
		ResponseFormat: responseFmt{Type: "json_object"},
	}
	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return BulletResponse{}, fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, chatCompletionsURL, bytes.NewReader(bodyBytes))
	if err != nil {
		return BulletResponse{}, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+b.APIKey)

	client := b.Client
	if client == nil {
		client = &http.Client{Timeout: defaultRequestTimeout}
	}

	resp, err := client.Do(req)
	if err != nil {
		return BulletResponse{}, fmt.Errorf("calling assistant: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 200))
		return BulletResponse{}, &statusError{code: resp.StatusCode, body: string(body)}
	}

	var cr chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&cr); err != nil {
		return BulletResponse{}, fmt.Errorf("decoding assistant response: %w", err)
	}
	if len(cr.Choices) == 0 {
		return BulletResponse{}, fmt.Errorf("assistant returned no choices")
	}

	var br BulletResponse
	if err := json.Unmarshal([]byte(cr.Choices[0].Message.Content), &br); err != nil {
		return BulletResponse{}, fmt.Errorf("parsing assistant JSON: %w", err)
	}
	return br, nil
}
