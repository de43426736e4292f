package adapter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"strings"
	"time"

	m "github.com/mouse-blink/quill/internal/model"
)

const (
	defaultBaseURL   = "https://api.openai.com/v1"
	defaultModel     = "gpt-4.1-mini"
	defaultAPIKeyEnv = "QUILL_API_KEY"
	defaultTimeout   = 60

	chatCompletionsPath = "/chat/completions"
)

const systemPrompt = "You document source code. Reply with a single JSON object " +
	"holding: summary (string), parameters (array of {name, desc}), " +
	"return_description (string), exceptions (array of {type, desc}). " +
	"Describe only what the signature and body support."

// OpenAIProvider fills content by calling an OpenAI-compatible chat
// completions endpoint, one function per request.
type OpenAIProvider struct {
	hc        *http.Client
	url       string
	model     string
	apiKeyEnv string
}

// NewOpenAIProvider constructs a provider from options, applying defaults
// for anything unset. A missing API key is reported per call, not here, so
// the caller's placeholder fallback stays reachable.
func NewOpenAIProvider(opts ProviderOptions) *OpenAIProvider {
	if opts.BaseURL == "" {
		opts.BaseURL = defaultBaseURL
	}

	if opts.Model == "" {
		opts.Model = defaultModel
	}

	if opts.APIKeyEnv == "" {
		opts.APIKeyEnv = defaultAPIKeyEnv
	}

	if opts.TimeoutSeconds <= 0 {
		opts.TimeoutSeconds = defaultTimeout
	}

	return &OpenAIProvider{
		hc:        &http.Client{Timeout: time.Duration(opts.TimeoutSeconds) * time.Second},
		url:       strings.TrimRight(opts.BaseURL, "/") + chatCompletionsPath,
		model:     opts.Model,
		apiKeyEnv: opts.APIKeyEnv,
	}
}

// Kind names the provider.
func (p *OpenAIProvider) Kind() string {
	return "openai"
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model          string        `json:"model"`
	Messages       []chatMessage `json:"messages"`
	ResponseFormat *struct {
		Type string `json:"type"`
	} `json:"response_format,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// providerPayload is the JSON contract the model is asked to honor.
type providerPayload struct {
	Summary    string `json:"summary"`
	Parameters []struct {
		Name string `json:"name"`
		Desc string `json:"desc"`
	} `json:"parameters"`
	ReturnDescription string `json:"return_description"`
	Exceptions        []struct {
		Type string `json:"type"`
		Desc string `json:"desc"`
	} `json:"exceptions"`
}

// Fill requests content for one record. Unreachable or overloaded
// endpoints map to ErrProviderUnavailable, expired deadlines to
// ErrProviderTimeout, so the workflow can fall back to placeholders.
func (p *OpenAIProvider) Fill(ctx context.Context, record m.FunctionRecord) (m.ContentFields, error) {
	apiKey := os.Getenv(p.apiKeyEnv)
	if apiKey == "" {
		return m.ContentFields{}, fmt.Errorf("%w: %s is not set", ErrProviderUnavailable, p.apiKeyEnv)
	}

	body, err := json.Marshal(p.request(record))
	if err != nil {
		return m.ContentFields{}, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.url, bytes.NewReader(body))
	if err != nil {
		return m.ContentFields{}, fmt.Errorf("new request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := p.hc.Do(req)
	if err != nil {
		return m.ContentFields{}, classifyTransport(err)
	}

	defer func() {
		_ = resp.Body.Close()
	}()

	if err := classifyStatus(resp); err != nil {
		return m.ContentFields{}, err
	}

	var chat chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chat); err != nil {
		return m.ContentFields{}, fmt.Errorf("decode response: %w", err)
	}

	if len(chat.Choices) == 0 || chat.Choices[0].Message.Content == "" {
		return m.ContentFields{}, errors.New("response holds no choices")
	}

	return mergePayload(record, chat.Choices[0].Message.Content)
}

func (p *OpenAIProvider) request(record m.FunctionRecord) chatRequest {
	var prompt strings.Builder

	fmt.Fprintf(&prompt, "Function: %s\n", record.QualifiedName)
	fmt.Fprintf(&prompt, "Signature: %s\n", record.Signature)

	if len(record.Raises) > 0 {
		fmt.Fprintf(&prompt, "Raises: %s\n", strings.Join(record.Raises, ", "))
	}

	req := chatRequest{
		Model: p.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: prompt.String()},
		},
	}
	req.ResponseFormat = &struct {
		Type string `json:"type"`
	}{Type: "json_object"}

	return req
}

// classifyTransport maps client-side failures onto the provider error
// taxonomy.
func classifyTransport(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrProviderTimeout, err)
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("%w: %v", ErrProviderTimeout, err)
	}

	return fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
}

// classifyStatus maps non-2xx responses onto the provider error taxonomy.
func classifyStatus(resp *http.Response) error {
	if resp.StatusCode/100 == 2 {
		return nil
	}

	slurp, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
	msg := strings.TrimSpace(string(slurp))

	if resp.StatusCode == http.StatusRequestTimeout {
		return fmt.Errorf("%w: upstream %d: %s", ErrProviderTimeout, resp.StatusCode, msg)
	}

	return fmt.Errorf("%w: upstream %d: %s", ErrProviderUnavailable, resp.StatusCode, msg)
}

// mergePayload lays provider content over a placeholder base, so fields
// the model leaves empty keep their sentinels.
func mergePayload(record m.FunctionRecord, content string) (m.ContentFields, error) {
	raw, ok := firstJSONObject(content)
	if !ok {
		return m.ContentFields{}, errors.New("response holds no JSON object")
	}

	var payload providerPayload
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return m.ContentFields{}, fmt.Errorf("decode payload: %w", err)
	}

	fields := m.PlaceholderContent(record)

	if payload.Summary != "" {
		fields.Summary = payload.Summary
	}

	for _, param := range payload.Parameters {
		if param.Name != "" && param.Desc != "" {
			fields.Params[param.Name] = param.Desc
		}
	}

	if payload.ReturnDescription != "" {
		fields.Returns = payload.ReturnDescription
	}

	for _, exc := range payload.Exceptions {
		if exc.Type != "" && exc.Desc != "" {
			fields.Raises[exc.Type] = exc.Desc
		}
	}

	return fields, nil
}

// firstJSONObject cuts the first balanced JSON object out of text, so
// fenced or chatty responses still parse.
func firstJSONObject(text string) (string, bool) {
	start := strings.IndexByte(text, '{')
	if start < 0 {
		return "", false
	}

	depth := 0
	inString := false

	for i := start; i < len(text); i++ {
		c := text[i]

		if inString {
			switch c {
			case '\\':
				i++
			case '"':
				inString = false
			}

			continue
		}

		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[start : i+1], true
			}
		}
	}

	return "", false
}
