package adapter

import (
	"context"
	"fmt"

	m "github.com/mouse-blink/quill/internal/model"
)

// ContentProvider produces the content fields for one function. A provider
// failing or timing out is an expected condition; callers fall back to
// placeholder content.
type ContentProvider interface {
	// Fill returns content for the given record.
	Fill(ctx context.Context, record m.FunctionRecord) (m.ContentFields, error)

	// Kind names the provider for logs and reports.
	Kind() string
}

// ProviderOptions selects and configures a content provider.
type ProviderOptions struct {
	Kind           string
	BaseURL        string
	Model          string
	APIKeyEnv      string
	TimeoutSeconds int
}

// NewContentProvider constructs the provider selected by Kind.
func NewContentProvider(opts ProviderOptions) (ContentProvider, error) {
	switch opts.Kind {
	case "", "placeholder":
		return NewPlaceholderProvider(), nil
	case "openai":
		return NewOpenAIProvider(opts), nil
	default:
		return nil, fmt.Errorf("unknown provider kind: %s", opts.Kind)
	}
}

// PlaceholderProvider fills every field with its greppable sentinel. It is
// the default provider and the fallback when a delegated provider fails.
type PlaceholderProvider struct{}

// NewPlaceholderProvider constructs a PlaceholderProvider.
func NewPlaceholderProvider() *PlaceholderProvider {
	return &PlaceholderProvider{}
}

// Fill returns sentinel content derived from the record.
func (p *PlaceholderProvider) Fill(_ context.Context, record m.FunctionRecord) (m.ContentFields, error) {
	return m.PlaceholderContent(record), nil
}

// Kind names the provider.
func (p *PlaceholderProvider) Kind() string {
	return "placeholder"
}
