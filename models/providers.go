package models

import (
	"fmt"
	"net/http"

	"github.com/tmc/langchaingo/llms/openai"
)

const (
	// DeepSeekBaseURL is the base URL for the DeepSeek OpenAI-compatible
	// API.
	DeepSeekBaseURL = "https://api.deepseek.com/v1"

	// QwenBaseURL is the base URL for Alibaba DashScope's
	// OpenAI-compatible endpoint serving the Qwen models.
	QwenBaseURL = "https://dashscope.aliyuncs.com/compatible-mode/v1"
)

// NewOpenAI creates an LCGClient backed by the OpenAI chat completions
// API.
//
// Additional openai.Option values can be passed to customise the
// underlying LangChainGo client (e.g. WithBaseURL for proxies).
func NewOpenAI(model, token string, opts ...openai.Option) (*LCGClient, error) {
	if token == "" {
		return nil, fmt.Errorf("openai token is required")
	}

	baseOpts := []openai.Option{
		openai.WithToken(token),
		openai.WithModel(model),
	}
	allOpts := append(baseOpts, opts...)

	llm, err := openai.New(allOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create OpenAI client: %w", err)
	}
	return NewLCGClient(llm).WithModelName(model), nil
}

// NewDeepSeek creates an LCGClient backed by the DeepSeek API, which
// speaks the OpenAI wire protocol.
//
// Model names are e.g. "deepseek-chat" and "deepseek-reasoner".
func NewDeepSeek(model, token string, opts ...openai.Option) (*LCGClient, error) {
	if token == "" {
		return nil, fmt.Errorf("deepseek token is required")
	}

	baseOpts := []openai.Option{
		openai.WithBaseURL(DeepSeekBaseURL),
		openai.WithToken(token),
		openai.WithModel(model),
	}
	allOpts := append(baseOpts, opts...)

	llm, err := openai.New(allOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create DeepSeek client: %w", err)
	}
	return NewLCGClient(llm).WithModelName(model), nil
}

// dashScopeTransport injects DashScope-specific headers into every
// request.
type dashScopeTransport struct {
	base      http.RoundTripper
	workspace string
}

func (t *dashScopeTransport) Do(req *http.Request) (*http.Response, error) {
	if t.workspace != "" {
		req.Header.Set("X-DashScope-WorkSpace", t.workspace)
	}
	return t.base.RoundTrip(req)
}

// NewQwen creates an LCGClient backed by the Qwen models on Alibaba
// DashScope's OpenAI-compatible endpoint.
//
// workspace is the optional DashScope workspace id; pass "" when the
// account default should be used. Model names are e.g. "qwen-max" and
// "qwen-plus".
func NewQwen(model, token, workspace string, opts ...openai.Option) (*LCGClient, error) {
	if token == "" {
		return nil, fmt.Errorf("dashscope token is required")
	}

	baseOpts := []openai.Option{
		openai.WithBaseURL(QwenBaseURL),
		openai.WithToken(token),
		openai.WithModel(model),
		openai.WithHTTPClient(&dashScopeTransport{
			base:      http.DefaultTransport,
			workspace: workspace,
		}),
	}
	allOpts := append(baseOpts, opts...)

	llm, err := openai.New(allOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Qwen client: %w", err)
	}
	return NewLCGClient(llm).WithModelName(model), nil
}
