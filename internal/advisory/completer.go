package advisory

import (
	"context"
	"fmt"
	"net/http"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"

	"github.com/julianstephens/careagent/internal/constants"
)

// Request is one chat completion: a fixed persona, a prompt and whether the
// reply must be a JSON object.
type Request struct {
	System     string
	Prompt     string
	Structured bool
}

// Completer sends a single request to a model and returns the reply text.
// Implementations must not retry; the Gateway owns the retry policy.
type Completer interface {
	Complete(ctx context.Context, req Request) (string, error)
}

// OpenAICompleter talks to any OpenAI-compatible chat completions endpoint.
type OpenAICompleter struct {
	client     openai.Client
	model      string
	baseURL    string
	httpClient *http.Client
}

type CompleterOption func(*OpenAICompleter)

// WithModel sets the model identifier sent with each request.
func WithModel(model string) CompleterOption {
	return func(c *OpenAICompleter) {
		c.model = model
	}
}

// WithBaseURL points the client at a different OpenAI-compatible API.
func WithBaseURL(baseURL string) CompleterOption {
	return func(c *OpenAICompleter) {
		c.baseURL = baseURL
	}
}

// WithHTTPClient replaces the HTTP client used by the SDK.
func WithHTTPClient(hc *http.Client) CompleterOption {
	return func(c *OpenAICompleter) {
		c.httpClient = hc
	}
}

// NewOpenAICompleter builds a completer for the Groq endpoint unless
// overridden by options.
func NewOpenAICompleter(apiKey string, opts ...CompleterOption) (*OpenAICompleter, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	c := &OpenAICompleter{
		model:   constants.DefaultModel,
		baseURL: constants.DefaultProviderBaseURL,
	}
	for _, opt := range opts {
		opt(c)
	}

	clientOpts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithBaseURL(c.baseURL),
		option.WithMaxRetries(0),
	}
	if c.httpClient != nil {
		clientOpts = append(clientOpts, option.WithHTTPClient(c.httpClient))
	}
	c.client = openai.NewClient(clientOpts...)

	return c, nil
}

func (c *OpenAICompleter) Model() string {
	return c.model
}

func (c *OpenAICompleter) Complete(ctx context.Context, req Request) (string, error) {
	params := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(req.System),
			openai.UserMessage(req.Prompt),
		},
	}
	if req.Structured {
		params.ResponseFormat = openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &shared.ResponseFormatJSONObjectParam{},
		}
	}

	completion, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", err
	}
	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("provider returned no choices")
	}
	return completion.Choices[0].Message.Content, nil
}
