package genai

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var (
	genDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "ideaarena",
		Subsystem: "genai",
		Name:      "generate_duration_seconds",
		Help:      "Duration of generative model calls",
	}, []string{"model"})

	genFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "ideaarena",
		Subsystem: "genai",
		Name:      "generate_failures_total",
		Help:      "Number of failed generative model calls",
	}, []string{"model"})

	keyRotations = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "ideaarena",
		Subsystem: "genai",
		Name:      "key_rotations_total",
		Help:      "Number of times a rate-limited key was rotated out mid-request",
	})
)

// ErrNoCredentials indicates the client was constructed without any API keys.
// Callers are expected to fall back to a strategy that needs no model call.
var ErrNoCredentials = errors.New("no api credentials configured")

// defaultBaseURL targets the Gemini OpenAI-compatible endpoint.
const defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta/openai/"

const defaultModel = "gemini-2.5-flash"

var rateLimitMarkers = []string{"rate limit", "quota", "429", "resource exhausted", "exceeded"}

// completionAPI is the slice of the SDK surface the client needs; tests
// substitute it for a stub.
type completionAPI interface {
	CreateChatCompletion(ctx context.Context, request openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Config defines construction options for the rotating client.
type Config struct {
	APIKeys     []string
	Model       string
	BaseURL     string
	MaxTokens   int
	Temperature float32
	Logger      zerolog.Logger
}

// Client is a round-robin, mutually-exclusive caller of the generative model.
// The underlying SDK keeps the active credential as shared call configuration,
// so configuring a key and invoking the model run as one uninterruptible unit
// under callMu; a concurrent Generate cannot swap the credential mid-call.
type Client struct {
	pool   *Pool
	cfg    Config
	callMu sync.Mutex
	dial   func(apiKey string) completionAPI
	tracer trace.Tracer
	logger zerolog.Logger
}

// NewClient builds a rotating client over the configured key pool.
func NewClient(cfg Config) *Client {
	if cfg.Model == "" {
		cfg.Model = defaultModel
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = 1024
	}

	client := &Client{
		pool:   NewPool(cfg.APIKeys),
		cfg:    cfg,
		tracer: otel.Tracer("github.com/ideaarena/ideaarena-go-api/pkg/genai"),
		logger: cfg.Logger.With().Str("component", "genai_client").Logger(),
	}
	client.dial = func(apiKey string) completionAPI {
		sdkConfig := openai.DefaultConfig(apiKey)
		sdkConfig.BaseURL = cfg.BaseURL
		return openai.NewClientWithConfig(sdkConfig)
	}

	return client
}

// KeyCount reports how many usable credentials the client holds.
func (c *Client) KeyCount() int {
	return c.pool.Size()
}

// Generate produces model output for the prompt using the next key in
// rotation. Rate-limited keys are rotated out and the call retried, at most
// once per key in the pool; any other error propagates immediately. When
// every key is rate-limited the last such error is returned.
func (c *Client) Generate(parent context.Context, prompt string) (string, error) {
	ctx, span := c.tracer.Start(parent, "genai.generate", trace.WithAttributes(
		attribute.String("model", c.cfg.Model),
	))
	defer span.End()

	if c.pool.Size() == 0 {
		span.SetStatus(codes.Error, ErrNoCredentials.Error())
		return "", ErrNoCredentials
	}

	var lastErr error
	attempts := c.pool.Size()
	for attempt := 0; attempt < attempts; attempt++ {
		key, ok := c.pool.Next()
		if !ok {
			span.SetStatus(codes.Error, ErrNoCredentials.Error())
			return "", ErrNoCredentials
		}

		text, err := c.callWithKey(ctx, key, prompt)
		if err == nil {
			span.SetAttributes(attribute.Int("genai.attempts", attempt+1))
			return text, nil
		}

		if !isRateLimited(err) {
			span.RecordError(err)
			span.SetStatus(codes.Error, "generate_failed")
			return "", err
		}

		lastErr = err
		keyRotations.Inc()
		c.logger.Info().Int("attempt", attempt+1).Msg("rate limited key rotated out, retrying with next key")
	}

	span.RecordError(lastErr)
	span.SetStatus(codes.Error, "credential_pool_exhausted")
	return "", lastErr
}

// callWithKey configures the SDK with one key and performs a single call. The
// lock spans both steps: the active client is shared state and must not be
// reconfigured while a call is in flight.
func (c *Client) callWithKey(ctx context.Context, apiKey, prompt string) (string, error) {
	c.callMu.Lock()
	defer c.callMu.Unlock()

	api := c.dial(apiKey)

	request := openai.ChatCompletionRequest{
		Model:       c.cfg.Model,
		MaxTokens:   c.cfg.MaxTokens,
		Temperature: c.cfg.Temperature,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
	}

	start := time.Now()
	resp, err := api.CreateChatCompletion(ctx, request)
	genDuration.WithLabelValues(c.cfg.Model).Observe(time.Since(start).Seconds())
	if err != nil {
		genFailures.WithLabelValues(c.cfg.Model).Inc()
		return "", err
	}

	if len(resp.Choices) == 0 {
		genFailures.WithLabelValues(c.cfg.Model).Inc()
		return "", errors.New("empty model response")
	}

	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if content == "" {
		genFailures.WithLabelValues(c.cfg.Model).Inc()
		return "", errors.New("empty model response")
	}

	return content, nil
}

func isRateLimited(err error) bool {
	message := strings.ToLower(err.Error())
	for _, marker := range rateLimitMarkers {
		if strings.Contains(message, marker) {
			return true
		}
	}
	return false
}
