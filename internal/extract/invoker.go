// Package extract runs the two model stages of the pipeline: drafting a
// profile from search results and verifying it.
package extract

import (
	"context"
	"time"

	"github.com/rotisserie/eris"

	"github.com/kshitizz36/BreakoutAI-AI-Agent/internal/resilience"
	"github.com/kshitizz36/BreakoutAI-AI-Agent/pkg/groq"
)

// Invoker tuning defaults, matching the provider's free-tier cadence.
const (
	DefaultMinRequestInterval = 2 * time.Second
	DefaultMaxRetries         = 3
	defaultRetryDelay         = 5 * time.Second
)

// Invoker serializes model calls behind a shared fixed-interval throttle
// and absorbs provider rate-limit errors. Both engines share a single
// instance so one global request cadence applies no matter how many
// entities are in flight.
type Invoker struct {
	llm      groq.Client
	throttle *resilience.Throttle
	retry    resilience.RetryConfig

	model       string
	temperature float64
	maxTokens   int
}

// InvokerConfig tunes the invoker. Zero values fall back to defaults.
type InvokerConfig struct {
	Model              string
	Temperature        float64
	MaxTokens          int
	MinRequestInterval time.Duration
	MaxRetries         int
	RetryDelay         time.Duration
}

// NewInvoker creates a rate-limited model invoker.
func NewInvoker(llm groq.Client, cfg InvokerConfig) *Invoker {
	if cfg.MinRequestInterval <= 0 {
		cfg.MinRequestInterval = DefaultMinRequestInterval
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = DefaultMaxRetries
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = defaultRetryDelay
	}
	if cfg.Temperature <= 0 {
		cfg.Temperature = 0.1
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 1000
	}
	return &Invoker{
		llm:      llm,
		throttle: resilience.NewThrottle(cfg.MinRequestInterval),
		retry: resilience.RetryConfig{
			// MaxRetries counts the attempts after the first.
			MaxAttempts:    cfg.MaxRetries + 1,
			InitialBackoff: cfg.RetryDelay,
			MaxBackoff:     time.Duration(cfg.MaxRetries+1) * cfg.RetryDelay,
			Strategy:       resilience.BackoffLinear,
			ShouldRetry:    resilience.IsRateLimit,
			OnRetry:        resilience.RetryLogger("groq", "chat_completion"),
		},
		model:       cfg.Model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
	}
}

// Invoke sends the messages to the model and returns the completion
// text. Rate-limit rejections are retried with linearly growing backoff;
// any other error propagates immediately. The throttle is awaited before
// every attempt, retries included.
func (inv *Invoker) Invoke(ctx context.Context, messages []groq.Message) (string, error) {
	resp, err := resilience.DoVal(ctx, inv.retry, func(ctx context.Context) (*groq.ChatCompletionResponse, error) {
		if waitErr := inv.throttle.Wait(ctx); waitErr != nil {
			return nil, eris.Wrap(waitErr, "invoke: throttle")
		}

		temp := inv.temperature
		maxTokens := inv.maxTokens
		return inv.llm.ChatCompletion(ctx, groq.ChatCompletionRequest{
			Model:       inv.model,
			Messages:    messages,
			Temperature: &temp,
			MaxTokens:   &maxTokens,
		})
	})
	if err != nil {
		return "", eris.Wrap(err, "invoke: model call")
	}

	text := resp.Text()
	if text == "" {
		return "", eris.New("invoke: empty completion")
	}
	return text, nil
}
