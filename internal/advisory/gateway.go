package advisory

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/openai/openai-go"

	"github.com/julianstephens/careagent/internal/constants"
	apperrors "github.com/julianstephens/careagent/internal/errors"
	"github.com/julianstephens/careagent/internal/logger"
)

// maxAttempts bounds every advisory call to the first try plus one retry.
const maxAttempts = 2

// Result is the outcome of one advisory call. Exactly one of Text/Fields or
// Err is meaningful.
type Result struct {
	Text   string
	Fields map[string]any
	Err    *apperrors.AdvisoryError
}

// Failed reports whether the call produced no usable content.
func (r Result) Failed() bool {
	return r.Err != nil
}

// ErrorPayload returns the {"error": message} form of a failed result, or nil.
func (r Result) ErrorPayload() map[string]string {
	if r.Err == nil {
		return nil
	}
	return map[string]string{"error": r.Err.Error()}
}

type Gateway struct {
	completer Completer
	persona   string
	timeout   time.Duration
	backoff   time.Duration
	sleep     func(context.Context, time.Duration) error
}

type Option func(*Gateway)

// WithTimeout bounds each attempt.
func WithTimeout(d time.Duration) Option {
	return func(g *Gateway) {
		g.timeout = d
	}
}

// WithRetryBackoff sets the pause before the single retry.
func WithRetryBackoff(d time.Duration) Option {
	return func(g *Gateway) {
		g.backoff = d
	}
}

// WithPersona replaces the system message.
func WithPersona(persona string) Option {
	return func(g *Gateway) {
		g.persona = persona
	}
}

func New(completer Completer, opts ...Option) *Gateway {
	g := &Gateway{
		completer: completer,
		persona:   constants.SystemPersona,
		timeout:   constants.DefaultRequestTimeout,
		backoff:   constants.DefaultRetryBackoff,
		sleep:     sleepCtx,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Invoke sends prompt to the model and never returns an error past this
// boundary: failures are reported in Result.Err. Transient provider errors
// are retried once.
func (g *Gateway) Invoke(ctx context.Context, op, prompt string, structured bool) Result {
	requestID := uuid.NewString()
	log := logger.With("request_id", requestID, "op", op)
	req := Request{System: g.persona, Prompt: prompt, Structured: structured}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if attempt > 1 {
			if err := g.sleep(ctx, g.backoff); err != nil {
				lastErr = err
				break
			}
		}

		start := time.Now()
		text, err := g.attempt(ctx, req)
		log.Debug("Advisory attempt",
			"attempt", attempt,
			"duration", time.Since(start),
			"ok", err == nil,
		)
		if err == nil {
			return g.decode(log, op, text, structured)
		}

		lastErr = err
		if !isTransient(err) || ctx.Err() != nil {
			log.Warn("Advisory call failed", "error", err)
			return Result{Err: &apperrors.AdvisoryError{Op: op, Kind: apperrors.AdvisoryProvider, Err: err}}
		}
	}

	log.Warn("Advisory retries exhausted", "error", lastErr)
	return Result{Err: &apperrors.AdvisoryError{
		Op:   op,
		Kind: apperrors.AdvisoryExhausted,
		Err:  fmt.Errorf("gave up after %d attempts: %w", maxAttempts, lastErr),
	}}
}

func (g *Gateway) attempt(ctx context.Context, req Request) (string, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}
	return g.completer.Complete(ctx, req)
}

func (g *Gateway) decode(log logger.Scope, op, text string, structured bool) Result {
	if !structured {
		return Result{Text: strings.TrimSpace(text)}
	}
	fields, err := extractObject(text)
	if err != nil {
		log.Warn("Advisory reply not parseable", "error", err)
		return Result{Text: text, Err: &apperrors.AdvisoryError{Op: op, Kind: apperrors.AdvisoryParse, Err: err}}
	}
	return Result{Text: text, Fields: fields}
}

// isTransient reports whether err is worth one more attempt.
func isTransient(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	if errors.Is(err, context.Canceled) {
		return false
	}

	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		switch code := apiErr.StatusCode; {
		case code == 408, code == 409, code == 429:
			return true
		case code >= 500:
			return true
		default:
			return false
		}
	}

	var netErr net.Error
	return errors.As(err, &netErr)
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
