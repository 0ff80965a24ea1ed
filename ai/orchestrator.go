package ai

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/google/generative-ai-go/genai"
)

// Config parameterizes one orchestration instance. Baseline, BuildPrompt,
// and Parse are required; Empty may be nil when the caller guarantees
// non-empty input. A zero Timeout disables the timer, leaving the call's
// own failure as the only fallback trigger.
type Config[A, R any] struct {
	Empty       func(A) bool
	Baseline    func(A) R
	BuildPrompt func(A) string
	Schema      *genai.Schema
	Parse       func([]byte) (R, error)
	Timeout     time.Duration
	EmptyMsg    string
	FallbackMsg string
}

// Outcome is the renderable result of an orchestration: either the model's
// structured output or the deterministic baseline. Every code path ends
// here; orchestration never returns an error.
type Outcome[R any] struct {
	Result       R      `json:"result"`
	UsedFallback bool   `json:"usedFallback"`
	NoData       bool   `json:"noData"`
	ErrorMessage string `json:"errorMessage,omitempty"`
}

// Run executes the compute-baseline / prompt / race / fallback shape.
//
// The baseline is always computed first so a renderable result exists
// before any network dependence. The generation call is raced against the
// timer; whichever settles first wins. The losing call is not cancelled;
// its eventual result lands in the buffered channel and is discarded.
// Run is stateless and re-entrant; a retry recomputes everything.
func Run[A, R any](ctx context.Context, gen Generator, input A, cfg Config[A, R]) Outcome[R] {
	var out Outcome[R]

	if cfg.Empty != nil && cfg.Empty(input) {
		out.NoData = true
		out.ErrorMessage = cfg.EmptyMsg
		return out
	}

	baseline := cfg.Baseline(input)

	fallback := func(cause error) Outcome[R] {
		if cause != nil {
			log.Printf("AI generation failed, using baseline: %v", cause)
		}
		return Outcome[R]{
			Result:       baseline,
			UsedFallback: true,
			ErrorMessage: cfg.FallbackMsg,
		}
	}

	type generated struct {
		raw []byte
		err error
	}
	ch := make(chan generated, 1)
	prompt := cfg.BuildPrompt(input)
	go func() {
		raw, err := gen.Generate(ctx, prompt, cfg.Schema)
		ch <- generated{raw: raw, err: err}
	}()

	var timeout <-chan time.Time
	if cfg.Timeout > 0 {
		timer := time.NewTimer(cfg.Timeout)
		defer timer.Stop()
		timeout = timer.C
	}

	select {
	case g := <-ch:
		if g.err != nil {
			return fallback(g.err)
		}
		result, err := cfg.Parse(g.raw)
		if err != nil {
			// A shape mismatch is treated exactly like a transport
			// failure: partial fields are never trusted.
			return fallback(err)
		}
		out.Result = result
		return out
	case <-timeout:
		return fallback(context.DeadlineExceeded)
	case <-ctx.Done():
		return fallback(ctx.Err())
	}
}

// ParseJSON is the common Parse implementation: strict unmarshal into R.
func ParseJSON[R any](raw []byte) (R, error) {
	var result R
	err := json.Unmarshal(raw, &result)
	return result, err
}
