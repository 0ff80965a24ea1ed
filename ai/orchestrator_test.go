package ai

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
)

type fakeGenerator struct {
	raw   []byte
	err   error
	delay time.Duration
	calls int32
}

func (f *fakeGenerator) Generate(ctx context.Context, prompt string, schema *genai.Schema) ([]byte, error) {
	atomic.AddInt32(&f.calls, 1)
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	return f.raw, f.err
}

func (f *fakeGenerator) callCount() int32 {
	return atomic.LoadInt32(&f.calls)
}

type advice struct {
	Message string `json:"message"`
}

func adviceConfig() Config[int, advice] {
	return Config[int, advice]{
		Empty:       func(n int) bool { return n == 0 },
		Baseline:    func(n int) advice { return advice{Message: "baseline"} },
		BuildPrompt: func(n int) string { return "advise" },
		Parse:       ParseJSON[advice],
		EmptyMsg:    "no data yet",
		FallbackMsg: "AI unavailable",
	}
}

func TestRunAdoptsModelOutput(t *testing.T) {
	gen := &fakeGenerator{raw: []byte(`{"message":"from the model"}`)}

	out := Run(context.Background(), gen, 1, adviceConfig())

	assert.False(t, out.UsedFallback)
	assert.False(t, out.NoData)
	assert.Empty(t, out.ErrorMessage)
	assert.Equal(t, "from the model", out.Result.Message)
	assert.EqualValues(t, 1, gen.callCount())
}

func TestRunEmptyInputShortCircuits(t *testing.T) {
	gen := &fakeGenerator{raw: []byte(`{"message":"unused"}`)}

	out := Run(context.Background(), gen, 0, adviceConfig())

	assert.True(t, out.NoData)
	assert.False(t, out.UsedFallback)
	assert.Equal(t, "no data yet", out.ErrorMessage)
	assert.EqualValues(t, 0, gen.callCount())
}

func TestRunGenerationErrorFallsBack(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("quota exceeded")}

	out := Run(context.Background(), gen, 1, adviceConfig())

	assert.True(t, out.UsedFallback)
	assert.Equal(t, "baseline", out.Result.Message)
	assert.Equal(t, "AI unavailable", out.ErrorMessage)
}

func TestRunParseFailureFallsBack(t *testing.T) {
	gen := &fakeGenerator{raw: []byte(`{"message": 42`)}

	out := Run(context.Background(), gen, 1, adviceConfig())

	assert.True(t, out.UsedFallback)
	assert.Equal(t, "baseline", out.Result.Message)
}

func TestRunTimeoutFallsBack(t *testing.T) {
	gen := &fakeGenerator{
		raw:   []byte(`{"message":"too late"}`),
		delay: 200 * time.Millisecond,
	}
	cfg := adviceConfig()
	cfg.Timeout = 10 * time.Millisecond

	start := time.Now()
	out := Run(context.Background(), gen, 1, cfg)

	assert.True(t, out.UsedFallback)
	assert.Equal(t, "baseline", out.Result.Message)
	assert.Less(t, time.Since(start), 150*time.Millisecond)
}

func TestRunZeroTimeoutWaitsForGeneration(t *testing.T) {
	gen := &fakeGenerator{
		raw:   []byte(`{"message":"slow but fine"}`),
		delay: 50 * time.Millisecond,
	}

	out := Run(context.Background(), gen, 1, adviceConfig())

	assert.False(t, out.UsedFallback)
	assert.Equal(t, "slow but fine", out.Result.Message)
}

func TestRunContextCancellationFallsBack(t *testing.T) {
	gen := &fakeGenerator{
		raw:   []byte(`{"message":"never arrives"}`),
		delay: 200 * time.Millisecond,
	}
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	out := Run(ctx, gen, 1, adviceConfig())

	assert.True(t, out.UsedFallback)
	assert.Equal(t, "baseline", out.Result.Message)
}

func TestRunNilEmptyGuard(t *testing.T) {
	gen := &fakeGenerator{raw: []byte(`{"message":"ok"}`)}
	cfg := adviceConfig()
	cfg.Empty = nil

	out := Run(context.Background(), gen, 0, cfg)

	assert.False(t, out.NoData)
	assert.Equal(t, "ok", out.Result.Message)
}

func TestParseJSONStrictness(t *testing.T) {
	_, err := ParseJSON[advice]([]byte(`not json`))
	assert.Error(t, err)

	parsed, err := ParseJSON[advice]([]byte(`{"message":"hello"}`))
	assert.NoError(t, err)
	assert.Equal(t, "hello", parsed.Message)
}
