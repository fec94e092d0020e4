package llm

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/abhisek/misparia/internal/store"
)

func retryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts: 3,
		InitialWait: time.Millisecond,
		MaxWait:     10 * time.Millisecond,
		Multiplier:  2.0,
	}
}

func TestRetry_SucceedsOnFirstAttempt(t *testing.T) {
	mock := NewMockProvider(MockJSON(`{"ok":true}`))
	p := WithRetry(mock, retryConfig(), nil)

	resp, err := p.Generate(context.Background(), Request{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(resp.Content) != `{"ok":true}` {
		t.Fatalf("unexpected content: %s", resp.Content)
	}
	if mock.CallCount() != 1 {
		t.Fatalf("expected 1 call, got %d", mock.CallCount())
	}
}

func TestRetry_TransientThenSuccess(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Err: &ErrProviderUnavailable{Err: errors.New("down")}},
		MockResponse{Err: &ErrRateLimit{Err: errors.New("slow down")}},
		MockJSON(`{"ok":true}`),
	)
	p := WithRetry(mock, retryConfig(), nil)

	if _, err := p.Generate(context.Background(), Request{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mock.CallCount() != 3 {
		t.Fatalf("expected 3 calls, got %d", mock.CallCount())
	}
}

func TestRetry_AllAttemptsFail(t *testing.T) {
	mock := NewMockProvider()
	p := WithRetry(mock, retryConfig(), nil)

	_, err := p.Generate(context.Background(), Request{})
	var unavail *ErrProviderUnavailable
	if !errors.As(err, &unavail) {
		t.Fatalf("expected ErrProviderUnavailable, got %T", err)
	}
	if mock.CallCount() != 3 {
		t.Fatalf("expected 3 calls, got %d", mock.CallCount())
	}
}

func TestRetry_NotRetried(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"max tokens", &ErrMaxTokensExceeded{}},
		{"unauthorized", &ErrUnauthorized{Err: errors.New("bad key")}},
		{"canceled", context.Canceled},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := NewMockProvider(MockResponse{Err: tt.err}, MockJSON(`{}`))
			p := WithRetry(mock, retryConfig(), nil)

			if _, err := p.Generate(context.Background(), Request{}); err == nil {
				t.Fatal("expected error")
			}
			if mock.CallCount() != 1 {
				t.Fatalf("expected 1 call, got %d", mock.CallCount())
			}
		})
	}
}

func TestRetry_InvalidResponseRetriedOnce(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Err: &ErrInvalidResponse{Err: errors.New("bad")}},
		MockResponse{Err: &ErrInvalidResponse{Err: errors.New("still bad")}},
		MockJSON(`{}`),
	)
	p := WithRetry(mock, retryConfig(), nil)

	_, err := p.Generate(context.Background(), Request{})
	var inv *ErrInvalidResponse
	if !errors.As(err, &inv) {
		t.Fatalf("expected ErrInvalidResponse, got %T", err)
	}
	if mock.CallCount() != 2 {
		t.Fatalf("expected 2 calls, got %d", mock.CallCount())
	}
}

func TestRetry_ContextCancellation(t *testing.T) {
	mock := NewMockProvider(MockResponse{Err: &ErrProviderUnavailable{}})
	cfg := retryConfig()
	cfg.InitialWait = time.Hour
	cfg.MaxWait = time.Hour
	p := WithRetry(mock, cfg, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := p.Generate(ctx, Request{})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}

func TestRetry_RateLimitRespectsRetryAfter(t *testing.T) {
	r := &RetryProvider{config: retryConfig()}
	got := r.backoff(0, &ErrRateLimit{RetryAfter: 7 * time.Second})
	if got != 7*time.Second {
		t.Fatalf("backoff = %v, want 7s", got)
	}

	plain := r.backoff(5, errors.New("x"))
	if plain > 12*time.Millisecond {
		t.Fatalf("backoff = %v exceeds max wait plus jitter", plain)
	}
}

type recordingSink struct {
	mu     sync.Mutex
	events []store.LLMRequestEventData
	err    error
}

func (s *recordingSink) AppendLLMRequest(_ context.Context, data store.LLMRequestEventData) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, data)
	return s.err
}

func TestLogging_RecordsSuccess(t *testing.T) {
	sink := &recordingSink{}
	mock := NewMockProvider(MockResponse{
		Content: json.RawMessage(`{"question":"1 + 1 = ?"}`),
		Usage:   Usage{InputTokens: 11, OutputTokens: 7},
	})
	p := WithLogging(mock, sink, nil)

	ctx := WithPurpose(context.Background(), PurposeProblem)
	_, err := p.Generate(ctx, Request{
		System:   "be brief",
		Messages: []Message{{Role: RoleUser, Content: "addition"}},
		Schema:   &Schema{Name: "p", Definition: map[string]any{"type": "object"}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(sink.events) != 1 {
		t.Fatalf("recorded %d events, want 1", len(sink.events))
	}
	ev := sink.events[0]
	if ev.Provider != "mock" || ev.Model != "mock" || ev.Purpose != PurposeProblem {
		t.Errorf("event identity = %+v", ev)
	}
	if !ev.Success || ev.InputTokens != 11 || ev.OutputTokens != 7 {
		t.Errorf("event outcome = %+v", ev)
	}
	for _, want := range []string{"[system]", "be brief", "[user]", "addition", "[schema: p]"} {
		if !strings.Contains(ev.RequestBody, want) {
			t.Errorf("request body missing %q:\n%s", want, ev.RequestBody)
		}
	}
	if ev.ResponseBody != `{"question":"1 + 1 = ?"}` {
		t.Errorf("response body = %q", ev.ResponseBody)
	}
}

func TestLogging_RecordsFailureAndSurvivesSinkError(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	sink := &recordingSink{err: errors.New("disk full")}
	p := WithLogging(NewMockProvider(), sink, zap.New(core))

	_, err := p.Generate(context.Background(), Request{})
	if err == nil {
		t.Fatal("expected provider error")
	}
	if len(sink.events) != 1 || sink.events[0].Success || sink.events[0].ErrorMessage == "" {
		t.Fatalf("failure not recorded: %+v", sink.events)
	}
	if sink.events[0].Purpose != "unknown" {
		t.Errorf("purpose = %q, want unknown", sink.events[0].Purpose)
	}
	if logs.FilterMessage("oracle call failed").Len() != 1 {
		t.Error("expected a warning for the failed call")
	}
	if logs.FilterMessage("record oracle call").Len() != 1 {
		t.Error("expected an error log for the sink failure")
	}
}

func TestRateLimit(t *testing.T) {
	mock := NewMockProvider(MockJSON(`{}`), MockJSON(`{}`))
	p := WithRateLimit(mock, 1, 1)

	if _, err := p.Generate(context.Background(), Request{}); err != nil {
		t.Fatalf("first call: %v", err)
	}

	// The second token is a minute away, so a short deadline must fail
	// without reaching the provider.
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err := p.Generate(ctx, Request{})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected a deadline error, got %T (%v)", err, err)
	}
	var rl *ErrRateLimit
	if errors.As(err, &rl) {
		t.Error("a local limiter wait must not look like a vendor rate limit")
	}
	if mock.CallCount() != 1 {
		t.Errorf("provider called %d times, want 1", mock.CallCount())
	}

	if WithRateLimit(mock, 0, 0) != Provider(mock) {
		t.Error("zero rate should disable limiting")
	}
}

func TestRateLimit_WaitFailureIsNotRetried(t *testing.T) {
	mock := NewMockProvider(MockJSON(`{}`), MockJSON(`{}`))
	limited := WithRateLimit(mock, 1, 1)
	if _, err := limited.Generate(context.Background(), Request{}); err != nil {
		t.Fatalf("first call: %v", err)
	}

	cfg := retryConfig()
	cfg.InitialWait = 200 * time.Millisecond
	cfg.MaxWait = time.Second
	p := WithRetry(limited, cfg, nil)

	// The deadline is far enough out for a backoff sleep but the next token
	// is a minute away, so waiting can never help.
	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()
	start := time.Now()
	_, err := p.Generate(ctx, Request{})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected a deadline error, got %v", err)
	}
	if elapsed := time.Since(start); elapsed > 100*time.Millisecond {
		t.Errorf("retry backed off for %v on an unrecoverable wait", elapsed)
	}
	if mock.CallCount() != 1 {
		t.Errorf("provider called %d times, want 1", mock.CallCount())
	}
}

func TestProviderName_UnwrapsDecorators(t *testing.T) {
	p := WithRateLimit(WithRetry(WithLogging(NewMockProvider(), nil, nil), retryConfig(), nil), 60, 1)
	if got := ProviderName(p); got != "mock" {
		t.Errorf("ProviderName = %q, want mock", got)
	}
	if p.ModelID() != "mock" {
		t.Errorf("ModelID = %q, want mock", p.ModelID())
	}
}
