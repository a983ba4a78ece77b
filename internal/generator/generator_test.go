package generator

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"

	"PitchGuard/internal/writer"
)

type fakeStrategy struct {
	name   string
	output string
	err    error
	delay  time.Duration
	calls  atomic.Int32
}

func (f *fakeStrategy) Name() string { return f.name }

func (f *fakeStrategy) Generate(ctx context.Context, request string) (string, error) {
	f.calls.Add(1)
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return f.output, f.err
}

func TestGenerate_DropsUnparseable(t *testing.T) {
	g := &Generator{
		Strategies: []writer.Strategy{
			&fakeStrategy{name: "professional", output: `{"subject": "A", "body": "Pro body here."}`},
			&fakeStrategy{name: "humorous", output: ""},
			&fakeStrategy{name: "concise", output: "Subject: C\nConcise body."},
		},
		Log: zap.NewNop(),
	}

	candidates, failed, err := g.Generate(context.Background(), "write an email")
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}
	if len(candidates) != 2 {
		t.Fatalf("got %d candidates, want 2", len(candidates))
	}
	if len(failed) != 1 || failed[0] != "humorous" {
		t.Errorf("failed = %v, want [humorous]", failed)
	}
}

func TestGenerate_PreservesDeclarationOrder(t *testing.T) {
	g := &Generator{
		Strategies: []writer.Strategy{
			&fakeStrategy{name: "slow", output: "Subject: S\nBody one.", delay: 50 * time.Millisecond},
			&fakeStrategy{name: "fast", output: "Subject: F\nBody two."},
		},
		Log: zap.NewNop(),
	}

	candidates, _, err := g.Generate(context.Background(), "req")
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}
	if candidates[0].Strategy != "slow" || candidates[1].Strategy != "fast" {
		t.Errorf("order = [%s %s], want declaration order", candidates[0].Strategy, candidates[1].Strategy)
	}
}

func TestGenerate_AllFail(t *testing.T) {
	g := &Generator{
		Strategies: []writer.Strategy{
			&fakeStrategy{name: "a", err: errors.New("model down")},
			&fakeStrategy{name: "b", err: errors.New("model down")},
		},
		Log: zap.NewNop(),
	}

	_, failed, err := g.Generate(context.Background(), "req")
	if !errors.Is(err, ErrNoCandidates) {
		t.Fatalf("err = %v, want ErrNoCandidates", err)
	}
	if len(failed) != 2 {
		t.Errorf("failed = %v, want both strategies", failed)
	}
}

func TestGenerate_PerStrategyTimeout(t *testing.T) {
	g := &Generator{
		Strategies: []writer.Strategy{
			&fakeStrategy{name: "hung", output: "Subject: H\nBody.", delay: time.Second},
			&fakeStrategy{name: "ok", output: "Subject: O\nBody."},
		},
		Timeout: 20 * time.Millisecond,
		Log:     zap.NewNop(),
	}

	start := time.Now()
	candidates, failed, err := g.Generate(context.Background(), "req")
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}
	if elapsed := time.Since(start); elapsed > 500*time.Millisecond {
		t.Errorf("timeout did not bound the round: took %v", elapsed)
	}
	if len(candidates) != 1 || candidates[0].Strategy != "ok" {
		t.Errorf("candidates = %v", candidates)
	}
	if len(failed) != 1 || failed[0] != "hung" {
		t.Errorf("failed = %v, want [hung]", failed)
	}
}

func TestGenerate_RunsConcurrently(t *testing.T) {
	const delay = 60 * time.Millisecond
	g := &Generator{
		Strategies: []writer.Strategy{
			&fakeStrategy{name: "a", output: "Subject: A\nBody.", delay: delay},
			&fakeStrategy{name: "b", output: "Subject: B\nBody.", delay: delay},
			&fakeStrategy{name: "c", output: "Subject: C\nBody.", delay: delay},
		},
		Log: zap.NewNop(),
	}

	start := time.Now()
	if _, _, err := g.Generate(context.Background(), "req"); err != nil {
		t.Fatalf("Generate() error: %v", err)
	}
	// Sequential execution would take 3x the delay.
	if elapsed := time.Since(start); elapsed > 2*delay {
		t.Errorf("strategies appear to run sequentially: %v for 3x%v work", elapsed, delay)
	}
}
