// Package generator fans one request out across every writer strategy
// concurrently, parses the raw results into structured candidates, and
// drops the malformed ones.
package generator

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"PitchGuard/internal/metrics"
	"PitchGuard/internal/models"
	"PitchGuard/internal/writer"
)

// ErrNoCandidates means every strategy failed; there is nothing to score
// and the round is dead.
var ErrNoCandidates = errors.New("all writer strategies failed to produce a candidate")

type Generator struct {
	Strategies []writer.Strategy
	// Timeout bounds each strategy individually. Zero means no per-strategy
	// bound beyond the round's own context.
	Timeout time.Duration
	Log     *zap.Logger
}

// one strategy's settled outcome.
type outcome struct {
	index     int
	candidate models.EmailCandidate
	err       error
}

// Generate invokes every strategy concurrently against the request and
// waits for all of them to settle. Failed or unparseable strategies are
// reported by name, not propagated; only a fully failed round is an error.
func (g *Generator) Generate(ctx context.Context, request string) ([]models.EmailCandidate, []string, error) {
	if len(g.Strategies) == 0 {
		return nil, nil, fmt.Errorf("no writer strategies configured")
	}

	results := make(chan outcome, len(g.Strategies))
	var wg sync.WaitGroup

	for i, s := range g.Strategies {
		wg.Add(1)
		go func(i int, s writer.Strategy) {
			defer wg.Done()
			results <- g.runStrategy(ctx, i, s, request)
		}(i, s)
	}

	wg.Wait()
	close(results)

	// Re-establish declaration order so selection tie-breaks are stable.
	settled := make([]*outcome, len(g.Strategies))
	for o := range results {
		o := o
		settled[o.index] = &o
	}

	var candidates []models.EmailCandidate
	var failed []string
	for i, o := range settled {
		name := g.Strategies[i].Name()
		if o == nil || o.err != nil {
			failed = append(failed, name)
			metrics.StrategyFailures.Inc()
			if o != nil {
				g.Log.Warn("writer strategy failed",
					zap.String("strategy", name),
					zap.Error(o.err),
				)
			}
			continue
		}
		candidates = append(candidates, o.candidate)
		metrics.CandidatesGenerated.Inc()
	}

	if len(candidates) == 0 {
		return nil, failed, ErrNoCandidates
	}
	return candidates, failed, nil
}

func (g *Generator) runStrategy(ctx context.Context, index int, s writer.Strategy, request string) outcome {
	if g.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.Timeout)
		defer cancel()
	}

	start := time.Now()
	raw, err := s.Generate(ctx, request)
	if err != nil {
		return outcome{index: index, err: fmt.Errorf("generate: %w", err)}
	}

	subject, body, err := parseCandidate(raw)
	if err != nil {
		return outcome{index: index, err: fmt.Errorf("parse: %w", err)}
	}

	g.Log.Info("writer strategy produced candidate",
		zap.String("strategy", s.Name()),
		zap.Duration("elapsed", time.Since(start)),
		zap.Int("raw_length", len(raw)),
	)

	return outcome{index: index, candidate: models.EmailCandidate{
		Strategy:  s.Name(),
		Subject:   subject,
		Body:      body,
		RawOutput: raw,
	}}
}
