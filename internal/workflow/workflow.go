// Package workflow implements the human-in-the-loop approval state machine:
// one draft at a time moves through generate, await-approval, and either
// approve-and-send or reject-and-regenerate. Every external side effect is
// gated behind an explicit approve.
package workflow

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"PitchGuard/internal/generator"
	"PitchGuard/internal/metrics"
	"PitchGuard/internal/models"
	"PitchGuard/internal/safety"
	"PitchGuard/internal/scoring"
	"PitchGuard/internal/writer"
)

type State string

const (
	StateIdle             State = "idle"
	StateGenerating       State = "generating"
	StateAwaitingApproval State = "awaiting_approval"
	StateSending          State = "sending"
	StateSent             State = "sent"
	StateRejected         State = "rejected"
	StateBlocked          State = "blocked"
)

// Deliverer sends an approved draft to a batch of recipients.
type Deliverer interface {
	Deliver(ctx context.Context, draft *models.Draft, recipients []models.Recipient, senderName string) models.SendBatchResult
}

// Summary is what one round surfaces to the human reviewer: the selected
// draft plus the round's diagnostics.
type Summary struct {
	Status           State                   `json:"status"`
	Draft            *models.Draft           `json:"draft,omitempty"`
	Verdict          safety.Verdict          `json:"verdict"`
	Candidates       []models.EmailCandidate `json:"candidates,omitempty"`
	FailedStrategies []string                `json:"failed_strategies,omitempty"`
}

// ApproveResult reports the send that an approve triggered.
type ApproveResult struct {
	Status State                  `json:"status"`
	Batch  models.SendBatchResult `json:"batch"`
}

// Workflow drives one draft at a time. A single instance serves a single
// session; the mutex exists so Clear can abandon a round that is still
// generating, not to make concurrent submits legal.
type Workflow struct {
	Input     *safety.InputEvaluator
	Output    *safety.OutputEvaluator
	Generator *generator.Generator
	Deliverer Deliverer
	// RoundTimeout bounds one whole submit, evaluation through scoring.
	RoundTimeout time.Duration
	Log          *zap.Logger

	mu          sync.Mutex
	state       State
	draft       *models.Draft
	diagnostics *Summary
	roundID     string
	cancelRound context.CancelFunc
}

func New(input *safety.InputEvaluator, output *safety.OutputEvaluator, gen *generator.Generator, del Deliverer, roundTimeout time.Duration, log *zap.Logger) *Workflow {
	return &Workflow{
		Input:        input,
		Output:       output,
		Generator:    gen,
		Deliverer:    del,
		RoundTimeout: roundTimeout,
		Log:          log,
		state:        StateIdle,
	}
}

func (w *Workflow) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// Summary returns the current round's diagnostics, or nil outside a round.
func (w *Workflow) Summary() *Summary {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.diagnostics
}

// Submit starts a round for the given request text. Legal from Idle,
// Rejected, Blocked, and the terminal Sent state; an overlapping submit
// while a round is generating or awaiting approval is a caller error.
func (w *Workflow) Submit(ctx context.Context, text string) (*Summary, error) {
	if strings.TrimSpace(text) == "" {
		return nil, &ValidationError{Field: "request", Reason: "text must not be empty"}
	}

	w.mu.Lock()
	switch w.state {
	case StateGenerating, StateAwaitingApproval, StateSending:
		state := w.state
		w.mu.Unlock()
		return nil, &StateError{Op: "submit", State: state}
	}

	roundID := uuid.NewString()
	roundCtx := ctx
	var cancel context.CancelFunc
	if w.RoundTimeout > 0 {
		roundCtx, cancel = context.WithTimeout(ctx, w.RoundTimeout)
	} else {
		roundCtx, cancel = context.WithCancel(ctx)
	}
	w.state = StateGenerating
	w.draft = nil
	w.diagnostics = nil
	w.roundID = roundID
	w.cancelRound = cancel
	w.mu.Unlock()

	metrics.RoundsTotal.Inc()
	w.Log.Info("round started", zap.String("round_id", roundID), zap.Int("request_length", len(text)))

	summary, err := w.runRound(roundCtx, roundID, text)
	cancel()

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.roundID != roundID {
		// The round was abandoned by Clear while we were generating.
		// Results from a stale round are discarded, never installed.
		w.Log.Info("discarding results from abandoned round", zap.String("round_id", roundID))
		return nil, &StateError{Op: "submit", State: w.state}
	}

	if err != nil {
		w.state = StateIdle
		w.cancelRound = nil
		if blocked := asBlocked(err); blocked != nil {
			w.state = StateBlocked
			w.diagnostics = &Summary{Status: StateBlocked, Verdict: blocked.Verdict}
			return w.diagnostics, err
		}
		if errors.Is(roundCtx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: %v", ErrRoundTimeout, err)
		}
		return nil, err
	}

	w.state = StateAwaitingApproval
	w.draft = summary.Draft
	w.diagnostics = summary
	w.cancelRound = nil
	summary.Status = StateAwaitingApproval
	return summary, nil
}

// runRound executes evaluate -> fan-out -> score -> screen without holding
// the lock, so Clear stays responsive during slow strategy calls.
func (w *Workflow) runRound(ctx context.Context, roundID, text string) (*Summary, error) {
	verdict := w.Input.Evaluate(ctx, text)
	if verdict.ShouldBlock() {
		metrics.InputsBlocked.Inc()
		return nil, &SafetyBlockedError{Direction: "input", Verdict: verdict}
	}

	candidates, failed, err := w.Generator.Generate(ctx, text)
	if err != nil {
		return nil, err
	}

	for i := range candidates {
		candidates[i].Score = scoring.Score(candidates[i].Subject, candidates[i].Body)
	}
	best := scoring.Select(candidates)
	selected := candidates[best]

	outVerdict := w.Output.Evaluate(ctx, selected.Subject+"\n\n"+selected.Body)
	if outVerdict.ShouldBlock() {
		metrics.OutputsBlocked.Inc()
		return nil, &SafetyBlockedError{Direction: "output", Verdict: outVerdict}
	}

	w.Log.Info("candidate selected",
		zap.String("round_id", roundID),
		zap.String("strategy", selected.Strategy),
		zap.Float64("score", scoring.Round2(selected.Score)),
		zap.Strings("failed_strategies", failed),
	)

	return &Summary{
		Draft: &models.Draft{
			RoundID:  roundID,
			Request:  text,
			Strategy: selected.Strategy,
			Subject:  selected.Subject,
			Body:     selected.Body,
			Created:  time.Now(),
		},
		Verdict:          verdict,
		Candidates:       candidates,
		FailedStrategies: failed,
	}, nil
}

// Approve sends the pending draft. The draft flips to approved exactly
// once; a second call is a no-op reporting ErrAlreadyApproved. The state
// moves to Sent even on partial delivery failure: "sent" records that the
// attempt happened, per-recipient outcomes live in the batch result.
func (w *Workflow) Approve(ctx context.Context, recipients []models.Recipient, senderName string) (*ApproveResult, error) {
	w.mu.Lock()
	if w.state != StateAwaitingApproval && w.state != StateSent {
		state := w.state
		w.mu.Unlock()
		return nil, &StateError{Op: "approve", State: state}
	}
	if w.draft == nil {
		state := w.state
		w.mu.Unlock()
		return nil, &StateError{Op: "approve", State: state}
	}
	if w.draft.Approved {
		w.mu.Unlock()
		return nil, ErrAlreadyApproved
	}
	if len(recipients) == 0 {
		w.mu.Unlock()
		return nil, &ValidationError{Field: "recipients", Reason: "at least one recipient is required"}
	}
	if strings.TrimSpace(senderName) == "" {
		w.mu.Unlock()
		return nil, &ValidationError{Field: "sender_name", Reason: "sender name must not be empty"}
	}

	draft := w.draft
	roundID := w.roundID
	w.state = StateSending
	w.mu.Unlock()

	batch := w.Deliverer.Deliver(ctx, draft, recipients, senderName)

	w.mu.Lock()
	defer w.mu.Unlock()
	// The send happened, so the draft is approved regardless; but a Clear
	// issued mid-send owns the state now.
	draft.Approved = true
	if w.roundID == roundID {
		w.state = StateSent
	}

	w.Log.Info("draft approved and sent",
		zap.String("round_id", draft.RoundID),
		zap.Int("attempted", batch.Attempted),
		zap.Int("succeeded", batch.Succeeded),
		zap.Int("failed", len(batch.Failures)),
	)

	return &ApproveResult{Status: StateSent, Batch: batch}, nil
}

// Reject discards the pending draft and reruns the full submit logic on the
// original request text. Safety is re-evaluated every round on purpose:
// pattern sets may have changed since the last one.
func (w *Workflow) Reject(ctx context.Context) (*Summary, error) {
	w.mu.Lock()
	if w.state != StateAwaitingApproval || w.draft == nil {
		state := w.state
		w.mu.Unlock()
		return nil, &StateError{Op: "reject", State: state}
	}
	text := w.draft.Request
	w.state = StateRejected
	w.draft = nil
	w.diagnostics = nil
	w.mu.Unlock()

	// Fresh round, fresh outputs: drop any strategy caches so the
	// regeneration is not served the rejected draft again.
	w.resetStrategies()

	w.Log.Info("draft rejected, regenerating")
	return w.Submit(ctx, text)
}

// Clear unconditionally resets to Idle, abandoning any in-flight round.
// A round still generating keeps running until its context fires, but its
// results carry a stale round ID and are discarded on arrival.
func (w *Workflow) Clear() {
	w.mu.Lock()
	cancel := w.cancelRound
	w.state = StateIdle
	w.draft = nil
	w.diagnostics = nil
	w.roundID = ""
	w.cancelRound = nil
	w.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	w.resetStrategies()
	w.Log.Info("workflow cleared")
}

func (w *Workflow) resetStrategies() {
	for _, s := range w.Generator.Strategies {
		if r, ok := s.(writer.Resettable); ok {
			r.Reset()
		}
	}
}

func asBlocked(err error) *SafetyBlockedError {
	var blocked *SafetyBlockedError
	if errors.As(err, &blocked) {
		return blocked
	}
	return nil
}
