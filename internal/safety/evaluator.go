// Package safety implements the input and output guardrails. Both combine
// the heuristic scanners in internal/patterns into a block/allow verdict
// with a structured rationale; the input side can optionally escalate to a
// model-backed second opinion when heuristics flag something.
package safety

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"PitchGuard/internal/patterns"
)

// InputEvaluator screens untrusted request text before any generation runs.
type InputEvaluator struct {
	// PIIThreshold is the confidence above which PII alone blocks.
	PIIThreshold float64
	// InjectionBlockCount is how many distinct injection patterns must
	// match before the tripwire fires. 1 blocks on any match.
	InjectionBlockCount int
	// Opinion, when non-nil, is consulted only after heuristics flag
	// something. It can escalate an allow into a block, never the reverse.
	Opinion Opinion
	Log     *zap.Logger
}

// Evaluate runs the input guardrail. It never returns an error: a failure to
// scan is itself a blocking finding.
func (e *InputEvaluator) Evaluate(ctx context.Context, text string) (v Verdict) {
	defer func() {
		if r := recover(); r != nil {
			e.Log.Error("input guardrail panicked, treating input as unsafe",
				zap.Any("panic", r),
			)
			v = unableToEvaluate(r)
		}
	}()

	hasInjection, injectionIDs := patterns.DetectInjection(text)
	hasPII, piiIDs, piiConf := patterns.DetectPII(text)

	issues := append(injectionIDs, piiIDs...)

	v = Verdict{
		IsSafe:            true,
		RiskScore:         0.1,
		FlaggedIssues:     issues,
		IsPromptInjection: hasInjection,
		ContainsSensitive: hasPII,
	}

	blockCount := e.InjectionBlockCount
	if blockCount <= 0 {
		blockCount = 1
	}

	switch {
	case hasInjection && len(injectionIDs) >= blockCount:
		// Injection is a hard stop. No second opinion.
		v.IsSafe = false
		v.RiskScore = 0.9
		e.Log.Warn("input blocked: prompt injection patterns",
			zap.Strings("patterns", injectionIDs),
			zap.String("input_preview", preview(text)),
		)
		return v

	case hasInjection:
		v.RiskScore = 0.9

	case hasPII:
		v.RiskScore = riskFromPII(piiConf)
		if piiConf > e.PIIThreshold {
			v.IsSafe = false
			e.Log.Warn("input blocked: sensitive data",
				zap.Strings("patterns", piiIDs),
				zap.Float64("confidence", piiConf),
			)
			return v
		}
	}

	// Heuristics found something but below the block line: ask the second
	// opinion if one is wired. Clean input skips it entirely.
	if (hasInjection || hasPII) && e.Opinion != nil {
		if blocked, opinion := e.consultOpinion(ctx, text); blocked {
			v.IsSafe = false
			v.RiskScore = opinion.RiskScore
			v.FlaggedIssues = append(v.FlaggedIssues, opinion.FlaggedIssues...)
			return v
		}
	}

	e.Log.Info("input passed guardrail",
		zap.Float64("risk_score", v.RiskScore),
		zap.Int("issue_count", len(issues)),
	)
	return v
}

// consultOpinion runs the model-backed classification. Only an extreme
// result escalates to a block; any error leaves heuristics authoritative.
func (e *InputEvaluator) consultOpinion(ctx context.Context, text string) (bool, Verdict) {
	opinion, err := e.Opinion.Classify(ctx, text)
	if err != nil {
		e.Log.Warn("safety opinion unavailable, keeping heuristic verdict", zap.Error(err))
		return false, Verdict{}
	}
	block := !opinion.IsSafe && opinion.RiskScore > 0.9 && opinion.IsPromptInjection
	if block {
		e.Log.Warn("input blocked by safety opinion",
			zap.Float64("risk_score", opinion.RiskScore),
			zap.Strings("issues", opinion.FlaggedIssues),
		)
	}
	return block, opinion
}

// OutputEvaluator screens generated email text for credential leaks before
// it is surfaced. Leak detection is binary: any match blocks.
type OutputEvaluator struct {
	Log *zap.Logger
}

// Evaluate runs the output guardrail.
func (e *OutputEvaluator) Evaluate(ctx context.Context, text string) (v Verdict) {
	defer func() {
		if r := recover(); r != nil {
			e.Log.Error("output guardrail panicked, treating output as unsafe",
				zap.Any("panic", r),
			)
			v = unableToEvaluate(r)
		}
	}()

	leaks := patterns.DetectLeak(text)
	if len(leaks) > 0 {
		e.Log.Warn("output blocked: potential data leak", zap.Strings("patterns", leaks))
		return Verdict{
			IsSafe:            false,
			RiskScore:         1.0,
			FlaggedIssues:     leaks,
			ContainsSensitive: true,
		}
	}

	return Verdict{IsSafe: true}
}

// riskFromPII maps PII confidence onto the risk scale used for audit.
func riskFromPII(conf float64) float64 {
	risk := 0.6 + 0.4*conf
	if risk < 0.1 {
		risk = 0.1
	}
	return risk
}

func unableToEvaluate(cause any) Verdict {
	return Verdict{
		IsSafe:        false,
		RiskScore:     1.0,
		FlaggedIssues: []string{fmt.Sprintf("unable to evaluate safety: %v", cause)},
	}
}

func preview(text string) string {
	const n = 100
	if len(text) <= n {
		return text
	}
	return text[:n]
}
