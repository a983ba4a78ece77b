package safety

import "context"

// Verdict is the structured outcome of one guardrail evaluation. It is
// produced fresh per evaluation and never mutated afterwards.
type Verdict struct {
	IsSafe            bool     `json:"is_safe"`
	RiskScore         float64  `json:"risk_score"`
	FlaggedIssues     []string `json:"flagged_issues,omitempty"`
	IsPromptInjection bool     `json:"is_prompt_injection"`
	ContainsSensitive bool     `json:"contains_sensitive_data"`
	Sanitized         string   `json:"sanitized,omitempty"`
}

// ShouldBlock reports whether the tripwire fired for this verdict.
func (v Verdict) ShouldBlock() bool { return !v.IsSafe }

// Opinion is an optional second, model-backed safety classification. It is
// consulted on the input side only when heuristics already flagged
// something; heuristics stay authoritative when it fails.
type Opinion interface {
	Classify(ctx context.Context, text string) (Verdict, error)
}
