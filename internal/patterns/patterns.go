// Package patterns holds the heuristic text scanners behind both guardrails.
// Everything here is pure pattern matching: no I/O, no model calls, same
// answer for the same input every time.
package patterns

import "regexp"

// rule pairs a stable identifier with its compiled expression. The IDs are
// part of the audit surface and must not change between releases.
type rule struct {
	id string
	re *regexp.Regexp
}

// Prompt-injection phrases. Deliberately narrow: these match explicit
// override attempts, not ordinary sales copy.
var injectionRules = []rule{
	{"instruction_override", regexp.MustCompile(`(?i)ignore\s+all\s+previous\s+instructions`)},
	{"role_reset", regexp.MustCompile(`(?i)forget\s+your\s+role`)},
	{"persona_swap", regexp.MustCompile(`(?i)you\s+are\s+now\s+a`)},
	{"system_token", regexp.MustCompile(`(?i)<\|im_start\|>system`)},
	{"inst_injection", regexp.MustCompile(`(?i)\[INST\].*ignore`)},
}

// Sensitive-data shapes.
var piiRules = []rule{
	{"ssn", regexp.MustCompile(`\b\d{3}-\d{2}-\d{4}\b`)},
	{"credit_card", regexp.MustCompile(`\b\d{16}\b`)},
	{"phone", regexp.MustCompile(`\b\d{3}[-.]?\d{3}[-.]?\d{4}\b`)},
	{"email_address", regexp.MustCompile(`(?i)\b[\w.+-]+@[\w-]+\.[a-z]{2,}\b`)},
}

// Credential-leak shapes checked against generated output. Narrow on
// purpose: an actual key assignment, not the word "password" in prose.
var leakRules = []rule{
	{"api_key", regexp.MustCompile(`(?i)api[_-]?key[:=]\s*["']?sk-[\w-]+["']?`)},
	{"password", regexp.MustCompile(`(?i)password[:=]\s*["']?\w{12,}["']?`)},
	{"secret", regexp.MustCompile(`(?i)secret[:=]\s*["']?[\w-]{20,}["']?`)},
}

// DetectInjection reports whether text contains prompt-injection phrasing,
// with the IDs of every matched pattern.
func DetectInjection(text string) (bool, []string) {
	ids := matchIDs(text, injectionRules)
	return len(ids) > 0, ids
}

// DetectPII reports sensitive-data matches and a confidence derived from the
// total match count: min(1.0, 0.3 per match).
func DetectPII(text string) (bool, []string, float64) {
	var ids []string
	count := 0
	for _, r := range piiRules {
		matches := r.re.FindAllStringIndex(text, -1)
		if len(matches) == 0 {
			continue
		}
		ids = append(ids, r.id)
		count += len(matches)
	}
	confidence := 0.3 * float64(count)
	if confidence > 1.0 {
		confidence = 1.0
	}
	return len(ids) > 0, ids, confidence
}

// DetectLeak returns the IDs of credential-leak patterns found in text.
func DetectLeak(text string) []string {
	return matchIDs(text, leakRules)
}

func matchIDs(text string, rules []rule) []string {
	var ids []string
	for _, r := range rules {
		if r.re.MatchString(text) {
			ids = append(ids, r.id)
		}
	}
	return ids
}
