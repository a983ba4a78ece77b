// Package scoring ranks parsed email candidates. The score is a pure
// function of subject and body so a round can be replayed and audited.
package scoring

import (
	"math"
	"strings"

	"PitchGuard/internal/models"
)

var ctaKeywords = []string{"call", "demo", "meeting", "chat", "reply", "schedule", "respond"}

// Score rates an email draft. Points, in order: subject presence and length,
// body word-count fit, paragraph richness, personalization, call-to-action.
func Score(subject, body string) float64 {
	var score float64

	if strings.TrimSpace(subject) != "" {
		score += 25
		if n := len(subject); n >= 25 && n <= 80 {
			score += 5
		}
	}

	words := len(strings.Fields(body))
	if words >= 80 && words <= 220 {
		score += 35
	} else {
		fit := 35 - 0.2*math.Abs(150-float64(words))
		if fit < 10 {
			fit = 10
		}
		score += fit
	}

	switch blocks := countParagraphs(body); {
	case blocks >= 3:
		score += 10
	case blocks == 2:
		score += 6
	}

	personal := 2 * float64(countYou(body))
	if personal > 10 {
		personal = 10
	}
	score += personal

	lower := strings.ToLower(body)
	for _, kw := range ctaKeywords {
		if strings.Contains(lower, kw) {
			score += 10
			break
		}
	}

	return score
}

// Round2 is the display/audit form of a score. Selection compares full
// precision.
func Round2(score float64) float64 {
	return math.Round(score*100) / 100
}

// Select returns the index of the strictly highest-scoring candidate.
// Ties go to the earliest declared strategy. Returns -1 on an empty slice.
func Select(candidates []models.EmailCandidate) int {
	best := -1
	for i, c := range candidates {
		if best == -1 || c.Score > candidates[best].Score {
			best = i
		}
	}
	return best
}

func countParagraphs(body string) int {
	n := 0
	for _, block := range strings.Split(body, "\n\n") {
		if strings.TrimSpace(block) != "" {
			n++
		}
	}
	return n
}

func countYou(body string) int {
	n := 0
	for _, w := range strings.Fields(strings.ToLower(body)) {
		w = strings.Trim(w, ".,!?;:'\"()")
		if w == "you" || w == "your" {
			n++
		}
	}
	return n
}
