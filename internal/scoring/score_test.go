package scoring

import (
	"strings"
	"testing"

	"PitchGuard/internal/models"
)

func TestScore_Deterministic(t *testing.T) {
	subject := "Cut your CRM costs in half this quarter"
	body := "Hi there,\n\nOur platform saves your team hours.\n\nBook a demo today."

	if Score(subject, body) != Score(subject, body) {
		t.Error("identical inputs produced different scores")
	}
}

func TestScore_SubjectPoints(t *testing.T) {
	body := strings.Repeat("word ", 150)

	empty := Score("", body)
	short := Score("Hi", body)
	sized := Score("A subject line sized for inbox preview panes", body)

	if short-empty != 25 {
		t.Errorf("subject presence bonus = %v, want 25", short-empty)
	}
	if sized-short != 5 {
		t.Errorf("subject length bonus = %v, want 5", sized-short)
	}
}

func TestScore_WordCountFit(t *testing.T) {
	subject := "Subject"

	inRange := Score(subject, strings.Repeat("word ", 150))
	wayOff := Score(subject, strings.Repeat("word ", 600))

	if inRange <= wayOff {
		t.Errorf("in-range body (%v) should outscore far-off body (%v)", inRange, wayOff)
	}

	// The fall-off floors at 10 points, so two extreme lengths tie.
	longA := Score(subject, strings.Repeat("word ", 600))
	longB := Score(subject, strings.Repeat("word ", 900))
	if longA != longB {
		t.Errorf("floored word-count scores differ: %v vs %v", longA, longB)
	}
}

func TestScore_ParagraphRichness(t *testing.T) {
	subject := "Subject"
	one := Score(subject, "a single block of text")
	two := Score(subject, "first block\n\nsecond block")
	three := Score(subject, "first\n\nsecond\n\nthird")

	if two-one != 6 {
		t.Errorf("two-paragraph bonus = %v, want 6", two-one)
	}
	if three-one != 10 {
		t.Errorf("three-paragraph bonus = %v, want 10", three-one)
	}
}

func TestScore_PersonalizationMonotonic(t *testing.T) {
	subject := "Subject"
	base := "Teams save hours with our product."

	prev := Score(subject, base)
	body := base
	for i := 1; i <= 5; i++ {
		body += " your"
		got := Score(subject, body)
		if got < prev {
			t.Fatalf("score decreased at %d personalization words: %v -> %v", i, prev, got)
		}
		prev = got
	}

	// Capped at 5 occurrences: the 6th adds nothing.
	capped := Score(subject, body+" your")
	if capped > prev {
		t.Errorf("personalization exceeded cap: %v -> %v", prev, capped)
	}
}

func TestScore_CallToAction(t *testing.T) {
	subject := "Subject"
	without := Score(subject, "We make software that is quite good.")
	with := Score(subject, "We make software that is quite good. Book a demo now.")

	if with-without != 10 {
		t.Errorf("CTA bonus = %v, want 10", with-without)
	}

	// Multiple CTA keywords still award the bonus once.
	double := Score(subject, "Schedule a demo or reply to this meeting invite now.")
	single := Score(subject, "Schedule a thing with us now.")
	if double-single != 0 {
		t.Errorf("CTA bonus awarded more than once: diff %v", double-single)
	}
}

func TestSelect_FirstMaxWins(t *testing.T) {
	candidates := []models.EmailCandidate{
		{Strategy: "A", Score: 61.0},
		{Strategy: "B", Score: 74.5},
		{Strategy: "C", Score: 74.5},
	}

	if got := Select(candidates); candidates[got].Strategy != "B" {
		t.Errorf("Select picked %s, want B", candidates[got].Strategy)
	}
}

func TestSelect_Empty(t *testing.T) {
	if got := Select(nil); got != -1 {
		t.Errorf("Select(nil) = %d, want -1", got)
	}
}
