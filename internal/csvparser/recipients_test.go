package csvparser

import (
	"strings"
	"testing"

	"go.uber.org/zap"
)

func TestParseRecipients(t *testing.T) {
	csv := "name,email\nAda,ada@example.com\nGrace,grace@example.com\n"

	recipients, err := ParseRecipients(strings.NewReader(csv), 0, zap.NewNop())
	if err != nil {
		t.Fatalf("ParseRecipients() error: %v", err)
	}
	if len(recipients) != 2 {
		t.Fatalf("got %d recipients, want 2", len(recipients))
	}
	if recipients[0].Name != "Ada" || recipients[0].Email != "ada@example.com" {
		t.Errorf("recipients[0] = %+v", recipients[0])
	}
}

func TestParseRecipients_SkipsMissingEmail(t *testing.T) {
	csv := "Name,Email\nAda,ada@example.com\nNoEmail,\nGrace,grace@example.com\n"

	recipients, err := ParseRecipients(strings.NewReader(csv), 0, zap.NewNop())
	if err != nil {
		t.Fatalf("ParseRecipients() error: %v", err)
	}
	if len(recipients) != 2 {
		t.Errorf("got %d recipients, want 2 (blank email skipped)", len(recipients))
	}
}

func TestParseRecipients_HeaderCaseInsensitive(t *testing.T) {
	csv := "EMAIL\nada@example.com\n"

	recipients, err := ParseRecipients(strings.NewReader(csv), 0, zap.NewNop())
	if err != nil {
		t.Fatalf("ParseRecipients() error: %v", err)
	}
	if recipients[0].Email != "ada@example.com" || recipients[0].Name != "" {
		t.Errorf("recipients[0] = %+v", recipients[0])
	}
}

func TestParseRecipients_Errors(t *testing.T) {
	tests := []struct {
		name string
		csv  string
	}{
		{"no email column", "name,phone\nAda,555\n"},
		{"only header", "name,email\n"},
		{"all rows missing email", "name,email\nAda,\nGrace,\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseRecipients(strings.NewReader(tt.csv), 0, zap.NewNop()); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestParseRecipients_MaxRows(t *testing.T) {
	csv := "email\na@x.com\nb@x.com\nc@x.com\n"

	recipients, err := ParseRecipients(strings.NewReader(csv), 2, zap.NewNop())
	if err != nil {
		t.Fatalf("ParseRecipients() error: %v", err)
	}
	if len(recipients) != 2 {
		t.Errorf("got %d recipients, want 2", len(recipients))
	}
}
