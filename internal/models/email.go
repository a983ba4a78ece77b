package models

import "time"

type SendStatus string

const (
	StatusSuccess SendStatus = "success"
	StatusError   SendStatus = "error"
)

// EmailCandidate is one writer strategy's parsed output for a single round.
type EmailCandidate struct {
	Strategy  string  `json:"strategy"`
	Subject   string  `json:"subject"`
	Body      string  `json:"body"`
	RawOutput string  `json:"raw_output"`
	Score     float64 `json:"score"`
}

// Draft is the selected candidate plus workflow metadata. Exactly one Draft
// is current per workflow instance; regeneration replaces it wholesale.
type Draft struct {
	RoundID  string    `json:"round_id"`
	Request  string    `json:"request"`
	Strategy string    `json:"strategy"`
	Subject  string    `json:"subject"`
	Body     string    `json:"body"`
	Approved bool      `json:"approved"`
	Created  time.Time `json:"created_at"`
}

type Recipient struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email"`
}

// SendResult is the per-recipient outcome of one delivery attempt.
type SendResult struct {
	Recipient  string     `json:"recipient"`
	Status     SendStatus `json:"status"`
	StatusCode int        `json:"status_code,omitempty"`
	ErrorMsg   string     `json:"error_msg,omitempty"`
}

// SendBatchResult aggregates per-recipient outcomes for one approve action.
type SendBatchResult struct {
	Attempted int          `json:"attempted"`
	Succeeded int          `json:"succeeded"`
	Failures  []SendResult `json:"failures,omitempty"`
	Results   []SendResult `json:"results"`
}

// FirstFailure returns the first failed send, or nil when every recipient
// succeeded.
func (b *SendBatchResult) FirstFailure() *SendResult {
	if len(b.Failures) == 0 {
		return nil
	}
	return &b.Failures[0]
}
