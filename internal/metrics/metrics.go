package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	RoundsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "rounds_total",
			Help: "Total generation rounds started",
		},
	)

	InputsBlocked = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "inputs_blocked_total",
			Help: "Total requests blocked by the input guardrail",
		},
	)

	OutputsBlocked = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "outputs_blocked_total",
			Help: "Total drafts blocked by the output guardrail",
		},
	)

	CandidatesGenerated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "candidates_generated_total",
			Help: "Total parsed email candidates",
		},
	)

	StrategyFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "strategy_failures_total",
			Help: "Total writer strategy failures",
		},
	)

	EmailsSent = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "emails_sent_total",
			Help: "Total emails sent",
		},
	)

	EmailFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "email_failures_total",
			Help: "Total failed emails",
		},
	)
)

func Init() {
	prometheus.MustRegister(
		RoundsTotal,
		InputsBlocked,
		OutputsBlocked,
		CandidatesGenerated,
		StrategyFailures,
		EmailsSent,
		EmailFailures,
	)
}
