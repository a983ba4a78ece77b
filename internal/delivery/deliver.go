// Package delivery turns an approved draft into per-recipient emails:
// mail-merge substitution, HTML shaping, and one transport call per
// recipient with partial-failure semantics.
package delivery

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"PitchGuard/internal/metrics"
	"PitchGuard/internal/models"
)

type Deliverer struct {
	Transport Transport
	// Limiter paces sends so a large batch does not trip provider limits.
	// Nil means no pacing.
	Limiter *rate.Limiter
	Log     *zap.Logger
}

// Deliver sends the draft to every recipient in order. One bad address
// never aborts the rest of the batch; failures are recorded per recipient
// and aggregated into the batch result.
func (d *Deliverer) Deliver(ctx context.Context, draft *models.Draft, recipients []models.Recipient, senderName string) models.SendBatchResult {
	batch := models.SendBatchResult{}

	for _, r := range recipients {
		batch.Attempted++

		if d.Limiter != nil {
			if err := d.Limiter.Wait(ctx); err != nil {
				res := models.SendResult{
					Recipient: r.Email,
					Status:    models.StatusError,
					ErrorMsg:  "send cancelled: " + err.Error(),
				}
				batch.Results = append(batch.Results, res)
				batch.Failures = append(batch.Failures, res)
				metrics.EmailFailures.Inc()
				continue
			}
		}

		subject := MergeTokens(draft.Subject, r.Name, senderName)
		body := ToHTML(MergeTokens(draft.Body, r.Name, senderName))

		code, err := d.Transport.Send(ctx, subject, body, r.Email)
		if err != nil {
			d.Log.Error("email send failed",
				zap.String("to", r.Email),
				zap.Error(err),
			)
			res := models.SendResult{
				Recipient: r.Email,
				Status:    models.StatusError,
				ErrorMsg:  err.Error(),
			}
			batch.Results = append(batch.Results, res)
			batch.Failures = append(batch.Failures, res)
			metrics.EmailFailures.Inc()
			continue
		}

		d.Log.Info("email sent successfully",
			zap.String("to", r.Email),
			zap.Int("status_code", code),
		)
		batch.Results = append(batch.Results, models.SendResult{
			Recipient:  r.Email,
			Status:     models.StatusSuccess,
			StatusCode: code,
		})
		batch.Succeeded++
		metrics.EmailsSent.Inc()
	}

	return batch
}
