package delivery

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"gopkg.in/gomail.v2"
)

// Transport is the outbound mail capability: one call per recipient. The
// returned code is transport-specific (SMTP 250 on success).
type Transport interface {
	Send(ctx context.Context, subject, htmlBody, to string) (int, error)
}

// SMTPTransport sends over SMTP with exponential-backoff retry on
// transient failures.
type SMTPTransport struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
	// Retries bounds how long (in seconds) retry attempts may run.
	Retries int
}

func (t *SMTPTransport) Send(ctx context.Context, subject, htmlBody, to string) (int, error) {
	m := gomail.NewMessage()
	m.SetHeader("From", t.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", htmlBody)

	d := gomail.NewDialer(t.Host, t.Port, t.User, t.Password)

	operation := func() error {
		return d.DialAndSend(m)
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 500 * time.Millisecond
	b.MaxElapsedTime = time.Duration(t.Retries) * time.Second

	if err := backoff.Retry(operation, backoff.WithContext(b, ctx)); err != nil {
		return 0, fmt.Errorf("smtp send error: %w", err)
	}
	return 250, nil
}
