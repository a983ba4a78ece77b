// Package writer holds the email-writing personas. Each persona is an
// independent Strategy over an opaque text-completion capability; the
// generator fans a request out across all of them.
package writer

import "context"

// Strategy is one independent email-writing persona. Generate may be slow
// and may fail; callers own timeouts via ctx.
type Strategy interface {
	Name() string
	Generate(ctx context.Context, request string) (string, error)
}

// Resettable is implemented by strategies that hold cacheable state. The
// workflow calls Reset on Clear so an abandoned session does not bleed into
// the next one.
type Resettable interface {
	Reset()
}
