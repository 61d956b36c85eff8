package mock

import (
	"context"

	"github.com/fwojciec/fixhub"
)

var _ fixhub.Summarizer = (*Summarizer)(nil)

// Summarizer is a mock implementation of fixhub.Summarizer.
type Summarizer struct {
	SummarizeFn func(ctx context.Context, guide *fixhub.Guide, audience fixhub.Audience) (*fixhub.Summary, error)
}

func (s *Summarizer) Summarize(ctx context.Context, guide *fixhub.Guide, audience fixhub.Audience) (*fixhub.Summary, error) {
	return s.SummarizeFn(ctx, guide, audience)
}
