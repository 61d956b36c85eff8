package mock

import (
	"context"

	"github.com/fwojciec/fixhub"
)

var _ fixhub.GuideSource = (*GuideSource)(nil)

// GuideSource is a mock implementation of fixhub.GuideSource.
type GuideSource struct {
	SearchFn     func(ctx context.Context, query string, limit int) ([]fixhub.GuideReference, error)
	FetchGuideFn func(ctx context.Context, id string) (*fixhub.Guide, error)
}

func (s *GuideSource) Search(ctx context.Context, query string, limit int) ([]fixhub.GuideReference, error) {
	return s.SearchFn(ctx, query, limit)
}

func (s *GuideSource) FetchGuide(ctx context.Context, id string) (*fixhub.Guide, error) {
	return s.FetchGuideFn(ctx, id)
}
