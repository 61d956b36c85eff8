package mock

import (
	"context"

	"github.com/fwojciec/fixhub"
)

var _ fixhub.GuideService = (*GuideService)(nil)

// GuideService is a mock implementation of fixhub.GuideService.
type GuideService struct {
	SearchGuidesFn   func(ctx context.Context, q fixhub.SearchQuery) ([]fixhub.GuideReference, error)
	FindGuideByIDFn  func(ctx context.Context, id string) (*fixhub.Guide, error)
	SummarizeGuideFn func(ctx context.Context, id string, audience fixhub.Audience) (*fixhub.Summary, error)
}

func (s *GuideService) SearchGuides(ctx context.Context, q fixhub.SearchQuery) ([]fixhub.GuideReference, error) {
	return s.SearchGuidesFn(ctx, q)
}

func (s *GuideService) FindGuideByID(ctx context.Context, id string) (*fixhub.Guide, error) {
	return s.FindGuideByIDFn(ctx, id)
}

func (s *GuideService) SummarizeGuide(ctx context.Context, id string, audience fixhub.Audience) (*fixhub.Summary, error) {
	return s.SummarizeGuideFn(ctx, id, audience)
}
