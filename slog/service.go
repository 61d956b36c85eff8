// Package slog provides logging decorators for fixhub services.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/fixhub"
)

// Ensure GuideService implements fixhub.GuideService.
var _ fixhub.GuideService = (*GuideService)(nil)

// GuideService wraps a fixhub.GuideService with operation logging.
type GuideService struct {
	next   fixhub.GuideService
	logger *slog.Logger
}

// NewGuideService creates a new logging GuideService.
func NewGuideService(next fixhub.GuideService, logger *slog.Logger) *GuideService {
	return &GuideService{next: next, logger: logger}
}

// SearchGuides delegates to the wrapped service and logs the outcome.
func (s *GuideService) SearchGuides(ctx context.Context, q fixhub.SearchQuery) ([]fixhub.GuideReference, error) {
	begin := time.Now()
	refs, err := s.next.SearchGuides(ctx, q)
	s.log(ctx, "search guides", err,
		"query", q.Query,
		"limit", q.Limit(),
		"results", len(refs),
		"duration", time.Since(begin),
	)
	return refs, err
}

// FindGuideByID delegates to the wrapped service and logs the outcome.
func (s *GuideService) FindGuideByID(ctx context.Context, id string) (*fixhub.Guide, error) {
	begin := time.Now()
	guide, err := s.next.FindGuideByID(ctx, id)
	s.log(ctx, "find guide", err,
		"guideId", id,
		"duration", time.Since(begin),
	)
	return guide, err
}

// SummarizeGuide delegates to the wrapped service and logs the outcome,
// including the generation status of the returned summary.
func (s *GuideService) SummarizeGuide(ctx context.Context, id string, audience fixhub.Audience) (*fixhub.Summary, error) {
	begin := time.Now()
	summary, err := s.next.SummarizeGuide(ctx, id, audience)
	attrs := []any{
		"guideId", id,
		"audience", string(audience),
		"duration", time.Since(begin),
	}
	if summary != nil {
		attrs = append(attrs, "status", string(summary.Status))
	}
	s.log(ctx, "summarize guide", err, attrs...)
	return summary, err
}

func (s *GuideService) log(ctx context.Context, msg string, err error, attrs ...any) {
	if err != nil {
		attrs = append(attrs, "code", fixhub.ErrorCode(err), "error", fixhub.ErrorMessage(err))
		s.logger.ErrorContext(ctx, msg, attrs...)
		return
	}
	s.logger.InfoContext(ctx, msg, attrs...)
}
