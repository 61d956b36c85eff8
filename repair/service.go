// Package repair orchestrates the guide retrieval pipeline. It coordinates
// the upstream source, the result cache, query expansion, ranking, and the
// summarization pipeline behind the fixhub.GuideService contract.
package repair

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/fixhub"
	"github.com/fwojciec/fixhub/cache"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency bounds simultaneous upstream calls for one expanded
// search.
const DefaultConcurrency = 4

// Ensure Service implements fixhub.GuideService at compile time.
var _ fixhub.GuideService = (*Service)(nil)

// Service implements fixhub.GuideService over an upstream GuideSource with
// cache-checked retrieval. The caches are the only mutable state; search
// result sets and guides are cached independently, each entry expiring
// after the configured TTL.
type Service struct {
	source      fixhub.GuideSource
	summarizer  fixhub.Summarizer
	concurrency int

	searches  *cache.Cache[[]fixhub.GuideReference]
	guides    *cache.Cache[*fixhub.Guide]
	summaries *cache.Cache[*fixhub.Summary]
}

// Option configures a Service.
type Option func(*config)

type config struct {
	ttl         time.Duration
	concurrency int
}

// WithCacheTTL sets the lifetime of cached search results, guides, and
// summaries. Defaults to cache.DefaultTTL.
func WithCacheTTL(ttl time.Duration) Option {
	return func(c *config) {
		c.ttl = ttl
	}
}

// WithConcurrency bounds concurrent upstream calls during expanded search.
func WithConcurrency(n int) Option {
	return func(c *config) {
		c.concurrency = n
	}
}

// NewService creates a Service over the given source and summarizer.
func NewService(source fixhub.GuideSource, summarizer fixhub.Summarizer, opts ...Option) *Service {
	cfg := config{
		ttl:         cache.DefaultTTL,
		concurrency: DefaultConcurrency,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Service{
		source:      source,
		summarizer:  summarizer,
		concurrency: cfg.concurrency,
		searches:    cache.New(cache.WithTTL[[]fixhub.GuideReference](cfg.ttl)),
		guides:      cache.New(cache.WithTTL[*fixhub.Guide](cfg.ttl)),
		summaries:   cache.New(cache.WithTTL[*fixhub.Summary](cfg.ttl)),
	}
}

// SearchGuides returns a ranked, de-duplicated reference list of at most
// q.Limit() entries. Zero matches is a successful empty result.
func (s *Service) SearchGuides(ctx context.Context, q fixhub.SearchQuery) ([]fixhub.GuideReference, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	limit := q.Limit()

	return s.searches.GetOrFetch(ctx, searchKey(q.Query, limit), func(ctx context.Context) ([]fixhub.GuideReference, error) {
		return s.searchUpstream(ctx, q.Query, limit)
	})
}

// searchUpstream fans the expanded queries out to the source concurrently,
// merges candidates in expansion order, ranks, and truncates. The original
// query's failure propagates as-is; failures of expansion queries are
// tolerated and their candidates skipped.
func (s *Service) searchUpstream(ctx context.Context, query string, limit int) ([]fixhub.GuideReference, error) {
	queries := ExpandQuery(query)

	results := make([][]fixhub.GuideReference, len(queries))
	errs := make([]error, len(queries))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, expanded := range queries {
		g.Go(func() error {
			results[i], errs[i] = s.source.Search(gctx, expanded, limit)
			return nil
		})
	}
	_ = g.Wait()

	if errs[0] != nil {
		return nil, errs[0]
	}

	var merged []fixhub.GuideReference
	for i, refs := range results {
		if errs[i] != nil {
			continue
		}
		merged = append(merged, refs...)
	}

	ranked := Rank(merged, query)
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked, nil
}

// FindGuideByID returns the normalized guide, from cache when unexpired.
func (s *Service) FindGuideByID(ctx context.Context, id string) (*fixhub.Guide, error) {
	if id == "" {
		return nil, fixhub.Errorf(fixhub.EINVALID, "guide identifier required")
	}

	return s.guides.GetOrFetch(ctx, "guide:"+id, func(ctx context.Context) (*fixhub.Guide, error) {
		return s.source.FetchGuide(ctx, id)
	})
}

// SummarizeGuide generates a summary for a guide. An empty audience
// defaults to beginner. Only successfully generated summaries are cached;
// degraded and unavailable ones are regenerated per request so a recovered
// collaborator is picked up immediately.
func (s *Service) SummarizeGuide(ctx context.Context, id string, audience fixhub.Audience) (*fixhub.Summary, error) {
	if audience == "" {
		audience = fixhub.AudienceBeginner
	}
	if err := audience.Validate(); err != nil {
		return nil, err
	}

	guide, err := s.FindGuideByID(ctx, id)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("summary:%s:%s", id, audience)
	if summary, ok := s.summaries.Get(key); ok {
		return summary, nil
	}

	summary, err := s.summarizer.Summarize(ctx, guide, audience)
	if err != nil {
		return nil, err
	}
	if summary.Status == fixhub.StatusSuccess {
		s.summaries.Put(key, summary)
	}
	return summary, nil
}

// searchKey derives a cache key from the normalized query and limit.
func searchKey(query string, limit int) string {
	normalized := strings.Join(strings.Fields(strings.ToLower(query)), " ")
	return fmt.Sprintf("search:%x:%d", xxhash.Sum64String(normalized), limit)
}
