package fixhub

import "context"

// Search result bounds. MaxResultsCeiling is a hard ceiling protecting
// upstream and the cache from unbounded requests.
const (
	DefaultMaxResults = 10
	MaxResultsCeiling = 50
)

// Difficulty labels a guide's difficulty. Upstream values outside the known
// set normalize to DifficultyUnknown, never a rejection.
type Difficulty string

// Known difficulty levels.
const (
	DifficultyUnknown       Difficulty = "unknown"
	DifficultyEasy          Difficulty = "easy"
	DifficultyModerate      Difficulty = "moderate"
	DifficultyDifficult     Difficulty = "difficult"
	DifficultyVeryDifficult Difficulty = "very difficult"
)

// SearchQuery represents a free-text device search request.
type SearchQuery struct {
	Query      string `json:"query"`
	MaxResults int    `json:"maxResults"`
}

// Validate returns an error if the query contains invalid fields.
func (q SearchQuery) Validate() error {
	if q.Query == "" {
		return Errorf(EINVALID, "search query required")
	}
	return nil
}

// Limit returns the effective result bound: DefaultMaxResults when unset,
// clamped to MaxResultsCeiling otherwise.
func (q SearchQuery) Limit() int {
	if q.MaxResults <= 0 {
		return DefaultMaxResults
	}
	if q.MaxResults > MaxResultsCeiling {
		return MaxResultsCeiling
	}
	return q.MaxResults
}

// GuideReference points at a guide known to exist upstream. References are
// produced by search and are immutable once created.
type GuideReference struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Device       string `json:"device"`
	ThumbnailURL string `json:"thumbnailUrl,omitempty"`
}

// Step is a single ordered step of a guide. Line and image order is
// upstream-defined and preserved.
type Step struct {
	Title  string   `json:"title"`
	Lines  []string `json:"lines"`
	Images []string `json:"images,omitempty"`
}

// Tool is a tool required by a guide.
type Tool struct {
	Name string `json:"name"`
}

// Part is a replacement part required by a guide.
type Part struct {
	Name string `json:"name"`
	URL  string `json:"url,omitempty"`
}

// Guide is the canonical, normalized form of an upstream repair guide.
// A guide with zero steps is valid but flagged Incomplete.
type Guide struct {
	ID         string     `json:"id"`
	Title      string     `json:"title"`
	Device     string     `json:"device"`
	Steps      []Step     `json:"steps"`
	Tools      []Tool     `json:"tools"`
	Parts      []Part     `json:"parts"`
	Difficulty Difficulty `json:"difficulty"`
	SourceURL  string     `json:"sourceUrl,omitempty"`
	Incomplete bool       `json:"incomplete"`
}

// GuideSource retrieves guide data from the upstream provider.
// Implementations issue read-only calls, enforce a request timeout, and
// classify transport failures (EUNAVAILABLE for network/timeout, EUPSTREAM
// for non-success status codes, EMALFORMED for unparseable guide payloads).
type GuideSource interface {
	// Search returns candidate references for a free-text query, in
	// upstream order, without ranking or de-duplication.
	Search(ctx context.Context, query string, limit int) ([]GuideReference, error)

	// FetchGuide retrieves and normalizes a single guide.
	// Returns ENOTFOUND if the guide does not exist upstream.
	FetchGuide(ctx context.Context, id string) (*Guide, error)
}

// GuideService is the boundary contract consumed by the transport layer.
type GuideService interface {
	// SearchGuides returns a ranked, de-duplicated list of references,
	// at most q.Limit() long. Zero matches is a successful empty result,
	// not an error.
	SearchGuides(ctx context.Context, q SearchQuery) ([]GuideReference, error)

	// FindGuideByID retrieves a normalized guide.
	// Returns ENOTFOUND if the guide does not exist.
	FindGuideByID(ctx context.Context, id string) (*Guide, error)

	// SummarizeGuide generates a Summary for a guide. Summarization
	// failures degrade within the returned Summary and never surface as
	// request-level errors.
	SummarizeGuide(ctx context.Context, id string, audience Audience) (*Summary, error)
}
