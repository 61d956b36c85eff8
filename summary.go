package fixhub

import "context"

// Audience selects the tone and depth of a generated summary.
type Audience string

// Supported summary audiences.
const (
	AudienceBeginner     Audience = "beginner"
	AudienceIntermediate Audience = "intermediate"
	AudienceExpert       Audience = "expert"
)

// Validate returns an error if the audience is not a known value.
func (a Audience) Validate() error {
	switch a {
	case AudienceBeginner, AudienceIntermediate, AudienceExpert:
		return nil
	}
	return Errorf(EINVALID, "unknown audience %q", string(a))
}

// SummaryStatus reports how a summary was produced.
type SummaryStatus string

// Summary generation statuses. StatusDegraded and StatusUnavailable are
// successful outcomes of lower quality, not failures.
const (
	StatusSuccess     SummaryStatus = "success"     // collaborator output, verbatim
	StatusDegraded    SummaryStatus = "degraded"    // locally generated fallback text
	StatusUnavailable SummaryStatus = "unavailable" // summarization disabled, no text
)

// Summary is a natural-language rendition of a guide for a target audience.
// A Summary is created per request and never retried in place: a failed
// generation yields a terminal status rather than a partial object.
type Summary struct {
	GuideID  string        `json:"guideId"`
	Text     string        `json:"text,omitempty"`
	Audience Audience      `json:"audience"`
	Status   SummaryStatus `json:"status"`
}

// Summarizer generates summaries of normalized guides.
//
// Implementations return an error only for invalid input (EINVALID);
// collaborator timeouts and failures are absorbed into the Summary's
// Status field so the degraded branch stays part of the public contract.
type Summarizer interface {
	Summarize(ctx context.Context, guide *Guide, audience Audience) (*Summary, error)
}
