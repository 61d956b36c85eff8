// Package gemini implements the summarization pipeline using Google Gemini.
package gemini

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/fwojciec/fixhub"
	"google.golang.org/genai"
)

const model = "gemini-2.5-flash"

// DefaultTimeout bounds a single generation call.
const DefaultTimeout = 30 * time.Second

// PromptBudget is the maximum number of step-content characters included in
// a prompt. Truncation drops trailing steps wholesale, never mid-step.
const PromptBudget = 4000

// Ensure Summarizer implements fixhub.Summarizer at compile time.
var _ fixhub.Summarizer = (*Summarizer)(nil)

// GenerateFunc produces completion text for a prompt.
type GenerateFunc func(ctx context.Context, prompt string, audience fixhub.Audience) (string, error)

// Summarizer implements fixhub.Summarizer using Google Gemini.
//
// Collaborator failures never propagate: a timeout or API error yields a
// degraded Summary carrying locally generated fallback text, and a
// Summarizer constructed without credentials yields unavailable Summaries
// without attempting a network call.
type Summarizer struct {
	client   *genai.Client
	timeout  time.Duration
	generate GenerateFunc
}

// Option configures a Summarizer.
type Option func(*Summarizer)

// WithTimeout bounds each generation call. Defaults to DefaultTimeout.
func WithTimeout(d time.Duration) Option {
	return func(s *Summarizer) {
		s.timeout = d
	}
}

// WithGenerateFunc overrides the text generator. Used in tests and for
// alternative completion backends.
func WithGenerateFunc(fn GenerateFunc) Option {
	return func(s *Summarizer) {
		s.generate = fn
	}
}

// NewSummarizer creates a Summarizer. A nil client means credentials are
// absent and summarization is disabled.
func NewSummarizer(client *genai.Client, opts ...Option) *Summarizer {
	s := &Summarizer{
		client:  client,
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.generate == nil && s.client != nil {
		s.generate = s.callGemini
	}
	return s
}

// Summarize generates a summary of the guide for the given audience.
func (s *Summarizer) Summarize(ctx context.Context, guide *fixhub.Guide, audience fixhub.Audience) (*fixhub.Summary, error) {
	if guide == nil {
		return nil, fixhub.Errorf(fixhub.EINVALID, "guide required")
	}
	if err := audience.Validate(); err != nil {
		return nil, err
	}

	if s.generate == nil {
		return &fixhub.Summary{
			GuideID:  guide.ID,
			Audience: audience,
			Status:   fixhub.StatusUnavailable,
		}, nil
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	text, err := s.generate(ctx, BuildPrompt(guide), audience)
	if err != nil || text == "" {
		return &fixhub.Summary{
			GuideID:  guide.ID,
			Text:     FallbackText(guide),
			Audience: audience,
			Status:   fixhub.StatusDegraded,
		}, nil
	}

	return &fixhub.Summary{
		GuideID:  guide.ID,
		Text:     text,
		Audience: audience,
		Status:   fixhub.StatusSuccess,
	}, nil
}

func (s *Summarizer) callGemini(ctx context.Context, prompt string, audience fixhub.Audience) (string, error) {
	result, err := s.client.Models.GenerateContent(ctx, model,
		[]*genai.Content{{
			Parts: []*genai.Part{{Text: prompt}},
		}},
		BuildConfig(audience),
	)
	if err != nil {
		return "", err
	}
	if result == nil {
		return "", fixhub.Errorf(fixhub.EINTERNAL, "gemini returned nil result")
	}
	return result.Text(), nil
}

// BuildConfig returns the GenerateContentConfig for a target audience.
func BuildConfig(audience fixhub.Audience) *genai.GenerateContentConfig {
	temp := float32(0.1)
	return &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: systemInstruction(audience)}},
		},
		Temperature: &temp,
	}
}

func systemInstruction(audience fixhub.Audience) string {
	base := "You are an expert repair technician summarizing a device repair guide. Cover safety warnings, required tools and parts, the key steps, and common mistakes. Base the summary only on the guide provided."
	switch audience {
	case fixhub.AudienceExpert:
		return base + " Write for an experienced technician: be terse and skip basics."
	case fixhub.AudienceIntermediate:
		return base + " Write for a hobbyist who has done a few repairs before."
	default:
		return base + " Write for a complete beginner: explain terminology and be encouraging but realistic."
	}
}

// BuildPrompt builds a deterministic prompt from the guide's title, device,
// tools, parts, and step instructions. Steps are appended whole until
// PromptBudget characters of step content are reached; later steps are
// dropped entirely.
func BuildPrompt(guide *fixhub.Guide) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Guide: %s\n", guide.Title)
	fmt.Fprintf(&sb, "Device: %s\n", guide.Device)
	fmt.Fprintf(&sb, "Difficulty: %s\n", guide.Difficulty)
	if len(guide.Tools) > 0 {
		names := make([]string, len(guide.Tools))
		for i, tool := range guide.Tools {
			names[i] = tool.Name
		}
		fmt.Fprintf(&sb, "Tools: %s\n", strings.Join(names, ", "))
	}
	if len(guide.Parts) > 0 {
		names := make([]string, len(guide.Parts))
		for i, part := range guide.Parts {
			names[i] = part.Name
		}
		fmt.Fprintf(&sb, "Parts: %s\n", strings.Join(names, ", "))
	}

	sb.WriteString("\nSteps:\n")
	budget := PromptBudget
	for i, step := range guide.Steps {
		block := stepBlock(i+1, step)
		if len(block) > budget {
			break
		}
		budget -= len(block)
		sb.WriteString(block)
	}
	if len(guide.Steps) == 0 {
		sb.WriteString("(no step details available)\n")
	}
	return sb.String()
}

func stepBlock(n int, step fixhub.Step) string {
	var sb strings.Builder
	if step.Title != "" {
		fmt.Fprintf(&sb, "Step %d: %s\n", n, step.Title)
	} else {
		fmt.Fprintf(&sb, "Step %d:\n", n)
	}
	for _, line := range step.Lines {
		fmt.Fprintf(&sb, "- %s\n", line)
	}
	return sb.String()
}

// FallbackText builds the locally generated summary used on the degraded
// path: the guide's step titles in order, with no collaborator involved.
func FallbackText(guide *fixhub.Guide) string {
	if len(guide.Steps) == 0 {
		return fmt.Sprintf("%s (%s): no step details available.", guide.Title, guide.Device)
	}
	titles := make([]string, len(guide.Steps))
	for i, step := range guide.Steps {
		if step.Title != "" {
			titles[i] = step.Title
			continue
		}
		titles[i] = fmt.Sprintf("Step %d", i+1)
	}
	return fmt.Sprintf("%s (%s): %s.", guide.Title, guide.Device, strings.Join(titles, "; "))
}
