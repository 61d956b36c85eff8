package gemini_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/fwojciec/fixhub"
	"github.com/fwojciec/fixhub/gemini"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testGuide() *fixhub.Guide {
	return &fixhub.Guide{
		ID:         "12345",
		Title:      "iPhone 14 Screen Replacement",
		Device:     "iPhone 14",
		Difficulty: fixhub.DifficultyModerate,
		Tools:      []fixhub.Tool{{Name: "Spudger"}, {Name: "P2 Pentalobe Screwdriver"}},
		Parts:      []fixhub.Part{{Name: "iPhone 14 Screen"}},
		Steps: []fixhub.Step{
			{Title: "Remove the pentalobe screws", Lines: []string{"Power off the phone.", "Remove both screws."}},
			{Title: "Open the display", Lines: []string{"Lift carefully."}},
		},
	}
}

func TestSummarizer_Summarize_Success(t *testing.T) {
	t.Parallel()

	var gotPrompt string
	s := gemini.NewSummarizer(nil, gemini.WithGenerateFunc(
		func(ctx context.Context, prompt string, audience fixhub.Audience) (string, error) {
			gotPrompt = prompt
			return "A clear summary.", nil
		},
	))

	summary, err := s.Summarize(context.Background(), testGuide(), fixhub.AudienceBeginner)
	require.NoError(t, err)

	assert.Equal(t, fixhub.StatusSuccess, summary.Status)
	assert.Equal(t, "A clear summary.", summary.Text)
	assert.Equal(t, "12345", summary.GuideID)
	assert.Equal(t, fixhub.AudienceBeginner, summary.Audience)
	assert.Contains(t, gotPrompt, "iPhone 14 Screen Replacement")
}

func TestSummarizer_Summarize_DegradesOnGeneratorError(t *testing.T) {
	t.Parallel()

	s := gemini.NewSummarizer(nil, gemini.WithGenerateFunc(
		func(ctx context.Context, prompt string, audience fixhub.Audience) (string, error) {
			return "", errors.New("deadline exceeded")
		},
	))

	summary, err := s.Summarize(context.Background(), testGuide(), fixhub.AudienceBeginner)
	require.NoError(t, err, "collaborator failure must not propagate")

	assert.Equal(t, fixhub.StatusDegraded, summary.Status)
	assert.NotEmpty(t, summary.Text)
	assert.Contains(t, summary.Text, "Remove the pentalobe screws")
}

func TestSummarizer_Summarize_DegradesOnTimeout(t *testing.T) {
	t.Parallel()

	s := gemini.NewSummarizer(nil,
		gemini.WithTimeout(1),
		gemini.WithGenerateFunc(func(ctx context.Context, prompt string, audience fixhub.Audience) (string, error) {
			<-ctx.Done()
			return "", ctx.Err()
		}),
	)

	summary, err := s.Summarize(context.Background(), testGuide(), fixhub.AudienceExpert)
	require.NoError(t, err)

	assert.Equal(t, fixhub.StatusDegraded, summary.Status)
	assert.NotEmpty(t, summary.Text)
}

func TestSummarizer_Summarize_UnavailableWithoutCredentials(t *testing.T) {
	t.Parallel()

	// Nil client and no generator override: summarization is disabled and
	// no network call is attempted.
	s := gemini.NewSummarizer(nil)

	summary, err := s.Summarize(context.Background(), testGuide(), fixhub.AudienceBeginner)
	require.NoError(t, err)

	assert.Equal(t, fixhub.StatusUnavailable, summary.Status)
	assert.Empty(t, summary.Text)
}

func TestSummarizer_Summarize_RejectsNilGuide(t *testing.T) {
	t.Parallel()

	s := gemini.NewSummarizer(nil)

	_, err := s.Summarize(context.Background(), nil, fixhub.AudienceBeginner)
	assert.Equal(t, fixhub.EINVALID, fixhub.ErrorCode(err))
}

func TestSummarizer_Summarize_RejectsUnknownAudience(t *testing.T) {
	t.Parallel()

	s := gemini.NewSummarizer(nil)

	_, err := s.Summarize(context.Background(), testGuide(), "wizard")
	assert.Equal(t, fixhub.EINVALID, fixhub.ErrorCode(err))
}

func TestBuildPrompt_IsDeterministic(t *testing.T) {
	t.Parallel()

	guide := testGuide()
	assert.Equal(t, gemini.BuildPrompt(guide), gemini.BuildPrompt(guide))
}

func TestBuildPrompt_ContainsGuideFields(t *testing.T) {
	t.Parallel()

	prompt := gemini.BuildPrompt(testGuide())

	assert.Contains(t, prompt, "Guide: iPhone 14 Screen Replacement")
	assert.Contains(t, prompt, "Device: iPhone 14")
	assert.Contains(t, prompt, "Difficulty: moderate")
	assert.Contains(t, prompt, "Tools: Spudger, P2 Pentalobe Screwdriver")
	assert.Contains(t, prompt, "Step 1: Remove the pentalobe screws")
	assert.Contains(t, prompt, "- Power off the phone.")
}

func TestBuildPrompt_DropsTrailingStepsWholesale(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("x", 1500)
	guide := &fixhub.Guide{
		ID:     "1",
		Title:  "Long Guide",
		Device: "Widget",
		Steps: []fixhub.Step{
			{Title: "one", Lines: []string{long}},
			{Title: "two", Lines: []string{long}},
			{Title: "three", Lines: []string{long}},
			{Title: "four", Lines: []string{long}},
		},
	}

	prompt := gemini.BuildPrompt(guide)

	// The fourth step would exceed the budget; it is dropped whole and no
	// partial step content appears.
	assert.Contains(t, prompt, "Step 1: one")
	assert.Contains(t, prompt, "Step 2: two")
	assert.NotContains(t, prompt, "Step 4: four")
	assert.LessOrEqual(t, strings.Count(prompt, long), 2)
}

func TestBuildConfig_AudienceShapesInstruction(t *testing.T) {
	t.Parallel()

	beginner := gemini.BuildConfig(fixhub.AudienceBeginner)
	expert := gemini.BuildConfig(fixhub.AudienceExpert)

	require.NotNil(t, beginner.SystemInstruction)
	require.Len(t, beginner.SystemInstruction.Parts, 1)
	assert.Contains(t, beginner.SystemInstruction.Parts[0].Text, "beginner")
	assert.Contains(t, expert.SystemInstruction.Parts[0].Text, "experienced technician")
	assert.NotEqual(t, beginner.SystemInstruction.Parts[0].Text, expert.SystemInstruction.Parts[0].Text)
}

func TestFallbackText(t *testing.T) {
	t.Parallel()

	text := gemini.FallbackText(testGuide())
	assert.Equal(t, "iPhone 14 Screen Replacement (iPhone 14): Remove the pentalobe screws; Open the display.", text)
}

func TestFallbackText_NoSteps(t *testing.T) {
	t.Parallel()

	guide := &fixhub.Guide{ID: "1", Title: "Battery Replacement", Device: "iPad", Incomplete: true}

	text := gemini.FallbackText(guide)
	assert.NotEmpty(t, text)
	assert.Contains(t, text, "Battery Replacement")
}
