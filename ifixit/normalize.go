package ifixit

import (
	"encoding/json"
	"net/url"
	"strings"

	"github.com/fwojciec/fixhub"
)

// Raw payload shapes for the subset of iFixit API fields the normalizer
// reads. Upstream records are optional-field-heavy; everything here may be
// absent or empty.
type rawGuide struct {
	GuideID    int       `json:"guideid"`
	Title      string    `json:"title"`
	Category   string    `json:"category"`
	Difficulty string    `json:"difficulty"`
	URL        string    `json:"url"`
	Steps      []rawStep `json:"steps"`
	Tools      []rawItem `json:"tools"`
	Parts      []rawItem `json:"parts"`
}

type rawStep struct {
	Title string    `json:"title"`
	Lines []rawLine `json:"lines"`
	Media rawMedia  `json:"media"`
}

type rawLine struct {
	TextRendered string `json:"text_rendered"`
	TextRaw      string `json:"text_raw"`
}

type rawMedia struct {
	Data []rawImage `json:"data"`
}

type rawImage struct {
	Standard string `json:"standard"`
	Original string `json:"original"`
}

type rawItem struct {
	Text string `json:"text"`
	Name string `json:"name"`
	URL  string `json:"url"`
}

type rawSearch struct {
	Results []rawResult `json:"results"`
}

type rawResult struct {
	DataType string         `json:"dataType"`
	GuideID  int            `json:"guideid"`
	Title    string         `json:"title"`
	Category string         `json:"category"`
	URL      string         `json:"url"`
	Image    rawResultImage `json:"image"`
}

type rawResultImage struct {
	Thumbnail string `json:"thumbnail"`
	Standard  string `json:"standard"`
}

// Normalize converts a raw upstream guide payload into the canonical
// fixhub.Guide. Normalization is total over a validated subset of fields
// with explicit default substitution; the only rejection is the minimal
// viability condition: a payload lacking both a title and any steps fails
// with EMALFORMED. A guide with a title but zero steps is valid and flagged
// Incomplete.
func Normalize(payload []byte) (*fixhub.Guide, error) {
	var raw rawGuide
	if err := json.Unmarshal(payload, &raw); err != nil {
		return nil, fixhub.Errorf(fixhub.EMALFORMED, "undecodable guide payload: %v", err)
	}

	if raw.Title == "" && len(raw.Steps) == 0 {
		return nil, fixhub.Errorf(fixhub.EMALFORMED, "guide has neither title nor steps")
	}

	id := itoa(raw.GuideID)

	title := raw.Title
	if title == "" {
		title = raw.Category
	}
	if title == "" {
		title = id
	}

	device := raw.Category
	if device == "" {
		device = firstWord(title)
	}

	steps := make([]fixhub.Step, 0, len(raw.Steps))
	for _, rs := range raw.Steps {
		steps = append(steps, normalizeStep(rs))
	}

	g := &fixhub.Guide{
		ID:         id,
		Title:      title,
		Device:     device,
		Steps:      steps,
		Tools:      dedupeTools(raw.Tools),
		Parts:      dedupeParts(raw.Parts),
		Difficulty: ParseDifficulty(raw.Difficulty),
		SourceURL:  raw.URL,
		Incomplete: len(steps) == 0,
	}
	return g, nil
}

// normalizeStep preserves upstream line and image order, dropping empty
// instruction lines and invalid image URLs silently.
func normalizeStep(rs rawStep) fixhub.Step {
	lines := make([]string, 0, len(rs.Lines))
	for _, rl := range rs.Lines {
		text := CleanText(rl.TextRendered)
		if text == "" {
			text = strings.TrimSpace(rl.TextRaw)
		}
		if text == "" {
			continue
		}
		lines = append(lines, text)
	}

	var images []string
	for _, ri := range rs.Media.Data {
		u := ri.Standard
		if u == "" {
			u = ri.Original
		}
		if !validImageURL(u) {
			continue
		}
		images = append(images, u)
	}

	return fixhub.Step{
		Title:  strings.TrimSpace(rs.Title),
		Lines:  lines,
		Images: images,
	}
}

// ParseDifficulty maps upstream difficulty labels onto the fixed domain
// enumeration. Missing or unrecognized values map to DifficultyUnknown.
func ParseDifficulty(s string) fixhub.Difficulty {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "very easy", "easy":
		return fixhub.DifficultyEasy
	case "moderate", "medium":
		return fixhub.DifficultyModerate
	case "difficult", "hard":
		return fixhub.DifficultyDifficult
	case "very difficult":
		return fixhub.DifficultyVeryDifficult
	}
	return fixhub.DifficultyUnknown
}

// dedupeTools collapses tools case-insensitively, first-seen casing wins.
func dedupeTools(items []rawItem) []fixhub.Tool {
	seen := make(map[string]struct{}, len(items))
	tools := make([]fixhub.Tool, 0, len(items))
	for _, it := range items {
		name := itemName(it)
		if name == "" {
			continue
		}
		key := strings.ToLower(name)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		tools = append(tools, fixhub.Tool{Name: name})
	}
	return tools
}

// dedupeParts collapses parts case-insensitively, first-seen casing wins.
// The first occurrence's reference URL is kept with it.
func dedupeParts(items []rawItem) []fixhub.Part {
	seen := make(map[string]struct{}, len(items))
	parts := make([]fixhub.Part, 0, len(items))
	for _, it := range items {
		name := itemName(it)
		if name == "" {
			continue
		}
		key := strings.ToLower(name)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		parts = append(parts, fixhub.Part{Name: name, URL: it.URL})
	}
	return parts
}

func itemName(it rawItem) string {
	if name := strings.TrimSpace(it.Text); name != "" {
		return name
	}
	return strings.TrimSpace(it.Name)
}

func validImageURL(s string) bool {
	if s == "" {
		return false
	}
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

func firstWord(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// decodeSearch converts a raw search payload into references, keeping
// upstream order and skipping records that are not guides or carry no
// usable identifier.
func decodeSearch(payload []byte) ([]fixhub.GuideReference, error) {
	var raw rawSearch
	if err := json.Unmarshal(payload, &raw); err != nil {
		return nil, fixhub.Errorf(fixhub.EUPSTREAM, "undecodable search payload: %v", err)
	}

	refs := make([]fixhub.GuideReference, 0, len(raw.Results))
	for _, r := range raw.Results {
		if r.DataType != "" && r.DataType != "guide" {
			continue
		}
		id := itoa(r.GuideID)
		if id == "" {
			id = r.URL
		}
		if id == "" {
			continue
		}
		thumb := r.Image.Thumbnail
		if thumb == "" {
			thumb = r.Image.Standard
		}
		refs = append(refs, fixhub.GuideReference{
			ID:           id,
			Title:        r.Title,
			Device:       r.Category,
			ThumbnailURL: thumb,
		})
	}
	return refs, nil
}
