package codegen

import (
	"regexp"
	"strings"
	"time"
)

// Artifact is the markup/stylesheet pair produced by one generation turn.
type Artifact struct {
	Markup      string
	Stylesheet  string
	GeneratedAt time.Time
}

// IsEmpty reports whether neither field carries code.
func (a *Artifact) IsEmpty() bool {
	return a == nil || (a.Markup == "" && a.Stylesheet == "")
}

// Labeled fence patterns. (?i) covers label and fence tag, (?s) lets the lazy
// capture span lines up to the first closing fence.
var (
	markupBlockPattern     = regexp.MustCompile("(?is)JSX:\\s*```jsx\\s*(.*?)\\s*```")
	stylesheetBlockPattern = regexp.MustCompile("(?is)CSS:\\s*```css\\s*(.*?)\\s*```")
)

// Extract pulls the first labeled JSX block and the first labeled CSS block out of
// raw model output. A missing block yields an empty field, never an error.
func Extract(raw string) Artifact {
	return Artifact{
		Markup:     firstBlock(markupBlockPattern, raw),
		Stylesheet: firstBlock(stylesheetBlockPattern, raw),
	}
}

func firstBlock(pattern *regexp.Regexp, raw string) string {
	match := pattern.FindStringSubmatch(raw)
	if len(match) < 2 {
		return ""
	}
	return strings.TrimSpace(match[1])
}
