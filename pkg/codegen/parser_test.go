package codegen

import (
	"testing"
)

func TestExtract(t *testing.T) {
	tests := []struct {
		name           string
		raw            string
		wantMarkup     string
		wantStylesheet string
	}{
		{
			name: "both blocks in order",
			raw: "Here you go.\n\nJSX:\n```jsx\nexport default function Button() {\n  return <button className=\"btn\">Click</button>;\n}\n```\n\n" +
				"CSS:\n```css\n.btn { color: red; }\n```\n\nExplanation:\nA red button.",
			wantMarkup:     "export default function Button() {\n  return <button className=\"btn\">Click</button>;\n}",
			wantStylesheet: ".btn { color: red; }",
		},
		{
			name:           "missing stylesheet block",
			raw:            "JSX:\n```jsx\n<div/>\n```\n\nExplanation:\nNo styles needed.",
			wantMarkup:     "<div/>",
			wantStylesheet: "",
		},
		{
			name:           "missing markup block",
			raw:            "CSS:\n```css\nbody { margin: 0; }\n```",
			wantMarkup:     "",
			wantStylesheet: "body { margin: 0; }",
		},
		{
			name:           "neither block",
			raw:            "Sorry, I can't help with that.",
			wantMarkup:     "",
			wantStylesheet: "",
		},
		{
			name:           "empty input",
			raw:            "",
			wantMarkup:     "",
			wantStylesheet: "",
		},
		{
			name:           "case-insensitive label and fence tag",
			raw:            "jsx:\n```JSX\n<Card />\n```\ncss:\n```CSS\n.card{}\n```",
			wantMarkup:     "<Card />",
			wantStylesheet: ".card{}",
		},
		{
			name: "first occurrence wins",
			raw: "JSX:\n```jsx\n<First />\n```\nCSS:\n```css\n.first{}\n```\n" +
				"JSX:\n```jsx\n<Second />\n```\nCSS:\n```css\n.second{}\n```",
			wantMarkup:     "<First />",
			wantStylesheet: ".first{}",
		},
		{
			name:           "unlabeled fences are ignored",
			raw:            "```jsx\n<div/>\n```\n```css\n.a{}\n```",
			wantMarkup:     "",
			wantStylesheet: "",
		},
		{
			name:           "unterminated block",
			raw:            "JSX:\n```jsx\n<div>never closed",
			wantMarkup:     "",
			wantStylesheet: "",
		},
		{
			name:           "content is trimmed",
			raw:            "JSX:   \n\n```jsx   \n\n   <span/>   \n\n```",
			wantMarkup:     "<span/>",
			wantStylesheet: "",
		},
		{
			name:           "empty fenced block",
			raw:            "JSX:\n```jsx\n```\nCSS:\n```css\n.x{}\n```",
			wantMarkup:     "",
			wantStylesheet: ".x{}",
		},
		{
			name:           "stylesheet before markup",
			raw:            "CSS:\n```css\n.b{}\n```\nJSX:\n```jsx\n<B/>\n```",
			wantMarkup:     "<B/>",
			wantStylesheet: ".b{}",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Extract(tt.raw)

			if got.Markup != tt.wantMarkup {
				t.Errorf("Markup = %q, want %q", got.Markup, tt.wantMarkup)
			}
			if got.Stylesheet != tt.wantStylesheet {
				t.Errorf("Stylesheet = %q, want %q", got.Stylesheet, tt.wantStylesheet)
			}
		})
	}
}

func TestExtractIsDeterministic(t *testing.T) {
	raw := "JSX:\n```jsx\n<A/>\n```\nCSS:\n```css\n.a{}\n```"
	first := Extract(raw)
	for i := 0; i < 5; i++ {
		if got := Extract(raw); got != first {
			t.Fatalf("run %d: got %+v, want %+v", i, got, first)
		}
	}
}

func TestArtifactIsEmpty(t *testing.T) {
	var nilArtifact *Artifact
	if !nilArtifact.IsEmpty() {
		t.Error("nil artifact should be empty")
	}
	if !(&Artifact{}).IsEmpty() {
		t.Error("zero artifact should be empty")
	}
	if (&Artifact{Stylesheet: ".a{}"}).IsEmpty() {
		t.Error("artifact with stylesheet should not be empty")
	}
}
