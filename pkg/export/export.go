// Package export bundles a session's component into a downloadable zip archive.
package export

import (
	"archive/zip"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"
)

var ErrNothingToExport = errors.New("session has no generated markup")

const (
	componentFile  = "component.jsx"
	stylesheetFile = "styles.css"
	packageFile    = "package.json"
	readmeFile     = "README.md"
)

var (
	whitespaceRun = regexp.MustCompile(`\s+`)
	unsafeChars   = regexp.MustCompile(`["/\\:*?<>|\x00-\x1f]`)
)

type Bundle struct {
	Name       string
	Markup     string
	Stylesheet string
}

type packageManifest struct {
	Name         string            `json:"name"`
	Version      string            `json:"version"`
	Description  string            `json:"description"`
	Main         string            `json:"main"`
	Dependencies map[string]string `json:"dependencies"`
}

// Slug lowercases the session name and joins words with dashes.
func Slug(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	slug = unsafeChars.ReplaceAllString(slug, "")
	slug = whitespaceRun.ReplaceAllString(slug, "-")
	slug = strings.Trim(slug, "-.")
	if slug == "" {
		return "component"
	}
	return slug
}

func FileName(name string) string {
	return Slug(name) + ".zip"
}

// WriteZip streams the bundle: component, stylesheet, package manifest and readme.
func WriteZip(w io.Writer, b Bundle) error {
	if strings.TrimSpace(b.Markup) == "" {
		return ErrNothingToExport
	}

	manifest, err := json.MarshalIndent(packageManifest{
		Name:        Slug(b.Name) + "-component",
		Version:     "1.0.0",
		Description: "Generated React component",
		Main:        componentFile,
		Dependencies: map[string]string{
			"react":     "^18.2.0",
			"react-dom": "^18.2.0",
		},
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("encode package manifest: %w", err)
	}

	files := []struct {
		name    string
		content []byte
	}{
		{componentFile, []byte(b.Markup)},
		{stylesheetFile, []byte(b.Stylesheet)},
		{packageFile, manifest},
		{readmeFile, []byte(readme(b.Name))},
	}

	zw := zip.NewWriter(w)
	for _, f := range files {
		fw, err := zw.Create(f.name)
		if err != nil {
			return fmt.Errorf("create %s: %w", f.name, err)
		}
		if _, err := fw.Write(f.content); err != nil {
			return fmt.Errorf("write %s: %w", f.name, err)
		}
	}
	return zw.Close()
}

func readme(name string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n", name)
	sb.WriteString("This component was generated using Accio AI.\n\n")
	sb.WriteString("## Files\n")
	sb.WriteString("- `component.jsx` - The React component\n")
	sb.WriteString("- `styles.css` - The component styles\n\n")
	sb.WriteString("## Usage\n")
	sb.WriteString("Import the component and styles into your React project.\n\n")
	sb.WriteString("```jsx\n")
	sb.WriteString("import Component from './component.jsx';\n")
	sb.WriteString("import './styles.css';\n\n")
	sb.WriteString("function App() {\n")
	sb.WriteString("  return <Component />;\n")
	sb.WriteString("}\n")
	sb.WriteString("```\n")
	return sb.String()
}
