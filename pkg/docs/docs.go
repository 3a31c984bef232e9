// Package docs serves depotc's built-in documentation topics: embedded
// markdown rendered for the terminal with glamour.
package docs

import (
	"embed"
	"path"
	"sort"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/depot-tools/depotc/pkg/errors"
)

//go:embed topics/*.md
var topicFiles embed.FS

// Topics returns the names of all available documentation topics, sorted.
func Topics() []string {
	entries, err := topicFiles.ReadDir("topics")
	if err != nil {
		return nil
	}
	var names []string
	for _, entry := range entries {
		names = append(names, strings.TrimSuffix(entry.Name(), ".md"))
	}
	sort.Strings(names)
	return names
}

// Render returns the named topic rendered for the terminal. Width 0 means
// no word wrapping.
func Render(topic string, width int) (string, error) {
	raw, err := topicFiles.ReadFile(path.Join("topics", topic+".md"))
	if err != nil {
		return "", errors.Newf(errors.ErrNotFound, "unknown topic %q (available: %s)", topic, strings.Join(Topics(), ", "))
	}

	options := []glamour.TermRendererOption{glamour.WithAutoStyle()}
	if width > 0 {
		options = append(options, glamour.WithWordWrap(width))
	}

	renderer, err := glamour.NewTermRenderer(options...)
	if err != nil {
		// Fall back to the raw markdown rather than failing the command.
		return string(raw), nil
	}
	rendered, err := renderer.Render(string(raw))
	if err != nil {
		return string(raw), nil
	}
	return rendered, nil
}
