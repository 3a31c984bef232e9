// Package output renders depotc results for terminals and for machine
// consumption. Styled output is only produced when writing to a TTY;
// redirected output and the json/yaml formats stay plain.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
	"gopkg.in/yaml.v3"

	"github.com/depot-tools/depotc/pkg/compact"
	"github.com/depot-tools/depotc/pkg/errors"
)

// Format selects the output encoding.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat validates a --format flag value.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatText, FormatJSON, FormatYAML:
		return Format(s), nil
	default:
		return "", errors.Newf(errors.ErrInvalidInput, "unknown output format %q (want text, json or yaml)", s)
	}
}

var (
	headerStyle = lipgloss.NewStyle().Bold(true)
	pathStyle   = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "25", Dark: "39"})
	countStyle  = lipgloss.NewStyle().Faint(true)
)

// Renderer writes results in the selected format.
type Renderer struct {
	w      io.Writer
	format Format
	styled bool
}

// NewRenderer creates a renderer for w. Text output is styled only when w
// is a terminal.
func NewRenderer(w io.Writer, format Format) *Renderer {
	styled := false
	if f, ok := w.(*os.File); ok {
		styled = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	if styled {
		lipgloss.SetColorProfile(termenv.ColorProfile())
	}
	return &Renderer{w: w, format: format, styled: styled}
}

// resourceList is the machine-readable shape for list/shared results.
type resourceList struct {
	Depot     string   `json:"depot,omitempty" yaml:"depot,omitempty"`
	Resources []string `json:"resources" yaml:"resources"`
}

// Resources renders an enumerated or shared resource list. depotPath is
// empty for shared sets, which belong to no single depot.
func (r *Renderer) Resources(depotPath string, resources []string) error {
	if r.format != FormatText {
		return r.encode(resourceList{Depot: depotPath, Resources: resources})
	}

	if depotPath != "" {
		fmt.Fprintln(r.w, r.style(headerStyle, depotPath))
	}
	for _, res := range resources {
		fmt.Fprintln(r.w, r.style(pathStyle, res))
	}
	fmt.Fprintln(r.w, r.style(countStyle, fmt.Sprintf("%d resource(s)", len(resources))))
	return nil
}

// reportView is the machine-readable shape for compaction reports.
type reportView struct {
	Destination string   `json:"destination" yaml:"destination"`
	Shared      []string `json:"shared" yaml:"shared"`
	Moved       int      `json:"moved" yaml:"moved"`
	Deleted     int      `json:"deleted" yaml:"deleted"`
	Skipped     int      `json:"skipped" yaml:"skipped"`
	DryRun      bool     `json:"dry_run" yaml:"dry_run"`
}

// Report renders a compaction report.
func (r *Renderer) Report(report *compact.Report) error {
	if r.format != FormatText {
		return r.encode(reportView{
			Destination: report.Destination,
			Shared:      report.Shared,
			Moved:       report.Moved,
			Deleted:     report.Deleted,
			Skipped:     report.Skipped,
			DryRun:      report.DryRun,
		})
	}

	verb := "compacted into"
	if report.DryRun {
		verb = "would compact into"
	}
	fmt.Fprintln(r.w, r.style(headerStyle, fmt.Sprintf("%d shared resource(s) %s %s", len(report.Shared), verb, report.Destination)))
	fmt.Fprintln(r.w, r.style(countStyle, fmt.Sprintf("moved %d, deleted %d, skipped %d", report.Moved, report.Deleted, report.Skipped)))
	return nil
}

func (r *Renderer) style(s lipgloss.Style, text string) string {
	if !r.styled {
		return text
	}
	return s.Render(text)
}

func (r *Renderer) encode(v interface{}) error {
	switch r.format {
	case FormatJSON:
		enc := json.NewEncoder(r.w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case FormatYAML:
		enc := yaml.NewEncoder(r.w)
		defer func() { _ = enc.Close() }()
		return enc.Encode(v)
	default:
		return errors.Newf(errors.ErrInternal, "encode called with format %q", r.format)
	}
}
