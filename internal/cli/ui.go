package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/archgraph/pkg/pipeline"
	"github.com/matzehuels/archgraph/pkg/scan"
)

// =============================================================================
// Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")
	colorGreen  = lipgloss.Color("35")
	colorYellow = lipgloss.Color("220")
	colorRed    = lipgloss.Color("167")
	colorBlue   = lipgloss.Color("75")
	colorWhite  = lipgloss.Color("255")
	colorGray   = lipgloss.Color("245")
	colorDim    = lipgloss.Color("240")
)

var (
	// StyleTitle for headings such as the project name in inspect.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

	// StyleHighlight for project names and other emphasized values.
	StyleHighlight = lipgloss.NewStyle().Foreground(colorCyan)

	// StyleLink for URLs printed by serve.
	StyleLink = lipgloss.NewStyle().Foreground(colorBlue).Underline(true)

	// StyleDim for secondary text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue for data values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	// StyleWarning for warnings.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)

	styleOK      = lipgloss.NewStyle().Foreground(colorGreen)
	styleFail    = lipgloss.NewStyle().Foreground(colorRed)
	styleMuted   = lipgloss.NewStyle().Foreground(colorGray)
	styleCommand = lipgloss.NewStyle().Foreground(colorBlue)
	styleKey     = lipgloss.NewStyle().Foreground(colorGray).Width(12)
)

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
	iconSkip    = "–"
)

// =============================================================================
// printer
// =============================================================================

// printer writes human-oriented command output. Commands create one over
// cmd.OutOrStdout() so tests can capture what the user would see.
type printer struct {
	w io.Writer
}

func newPrinter(w io.Writer) printer { return printer{w: w} }

func (p printer) line(s string) { fmt.Fprintln(p.w, s) }

func (p printer) success(format string, args ...any) {
	p.line(styleOK.Render(iconSuccess) + " " + fmt.Sprintf(format, args...))
}

func (p printer) failure(format string, args ...any) {
	p.line(styleFail.Render(iconError) + " " + fmt.Sprintf(format, args...))
}

func (p printer) warning(format string, args ...any) {
	p.line(StyleWarning.Render(iconWarning) + " " + StyleWarning.Render(fmt.Sprintf(format, args...)))
}

func (p printer) info(format string, args ...any) {
	p.line(styleMuted.Render(iconInfo) + " " + fmt.Sprintf(format, args...))
}

func (p printer) detail(format string, args ...any) {
	p.line("  " + StyleDim.Render(fmt.Sprintf(format, args...)))
}

// file prints a path the command wrote.
func (p printer) file(path string) {
	p.line("  " + StyleDim.Render(iconArrow) + " " + StyleValue.Render(path))
}

func (p printer) keyValue(key, value string) {
	p.line(styleKey.Render(key) + " " + StyleValue.Render(value))
}

func (p printer) nextStep(description, command string) {
	p.line(StyleDim.Render(description+":") + " " + styleCommand.Render(command))
}

// graphSummary prints "N components · M connections · K groups".
func (p printer) graphSummary(nodes, edges, groups int, suffix ...string) {
	parts := []string{
		plural(nodes, "component"),
		plural(edges, "connection"),
	}
	if groups > 0 {
		parts = append(parts, plural(groups, "group"))
	}
	parts = append(parts, suffix...)
	p.line("  " + StyleDim.Render(strings.Join(parts, " · ")))
}

// scanReport prints one line per scanner that ran or was skipped.
func (p printer) scanReport(r scan.Report) {
	for _, o := range r.Outcomes {
		switch {
		case o.Skipped:
			p.line("  " + StyleDim.Render(iconSkip+" "+o.Scanner+" (disabled)"))
		case o.Err != nil:
			p.line("  " + styleFail.Render(iconError) + " " + o.Scanner + " " + StyleWarning.Render(o.Err.Error()))
		case o.Handled:
			p.line("  " + styleOK.Render(iconSuccess) + " " + o.Scanner + " " +
				StyleDim.Render(fmt.Sprintf("%s in %s", plural(o.Nodes, "component"), roundDuration(o.Duration))))
		}
	}
}

// stageTimes prints how long each pipeline stage took and which ones were
// served from the cache.
func (p printer) stageTimes(s pipeline.Stats, c pipeline.CacheInfo) {
	stage := func(name string, d time.Duration, cached bool) string {
		if cached {
			return name + " " + styleOK.Render("cached")
		}
		return name + " " + roundDuration(d).String()
	}
	parts := []string{}
	if s.ScanTime > 0 {
		parts = append(parts, stage("scan", s.ScanTime, false))
	}
	parts = append(parts,
		stage("layout", s.LayoutTime, c.LayoutHit),
		stage("render", s.RenderTime, c.RenderHit),
	)
	p.line("  " + StyleDim.Render(strings.Join(parts, " · ")))
}

func plural(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return fmt.Sprintf("%d %ss", n, noun)
}

func roundDuration(d time.Duration) time.Duration {
	if d < time.Millisecond {
		return d.Round(time.Microsecond)
	}
	return d.Round(time.Millisecond)
}
