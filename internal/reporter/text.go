package reporter

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/flir-lint/flir/internal/linter"
	"github.com/flir-lint/flir/internal/rules"
	"github.com/flir-lint/flir/internal/sourcemap"
)

type textStyles struct {
	severity map[rules.Severity]lipgloss.Style
	rule     lipgloss.Style
	muted    lipgloss.Style
	marker   lipgloss.Style
	success  lipgloss.Style
}

func newTextStyles(w io.Writer, color bool) textStyles {
	profile := termenv.Ascii
	if color {
		profile = termenv.ANSI256
	}
	// The renderer would otherwise detect the profile from w, which is
	// Ascii for pipes even with --color always.
	r := lipgloss.NewRenderer(w)
	r.SetColorProfile(profile)
	return textStyles{
		severity: map[rules.Severity]lipgloss.Style{
			rules.SeverityError:   r.NewStyle().Bold(true).Foreground(lipgloss.Color("#E74C3C")),
			rules.SeverityWarning: r.NewStyle().Bold(true).Foreground(lipgloss.Color("#F4D03F")),
			rules.SeverityInfo:    r.NewStyle().Bold(true).Foreground(lipgloss.Color("#20B9B4")),
			rules.SeverityStyle:   r.NewStyle().Bold(true).Foreground(lipgloss.Color("#2C4A54")),
		},
		rule:    r.NewStyle().Bold(true),
		muted:   r.NewStyle().Foreground(lipgloss.Color("#7F8C8D")),
		marker:  r.NewStyle().Foreground(lipgloss.Color("#E74C3C")),
		success: r.NewStyle().Foreground(lipgloss.Color("#2CD7C7")),
	}
}

// PrintText writes each violation with a source snippet, followed by a
// summary line.
//
// Example output:
//
//	WARNING: any_is_na - https://flir-lint.github.io/flir/rules/any_is_na
//	`any(is.na(...))` is inefficient. Use `anyNA(...)` instead.
//
//	R/utils.R:2:1
//	--------------------
//	   1 |     x <- c(1, NA)
//	   2 | >>> any(is.na(x))
//	--------------------
func PrintText(w io.Writer, results []*linter.FileResult, opts Options) error {
	st := newTextStyles(w, opts.Color)
	files := 0
	for _, res := range results {
		if len(res.Violations) == 0 {
			continue
		}
		files++
		sm := sourcemap.New(res.Source)
		for _, v := range res.Violations {
			if err := printViolation(w, st, v, sm); err != nil {
				return err
			}
		}
	}

	issues := CountIssues(results)
	var err error
	if issues == 0 {
		_, err = fmt.Fprintln(w, st.success.Render("All checks passed!"))
	} else {
		_, err = fmt.Fprintf(w, "\nFound %d %s in %d %s.\n",
			issues, plural(issues, "issue"), files, plural(files, "file"))
	}
	return err
}

func printViolation(w io.Writer, st textStyles, v rules.Violation, sm *sourcemap.SourceMap) error {
	sevStyle, ok := st.severity[v.Severity]
	if !ok {
		sevStyle = st.rule
	}
	header := sevStyle.Render(strings.ToUpper(v.Severity.String())+":") + " " + st.rule.Render(v.RuleCode)
	if v.DocURL != "" {
		header += " - " + st.muted.Render(v.DocURL)
	}
	if _, err := fmt.Fprintf(w, "\n%s\n%s\n\n", header, v.Message); err != nil {
		return err
	}
	printSource(w, st, v.Location(sm), sm)
	return nil
}

// printSource renders the affected lines with two to four lines of
// context, marking affected lines with ">>>".
func printSource(w io.Writer, st textStyles, loc rules.Location, sm *sourcemap.SourceMap) {
	start, end := loc.Start.Line, loc.End.Line
	// A range ending at column 1 does not touch its last line.
	if end > start && loc.End.Column == 1 {
		end--
	}
	if start < 1 || start > sm.LineCount() {
		return
	}

	pad := 2
	if end == start {
		pad = 4
	}
	first, last := start, end
	for p := 0; p < pad; {
		if first > 1 {
			first--
			p++
		}
		if last < sm.LineCount() {
			last++
			p++
		}
		p++
	}

	fmt.Fprintf(w, "%s:%d:%d\n", loc.File, loc.Start.Line, loc.Start.Column)
	fmt.Fprintln(w, st.muted.Render("--------------------"))
	for i := first; i <= last; i++ {
		pfx := "   "
		if i >= start && i <= end {
			pfx = st.marker.Render(">>>")
		}
		fmt.Fprintf(w, " %3d | %s %s\n", i, pfx, sm.Line(i-1))
	}
	fmt.Fprintln(w, st.muted.Render("--------------------"))
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}
