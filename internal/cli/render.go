package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	"github.com/dshills/lintbridge/internal/diag"
)

var (
	fgColor    = lipgloss.Color("#E8E6E3") // warm light gray
	dimColor   = lipgloss.Color("#6B7280") // muted gray
	faintColor = lipgloss.Color("#3F3F46") // very dim
	okColor    = lipgloss.Color("#22C55E") // green
	errColor   = lipgloss.Color("#EF4444") // red
	warnColor  = lipgloss.Color("#F59E0B") // amber-yellow
	infoColor  = lipgloss.Color("#8B949E") // soft blue-gray
	hintColor  = lipgloss.Color("#4B5563") // dark gray
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(fgColor)
	dimStyle      = lipgloss.NewStyle().Foreground(dimColor)
	faintStyle    = lipgloss.NewStyle().Foreground(faintColor)
	okStyle       = lipgloss.NewStyle().Foreground(okColor)
	errorTagStyle = lipgloss.NewStyle().Foreground(errColor).Bold(true)
	warnTagStyle  = lipgloss.NewStyle().Foreground(warnColor).Bold(true)
	infoTagStyle  = lipgloss.NewStyle().Foreground(infoColor)
	hintTagStyle  = lipgloss.NewStyle().Foreground(hintColor)
)

// renderer prints findings and status lines. Styling is dropped when
// the destination is not a terminal.
type renderer struct {
	color bool
}

func newRenderer(w io.Writer) *renderer {
	f, ok := w.(*os.File)
	color := ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()))
	return &renderer{color: color}
}

func (r *renderer) styled(style lipgloss.Style, s string) string {
	if !r.color {
		return s
	}
	return style.Render(s)
}

// severityTag returns the aligned, severity-colored label for a record.
func (r *renderer) severityTag(sev diag.Severity) string {
	switch sev {
	case diag.SeverityError:
		return r.styled(errorTagStyle, "error")
	case diag.SeverityWarning:
		return r.styled(warnTagStyle, "warn ")
	case diag.SeverityInformation:
		return r.styled(infoTagStyle, "info ")
	case diag.SeverityHint:
		return r.styled(hintTagStyle, "hint ")
	default:
		return "     "
	}
}

// target renders one target's findings block: the path, then one line
// per record.
func (r *renderer) target(target string, records []diag.Record) string {
	var b strings.Builder
	b.WriteString(r.styled(titleStyle, displayPath(target)))
	b.WriteString("\n")
	for _, rec := range records {
		b.WriteString(r.record(rec))
	}
	return b.String()
}

// record renders one finding: location, severity tag, message, source.
// Stored positions are zero-based; locations print one-based the way
// editors number them.
func (r *renderer) record(rec diag.Record) string {
	loc := fmt.Sprintf("%d:%d", rec.Lnum+1, rec.Col+1)
	line := fmt.Sprintf("  %s  %s  %s",
		r.styled(dimStyle, padRight(loc, 7)),
		r.severityTag(rec.Severity),
		rec.Message,
	)
	if rec.Source != "" {
		line += "  " + r.styled(faintStyle, "("+rec.Source+")")
	}
	return line + "\n"
}

// summary renders the closing severity tally.
func (r *renderer) summary(errors, warnings, infos, hints int) string {
	if errors+warnings+infos+hints == 0 {
		return r.styled(okStyle, "No findings.") + "\n"
	}

	parts := make([]string, 0, 4)
	if errors > 0 {
		parts = append(parts, r.styled(errorTagStyle, fmt.Sprintf("%d errors", errors)))
	}
	if warnings > 0 {
		parts = append(parts, r.styled(warnTagStyle, fmt.Sprintf("%d warnings", warnings)))
	}
	if infos > 0 {
		parts = append(parts, r.styled(infoTagStyle, fmt.Sprintf("%d info", infos)))
	}
	if hints > 0 {
		parts = append(parts, r.styled(hintTagStyle, fmt.Sprintf("%d hints", hints)))
	}
	return strings.Join(parts, "  ") + "\n"
}

// update renders a streamed re-render for watch mode. An empty record
// list means the target came back clean.
func (r *renderer) update(target string, records []diag.Record) string {
	if len(records) == 0 {
		return r.styled(okStyle, "●") + " " + displayPath(target) + "  " + r.styled(dimStyle, "clean") + "\n"
	}
	return r.target(target, records)
}

// adapterLine renders one adapter's candidates and resolution status.
func (r *renderer) adapterLine(name string, candidates []string, path string, resolveErr error, enabled bool) string {
	state := r.styled(okStyle, "enabled ")
	if !enabled {
		state = r.styled(dimStyle, "disabled")
	}

	resolution := r.styled(dimStyle, path)
	if resolveErr != nil {
		resolution = r.styled(warnTagStyle, "not found")
	}

	return fmt.Sprintf("  %s  %s  %s %s %s\n",
		r.styled(titleStyle, padRight(name, 16)),
		state,
		r.styled(dimStyle, strings.Join(candidates, ", ")),
		r.styled(faintStyle, "→"),
		resolution,
	)
}

// heading renders a section heading.
func (r *renderer) heading(s string) string {
	return r.styled(titleStyle, s)
}

func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

// displayPath shortens an absolute target to a working-directory
// relative path when the target sits under it.
func displayPath(target string) string {
	wd, err := os.Getwd()
	if err != nil {
		return target
	}
	rel, err := filepath.Rel(wd, target)
	if err != nil || strings.HasPrefix(rel, "..") {
		return target
	}
	return rel
}
