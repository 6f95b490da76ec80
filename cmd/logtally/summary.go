package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// printRunSummary writes a short styled report of the run to w.
func printRunSummary(w io.Writer, cfg appConfig, p *pipeline, res *runResult) {
	fmt.Fprintln(w, formatRunSummary(cfg, p, res))
}

func formatRunSummary(cfg appConfig, p *pipeline, res *runResult) string {
	dim := lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	green := lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	cyan := lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	yellow := lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	bold := lipgloss.NewStyle().Bold(true)

	check := green.Render("●")
	warn := yellow.Render("●")

	var lines []string
	separator := dim.Render("    ─────────────────────────────────")
	lines = append(lines, "")
	lines = append(lines, bold.Render("    logtally ")+dim.Render("v"+version))
	lines = append(lines, separator)

	// Input
	lines = append(lines, bold.Render("    Input"))
	lines = append(lines, fmt.Sprintf("    %s  Sources        %s", check, cyan.Render(describeSources(cfg.Files))))
	lines = append(lines, fmt.Sprintf("    %s  Log format     %s %s", check, cyan.Render(p.parser.Format()), dim.Render(p.parser.Layout())))
	lines = append(lines, fmt.Sprintf("    %s  Lines          %s", check, dim.Render(fmt.Sprintf("%d", res.Stats.Lines))))
	lines = append(lines, fmt.Sprintf("    %s  Parsed         %s", check, dim.Render(fmt.Sprintf("%d", res.Stats.Parsed))))
	skipped := check
	if res.Stats.Skipped > 0 {
		skipped = warn
	}
	lines = append(lines, fmt.Sprintf("    %s  Skipped        %s", skipped, dim.Render(fmt.Sprintf("%d", res.Stats.Skipped))))
	lines = append(lines, "")

	// Aggregates
	lines = append(lines, bold.Render("    Aggregates"))
	window := "unbounded"
	if !p.period.IsUnbounded() {
		window = p.period.String()
	}
	lines = append(lines, fmt.Sprintf("    %s  Time range     %s", check, dim.Render(window)))
	lines = append(lines, fmt.Sprintf("    %s  Counted        %s", check, dim.Render(fmt.Sprintf("%d", res.Counters.Hourly.Total()))))
	lines = append(lines, fmt.Sprintf("    %s  Buckets        %s", check, dim.Render(fmt.Sprintf("%d x %s", len(res.Counters.Hourly.Buckets()), res.Counters.Hourly.Width()))))
	lines = append(lines, fmt.Sprintf("    %s  Hosts          %s", check, dim.Render(fmt.Sprintf("%d", res.Counters.Hosts.Len()))))
	lines = append(lines, "")

	// Config
	lines = append(lines, bold.Render("    Config"))
	if cfg.ConfigPath != "" {
		lines = append(lines, fmt.Sprintf("    %s  Config File    %s", check, dim.Render(shortenPath(cfg.ConfigPath))))
	} else {
		lines = append(lines, fmt.Sprintf("    %s  Config File    %s", check, dim.Render("default (no file)")))
	}
	lines = append(lines, fmt.Sprintf("    %s  Elapsed        %s", check, dim.Render(res.Elapsed.Round(time.Millisecond).String())))
	lines = append(lines, separator)

	return strings.Join(lines, "\n")
}

func describeSources(files []string) string {
	if len(files) == 0 {
		return "stdin"
	}
	if len(files) == 1 {
		return shortenPath(files[0])
	}
	return fmt.Sprintf("%d files", len(files))
}

func shortenPath(path string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	if strings.HasPrefix(path, home) {
		return "~" + path[len(home):]
	}
	return path
}
