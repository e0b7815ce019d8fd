package report

import (
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"
	json "github.com/goccy/go-json"

	"mapcheck/internal/diagnostic"
	"mapcheck/internal/discovery"
)

// Summary counts the findings of a report.
type Summary struct {
	Sites      int `json:"sites"`
	Rules      int `json:"rules"`
	Errors     int `json:"errors"`
	Warnings   int `json:"warnings"`
	Infos      int `json:"infos"`
	Suppressed int `json:"suppressed"`
}

// Report is the rendered outcome of an analysis run.
type Report struct {
	RunID       string                 `json:"run_id"`
	Duration    time.Duration          `json:"duration_ns"`
	Summary     Summary                `json:"summary"`
	Diagnostics diagnostic.Diagnostics `json:"diagnostics"`
}

// Build converts every site of the run into diagnostics.
func Build(run *discovery.Run, opts Options) *Report {
	rep := &Report{
		RunID:    run.ID.String(),
		Duration: run.Duration,
	}

	for _, site := range run.Sites {
		diags, suppressed := FromResult(site.Call, site.Result, opts)
		rep.Diagnostics.Merge(diags)
		rep.Summary.Suppressed += suppressed
	}

	rep.Diagnostics.SortByPath()

	rep.Summary.Sites = len(run.Sites)
	rep.Summary.Rules = run.Rules
	rep.Summary.Errors = len(rep.Diagnostics.Errors)
	rep.Summary.Warnings = len(rep.Diagnostics.Warnings)
	rep.Summary.Infos = len(rep.Diagnostics.Infos)

	return rep
}

// HasErrors reports whether any error-severity diagnostic remains.
func (r *Report) HasErrors() bool {
	return r.Diagnostics.HasErrors()
}

// WriteJSON writes the report as indented JSON.
func WriteJSON(w io.Writer, rep *Report) error {
	data, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}

	if _, err := w.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	return nil
}

// WriteText writes one line per diagnostic followed by a summary line.
func WriteText(w io.Writer, rep *Report, noColor bool) error {
	if err := WriteDiagnostics(w, &rep.Diagnostics, noColor); err != nil {
		return err
	}

	gray := color.New(color.FgHiBlack)
	if noColor {
		gray.DisableColor()
	}

	s := rep.Summary
	_, err := gray.Fprintf(w, "%d mapping calls, %d rules: %d errors, %d warnings, %d infos, %d acknowledged\n",
		s.Sites, s.Rules, s.Errors, s.Warnings, s.Infos, s.Suppressed)
	if err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	return nil
}

// WriteDiagnostics writes one line per diagnostic, errors first.
func WriteDiagnostics(w io.Writer, diags *diagnostic.Diagnostics, noColor bool) error {
	colors := map[diagnostic.DiagnosticSeverity]*color.Color{
		diagnostic.DiagnosticError:   color.New(color.FgRed, color.Bold),
		diagnostic.DiagnosticWarning: color.New(color.FgYellow),
		diagnostic.DiagnosticInfo:    color.New(color.FgCyan),
	}

	if noColor {
		for _, c := range colors {
			c.DisableColor()
		}
	}

	for _, d := range diags.All() {
		if _, err := colors[d.Severity].Fprintf(w, "%-7s ", d.Severity); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}

		if _, err := fmt.Fprintln(w, d.String()); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
	}

	return nil
}
