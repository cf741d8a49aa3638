// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/hiring-agent/internal/db"
	"github.com/jonathan/hiring-agent/internal/report"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintAnalysisRun outputs a human-readable summary of one analysis run.
func (p *Printer) PrintAnalysisRun(run *db.AnalysisRun) {
	if run == nil {
		return
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Candidate: %d   Job: %d\n", run.CandidateID, run.JobDescriptionID))
	sb.WriteString(fmt.Sprintf("Final Score: %.2f/100   Decision: %s\n", run.FinalScore, run.Decision))
	sb.WriteString(fmt.Sprintf("Risk: %s   Seniority: %s\n", run.RiskLevel, run.Seniority))
	if run.Partial {
		sb.WriteString("Partial result (missing or malformed analysis fields)\n")
	}
	sb.WriteString("\n")

	sb.WriteString("Sub-scores:\n")
	sb.WriteString(fmt.Sprintf("  skill_match         %6.2f\n", run.SkillMatchScore))
	sb.WriteString(fmt.Sprintf("  experience          %6.2f\n", run.ExperienceScore))
	sb.WriteString(fmt.Sprintf("  domain_knowledge    %6.2f\n", run.DomainScore))
	sb.WriteString(fmt.Sprintf("  project_complexity  %6.2f\n", run.ProjectComplexityScore))
	sb.WriteString(fmt.Sprintf("  soft_skills         %6.2f\n", run.SoftSkillsScore))

	if len(run.Strengths) > 0 {
		sb.WriteString("\nStrengths:\n")
		sb.WriteString(bulletList(run.Strengths, maxItemsToShow))
	}
	if len(run.Risks) > 0 {
		sb.WriteString("\nRisks:\n")
		sb.WriteString(bulletList(run.Risks, 3))
	}

	p.printBox("ANALYSIS RESULT", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintHiringReport outputs the summary and top ranked candidates for a job.
func (p *Printer) PrintHiringReport(rep *report.HiringReport) {
	if rep == nil {
		return
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Job: %s (id %d)\n", rep.JobTitle, rep.JobDescriptionID))
	sb.WriteString(fmt.Sprintf("Candidates: %d   Average score: %.2f\n",
		rep.Summary.TotalCandidates, rep.Summary.AverageScore))
	sb.WriteString(fmt.Sprintf("Strong hires: %d   Borderline: %d   Rejects: %d\n",
		rep.Summary.StrongHires, rep.Summary.Borderline, rep.Summary.Rejects))

	if len(rep.RankedCandidates) > 0 {
		sb.WriteString("\nTop candidates:\n")
		count := min(len(rep.RankedCandidates), maxItemsToShow)
		for i := 0; i < count; i++ {
			rc := rep.RankedCandidates[i]
			sb.WriteString(fmt.Sprintf("#%d  %s\n", rc.Rank, rc.CandidateName))
			sb.WriteString(fmt.Sprintf("    Score: %.2f  (%s)\n", rc.Analysis.FinalScore, rc.Analysis.Decision))
		}
		if len(rep.RankedCandidates) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("\n... and %d more candidates", len(rep.RankedCandidates)-maxItemsToShow))
		}
	}

	p.printBox("HIRING REPORT", strings.TrimSuffix(sb.String(), "\n"))
}

// bulletList renders up to limit items as indented bullets, truncating long
// lines and noting how many were omitted.
func bulletList(items []string, limit int) string {
	var sb strings.Builder
	count := min(len(items), limit)
	for i := 0; i < count; i++ {
		text := items[i]
		if len(text) > 50 {
			text = text[:47] + "..."
		}
		sb.WriteString(fmt.Sprintf("  • %s\n", text))
	}
	if len(items) > limit {
		sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(items)-limit))
	}
	return sb.String()
}
