package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

// WriteWorkbook renders a hiring report as an .xlsx workbook with a summary
// sheet and a ranked-candidates sheet.
func WriteWorkbook(w io.Writer, rep HiringReport) error {
	f := excelize.NewFile()
	defer f.Close()

	summarySheet := "Summary"
	candidatesSheet := "Ranked Candidates"

	f.SetSheetName("Sheet1", summarySheet)
	if _, err := f.NewSheet(candidatesSheet); err != nil {
		return fmt.Errorf("failed to create candidates sheet: %w", err)
	}

	if err := writeSummarySheet(f, summarySheet, rep); err != nil {
		return fmt.Errorf("failed to write summary sheet: %w", err)
	}
	if err := writeCandidatesSheet(f, candidatesSheet, rep.RankedCandidates); err != nil {
		return fmt.Errorf("failed to write candidates sheet: %w", err)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func writeSummarySheet(f *excelize.File, sheet string, rep HiringReport) error {
	f.SetColWidth(sheet, "A", "A", 25)
	f.SetColWidth(sheet, "B", "B", 50)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 14, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "left", Vertical: "center"},
	})
	if err != nil {
		return err
	}
	labelStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}

	f.SetCellValue(sheet, "A1", "Hiring Report")
	f.SetCellStyle(sheet, "A1", "B1", headerStyle)
	f.MergeCell(sheet, "A1", "B1")

	rows := []struct {
		label string
		value interface{}
	}{
		{"Job Title:", rep.JobTitle},
		{"Generated:", rep.GeneratedAt.Format("2006-01-02 15:04:05")},
		{"Candidates Analyzed:", rep.Summary.TotalCandidates},
		{"Strong Hires:", rep.Summary.StrongHires},
		{"Borderline:", rep.Summary.Borderline},
		{"Rejects:", rep.Summary.Rejects},
		{"Average Score:", fmt.Sprintf("%.2f", rep.Summary.AverageScore)},
	}
	for i, r := range rows {
		row := i + 3
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), r.label)
		f.SetCellStyle(sheet, fmt.Sprintf("A%d", row), fmt.Sprintf("A%d", row), labelStyle)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), r.value)
	}
	return nil
}

func writeCandidatesSheet(f *excelize.File, sheet string, ranked []RankedCandidate) error {
	f.SetColWidth(sheet, "A", "A", 8)
	f.SetColWidth(sheet, "B", "B", 25)
	f.SetColWidth(sheet, "C", "J", 15)
	f.SetColWidth(sheet, "K", "K", 40)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return err
	}

	strongStyle, _ := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{"C6EFCE"}, Pattern: 1},
	})
	borderlineStyle, _ := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{"FFEB9C"}, Pattern: 1},
	})
	rejectStyle, _ := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{"FFC7CE"}, Pattern: 1},
	})

	headers := []string{
		"Rank", "Candidate", "Final Score", "Decision",
		"Skill Match", "Experience", "Domain", "Project Complexity", "Soft Skills",
		"Risk Level", "Strengths",
	}
	for col, header := range headers {
		cell := fmt.Sprintf("%c1", 'A'+col)
		f.SetCellValue(sheet, cell, header)
		f.SetCellStyle(sheet, cell, cell, headerStyle)
	}

	for i, rc := range ranked {
		row := i + 2
		a := rc.Analysis
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), rc.Rank)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), rc.CandidateName)
		f.SetCellValue(sheet, fmt.Sprintf("C%d", row), fmt.Sprintf("%.2f", a.FinalScore))
		f.SetCellValue(sheet, fmt.Sprintf("D%d", row), a.Decision)
		f.SetCellValue(sheet, fmt.Sprintf("E%d", row), fmt.Sprintf("%.2f", a.SkillMatchScore))
		f.SetCellValue(sheet, fmt.Sprintf("F%d", row), fmt.Sprintf("%.2f", a.ExperienceScore))
		f.SetCellValue(sheet, fmt.Sprintf("G%d", row), fmt.Sprintf("%.2f", a.DomainScore))
		f.SetCellValue(sheet, fmt.Sprintf("H%d", row), fmt.Sprintf("%.2f", a.ProjectComplexityScore))
		f.SetCellValue(sheet, fmt.Sprintf("I%d", row), fmt.Sprintf("%.2f", a.SoftSkillsScore))
		f.SetCellValue(sheet, fmt.Sprintf("J%d", row), a.RiskLevel)
		f.SetCellValue(sheet, fmt.Sprintf("K%d", row), strings.Join(a.Strengths, "; "))

		var style int
		switch a.Decision {
		case "strong_hire":
			style = strongStyle
		case "borderline":
			style = borderlineStyle
		default:
			style = rejectStyle
		}
		f.SetCellStyle(sheet, fmt.Sprintf("A%d", row), fmt.Sprintf("K%d", row), style)
	}

	if len(ranked) > 0 {
		f.AutoFilter(sheet, fmt.Sprintf("A1:K%d", len(ranked)+1), []excelize.AutoFilterOptions{})
	}
	f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
	return nil
}
