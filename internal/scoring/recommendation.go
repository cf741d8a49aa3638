package scoring

import (
	"fmt"
	"strings"
)

// buildRecommendation renders the hiring recommendation text for a scored
// result. Wording follows the decision bucket; narrative lists are truncated
// to keep the summary scannable.
func buildRecommendation(res Result) string {
	var sb strings.Builder

	switch res.Decision {
	case DecisionStrongHire:
		fmt.Fprintf(&sb, "**Strong Hire Recommendation** (Score: %v/100)\n\n", res.FinalScore)
		sb.WriteString("This candidate is well-qualified for the role. ")
		if len(res.Strengths) > 0 {
			fmt.Fprintf(&sb, "Key strengths: %s. ", joinFirst(res.Strengths, 3))
		}
		if len(res.Risks) > 0 {
			fmt.Fprintf(&sb, "Note: %d risk(s) identified that should be explored in interviews. ", len(res.Risks))
		}
		sb.WriteString("Proceed to technical interview round.")
		if len(res.InterviewFocusAreas) > 0 {
			fmt.Fprintf(&sb, "\n\nFocus areas: %s.", joinFirst(res.InterviewFocusAreas, 3))
		}

	case DecisionBorderline:
		fmt.Fprintf(&sb, "**Borderline Candidate** (Score: %v/100)\n\n", res.FinalScore)
		sb.WriteString("This candidate shows potential but has some gaps. ")
		if len(res.Strengths) > 0 {
			fmt.Fprintf(&sb, "Strengths: %s. ", joinFirst(res.Strengths, 2))
		}
		if len(res.Weaknesses) > 0 {
			fmt.Fprintf(&sb, "Areas of concern: %s. ", joinFirst(res.Weaknesses, 2))
		}
		if len(res.Risks) > 0 {
			fmt.Fprintf(&sb, "Risks: %s. ", joinFirst(res.Risks, 2))
		}
		sb.WriteString("Consider for interview if other candidates are not stronger.")
		if len(res.InterviewFocusAreas) > 0 {
			fmt.Fprintf(&sb, "\n\nMust verify: %s.", joinFirst(res.InterviewFocusAreas, 3))
		}

	default:
		fmt.Fprintf(&sb, "**Not Recommended** (Score: %v/100)\n\n", res.FinalScore)
		sb.WriteString("This candidate does not meet the requirements for the role. ")
		if len(res.Weaknesses) > 0 {
			fmt.Fprintf(&sb, "Primary concerns: %s. ", joinFirst(res.Weaknesses, 3))
		}
		if len(res.Risks) > 0 {
			fmt.Fprintf(&sb, "Significant risks: %s. ", joinFirst(res.Risks, 3))
		}
		sb.WriteString("Do not proceed to interview.")
	}

	return sb.String()
}

func joinFirst(items []string, n int) string {
	if len(items) > n {
		items = items[:n]
	}
	return strings.Join(items, ", ")
}
