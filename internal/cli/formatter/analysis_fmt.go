package formatter

import (
	"fmt"
	"sort"
	"strings"

	"github.com/alexanderramin/nutrilog/internal/domain"
)

const scoreBarWidth = 20

// FormatAnalysis renders an explainable response as a styled report.
func FormatAnalysis(resp domain.ExplainableResponse) string {
	var b strings.Builder

	b.WriteString(Bold(resp.Response) + "\n\n")

	if len(resp.Items) > 0 {
		b.WriteString(FormatItems(resp.Items))
		b.WriteString("\n")
	}

	b.WriteString(Header("Confidence") + "\n")
	fmt.Fprintf(&b, "  %s  %s\n", ScoreBar(resp.ConfidenceScore, scoreBarWidth), ConfidenceIndicator(resp.ConfidenceLevel))
	b.WriteString(formatFactors(resp.ConfidenceFactors))

	if resp.NeedsClarification && resp.ClarificationQuestion != "" {
		b.WriteString("\n" + StyleYellow.Render("? "+resp.ClarificationQuestion) + "\n")
	}

	b.WriteString("\n" + FormatExplanation(resp.Explanation))

	if len(resp.Alternatives) > 0 {
		b.WriteString("\n" + FormatAlternatives(resp.Alternatives))
	}

	if resp.ModelUsed != "" {
		b.WriteString("\n" + Dim(fmt.Sprintf("model %s · %dms", resp.ModelUsed, resp.ProcessingTimeMs)) + "\n")
	}

	return RenderBox("Analysis", strings.TrimRight(b.String(), "\n"))
}

// FormatItems renders parsed items as a table.
func FormatItems(items []domain.ItemRecord) string {
	headers := []string{"CATEGORY", "ITEM", "QUANTITY", "KCAL", "MEAL"}
	rows := make([][]string, 0, len(items))
	for _, it := range items {
		d := it.Data
		rows = append(rows, []string{
			CategoryBadge(it.Category),
			d.ItemOr("-"),
			orDash(d.Quantity),
			number(d.Calories),
			orDash(string(d.MealType)),
		})
	}
	return RenderTable(headers, rows)
}

func formatFactors(f domain.ConfidenceFactors) string {
	history := Dim("no history")
	if f.HistoricalAccuracy != nil {
		history = fmt.Sprintf("%.2f", *f.HistoricalAccuracy)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "  %s %.2f\n", StyleDim.Render("input clarity      "), f.InputClarity)
	fmt.Fprintf(&b, "  %s %.2f\n", StyleDim.Render("data completeness  "), f.DataCompleteness)
	fmt.Fprintf(&b, "  %s %.2f\n", StyleDim.Render("model certainty    "), f.ModelCertainty)
	fmt.Fprintf(&b, "  %s %s\n", StyleDim.Render("historical accuracy"), history)
	return b.String()
}

// FormatExplanation renders the reasoning, classification rationale,
// assumptions and data sources of a response.
func FormatExplanation(e domain.ResponseExplanation) string {
	var b strings.Builder
	b.WriteString(Header("Why") + "\n")
	for _, line := range strings.Split(e.Reasoning, "\n") {
		if line != "" {
			b.WriteString("  " + line + "\n")
		}
	}
	if e.WhyThisClassification != "" {
		b.WriteString("  " + StyleBlue.Render(e.WhyThisClassification) + "\n")
	}

	if len(e.Assumptions) > 0 {
		b.WriteString("\n" + Header("Assumptions") + "\n")
		b.WriteString(Bullets(e.Assumptions))
	}
	if len(e.DataSources) > 0 {
		b.WriteString("\n" + Header("Sources") + "\n")
		b.WriteString(Bullets(e.DataSources))
	}
	if len(e.ConfidenceBreakdown) > 0 {
		keys := make([]string, 0, len(e.ConfidenceBreakdown))
		for k := range e.ConfidenceBreakdown {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, len(keys))
		for i, k := range keys {
			parts[i] = fmt.Sprintf("%s %.2f", k, e.ConfidenceBreakdown[k])
		}
		b.WriteString("\n" + Dim(strings.Join(parts, " · ")) + "\n")
	}
	return b.String()
}

// FormatAlternatives renders alternatives numbered from 1.
func FormatAlternatives(alts []domain.AlternativeInterpretation) string {
	var b strings.Builder
	b.WriteString(Header("Did you mean") + "\n")
	for i, a := range alts {
		fmt.Fprintf(&b, "  %s %s %s\n", StyleHeader.Render(fmt.Sprintf("%d.", i+1)), Bold(a.Interpretation),
			Dim(fmt.Sprintf("(%.2f)", a.Confidence)))
		fmt.Fprintf(&b, "     %s", Dim(a.Explanation))
		if a.Data.HasCalories() {
			fmt.Fprintf(&b, " %s", Dim("· "+number(a.Data.Calories)+" kcal"))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func number(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%.0f", *v)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
