package formatter

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

const (
	filledBlock = "█"
	emptyBlock  = "░"
)

// RenderBox wraps content in a rounded-border box with an optional title.
func RenderBox(title string, content string) string {
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorDim).
		PaddingLeft(2).
		PaddingRight(2).
		PaddingTop(1).
		PaddingBottom(1)

	if title != "" {
		return boxStyle.Render(StyleHeader.Render(strings.ToUpper(title)) + "\n\n" + content)
	}
	return boxStyle.Render(content)
}

// ScoreBar renders a 0..1 score as a bar like [████░░░░] 0.45.
// Green at 0.8 and above, yellow from 0.5, red below.
func ScoreBar(score float64, width int) string {
	score = min(max(score, 0), 1)
	width = max(width, 2)

	filled := min(int(score*float64(width)), width)
	bar := strings.Repeat(filledBlock, filled) + strings.Repeat(emptyBlock, width-filled)

	style := StyleGreen
	switch {
	case score < 0.5:
		style = StyleRed
	case score < 0.8:
		style = StyleYellow
	}
	return fmt.Sprintf("[%s] %.2f", style.Render(bar), score)
}

// Timestamp formats t in UTC to the minute.
func Timestamp(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.UTC().Format("2006-01-02 15:04")
}

// Bullets renders each line as an indented bullet.
func Bullets(lines []string) string {
	var b strings.Builder
	for _, l := range lines {
		fmt.Fprintf(&b, "  %s %s\n", StyleDim.Render("•"), l)
	}
	return b.String()
}

// sortedPairs renders a map as "key: value" lines ordered by key.
func sortedPairs(m map[string]any) []string {
	out := make([]string, 0, len(m))
	for k, v := range m {
		out = append(out, fmt.Sprintf("%s: %v", k, v))
	}
	sort.Strings(out)
	return out
}
