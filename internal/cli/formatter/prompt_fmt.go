package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/nutrilog/internal/domain"
	"github.com/goccy/go-json"
)

// FormatTemplateList renders templates as a table inside a bordered box.
func FormatTemplateList(templates []*domain.PromptTemplate) string {
	headers := []string{"NAME", "VERSION", "FORMAT", "USES", "TAGS", "STATUS"}
	rows := make([][]string, 0, len(templates))
	for _, t := range templates {
		rows = append(rows, []string{
			Bold(t.Name),
			Dim(t.Version),
			string(t.ResponseFormat),
			fmt.Sprintf("%d", t.UsageCount),
			strings.Join(t.Tags, ", "),
			activeLabel(t.IsActive),
		})
	}
	return RenderBox("Prompt Templates", RenderTable(headers, rows))
}

// FormatTemplateShow renders a template detail card.
func FormatTemplateShow(t *domain.PromptTemplate) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s  %s\n", StyleBold.Render(t.Name), activeLabel(t.IsActive))
	if t.Description != "" {
		b.WriteString(Dim(t.Description) + "\n")
	}
	b.WriteString("\n")

	field := func(label, value string) {
		fmt.Fprintf(&b, "  %s  %s\n", StyleDim.Render(fmt.Sprintf("%-11s", label)), value)
	}
	field("ID", Dim(t.ID))
	field("VERSION", t.Version)
	field("FORMAT", string(t.ResponseFormat))
	field("TEMPERATURE", fmt.Sprintf("%.2f", t.DefaultTemperature))
	field("MAX TOKENS", fmt.Sprintf("%d", t.DefaultMaxTokens))
	field("USES", fmt.Sprintf("%d", t.UsageCount))
	if len(t.RequiredContextKeys) > 0 {
		field("REQUIRES", strings.Join(t.RequiredContextKeys, ", "))
	}
	if len(t.Tags) > 0 {
		field("TAGS", strings.Join(t.Tags, ", "))
	}
	if t.ParentTemplateID != "" {
		field("PARENT", Dim(t.ParentTemplateID))
	}
	if t.CreatedBy != "" {
		field("CREATED BY", t.CreatedBy)
	}
	field("UPDATED", Timestamp(t.UpdatedAt))

	b.WriteString("\n" + Header("System Prompt") + "\n")
	b.WriteString(indent(t.SystemPrompt) + "\n")
	b.WriteString("\n" + Header("User Prompt") + "\n")
	b.WriteString(indent(t.UserPromptTemplate) + "\n")

	if t.JSONSchema != nil {
		b.WriteString("\n" + Header("JSON Schema") + "\n")
		if pretty, err := json.MarshalIndent(t.JSONSchema, "  ", "  "); err == nil {
			b.WriteString("  " + string(pretty) + "\n")
		}
	}

	return RenderBox("", strings.TrimRight(b.String(), "\n"))
}

// FormatRendered renders a prompt pair as it would be sent to the model.
func FormatRendered(systemPrompt, userPrompt string) string {
	var b strings.Builder
	b.WriteString(Header("System") + "\n")
	b.WriteString(indent(systemPrompt) + "\n\n")
	b.WriteString(Header("User") + "\n")
	b.WriteString(indent(userPrompt) + "\n")
	return b.String()
}

// FormatVersions renders a template's history, newest first.
func FormatVersions(versions []*domain.PromptVersion) string {
	headers := []string{"WHEN", "VERSION", "BY", "CHANGE"}
	rows := make([][]string, 0, len(versions))
	for _, v := range versions {
		rows = append(rows, []string{
			Dim(Timestamp(v.Timestamp)),
			v.Version,
			orDash(v.ChangedBy),
			v.ChangeDescription,
		})
	}
	return RenderBox("Versions", RenderTable(headers, rows))
}

func activeLabel(active bool) string {
	if active {
		return StyleGreen.Render("active")
	}
	return StyleDim.Render("inactive")
}

func indent(s string) string {
	return "  " + strings.ReplaceAll(s, "\n", "\n  ")
}
