package main

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/entrhq/pagerun/pkg/workflow/builtin"
)

var (
	listTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("86"))

	listNameStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255")).
			PaddingLeft(2)

	listDescStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))
)

// workflowDescriptions are shown next to the builtin workflow names.
var workflowDescriptions = map[string]string{
	builtin.NameVisit: "load a fixed list of URLs in order",
	builtin.NameCrawl: "follow links breadth-first from a start URL",
	builtin.NameSteps: "replay a scripted list of page actions",
}

// renderList formats the registered workflow names for -list.
func renderList(names []string) string {
	var b strings.Builder
	b.WriteString(listTitleStyle.Render("Workflows"))
	b.WriteString("\n")
	for _, name := range names {
		b.WriteString(listNameStyle.Render(name))
		if desc, ok := workflowDescriptions[name]; ok {
			b.WriteString("  ")
			b.WriteString(listDescStyle.Render(desc))
		}
		b.WriteString("\n")
	}
	return b.String()
}
