package tui

import (
	"fmt"
	"strings"

	"github.com/aretw0/turing/pkg/domain"
)

// TableMarkdown describes a transition table as a Markdown document: a summary
// followed by one table per state.
func TableMarkdown(name string, table *domain.Table) string {
	var sb strings.Builder
	if name == "" {
		name = "program"
	}
	fmt.Fprintf(&sb, "# %s\n\n", mdEscape(name))
	fmt.Fprintf(&sb, "- **Initial state:** `%s`\n", table.InitialState())
	fmt.Fprintf(&sb, "- **States:** %d\n", len(table.States()))
	fmt.Fprintf(&sb, "- **Transitions:** %d\n", table.Len())

	for _, s := range table.States() {
		fmt.Fprintf(&sb, "\n## %s\n\n", mdEscape(s))
		sb.WriteString("| Read | Write | Move | Next |\n")
		sb.WriteString("|------|-------|------|------|\n")
		for _, t := range table.StateTransitions(s) {
			next := mdEscape(t.NewState)
			if domain.IsHalting(t.NewState) {
				next = "**" + next + "**"
			}
			fmt.Fprintf(&sb, "| `%s` | `%s` | %s | %s |\n", t.CurrentCell, t.NewCell, t.Move(), next)
		}
	}
	return sb.String()
}

var mdReplacer = strings.NewReplacer("|", `\|`, "*", `\*`, "_", `\_`, "`", "\\`")

func mdEscape(s string) string {
	return mdReplacer.Replace(s)
}
