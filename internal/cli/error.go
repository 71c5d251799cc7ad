package cli

import (
	"io"
	"strings"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/lipgloss"
)

// ErrorHandler renders command failures through fang's styles. Flag misuse
// additionally gets a pointer at --help.
func ErrorHandler(w io.Writer, styles fang.Styles, err error) {
	var b strings.Builder

	b.WriteString(styles.ErrorHeader.String())
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().MarginLeft(2).Render(err.Error()))
	b.WriteString("\n\n")

	if isUsageError(err) {
		b.WriteString(lipgloss.JoinHorizontal(
			lipgloss.Left,
			styles.ErrorText.UnsetWidth().Render("Run"),
			styles.Program.Flag.Render("--help"),
			styles.ErrorText.UnsetWidth().UnsetMargins().UnsetTransform().PaddingLeft(1).Render("for usage."),
		))
		b.WriteString("\n\n")
	}

	_, _ = io.WriteString(w, b.String())
}

// isUsageError reports whether err is cobra complaining about flag misuse.
// Cobra returns these as plain errors without a sentinel, so the message
// prefix is all there is to go on. The command takes arbitrary URL args and
// has no subcommands, so flag errors are the only usage errors it produces.
func isUsageError(err error) bool {
	s := err.Error()
	for _, prefix := range []string{
		"unknown flag:",
		"unknown shorthand flag:",
		"flag needs an argument:",
		"invalid argument",
	} {
		if strings.HasPrefix(s, prefix) {
			return true
		}
	}

	return false
}
