package errors

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

var (
	kindColor = color.New(color.FgRed, color.Bold)
	locColor  = color.New(color.FgCyan)
	tokColor  = color.New(color.FgYellow)
)

// FormatForTerminal renders one error with ANSI colors.
func (e ConvertError) FormatForTerminal() string {
	var sb strings.Builder

	sb.WriteString(kindColor.Sprint(e.Kind.String()))
	sb.WriteString(": ")
	sb.WriteString(e.Message)
	sb.WriteString("\n")

	if e.Activity != "" || e.Field != "" {
		sb.WriteString("  ")
		sb.WriteString(locColor.Sprint("-->"))
		sb.WriteString(" ")
		sb.WriteString(e.Activity)
		if e.Field != "" {
			sb.WriteString("/")
			sb.WriteString(e.Field)
		}
		sb.WriteString("\n")
	}

	if e.Token != "" {
		sb.WriteString(fmt.Sprintf("  input: %s\n", tokColor.Sprint(e.Token)))
	}

	return sb.String()
}

// FormatAllForTerminal renders a collected error list with a summary line.
func FormatAllForTerminal(errs []ConvertError) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("conversion reported %d error(s):\n\n", len(errs)))
	for i, e := range errs {
		sb.WriteString(fmt.Sprintf("%d. %s", i+1, e.FormatForTerminal()))
		if i < len(errs)-1 {
			sb.WriteString("\n")
		}
	}
	return sb.String()
}
