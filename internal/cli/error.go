package cli

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/chekov-db/chekov/internal/ckerr"
)

// FormatError formats an error for CLI display in Cargo/rustc style.
// If the error is a *ckerr.Error, it renders the code, structured context,
// and help suggestions. Otherwise, it formats as a generic error.
func FormatError(err error) string {
	if err == nil {
		return ""
	}

	var ce *ckerr.Error
	if errors.As(err, &ce) {
		return formatCodedError(ce)
	}

	return formatGenericError(err)
}

// formatCodedError formats a *ckerr.Error in Cargo style:
//
//	error[E2001]: constraint name already exists
//	   | constraint: price_check
//	   | table: prices
//	help: pick a different name
func formatCodedError(err *ckerr.Error) string {
	var b strings.Builder

	b.WriteString(Error("error"))
	b.WriteString("[")
	b.WriteString(Code(string(err.GetCode())))
	b.WriteString("]: ")
	b.WriteString(err.GetMessage())
	b.WriteString("\n")

	ctx := err.GetContext()

	// File location if available
	if file, ok := ctx["file"].(string); ok && file != "" {
		b.WriteString("  ")
		arrow := "-->"
		if EnableColors() {
			arrow = stylePipe.Render(arrow)
		}
		b.WriteString(arrow)
		b.WriteString(" ")
		loc := file
		if line, ok := ctx["line"].(int); ok && line > 0 {
			loc = fmt.Sprintf("%s:%d", file, line)
		}
		b.WriteString(FilePath(loc))
		b.WriteString("\n")
	}

	// Remaining context, sorted for stable output
	excludeKeys := map[string]bool{
		"file": true, "line": true, "helps": true,
	}
	var keys []string
	for k := range ctx {
		if !excludeKeys[k] {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	if len(keys) > 0 {
		b.WriteString("   ")
		b.WriteString(Pipe())
		b.WriteString("\n")
		for _, k := range keys {
			b.WriteString("   ")
			b.WriteString(Pipe())
			b.WriteString(" ")
			b.WriteString(fmt.Sprintf("%s: %v", k, ctx[k]))
			b.WriteString("\n")
		}
	}

	for _, help := range err.Helps() {
		b.WriteString(Help("help"))
		b.WriteString(": ")
		b.WriteString(help)
		b.WriteString("\n")
	}

	if cause := err.Unwrap(); cause != nil {
		b.WriteString(Note("cause"))
		b.WriteString(": ")
		b.WriteString(cause.Error())
		b.WriteString("\n")
	}

	return b.String()
}

// formatGenericError formats a non-ckerr error.
func formatGenericError(err error) string {
	var b strings.Builder
	b.WriteString(Error("error"))
	b.WriteString(": ")
	b.WriteString(err.Error())
	b.WriteString("\n")
	return b.String()
}

// FormatWarning formats a warning message.
func FormatWarning(msg string) string {
	var b strings.Builder
	b.WriteString(Warning("warning"))
	b.WriteString(": ")
	b.WriteString(msg)
	b.WriteString("\n")
	return b.String()
}

// FormatNote formats a note message.
func FormatNote(msg string) string {
	var b strings.Builder
	b.WriteString(Note("note"))
	b.WriteString(": ")
	b.WriteString(msg)
	b.WriteString("\n")
	return b.String()
}

// FormatHelp formats a help message.
func FormatHelp(msg string) string {
	var b strings.Builder
	b.WriteString(Help("help"))
	b.WriteString(": ")
	b.WriteString(msg)
	b.WriteString("\n")
	return b.String()
}

// FormatSuccess formats a success message.
func FormatSuccess(msg string) string {
	var b strings.Builder
	b.WriteString(Success("success"))
	b.WriteString(": ")
	b.WriteString(msg)
	b.WriteString("\n")
	return b.String()
}
