package drift

import (
	"fmt"
	"sort"
	"strings"
)

// FormatResult formats a drift check result for CLI output.
func FormatResult(result *Result) string {
	if result == nil {
		return "No drift check result available."
	}

	if !result.HasDrift {
		return formatNoDrift(result)
	}

	return formatDrift(result)
}

func formatNoDrift(result *Result) string {
	var b strings.Builder

	b.WriteString("Snapshot check passed\n\n")
	b.WriteString(fmt.Sprintf("  Tables:       %d\n", len(result.ExpectedSchema.Tables)))
	b.WriteString(fmt.Sprintf("  Schema hash:  %s\n", truncateHash(result.ExpectedHash)))
	b.WriteString("\n  Snapshot matches migration state.\n")

	return b.String()
}

func formatDrift(result *Result) string {
	var b strings.Builder

	b.WriteString("Snapshot drift detected\n\n")
	b.WriteString(fmt.Sprintf("  Expected hash: %s\n", truncateHash(result.ExpectedHash)))
	b.WriteString(fmt.Sprintf("  Actual hash:   %s\n", truncateHash(result.ActualHash)))
	b.WriteString("\n")

	comp := result.Comparison

	if len(comp.MissingTables) > 0 {
		b.WriteString("  Tables missing from snapshot:\n")
		for _, name := range comp.MissingTables {
			b.WriteString(fmt.Sprintf("    - %s\n", name))
		}
		b.WriteString("\n")
	}

	if len(comp.ExtraTables) > 0 {
		b.WriteString("  Tables only in snapshot:\n")
		for _, name := range comp.ExtraTables {
			b.WriteString(fmt.Sprintf("    + %s\n", name))
		}
		b.WriteString("\n")
	}

	if len(comp.TableDiffs) > 0 {
		b.WriteString("  Modified tables:\n")
		names := make([]string, 0, len(comp.TableDiffs))
		for name := range comp.TableDiffs {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			b.WriteString(fmt.Sprintf("\n    %s:\n", name))
			formatTableDiff(&b, comp.TableDiffs[name], "      ")
		}
	}

	b.WriteString("\nFix:\n")
	b.WriteString("  Regenerate the snapshot from migration state:\n")
	b.WriteString("    chekov snapshot\n")

	return b.String()
}

func formatTableDiff(b *strings.Builder, diff *TableDiff, indent string) {
	if len(diff.MissingChecks) > 0 {
		fmt.Fprintf(b, "%sConstraints missing from snapshot:\n", indent)
		for _, name := range diff.MissingChecks {
			fmt.Fprintf(b, "%s  - %s\n", indent, name)
		}
	}
	if len(diff.ExtraChecks) > 0 {
		fmt.Fprintf(b, "%sConstraints only in snapshot:\n", indent)
		for _, name := range diff.ExtraChecks {
			fmt.Fprintf(b, "%s  + %s\n", indent, name)
		}
	}
	if len(diff.ModifiedChecks) > 0 {
		fmt.Fprintf(b, "%sConstraints with different predicates:\n", indent)
		for _, name := range diff.ModifiedChecks {
			fmt.Fprintf(b, "%s  ~ %s\n", indent, name)
		}
	}
}

// FormatQuickStatus formats a single status line for drift checks.
func FormatQuickStatus(hasDrift bool, expectedHash, actualHash string) string {
	if !hasDrift {
		return fmt.Sprintf("OK  %s", truncateHash(expectedHash))
	}
	return fmt.Sprintf("DRIFT  expected: %s  actual: %s",
		truncateHash(expectedHash), truncateHash(actualHash))
}

// truncateHash returns the first 12 characters of a hash for display.
func truncateHash(hash string) string {
	if len(hash) <= 12 {
		return hash
	}
	return hash[:12]
}
