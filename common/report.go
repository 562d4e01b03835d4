package common

import (
	"fmt"
	"strings"
)

// InspectionResult represents the outcome of inspecting one file
type InspectionResult struct {
	Decoded bool
	Message string
	Fields  int // Number of fields decoded
}

// NewFailed creates a result for files that could not be decoded
func NewFailed(reason string) *InspectionResult {
	return &InspectionResult{
		Decoded: false,
		Message: reason,
		Fields:  0,
	}
}

// NewDecoded creates a result for successfully decoded files
func NewDecoded(message string, fields int) *InspectionResult {
	return &InspectionResult{
		Decoded: true,
		Message: message,
		Fields:  fields,
	}
}

// String returns a human-readable representation
func (r *InspectionResult) String() string {
	if r.Decoded {
		if r.Fields > 0 {
			return fmt.Sprintf("DECODED (%s, %d fields)", r.Message, r.Fields)
		}
		return fmt.Sprintf("DECODED (%s)", r.Message)
	}
	return fmt.Sprintf("FAILED (%s)", r.Message)
}

// FieldRow is one line of a rendered header field table.
type FieldRow struct {
	Offset int
	Kind   string
	Name   string
	Value  string
	Desc   string
}

// FormatFieldTable renders a decoded header as an aligned table with
// consistent styling
func FormatFieldTable(title string, rows []FieldRow) string {
	var result strings.Builder
	result.WriteString(fmt.Sprintf("📄 %s\n", title))
	result.WriteString(strings.Repeat("═", len(title)+3) + "\n")

	if len(rows) == 0 {
		result.WriteString("No fields decoded\n")
		return result.String()
	}

	nameWidth, valueWidth := 0, 0
	for _, row := range rows {
		if len(row.Name) > nameWidth {
			nameWidth = len(row.Name)
		}
		if len(row.Value) > valueWidth {
			valueWidth = len(row.Value)
		}
	}

	for _, row := range rows {
		result.WriteString(fmt.Sprintf("   0x%02X  %-8s %-*s  %-*s  %s\n",
			row.Offset, row.Kind, nameWidth, row.Name, valueWidth, row.Value, row.Desc))
	}
	return result.String()
}

// FormatWarnings renders non-fatal findings below a field table.
func FormatWarnings(warnings []string) string {
	if len(warnings) == 0 {
		return ""
	}
	var result strings.Builder
	for _, w := range warnings {
		result.WriteString("   ⚠️ " + w + "\n")
	}
	return result.String()
}

// FormatDigest renders file hashes and entropy
func FormatDigest(d FileDigest) string {
	var result strings.Builder
	result.WriteString(fmt.Sprintf("   Size:    %d bytes\n", d.Size))
	result.WriteString(fmt.Sprintf("   MD5:     %s\n", d.MD5))
	result.WriteString(fmt.Sprintf("   SHA1:    %s\n", d.SHA1))
	result.WriteString(fmt.Sprintf("   SHA256:  %s\n", d.SHA256))
	result.WriteString(fmt.Sprintf("   Entropy: %.2f", d.Entropy))
	if d.IsLikelyPacked() {
		result.WriteString("  ⚠️ high entropy, possibly packed")
	}
	result.WriteString("\n")
	return result.String()
}
