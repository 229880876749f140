// Package export renders the working corpus into distributable formats:
// USFM for typesetting tools, plain text and Markdown for reading.
package export

import (
	"fmt"
	"sort"
)

// Format identifies an output format.
type Format string

// Supported formats.
const (
	FormatUSFM     Format = "usfm"
	FormatText     Format = "txt"
	FormatMarkdown Format = "md"
)

// FormatInfo provides metadata about an export format.
type FormatInfo struct {
	// Name is the format identifier.
	Name Format

	// MIMEType is the standard MIME type.
	MIMEType string

	// Extension is the file extension (with dot).
	Extension string

	// Description describes the format.
	Description string
}

// FormatRegistry contains metadata for all supported formats.
var FormatRegistry = map[Format]FormatInfo{
	FormatUSFM: {
		Name:        FormatUSFM,
		MIMEType:    "text/x-usfm",
		Extension:   ".usfm",
		Description: "USFM - Unified Standard Format Markers",
	},
	FormatText: {
		Name:        FormatText,
		MIMEType:    "text/plain",
		Extension:   ".txt",
		Description: "Plain text with chapter headings",
	},
	FormatMarkdown: {
		Name:        FormatMarkdown,
		MIMEType:    "text/markdown",
		Extension:   ".md",
		Description: "Markdown with chapter sections",
	},
}

// GetFormatInfo returns metadata for a format.
func GetFormatInfo(format Format) (FormatInfo, bool) {
	info, ok := FormatRegistry[format]
	return info, ok
}

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	f := Format(s)
	if _, ok := FormatRegistry[f]; !ok {
		return "", fmt.Errorf("unknown format %q (supported: %v)", s, Formats())
	}
	return f, nil
}

// Formats returns the supported format names in stable order.
func Formats() []Format {
	out := make([]Format, 0, len(FormatRegistry))
	for f := range FormatRegistry {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
