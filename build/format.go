package build

import (
	"fmt"

	"github.com/cespare/xxhash/v2"
)

// ComputeHash computes the xxhash of a document source. The parser records
// it in Result.Hash, and builds compare it to detect unchanged sources.
func ComputeHash(content string) string {
	return fmt.Sprintf("%x", xxhash.Sum64String(content))
}

// TruncateURI shortens a URI for display, keeping the end which is more informative.
func TruncateURI(uri string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	if maxLen < 4 {
		return uri[:min(len(uri), maxLen)]
	}
	if len(uri) <= maxLen {
		return uri
	}
	return "..." + uri[len(uri)-maxLen+3:]
}

// FormatBytes formats bytes in human-readable form.
func FormatBytes(bytes int) string {
	const (
		KB = 1024
		MB = KB * 1024
	)
	switch {
	case bytes >= MB:
		return fmt.Sprintf("%.1f MB", float64(bytes)/float64(MB))
	case bytes >= KB:
		return fmt.Sprintf("%.1f KB", float64(bytes)/float64(KB))
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}
