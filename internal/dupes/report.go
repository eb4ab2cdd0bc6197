package dupes

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"dupescan/internal/hash"
)

// Report is the result of a full detection run, suitable both for terminal
// rendering and JSON export.
type Report struct {
	Generator    string    `json:"generator"`
	GeneratedAt  time.Time `json:"generated_at"`
	Root         string    `json:"root"`
	Algorithm    string    `json:"algorithm"`
	TotalSets    int       `json:"total_sets"`
	TotalFiles   int       `json:"total_files"`
	WastedBytes  int64     `json:"wasted_bytes"`
	HashFailures int       `json:"hash_failures"`
	Sets         []Set     `json:"sets"`
}

func BuildReport(root string, algo hash.Algorithm, result *ClassifyResult) *Report {
	report := &Report{
		Generator:    "dupescan",
		GeneratedAt:  time.Now(),
		Root:         root,
		Algorithm:    string(algo),
		TotalSets:    len(result.Sets),
		HashFailures: len(result.Failures),
		Sets:         result.Sets,
	}
	for i := range result.Sets {
		report.TotalFiles += len(result.Sets[i].Files)
		report.WastedBytes += result.Sets[i].WastedBytes()
	}
	return report
}

func (r *Report) Save(path string) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	return nil
}

// FormatReport renders the human-readable duplicate listing.
func FormatReport(r *Report) string {
	var sb strings.Builder

	if len(r.Sets) == 0 {
		sb.WriteString("✓ No duplicate files found!\n")
		return sb.String()
	}

	divider := strings.Repeat("=", 80)
	sb.WriteString(divider + "\n")
	fmt.Fprintf(&sb, "Found %d set(s) of duplicates (%d files total)\n", r.TotalSets, r.TotalFiles)
	sb.WriteString(divider + "\n\n")

	for i, set := range r.Sets {
		fmt.Fprintf(&sb, "Set %d:\n", i+1)
		fmt.Fprintf(&sb, "  Hash: %s...\n", digestPrefix(set.Digest))
		fmt.Fprintf(&sb, "  Size: %s each\n", FormatSize(set.Size))
		fmt.Fprintf(&sb, "  Wasted space: %s\n", FormatSize(set.WastedBytes()))
		fmt.Fprintf(&sb, "  Copies: %d\n", len(set.Files))
		sb.WriteString("  Files:\n")
		for _, file := range set.Files {
			fmt.Fprintf(&sb, "    • %s\n", file.Path)
			fmt.Fprintf(&sb, "      Modified: %s\n", file.ModTime.Format("2006-01-02 15:04:05"))
		}
		sb.WriteString("\n")
	}

	sb.WriteString(divider + "\n")
	fmt.Fprintf(&sb, "Total wasted space: %s\n", FormatSize(r.WastedBytes))
	sb.WriteString(divider + "\n")

	return sb.String()
}

func digestPrefix(digest string) string {
	if len(digest) > 16 {
		return digest[:16]
	}
	return digest
}

func FormatSize(bytes int64) string {
	const (
		KB = 1024
		MB = KB * 1024
		GB = MB * 1024
		TB = GB * 1024
		PB = TB * 1024
	)

	switch {
	case bytes >= PB:
		return fmt.Sprintf("%.2f PB", float64(bytes)/float64(PB))
	case bytes >= TB:
		return fmt.Sprintf("%.2f TB", float64(bytes)/float64(TB))
	case bytes >= GB:
		return fmt.Sprintf("%.2f GB", float64(bytes)/float64(GB))
	case bytes >= MB:
		return fmt.Sprintf("%.2f MB", float64(bytes)/float64(MB))
	case bytes >= KB:
		return fmt.Sprintf("%.2f KB", float64(bytes)/float64(KB))
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}
