// Package reconcile drives the interactive deletion session over duplicate
// sets. It is strictly sequential: one set at a time, blocking on user input,
// with an explicit confirmation before anything is removed.
package reconcile

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"dupescan/internal/dupes"
)

var (
	green  = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	red    = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	yellow = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
)

// DeleteFailure records one file that could not be removed. Siblings in the
// same delete list are still attempted.
type DeleteFailure struct {
	Path string
	Err  error
}

type Summary struct {
	Deleted   int
	Reclaimed int64
	Failures  []DeleteFailure
	Aborted   bool
}

// Workflow holds the session's I/O. Remove is injectable so tests never touch
// the real filesystem.
type Workflow struct {
	In     *bufio.Reader
	Out    io.Writer
	Remove func(path string) error
}

func New(in io.Reader, out io.Writer) *Workflow {
	return &Workflow{
		In:     bufio.NewReader(in),
		Out:    out,
		Remove: os.Remove,
	}
}

// Run presents each set in order and applies the user's decisions. Aborting
// stops the session; deletions already applied stand, there is no rollback.
func (w *Workflow) Run(sets []dupes.Set) *Summary {
	summary := &Summary{Failures: make([]DeleteFailure, 0)}

	if len(sets) == 0 {
		return summary
	}

	fmt.Fprintln(w.Out, "\nInteractive Deletion Mode")
	fmt.Fprintln(w.Out, "You'll be asked which file to keep from each duplicate set.")

	for i, set := range sets {
		w.present(i+1, len(sets), &set)

		if !w.decide(&set, summary) {
			summary.Aborted = true
			fmt.Fprintln(w.Out, yellow.Render("Session aborted."))
			return summary
		}
	}

	return summary
}

// present displays a set's members. A pure read; no state changes.
func (w *Workflow) present(num, total int, set *dupes.Set) {
	fmt.Fprintf(w.Out, "\nSet %d/%d:\n", num, total)
	fmt.Fprintf(w.Out, "  Size: %s each\n", dupes.FormatSize(set.Size))
	for i, file := range set.Files {
		fmt.Fprintf(w.Out, "  [%d] %s\n", i+1, file.Path)
		fmt.Fprintf(w.Out, "      Modified: %s\n", file.ModTime.Format("2006-01-02 15:04:05"))
	}
}

// decide reads choices until the set is resolved. Returns false when the user
// aborts the session.
func (w *Workflow) decide(set *dupes.Set, summary *Summary) bool {
	for {
		fmt.Fprintf(w.Out, "\nKeep file [1-%d] or [s]kip this set or [q]uit: ", len(set.Files))

		line, err := w.In.ReadString('\n')
		if err != nil && line == "" {
			// EOF on stdin: never delete without an explicit choice.
			return false
		}
		choice := strings.ToLower(strings.TrimSpace(line))

		switch choice {
		case "q":
			return false
		case "s":
			fmt.Fprintln(w.Out, "Skipping this set.")
			return true
		}

		keep, convErr := strconv.Atoi(choice)
		if convErr != nil {
			fmt.Fprintf(w.Out, "Invalid input. Enter 1-%d, 's', or 'q'\n", len(set.Files))
			continue
		}
		if keep < 1 || keep > len(set.Files) {
			fmt.Fprintf(w.Out, "Invalid choice. Enter 1-%d\n", len(set.Files))
			continue
		}

		w.applyKeep(set, keep, summary)
		return true
	}
}

// applyKeep builds the delete list, asks for confirmation, and removes files.
// Anything other than an explicit yes leaves the set untouched.
func (w *Workflow) applyKeep(set *dupes.Set, keep int, summary *Summary) {
	toDelete := make([]string, 0, len(set.Files)-1)
	for i, file := range set.Files {
		if i != keep-1 {
			toDelete = append(toDelete, file.Path)
		}
	}

	fmt.Fprintf(w.Out, "\nWill delete %d file(s):\n", len(toDelete))
	for _, path := range toDelete {
		fmt.Fprintf(w.Out, "  • %s\n", path)
	}

	fmt.Fprint(w.Out, "Confirm deletion? [y/N]: ")
	line, err := w.In.ReadString('\n')
	if err != nil && line == "" {
		fmt.Fprintln(w.Out, "Deletion cancelled for this set.")
		return
	}

	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
	default:
		fmt.Fprintln(w.Out, "Deletion cancelled for this set.")
		return
	}

	for _, path := range toDelete {
		if err := w.Remove(path); err != nil {
			summary.Failures = append(summary.Failures, DeleteFailure{Path: path, Err: err})
			fmt.Fprintf(w.Out, "  %s %s: %v\n", red.Render("✗"), path, err)
			continue
		}
		summary.Deleted++
		summary.Reclaimed += set.Size
		fmt.Fprintf(w.Out, "  %s Deleted: %s\n", green.Render("✓"), path)
	}
}

// FormatSummary renders the session totals.
func FormatSummary(s *Summary) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "\nDeleted %d file(s), reclaimed %s", s.Deleted, dupes.FormatSize(s.Reclaimed))
	if len(s.Failures) > 0 {
		fmt.Fprintf(&sb, ", %d failure(s)", len(s.Failures))
	}
	sb.WriteString("\n")
	for _, f := range s.Failures {
		fmt.Fprintf(&sb, "  failed: %s: %v\n", f.Path, f.Err)
	}
	return sb.String()
}
