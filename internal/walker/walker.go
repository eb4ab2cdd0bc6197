package walker

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

var (
	// ErrNotFound reports that the scan root does not exist.
	ErrNotFound = errors.New("directory does not exist")
	// ErrNotDirectory reports that the scan root is not a directory.
	ErrNotDirectory = errors.New("not a directory")
)

type FileInfo struct {
	Path    string    `json:"path"`
	Size    int64     `json:"size_bytes"`
	ModTime time.Time `json:"mod_time"`
}

// Options controls a scan.
type Options struct {
	Recursive bool
	MinSize   int64
	Exclude   []string
}

// ScanResult holds files grouped by exact byte size. Buckets preserve
// traversal order. Skipped collects per-file stat failures; they never abort
// the scan.
type ScanResult struct {
	Buckets   map[int64][]FileInfo
	FileCount int
	Skipped   []error
}

// Candidates returns only the size buckets with two or more members. Files of
// unique size are confirmed unique and must never reach the hashing phase.
func (r *ScanResult) Candidates() map[int64][]FileInfo {
	candidates := make(map[int64][]FileInfo)
	for size, files := range r.Buckets {
		if len(files) > 1 {
			candidates[size] = files
		}
	}
	return candidates
}

// CandidateCount returns the number of files eligible for hashing.
func (r *ScanResult) CandidateCount() int {
	count := 0
	for _, files := range r.Buckets {
		if len(files) > 1 {
			count += len(files)
		}
	}
	return count
}

// Scan walks rootPath and groups files by size. Only metadata is touched in
// this phase; no file content is read.
func Scan(rootPath string, opts Options) (*ScanResult, error) {
	info, err := os.Stat(rootPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, rootPath)
		}
		return nil, fmt.Errorf("failed to stat root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrNotDirectory, rootPath)
	}

	result := &ScanResult{
		Buckets: make(map[int64][]FileInfo),
		Skipped: make([]error, 0),
	}

	if !opts.Recursive {
		return scanFlat(rootPath, opts, result)
	}

	err = filepath.WalkDir(rootPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// If error is on the root path, return it (don't continue walking)
			if path == rootPath {
				return err
			}
			// Skip permission errors and continue walking
			result.Skipped = append(result.Skipped, err)
			return nil
		}

		if path != rootPath && isHidden(d.Name()) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		relPath, err := filepath.Rel(rootPath, path)
		if err != nil {
			result.Skipped = append(result.Skipped, err)
			return nil
		}

		if shouldExclude(relPath, opts.Exclude) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if !d.IsDir() {
			info, err := d.Info()
			if err != nil {
				result.Skipped = append(result.Skipped, err)
				return nil
			}
			result.add(path, info, opts.MinSize)
		}

		return nil
	})

	if err != nil {
		return nil, fmt.Errorf("failed to walk directory: %w", err)
	}

	return result, nil
}

func scanFlat(rootPath string, opts Options, result *ScanResult) (*ScanResult, error) {
	entries, err := os.ReadDir(rootPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || isHidden(entry.Name()) {
			continue
		}
		if shouldExclude(entry.Name(), opts.Exclude) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			result.Skipped = append(result.Skipped, err)
			continue
		}
		result.add(filepath.Join(rootPath, entry.Name()), info, opts.MinSize)
	}

	return result, nil
}

func (r *ScanResult) add(path string, info fs.FileInfo, minSize int64) {
	if info.Size() < minSize {
		return
	}
	r.Buckets[info.Size()] = append(r.Buckets[info.Size()], FileInfo{
		Path:    path,
		Size:    info.Size(),
		ModTime: info.ModTime(),
	})
	r.FileCount++
}

func isHidden(name string) bool {
	return strings.HasPrefix(name, ".")
}

func shouldExclude(relPath string, exclusions []string) bool {
	for _, pattern := range exclusions {
		// Handle directory exclusions (patterns ending with /)
		if strings.HasSuffix(pattern, "/") {
			dirPattern := strings.TrimSuffix(pattern, "/")
			// Check if the current path or any parent matches the directory pattern
			parts := strings.Split(relPath, string(filepath.Separator))
			for _, part := range parts {
				if matched, _ := filepath.Match(dirPattern, part); matched {
					return true
				}
				if part == dirPattern {
					return true
				}
			}
		} else {
			matched, err := filepath.Match(pattern, filepath.Base(relPath))
			if err == nil && matched {
				return true
			}
			// Also try matching against the full relative path for patterns with /
			if strings.Contains(pattern, "/") {
				matched, err := filepath.Match(pattern, relPath)
				if err == nil && matched {
					return true
				}
			}
		}
	}
	return false
}
