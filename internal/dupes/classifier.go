package dupes

import (
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"

	"dupescan/internal/hash"
	"dupescan/internal/walker"
)

// Set is a group of two or more files with identical size and digest. It is a
// snapshot: deletions later in the session do not mutate it.
type Set struct {
	Digest string            `json:"digest"`
	Size   int64             `json:"size"`
	Files  []walker.FileInfo `json:"files"`
}

// WastedBytes is the space occupied by all but one copy.
func (s *Set) WastedBytes() int64 {
	return s.Size * int64(len(s.Files)-1)
}

// FileError records a per-file read failure during hashing. The file ends up
// in no group; it is unresolved, not unique.
type FileError struct {
	Path string
	Err  error
}

func (e FileError) Error() string {
	return e.Path + ": " + e.Err.Error()
}

type ClassifyResult struct {
	Sets     []Set
	Failures []FileError
}

type digestJob struct {
	file walker.FileInfo
}

type digestJobResult struct {
	file   walker.FileInfo
	digest string
	err    error
}

// Classify hashes every candidate file across a bounded worker pool and groups
// the survivors by digest. Only groups that still have two or more members
// become Sets. onProgress, if non-nil, is called with a monotonically
// increasing completed count, one call per finished file.
func Classify(candidates map[int64][]walker.FileInfo, algo hash.Algorithm, workers int, onProgress func(completed int)) *ClassifyResult {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	result := &ClassifyResult{
		Sets:     make([]Set, 0),
		Failures: make([]FileError, 0),
	}

	total := 0
	for _, files := range candidates {
		total += len(files)
	}
	if total == 0 {
		return result
	}

	jobs := make(chan digestJob, total)
	results := make(chan digestJobResult, total)

	var g errgroup.Group
	for i := 0; i < workers; i++ {
		g.Go(func() error {
			for job := range jobs {
				digest, err := hash.DigestFile(job.file.Path, algo)
				results <- digestJobResult{file: job.file, digest: digest, err: err}
			}
			return nil
		})
	}

	go func() {
		for _, files := range candidates {
			for _, file := range files {
				jobs <- digestJob{file: file}
			}
		}
		close(jobs)
	}()

	go func() {
		g.Wait()
		close(results)
	}()

	// Single collector owns the digest map; workers never touch it.
	digests := make(map[string]string, total)
	completed := 0
	for jobResult := range results {
		completed++
		if jobResult.err != nil {
			result.Failures = append(result.Failures, FileError{Path: jobResult.file.Path, Err: jobResult.err})
		} else {
			digests[jobResult.file.Path] = jobResult.digest
		}
		if onProgress != nil {
			onProgress(completed)
		}
	}

	result.Sets = groupByDigest(candidates, digests)
	return result
}

// groupByDigest rebuilds groups from the per-path digests by revisiting the
// candidates in bucket order, so set and member order is stable for a given
// traversal regardless of which worker finished first.
func groupByDigest(candidates map[int64][]walker.FileInfo, digests map[string]string) []Set {
	sizes := make([]int64, 0, len(candidates))
	for size := range candidates {
		sizes = append(sizes, size)
	}
	sort.Slice(sizes, func(i, j int) bool { return sizes[i] < sizes[j] })

	sets := make([]Set, 0)
	for _, size := range sizes {
		groups := make(map[string][]walker.FileInfo)
		order := make([]string, 0)
		for _, file := range candidates[size] {
			digest, ok := digests[file.Path]
			if !ok {
				continue // read failure, already recorded
			}
			if _, seen := groups[digest]; !seen {
				order = append(order, digest)
			}
			groups[digest] = append(groups[digest], file)
		}
		for _, digest := range order {
			files := groups[digest]
			if len(files) > 1 {
				sets = append(sets, Set{Digest: digest, Size: size, Files: files})
			}
		}
	}
	return sets
}
