package walker

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		fullPath := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
			t.Fatalf("Failed to create directory: %v", err)
		}
		if err := os.WriteFile(fullPath, []byte(content), 0644); err != nil {
			t.Fatalf("Failed to create file: %v", err)
		}
	}
}

func TestScan_BucketsBySize(t *testing.T) {
	tmpDir := t.TempDir()
	writeFiles(t, tmpDir, map[string]string{
		"a.txt":        "1234567890", // 10 bytes
		"b.txt":        "abcdefghij", // 10 bytes
		"c.txt":        "12345",      // 5 bytes
		"sub/d.txt":    "1234567890", // 10 bytes
		"sub/e.settee": "xyz",        // 3 bytes
	})

	result, err := Scan(tmpDir, Options{Recursive: true})
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}

	if result.FileCount != 5 {
		t.Errorf("Expected 5 files, got %d", result.FileCount)
	}
	if len(result.Buckets[10]) != 3 {
		t.Errorf("Expected 3 files in the 10-byte bucket, got %d", len(result.Buckets[10]))
	}
	for _, f := range result.Buckets[10] {
		if f.Size != 10 {
			t.Errorf("File %s has size %d in the 10-byte bucket", f.Path, f.Size)
		}
	}
}

func TestScan_Candidates(t *testing.T) {
	tmpDir := t.TempDir()
	writeFiles(t, tmpDir, map[string]string{
		"a.txt": "1234567890",
		"b.txt": "abcdefghij",
		"c.txt": "unique size here", // 16 bytes, alone in its bucket
	})

	result, err := Scan(tmpDir, Options{Recursive: true})
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}

	candidates := result.Candidates()
	if len(candidates) != 1 {
		t.Fatalf("Expected 1 candidate bucket, got %d", len(candidates))
	}
	if _, ok := candidates[16]; ok {
		t.Error("File of unique size must never be a candidate")
	}
	if result.CandidateCount() != 2 {
		t.Errorf("Expected 2 candidate files, got %d", result.CandidateCount())
	}
}

func TestScan_MinSize(t *testing.T) {
	tmpDir := t.TempDir()
	writeFiles(t, tmpDir, map[string]string{
		"small1.txt": "abc",
		"small2.txt": "def",
		"big1.txt":   "1234567890",
		"big2.txt":   "abcdefghij",
	})

	result, err := Scan(tmpDir, Options{Recursive: true, MinSize: 5})
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}

	if result.FileCount != 2 {
		t.Errorf("Expected 2 files above min size, got %d", result.FileCount)
	}
	if _, ok := result.Buckets[3]; ok {
		t.Error("Files below min size must be excluded entirely")
	}
}

func TestScan_NonRecursive(t *testing.T) {
	tmpDir := t.TempDir()
	writeFiles(t, tmpDir, map[string]string{
		"a.txt":     "1234567890",
		"sub/b.txt": "1234567890",
	})

	result, err := Scan(tmpDir, Options{Recursive: false})
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}

	if result.FileCount != 1 {
		t.Errorf("Expected 1 file in non-recursive scan, got %d", result.FileCount)
	}
}

func TestScan_HiddenEntriesSkipped(t *testing.T) {
	tmpDir := t.TempDir()
	writeFiles(t, tmpDir, map[string]string{
		"visible.txt":     "content",
		".hidden":         "content",
		".hiddendir/x.go": "content",
	})

	for _, recursive := range []bool{true, false} {
		result, err := Scan(tmpDir, Options{Recursive: recursive})
		if err != nil {
			t.Fatalf("Scan failed: %v", err)
		}
		if result.FileCount != 1 {
			t.Errorf("Recursive=%t: expected 1 visible file, got %d", recursive, result.FileCount)
		}
	}
}

func TestScan_Exclusions(t *testing.T) {
	tmpDir := t.TempDir()
	writeFiles(t, tmpDir, map[string]string{
		"keep.txt":            "content",
		"skip.tmp":            "content",
		"node_modules/lib.js": "content",
	})

	result, err := Scan(tmpDir, Options{
		Recursive: true,
		Exclude:   []string{"*.tmp", "node_modules/"},
	})
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}

	if result.FileCount != 1 {
		t.Errorf("Expected 1 file after exclusions, got %d", result.FileCount)
	}
}

func TestScan_NotFound(t *testing.T) {
	_, err := Scan(filepath.Join(t.TempDir(), "missing"), Options{Recursive: true})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestScan_NotADirectory(t *testing.T) {
	tmpDir := t.TempDir()
	file := filepath.Join(tmpDir, "file.txt")
	if err := os.WriteFile(file, []byte("content"), 0644); err != nil {
		t.Fatalf("Failed to create file: %v", err)
	}

	_, err := Scan(file, Options{Recursive: true})
	if !errors.Is(err, ErrNotDirectory) {
		t.Errorf("Expected ErrNotDirectory, got %v", err)
	}
}

func TestScan_TraversalOrderPreserved(t *testing.T) {
	tmpDir := t.TempDir()
	writeFiles(t, tmpDir, map[string]string{
		"a.txt": "1234567890",
		"b.txt": "abcdefghij",
		"c.txt": "0987654321",
	})

	first, err := Scan(tmpDir, Options{Recursive: true})
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	second, err := Scan(tmpDir, Options{Recursive: true})
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}

	a := first.Buckets[10]
	b := second.Buckets[10]
	if len(a) != len(b) {
		t.Fatalf("Bucket sizes differ between runs: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i].Path != b[i].Path {
			t.Errorf("Bucket order differs at %d: %s vs %s", i, a[i].Path, b[i].Path)
		}
	}
}
