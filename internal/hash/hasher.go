package hash

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	stdhash "hash"
	"io"
	"os"

	"github.com/cespare/xxhash/v2"
)

const chunkSize = 32 * 1024 // 32KB buffer for streaming

// Algorithm selects the digest function used for content classification.
type Algorithm string

const (
	// Fast is xxHash64: quick, 64-bit, fine for interactive scans.
	Fast Algorithm = "fast"
	// Strong is SHA-256: slower, 256-bit, negligible collision risk.
	Strong Algorithm = "strong"
)

// ParseAlgorithm validates a user-supplied algorithm name.
func ParseAlgorithm(name string) (Algorithm, error) {
	switch Algorithm(name) {
	case Fast, Strong:
		return Algorithm(name), nil
	default:
		return "", fmt.Errorf("unknown hash algorithm %q (want %q or %q)", name, Fast, Strong)
	}
}

func (a Algorithm) newHash() stdhash.Hash {
	if a == Strong {
		return sha256.New()
	}
	return xxhash.New()
}

// DigestFile computes the content digest of a file using streaming so peak
// memory stays bounded regardless of file size.
func DigestFile(path string, algo Algorithm) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	h := algo.newHash()
	buf := make([]byte, chunkSize)

	for {
		n, err := file.Read(buf)
		if n > 0 {
			h.Write(buf[:n])
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("failed to read file: %w", err)
		}
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}
