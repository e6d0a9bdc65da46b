package bundler

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// ChecksumsFileName is the name of the checksums file in a bundle.
const ChecksumsFileName = "checksums.txt"

// ComputeChecksum computes the SHA256 checksum of the given content.
func ComputeChecksum(content []byte) string {
	hash := sha256.Sum256(content)
	return hex.EncodeToString(hash[:])
}

// FileChecksum streams the file at path through SHA256.
func FileChecksum(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// ChecksumGenerator generates checksums for bundle files.
type ChecksumGenerator struct {
	result *Result
}

// NewChecksumGenerator creates a new checksum generator.
func NewChecksumGenerator(result *Result) *ChecksumGenerator {
	return &ChecksumGenerator{
		result: result,
	}
}

// Generate returns checksums.txt content covering every regular file under
// bundleDir, including files inside copied directories, sorted by path.
func (g *ChecksumGenerator) Generate(bundleDir string) (string, error) {
	var content strings.Builder
	content.WriteString("# Joshua Bundle Checksums (SHA256)\n")
	content.WriteString(fmt.Sprintf("# Generated: %s\n\n", g.result.GeneratedAt()))

	err := filepath.WalkDir(bundleDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		relPath, err := filepath.Rel(bundleDir, path)
		if err != nil {
			relPath = filepath.Base(path)
		}
		// Skip checksums file itself
		if relPath == ChecksumsFileName {
			return nil
		}

		checksum, err := FileChecksum(path)
		if err != nil {
			return fmt.Errorf("failed to read file %s for checksum: %w", path, err)
		}

		content.WriteString(fmt.Sprintf("%s  %s\n", checksum, filepath.ToSlash(relPath)))
		return nil
	})
	if err != nil {
		return "", err
	}

	return content.String(), nil
}
