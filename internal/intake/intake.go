// Package intake implements C1: enumerate, fingerprint, and deduplicate
// source PDFs into a deterministic Manifest.
package intake

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"

	"github.com/jusbr/pje-segmenter/internal/jsonutil"
	"github.com/jusbr/pje-segmenter/internal/model"
)

// ListPDFs walks source and returns every *.pdf path in strict lexicographic
// order. If source is a single file, it is returned alone whatever its
// extension; BuildManifest's content check then decides whether it is a
// PDF. If recursive is false, only the top-level directory is scanned.
func ListPDFs(source string, recursive bool) ([]string, error) {
	info, err := os.Stat(source)
	if err != nil {
		return nil, fmt.Errorf("stat source: %w", err)
	}

	if !info.IsDir() {
		abs, err := filepath.Abs(source)
		if err != nil {
			return nil, fmt.Errorf("resolve absolute path: %w", err)
		}
		return []string{abs}, nil
	}

	absDir, err := filepath.Abs(source)
	if err != nil {
		return nil, fmt.Errorf("resolve absolute path: %w", err)
	}

	var paths []string
	walkFn := func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			if !recursive && path != absDir {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.ToLower(filepath.Ext(path)) != ".pdf" {
			return nil
		}
		abs, err := filepath.Abs(path)
		if err != nil {
			return fmt.Errorf("resolve path: %w", err)
		}
		paths = append(paths, abs)
		return nil
	}

	if err := filepath.Walk(absDir, walkFn); err != nil {
		return nil, fmt.Errorf("walk source directory: %w", err)
	}

	sort.Strings(paths)
	return paths, nil
}

// hashFile returns the full-file SHA-256 and the SHA-256 of only the first
// 4096 bytes (a cheap cross-batch prefix fingerprint).
func hashFile(path string) (full string, prefix string, err error) {
	f, err := os.Open(path)
	if err != nil {
		return "", "", fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	fullHash := sha256.New()
	prefixBuf := make([]byte, 4096)
	n, readErr := io.ReadFull(f, prefixBuf)
	if readErr != nil && readErr != io.ErrUnexpectedEOF && readErr != io.EOF {
		return "", "", fmt.Errorf("read prefix: %w", readErr)
	}
	prefixHash := sha256.Sum256(prefixBuf[:n])

	fullHash.Write(prefixBuf[:n])
	if _, err := io.Copy(fullHash, f); err != nil {
		return "", "", fmt.Errorf("hash file: %w", err)
	}

	return hex.EncodeToString(fullHash.Sum(nil)), hex.EncodeToString(prefixHash[:]), nil
}

// isPDF sniffs the real content type, guarding against a renamed non-PDF
// slipping past the extension filter.
func isPDF(path string) (bool, error) {
	mt, err := mimetype.DetectFile(path)
	if err != nil {
		return false, fmt.Errorf("sniff content type: %w", err)
	}
	for m := mt; m != nil; m = m.Parent() {
		if m.Is("application/pdf") {
			return true, nil
		}
	}
	return false, nil
}

// BuildManifest enumerates, fingerprints, and deduplicates the PDFs found
// under source. dedupe controls whether repeated full-hashes are dropped
// into Duplicates (true) or all registered (false).
func BuildManifest(source string, recursive bool, dedupe bool) (model.Manifest, error) {
	absSource, err := filepath.Abs(source)
	if err != nil {
		absSource = source
	}

	manifest := model.Manifest{
		GeneratedAt: time.Now(),
		SourcePath:  absSource,
	}

	paths, err := ListPDFs(source, recursive)
	if err != nil {
		return manifest, err
	}

	seen := make(map[string]string) // sha256 -> first-seen absolute path

	for _, path := range paths {
		manifest.Summary.TotalScanned++

		info, err := os.Stat(path)
		if err != nil {
			manifest.Errors = append(manifest.Errors, model.IntakeError{
				Name: filepath.Base(path), Message: err.Error(),
			})
			continue
		}

		if ok, err := isPDF(path); err != nil {
			manifest.Errors = append(manifest.Errors, model.IntakeError{
				Name: filepath.Base(path), Message: err.Error(),
			})
			continue
		} else if !ok {
			manifest.Errors = append(manifest.Errors, model.IntakeError{
				Name: filepath.Base(path), Message: "content does not sniff as application/pdf",
			})
			continue
		}

		fullHash, prefixHash, err := hashFile(path)
		if err != nil {
			manifest.Errors = append(manifest.Errors, model.IntakeError{
				Name: filepath.Base(path), Message: err.Error(),
			})
			continue
		}

		if dedupe {
			if originalPath, exists := seen[fullHash]; exists {
				manifest.Duplicates = append(manifest.Duplicates, model.DuplicateFile{
					Name:         filepath.Base(path),
					SHA256:       fullHash,
					OriginalPath: originalPath,
				})
				manifest.Summary.Duplicates++
				continue
			}
			seen[fullHash] = path
		}

		manifest.Files = append(manifest.Files, model.SourceFile{
			Name:           filepath.Base(path),
			SourcePath:     path,
			Size:           info.Size(),
			Modified:       info.ModTime(),
			SHA256:         fullHash,
			SHA256Prefix4K: prefixHash,
			Timestamp:      time.Now(),
		})
		manifest.Summary.Registered++
	}

	manifest.Summary.Errors = len(manifest.Errors)
	return manifest, nil
}

// WriteManifest persists the manifest as intake/manifest-YYYY-MM-DD.json
// under dir, following the teacher's marshal-indent-and-write convention.
func WriteManifest(m model.Manifest, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create intake directory: %w", err)
	}
	name := fmt.Sprintf("manifest-%s.json", time.Now().Format("2006-01-02"))
	path := filepath.Join(dir, name)
	if err := jsonutil.WriteIndent(path, m); err != nil {
		return "", err
	}
	return path, nil
}
