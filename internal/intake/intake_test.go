package intake

import (
	"os"
	"path/filepath"
	"testing"
)

// minimalPDF is a tiny but structurally valid single-page PDF so
// mimetype.DetectFile sniffs it as application/pdf.
const minimalPDF = "%PDF-1.4\n1 0 obj<</Type/Catalog/Pages 2 0 R>>endobj\n2 0 obj<</Type/Pages/Kids[3 0 R]/Count 1>>endobj\n3 0 obj<</Type/Page/Parent 2 0 R>>endobj\ntrailer<</Root 1 0 R>>\n%%EOF"

func writeTestPDF(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write test pdf %s: %v", name, err)
	}
	return path
}

func TestListPDFs_SortedAndFiltered(t *testing.T) {
	tmpDir := t.TempDir()
	writeTestPDF(t, tmpDir, "b.pdf", minimalPDF)
	writeTestPDF(t, tmpDir, "a.pdf", minimalPDF)
	if err := os.WriteFile(filepath.Join(tmpDir, "c.txt"), []byte("not a pdf"), 0o644); err != nil {
		t.Fatalf("failed to write non-pdf file: %v", err)
	}

	paths, err := ListPDFs(tmpDir, true)
	if err != nil {
		t.Fatalf("ListPDFs failed: %v", err)
	}
	if len(paths) != 2 {
		t.Fatalf("expected 2 pdfs, got %d", len(paths))
	}
	if filepath.Base(paths[0]) != "a.pdf" || filepath.Base(paths[1]) != "b.pdf" {
		t.Errorf("expected lexicographic order [a.pdf, b.pdf], got [%s, %s]",
			filepath.Base(paths[0]), filepath.Base(paths[1]))
	}
}

func TestBuildManifest_DeduplicatesIdenticalFiles(t *testing.T) {
	tmpDir := t.TempDir()
	writeTestPDF(t, tmpDir, "original.pdf", minimalPDF)
	writeTestPDF(t, tmpDir, "copy.pdf", minimalPDF)

	manifest, err := BuildManifest(tmpDir, true, true)
	if err != nil {
		t.Fatalf("BuildManifest failed: %v", err)
	}

	if len(manifest.Files) != 1 {
		t.Fatalf("expected 1 registered file, got %d", len(manifest.Files))
	}
	if len(manifest.Duplicates) != 1 {
		t.Fatalf("expected 1 duplicate, got %d", len(manifest.Duplicates))
	}
	if manifest.Summary.Registered != 1 || manifest.Summary.Duplicates != 1 {
		t.Errorf("unexpected summary: %+v", manifest.Summary)
	}
	// The first file in lexicographic order (copy.pdf) is kept; original.pdf
	// is the duplicate, since intake sees copy.pdf first.
	if manifest.Files[0].Name != "copy.pdf" {
		t.Errorf("expected copy.pdf to be the registered file (first lexicographically), got %s", manifest.Files[0].Name)
	}
}

func TestBuildManifest_NoDedupeRegistersBoth(t *testing.T) {
	tmpDir := t.TempDir()
	writeTestPDF(t, tmpDir, "original.pdf", minimalPDF)
	writeTestPDF(t, tmpDir, "copy.pdf", minimalPDF)

	manifest, err := BuildManifest(tmpDir, true, false)
	if err != nil {
		t.Fatalf("BuildManifest failed: %v", err)
	}
	if len(manifest.Files) != 2 {
		t.Fatalf("expected 2 registered files with dedupe off, got %d", len(manifest.Files))
	}
}

func TestBuildManifest_SingleFileSource(t *testing.T) {
	tmpDir := t.TempDir()
	path := writeTestPDF(t, tmpDir, "single.pdf", minimalPDF)

	manifest, err := BuildManifest(path, true, true)
	if err != nil {
		t.Fatalf("BuildManifest failed: %v", err)
	}
	if len(manifest.Files) != 1 {
		t.Fatalf("expected 1 registered file for single-file source, got %d", len(manifest.Files))
	}
}
