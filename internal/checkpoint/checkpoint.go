// Package checkpoint implements the orchestrator's resumable run state:
// atomic temp-file-then-rename writes, a SHA-256 integrity field, and
// resume validation, per SPEC_FULL.md 4.10.
package checkpoint

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jusbr/pje-segmenter/internal/model"
)

const fileName = ".checkpoint.json"

// Path returns the checkpoint file path under dir.
func Path(dir string) string {
	return filepath.Join(dir, fileName)
}

// checksumOf computes the SHA-256 of cp's JSON encoding with Checksum
// cleared, matching the value validated on resume.
func checksumOf(cp model.Checkpoint) (string, error) {
	cp.Checksum = ""
	data, err := json.Marshal(cp)
	if err != nil {
		return "", fmt.Errorf("marshal checkpoint for checksum: %w", err)
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

// Write atomically persists cp to dir: stamps its checksum, writes to a
// temp file in the same directory, then renames over the checkpoint path.
func Write(dir string, cp model.Checkpoint) error {
	sum, err := checksumOf(cp)
	if err != nil {
		return err
	}
	cp.Checksum = sum

	data, err := json.MarshalIndent(cp, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal checkpoint: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".checkpoint-*.tmp")
	if err != nil {
		return fmt.Errorf("create checkpoint temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, werr := tmp.Write(data); werr != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("write checkpoint temp file: %w", werr)
	}
	if cerr := tmp.Close(); cerr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close checkpoint temp file: %w", cerr)
	}

	if rerr := os.Rename(tmpPath, Path(dir)); rerr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename checkpoint into place: %w", rerr)
	}
	return nil
}

// Load reads and validates the checkpoint at dir, returning an error if the
// checksum does not match the stored contents.
func Load(dir string) (model.Checkpoint, error) {
	var cp model.Checkpoint
	data, err := os.ReadFile(Path(dir))
	if err != nil {
		return cp, fmt.Errorf("read checkpoint: %w", err)
	}
	if err := json.Unmarshal(data, &cp); err != nil {
		return cp, fmt.Errorf("unmarshal checkpoint: %w", err)
	}

	want := cp.Checksum
	got, err := checksumOf(cp)
	if err != nil {
		return cp, err
	}
	if got != want {
		return cp, fmt.Errorf("checkpoint checksum mismatch: file may be corrupt or hand-edited")
	}
	return cp, nil
}

// Exists reports whether a checkpoint file is present under dir.
func Exists(dir string) bool {
	_, err := os.Stat(Path(dir))
	return err == nil
}

// IsStageComplete reports whether stage is recorded in cp's completed set.
func IsStageComplete(cp model.Checkpoint, stage int) bool {
	for _, s := range cp.CompletedStages {
		if s == stage {
			return true
		}
	}
	return false
}

// MarkStageComplete returns a copy of cp with stage appended to
// CompletedStages (if not already present) and its StageResults entry set.
func MarkStageComplete(cp model.Checkpoint, stage int, name string, result model.StageResult) model.Checkpoint {
	if !IsStageComplete(cp, stage) {
		cp.CompletedStages = append(cp.CompletedStages, stage)
	}
	if cp.StageResults == nil {
		cp.StageResults = make(map[string]model.StageResult)
	}
	cp.StageResults[name] = result
	cp.CurrentStage = stage
	return cp
}
