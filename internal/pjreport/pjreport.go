// Package pjreport writes pipeline-report.json (per-PDF) and
// batch-report.json (additive across a batch), grounded on the
// Marshal-then-Create-then-Write idiom in internal/report.WriteReport.
package pjreport

import (
	"fmt"

	"github.com/jusbr/pje-segmenter/internal/jsonutil"
	"github.com/jusbr/pje-segmenter/internal/model"
)

// WritePipelineReport writes a single PDF's report to path.
func WritePipelineReport(report model.PipelineReport, path string) error {
	if err := jsonutil.WriteIndent(path, report); err != nil {
		return fmt.Errorf("write pipeline report: %w", err)
	}
	return nil
}

// WriteBatchReport writes the accumulated BatchReport to path. Callers
// build the BatchReport via repeated calls to its AddReport method so the
// summary is always a sum across every PDF in the batch, never a
// last-one-wins overwrite.
func WriteBatchReport(report model.BatchReport, path string) error {
	if err := jsonutil.WriteIndent(path, report); err != nil {
		return fmt.Errorf("write batch report: %w", err)
	}
	return nil
}
