package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/jusbr/pje-segmenter/internal/runner"
)

// doctorTool is one external binary the pipeline depends on.
type doctorTool struct {
	name        string
	bin         string
	versionArgs []string
	required    bool
}

var doctorTools = []doctorTool{
	{"pdftotext", "pdftotext", []string{"-v"}, true},
	{"pdftoppm", "pdftoppm", []string{"-v"}, false},
	{"pdfinfo", "pdfinfo", []string{"-v"}, false},
	{"tesseract", "tesseract", []string{"--version"}, false},
	{"sips", "sips", []string{"--version"}, false},
	{"convert", "convert", []string{"--version"}, false},
}

// doctorCommand reports the availability of every external capability the
// pipeline can use, downgrading gracefully when optional tools are absent.
func doctorCommand(args []string) error {
	fs := flag.NewFlagSet("doctor", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}

	r := runner.New()
	ctx := context.Background()
	var missingRequired bool

	for _, tool := range doctorTools {
		path, err := r.LookPath(tool.bin)
		if err != nil {
			status := "missing (optional)"
			if tool.required {
				status = "MISSING (required)"
				missingRequired = true
			}
			fmt.Printf("- %-10s %s\n", tool.name+":", status)
			continue
		}

		opts := runner.RunOpts{
			Timeout:         5 * time.Second,
			StdoutMode:      runner.StreamAndCapture,
			StderrMode:      runner.StreamAndCapture,
			MaxCaptureBytes: 512,
		}
		result, rerr := r.Run(ctx, tool.bin, tool.versionArgs, opts)
		version := "present"
		if rerr == nil {
			version = firstLine(result.Stdout + result.Stderr)
		}
		fmt.Printf("- %-10s OK (%s) [%s]\n", tool.name+":", version, path)
	}

	if missingRequired {
		return fmt.Errorf("at least one required capability is missing; fast-parse extraction will not function")
	}
	return nil
}

func firstLine(s string) string {
	for i, r := range s {
		if r == '\n' {
			return s[:i]
		}
	}
	return s
}
