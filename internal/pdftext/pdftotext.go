package pdftext

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/rotisserie/eris"
)

// PdfToText extracts text using the pdftotext CLI tool. Useful where the
// in-process reader chokes on the bulletin's generator quirks.
type PdfToText struct {
	binPath string
}

// NewPdfToText creates a PdfToText extractor. If binPath is empty,
// "pdftotext" is used.
func NewPdfToText(binPath string) *PdfToText {
	if binPath == "" {
		binPath = "pdftotext"
	}
	return &PdfToText{binPath: binPath}
}

// ExtractText writes the document to a temp file and runs
// pdftotext -layout on it, returning stdout.
func (p *PdfToText) ExtractText(ctx context.Context, data []byte) (string, error) {
	dir, err := os.MkdirTemp("", "floodwatch-pdf-")
	if err != nil {
		return "", eris.Wrap(err, "pdftext: temp dir")
	}
	defer os.RemoveAll(dir) //nolint:errcheck

	path := filepath.Join(dir, "bulletin.pdf")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return "", eris.Wrap(err, "pdftext: write temp file")
	}

	cmd := exec.CommandContext(ctx, p.binPath, "-layout", path, "-")

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", eris.Wrapf(err, "pdftext: pdftotext failed: %s", stderr.String())
	}

	return stdout.String(), nil
}
