package pdftext

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/pdme/floodwatch/internal/config"
)

// Extractor extracts plain text from a PDF document held in memory.
type Extractor interface {
	ExtractText(ctx context.Context, data []byte) (string, error)
}

// NewExtractor creates an Extractor based on config.
func NewExtractor(cfg config.PDFConfig) (Extractor, error) {
	switch cfg.Provider {
	case "library", "":
		return &Library{}, nil
	case "pdftotext":
		return NewPdfToText(cfg.PdfToTextPath), nil
	default:
		return nil, eris.Errorf("pdftext: unknown provider %q", cfg.Provider)
	}
}
