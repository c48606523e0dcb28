package pdftext

import (
	"bytes"
	"context"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// Library extracts text in-process via github.com/ledongthuc/pdf.
type Library struct{}

// ExtractText concatenates the plain text of every page. Pages that yield
// no text are skipped rather than failing the whole document: the bulletin
// occasionally embeds scanned imagery on trailing pages.
func (Library) ExtractText(ctx context.Context, data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", eris.Wrap(err, "pdftext: open document")
	}

	var sb strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		if err := ctx.Err(); err != nil {
			return "", eris.Wrap(err, "pdftext: canceled")
		}
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			zap.L().Debug("pdftext: page yielded no text",
				zap.Int("page", i),
				zap.Error(err),
			)
			continue
		}
		sb.WriteString(text)
	}

	return sb.String(), nil
}
