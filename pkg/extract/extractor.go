package extract

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
)

// Page is one unit of extracted text. Page numbers are 1-based and keep
// the document's original order.
type Page struct {
	Number int
	Text   string
}

// ErrUnsupportedFormat marks file types no extractor can handle.
type ErrUnsupportedFormat struct {
	ContentType string
}

func (e *ErrUnsupportedFormat) Error() string {
	return fmt.Sprintf("unsupported document format: %s", e.ContentType)
}

// Extractor turns raw file bytes into ordered pages of text.
type Extractor interface {
	Extract(ctx context.Context, fileBytes []byte, contentType string) ([]Page, error)
}

// DispatchExtractor picks a concrete extractor by content type, falling
// back to the file extension when the caller sent none.
type DispatchExtractor struct {
	plaintext *PlaintextExtractor
	ocr       *OcrClient
}

func NewDispatchExtractor(ocr *OcrClient) *DispatchExtractor {
	return &DispatchExtractor{
		plaintext: NewPlaintextExtractor(),
		ocr:       ocr,
	}
}

// ResolveContentType fills in a content type from the file name when the
// request carried none.
func ResolveContentType(contentType, fileName string) string {
	if contentType != "" {
		return contentType
	}
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".txt":
		return "text/plain"
	case ".md":
		return "text/markdown"
	case ".pdf":
		return "application/pdf"
	default:
		return ""
	}
}

func (d *DispatchExtractor) Extract(ctx context.Context, fileBytes []byte, contentType string) ([]Page, error) {
	base := contentType
	if i := strings.Index(base, ";"); i >= 0 {
		base = base[:i]
	}
	base = strings.TrimSpace(strings.ToLower(base))

	switch base {
	case "text/plain", "text/markdown", "text/csv":
		return d.plaintext.Extract(ctx, fileBytes, base)
	case "application/pdf":
		if d.ocr == nil {
			return nil, &ErrUnsupportedFormat{ContentType: base}
		}
		return d.ocr.Extract(ctx, fileBytes, base)
	default:
		return nil, &ErrUnsupportedFormat{ContentType: contentType}
	}
}
