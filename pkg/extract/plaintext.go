package extract

import (
	"context"
	"strings"
	"unicode/utf8"
)

// PlaintextExtractor treats the whole file as one page of UTF-8 text.
type PlaintextExtractor struct{}

func NewPlaintextExtractor() *PlaintextExtractor {
	return &PlaintextExtractor{}
}

func (e *PlaintextExtractor) Extract(ctx context.Context, fileBytes []byte, contentType string) ([]Page, error) {
	if !utf8.Valid(fileBytes) {
		return nil, &ErrUnsupportedFormat{ContentType: contentType}
	}
	text := strings.TrimSpace(string(fileBytes))
	if text == "" {
		return nil, nil
	}
	return []Page{{Number: 1, Text: text}}, nil
}
