package extract

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlaintextExtractor(t *testing.T) {
	e := NewPlaintextExtractor()

	pages, err := e.Extract(context.Background(), []byte("  hello world\n"), "text/plain")
	require.NoError(t, err)
	require.Len(t, pages, 1)
	assert.Equal(t, 1, pages[0].Number)
	assert.Equal(t, "hello world", pages[0].Text)
}

func TestPlaintextExtractor_EmptyFile(t *testing.T) {
	e := NewPlaintextExtractor()

	pages, err := e.Extract(context.Background(), []byte("   \n\t"), "text/plain")
	require.NoError(t, err)
	assert.Empty(t, pages)
}

func TestPlaintextExtractor_RejectsBinary(t *testing.T) {
	e := NewPlaintextExtractor()

	_, err := e.Extract(context.Background(), []byte{0xff, 0xfe, 0x00, 0x01}, "text/plain")
	var unsupported *ErrUnsupportedFormat
	assert.True(t, errors.As(err, &unsupported))
}

func TestDispatchExtractor_UnknownTypeIsUnsupported(t *testing.T) {
	d := NewDispatchExtractor(nil)

	_, err := d.Extract(context.Background(), []byte("data"), "image/png")
	var unsupported *ErrUnsupportedFormat
	require.True(t, errors.As(err, &unsupported))
	assert.Equal(t, "image/png", unsupported.ContentType)
}

func TestDispatchExtractor_PdfWithoutOcrIsUnsupported(t *testing.T) {
	d := NewDispatchExtractor(nil)

	_, err := d.Extract(context.Background(), []byte("%PDF-1.4"), "application/pdf")
	var unsupported *ErrUnsupportedFormat
	assert.True(t, errors.As(err, &unsupported))
}

func TestDispatchExtractor_StripsContentTypeParams(t *testing.T) {
	d := NewDispatchExtractor(nil)

	pages, err := d.Extract(context.Background(), []byte("hi"), "text/plain; charset=utf-8")
	require.NoError(t, err)
	assert.Len(t, pages, 1)
}

func TestResolveContentType(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		fileName    string
		expected    string
	}{
		{"explicit wins", "text/plain", "report.pdf", "text/plain"},
		{"txt extension", "", "notes.TXT", "text/plain"},
		{"markdown extension", "", "readme.md", "text/markdown"},
		{"pdf extension", "", "report.pdf", "application/pdf"},
		{"unknown extension", "", "archive.zip", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ResolveContentType(tt.contentType, tt.fileName))
		})
	}
}
