package extract

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"
)

// OcrClient extracts PDF text through the external OCR service. The
// service returns pages already in document order.
type OcrClient struct {
	baseURL string
	client  *http.Client
}

func NewOcrClient(baseURL string) *OcrClient {
	if baseURL == "" {
		return nil
	}
	return &OcrClient{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: 120 * time.Second,
		},
	}
}

type ocrPageResponse struct {
	Pages []struct {
		PageNumber int    `json:"page_number"`
		Text       string `json:"text"`
	} `json:"pages"`
	Error string `json:"error,omitempty"`
}

func (c *OcrClient) Extract(ctx context.Context, fileBytes []byte, contentType string) ([]Page, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", "document.pdf")
	if err != nil {
		return nil, fmt.Errorf("create form file: %w", err)
	}
	if _, err := part.Write(fileBytes); err != nil {
		return nil, fmt.Errorf("write form file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("close multipart writer: %w", err)
	}

	url := c.baseURL + "/extract"
	req, err := http.NewRequestWithContext(ctx, "POST", url, &body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ocr request failed: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read ocr response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ocr error: status %d, body: %s", resp.StatusCode, string(bodyBytes))
	}

	var ocrResp ocrPageResponse
	if err := json.Unmarshal(bodyBytes, &ocrResp); err != nil {
		return nil, fmt.Errorf("decode ocr response: %w", err)
	}
	if ocrResp.Error != "" {
		return nil, fmt.Errorf("ocr service error: %s", ocrResp.Error)
	}

	pages := make([]Page, 0, len(ocrResp.Pages))
	for _, p := range ocrResp.Pages {
		pages = append(pages, Page{Number: p.PageNumber, Text: p.Text})
	}
	return pages, nil
}
