package scanning

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"strings"

	"github.com/otiai10/gosseract/v2"
)

// Tesseract implements Scanner using a local Tesseract engine. Pages
// are preprocessed before recognition, and the engine runs with page
// segmentation tuned for a single uniform block of text, which is how
// receipt columns come out of a phone camera.
type Tesseract struct {
	language string
}

// NewTesseract creates a Tesseract scanner for the given language
// (defaults to English)
func NewTesseract(language string) (*Tesseract, error) {
	if language == "" {
		language = "eng"
	}
	return &Tesseract{language: language}, nil
}

// ExtractText runs OCR on a receipt image or PDF and returns the raw
// text. PDFs are rasterized page by page; per-page output is joined
// with "--- Page N ---" markers in page order. Engine errors are
// wrapped so callers can surface them without aborting the request.
func (t *Tesseract) ExtractText(data []byte, contentType string) (string, error) {
	if isPDF(data, contentType) {
		return t.extractPDF(data)
	}

	img, err := decodeImage(data, contentType)
	if err != nil {
		return "", err
	}

	text, err := t.recognize(Preprocess(img))
	if err != nil {
		return "", fmt.Errorf("scanning image: %w", err)
	}
	return strings.TrimSpace(text), nil
}

func (t *Tesseract) extractPDF(data []byte) (string, error) {
	pages, err := pdfPages(data)
	if err != nil {
		return "", err
	}

	var parts []string
	for i, page := range pages {
		text, err := t.recognize(Preprocess(page))
		if err != nil {
			return "", fmt.Errorf("scanning PDF page %d: %w", i+1, err)
		}
		if strings.TrimSpace(text) != "" {
			parts = append(parts, fmt.Sprintf("\n--- Page %d ---\n%s", i+1, text))
		}
	}
	return strings.TrimSpace(strings.Join(parts, "\n")), nil
}

// recognize runs the engine once over a preprocessed page. A fresh
// client per page keeps the cgo handle request-scoped.
func (t *Tesseract) recognize(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", fmt.Errorf("encoding PNG: %w", err)
	}

	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetLanguage(t.language); err != nil {
		return "", fmt.Errorf("setting OCR language: %w", err)
	}
	if err := client.SetPageSegMode(gosseract.PSM_SINGLE_BLOCK); err != nil {
		return "", fmt.Errorf("setting page segmentation mode: %w", err)
	}
	if err := client.SetImageFromBytes(buf.Bytes()); err != nil {
		return "", fmt.Errorf("setting OCR image: %w", err)
	}

	text, err := client.Text()
	if err != nil {
		return "", fmt.Errorf("running OCR: %w", err)
	}
	return text, nil
}

// Close releases scanner resources. Clients are per-recognition, so
// there is nothing long-lived to tear down.
func (t *Tesseract) Close() error {
	return nil
}
