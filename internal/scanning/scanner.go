package scanning

// Scanner defines the interface for receipt OCR operations
type Scanner interface {
	// ExtractText runs OCR on a receipt image or PDF and returns the raw text
	ExtractText(data []byte, contentType string) (string, error)
	// Close closes the scanner and releases resources
	Close() error
}
