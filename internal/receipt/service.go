package receipt

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/parisedai/receipt-split/internal/extract"
	"github.com/parisedai/receipt-split/internal/scanning"
	"github.com/parisedai/receipt-split/internal/split"
)

// IDGenerator generates unique IDs for receipts
type IDGenerator interface {
	Generate() string
}

// TimeSource provides the current time
type TimeSource interface {
	Now() time.Time
}

// defaultIDGenerator generates UUID receipt IDs
type defaultIDGenerator struct{}

func (g *defaultIDGenerator) Generate() string {
	return uuid.NewString()
}

// defaultTimeSource provides the current time
type defaultTimeSource struct{}

func (t *defaultTimeSource) Now() time.Time {
	return time.Now()
}

// UploadResult is what one upload-and-parse request produces. When OCR
// fails, RawText describes the error, TotalAmount is zero, and no file
// is retained.
type UploadResult struct {
	RawText     string                `json:"raw_text"`
	TotalAmount decimal.Decimal       `json:"total_amount"`
	Items       []extract.ExpenseItem `json:"items"`
	Filename    string                `json:"filename,omitempty"`
	ContentType string                `json:"content_type,omitempty"`
}

// CreateReceiptParams carries the confirm step of an upload: the
// reviewed title, total, raw text, and the people to split between.
type CreateReceiptParams struct {
	Title       string
	TotalAmount decimal.Decimal
	RawText     string
	People      []string
	Filename    string
	ContentType string
}

// Service handles receipt operations
type Service struct {
	db          DB
	scanner     scanning.Scanner
	storage     Storage
	idGenerator IDGenerator
	timeSource  TimeSource
}

// NewService creates a new Service with default ID generator and time source
func NewService(db DB, scanner scanning.Scanner, storage Storage) *Service {
	return &Service{
		db:          db,
		scanner:     scanner,
		storage:     storage,
		idGenerator: &defaultIDGenerator{},
		timeSource:  &defaultTimeSource{},
	}
}

// NewServiceWithDeps creates a new Service with custom dependencies for testing
func NewServiceWithDeps(db DB, scanner scanning.Scanner, storage Storage, idGen IDGenerator, timeSrc TimeSource) *Service {
	return &Service{
		db:          db,
		scanner:     scanner,
		storage:     storage,
		idGenerator: idGen,
		timeSource:  timeSrc,
	}
}

// sanitizeFilename cleans up a filename by removing special characters and truncating length
func sanitizeFilename(filename string) string {
	ext := filepath.Ext(filename)
	base := strings.TrimSuffix(filename, ext)

	reg := regexp.MustCompile(`[^a-zA-Z0-9\s\-_]`)
	base = reg.ReplaceAllString(base, "")

	reg = regexp.MustCompile(`\s+`)
	base = reg.ReplaceAllString(base, " ")

	base = strings.TrimSpace(base)

	// Truncate to reasonable length (50 chars for base, plus extension)
	maxLen := 50
	if len(base) > maxLen {
		base = base[:maxLen]
	}

	if base == "" {
		base = "receipt"
	}

	return base + ext
}

// ProcessUpload stores an uploaded receipt file, runs the OCR pipeline
// on it, and extracts line items and a total from the text. An OCR
// engine failure is fatal to this upload but not to the request: the
// stored file is released and the result carries the error text with a
// zero total.
func (s *Service) ProcessUpload(filename string, data []byte, contentType string) (*UploadResult, error) {
	id := s.idGenerator.Generate()

	// Sanitize filename to clean up phone-generated long filenames
	cleanFilename := sanitizeFilename(filename)

	savedPath, err := s.storage.Save(fmt.Sprintf("%s_%s", id, cleanFilename), data)
	if err != nil {
		return nil, fmt.Errorf("saving file: %w", err)
	}

	rawText, err := s.scanner.ExtractText(data, contentType)
	if err != nil {
		slog.Error("Failed to scan receipt",
			"filename", filename,
			"content_type", contentType,
			"file_size", len(data),
			"error", err,
		)
		// Release the stored file; nothing will reference it
		if delErr := s.storage.Delete(savedPath); delErr != nil {
			slog.Warn("Failed to delete file after scan failure", "filename", savedPath, "error", delErr)
		}
		return &UploadResult{
			RawText:     fmt.Sprintf("Error processing receipt: %v", err),
			TotalAmount: decimal.Zero,
			Items:       []extract.ExpenseItem{},
		}, nil
	}

	totalAmount, ok := extract.Total(rawText)
	if !ok {
		totalAmount = decimal.Zero
	}

	return &UploadResult{
		RawText:     rawText,
		TotalAmount: totalAmount,
		Items:       extract.Items(rawText),
		Filename:    savedPath,
		ContentType: contentType,
	}, nil
}

// SplitExpense computes an equal split of the itemized amounts across
// people. Both lists must be non-empty; validation failures are the
// only errors this can return.
func (s *Service) SplitExpense(items []split.Item, people []string) (map[string]decimal.Decimal, error) {
	if len(items) == 0 {
		return nil, split.ErrNoItems
	}
	return split.Calculate(split.TotalFromItems(items), people)
}

// CreateReceipt confirms an upload: it computes the split for the
// reviewed total and persists the receipt record.
func (s *Service) CreateReceipt(params CreateReceiptParams) (*Receipt, error) {
	shares, err := split.Calculate(params.TotalAmount, params.People)
	if err != nil {
		return nil, err
	}

	title := strings.TrimSpace(params.Title)
	if title == "" {
		title = "Untitled Receipt"
	}

	now := s.timeSource.Now()
	receipt := &Receipt{
		ID:                 s.idGenerator.Generate(),
		Title:              title,
		TotalAmount:        params.TotalAmount,
		RawText:            params.RawText,
		SplitBetweenPeople: shares,
		Filename:           params.Filename,
		ContentType:        params.ContentType,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	if err := s.db.SaveReceipt(receipt); err != nil {
		return nil, fmt.Errorf("saving receipt to database: %w", err)
	}

	return receipt, nil
}

// RecomputeSplit recalculates a stored receipt's split for a new set
// of people. The persisted total never changes, so the invariant that
// the split was computed from TotalAmount holds after the update.
func (s *Service) RecomputeSplit(id string, people []string) (*Receipt, error) {
	receipt, err := s.db.GetReceipt(id)
	if err != nil {
		return nil, fmt.Errorf("getting receipt: %w", err)
	}

	shares, err := split.Calculate(receipt.TotalAmount, people)
	if err != nil {
		return nil, err
	}

	receipt.SplitBetweenPeople = shares
	receipt.UpdatedAt = s.timeSource.Now()

	if err := s.db.SaveReceipt(receipt); err != nil {
		return nil, fmt.Errorf("updating receipt split: %w", err)
	}

	return receipt, nil
}

// GetReceipt retrieves a receipt by ID
func (s *Service) GetReceipt(id string) (*Receipt, error) {
	receipt, err := s.db.GetReceipt(id)
	if err != nil {
		return nil, fmt.Errorf("getting receipt: %w", err)
	}
	return receipt, nil
}

// ListReceipts returns all receipts, newest first
func (s *Service) ListReceipts() ([]*Receipt, error) {
	receipts, err := s.db.ListReceipts()
	if err != nil {
		return nil, fmt.Errorf("listing receipts: %w", err)
	}
	return receipts, nil
}

// DeleteReceipt removes a receipt and its stored file
func (s *Service) DeleteReceipt(id string) error {
	receipt, err := s.db.GetReceipt(id)
	if err != nil {
		return fmt.Errorf("getting receipt for deletion: %w", err)
	}

	if receipt.Filename != "" {
		if err := s.storage.Delete(receipt.Filename); err != nil {
			// Log error but continue with database deletion
			slog.Warn("Failed to delete file", "filename", receipt.Filename, "error", err)
		}
	}

	if err := s.db.DeleteReceipt(id); err != nil {
		return fmt.Errorf("deleting receipt from database: %w", err)
	}
	return nil
}

// GetReceiptFile retrieves the stored file data for a receipt
func (s *Service) GetReceiptFile(id string) ([]byte, string, error) {
	receipt, err := s.db.GetReceipt(id)
	if err != nil {
		return nil, "", fmt.Errorf("getting receipt: %w", err)
	}

	if receipt.Filename == "" {
		return nil, "", fmt.Errorf("receipt has no stored file: %s", id)
	}

	data, err := s.storage.Get(receipt.Filename)
	if err != nil {
		return nil, "", fmt.Errorf("getting receipt file: %w", err)
	}

	return data, receipt.ContentType, nil
}
