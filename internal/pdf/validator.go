package pdf

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/a3tai/mcp-fnol-router/internal/pdf/extraction"
)

// Validator checks that a claim document can be handed to the extraction chain
type Validator struct {
	maxFileSize int64
	forms       *extraction.FormStrategy
}

// NewValidator creates a validator rejecting files larger than maxFileSize bytes
func NewValidator(maxFileSize int64) *Validator {
	return &Validator{
		maxFileSize: maxFileSize,
		forms:       extraction.NewFormStrategy(nil),
	}
}

// ValidateFile reports whether path is a readable PDF. Problems with the file
// are reported in the result, not as an error.
func (v *Validator) ValidateFile(req ValidateFileRequest) (*ValidateFileResult, error) {
	result := &ValidateFileResult{
		Path:  req.Path,
		Valid: false,
	}

	info, err := v.checkFile(req.Path)
	if err != nil {
		result.Message = err.Error()
		return result, nil //nolint:nilerr // validation failures are part of the result
	}
	result.Size = info.Size()

	pages, err := countPages(req.Path)
	if err != nil {
		result.Message = err.Error()
		return result, nil //nolint:nilerr // validation failures are part of the result
	}
	result.Pages = pages

	// A broken AcroForm does not make the document unusable; text and OCR still apply
	if fields, err := v.forms.ReadFormFields(req.Path); err == nil {
		result.FormFields = len(fields)
	} else if !errors.Is(err, extraction.ErrNoAcroForm) {
		result.Message = fmt.Sprintf("form fields unreadable: %v", err)
	}

	result.Valid = true
	return result, nil
}

// Check runs the file-level checks that gate processing. Whether the PDF can
// actually be read is left to the extraction chain, whose tiers differ in
// how much damage they tolerate.
func (v *Validator) Check(path string) error {
	_, err := v.checkFile(path)
	return err
}

// checkFile validates everything that can be known without parsing the PDF
func (v *Validator) checkFile(filePath string) (os.FileInfo, error) {
	if filePath == "" {
		return nil, fmt.Errorf("path cannot be empty")
	}

	fileInfo, err := os.Stat(filePath)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("file does not exist: %s", filePath)
	}
	if err != nil {
		return nil, fmt.Errorf("cannot access file: %w", err)
	}

	if err := v.ValidateFileInfo(filePath, fileInfo); err != nil {
		return nil, err
	}
	return fileInfo, nil
}

// ValidateFileInfo performs basic validation on file info without opening the PDF
func (v *Validator) ValidateFileInfo(filePath string, fileInfo os.FileInfo) error {
	if fileInfo.IsDir() {
		return fmt.Errorf("path is a directory, not a file: %s", filePath)
	}

	if !isPDFFile(filePath) {
		return fmt.Errorf("file is not a PDF: %s", filePath)
	}

	if fileInfo.Size() == 0 {
		return fmt.Errorf("file is empty: %s", filePath)
	}

	if fileInfo.Size() > v.maxFileSize {
		return fmt.Errorf("file too large: %d bytes (max: %d bytes)",
			fileInfo.Size(), v.maxFileSize)
	}

	return nil
}

func countPages(filePath string) (int, error) {
	f, r, err := pdf.Open(filePath)
	if err != nil {
		return 0, fmt.Errorf("invalid PDF file: %w", err)
	}
	defer f.Close()

	return r.NumPage(), nil
}

func isPDFFile(name string) bool {
	return strings.HasSuffix(strings.ToLower(name), ".pdf")
}
