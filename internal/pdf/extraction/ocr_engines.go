package extraction

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"

	"github.com/gen2brain/go-fitz"
	"github.com/otiai10/gosseract/v2"
)

// FitzRenderer rasterizes pages with MuPDF
type FitzRenderer struct{}

// NewFitzRenderer creates a MuPDF-backed renderer
func NewFitzRenderer() *FitzRenderer {
	return &FitzRenderer{}
}

// PageCount implements Renderer
func (r *FitzRenderer) PageCount(path string) (int, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return 0, fmt.Errorf("failed to open PDF: %w", err)
	}
	defer doc.Close()

	return doc.NumPage(), nil
}

// RenderPage implements Renderer. The document is reopened per page so no
// MuPDF handle outlives a call.
func (r *FitzRenderer) RenderPage(_ context.Context, path string, page int, dpi float64) (image.Image, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}
	defer doc.Close()

	img, err := doc.ImageDPI(page, dpi)
	if err != nil {
		return nil, fmt.Errorf("failed to rasterize page: %w", err)
	}
	return img, nil
}

// TesseractTranscriber runs Tesseract on rendered pages
type TesseractTranscriber struct {
	languages []string
}

// NewTesseractTranscriber creates a transcriber for the given Tesseract language codes
func NewTesseractTranscriber(languages ...string) *TesseractTranscriber {
	if len(languages) == 0 {
		languages = []string{"eng"}
	}
	return &TesseractTranscriber{languages: languages}
}

// Transcribe implements Transcriber. Each call owns its Tesseract client.
func (t *TesseractTranscriber) Transcribe(_ context.Context, img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", fmt.Errorf("failed to encode page image: %w", err)
	}

	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetLanguage(t.languages...); err != nil {
		return "", fmt.Errorf("failed to set OCR language: %w", err)
	}
	if err := client.SetImageFromBytes(buf.Bytes()); err != nil {
		return "", fmt.Errorf("failed to load page image: %w", err)
	}

	text, err := client.Text()
	if err != nil {
		return "", fmt.Errorf("tesseract failed: %w", err)
	}
	return text, nil
}
