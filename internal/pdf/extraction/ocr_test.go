package extraction

import (
	"context"
	"errors"
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRenderer struct {
	pages    int
	countErr error
	dpis     []float64
}

func (r *fakeRenderer) PageCount(_ string) (int, error) {
	return r.pages, r.countErr
}

func (r *fakeRenderer) RenderPage(_ context.Context, _ string, page int, dpi float64) (image.Image, error) {
	r.dpis = append(r.dpis, dpi)
	// encode the page number in the width so the transcriber can tell pages apart
	return image.NewGray(image.Rect(0, 0, page+1, 1)), nil
}

type fakeTranscriber struct {
	pages []string
	err   error
}

func (tr *fakeTranscriber) Transcribe(_ context.Context, img image.Image) (string, error) {
	if tr.err != nil {
		return "", tr.err
	}
	return tr.pages[img.Bounds().Dx()-1], nil
}

func TestOCRStrategy_Extract(t *testing.T) {
	renderer := &fakeRenderer{pages: 2}
	transcriber := &fakeTranscriber{pages: []string{
		"ACORD AUTOMOBILE LOSS NOTICE\nText7: POL-77\nVIN: first",
		"VIN: second\nESTIMATE AMOUNT_2 ： 4200",
	}}

	strategy := NewOCRStrategy(renderer, transcriber, 0, nil)
	fields, err := strategy.Extract(context.Background(), "scan.pdf")

	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"Text7":             "POL-77",
		"VIN":               "second",
		"ESTIMATE AMOUNT_2": "4200", // full-width colon folded by NFKC
	}, fields)
	assert.Equal(t, []float64{DefaultOCRDPI, DefaultOCRDPI}, renderer.dpis)
	assert.Equal(t, StrategyOCR, strategy.Name())
}

func TestOCRStrategy_NormalizesTranscription(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected map[string]string
	}{
		{
			name:     "full-width colon splits",
			text:     "Text7： POL-1",
			expected: map[string]string{"Text7": "POL-1"},
		},
		{
			name:     "full-width label letters fold to ASCII",
			text:     "ＶＩＮ: 1HG",
			expected: map[string]string{"VIN": "1HG"},
		},
		{
			name:     "ligatures expand",
			text:     "STREET LOCATION OF LOSS: Oﬃce park",
			expected: map[string]string{"STREET LOCATION OF LOSS": "Office park"},
		},
		{
			name:     "no-break space trimmed like a space",
			text:     "TEXT4:\u00a014:30\u00a0",
			expected: map[string]string{"TEXT4": "14:30"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			strategy := NewOCRStrategy(&fakeRenderer{pages: 1}, &fakeTranscriber{pages: []string{tt.text}}, 0, nil)

			fields, err := strategy.Extract(context.Background(), "scan.pdf")

			require.NoError(t, err)
			assert.Equal(t, tt.expected, fields)
		})
	}
}

func TestOCRStrategy_ExtractErrors(t *testing.T) {
	tests := []struct {
		name        string
		strategy    *OCRStrategy
		errContains string
	}{
		{
			name:        "not configured",
			strategy:    NewOCRStrategy(nil, nil, 300, nil),
			errContains: "not configured",
		},
		{
			name:        "page count failure",
			strategy:    NewOCRStrategy(&fakeRenderer{countErr: errors.New("mupdf: cannot open")}, &fakeTranscriber{}, 300, nil),
			errContains: "failed to count pages",
		},
		{
			name:        "transcription failure",
			strategy:    NewOCRStrategy(&fakeRenderer{pages: 1}, &fakeTranscriber{err: errors.New("no tessdata")}, 300, nil),
			errContains: "failed to transcribe page 1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fields, err := tt.strategy.Extract(context.Background(), "scan.pdf")
			assert.Nil(t, fields)
			assert.ErrorContains(t, err, tt.errContains)
		})
	}
}
