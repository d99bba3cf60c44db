package extract

import (
	"context"
	"os/exec"

	"github.com/otiai10/gosseract/v2"
)

// OCREngine recognizes text in an image payload.
type OCREngine interface {
	Recognize(ctx context.Context, image []byte) (string, error)
	Available() bool
}

// TesseractEngine implements OCREngine with gosseract.
type TesseractEngine struct {
	languages []string
}

// NewTesseractEngine constructs an engine; languages defaults to English.
func NewTesseractEngine(languages ...string) *TesseractEngine {
	if len(languages) == 0 {
		languages = []string{"eng"}
	}
	return &TesseractEngine{languages: languages}
}

// Available reports whether the tesseract binary can be found.
func (t *TesseractEngine) Available() bool {
	_, err := exec.LookPath("tesseract")
	return err == nil
}

// Recognize runs OCR over the image. gosseract has no context support, so
// cancellation is only checked before the call.
func (t *TesseractEngine) Recognize(ctx context.Context, image []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetLanguage(t.languages...); err != nil {
		return "", err
	}
	if err := client.SetImageFromBytes(image); err != nil {
		return "", err
	}
	return client.Text()
}

var _ OCREngine = (*TesseractEngine)(nil)
