// Package extract converts uploaded files into plain text. Text-bearing
// formats are parsed natively; image formats go through OCR.
package extract

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"

	"legal-backend/internal/shared/metrics"
	"legal-backend/internal/upstream"
)

// WarningOCRDisabled marks results where OCR was skipped by configuration.
const WarningOCRDisabled = "ocr disabled"

// Result is the outcome of one extraction.
type Result struct {
	Text      string
	PageCount int
	OCRUsed   bool
	Warning   string
}

// Extractor dispatches extraction by MIME type. OCR invocations are gated by
// a bounded counting resource: callers past the cap queue, they never fail.
type Extractor struct {
	ocr        OCREngine
	ocrEnabled bool
	gate       chan struct{}
}

// NewExtractor builds an extractor. engine may be nil when OCR is disabled.
func NewExtractor(engine OCREngine, ocrEnabled bool, maxConcurrentOCR int) *Extractor {
	if maxConcurrentOCR <= 0 {
		maxConcurrentOCR = 2
	}
	return &Extractor{
		ocr:        engine,
		ocrEnabled: ocrEnabled,
		gate:       make(chan struct{}, maxConcurrentOCR),
	}
}

// FromBytes extracts plain text from an in-memory payload.
func (e *Extractor) FromBytes(ctx context.Context, data []byte, mimeType string, fileName string) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	switch normalized := NormalizeMimeType(mimeType, fileName, data); {
	case normalized == mimePDF:
		return e.fromPDF(data)
	case normalized == mimeDOCX:
		return fromDOCX(data)
	case normalized == mimeText:
		return Result{Text: string(data)}, nil
	case normalized == mimeRTF:
		return Result{Text: stripRTF(string(data))}, nil
	case isImageMime(normalized):
		return e.fromImage(ctx, data)
	default:
		return Result{}, fmt.Errorf("%w: unsupported mime type %s", upstream.ErrExtractionFailed, normalized)
	}
}

func (e *Extractor) fromPDF(data []byte) (Result, error) {
	reader := bytes.NewReader(data)
	pdfReader, err := pdf.NewReader(reader, int64(len(data)))
	if err != nil {
		return Result{}, fmt.Errorf("%w: pdf: %s", upstream.ErrExtractionFailed, err.Error())
	}
	plain, err := pdfReader.GetPlainText()
	if err != nil {
		return Result{}, fmt.Errorf("%w: pdf: %s", upstream.ErrExtractionFailed, err.Error())
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return Result{}, fmt.Errorf("%w: pdf: %s", upstream.ErrExtractionFailed, err.Error())
	}

	result := Result{Text: buf.String(), PageCount: pdfReader.NumPage()}
	if strings.TrimSpace(result.Text) == "" {
		// Likely a scanned PDF. OCR on PDF pages is a single-attempt
		// contract we do not make; flag it instead.
		result.Warning = "no embedded text; document may require OCR"
	}
	return result, nil
}

func (e *Extractor) fromImage(ctx context.Context, data []byte) (Result, error) {
	if !e.ocrEnabled {
		return Result{Warning: WarningOCRDisabled}, nil
	}
	if e.ocr == nil || !e.ocr.Available() {
		return Result{}, fmt.Errorf("%w: tesseract not installed or not configured", upstream.ErrOCRUnavailable)
	}

	select {
	case e.gate <- struct{}{}:
	case <-ctx.Done():
		return Result{}, ctx.Err()
	}
	metrics.OCRStarted()
	defer func() {
		metrics.OCRFinished()
		<-e.gate
	}()

	text, err := e.ocr.Recognize(ctx, data)
	if err != nil {
		return Result{}, fmt.Errorf("%w: ocr: %s", upstream.ErrExtractionFailed, err.Error())
	}
	return Result{Text: text, OCRUsed: true}, nil
}

func fromDOCX(data []byte) (Result, error) {
	if len(data) == 0 {
		return Result{}, fmt.Errorf("%w: empty docx data", upstream.ErrExtractionFailed)
	}
	readerAt := bytes.NewReader(data)
	zr, err := zip.NewReader(readerAt, int64(len(data)))
	if err != nil {
		return Result{}, fmt.Errorf("%w: docx: %s", upstream.ErrExtractionFailed, err.Error())
	}

	var docFile *zip.File
	for _, f := range zr.File {
		name := strings.ReplaceAll(f.Name, "\\", "/")
		if name == "word/document.xml" {
			docFile = f
			break
		}
	}
	if docFile == nil {
		return Result{}, fmt.Errorf("%w: document.xml not found", upstream.ErrExtractionFailed)
	}

	rc, err := docFile.Open()
	if err != nil {
		return Result{}, fmt.Errorf("%w: docx: %s", upstream.ErrExtractionFailed, err.Error())
	}
	defer rc.Close()

	raw, err := io.ReadAll(rc)
	if err != nil {
		return Result{}, fmt.Errorf("%w: docx: %s", upstream.ErrExtractionFailed, err.Error())
	}

	return Result{Text: stripDocxXML(string(raw))}, nil
}

func stripDocxXML(raw string) string {
	decoder := xml.NewDecoder(strings.NewReader(raw))
	var buf strings.Builder
	for {
		tok, err := decoder.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return raw
		}
		switch t := tok.(type) {
		case xml.CharData:
			buf.WriteString(string(t))
		case xml.EndElement:
			if t.Name.Local == "p" || t.Name.Local == "br" {
				if buf.Len() > 0 {
					buf.WriteString("\n")
				}
			}
		}
	}
	return strings.TrimSpace(buf.String())
}

// stripRTF removes RTF control words and groups, keeping visible text.
func stripRTF(raw string) string {
	var buf strings.Builder
	i := 0
	for i < len(raw) {
		switch c := raw[i]; c {
		case '\\':
			i++
			for i < len(raw) && (isAlpha(raw[i]) || raw[i] == '-' || isDigit(raw[i])) {
				i++
			}
			if i < len(raw) && raw[i] == ' ' {
				i++
			}
		case '{', '}':
			i++
		case '\r', '\n':
			i++
		default:
			buf.WriteByte(c)
			i++
		}
	}
	return strings.TrimSpace(buf.String())
}

func isAlpha(c byte) bool { return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') }
func isDigit(c byte) bool { return c >= '0' && c <= '9' }
