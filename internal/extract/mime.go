package extract

import (
	"archive/zip"
	"bytes"
	"net/http"
	"path/filepath"
	"strings"
)

const (
	mimePDF  = "application/pdf"
	mimeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	mimeText = "text/plain"
	mimeRTF  = "application/rtf"
)

var extensionMimes = map[string]string{
	".pdf":  mimePDF,
	".docx": mimeDOCX,
	".txt":  mimeText,
	".rtf":  mimeRTF,
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".tif":  "image/tiff",
	".tiff": "image/tiff",
}

// NormalizeMimeType resolves the effective MIME type from the declared type,
// content sniffing and the file extension. OOXML zips are mapped to their
// specific document type.
func NormalizeMimeType(mimeType string, fileName string, data []byte) string {
	clean := strings.ToLower(strings.TrimSpace(strings.Split(mimeType, ";")[0]))

	if clean == "" || clean == "application/octet-stream" {
		if len(data) > 0 {
			sniffLen := len(data)
			if sniffLen > 512 {
				sniffLen = 512
			}
			clean = strings.ToLower(strings.Split(http.DetectContentType(data[:sniffLen]), ";")[0])
		}
	}

	if clean == "application/zip" {
		if mapped := mapOOXMLFromZip(data); mapped != "" {
			return mapped
		}
	}

	if clean == "" || clean == "application/octet-stream" || clean == "application/zip" {
		if mapped, ok := extensionMimes[strings.ToLower(filepath.Ext(fileName))]; ok {
			return mapped
		}
	}

	// text/* subtypes all carry plain text for our purposes.
	if strings.HasPrefix(clean, "text/") {
		return mimeText
	}
	return clean
}

func isImageMime(mimeType string) bool {
	switch mimeType {
	case "image/jpeg", "image/png", "image/tiff":
		return true
	default:
		return false
	}
}

func mapOOXMLFromZip(data []byte) string {
	if len(data) == 0 {
		return ""
	}
	readerAt := bytes.NewReader(data)
	zr, err := zip.NewReader(readerAt, int64(len(data)))
	if err != nil {
		return ""
	}
	for _, f := range zr.File {
		name := strings.ReplaceAll(f.Name, "\\", "/")
		if name == "word/document.xml" {
			return mimeDOCX
		}
	}
	return ""
}
