package documents

import "time"

// Document source values. Pipeline writes use SourceKanoonFetch; uploads use
// SourceUpload.
const (
	SourceUpload      = "upload"
	SourceKanoonFetch = "kanoon-fetch"
)

// Document is a stored file or fetched judgment plus its extracted text.
type Document struct {
	ID              string
	CaseID          string
	UserID          string
	Title           string
	FileName        string
	MimeType        string
	SizeBytes       int64
	Source          string
	StorageProvider string
	StorageKey      string
	ExtractedText   string
	OCRUsed         bool
	PageCount       int
	KanoonDocID     string
	KanoonCitation  string
	ProcessingError string
	ExtractedAt     *time.Time
	CreatedAt       time.Time
}
