package documents

import "time"

// DocumentResponse is the outward-facing representation of a document.
type DocumentResponse struct {
	ID              string     `json:"id"`
	CaseID          string     `json:"caseId,omitempty"`
	Title           string     `json:"title"`
	FileName        string     `json:"fileName"`
	MimeType        string     `json:"mimeType"`
	SizeBytes       int64      `json:"sizeBytes"`
	Source          string     `json:"source"`
	ExtractedText   string     `json:"extractedText,omitempty"`
	OCRUsed         bool       `json:"ocrUsed"`
	PageCount       int        `json:"pageCount,omitempty"`
	KanoonDocID     string     `json:"kanoonDocId,omitempty"`
	KanoonCitation  string     `json:"kanoonCitation,omitempty"`
	ProcessingError string     `json:"processingError,omitempty"`
	ExtractedAt     *time.Time `json:"extractedAt,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
}

func toResponse(doc Document) DocumentResponse {
	return DocumentResponse{
		ID:              doc.ID,
		CaseID:          doc.CaseID,
		Title:           doc.Title,
		FileName:        doc.FileName,
		MimeType:        doc.MimeType,
		SizeBytes:       doc.SizeBytes,
		Source:          doc.Source,
		ExtractedText:   doc.ExtractedText,
		OCRUsed:         doc.OCRUsed,
		PageCount:       doc.PageCount,
		KanoonDocID:     doc.KanoonDocID,
		KanoonCitation:  doc.KanoonCitation,
		ProcessingError: doc.ProcessingError,
		ExtractedAt:     doc.ExtractedAt,
		CreatedAt:       doc.CreatedAt,
	}
}
