package workerproc

import (
	"errors"
	"testing"
)

func TestParseMessage(t *testing.T) {
	msg, meta, err := ParseMessage(`{"documentId":"doc-1","userId":"u-1","requestId":"r-1","version":1}`)
	if err != nil {
		t.Fatalf("ParseMessage: %v", err)
	}
	if msg.DocumentID != "doc-1" || msg.UserID != "u-1" {
		t.Fatalf("msg = %+v", msg)
	}
	if meta.BodyLen == 0 || meta.BodySHA == "" {
		t.Fatalf("meta = %+v", meta)
	}
}

func TestParseMessageEmpty(t *testing.T) {
	_, _, err := ParseMessage("   ")
	var empty ErrEmptyBody
	if !errors.As(err, &empty) {
		t.Fatalf("error = %v, want ErrEmptyBody", err)
	}
}

func TestParseMessageGarbage(t *testing.T) {
	_, meta, err := ParseMessage("{nope")
	var decode ErrDecode
	if !errors.As(err, &decode) {
		t.Fatalf("error = %v, want ErrDecode", err)
	}
	if meta.BodyLen != 5 {
		t.Fatalf("BodyLen = %d", meta.BodyLen)
	}
}

func TestParseMessageMissingDocumentID(t *testing.T) {
	_, _, err := ParseMessage(`{"requestId":"r-9"}`)
	var missing ErrMissingDocumentID
	if !errors.As(err, &missing) {
		t.Fatalf("error = %v, want ErrMissingDocumentID", err)
	}
	if missing.RequestID != "r-9" {
		t.Fatalf("RequestID = %q", missing.RequestID)
	}
}
