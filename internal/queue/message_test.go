package queue

import "testing"

func TestDecodeMessage(t *testing.T) {
	payload := `{"documentId":"doc-1","userId":"user-1","requestId":"req-1","enqueuedAt":"2025-06-01T00:00:00Z","version":1}`
	msg, err := DecodeMessage([]byte(payload))
	if err != nil {
		t.Fatalf("DecodeMessage: %v", err)
	}
	if msg.DocumentID != "doc-1" || msg.UserID != "user-1" || msg.Version != 1 {
		t.Fatalf("msg = %+v", msg)
	}
}

func TestDecodeMessageRejectsGarbage(t *testing.T) {
	if _, err := DecodeMessage([]byte("{not json")); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	in := Message{DocumentID: "d", UserID: "u", RequestID: "r", EnqueuedAt: "2025-06-01T00:00:00Z", Version: 1}
	data, err := EncodeMessage(in)
	if err != nil {
		t.Fatalf("EncodeMessage: %v", err)
	}
	out, err := DecodeMessage(data)
	if err != nil {
		t.Fatalf("DecodeMessage: %v", err)
	}
	if out != in {
		t.Fatalf("round trip mismatch: %+v vs %+v", out, in)
	}
}
