package cnr

import (
	"errors"
	"testing"

	"legal-backend/internal/upstream"
)

func TestNormalizeExtractsCNR(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"bare", "DLCT010001232023", "DLCT010001232023"},
		{"prefixed", "CNR NO: DLCT010001232023", "DLCT010001232023"},
		{"dotted prefix", "CNR NO.DLCT010001232023", "DLCT010001232023"},
		{"surrounded", "order for CNR DLCT010001232023 dated 2023", "DLCT010001232023"},
		{"lowercase", "dlct010001232023", "DLCT010001232023"},
		{"full phrase", "Case Number Record: MHAU019999992021!", "MHAU019999992021"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Normalize(tc.in)
			if err != nil {
				t.Fatalf("Normalize(%q): %v", tc.in, err)
			}
			if got != tc.want {
				t.Fatalf("Normalize(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestNormalizeRejectsInvalid(t *testing.T) {
	cases := []struct {
		name string
		in   string
	}{
		{"empty", ""},
		{"too short", "DLCT01000123"},
		{"too long run", "DLCT0100012320234"},
		{"no digits", "ABCDEFGHIJKLMNOP"},
		{"free text", "no case identifier here"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Normalize(tc.in)
			if !errors.Is(err, upstream.ErrInvalidInput) {
				t.Fatalf("Normalize(%q) error = %v, want ErrInvalidInput", tc.in, err)
			}
		})
	}
}
