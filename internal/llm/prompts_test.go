package llm

import (
	"strings"
	"testing"
)

func TestPromptTemplatesEmbedPlaceholder(t *testing.T) {
	types := []string{TypeSummary, TypeRiskAssessment, TypeCaseAnalysis, TypeArgumentGeneration, TypeOutcomePrediction}
	for _, typ := range types {
		template, ok := PromptTemplate(typ)
		if !ok {
			t.Errorf("PromptTemplate(%q) not recognized", typ)
			continue
		}
		if !strings.Contains(template, "{document_text}") {
			t.Errorf("template for %q missing {document_text} placeholder", typ)
		}
	}

	if _, ok := PromptTemplate("unknown"); ok {
		t.Error("unknown type should not be recognized")
	}
}

func TestBuildPromptFillsText(t *testing.T) {
	prompt := BuildPrompt(AnalyzeInput{Text: "ORDER GRANTED", AnalysisType: TypeSummary})
	if !strings.Contains(prompt, "ORDER GRANTED") {
		t.Fatalf("prompt missing document text:\n%s", prompt)
	}
	if strings.Contains(prompt, "{document_text}") {
		t.Fatal("placeholder left unfilled")
	}
	if strings.Contains(prompt, "Case context:") {
		t.Fatal("no context supplied, section should be absent")
	}
}

func TestBuildPromptTruncatesLongText(t *testing.T) {
	long := strings.Repeat("x", 20000)
	prompt := BuildPrompt(AnalyzeInput{Text: long, AnalysisType: TypeSummary})
	if strings.Contains(prompt, long) {
		t.Fatal("document text was not truncated")
	}
	if !strings.Contains(prompt, strings.Repeat("x", 8000)) {
		t.Fatal("truncated text missing from prompt")
	}
}

func TestBuildPromptContextSection(t *testing.T) {
	prompt := BuildPrompt(AnalyzeInput{
		Text:         "body",
		AnalysisType: TypeCaseAnalysis,
		Context: map[string]string{
			"court":    "Delhi High Court",
			"citation": "  ",
			"ignored":  "never printed",
		},
	})
	if !strings.Contains(prompt, "- court: Delhi High Court") {
		t.Fatalf("context line missing:\n%s", prompt)
	}
	if strings.Contains(prompt, "citation") {
		t.Fatal("blank context values should be skipped")
	}
	if strings.Contains(prompt, "never printed") {
		t.Fatal("unknown context keys should be skipped")
	}
}

func TestNormalizeType(t *testing.T) {
	cases := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"", TypeSummary, false},
		{"  Summary ", TypeSummary, false},
		{"risk-assessment", TypeRiskAssessment, false},
		{"vibes", "", true},
	}
	for _, tc := range cases {
		got, err := NormalizeType(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Errorf("NormalizeType(%q): expected error", tc.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("NormalizeType(%q): %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("NormalizeType(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
