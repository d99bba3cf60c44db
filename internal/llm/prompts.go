package llm

import (
	_ "embed"
	"strings"
)

var (
	//go:embed prompts/summary.txt
	promptSummary string
	//go:embed prompts/risk_assessment.txt
	promptRiskAssessment string
	//go:embed prompts/case_analysis.txt
	promptCaseAnalysis string
	//go:embed prompts/argument_generation.txt
	promptArgumentGeneration string
	//go:embed prompts/outcome_prediction.txt
	promptOutcomePrediction string
)

// SystemPrompt is prepended to every analysis call.
const SystemPrompt = `You are an expert legal analyst with deep knowledge of Indian law.
Provide accurate, well-reasoned analysis in structured form.
Focus on practical legal advice that can be used by lawyers and clients.
Be thorough but concise.`

// PromptTemplate returns the template for an analysis type and whether the
// type was recognized. Templates contain a {document_text} placeholder.
func PromptTemplate(analysisType string) (string, bool) {
	switch analysisType {
	case TypeSummary:
		return promptSummary, true
	case TypeRiskAssessment:
		return promptRiskAssessment, true
	case TypeCaseAnalysis:
		return promptCaseAnalysis, true
	case TypeArgumentGeneration:
		return promptArgumentGeneration, true
	case TypeOutcomePrediction:
		return promptOutcomePrediction, true
	default:
		return promptSummary, false
	}
}

// BuildPrompt fills the template for the given input. Document text is
// truncated to keep the request within provider limits.
func BuildPrompt(input AnalyzeInput) string {
	const maxDocumentChars = 8000

	text := input.Text
	if len(text) > maxDocumentChars {
		text = text[:maxDocumentChars]
	}

	template, _ := PromptTemplate(input.AnalysisType)
	prompt := strings.ReplaceAll(template, "{document_text}", text)

	if len(input.Context) > 0 {
		var b strings.Builder
		b.WriteString(prompt)
		b.WriteString("\n\nCase context:\n")
		for _, key := range []string{"court", "citation", "date", "case_context"} {
			if val := strings.TrimSpace(input.Context[key]); val != "" {
				b.WriteString("- " + key + ": " + val + "\n")
			}
		}
		prompt = b.String()
	}
	return prompt
}
