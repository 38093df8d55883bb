package ai

import (
	"encoding/json"
	"fmt"

	"github.com/localnerve/excel-analyzer/internal/models"
)

const (
	// SampleRows is how many leading rows are sent to the model
	SampleRows = 100
	// SampleChars caps the serialized sample, in characters
	SampleChars = 3000
)

const summaryInstruction = `Analyze this business data and provide a concise summary (3-5 sentences max).
Focus on key trends, anomalies, or patterns that would interest business users.
Use simple language and highlight only the most important insights.

Data sample:
%s

Note: Data has been truncated for analysis. Focus on overall patterns rather than specifics.`

// BuildPrompt serializes the first SampleRows rows, cuts the text to SampleChars
// characters and embeds it in the summary instruction.
func BuildPrompt(rows models.Rows) (string, error) {
	sample, err := json.Marshal(rows.Head(SampleRows))
	if err != nil {
		return "", fmt.Errorf("serialize sample: %w", err)
	}
	return fmt.Sprintf(summaryInstruction, truncateRunes(string(sample), SampleChars)), nil
}

// SummaryRequest wraps the prompt for a runtime call
func SummaryRequest(model, prompt string) GenerateRequest {
	return GenerateRequest{
		Model:    model,
		Messages: []Message{{Role: "user", Content: prompt}},
	}
}

func truncateRunes(s string, n int) string {
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}
