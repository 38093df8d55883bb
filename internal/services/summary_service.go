package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/localnerve/excel-analyzer/internal/ai"
	"github.com/localnerve/excel-analyzer/internal/models"
	"github.com/localnerve/excel-analyzer/internal/types"
	"gorm.io/gorm"
)

// DefaultSummaryRetryAfter is the retry hint when the provider gives none
const DefaultSummaryRetryAfter = time.Hour

const (
	msgCachedSummary    = "Using cached summary"
	msgGeneratedSummary = "AI summary generated and saved"
)

// SummaryResult is the response of a summary request
type SummaryResult struct {
	Summary string `json:"summary"`
	Message string `json:"message"`
	Cached  bool   `json:"cached"`
}

// Summarizer holds the single runtime instance built at startup
type Summarizer struct {
	Runtime ai.Runtime
	Model   string
}

// GenerateSummary returns the stored summary of an analysis, or generates,
// stores and returns one. At most one generation call is made per analysis:
// the store is conditional on the summary still being empty, and a lost race
// returns the winner's text as cached.
func GenerateSummary(ctx context.Context, db *gorm.DB, s *Summarizer, analysisID string, requester *models.User) (*SummaryResult, error) {
	analysis, err := GetAnalysis(ctx, db, analysisID, requester)
	if err != nil {
		return nil, err
	}

	if analysis.HasSummary() {
		summariesTotal.WithLabelValues("cached").Inc()
		return &SummaryResult{Summary: analysis.Summary, Message: msgCachedSummary, Cached: true}, nil
	}

	text, err := s.generate(ctx, analysis)
	if err != nil {
		summariesTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	res := db.WithContext(ctx).Model(&models.Analysis{}).
		Where("id = ? AND (summary = '' OR summary IS NULL)", analysis.ID).
		Update("summary", text)
	if res.Error != nil {
		summariesTotal.WithLabelValues("error").Inc()
		return nil, types.NewPersistenceError("Failed to save summary", res.Error)
	}

	if res.RowsAffected == 0 {
		var stored models.Analysis
		if err := db.WithContext(ctx).Select("id", "summary").First(&stored, "id = ?", analysis.ID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, types.NewNotFoundError("Analysis not found")
			}
			return nil, types.NewPersistenceError("Failed to read summary", err)
		}
		log.Printf("Summary for analysis %s was stored concurrently, returning stored text", analysis.ID)
		summariesTotal.WithLabelValues("cached").Inc()
		return &SummaryResult{Summary: stored.Summary, Message: msgCachedSummary, Cached: true}, nil
	}

	summariesTotal.WithLabelValues("generated").Inc()
	return &SummaryResult{Summary: text, Message: msgGeneratedSummary}, nil
}

func (s *Summarizer) generate(ctx context.Context, analysis *models.Analysis) (string, error) {
	if s == nil || s.Runtime == nil {
		return "", fmt.Errorf("summarize analysis %s: %w", analysis.ID, ai.ErrMissingAPIKey)
	}

	rows, err := analysis.Rows()
	if err != nil {
		return "", types.NewPersistenceError("Failed to decode analysis data", err)
	}
	prompt, err := ai.BuildPrompt(rows)
	if err != nil {
		return "", types.NewValidationError("Analysis data cannot be summarized")
	}

	resp, err := s.Runtime.Generate(ctx, ai.SummaryRequest(s.Model, prompt))
	if err != nil {
		log.Printf("AI summary failed for analysis %s: %v", analysis.ID, err)
		if retryAfter, limited := ai.IsRateLimited(err); limited {
			if retryAfter <= 0 {
				retryAfter = DefaultSummaryRetryAfter
			}
			return "", types.NewRateLimitError("API quota exceeded. Please try again later or upgrade your plan.", retryAfter, err)
		}
		if ai.IsUpstream(err) {
			return "", types.NewUpstreamError("AI service currently unavailable", err)
		}
		// cancellation, missing key and the like go to the process-wide handler
		return "", fmt.Errorf("summarize analysis %s: %w", analysis.ID, err)
	}

	text := resp.Text()
	if text == "" {
		return "", types.NewUpstreamError("AI service returned an empty summary", nil)
	}
	return text, nil
}
