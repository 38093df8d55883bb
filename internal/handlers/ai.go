package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/excel-analyzer/internal/services"
	"gorm.io/gorm"
)

// SummaryHandler handles AI summaries
type SummaryHandler struct {
	DB         *gorm.DB
	Summarizer *services.Summarizer
}

// GenerateSummary handles POST /api/ai/summary/:analysisId
// @Summary Summarize an analysis
// @Description Returns the stored summary, or generates and stores one
// @Tags AI
// @Produce json
// @Param analysisId path string true "Analysis ID"
// @Success 200 {object} services.SummaryResult
// @Failure 401 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 429 {object} utils.ErrorResponseStruct
// @Failure 502 {object} utils.ErrorResponseStruct
// @Security BearerAuth
// @Router /ai/summary/{analysisId} [post]
func (h *SummaryHandler) GenerateSummary(c *fiber.Ctx) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}

	res, err := services.GenerateSummary(c.UserContext(), h.DB, h.Summarizer, c.Params("analysisId"), user)
	if err != nil {
		return err
	}
	return c.JSON(res)
}
