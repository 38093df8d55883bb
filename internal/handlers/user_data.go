package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/excel-analyzer/internal/chart"
	"github.com/localnerve/excel-analyzer/internal/services"
	"github.com/localnerve/excel-analyzer/internal/types"
	"gorm.io/gorm"
)

// UserDataHandler handles a user's history, analyses and charts
type UserDataHandler struct {
	DB *gorm.DB
}

// ChartInput selects the fields and kind of a chart
type ChartInput struct {
	X         string        `json:"x"`
	Y         string        `json:"y"`
	Z         string        `json:"z"`
	ChartType string        `json:"chartType"`
	Limit     types.FlexInt `json:"limit" swaggertype:"integer"`
}

// GetHistory handles GET /api/user/history
// @Summary Upload history
// @Description The user's files, newest first, and analyses with their file
// @Tags UserData
// @Produce json
// @Success 200 {object} services.History
// @Failure 401 {object} utils.ErrorResponseStruct
// @Security BearerAuth
// @Router /user/history [get]
func (h *UserDataHandler) GetHistory(c *fiber.Ctx) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}

	history, err := services.GetHistory(c.UserContext(), h.DB, user.ID)
	if err != nil {
		return err
	}
	return c.JSON(history)
}

// GetAnalysis handles GET /api/analysis/:analysisId
// @Summary Get an analysis
// @Tags UserData
// @Produce json
// @Param analysisId path string true "Analysis ID"
// @Success 200 {object} models.Analysis
// @Failure 401 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Security BearerAuth
// @Router /analysis/{analysisId} [get]
func (h *UserDataHandler) GetAnalysis(c *fiber.Ctx) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}

	analysis, err := services.GetAnalysis(c.UserContext(), h.DB, c.Params("analysisId"), user)
	if err != nil {
		return err
	}
	return c.JSON(analysis)
}

// BuildChart handles POST /api/analysis/:analysisId/chart
// @Summary Build a chart
// @Description Compute the chart for the selected fields. Three numeric fields switch to the 3d kind.
// @Tags UserData
// @Accept json
// @Produce json
// @Param analysisId path string true "Analysis ID"
// @Param body body ChartInput true "Field selection"
// @Success 200 {object} chart.Spec
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Security BearerAuth
// @Router /analysis/{analysisId}/chart [post]
func (h *UserDataHandler) BuildChart(c *fiber.Ctx) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}

	var in ChartInput
	if err := c.BodyParser(&in); err != nil {
		return types.NewValidationError("Invalid input")
	}

	analysis, err := services.GetAnalysis(c.UserContext(), h.DB, c.Params("analysisId"), user)
	if err != nil {
		return err
	}
	rows, err := analysis.Rows()
	if err != nil {
		return types.NewPersistenceError("Failed to decode analysis data", err)
	}
	if limit := int(in.Limit); limit > 0 {
		rows = rows.Head(limit)
	}

	spec, err := chart.Build(rows, chart.Selection{X: in.X, Y: in.Y, Z: in.Z}, chart.Kind(in.ChartType))
	if err != nil {
		return err
	}
	return c.JSON(spec)
}
