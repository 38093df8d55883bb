package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/excel-analyzer/internal/export"
	"github.com/localnerve/excel-analyzer/internal/services"
	"github.com/localnerve/excel-analyzer/internal/types"
)

// ExportHandler handles chart downloads
type ExportHandler struct {
	Mirror *services.Mirror
}

// ExportInput is the chart image posted by the client
type ExportInput struct {
	Base64Image string `json:"base64Image"`
	FileName    string `json:"fileName"`
}

// ExportPDF handles POST /api/export/pdf
// @Summary Export a chart as PDF
// @Tags Export
// @Accept json
// @Produce application/pdf
// @Param body body ExportInput true "Chart image"
// @Success 200 {file} binary
// @Failure 400 {object} utils.ErrorResponseStruct
// @Security BearerAuth
// @Router /export/pdf [post]
func (h *ExportHandler) ExportPDF(c *fiber.Ctx) error {
	return h.export(c, export.PDF)
}

// ExportPNG handles POST /api/export/png
// @Summary Export a chart as PNG
// @Tags Export
// @Accept json
// @Produce image/png
// @Param body body ExportInput true "Chart image"
// @Success 200 {file} binary
// @Failure 400 {object} utils.ErrorResponseStruct
// @Security BearerAuth
// @Router /export/png [post]
func (h *ExportHandler) ExportPNG(c *fiber.Ctx) error {
	return h.export(c, export.PNG)
}

func (h *ExportHandler) export(c *fiber.Ctx, format export.Format) error {
	var in ExportInput
	if err := c.BodyParser(&in); err != nil {
		return types.NewValidationError("Invalid input")
	}

	res, err := services.Export(services.ExportInput{
		Base64Image: in.Base64Image,
		FileName:    in.FileName,
		Format:      format,
	}, h.Mirror)
	if err != nil {
		return err
	}

	c.Set(fiber.HeaderContentType, res.ContentType)
	c.Set(fiber.HeaderContentDisposition, res.Disposition)
	return c.Send(res.Body)
}
