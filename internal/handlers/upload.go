package handlers

import (
	"io"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/excel-analyzer/internal/services"
	"github.com/localnerve/excel-analyzer/internal/storage"
	"github.com/localnerve/excel-analyzer/internal/types"
	"gorm.io/gorm"
)

// UploadHandler handles spreadsheet uploads
type UploadHandler struct {
	DB     *gorm.DB
	Store  storage.ObjectStore
	Prefix string
}

// uploadFields are the accepted multipart field names, in order
var uploadFields = []string{"excelFile", "file"}

// UploadResponse is the body of a successful upload
type UploadResponse struct {
	services.UploadResult
	Message string `json:"message"`
}

// Upload handles POST /api/upload
// @Summary Upload a spreadsheet
// @Description Parse the first sheet, store the file and record an analysis
// @Tags Upload
// @Accept multipart/form-data
// @Produce json
// @Param excelFile formData file true "Spreadsheet (.xlsx, .xls, .csv)"
// @Success 201 {object} UploadResponse
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 401 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Failure 502 {object} utils.ErrorResponseStruct
// @Security BearerAuth
// @Router /upload [post]
func (h *UploadHandler) Upload(c *fiber.Ctx) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}

	in := services.UploadInput{OwnerID: user.ID}
	for _, field := range uploadFields {
		fh, err := c.FormFile(field)
		if err != nil {
			continue
		}
		f, err := fh.Open()
		if err != nil {
			return types.NewValidationError("Uploaded file cannot be read")
		}
		in.Data, err = io.ReadAll(f)
		f.Close()
		if err != nil {
			return types.NewValidationError("Uploaded file cannot be read")
		}
		in.Filename = fh.Filename
		in.MimeType = fh.Header.Get(fiber.HeaderContentType)
		break
	}

	res, err := services.Ingest(c.UserContext(), h.DB, h.Store, h.Prefix, in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(UploadResponse{
		UploadResult: *res,
		Message:      "File parsed and uploaded successfully",
	})
}
