package handlers

import (
	"bytes"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/plotvista/plotvista/internal/export"
	"github.com/plotvista/plotvista/internal/services"
	"github.com/plotvista/plotvista/internal/utils"
	"gorm.io/gorm"
)

// ExportHandler handles CSV export routes
type ExportHandler struct {
	DB *gorm.DB
}

// Export handles GET /api/admin/export
// @Summary Export plot inventory
// @Description Download booking data as CSV or JSON, across all projects or scoped to one
// @Tags Admin
// @Produce text/csv
// @Security BearerAuth
// @Param projectId query string false "Limit the export to one project"
// @Param format query string false "Output format: csv (default) or json"
// @Param multiple query bool false "Emit one row per booking on multi-booked plots"
// @Success 200 {string} string "CSV payload"
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 401 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /admin/export [get]
func (h *ExportHandler) Export(c *fiber.Ctx) error {
	projectID := c.Query("projectId")
	includeMultiple := c.QueryBool("multiple") || c.QueryBool("includeMultiple")

	format := c.Query("format", "csv")
	switch format {
	case "csv", "json":
	default:
		return utils.ErrorResponse(c, "Unknown export format: "+format, fiber.StatusBadRequest, "export")
	}

	rows, err := services.ExportRows(h.DB, projectID, includeMultiple)
	if err != nil {
		return serviceError(c, err, "export")
	}

	if format == "json" {
		return c.Status(fiber.StatusOK).JSON(rows)
	}

	var buf bytes.Buffer
	if err := export.WriteCSV(&buf, rows); err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "export")
	}

	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+export.Filename(time.Now().UTC())+`"`)
	return c.Status(fiber.StatusOK).Send(buf.Bytes())
}
