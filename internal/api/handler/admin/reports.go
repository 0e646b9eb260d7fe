package admin

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/saturnino-fabrica-de-software/facefind/internal/backend"
	"github.com/saturnino-fabrica-de-software/facefind/internal/domain"
)

// ReportExporter downloads reports generated by the backend
type ReportExporter interface {
	Export(ctx context.Context, format backend.ReportFormat) ([]byte, error)
}

var reportContentTypes = map[backend.ReportFormat]string{
	backend.ReportCSV:  "text/csv",
	backend.ReportPDF:  "application/pdf",
	backend.ReportXLSX: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
}

type ReportsHandler struct {
	reports ReportExporter
	logger  *slog.Logger
	now     func() time.Time
}

func NewReportsHandler(reports ReportExporter, logger *slog.Logger) *ReportsHandler {
	return &ReportsHandler{
		reports: reports,
		logger:  logger,
		now:     time.Now,
	}
}

// Export GET /v1/admin/reports/export?format=csv|pdf|xlsx
func (h *ReportsHandler) Export(c *fiber.Ctx) error {
	format := backend.ReportFormat(strings.ToLower(c.Query("format", string(backend.ReportCSV))))
	contentType, ok := reportContentTypes[format]
	if !ok {
		return domain.ErrValidationFailed
	}

	body, err := h.reports.Export(c.UserContext(), format)
	if err != nil {
		if errors.Is(err, backend.ErrUnsupportedFormat) {
			return domain.ErrValidationFailed.WithError(err)
		}
		return backendError(h.logger, err, "export report", nil)
	}

	filename := "facefind-report-" + h.now().Format("20060102") + "." + string(format)
	c.Set(fiber.HeaderContentType, contentType)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)

	h.logger.Info("report exported", "format", format, "bytes", len(body), "admin_id", adminID(c))
	return c.Send(body)
}
