package backend

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
)

// ReportFormat is an export format accepted by /reportes/export
type ReportFormat string

const (
	ReportCSV  ReportFormat = "csv"
	ReportPDF  ReportFormat = "pdf"
	ReportXLSX ReportFormat = "xlsx"
)

var ErrUnsupportedFormat = errors.New("unsupported report format")

// ReportService wraps /reportes
type ReportService struct {
	c *Client
}

// Export downloads a report. The body is returned as is.
func (s *ReportService) Export(ctx context.Context, format ReportFormat) ([]byte, error) {
	switch format {
	case ReportCSV, ReportPDF, ReportXLSX:
	default:
		return nil, fmt.Errorf("export report: %w: %q", ErrUnsupportedFormat, format)
	}

	endpoint := "reportes/export?" + url.Values{"format": {string(format)}}.Encode()
	body, err := s.c.do(ctx, http.MethodGet, endpoint, nil, http.StatusOK)
	if err != nil {
		return nil, fmt.Errorf("export report: %w", err)
	}
	return body, nil
}
