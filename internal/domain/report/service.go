package report

import (
	"context"
	"io"
)

// ReportService aggregates reconciled day records over date ranges
type ReportService interface {
	// Summarize reconciles every day of the range for one user
	Summarize(ctx context.Context, req SummaryRequest) (SummaryResponse, error)

	// ExportXLSX writes a spreadsheet of per-day rows for several users to w
	ExportXLSX(ctx context.Context, req ExportRequest, w io.Writer) error
}
