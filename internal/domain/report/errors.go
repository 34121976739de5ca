package report

import "errors"

var (
	ErrInvalidDateRange       = errors.New("end date must not be before start date")
	ErrRangeTooLong           = errors.New("date range is too long")
	ErrReportGenerationFailed = errors.New("failed to generate report")
)
