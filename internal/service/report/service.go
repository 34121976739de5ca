package report

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/cmlabs-hris/faculty-attendance/internal/domain/attendance"
	"github.com/cmlabs-hris/faculty-attendance/internal/domain/report"
	"github.com/cmlabs-hris/faculty-attendance/internal/pkg/clocktime"
	attendanceService "github.com/cmlabs-hris/faculty-attendance/internal/service/attendance"
	"github.com/xuri/excelize/v2"
)

type ReportServiceImpl struct {
	dayRepo attendance.DayRecordRepository
}

func NewReportService(dayRepo attendance.DayRecordRepository) report.ReportService {
	return &ReportServiceImpl{dayRepo: dayRepo}
}

// Summarize implements report.ReportService.
func (s *ReportServiceImpl) Summarize(ctx context.Context, req report.SummaryRequest) (report.SummaryResponse, error) {
	if err := req.Validate(); err != nil {
		return report.SummaryResponse{}, err
	}
	return s.summarize(ctx, req.UserID, req.From, req.To)
}

func (s *ReportServiceImpl) summarize(ctx context.Context, userID, from, to string) (report.SummaryResponse, error) {
	start, end, err := report.ParseRange(from, to)
	if err != nil {
		return report.SummaryResponse{}, err
	}

	resp := report.SummaryResponse{UserID: userID, From: from, To: to, Days: []report.DaySummary{}}
	for _, date := range report.Dates(start, end) {
		events, err := s.dayRepo.GetDay(ctx, userID, date)
		if err != nil {
			return report.SummaryResponse{}, &attendance.BackendError{Op: "failed to load day record " + date, Err: err}
		}
		if len(events) == 0 {
			continue
		}

		day := report.DaySummary{Date: date, Events: len(events), Summary: attendanceService.Reconcile(events), Records: events}
		for _, e := range events {
			if e.IsLate && !e.IsCheckOut {
				day.LateCheckIns++
			}
		}
		resp.Days = append(resp.Days, day)
		resp.LateCheckIns += day.LateCheckIns

		switch summary := day.Summary; {
		case summary.HasFaults():
			resp.ErrorDays++
			continue
		case !summary.IsComplete:
			resp.IncompleteDays++
		default:
			resp.CompleteDays++
		}
		resp.RegularMinutes += day.Summary.RegularMinutes
		resp.LateMinutes += day.Summary.LateMinutes
	}

	resp.TotalMinutes = resp.RegularMinutes + resp.LateMinutes
	resp.Regular = clocktime.FormatMinutes(resp.RegularMinutes)
	resp.Late = clocktime.FormatMinutes(resp.LateMinutes)
	resp.Total = clocktime.FormatMinutes(resp.TotalMinutes)
	return resp, nil
}

var exportHeaders = []string{
	"User", "Date", "Check-ins", "Check-outs", "Late check-ins",
	"Regular (min)", "Late (min)", "Total (min)", "Worked", "Notes",
}

// ExportXLSX implements report.ReportService.
func (s *ReportServiceImpl) ExportXLSX(ctx context.Context, req report.ExportRequest, w io.Writer) error {
	if err := req.Validate(); err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()

	const daySheet = "Attendance"
	const totalSheet = "Totals"
	if err := prepareWorkbook(f, daySheet, totalSheet); err != nil {
		return fmt.Errorf("%w: %v", report.ErrReportGenerationFailed, err)
	}

	row := 2
	for u, userID := range req.UserIDs {
		summary, err := s.summarize(ctx, userID, req.From, req.To)
		if err != nil {
			return err
		}

		for _, day := range summary.Days {
			var notes []string
			for _, e := range day.Records {
				if e.IsLate && !e.IsCheckOut && e.Reason != "" {
					notes = append(notes, e.Time24h+" "+e.Reason)
				}
			}
			if day.Summary.Error != "" {
				notes = append(notes, day.Summary.Error)
			}

			values := []interface{}{
				userID, day.Date, day.Summary.CheckIns, day.Summary.CheckOuts, day.LateCheckIns,
				day.Summary.RegularMinutes, day.Summary.LateMinutes, day.Summary.TotalMinutes,
				day.Summary.Display, strings.Join(notes, "; "),
			}
			if err := f.SetSheetRow(daySheet, cell(0, row), &values); err != nil {
				return fmt.Errorf("%w: %v", report.ErrReportGenerationFailed, err)
			}
			row++
		}

		totals := []interface{}{
			userID, len(summary.Days), summary.CompleteDays, summary.IncompleteDays, summary.ErrorDays,
			summary.Regular, summary.Late, summary.Total,
		}
		if err := f.SetSheetRow(totalSheet, cell(0, u+2), &totals); err != nil {
			return fmt.Errorf("%w: %v", report.ErrReportGenerationFailed, err)
		}
	}

	if err := f.Write(w); err != nil {
		slog.Error("failed to write attendance export", "error", err)
		return fmt.Errorf("%w: %v", report.ErrReportGenerationFailed, err)
	}

	slog.Info("attendance export generated", "users", len(req.UserIDs), "from", req.From, "to", req.To, "rows", row-2)
	return nil
}

var totalHeaders = []string{"User", "Days", "Complete", "Incomplete", "Error", "Regular", "Late", "Total"}

// prepareWorkbook creates both sheets with styled header rows and drops the default sheet.
func prepareWorkbook(f *excelize.File, daySheet, totalSheet string) error {
	idx, err := f.NewSheet(daySheet)
	if err != nil {
		return err
	}
	f.SetActiveSheet(idx)
	if _, err := f.NewSheet(totalSheet); err != nil {
		return err
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return err
	}

	if err := writeHeader(f, daySheet, exportHeaders, headerStyle); err != nil {
		return err
	}
	if err := writeHeader(f, totalSheet, totalHeaders, headerStyle); err != nil {
		return err
	}

	widths := []struct {
		sheet, col string
		width      float64
	}{
		{daySheet, "A", 18},
		{daySheet, "B", 12},
		{daySheet, "I", 24},
		{daySheet, "J", 40},
		{totalSheet, "A", 18},
	}
	for _, cw := range widths {
		if err := f.SetColWidth(cw.sheet, cw.col, cw.col, cw.width); err != nil {
			return err
		}
	}
	return nil
}

func writeHeader(f *excelize.File, sheet string, headers []string, style int) error {
	for i, h := range headers {
		if err := f.SetCellValue(sheet, cell(i, 1), h); err != nil {
			return err
		}
	}
	return f.SetCellStyle(sheet, cell(0, 1), cell(len(headers)-1, 1), style)
}

// cell converts a zero-based column and one-based row into "A1" notation.
func cell(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col+1, row)
	return name
}
