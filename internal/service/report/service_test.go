package report

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cmlabs-hris/faculty-attendance/internal/domain/attendance"
	"github.com/cmlabs-hris/faculty-attendance/internal/domain/report"
	"github.com/cmlabs-hris/faculty-attendance/internal/pkg/docstore"
	"github.com/cmlabs-hris/faculty-attendance/internal/pkg/validator"
	"github.com/cmlabs-hris/faculty-attendance/internal/repository/documentdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func on(date string, hour, minute int) time.Time {
	d, _ := time.Parse("2006-01-02", date)
	return time.Date(d.Year(), d.Month(), d.Day(), hour, minute, 0, 0, time.UTC)
}

func session(date, in, out string, inH, inM, outH, outM int, late bool) attendance.CheckEvent {
	closed := on(date, outH, outM)
	return attendance.CheckEvent{
		Time24h:           in,
		Timestamp:         on(date, inH, inM),
		IsLate:            late,
		CheckOutTime24h:   out,
		CheckOutTimestamp: &closed,
	}
}

func seed(t *testing.T) (report.ReportService, attendance.DayRecordRepository) {
	t.Helper()
	store, err := docstore.NewBuntStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	repo := documentdb.NewDayRecordRepository(store)
	ctx := context.Background()

	// complete day, one regular and one late session
	require.NoError(t, repo.SaveDay(ctx, "u-1", "2024-03-04", []attendance.CheckEvent{
		session("2024-03-04", "08:00", "12:00", 8, 0, 12, 0, false),
		session("2024-03-04", "13:40", "15:00", 13, 40, 15, 0, true),
	}))
	// open check-in
	require.NoError(t, repo.SaveDay(ctx, "u-1", "2024-03-05", []attendance.CheckEvent{
		{Time24h: "09:00", Timestamp: on("2024-03-05", 9, 0)},
	}))
	// check-out recorded before its check-in
	require.NoError(t, repo.SaveDay(ctx, "u-1", "2024-03-06", []attendance.CheckEvent{
		session("2024-03-06", "10:00", "09:00", 10, 0, 9, 0, false),
	}))

	return NewReportService(repo), repo
}

func TestSummarize(t *testing.T) {
	svc, _ := seed(t)

	got, err := svc.Summarize(context.Background(), report.SummaryRequest{UserID: "u-1", From: "2024-03-01", To: "2024-03-10"})
	require.NoError(t, err)

	require.Len(t, got.Days, 3)
	assert.Equal(t, "2024-03-04", got.Days[0].Date)
	assert.Equal(t, 1, got.CompleteDays)
	assert.Equal(t, 1, got.IncompleteDays)
	assert.Equal(t, 1, got.ErrorDays)
	assert.Equal(t, 1, got.LateCheckIns)

	assert.Equal(t, 240, got.RegularMinutes)
	assert.Equal(t, 80, got.LateMinutes)
	assert.Equal(t, 320, got.TotalMinutes)
	assert.Equal(t, "5h 20m", got.Total)

	assert.Equal(t, attendance.DisplayIncomplete, got.Days[1].Summary.Display)
	assert.Equal(t, attendance.DisplayError, got.Days[2].Summary.Display)
}

func TestSummarize_EmptyRange(t *testing.T) {
	svc, _ := seed(t)

	got, err := svc.Summarize(context.Background(), report.SummaryRequest{UserID: "u-2", From: "2024-03-01", To: "2024-03-02"})
	require.NoError(t, err)
	assert.Empty(t, got.Days)
	assert.Equal(t, "0h 0m", got.Total)
}

func TestSummarize_InvalidRange(t *testing.T) {
	svc, _ := seed(t)
	ctx := context.Background()

	_, err := svc.Summarize(ctx, report.SummaryRequest{UserID: "u-1", From: "2024-03-10", To: "2024-03-01"})
	assert.ErrorIs(t, err, report.ErrInvalidDateRange)

	_, err = svc.Summarize(ctx, report.SummaryRequest{UserID: "u-1", From: "2024-01-01", To: "2024-12-31"})
	assert.ErrorIs(t, err, report.ErrRangeTooLong)

	_, err = svc.Summarize(ctx, report.SummaryRequest{UserID: "u-1", From: "03/01/2024", To: "2024-03-02"})
	var errs validator.ValidationErrors
	if assert.True(t, errors.As(err, &errs)) {
		assert.Contains(t, errs.ToMap(), "from")
	}
}

func TestExportXLSX(t *testing.T) {
	svc, _ := seed(t)

	var buf bytes.Buffer
	err := svc.ExportXLSX(context.Background(), report.ExportRequest{
		UserIDs: []string{"u-1", "u-2"},
		From:    "2024-03-01",
		To:      "2024-03-10",
	}, &buf)
	require.NoError(t, err)

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Attendance", "Totals"}, f.GetSheetList())

	rows, err := f.GetRows("Attendance")
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, "User", rows[0][0])
	assert.Equal(t, "u-1", rows[1][0])
	assert.Equal(t, "2024-03-04", rows[1][1])
	assert.Equal(t, "4h 0m + 1h 20m = 5h 20m", rows[1][8])

	totals, err := f.GetRows("Totals")
	require.NoError(t, err)
	require.Len(t, totals, 3)
	assert.Equal(t, "u-2", totals[2][0])
	assert.Equal(t, "0", totals[2][1])
}

func TestExportXLSX_RequiresUsers(t *testing.T) {
	svc, _ := seed(t)

	err := svc.ExportXLSX(context.Background(), report.ExportRequest{From: "2024-03-01", To: "2024-03-02"}, &bytes.Buffer{})
	var errs validator.ValidationErrors
	require.ErrorAs(t, err, &errs)
	assert.Contains(t, errs.ToMap(), "user_ids")
}

type countingRepo struct {
	attendance.DayRecordRepository
	loads int
}

func (r *countingRepo) GetDay(ctx context.Context, userID string, date string) ([]attendance.CheckEvent, error) {
	r.loads++
	return r.DayRecordRepository.GetDay(ctx, userID, date)
}

func TestExportXLSX_LoadsEachDayOnce(t *testing.T) {
	_, repo := seed(t)
	ctx := context.Background()

	late := session("2024-03-07", "09:50", "11:00", 9, 50, 11, 0, true)
	late.Reason = "bus"
	require.NoError(t, repo.SaveDay(ctx, "u-1", "2024-03-07", []attendance.CheckEvent{late}))

	counted := &countingRepo{DayRecordRepository: repo}
	svc := NewReportService(counted)

	var buf bytes.Buffer
	require.NoError(t, svc.ExportXLSX(ctx, report.ExportRequest{
		UserIDs: []string{"u-1"},
		From:    "2024-03-01",
		To:      "2024-03-10",
	}, &buf))
	assert.Equal(t, 10, counted.loads)

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Attendance")
	require.NoError(t, err)
	require.Len(t, rows, 5)
	assert.Equal(t, "2024-03-07", rows[4][1])
	assert.Equal(t, "1", rows[4][4])
	assert.Equal(t, "09:50 bus", rows[4][9])
}
