package main

import (
	"io"
	"strconv"
	"strings"

	"github.com/cmlabs-hris/faculty-attendance/internal/domain/report"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

func renderSummary(w io.Writer, resp report.SummaryResponse) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetTitle("%s  %s .. %s", resp.UserID, resp.From, resp.To)
	t.AppendHeader(table.Row{"Date", "Check-ins", "Check-outs", "Regular", "Late", "Total", "Worked"})

	for _, day := range resp.Days {
		s := day.Summary
		worked := s.Display
		if s.Error != "" {
			worked = s.Display + ": " + s.Error
		}
		t.AppendRow(table.Row{day.Date, s.CheckIns, s.CheckOuts, s.Regular, s.Late, s.Total, worked})
	}

	t.AppendFooter(table.Row{"Total", "", "", resp.Regular, resp.Late, resp.Total, footerNote(resp)})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight},
		{Number: 3, Align: text.AlignRight},
	})
	t.Render()
}

func footerNote(resp report.SummaryResponse) string {
	var parts []string
	if resp.IncompleteDays > 0 {
		parts = append(parts, plural(resp.IncompleteDays, "incomplete day"))
	}
	if resp.ErrorDays > 0 {
		parts = append(parts, plural(resp.ErrorDays, "error day"))
	}
	if resp.LateCheckIns > 0 {
		parts = append(parts, plural(resp.LateCheckIns, "late check-in"))
	}
	return strings.Join(parts, ", ")
}

func plural(n int, noun string) string {
	s := strconv.Itoa(n) + " " + noun
	if n != 1 {
		s += "s"
	}
	return s
}
