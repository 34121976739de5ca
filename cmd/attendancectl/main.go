package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/cmlabs-hris/faculty-attendance/internal/config"
	"github.com/cmlabs-hris/faculty-attendance/internal/domain/report"
	"github.com/cmlabs-hris/faculty-attendance/internal/pkg/docstore"
	"github.com/cmlabs-hris/faculty-attendance/internal/pkg/jwt"
	"github.com/cmlabs-hris/faculty-attendance/internal/pkg/logger"
	"github.com/cmlabs-hris/faculty-attendance/internal/repository/documentdb"
	reportService "github.com/cmlabs-hris/faculty-attendance/internal/service/report"
	"github.com/urfave/cli/v2"
)

var version = "dev"

func main() {
	if err := run(os.Args, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	app := &cli.App{
		Name:      "attendancectl",
		Usage:     "inspect and export faculty attendance",
		Version:   version,
		Writer:    stdout,
		ErrWriter: stderr,
		Commands: []*cli.Command{
			summaryCommand,
			exportCommand,
			tokenCommand,
		},
	}
	return app.Run(args)
}

var rangeFlags = []cli.Flag{
	&cli.StringFlag{Name: "from", Usage: "first day, YYYY-MM-DD", Required: true},
	&cli.StringFlag{Name: "to", Usage: "last day, YYYY-MM-DD (defaults to --from)"},
}

var summaryCommand = &cli.Command{
	Name:  "summary",
	Usage: "print the reconciled working hours of one user",
	Flags: append([]cli.Flag{
		&cli.StringFlag{Name: "user", Aliases: []string{"u"}, Required: true},
	}, rangeFlags...),
	Action: func(c *cli.Context) error {
		svc, closeStore, err := openReports(c.Context)
		if err != nil {
			return err
		}
		defer closeStore()

		resp, err := svc.Summarize(c.Context, report.SummaryRequest{
			UserID: c.String("user"),
			From:   c.String("from"),
			To:     toOrFrom(c),
		})
		if err != nil {
			return err
		}

		renderSummary(c.App.Writer, resp)
		return nil
	},
}

var exportCommand = &cli.Command{
	Name:  "export",
	Usage: "write an XLSX attendance report",
	Flags: append([]cli.Flag{
		&cli.StringSliceFlag{Name: "user", Aliases: []string{"u"}, Usage: "repeat for each user", Required: true},
		&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Value: "attendance.xlsx"},
	}, rangeFlags...),
	Action: func(c *cli.Context) error {
		svc, closeStore, err := openReports(c.Context)
		if err != nil {
			return err
		}
		defer closeStore()

		f, err := os.Create(c.String("out"))
		if err != nil {
			return err
		}
		defer f.Close()

		req := report.ExportRequest{
			UserIDs: c.StringSlice("user"),
			From:    c.String("from"),
			To:      toOrFrom(c),
		}
		if err := svc.ExportXLSX(c.Context, req, f); err != nil {
			_ = os.Remove(c.String("out"))
			return err
		}

		fmt.Fprintf(c.App.Writer, "wrote %s\n", c.String("out"))
		return nil
	},
}

var tokenCommand = &cli.Command{
	Name:  "token",
	Usage: "mint a development access token with the configured secret",
	Flags: []cli.Flag{
		&cli.StringFlag{Name: "user", Aliases: []string{"u"}, Required: true},
		&cli.StringFlag{Name: "employee-id"},
		&cli.StringFlag{Name: "email"},
		&cli.BoolFlag{Name: "admin"},
	},
	Action: func(c *cli.Context) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		token, expiresAt, err := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration).GenerateAccessToken(jwt.Claims{
			UserID:     c.String("user"),
			EmployeeID: c.String("employee-id"),
			Email:      c.String("email"),
			IsAdmin:    c.Bool("admin"),
		})
		if err != nil {
			return err
		}

		fmt.Fprintln(c.App.Writer, token)
		fmt.Fprintf(c.App.ErrWriter, "expires %s\n", time.Unix(expiresAt, 0).Format(time.RFC3339))
		return nil
	},
}

func toOrFrom(c *cli.Context) string {
	if to := c.String("to"); to != "" {
		return to
	}
	return c.String("from")
}

func openReports(ctx context.Context) (report.ReportService, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	slog.SetDefault(logger.New(os.Stderr, cfg.App.LogLevel, cfg.App.Env, version))

	store, err := docstore.Open(ctx, cfg.StoreOptions())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open %s store: %w", cfg.Store.Driver, err)
	}

	svc := reportService.NewReportService(documentdb.NewDayRecordRepository(store))
	return svc, func() { _ = store.Close() }, nil
}
