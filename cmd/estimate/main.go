// Command estimate prices one attendance sheet offline.
//
//	estimate -registry registry.json -file 6月.xlsx -out summary.csv
//
// The registry file uses the same JSON as GET /api/v1/registry/export.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/ishiyama1989/koutuhi/internal/attendance"
	"github.com/ishiyama1989/koutuhi/internal/dateresolve"
	"github.com/ishiyama1989/koutuhi/internal/export"
	"github.com/ishiyama1989/koutuhi/internal/kvstore"
	"github.com/ishiyama1989/koutuhi/internal/registry"

	"go.uber.org/zap"
)

type options struct {
	registryPath string
	filePath     string
	sheet        string
	layout       string
	nameColumn   int
	dateStart    int
	dateEnd      int
	startRow     int
	format       string
	out          string
	verbose      bool
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var o options
	fs := flag.NewFlagSet("estimate", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&o.registryPath, "registry", "", "registry JSON export (required)")
	fs.StringVar(&o.filePath, "file", "", "attendance workbook, .xlsx or .xls (required)")
	fs.StringVar(&o.sheet, "sheet", "", "sheet name, defaults to the first sheet")
	fs.StringVar(&o.layout, "layout", "table", "table or row")
	fs.IntVar(&o.nameColumn, "name-col", 1, "0-based name column")
	fs.IntVar(&o.dateStart, "date-start", 3, "0-based first date column (table) or date column (row)")
	fs.IntVar(&o.dateEnd, "date-end", -1, "0-based last date column, -1 for the last column")
	fs.IntVar(&o.startRow, "start-row", 0, "1-based first data row, 0 for the layout default")
	fs.StringVar(&o.format, "format", "summary", "summary, detail, patterns or xlsx")
	fs.StringVar(&o.out, "out", "", "output file, defaults to stdout")
	fs.BoolVar(&o.verbose, "v", false, "log pipeline progress to stderr")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	if o.registryPath == "" || o.filePath == "" {
		fs.Usage()
		return options{}, errors.New("-registry and -file are required")
	}
	return o, nil
}

func (o options) request() attendance.PreviewRequest {
	req := attendance.PreviewRequest{
		Layout:          o.layout,
		NameColumn:      &o.nameColumn,
		DateStartColumn: &o.dateStart,
		StartRow:        o.startRow,
	}
	if o.dateEnd >= 0 {
		req.DateEndColumn = &o.dateEnd
	}
	return req
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	o, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}

	logger := zap.NewNop()
	if o.verbose {
		if logger, err = zap.NewDevelopment(); err != nil {
			return err
		}
		defer logger.Sync()
	}

	regData, err := os.ReadFile(o.registryPath)
	if err != nil {
		return err
	}
	registryService := registry.NewService(registry.NewRepository(kvstore.NewMemoryStore()), logger)
	if _, err := registryService.Import(ctx, regData); err != nil {
		return fmt.Errorf("load registry: %w", err)
	}

	data, err := os.ReadFile(o.filePath)
	if err != nil {
		return err
	}
	svc := attendance.NewService(registryService, attendance.NewMemoryRepository(0, 1), dateresolve.New(), logger)
	p, err := svc.Preview(ctx, attendance.Upload{FileName: filepath.Base(o.filePath), Data: data}, o.sheet, o.request().Mapping())
	if err != nil {
		return err
	}
	id := p.ID.String()

	var out []byte
	switch o.format {
	case "summary":
		out, err = svc.ExportCSV(ctx, id)
	case "detail":
		out, err = svc.ExportDetailCSV(ctx, id)
	case "patterns":
		out, err = svc.ExportPatternCSV(ctx, id)
	case "xlsx":
		out, err = svc.ExportXLSX(ctx, id)
	default:
		return fmt.Errorf("unknown format %q", o.format)
	}
	if err != nil {
		return err
	}

	s := attendance.Summarize(p.Facts)
	fmt.Fprintf(stderr, "%d records, %d people, total %s円\n", s.TotalRecords, len(s.People), export.Amount(s.TotalCost))

	if o.out == "" {
		_, err = stdout.Write(out)
		return err
	}
	return os.WriteFile(o.out, out, 0o644)
}

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintln(os.Stderr, "estimate:", err)
		os.Exit(1)
	}
}
