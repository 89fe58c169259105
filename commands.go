package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"hotel-reviews/export"
	"hotel-reviews/models"
	"hotel-reviews/render"
	"hotel-reviews/server"
	"hotel-reviews/services"
	"hotel-reviews/snapshot"
	"hotel-reviews/storage"
)

var (
	reportFormat string
	reportOutput string

	serveAddr string

	exportXLSX string
	exportCSV  string

	snapshotOut    string
	snapshotFormat string
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print averages and the filtered review cards",
	Long: `Print the dataset averages and the review cards for one topic and
hotel selection.

Formats:
  text      Boxed terminal report (default)
  json      Insights and page as JSON
  yaml      Insights and page as YAML
  markdown  The dashboard page as Markdown`,
	RunE: runReport,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the interactive dashboard over HTTP",
	RunE:  runServe,
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write global and per-hotel averages to XLSX and CSV",
	RunE:  runExport,
}

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Render the dashboard page to PNG or PDF with headless Chrome",
	RunE:  runSnapshot,
}

func init() {
	reportCmd.Flags().StringVarP(&reportFormat, "format", "f", "text", "Output format: text, json, yaml, markdown")
	reportCmd.Flags().StringVarP(&reportOutput, "output", "o", "", "Output file path (default: stdout)")
	addQueryFlags(reportCmd)

	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default from config)")

	exportCmd.Flags().StringVar(&exportXLSX, "xlsx", "", "Workbook path (default from config)")
	exportCmd.Flags().StringVar(&exportCSV, "csv", "", "CSV path (default from config)")

	snapshotCmd.Flags().StringVar(&snapshotOut, "out", "", "Snapshot path (default from config)")
	snapshotCmd.Flags().StringVar(&snapshotFormat, "format", "", "png or pdf (default: from the file extension)")
	addQueryFlags(snapshotCmd)

	rootCmd.AddCommand(reportCmd, serveCmd, exportCmd, snapshotCmd)
}

func runReport(cmd *cobra.Command, args []string) error {
	s, err := bootstrap(cmd.Context())
	if err != nil {
		return err
	}

	var out io.Writer = os.Stdout
	if reportOutput != "" {
		if err := os.MkdirAll(filepath.Dir(reportOutput), 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
		f, err := os.Create(reportOutput)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", reportOutput, err)
		}
		defer f.Close()
		out = f
	}

	page := s.dash.Page(s.query())
	switch strings.ToLower(reportFormat) {
	case "text":
		services.PrintInsightReport(out, s.dataset.Insights)
		services.PrintCards(out, page)
		return nil
	case "json":
		return render.JSON(out, reportDoc{Insights: s.dataset.Insights, Page: page})
	case "yaml":
		return render.YAML(out, reportDoc{Insights: s.dataset.Insights, Page: page})
	case "markdown", "md":
		content, err := render.Markdown(page)
		if err != nil {
			return err
		}
		_, err = io.WriteString(out, content)
		return err
	default:
		return fmt.Errorf("unknown format %q (want text, json, yaml or markdown)", reportFormat)
	}
}

type reportDoc struct {
	Insights *models.Insights `json:"insights" yaml:"insights"`
	Page     *models.Page     `json:"page" yaml:"page"`
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	s, err := bootstrap(ctx)
	if err != nil {
		return err
	}

	addr := serveAddr
	if addr == "" {
		addr = s.cfg.HTTPAddr
	}
	return server.ListenAndServe(ctx, addr, server.New(s.cfg, s.dash, s.logger), s.logger)
}

func runExport(cmd *cobra.Command, args []string) error {
	s, err := bootstrap(cmd.Context())
	if err != nil {
		return err
	}

	xlsxPath := exportXLSX
	if xlsxPath == "" {
		xlsxPath = s.cfg.ExportPath
	}
	csvPath := exportCSV
	if csvPath == "" {
		csvPath = s.cfg.CSVExportPath
	}

	// ========= XLSX ===========================
	if err := export.SaveWorkbook(xlsxPath, s.dataset.Insights); err != nil {
		s.logger.Error("Failed to write workbook: %v", err)
		return err
	}
	s.logger.Info("Averages workbook written to: %s", xlsxPath)

	// ========= CSV ===========================
	var writer storage.AveragesWriter = storage.NewCSVWriter(csvPath, s.logger)
	if err := writer.WriteAverages(s.dataset.Insights); err != nil {
		s.logger.Error("Failed to write CSV: %v", err)
		return err
	}

	fmt.Println(" Done! Workbook →", xlsxPath)
	fmt.Println(" CSV →", csvPath)
	return nil
}

func runSnapshot(cmd *cobra.Command, args []string) error {
	s, err := bootstrap(cmd.Context())
	if err != nil {
		return err
	}

	path := snapshotOut
	if path == "" {
		path = s.cfg.SnapshotPath
	}
	format := snapshot.FormatFromPath(path)
	if snapshotFormat != "" {
		if format, err = snapshot.ParseFormat(snapshotFormat); err != nil {
			return err
		}
	}

	var html strings.Builder
	if err := render.HTML(&html, s.dash.Page(s.query())); err != nil {
		return err
	}

	return snapshot.New(s.cfg, s.logger).CaptureToFile(cmd.Context(), []byte(html.String()), format, path)
}
