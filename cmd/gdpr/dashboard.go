package main

import (
	"bytes"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/florishenkelman/gdpr-tool/internal/dashboard"
)

var dashboardCmd = &cobra.Command{
	Use:     "dashboard",
	Short:   "Summarize tasks by status, priority, and overdue",
	GroupID: "tasks",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		tasks, err := services.Tasks.List(cmd.Context())
		if err != nil {
			fail(err)
		}
		summary := dashboard.Summarize(tasks, time.Now())
		if jsonOutput {
			printJSON(summary)
			return nil
		}
		printSummaryTable(summary)
		return nil
	},
}

var dashboardExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export a task report as JSON Lines",
	Long: `Export all tasks plus their summary as a JSON Lines report. The
report goes to the path given with --file, or to the S3 bucket from
GDPR_REPORT_S3_BUCKET when no file is given.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		file, _ := cmd.Flags().GetString("file")

		tasks, err := services.Tasks.List(cmd.Context())
		if err != nil {
			fail(err)
		}

		var buf bytes.Buffer
		if err := dashboard.ExportJSONL(&buf, tasks, time.Now()); err != nil {
			return fmt.Errorf("building report: %w", err)
		}

		var dest dashboard.Destination
		var where string
		switch {
		case file != "":
			dest = &dashboard.FileDestination{Path: file}
			where = file
		case cfg.ReportS3Bucket != "":
			var err error
			dest, err = dashboard.NewS3Destination(cmd.Context(), cfg.ReportS3Bucket, cfg.ReportS3Key, cfg.ReportS3Region, cfg.ReportS3Endpoint)
			if err != nil {
				return fmt.Errorf("configuring S3 destination: %w", err)
			}
			where = fmt.Sprintf("s3://%s/%s", cfg.ReportS3Bucket, cfg.ReportS3Key)
		default:
			return fmt.Errorf("no destination; pass --file or set GDPR_REPORT_S3_BUCKET")
		}

		if err := dest.Write(cmd.Context(), buf.Bytes()); err != nil {
			return fmt.Errorf("writing report: %w", err)
		}
		fmt.Printf("exported %d tasks to %s\n", len(tasks), where)
		return nil
	},
}

func init() {
	dashboardExportCmd.Flags().String("file", "", "write the report to a local file")

	dashboardCmd.AddCommand(dashboardExportCmd)
}
