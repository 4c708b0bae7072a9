package commands

import (
	"fmt"
	"io"
	"os"

	"elena/residency_alerts/logic"
	"elena/residency_alerts/model"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func newExportCmd(conf *model.Config) *cobra.Command {
	var view, keyword, out, format string

	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Exports the staff report as an xlsx workbook or CSV",
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != logic.ExportXLSX && format != logic.ExportCSV {
				return fmt.Errorf("invalid export format %q (want %s or %s)", format, logic.ExportXLSX, logic.ExportCSV)
			}

			p := newPipeline(conf)
			now := p.Now()
			employees := p.LoadEmployees(cmd.Context(), now)

			selected, err := logic.SelectView(employees, view, keyword)
			if err != nil {
				return err
			}
			if len(selected) == 0 {
				logrus.Info("No data to export!")
				return nil
			}

			// workbooks go to a dated file unless "-" asks for stdout
			if out == "" && format == logic.ExportXLSX {
				out = logic.ExportFileName(now, format)
			}

			var w io.Writer = cmd.OutOrStdout()
			if out != "" && out != "-" {
				file, err := os.Create(out)
				if err != nil {
					return fmt.Errorf("failed to create %s: %w", out, err)
				}
				defer file.Close()
				w = file
			}

			if err := logic.WriteExportAs(w, selected, format); err != nil {
				return fmt.Errorf("failed to write export: %w", err)
			}

			if out != "" && out != "-" {
				logrus.Infof("Exported %d employees to %s", len(selected), out)
			}
			return nil
		},
	}

	exportCmd.Flags().StringVar(
		&view,
		"view",
		logic.ViewAll,
		"employees to export: all, expiring or expired",
	)

	exportCmd.Flags().StringVar(
		&keyword,
		"search",
		"",
		"export only employees matching this keyword",
	)

	exportCmd.Flags().StringVar(
		&format,
		"format",
		logic.ExportXLSX,
		"export format: xlsx or csv",
	)

	exportCmd.Flags().StringVarP(
		&out,
		"out",
		"o",
		"",
		"output file, - for stdout; xlsx defaults to Staff_Report_<date>.xlsx, csv to stdout",
	)

	return exportCmd
}
