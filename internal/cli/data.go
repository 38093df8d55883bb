package cli

import (
	"context"
	"fmt"
	"mime"
	"os"
	"path/filepath"

	"github.com/localnerve/excel-analyzer/internal/ai"
	"github.com/localnerve/excel-analyzer/internal/chart"
	"github.com/localnerve/excel-analyzer/internal/models"
	"github.com/localnerve/excel-analyzer/internal/parser"
	"github.com/spf13/cobra"
)

// readRows parses a local spreadsheet the way uploads are parsed
func readRows(path, sheet string) (models.Rows, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if sheet != "" {
		return parser.ParseWorkbookSheet(data, sheet)
	}
	return parser.Parse(data, filepath.Base(path), mime.TypeByExtension(filepath.Ext(path)))
}

func (a *app) parseCommand() *cobra.Command {
	var (
		sheet  string
		limit  int
		sheets bool
	)
	cmd := &cobra.Command{
		Use:   "parse <file>",
		Short: "Parse a spreadsheet and print its rows",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if sheets {
				data, err := os.ReadFile(args[0])
				if err != nil {
					return err
				}
				names, err := parser.SheetNames(data)
				if err != nil {
					return err
				}
				return a.print(cmd.OutOrStdout(), names)
			}

			rows, err := readRows(args[0], sheet)
			if err != nil {
				return err
			}
			if limit > 0 {
				rows = rows.Head(limit)
			}
			return a.print(cmd.OutOrStdout(), rows)
		},
	}
	cmd.Flags().StringVar(&sheet, "sheet", "", "workbook sheet to read (default is the first)")
	cmd.Flags().IntVar(&limit, "limit", 0, "print at most this many rows")
	cmd.Flags().BoolVar(&sheets, "sheets", false, "list the workbook's sheet names instead")
	return cmd
}

func (a *app) chartCommand() *cobra.Command {
	var (
		sel   chart.Selection
		kind  string
		sheet string
	)
	cmd := &cobra.Command{
		Use:   "chart <file>",
		Short: "Build the chart data for selected fields",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rows, err := readRows(args[0], sheet)
			if err != nil {
				return err
			}
			spec, err := chart.Build(rows, sel, chart.ParseKind(kind))
			if err != nil {
				return err
			}
			return a.print(cmd.OutOrStdout(), spec)
		},
	}
	cmd.Flags().StringVar(&sel.X, "x", "", "field for the X axis")
	cmd.Flags().StringVar(&sel.Y, "y", "", "field for the Y axis")
	cmd.Flags().StringVar(&sel.Z, "z", "", "field for the Z axis (3D)")
	cmd.Flags().StringVar(&kind, "kind", string(chart.Bar), "bar, line, scatter, pie or 3d")
	cmd.Flags().StringVar(&sheet, "sheet", "", "workbook sheet to read (default is the first)")
	return cmd
}

func (a *app) summarizeCommand() *cobra.Command {
	var sheet string
	cmd := &cobra.Command{
		Use:   "summarize <file>",
		Short: "Ask the AI provider for a summary of a spreadsheet without storing it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.cfg.AIAPIKey == "" {
				return ai.ErrMissingAPIKey
			}
			rows, err := readRows(args[0], sheet)
			if err != nil {
				return err
			}
			prompt, err := ai.BuildPrompt(rows)
			if err != nil {
				return err
			}

			runtime, ok := ai.GetRuntime(a.cfg.AIProvider, ai.RuntimeConfig{
				HTTPTimeout: a.cfg.AITimeout,
				RetryMax:    a.cfg.AIRetryMax,
				APIKey:      a.cfg.AIAPIKey,
				BaseURL:     a.cfg.AIBaseURL,
			})
			if !ok {
				return fmt.Errorf("unsupported ai_provider %q", a.cfg.AIProvider)
			}

			resp, err := runtime.Generate(context.Background(), ai.SummaryRequest(a.cfg.AIModel, prompt))
			if err != nil {
				return err
			}
			return a.print(cmd.OutOrStdout(), map[string]interface{}{
				"summary": resp.Text(),
				"model":   a.cfg.AIModel,
				"usage":   resp.Usage,
			})
		},
	}
	cmd.Flags().StringVar(&sheet, "sheet", "", "workbook sheet to read (default is the first)")
	return cmd
}
