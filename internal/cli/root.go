// Package cli implements analyzerctl, the operator command line for the
// analyzer: offline parsing and charting of spreadsheets, schema migration,
// orphan reconciliation and admin bootstrap.
package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/localnerve/excel-analyzer/internal/config"
	"github.com/spf13/cobra"
)

type app struct {
	cfgFile string
	output  string
	cfg     *config.Config
}

// NewRootCommand builds the command tree
func NewRootCommand() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "analyzerctl",
		Short:         "Operate the excel analyzer",
		Long:          `analyzerctl parses and charts spreadsheets locally and runs maintenance tasks against the analyzer's database and object store.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := LoadConfig(a.cfgFile)
			if err != nil {
				return err
			}
			a.cfg = cfg
			return nil
		},
	}

	root.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default is ~/.excel-analyzer/config.yaml)")
	root.PersistentFlags().StringVarP(&a.output, "output", "o", FormatJSON, "output format: json or yaml")

	root.AddCommand(
		a.parseCommand(),
		a.chartCommand(),
		a.summarizeCommand(),
		a.migrateCommand(),
		a.reconcileCommand(),
		a.createAdminCommand(),
		a.configCommand(),
	)
	return root
}

// Execute is the entry point called by main.main()
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func (a *app) print(w io.Writer, v interface{}) error {
	return render(w, a.output, v)
}
