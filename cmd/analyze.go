package cmd

import (
	"fmt"
	"time"

	"github.com/KaramelBytes/sheetprobe-cli/internal/analysis"
	"github.com/KaramelBytes/sheetprobe-cli/internal/loader"
	"github.com/KaramelBytes/sheetprobe-cli/internal/utils"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	anaFlags      inputFlags
	anaOutputPath string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <file>",
	Short: "Detect column types and statistics of a XLSX/XLS/CSV/TSV file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		conf := activeConfig()
		opt, err := anaFlags.loaderOptions(cmd, conf)
		if err != nil {
			return err
		}
		an, err := anaFlags.analyzer(conf)
		if err != nil {
			return err
		}
		format, err := anaFlags.outputFormat(conf)
		if err != nil {
			return err
		}

		rep, tbl, err := analyzeFile(args[0], opt, an)
		if err != nil {
			return err
		}
		out, err := formatReport(rep, tbl, format, anaFlags.previewRows(conf))
		if err != nil {
			return err
		}

		if anaOutputPath != "" {
			if err := utils.SafeWriteFile(anaOutputPath, []byte(out)); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote analysis to %s\n", anaOutputPath)
			return nil
		}
		fmt.Fprint(cmd.OutOrStdout(), out)
		return nil
	},
}

// analyzeFile loads one file and runs the analyzer over it.
func analyzeFile(path string, opt loader.Options, an *analysis.Analyzer) (*analysis.Report, *analysis.Table, error) {
	start := time.Now()
	tbl, err := loader.Load(path, opt)
	if err != nil {
		logger.Warn("load failed", zap.String("path", path), zap.Error(err))
		return nil, nil, err
	}
	rep, err := an.Analyze(tbl, opt.HasHeaders)
	if err != nil {
		logger.Warn("analysis failed", zap.String("path", path), zap.Error(err))
		return nil, nil, err
	}
	logger.Info("analyzed file",
		zap.String("path", path),
		zap.String("sheet", tbl.SheetName),
		zap.Int("rows", rep.DataRowCount()),
		zap.Int("columns", rep.ColumnCount),
		zap.Duration("elapsed", time.Since(start)),
	)
	return rep, tbl, nil
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	anaFlags.register(analyzeCmd)
	analyzeCmd.Flags().StringVarP(&anaOutputPath, "output", "o", "", "optional path to write the report (written atomically)")
}
