package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/KaramelBytes/sheetprobe-cli/internal/utils"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var (
	abFlags     inputFlags
	abOutputDir string
	abWorkers   int
	abKeepGoing bool
	abQuiet     bool
)

type batchResult struct {
	path string
	out  string
	err  error
}

var analyzeBatchCmd = &cobra.Command{
	Use:   "analyze-batch <files...>",
	Short: "Analyze multiple XLSX/XLS/CSV/TSV files concurrently",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		files := expandInputs(args)
		if len(files) == 0 {
			return fmt.Errorf("no input files matched")
		}

		conf := activeConfig()
		opt, err := abFlags.loaderOptions(cmd, conf)
		if err != nil {
			return err
		}
		an, err := abFlags.analyzer(conf)
		if err != nil {
			return err
		}
		format, err := abFlags.outputFormat(conf)
		if err != nil {
			return err
		}
		preview := abFlags.previewRows(conf)
		workers := conf.Workers
		if abWorkers > 0 {
			workers = abWorkers
		}
		if workers <= 0 {
			workers = 1
		}

		logger.Info("batch start", zap.Int("files", len(files)), zap.Int("workers", workers))
		results := make([]batchResult, len(files))
		g, ctx := errgroup.WithContext(context.Background())
		g.SetLimit(workers)
		for i, path := range files {
			g.Go(func() error {
				results[i].path = path
				if err := ctx.Err(); err != nil {
					results[i].err = err
					return nil
				}
				rep, tbl, err := analyzeFile(path, opt, an)
				if err == nil {
					results[i].out, err = formatReport(rep, tbl, format, preview)
				}
				if err != nil {
					results[i].err = fmt.Errorf("%s: %w", filepath.Base(path), err)
					if !abKeepGoing {
						return results[i].err
					}
				}
				return nil
			})
		}
		waitErr := g.Wait()

		out := cmd.OutOrStdout()
		errOut := cmd.ErrOrStderr()
		total := len(files)
		failed := 0
		usedNames := map[string]struct{}{}
		for i, r := range results {
			if r.err != nil {
				failed++
				if abKeepGoing {
					fmt.Fprintf(errOut, "✗ [%d/%d] %v\n", i+1, total, r.err)
				}
				continue
			}
			if waitErr != nil {
				continue
			}
			if !abQuiet {
				fmt.Fprintf(errOut, "[%d/%d] %s\n", i+1, total, filepath.Base(r.path))
			}
			if abOutputDir != "" {
				dest, err := reportPath(abOutputDir, r.path, abFlags.sheetName, format, usedNames)
				if err != nil {
					return err
				}
				if err := writeBatchFile(dest, r.out); err != nil {
					return err
				}
				if !abQuiet {
					fmt.Fprintf(out, "✓ Wrote analysis to %s\n", dest)
				}
				continue
			}
			fmt.Fprint(out, r.out)
			if i < total-1 {
				fmt.Fprintln(out)
			}
		}
		if waitErr != nil {
			return waitErr
		}
		logger.Info("batch done", zap.Int("files", total), zap.Int("failed", failed))
		if failed > 0 {
			return fmt.Errorf("%d of %d files failed", failed, total)
		}
		return nil
	},
}

// expandInputs resolves glob patterns and literal paths into a sorted,
// de-duplicated file list.
func expandInputs(args []string) []string {
	var files []string
	seen := map[string]struct{}{}
	for _, arg := range args {
		matches, _ := filepath.Glob(arg)
		if len(matches) == 0 {
			// treat as literal path; a missing file is reported by the loader
			matches = []string{arg}
		}
		for _, m := range matches {
			if _, ok := seen[m]; ok {
				continue
			}
			seen[m] = struct{}{}
			files = append(files, m)
		}
	}
	sort.Strings(files)
	return files
}

// reportPath names the output file for an input, appending __2, __3, ... when
// the name is already taken on disk or earlier in this batch.
func reportPath(dir, input, sheet, format string, used map[string]struct{}) (string, error) {
	base := filepath.Base(input)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	if sheet != "" {
		stem = stem + "__sheet-" + slug(sheet)
	}
	ext := formatExt(format)
	taken := func(p string) bool {
		if _, ok := used[p]; ok {
			return true
		}
		_, err := os.Stat(p)
		return err == nil
	}
	out := filepath.Join(dir, stem+ext)
	if taken(out) {
		for idx := 2; ; idx++ {
			cand := filepath.Join(dir, fmt.Sprintf("%s__%d%s", stem, idx, ext))
			if !taken(cand) {
				out = cand
				break
			}
		}
	}
	used[out] = struct{}{}
	return out, nil
}

func writeBatchFile(path, body string) error {
	if err := utils.SafeWriteFile(path, []byte(body)); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

func formatExt(format string) string {
	switch format {
	case "json":
		return ".analysis.json"
	case "yaml":
		return ".analysis.yaml"
	case "panel", "summary":
		return ".analysis.txt"
	default:
		return ".analysis.md"
	}
}

func slug(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	var b strings.Builder
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		} else if r == ' ' || r == '-' || r == '_' {
			b.WriteRune('-')
		}
	}
	out := strings.Trim(b.String(), "-")
	if out == "" {
		return "sheet"
	}
	return out
}

func init() {
	rootCmd.AddCommand(analyzeBatchCmd)
	abFlags.register(analyzeBatchCmd)
	analyzeBatchCmd.Flags().StringVar(&abOutputDir, "output-dir", "", "write one report per input file into this directory")
	analyzeBatchCmd.Flags().IntVar(&abWorkers, "workers", 0, "concurrent files (default from config workers)")
	analyzeBatchCmd.Flags().BoolVar(&abKeepGoing, "keep-going", false, "report failed files and continue with the rest")
	analyzeBatchCmd.Flags().BoolVar(&abQuiet, "quiet", false, "suppress progress and non-essential output")
}
