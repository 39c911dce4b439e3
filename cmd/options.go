package cmd

import (
	"fmt"
	"strings"

	"github.com/KaramelBytes/sheetprobe-cli/internal/analysis"
	cfgpkg "github.com/KaramelBytes/sheetprobe-cli/internal/config"
	"github.com/KaramelBytes/sheetprobe-cli/internal/loader"
	"github.com/KaramelBytes/sheetprobe-cli/internal/render"
	"github.com/KaramelBytes/sheetprobe-cli/internal/utils"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// inputFlags are the reading and detection flags shared by analyze and analyze-batch.
type inputFlags struct {
	headers    bool
	noHeaders  bool
	sampleSize int
	sheetName  string
	sheetIndex int
	delimiter  string
	decimal    string
	thousands  string
	format     string
	preview    int
}

func (f *inputFlags) register(c *cobra.Command) {
	c.Flags().BoolVar(&f.headers, "headers", true, "treat the first row as column names (default from config)")
	c.Flags().BoolVar(&f.noHeaders, "no-headers", false, "treat the first row as data")
	c.Flags().IntVar(&f.sampleSize, "sample-size", 0, "rows sampled for type detection (default from config size_type_detect)")
	c.Flags().StringVar(&f.sheetName, "sheet-name", "", "XLSX: sheet name to analyze")
	c.Flags().IntVar(&f.sheetIndex, "sheet-index", 0, "XLSX: 1-based sheet index (used if --sheet-name not provided; 0 = active sheet)")
	c.Flags().StringVar(&f.delimiter, "delimiter", "", "CSV delimiter: ',' | ';' | 'tab' | '|'")
	c.Flags().StringVar(&f.decimal, "decimal", "", "decimal separator for numbers: '.'|'comma' (auto-detect if omitted)")
	c.Flags().StringVar(&f.thousands, "thousands", "", "thousands separator for numbers: ','|'.'|'space' (auto-detect if omitted)")
	c.Flags().StringVar(&f.format, "format", "", "output format: markdown|panel|summary|json|yaml (default from config)")
	c.Flags().IntVar(&f.preview, "preview", -1, "markdown: number of head rows to include (default from config preview_rows)")
}

// hasHeaders resolves --headers/--no-headers against the configured default.
func (f *inputFlags) hasHeaders(c *cobra.Command, conf *cfgpkg.Global) bool {
	h := conf.HasHeaders
	if c.Flags().Changed("headers") {
		h = f.headers
	}
	if f.noHeaders {
		h = false
	}
	return h
}

func (f *inputFlags) loaderOptions(c *cobra.Command, conf *cfgpkg.Global) (loader.Options, error) {
	opt := loader.DefaultOptions()
	opt.HasHeaders = f.hasHeaders(c, conf)
	if len(conf.ExcelExt) > 0 {
		opt.AllowedExt = conf.ExcelExt
	}
	if len(conf.DateFormats) > 0 {
		opt.DateFormats = conf.DateFormats
	}
	opt.SheetName = strings.TrimSpace(f.sheetName)
	if f.sheetIndex < 0 {
		return opt, fmt.Errorf("invalid --sheet-index: %d (must be >= 1)", f.sheetIndex)
	}
	opt.SheetIndex = f.sheetIndex
	if f.delimiter != "" {
		switch f.delimiter {
		case ",":
			opt.Delimiter = ','
		case "\t", "tab":
			opt.Delimiter = '\t'
		case ";":
			opt.Delimiter = ';'
		case "|", "pipe":
			opt.Delimiter = '|'
		default:
			return opt, fmt.Errorf("unsupported --delimiter: %s", f.delimiter)
		}
	}
	// Locale separators
	switch strings.ToLower(strings.TrimSpace(f.decimal)) {
	case ",", "comma":
		opt.DecimalSeparator = ','
	case ".", "dot":
		opt.DecimalSeparator = '.'
	case "":
	default:
		return opt, fmt.Errorf("unsupported --decimal: %s (use '.'|'comma')", f.decimal)
	}
	switch strings.ToLower(strings.TrimSpace(f.thousands)) {
	case ",":
		opt.ThousandsSeparator = ','
	case ".":
		opt.ThousandsSeparator = '.'
	case "space", " ":
		opt.ThousandsSeparator = ' '
	case "":
	default:
		return opt, fmt.Errorf("unsupported --thousands: %s (use ','|'.'|'space')", f.thousands)
	}
	return opt, nil
}

func (f *inputFlags) analyzer(conf *cfgpkg.Global) (*analysis.Analyzer, error) {
	n := conf.SizeTypeDetect
	if f.sampleSize < 0 {
		return nil, fmt.Errorf("invalid --sample-size: %d (must be positive)", f.sampleSize)
	}
	if f.sampleSize > 0 {
		n = f.sampleSize
	}
	return analysis.NewAnalyzer(analysis.Options{SampleSize: n, Logger: logger}), nil
}

func (f *inputFlags) outputFormat(conf *cfgpkg.Global) (string, error) {
	format := strings.ToLower(strings.TrimSpace(f.format))
	if format == "" {
		format = strings.ToLower(strings.TrimSpace(conf.DefaultFormat))
	}
	if format == "" {
		format = "markdown"
	}
	switch format {
	case "markdown", "md":
		return "markdown", nil
	case "panel", "summary", "json", "yaml":
		return format, nil
	case "yml":
		return "yaml", nil
	default:
		return "", fmt.Errorf("unsupported --format: %s (use markdown|panel|summary|json|yaml)", format)
	}
}

func (f *inputFlags) previewRows(conf *cfgpkg.Global) int {
	if f.preview >= 0 {
		return f.preview
	}
	return conf.PreviewRows
}

// formatReport renders a report in one of the supported output formats.
// The preview only applies to markdown.
func formatReport(rep *analysis.Report, t *analysis.Table, format string, preview int) (string, error) {
	switch format {
	case "markdown":
		var b strings.Builder
		b.WriteString(render.Markdown(rep))
		if preview > 0 {
			b.WriteString("\n")
			b.WriteString(render.Preview(t, rep.ColumnNames, preview))
		}
		return b.String(), nil
	case "panel":
		return render.Panel(rep), nil
	case "summary":
		return analysis.Summarize(rep) + "\n", nil
	case "json":
		b, err := utils.PrettyJSON(rep)
		if err != nil {
			return "", err
		}
		return string(b) + "\n", nil
	case "yaml":
		b, err := yaml.Marshal(rep)
		if err != nil {
			return "", fmt.Errorf("marshal yaml: %w", err)
		}
		return string(b), nil
	default:
		return "", fmt.Errorf("unsupported format: %s", format)
	}
}
