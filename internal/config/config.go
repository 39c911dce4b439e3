package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Global configuration structure.
type Global struct {
	HasHeaders     bool     `mapstructure:"has_headers" yaml:"has_headers"`
	SizeTypeDetect int      `mapstructure:"size_type_detect" yaml:"size_type_detect"`
	ExcelExt       []string `mapstructure:"excel_ext" yaml:"excel_ext"`
	DateFormats    []string `mapstructure:"date_formats" yaml:"date_formats"`
	DefaultFormat  string   `mapstructure:"default_format" yaml:"default_format"`
	PreviewRows    int      `mapstructure:"preview_rows" yaml:"preview_rows"`
	Workers        int      `mapstructure:"workers" yaml:"workers"`

	// Logging
	LogLevel  string `mapstructure:"log_level" yaml:"log_level"`
	LogFormat string `mapstructure:"log_format" yaml:"log_format"`
}

// Defaults mirrors the values Load falls back to.
func Defaults() Global {
	return Global{
		HasHeaders:     true,
		SizeTypeDetect: 100,
		ExcelExt:       []string{"*.xlsx", "*.xls", "*.csv", "*.tsv"},
		DateFormats: []string{
			"2006-01-02",
			"2006-01-02 15:04:05",
			"2006-01-02 15:04",
			"2006-01-02T15:04:05Z07:00",
			"2006/01/02",
			"02.01.2006",
			"02.01.2006 15:04:05",
			"01/02/2006",
		},
		DefaultFormat: "markdown",
		PreviewRows:   0,
		Workers:       4,
		LogLevel:      "warn",
		LogFormat:     "console",
	}
}

func configDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".sheetprobe"), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.sheetprobe/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	path := cfgFile
	if path == "" {
		dir, err := configDir()
		if err != nil {
			return err
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: env > config file > defaults.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("SHEETPROBE")
	v.AutomaticEnv()

	d := Defaults()
	v.SetDefault("has_headers", d.HasHeaders)
	v.SetDefault("size_type_detect", d.SizeTypeDetect)
	v.SetDefault("excel_ext", d.ExcelExt)
	v.SetDefault("date_formats", d.DateFormats)
	v.SetDefault("default_format", d.DefaultFormat)
	v.SetDefault("preview_rows", d.PreviewRows)
	v.SetDefault("workers", d.Workers)
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("log_format", d.LogFormat)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", cfgFile, err)
		}
	} else {
		dir, err := configDir()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		// optional read
		_ = v.ReadInConfig()
	}

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if c.SizeTypeDetect <= 0 {
		return nil, fmt.Errorf("size_type_detect must be positive, got %d", c.SizeTypeDetect)
	}
	if c.Workers <= 0 {
		c.Workers = 1
	}
	return &c, nil
}
