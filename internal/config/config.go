// Package config loads studyboard settings from a YAML file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"studyboard/internal/board"
	"studyboard/internal/export"
)

type Config struct {
	SaveDirectory string       `yaml:"save_directory"`
	Theme         string       `yaml:"theme"`
	Confirmations bool         `yaml:"confirmations"`
	Export        ExportConfig `yaml:"export"`
	Log           LogConfig    `yaml:"log"`
}

type ExportConfig struct {
	SVGName    string  `yaml:"svg_name"`
	PNGName    string  `yaml:"png_name"`
	CellWidth  float64 `yaml:"cell_width"`
	CellHeight float64 `yaml:"cell_height"`
}

type LogConfig struct {
	File  string `yaml:"file"`
	Level string `yaml:"level"`
}

func Default() *Config {
	return &Config{
		Theme:         board.ThemeLight.String(),
		Confirmations: true,
		Export: ExportConfig{
			SVGName:    export.DefaultSVGName,
			PNGName:    export.DefaultPNGName,
			CellWidth:  8,
			CellHeight: 16,
		},
		Log: LogConfig{Level: "info"},
	}
}

// DefaultPath is $XDG_CONFIG_HOME/studyboard/config.yaml (or the platform
// equivalent).
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "studyboard", "config.yaml")
}

// Load reads path over the defaults. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.normalize(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) normalize() error {
	if _, err := board.ParseTheme(c.Theme); err != nil {
		return err
	}
	if c.Export.SVGName == "" {
		c.Export.SVGName = Default().Export.SVGName
	}
	if c.Export.PNGName == "" {
		c.Export.PNGName = Default().Export.PNGName
	}
	if c.Export.CellWidth <= 0 || c.Export.CellHeight <= 0 {
		return fmt.Errorf("export cell size must be positive, got %vx%v", c.Export.CellWidth, c.Export.CellHeight)
	}
	c.SaveDirectory = expandPath(c.SaveDirectory)
	c.Log.File = expandPath(c.Log.File)
	return nil
}

// ThemeValue is the parsed theme; Load has already validated it.
func (c *Config) ThemeValue() board.Theme {
	t, _ := board.ParseTheme(c.Theme)
	return t
}

// SetSaveDirectory applies a directory given on the command line.
func (c *Config) SetSaveDirectory(dir string) {
	c.SaveDirectory = expandPath(dir)
}

// GetSavePath places filename in the save directory, creating it if needed.
func (c *Config) GetSavePath(filename string) string {
	if c.SaveDirectory == "" {
		return filename
	}
	os.MkdirAll(c.SaveDirectory, 0o755)
	return filepath.Join(c.SaveDirectory, filename)
}

func expandPath(value string) string {
	if value == "" {
		return ""
	}
	if strings.HasPrefix(value, "~") {
		if home, err := os.UserHomeDir(); err == nil {
			value = filepath.Join(home, strings.TrimPrefix(value, "~"))
		}
	}
	if !filepath.IsAbs(value) {
		if abs, err := filepath.Abs(value); err == nil {
			value = abs
		}
	}
	return value
}
