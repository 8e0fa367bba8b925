// Package config loads the optional stage.yaml that configures the stage CLI.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/mod/modfile"
	"golang.org/x/mod/module"
	"gopkg.in/yaml.v3"
)

// FileName is the configuration file looked up in the project root.
const FileName = "stage.yaml"

// Config represents the optional stage.yaml configuration.
type Config struct {
	App    AppConfig    `yaml:"app"`
	Engine EngineConfig `yaml:"engine"`
	Debug  DebugConfig  `yaml:"debug"`
	Log    LogConfig    `yaml:"log"`
}

// AppConfig contains application metadata.
type AppConfig struct {
	Name string `yaml:"name,omitempty"`
}

// EngineConfig contains runtime settings.
type EngineConfig struct {
	TickRate float64 `yaml:"tick_rate,omitempty"`
	Frames   int     `yaml:"frames,omitempty"`
}

// DebugConfig configures the debug HTTP server.
type DebugConfig struct {
	Addr string `yaml:"addr,omitempty"`
}

// LogConfig configures CLI logging.
type LogConfig struct {
	Level  string `yaml:"level,omitempty"`
	Format string `yaml:"format,omitempty"`
}

// Resolved contains resolved configuration values.
type Resolved struct {
	Root       string
	ModulePath string
	AppName    string
	TickRate   float64
	Frames     int
	DebugAddr  string
	LogLevel   slog.Level
	LogFormat  string
}

// Defaults applied by Resolve.
const (
	DefaultTickRate = 60
	DefaultFrames   = 0
)

// Load reads the configuration at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", filepath.Base(path), err)
	}
	return parse(path, data)
}

// LoadOptional reads stage.yaml from dir if present.
func LoadOptional(dir string) (*Config, error) {
	path := filepath.Join(dir, FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", FileName, err)
	}
	return parse(path, data)
}

func parse(path string, data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
	}
	return &cfg, nil
}

// Resolve loads stage.yaml from dir (if present) and resolves defaults.
func Resolve(dir string) (*Resolved, error) {
	cfg, err := LoadOptional(dir)
	if err != nil {
		return nil, err
	}
	return cfg.Resolve(dir)
}

// Resolve fills in defaults for cfg relative to the project root dir. A
// missing go.mod is not an error; the app name then falls back to the
// directory name.
func (cfg *Config) Resolve(dir string) (*Resolved, error) {
	modPath, err := modulePath(dir)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	appName := strings.TrimSpace(cfg.App.Name)
	if appName == "" {
		appName = defaultAppName(modPath, dir)
	}

	tickRate := cfg.Engine.TickRate
	if tickRate == 0 {
		tickRate = DefaultTickRate
	}
	if tickRate < 0 {
		return nil, fmt.Errorf("engine.tick_rate must not be negative (got %g)", tickRate)
	}
	if cfg.Engine.Frames < 0 {
		return nil, fmt.Errorf("engine.frames must not be negative (got %d)", cfg.Engine.Frames)
	}

	level, err := parseLevel(cfg.Log.Level)
	if err != nil {
		return nil, err
	}

	format := strings.ToLower(strings.TrimSpace(cfg.Log.Format))
	switch format {
	case "":
		format = "auto"
	case "auto", "text", "json":
	default:
		return nil, fmt.Errorf("log.format must be one of auto, text, json (got %q)", cfg.Log.Format)
	}

	return &Resolved{
		Root:       dir,
		ModulePath: modPath,
		AppName:    appName,
		TickRate:   tickRate,
		Frames:     cfg.Engine.Frames,
		DebugAddr:  strings.TrimSpace(cfg.Debug.Addr),
		LogLevel:   level,
		LogFormat:  format,
	}, nil
}

// FindProjectRoot walks up from dir to the nearest directory holding
// stage.yaml or go.mod. It returns dir itself when neither is found.
func FindProjectRoot(dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	start := dir

	for {
		for _, name := range []string{FileName, "go.mod"} {
			if _, err := os.Stat(filepath.Join(dir, name)); err == nil {
				return dir, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return start, nil
		}
		dir = parent
	}
}

func modulePath(dir string) (string, error) {
	data, err := os.ReadFile(filepath.Join(dir, "go.mod"))
	if err != nil {
		return "", fmt.Errorf("failed to read go.mod: %w", err)
	}
	path := modfile.ModulePath(data)
	if path == "" {
		return "", fmt.Errorf("could not determine module path from go.mod")
	}
	return path, nil
}

func defaultAppName(modulePath, dir string) string {
	base := filepath.Base(dir)
	if modulePath != "" {
		if prefix, _, ok := module.SplitPathVersion(modulePath); ok {
			parts := strings.Split(prefix, "/")
			base = parts[len(parts)-1]
		}
	}
	if base == "" || base == "." || base == string(filepath.Separator) {
		return "stage"
	}
	return base
}

func parseLevel(s string) (slog.Level, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return slog.LevelInfo, nil
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("log.level: %w", err)
	}
	return level, nil
}
