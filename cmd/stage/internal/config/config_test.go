package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestResolve_Defaults(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "go.mod", "module example.com/demo/v2\n\ngo 1.24\n")

	got, err := Resolve(dir)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got.ModulePath != "example.com/demo/v2" {
		t.Errorf("ModulePath = %q", got.ModulePath)
	}
	if got.AppName != "demo" {
		t.Errorf("AppName = %q, want demo", got.AppName)
	}
	if got.TickRate != DefaultTickRate || got.Frames != DefaultFrames {
		t.Errorf("engine = %g/%d", got.TickRate, got.Frames)
	}
	if got.LogLevel != slog.LevelInfo || got.LogFormat != "auto" {
		t.Errorf("log = %v/%s", got.LogLevel, got.LogFormat)
	}
}

func TestResolve_NoModule(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "sandbox")
	if err := os.Mkdir(dir, 0o755); err != nil {
		t.Fatal(err)
	}

	got, err := Resolve(dir)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got.ModulePath != "" || got.AppName != "sandbox" {
		t.Errorf("got module %q app %q", got.ModulePath, got.AppName)
	}
}

func TestResolve_File(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, FileName, `
app:
  name: "  playground "
engine:
  tick_rate: 30
  frames: 12
debug:
  addr: 127.0.0.1:9090
log:
  level: debug
  format: JSON
`)

	got, err := Resolve(dir)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	want := Resolved{
		Root:      dir,
		AppName:   "playground",
		TickRate:  30,
		Frames:    12,
		DebugAddr: "127.0.0.1:9090",
		LogLevel:  slog.LevelDebug,
		LogFormat: "json",
	}
	if *got != want {
		t.Errorf("Resolve = %+v, want %+v", *got, want)
	}
}

func TestResolve_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"negative tick rate", "engine:\n  tick_rate: -1\n", "tick_rate"},
		{"negative frames", "engine:\n  frames: -3\n", "frames"},
		{"bad level", "log:\n  level: loud\n", "log.level"},
		{"bad format", "log:\n  format: xml\n", "log.format"},
		{"bad yaml", "engine: [\n", "failed to parse"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeFile(t, dir, FileName, tt.content)
			_, err := Resolve(dir)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Resolve error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoad_Missing(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected error for missing explicit config")
	}
	cfg, err := LoadOptional(t.TempDir())
	if err != nil || cfg == nil {
		t.Fatalf("LoadOptional = %v, %v", cfg, err)
	}
}

func TestFindProjectRoot(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, FileName, "app:\n  name: x\n")
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}

	got, err := FindProjectRoot(nested)
	if err != nil {
		t.Fatal(err)
	}
	want, _ := filepath.Abs(root)
	if got != want {
		t.Errorf("FindProjectRoot = %q, want %q", got, want)
	}
}

func TestDefaultAppName(t *testing.T) {
	tests := []struct {
		module, dir, want string
	}{
		{"github.com/acme/scene", "/tmp/x", "scene"},
		{"github.com/acme/scene/v3", "/tmp/x", "scene"},
		{"", "/tmp/work", "work"},
	}
	for _, tt := range tests {
		if got := defaultAppName(tt.module, tt.dir); got != tt.want {
			t.Errorf("defaultAppName(%q, %q) = %q, want %q", tt.module, tt.dir, got, tt.want)
		}
	}
}
