package scenario

import (
	"embed"
	"fmt"
	"path"
	"path/filepath"
	"sort"
	"strings"
)

//go:embed builtin/*.yaml
var builtinFS embed.FS

// Builtins returns the names of the bundled scenarios, sorted.
func Builtins() []string {
	entries, err := builtinFS.ReadDir("builtin")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), ".yaml"))
	}
	sort.Strings(names)
	return names
}

// Builtin parses the bundled scenario called name.
func Builtin(name string) (*Scenario, error) {
	data, err := builtinFS.ReadFile(path.Join("builtin", name+".yaml"))
	if err != nil {
		return nil, fmt.Errorf("scenario: no built-in scenario %q (have %s)", name, strings.Join(Builtins(), ", "))
	}
	return Parse(data)
}

// Resolve returns the built-in scenario called arg, or parses arg as a file
// when it ends in .yaml or .yml.
func Resolve(arg string) (*Scenario, error) {
	switch filepath.Ext(arg) {
	case ".yaml", ".yml":
		return LoadFile(arg)
	default:
		return Builtin(arg)
	}
}
