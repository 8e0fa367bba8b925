// Package scenario describes node trees and scripted input in YAML and runs
// them headlessly, recording which listeners each event reached.
//
// A scenario file looks like:
//
//	name: stacked
//	nodes:
//	  - name: back
//	    position: [200, 200]
//	    ignore_hierarchy: false
//	  - name: front
//	    position: [210, 200]
//	    ignore_hierarchy: false
//	frames:
//	  - - mouse-down left (215,210)
//	  - - mouse-up left (215,210)
//
// Events use the same text form input.Event prints.
package scenario

import (
	"bytes"
	"errors"
	"fmt"
	"image/color"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"
	"gopkg.in/yaml.v3"

	"github.com/go-drift/stage/pkg/geometry"
	"github.com/go-drift/stage/pkg/input"
)

// Node kinds.
const (
	KindGroup = "group"
	KindBox   = "box"
)

// Scenario is a node tree plus the events fed to it, one list per frame.
type Scenario struct {
	Name        string     `yaml:"name"`
	Description string     `yaml:"description,omitempty"`
	Nodes       []NodeSpec `yaml:"nodes"`
	Frames      [][]string `yaml:"frames,omitempty"`

	events [][]input.Event
}

// NodeSpec declares one node. Groups are containers that listen to every
// input kind and record deliveries; boxes only draw.
type NodeSpec struct {
	Kind            string     `yaml:"kind,omitempty"`
	Name            string     `yaml:"name,omitempty"`
	Position        []float32  `yaml:"position,omitempty"`
	Size            []float32  `yaml:"size,omitempty"`
	Colour          string     `yaml:"colour,omitempty"`
	Fill            bool       `yaml:"fill,omitempty"`
	IgnoreHierarchy *bool      `yaml:"ignore_hierarchy,omitempty"`
	Enabled         *bool      `yaml:"enabled,omitempty"`
	Visible         *bool      `yaml:"visible,omitempty"`
	Children        []NodeSpec `yaml:"children,omitempty"`
}

// Parse decodes and validates a scenario. Unknown fields are rejected.
func Parse(data []byte) (*Scenario, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var s Scenario
	if err := dec.Decode(&s); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("scenario: empty document")
		}
		return nil, fmt.Errorf("scenario: %w", err)
	}
	if err := s.compile(); err != nil {
		return nil, err
	}
	return &s, nil
}

// LoadFile parses the scenario at path.
func LoadFile(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("scenario: %w", err)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Events returns the parsed events, one slice per frame.
func (s *Scenario) Events() [][]input.Event { return s.events }

func (s *Scenario) compile() error {
	if strings.TrimSpace(s.Name) == "" {
		return fmt.Errorf("scenario: name is required")
	}
	if err := validateNodes(s.Nodes, "nodes"); err != nil {
		return err
	}

	s.events = make([][]input.Event, len(s.Frames))
	for i, frame := range s.Frames {
		for j, text := range frame {
			e, err := input.ParseEvent(text)
			if err != nil {
				return fmt.Errorf("scenario: frames[%d][%d]: %w", i, j, err)
			}
			s.events[i] = append(s.events[i], e)
		}
	}
	return nil
}

func validateNodes(specs []NodeSpec, path string) error {
	for i := range specs {
		spec := &specs[i]
		at := path + "[" + strconv.Itoa(i) + "]"

		switch spec.Kind {
		case "":
			spec.Kind = KindGroup
		case KindGroup, KindBox:
		default:
			return fmt.Errorf("scenario: %s: unknown kind %q", at, spec.Kind)
		}
		if spec.Kind == KindBox && len(spec.Children) > 0 {
			return fmt.Errorf("scenario: %s: a box cannot have children", at)
		}
		if _, err := vec(spec.Position, geometry.Vec2{}); err != nil {
			return fmt.Errorf("scenario: %s.position: %w", at, err)
		}
		if _, err := vec(spec.Size, geometry.Vec2{}); err != nil {
			return fmt.Errorf("scenario: %s.size: %w", at, err)
		}
		if _, err := ParseColour(spec.Colour); err != nil {
			return fmt.Errorf("scenario: %s.colour: %w", at, err)
		}
		if err := validateNodes(spec.Children, at+".children"); err != nil {
			return err
		}
	}
	return nil
}

func vec(v []float32, def geometry.Vec2) (geometry.Vec2, error) {
	switch len(v) {
	case 0:
		return def, nil
	case 1:
		return geometry.Splat(v[0]), nil
	case 2:
		return geometry.V(v[0], v[1]), nil
	default:
		return def, fmt.Errorf("want 1 or 2 components, got %d", len(v))
	}
}

// ParseColour accepts an SVG colour name such as "cornflowerblue" or a
// "#rrggbb" / "#rrggbbaa" hex value. The empty string yields nil.
func ParseColour(s string) (color.Color, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return nil, nil
	}
	if c, ok := colornames.Map[s]; ok {
		return c, nil
	}
	hex, ok := strings.CutPrefix(s, "#")
	if !ok || (len(hex) != 6 && len(hex) != 8) {
		return nil, fmt.Errorf("unknown colour %q", s)
	}
	if len(hex) == 6 {
		hex += "ff"
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return nil, fmt.Errorf("bad hex colour %q", s)
	}
	return color.NRGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}
