// Package palette quantizes flow magnitudes onto discrete color scales.
package palette

import (
	"fmt"
	"math"

	"gopkg.in/yaml.v3"
)

// Scale is an ordered list of colors. A single-element scale behaves as a
// static color: every magnitude resolves to it.
type Scale []string

// IndexFor maps a magnitude within [min, max] to a scale index by linear
// position, clamped to the valid range. A degenerate range (min == max)
// is defined as index 0 rather than a division fault.
func (s Scale) IndexFor(mag, min, max float64) int {
	if len(s) <= 1 || min == max {
		return 0
	}
	idx := int(math.Round((mag - min) / (max - min) * float64(len(s)-1)))
	if idx < 0 {
		return 0
	}
	if idx > len(s)-1 {
		return len(s) - 1
	}
	return idx
}

// ColorFor resolves a magnitude directly to a color.
func (s Scale) ColorFor(mag, min, max float64) string {
	if len(s) == 0 {
		return ""
	}
	return s[s.IndexFor(mag, min, max)]
}

// UnmarshalYAML accepts either a single scalar color or a list, so a
// config can say `color_scale: "#ffffff"` as well as a full ramp.
func (s *Scale) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var one string
		if err := node.Decode(&one); err != nil {
			return err
		}
		*s = Scale{one}
		return nil
	case yaml.SequenceNode:
		var many []string
		if err := node.Decode(&many); err != nil {
			return err
		}
		*s = Scale(many)
		return nil
	default:
		return fmt.Errorf("palette: color scale must be a color or a list of colors")
	}
}

// MarshalYAML keeps single-color scales scalar on round trip.
func (s Scale) MarshalYAML() (interface{}, error) {
	if len(s) == 1 {
		return s[0], nil
	}
	return []string(s), nil
}

// Builtin scales, ordered slow to fast.
var builtin = map[string]Scale{
	"wind": {
		"#3288bd", "#66c2a5", "#abdda4", "#e6f598", "#fee08b",
		"#fdae61", "#f46d43", "#d53e4f",
	},
	"mono": {
		"#ffffff",
	},
	"ocean": {
		"#0d3b66", "#1d5d8f", "#2e7fb8", "#52a1c9", "#85c3d8",
		"#bde5e8",
	},
	"ember": {
		"#2b0f0e", "#6a1b1a", "#a83226", "#d95f2b", "#f4a742",
		"#ffe29a",
	},
}

// Get returns a builtin scale by name.
func Get(name string) (Scale, bool) {
	s, ok := builtin[name]
	return s, ok
}

// Names lists the builtin scale names.
func Names() []string {
	names := make([]string, 0, len(builtin))
	for name := range builtin {
		names = append(names, name)
	}
	return names
}
