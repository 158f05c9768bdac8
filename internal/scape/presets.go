package scape

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"sort"
	"strings"

	"mayajiva/internal/landscape"
)

var ErrUnknownPreset = errors.New("unknown landscape preset")

const (
	PresetUniform  = "uniform"
	PresetDipole   = "dipole"
	PresetFault    = "fault"
	PresetGradient = "gradient"
	PresetVolcanic = "volcanic"
)

const (
	volcanicDipoles  = 12
	volcanicStrength = 10.0
	volcanicDepth    = 40.0
)

type presetBuilder func(land *landscape.Landscape, seed int64)

var presets = map[string]presetBuilder{
	PresetUniform: func(*landscape.Landscape, int64) {},
	PresetDipole: func(land *landscape.Landscape, _ int64) {
		cx, cy := land.Centre()
		land.AddAnomaly(landscape.Dipole{X: cx, Y: cy + land.Height()/5, Strength: 15, Depth: 50})
	},
	PresetFault: func(land *landscape.Landscape, _ int64) {
		cx, cy := land.Centre()
		land.AddAnomaly(landscape.Fault{X: cx, Y: cy, Azimuth: math.Pi / 4, Contrast: 10, Width: 20})
	},
	PresetGradient: func(land *landscape.Landscape, _ int64) {
		cx, cy := land.Centre()
		land.AddAnomaly(landscape.Gradient{Magnitude: 0.01, Direction: math.Pi / 2, RefX: cx, RefY: cy})
	},
	PresetVolcanic: func(land *landscape.Landscape, seed int64) {
		land.AddRandomDipoles(volcanicDipoles, volcanicStrength, volcanicDepth, rand.New(rand.NewSource(seed)))
	},
}

// NormalizePreset canonicalizes a preset name and its aliases.
func NormalizePreset(name string) string {
	normalized := strings.TrimSpace(strings.ToLower(name))
	normalized = strings.ReplaceAll(normalized, "_", "-")
	normalized = strings.ReplaceAll(normalized, " ", "-")
	normalized = strings.Trim(normalized, "-")
	normalized = strings.TrimSuffix(normalized, "-field")
	switch normalized {
	case "", "flat", "earth":
		return PresetUniform
	case "magnetic-dipole", "buried-dipole":
		return PresetDipole
	case "fault-line", "ridge":
		return PresetFault
	case "ramp", "regional-gradient":
		return PresetGradient
	case "random", "random-dipoles", "basalt":
		return PresetVolcanic
	default:
		return normalized
	}
}

// Presets lists the canonical preset names.
func Presets() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// BuildPreset constructs the named landscape. Extra anomaly specs are
// layered on top of the preset. The seed only affects random presets.
func BuildPreset(name string, cfg landscape.Config, extra []landscape.AnomalySpec, seed int64) (*landscape.Landscape, error) {
	canonical := NormalizePreset(name)
	build, ok := presets[canonical]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownPreset, name)
	}
	land, err := landscape.Build(cfg, extra)
	if err != nil {
		return nil, err
	}
	build(land, seed)
	return land, nil
}
