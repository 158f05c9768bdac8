package scape

import (
	"errors"
	"reflect"
	"testing"

	"mayajiva/internal/landscape"
)

func TestNormalizePreset(t *testing.T) {
	cases := map[string]string{
		"":                PresetUniform,
		"  Flat ":         PresetUniform,
		"Magnetic_Dipole": PresetDipole,
		"fault-line":      PresetFault,
		"ramp":            PresetGradient,
		"random dipoles":  PresetVolcanic,
		"volcanic-field":  PresetVolcanic,
		"custom":          "custom",
	}
	for input, want := range cases {
		if got := NormalizePreset(input); got != want {
			t.Fatalf("normalize %q: got %q want %q", input, got, want)
		}
	}
}

func TestPresetsSorted(t *testing.T) {
	want := []string{PresetDipole, PresetFault, PresetGradient, PresetUniform, PresetVolcanic}
	if got := Presets(); !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected presets: %v", got)
	}
}

func TestBuildPresetAnomalies(t *testing.T) {
	cfg := landscape.DefaultConfig()
	cases := map[string]int{
		PresetUniform:  0,
		PresetDipole:   1,
		PresetFault:    1,
		PresetGradient: 1,
		PresetVolcanic: volcanicDipoles,
	}
	for name, want := range cases {
		land, err := BuildPreset(name, cfg, nil, 3)
		if err != nil {
			t.Fatalf("build %s: %v", name, err)
		}
		if got := len(land.Anomalies()); got != want {
			t.Fatalf("%s: expected %d anomalies, got %d", name, want, got)
		}
	}
}

func TestBuildPresetLayersExtraSpecs(t *testing.T) {
	extra := []landscape.AnomalySpec{{Type: "gaussian", X: 100, Y: 100, Strength: 5, Radius: 20}}
	land, err := BuildPreset("dipole", landscape.DefaultConfig(), extra, 0)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if got := len(land.Anomalies()); got != 2 {
		t.Fatalf("expected 2 anomalies, got %d", got)
	}
}

func TestBuildPresetVolcanicIsSeeded(t *testing.T) {
	cfg := landscape.DefaultConfig()
	a, err := BuildPreset(PresetVolcanic, cfg, nil, 17)
	if err != nil {
		t.Fatalf("build a: %v", err)
	}
	b, err := BuildPreset(PresetVolcanic, cfg, nil, 17)
	if err != nil {
		t.Fatalf("build b: %v", err)
	}
	if !reflect.DeepEqual(a.Anomalies(), b.Anomalies()) {
		t.Fatal("expected identical anomalies for the same seed")
	}
	c, err := BuildPreset(PresetVolcanic, cfg, nil, 18)
	if err != nil {
		t.Fatalf("build c: %v", err)
	}
	if reflect.DeepEqual(a.Anomalies(), c.Anomalies()) {
		t.Fatal("expected different anomalies for a different seed")
	}
}

func TestBuildPresetUnknown(t *testing.T) {
	_, err := BuildPreset("mystery", landscape.DefaultConfig(), nil, 0)
	if !errors.Is(err, ErrUnknownPreset) {
		t.Fatalf("expected ErrUnknownPreset, got %v", err)
	}
}
