package model

import (
	"math"
	"os"
	"path/filepath"
	"testing"
)

func TestLogistic_Calibrate(t *testing.T) {
	m := DefaultLogistic()

	if p := m.Calibrate(50); math.Abs(p-0.5) > 1e-9 {
		t.Errorf("Calibrate(50) = %v, want 0.5", p)
	}
	if p := m.Calibrate(100); p <= m.Calibrate(50) {
		t.Errorf("Calibrate(100) = %v, want > Calibrate(50)", p)
	}

	// 越界分数按边界截断，概率保持在 (0,1)
	for _, s := range []float64{-10, 0, 25, 75, 100, 250} {
		p := m.Calibrate(s)
		if p <= 0 || p >= 1 {
			t.Errorf("Calibrate(%v) = %v, want in (0,1)", s, p)
		}
	}
	if m.Calibrate(-10) != m.Calibrate(0) {
		t.Error("scores below 0 should clamp to 0")
	}
}

func TestLogistic_Monotonic(t *testing.T) {
	m := DefaultLogistic()
	prev := m.Calibrate(0)
	for s := 5.0; s <= 100; s += 5 {
		p := m.Calibrate(s)
		if p <= prev {
			t.Fatalf("Calibrate not monotonic at %v: %v <= %v", s, p, prev)
		}
		prev = p
	}
}

func TestLoadLogistic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "calibrator.json")
	if err := os.WriteFile(path, []byte(`{"bias": -3.2, "scale": 0.064}`), 0o644); err != nil {
		t.Fatal(err)
	}

	m, err := LoadLogistic(path)
	if err != nil {
		t.Fatal(err)
	}
	if m.Bias != -3.2 || m.Scale != 0.064 {
		t.Errorf("got %+v", m)
	}
	if p := m.Calibrate(50); math.Abs(p-0.5) > 1e-9 {
		t.Errorf("Calibrate(50) = %v, want 0.5", p)
	}

	if _, err := LoadLogistic(filepath.Join(dir, "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoadLogistic_ZeroScaleFallsBack(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "calibrator.json")
	if err := os.WriteFile(path, []byte(`{}`), 0o644); err != nil {
		t.Fatal(err)
	}
	m, err := LoadLogistic(path)
	if err != nil {
		t.Fatal(err)
	}
	if m.Scale != DefaultLogistic().Scale {
		t.Errorf("Scale = %v, want default", m.Scale)
	}
}
