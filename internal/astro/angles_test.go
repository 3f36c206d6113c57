package astro

import (
	"math"
	"testing"
)

const eps = 1e-9

func TestCircularDiff(t *testing.T) {
	tests := []struct {
		name         string
		base, target float64
		want         float64
	}{
		{"zero", 0, 0, 0},
		{"small positive", 0.1, 0.3, 0.2},
		{"small negative", 0.3, 0.1, -0.2},
		{"across +pi seam", 3.0, -3.0, 2*math.Pi - 6.0},
		{"across -pi seam", -3.0, 3.0, 6.0 - 2*math.Pi},
		{"exactly pi kept", 0, math.Pi, math.Pi},
		{"minus pi maps to pi", math.Pi, 0, math.Pi},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CircularDiff(tt.base, tt.target)
			if math.Abs(got-tt.want) > eps {
				t.Errorf("CircularDiff(%v, %v) = %v, want %v", tt.base, tt.target, got, tt.want)
			}
		})
	}
}

func TestCircularDiff_RangeAndAntisymmetry(t *testing.T) {
	const steps = 73
	for i := 0; i < steps; i++ {
		a := -math.Pi + 2*math.Pi*float64(i+1)/steps
		for j := 0; j < steps; j++ {
			b := -math.Pi + 2*math.Pi*float64(j+1)/steps + 0.013

			b = Wrap(b)
			d := CircularDiff(a, b)
			if d <= -math.Pi || d > math.Pi {
				t.Fatalf("CircularDiff(%v, %v) = %v, outside (-π, π]", a, b, d)
			}
			if math.Abs(math.Abs(d)-math.Pi) < 1e-12 {
				continue
			}
			if r := CircularDiff(b, a); math.Abs(d+r) > eps {
				t.Fatalf("antisymmetry broken: diff(%v,%v)=%v diff(%v,%v)=%v", a, b, d, b, a, r)
			}
		}
	}
}

func TestWrap(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{0, 0},
		{math.Pi, math.Pi},
		{-math.Pi, math.Pi},
		{3.5, 3.5 - 2*math.Pi},
		{-3.5, -3.5 + 2*math.Pi},
		{1.0, 1.0},
		{7*math.Pi + 0.5, -math.Pi + 0.5},
		{-10.5, -10.5 + 4*math.Pi},
	}

	for _, tt := range tests {
		got := Wrap(tt.in)
		if math.Abs(got-tt.want) > eps {
			t.Errorf("Wrap(%v) = %v, want %v", tt.in, got, tt.want)
		}
		if got <= -math.Pi || got > math.Pi {
			t.Errorf("Wrap(%v) = %v, outside (-π, π]", tt.in, got)
		}
	}
}

func TestWrap_Scenario(t *testing.T) {
	got := Wrap(3.0 + 0.5)
	if math.Abs(got-(-2.7831853071795862)) > 1e-6 {
		t.Errorf("Wrap(3.5) = %v, want ≈ -2.783", got)
	}
}

func TestRadToDeg0360(t *testing.T) {
	tests := []struct {
		rad, deg float64
	}{
		{0, 0},
		{math.Pi / 2, 90},
		{math.Pi, 180},
		{-math.Pi / 2, 270},
		{-0.001, 360 - RadToDeg(0.001)},
	}

	for _, tt := range tests {
		got := RadToDeg0360(tt.rad)
		if math.Abs(got-tt.deg) > 1e-6 {
			t.Errorf("RadToDeg0360(%v) = %v, want %v", tt.rad, got, tt.deg)
		}
		if got < 0 || got >= 360 {
			t.Errorf("RadToDeg0360(%v) = %v, outside [0, 360)", tt.rad, got)
		}
	}
}

func TestDegRadRoundTrip(t *testing.T) {
	for _, deg := range []float64{0, 45, 90, 180, -90, 359.5} {
		if got := RadToDeg(DegToRad(deg)); math.Abs(got-deg) > 1e-10 {
			t.Errorf("RadToDeg(DegToRad(%v)) = %v", deg, got)
		}
	}
}

func TestClamp(t *testing.T) {
	if got := Clamp(5, 1, 3); got != 3 {
		t.Errorf("Clamp(5, 1, 3) = %v, want 3", got)
	}
	if got := Clamp(-1, 0, 3); got != 0 {
		t.Errorf("Clamp(-1, 0, 3) = %v, want 0", got)
	}
	if got := Clamp(2, 0, 3); got != 2 {
		t.Errorf("Clamp(2, 0, 3) = %v, want 2", got)
	}
}
