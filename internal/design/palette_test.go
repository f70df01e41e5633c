package design

import (
	"testing"
	"time"
)

func TestNormalizeColor(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"rgb(255, 255, 255)", "#ffffff"},
		{"rgb(59, 130, 246)", "#3b82f6"},
		{"rgba(239, 68, 68, 0.8)", "#ef4444"},
		{"rgba(0, 0, 0, 0)", ""},
		{"transparent", ""},
		{"#3B82F6", "#3b82f6"},
		{"#fff", "#ffffff"},
		{"garbage", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := normalizeColor(tt.in); got != tt.want {
			t.Errorf("normalizeColor(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestIsNeutral(t *testing.T) {
	for _, hex := range []string{"#ffffff", "#000000", "#808080", "#f3f4f6"} {
		if !isNeutral(hex) {
			t.Errorf("%s should be neutral", hex)
		}
	}
	for _, hex := range []string{"#3b82f6", "#ef4444", "#22c55e"} {
		if isNeutral(hex) {
			t.Errorf("%s should not be neutral", hex)
		}
	}
}

func TestIsLight(t *testing.T) {
	if !isLight("#ffffff") || isLight("#000000") {
		t.Error("luminance thresholds wrong")
	}
	if isLight("#1f2937") {
		t.Error("dark slate reported light")
	}
}

func TestAdjustHueRoundTrip(t *testing.T) {
	// A full rotation lands back on (approximately) the same color.
	in := "#3b82f6"
	out := adjustHue(adjustHue(in, 180), 180)
	r1, g1, b1, _ := hexToRGB(in)
	r2, g2, b2, _ := hexToRGB(out)
	for _, d := range []int{r1 - r2, g1 - g2, b1 - b2} {
		if d < -2 || d > 2 {
			t.Fatalf("round trip drifted: %s -> %s", in, out)
		}
	}
	// Gray has no hue to rotate.
	if got := adjustHue("#808080", 90); got != "#808080" {
		t.Errorf("gray rotated to %s", got)
	}
}

func TestTopNDeterministic(t *testing.T) {
	freq := map[string]int{"a": 3, "b": 5, "c": 3, "d": 1}
	got := topN(freq, 3)
	want := []string{"b", "a", "c"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("topN = %v, want %v", got, want)
		}
	}
}

func TestBuildColorPaletteFromBrandColors(t *testing.T) {
	bg := map[string]int{
		"#ffffff": 100, // neutral, most frequent
		"#3b82f6": 20,
		"#10b981": 10,
		"#f97316": 5,
	}
	text := map[string]int{"#111827": 80}

	p := buildColorPalette(bg, text)

	if p["primary"] != "#3b82f6" {
		t.Errorf("primary = %v", p["primary"])
	}
	if p["secondary"] != "#10b981" || p["accent"] != "#f97316" {
		t.Errorf("secondary/accent = %v/%v", p["secondary"], p["accent"])
	}
	if p["background"] != "#ffffff" || p["text"] != "#111827" {
		t.Errorf("background/text = %v/%v", p["background"], p["text"])
	}
	if p["isDark"] != false {
		t.Errorf("isDark = %v", p["isDark"])
	}
	if p["error"] != colorError || p["success"] != colorSuccess || p["warning"] != colorWarning {
		t.Errorf("status colors = %v/%v/%v", p["error"], p["success"], p["warning"])
	}
}

func TestBuildColorPaletteMonochromeFallsBack(t *testing.T) {
	// All-neutral page: primary falls back, secondary/accent are hue
	// rotations of it.
	p := buildColorPalette(map[string]int{"#ffffff": 50, "#f3f4f6": 20}, nil)

	if p["primary"] != fallbackPrimary {
		t.Errorf("primary = %v, want fallback", p["primary"])
	}
	if p["secondary"] == p["primary"] || p["accent"] == p["primary"] {
		t.Errorf("synthesized colors equal primary: %v", p)
	}
}

func TestAssemble(t *testing.T) {
	sample := pageSample{
		BackgroundColors: map[string]int{"rgb(255, 255, 255)": 50, "rgb(59, 130, 246)": 10},
		TextColors:       map[string]int{"rgb(17, 24, 39)": 40},
		FontFamilies:     map[string]int{"Inter, sans-serif": 30},
		FontSizes:        map[string]int{"16px": 25, "14px": 10},
		Spacings:         map[string]int{"8px": 20, "16px": 15},
		BorderRadii:      map[string]int{"8px": 12},
		Shadows:          map[string]int{"rgba(0, 0, 0, 0.1) 0px 1px 3px": 5},
		Components: []componentSample{{
			Type:     "button",
			Count:    12,
			Styles:   map[string]string{"backgroundColor": "rgb(59, 130, 246)"},
			Variants: []string{"rgb(59, 130, 246)", "rgb(239, 68, 68)", "transparent"},
		}},
	}

	now := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	ds := assemble("https://example.com", sample, now)

	if ds.SourceURL != "https://example.com" || !ds.ExtractedAt.Equal(now) {
		t.Errorf("metadata = %s %v", ds.SourceURL, ds.ExtractedAt)
	}
	if ds.Colors["primary"] != "#3b82f6" {
		t.Errorf("primary = %v", ds.Colors["primary"])
	}
	if ds.Typography["fontFamily"] != "Inter, sans-serif" {
		t.Errorf("fontFamily = %v", ds.Typography["fontFamily"])
	}
	if len(ds.Components) != 1 {
		t.Fatalf("components = %+v", ds.Components)
	}
	// Transparent variant dropped, the rest normalized to hex.
	if got := ds.Components[0].Variants; len(got) != 2 || got[0] != "#3b82f6" || got[1] != "#ef4444" {
		t.Errorf("variants = %v", got)
	}
}
