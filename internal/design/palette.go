// Package design extracts design tokens from a live web page: color
// palette, typography, spacing, and effects, sampled from computed
// styles via headless Chrome.
package design

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"
)

// neutralSpread is the maximum channel spread for a color to count as
// neutral (gray-ish). Neutrals are skipped when picking brand colors.
const neutralSpread = 30

var rgbRe = regexp.MustCompile(`rgba?\((\d+)\s*,\s*(\d+)\s*,\s*(\d+)(?:\s*,\s*([\d.]+))?\)`)

// normalizeColor converts a computed-style color value to lowercase
// #rrggbb hex. Fully transparent values and unparseable input return "".
func normalizeColor(value string) string {
	v := strings.TrimSpace(strings.ToLower(value))
	if v == "" || v == "transparent" {
		return ""
	}
	if strings.HasPrefix(v, "#") {
		if len(v) == 7 {
			return v
		}
		if len(v) == 4 {
			return fmt.Sprintf("#%c%c%c%c%c%c", v[1], v[1], v[2], v[2], v[3], v[3])
		}
		return ""
	}
	m := rgbRe.FindStringSubmatch(v)
	if m == nil {
		return ""
	}
	if m[4] == "0" {
		return ""
	}
	var r, g, b int
	fmt.Sscanf(m[1], "%d", &r)
	fmt.Sscanf(m[2], "%d", &g)
	fmt.Sscanf(m[3], "%d", &b)
	if r > 255 || g > 255 || b > 255 {
		return ""
	}
	return fmt.Sprintf("#%02x%02x%02x", r, g, b)
}

func hexToRGB(hex string) (r, g, b int, ok bool) {
	if len(hex) != 7 || hex[0] != '#' {
		return 0, 0, 0, false
	}
	n, err := fmt.Sscanf(hex, "#%02x%02x%02x", &r, &g, &b)
	if err != nil || n != 3 {
		return 0, 0, 0, false
	}
	return r, g, b, true
}

// isNeutral reports whether the color is effectively a gray: all
// channels within neutralSpread of each other.
func isNeutral(hex string) bool {
	r, g, b, ok := hexToRGB(hex)
	if !ok {
		return true
	}
	max := math.Max(float64(r), math.Max(float64(g), float64(b)))
	min := math.Min(float64(r), math.Min(float64(g), float64(b)))
	return max-min < neutralSpread
}

// isLight reports whether the color's perceived luminance is above the
// midpoint.
func isLight(hex string) bool {
	r, g, b, ok := hexToRGB(hex)
	if !ok {
		return true
	}
	luminance := 0.299*float64(r) + 0.587*float64(g) + 0.114*float64(b)
	return luminance/255 > 0.5
}

// adjustHue rotates the color's hue by the given degrees, keeping
// saturation and lightness. Used to synthesize secondary/accent colors
// when the page offers only one brand color.
func adjustHue(hex string, degrees float64) string {
	r, g, b, ok := hexToRGB(hex)
	if !ok {
		return hex
	}
	h, s, l := rgbToHSL(float64(r)/255, float64(g)/255, float64(b)/255)
	h = math.Mod(h+degrees/360, 1)
	if h < 0 {
		h++
	}
	nr, ng, nb := hslToRGB(h, s, l)
	return fmt.Sprintf("#%02x%02x%02x", int(math.Round(nr*255)), int(math.Round(ng*255)), int(math.Round(nb*255)))
}

func rgbToHSL(r, g, b float64) (h, s, l float64) {
	max := math.Max(r, math.Max(g, b))
	min := math.Min(r, math.Min(g, b))
	l = (max + min) / 2
	if max == min {
		return 0, 0, l
	}
	d := max - min
	if l > 0.5 {
		s = d / (2 - max - min)
	} else {
		s = d / (max + min)
	}
	switch max {
	case r:
		h = (g - b) / d
		if g < b {
			h += 6
		}
	case g:
		h = (b-r)/d + 2
	default:
		h = (r-g)/d + 4
	}
	return h / 6, s, l
}

func hslToRGB(h, s, l float64) (r, g, b float64) {
	if s == 0 {
		return l, l, l
	}
	var q float64
	if l < 0.5 {
		q = l * (1 + s)
	} else {
		q = l + s - l*s
	}
	p := 2*l - q
	return hueToChannel(p, q, h+1.0/3), hueToChannel(p, q, h), hueToChannel(p, q, h-1.0/3)
}

func hueToChannel(p, q, t float64) float64 {
	if t < 0 {
		t++
	}
	if t > 1 {
		t--
	}
	switch {
	case t < 1.0/6:
		return p + (q-p)*6*t
	case t < 1.0/2:
		return q
	case t < 2.0/3:
		return p + (q-p)*(2.0/3-t)*6
	default:
		return p
	}
}

// topN returns the n most frequent keys, most frequent first. Ties
// break lexicographically so the output is deterministic.
func topN(freq map[string]int, n int) []string {
	keys := make([]string, 0, len(freq))
	for k := range freq {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if freq[keys[i]] != freq[keys[j]] {
			return freq[keys[i]] > freq[keys[j]]
		}
		return keys[i] < keys[j]
	})
	if len(keys) > n {
		keys = keys[:n]
	}
	return keys
}

// Fallback brand colors when the page yields no usable candidates.
const (
	fallbackPrimary = "#3b82f6"
	colorError      = "#ef4444"
	colorSuccess    = "#22c55e"
	colorWarning    = "#f59e0b"
)

// buildColorPalette derives the semantic palette from frequency-ranked
// background and text colors. Primary is the most frequent non-neutral
// background; secondary and accent come from the next candidates, or
// are synthesized by hue rotation when the page is monochrome. Status
// colors are fixed: pages rarely expose their own reliably.
func buildColorPalette(bgFreq, textFreq map[string]int) map[string]any {
	bgRanked := topN(bgFreq, 10)

	var brand []string
	for _, c := range bgRanked {
		if !isNeutral(c) {
			brand = append(brand, c)
		}
	}

	primary := fallbackPrimary
	if len(brand) > 0 {
		primary = brand[0]
	}
	secondary := adjustHue(primary, 30)
	if len(brand) > 1 {
		secondary = brand[1]
	}
	accent := adjustHue(primary, 180)
	if len(brand) > 2 {
		accent = brand[2]
	}

	background := "#ffffff"
	if len(bgRanked) > 0 {
		background = bgRanked[0]
	}
	text := "#111827"
	if ranked := topN(textFreq, 1); len(ranked) > 0 {
		text = ranked[0]
	}

	return map[string]any{
		"primary":    primary,
		"secondary":  secondary,
		"accent":     accent,
		"background": background,
		"text":       text,
		"error":      colorError,
		"success":    colorSuccess,
		"warning":    colorWarning,
		"isDark":     !isLight(background),
		"palette":    bgRanked,
	}
}

func buildTypography(familyFreq, sizeFreq map[string]int) map[string]any {
	families := topN(familyFreq, 3)
	sizes := topN(sizeFreq, 6)

	primaryFamily := "system-ui, sans-serif"
	if len(families) > 0 {
		primaryFamily = families[0]
	}
	return map[string]any{
		"fontFamily": primaryFamily,
		"families":   families,
		"sizes":      sizes,
	}
}

func buildSpacing(spacingFreq map[string]int) map[string]any {
	return map[string]any{
		"scale": topN(spacingFreq, 8),
	}
}

func buildEffects(radiusFreq, shadowFreq map[string]int) map[string]any {
	return map[string]any{
		"borderRadii": topN(radiusFreq, 5),
		"shadows":     topN(shadowFreq, 4),
	}
}
