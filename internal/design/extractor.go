package design

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"go.uber.org/zap"

	"vibedocs/internal/project"
)

// maxSampledElements bounds the style sweep so huge pages stay cheap.
const maxSampledElements = 1500

// Options control an extraction run.
type Options struct {
	// IncludeComponents enables per-component sampling (buttons,
	// cards, inputs, badges, links) on top of the global token sweep.
	IncludeComponents bool
	// Timeout bounds the whole navigation + sampling. Zero means 30s.
	Timeout time.Duration
}

// Extractor drives a headless Chrome instance to sample computed styles.
type Extractor struct {
	log *zap.Logger
}

// NewExtractor creates an Extractor.
func NewExtractor(log *zap.Logger) *Extractor {
	if log == nil {
		log = zap.NewNop()
	}
	return &Extractor{log: log.Named("design")}
}

// pageSample is what the in-page script reports back: raw computed-style
// frequency maps plus optional component samples. Color values arrive as
// the browser reports them (rgb/rgba) and are normalized Go-side.
type pageSample struct {
	BackgroundColors map[string]int    `json:"backgroundColors"`
	TextColors       map[string]int    `json:"textColors"`
	BorderColors     map[string]int    `json:"borderColors"`
	FontFamilies     map[string]int    `json:"fontFamilies"`
	FontSizes        map[string]int    `json:"fontSizes"`
	Spacings         map[string]int    `json:"spacings"`
	BorderRadii      map[string]int    `json:"borderRadii"`
	Shadows          map[string]int    `json:"shadows"`
	Components       []componentSample `json:"components"`
}

type componentSample struct {
	Type     string            `json:"type"`
	Count    int               `json:"count"`
	Styles   map[string]string `json:"styles"`
	Variants []string          `json:"variants"`
}

// Extract opens the URL in headless Chrome, sweeps computed styles, and
// assembles a design system from the frequency data.
func (e *Extractor) Extract(ctx context.Context, url string, opts Options) (*project.DesignSystem, error) {
	if opts.Timeout == 0 {
		opts.Timeout = 30 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()

	controlURL, err := launcher.New().Headless(true).Launch()
	if err != nil {
		return nil, fmt.Errorf("launch chrome: %w", err)
	}

	browser := rod.New().ControlURL(controlURL).Context(ctx)
	if err := browser.Connect(); err != nil {
		return nil, fmt.Errorf("connect to chrome: %w", err)
	}
	defer browser.Close()

	page, err := browser.Page(proto.TargetCreateTarget{URL: url})
	if err != nil {
		return nil, fmt.Errorf("open page: %w", err)
	}
	if err := page.WaitLoad(); err != nil {
		return nil, fmt.Errorf("wait load: %w", err)
	}

	start := time.Now()
	res, err := page.Context(ctx).Evaluate(&rod.EvalOptions{
		JS:      samplingScript(opts.IncludeComponents),
		ByValue: true,
	})
	if err != nil {
		return nil, fmt.Errorf("sample styles: %w", err)
	}

	raw, err := res.Value.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("read sample: %w", err)
	}
	var sample pageSample
	if err := json.Unmarshal(raw, &sample); err != nil {
		return nil, fmt.Errorf("decode sample: %w", err)
	}

	e.log.Info("page sampled",
		zap.String("url", url),
		zap.Int("background_colors", len(sample.BackgroundColors)),
		zap.Int("components", len(sample.Components)),
		zap.Duration("elapsed", time.Since(start)))

	return assemble(url, sample, time.Now()), nil
}

// assemble converts the raw frequency data into the persisted design
// system. Pure so it is testable without a browser.
func assemble(url string, sample pageSample, now time.Time) *project.DesignSystem {
	ds := &project.DesignSystem{
		SourceURL:   url,
		ExtractedAt: now,
		Colors:      buildColorPalette(normalizeFreq(sample.BackgroundColors), normalizeFreq(sample.TextColors)),
		Typography:  buildTypography(sample.FontFamilies, sample.FontSizes),
		Spacing:     buildSpacing(sample.Spacings),
		Effects:     buildEffects(sample.BorderRadii, sample.Shadows),
	}
	for _, c := range sample.Components {
		variants := make([]string, 0, len(c.Variants))
		for _, v := range c.Variants {
			if hex := normalizeColor(v); hex != "" {
				variants = append(variants, hex)
			}
		}
		if len(variants) > 5 {
			variants = variants[:5]
		}
		ds.Components = append(ds.Components, project.ComponentStub{
			Type:     c.Type,
			Count:    c.Count,
			Styles:   c.Styles,
			Variants: variants,
		})
	}
	return ds
}

// normalizeFreq folds browser color strings into hex keys, merging
// counts when different spellings resolve to the same color.
func normalizeFreq(raw map[string]int) map[string]int {
	out := make(map[string]int, len(raw))
	for value, count := range raw {
		if hex := normalizeColor(value); hex != "" {
			out[hex] += count
		}
	}
	return out
}

// samplingScript builds the in-page sweep. It walks visible elements,
// tallies computed-style values, and (optionally) samples common
// component selectors.
func samplingScript(includeComponents bool) string {
	return fmt.Sprintf(`() => {
	const limit = %d;
	const tally = (map, key) => { if (key) map[key] = (map[key] || 0) + 1; };

	const sample = {
		backgroundColors: {}, textColors: {}, borderColors: {},
		fontFamilies: {}, fontSizes: {}, spacings: {},
		borderRadii: {}, shadows: {}, components: []
	};

	const elements = Array.from(document.querySelectorAll('*')).slice(0, limit);
	for (const el of elements) {
		const cs = getComputedStyle(el);
		if (cs.display === 'none' || cs.visibility === 'hidden') continue;

		if (cs.backgroundColor && cs.backgroundColor !== 'rgba(0, 0, 0, 0)') {
			tally(sample.backgroundColors, cs.backgroundColor);
		}
		tally(sample.textColors, cs.color);
		if (cs.borderWidth !== '0px' && cs.borderColor) {
			tally(sample.borderColors, cs.borderColor);
		}
		tally(sample.fontFamilies, cs.fontFamily);
		tally(sample.fontSizes, cs.fontSize);
		for (const v of [cs.paddingTop, cs.paddingLeft, cs.marginTop, cs.marginLeft]) {
			if (v && v !== '0px') tally(sample.spacings, v);
		}
		if (cs.borderRadius && cs.borderRadius !== '0px') tally(sample.borderRadii, cs.borderRadius);
		if (cs.boxShadow && cs.boxShadow !== 'none') tally(sample.shadows, cs.boxShadow);
	}

	if (%t) {
		const selectors = {
			button: 'button, [role="button"], .btn, .button',
			card: '.card, [class*="card"], article',
			input: 'input[type="text"], input[type="email"], textarea, select',
			badge: '.badge, .tag, .chip, [class*="badge"]',
			link: 'a[href]'
		};
		for (const [type, selector] of Object.entries(selectors)) {
			const found = Array.from(document.querySelectorAll(selector));
			if (found.length === 0) continue;
			const picks = found.slice(0, 10);
			const cs = getComputedStyle(picks[0]);
			const variants = [];
			for (const el of picks) {
				const bg = getComputedStyle(el).backgroundColor;
				if (bg && !variants.includes(bg)) variants.push(bg);
			}
			sample.components.push({
				type,
				count: found.length,
				styles: {
					backgroundColor: cs.backgroundColor,
					color: cs.color,
					borderRadius: cs.borderRadius,
					fontSize: cs.fontSize,
					padding: cs.padding
				},
				variants
			});
		}
	}

	return sample;
}`, maxSampledElements, includeComponents)
}
