package main

import (
	"context"
	"fmt"
	"image/color"
	"os"
	"os/signal"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/bytedance/sonic"
	"github.com/guptarohit/asciigraph"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/san-kum/particles/internal/config"
	"github.com/san-kum/particles/internal/export"
	"github.com/san-kum/particles/internal/field"
	"github.com/san-kum/particles/internal/gui"
	"github.com/san-kum/particles/internal/logging"
	"github.com/san-kum/particles/internal/metrics"
	"github.com/san-kum/particles/internal/sim"
	"github.com/san-kum/particles/internal/surface"
)

func runGUI(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if !cmd.Flags().Changed("dpr") && configFile == "" && preset == "" {
		// follow the monitor unless a ratio was asked for
		cfg.Viewport.DevicePixelRatio = 0
	}
	return gui.Run(cfg, sim.WithLogger(logging.For("sim")))
}

func fieldOptions(cfg *config.Config) []field.Option {
	opts := []field.Option{field.WithColor(cfg.ParticleColor())}
	if cfg.Seed != 0 {
		opts = append(opts, field.WithSeed(cfg.Seed))
	}
	return opts
}

func backgroundColor(cfg *config.Config) field.Color {
	bg, err := config.ParseColor(cfg.Background)
	if err != nil {
		return field.Color{}
	}
	return bg
}

// headless resolves the config and script shared by render, svg and stats.
// It returns a nil config when reduced motion means nothing should run.
func headless(cmd *cobra.Command) (*config.Config, sim.Script, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, err
	}
	if cfg.ReduceMotion {
		log.Info().Str("command", cmd.Name()).Msg("reduced motion requested, nothing to run")
		return nil, nil, nil
	}
	script, err := sim.ParseScript(cfg.Pointer)
	if err != nil {
		return nil, nil, err
	}
	return cfg, script, nil
}

func interruptContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

// stepField steps frames on s as fast as possible or, with --realtime, on a
// frame loop paced at cfg.FPS.
func stepField(ctx context.Context, cfg *config.Config, s field.Surface, script sim.Script, frames int, ms []field.Metric, obs ...field.Observer) (*field.Field, error) {
	if realtime {
		h, err := sim.Play(ctx, sim.NewLoop(cfg.FPS), sim.Env{Viewport: cfg.Viewport}, s, script, frames,
			sim.WithFieldOptions(fieldOptions(cfg)...),
			sim.WithMetrics(ms...),
			sim.WithObservers(obs...),
			sim.WithLogger(logging.For("sim")))
		if err != nil {
			return nil, err
		}
		return h.Field(), nil
	}

	f, err := field.New(s, cfg.Viewport, fieldOptions(cfg)...)
	if err != nil {
		return nil, err
	}
	for _, m := range ms {
		f.AddMetric(m)
	}
	for _, o := range obs {
		f.AddObserver(o)
	}
	return f, sim.Drive(ctx, f, frames, script, nil)
}

func runRender(cmd *cobra.Command, args []string) error {
	cfg, script, err := headless(cmd)
	if err != nil || cfg == nil {
		return err
	}

	outPath, _ := cmd.Flags().GetString("out")
	bg := backgroundColor(cfg)
	raster := surface.NewRaster(color.NRGBA{R: bg.R, G: bg.G, B: bg.B, A: 255})

	var rec *export.GIFRecorder
	var obs []field.Observer
	if !asPNG {
		rec = export.NewGIFRecorder(raster, bg, cfg.ParticleColor(), cfg.FPS, every)
		obs = append(obs, rec)
	}

	ctx, cancel := interruptContext()
	defer cancel()

	start := time.Now()
	f, err := stepField(ctx, cfg, raster, script, cfg.Frames, nil, obs...)
	if err != nil {
		return err
	}

	if asPNG {
		err = export.SavePNG(outPath, raster.Image())
	} else {
		err = rec.Save(outPath)
	}
	if err != nil {
		return err
	}

	bw, bh := f.BackingSize()
	log.Info().
		Str("out", outPath).
		Int("frames", f.Frame()).
		Dur("elapsed", time.Since(start)).
		Msg("render written")
	fmt.Printf("wrote %s (%dx%d, %d frames)\n", outPath, bw, bh, f.Frame())
	return nil
}

func runSVG(cmd *cobra.Command, args []string) error {
	cfg, script, err := headless(cmd)
	if err != nil || cfg == nil {
		return err
	}

	outPath, _ := cmd.Flags().GetString("out")
	svg := surface.NewSVG(cfg.Background)

	ctx, cancel := interruptContext()
	defer cancel()
	if _, err := stepField(ctx, cfg, svg, script, max(cfg.Frames, 1), nil); err != nil {
		return err
	}

	if err := export.SaveSVG(outPath, svg); err != nil {
		return err
	}
	fmt.Printf("wrote %s (%d elements)\n", outPath, svg.Elements())
	return nil
}

type statsReport struct {
	Viewport  field.Viewport     `json:"viewport"`
	Backing   [2]int             `json:"backing"`
	Particles int                `json:"particles"`
	Frames    int                `json:"frames"`
	Pointer   string             `json:"pointer"`
	Links     []int              `json:"links"`
	Metrics   map[string]float64 `json:"metrics"`
}

func runStats(cmd *cobra.Command, args []string) error {
	cfg, script, err := headless(cmd)
	if err != nil || cfg == nil {
		return err
	}

	links := make([]int, 0, cfg.Frames)
	record := field.ObserverFunc(func(_ *field.Field, st field.FrameStats) {
		links = append(links, st.Links)
	})

	ctx, cancel := interruptContext()
	defer cancel()
	f, err := stepField(ctx, cfg, surface.Discard, script, cfg.Frames, metrics.Default(), record)
	if err != nil {
		return err
	}

	bw, bh := f.BackingSize()
	report := statsReport{
		Viewport:  cfg.Viewport,
		Backing:   [2]int{bw, bh},
		Particles: len(f.Particles()),
		Frames:    f.Frame(),
		Pointer:   cfg.Pointer,
		Links:     links,
		Metrics:   f.Metrics(),
	}

	if asJSON {
		data, err := sonic.ConfigStd.MarshalIndent(report, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	}

	fmt.Printf("viewport %s, backing %dx%d, %d particles, %d frames, pointer %s\n\n",
		report.Viewport, bw, bh, report.Particles, report.Frames, report.Pointer)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "METRIC\tVALUE")
	names := make([]string, 0, len(report.Metrics))
	for name := range report.Metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(w, "%s\t%.4f\n", name, report.Metrics[name])
	}
	w.Flush()

	plotLinks(links)
	return nil
}

func plotLinks(links []int) {
	if len(links) < 2 {
		return
	}
	series := make([]float64, len(links))
	for i, n := range links {
		series[i] = float64(n)
	}
	fmt.Println()
	fmt.Println(asciigraph.Plot(series,
		asciigraph.Height(10),
		asciigraph.Width(72),
		asciigraph.Caption("links per frame")))
}

func runBench(cmd *cobra.Command, args []string) error {
	names := args
	if len(names) == 0 {
		names = config.ListPresets()
	}
	frames, _ := cmd.Flags().GetInt("frames")
	pointer, _ := cmd.Flags().GetString("pointer")
	script, err := sim.ParseScript(pointer)
	if err != nil {
		return err
	}
	if runs < 1 {
		return fmt.Errorf("runs must be positive, got %d", runs)
	}
	seedStart := seed
	if seedStart == 0 {
		seedStart = 1
	}

	ctx, cancel := interruptContext()
	defer cancel()

	fmt.Printf("benchmarking %d frames x %d runs, pointer %s\n\n", frames, runs, pointer)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PRESET\tVIEWPORT\tPARTICLES\tFRAMES/SEC\tLINKS/FRAME")

	for _, name := range names {
		p, ok := config.Presets[name]
		if !ok {
			return fmt.Errorf("unknown preset: %s (available: %v)", name, config.ListPresets())
		}

		results, err := sim.NewEnsemble(p.Viewport, runs, seedStart).
			WithScript(script).
			WithMetrics(func() []field.Metric { return []field.Metric{metrics.NewLinkCount()} }).
			Run(ctx, frames)
		if err != nil {
			return err
		}

		var fps, links float64
		for _, r := range results {
			fps += r.FPS()
			links += r.Metrics["links_per_frame"]
		}
		n := float64(len(results))
		fmt.Fprintf(w, "%s\t%s\t%d\t%.0f\t%.1f\n", name, p.Viewport,
			field.ParticleCount(p.Viewport.Width, p.Viewport.Height), fps/n, links/n)
		log.Debug().Str("preset", name).Int("runs", len(results)).Msg("bench preset done")
	}
	return w.Flush()
}
