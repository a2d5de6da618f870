package main

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/san-kum/particles/internal/config"
	"github.com/san-kum/particles/internal/logging"
	"github.com/san-kum/particles/internal/sim"
	"github.com/san-kum/particles/internal/viz"
)

var (
	configFile   string
	preset       string
	logLevel     string
	logFile      string
	width        float64
	height       float64
	dpr          float64
	fps          int
	seed         int64
	colorHex     string
	background   string
	reduceMotion bool
	frames       int
	pointer      string
	every        int
	asPNG        bool
	asJSON       bool
	realtime     bool
	runs         int
)

// fullscreen marks commands that own the terminal; they log to --log-file or
// nowhere.
const fullscreen = "fullscreen"

func main() {
	rootCmd := &cobra.Command{
		Use:               "particles",
		Short:             "interactive particle field",
		Annotations:       map[string]string{fullscreen: "true"},
		SilenceUsage:      true,
		PersistentPreRunE: setupLogging,
		RunE:              runLive,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configFile, "config", "", "config file path (yaml)")
	pf.StringVar(&preset, "preset", "", "viewport preset")
	pf.StringVar(&logLevel, "log-level", "info", "log level (trace, debug, info, warn, error)")
	pf.StringVar(&logFile, "log-file", "", "append logs to this file")
	pf.Float64Var(&width, "width", config.DefaultWidth, "viewport width in logical pixels")
	pf.Float64Var(&height, "height", config.DefaultHeight, "viewport height in logical pixels")
	pf.Float64Var(&dpr, "dpr", config.DefaultRatio, "device pixel ratio")
	pf.IntVar(&fps, "fps", config.DefaultFPS, "frames per second")
	pf.Int64Var(&seed, "seed", 0, "random seed (0 picks one)")
	pf.StringVar(&colorHex, "color", config.DefaultColor, "particle colour")
	pf.StringVar(&background, "background", config.DefaultBackground, "background colour")
	pf.BoolVar(&reduceMotion, "reduce-motion", false, "honour a reduced-motion preference")

	liveCmd := &cobra.Command{
		Use:         "live",
		Short:       "run the field in the terminal",
		Annotations: map[string]string{fullscreen: "true"},
		RunE:        runLive,
	}

	guiCmd := &cobra.Command{
		Use:   "gui",
		Short: "run the field in a window",
		RunE:  runGUI,
	}

	renderCmd := &cobra.Command{
		Use:   "render",
		Short: "render frames headlessly to GIF or PNG",
		RunE:  runRender,
	}
	addHeadlessFlags(renderCmd)
	renderCmd.Flags().StringP("out", "o", "particles.gif", "output file")
	renderCmd.Flags().IntVar(&every, "every", 2, "keep every nth frame in the GIF")
	renderCmd.Flags().BoolVar(&asPNG, "png", false, "write only the last frame as PNG")

	svgCmd := &cobra.Command{
		Use:   "svg",
		Short: "write an SVG snapshot after N frames",
		RunE:  runSVG,
	}
	addHeadlessFlags(svgCmd)
	svgCmd.Flags().StringP("out", "o", "particles.svg", "output file")

	statsCmd := &cobra.Command{
		Use:   "stats",
		Short: "step headlessly and report frame metrics",
		RunE:  runStats,
	}
	addHeadlessFlags(statsCmd)
	statsCmd.Flags().BoolVar(&asJSON, "json", false, "emit JSON")

	benchCmd := &cobra.Command{
		Use:   "bench [preset...]",
		Short: "measure frames per second across presets",
		RunE:  runBench,
	}
	benchCmd.Flags().IntVarP(&frames, "frames", "n", 600, "frames per run")
	benchCmd.Flags().IntVar(&runs, "runs", 4, "parallel runs per preset")
	benchCmd.Flags().StringVar(&pointer, "pointer", config.DefaultPointer, "scripted pointer (none, center, orbit)")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list viewport presets",
		Run: func(cmd *cobra.Command, args []string) {
			for _, name := range config.ListPresets() {
				p := config.Presets[name]
				fmt.Printf("  %-8s %-14s %s\n", name, p.Viewport, p.Description)
			}
		},
	}

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "manage config files",
	}
	configCmd.AddCommand(&cobra.Command{
		Use:   "init [path]",
		Short: "write the default config",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "particles.yaml"
			if len(args) > 0 {
				path = args[0]
			}
			if err := config.Save(path, config.DefaultConfig()); err != nil {
				return err
			}
			fmt.Printf("wrote %s\n", path)
			return nil
		},
	})

	rootCmd.AddCommand(liveCmd, guiCmd, renderCmd, svgCmd, statsCmd, benchCmd, presetsCmd, configCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addHeadlessFlags(cmd *cobra.Command) {
	cmd.Flags().IntVarP(&frames, "frames", "n", config.DefaultFrames, "frames to step")
	cmd.Flags().StringVar(&pointer, "pointer", config.DefaultPointer, "scripted pointer (none, center, orbit)")
	cmd.Flags().BoolVar(&realtime, "realtime", false, "pace frames at --fps on a frame loop")
}

func setupLogging(cmd *cobra.Command, args []string) error {
	var out io.Writer = os.Stderr
	switch {
	case logFile != "":
		f, err := logging.OpenFile(logFile)
		if err != nil {
			return err
		}
		out = f
	case cmd.Annotations[fullscreen] != "":
		out = io.Discard
	}
	return logging.Setup(logging.Options{Level: logLevel, Output: out, JSON: logFile != ""})
}

// loadConfig layers defaults, preset, config file and changed flags, in
// that order.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}

	if configFile != "" {
		fileCfg, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = fileCfg
	}

	flags := cmd.Flags()
	if flags.Changed("width") {
		cfg.Viewport.Width = width
	}
	if flags.Changed("height") {
		cfg.Viewport.Height = height
	}
	if flags.Changed("dpr") {
		cfg.Viewport.DevicePixelRatio = dpr
	}
	if flags.Changed("fps") {
		cfg.FPS = fps
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("color") {
		cfg.Color = colorHex
	}
	if flags.Changed("background") {
		cfg.Background = background
	}
	if flags.Changed("reduce-motion") {
		cfg.ReduceMotion = reduceMotion
	}
	// frames and pointer are bound by several commands, so only a value
	// parsed for this one counts
	if flags.Lookup("frames") != nil && flags.Changed("frames") {
		cfg.Frames = frames
	}
	if flags.Lookup("pointer") != nil && flags.Changed("pointer") {
		cfg.Pointer = pointer
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	log.Debug().Str("viewport", cfg.Viewport.String()).Int("fps", cfg.FPS).Msg("config resolved")
	return cfg, nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	return viz.Run(cfg, sim.WithLogger(logging.For("sim")))
}
