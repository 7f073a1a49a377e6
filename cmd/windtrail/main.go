package main

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/windtrail/internal/config"
	"github.com/san-kum/windtrail/internal/engine"
	"github.com/san-kum/windtrail/internal/export"
	"github.com/san-kum/windtrail/internal/field"
	"github.com/san-kum/windtrail/internal/gen"
	"github.com/san-kum/windtrail/internal/palette"
	"github.com/san-kum/windtrail/internal/storage"
	"github.com/san-kum/windtrail/internal/viz"
)

var (
	dataDir       string
	configFile    string
	preset        string
	particleCount int
	maxAge        int
	velocityScale float64
	frameInterval float64
	scaleName     string
	seed          int64
	// capture
	ticks int
	// gen
	genCols     int
	genRows     int
	genMaxSpeed float64
	genHoles    float64
	// export
	exportOut    string
	exportWidth  int
	exportHeight int
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "windtrail",
		Short: "animated wind particle visualization",
	}
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".windtrail", "data directory")

	animateCmd := &cobra.Command{
		Use:   "animate [field.json]",
		Short: "animate the field in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE:  runAnimate,
	}
	addEngineFlags(animateCmd)

	infoCmd := &cobra.Command{
		Use:   "info [field.json]",
		Short: "summarize a field",
		Args:  cobra.ExactArgs(1),
		RunE:  runInfo,
	}

	captureCmd := &cobra.Command{
		Use:   "capture [field.json]",
		Short: "run ticks headless and save segments",
		Args:  cobra.ExactArgs(1),
		RunE:  runCapture,
	}
	addEngineFlags(captureCmd)
	captureCmd.Flags().IntVar(&ticks, "ticks", 100, "ticks to simulate")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list saved captures",
		RunE:  runList,
	}

	genCmd := &cobra.Command{
		Use:   "gen [out.json]",
		Short: "generate a synthetic field",
		Args:  cobra.ExactArgs(1),
		RunE:  runGen,
	}
	genCmd.Flags().IntVar(&genCols, "cols", 360, "grid columns")
	genCmd.Flags().IntVar(&genRows, "rows", 180, "grid rows")
	genCmd.Flags().Float64Var(&genMaxSpeed, "max-speed", 25, "peak flow speed")
	genCmd.Flags().Float64Var(&genHoles, "holes", 0, "fraction of masked cells [0,1)")
	genCmd.Flags().Int64Var(&seed, "seed", time.Now().UnixNano(), "noise seed")

	exportCmd := &cobra.Command{
		Use:   "export [capture-id]",
		Short: "render a capture as SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  runExport,
	}
	exportCmd.Flags().StringVar(&exportOut, "out", "", "output path (default <capture-id>.svg)")
	exportCmd.Flags().IntVar(&exportWidth, "width", 1280, "image width in pixels")
	exportCmd.Flags().IntVar(&exportHeight, "height", 640, "image height in pixels")
	exportCmd.Flags().StringVar(&scaleName, "scale", config.DefaultScaleName, "color scale name")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list engine presets",
		Run: func(cmd *cobra.Command, args []string) {
			for _, name := range config.ListPresets() {
				fmt.Println(name)
			}
		},
	}

	initConfigCmd := &cobra.Command{
		Use:   "init-config [path]",
		Short: "write a default config file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return config.Save(args[0], config.DefaultConfig())
		},
	}

	rootCmd.AddCommand(animateCmd, infoCmd, captureCmd, listCmd, genCmd, exportCmd, presetsCmd, initConfigCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addEngineFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	cmd.Flags().IntVar(&particleCount, "particles", config.DefaultParticleCount, "particle count")
	cmd.Flags().IntVar(&maxAge, "max-age", config.DefaultMaxAge, "max particle age in ticks")
	cmd.Flags().Float64Var(&velocityScale, "velocity", config.DefaultVelocityScale, "velocity scale")
	cmd.Flags().Float64Var(&frameInterval, "interval", config.DefaultFrameIntervalMs, "frame interval (ms)")
	cmd.Flags().StringVar(&scaleName, "scale", config.DefaultScaleName, "color scale name")
	cmd.Flags().Int64Var(&seed, "seed", 0, "random seed")
}

// resolveConfig layers preset, config file, then CLI flags, in that
// order of increasing precedence.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		p := config.GetPreset(preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		cfg = p
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	if cmd.Flags().Changed("particles") {
		cfg.Engine.ParticleCount = particleCount
	}
	if cmd.Flags().Changed("max-age") {
		cfg.Engine.MaxAge = maxAge
	}
	if cmd.Flags().Changed("velocity") {
		cfg.Engine.VelocityScale = velocityScale
	}
	if cmd.Flags().Changed("interval") {
		cfg.Engine.FrameIntervalMs = frameInterval
	}
	if cmd.Flags().Changed("scale") {
		cfg.Engine.ScaleName = scaleName
		cfg.Engine.ColorScale = nil
	}
	if cmd.Flags().Changed("seed") {
		cfg.Seed = seed
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadField(path string) (*field.Field, error) {
	fld, err := storage.LoadField(path)
	if err != nil {
		return nil, err
	}
	for _, w := range fld.Warnings() {
		fmt.Fprintf(os.Stderr, "warning: %s\n", w)
	}
	return fld, nil
}

func runAnimate(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	fld, err := loadField(args[0])
	if err != nil {
		return err
	}
	defer fld.Release()
	return viz.Run(fld, cfg)
}

func runInfo(cmd *cobra.Command, args []string) error {
	fld, err := loadField(args[0])
	if err != nil {
		return err
	}
	defer fld.Release()

	def := fld.Def()
	xmin, xmax, ymin, ymax := fld.Bounds()
	min, max := fld.Range()
	mags := fld.Magnitudes()
	mean := stat.Mean(mags, nil)
	stddev := stat.StdDev(mags, nil)

	fmt.Printf("grid: %dx%d cells (%.3g x %.3g deg)\n", def.Cols, def.Rows, def.DeltaX, def.DeltaY)
	fmt.Printf("bounds: lon [%.2f, %.2f] lat [%.2f, %.2f]\n", xmin, xmax, ymin, ymax)
	fmt.Printf("continuous: %v  wrapped: %v\n", fld.Continuous(), fld.WrappedX())
	fmt.Printf("samples: %d valid of %d\n", len(mags), def.Cols*def.Rows)
	fmt.Printf("magnitude: min %.3f  max %.3f  mean %.3f  stddev %.3f\n", min, max, mean, stddev)

	fmt.Println("\ndistribution:")
	fmt.Println(asciigraph.Plot(histogram(mags, min, max, 24), asciigraph.Height(8)))
	return nil
}

// histogram buckets magnitudes into bins for the distribution plot.
func histogram(mags []float64, min, max float64, bins int) []float64 {
	counts := make([]float64, bins)
	if max == min {
		counts[0] = float64(len(mags))
		return counts
	}
	for _, m := range mags {
		i := int((m - min) / (max - min) * float64(bins-1))
		counts[i]++
	}
	return counts
}

func runCapture(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	fld, err := loadField(args[0])
	if err != nil {
		return err
	}
	defer fld.Release()

	eng, err := engine.New(fld, engine.Options{
		VelocityScale: cfg.Engine.VelocityScale,
		MaxAge:        cfg.Engine.MaxAge,
		ParticleCount: cfg.Engine.ParticleCount,
		Seed:          cfg.Seed,
	})
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	scale := cfg.Scale()
	min, max := fld.Range()
	records := make([]storage.SegmentRecord, 0, ticks*cfg.Engine.ParticleCount/4)
	start := time.Now()
	for t := 0; t < ticks; t++ {
		for _, s := range eng.Step() {
			records = append(records, storage.SegmentRecord{
				Tick: t,
				X1:   s.X1, Y1: s.Y1, X2: s.X2, Y2: s.Y2,
				Magnitude:  s.Mag,
				ColorIndex: scale.IndexFor(s.Mag, min, max),
			})
		}
		eng.Commit()
	}
	elapsed := time.Since(start)

	id, err := st.Save("capture", storage.CaptureMetadata{
		Source:        args[0],
		Seed:          cfg.Seed,
		Ticks:         ticks,
		ParticleCount: cfg.Engine.ParticleCount,
		MaxAge:        cfg.Engine.MaxAge,
		VelocityScale: cfg.Engine.VelocityScale,
		MinMagnitude:  min,
		MaxMagnitude:  max,
	}, records)
	if err != nil {
		return err
	}

	fmt.Printf("completed %d ticks in %v\n", ticks, elapsed)
	fmt.Printf("capture id: %s (%d segments)\n", id, len(records))
	return nil
}

func runExport(cmd *cobra.Command, args []string) error {
	scale, ok := palette.Get(scaleName)
	if !ok {
		return fmt.Errorf("unknown scale: %s (available: %v)", scaleName, palette.Names())
	}

	st := storage.New(dataDir)
	segments, err := st.LoadSegments(args[0])
	if err != nil {
		return err
	}
	if len(segments) == 0 {
		return fmt.Errorf("capture %s has no segments", args[0])
	}

	svg := export.SegmentsToSVG(segments, scale, exportWidth, exportHeight)
	out := exportOut
	if out == "" {
		out = args[0] + ".svg"
	}
	if err := os.WriteFile(out, []byte(svg), 0644); err != nil {
		return err
	}
	fmt.Printf("wrote %d segments to %s\n", len(segments), out)
	return nil
}

func runList(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	captures, err := st.List()
	if err != nil {
		return err
	}
	if len(captures) == 0 {
		fmt.Println("no captures")
		return nil
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTICKS\tPARTICLES\tSEGMENTS\tWHEN")
	for _, c := range captures {
		fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%s\n",
			c.ID, c.Ticks, c.ParticleCount, c.Segments, c.Timestamp.Format(time.RFC3339))
	}
	return w.Flush()
}

func runGen(cmd *cobra.Command, args []string) error {
	if genHoles < 0 || genHoles >= 1 {
		return fmt.Errorf("holes must be in [0,1), got %g", genHoles)
	}
	def, us, vs := gen.Synthetic(gen.Options{
		Cols: genCols, Rows: genRows,
		MaxSpeed: genMaxSpeed, HoleFraction: genHoles,
		Seed: seed,
	})
	if err := storage.SaveField(args[0], def, us, vs); err != nil {
		return err
	}
	fmt.Printf("wrote %dx%d field to %s\n", def.Cols, def.Rows, args[0])
	return nil
}
