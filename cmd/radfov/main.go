package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/cjeanneret/RadFOV/internal/config"
	"github.com/cjeanneret/RadFOV/internal/debug"
	"github.com/cjeanneret/RadFOV/internal/dicomreader"
	"github.com/cjeanneret/RadFOV/internal/logic/geometry"
	"github.com/cjeanneret/RadFOV/internal/report"
)

func main() {
	if err := newRootCommand(os.Stdout, dicomreader.ReadFields).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "radfov: %v\n", err)
		os.Exit(1)
	}
}

// headerReader extracts the geometry fields of one image file.
type headerReader func(path string) (*dicomreader.FieldSet, error)

// cliOptions holds the raw command line flags.
type cliOptions struct {
	configPath   string
	spacingOrder string
	debugLevel   int
}

// newRootCommand builds the radfov command. read is the header accessor;
// main passes dicomreader.ReadFields.
func newRootCommand(stdout io.Writer, read headerReader) *cobra.Command {
	opts := &cliOptions{}

	cmd := &cobra.Command{
		Use:   "radfov [dicom-file]",
		Short: "Derive detector size and field of view from a radiograph's DICOM header",
		Long: "radfov reads the source-to-detector distance, imager pixel spacing, " +
			"detector rows/columns and shutter edges of a DICOM image and prints " +
			"the sensor size, active image size and field of view.",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadOrDefault(opts.configPath)
			if err != nil {
				return fmt.Errorf("load config failed: %w", err)
			}

			if err := applyOverrides(cfg, cmd, opts); err != nil {
				return fmt.Errorf("invalid CLI override: %w", err)
			}

			debug.Init(cfg.Defaults.DebugLevel)
			debug.Section("Initialization")
			debug.Value("Config path", opts.configPath)
			debug.Value("Debug level", cfg.Defaults.DebugLevel)
			debug.Value("Pixel spacing order", cfg.Geometry.PixelSpacingOrder)

			path := resolvePath(args, cfg.Defaults.DicomPath)
			err = run(stdout, path, cfg.SpacingOrder(), read)
			if err != nil {
				debug.Error(err)
			}
			return err
		},
	}

	cmd.SetOut(stdout)
	cmd.Flags().StringVar(&opts.configPath, "config", config.DefaultPath, "path to config file (a .yaml file inside a configs/ directory)")
	cmd.Flags().StringVar(&opts.spacingOrder, "spacing-order", "", "override pixel spacing order (row_column or column_row)")
	cmd.Flags().IntVar(&opts.debugLevel, "debug", 0, "override debug level (0-4)")

	return cmd
}

// applyOverrides validates the flags the user set and copies them into cfg.
// Flags left at their defaults keep the config values.
func applyOverrides(cfg *config.Config, cmd *cobra.Command, opts *cliOptions) error {
	if cmd.Flags().Changed("spacing-order") {
		order, err := geometry.ParseSpacingOrder(opts.spacingOrder)
		if err != nil {
			return err
		}
		cfg.Geometry.PixelSpacingOrder = order.String()
	}
	if cmd.Flags().Changed("debug") {
		if opts.debugLevel < debug.LevelOff || opts.debugLevel > debug.LevelTrace {
			return fmt.Errorf("debug must be between %d and %d, got %d", debug.LevelOff, debug.LevelTrace, opts.debugLevel)
		}
		cfg.Defaults.DebugLevel = opts.debugLevel
	}
	return nil
}

// resolvePath returns the positional argument or, when absent, the
// configured default.
func resolvePath(args []string, defaultPath string) string {
	if len(args) > 0 && args[0] != "" {
		return args[0]
	}
	return defaultPath
}

// run reads one image header, derives its geometry and prints the report.
// Errors from the header reader and the derivation are returned unchanged.
func run(out io.Writer, path string, order geometry.SpacingOrder, read headerReader) error {
	if _, err := fmt.Fprintf(out, "Reading file: %s\n", path); err != nil {
		return err
	}
	debug.Info("Input file: %s", path)

	debug.Step(1, "Reading header fields")
	fields, err := read(path)
	if err != nil {
		return err
	}
	if debug.IsEnabled(debug.LevelVerbose) {
		debug.PrintStruct("Header fields", fields.GeometryInput())
	}
	logAcquisition(fields)

	debug.Step(2, "Deriving geometry")
	rec, err := geometry.Derive(fields.GeometryInput(), order)
	if err != nil {
		return err
	}

	debug.Step(3, "Writing report")
	return report.Write(out, rec)
}

// logAcquisition logs the supplementary acquisition values that are present.
func logAcquisition(f *dicomreader.FieldSet) {
	optional := []struct {
		name  string
		value *float64
	}{
		{"Distance source to patient (mm)", f.DistanceSourceToPatient},
		{"Distance source to entrance (mm)", f.DistanceSourceToEntrance},
		{"Positioner primary angle (deg)", f.PositionerPrimaryAngle},
		{"Positioner secondary angle (deg)", f.PositionerSecondaryAngle},
	}
	for _, o := range optional {
		if o.value != nil {
			debug.Value(o.name, *o.value)
		}
	}
}
