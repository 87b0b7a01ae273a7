package main

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/EinSatzMitX/charcoal/config"
	"github.com/EinSatzMitX/charcoal/feedback"
	"github.com/EinSatzMitX/charcoal/pixel"
	"github.com/EinSatzMitX/charcoal/terminal"
	"github.com/EinSatzMitX/charcoal/viewer"
)

var (
	colorFlag  string
	zoomFlag   float64
	noStatus   bool
	audioFlag  bool
	configFile string
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "charcoal [flags] <image>",
		Short:        "terminal raster image viewer",
		Long:         "charcoal renders raster images as colored half-block character grids\nwith interactive zoom and pan.\n\nSupported formats: PNG, JPEG, GIF, BMP, TIFF, WebP",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(args[0])
		},
	}

	rootCmd.Flags().StringVarP(&colorFlag, "color", "c", "", "color mode: auto, true, 256, mono")
	rootCmd.Flags().Float64VarP(&zoomFlag, "zoom", "z", 0, "initial zoom in samples per pixel (0 = fit)")
	rootCmd.Flags().BoolVar(&noStatus, "no-status", false, "hide the status line")
	rootCmd.Flags().BoolVar(&audioFlag, "audio", false, "audible buzz on rejected input")
	rootCmd.Flags().StringVar(&configFile, "config", "", "config file path")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(path string) error {
	cfg, err := config.Load(configFile)
	if err != nil {
		return err
	}

	// CLI flags override the config file
	if colorFlag != "" {
		cfg.Color = colorFlag
	}
	if noStatus {
		cfg.ShowStatus = false
	}
	if audioFlag {
		cfg.Audio = true
	}

	setupLogging(cfg)

	profile, err := resolveProfile(cfg.Color)
	if err != nil {
		return err
	}

	img, err := pixel.Decode(path, cfg.MaxDecodeSize)
	if err != nil {
		return err
	}

	bell := feedback.NewBell(cfg.Audio)
	defer bell.Close()

	term := terminal.New(profile)
	if err := term.Init(); err != nil {
		return fmt.Errorf("terminal init: %w", err)
	}
	defer term.Fini()

	// A panic must not leave the user's terminal in raw mode
	defer func() {
		if r := recover(); r != nil {
			term.Fini()
			terminal.EmergencyReset(os.Stdout)
			panic(r)
		}
	}()

	v := viewer.New(term, cfg, bell, path, img)
	if zoomFlag > 0 {
		v.SetInitialZoom(zoomFlag)
	}
	return v.Run()
}

// setupLogging sends diagnostics to the configured file; the terminal
// is in raw alternate-screen mode, so stderr output would corrupt it
func setupLogging(cfg *config.Config) {
	log.SetOutput(io.Discard)
	if cfg.LogFile == "" {
		return
	}
	f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: cannot open log file: %v\n", err)
		return
	}
	log.SetOutput(f)
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
}

// resolveProfile maps the configured color mode to a terminal profile,
// detecting capability for "auto"
func resolveProfile(mode string) (terminal.Profile, error) {
	switch mode {
	case "", "auto":
		return terminal.DetectProfile(), nil
	case "true", "truecolor", "24":
		return terminal.ProfileTrueColor, nil
	case "256", "8":
		return terminal.Profile256, nil
	case "mono", "none":
		return terminal.ProfileNoColor, nil
	default:
		return 0, fmt.Errorf("unknown color mode %q", mode)
	}
}
