// Command dockview is the desktop image viewer.
package main

import (
	"fmt"
	"os"
	"time"

	"dockview/internal/log"
	"dockview/internal/settings"
	"dockview/internal/ui"

	"github.com/spf13/cobra"
)

// NewRootCmd builds the command; launch receives the resolved configuration
// so tests can run it without opening a window.
func NewRootCmd(launch func(ui.Config)) *cobra.Command {
	var (
		configPath string
		interval   time.Duration
		fullscreen bool
		slideshow  bool
		logLevel   string
	)

	rootCmd := &cobra.Command{
		Use:   "dockview [path]",
		Short: "DockView - browse the images of a folder",
		Long: `DockView shows the images of a folder one at a time, with a dock of
navigation, zoom, rotation and slideshow controls.

path may be a folder or an image file; a file opens together with the other
images in its folder.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if configPath == "" {
				p, err := settings.DefaultPath()
				if err != nil {
					return err
				}
				configPath = p
			}
			s, loadErr := settings.Load(configPath)

			logOpts := log.Options{Level: s.Logging.Level, Format: s.Logging.Format, File: s.Logging.File}.WithEnv()
			if cmd.Flags().Changed("log-level") {
				logOpts.Level = logLevel
			}
			log.Init(logOpts)
			defer log.Close()

			logger := log.WithComponent("main")
			if loadErr != nil {
				logger.Warn("using default settings", "error", loadErr)
			}

			if cmd.Flags().Changed("slideshow-interval") {
				if interval <= 0 {
					return fmt.Errorf("slideshow interval must be positive, got %s", interval)
				}
				s.Slideshow.IntervalMs = int(interval / time.Millisecond)
				s.Normalize()
			}

			cfg := ui.Config{
				SettingsPath: configPath,
				Settings:     s,
				Fullscreen:   fullscreen,
				StartShow:    slideshow,
			}
			if len(args) == 1 {
				cfg.Path = args[0]
			}
			logger.Debug("starting", "path", cfg.Path, "settings", configPath)
			launch(cfg)
			return nil
		},
	}

	rootCmd.Flags().StringVar(&configPath, "config", "", "settings file (default is $DOCKVIEW_CONFIG or the user config dir)")
	rootCmd.Flags().DurationVar(&interval, "slideshow-interval", 0, "time each image is shown during a slideshow, e.g. 5s")
	rootCmd.Flags().BoolVar(&fullscreen, "fullscreen", false, "start in full screen")
	rootCmd.Flags().BoolVar(&slideshow, "slideshow", false, "start the slideshow once the images are loaded")
	rootCmd.Flags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn or error")

	return rootCmd
}

func main() {
	if err := NewRootCmd(ui.CreateApplication).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
