package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"dockview/internal/log"
	"dockview/internal/navigator"
	"dockview/internal/service"
	"dockview/internal/thumbcache"
	"dockview/internal/trash"

	"github.com/gobwas/glob"
	"github.com/spf13/cobra"
)

// parseViewport reads a "WxH" size.
func parseViewport(s string) (navigator.Size, error) {
	w, h, ok := strings.Cut(strings.ToLower(strings.TrimSpace(s)), "x")
	if !ok {
		return navigator.Size{}, fmt.Errorf("viewport %q is not WxH", s)
	}
	width, err := strconv.Atoi(w)
	if err != nil || width <= 0 {
		return navigator.Size{}, fmt.Errorf("viewport %q has an invalid width", s)
	}
	height, err := strconv.Atoi(h)
	if err != nil || height <= 0 {
		return navigator.Size{}, fmt.Errorf("viewport %q has an invalid height", s)
	}
	return navigator.Size{W: width, H: height}, nil
}

// NewRootCmd creates the root command for the CLI application.
// newDeleter supplies the trash used by the trash command, so tests can point
// it at a temporary directory.
func NewRootCmd(newDeleter func() (trash.Deleter, error)) *cobra.Command {
	var logLevel string
	images := service.NewImageService()

	rootCmd := &cobra.Command{
		Use:           "dockview-cli",
		Short:         "DockView CLI - inspect and render image sets without the GUI",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			log.Init(log.Options{Level: logLevel, Console: cmd.ErrOrStderr()}.WithEnv())
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			log.Close()
		},
	}
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level: debug, info, warn or error")

	// List the image set
	var globFlag string
	listCmd := &cobra.Command{
		Use:   "list [path]",
		Short: "List the images of a folder, or of the folder around a file, in viewing order",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "."
			if len(args) == 1 {
				path = args[0]
			}
			var match glob.Glob
			if globFlag != "" {
				g, err := glob.Compile(globFlag)
				if err != nil {
					return fmt.Errorf("invalid glob %q: %w", globFlag, err)
				}
				match = g
			}

			nav := navigator.New()
			if err := nav.Open(path); err != nil {
				return err
			}
			index, count := nav.Position()
			if count == 0 {
				cmd.Println("No images found.")
				return nil
			}
			for i, img := range nav.Images() {
				if match != nil && !match.Match(filepath.Base(img)) {
					continue
				}
				marker := " "
				if i == index {
					marker = "*"
				}
				cmd.Printf("%s %s\n", marker, img)
			}
			return nil
		},
	}
	listCmd.Flags().StringVarP(&globFlag, "glob", "g", "", "only list file names matching this pattern, e.g. '*.jpg'")
	rootCmd.AddCommand(listCmd)

	// Show image details
	infoCmd := &cobra.Command{
		Use:   "info [image]",
		Short: "Show size, format and EXIF details of an image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			info, err := images.Info(args[0])
			if err != nil {
				return err
			}
			cmd.Printf("File:     %s\n", info.Path)
			cmd.Printf("Format:   %s\n", strings.ToUpper(info.Format))
			cmd.Printf("Size:     %dx%d px\n", info.Width, info.Height)
			cmd.Printf("Bytes:    %d\n", info.Size)
			cmd.Printf("Modified: %s\n", info.ModTime.Format("2006-01-02 15:04:05"))
			if len(info.EXIFData) == 0 {
				return nil
			}
			keys := make([]string, 0, len(info.EXIFData))
			for k := range info.EXIFData {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			cmd.Println("EXIF:")
			for _, k := range keys {
				cmd.Printf("  %s: %s\n", k, info.EXIFData[k])
			}
			return nil
		},
	}
	rootCmd.AddCommand(infoCmd)

	// Render a frame the way the viewer would
	var (
		viewportFlag string
		fitFlag      bool
		zoomFlag     float64
		rotateFlag   int
		outFlag      string
	)
	renderCmd := &cobra.Command{
		Use:   "render [image]",
		Short: "Render an image for a viewport with the viewer's zoom, fit and rotation rules",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			viewport, err := parseViewport(viewportFlag)
			if err != nil {
				return err
			}
			if outFlag == "" {
				return fmt.Errorf("--out is required")
			}

			nav := navigator.New()
			if err := nav.Open(args[0]); err != nil {
				return err
			}
			nav.SetFitToWindow(fitFlag)
			if zoomFlag != 1 {
				if err := nav.ApplyZoom(zoomFlag); err != nil {
					return err
				}
			}
			if rotateFlag != 0 {
				if err := nav.Rotate(rotateFlag); err != nil {
					return err
				}
			}

			path, err := nav.Current()
			if err != nil {
				return err
			}
			img, err := images.Decode(path)
			if err != nil {
				return err
			}
			ins, err := nav.Instruction(viewport, service.Bounds(img))
			if err != nil {
				return err
			}
			if err := images.Save(images.Render(img, ins), outFlag); err != nil {
				return err
			}
			cmd.Printf("Wrote %s (%s, scale %.3f, rotation %d)\n", outFlag, ins.Target, ins.Scale, ins.Rotation)
			return nil
		},
	}
	renderCmd.Flags().StringVar(&viewportFlag, "viewport", "1000x700", "drawable area as WxH pixels")
	renderCmd.Flags().BoolVar(&fitFlag, "fit", false, "fit the image to the viewport")
	renderCmd.Flags().Float64Var(&zoomFlag, "zoom", 1, "zoom factor applied to the actual size")
	renderCmd.Flags().IntVar(&rotateFlag, "rotate", 0, "clockwise rotation in degrees, a multiple of 90")
	renderCmd.Flags().StringVarP(&outFlag, "out", "o", "", "output file; the format follows the extension")
	rootCmd.AddCommand(renderCmd)

	// Trash or delete an image
	var permanentFlag, forceFlag bool
	var trashDirFlag string
	trashCmd := &cobra.Command{
		Use:   "trash [image]",
		Short: "Move an image to the trash, or delete it with --permanent",
		Long: `Move an image to the user's trash, or delete it permanently with --permanent.
Without --force nothing is changed and the planned action is only shown.
--trash-dir writes a freedesktop trash at the given directory instead.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := filepath.Abs(args[0])
			if err != nil {
				return err
			}
			if _, err := os.Stat(path); err != nil {
				return fmt.Errorf("cannot delete %s: %w", path, err)
			}
			action := "moved to the trash"
			if permanentFlag {
				action = "deleted permanently"
			}
			cmd.Printf("%s will be %s.\n", path, action)

			// Default to dry run unless --force is specified
			if !forceFlag {
				cmd.Printf("[DRY RUN] Nothing was changed. Use --force to proceed.\n")
				return nil
			}

			if permanentFlag {
				if err := trash.Remove(path); err != nil {
					return err
				}
				cmd.Printf("Deleted %s.\n", path)
				return nil
			}

			var deleter trash.Deleter
			if trashDirFlag != "" {
				deleter = trash.New(trashDirFlag)
			} else if deleter, err = newDeleter(); err != nil {
				return err
			}
			dest, err := deleter.Trash(path)
			if err != nil {
				return err
			}
			if dest == "" {
				cmd.Printf("Moved %s to the trash.\n", path)
			} else {
				cmd.Printf("Moved %s to %s.\n", path, dest)
			}
			return nil
		},
	}
	trashCmd.Flags().BoolVar(&permanentFlag, "permanent", false, "delete instead of moving to the trash")
	trashCmd.Flags().BoolVarP(&forceFlag, "force", "f", false, "actually change the file system")
	trashCmd.Flags().StringVar(&trashDirFlag, "trash-dir", "", "trash directory to use instead of the desktop trash")
	rootCmd.AddCommand(trashCmd)

	// Prune the thumbnail cache
	var cacheDirFlag string
	cleanCmd := &cobra.Command{
		Use:   "thumbs-clean",
		Short: "Remove cached thumbnails of missing or changed files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := log.WithComponent("thumbcache")
			c, err := thumbcache.Open(cacheDirFlag, func(m string) { logger.Debug(m) })
			if err != nil {
				return err
			}
			defer c.Close()

			removed, err := c.Prune()
			if err != nil {
				return err
			}
			left, err := c.Len()
			if err != nil {
				return err
			}
			cmd.Printf("Removed %d stale thumbnails, %d remain.\n", removed, left)
			return nil
		},
	}
	cleanCmd.Flags().StringVar(&cacheDirFlag, "cache", "", "thumbnail cache directory (default is the user cache dir)")
	rootCmd.AddCommand(cleanCmd)

	return rootCmd
}

func main() {
	newDeleter := func() (trash.Deleter, error) {
		return trash.NewSystem(), nil
	}
	if err := NewRootCmd(newDeleter).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
