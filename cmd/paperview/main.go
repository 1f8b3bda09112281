package main

import (
	"context"
	"fmt"
	"image"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"paperview/internal/gui"
	"paperview/pkg/api"
	"paperview/pkg/capture"
	"paperview/pkg/config"
	"paperview/pkg/geom"
	"paperview/pkg/overlay"
	"paperview/pkg/resolve"
)

var imageExts = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true,
	".bmp": true, ".tif": true, ".tiff": true, ".webp": true,
}

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	args, cfgPath := splitConfig(os.Args[1:])
	if len(args) < 1 {
		printUsage()
		os.Exit(1)
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}

	command := args[0]

	switch command {
	case "info":
		if len(args) < 2 {
			fmt.Println("Usage: paperview info <image> [-w width -h height]")
			os.Exit(1)
		}
		cmdInfo(cfg, args[1:])

	case "render":
		if len(args) < 2 {
			fmt.Println("Usage: paperview render <image> [-o output.png] [-w width -h height] [-zoom s] [-at x,y] [-pan dx,dy] [-flat]")
			os.Exit(1)
		}
		cmdRender(cfg, args[1:])

	case "gui":
		cmdGUI(cfg, args[1:])

	case "help", "-h", "--help":
		printUsage()

	default:
		// If it looks like an image, open GUI
		if imageExts[strings.ToLower(filepath.Ext(command))] || resolve.IsURL(command) {
			cmdGUI(cfg, args)
		} else {
			fmt.Printf("Unknown command: %s\n", command)
			printUsage()
			os.Exit(1)
		}
	}
}

// splitConfig removes a global -config flag from args.
func splitConfig(args []string) ([]string, string) {
	var (
		rest []string
		path string
	)
	for i := 0; i < len(args); i++ {
		if args[i] == "-config" && i+1 < len(args) {
			path = args[i+1]
			i++
			continue
		}
		rest = append(rest, args[i])
	}
	return rest, path
}

func printUsage() {
	fmt.Println(`
  paperview - pan and zoom large images

Usage:
  paperview [-config file.toml] <command> [arguments]

Commands:
  info <image> [-w W -h H]      Show natural size and fitted size
  render <image> [options]      Render the viewport or a flattened capture
    -o <output>                 Output file (default: output.png)
    -w <width> -h <height>      Container size (default: window size)
    -zoom <scale>               Zoom scale
    -at <x,y>                   Zoom anchor in container pixels (default: centre)
    -pan <dx,dy>                Pan after zooming
    -flat                       Write the flattened image at natural size
    -overlay <file.toml>        Annotation layer
    -format <png|jpeg>          Output format (default: from extension)
    -quality <1-100>            JPEG quality
  gui [image] [-overlay f]      Open GUI viewer
  <image>                       Open image in GUI viewer (shortcut)

Examples:
  paperview info scan.png -w 1200 -h 900
  paperview render scan.png -o view.png -zoom 2.5 -at 300,200
  paperview render scan.png -o flat.jpg -flat -overlay notes.toml
  paperview scan.png

Built with:
  - golang.org/x/image for decoding and affine resampling
  - github.com/disintegration/imaging for export
  - fyne.io for native GUI`)
}

func parsePair(s string) (float64, float64, error) {
	a, b, ok := strings.Cut(s, ",")
	if !ok {
		return 0, 0, fmt.Errorf("expected x,y, got %q", s)
	}
	x, err := strconv.ParseFloat(strings.TrimSpace(a), 64)
	if err != nil {
		return 0, 0, err
	}
	y, err := strconv.ParseFloat(strings.TrimSpace(b), 64)
	if err != nil {
		return 0, 0, err
	}
	return x, y, nil
}

func cmdInfo(cfg config.Config, args []string) {
	src := args[0]
	w, h := float64(cfg.Window.Width), float64(cfg.Window.Height)

	for i := 1; i < len(args); i++ {
		switch args[i] {
		case "-w":
			if i+1 < len(args) {
				w, _ = strconv.ParseFloat(args[i+1], 64)
				i++
			}
		case "-h":
			if i+1 < len(args) {
				h, _ = strconv.ParseFloat(args[i+1], 64)
				i++
			}
		}
	}

	info, err := api.Info(context.Background(), src, nil)
	if err != nil {
		fmt.Printf("Error reading image: %v\n", err)
		os.Exit(1)
	}

	fit := info.Fit(w, h)
	fmt.Printf("Source: %s\n", src)
	fmt.Println("────────────────────────────────────────")
	fmt.Printf("Natural size: %.0f × %.0f px\n", info.Natural.Width, info.Natural.Height)
	fmt.Printf("Aspect:       %.4f\n", info.Aspect())
	fmt.Printf("Container:    %.0f × %.0f\n", w, h)
	fmt.Printf("Fitted size:  %.1f × %.1f (%.1f%% of natural)\n",
		fit.Width, fit.Height, 100*fit.Width/info.Natural.Width)
}

func cmdRender(cfg config.Config, args []string) {
	src := args[0]
	output := "output.png"
	w, h := float64(cfg.Window.Width), float64(cfg.Window.Height)
	zoom := 0.0
	var (
		at, pan     *geom.Point
		flat        bool
		overlayPath string
		format      string
		quality     int
	)

	for i := 1; i < len(args); i++ {
		if args[i] == "-flat" {
			flat = true
			continue
		}
		if i+1 >= len(args) {
			break
		}
		switch args[i] {
		case "-o":
			output = args[i+1]
		case "-w":
			w, _ = strconv.ParseFloat(args[i+1], 64)
		case "-h":
			h, _ = strconv.ParseFloat(args[i+1], 64)
		case "-zoom":
			zoom, _ = strconv.ParseFloat(args[i+1], 64)
		case "-at", "-pan":
			x, y, err := parsePair(args[i+1])
			if err != nil {
				fmt.Printf("Bad %s: %v\n", args[i], err)
				os.Exit(1)
			}
			if args[i] == "-at" {
				at = &geom.Point{X: x, Y: y}
			} else {
				pan = &geom.Point{X: x, Y: y}
			}
		case "-overlay":
			overlayPath = args[i+1]
		case "-format":
			format = args[i+1]
		case "-quality":
			quality, _ = strconv.Atoi(args[i+1])
		default:
			continue
		}
		i++
	}

	opts := []api.Option{
		api.ZoomMin(cfg.Viewer.ZoomMin),
		api.ZoomMax(cfg.Viewer.ZoomMax),
		api.WheelStep(cfg.Viewer.WheelStep),
		api.WithLogger(log.Default()),
	}
	if bg, err := cfg.BackgroundColor(); err == nil {
		opts = append(opts, api.Background(bg))
	}
	if overlayPath != "" {
		layer, err := overlay.Load(overlayPath)
		if err != nil {
			fmt.Printf("Error loading overlay: %v\n", err)
			os.Exit(1)
		}
		opts = append(opts, api.WithOverlay(layer))
	}

	var loadErr error
	opts = append(opts, api.OnError(func(_ string, err error) { loadErr = err }))

	fmt.Printf("Opening %s...\n", src)
	v := api.New(src, opts...)
	v.Wait()
	if loadErr != nil {
		fmt.Printf("Error loading image: %v\n", loadErr)
		os.Exit(1)
	}

	v.SetContainer(w, h)
	eng := v.Engine()
	if zoom > 0 {
		anchor := geom.Pt(w/2, h/2)
		if at != nil {
			anchor = *at
		}
		st := eng.State()
		p := st.ToViewer(anchor)
		eng.ZoomAt(p.X, p.Y, zoom-st.Scale)
	}
	if pan != nil {
		eng.Pan(pan.X, pan.Y)
	}

	st := eng.State()
	fmt.Printf("State: %s\n", st)

	var (
		img image.Image
		err error
	)
	ctx := context.Background()
	if flat {
		fmt.Println("Capturing flattened image...")
		img, err = v.ToBitmap(ctx)
	} else {
		fmt.Printf("Rendering %.0f × %.0f viewport...\n", w, h)
		img, err = v.Render(ctx)
	}
	if err != nil {
		fmt.Printf("Error rendering: %v\n", err)
		os.Exit(1)
	}

	exp := capture.FormatForPath(output, cfg.ExportOptions())
	if format != "" {
		exp.Format = format
	}
	if quality > 0 {
		exp.Quality = quality
	}
	if err := capture.SaveFile(output, img, exp); err != nil {
		fmt.Printf("Error saving %s: %v\n", output, err)
		os.Exit(1)
	}

	b := exp.Fit(img).Bounds()
	fmt.Printf("✓ Saved %s (%dx%d pixels)\n", output, b.Dx(), b.Dy())
}

func cmdGUI(cfg config.Config, args []string) {
	var (
		src   string
		layer *overlay.Layer
	)
	for i := 0; i < len(args); i++ {
		if args[i] == "-overlay" && i+1 < len(args) {
			l, err := overlay.Load(args[i+1])
			if err != nil {
				fmt.Printf("Error loading overlay: %v\n", err)
				os.Exit(1)
			}
			layer = l
			i++
			continue
		}
		src = args[i]
	}

	app := gui.NewApp(cfg, layer)

	if src != "" {
		app.RunWithFile(src)
	} else {
		app.Run()
	}
}
