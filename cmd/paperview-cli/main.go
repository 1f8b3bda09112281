// CLI-only version (no GUI dependencies)
package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"golang.org/x/term"

	"paperview/pkg/api"
	"paperview/pkg/capture"
	"paperview/pkg/config"
	"paperview/pkg/replay"
	"paperview/pkg/viewport"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]

	switch command {
	case "info":
		if len(os.Args) < 3 {
			fmt.Println("Usage: paperview-cli info <image>")
			os.Exit(1)
		}
		cmdInfo(os.Args[2])

	case "replay":
		if len(os.Args) < 4 {
			fmt.Println("Usage: paperview-cli replay <image> <script> [-o capture.png] [-config file.toml]")
			os.Exit(1)
		}
		cmdReplay(os.Args[2:])

	case "help", "-h", "--help":
		printUsage()

	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`
  paperview - pan and zoom large images (CLI version)

Usage:
  paperview-cli <command> [arguments]

Commands:
  info <image>                   Show the natural size
  replay <image> <script>        Replay a gesture script, one state per line
    -o <output>                  Write the final flattened capture
    -config <file.toml>          Viewer limits (default: paperview.toml)

Script operators:
  resize w h | down x y | move x y | up | touch x y [x y]
  tmove x y [x y] | tend n | wheel x y dy | reset

Examples:
  paperview-cli info scan.png
  paperview-cli replay scan.png pinch.txt -o after.png`)
}

func cmdInfo(src string) {
	info, err := api.Info(context.Background(), src, nil)
	if err != nil {
		fmt.Printf("Error reading image: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Source: %s\n", src)
	fmt.Println("────────────────────────────────────────")
	fmt.Printf("Natural size: %.0f × %.0f px\n", info.Natural.Width, info.Natural.Height)
	fmt.Printf("Aspect:       %.4f\n", info.Aspect())
}

func cmdReplay(args []string) {
	src, scriptPath := args[0], args[1]
	output := ""
	cfgPath := ""

	for i := 2; i < len(args); i++ {
		switch args[i] {
		case "-o":
			if i+1 < len(args) {
				output = args[i+1]
				i++
			}
		case "-config":
			if i+1 < len(args) {
				cfgPath = args[i+1]
				i++
			}
		}
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}

	f, err := os.Open(scriptPath)
	if err != nil {
		fmt.Printf("Error opening script: %v\n", err)
		os.Exit(1)
	}
	ops, err := replay.Parse(f)
	f.Close()
	if err != nil {
		fmt.Printf("Error parsing %s: %v\n", scriptPath, err)
		os.Exit(1)
	}

	var loadErr error
	v := api.New(src,
		api.ZoomMin(cfg.Viewer.ZoomMin),
		api.ZoomMax(cfg.Viewer.ZoomMax),
		api.WheelStep(cfg.Viewer.WheelStep),
		api.OnError(func(_ string, err error) { loadErr = err }),
	)
	v.Wait()
	if loadErr != nil {
		fmt.Printf("Error loading image: %v\n", loadErr)
		os.Exit(1)
	}
	v.SetContainer(float64(cfg.Window.Width), float64(cfg.Window.Height))

	out := newStateWriter(os.Stdout, term.IsTerminal(int(os.Stdout.Fd())))
	out.header()

	in := replay.NewInterpreter(v)
	in.OnStep = out.row
	if err := in.Execute(ops); err != nil {
		fmt.Printf("Error replaying: %v\n", err)
		os.Exit(1)
	}
	out.footer()

	if output == "" {
		return
	}
	img, err := v.ToBitmap(context.Background())
	if err != nil {
		fmt.Printf("Error capturing: %v\n", err)
		os.Exit(1)
	}
	if err := capture.SaveFile(output, img, capture.FormatForPath(output, cfg.ExportOptions())); err != nil {
		fmt.Printf("Error saving %s: %v\n", output, err)
		os.Exit(1)
	}
	fmt.Printf("✓ Saved %s (%dx%d pixels)\n", output, img.Bounds().Dx(), img.Bounds().Dy())
}

// stateWriter prints one row per replayed operator, as a ruled table on a
// terminal and tab-separated otherwise.
type stateWriter struct {
	w     io.Writer
	table bool
}

func newStateWriter(w io.Writer, table bool) *stateWriter {
	return &stateWriter{w: w, table: table}
}

const rowFormat = "│ %4d │ %-28s │ %7.3f │ %9.2f │ %9.2f │ %-8s │\n"

func (s *stateWriter) rule(left, mid, right string) {
	widths := []int{6, 30, 9, 11, 11, 10}
	parts := make([]string, len(widths))
	for i, n := range widths {
		parts[i] = strings.Repeat("─", n)
	}
	fmt.Fprintln(s.w, left+strings.Join(parts, mid)+right)
}

func (s *stateWriter) header() {
	if !s.table {
		fmt.Fprintln(s.w, "line\top\tscale\ttx\tty\tmode")
		return
	}
	s.rule("┌", "┬", "┐")
	fmt.Fprintf(s.w, "│ %4s │ %-28s │ %7s │ %9s │ %9s │ %-8s │\n", "line", "op", "scale", "tx", "ty", "mode")
	s.rule("├", "┼", "┤")
}

func (s *stateWriter) row(op replay.Operator, st viewport.VisualState) {
	if !s.table {
		fmt.Fprintf(s.w, "%d\t%s\t%.3f\t%.2f\t%.2f\t%s\n",
			op.Line, op, st.Scale, st.Translate.X, st.Translate.Y, st.Mode)
		return
	}
	name := op.String()
	if len(name) > 28 {
		name = name[:27] + "…"
	}
	fmt.Fprintf(s.w, rowFormat, op.Line, name, st.Scale, st.Translate.X, st.Translate.Y, st.Mode)
}

func (s *stateWriter) footer() {
	if s.table {
		s.rule("└", "┴", "┘")
	}
}
