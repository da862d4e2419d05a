package main

import (
	"fmt"
	"image"
	"log"
	"path/filepath"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/spf13/cobra"

	"codelang/pkg/cli"
	"codelang/pkg/config"
	"codelang/pkg/console"
	"codelang/pkg/lang"
	"codelang/pkg/logging"
	"codelang/pkg/utils"
)

type Game struct {
	term   *console.Terminal
	done   <-chan error  // nil once the program has finished
	frame  *image.RGBA   // CPU-side framebuffer
	canvas *ebiten.Image // reused screen-sized texture

	frames int
}

func (g *Game) Update() error {
	for _, r := range ebiten.AppendInputChars(nil) {
		g.term.PushKey(r)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) || inpututil.IsKeyJustPressed(ebiten.KeyNumpadEnter) {
		g.term.PushKey(console.KeyEnter)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyBackspace) {
		g.term.PushKey(console.KeyBackspace)
	}

	g.poll()
	g.frames++
	return nil
}

// poll reports the program result on screen once it is available.
func (g *Game) poll() {
	if g.done == nil {
		return
	}
	select {
	case err := <-g.done:
		g.done = nil
		finish(g.term, err)
	default:
	}
}

func (g *Game) Draw(screen *ebiten.Image) {
	if g.frame == nil {
		g.frame = image.NewRGBA(image.Rect(0, 0, screenWidth, screenHeight))
	}
	if g.canvas == nil {
		g.canvas = ebiten.NewImage(screenWidth, screenHeight)
	}

	// blinking cursor while the program can still read input
	cells, cursor := g.term.Cells()
	showCursor := g.done != nil && (g.frames/30)%2 == 0
	renderTerminal(g.frame, cells, cursor, showCursor)

	g.canvas.WritePixels(g.frame.Pix)
	screen.DrawImage(g.canvas, nil)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return screenWidth, screenHeight
}

// startProgram clears term and runs src on its own goroutine with term as
// its console. The result arrives on the returned channel.
func startProgram(src string, opts lang.Options, term *console.Terminal) <-chan error {
	term.Clear()
	opts.Run.Stdin = term.Input()
	opts.Run.Stdout = term
	done := make(chan error, 1)
	go func() {
		done <- lang.Run(src, opts)
	}()
	return done
}

// finish writes the closing status line below the program output.
func finish(term *console.Terminal, err error) {
	if err != nil {
		fmt.Fprintf(term, "\n%s\n", err)
		return
	}
	fmt.Fprint(term, "\n[program finished]\n")
}

func newRootCmd() *cobra.Command {
	var cfgFile string
	var verbose bool

	cmd := &cobra.Command{
		Use:          "codelang-desktop <file>",
		Short:        "Run a program in a terminal window",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Resolve(cfgFile)
			if err != nil {
				return err
			}
			src, fullPath, err := utils.ReadSource(args[0])
			if err != nil {
				return err
			}

			logCfg := logging.DefaultLoggerConfig("codelang-desktop")
			logCfg.Level = cfg.Log.Level
			logCfg.Format = cfg.Log.Format
			if verbose {
				logCfg.Level = "debug"
			}
			logger := logging.NewLogger(logCfg)

			term := console.NewTerminal(cols, rows)
			defer term.Close()

			game := &Game{
				term: term,
				done: startProgram(src, cli.PipelineOptions(cfg, logger), term),
			}

			ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
			ebiten.SetWindowSize(screenWidth*2, screenHeight*2)
			ebiten.SetWindowTitle("codelang - " + filepath.Base(fullPath))
			return ebiten.RunGame(game)
		},
	}

	cmd.Flags().StringVar(&cfgFile, "config", "", "config file (default: $"+config.EnvVar+" or ./codelang.toml)")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "verbose output (debug logging)")
	return cmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		log.Fatal(err)
	}
}
