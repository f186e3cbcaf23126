// Command densityview evaluates a compiled density-function program over a
// coordinate grid and either opens an interactive slice viewer or exports a
// single layer to PNG.
package main

import (
	"fmt"
	"os"
	"runtime"
	"sync"

	"github.com/rs/zerolog"

	"github.com/rubinda/densityvm"
	"github.com/rubinda/densityvm/config"
	"github.com/rubinda/densityvm/display"
	"github.com/rubinda/densityvm/vm"
)

func main() {
	opts := config.ParseFlags()

	level, err := zerolog.ParseLevel(opts.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "densityview: invalid --log-level %q: %v\n", opts.LogLevel, err)
		os.Exit(1)
	}
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()
	vm.SetLogger(log)

	if opts.Program == "" {
		fmt.Fprintln(os.Stderr, "densityview: --program is required")
		os.Exit(1)
	}

	fixture, err := config.LoadFixture(opts.Program)
	if err != nil {
		log.Fatal().Err(err).Msg("loading fixture")
	}
	program, err := fixture.BuildProgram()
	if err != nil {
		log.Fatal().Err(err).Msg("compiling fixture")
	}
	noiseStates, levels := fixture.BuildNoiseTables()
	bundle := densityvm.NewBundle(program, noiseStates, levels)

	if err := densityvm.Validate(bundle); err != nil {
		log.Fatal().Err(err).Msg("program failed validation")
	}

	log = log.With().Str("program", program.ID.String()).Logger()
	grid := evaluateGrid(bundle, opts, log)

	if opts.Out != "" {
		if err := display.ExportPNG(grid, opts.Y, opts.Out); err != nil {
			log.Fatal().Err(err).Msg("exporting PNG")
		}
		log.Info().Str("path", opts.Out).Int("y", opts.Y).Msg("wrote density slice")
		return
	}

	if err := display.Run(grid, opts.Y, log); err != nil {
		log.Fatal().Err(err).Msg("running viewer")
	}
}

// evaluateGrid fans Width*Depth*MaxY samples across a worker pool of
// densityvm.Evaluators, one per worker, so each goroutine reuses its own
// register file across the samples it owns instead of allocating one per
// call.
//
// log is expected to already carry the program's ID, set by the caller once
// validation has confirmed the Bundle is well-formed.
func evaluateGrid(bundle *densityvm.Bundle, opts *config.Options, log zerolog.Logger) *display.Grid {
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	grid := &display.Grid{
		Width: opts.Width,
		Depth: opts.Height,
		MaxY:  opts.Depth,
		Values: make([][]float64, opts.Depth),
	}
	for y := range grid.Values {
		grid.Values[y] = make([]float64, opts.Width*opts.Height)
	}

	log.Info().Int("width", opts.Width).Int("depth", opts.Height).Int("layers", opts.Depth).
		Int("workers", workers).Msg("evaluating density grid")

	layers := make(chan int, opts.Depth)
	for y := 0; y < opts.Depth; y++ {
		layers <- y
	}
	close(layers)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			eval := densityvm.NewEvaluator(bundle)
			for y := range layers {
				row := grid.Values[y]
				for x := 0; x < opts.Width; x++ {
					for z := 0; z < opts.Height; z++ {
						row[x*opts.Height+z] = eval.Evaluate(densityvm.Location{
							X: int32(x), Y: int32(y), Z: int32(z),
						})
					}
				}
			}
		}()
	}
	wg.Wait()

	return grid
}
