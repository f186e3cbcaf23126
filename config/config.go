// Package config loads the demo driver's settings: CLI flags for the
// interactive viewer and an optional YAML fixture describing a compiled
// program plus the noise tables it samples. Permutation-table and
// amplitude-table construction -- inputs the core evaluator treats as
// already built -- live here, since this package is the boundary where a
// demo's raw settings turn into the tables the evaluator consumes.
package config

import (
	"fmt"
	"math/rand"
	"os"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/rubinda/densityvm/noise"
	"github.com/rubinda/densityvm/vm"
)

// Options holds the demo driver's command-line flags.
type Options struct {
	Width    int
	Height   int
	Depth    int
	Y        int
	Seed     int64
	LogLevel string
	Program  string
	Out      string
	Workers  int
}

// ParseFlags parses os.Args[1:] into Options.
func ParseFlags() *Options {
	opts := &Options{}

	pflag.IntVarP(&opts.Width, "width", "w", 256, "grid width in blocks")
	pflag.IntVarP(&opts.Height, "height", "d", 256, "grid depth (Z span) in blocks")
	pflag.IntVarP(&opts.Depth, "max-y", "", 64, "number of Y layers to keep resident for slicing")
	pflag.IntVarP(&opts.Y, "y", "y", 0, "initial Y layer shown by the viewer")
	pflag.Int64VarP(&opts.Seed, "seed", "s", 0, "not used; permutation tables are seeded from each fixture noise's seed")
	pflag.StringVarP(&opts.LogLevel, "log-level", "l", "info", "zerolog level (debug, info, warn, error)")
	pflag.StringVarP(&opts.Program, "program", "p", "", "YAML fixture describing the program + noise tables (required)")
	pflag.StringVarP(&opts.Out, "out", "o", "", "write a single Y-slice to this PNG path instead of opening the viewer")
	pflag.IntVarP(&opts.Workers, "workers", "j", 0, "worker goroutines for grid evaluation (0 = GOMAXPROCS)")

	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "densityview - evaluate and view a compiled density-function program\n\n")
		fmt.Fprintf(os.Stderr, "Usage: densityview --program FIXTURE.yaml [flags]\n\n")
		pflag.PrintDefaults()
	}
	pflag.Parse()

	return opts
}

// Fixture is the on-disk YAML description of a demo program: a linear
// frame list, its constant pool, and the noise tables its operators sample
// by noise_index.
type Fixture struct {
	Frames    []FrameSpec  `yaml:"frames"`
	Constants []float64    `yaml:"constants"`
	Noises    []NoiseSpec  `yaml:"noises"`
}

// FrameSpec is one StackFrame, with the operator named instead of numbered
// so fixtures stay readable.
type FrameSpec struct {
	Op             string   `yaml:"op"`
	Register       uint8    `yaml:"register"`
	Args           []ArgSpec `yaml:"args,omitempty"`
	ConstantsIndex uint16   `yaml:"constants_index,omitempty"`
	NoiseIndex     uint8    `yaml:"noise_index,omitempty"`
}

// ArgSpec names one logical argument slot of a frame.
type ArgSpec struct {
	Source string `yaml:"source"` // "constant" or "register"
	Pos    uint16 `yaml:"pos"`
}

// NoiseSpec describes one VanillaNoise: two octave-stack descriptors plus
// the combine factors. Octaves are generated from Seed rather than stored
// permutation tables, keeping fixtures short.
type NoiseSpec struct {
	Seed      int64          `yaml:"seed"`
	ValFactor float64        `yaml:"val_factor"`
	ValMax    float64        `yaml:"val_max"`
	Stacks    [2]StackSpec   `yaml:"stacks"`
}

// StackSpec describes one PerlinNoise octave run.
type StackSpec struct {
	OctaveCount       uint8   `yaml:"octave_count"`
	LowestValFactor   float64 `yaml:"lowest_val_factor"`
	LowestInputFactor float64 `yaml:"lowest_input_factor"`
}

var opNames = map[string]vm.FnType{
	"add": vm.Add, "mul": vm.Mul, "min": vm.Min, "max": vm.Max,
	"abs": vm.Abs, "square": vm.Square, "cube": vm.Cube,
	"half_negative": vm.HalfNegative, "quarter_negative": vm.QuarterNegative,
	"squeeze": vm.Squeeze, "clamp": vm.Clamp,
	"y_clamped_gradient": vm.YClampedGradient, "range_choice": vm.RangeChoice,
	"noise": vm.Noise, "shifted_noise": vm.ShiftedNoise, "spline": vm.Spline,
	"weird_scaled_sampler": vm.WeirdScaledSampler, "interpolated": vm.Interpolated,
	"blend_density": vm.BlendDensity, "blend_offset": vm.BlendOffset,
	"blend_alpha": vm.BlendAlpha, "cache_once": vm.CacheOnce,
	"flat_cache": vm.FlatCache, "cache_2d": vm.Cache2D,
	"shift_a": vm.ShiftA, "shift_b": vm.ShiftB,
	"old_blended_noise": vm.OldBlendedNoise, "end_islands": vm.EndIslands,
}

// LoadFixture reads and parses a YAML fixture from path.
func LoadFixture(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: reading fixture %q: %w", path, err)
	}
	var fx Fixture
	if err := yaml.Unmarshal(data, &fx); err != nil {
		return nil, fmt.Errorf("config: parsing fixture %q: %w", path, err)
	}
	return &fx, nil
}

// BuildProgram compiles the fixture's frame list into a vm.Program.
func (fx *Fixture) BuildProgram() (*vm.Program, error) {
	frames := make([]vm.StackFrame, len(fx.Frames))
	for i, fs := range fx.Frames {
		op, ok := opNames[fs.Op]
		if !ok {
			return nil, fmt.Errorf("config: frame %d: unknown op %q", i, fs.Op)
		}
		f := vm.StackFrame{
			FnType:         op,
			RegPosition:    fs.Register,
			ConstantsIndex: fs.ConstantsIndex,
			NoiseIndex:     fs.NoiseIndex,
		}
		for k, a := range fs.Args {
			if k >= 3 {
				return nil, fmt.Errorf("config: frame %d: more than 3 args", i)
			}
			switch a.Source {
			case "constant":
				f.ArgTypes[k] = vm.Constant
			case "register":
				f.ArgTypes[k] = vm.Function
			default:
				return nil, fmt.Errorf("config: frame %d arg %d: unknown source %q", i, k, a.Source)
			}
			f.ArgPositions[k] = a.Pos
		}
		frames[i] = f
	}
	return vm.NewProgram(frames, fx.Constants), nil
}

// BuildNoiseTables expands the fixture's noise specs into the VanillaNoise
// descriptors and shared octave/amplitude Levels an InputBundle needs, using
// a seeded Fisher-Yates shuffle to construct each octave's permutation
// table deterministically from NoiseSpec.Seed.
func (fx *Fixture) BuildNoiseTables() ([]noise.VanillaNoise, noise.Levels) {
	var octaves []noise.ImprovedNoise
	var amplitudes []float64
	states := make([]noise.VanillaNoise, len(fx.Noises))

	for i, ns := range fx.Noises {
		rng := rand.New(rand.NewSource(ns.Seed))
		var v noise.VanillaNoise
		v.ValFactor = ns.ValFactor
		v.ValMax = ns.ValMax
		for s, stack := range ns.Stacks {
			pos := uint16(len(octaves))
			for o := uint8(0); o < stack.OctaveCount; o++ {
				octaves = append(octaves, *noise.NewImprovedNoise(0, 0, 0, shuffledPermutation(rng)))
				amplitudes = append(amplitudes, 1.0)
			}
			v.Noises[s] = noise.PerlinNoise{
				NoiseCount:        stack.OctaveCount,
				DataPosition:      pos,
				LowestValFactor:   stack.LowestValFactor,
				LowestInputFactor: stack.LowestInputFactor,
			}
		}
		states[i] = v
	}
	return states, noise.Levels{Octaves: octaves, Amplitudes: amplitudes}
}

// shuffledPermutation returns a fresh Fisher-Yates shuffle of 0..255 driven
// by rng, seeding one improved-noise octave's permutation table.
func shuffledPermutation(rng *rand.Rand) []byte {
	values := make([]byte, 256)
	for i := range values {
		values[i] = byte(i)
	}
	rng.Shuffle(len(values), func(i, j int) {
		values[i], values[j] = values[j], values[i]
	})
	return values
}
