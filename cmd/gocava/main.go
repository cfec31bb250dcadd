package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/noriah/gocava"
	"github.com/noriah/gocava/analysis"
	pacapture "github.com/noriah/gocava/analysis/capture"
	"github.com/noriah/gocava/cava"
	"github.com/noriah/gocava/config"
	"github.com/noriah/gocava/input"

	_ "github.com/noriah/gocava/input/all"

	"github.com/integrii/flaggy"
	"go.uber.org/zap"
)

// AppName is the app name
const AppName = "gocava"

// AppDesc is the app description
const AppDesc = "Audio spectrum visualizer on top of libcava"

// AppSite is the app website
const AppSite = "https://github.com/noriah/gocava"

var version = "unknown"

type command int

const (
	cmdRun command = iota
	cmdListInputs
	cmdListDevices
	cmdAnalyze
	cmdCapture
)

type options struct {
	cfg      config.Config
	cfgPath  string
	threaded bool
	wavPath  string
}

func main() {
	var opts options

	opts.cfgPath = configArg(os.Args[1:])

	cfg, err := config.Load(opts.cfgPath)
	chk(err, "failed to load config")
	opts.cfg = cfg

	cmd := doFlags(&opts)

	_, err = opts.cfg.Sanitize()
	chk(err, "invalid config")

	log, err := newLogger(opts.cfg.LogLevel)
	chk(err, "failed to create logger")
	defer log.Sync()

	// Root Context
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	switch cmd {
	case cmdListInputs:
		listInputs()

	case cmdListDevices:
		chk(listDevices(opts.cfg.Input), "failed to list devices")

	case cmdAnalyze:
		chk(analyze(ctx, &opts, log), "failed to analyze "+opts.wavPath)

	case cmdCapture:
		chk(capture(ctx, &opts, log), "failed to capture")

	default:
		chk(run(ctx, &opts, log), "failed to run "+AppName)
	}
}

// configArg finds the config path before flags are parsed so the file can
// provide the flag defaults.
func configArg(args []string) string {
	for i, arg := range args {
		for _, name := range []string{"-c", "--config"} {
			if arg == name && i+1 < len(args) {
				return args[i+1]
			}

			if v := strings.TrimPrefix(arg, name+"="); v != arg {
				return v
			}
		}
	}

	return ""
}

func doFlags(opts *options) command {
	cfg := &opts.cfg

	parser := flaggy.NewParser(AppName)
	parser.Description = AppDesc
	parser.AdditionalHelpPrepend = AppSite
	parser.Version = version

	listInputsCmd := flaggy.Subcommand{
		Name:        "list-inputs",
		ShortName:   "li",
		Description: "list all supported input methods",
	}

	parser.AttachSubcommand(&listInputsCmd, 1)

	listDevicesCmd := flaggy.Subcommand{
		Name:        "list-devices",
		ShortName:   "ld",
		Description: "list all devices for an input method",
	}

	parser.AttachSubcommand(&listDevicesCmd, 1)

	analyzeCmd := flaggy.Subcommand{
		Name:        "analyze",
		ShortName:   "a",
		Description: "visualize a wav file",
	}
	analyzeCmd.AddPositionalValue(&opts.wavPath, "file", 1, true, "wav file to analyze")

	parser.AttachSubcommand(&analyzeCmd, 1)

	captureCmd := flaggy.Subcommand{
		Name:                 "capture",
		ShortName:            "cap",
		Description:          "visualize a portaudio device read from Go",
		AdditionalHelpAppend: "\nthe source flag names the portaudio device",
	}

	parser.AttachSubcommand(&captureCmd, 1)

	parser.String(&opts.cfgPath, "c", "config", "config file path")
	parser.String(&cfg.Input, "i", "input", "input method name (see list-inputs)")
	parser.String(&cfg.Source, "s", "source", "source device name (see list-devices)")
	parser.Int(&cfg.Bars, "b", "bars", "number of bars [1, 256]")
	parser.Int(&cfg.Framerate, "f", "fps", "frame rate [1, 360]")
	parser.Int(&cfg.SampleRate, "r", "rate", "sample rate")
	parser.Bool(&cfg.Stereo, "st", "stereo", "split left and right channels")
	parser.Bool(&cfg.Autosens, "as", "autosens", "keep values in the 0-1 range")
	parser.Float64(&cfg.NoiseReduction, "nr", "noise-reduction", "noise reduction [0, 1]")
	parser.Float64(&cfg.Monstercat, "m", "monstercat", "monstercat smoothing (0 is off)")
	parser.Int(&cfg.Waves, "w", "waves", "wave smoothing (0 is off)")
	parser.Int(&cfg.LowCutoff, "lo", "low-cutoff", "low cutoff frequency in Hz")
	parser.Int(&cfg.HighCutoff, "hi", "high-cutoff", "high cutoff frequency in Hz")
	parser.String(&cfg.Output, "o", "output", "output (terminal, raw, websocket)")
	parser.String(&cfg.Listen, "l", "listen", "websocket listen address")
	parser.Int(&cfg.AsciiRange, "ar", "ascii-range", "raw output range (0 prints floats)")
	parser.Int(&cfg.BarWidth, "bw", "bar", "bar width [1, +Inf)")
	parser.Int(&cfg.SpaceWidth, "sw", "space", "space width [0, +Inf)")
	parser.String(&cfg.LogLevel, "ll", "log-level", "log level (debug, info, warn, error)")
	parser.Bool(&opts.threaded, "t", "threaded", "write outputs in parallel")

	chk(parser.Parse(), "failed to parse arguments")

	switch {
	case listInputsCmd.Used:
		return cmdListInputs
	case listDevicesCmd.Used:
		return cmdListDevices
	case analyzeCmd.Used:
		return cmdAnalyze
	case captureCmd.Used:
		return cmdCapture
	}

	return cmdRun
}

func listInputs() {
	def := input.DefaultBackend()

	fmt.Println("all input methods. '*' marks default")

	for _, backend := range input.Backends {
		star := ' '
		if backend.Name == def {
			star = '*'
		}

		fmt.Printf("- %s %c\n", backend.Name, star)
	}
}

func listDevices(name string) error {
	backend, err := input.InitBackend(name)
	if err != nil {
		return err
	}
	defer backend.Close()

	devices, err := backend.Devices()
	if err != nil {
		return err
	}

	// We don't really need the default device to be indicated.
	defaultDevice, _ := backend.DefaultDevice()

	fmt.Printf("all devices for %q input. '*' marks default\n", name)

	for idx := range devices {
		star := ' '
		if defaultDevice != nil && devices[idx].String() == defaultDevice.String() {
			star = '*'
		}

		fmt.Printf("- %v %c\n", devices[idx], star)
	}

	return nil
}

func run(ctx context.Context, opts *options, log *zap.Logger) error {
	out, err := openOutput(&opts.cfg, opts.cfg.Stereo, log)
	if err != nil {
		return err
	}
	defer out.Close()

	ctx = out.Start(ctx)

	svc, err := gocava.New(ctx, opts.cfg, log,
		gocava.WithOutputs(out),
		gocava.WithThreaded(opts.threaded))
	if err != nil {
		return err
	}

	<-ctx.Done()

	return svc.Close()
}

func analyze(ctx context.Context, opts *options, log *zap.Logger) error {
	cfg := opts.cfg
	if cfg.Output == config.OutputTerminal {
		cfg.Output = config.OutputRaw
	}

	// stereo is decided by the file; the raw writer does not care
	out, err := openOutput(&cfg, false, log)
	if err != nil {
		return err
	}
	defer out.Close()

	ctx = out.Start(ctx)

	return analysis.AnalyzeWAV(ctx, opts.wavPath, cfg.Plan(1), cfg.Framerate, out.Write)
}

// capturePlan splits the configured bars across the captured channels the
// same way the run command does.
func capturePlan(cfg config.Config) cava.PlanConfig {
	channels := 1
	if cfg.Stereo {
		channels = 2
	}
	return cfg.Plan(channels)
}

func capture(ctx context.Context, opts *options, log *zap.Logger) error {
	out, err := openOutput(&opts.cfg, opts.cfg.Stereo, log)
	if err != nil {
		return err
	}
	defer out.Close()

	ctx = out.Start(ctx)

	return pacapture.Run(ctx, pacapture.Config{
		Device:    opts.cfg.Source,
		Plan:      capturePlan(opts.cfg),
		Framerate: opts.cfg.Framerate,
		Logger:    log,
	}, out.Write)
}

func chk(err error, wrap string) {
	if err != nil {
		fmt.Fprintln(os.Stderr, wrap+": ", err)
		os.Exit(1)
	}
}
