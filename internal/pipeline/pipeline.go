// Package pipeline orchestrates loading a ROM and running the selected mode.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/retroenv/chip8vm/internal/app"
	"github.com/retroenv/chip8vm/internal/clock"
	"github.com/retroenv/chip8vm/internal/detector"
	"github.com/retroenv/chip8vm/internal/disasm"
	"github.com/retroenv/chip8vm/internal/loader"
	"github.com/retroenv/chip8vm/internal/machine"
	"github.com/retroenv/chip8vm/internal/memory"
	"github.com/retroenv/chip8vm/internal/options"
	"github.com/retroenv/chip8vm/internal/runner"
	"github.com/retroenv/chip8vm/internal/tui"
	"github.com/retroenv/chip8vm/internal/wavwriter"
	"github.com/retroenv/retrogolib/log"
)

// Pipeline orchestrates the complete emulator workflow.
type Pipeline struct {
	logger   *log.Logger
	detector *detector.Detector
	loader   *loader.Loader
}

// New creates a new pipeline.
func New(logger *log.Logger) *Pipeline {
	return &Pipeline{
		logger:   logger,
		detector: detector.New(logger),
		loader:   loader.New(),
	}
}

// Execute loads the ROM and runs the mode selected by the options. Listings
// and the final screen of headless runs are written to the writer.
func (p *Pipeline) Execute(ctx context.Context, opts options.Program, writer io.Writer) error {
	p.detector.WarnIfNotCHIP8(opts.Input)

	rom, err := p.loader.Load(opts.Input)
	if err != nil {
		return fmt.Errorf("loading rom: %w", err)
	}

	app.PrintInfo(p.logger, opts, rom)

	switch {
	case opts.Disasm:
		return p.writeListing(rom, writer)
	case opts.Headless:
		return p.runHeadless(ctx, opts, rom, writer)
	default:
		return p.runInteractive(ctx, opts, rom)
	}
}

// OpenOutput returns the writer for the output option, stdout if no file name
// was given.
func OpenOutput(opts options.Program) (io.WriteCloser, error) {
	if opts.Output == "" {
		return &nopCloser{os.Stdout}, nil
	}

	file, err := os.Create(opts.Output)
	if err != nil {
		return nil, fmt.Errorf("creating output file %s: %w", opts.Output, err)
	}
	return file, nil
}

func (p *Pipeline) writeListing(rom loader.ROM, writer io.Writer) error {
	lines := disasm.Disassemble(rom.Data, memory.ProgramStart)
	if _, err := fmt.Fprintf(writer, "; ROM CRC32 checksum: %08x\n; Code base address: $%03x\n\n",
		rom.Checksum, memory.ProgramStart); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	if err := disasm.Write(writer, lines); err != nil {
		return fmt.Errorf("writing listing: %w", err)
	}
	return nil
}

func (p *Pipeline) runHeadless(ctx context.Context, opts options.Program, rom loader.ROM, writer io.Writer) error {
	clk := clock.NewManual(time.Now())
	machineOptions := []machine.Option{machine.WithClock(clk)}
	if opts.Seed != 0 {
		machineOptions = append(machineOptions, machine.WithSeed(opts.Seed))
	}
	m := machine.New(machineOptions...)
	if err := m.LoadROM(rom.Data); err != nil {
		return fmt.Errorf("loading rom into memory: %w", err)
	}

	cfg := runner.Config{
		Ticks:    opts.Ticks,
		TickRate: opts.TickRate,
	}
	var wav *wavwriter.Writer
	if opts.Wav != "" {
		wav = wavwriter.New(opts.Wav)
		cfg.Recorder = wav
	}

	result, runErr := runner.Run(ctx, p.logger, m, clk, cfg)

	if wav != nil {
		if err := wav.Close(); err != nil {
			return fmt.Errorf("writing wav file: %w", err)
		}
		p.logger.Info("Recorded beeper", log.String("file", opts.Wav), log.Int("samples", wav.SampleCount()))
	}
	if runErr != nil {
		return runErr
	}

	p.logger.Info("Run finished",
		log.Int("ticks", result.Ticks),
		log.Int("beeps", result.Beeps),
		log.Int("refreshes", result.Refreshes),
	)

	if _, err := fmt.Fprint(writer, m.Graphics().Frame().String()); err != nil {
		return fmt.Errorf("writing screen: %w", err)
	}
	return nil
}

func (p *Pipeline) runInteractive(ctx context.Context, opts options.Program, rom loader.ROM) error {
	ui, err := tui.New(p.logger, rom.Data, tui.Config{
		TickRate: opts.TickRate,
		Paused:   opts.Paused,
		Seed:     opts.Seed,
	})
	if err != nil {
		return fmt.Errorf("creating terminal ui: %w", err)
	}
	if err := ui.Run(ctx); err != nil {
		return fmt.Errorf("running machine: %w", err)
	}
	return nil
}

// nopCloser wraps an io.Writer to add a no-op Close method
type nopCloser struct {
	io.Writer
}

func (nc *nopCloser) Close() error {
	return nil
}
