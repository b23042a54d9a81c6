// Package runner executes a machine without a user interface, driven by a
// manual clock that advances a fixed amount per tick.
package runner

import (
	"context"
	"fmt"
	"time"

	"github.com/retroenv/chip8vm/internal/clock"
	"github.com/retroenv/chip8vm/internal/config"
	"github.com/retroenv/chip8vm/internal/event"
	"github.com/retroenv/chip8vm/internal/machine"
	"github.com/retroenv/retrogolib/log"
)

// Recorder receives the beeper state for every tick.
type Recorder interface {
	Add(beeping bool, d time.Duration)
}

// Config controls a headless run.
type Config struct {
	Ticks    int      // number of ticks to execute
	TickRate int      // ticks per emulated second
	Recorder Recorder // optional
}

// Result summarizes a finished run.
type Result struct {
	Ticks     int
	Beeps     int
	Refreshes int
}

// Run ticks the machine cfg.Ticks times. The clock has to be the clock the
// machine was created with, it is advanced by the tick duration before every
// tick. Run stops early if the context is cancelled or a tick fails.
func Run(ctx context.Context, logger *log.Logger, m *machine.Machine, clk *clock.Manual, cfg Config) (Result, error) {
	tickRate := cfg.TickRate
	if tickRate <= 0 {
		tickRate = config.DefaultTickRate
	}
	tickDuration := time.Second / time.Duration(tickRate)

	logger.Debug("Starting headless run",
		log.Int("ticks", cfg.Ticks),
		log.Int("rate", tickRate),
	)

	var result Result
	for result.Ticks < cfg.Ticks {
		if err := ctx.Err(); err != nil {
			return result, fmt.Errorf("run interrupted after %d ticks: %w", result.Ticks, err)
		}

		clk.Advance(tickDuration)
		events, err := m.Tick()
		result.Ticks++
		if err != nil {
			return result, fmt.Errorf("executing tick %d: %w", result.Ticks, err)
		}

		if events.Has(event.Beep) {
			result.Beeps++
		}
		if events.Has(event.Refresh) {
			result.Refreshes++
		}
		if cfg.Recorder != nil {
			cfg.Recorder.Add(m.SoundActive() || events.Has(event.Beep), tickDuration)
		}
	}

	logger.Debug("Headless run finished",
		log.Int("ticks", result.Ticks),
		log.Int("beeps", result.Beeps),
		log.Int("refreshes", result.Refreshes),
	)
	return result, nil
}
