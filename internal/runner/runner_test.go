package runner

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/retroenv/chip8vm/internal/clock"
	"github.com/retroenv/chip8vm/internal/config"
	"github.com/retroenv/chip8vm/internal/machine"
	"github.com/retroenv/chip8vm/internal/memory"
	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"
)

type recorder struct {
	beeping  int
	duration time.Duration
}

func (r *recorder) Add(beeping bool, d time.Duration) {
	if beeping {
		r.beeping++
	}
	r.duration += d
}

func newTestMachine(t *testing.T, rom []byte) (*machine.Machine, *clock.Manual) {
	t.Helper()
	clk := clock.NewManual(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	m := machine.New(machine.WithClock(clk), machine.WithSeed(1))
	assert.NoError(t, m.LoadROM(rom))
	return m, clk
}

func TestRun(t *testing.T) {
	// V0 = 3, ST = V0, cls, loop
	m, clk := newTestMachine(t, []byte{0x60, 0x03, 0xF0, 0x18, 0x00, 0xE0, 0x12, 0x06})
	rec := &recorder{}
	logger := log.NewTestLogger(t)

	result, err := Run(context.Background(), logger, m, clk, Config{
		Ticks:    60,
		TickRate: 60,
		Recorder: rec,
	})
	assert.NoError(t, err)
	assert.Equal(t, 60, result.Ticks)
	assert.Equal(t, 3, result.Beeps)
	assert.Equal(t, 1, result.Refreshes)
	assert.Equal(t, 60*(time.Second/60), rec.duration)
	assert.True(t, rec.beeping >= 3)
	assert.Equal(t, uint8(0), m.CPU().SoundTimer())
}

func TestRunDefaultRate(t *testing.T) {
	m, clk := newTestMachine(t, []byte{0x12, 0x00})
	start := clk.Now()

	result, err := Run(context.Background(), log.NewTestLogger(t), m, clk, Config{Ticks: 700})
	assert.NoError(t, err)
	assert.Equal(t, 700, result.Ticks)
	assert.Equal(t, 700*(time.Second/config.DefaultTickRate), clk.Now().Sub(start))
}

func TestRunError(t *testing.T) {
	m, clk := newTestMachine(t, []byte{0x60, 0x01, 0x00, 0xEE})

	result, err := Run(context.Background(), log.NewTestLogger(t), m, clk, Config{Ticks: 10})
	assert.ErrorContains(t, err, "executing tick 2")
	assert.True(t, errors.Is(err, memory.ErrStackUnderflow))
	assert.Equal(t, 2, result.Ticks)
}

func TestRunCancelled(t *testing.T) {
	m, clk := newTestMachine(t, []byte{0x12, 0x00})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := Run(ctx, log.NewTestLogger(t), m, clk, Config{Ticks: 10})
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Equal(t, 0, result.Ticks)
}
