// Package machine wires memory, graphics, input and CPU into a complete
// CHIP-8 virtual machine.
package machine

import (
	"fmt"

	"github.com/retroenv/chip8vm/internal/clock"
	"github.com/retroenv/chip8vm/internal/cpu"
	"github.com/retroenv/chip8vm/internal/event"
	"github.com/retroenv/chip8vm/internal/graphics"
	"github.com/retroenv/chip8vm/internal/input"
	"github.com/retroenv/chip8vm/internal/memory"
)

// Machine owns one instance of every component. It is not safe for
// concurrent use.
type Machine struct {
	memory   *memory.Memory
	graphics *graphics.Graphics
	input    *input.Input
	cpu      *cpu.CPU

	observer event.Observer
	paused   bool
}

type config struct {
	observer   event.Observer
	cpuOptions []cpu.Option
}

// Option configures a Machine.
type Option func(*config)

// WithObserver sets the observer that receives all machine events.
func WithObserver(o event.Observer) Option {
	return func(c *config) {
		c.observer = o
	}
}

// WithClock sets the clock used for the timers.
func WithClock(clk clock.Clock) Option {
	return func(c *config) {
		c.cpuOptions = append(c.cpuOptions, cpu.WithClock(clk))
	}
}

// WithSeed seeds the random number generator of the CPU.
func WithSeed(seed uint64) Option {
	return func(c *config) {
		c.cpuOptions = append(c.cpuOptions, cpu.WithSeed(seed))
	}
}

// New returns a new machine.
func New(options ...Option) *Machine {
	var cfg config
	for _, option := range options {
		option(&cfg)
	}

	mem := memory.New()
	gfx := graphics.New(mem)
	in := input.New()
	c := cpu.New(mem, gfx, in, cfg.cpuOptions...)
	in.SetListener(c)

	return &Machine{
		memory:   mem,
		graphics: gfx,
		input:    in,
		cpu:      c,
		observer: cfg.observer,
	}
}

// Tick executes one CPU tick and returns the events that happened. The pause
// state is not checked, pausing is up to the host not calling Tick.
func (m *Machine) Tick() (event.Event, error) {
	events, err := m.cpu.Tick()
	m.notify(events)
	if err != nil {
		return events, fmt.Errorf("tick: %w", err)
	}
	return events, nil
}

// Reset resets the CPU, the stack, the framebuffer and the keys. The memory
// content is kept.
func (m *Machine) Reset() {
	m.cpu.Reset()
	m.memory.Reset()
	m.graphics.Reset()
	m.graphics.TakeRefresh()
	m.input.Reset()
	m.notify(event.Reset | event.Refresh)
}

// LoadROM resets the machine and loads the program into memory.
func (m *Machine) LoadROM(rom []byte) error {
	m.Reset()
	if err := m.memory.LoadROM(rom); err != nil {
		return fmt.Errorf("loading rom: %w", err)
	}
	m.notify(event.ROMLoaded)
	return nil
}

// SetKeyState updates the key latch. If the key press resumes a CPU that was
// waiting for input, the KeyUnblocked event is sent.
func (m *Machine) SetKeyState(code uint8, pressed bool) {
	waiting := m.cpu.State() == cpu.AwaitingKeyInput
	m.input.SetKeyState(code, pressed)
	if waiting && m.cpu.State() == cpu.Running {
		m.notify(event.KeyUnblocked)
	}
}

// Pause marks the machine as paused.
func (m *Machine) Pause() {
	if m.paused {
		return
	}
	m.paused = true
	m.notify(event.Paused)
}

// Resume marks the machine as running.
func (m *Machine) Resume() {
	if !m.paused {
		return
	}
	m.paused = false
	m.notify(event.Resumed)
}

// Paused returns whether the host paused the machine.
func (m *Machine) Paused() bool {
	return m.paused
}

// SoundActive returns whether the sound timer is running.
func (m *Machine) SoundActive() bool {
	return m.cpu.SoundTimer() > 0
}

// Notify forwards an event to the observer. It is used by tooling that
// drives the machine, like the debugger.
func (m *Machine) Notify(e event.Event) {
	m.notify(e)
}

func (m *Machine) notify(e event.Event) {
	if e != 0 && m.observer != nil {
		m.observer.HandleEvent(e)
	}
}

// Memory returns the memory.
func (m *Machine) Memory() *memory.Memory {
	return m.memory
}

// Graphics returns the framebuffer.
func (m *Machine) Graphics() *graphics.Graphics {
	return m.graphics
}

// Input returns the key latch. Key changes should go through SetKeyState
// to get the KeyUnblocked event.
func (m *Machine) Input() *input.Input {
	return m.input
}

// CPU returns the CPU.
func (m *Machine) CPU() *cpu.CPU {
	return m.cpu
}
