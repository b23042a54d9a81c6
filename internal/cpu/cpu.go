// Package cpu implements the CHIP-8 register file and the fetch, decode and
// execute engine.
package cpu

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/retroenv/chip8vm/internal/clock"
	"github.com/retroenv/chip8vm/internal/event"
	"github.com/retroenv/chip8vm/internal/memory"
)

// RegisterCount is the number of general purpose registers V0-VF.
const RegisterCount = 16

// FlagRegister is the index of VF, which receives carry, borrow, shift and
// collision flags.
const FlagRegister = 0xF

// Memory is the memory access the CPU needs.
type Memory interface {
	ReadByte(address uint16) (uint8, error)
	WriteByte(address uint16, value uint8) error
	ReadWord(address uint16) (uint16, error)
	PushToStack(value uint16) error
	PopFromStack() (uint16, error)
}

// Display is the framebuffer access the CPU needs.
type Display interface {
	ClearDisplay()
	DrawSprite(x, y, height uint8, address uint16) (bool, error)
	TakeRefresh() bool
}

// Keypad is the key latch access the CPU needs.
type Keypad interface {
	KeyState(code uint8) bool
}

// State is the execution state of the CPU.
type State uint8

// CPU states.
const (
	Running          State = iota // executing one instruction per tick
	AwaitingKeyInput              // blocked by FX0A until a key is pressed
)

// String returns the name of the state.
func (s State) String() string {
	switch s {
	case Running:
		return "running"
	case AwaitingKeyInput:
		return "awaiting_key_input"
	default:
		return fmt.Sprintf("state(%d)", uint8(s))
	}
}

// CPU holds the register file and executes instructions.
type CPU struct {
	memory  Memory
	display Display
	keypad  Keypad
	clock   clock.Clock
	random  *rand.Rand

	registers [RegisterCount]uint8
	pc        uint16
	i         uint16
	delay     Timer
	sound     Timer

	state       State
	keyRegister uint8 // target register of a pending FX0A
}

// Option configures a CPU.
type Option func(*CPU)

// WithClock sets the clock used for the timers.
func WithClock(c clock.Clock) Option {
	return func(cpu *CPU) {
		cpu.clock = c
	}
}

// WithRandom sets the random source used by CXNN.
func WithRandom(r *rand.Rand) Option {
	return func(cpu *CPU) {
		cpu.random = r
	}
}

// WithSeed seeds the random source used by CXNN.
func WithSeed(seed uint64) Option {
	return func(cpu *CPU) {
		cpu.random = rand.New(rand.NewPCG(seed, seed^0x9E3779B97F4A7C15))
	}
}

// New returns a new CPU in reset state.
func New(memory Memory, display Display, keypad Keypad, options ...Option) *CPU {
	c := &CPU{
		memory:  memory,
		display: display,
		keypad:  keypad,
		clock:   clock.System{},
	}
	for _, option := range options {
		option(c)
	}
	if c.random == nil {
		seed := uint64(time.Now().UnixNano())
		c.random = rand.New(rand.NewPCG(seed, seed>>1))
	}

	c.Reset()
	return c
}

// Reset resets the registers, the program counter, the address register,
// the timers and the execution state.
func (c *CPU) Reset() {
	now := c.clock.Now()
	c.registers = [RegisterCount]uint8{}
	c.pc = memory.ProgramStart
	c.i = 0
	c.delay.Set(0, now)
	c.sound.Set(0, now)
	c.state = Running
	c.keyRegister = 0
}

// Tick executes one instruction unless the CPU is waiting for a key press and
// advances the timers. It returns the events that occurred. A returned error
// is fatal for the running program.
func (c *CPU) Tick() (event.Event, error) {
	var events event.Event

	if c.state == Running {
		err := c.step()
		if c.display.TakeRefresh() {
			events |= event.Refresh
		}
		if err != nil {
			return events, err
		}
	}

	now := c.clock.Now()
	c.delay.Advance(now)
	if c.sound.Advance(now) {
		events |= event.Beep
	}
	return events, nil
}

// step performs fetch, decode and execute of one instruction.
func (c *CPU) step() error {
	opcode, err := c.memory.ReadWord(c.pc)
	if err != nil {
		return fmt.Errorf("fetching opcode at $%03X: %w", c.pc, err)
	}

	ins, err := Decode(opcode)
	if err != nil {
		return fmt.Errorf("decoding opcode at $%03X: %w", c.pc, err)
	}

	pc := c.pc
	delta, err := c.execute(ins)
	if err != nil {
		return fmt.Errorf("executing %s at $%03X: %w", ins.Op, pc, err)
	}

	c.pc = (c.pc + delta) & memory.MaxAddress
	return nil
}

// KeyPressed resumes a CPU that waits for a key press. The key code is
// stored in the target register of the blocking instruction and the program
// counter moves past it.
func (c *CPU) KeyPressed(code uint8) {
	if c.state != AwaitingKeyInput {
		return
	}

	c.registers[c.keyRegister] = code
	c.pc = (c.pc + 2) & memory.MaxAddress
	c.state = Running
}

// State returns the execution state.
func (c *CPU) State() State {
	return c.state
}

// PC returns the program counter.
func (c *CPU) PC() uint16 {
	return c.pc
}

// SetPC sets the program counter, masked to 12 bits.
func (c *CPU) SetPC(pc uint16) {
	c.pc = pc & memory.MaxAddress
}

// I returns the address register.
func (c *CPU) I() uint16 {
	return c.i
}

// SetI sets the address register.
func (c *CPU) SetI(i uint16) {
	c.i = i
}

// Register returns the value of register V0-VF.
func (c *CPU) Register(index uint8) uint8 {
	return c.registers[index&0xF]
}

// SetRegister sets the value of register V0-VF.
func (c *CPU) SetRegister(index, value uint8) {
	c.registers[index&0xF] = value
}

// Registers returns a copy of the register file.
func (c *CPU) Registers() [RegisterCount]uint8 {
	return c.registers
}

// DelayTimer returns the delay timer value.
func (c *CPU) DelayTimer() uint8 {
	return c.delay.Value()
}

// SoundTimer returns the sound timer value.
func (c *CPU) SoundTimer() uint8 {
	return c.sound.Value()
}
