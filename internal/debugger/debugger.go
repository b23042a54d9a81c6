// Package debugger provides the inspection and control surface used by
// debugging tools: register access, single stepping, memory views and
// breakpoints.
package debugger

import (
	"errors"
	"fmt"
	"slices"

	"github.com/retroenv/chip8vm/internal/cpu"
	"github.com/retroenv/chip8vm/internal/event"
	"github.com/retroenv/chip8vm/internal/machine"
	"github.com/retroenv/chip8vm/internal/memory"
	"github.com/retroenv/retrogolib/set"
)

// Errors for rejected debugger input. The machine state is not modified.
var (
	ErrInvalidRegister = errors.New("invalid register index")
	ErrInvalidAddress  = errors.New("invalid address")
)

// Snapshot is a copy of the CPU state.
type Snapshot struct {
	Registers    [cpu.RegisterCount]uint8
	PC           uint16
	I            uint16
	StackPointer uint16
	StackDepth   int
	DelayTimer   uint8
	SoundTimer   uint8
	State        cpu.State
}

// Debugger controls a machine.
type Debugger struct {
	machine     *machine.Machine
	breakpoints set.Set[uint16]
	addresses   []uint16 // sorted breakpoint addresses
}

// New returns a new debugger for the machine.
func New(m *machine.Machine) *Debugger {
	return &Debugger{
		machine:     m,
		breakpoints: set.New[uint16](),
	}
}

// PC returns the program counter.
func (d *Debugger) PC() uint16 {
	return d.machine.CPU().PC()
}

// SetPC sets the program counter.
func (d *Debugger) SetPC(value uint16) error {
	if value > memory.MaxAddress {
		return fmt.Errorf("%w: program counter $%04X exceeds $%03X", ErrInvalidAddress, value, memory.MaxAddress)
	}
	d.machine.CPU().SetPC(value)
	d.machine.Notify(event.RegisterChanged)
	return nil
}

// Register returns the value of register V0-VF.
func (d *Debugger) Register(index int) (uint8, error) {
	if index < 0 || index >= cpu.RegisterCount {
		return 0, fmt.Errorf("%w: %d", ErrInvalidRegister, index)
	}
	return d.machine.CPU().Register(uint8(index)), nil
}

// SetRegister sets the value of register V0-VF.
func (d *Debugger) SetRegister(index int, value uint8) error {
	if index < 0 || index >= cpu.RegisterCount {
		return fmt.Errorf("%w: %d", ErrInvalidRegister, index)
	}
	d.machine.CPU().SetRegister(uint8(index), value)
	d.machine.Notify(event.RegisterChanged)
	return nil
}

// I returns the address register.
func (d *Debugger) I() uint16 {
	return d.machine.CPU().I()
}

// SetI sets the address register.
func (d *Debugger) SetI(value uint16) error {
	if value > memory.MaxAddress {
		return fmt.Errorf("%w: address register $%04X exceeds $%03X", ErrInvalidAddress, value, memory.MaxAddress)
	}
	d.machine.CPU().SetI(value)
	d.machine.Notify(event.RegisterChanged)
	return nil
}

// WriteByte modifies memory, for example from a memory editor.
func (d *Debugger) WriteByte(address uint16, value uint8) error {
	if err := d.machine.Memory().WriteByte(address, value); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidAddress, err)
	}
	return nil
}

// Step executes a single tick and sends the Stepped event if it succeeded.
func (d *Debugger) Step() (event.Event, error) {
	events, err := d.machine.Tick()
	if err != nil {
		return events, err
	}
	d.machine.Notify(event.Stepped)
	return events | event.Stepped, nil
}

// RAM returns a snapshot of the whole memory.
func (d *Debugger) RAM() []byte {
	return d.machine.Memory().RAM()
}

// ROM returns a copy of the loaded program.
func (d *Debugger) ROM() []byte {
	return d.machine.Memory().ROM()
}

// ROMBaseAddress returns the address the program is loaded to.
func (d *Debugger) ROMBaseAddress() uint16 {
	return memory.ProgramStart
}

// StackPointer returns the address of the next free stack slot.
func (d *Debugger) StackPointer() uint16 {
	return d.machine.Memory().StackPointer()
}

// Snapshot returns a copy of the CPU state.
func (d *Debugger) Snapshot() Snapshot {
	c := d.machine.CPU()
	mem := d.machine.Memory()
	return Snapshot{
		Registers:    c.Registers(),
		PC:           c.PC(),
		I:            c.I(),
		StackPointer: mem.StackPointer(),
		StackDepth:   mem.StackDepth(),
		DelayTimer:   c.DelayTimer(),
		SoundTimer:   c.SoundTimer(),
		State:        c.State(),
	}
}

// AddBreakpoint adds a breakpoint at the address.
func (d *Debugger) AddBreakpoint(address uint16) error {
	if address > memory.MaxAddress {
		return fmt.Errorf("%w: breakpoint $%04X", ErrInvalidAddress, address)
	}
	if d.breakpoints.Contains(address) {
		return nil
	}
	d.breakpoints.Add(address)
	d.addresses = append(d.addresses, address)
	slices.Sort(d.addresses)
	return nil
}

// RemoveBreakpoint removes the breakpoint at the address if one is set.
func (d *Debugger) RemoveBreakpoint(address uint16) {
	if !d.breakpoints.Contains(address) {
		return
	}

	d.addresses = slices.DeleteFunc(d.addresses, func(a uint16) bool { return a == address })
	d.breakpoints = set.New[uint16]()
	for _, a := range d.addresses {
		d.breakpoints.Add(a)
	}
}

// Breakpoints returns all breakpoint addresses in ascending order.
func (d *Debugger) Breakpoints() []uint16 {
	return slices.Clone(d.addresses)
}

// IsBreakpoint returns whether a breakpoint is set at the address.
func (d *Debugger) IsBreakpoint(address uint16) bool {
	return d.breakpoints.Contains(address)
}

// RunUntilBreak ticks the machine until the program counter reaches a
// breakpoint, an error occurs or maxTicks ticks were executed. A breakpoint at
// the current program counter does not stop the first tick.
func (d *Debugger) RunUntilBreak(maxTicks int) (int, bool, error) {
	for ticks := 1; ticks <= maxTicks; ticks++ {
		if _, err := d.machine.Tick(); err != nil {
			return ticks, false, err
		}
		if d.breakpoints.Contains(d.machine.CPU().PC()) {
			d.machine.Pause()
			return ticks, true, nil
		}
	}
	return maxTicks, false, nil
}
