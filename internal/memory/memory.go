// Package memory implements the 4KB byte addressable CHIP-8 memory including
// the font table, the program region and the call stack region.
package memory

import (
	"errors"
	"fmt"
)

// CHIP-8 memory layout.
//
//	0x000-0x04F: hexadecimal font glyphs
//	0x200-0xFFF: program region
//	0xEA0-0xECF: call stack (24 entries)
const (
	Size          = 0x1000
	MaxAddress    = Size - 1
	FontBase      = 0x000
	FontGlyphSize = 5
	ProgramStart  = 0x200
	StackBase     = 0xEA0
	StackLimit    = StackBase + 48
	StackEntries  = (StackLimit - StackBase) / 2
)

// Fatal memory errors.
var (
	ErrAddressOutOfRange = errors.New("memory address out of range")
	ErrStackOverflow     = errors.New("stack overflow")
	ErrStackUnderflow    = errors.New("stack underflow")
)

var font = [...]byte{
	0xF0, 0x90, 0x90, 0x90, 0xF0, // 0
	0x20, 0x60, 0x20, 0x20, 0x70, // 1
	0xF0, 0x10, 0xF0, 0x80, 0xF0, // 2
	0xF0, 0x10, 0xF0, 0x10, 0xF0, // 3
	0x90, 0x90, 0xF0, 0x10, 0x10, // 4
	0xF0, 0x80, 0xF0, 0x10, 0xF0, // 5
	0xF0, 0x80, 0xF0, 0x90, 0xF0, // 6
	0xF0, 0x10, 0x20, 0x40, 0x40, // 7
	0xF0, 0x90, 0xF0, 0x90, 0xF0, // 8
	0xF0, 0x90, 0xF0, 0x10, 0xF0, // 9
	0xF0, 0x90, 0xF0, 0x90, 0x90, // A
	0xE0, 0x90, 0xE0, 0x90, 0xE0, // B
	0xF0, 0x80, 0x80, 0x80, 0xF0, // C
	0xE0, 0x90, 0x90, 0x90, 0xE0, // D
	0xF0, 0x80, 0xF0, 0x80, 0xF0, // E
	0xF0, 0x80, 0xF0, 0x80, 0x80, // F
}

// Memory is the RAM of the virtual machine.
type Memory struct {
	ram          [Size]byte
	stackPointer uint16
	romSize      int
}

// New returns a new memory with the font table loaded.
func New() *Memory {
	m := &Memory{
		stackPointer: StackBase,
	}
	copy(m.ram[FontBase:], font[:])
	return m
}

// FontAddress returns the address of the glyph for the hexadecimal digit.
func FontAddress(digit uint8) uint16 {
	return FontBase + uint16(digit)*FontGlyphSize
}

// Reset resets the stack pointer. The font table and loaded program stay in place.
func (m *Memory) Reset() {
	m.stackPointer = StackBase
}

// ReadByte returns the byte at the given address.
func (m *Memory) ReadByte(address uint16) (uint8, error) {
	if address > MaxAddress {
		return 0, fmt.Errorf("%w: reading $%04X", ErrAddressOutOfRange, address)
	}
	return m.ram[address], nil
}

// WriteByte writes a byte to the given address.
func (m *Memory) WriteByte(address uint16, value uint8) error {
	if address > MaxAddress {
		return fmt.Errorf("%w: writing $%04X", ErrAddressOutOfRange, address)
	}
	m.ram[address] = value
	return nil
}

// ReadWord returns the big endian word stored at address and address+1.
func (m *Memory) ReadWord(address uint16) (uint16, error) {
	if address >= MaxAddress {
		return 0, fmt.Errorf("%w: reading word at $%04X", ErrAddressOutOfRange, address)
	}
	return uint16(m.ram[address])<<8 | uint16(m.ram[address+1]), nil
}

// Read12BitAddress reads the word at address and returns its low 12 bits.
func (m *Memory) Read12BitAddress(address uint16) (uint16, error) {
	w, err := m.ReadWord(address)
	if err != nil {
		return 0, err
	}
	return w & 0x0FFF, nil
}

// WriteWord writes a word, high byte first.
func (m *Memory) WriteWord(address, value uint16) error {
	if address >= MaxAddress {
		return fmt.Errorf("%w: writing word at $%04X", ErrAddressOutOfRange, address)
	}
	m.ram[address] = uint8(value >> 8)
	m.ram[address+1] = uint8(value)
	return nil
}

// PushToStack pushes a return address to the stack.
func (m *Memory) PushToStack(value uint16) error {
	if m.stackPointer >= StackLimit {
		return fmt.Errorf("%w: pushing $%04X", ErrStackOverflow, value)
	}
	if err := m.WriteWord(m.stackPointer, value); err != nil {
		return err
	}
	m.stackPointer += 2
	return nil
}

// PopFromStack pops the last pushed return address from the stack.
func (m *Memory) PopFromStack() (uint16, error) {
	if m.stackPointer <= StackBase {
		return 0, ErrStackUnderflow
	}
	m.stackPointer -= 2
	return m.ReadWord(m.stackPointer)
}

// StackPointer returns the address of the next free stack slot.
func (m *Memory) StackPointer() uint16 {
	return m.stackPointer
}

// StackDepth returns the number of entries on the stack.
func (m *Memory) StackDepth() int {
	return int(m.stackPointer-StackBase) / 2
}

// LoadROM copies the program into the program region. The previous content
// of the program region is cleared.
func (m *Memory) LoadROM(rom []byte) error {
	if len(rom) > Size-ProgramStart {
		return fmt.Errorf("%w: rom size %d exceeds %d bytes", ErrAddressOutOfRange, len(rom), Size-ProgramStart)
	}

	clear(m.ram[ProgramStart:])
	copy(m.ram[ProgramStart:], rom)
	m.romSize = len(rom)
	return nil
}

// ROM returns a copy of the currently loaded program.
func (m *Memory) ROM() []byte {
	rom := make([]byte, m.romSize)
	copy(rom, m.ram[ProgramStart:ProgramStart+m.romSize])
	return rom
}

// RAM returns a snapshot of the whole memory.
func (m *Memory) RAM() []byte {
	ram := make([]byte, Size)
	copy(ram, m.ram[:])
	return ram
}
