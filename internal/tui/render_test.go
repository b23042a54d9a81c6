package tui

import (
	"strings"
	"testing"

	"github.com/retroenv/chip8vm/internal/cpu"
	"github.com/retroenv/chip8vm/internal/debugger"
	"github.com/retroenv/chip8vm/internal/disasm"
	"github.com/retroenv/chip8vm/internal/graphics"
	"github.com/retroenv/retrogolib/assert"
)

func TestKeypad(t *testing.T) {
	assert.Len(t, keypad, 16)

	seen := map[uint8]bool{}
	for _, code := range keypad {
		assert.True(t, code < 16)
		seen[code] = true
	}
	assert.Len(t, seen, 16)

	assert.Equal(t, uint8(0x0), keypad['x'])
	assert.Equal(t, uint8(0xC), keypad['4'])
	assert.Equal(t, uint8(0xF), keypad['v'])
}

func TestRenderScreen(t *testing.T) {
	var frame graphics.Frame
	frame[0][0] = true
	frame[1][0] = true
	frame[0][1] = true
	frame[3][2] = true

	output := renderScreen(frame)
	lines := strings.Split(strings.TrimSuffix(output, "\n"), "\n")
	assert.Len(t, lines, graphics.Height/2)

	first := []rune(lines[0])
	assert.Len(t, first, graphics.Width)
	assert.Equal(t, '█', first[0])
	assert.Equal(t, '▀', first[1])
	assert.Equal(t, ' ', first[2])

	second := []rune(lines[1])
	assert.Equal(t, '▄', second[2])
	assert.Equal(t, strings.Repeat(" ", graphics.Width), lines[15])
}

func TestRenderRegisters(t *testing.T) {
	s := debugger.Snapshot{
		PC:           0x2A4,
		I:            0x300,
		StackPointer: 0xEA2,
		StackDepth:   1,
		DelayTimer:   0x10,
		SoundTimer:   0x01,
		State:        cpu.AwaitingKeyInput,
	}
	s.Registers[0xA] = 0xBE
	s.Registers[0xF] = 0x01

	output := renderRegisters(s)
	assert.Contains(t, output, "PC $2A4  I $300  SP $EA2\n")
	assert.Contains(t, output, "DT 10    ST 01  depth 1\n")
	assert.Contains(t, output, "VA BE")
	assert.Contains(t, output, "VF 01\n")
	assert.Contains(t, output, "awaiting_key_input\n")
}

func TestRenderDisasm(t *testing.T) {
	rom := []byte{0x00, 0xE0, 0x60, 0x01, 0x70, 0x01, 0x12, 0x02}
	lines := disasm.Disassemble(rom, 0x200)
	breakpoints := func(address uint16) bool { return address == 0x206 }

	output := renderDisasm(lines, 0x204, 10, breakpoints)
	rows := strings.Split(strings.TrimSuffix(output, "\n"), "\n")
	assert.Len(t, rows, 4)
	assert.True(t, strings.HasPrefix(rows[2], "> $204 "))
	assert.True(t, strings.HasPrefix(rows[3], " *$206 "))

	// window is limited to the height
	output = renderDisasm(lines, 0x206, 2, nil)
	rows = strings.Split(strings.TrimSuffix(output, "\n"), "\n")
	assert.Len(t, rows, 2)
	assert.True(t, strings.HasPrefix(rows[1], "> $206 "))

	assert.Equal(t, "", renderDisasm(nil, 0x200, 10, nil))
}
