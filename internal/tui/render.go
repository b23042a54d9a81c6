package tui

import (
	"fmt"
	"strings"

	"github.com/retroenv/chip8vm/internal/debugger"
	"github.com/retroenv/chip8vm/internal/disasm"
	"github.com/retroenv/chip8vm/internal/graphics"
)

// keypad maps the left side of a QWERTY keyboard to the hexadecimal
// CHIP-8 keypad:
//
//	1 2 3 4      1 2 3 C
//	q w e r  ->  4 5 6 D
//	a s d f      7 8 9 E
//	z x c v      A 0 B F
var keypad = map[rune]uint8{
	'1': 0x1, '2': 0x2, '3': 0x3, '4': 0xC,
	'q': 0x4, 'w': 0x5, 'e': 0x6, 'r': 0xD,
	'a': 0x7, 's': 0x8, 'd': 0x9, 'f': 0xE,
	'z': 0xA, 'x': 0x0, 'c': 0xB, 'v': 0xF,
}

// renderScreen draws the framebuffer using half block characters, two
// pixel rows per text line.
func renderScreen(frame graphics.Frame) string {
	var sb strings.Builder
	sb.Grow((graphics.Width + 1) * graphics.Height / 2 * 3)

	for y := 0; y < graphics.Height; y += 2 {
		for x := range graphics.Width {
			top := frame[y][x]
			bottom := y+1 < graphics.Height && frame[y+1][x]
			switch {
			case top && bottom:
				sb.WriteRune('█')
			case top:
				sb.WriteRune('▀')
			case bottom:
				sb.WriteRune('▄')
			default:
				sb.WriteRune(' ')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// renderRegisters formats the CPU state for the registers view.
func renderRegisters(s debugger.Snapshot) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "PC $%03X  I $%03X  SP $%03X\n", s.PC, s.I, s.StackPointer)
	fmt.Fprintf(&sb, "DT %02X    ST %02X  depth %d\n", s.DelayTimer, s.SoundTimer, s.StackDepth)
	for i, v := range s.Registers {
		fmt.Fprintf(&sb, "V%X %02X", i, v)
		if i%4 == 3 {
			sb.WriteByte('\n')
		} else {
			sb.WriteString("  ")
		}
	}
	fmt.Fprintf(&sb, "%s\n", s.State)
	return sb.String()
}

// renderDisasm formats a window of the listing around the program counter.
// The current instruction is marked with '>' and breakpoints with '*'.
func renderDisasm(lines []disasm.Line, pc uint16, height int, isBreakpoint func(uint16) bool) string {
	if len(lines) == 0 || height <= 0 {
		return ""
	}

	current, found := disasm.Find(lines, pc)
	start := 0
	if found {
		start = max(0, current-height/2)
	}
	end := min(len(lines), start+height)

	var sb strings.Builder
	for i := start; i < end; i++ {
		line := lines[i]
		marker := ' '
		if found && i == current {
			marker = '>'
		}
		bp := ' '
		if isBreakpoint != nil && isBreakpoint(line.Address) {
			bp = '*'
		}
		fmt.Fprintf(&sb, "%c%c$%03X %s\n", marker, bp, line.Address, line.Code)
	}
	return sb.String()
}
