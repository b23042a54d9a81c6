// Package disasm implements a linear CHIP-8 disassembler used by the
// listing output and the debugger views.
package disasm

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/retroenv/chip8vm/internal/cpu"
	"github.com/retroenv/retrogolib/arch/cpu/chip8"
)

const (
	opcodeSize  = 2
	startLabel  = "Start"
	funcNaming  = "_func_%04x"
	labelNaming = "_label_%04x"
)

// Line is a single disassembled instruction or data entry.
type Line struct {
	Address uint16
	Opcode  uint16 // only set for instructions
	Label   string
	Code    string
	Data    []byte
	IsData  bool
}

// Disassemble decodes the program linearly starting at the base address.
// Words that do not decode to an instruction are emitted as data.
func Disassemble(rom []byte, base uint16) []Line {
	lines := make([]Line, 0, len(rom)/opcodeSize+1)
	targets := map[uint16]string{}

	for offset := 0; offset < len(rom); offset += opcodeSize {
		address := base + uint16(offset)

		if offset+1 >= len(rom) {
			lines = append(lines, Line{
				Address: address,
				Code:    fmt.Sprintf(".byte $%02x", rom[offset]),
				Data:    rom[offset : offset+1],
				IsData:  true,
			})
			break
		}

		data := rom[offset : offset+opcodeSize]
		w := uint16(data[0])<<8 | uint16(data[1])
		line := Line{
			Address: address,
			Data:    data,
		}

		ins, err := cpu.Decode(w)
		name, ok := instructionName(w)
		if err != nil || !ok {
			line.Code = fmt.Sprintf(".word $%04x", w)
			line.IsData = true
			lines = append(lines, line)
			continue
		}

		line.Opcode = w
		line.Code = name
		if params := formatParams(ins); params != "" {
			line.Code = fmt.Sprintf("%s %s", name, params)
		}
		lines = append(lines, line)

		switch ins.Op {
		case cpu.OpCall:
			targets[ins.NNN] = funcNaming
		case cpu.OpJp:
			if _, ok := targets[ins.NNN]; !ok {
				targets[ins.NNN] = labelNaming
			}
		default:
		}
	}

	assignLabels(lines, base, targets)
	return lines
}

// instructionName looks up the instruction name in the opcode table.
func instructionName(w uint16) (string, bool) {
	firstNibble := (w & 0xF000) >> 12
	for _, op := range chip8.Opcodes[int(firstNibble)] {
		if op.Info.Mask&w == op.Info.Value && op.Instruction != nil {
			return op.Instruction.Name, true
		}
	}
	return "", false
}

// formatParams formats the operands of an instruction.
func formatParams(ins cpu.Instruction) string {
	switch ins.Op {
	case cpu.OpCls, cpu.OpRet:
		return ""
	case cpu.OpSys, cpu.OpJp, cpu.OpCall:
		return fmt.Sprintf("$%03X", ins.NNN)
	case cpu.OpJpV0:
		return fmt.Sprintf("V0, $%03X", ins.NNN)
	case cpu.OpSeByte, cpu.OpSneByte, cpu.OpLdByte, cpu.OpAddByte, cpu.OpRnd:
		return fmt.Sprintf("V%X, $%02X", ins.X, ins.NN)
	case cpu.OpSeReg, cpu.OpSneReg, cpu.OpLdReg, cpu.OpOr, cpu.OpAnd, cpu.OpXor,
		cpu.OpAddReg, cpu.OpSub, cpu.OpSubn, cpu.OpShr, cpu.OpShl:
		return fmt.Sprintf("V%X, V%X", ins.X, ins.Y)
	case cpu.OpSkp, cpu.OpSknp:
		return fmt.Sprintf("V%X", ins.X)
	case cpu.OpLdI:
		return fmt.Sprintf("I, $%03X", ins.NNN)
	case cpu.OpDrw:
		return fmt.Sprintf("V%X, V%X, $%X", ins.X, ins.Y, ins.N)
	case cpu.OpLdVxDT:
		return fmt.Sprintf("V%X, DT", ins.X)
	case cpu.OpLdVxK:
		return fmt.Sprintf("V%X, K", ins.X)
	case cpu.OpLdDTVx:
		return fmt.Sprintf("DT, V%X", ins.X)
	case cpu.OpLdSTVx:
		return fmt.Sprintf("ST, V%X", ins.X)
	case cpu.OpAddI:
		return fmt.Sprintf("I, V%X", ins.X)
	case cpu.OpLdF:
		return fmt.Sprintf("F, V%X", ins.X)
	case cpu.OpLdB:
		return fmt.Sprintf("B, V%X", ins.X)
	case cpu.OpLdIVx:
		return fmt.Sprintf("[I], V%X", ins.X)
	case cpu.OpLdVxI:
		return fmt.Sprintf("V%X, [I]", ins.X)
	default:
		return ""
	}
}

// assignLabels names the program start and every jump or call target that
// points at the start of a line. Call targets take precedence over jumps.
func assignLabels(lines []Line, base uint16, targets map[uint16]string) {
	for i := range lines {
		address := lines[i].Address
		if address == base {
			lines[i].Label = startLabel
			continue
		}
		if naming, ok := targets[address]; ok {
			lines[i].Label = fmt.Sprintf(naming, address)
		}
	}
}

// Find returns the index of the line that contains the address.
func Find(lines []Line, address uint16) (int, bool) {
	i := sort.Search(len(lines), func(i int) bool {
		return lines[i].Address+uint16(len(lines[i].Data)) > address
	})
	if i < len(lines) && lines[i].Address <= address {
		return i, true
	}
	return 0, false
}

// Write outputs the lines as an assembly listing with offset comments.
func Write(w io.Writer, lines []Line) error {
	for i, line := range lines {
		if line.Label != "" {
			if i > 0 {
				if _, err := fmt.Fprintln(w); err != nil {
					return fmt.Errorf("writing line: %w", err)
				}
			}
			if _, err := fmt.Fprintf(w, "%s:\n", line.Label); err != nil {
				return fmt.Errorf("writing label: %w", err)
			}
		}

		if _, err := fmt.Fprintf(w, "  %-30s ; $%03X %s\n", line.Code, line.Address, hexBytes(line.Data)); err != nil {
			return fmt.Errorf("writing code line: %w", err)
		}
	}
	return nil
}

func hexBytes(data []byte) string {
	var sb strings.Builder
	for i, b := range data {
		if i > 0 {
			sb.WriteByte(' ')
		}
		fmt.Fprintf(&sb, "%02X", b)
	}
	return sb.String()
}
