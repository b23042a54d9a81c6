package cpu

import (
	"errors"
	"fmt"
)

// ErrUnknownOpcode is returned for opcodes that do not decode to any instruction.
var ErrUnknownOpcode = errors.New("unknown opcode")

// Op identifies a decoded CHIP-8 operation.
type Op uint8

// Operations, one per instruction form.
const (
	OpSys      Op = iota // 0NNN
	OpCls                // 00E0
	OpRet                // 00EE
	OpJp                 // 1NNN
	OpCall               // 2NNN
	OpSeByte             // 3XNN
	OpSneByte            // 4XNN
	OpSeReg              // 5XY0
	OpLdByte             // 6XNN
	OpAddByte            // 7XNN
	OpLdReg              // 8XY0
	OpOr                 // 8XY1
	OpAnd                // 8XY2
	OpXor                // 8XY3
	OpAddReg             // 8XY4
	OpSub                // 8XY5
	OpShr                // 8XY6
	OpSubn               // 8XY7
	OpShl                // 8XYE
	OpSneReg             // 9XY0
	OpLdI                // ANNN
	OpJpV0               // BNNN
	OpRnd                // CXNN
	OpDrw                // DXYN
	OpSkp                // EX9E
	OpSknp               // EXA1
	OpLdVxDT             // FX07
	OpLdVxK              // FX0A
	OpLdDTVx             // FX15
	OpLdSTVx             // FX18
	OpAddI               // FX1E
	OpLdF                // FX29
	OpLdB                // FX33
	OpLdIVx              // FX55
	OpLdVxI              // FX65

	opCount
)

var opNames = [opCount]string{
	OpSys:     "sys",
	OpCls:     "cls",
	OpRet:     "ret",
	OpJp:      "jp",
	OpCall:    "call",
	OpSeByte:  "se_byte",
	OpSneByte: "sne_byte",
	OpSeReg:   "se_reg",
	OpLdByte:  "ld_byte",
	OpAddByte: "add_byte",
	OpLdReg:   "ld_reg",
	OpOr:      "or",
	OpAnd:     "and",
	OpXor:     "xor",
	OpAddReg:  "add_reg",
	OpSub:     "sub",
	OpShr:     "shr",
	OpSubn:    "subn",
	OpShl:     "shl",
	OpSneReg:  "sne_reg",
	OpLdI:     "ld_i",
	OpJpV0:    "jp_v0",
	OpRnd:     "rnd",
	OpDrw:     "drw",
	OpSkp:     "skp",
	OpSknp:    "sknp",
	OpLdVxDT:  "ld_vx_dt",
	OpLdVxK:   "ld_vx_k",
	OpLdDTVx:  "ld_dt_vx",
	OpLdSTVx:  "ld_st_vx",
	OpAddI:    "add_i",
	OpLdF:     "ld_f",
	OpLdB:     "ld_b",
	OpLdIVx:   "ld_mem_vx",
	OpLdVxI:   "ld_vx_mem",
}

// String returns the name of the operation.
func (o Op) String() string {
	if o >= opCount {
		return fmt.Sprintf("op(%d)", uint8(o))
	}
	return opNames[o]
}

// Instruction is a decoded opcode with its operand fields extracted.
// Only the fields used by the operation are meaningful.
type Instruction struct {
	Opcode uint16
	Op     Op
	X      uint8  // register selected by nibble 2
	Y      uint8  // register selected by nibble 1
	N      uint8  // nibble 0
	NN     uint8  // low byte
	NNN    uint16 // low 12 bits
}

// Decode decodes an opcode into an instruction.
func Decode(opcode uint16) (Instruction, error) {
	ins := Instruction{
		Opcode: opcode,
		X:      uint8(opcode>>8) & 0xF,
		Y:      uint8(opcode>>4) & 0xF,
		N:      uint8(opcode) & 0xF,
		NN:     uint8(opcode),
		NNN:    opcode & 0x0FFF,
	}

	op, ok := decodeOp(opcode, ins.N, ins.NN)
	if !ok {
		return Instruction{}, fmt.Errorf("%w: $%04X", ErrUnknownOpcode, opcode)
	}
	ins.Op = op
	return ins, nil
}

func decodeOp(opcode uint16, n, nn uint8) (Op, bool) {
	switch opcode >> 12 {
	case 0x0:
		switch opcode {
		case 0x00E0:
			return OpCls, true
		case 0x00EE:
			return OpRet, true
		}
		return OpSys, true
	case 0x1:
		return OpJp, true
	case 0x2:
		return OpCall, true
	case 0x3:
		return OpSeByte, true
	case 0x4:
		return OpSneByte, true
	case 0x5:
		if n == 0 {
			return OpSeReg, true
		}
	case 0x6:
		return OpLdByte, true
	case 0x7:
		return OpAddByte, true
	case 0x8:
		return decodeALU(n)
	case 0x9:
		if n == 0 {
			return OpSneReg, true
		}
	case 0xA:
		return OpLdI, true
	case 0xB:
		return OpJpV0, true
	case 0xC:
		return OpRnd, true
	case 0xD:
		return OpDrw, true
	case 0xE:
		switch nn {
		case 0x9E:
			return OpSkp, true
		case 0xA1:
			return OpSknp, true
		}
	case 0xF:
		return decodeMisc(nn)
	}
	return 0, false
}

func decodeALU(n uint8) (Op, bool) {
	switch n {
	case 0x0:
		return OpLdReg, true
	case 0x1:
		return OpOr, true
	case 0x2:
		return OpAnd, true
	case 0x3:
		return OpXor, true
	case 0x4:
		return OpAddReg, true
	case 0x5:
		return OpSub, true
	case 0x6:
		return OpShr, true
	case 0x7:
		return OpSubn, true
	case 0xE:
		return OpShl, true
	}
	return 0, false
}

func decodeMisc(nn uint8) (Op, bool) {
	switch nn {
	case 0x07:
		return OpLdVxDT, true
	case 0x0A:
		return OpLdVxK, true
	case 0x15:
		return OpLdDTVx, true
	case 0x18:
		return OpLdSTVx, true
	case 0x1E:
		return OpAddI, true
	case 0x29:
		return OpLdF, true
	case 0x33:
		return OpLdB, true
	case 0x55:
		return OpLdIVx, true
	case 0x65:
		return OpLdVxI, true
	}
	return 0, false
}

// IsSkip returns whether the instruction conditionally skips the next one.
func (i Instruction) IsSkip() bool {
	switch i.Op {
	case OpSeByte, OpSneByte, OpSeReg, OpSneReg, OpSkp, OpSknp:
		return true
	default:
		return false
	}
}
