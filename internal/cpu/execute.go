package cpu

import (
	"errors"
	"fmt"

	"github.com/retroenv/chip8vm/internal/memory"
)

// ErrMachineCall is returned for 0NNN, calls into native machine code are not supported.
var ErrMachineCall = errors.New("machine code call not supported")

// PC deltas reported by instructions.
const (
	pcJumped = 0 // program counter was set absolutely or execution is blocked
	pcNext   = 2
	pcSkip   = 4
)

// execute runs a decoded instruction and returns the amount to advance the
// program counter by.
func (c *CPU) execute(ins Instruction) (uint16, error) {
	v := &c.registers
	x, y := ins.X, ins.Y

	switch ins.Op {
	case OpSys:
		return 0, fmt.Errorf("%w: $%04X", ErrMachineCall, ins.Opcode)

	case OpCls:
		c.display.ClearDisplay()
		return pcNext, nil

	case OpRet:
		address, err := c.memory.PopFromStack()
		if err != nil {
			return 0, err
		}
		c.pc = address & memory.MaxAddress
		return pcJumped, nil

	case OpJp:
		c.pc = ins.NNN
		return pcJumped, nil

	case OpCall:
		if err := c.memory.PushToStack(c.pc + 2); err != nil {
			return 0, err
		}
		c.pc = ins.NNN
		return pcJumped, nil

	case OpSeByte:
		return skipIf(v[x] == ins.NN), nil

	case OpSneByte:
		return skipIf(v[x] != ins.NN), nil

	case OpSeReg:
		return skipIf(v[x] == v[y]), nil

	case OpSneReg:
		return skipIf(v[x] != v[y]), nil

	case OpLdByte:
		v[x] = ins.NN
		return pcNext, nil

	case OpAddByte:
		v[x] += ins.NN
		return pcNext, nil

	case OpLdReg:
		v[x] = v[y]
		return pcNext, nil

	case OpOr:
		v[x] |= v[y]
		return pcNext, nil

	case OpAnd:
		v[x] &= v[y]
		return pcNext, nil

	case OpXor:
		v[x] ^= v[y]
		return pcNext, nil

	case OpAddReg:
		sum := uint16(v[x]) + uint16(v[y])
		v[FlagRegister] = flag(sum > 0xFF)
		v[x] = uint8(sum)
		return pcNext, nil

	case OpSub:
		a, b := v[x], v[y]
		v[FlagRegister] = flag(a >= b)
		v[x] = a - b
		return pcNext, nil

	case OpShr:
		value := v[y]
		v[FlagRegister] = value & 1
		v[x] = value >> 1
		return pcNext, nil

	case OpSubn:
		a, b := v[x], v[y]
		v[FlagRegister] = flag(b >= a)
		v[x] = b - a
		return pcNext, nil

	case OpShl:
		value := v[y]
		v[FlagRegister] = value >> 7
		v[x] = value << 1
		return pcNext, nil

	case OpLdI:
		c.i = ins.NNN
		return pcNext, nil

	case OpJpV0:
		c.pc = (ins.NNN + uint16(v[0])) & memory.MaxAddress
		return pcJumped, nil

	case OpRnd:
		v[x] = uint8(c.random.UintN(256)) & ins.NN
		return pcNext, nil

	case OpDrw:
		collision, err := c.display.DrawSprite(v[x], v[y], ins.N, c.i)
		if err != nil {
			return 0, err
		}
		v[FlagRegister] = flag(collision)
		return pcNext, nil

	case OpSkp:
		return skipIf(c.keypad.KeyState(v[x])), nil

	case OpSknp:
		return skipIf(!c.keypad.KeyState(v[x])), nil

	case OpLdVxDT:
		v[x] = c.delay.Value()
		return pcNext, nil

	case OpLdVxK:
		c.state = AwaitingKeyInput
		c.keyRegister = x
		return pcJumped, nil

	case OpLdDTVx:
		c.delay.Set(v[x], c.clock.Now())
		return pcNext, nil

	case OpLdSTVx:
		c.sound.Set(v[x], c.clock.Now())
		return pcNext, nil

	case OpAddI:
		sum := c.i + uint16(v[x])
		overflow := sum > memory.MaxAddress
		if overflow {
			sum -= memory.MaxAddress
		}
		c.i = sum
		v[FlagRegister] = flag(overflow)
		return pcNext, nil

	case OpLdF:
		c.i = memory.FontAddress(v[x])
		return pcNext, nil

	case OpLdB:
		if err := c.storeBCD(v[x]); err != nil {
			return 0, err
		}
		return pcNext, nil

	case OpLdIVx:
		for r := range uint16(x) + 1 {
			if err := c.memory.WriteByte(c.i+r, v[r]); err != nil {
				return 0, err
			}
		}
		return pcNext, nil

	case OpLdVxI:
		for r := range uint16(x) + 1 {
			b, err := c.memory.ReadByte(c.i + r)
			if err != nil {
				return 0, err
			}
			v[r] = b
		}
		return pcNext, nil

	default:
		return 0, fmt.Errorf("%w: $%04X", ErrUnknownOpcode, ins.Opcode)
	}
}

// storeBCD writes the hundreds, tens and ones digit of value to I, I+1 and I+2.
func (c *CPU) storeBCD(value uint8) error {
	digits := [3]uint8{value / 100, value / 10 % 10, value % 10}
	for offset, digit := range digits {
		if err := c.memory.WriteByte(c.i+uint16(offset), digit); err != nil {
			return err
		}
	}
	return nil
}

func skipIf(condition bool) uint16 {
	if condition {
		return pcSkip
	}
	return pcNext
}

func flag(set bool) uint8 {
	if set {
		return 1
	}
	return 0
}
