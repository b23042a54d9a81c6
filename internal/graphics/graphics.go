// Package graphics implements the 64x32 monochrome framebuffer and the XOR
// sprite drawing of the CHIP-8.
package graphics

import (
	"fmt"
	"strings"
)

// Framebuffer dimensions in pixels.
const (
	Width  = 64
	Height = 32
)

// ByteReader reads sprite data from memory.
type ByteReader interface {
	ReadByte(address uint16) (uint8, error)
}

// Frame is a snapshot of the framebuffer, indexed by [y][x].
type Frame [Height][Width]bool

// String renders the frame as text, one line per row, '#' for set pixels.
func (f Frame) String() string {
	var sb strings.Builder
	sb.Grow(Height * (Width + 1))
	for y := range Height {
		for x := range Width {
			if f[y][x] {
				sb.WriteByte('#')
			} else {
				sb.WriteByte('.')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Graphics owns the framebuffer.
type Graphics struct {
	memory  ByteReader
	frame   Frame
	refresh bool
}

// New returns a new cleared framebuffer that reads sprites from the given memory.
func New(memory ByteReader) *Graphics {
	return &Graphics{
		memory: memory,
	}
}

// Reset clears the display.
func (g *Graphics) Reset() {
	g.ClearDisplay()
}

// ClearDisplay turns off all pixels and signals a refresh.
func (g *Graphics) ClearDisplay() {
	g.frame = Frame{}
	g.refresh = true
}

// DrawSprite XORs a sprite of the given height, read from memory at address,
// onto the framebuffer at x,y. Each sprite row is one byte, the most
// significant bit being the leftmost pixel. Pixels outside of the screen are
// clipped. It returns whether any set pixel was turned off.
func (g *Graphics) DrawSprite(x, y, height uint8, address uint16) (bool, error) {
	collision := false

	for row := range uint16(height) {
		data, err := g.memory.ReadByte(address + row)
		if err != nil {
			return collision, fmt.Errorf("reading sprite row %d: %w", row, err)
		}

		py := int(y) + int(row)
		if py >= Height {
			continue
		}

		for col := range 8 {
			if data&(0x80>>col) == 0 {
				continue
			}
			px := int(x) + col
			if px >= Width {
				continue
			}

			if g.frame[py][px] {
				collision = true
			}
			g.frame[py][px] = !g.frame[py][px]
		}
	}

	g.refresh = true
	return collision, nil
}

// Pixel returns whether the pixel at x,y is set. Coordinates outside of the
// screen return false.
func (g *Graphics) Pixel(x, y int) bool {
	if x < 0 || x >= Width || y < 0 || y >= Height {
		return false
	}
	return g.frame[y][x]
}

// Frame returns a snapshot of the framebuffer.
func (g *Graphics) Frame() Frame {
	return g.frame
}

// TakeRefresh returns whether the framebuffer was refreshed since the last
// call and clears the refresh signal.
func (g *Graphics) TakeRefresh() bool {
	r := g.refresh
	g.refresh = false
	return r
}
